package solver

import (
	"bytes"
	"strings"
	"testing"
)

func TestReachabilityOpening(t *testing.T) {
	s := solvedTiny(t)
	init := s.Universe().InitialIndex()
	r := Reach(s, 0)

	if !r.Reachable(0, 0, 0, 0, init) {
		t.Fatal("opening state not reachable")
	}
	// Player 0 can bust the first roll, handing player 1 a fresh turn.
	if !r.Reachable(1, 0, 0, 0, init) {
		t.Error("second player's opening turn not reachable")
	}
	// A turn total requires dice out of the cup; a full cup with banked
	// brains is contradictory.
	if r.Reachable(0, 0, 0, testConfig.Ceiling, init) {
		t.Error("full cup with a nonzero turn total marked reachable")
	}
}

func TestReachabilityRollSuccessors(t *testing.T) {
	s := solvedTiny(t)
	g := s.game
	r := Reach(s, 1) // player 0 free, player 1 optimal

	// The free player may always roll, so every first-roll successor of the
	// opening state must be reachable.
	for _, o := range g.kern.Outcomes[g.initial] {
		if o.Next < 0 {
			continue
		}
		if !r.Reachable(0, 0, 0, o.Brains, o.Next) {
			t.Errorf("first-roll successor %d (brains %d) not reachable", o.Next, o.Brains)
		}
	}
}

func TestWriteTieCSV(t *testing.T) {
	s := solvedTiny(t)
	r := Reach(s, 0)

	// Scores 0-0 are trivially tied, and the whole opening turn plays there.
	var buf bytes.Buffer
	if err := r.WriteTieCSV(&buf, 0, false); err != nil {
		t.Fatalf("WriteTieCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "action,player,score,opponent_score,turn_total,sg,sy,sr,fg,fy,fr,cg,cy,cr" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines) < 2 {
		t.Fatal("no reachable tie states written")
	}
	for _, line := range lines[1:] {
		if !strings.HasPrefix(line, "roll,") && !strings.HasPrefix(line, "hold,") {
			t.Fatalf("malformed row %q", line)
		}
		if got := strings.Count(line, ","); got != 13 {
			t.Fatalf("row %q has %d commas, want 13", line, got)
		}
	}

	var rollsOnly bytes.Buffer
	if err := r.WriteTieCSV(&rollsOnly, testConfig.Goal, true); err != nil {
		t.Fatalf("WriteTieCSV(onlyRoll): %v", err)
	}
	for _, line := range strings.Split(strings.TrimSpace(rollsOnly.String()), "\n")[1:] {
		if strings.HasPrefix(line, "hold,") {
			t.Fatalf("hold row %q in roll-only export", line)
		}
	}
}

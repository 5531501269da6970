package solver

import (
	"sync"
	"testing"

	"github.com/yourusername/zdengine/internal/dicestate"
	"github.com/yourusername/zdengine/internal/kernel"
)

// Solving the standard goal of 13 takes hours, so the tests solve a scaled
// down race to 2 with a ceiling of 4. Every structural property under test
// is goal-independent.
var testConfig = Config{Goal: 2, Ceiling: 4, Epsilon: 1e-12}

var (
	solveOnce  sync.Once
	testKernel *kernel.Kernel
	testSolver *Solver
)

func solvedTiny(t *testing.T) *Solver {
	t.Helper()
	solveOnce.Do(func() {
		testKernel = kernel.Build(dicestate.Enumerate())
		testSolver = NewFromKernel(testConfig, testKernel)
		testSolver.Solve()
	})
	return testSolver
}

func TestWinProbTerminals(t *testing.T) {
	s := solvedTiny(t)
	goal := testConfig.Goal
	ceiling := testConfig.Ceiling
	init := s.Universe().InitialIndex()

	tests := []struct {
		name                          string
		player, score, opp, turnTotal int
		want                          float64
	}{
		{"round complete, ahead at goal", 0, goal, 0, 0, 1},
		{"opponent finished first ahead", 0, 0, goal, 0, 0},
		{"second player held out a win", 1, goal, 0, 0, 1},
		{"second player can win in hand", 1, 0, 0, goal, 1},
		{"both pinned at the ceiling", 0, ceiling, ceiling, 0, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.WinProb(tt.player, tt.score, tt.opp, tt.turnTotal, init)
			if got != tt.want {
				t.Errorf("WinProb(%d,%d,%d,%d) = %v, want %v",
					tt.player, tt.score, tt.opp, tt.turnTotal, got, tt.want)
			}
		})
	}
}

func TestWinProbClamping(t *testing.T) {
	s := solvedTiny(t)
	ceiling := testConfig.Ceiling
	init := s.Universe().InitialIndex()

	at := s.WinProb(1, ceiling, 3, 0, init)
	over := s.WinProb(1, ceiling+7, 3, 0, init)
	if at != over {
		t.Errorf("score above ceiling not clamped: %v != %v", over, at)
	}

	at = s.WinProb(0, 3, 3, ceiling-3, init)
	over = s.WinProb(0, 3, 3, ceiling, init)
	if at != over {
		t.Errorf("turn total above ceiling not clamped: %v != %v", over, at)
	}
}

func TestWinProbRange(t *testing.T) {
	s := solvedTiny(t)
	init := s.Universe().InitialIndex()

	opening := s.WinProb(0, 0, 0, 0, init)
	if opening <= 0 || opening >= 1 {
		t.Fatalf("opening win probability %v outside (0, 1)", opening)
	}

	for player := 0; player < NumPlayers; player++ {
		for score := 0; score <= testConfig.Ceiling; score++ {
			for opp := 0; opp <= testConfig.Ceiling; opp++ {
				for turnTotal := 0; turnTotal <= testConfig.Ceiling-score; turnTotal++ {
					v := s.WinProb(player, score, opp, turnTotal, init)
					if v < 0 || v > 1 {
						t.Fatalf("WinProb(%d,%d,%d,%d) = %v outside [0, 1]",
							player, score, opp, turnTotal, v)
					}
				}
			}
		}
	}
}

func TestOptimalActionEndpoints(t *testing.T) {
	s := solvedTiny(t)
	goal := testConfig.Goal
	fresh := dicestate.Initial()

	// Holding wins outright: rolling can never beat probability 1, and ties
	// prefer holding.
	if s.WillRoll(1, goal, 0, 0, fresh) {
		t.Error("second player rolls with a held win in hand")
	}
	if s.WillRoll(1, 0, 0, goal, fresh) {
		t.Error("second player rolls instead of holding the winning total")
	}

	// Holding loses outright: the round finisher must chase the leader.
	if !s.WillRoll(1, 0, goal, 0, fresh) {
		t.Error("second player holds into a completed loss")
	}
}

func TestSolverNeverRollsWorseThanHolding(t *testing.T) {
	s := solvedTiny(t)
	init := s.Universe().InitialIndex()

	// The stored value is the max of the two action values, so it is always
	// at least the hold value.
	for player := 0; player < NumPlayers; player++ {
		for score := 0; score < testConfig.Goal; score++ {
			for opp := 0; opp < testConfig.Goal; opp++ {
				for turnTotal := 0; turnTotal <= testConfig.Ceiling-score; turnTotal++ {
					v := s.WinProb(player, score, opp, turnTotal, init)
					hold := 1 - s.WinProb(1-player, opp, score+turnTotal, 0, init)
					if v < hold-1e-9 {
						t.Fatalf("state (%d,%d,%d,%d): value %v below hold value %v",
							player, score, opp, turnTotal, v, hold)
					}
				}
			}
		}
	}
}

func TestRollRegionsNestByShotguns(t *testing.T) {
	s := solvedTiny(t)
	u := s.Universe()

	// If rolling is optimal on the brink of busting, it must also be optimal
	// from the same position with no shotguns showing: relaxing the shotgun
	// dice to banked brains leaves the cup and the hold value unchanged and
	// only adds bust slack.
	for i := 0; i < u.NumStates(); i++ {
		dice := u.At(i)
		if dice.ShotgunTotal() != dicestate.MaxShotguns {
			continue
		}
		relaxed := dice
		relaxed.Shotgun = [dicestate.NumColors]int{}

		for player := 0; player < NumPlayers; player++ {
			for score := 0; score < testConfig.Goal; score++ {
				for opp := 0; opp < testConfig.Goal; opp++ {
					for turnTotal := 0; turnTotal <= testConfig.Ceiling-score; turnTotal++ {
						if s.WillRoll(player, score, opp, turnTotal, dice) &&
							!s.WillRoll(player, score, opp, turnTotal, relaxed) {
							t.Fatalf("state (%d,%d,%d,%d) rolls with dice %+v but holds with %+v",
								player, score, opp, turnTotal, dice, relaxed)
						}
					}
				}
			}
		}
	}
}

func TestHoldThresholds(t *testing.T) {
	h := HoldThresholds{}
	shotguns := func(g, y, r int) dicestate.Counts {
		c := dicestate.Initial()
		c.Shotgun = [dicestate.NumColors]int{g, y, r}
		for color, n := range c.Shotgun {
			c.Supply[color] -= n
		}
		return c
	}

	tests := []struct {
		name                          string
		player, score, opp, turnTotal int
		dice                          dicestate.Counts
		want                          bool
	}{
		{"no shotguns always rolls", 0, 10, 10, 2, shotguns(0, 0, 0), true},
		{"one shotgun, few brains", 0, 0, 0, 3, shotguns(1, 0, 0), true},
		{"one shotgun, enough brains", 0, 0, 0, 4, shotguns(1, 0, 0), false},
		{"one shotgun, chasing a near goal", 0, 5, 12, 6, shotguns(0, 1, 0), true},
		{"one shotgun, hold beats the chase", 0, 10, 8, 5, shotguns(0, 1, 0), false},
		{"two shotguns, brains to protect", 0, 0, 0, 1, shotguns(1, 1, 0), false},
		{"two shotguns, reds nearly spent", 0, 0, 0, 2, shotguns(0, 0, 2), true},
		{"forced chase when completing the round", 1, 0, 13, 0, shotguns(1, 1, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.WillRoll(tt.player, tt.score, tt.opp, tt.turnTotal, tt.dice)
			if got != tt.want {
				t.Errorf("WillRoll(%d,%d,%d,%d,%+v) = %v, want %v",
					tt.player, tt.score, tt.opp, tt.turnTotal, tt.dice, got, tt.want)
			}
		})
	}
}

package solver

import (
	"fmt"
	"io"

	"github.com/yourusername/zdengine/internal/dicestate"
	"github.com/yourusername/zdengine/internal/kernel"
)

// Reachability marks every game state one player could steer into when the
// other plays the solved optimal policy. The constrained seat follows the
// optimal action exactly; the free seat may take either action.
type Reachability struct {
	game *game
	s    *Solver
	seat int // the seat bound to optimal play
	bits []uint64
}

type reachState struct {
	player, score, opp, turnTotal, ds int
}

// Reach explores the game graph from the opening state with the given seat
// (0 or 1) bound to solver's policy. The walk is an explicit work list; the
// state graph is far too deep for recursion.
func Reach(s *Solver, seat int) *Reachability {
	g := s.game
	r := &Reachability{
		game: g,
		s:    s,
		seat: seat,
		bits: make([]uint64, (g.tableLen()+63)/64),
	}

	stack := []reachState{{0, 0, 0, 0, g.initial}}
	for len(stack) > 0 {
		st := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		st.score, st.opp, st.turnTotal = g.clamp(st.score, st.opp, st.turnTotal)
		off := g.offset(st.player, st.score, st.opp, st.turnTotal, st.ds)
		if r.bits[off/64]&(1<<(off%64)) != 0 {
			continue
		}
		r.bits[off/64] |= 1 << (off % 64)

		// A round is complete when play returns to player 0 with a fresh
		// cup. If someone has reached the goal without a tie (or the tie is
		// pinned at the ceiling), the game is over here.
		if st.player == 0 && st.ds == g.initial &&
			(st.score >= g.goal || st.opp >= g.goal) &&
			(st.score != st.opp || st.score == g.ceiling) {
			continue
		}

		willRoll := s.WillRoll(st.player, st.score, st.opp, st.turnTotal, g.kern.Universe.At(st.ds))

		if st.player != r.seat || willRoll {
			for _, o := range g.kern.Outcomes[st.ds] {
				if o.Next == kernel.Busted {
					stack = append(stack, reachState{1 - st.player, st.opp, st.score, 0, g.initial})
				} else {
					stack = append(stack, reachState{st.player, st.score, st.opp, st.turnTotal + o.Brains, o.Next})
				}
			}
		}
		if st.player != r.seat || !willRoll {
			stack = append(stack, reachState{1 - st.player, st.opp, st.score + st.turnTotal, 0, g.initial})
		}
	}
	return r
}

// Reachable reports whether the state can occur in such a game.
func (r *Reachability) Reachable(player, score, opp, turnTotal, ds int) bool {
	score, opp, turnTotal = r.game.clamp(score, opp, turnTotal)
	off := r.game.offset(player, score, opp, turnTotal, ds)
	return r.bits[off/64]&(1<<(off%64)) != 0
}

// WriteTieCSV writes the reachable states at a given tied score as CSV, one
// row per (seat, turn total, dice state), together with the optimal action.
// With onlyRoll set, hold states are skipped.
func (r *Reachability) WriteTieCSV(w io.Writer, tieScore int, onlyRoll bool) error {
	g := r.game
	if _, err := fmt.Fprintln(w, "action,player,score,opponent_score,turn_total,sg,sy,sr,fg,fy,fr,cg,cy,cr"); err != nil {
		return err
	}
	for player := 0; player < NumPlayers; player++ {
		for turnTotal := 0; turnTotal <= g.ceiling-tieScore; turnTotal++ {
			for ds := 0; ds < g.n; ds++ {
				if !r.Reachable(player, tieScore, tieScore, turnTotal, ds) {
					continue
				}
				dice := g.kern.Universe.At(ds)
				willRoll := r.s.WillRoll(player, tieScore, tieScore, turnTotal, dice)
				if onlyRoll && !willRoll {
					continue
				}
				action := "hold"
				if willRoll {
					action = "roll"
				}
				_, err := fmt.Fprintf(w, "%s,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d\n",
					action, player, tieScore, tieScore, turnTotal,
					dice.Shotgun[dicestate.Green], dice.Shotgun[dicestate.Yellow], dice.Shotgun[dicestate.Red],
					dice.Footprint[dicestate.Green], dice.Footprint[dicestate.Yellow], dice.Footprint[dicestate.Red],
					dice.Supply[dicestate.Green], dice.Supply[dicestate.Yellow], dice.Supply[dicestate.Red])
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

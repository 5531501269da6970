// Package yellow solves All Yellow Zombie Dice, a reduced variant played
// with three identical yellow dice. With one color there is no cup to track:
// a turn is just the brain count and the shotgun count, so the whole game
// fits a small table and solves in seconds. The variant is the testbed for
// the full solver's machinery and a donor of opening heuristics.
package yellow

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/yourusername/zdengine/internal/dicestate"
	"github.com/yourusername/zdengine/pkg/solver"
)

// Game parameters. The ceiling is three times the goal; the variant's score
// tail is longer than the full game's because every die is identical.
const (
	DefaultGoal    = 13
	DefaultEpsilon = 1e-14
	numDice        = 3
	maxShotguns    = 2
)

// Config selects the goal and convergence threshold.
type Config struct {
	Goal    int
	Epsilon float64
}

func (c Config) withDefaults() Config {
	if c.Goal == 0 {
		c.Goal = DefaultGoal
	}
	if c.Epsilon == 0 {
		c.Epsilon = DefaultEpsilon
	}
	return c
}

// state is the composite value-table key: seat, banked scores, turn total
// and shotguns rolled this turn.
type state struct {
	p, i, j, b, s int
}

// Solver holds the converged tables of the reduced game.
type Solver struct {
	goal    int
	ceiling int
	epsilon float64

	pWin map[state]float64
	roll map[state]bool

	// pRollOutcome[brains][shotguns] is the chance one roll of three dice
	// shows exactly that many brains and shotguns.
	pRollOutcome [numDice + 1][numDice + 1]float64

	reachable map[state]bool
	maxReach  int
}

// New builds and solves the reduced game.
func New(cfg Config) *Solver {
	cfg = cfg.withDefaults()
	s := &Solver{
		goal:    cfg.Goal,
		ceiling: 3 * cfg.Goal,
		epsilon: cfg.Epsilon,
		pWin:    make(map[state]float64),
		roll:    make(map[state]bool),
	}
	s.initRollOutcomes()
	s.solve()
	return s
}

// initRollOutcomes fills the three-dice multinomial: every face class covers
// two of six sides, so each assignment of three dice has weight 2^3 over
// 6^3, i.e. each (brains, shotguns, footprints) split counts its orderings
// over 27.
func (s *Solver) initRollOutcomes() {
	for brains := 0; brains <= numDice; brains++ {
		for shotguns := 0; shotguns <= numDice-brains; shotguns++ {
			orderings := combin.Binomial(numDice, brains) * combin.Binomial(numDice-brains, shotguns)
			s.pRollOutcome[brains][shotguns] = float64(orderings) / 27.0
		}
	}
}

// solve is Gauss-Seidel value iteration in descending total-score order, so
// each sweep reads mostly already-updated values.
func (s *Solver) solve() {
	for {
		maxChange := 0.0
		for p := 0; p < 2; p++ {
			for sh := maxShotguns; sh >= 0; sh-- {
				for totalScore := 2 * s.ceiling; totalScore >= 0; totalScore-- {
					for i := s.ceiling; i >= 0; i-- {
						j := totalScore - i
						if j < 0 || j > s.ceiling {
							continue
						}
						for b := s.ceiling - i; b >= 0; b-- {
							if change := s.update(p, i, j, b, sh); change > maxChange {
								maxChange = change
							}
						}
					}
				}
			}
		}
		if maxChange <= s.epsilon {
			return
		}
	}
}

func (s *Solver) update(p, i, j, b, sh int) float64 {
	key := state{p, i, j, b, sh}

	// Settled states keep their terminal value and never roll.
	if (i >= s.goal && j < i) || (p == 1 && i+b >= s.goal && i+b > j) {
		s.pWin[key] = 1.0
		s.roll[key] = false
		return 0
	}
	if p == 0 && j >= s.goal && i < j {
		s.pWin[key] = 0.0
		s.roll[key] = false
		return 0
	}

	prev := s.pWin[key]

	pWinRoll := 0.0
	for brains := 0; brains <= numDice; brains++ {
		for shotguns := 0; shotguns <= numDice-brains; shotguns++ {
			pRoll := s.pRollOutcome[brains][shotguns]
			if sh+shotguns > maxShotguns {
				pWinRoll += pRoll * (1 - s.WinProb(1-p, j, i, 0, 0))
			} else {
				pWinRoll += pRoll * s.WinProb(p, i, j, b+brains, sh+shotguns)
			}
		}
	}

	pWinHold := 1 - s.WinProb(1-p, j, i+b, 0, 0)

	rolling := pWinRoll > pWinHold
	v := pWinHold
	if rolling {
		v = pWinRoll
	}
	s.roll[key] = rolling
	s.pWin[key] = v
	return math.Abs(v - prev)
}

func (s *Solver) clamp(i, j, b int) (int, int, int) {
	if i > s.ceiling {
		i = s.ceiling
	}
	if j > s.ceiling {
		j = s.ceiling
	}
	if i+b > s.ceiling {
		b = s.ceiling - i
	}
	return i, j, b
}

// WinProb returns the current player's winning probability with sh shotguns
// already rolled this turn. Out-of-range scores clamp; game-over states are
// answered directly.
func (s *Solver) WinProb(p, i, j, b, sh int) float64 {
	i, j, b = s.clamp(i, j, b)
	if p == 0 && i < s.goal && j >= s.goal {
		return 0.0
	}
	if p == 0 && i >= s.goal && i > j && b == 0 {
		return 1.0
	}
	if p == 1 && i+b >= s.goal && i+b > j {
		return 1.0
	}
	if i == s.ceiling && j == s.ceiling {
		return 0.5
	}
	return s.pWin[state{p, i, j, b, sh}]
}

// WillRoll reports the optimal action.
func (s *Solver) WillRoll(p, i, j, b, sh int) bool {
	i, j, b = s.clamp(i, j, b)
	return s.roll[state{p, i, j, b, sh}]
}

// Goal returns the winning score.
func (s *Solver) Goal() int { return s.goal }

// Ceiling returns the score cap.
func (s *Solver) Ceiling() int { return s.ceiling }

// RollInclusionHolds checks that the roll regions nest by shotgun count:
// any state worth rolling with more shotguns must also be worth rolling
// with fewer.
func (s *Solver) RollInclusionHolds() bool {
	for p := 0; p < 2; p++ {
		for i := 0; i <= s.ceiling; i++ {
			for j := 0; j <= s.ceiling; j++ {
				for b := 0; b <= s.ceiling-i; b++ {
					if (s.WillRoll(p, i, j, b, 2) && !s.WillRoll(p, i, j, b, 1)) ||
						(s.WillRoll(p, i, j, b, 1) && !s.WillRoll(p, i, j, b, 0)) {
						return false
					}
				}
			}
		}
	}
	return true
}

// MinHoldValue returns the smallest turn total at which the player holds, at
// the given scores and shotgun count.
func (s *Solver) MinHoldValue(p, i, j, sh int) int {
	b := 0
	for b+1 < s.ceiling && s.WillRoll(p, i, j, b, sh) {
		b++
	}
	return b
}

// ComputeReachability marks the states reachable from (p, i, j, b, sh) when
// both players follow the solved policy, and records the largest banked
// score plus turn total seen. The walk uses an explicit work list.
func (s *Solver) ComputeReachability(p, i, j, b, sh int) {
	s.reachable = make(map[state]bool)
	s.maxReach = 0

	type frame = state
	stack := []frame{{p, i, j, b, sh}}
	for len(stack) > 0 {
		st := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		st.i, st.j, st.b = s.clamp(st.i, st.j, st.b)
		if s.reachable[st] {
			continue
		}
		s.reachable[st] = true
		if st.i+st.b > s.maxReach {
			s.maxReach = st.i + st.b
		}

		if s.roll[st] {
			stack = append(stack, frame{1 - st.p, st.j, st.i, 0, 0}) // bust
			for brains := 0; brains <= numDice; brains++ {
				for shotguns := 0; shotguns <= numDice-brains; shotguns++ {
					if st.s+shotguns > maxShotguns {
						break
					}
					stack = append(stack, frame{st.p, st.i, st.j, st.b + brains, st.s + shotguns})
				}
			}
		} else {
			stack = append(stack, frame{1 - st.p, st.j, st.i + st.b, 0, 0})
		}
	}
}

// Reachable reports whether ComputeReachability marked the state.
func (s *Solver) Reachable(p, i, j, b, sh int) bool {
	i, j, b = s.clamp(i, j, b)
	return s.reachable[state{p, i, j, b, sh}]
}

// MaxReachableScore returns the largest i+b seen by ComputeReachability.
func (s *Solver) MaxReachableScore() int { return s.maxReach }

// ExportCSV writes the full solved table, one row per state, with the
// optimal action, win probability and reachability flag.
func (s *Solver) ExportCSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "p,i,j,b,s,roll,pWin,reachable"); err != nil {
		return err
	}
	for p := 0; p < 2; p++ {
		for i := 0; i <= s.ceiling; i++ {
			for j := 0; j <= s.ceiling; j++ {
				for b := 0; b <= s.ceiling-i; b++ {
					for sh := 0; sh <= maxShotguns; sh++ {
						rollFlag, reachFlag := 0, 0
						if s.WillRoll(p, i, j, b, sh) {
							rollFlag = 1
						}
						if s.reachable[state{p, i, j, b, sh}] {
							reachFlag = 1
						}
						_, err := fmt.Fprintf(w, "%d,%d,%d,%d,%d,%d,%f,%d\n",
							p, i, j, b, sh, rollFlag, s.WinProb(p, i, j, b, sh), reachFlag)
						if err != nil {
							return err
						}
					}
				}
			}
		}
	}
	return nil
}

// FullGamePolicy adapts the reduced solution to the full game's policy
// interface by reading only the shotgun total, the one dimension the two
// games share.
func (s *Solver) FullGamePolicy() solver.Policy {
	return shotgunOnlyPolicy{s}
}

type shotgunOnlyPolicy struct {
	s *Solver
}

func (a shotgunOnlyPolicy) WillRoll(player, score, opp, turnTotal int, dice dicestate.Counts) bool {
	return a.s.WillRoll(player, score, opp, turnTotal, dice.ShotgunTotal())
}

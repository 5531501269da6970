package solver

import (
	"log"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yourusername/zdengine/internal/dicestate"
	"github.com/yourusername/zdengine/internal/kernel"
)

// Config selects the game parameters and convergence threshold for a solve.
type Config struct {
	// Goal is the winning score. Defaults to 13.
	Goal int
	// Ceiling caps representable scores. Raising it trades memory and time
	// for accuracy in long tie-breaker tails. Defaults to 2*Goal.
	Ceiling int
	// Epsilon is the value-iteration convergence threshold. Defaults to 1e-14.
	Epsilon float64
	// Verbose logs sweep progress.
	Verbose bool
}

func (c Config) withDefaults() Config {
	if c.Goal == 0 {
		c.Goal = DefaultGoal
	}
	if c.Ceiling == 0 {
		c.Ceiling = 2 * c.Goal
	}
	if c.Epsilon == 0 {
		c.Epsilon = DefaultEpsilon
	}
	return c
}

// Solver holds the win-probability and action tables of a (possibly not yet
// converged) solve. A converged Solver is an optimal Policy.
type Solver struct {
	cfg  Config
	game *game
	pWin []float64
	roll []bool
}

// New enumerates the dice state space, builds the transition kernel and
// allocates zeroed tables. Call Solve (or use LoadOrSolve) before querying.
func New(cfg Config) *Solver {
	return NewFromKernel(cfg, kernel.Build(dicestate.Enumerate()))
}

// NewFromKernel is New with a prebuilt kernel, so several solvers can share
// the expensive transition tables.
func NewFromKernel(cfg Config, k *kernel.Kernel) *Solver {
	cfg = cfg.withDefaults()
	g := newGame(cfg.Goal, cfg.Ceiling, k)
	return &Solver{
		cfg:  cfg,
		game: g,
		pWin: make([]float64, g.tableLen()),
		roll: make([]bool, g.tableLen()),
	}
}

// Config returns the solve parameters after defaulting.
func (s *Solver) Config() Config { return s.cfg }

// Universe returns the enumerated dice state space backing the tables.
func (s *Solver) Universe() *dicestate.Universe { return s.game.kern.Universe }

// Solve runs Gauss-Seidel value iteration to convergence. Sweeps walk states
// outward by distance from the score ceiling so that value flows from the
// late game toward the opening in a single pass once the tail has settled.
func (s *Solver) Solve() {
	g := s.game
	p := message.NewPrinter(language.English)
	if s.cfg.Verbose {
		log.Print(p.Sprintf("value iteration over %d dice states, score ceiling %d", g.n, g.ceiling))
	}

	sweep := 0
	for {
		maxChange := 0.0
		for dist := 0; dist <= 2*g.ceiling; dist++ {
			minScore := max(0, g.goal-dist)
			for score := g.ceiling; score >= minScore; score-- {
				minOpp := max(0, g.goal-score-dist)
				for opp := g.ceiling; opp >= minOpp; opp-- {
					for turnTotal := g.ceiling - score; turnTotal >= 0; turnTotal-- {
						for player := 0; player < NumPlayers; player++ {
							change := s.update(player, score, opp, turnTotal)
							if change > maxChange {
								maxChange = change
							}
						}
					}
				}
			}
		}
		sweep++
		if s.cfg.Verbose {
			log.Print(p.Sprintf("sweep %d: max change %.3g", sweep, maxChange))
		}
		if maxChange <= s.cfg.Epsilon {
			break
		}
	}
	if s.cfg.Verbose {
		log.Printf("converged: first-player win probability %.17g",
			s.WinProb(0, 0, 0, 0, g.initial))
	}
}

// update recomputes every dice state at one score coordinate in place and
// returns the largest value change.
func (s *Solver) update(player, score, opp, turnTotal int) float64 {
	g := s.game
	maxChange := 0.0
	for ds := 0; ds < g.n; ds++ {
		off := g.offset(player, score, opp, turnTotal, ds)
		prev := s.pWin[off]

		pWinRoll := 0.0
		total := float64(g.kern.Totals[ds])
		for _, o := range g.kern.Outcomes[ds] {
			prob := float64(o.Weight) / total
			if o.Next == kernel.Busted {
				pWinRoll += prob * (1 - s.WinProb(1-player, opp, score, 0, g.initial))
			} else {
				pWinRoll += prob * s.WinProb(player, score, opp, turnTotal+o.Brains, o.Next)
			}
		}
		if pWinRoll > 1.0 {
			pWinRoll = 1.0 // floating point sums can spill over
		}

		pWinHold := 1 - s.WinProb(1-player, opp, score+turnTotal, 0, g.initial)

		rolling := pWinRoll > pWinHold
		pWinMax := pWinHold
		if rolling {
			pWinMax = pWinRoll
		}
		s.roll[off] = rolling
		s.pWin[off] = pWinMax
		if change := math.Abs(pWinMax - prev); change > maxChange {
			maxChange = change
		}
	}
	return maxChange
}

// WinProb returns the current player's probability of winning from a game
// state, with out-of-range scores clamped and game-over states answered
// without a table read. ds is a dense dice state index.
func (s *Solver) WinProb(player, score, opp, turnTotal, ds int) float64 {
	g := s.game
	score, opp, turnTotal = g.clamp(score, opp, turnTotal)
	if v, done := g.terminal(player, score, opp, turnTotal); done {
		return v
	}
	return s.pWin[g.offset(player, score, opp, turnTotal, ds)]
}

// WillRoll implements Policy with the solved action table.
func (s *Solver) WillRoll(player, score, opp, turnTotal int, dice dicestate.Counts) bool {
	g := s.game
	score, opp, turnTotal = g.clamp(score, opp, turnTotal)
	ds := g.kern.Universe.Index(dicestate.Encode(dice))
	if ds < 0 {
		panic("solver: dice state outside enumerated space")
	}
	return s.roll[g.offset(player, score, opp, turnTotal, ds)]
}

var _ Policy = (*Solver)(nil)

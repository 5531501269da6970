package solver

import (
	"log"
	"math"

	"github.com/yourusername/zdengine/internal/kernel"
)

// Evaluation holds the converged head-to-head win probabilities of two fixed
// policies. Table a answers "policy a is the player to move here, playing
// the rest of the game against policy b", and table b the reverse, so each
// policy's opponent-turn values come from the other table.
type Evaluation struct {
	game  *game
	pWinA []float64
	pWinB []float64
	rollA []bool
	rollB []bool
}

// Evaluate pins both policies' decisions, then runs the solver's sweep with
// the action dictated instead of maximized, to convergence at epsilon.
func Evaluate(a, b Policy, cfg Config) *Evaluation {
	cfg = cfg.withDefaults()
	s := New(cfg)
	return EvaluateWith(s, a, b)
}

// EvaluateWith is Evaluate reusing an existing solver's dimensions and
// transition kernel. The solver's own tables are not consulted.
func EvaluateWith(s *Solver, a, b Policy) *Evaluation {
	g := s.game
	e := &Evaluation{
		game:  g,
		pWinA: make([]float64, g.tableLen()),
		pWinB: make([]float64, g.tableLen()),
		rollA: make([]bool, g.tableLen()),
		rollB: make([]bool, g.tableLen()),
	}
	e.samplePolicies(a, b)
	e.iterate(s.cfg)
	return e
}

// samplePolicies asks each policy once per state so the sweeps never call
// back into (possibly slow) policy code.
func (e *Evaluation) samplePolicies(a, b Policy) {
	g := e.game
	u := g.kern.Universe
	for player := 0; player < NumPlayers; player++ {
		for score := 0; score <= g.ceiling; score++ {
			for opp := 0; opp <= g.ceiling; opp++ {
				for turnTotal := 0; turnTotal <= g.ceiling-score; turnTotal++ {
					for ds := 0; ds < g.n; ds++ {
						dice := u.At(ds)
						off := g.offset(player, score, opp, turnTotal, ds)
						e.rollA[off] = a.WillRoll(player, score, opp, turnTotal, dice)
						e.rollB[off] = b.WillRoll(player, score, opp, turnTotal, dice)
					}
				}
			}
		}
	}
}

func (e *Evaluation) iterate(cfg Config) {
	g := e.game
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
							for ds := 0; ds < g.n; ds++ {
								c := e.update(e.pWinA, e.pWinB, e.rollA, player, score, opp, turnTotal, ds)
								if c > maxChange {
									maxChange = c
								}
								c = e.update(e.pWinB, e.pWinA, e.rollB, player, score, opp, turnTotal, ds)
								if c > maxChange {
									maxChange = c
								}
							}
						}
					}
				}
			}
		}
		sweep++
		if cfg.Verbose {
			log.Printf("evaluation sweep %d: max change %.3g", sweep, maxChange)
		}
		if maxChange <= cfg.Epsilon {
			return
		}
	}
}

// update recomputes one state of the table `own`, reading the opposing
// policy's table `other` for every change of turn.
func (e *Evaluation) update(own, other []float64, roll []bool, player, score, opp, turnTotal, ds int) float64 {
	g := e.game
	off := g.offset(player, score, opp, turnTotal, ds)
	prev := own[off]

	var v float64
	if roll[off] {
		total := float64(g.kern.Totals[ds])
		for _, o := range g.kern.Outcomes[ds] {
			prob := float64(o.Weight) / total
			if o.Next == kernel.Busted {
				v += prob * (1 - e.winProb(other, 1-player, opp, score, 0, g.initial))
			} else {
				v += prob * e.winProb(own, player, score, opp, turnTotal+o.Brains, o.Next)
			}
		}
		if v > 1.0 {
			v = 1.0
		}
	} else {
		v = 1 - e.winProb(other, 1-player, opp, score+turnTotal, 0, g.initial)
	}
	own[off] = v
	return math.Abs(v - prev)
}

func (e *Evaluation) winProb(table []float64, player, score, opp, turnTotal, ds int) float64 {
	g := e.game
	score, opp, turnTotal = g.clamp(score, opp, turnTotal)
	if v, done := g.terminal(player, score, opp, turnTotal); done {
		return v
	}
	return table[g.offset(player, score, opp, turnTotal, ds)]
}

// WinProbA returns policy a's winning probability as the player to move.
func (e *Evaluation) WinProbA(player, score, opp, turnTotal, ds int) float64 {
	return e.winProb(e.pWinA, player, score, opp, turnTotal, ds)
}

// WinProbB returns policy b's winning probability as the player to move.
func (e *Evaluation) WinProbB(player, score, opp, turnTotal, ds int) float64 {
	return e.winProb(e.pWinB, player, score, opp, turnTotal, ds)
}

// Summary reduces the evaluation to per-seat and average win rates from the
// opening state.
type Summary struct {
	FirstA, FirstB     float64 // win rate opening the game
	SecondA, SecondB   float64 // win rate playing second
	AverageA, AverageB float64
}

func (e *Evaluation) Summarize() Summary {
	g := e.game
	var s Summary
	s.FirstA = e.WinProbA(0, 0, 0, 0, g.initial)
	s.FirstB = e.WinProbB(0, 0, 0, 0, g.initial)
	s.SecondA = 1 - s.FirstB
	s.SecondB = 1 - s.FirstA
	s.AverageA = (s.FirstA + s.SecondA) / 2
	s.AverageB = (s.FirstB + s.SecondB) / 2
	return s
}

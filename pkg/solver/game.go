// Package solver computes optimal two-player Zombie Dice play by value
// iteration over the exact turn transition kernel, and provides tooling
// around the solved tables: fixed-policy evaluation, reachability analysis,
// Monte Carlo simulation and on-disk persistence.
package solver

import "github.com/yourusername/zdengine/internal/kernel"

// Default game parameters. The score ceiling is an accuracy knob: play can
// in principle tie upward without bound, so scores are capped and a capped
// double-ceiling state is scored as a draw.
const (
	DefaultGoal    = 13
	DefaultEpsilon = 1e-14
	NumPlayers     = 2
)

// game carries the board dimensions and transition kernel shared by the
// solver, the evaluator and the reachability analysis.
type game struct {
	goal    int
	ceiling int // largest representable score
	kern    *kernel.Kernel
	n       int // dice states
	initial int // dense index of the start-of-turn dice state
}

func newGame(goal, ceiling int, k *kernel.Kernel) *game {
	return &game{
		goal:    goal,
		ceiling: ceiling,
		kern:    k,
		n:       k.Universe.NumStates(),
		initial: k.Universe.InitialIndex(),
	}
}

// tableLen is the flat length of a [player][score][opponent][turnTotal][dice]
// table.
func (g *game) tableLen() int {
	d := g.ceiling + 1
	return NumPlayers * d * d * d * g.n
}

// offset maps a game state to its position in a flat table. All inputs must
// already be clamped.
func (g *game) offset(player, score, opp, turnTotal, ds int) int {
	d := g.ceiling + 1
	return (((player*d+score)*d+opp)*d+turnTotal)*g.n + ds
}

// clamp truncates scores and turn total to the representable range.
func (g *game) clamp(score, opp, turnTotal int) (int, int, int) {
	if score > g.ceiling {
		score = g.ceiling
	}
	if opp > g.ceiling {
		opp = g.ceiling
	}
	if turnTotal > g.ceiling-score {
		turnTotal = g.ceiling - score
	}
	return score, opp, turnTotal
}

// terminal reports whether a clamped state ends the game and, if so, the
// current player's winning probability.
//
// The checks are ordered and seat-asymmetric: a round only completes when
// play returns to player 0, so player 0's win or loss is judged at the start
// of their turn (turnTotal 0), while player 1 wins immediately by holding a
// total that both reaches the goal and beats player 0. Two capped scores are
// scored as a draw.
func (g *game) terminal(player, score, opp, turnTotal int) (float64, bool) {
	if player == 0 && score < g.goal && opp >= g.goal {
		return 0, true
	}
	if player == 0 && score >= g.goal && score > opp && turnTotal == 0 {
		return 1, true
	}
	if player == 0 && opp >= g.goal && score < opp && turnTotal == 0 {
		return 0, true
	}
	if player == 1 && score+turnTotal >= g.goal && score+turnTotal > opp {
		return 1, true
	}
	if score == g.ceiling && opp == g.ceiling {
		return 0.5, true
	}
	return 0, false
}

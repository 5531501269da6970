package solver

import "github.com/yourusername/zdengine/internal/dicestate"

// Policy decides whether to roll again in a given game state. The player is
// 0 for the round opener and 1 for the player completing the round, score
// and opponent are banked scores, and turnTotal is the brains at stake this
// turn.
type Policy interface {
	WillRoll(player, score, opponent, turnTotal int, dice dicestate.Counts) bool
}

// HoldThresholds is a mental-math heuristic: always roll on no shotguns,
// hold at fixed brain thresholds as shotguns accumulate, and chase the
// leader when completing a round would otherwise lose.
type HoldThresholds struct {
	// Goal is the winning score the thresholds are tuned for.
	Goal int
}

func (h HoldThresholds) WillRoll(player, score, opponent, turnTotal int, dice dicestate.Counts) bool {
	goal := h.Goal
	if goal == 0 {
		goal = DefaultGoal
	}
	shotguns := dice.ShotgunTotal()
	redInReach := dice.Footprint[dicestate.Red] + dice.Supply[dicestate.Red]
	held := score + turnTotal

	// Completing the round behind a finished leader: rolling is forced.
	if player == 1 && opponent >= goal && held < opponent {
		return true
	}
	switch {
	case shotguns == 0:
		return true
	case shotguns == 1:
		if opponent >= 8 {
			return held < max(goal, opponent+3)
		}
		return turnTotal < 4
	default:
		if redInReach <= 1 {
			return turnTotal < 3
		}
		return turnTotal < 1
	}
}

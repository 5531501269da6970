// Package api provides the HTTP/JSON query API over a solved Zombie Dice
// policy table.
package api

import (
	"fmt"

	"github.com/yourusername/zdengine/internal/dicestate"
)

// DiceState carries the nine dice counters of a query, using the short
// column names the analysis exports use: shotguns, footprints and cup
// (supply) counts per color.
type DiceState struct {
	ShotgunGreen    int `json:"sg"`
	ShotgunYellow   int `json:"sy"`
	ShotgunRed      int `json:"sr"`
	FootprintGreen  int `json:"fg"`
	FootprintYellow int `json:"fy"`
	FootprintRed    int `json:"fr"`
	CupGreen        int `json:"cg"`
	CupYellow       int `json:"cy"`
	CupRed          int `json:"cr"`
}

// Counts validates the counters and converts them to the engine
// representation.
func (d DiceState) Counts() (dicestate.Counts, error) {
	c := dicestate.Counts{
		Shotgun:   [dicestate.NumColors]int{d.ShotgunGreen, d.ShotgunYellow, d.ShotgunRed},
		Footprint: [dicestate.NumColors]int{d.FootprintGreen, d.FootprintYellow, d.FootprintRed},
		Supply:    [dicestate.NumColors]int{d.CupGreen, d.CupYellow, d.CupRed},
	}
	for color := 0; color < dicestate.NumColors; color++ {
		used := c.Shotgun[color] + c.Footprint[color] + c.Supply[color]
		if c.Shotgun[color] < 0 || c.Footprint[color] < 0 || c.Supply[color] < 0 ||
			used > dicestate.DicePerColor[color] {
			return dicestate.Counts{}, fmt.Errorf("dice counters for color %d exceed the %d available",
				color, dicestate.DicePerColor[color])
		}
	}
	if c.ShotgunTotal() > dicestate.MaxShotguns {
		return dicestate.Counts{}, fmt.Errorf("%d shotguns is a busted turn", c.ShotgunTotal())
	}
	if c.FootprintTotal() > dicestate.HandSize {
		return dicestate.Counts{}, fmt.Errorf("%d footprints exceed the hand size", c.FootprintTotal())
	}
	return c, nil
}

// StateRequest identifies a game state: whose turn it is (0 opens each
// round), both banked scores, the turn total and the dice situation.
type StateRequest struct {
	Player    int       `json:"player"`
	Score     int       `json:"score"`
	Opponent  int       `json:"opponent"`
	TurnTotal int       `json:"turn_total"`
	Dice      DiceState `json:"dice"`
}

// ActionResponse is the optimal decision for a state.
type ActionResponse struct {
	Action  string  `json:"action"` // "roll" or "hold"
	WinProb float64 `json:"win_prob"`
}

// WinProbResponse is the exact win probability of a state.
type WinProbResponse struct {
	WinProb float64 `json:"win_prob"`
}

// SimulateRequest asks for a seat-balanced match between the solved policy
// and an opponent.
type SimulateRequest struct {
	Games    int    `json:"games"`
	Seed     int64  `json:"seed,omitempty"`     // 0 picks a fixed default
	Opponent string `json:"opponent,omitempty"` // "optimal" (default) or "thresholds"
}

// SimulateResponse reports the match outcome for the solved policy.
type SimulateResponse struct {
	Games        int     `json:"games"`
	Wins         int     `json:"wins"`
	OpponentWins int     `json:"opponent_wins"`
	WinRate      float64 `json:"win_rate"`
	CILow        float64 `json:"ci_low"` // 95% confidence bounds
	CIHigh       float64 `json:"ci_high"`
}

// HealthResponse reports server readiness and the solved game parameters.
type HealthResponse struct {
	Status  string     `json:"status"`
	Version string     `json:"version"`
	Ready   bool       `json:"ready"`
	Goal    int        `json:"goal"`
	Ceiling int        `json:"ceiling"`
	Pool    *PoolStats `json:"pool,omitempty"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

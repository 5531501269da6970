package solver

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/zdengine/internal/dicestate"
)

// Simulator plays full games between two policies with real dice draws. It
// is the sanity check on the analytic tables: simulated win rates should
// land inside the confidence interval around the exact probabilities.
type Simulator struct {
	policies [2]Policy
	goal     int
	ceiling  int
	rng      *rand.Rand

	scores    [2]int
	current   int
	turnTotal int
	dice      dicestate.Counts
}

// NewSimulator pairs two policies. first opens every game. The seed fixes
// the whole run; equal seeds replay identical games.
func NewSimulator(first, second Policy, cfg Config, seed int64) *Simulator {
	cfg = cfg.withDefaults()
	return &Simulator{
		policies: [2]Policy{first, second},
		goal:     cfg.Goal,
		ceiling:  cfg.Ceiling,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// PlayGame plays one game to completion and returns the winning seat.
func (sim *Simulator) PlayGame() int {
	sim.scores = [2]int{}
	sim.current = 0
	sim.startTurn()

	for {
		startOfTurn := true
		for {
			if startOfTurn || sim.willRoll() {
				startOfTurn = false
				sim.drawAndRoll()
				if sim.dice.ShotgunTotal() > dicestate.MaxShotguns {
					// Busted: the turn scores nothing.
					sim.current = 1 - sim.current
					sim.startTurn()
					if sim.current == 0 && sim.scores[0] >= sim.goal {
						return 0
					}
					break
				}
				if sim.turnTotal > sim.ceiling-sim.scores[sim.current] {
					sim.turnTotal = sim.ceiling - sim.scores[sim.current]
				}
				continue
			}

			// Hold.
			sim.scores[sim.current] += sim.turnTotal
			sim.current = 1 - sim.current
			sim.startTurn()
			if sim.current == 0 {
				if sim.scores[0] >= sim.goal && sim.scores[0] > sim.scores[1] {
					return 0
				}
				if sim.scores[1] >= sim.goal &&
					(sim.scores[1] > sim.scores[0] || sim.scores[1] == sim.ceiling) {
					return 1
				}
			}
			break
		}
	}
}

func (sim *Simulator) startTurn() {
	sim.turnTotal = 0
	sim.dice = dicestate.Initial()
}

func (sim *Simulator) willRoll() bool {
	cur, opp := sim.current, 1-sim.current
	return sim.policies[cur].WillRoll(cur, sim.scores[cur], sim.scores[opp], sim.turnTotal, sim.dice)
}

// drawAndRoll refills the hand from footprints and random cup draws, then
// rolls it, updating the dice state and turn total.
func (sim *Simulator) drawAndRoll() {
	hand := sim.dice.Footprint
	sim.dice.Footprint = [dicestate.NumColors]int{}
	inHand := hand[0] + hand[1] + hand[2]

	// Cup short of a full hand: take what is there, return banked brains.
	if dicestate.HandSize-inHand > sim.dice.SupplyTotal() {
		for color := 0; color < dicestate.NumColors; color++ {
			hand[color] += sim.dice.Supply[color]
			inHand += sim.dice.Supply[color]
			sim.dice.Supply[color] = 0
		}
		for color := 0; color < dicestate.NumColors; color++ {
			sim.dice.Supply[color] = dicestate.DicePerColor[color] - sim.dice.Shotgun[color] - hand[color]
		}
	}

	// Draw the remaining dice uniformly from the cup.
	for inHand < dicestate.HandSize {
		pick := sim.rng.Intn(sim.dice.SupplyTotal())
		for color := 0; color < dicestate.NumColors; color++ {
			if pick < sim.dice.Supply[color] {
				sim.dice.Supply[color]--
				hand[color]++
				inHand++
				break
			}
			pick -= sim.dice.Supply[color]
		}
	}

	for color := 0; color < dicestate.NumColors; color++ {
		for die := 0; die < hand[color]; die++ {
			face := sim.rng.Intn(dicestate.FacesPerDie)
			switch {
			case face < dicestate.BrainFaces[color]:
				sim.turnTotal++
			case face < dicestate.BrainFaces[color]+dicestate.ShotgunFaces[color]:
				sim.dice.Shotgun[color]++
			default:
				sim.dice.Footprint[color]++
			}
		}
	}
}

// CompareResult aggregates a seat-balanced match between two policies.
type CompareResult struct {
	Games int
	// Wins counts victories for policy a and policy b over all games.
	Wins [2]int

	samples [2][]float64 // per-game win indicators
}

// WinRate returns the observed win fraction of policy a (0) or b (1).
func (r CompareResult) WinRate(policy int) float64 {
	return stat.Mean(r.samples[policy], nil)
}

// ConfidenceInterval returns the 95% normal-approximation interval around a
// policy's observed win rate.
func (r CompareResult) ConfidenceInterval(policy int) (lo, hi float64) {
	mean := stat.Mean(r.samples[policy], nil)
	sd := stat.StdDev(r.samples[policy], nil)
	delta := 1.96 * stat.StdErr(sd, float64(len(r.samples[policy])))
	return mean - delta, mean + delta
}

// Compare plays games split evenly between the two seatings, so neither
// policy banks the first-player advantage.
func Compare(a, b Policy, cfg Config, games int, seed int64) CompareResult {
	res := CompareResult{Games: games}
	half := games / 2

	sim := NewSimulator(a, b, cfg, seed)
	for i := 0; i < half; i++ {
		winner := sim.PlayGame()
		res.record(winner) // winner seat == policy index
	}
	sim = NewSimulator(b, a, cfg, seed+1)
	for i := 0; i < games-half; i++ {
		winner := sim.PlayGame()
		res.record(1 - winner) // seats swapped
	}
	return res
}

func (r *CompareResult) record(policy int) {
	r.Wins[policy]++
	for p := 0; p < 2; p++ {
		won := 0.0
		if p == policy {
			won = 1.0
		}
		r.samples[p] = append(r.samples[p], won)
	}
}

// Gap returns policy b's win-rate edge over policy a with its standard
// error, as a quick significance readout.
func (r CompareResult) Gap() (gap, stderr float64) {
	gap = r.WinRate(1) - r.WinRate(0)
	sd := stat.StdDev(r.samples[1], nil)
	stderr = 2 * stat.StdErr(sd, float64(len(r.samples[1])))
	return gap, math.Abs(stderr)
}

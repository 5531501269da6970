// Package kernel builds the exact single-roll transition distribution over
// the enumerated dice states.
//
// Rolling from a state has two stages of chance: which dice are drawn from
// the cup to refill the hand, and which faces the hand then shows. Both are
// finite, so each state's successor distribution is a short list of
// (weight, next state, brains) triples with an exactly known total weight.
// Weights are integers; probabilities are weight over the state's total.
package kernel

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/yourusername/zdengine/internal/dicestate"
)

// Busted marks a transition that ends the turn with all turn brains lost.
const Busted = -1

// Outcome is one aggregated result of rolling from a state.
type Outcome struct {
	// Weight is the integer probability mass of this outcome.
	Weight int
	// Next is the dense index of the successor state, or Busted.
	Next int
	// Brains is the number of brains rolled (and banked) on the way to Next.
	// It is zero for busted outcomes.
	Brains int
}

// Kernel holds the successor distributions of every enumerated state.
type Kernel struct {
	Universe *dicestate.Universe

	// Outcomes[i] lists state i's successors ordered by ascending state key,
	// with a busted outcome (if any) first.
	Outcomes [][]Outcome

	// Totals[i] is the exact weight sum of Outcomes[i]:
	// C(cup size, dice drawn) * 6^3.
	Totals []int
}

// faceKind indexes the three face categories of a die.
const (
	faceBrain = iota
	faceShotgun
	faceFootprint
	numFaces
)

// Build computes the full transition kernel for a state universe. A weight
// sum that does not match its closed form indicates a programming error in
// the expansion and panics.
func Build(u *dicestate.Universe) *Kernel {
	k := &Kernel{
		Universe: u,
		Outcomes: make([][]Outcome, u.NumStates()),
		Totals:   make([]int, u.NumStates()),
	}
	for i := 0; i < u.NumStates(); i++ {
		k.Outcomes[i], k.Totals[i] = expand(u, u.At(i))
	}
	return k
}

// expand computes one state's successor distribution.
func expand(u *dicestate.Universe, c dicestate.Counts) ([]Outcome, int) {
	// Footprint dice stay in the hand; the rest of the hand is drawn.
	hand := c.Footprint
	need := dicestate.HandSize - c.FootprintTotal()

	// When the cup cannot refill the hand, its last dice are taken as a
	// certainty and the banked brains go back in before the random draw.
	supply := c.Supply
	if need > c.SupplyTotal() {
		for color := 0; color < dicestate.NumColors; color++ {
			hand[color] += supply[color]
			need -= supply[color]
			supply[color] = 0
		}
		for color := 0; color < dicestate.NumColors; color++ {
			supply[color] = dicestate.DicePerColor[color] - c.Shotgun[color] - hand[color]
		}
	}
	supplyTotal := supply[dicestate.Green] + supply[dicestate.Yellow] + supply[dicestate.Red]
	if need > supplyTotal {
		panic("kernel: cup short after reshuffle")
	}

	acc := make(map[int]*Outcome)
	for dg := 0; dg <= min(need, supply[dicestate.Green]); dg++ {
		for dy := 0; dy <= min(need-dg, supply[dicestate.Yellow]); dy++ {
			dr := need - dg - dy
			if dr > supply[dicestate.Red] {
				continue
			}
			draw := [dicestate.NumColors]int{dg, dy, dr}
			drawWeight := combin.Binomial(supply[dicestate.Green], dg) *
				combin.Binomial(supply[dicestate.Yellow], dy) *
				combin.Binomial(supply[dicestate.Red], dr)
			accumulateRolls(u, acc, c, hand, draw, supply, drawWeight)
		}
	}

	outcomes := flatten(acc)
	total := 0
	for _, o := range outcomes {
		total += o.Weight
	}
	want := combin.Binomial(supplyTotal, need) * facePow(dicestate.HandSize)
	if total != want {
		panic(fmt.Sprintf("kernel: weight sum %d != %d for state %+v", total, want, c))
	}
	return outcomes, total
}

// accumulateRolls enumerates the face outcomes of one concrete draw and
// merges them into acc keyed by successor state key (Busted for busts).
func accumulateRolls(u *dicestate.Universe, acc map[int]*Outcome, c dicestate.Counts,
	hand, draw, supply [dicestate.NumColors]int, drawWeight int) {

	// The three dice in hand, as a flat list of colors.
	var colors [dicestate.HandSize]int
	n := 0
	for color := 0; color < dicestate.NumColors; color++ {
		for j := 0; j < hand[color]+draw[color]; j++ {
			colors[n] = color
			n++
		}
	}
	if n != dicestate.HandSize {
		panic("kernel: hand not full")
	}

	faceWeight := [numFaces]*[dicestate.NumColors]int{
		&dicestate.BrainFaces, &dicestate.ShotgunFaces, &dicestate.FootprintFaces,
	}

	for f0 := 0; f0 < numFaces; f0++ {
		for f1 := 0; f1 < numFaces; f1++ {
			for f2 := 0; f2 < numFaces; f2++ {
				faces := [dicestate.HandSize]int{f0, f1, f2}
				weight := drawWeight
				brains := 0
				var shotgun, footprint [dicestate.NumColors]int
				for die, face := range faces {
					color := colors[die]
					weight *= faceWeight[face][color]
					switch face {
					case faceBrain:
						brains++
					case faceShotgun:
						shotgun[color]++
					case faceFootprint:
						footprint[color]++
					}
				}

				key := Busted
				if c.ShotgunTotal()+shotgun[dicestate.Green]+shotgun[dicestate.Yellow]+shotgun[dicestate.Red] <= dicestate.MaxShotguns {
					next := dicestate.Counts{Footprint: footprint}
					for color := 0; color < dicestate.NumColors; color++ {
						next.Shotgun[color] = c.Shotgun[color] + shotgun[color]
						next.Supply[color] = supply[color] - draw[color]
					}
					key = dicestate.Encode(next)
				} else {
					brains = 0
				}

				if o, ok := acc[key]; ok {
					o.Weight += weight
				} else {
					next := key
					if key != Busted {
						next = u.Index(key)
						if next < 0 {
							panic("kernel: successor outside state space")
						}
					}
					acc[key] = &Outcome{Weight: weight, Next: next, Brains: brains}
				}
			}
		}
	}
}

// flatten orders the accumulated outcomes by state key, bust first.
func flatten(acc map[int]*Outcome) []Outcome {
	keys := make([]int, 0, len(acc))
	for key := range acc {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	outcomes := make([]Outcome, len(keys))
	for i, key := range keys {
		outcomes[i] = *acc[key]
	}
	return outcomes
}

func facePow(n int) int {
	p := 1
	for i := 0; i < n; i++ {
		p *= dicestate.FacesPerDie
	}
	return p
}

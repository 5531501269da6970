package dicestate

import "sort"

// Universe is the enumerated set of every dice state reachable during a turn
// that has not busted, with a dense index over the sorted keys.
type Universe struct {
	// Codes holds every valid state key in ascending order.
	Codes []int

	index map[int]int
}

// Enumerate generates the full non-bust state space. For the standard dice
// set this is 10820 states.
func Enumerate() *Universe {
	var codes []int
	for sg := 0; sg <= MaxShotguns; sg++ {
		for sy := 0; sy <= MaxShotguns-sg; sy++ {
			for sr := 0; sr <= MaxShotguns-sg-sy; sr++ {
				codes = appendFootprintStates(codes, [NumColors]int{sg, sy, sr})
			}
		}
	}
	sort.Ints(codes)
	u := &Universe{Codes: codes, index: make(map[int]int, len(codes))}
	for i, code := range codes {
		u.index[code] = i
	}
	return u
}

func appendFootprintStates(codes []int, shotgun [NumColors]int) []int {
	maxFG := min(HandSize, DicePerColor[Green]-shotgun[Green])
	for fg := 0; fg <= maxFG; fg++ {
		maxFY := min(HandSize-fg, DicePerColor[Yellow]-shotgun[Yellow])
		for fy := 0; fy <= maxFY; fy++ {
			maxFR := min(HandSize-fg-fy, DicePerColor[Red]-shotgun[Red])
			for fr := 0; fr <= maxFR; fr++ {
				codes = appendSupplyStates(codes, shotgun, [NumColors]int{fg, fy, fr})
			}
		}
	}
	return codes
}

func appendSupplyStates(codes []int, shotgun, footprint [NumColors]int) []int {
	for cg := 0; cg <= DicePerColor[Green]-shotgun[Green]-footprint[Green]; cg++ {
		for cy := 0; cy <= DicePerColor[Yellow]-shotgun[Yellow]-footprint[Yellow]; cy++ {
			for cr := 0; cr <= DicePerColor[Red]-shotgun[Red]-footprint[Red]; cr++ {
				c := Counts{
					Shotgun:   shotgun,
					Footprint: footprint,
					Supply:    [NumColors]int{cg, cy, cr},
				}
				codes = append(codes, Encode(c))
			}
		}
	}
	return codes
}

// NumStates returns the size of the enumerated state space.
func (u *Universe) NumStates() int {
	return len(u.Codes)
}

// Index returns the dense index of a state key, or -1 if the key is not part
// of the enumerated space.
func (u *Universe) Index(code int) int {
	i, ok := u.index[code]
	if !ok {
		return -1
	}
	return i
}

// At decodes the state at dense index i.
func (u *Universe) At(i int) Counts {
	return Decode(u.Codes[i])
}

// InitialIndex returns the dense index of the start-of-turn state.
func (u *Universe) InitialIndex() int {
	return u.index[Encode(Initial())]
}

// Package dicestate encodes the dice-cup side of a Zombie Dice turn as a
// compact integer key and enumerates every key that can occur in play.
//
// A turn's dice situation is nine bounded counters: for each color, how many
// dice have rolled shotguns this turn, how many rolled footprints on the most
// recent roll, and how many remain in the supply cup. Banked brains are not
// stored; they are whatever dice the other counters do not account for. The
// nine counters pack into 20 bits, which makes the key cheap to hash, sort
// and compare.
package dicestate

// Color indexes into the per-color arrays.
const (
	Green = iota
	Yellow
	Red
	NumColors
)

// DicePerColor is the standard Zombie Dice set: 6 green, 4 yellow, 3 red.
var DicePerColor = [NumColors]int{6, 4, 3}

// Face counts per six-sided die, by color. Green dice are friendly
// (3 brains), red dice are dangerous (3 shotguns), yellow sit in between.
var (
	BrainFaces     = [NumColors]int{3, 2, 1}
	ShotgunFaces   = [NumColors]int{1, 2, 3}
	FootprintFaces = [NumColors]int{2, 2, 2}
)

// FacesPerDie is the number of sides on every die.
const FacesPerDie = 6

// HandSize is the number of dice rolled at a time.
const HandSize = 3

// MaxShotguns is the largest shotgun total that does not bust the turn.
const MaxShotguns = 2

// TotalDice is the size of the full dice set.
const TotalDice = 13

// Counts holds the nine decoded counters of a dice state.
type Counts struct {
	Shotgun   [NumColors]int // dice showing shotguns this turn
	Footprint [NumColors]int // dice showing footprints on the last roll
	Supply    [NumColors]int // dice still in the cup
}

// Field widths for the packed key, most significant first:
// shotguns (2 bits each), footprints (2 bits each), then supply green (3),
// supply yellow (3), supply red (2). 20 bits total.
var fieldBits = [9]uint{2, 2, 2, 2, 2, 2, 3, 3, 2}

// Encode packs the nine counters into a single integer key. Counter values
// that do not fit their field, or exceed the dice available in their color,
// indicate a programming error and panic.
func Encode(c Counts) int {
	code := 0
	i := 0
	for _, group := range [3][NumColors]int{c.Shotgun, c.Footprint, c.Supply} {
		for color, v := range group {
			bits := fieldBits[i]
			if v < 0 || v >= 1<<bits || v > DicePerColor[color] {
				panic("dicestate: counter out of range")
			}
			code = code<<bits | v
			i++
		}
	}
	return code
}

// Decode unpacks a key produced by Encode.
func Decode(code int) Counts {
	var c Counts
	groups := [3]*[NumColors]int{&c.Shotgun, &c.Footprint, &c.Supply}
	for i := 8; i >= 0; i-- {
		bits := fieldBits[i]
		v := code & (1<<bits - 1)
		code >>= bits
		groups[i/3][i%3] = v
	}
	return c
}

// Banked returns the number of dice of each color currently set aside as
// brains, implied by the explicit counters.
func (c Counts) Banked() [NumColors]int {
	var b [NumColors]int
	for color := 0; color < NumColors; color++ {
		b[color] = DicePerColor[color] - c.Shotgun[color] - c.Footprint[color] - c.Supply[color]
	}
	return b
}

// ShotgunTotal returns the shotguns accumulated this turn across colors.
func (c Counts) ShotgunTotal() int {
	return c.Shotgun[Green] + c.Shotgun[Yellow] + c.Shotgun[Red]
}

// FootprintTotal returns the footprint dice carried into the next roll.
func (c Counts) FootprintTotal() int {
	return c.Footprint[Green] + c.Footprint[Yellow] + c.Footprint[Red]
}

// SupplyTotal returns the number of dice left in the cup.
func (c Counts) SupplyTotal() int {
	return c.Supply[Green] + c.Supply[Yellow] + c.Supply[Red]
}

// Initial is the dice state at the start of a turn: full cup, nothing rolled.
func Initial() Counts {
	return Counts{Supply: DicePerColor}
}

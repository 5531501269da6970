package kernel

import (
	"sync"
	"testing"

	"github.com/yourusername/zdengine/internal/dicestate"
)

var (
	buildOnce  sync.Once
	testKernel *Kernel
)

func sharedKernel() *Kernel {
	buildOnce.Do(func() {
		testKernel = Build(dicestate.Enumerate())
	})
	return testKernel
}

func TestInitialStateTotal(t *testing.T) {
	k := sharedKernel()
	init := k.Universe.InitialIndex()

	// Drawing 3 of 13 dice, 6 faces each: C(13,3) * 6^3 = 61776.
	if got := k.Totals[init]; got != 61776 {
		t.Errorf("initial state total = %d, want 61776", got)
	}
}

func TestAllGreenAllBrains(t *testing.T) {
	k := sharedKernel()
	init := k.Universe.InitialIndex()

	// From a full cup, drawing 3 green dice has weight C(6,3) = 20 and all
	// three showing brains has weight 3^3 = 27.
	want := dicestate.Counts{Supply: [dicestate.NumColors]int{3, 4, 3}}
	wantIdx := k.Universe.Index(dicestate.Encode(want))

	found := false
	for _, o := range k.Outcomes[init] {
		if o.Next == wantIdx {
			found = true
			if o.Weight != 20*27 {
				t.Errorf("all-green-all-brains weight = %d, want 540", o.Weight)
			}
			if o.Brains != 3 {
				t.Errorf("all-green-all-brains brains = %d, want 3", o.Brains)
			}
		}
	}
	if !found {
		t.Fatal("all-green-all-brains successor not present")
	}
}

func TestOutcomeInvariants(t *testing.T) {
	k := sharedKernel()
	u := k.Universe

	for i := 0; i < u.NumStates(); i++ {
		cur := u.At(i)
		sum := 0
		for j, o := range k.Outcomes[i] {
			if o.Weight <= 0 {
				t.Fatalf("state %d outcome %d: weight %d", i, j, o.Weight)
			}
			sum += o.Weight
			if o.Next == Busted {
				if j != 0 {
					t.Fatalf("state %d: busted outcome not first", i)
				}
				if o.Brains != 0 {
					t.Fatalf("state %d: busted outcome banks %d brains", i, o.Brains)
				}
				continue
			}
			if o.Next < 0 || o.Next >= u.NumStates() {
				t.Fatalf("state %d outcome %d: successor index %d", i, j, o.Next)
			}
			next := u.At(o.Next)
			// Three dice were rolled; every face is a brain, a new shotgun
			// or a new footprint.
			rolled := o.Brains + (next.ShotgunTotal() - cur.ShotgunTotal()) + next.FootprintTotal()
			if rolled != dicestate.HandSize {
				t.Fatalf("state %d -> %d: faces account for %d dice", i, o.Next, rolled)
			}
		}
		if sum != k.Totals[i] {
			t.Fatalf("state %d: outcome weights sum to %d, total %d", i, sum, k.Totals[i])
		}
	}
}

func TestReshuffleRefillsCup(t *testing.T) {
	k := sharedKernel()

	// One die left in the cup and a fresh hand to fill: the last cup die is
	// taken as a certainty, then the banked brains (5 green, 4 yellow, 3 red)
	// go back in and the remaining two dice are drawn from those twelve.
	short := dicestate.Counts{Supply: [dicestate.NumColors]int{1, 0, 0}}
	i := k.Universe.Index(dicestate.Encode(short))
	if i < 0 {
		t.Fatal("shorthanded state not enumerated")
	}
	if got := k.Totals[i]; got != 66*216 {
		t.Errorf("total after reshuffle = %d, want C(12,2)*216 = %d", got, 66*216)
	}
}

func TestBustChanceGrowsWithShotguns(t *testing.T) {
	k := sharedKernel()

	bustFraction := func(c dicestate.Counts) float64 {
		i := k.Universe.Index(dicestate.Encode(c))
		if i < 0 {
			t.Fatalf("state %+v not enumerated", c)
		}
		for _, o := range k.Outcomes[i] {
			if o.Next == Busted {
				return float64(o.Weight) / float64(k.Totals[i])
			}
		}
		return 0
	}

	fresh := bustFraction(dicestate.Initial())
	twoDown := bustFraction(dicestate.Counts{
		Shotgun: [dicestate.NumColors]int{0, 0, 2},
		Supply:  [dicestate.NumColors]int{6, 4, 1},
	})
	if !(twoDown > fresh) {
		t.Errorf("bust chance with 2 shotguns (%f) not above fresh turn (%f)", twoDown, fresh)
	}
	if fresh <= 0 {
		t.Error("fresh turn has zero bust chance")
	}
}

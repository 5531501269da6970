package dicestate

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncodeInitial(t *testing.T) {
	// Full cup, nothing rolled: only the supply fields are set.
	// 6<<5 | 4<<2 | 3 = 211.
	got := Encode(Initial())
	if got != 211 {
		t.Errorf("Encode(Initial()) = %d, want 211", got)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	u := Enumerate()
	for i, code := range u.Codes {
		c := Decode(code)
		if back := Encode(c); back != code {
			t.Fatalf("state %d: Encode(Decode(%d)) = %d", i, code, back)
		}
	}
}

func TestDecodeKnown(t *testing.T) {
	tests := []struct {
		name string
		c    Counts
	}{
		{
			name: "initial",
			c:    Counts{Supply: [NumColors]int{6, 4, 3}},
		},
		{
			name: "two shotguns, one footprint",
			c: Counts{
				Shotgun:   [NumColors]int{1, 0, 1},
				Footprint: [NumColors]int{0, 1, 0},
				Supply:    [NumColors]int{5, 3, 2},
			},
		},
		{
			name: "banked brains implied",
			c: Counts{
				Shotgun:   [NumColors]int{0, 1, 0},
				Footprint: [NumColors]int{2, 0, 0},
				Supply:    [NumColors]int{1, 3, 3},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(Encode(tt.c))
			if diff := cmp.Diff(tt.c, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodePanicsOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		c    Counts
	}{
		{"negative shotgun", Counts{Shotgun: [NumColors]int{-1, 0, 0}, Supply: [NumColors]int{6, 4, 3}}},
		{"supply over color capacity", Counts{Supply: [NumColors]int{7, 4, 3}}},
		{"red supply over field width", Counts{Supply: [NumColors]int{6, 4, 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Encode(%+v) did not panic", tt.c)
				}
			}()
			Encode(tt.c)
		})
	}
}

func TestEnumerate(t *testing.T) {
	u := Enumerate()

	if got := u.NumStates(); got != 10820 {
		t.Errorf("NumStates() = %d, want 10820", got)
	}
	if !sort.IntsAreSorted(u.Codes) {
		t.Error("Codes are not sorted")
	}
	for i := 1; i < len(u.Codes); i++ {
		if u.Codes[i] == u.Codes[i-1] {
			t.Fatalf("duplicate code %d at index %d", u.Codes[i], i)
		}
	}
}

func TestEnumerateValidity(t *testing.T) {
	u := Enumerate()
	for i := 0; i < u.NumStates(); i++ {
		c := u.At(i)
		if c.ShotgunTotal() > MaxShotguns {
			t.Fatalf("state %d: shotgun total %d busts", i, c.ShotgunTotal())
		}
		if c.FootprintTotal() > HandSize {
			t.Fatalf("state %d: footprint total %d exceeds hand", i, c.FootprintTotal())
		}
		for _, b := range c.Banked() {
			if b < 0 {
				t.Fatalf("state %d: negative banked count %v", i, c.Banked())
			}
		}
	}
}

func TestIndex(t *testing.T) {
	u := Enumerate()

	for i, code := range u.Codes {
		if got := u.Index(code); got != i {
			t.Fatalf("Index(%d) = %d, want %d", code, got, i)
		}
	}
	if got := u.Index(1 << 20); got != -1 {
		t.Errorf("Index of invalid code = %d, want -1", got)
	}

	init := u.InitialIndex()
	if diff := cmp.Diff(Initial(), u.At(init)); diff != "" {
		t.Errorf("InitialIndex state mismatch (-want +got):\n%s", diff)
	}
}

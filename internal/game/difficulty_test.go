package game

import (
	"errors"
	"testing"
)

func TestPresets(t *testing.T) {
	want := map[string][2]int{
		"easy":   {10, 10},
		"medium": {15, 20},
		"hard":   {20, 30},
		"insane": {25, 50},
	}
	ds := Difficulties()
	if len(ds) != len(want) {
		t.Fatalf("got %d presets, want %d", len(ds), len(want))
	}
	for _, d := range ds {
		w, ok := want[d.Key]
		if !ok {
			t.Fatalf("unexpected preset %q", d.Key)
		}
		if d.Size != w[0] || d.Mines != w[1] {
			t.Fatalf("%s = %dx%d/%d, want %dx%d/%d", d.Key, d.Size, d.Size, d.Mines, w[0], w[0], w[1])
		}
		if err := d.Validate(); err != nil {
			t.Fatalf("%s invalid: %v", d.Key, err)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty(" HARD ")
	if err != nil || d != Hard {
		t.Fatalf("ParseDifficulty(HARD) = %+v, %v", d, err)
	}
	if _, err := ParseDifficulty("nightmare"); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("unknown key err = %v", err)
	}
}

func TestCustom(t *testing.T) {
	d, err := Custom(4, 15)
	if err != nil {
		t.Fatalf("custom 4/15: %v", err)
	}
	if d.Key != CustomKey {
		t.Fatalf("key = %q", d.Key)
	}
	if _, err := Custom(4, 16); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("custom 4/16 err = %v", err)
	}
}

func TestDifficultiesReturnsCopy(t *testing.T) {
	ds := Difficulties()
	ds[0].Mines = 99
	if Difficulties()[0].Mines != 10 {
		t.Fatal("preset table mutated through returned slice")
	}
}

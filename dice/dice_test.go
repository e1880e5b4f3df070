package dice

import (
	"errors"
	"slices"
	"testing"
)

func TestRollOneBounds(t *testing.T) {
	r := NewSeeded(42)
	seen := make(map[int]bool)
	for i := 0; i < 10000; i++ {
		v, err := r.RollOne(6)
		if err != nil {
			t.Fatalf("RollOne(6) error: %v", err)
		}
		if v < 1 || v > 6 {
			t.Fatalf("RollOne(6) = %d, want 1..6", v)
		}
		seen[v] = true
	}
	if len(seen) != 6 {
		t.Errorf("RollOne(6) produced %d distinct faces over 10000 rolls, want 6", len(seen))
	}
}

func TestRollOneRejectsInvalidSides(t *testing.T) {
	r := NewSeeded(1)
	for _, sides := range []int{0, -3} {
		if _, err := r.RollOne(sides); !errors.Is(err, ErrInvalidSides) {
			t.Errorf("RollOne(%d) error = %v, want ErrInvalidSides", sides, err)
		}
	}
}

func TestRollD66Digits(t *testing.T) {
	r := NewSeeded(7)
	for i := 0; i < 10000; i++ {
		tens, units := r.RollD66()
		v := tens*10 + units
		if v/10 < 1 || v/10 > 6 || v%10 < 1 || v%10 > 6 {
			t.Fatalf("RollD66() = %d, digits must both be 1..6", v)
		}
	}
}

func TestRollManyPreservesOrder(t *testing.T) {
	src := NewScripted(5, 1, 3)
	r := NewRoller(src)
	got, err := r.RollMany(3, 6)
	if err != nil {
		t.Fatalf("RollMany error: %v", err)
	}
	if !slices.Equal(got, []int{5, 1, 3}) {
		t.Errorf("RollMany(3, 6) = %v, want [5 1 3]", got)
	}
}

func TestRollManyEmpty(t *testing.T) {
	src := NewScripted(4)
	r := NewRoller(src)
	for _, n := range []int{0, -1} {
		got, err := r.RollMany(n, 6)
		if err != nil {
			t.Fatalf("RollMany(%d) error: %v", n, err)
		}
		if len(got) != 0 {
			t.Errorf("RollMany(%d) = %v, want empty", n, got)
		}
	}
	if src.Consumed() != 0 {
		t.Errorf("empty RollMany consumed %d values, want 0", src.Consumed())
	}
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		rolls      []int
		dupes      bool
		allEqual   bool
		sum        int
		countSixes int
	}{
		{[]int{1, 2, 3}, false, false, 6, 0},
		{[]int{6, 2, 6}, true, false, 14, 2},
		{[]int{4, 4}, true, true, 8, 0},
		{[]int{5}, false, false, 5, 0},
		{nil, false, false, 0, 0},
	}
	for _, tc := range tests {
		if got := HasDuplicates(tc.rolls); got != tc.dupes {
			t.Errorf("HasDuplicates(%v) = %v, want %v", tc.rolls, got, tc.dupes)
		}
		if got := AllEqual(tc.rolls); got != tc.allEqual {
			t.Errorf("AllEqual(%v) = %v, want %v", tc.rolls, got, tc.allEqual)
		}
		if got := Sum(tc.rolls); got != tc.sum {
			t.Errorf("Sum(%v) = %d, want %d", tc.rolls, got, tc.sum)
		}
		if got := CountValue(tc.rolls, 6); got != tc.countSixes {
			t.Errorf("CountValue(%v, 6) = %d, want %d", tc.rolls, got, tc.countSixes)
		}
	}
}

package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Sides is the die shape of a table or rule: a plain N-sided die or d66.
// The data files write d66 either as the string "d66" or as the number 66;
// both decode to D66 since no table uses a true 66-sided die.
type Sides struct {
	N   int
	D66 bool
	raw string // unparseable input, kept for diagnostics
}

// D returns an N-sided die.
func D(n int) Sides { return Sides{N: n, D66: n == 66} }

// SidesD66 is the tens+units d66 shape.
var SidesD66 = Sides{N: 66, D66: true}

func (s *Sides) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*s = D(n)
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return fmt.Errorf("sides must be a number or string: %w", err)
	}
	str = strings.ToLower(strings.TrimSpace(str))
	if str == "d66" {
		*s = SidesD66
		return nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(str, "d"))
	if err != nil {
		// Left invalid on purpose; resolution reports it as a data error.
		*s = Sides{raw: str}
		return nil
	}
	*s = D(n)
	return nil
}

func (s Sides) MarshalJSON() ([]byte, error) {
	if s.D66 {
		return json.Marshal("d66")
	}
	if s.raw != "" {
		return json.Marshal(s.raw)
	}
	return json.Marshal(s.N)
}

// Valid reports whether the shape can be rolled.
func (s Sides) Valid() bool { return s.D66 || s.N > 0 }

// IsZero reports whether no sides were declared at all.
func (s Sides) IsZero() bool { return !s.D66 && s.N == 0 && s.raw == "" }

func (s Sides) String() string {
	switch {
	case s.D66:
		return "d66"
	case s.raw != "":
		return s.raw
	default:
		return "d" + strconv.Itoa(s.N)
	}
}

// DiceSpec describes how many dice of what kind to roll.
type DiceSpec struct {
	Count  int   `json:"count"`
	Sides  Sides `json:"sides"`
	Target int   `json:"target,omitempty"`
}

func (d DiceSpec) String() string {
	if d.Sides.D66 {
		return "D66"
	}
	return fmt.Sprintf("%d%s", d.Count, d.Sides)
}

// CostFormula prices a service: (count d sides) × multiplier + addition.
type CostFormula struct {
	Count      int `json:"count"`
	Sides      int `json:"sides"`
	Multiplier int `json:"multiplier"`
	Addition   int `json:"addition"`
}

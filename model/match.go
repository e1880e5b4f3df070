package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MatchValue is one entry of an outcome's match list: an exact value or an
// inclusive "min-max" range. Malformed entries never match.
type MatchValue struct {
	Min, Max  int
	Raw       string // text as written, for string entries
	Malformed bool
}

// Exact matches a single roll value.
func Exact(v int) MatchValue { return MatchValue{Min: v, Max: v} }

// Range matches every roll in [min, max].
func Range(min, max int) MatchValue {
	return MatchValue{Min: min, Max: max, Raw: fmt.Sprintf("%d-%d", min, max)}
}

// ParseMatchValue parses "7", "2-3" or " 14 - 66 ". Ranges split on the first
// '-'; a range whose min exceeds its max is malformed.
func ParseMatchValue(s string) MatchValue {
	mv := MatchValue{Raw: s}
	lo, hi, isRange := strings.Cut(strings.TrimSpace(s), "-")
	if !isRange {
		n, err := strconv.Atoi(lo)
		if err != nil {
			mv.Malformed = true
			return mv
		}
		mv.Min, mv.Max = n, n
		return mv
	}
	min, errMin := strconv.Atoi(strings.TrimSpace(lo))
	max, errMax := strconv.Atoi(strings.TrimSpace(hi))
	if errMin != nil || errMax != nil || min > max {
		mv.Malformed = true
		return mv
	}
	mv.Min, mv.Max = min, max
	return mv
}

func (m *MatchValue) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*m = Exact(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*m = MatchValue{Raw: string(b), Malformed: true}
		return nil
	}
	*m = ParseMatchValue(s)
	return nil
}

func (m MatchValue) MarshalJSON() ([]byte, error) {
	if m.Raw != "" {
		return json.Marshal(m.Raw)
	}
	return json.Marshal(m.Min)
}

// Contains reports whether roll falls within the entry, inclusive on both ends.
func (m MatchValue) Contains(roll int) bool {
	return !m.Malformed && roll >= m.Min && roll <= m.Max
}

func (m MatchValue) String() string {
	if m.Raw != "" {
		return m.Raw
	}
	return strconv.Itoa(m.Min)
}

// OutcomeRange is the full match list of an outcome.
type OutcomeRange []MatchValue

// Malformed returns the entries that can never match.
func (r OutcomeRange) Malformed() []MatchValue {
	var out []MatchValue
	for _, m := range r {
		if m.Malformed {
			out = append(out, m)
		}
	}
	return out
}

package dice

import "sync"

// Scripted replays predetermined die faces in order. Each Intn(n) call
// consumes the next value v and returns v-1 wrapped into [0, n), so a script
// of {4, 2} makes a d6 roll 4 then 2. The script cycles once exhausted.
//
// For card draws a value v selects deck index v-1 (1-13 spades, 14-26 hearts,
// 27-39 diamonds, 40-52 clubs, 53-54 jokers).
type Scripted struct {
	mu       sync.Mutex
	values   []int
	consumed int
}

// NewScripted returns a Source for deterministic tests.
func NewScripted(values ...int) *Scripted {
	return &Scripted{values: values}
}

func (s *Scripted) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		s.consumed++
		return 0
	}
	v := s.values[s.consumed%len(s.values)] - 1
	s.consumed++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Consumed reports how many values have been drawn from the script.
func (s *Scripted) Consumed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consumed
}

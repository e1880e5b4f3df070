package model

import "github.com/nstehr/dominion/dominion-core/dice"

// Status tells the caller which kind of result it is holding.
type Status string

const (
	StatusResolved  Status = "resolved"
	StatusError     Status = "error"     // data-integrity problem
	StatusExhausted Status = "exhausted" // reroll/cascade budget used up
	StatusCancelled Status = "cancelled" // caller abandoned a required input
	StatusNoRule    Status = "no_rule"   // entity has no rule of this kind
)

// RerollRecord is one discarded roll on the way to a final outcome.
type RerollRecord struct {
	Roll int    `json:"roll"`
	Name string `json:"name"`
}

// ExtraRoll is a secondary roll made by an outcome behavior (e.g. a d3).
type ExtraRoll struct {
	Label string `json:"label"`
	Sides int    `json:"sides"`
	Value int    `json:"value"`
}

// Result is an immutable snapshot of one resolution. Every field is filled in
// before the value is returned; callers never receive a result that is later
// changed.
type Result struct {
	Status Status `json:"status"`
	Table  string `json:"table,omitempty"`
	Dice   string `json:"dice,omitempty"`

	Rolls   []int    `json:"rolls,omitempty"`
	Total   int      `json:"total"`
	Outcome *Outcome `json:"outcome,omitempty"`

	Credits    int        `json:"credits"`
	Multiplier int        `json:"multiplier,omitempty"`
	Addition   int        `json:"addition,omitempty"`
	Cost       *int       `json:"cost,omitempty"`
	Card       *dice.Card `json:"card,omitempty"`
	Guess      dice.Suit  `json:"guess,omitempty"`
	MatchCount *int       `json:"matchCount,omitempty"`

	Description    string `json:"description"`
	EventTriggered bool   `json:"eventTriggered"`
	EventText      string `json:"eventText,omitempty"`

	Effect     string         `json:"effect,omitempty"`
	Extra      *ExtraRoll     `json:"extra,omitempty"`
	Additional []Result       `json:"additional,omitempty"`
	Rerolls    []RerollRecord `json:"rerolls,omitempty"`
	Nested     *Result        `json:"nested,omitempty"`

	Error string `json:"error,omitempty"`
}

// Roll is the matched value: the d66 value or the sum of the dice.
func (r Result) Roll() int { return r.Total }

// OK reports a successful resolution at this level.
func (r Result) OK() bool { return r.Status == StatusResolved }

// Failed reports an error or exhausted budget at this level or in any cascade
// beneath it.
func (r Result) Failed() bool {
	if r.Status == StatusError || r.Status == StatusExhausted {
		return true
	}
	if r.Nested != nil && r.Nested.Failed() {
		return true
	}
	for _, a := range r.Additional {
		if a.Failed() {
			return true
		}
	}
	return false
}

// ErrorResult builds a data-integrity result.
func ErrorResult(table, msg string) Result {
	return Result{Status: StatusError, Table: table, Error: msg, Description: msg}
}

// NoRule is the result for an entity with no rule of the requested kind.
func NoRule() Result {
	return Result{Status: StatusNoRule}
}

// Cancelled is the sentinel for an abandoned input step.
func Cancelled() Result {
	return Result{Status: StatusCancelled, Description: "Cancelled before rolling."}
}

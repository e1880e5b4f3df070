package model

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Event substitutes payout parameters when its trigger fires against a roll.
// Absent multiplier/addition mean zero once the event has fired.
type Event struct {
	Trigger    string `json:"trigger"`
	Multiplier *int   `json:"multiplier,omitempty"`
	Addition   *int   `json:"addition,omitempty"`
	Text       string `json:"text,omitempty"`
}

// Conditional carries the overrides applied when a rule's required territory
// is held alongside it.
type Conditional struct {
	Multiplier *int   `json:"multiplier,omitempty"`
	Sides      *Sides `json:"sides,omitempty"`
	Count      *int   `json:"count,omitempty"`
	Addition   *int   `json:"addition,omitempty"`
}

// Rule is a fully resolved rule definition after schema layering. A rule that
// was declared as plain text (reputation, fixed gear ...) only has Text set.
type Rule struct {
	Schema string `json:"schema,omitempty"`

	Count           int    `json:"count"`
	CountMin        *int   `json:"count_min,omitempty"`
	CountMax        *int   `json:"count_max,omitempty"`
	CountMultiplier int    `json:"count_multiplier,omitempty"`
	CountMessage    string `json:"count_message,omitempty"`
	Sides           Sides  `json:"sides"`
	Multiplier      int    `json:"multiplier"`
	Addition        int    `json:"addition"`

	Target   int       `json:"target,omitempty"`
	Outcomes []Outcome `json:"-"`
	Effect   string    `json:"effect,omitempty"`

	Event    *Event `json:"event,omitempty"`
	NilEvent string `json:"nil_event,omitempty"`
	NilText  string `json:"nil_text,omitempty"`

	DrawFromDeck     int  `json:"draw_from_deck,omitempty"`
	SuitMultiplier   *int `json:"suit_multiplier,omitempty"`
	ColourMultiplier *int `json:"colour_multiplier,omitempty"`

	RequiredTerritory string       `json:"required_territory,omitempty"`
	Conditional       *Conditional `json:"conditional,omitempty"`

	Text string `json:"-"`
}

func (r *Rule) UnmarshalJSON(b []byte) error {
	var text string
	if err := json.Unmarshal(b, &text); err == nil {
		*r = Rule{Text: text}
		return nil
	}
	type plain Rule
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("rule: %w", err)
	}
	*r = Rule(p)
	if o := gjson.GetBytes(b, "outcomes"); o.Exists() {
		list, err := NormalizeOutcomes([]byte(o.Raw))
		if err != nil {
			return fmt.Errorf("rule: %w", err)
		}
		r.Outcomes = list
	}
	// nil_event/nil_text is the older spelling of a zero-payout event.
	if r.Event == nil && r.NilEvent != "" {
		zero := 0
		r.Event = &Event{Trigger: r.NilEvent, Multiplier: &zero, Addition: &zero, Text: r.NilText}
	}
	return nil
}

// IsText reports whether the rule is a plain text benefit.
func (r Rule) IsText() bool { return r.Text != "" }

// UserCount reports whether the dice count is chosen by the player.
func (r Rule) UserCount() bool { return r.CountMin != nil && r.CountMax != nil }

// DeckDraw reports whether the rule draws cards instead of rolling dice.
func (r Rule) DeckDraw() bool { return r.DrawFromDeck > 0 }

// TargetCount reports whether the rule counts dice equal to a target value.
func (r Rule) TargetCount() bool { return r.Target > 0 && len(r.Outcomes) > 0 }

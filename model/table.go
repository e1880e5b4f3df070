package model

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// EffectKind classifies an outcome's random effect once the table set is known.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectReroll
	EffectNestedTable
	EffectBehavior
)

func (k EffectKind) String() string {
	switch k {
	case EffectNone:
		return "none"
	case EffectReroll:
		return "reroll"
	case EffectNestedTable:
		return "nested_table"
	case EffectBehavior:
		return "behavior"
	default:
		return "unknown"
	}
}

// RerollTag is the random effect that repeats the roll on the same table.
const RerollTag = "reroll"

// EffectTag is the resolved form of an outcome's randomeffect string.
type EffectTag struct {
	Kind EffectKind
	Name string // table name or behavior tag
}

// Flag decodes the 0/1, true/false and "1" spellings found in the data files.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "true", "1", `"1"`, `"true"`:
		*f = true
	default:
		*f = false
	}
	return nil
}

// OutcomeIncome is a payout attached directly to an outcome (loot boxes).
type OutcomeIncome struct {
	Schema     string `json:"schema,omitempty"`
	Sides      int    `json:"sides"`
	Multiplier int    `json:"multiplier"`
}

// Outcome is one row of a rule table.
type Outcome struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Values        OutcomeRange   `json:"values"`
	FixedEffect   string         `json:"fixedeffect,omitempty"`
	RandomEffect  string         `json:"randomeffect,omitempty"`
	Colour        string         `json:"colour,omitempty"`
	Convalescence Flag           `json:"convalescence,omitempty"`
	IntoRecovery  Flag           `json:"intoRecovery,omitempty"`
	Cost          any            `json:"cost,omitempty"`
	Income        *OutcomeIncome `json:"income,omitempty"`

	Effect EffectTag `json:"-"`
}

func (o *Outcome) UnmarshalJSON(b []byte) error {
	type plain Outcome
	var aux struct {
		plain
		MatchValues OutcomeRange `json:"matchValues"`
		Flags       *struct {
			Convalescence Flag `json:"convalescence"`
			IntoRecovery  Flag `json:"intoRecovery"`
		} `json:"flags"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*o = Outcome(aux.plain)
	if len(o.Values) == 0 {
		o.Values = aux.MatchValues
	}
	if aux.Flags != nil {
		o.Convalescence = o.Convalescence || aux.Flags.Convalescence
		o.IntoRecovery = o.IntoRecovery || aux.Flags.IntoRecovery
	}
	return nil
}

// NormalizeOutcomes turns either an array of outcomes or an id-keyed object of
// outcomes into one ordered list. Object keys keep document order, which is
// what first-match resolution depends on. A string value is shorthand for an
// outcome named by the text and matched by its key.
func NormalizeOutcomes(raw []byte) ([]Outcome, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("outcomes: invalid JSON")
	}
	doc := gjson.ParseBytes(raw)
	var (
		out []Outcome
		err error
	)
	switch {
	case doc.IsArray():
		i := 0
		doc.ForEach(func(_, v gjson.Result) bool {
			var o Outcome
			o, err = decodeOutcome(strconv.Itoa(i), v)
			if err != nil {
				return false
			}
			out = append(out, o)
			i++
			return true
		})
	case doc.IsObject():
		doc.ForEach(func(k, v gjson.Result) bool {
			var o Outcome
			o, err = decodeOutcome(k.String(), v)
			if err != nil {
				return false
			}
			out = append(out, o)
			return true
		})
	case doc.Type == gjson.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("outcomes must be an array or object, got %s", doc.Type)
	}
	return out, err
}

func decodeOutcome(key string, v gjson.Result) (Outcome, error) {
	if v.Type == gjson.String {
		return Outcome{ID: key, Name: v.String(), Values: OutcomeRange{ParseMatchValue(key)}}, nil
	}
	var o Outcome
	if err := json.Unmarshal([]byte(v.Raw), &o); err != nil {
		return Outcome{}, fmt.Errorf("outcome %q: %w", key, err)
	}
	if o.ID == "" {
		o.ID = key
	}
	return o, nil
}

// RuleTable is one complete rollable table.
type RuleTable struct {
	Name     string       `json:"name,omitempty"`
	Sides    Sides        `json:"sides"`
	Count    int          `json:"count,omitempty"`
	Outcomes []Outcome    `json:"outcomes"`
	Cost     *CostFormula `json:"cost,omitempty"`
}

func (t *RuleTable) UnmarshalJSON(b []byte) error {
	if !gjson.ValidBytes(b) {
		return fmt.Errorf("rule table: invalid JSON")
	}
	doc := gjson.ParseBytes(b)
	var tbl RuleTable
	tbl.Name = doc.Get("name").String()
	if s := doc.Get("sides"); s.Exists() {
		if err := json.Unmarshal([]byte(s.Raw), &tbl.Sides); err != nil {
			return fmt.Errorf("rule table sides: %w", err)
		}
	}
	tbl.Count = int(doc.Get("count").Int())
	if c := doc.Get("cost"); c.IsObject() {
		tbl.Cost = &CostFormula{}
		if err := json.Unmarshal([]byte(c.Raw), tbl.Cost); err != nil {
			return fmt.Errorf("rule table cost: %w", err)
		}
	}
	outcomes := doc.Get("outcomes")
	if !outcomes.Exists() {
		outcomes = doc.Get("results")
	}
	list, err := NormalizeOutcomes([]byte(outcomes.Raw))
	if err != nil {
		return fmt.Errorf("rule table: %w", err)
	}
	tbl.Outcomes = list
	*t = tbl
	return nil
}

// Dice returns the table's dice spec, defaulting count to 1.
func (t RuleTable) Dice() DiceSpec {
	count := t.Count
	if count <= 0 {
		count = 1
	}
	return DiceSpec{Count: count, Sides: t.Sides}
}

// DecodeTables parses a table-name → table document, keeping each table's name.
func DecodeTables(raw []byte) (map[string]RuleTable, error) {
	var tables map[string]RuleTable
	if err := json.Unmarshal(raw, &tables); err != nil {
		return nil, fmt.Errorf("decode tables: %w", err)
	}
	for name, t := range tables {
		t.Name = name
		tables[name] = t
	}
	return tables, nil
}

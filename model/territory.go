package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Category names a rule family carried by an entity.
type Category string

const (
	Income                        Category = "income"
	RandomRecruit                 Category = "random_recruit"
	FixedRecruit                  Category = "fixed_recruit"
	Reputation                    Category = "reputation"
	FixedGear                     Category = "fixed_gear"
	BattleSpecialRules            Category = "battle_special_rules"
	TradingSpecialRules           Category = "trading_special_rules"
	ScenarioSelectionSpecialRules Category = "scenario_selection_special_rules"
)

// Categories is the full category set in resolution order.
var Categories = []Category{
	Income,
	RandomRecruit,
	FixedRecruit,
	Reputation,
	FixedGear,
	BattleSpecialRules,
	TradingSpecialRules,
	ScenarioSelectionSpecialRules,
}

// GangKey normalises a gang identifier the way override keys are written:
// lower case, whitespace runs collapsed to '_'.
func GangKey(gang string) string {
	return strings.ToLower(strings.Join(strings.Fields(gang), "_"))
}

// OverridableField holds a base value plus per-gang replacements.
type OverridableField struct {
	Base      json.RawMessage
	Overrides map[string]json.RawMessage
}

// Select returns the value that applies for gang: the gang override when a
// gang is given and an override exists for it, otherwise the base value.
// ok is false when neither is present.
func (f OverridableField) Select(gang string) (json.RawMessage, bool) {
	if gang != "" {
		if raw, ok := f.Overrides[GangKey(gang)]; ok && present(raw) {
			return raw, true
		}
	}
	if present(f.Base) {
		return f.Base, true
	}
	return nil, false
}

// present treats null, false and "" like an absent key, matching how the
// data files switch a rule off.
func present(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	switch string(t) {
	case "", "null", "false", `""`:
		return false
	}
	return true
}

// Territory is a campaign entity carrying rule fields keyed by category, each
// optionally overridden per gang with a "<category>_<gang>" key.
type Territory struct {
	ID    string
	Name  string
	Level int
	Rules map[Category]OverridableField
}

// Label is the display name, falling back to the id.
func (t Territory) Label() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

// Field returns the rule field for c (zero value when absent).
func (t Territory) Field(c Category) OverridableField {
	return t.Rules[c]
}

func (t *Territory) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("territory: %w", err)
	}
	out := Territory{Rules: make(map[Category]OverridableField)}
	for key, raw := range fields {
		switch key {
		case "id":
			if err := json.Unmarshal(raw, &out.ID); err != nil {
				return fmt.Errorf("territory id: %w", err)
			}
			continue
		case "name":
			if err := json.Unmarshal(raw, &out.Name); err != nil {
				return fmt.Errorf("territory %s name: %w", out.ID, err)
			}
			continue
		case "level":
			out.Level = decodeLevel(raw)
			continue
		}
		cat, gang := splitRuleKey(key)
		f := out.Rules[cat]
		if gang == "" {
			f.Base = raw
		} else {
			if f.Overrides == nil {
				f.Overrides = make(map[string]json.RawMessage)
			}
			f.Overrides[gang] = raw
		}
		out.Rules[cat] = f
	}
	*t = out
	return nil
}

func (t Territory) MarshalJSON() ([]byte, error) {
	fields := map[string]any{"id": t.ID}
	if t.Name != "" {
		fields["name"] = t.Name
	}
	if t.Level != 0 {
		fields["level"] = t.Level
	}
	for cat, f := range t.Rules {
		if f.Base != nil {
			fields[string(cat)] = f.Base
		}
		for gang, raw := range f.Overrides {
			fields[string(cat)+"_"+gang] = raw
		}
	}
	return json.Marshal(fields)
}

// splitRuleKey maps "income_house_escher" to (income, "house_escher") using the
// longest known category prefix. Unknown keys become their own category.
func splitRuleKey(key string) (Category, string) {
	best := ""
	for _, c := range Categories {
		s := string(c)
		if key == s {
			return c, ""
		}
		if strings.HasPrefix(key, s+"_") && len(s) > len(best) {
			best = s
		}
	}
	if best == "" {
		return Category(key), ""
	}
	return Category(best), GangKey(key[len(best)+1:])
}

func decodeLevel(raw json.RawMessage) int {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
	}
	return 0
}

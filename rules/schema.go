package rules

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/tidwall/gjson"

	"github.com/nstehr/dominion/dominion-core/model"
)

// Fields is one layer of rule configuration, keyed by field name.
type Fields map[string]json.RawMessage

// Schemas holds the per-category base defaults and named presets that entity
// rules are layered onto.
type Schemas struct {
	Defaults map[model.Category]Fields            `json:"defaults"`
	Presets  map[model.Category]map[string]Fields `json:"presets"`
}

// DecodeSchemas parses a {"defaults": ..., "presets": ...} document.
func DecodeSchemas(raw []byte) (Schemas, error) {
	var s Schemas
	if err := json.Unmarshal(raw, &s); err != nil {
		return Schemas{}, fmt.Errorf("decode schemas: %w", err)
	}
	return s, nil
}

// HasPreset reports whether a named preset exists for the category.
func (s Schemas) HasPreset(c model.Category, name string) bool {
	_, ok := s.Presets[c][name]
	return ok
}

// Merge layers defaults, then the preset named by the entity's "schema" key,
// then the entity's own fields. Later layers replace whole keys. A missing
// preset contributes nothing. Non-object rules (plain text) return nil fields.
func (s Schemas) Merge(c model.Category, raw json.RawMessage) (Fields, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%s rule: invalid JSON", c)
	}
	if !gjson.ParseBytes(raw).IsObject() {
		return nil, nil
	}
	var own Fields
	if err := json.Unmarshal(raw, &own); err != nil {
		return nil, fmt.Errorf("%s rule: %w", c, err)
	}
	merged := make(Fields)
	maps.Copy(merged, s.Defaults[c])
	if name := gjson.GetBytes(raw, "schema").String(); name != "" {
		maps.Copy(merged, s.Presets[c][name])
	}
	maps.Copy(merged, own)
	return merged, nil
}

// Resolve merges raw and decodes the result into a Rule.
func (s Schemas) Resolve(c model.Category, raw json.RawMessage) (model.Rule, error) {
	merged, err := s.Merge(c, raw)
	if err != nil {
		return model.Rule{}, err
	}
	if merged == nil {
		var r model.Rule
		if err := json.Unmarshal(raw, &r); err != nil {
			return model.Rule{}, fmt.Errorf("%s rule: %w", c, err)
		}
		return r, nil
	}
	return Decode(c, merged)
}

// ResolveWithGangOverride picks the gang-specific value of a category (falling
// back to the base value) and resolves it. ok is false when the territory
// carries no rule of that category for the gang.
func (s Schemas) ResolveWithGangOverride(t model.Territory, c model.Category, gang string) (model.Rule, bool, error) {
	raw, ok := t.Field(c).Select(gang)
	if !ok {
		return model.Rule{}, false, nil
	}
	r, err := s.Resolve(c, raw)
	if err != nil {
		return model.Rule{}, true, fmt.Errorf("territory %s: %w", t.ID, err)
	}
	return r, true, nil
}

// Decode turns merged fields into a Rule.
func Decode(c model.Category, f Fields) (model.Rule, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return model.Rule{}, fmt.Errorf("%s rule: %w", c, err)
	}
	var r model.Rule
	if err := json.Unmarshal(b, &r); err != nil {
		return model.Rule{}, fmt.Errorf("%s rule: %w", c, err)
	}
	return r, nil
}

// triggerNames lists every event trigger named in the defaults and presets.
func (s Schemas) triggerNames() []string {
	var names []string
	add := func(f Fields) {
		for _, key := range []string{"event", "nil_event"} {
			raw, ok := f[key]
			if !ok {
				continue
			}
			v := gjson.ParseBytes(raw)
			if v.Type == gjson.String {
				names = append(names, v.String())
			} else if t := v.Get("trigger"); t.Exists() {
				names = append(names, t.String())
			}
		}
	}
	for _, f := range s.Defaults {
		add(f)
	}
	for _, presets := range s.Presets {
		for _, f := range presets {
			add(f)
		}
	}
	return names
}

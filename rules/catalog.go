package rules

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/nstehr/dominion/dominion-core/model"
)

// Config is the static rule data an Engine serves: rollable tables plus the
// schema layers used for entity rules.
type Config struct {
	Tables  map[string]model.RuleTable
	Schemas Schemas
}

// Catalog is a compiled, immutable Config. Effect tags are classified once and
// event triggers are compiled up front so a bad expression fails the load
// instead of a roll.
type Catalog struct {
	tables   map[string]*model.RuleTable
	schemas  Schemas
	triggers map[string]*Trigger

	// Warnings are data-integrity notes found while compiling: malformed match
	// values, unknown effect tags, tables that cannot be rolled.
	Warnings []string
}

// Compile builds a Catalog from cfg. behaviors names the effect tags that
// outcome behaviors are registered for.
func Compile(cfg Config, behaviors map[string]Behavior) (*Catalog, error) {
	cat := &Catalog{
		tables:   make(map[string]*model.RuleTable, len(cfg.Tables)),
		schemas:  cfg.Schemas,
		triggers: make(map[string]*Trigger),
	}
	for _, name := range slices.Sorted(maps.Keys(cfg.Tables)) {
		t := cfg.Tables[name]
		t.Name = name
		t.Outcomes = slices.Clone(t.Outcomes)
		if !t.Sides.Valid() {
			cat.warn("table %s: invalid dice sides %q", name, t.Sides)
		}
		if len(t.Outcomes) == 0 {
			cat.warn("table %s: no outcomes", name)
		}
		for i := range t.Outcomes {
			o := &t.Outcomes[i]
			for _, bad := range o.Values.Malformed() {
				cat.warn("table %s outcome %s: malformed match value %q", name, o.ID, bad.Raw)
			}
			o.Effect = classifyEffect(o.RandomEffect, cfg.Tables)
			if o.Effect.Kind == model.EffectBehavior {
				if _, ok := behaviors[o.Effect.Name]; !ok {
					cat.warn("table %s outcome %s: unknown random effect %q", name, o.ID, o.RandomEffect)
				}
			}
		}
		cat.tables[name] = &t
	}
	for _, src := range cfg.Schemas.triggerNames() {
		if _, ok := cat.triggers[src]; ok {
			continue
		}
		trig, err := CompileTrigger(src)
		if err != nil {
			return nil, err
		}
		cat.triggers[src] = trig
	}
	for _, w := range cat.Warnings {
		slog.Warn("rule data", "warning", w)
	}
	return cat, nil
}

// classifyEffect resolves a randomeffect tag against the table set: reroll
// first, then a table of that name, then a behavior tag (known or not).
func classifyEffect(tag string, tables map[string]model.RuleTable) model.EffectTag {
	switch {
	case tag == "":
		return model.EffectTag{Kind: model.EffectNone}
	case tag == model.RerollTag:
		return model.EffectTag{Kind: model.EffectReroll}
	}
	if _, ok := tables[tag]; ok {
		return model.EffectTag{Kind: model.EffectNestedTable, Name: tag}
	}
	return model.EffectTag{Kind: model.EffectBehavior, Name: tag}
}

func (c *Catalog) warn(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// Table returns the compiled table by name.
func (c *Catalog) Table(name string) (*model.RuleTable, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// TableNames returns every table name in sorted order.
func (c *Catalog) TableNames() []string {
	return slices.Sorted(maps.Keys(c.tables))
}

// Schemas returns the schema layers entity rules are merged against.
func (c *Catalog) Schemas() Schemas { return c.schemas }

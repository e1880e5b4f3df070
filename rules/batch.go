package rules

import (
	"log/slog"

	"github.com/nstehr/dominion/dominion-core/model"
)

// BatchInput is the caller-supplied context for a batch resolution.
type BatchInput struct {
	Gang   string           `json:"gang,omitempty"`
	Inputs map[string]Input `json:"inputs,omitempty"` // keyed by entity id

	// Held overrides the context set passed to conditional rules. Empty means
	// the ids of the entities in the batch.
	Held []string `json:"held,omitempty"`
}

// Entry is one entity's result within a category section.
type Entry struct {
	EntityID string       `json:"entityId"`
	Name     string       `json:"name"`
	Result   model.Result `json:"result"`
}

// Section groups every entity's result for one category.
type Section struct {
	Category model.Category `json:"category"`
	Entries  []Entry        `json:"entries"`
}

// EventNote flags an income roll whose event fired and needs narrative
// follow-up.
type EventNote struct {
	EntityID string `json:"entityId"`
	Name     string `json:"name"`
	Text     string `json:"text"`
}

// BatchResult is the outcome of resolving several categories over a set of
// entities. Sections appear in the requested category order.
type BatchResult struct {
	Sections  []Section                       `json:"sections"`
	Without   map[model.Category][]string     `json:"without"`
	Events    []EventNote                     `json:"events,omitempty"`
	Cancelled []string                        `json:"cancelled,omitempty"`
	Errors    map[model.Category][]EntryError `json:"errors,omitempty"`
	Credits   int                             `json:"credits"`
}

// EntryError names an entity whose resolution failed.
type EntryError struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// Section returns the section for c.
func (b BatchResult) Section(c model.Category) (Section, bool) {
	for _, s := range b.Sections {
		if s.Category == c {
			return s, true
		}
	}
	return Section{}, false
}

// Result returns the result of entity id under category c.
func (b BatchResult) Result(c model.Category, id string) (model.Result, bool) {
	s, ok := b.Section(c)
	if !ok {
		return model.Result{}, false
	}
	for _, e := range s.Entries {
		if e.EntityID == id {
			return e.Result, true
		}
	}
	return model.Result{}, false
}

// ResolveBatch resolves every category over every entity, category-major: all
// entities are resolved for the first category before any entity is resolved
// for the next. Cancelled entities roll nothing and add nothing to the totals.
func (e *Engine) ResolveBatch(entities []model.Territory, categories []model.Category, in BatchInput) BatchResult {
	schemas := e.Catalog().Schemas()
	held := in.Held
	if len(held) == 0 {
		held = make([]string, len(entities))
		for i, ent := range entities {
			held[i] = ent.ID
		}
	}
	out := BatchResult{
		Without: make(map[model.Category][]string),
		Errors:  make(map[model.Category][]EntryError),
	}
	for _, ent := range entities {
		if in.Inputs[ent.ID].Cancelled {
			out.Cancelled = append(out.Cancelled, ent.Label())
		}
	}

	for _, cat := range categories {
		sec := Section{Category: cat}
		for _, ent := range entities {
			input := in.Inputs[ent.ID]
			if input.Held == nil {
				input.Held = held
			}
			res := e.resolveEntity(schemas, ent, cat, in.Gang, input)
			sec.Entries = append(sec.Entries, Entry{EntityID: ent.ID, Name: ent.Label(), Result: res})

			switch res.Status {
			case model.StatusNoRule:
				out.Without[cat] = append(out.Without[cat], ent.Label())
			case model.StatusError, model.StatusExhausted:
				out.Errors[cat] = append(out.Errors[cat], EntryError{Name: ent.Label(), Error: res.Error})
			case model.StatusResolved:
				if cat != model.Income {
					continue
				}
				out.Credits += res.Credits
				if res.EventTriggered {
					out.Events = append(out.Events, EventNote{EntityID: ent.ID, Name: ent.Label(), Text: res.EventText})
				}
			}
		}
		out.Sections = append(out.Sections, sec)
	}
	slog.Info("batch resolved",
		"entities", len(entities),
		"categories", len(categories),
		"credits", out.Credits,
		"events", len(out.Events),
		"cancelled", len(out.Cancelled))
	return out
}

func (e *Engine) resolveEntity(schemas Schemas, ent model.Territory, cat model.Category, gang string, in Input) model.Result {
	if in.Cancelled {
		return model.Cancelled()
	}
	rule, ok, err := schemas.ResolveWithGangOverride(ent, cat, gang)
	switch {
	case err != nil:
		return model.ErrorResult("", err.Error())
	case !ok:
		return model.NoRule()
	}
	return e.ResolveRule(rule, in)
}

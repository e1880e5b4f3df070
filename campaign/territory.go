package campaign

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nstehr/dominion/dominion-core/dice"
	"github.com/nstehr/dominion/dominion-core/model"
	"github.com/nstehr/dominion/dominion-core/rules"
)

// ErrUnknownTerritory is returned when a request names a territory id that is
// not in the catalog.
var ErrUnknownTerritory = errors.New("unknown territory")

// Gang is a faction that can hold territories.
type Gang struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PromptKind names the input a territory needs before it can be resolved.
type PromptKind string

const (
	PromptCount PromptKind = "count"
	PromptSuit  PromptKind = "suit"
)

// Prompt is one question the caller must answer (or cancel) before resolving.
type Prompt struct {
	TerritoryID string     `json:"territoryId"`
	Name        string     `json:"name"`
	Kind        PromptKind `json:"kind"`
	Message     string     `json:"message"`
	Min         int        `json:"min,omitempty"`
	Max         int        `json:"max,omitempty"`
}

// Territories is the territory catalog plus the engine that resolves its
// rules. The catalog and the engine's schemas are replaced together on reload.
type Territories struct {
	mu     sync.RWMutex
	engine *rules.Engine
	list   []model.Territory
	byID   map[string]int
	gangs  []Gang
}

// NewTerritories decodes the territory list and schema document.
func NewTerritories(territoriesJSON, schemasJSON []byte, gangs []Gang, roller *dice.Roller, opts ...rules.Option) (*Territories, error) {
	list, schemas, err := decodeTerritories(territoriesJSON, schemasJSON)
	if err != nil {
		return nil, err
	}
	engine, err := rules.NewEngine(rules.Config{Schemas: schemas}, roller, opts...)
	if err != nil {
		return nil, fmt.Errorf("territory rules: %w", err)
	}
	t := &Territories{engine: engine}
	t.set(list, gangs)
	return t, nil
}

func decodeTerritories(territoriesJSON, schemasJSON []byte) ([]model.Territory, rules.Schemas, error) {
	var list []model.Territory
	if err := json.Unmarshal(territoriesJSON, &list); err != nil {
		return nil, rules.Schemas{}, fmt.Errorf("decode territories: %w", err)
	}
	schemas, err := rules.DecodeSchemas(schemasJSON)
	if err != nil {
		return nil, rules.Schemas{}, err
	}
	return list, schemas, nil
}

func (t *Territories) set(list []model.Territory, gangs []Gang) {
	t.list, t.gangs = list, gangs
	t.byID = make(map[string]int, len(list))
	for i, terr := range list {
		t.byID[terr.ID] = i
	}
}

// swap replaces the catalog and schemas. On error nothing changes.
func (t *Territories) swap(territoriesJSON, schemasJSON []byte, gangs []Gang) error {
	list, schemas, err := decodeTerritories(territoriesJSON, schemasJSON)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.engine.Swap(rules.Config{Schemas: schemas}); err != nil {
		return fmt.Errorf("territory rules: %w", err)
	}
	t.set(list, gangs)
	return nil
}

// All returns every territory in catalog order.
func (t *Territories) All() []model.Territory {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.list
}

// Gangs returns the known gangs.
func (t *Territories) Gangs() []Gang {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.gangs
}

// Engine returns the engine territory rules resolve on.
func (t *Territories) Engine() *rules.Engine { return t.engine }

// Get looks a territory up by id.
func (t *Territories) Get(id string) (model.Territory, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.get(id)
}

func (t *Territories) get(id string) (model.Territory, bool) {
	i, ok := t.byID[id]
	if !ok {
		return model.Territory{}, false
	}
	return t.list[i], true
}

// Select returns the territories for ids, in the order given.
func (t *Territories) Select(ids []string) ([]model.Territory, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.selectIDs(ids)
}

func (t *Territories) selectIDs(ids []string) ([]model.Territory, error) {
	out := make([]model.Territory, 0, len(ids))
	for _, id := range ids {
		terr, ok := t.get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTerritory, id)
		}
		out = append(out, terr)
	}
	return out, nil
}

// ValidateAll reports data problems in the catalog: missing names or levels,
// duplicate ids, unknown schema presets, rules that fail to decode and event
// triggers that fail to compile.
func (t *Territories) ValidateAll() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var problems []string
	seen := make(map[string]bool)
	schemas := t.engine.Catalog().Schemas()
	for _, terr := range t.list {
		if seen[terr.ID] {
			problems = append(problems, fmt.Sprintf("territory %s: duplicate id", terr.ID))
		}
		seen[terr.ID] = true
		if terr.Name == "" {
			problems = append(problems, fmt.Sprintf("territory %s: missing name", terr.ID))
		}
		if terr.Level == 0 {
			problems = append(problems, fmt.Sprintf("territory %s: missing level", terr.ID))
		}
		for cat, field := range terr.Rules {
			raws := []json.RawMessage{field.Base}
			for _, raw := range field.Overrides {
				raws = append(raws, raw)
			}
			for _, raw := range raws {
				problems = append(problems, validateRule(schemas, terr.ID, cat, raw)...)
			}
		}
	}
	return problems
}

func validateRule(schemas rules.Schemas, id string, cat model.Category, raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var head struct {
		Schema string `json:"schema"`
	}
	var problems []string
	if json.Unmarshal(raw, &head) == nil && head.Schema != "" && !schemas.HasPreset(cat, head.Schema) {
		problems = append(problems, fmt.Sprintf("territory %s: unknown %s schema %q", id, cat, head.Schema))
	}
	rule, err := schemas.Resolve(cat, raw)
	if err != nil {
		return append(problems, fmt.Sprintf("territory %s: %v", id, err))
	}
	if rule.Event != nil && rule.Event.Trigger != "" {
		if _, err := rules.CompileTrigger(rule.Event.Trigger); err != nil {
			problems = append(problems, fmt.Sprintf("territory %s: %s event: %v", id, cat, err))
		}
	}
	return problems
}

// Prompts lists the inputs the selected territories need for gang before
// resolving: a dice count for user-selected income, a suit for deck draws.
func (t *Territories) Prompts(ids []string, gang string) ([]Prompt, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	selected, err := t.selectIDs(ids)
	if err != nil {
		return nil, err
	}
	schemas := t.engine.Catalog().Schemas()
	var prompts []Prompt
	for _, terr := range selected {
		rule, ok, err := schemas.ResolveWithGangOverride(terr, model.Income, gang)
		if err != nil || !ok {
			continue
		}
		switch {
		case rule.DeckDraw():
			prompts = append(prompts, Prompt{
				TerritoryID: terr.ID,
				Name:        terr.Label(),
				Kind:        PromptSuit,
				Message:     terr.Label() + ": guess the suit of the card (spades, hearts, diamonds or clubs).",
			})
		case rule.UserCount():
			prompts = append(prompts, Prompt{
				TerritoryID: terr.ID,
				Name:        terr.Label(),
				Kind:        PromptCount,
				Message:     terr.Label() + ": " + rules.CountPrompt(rule),
				Min:         *rule.CountMin,
				Max:         *rule.CountMax,
			})
		}
	}
	return prompts, nil
}

// Resolve resolves categories (all of them when empty) over the selected
// territories. The held set defaults to the selection.
func (t *Territories) Resolve(ids []string, categories []model.Category, in rules.BatchInput) (rules.BatchResult, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	selected, err := t.selectIDs(ids)
	if err != nil {
		return rules.BatchResult{}, err
	}
	if len(categories) == 0 {
		categories = model.Categories
	}
	return t.engine.ResolveBatch(selected, categories, in), nil
}

package campaign

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nstehr/dominion/dominion-core/dice"
	"github.com/nstehr/dominion/dominion-core/model"
	"github.com/nstehr/dominion/dominion-core/rules"
)

// XP table names.
const (
	AdvancementTable = "advancements_random"
	SkillPrefix      = "skill_"
)

// SkillTable is one rollable skill table with its display name.
type SkillTable struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// XP resolves random advancements and skill rolls.
type XP struct {
	engine *rules.Engine
}

// NewXP decodes the XP table document.
func NewXP(raw []byte, roller *dice.Roller, opts ...rules.Option) (*XP, error) {
	tables, err := model.DecodeTables(raw)
	if err != nil {
		return nil, fmt.Errorf("xp tables: %w", err)
	}
	return newXP(tables, roller, opts...)
}

func newXP(tables map[string]model.RuleTable, roller *dice.Roller, opts ...rules.Option) (*XP, error) {
	engine, err := rules.NewEngine(rules.Config{Tables: tables}, roller, opts...)
	if err != nil {
		return nil, fmt.Errorf("xp tables: %w", err)
	}
	return &XP{engine: engine}, nil
}

// Engine returns the engine XP tables resolve on.
func (x *XP) Engine() *rules.Engine { return x.engine }

// Advancement rolls a random characteristic advancement. Multi-dice tables are
// matched on the sum of the dice.
func (x *XP) Advancement() model.Result {
	return x.engine.ResolveTable(AdvancementTable)
}

// AdvancementWithRoll resolves an advancement as if roll had been rolled.
func (x *XP) AdvancementWithRoll(roll int) model.Result {
	return x.engine.ResolveTableWithRoll(AdvancementTable, roll)
}

// Skills lists the skill tables, sorted by id.
func (x *XP) Skills() []SkillTable {
	var out []SkillTable
	title := cases.Title(language.English) // a Caser is stateful, so one per call
	for _, name := range x.engine.Catalog().TableNames() {
		if id, ok := strings.CutPrefix(name, SkillPrefix); ok {
			out = append(out, SkillTable{ID: name, Name: title.String(strings.ReplaceAll(id, "_", " "))})
		}
	}
	return out
}

// RollSkill rolls on a skill table by id.
func (x *XP) RollSkill(id string) (model.Result, error) {
	if err := x.checkSkill(id); err != nil {
		return model.Result{}, err
	}
	return x.engine.ResolveTable(id), nil
}

// RollSkillWithValue resolves a skill table as if roll had been rolled.
func (x *XP) RollSkillWithValue(id string, roll int) (model.Result, error) {
	if err := x.checkSkill(id); err != nil {
		return model.Result{}, err
	}
	return x.engine.ResolveTableWithRoll(id, roll), nil
}

func (x *XP) checkSkill(id string) error {
	ok := slices.ContainsFunc(x.Skills(), func(s SkillTable) bool { return s.ID == id })
	if !ok {
		return fmt.Errorf("%w: skill table %q", rules.ErrTableNotFound, id)
	}
	return nil
}

package campaign

import (
	"fmt"

	"github.com/nstehr/dominion/dominion-core/dice"
	"github.com/nstehr/dominion/dominion-core/model"
	"github.com/nstehr/dominion/dominion-core/rules"
)

// LootBoxTable is the entry table rolled when a loot box is opened.
const LootBoxTable = "loot_box_roll"

// LootBoxes opens loot boxes: the entry roll, rerolls, nested tables and any
// credits attached to the outcome.
type LootBoxes struct {
	engine *rules.Engine
}

// NewLootBoxes decodes the loot table document.
func NewLootBoxes(raw []byte, roller *dice.Roller, opts ...rules.Option) (*LootBoxes, error) {
	tables, err := lootTables(raw)
	if err != nil {
		return nil, err
	}
	return newLootBoxes(tables, roller, opts...)
}

// lootTables decodes the loot document and requires the entry table.
func lootTables(raw []byte) (map[string]model.RuleTable, error) {
	tables, err := model.DecodeTables(raw)
	if err != nil {
		return nil, fmt.Errorf("loot boxes: %w", err)
	}
	if _, ok := tables[LootBoxTable]; !ok {
		return nil, fmt.Errorf("loot boxes: %w: %q", rules.ErrTableNotFound, LootBoxTable)
	}
	return tables, nil
}

func newLootBoxes(tables map[string]model.RuleTable, roller *dice.Roller, opts ...rules.Option) (*LootBoxes, error) {
	engine, err := rules.NewEngine(rules.Config{Tables: tables}, roller, opts...)
	if err != nil {
		return nil, fmt.Errorf("loot boxes: %w", err)
	}
	return &LootBoxes{engine: engine}, nil
}

// Engine returns the engine loot tables resolve on.
func (l *LootBoxes) Engine() *rules.Engine { return l.engine }

// Open rolls on the loot box table and follows its cascade.
func (l *LootBoxes) Open() model.Result {
	return l.engine.ResolveTable(LootBoxTable)
}

// OpenWithRoll opens a loot box as if roll had been rolled on the entry table.
func (l *LootBoxes) OpenWithRoll(roll int) model.Result {
	return l.engine.ResolveTableWithRoll(LootBoxTable, roll)
}

// RollTable rolls directly on one of the loot tables.
func (l *LootBoxes) RollTable(name string) model.Result {
	return l.engine.ResolveTable(name)
}

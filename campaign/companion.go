// Package campaign holds the campaign rule sets (territories, lasting
// injuries and rogue docs, loot boxes, XP) built on the rules engine.
package campaign

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/nstehr/dominion/dominion-core/data"
	"github.com/nstehr/dominion/dominion-core/dice"
	"github.com/nstehr/dominion/dominion-core/model"
	"github.com/nstehr/dominion/dominion-core/rules"
)

// Table set names, as used by the generic table roll.
const (
	SetInjuries = "injuries"
	SetLoot     = "loot"
	SetXP       = "xp"
)

// ErrUnknownSet is returned for a table set name other than the Set constants.
var ErrUnknownSet = errors.New("unknown table set")

// Companion bundles every rule set over one shared roller.
type Companion struct {
	Territories *Territories
	Injuries    *Injuries
	Loot        *LootBoxes
	XP          *XP
}

// ruleData is the decoded content of one rule-data filesystem.
type ruleData struct {
	territories []byte
	schemas     []byte
	gangs       []Gang
	injuries    map[string]model.RuleTable
	loot        map[string]model.RuleTable
	xp          map[string]model.RuleTable
}

func readRuleData(fsys fs.FS) (*ruleData, error) {
	raw := make(map[string][]byte, len(data.Names))
	for _, name := range data.Names {
		b, err := data.Read(fsys, name)
		if err != nil {
			return nil, err
		}
		raw[name] = b
	}

	d := &ruleData{
		territories: raw[data.TerritoriesFile],
		schemas:     raw[data.TerritorySchemaFile],
	}
	if err := json.Unmarshal(raw[data.GangsFile], &d.gangs); err != nil {
		return nil, fmt.Errorf("decode gangs: %w", err)
	}
	var err error
	if d.injuries, err = model.DecodeTables(raw[data.InjuriesFile]); err != nil {
		return nil, fmt.Errorf("injuries: %w", err)
	}
	if d.loot, err = lootTables(raw[data.LootBoxesFile]); err != nil {
		return nil, err
	}
	if d.xp, err = model.DecodeTables(raw[data.XPTablesFile]); err != nil {
		return nil, fmt.Errorf("xp tables: %w", err)
	}
	return d, nil
}

// Load reads every rule-data file from fsys and builds the rule sets.
func Load(fsys fs.FS, roller *dice.Roller, opts ...rules.Option) (*Companion, error) {
	d, err := readRuleData(fsys)
	if err != nil {
		return nil, err
	}

	c := &Companion{}
	if c.Territories, err = NewTerritories(d.territories, d.schemas, d.gangs, roller, opts...); err != nil {
		return nil, err
	}
	if c.Injuries, err = newInjuries(d.injuries, roller, opts...); err != nil {
		return nil, err
	}
	if c.Loot, err = newLootBoxes(d.loot, roller, opts...); err != nil {
		return nil, err
	}
	if c.XP, err = newXP(d.xp, roller, opts...); err != nil {
		return nil, err
	}
	c.logLoaded("rule data loaded")
	return c, nil
}

// Reload re-reads fsys and swaps the rule data of every set in place. Every
// set is decoded and compiled before any is swapped, so a bad file leaves all
// of them on the old data. Resolutions in flight finish on the data they
// started with.
func (c *Companion) Reload(fsys fs.FS) error {
	d, err := readRuleData(fsys)
	if err != nil {
		return err
	}
	next := map[*rules.Engine]rules.Config{
		c.Injuries.Engine(): {Tables: d.injuries},
		c.Loot.Engine():     {Tables: d.loot},
		c.XP.Engine():       {Tables: d.xp},
	}
	for e, cfg := range next {
		if err := e.Check(cfg); err != nil {
			return err
		}
	}
	if err := c.Territories.swap(d.territories, d.schemas, d.gangs); err != nil {
		return err
	}
	for e, cfg := range next {
		if err := e.Swap(cfg); err != nil {
			return err
		}
	}
	c.logLoaded("rule data reloaded")
	return nil
}

func (c *Companion) logLoaded(msg string) {
	for _, p := range c.Territories.ValidateAll() {
		slog.Warn("territory data", "problem", p)
	}
	slog.Info(msg,
		"territories", len(c.Territories.All()),
		"gangs", len(c.Territories.Gangs()),
		"injuryModes", len(c.Injuries.Modes()),
		"skillTables", len(c.XP.Skills()))
}

// Engine returns the engine for a table set.
func (c *Companion) Engine(set string) (*rules.Engine, error) {
	switch set {
	case SetInjuries:
		return c.Injuries.Engine(), nil
	case SetLoot:
		return c.Loot.Engine(), nil
	case SetXP:
		return c.XP.Engine(), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownSet, set)
}

// RollTable resolves any table of a set, optionally with a forced roll.
func (c *Companion) RollTable(set, table string, roll *int) (model.Result, error) {
	e, err := c.Engine(set)
	if err != nil {
		return model.Result{}, err
	}
	if roll != nil {
		return e.ResolveTableWithRoll(table, *roll), nil
	}
	return e.ResolveTable(table), nil
}

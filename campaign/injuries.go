package campaign

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/nstehr/dominion/dominion-core/dice"
	"github.com/nstehr/dominion/dominion-core/model"
	"github.com/nstehr/dominion/dominion-core/rules"
)

// Injury and rogue doc modes shipped with the default data.
const (
	StandardInjuries = "standard_lasting_injuries"
	IronmanInjuries  = "ironman_lasting_injuries"
	TradingPostDoc   = "trading_post_rogue_doc"
	GangRogueDoc     = "rogue_doc"
)

// Random effect tags handled by injury behaviors.
const (
	EffectXPGain           = "d3xpgain"
	EffectMultipleInjuries = "d3multipleinjuries"
	EffectStabilised       = "stabilisedinjury"
)

// ErrUnknownMode is returned for an injury or rogue doc mode with no table.
var ErrUnknownMode = errors.New("unknown mode")

var (
	// Outcomes that cannot be among the further injuries of a Multiple Injuries roll.
	multipleExcluded = []string{"captured", "multiple_injuries", "memorable_death", "critical_injury", "out_cold"}
	// Outcomes that cannot be the lasting injury of a stabilised patient.
	stabilisedExcluded = []string{"captured", "critical_injury", "memorable_death"}
)

// Injuries resolves lasting injuries and rogue doc treatment.
type Injuries struct {
	engine *rules.Engine
}

// NewInjuries decodes the injury document (mode name → table) and registers
// the injury behaviors.
func NewInjuries(raw []byte, roller *dice.Roller, opts ...rules.Option) (*Injuries, error) {
	tables, err := model.DecodeTables(raw)
	if err != nil {
		return nil, fmt.Errorf("injuries: %w", err)
	}
	return newInjuries(tables, roller, opts...)
}

func newInjuries(tables map[string]model.RuleTable, roller *dice.Roller, opts ...rules.Option) (*Injuries, error) {
	opts = append(opts,
		rules.WithBehavior(EffectXPGain, gainXP),
		rules.WithBehavior(EffectMultipleInjuries, multipleInjuries),
		rules.WithBehavior(EffectStabilised, stabilisedInjury),
	)
	engine, err := rules.NewEngine(rules.Config{Tables: tables}, roller, opts...)
	if err != nil {
		return nil, fmt.Errorf("injuries: %w", err)
	}
	return &Injuries{engine: engine}, nil
}

// Engine returns the engine injury tables resolve on.
func (i *Injuries) Engine() *rules.Engine { return i.engine }

// Modes lists the lasting injury modes.
func (i *Injuries) Modes() []string {
	return slices.DeleteFunc(i.engine.Catalog().TableNames(), func(n string) bool {
		return !strings.HasSuffix(n, "_lasting_injuries")
	})
}

// DocModes lists the rogue doc modes.
func (i *Injuries) DocModes() []string {
	return slices.DeleteFunc(i.engine.Catalog().TableNames(), func(n string) bool {
		return !strings.HasSuffix(n, "rogue_doc")
	})
}

// Roll resolves one lasting injury in mode.
func (i *Injuries) Roll(mode string) (model.Result, error) {
	if !slices.Contains(i.Modes(), mode) {
		return model.Result{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return i.engine.ResolveTable(mode), nil
}

// RollWithValue resolves a lasting injury as if roll had been rolled.
func (i *Injuries) RollWithValue(mode string, roll int) (model.Result, error) {
	if !slices.Contains(i.Modes(), mode) {
		return model.Result{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return i.engine.ResolveTableWithRoll(mode, roll), nil
}

// RogueDocCost rolls the treatment price for mode.
func (i *Injuries) RogueDocCost(mode string) (int, error) {
	t, ok := i.engine.Catalog().Table(mode)
	if !ok || !slices.Contains(i.DocModes(), mode) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if t.Cost == nil {
		return 0, fmt.Errorf("rogue doc %s has no cost", mode)
	}
	cost, _, err := i.engine.RollCost(*t.Cost)
	return cost, err
}

// RogueDoc resolves a treatment. A precalculated cost (quoted to the player
// beforehand) is used as given; otherwise modes with a cost formula roll one.
func (i *Injuries) RogueDoc(mode string, precalculated *int) (model.Result, error) {
	t, ok := i.engine.Catalog().Table(mode)
	if !ok || !slices.Contains(i.DocModes(), mode) {
		return model.Result{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	cost := precalculated
	if cost == nil && t.Cost != nil {
		v, _, err := i.engine.RollCost(*t.Cost)
		if err != nil {
			return model.Result{}, fmt.Errorf("rogue doc %s: %w", mode, err)
		}
		cost = &v
	}
	res := i.engine.ResolveTable(mode)
	if cost != nil {
		c := *cost
		res.Cost = &c
	}
	return res, nil
}

func gainXP(c *rules.Cascade, res *model.Result) {
	v, err := c.Roll(3)
	if err != nil {
		return
	}
	res.Extra = &model.ExtraRoll{Label: "XP gained", Sides: 3, Value: v}
	res.Description += fmt.Sprintf(" D3 XP: %d.", v)
}

func multipleInjuries(c *rules.Cascade, res *model.Result) {
	n, err := c.Roll(3)
	if err != nil {
		return
	}
	res.Extra = &model.ExtraRoll{Label: "Further injuries", Sides: 3, Value: n}
	for range n {
		more := c.TableExcluding(res.Table, multipleExcluded)
		res.Additional = append(res.Additional, more)
		if !more.OK() {
			break
		}
	}
}

func stabilisedInjury(c *rules.Cascade, res *model.Result) {
	injury := c.TableExcluding(StandardInjuries, stabilisedExcluded)
	res.Nested = &injury
}

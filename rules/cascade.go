package rules

import (
	"fmt"
	"slices"

	"github.com/nstehr/dominion/dominion-core/dice"
	"github.com/nstehr/dominion/dominion-core/model"
)

// Behavior runs after an outcome tagged with its random effect has matched.
// It may roll through c, sharing the resolution's attempt budget, and fills
// in res before the result is returned.
type Behavior func(c *Cascade, res *model.Result)

// Cascade is the state of one resolution: the catalog snapshot it runs against
// and the attempt budget shared by rerolls, nested tables and behaviors.
type Cascade struct {
	e    *Engine
	cat  *Catalog
	used int
	max  int
}

// Exhausted reports whether the attempt budget is used up.
func (c *Cascade) Exhausted() bool { return c.used >= c.max }

func (c *Cascade) spend() bool {
	if c.used >= c.max {
		return false
	}
	c.used++
	return true
}

// Roll rolls one die of the given sides.
func (c *Cascade) Roll(sides int) (int, error) {
	return c.e.roller.RollOne(sides)
}

// Table resolves the named table within this cascade.
func (c *Cascade) Table(name string) model.Result {
	return c.table(name, nil)
}

// TableExcluding resolves the named table, rolling again (at the cost of one
// attempt each) while the outcome id is in exclude.
func (c *Cascade) TableExcluding(name string, exclude []string) model.Result {
	for {
		res := c.table(name, nil)
		if !res.OK() || res.Outcome == nil || !slices.Contains(exclude, res.Outcome.ID) {
			return res
		}
	}
}

func (c *Cascade) table(name string, forced *int) model.Result {
	t, ok := c.cat.tables[name]
	if !ok {
		return model.ErrorResult(name, fmt.Errorf("%w: %q", ErrTableNotFound, name).Error())
	}
	spec := t.Dice()
	var rerolls []model.RerollRecord
	for {
		if !c.spend() {
			return exhausted(name, c.max, rerolls)
		}
		rolls, total, err := c.rollTable(spec, forced)
		forced = nil
		if err != nil {
			res := model.ErrorResult(name, fmt.Sprintf("table %s: %v", name, err))
			res.Rerolls = rerolls
			return res
		}
		out, ok := FindFirstMatch(total, t.Outcomes)
		if !ok {
			res := model.ErrorResult(name, fmt.Sprintf("no result in table %s for roll %d", name, total))
			res.Dice = spec.String()
			res.Rolls = rolls
			res.Total = total
			res.Rerolls = rerolls
			return res
		}
		if out.Effect.Kind == model.EffectReroll {
			rerolls = append(rerolls, model.RerollRecord{Roll: total, Name: out.Name})
			continue
		}
		matched := *out
		res := model.Result{
			Status:      model.StatusResolved,
			Table:       name,
			Dice:        spec.String(),
			Rolls:       rolls,
			Total:       total,
			Outcome:     &matched,
			Rerolls:     rerolls,
			Description: describeOutcome(spec, total, matched),
		}
		c.follow(&res, matched)
		return res
	}
}

// follow applies the matched outcome's cascade: a nested table, a registered
// behavior, and any payout attached to the outcome.
func (c *Cascade) follow(res *model.Result, out model.Outcome) {
	switch out.Effect.Kind {
	case model.EffectNestedTable:
		nested := c.table(out.Effect.Name, nil)
		res.Nested = &nested
	case model.EffectBehavior:
		if b, ok := c.e.behaviors[out.Effect.Name]; ok {
			b(c, res)
			break
		}
		// Neither a table nor a known behavior: report it as a missing table.
		res.Effect = out.Effect.Name
		missing := model.ErrorResult(out.Effect.Name, fmt.Errorf("%w: %q", ErrTableNotFound, out.Effect.Name).Error())
		res.Nested = &missing
	}
	if out.Income != nil && out.Income.Sides > 0 {
		roll, err := c.Roll(out.Income.Sides)
		if err != nil {
			return
		}
		mult := out.Income.Multiplier
		if mult == 0 {
			mult = 1
		}
		res.Extra = &model.ExtraRoll{Label: "Income", Sides: out.Income.Sides, Value: roll}
		res.Multiplier = mult
		res.Credits = roll * mult
		res.Description += fmt.Sprintf(" Income: %d × %d = %d credits.", roll, mult, res.Credits)
	}
}

// rollTable rolls spec, or uses forced as the table value. A forced d66 value
// is split into its tens and units digits.
func (c *Cascade) rollTable(spec model.DiceSpec, forced *int) ([]int, int, error) {
	if forced == nil {
		return c.rollDice(spec)
	}
	v := *forced
	if spec.Sides.D66 {
		return []int{v / 10, v % 10}, v, nil
	}
	return []int{v}, v, nil
}

func (c *Cascade) rollDice(spec model.DiceSpec) ([]int, int, error) {
	if spec.Sides.D66 {
		tens, units := c.e.roller.RollD66()
		return []int{tens, units}, tens*10 + units, nil
	}
	if !spec.Sides.Valid() {
		return nil, 0, fmt.Errorf("%w: %q", dice.ErrInvalidSides, spec.Sides)
	}
	rolls, err := c.e.roller.RollMany(spec.Count, spec.Sides.N)
	if err != nil {
		return nil, 0, err
	}
	return rolls, dice.Sum(rolls), nil
}

func exhausted(table string, max int, rerolls []model.RerollRecord) model.Result {
	msg := fmt.Sprintf("too many rerolls (%d) resolving %s", max, table)
	return model.Result{
		Status:      model.StatusExhausted,
		Table:       table,
		Rerolls:     rerolls,
		Error:       msg,
		Description: msg,
	}
}

func describeOutcome(spec model.DiceSpec, total int, out model.Outcome) string {
	desc := fmt.Sprintf("Rolled %d on %s: %s.", total, spec, out.Name)
	if out.FixedEffect != "" {
		desc += " " + out.FixedEffect
	}
	return desc
}

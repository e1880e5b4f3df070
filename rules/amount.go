package rules

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/nstehr/dominion/dominion-core/dice"
	"github.com/nstehr/dominion/dominion-core/model"
)

// Deck-draw payout multipliers used when a rule leaves them out.
const (
	DefaultSuitMultiplier   = 10
	DefaultColourMultiplier = 5
)

// Input carries the caller-supplied values some rules need before rolling.
type Input struct {
	Count     *int      `json:"count,omitempty"`
	Suit      dice.Suit `json:"suit,omitempty"`
	Cancelled bool      `json:"cancelled,omitempty"`

	// Held is the set of territory ids held alongside the entity. Conditional
	// overrides and trigger expressions read it.
	Held []string `json:"held,omitempty"`
}

// ResolveRule resolves one schema-merged rule: plain text, a deck draw, a
// target-count roll or a numeric amount. A cancelled input rolls nothing.
func (e *Engine) ResolveRule(rule model.Rule, in Input) model.Result {
	if in.Cancelled {
		return model.Cancelled()
	}
	c := e.newCascade()
	switch {
	case rule.IsText():
		return model.Result{Status: model.StatusResolved, Description: rule.Text}
	case rule.DeckDraw():
		return c.deck(rule, in)
	case rule.TargetCount():
		return c.targetCount(rule, in)
	default:
		return c.amount(rule, in)
	}
}

// RollCost prices a service with (count d sides) × multiplier + addition.
func (e *Engine) RollCost(f model.CostFormula) (int, []int, error) {
	count := f.Count
	if count <= 0 {
		count = 1
	}
	rolls, err := e.roller.RollMany(count, f.Sides)
	if err != nil {
		return 0, nil, fmt.Errorf("cost: %w", err)
	}
	return dice.Sum(rolls)*f.Multiplier + f.Addition, rolls, nil
}

// shape is the dice and payout parameters a rule rolls with after
// conditional overrides and count selection.
type shape struct {
	count, mult, add int
	sides            model.Sides
	note             string
}

func (c *Cascade) shapeOf(rule model.Rule, in Input) (shape, error) {
	s := shape{count: rule.Count, mult: rule.Multiplier, add: rule.Addition, sides: rule.Sides}
	if rule.RequiredTerritory != "" && rule.Conditional != nil && slices.Contains(in.Held, rule.RequiredTerritory) {
		cond := rule.Conditional
		if cond.Multiplier != nil {
			s.mult = *cond.Multiplier
		}
		if cond.Addition != nil {
			s.add = *cond.Addition
		}
		if cond.Count != nil {
			s.count = *cond.Count
		}
		if cond.Sides != nil {
			s.sides = *cond.Sides
		}
		s.note = fmt.Sprintf(" (%s held)", rule.RequiredTerritory)
	}
	if rule.UserCount() {
		lo, hi := *rule.CountMin, *rule.CountMax
		if in.Count == nil {
			return s, fmt.Errorf("choose a dice count between %d and %d", lo, hi)
		}
		n := *in.Count
		if n < lo || n > hi {
			return s, fmt.Errorf("dice count %d is outside %d-%d", n, lo, hi)
		}
		s.note += fmt.Sprintf(" (user selected %d from %d-%d)", n, lo, hi)
		if rule.CountMultiplier > 0 {
			n *= rule.CountMultiplier
		}
		s.count = n
	} else if s.count <= 0 {
		s.count = 1
	}
	if !s.sides.Valid() {
		return s, fmt.Errorf("%w: %q", dice.ErrInvalidSides, s.sides)
	}
	return s, nil
}

// amount computes credits = total × multiplier + addition, with the event's
// values substituted when its trigger fires on the roll.
func (c *Cascade) amount(rule model.Rule, in Input) model.Result {
	s, err := c.shapeOf(rule, in)
	if err != nil {
		return model.ErrorResult("", err.Error())
	}
	var trig *Trigger
	if rule.Event != nil && rule.Event.Trigger != "" {
		if trig, err = c.e.trigger(c.cat, rule.Event.Trigger); err != nil {
			return model.ErrorResult("", err.Error())
		}
	}
	spec := model.DiceSpec{Count: s.count, Sides: s.sides}
	rolls, total, err := c.rollDice(spec)
	if err != nil {
		return model.ErrorResult("", err.Error())
	}
	res := model.Result{
		Status: model.StatusResolved,
		Dice:   spec.String(),
		Rolls:  rolls,
		Total:  total,
	}
	fired := false
	if trig != nil {
		fired, err = trig.Eval(RollEnv{Rolls: rolls, Total: total, Held: in.Held})
		if err != nil {
			return model.ErrorResult("", err.Error())
		}
	}
	if fired {
		s.mult, s.add = deref(rule.Event.Multiplier), deref(rule.Event.Addition)
		res.EventTriggered = true
		res.EventText = rule.Event.Text
	}
	res.Multiplier, res.Addition = s.mult, s.add
	res.Credits = total*s.mult + s.add

	var b strings.Builder
	fmt.Fprintf(&b, "Rolled %s%s: %s.", spec, s.note, joinRolls(rolls))
	if fired && res.EventText != "" {
		b.WriteString(" " + res.EventText)
	}
	fmt.Fprintf(&b, " Income: %s credits.", formula(total, s.mult, s.add, res.Credits))
	res.Description = b.String()
	return res
}

// deck draws one card against the caller's suit guess.
func (c *Cascade) deck(rule model.Rule, in Input) model.Result {
	if in.Suit == dice.NoSuit {
		return model.ErrorResult("", "a suit guess is required before drawing")
	}
	suitMult := DefaultSuitMultiplier
	if rule.SuitMultiplier != nil {
		suitMult = *rule.SuitMultiplier
	}
	colourMult := DefaultColourMultiplier
	if rule.ColourMultiplier != nil {
		colourMult = *rule.ColourMultiplier
	}
	card := c.e.roller.DrawCards(1)[0]

	var mult int
	var verdict string
	switch {
	case card.Joker:
		verdict = "the joker pays nothing"
	case card.Suit == in.Suit:
		mult, verdict = suitMult, "suit matched"
	case card.Suit.Colour() == in.Suit.Colour():
		mult, verdict = colourMult, "colour matched"
	default:
		verdict = "no match"
	}
	credits := card.Value() * mult
	return model.Result{
		Status:      model.StatusResolved,
		Dice:        "card",
		Total:       card.Value(),
		Credits:     credits,
		Multiplier:  mult,
		Card:        &card,
		Guess:       in.Suit,
		Description: fmt.Sprintf("Guessed %s, drew %s: %s. Income: %d × %d = %d credits.", in.Suit.Symbol(), card, verdict, card.Value(), mult, credits),
	}
}

// targetCount rolls the rule's dice and looks up the outcome by how many dice
// showed the target value.
func (c *Cascade) targetCount(rule model.Rule, in Input) model.Result {
	s, err := c.shapeOf(rule, in)
	if err != nil {
		return model.ErrorResult("", err.Error())
	}
	spec := model.DiceSpec{Count: s.count, Sides: s.sides, Target: rule.Target}
	rolls, total, err := c.rollDice(spec)
	if err != nil {
		return model.ErrorResult("", err.Error())
	}
	matches := dice.CountValue(rolls, rule.Target)
	out, ok := FindFirstMatch(matches, rule.Outcomes)
	if !ok {
		res := model.ErrorResult("", fmt.Sprintf("no outcome for %d dice showing %d", matches, rule.Target))
		res.Rolls, res.Total, res.MatchCount = rolls, total, &matches
		return res
	}
	matched := *out
	desc := fmt.Sprintf("Rolled %s: %s. %d matching %d(s). %s", spec, joinRolls(rolls), matches, rule.Target, matched.Name)
	if rule.Effect != "" {
		desc += " " + rule.Effect
	}
	return model.Result{
		Status:      model.StatusResolved,
		Dice:        spec.String(),
		Rolls:       rolls,
		Total:       total,
		Outcome:     &matched,
		MatchCount:  &matches,
		Description: desc,
	}
}

// CountPrompt is the question asked before a user-selected count roll, with
// {count_min} and {count_max} filled in. Empty when the rule has a fixed count.
func CountPrompt(rule model.Rule) string {
	if !rule.UserCount() {
		return ""
	}
	lo, hi := strconv.Itoa(*rule.CountMin), strconv.Itoa(*rule.CountMax)
	if rule.CountMessage == "" {
		return "How many dice to roll for income? (" + lo + "-" + hi + ")"
	}
	return strings.NewReplacer("{count_min}", lo, "{count_max}", hi).Replace(rule.CountMessage)
}

func formula(total, mult, add, credits int) string {
	switch {
	case add == 0:
		return fmt.Sprintf("%d × %d = %d", total, mult, credits)
	case mult == 0:
		return strconv.Itoa(credits)
	default:
		return fmt.Sprintf("%d × %d + %d = %d", total, mult, add, credits)
	}
}

func joinRolls(rolls []int) string {
	if len(rolls) == 0 {
		return "no dice"
	}
	parts := make([]string, len(rolls))
	for i, r := range rolls {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ", ")
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

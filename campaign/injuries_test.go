package campaign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nstehr/dominion/dominion-core/dice"
	"github.com/nstehr/dominion/dominion-core/model"
)

func TestInjuryWithValue(t *testing.T) {
	src := dice.NewScripted(1)
	c := load(t, src)
	res, err := c.Injuries.RollWithValue(StandardInjuries, 11)
	require.NoError(t, err)

	assert.Equal(t, "lucky_escape", res.Outcome.ID)
	assert.Equal(t, "green", res.Outcome.Colour)
	assert.Zero(t, src.Consumed())
}

func TestInjuryFlags(t *testing.T) {
	c := load(t, dice.NewScripted(1))
	res, err := c.Injuries.RollWithValue(StandardInjuries, 33)
	require.NoError(t, err)

	assert.Equal(t, "Convalescence", res.Outcome.Name)
	assert.True(t, bool(res.Outcome.Convalescence))
	assert.True(t, bool(res.Outcome.IntoRecovery))
}

func TestMultipleInjuries(t *testing.T) {
	// d3 = 2, then 11 and 41 on the d66.
	c := load(t, dice.NewScripted(2, 1, 1, 4, 1))
	res, err := c.Injuries.RollWithValue(StandardInjuries, 52)
	require.NoError(t, err)

	require.Equal(t, "multiple_injuries", res.Outcome.ID)
	require.NotNil(t, res.Extra)
	assert.Equal(t, 2, res.Extra.Value)
	require.Len(t, res.Additional, 2)
	assert.Equal(t, "lucky_escape", res.Additional[0].Outcome.ID)
	assert.Equal(t, "humiliated", res.Additional[1].Outcome.ID)
}

func TestMultipleInjuriesSkipsExcluded(t *testing.T) {
	// d3 = 1, then 12 (out cold, excluded) and 11.
	c := load(t, dice.NewScripted(1, 1, 2, 1, 1))
	res, err := c.Injuries.RollWithValue(StandardInjuries, 53)
	require.NoError(t, err)

	require.Len(t, res.Additional, 1)
	assert.Equal(t, "lucky_escape", res.Additional[0].Outcome.ID)
}

func TestIronmanMemorableDeath(t *testing.T) {
	c := load(t, dice.NewScripted(6, 2))
	res, err := c.Injuries.Roll(IronmanInjuries)
	require.NoError(t, err)

	assert.Equal(t, "memorable_death", res.Outcome.ID)
	require.NotNil(t, res.Extra)
	assert.Equal(t, "XP gained", res.Extra.Label)
	assert.Equal(t, 2, res.Extra.Value)
	assert.Equal(t, "1d6", res.Dice)
}

func TestUnknownInjuryMode(t *testing.T) {
	c := load(t, dice.NewScripted(1))
	_, err := c.Injuries.Roll("grimdark")
	assert.ErrorIs(t, err, ErrUnknownMode)
	_, err = c.Injuries.Roll(TradingPostDoc)
	assert.ErrorIs(t, err, ErrUnknownMode, "a rogue doc table is not an injury mode")
}

func TestRogueDocStabilised(t *testing.T) {
	// cost d6 = 3, treatment d6 = 2 (stabilised), injury d66 = 11.
	c := load(t, dice.NewScripted(3, 2, 1, 1))
	res, err := c.Injuries.RogueDoc(TradingPostDoc, nil)
	require.NoError(t, err)

	require.NotNil(t, res.Cost)
	assert.Equal(t, 30, *res.Cost)
	assert.Equal(t, "stabilised", res.Outcome.ID)
	require.NotNil(t, res.Nested)
	assert.Equal(t, StandardInjuries, res.Nested.Table)
	assert.Equal(t, "lucky_escape", res.Nested.Outcome.ID)
}

func TestRogueDocStabilisedSkipsExcluded(t *testing.T) {
	// treatment 2, then 55 (captured, excluded), then 11.
	c := load(t, dice.NewScripted(2, 5, 5, 1, 1))
	res, err := c.Injuries.RogueDoc(GangRogueDoc, nil)
	require.NoError(t, err)

	assert.Nil(t, res.Cost)
	require.NotNil(t, res.Nested)
	assert.Equal(t, "lucky_escape", res.Nested.Outcome.ID)
}

func TestRogueDocPrecalculatedCost(t *testing.T) {
	src := dice.NewScripted(5)
	c := load(t, src)
	quoted := 50
	res, err := c.Injuries.RogueDoc(TradingPostDoc, &quoted)
	require.NoError(t, err)

	assert.Equal(t, 50, *res.Cost)
	assert.Equal(t, "full_recovery", res.Outcome.ID)
	assert.Equal(t, 1, src.Consumed())
	assert.Equal(t, model.StatusResolved, res.Status)
}

func TestRogueDocCost(t *testing.T) {
	c := load(t, dice.NewScripted(4))
	cost, err := c.Injuries.RogueDocCost(TradingPostDoc)
	require.NoError(t, err)
	assert.Equal(t, 40, cost)

	_, err = c.Injuries.RogueDocCost(GangRogueDoc)
	assert.Error(t, err)
	_, err = c.Injuries.RogueDoc(StandardInjuries, nil)
	assert.ErrorIs(t, err, ErrUnknownMode)
}

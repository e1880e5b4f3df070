package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nstehr/dominion/dominion-core/dice"
	"github.com/nstehr/dominion/dominion-core/model"
)

func territories(t *testing.T, raw string) []model.Territory {
	t.Helper()
	var out []model.Territory
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestBatchIsCategoryMajor(t *testing.T) {
	ents := territories(t, `[
		{"id": "a", "name": "A", "income": {}, "random_recruit": {"count": 1, "sides": 6, "target": 6, "outcomes": {"0": "Nobody.", "1": "A juve."}}},
		{"id": "b", "name": "B", "income": {}, "random_recruit": {"count": 1, "sides": 6, "target": 6, "outcomes": {"0": "Nobody.", "1": "A juve."}}}
	]`)
	e := newTestEngine(t, dice.NewScripted(1, 2, 3, 6))
	out := e.ResolveBatch(ents, []model.Category{model.Income, model.RandomRecruit}, BatchInput{})

	rollOf := func(c model.Category, id string) int {
		res, ok := out.Result(c, id)
		require.True(t, ok, "%s/%s", c, id)
		require.Len(t, res.Rolls, 1)
		return res.Rolls[0]
	}
	assert.Equal(t, 1, rollOf(model.Income, "a"))
	assert.Equal(t, 2, rollOf(model.Income, "b"))
	assert.Equal(t, 3, rollOf(model.RandomRecruit, "a"))
	assert.Equal(t, 6, rollOf(model.RandomRecruit, "b"))

	require.Len(t, out.Sections, 2)
	assert.Equal(t, model.Income, out.Sections[0].Category)
	assert.Equal(t, model.RandomRecruit, out.Sections[1].Category)
	assert.Equal(t, 30, out.Credits)
}

func TestBatchCreditAggregation(t *testing.T) {
	ents := territories(t, `[
		{"id": "t1", "name": "Settlement", "income": {"count": 1, "multiplier": 5}},
		{"id": "t2", "name": "Wastes", "reputation": "+1 Reputation"},
		{"id": "t3", "name": "Slag Furnace", "income": {"count": 1, "multiplier": 7}}
	]`)
	e := newTestEngine(t, dice.NewScripted(4, 5))
	out := e.ResolveBatch(ents, []model.Category{model.Income}, BatchInput{})

	assert.Equal(t, 55, out.Credits)
	assert.Equal(t, []string{"Wastes"}, out.Without[model.Income])
	res, ok := out.Result(model.Income, "t2")
	require.True(t, ok)
	assert.Equal(t, model.StatusNoRule, res.Status)
}

func TestBatchCancellationIsPure(t *testing.T) {
	ents := territories(t, `[
		{"id": "den", "name": "Gambling Den", "income": {"draw_from_deck": 1}},
		{"id": "mine", "name": "Mine", "income": {"count_min": 1, "count_max": 3}}
	]`)
	src := dice.NewScripted(6)
	e := newTestEngine(t, src)
	out := e.ResolveBatch(ents, []model.Category{model.Income, model.Reputation}, BatchInput{
		Inputs: map[string]Input{
			"den":  {Cancelled: true},
			"mine": {Cancelled: true},
		},
	})

	assert.Zero(t, src.Consumed())
	assert.Zero(t, out.Credits)
	assert.ElementsMatch(t, []string{"Gambling Den", "Mine"}, out.Cancelled)
	assert.Empty(t, out.Without[model.Reputation], "cancelled entities are not counted as lacking a rule")
	for _, sec := range out.Sections {
		for _, entry := range sec.Entries {
			assert.Equal(t, model.StatusCancelled, entry.Result.Status)
		}
	}
}

func TestBatchGangAndEvents(t *testing.T) {
	ents := territories(t, `[
		{"id": "mine", "name": "Mine", "income": {"count": 1}, "income_houseA": {"schema": "withDuplicateEvent"}}
	]`)
	e := newTestEngine(t, dice.NewScripted(2, 2))
	out := e.ResolveBatch(ents, []model.Category{model.Income}, BatchInput{Gang: "houseA"})

	require.Len(t, out.Events, 1)
	assert.Equal(t, "Mine", out.Events[0].Name)
	assert.Equal(t, "Trouble at the mine.", out.Events[0].Text)
	assert.Zero(t, out.Credits)
}

func TestBatchContextDefaultsToEntities(t *testing.T) {
	ents := territories(t, `[
		{"id": "refinery", "name": "Refinery"},
		{"id": "pipes", "name": "Pipes", "income": {"required_territory": "refinery", "conditional": {"multiplier": 30}}}
	]`)
	e := newTestEngine(t, dice.NewScripted(2))
	out := e.ResolveBatch(ents, []model.Category{model.Income}, BatchInput{})

	assert.Equal(t, 60, out.Credits)
	assert.Equal(t, []string{"Refinery"}, out.Without[model.Income])
}

func TestBatchRecordsErrors(t *testing.T) {
	ents := territories(t, `[{"id": "x", "name": "Broken", "income": {"sides": "many"}}]`)
	e := newTestEngine(t, dice.NewScripted(1))
	out := e.ResolveBatch(ents, []model.Category{model.Income}, BatchInput{})

	require.Len(t, out.Errors[model.Income], 1)
	assert.Equal(t, "Broken", out.Errors[model.Income][0].Name)
	assert.Zero(t, out.Credits)
}

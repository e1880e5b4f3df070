package campaign

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nstehr/dominion/dominion-core/data"
	"github.com/nstehr/dominion/dominion-core/dice"
	"github.com/nstehr/dominion/dominion-core/model"
	"github.com/nstehr/dominion/dominion-core/rules"
)

func TestTerritoryPrompts(t *testing.T) {
	c := load(t, dice.NewScripted(1))
	ids := []string{"old_ruins", "gambling_den", "slag_furnace"}

	prompts, err := c.Territories.Prompts(ids, "")
	require.NoError(t, err)
	require.Len(t, prompts, 2)
	assert.Equal(t, PromptSuit, prompts[0].Kind)
	assert.Equal(t, "gambling_den", prompts[0].TerritoryID)
	assert.Equal(t, PromptCount, prompts[1].Kind)
	assert.Equal(t, "Slag Furnace: How many gangers work the furnace this cycle? (0-3)", prompts[1].Message)
	assert.Equal(t, 0, prompts[1].Min)
	assert.Equal(t, 3, prompts[1].Max)

	prompts, err = c.Territories.Prompts([]string{"slag_furnace"}, "Goliath")
	require.NoError(t, err)
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0].Message, "Goliaths")

	_, err = c.Territories.Prompts([]string{"atlantis"}, "")
	assert.ErrorIs(t, err, ErrUnknownTerritory)
}

func TestResolveTerritoriesForGang(t *testing.T) {
	// income: old ruins (escher, 2 dice) 1+2, settlement 3; recruit: settlement (escher, 3 dice) 6,6,1.
	c := load(t, dice.NewScripted(1, 2, 3, 6, 6, 1))
	out, err := c.Territories.Resolve(
		[]string{"old_ruins", "settlement"},
		[]model.Category{model.Income, model.RandomRecruit},
		rules.BatchInput{Gang: "escher"},
	)
	require.NoError(t, err)

	assert.Equal(t, 60, out.Credits)
	assert.Equal(t, []string{"Old Ruins"}, out.Without[model.RandomRecruit])

	recruit, ok := out.Result(model.RandomRecruit, "settlement")
	require.True(t, ok)
	require.NotNil(t, recruit.MatchCount)
	assert.Equal(t, 2, *recruit.MatchCount)
	assert.Contains(t, recruit.Description, "Recruit either two juves or one ganger for free.")
	assert.Contains(t, recruit.Description, "Escher gangs may recruit")
}

func TestResolveTerritoriesAllCategories(t *testing.T) {
	c := load(t, dice.NewScripted(4))
	out, err := c.Territories.Resolve([]string{"tunnels"}, nil, rules.BatchInput{Gang: "orlock"})
	require.NoError(t, err)

	require.Len(t, out.Sections, len(model.Categories))
	battle, ok := out.Result(model.BattleSpecialRules, "tunnels")
	require.True(t, ok)
	assert.Contains(t, battle.Description, "Orlock fighters")
	scenario, _ := out.Result(model.ScenarioSelectionSpecialRules, "tunnels")
	assert.Equal(t, model.StatusResolved, scenario.Status)
	assert.Equal(t, []string{"Tunnels"}, out.Without[model.Income])
}

func TestResolveConditionalOnHeldTerritory(t *testing.T) {
	c := load(t, dice.NewScripted(2))

	withRefinery, err := c.Territories.Resolve([]string{"toll_crossing", "refinery"}, []model.Category{model.Income}, rules.BatchInput{})
	require.NoError(t, err)
	toll, _ := withRefinery.Result(model.Income, "toll_crossing")
	assert.Equal(t, 30, toll.Credits)

	alone, err := c.Territories.Resolve([]string{"toll_crossing"}, []model.Category{model.Income}, rules.BatchInput{})
	require.NoError(t, err)
	toll, _ = alone.Result(model.Income, "toll_crossing")
	assert.Equal(t, 20, toll.Credits)
}

func TestResolveDeckAndCountInputs(t *testing.T) {
	// gambling den draws the queen of hearts; slag furnace rolls 2 dice.
	c := load(t, dice.NewScripted(25, 3, 3))
	out, err := c.Territories.Resolve(
		[]string{"gambling_den", "slag_furnace"},
		[]model.Category{model.Income},
		rules.BatchInput{Inputs: map[string]rules.Input{
			"gambling_den": {Suit: dice.Hearts},
			"slag_furnace": {Count: intp(2)},
		}},
	)
	require.NoError(t, err)

	den, _ := out.Result(model.Income, "gambling_den")
	assert.Equal(t, 100, den.Credits)
	furnace, _ := out.Result(model.Income, "slag_furnace")
	assert.Equal(t, 30, furnace.Credits)
	assert.Equal(t, 130, out.Credits)
}

func TestValidateAllReportsProblems(t *testing.T) {
	schemas, err := data.Read(data.Files(""), data.TerritorySchemaFile)
	require.NoError(t, err)
	terr, err := NewTerritories([]byte(`[
		{"id": "x", "income": {"schema": "bogus"}},
		{"id": "x", "name": "Twice", "level": 1}
	]`), schemas, nil, dice.NewSeeded(1))
	require.NoError(t, err)

	problems := terr.ValidateAll()
	assert.Contains(t, problems, "territory x: missing name")
	assert.Contains(t, problems, "territory x: missing level")
	assert.Contains(t, problems, `territory x: unknown income schema "bogus"`)
	assert.Contains(t, problems, "territory x: duplicate id")
}

func TestValidateAllCompilesEventTriggers(t *testing.T) {
	schemas, err := data.Read(data.Files(""), data.TerritorySchemaFile)
	require.NoError(t, err)
	terr, err := NewTerritories([]byte(`[
		{"id": "mine", "name": "Mine", "level": 1, "income": {"schema": "standard", "event": {"trigger": "Count("}}},
		{"id": "pit", "name": "Pit", "level": 1, "income": {"schema": "withDuplicateEvent"}}
	]`), schemas, nil, dice.NewSeeded(1))
	require.NoError(t, err)

	problems := terr.ValidateAll()
	require.Len(t, problems, 1)
	assert.True(t, strings.HasPrefix(problems[0], "territory mine: income event: "), problems[0])
}

func intp(v int) *int { return &v }

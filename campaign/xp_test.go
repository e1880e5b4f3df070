package campaign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nstehr/dominion/dominion-core/dice"
	"github.com/nstehr/dominion/dominion-core/rules"
)

func TestAdvancementSumsDice(t *testing.T) {
	c := load(t, dice.NewScripted(3, 4))
	res := c.XP.Advancement()

	assert.Equal(t, []int{3, 4}, res.Rolls)
	assert.Equal(t, 7, res.Total)
	assert.Equal(t, "strength_or_toughness", res.Outcome.ID)
}

func TestAdvancementWithRoll(t *testing.T) {
	c := load(t, dice.NewScripted(1))
	res := c.XP.AdvancementWithRoll(12)
	assert.Equal(t, "weapon_or_ballistic", res.Outcome.ID)
}

func TestSkillTables(t *testing.T) {
	c := load(t, dice.NewScripted(4))
	skills := c.XP.Skills()

	require.Len(t, skills, 6)
	assert.Equal(t, SkillTable{ID: "skill_agility", Name: "Agility"}, skills[0])
	assert.Contains(t, skills, SkillTable{ID: "skill_savant_leadership", Name: "Savant Leadership"})

	res, err := c.XP.RollSkill("skill_agility")
	require.NoError(t, err)
	assert.Equal(t, "Mighty Leap", res.Outcome.Name)

	res, err = c.XP.RollSkillWithValue("skill_cunning", 2)
	require.NoError(t, err)
	assert.Equal(t, "Escape Artist", res.Outcome.Name)

	_, err = c.XP.RollSkill(AdvancementTable)
	assert.ErrorIs(t, err, rules.ErrTableNotFound)
}

package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stitts-dev/esms-sim/internal/models"
)

func playStarters(m *Match) {
	for _, team := range m.State.Teams {
		for i := 0; i < models.StartingPlayers; i++ {
			team.Players[i].Stats.Minutes = 90
		}
	}
}

func TestAbilityFromStatistics(t *testing.T) {
	opts := defaultOptions()
	opts.Ability = AbilityWeights{Goal: 10, ShotOn: 2, ShotOff: 1, Assist: 4, KeyPass: 1, KeyTackle: 1, Save: 3, Concede: -2, Yellow: -3, Red: -5}
	m := newTestMatch(t, opts, 1)
	playStarters(m)
	home := m.State.Teams[Home]

	fw := home.Players[9]
	fw.Stats.Goals, fw.Stats.ShotsOn, fw.Stats.ShotsOff = 2, 3, 1
	mf := home.Players[6]
	mf.Stats.Assists, mf.Stats.KeyPasses = 1, 2
	df := home.Players[4]
	df.Stats.Tackles, df.Stats.YellowCards = 5, 1
	gk := home.Players[0]
	gk.Stats.Saves, gk.Stats.Conceded, gk.Stats.RedCards = 4, 1, 1

	m.awardAbilityPoints()

	assert.Equal(t, 27, fw.Ability.Shooting)
	assert.Equal(t, 6, mf.Ability.Passing)
	assert.Equal(t, models.AbilityPoints{Tackling: 2, Passing: -3, Shooting: -3}, df.Ability)
	assert.Equal(t, models.AbilityPoints{Stopping: 5}, gk.Ability, "keeper cards hit stopping")
}

func TestCleanSheetAward(t *testing.T) {
	opts := defaultOptions()
	opts.Ability = AbilityWeights{CleanSheet: 7}
	m := newTestMatch(t, opts, 8)
	playStarters(m)

	m.awardAbilityPoints()

	for _, team := range m.State.Teams {
		assert.Equal(t, 7, team.Players[0].Ability.Stopping)
		assert.Zero(t, team.Players[11].Ability.Stopping, "bench keeper did not play")

		defenders := 0
		for i := 1; i <= 4; i++ {
			defenders += team.Players[i].Ability.Tackling
		}
		assert.Equal(t, 7, defenders, "one defender shares the clean sheet")
	}
}

func TestResultAwardsTwoPlayers(t *testing.T) {
	opts := defaultOptions()
	opts.Ability = AbilityWeights{Victory: 4, Defeat: -2}
	m := newTestMatch(t, opts, 3)
	playStarters(m)
	m.State.Teams[Home].Score = 1

	m.awardAbilityPoints()

	count := func(team *models.Team, points int) int {
		n := 0
		for _, p := range team.Players {
			if p.Ability == (models.AbilityPoints{}) {
				continue
			}
			if p.Position.IsGoalkeeper() {
				assert.Equal(t, models.AbilityPoints{Stopping: points}, p.Ability)
			} else {
				assert.Equal(t, models.AbilityPoints{Tackling: points, Passing: points, Shooting: points}, p.Ability)
			}
			n++
		}
		return n
	}
	assert.Equal(t, 2, count(m.State.Teams[Home], 4))
	assert.Equal(t, 2, count(m.State.Teams[Away], -2))
}

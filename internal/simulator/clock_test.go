package simulator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/esms-sim/internal/models"
	"github.com/stitts-dev/esms-sim/pkg/logger"
	"github.com/stitts-dev/esms-sim/pkg/utils"
)

func TestInjuryTime(t *testing.T) {
	m := newTestMatch(t, defaultOptions(), 1)
	home, away := m.State.Teams[Home], m.State.Teams[Away]

	assert.Equal(t, 0, m.InjuryTime(), "nothing happened")

	home.Substitutions, away.Substitutions = 1, 1
	away.Injuries = 1
	home.Fouls, away.Fouls = 2, 1
	assert.Equal(t, 3, m.InjuryTime())

	assert.Equal(t, 0, m.InjuryTime(), "only counts what happened since the last call")

	home.Fouls++
	assert.Equal(t, 1, m.InjuryTime(), "half minutes round up")
}

func TestPlayIsDeterministic(t *testing.T) {
	play := func() *Result {
		m := newTestMatch(t, Options{MaxSubstitutions: 3, RecordSnapshots: true}, 20240601)
		res, err := m.Play()
		require.NoError(t, err)
		return res
	}

	a, b := play(), play()

	assert.NotEqual(t, a.MatchID, b.MatchID)
	assert.Equal(t, a.Events, b.Events)
	assert.Equal(t, a.Snapshots, b.Snapshots)
	for side, pair := range [][2]*models.Team{{a.Home, b.Home}, {a.Away, b.Away}} {
		assert.Equal(t, pair[0].Score, pair[1].Score, "side %d", side)
		for i := range pair[0].Players {
			assert.Equal(t, pair[0].Players[i].Stats, pair[1].Players[i].Stats)
			assert.Equal(t, pair[0].Players[i].Ability, pair[1].Players[i].Ability)
			assert.Equal(t, pair[0].Players[i].Fatigue, pair[1].Players[i].Fatigue)
		}
	}
}

func TestPlayKeepsMatchInvariants(t *testing.T) {
	for seed := int64(1); seed <= 40; seed++ {
		// Aggressive sides produce plenty of cards and injuries
		home := makeTeam(t, "HOM", "A", 60)
		away := makeTeam(t, "AWY", "D", 60)
		m, err := New(home, away, testTactics(t), defaultOptions(), seed, logger.Discard())
		require.NoError(t, err)

		res, err := m.Play()
		require.NoError(t, err, "seed %d", seed)

		for _, team := range []*models.Team{res.Home, res.Away} {
			require.NoError(t, team.ValidateKeeper())
			assert.LessOrEqual(t, team.Substitutions, 3)
			assert.LessOrEqual(t, team.ActiveCount(), models.StartingPlayers)

			goals := 0
			for _, p := range team.Players {
				goals += p.Stats.Goals
				assert.GreaterOrEqual(t, p.Fatigue, models.MinFatigue)
				assert.LessOrEqual(t, p.Stats.Minutes, 90)
			}
			assert.Equal(t, team.Score, goals)
		}
	}
}

func TestPlayClock(t *testing.T) {
	m := newTestMatch(t, defaultOptions(), 99)
	res, err := m.Play()
	require.NoError(t, err)

	kinds := make(map[models.EventKind]int)
	for _, e := range res.Events {
		kinds[e.Kind]++
		assert.LessOrEqual(t, e.FormalMinute, 90)
	}
	assert.Equal(t, 1, kinds[models.EventKickOff])
	assert.Equal(t, 2, kinds[models.EventInjuryTime])
	assert.Equal(t, 1, kinds[models.EventHalfTime])
	assert.Equal(t, 1, kinds[models.EventFullTime])

	// Every starter who was never replaced plays the full ninety
	keeper := res.Home.Players[0]
	if keeper.IsPlaying() && res.Home.CurrentGK == 0 {
		assert.Equal(t, 90, keeper.Stats.Minutes)
	}

	last := res.Events[len(res.Events)-1]
	assert.Equal(t, models.EventFullTime, last.Kind)
	assert.Equal(t, 90, last.FormalMinute)
	assert.GreaterOrEqual(t, last.Minute, 90)

	_, err = m.Play()
	assert.ErrorIs(t, err, ErrAlreadyPlayed)
}

func TestPlayRecordsSnapshots(t *testing.T) {
	m := newTestMatch(t, Options{MaxSubstitutions: 3, RecordSnapshots: true}, 5)
	res, err := m.Play()
	require.NoError(t, err)

	require.NotEmpty(t, res.Snapshots)
	assert.Equal(t, 1, res.Snapshots[0].Minute)
	for _, s := range res.Snapshots {
		assert.True(t, s.Minute == 1 || s.Minute%10 == 0)
		assert.Greater(t, s.Passing, 0.0)
	}
	// minute 1 plus 10..90 for both teams
	assert.GreaterOrEqual(t, len(res.Snapshots), 20)
}

func TestNewRejectsBadTeams(t *testing.T) {
	tm := testTactics(t)

	unknownTactic := makeTeam(t, "HOM", "Z", 20)
	_, err := New(unknownTactic, makeTeam(t, "AWY", "N", 20), tm, defaultOptions(), 1, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrSetup))

	short := makeTeam(t, "HOM", "N", 20)
	short.Players[3].Status = models.StatusBenched
	_, err = New(short, makeTeam(t, "AWY", "N", 20), tm, defaultOptions(), 1, nil)
	require.Error(t, err)
	var setupErr *utils.SetupError
	require.True(t, errors.As(err, &setupErr))
	assert.Equal(t, "HOM", setupErr.Team)

	noKeeper := makeTeam(t, "HOM", "N", 20)
	noKeeper.Players[0].Position = models.FullPosition{Position: models.PositionDF, Side: models.SideCenter}
	_, err = New(noKeeper, makeTeam(t, "AWY", "N", 20), tm, defaultOptions(), 1, nil)
	assert.True(t, errors.Is(err, utils.ErrSetup))

	_, err = New(nil, nil, tm, defaultOptions(), 1, nil)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

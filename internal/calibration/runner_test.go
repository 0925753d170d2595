package calibration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/esms-sim/internal/models"
	"github.com/stitts-dev/esms-sim/internal/simulator"
	"github.com/stitts-dev/esms-sim/internal/tactics"
	"github.com/stitts-dev/esms-sim/pkg/utils"
)

func testTactics(t *testing.T) *tactics.Model {
	t.Helper()
	var b strings.Builder
	b.WriteString("TACTIC N Normal\n")
	for _, pos := range []string{"DF", "DM", "MF", "AM", "FW"} {
		for _, sk := range []string{"TK", "PS", "SH"} {
			fmt.Fprintf(&b, "MULT N %s %s 1.0\n", pos, sk)
		}
	}
	tm, err := tactics.Load(strings.NewReader(b.String()))
	require.NoError(t, err)
	return tm
}

func factory(name string, shooting int) TeamFactory {
	positions := []string{"GK", "DFL", "DFC", "DFC", "DFR", "MFL", "MFC", "MFC", "MFR", "FWC", "FWC", "GK", "DFC", "MFC", "FWC"}
	return func() (*models.Team, error) {
		players := make([]*models.Player, len(positions))
		for i, s := range positions {
			pos, err := models.ParseFullPosition(s, nil)
			if err != nil {
				return nil, err
			}
			players[i] = models.NewPlayer(fmt.Sprintf("%s%d", name, i+1), pos, "LRC",
				models.Skills{Stopping: 12, Tackling: 10, Passing: 10, Shooting: shooting}, 25, 50, 100)
		}
		return models.NewTeam(name, name, "N", players), nil
	}
}

func TestRunCountsEveryResult(t *testing.T) {
	r := NewRunner(testTactics(t), nil)
	cfg := Config{Runs: 25, SeedBase: 100, SeedStep: 7, Options: simulator.Options{MaxSubstitutions: 3}}

	rep, err := r.Run(context.Background(), cfg, factory("HOM", 14), factory("AWY", 8))
	require.NoError(t, err)

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, "HOM", rep.Home)
	assert.Equal(t, "AWY", rep.Away)
	assert.Equal(t, 25, rep.HomeWins+rep.Draws+rep.AwayWins)
	assert.InDelta(t, 1.0, rep.HomeRate+rep.DrawRate+rep.AwayRate, 1e-9)
	assert.InDelta(t, rep.HomeGoals.Mean+rep.AwayGoals.Mean, rep.TotalGoals.Mean, 1e-9)

	for _, d := range []Distribution{rep.HomeGoals, rep.AwayGoals, rep.TotalGoals} {
		assert.GreaterOrEqual(t, d.Min, 0.0)
		assert.LessOrEqual(t, d.Min, d.Percentiles["p10"])
		assert.LessOrEqual(t, d.Percentiles["p10"], d.Percentiles["p50"])
		assert.LessOrEqual(t, d.Percentiles["p50"], d.Percentiles["p90"])
		assert.LessOrEqual(t, d.Percentiles["p90"], d.Max)
		assert.InDelta(t, d.StdDev*d.StdDev, d.Variance, 1e-9)
	}
}

func TestRunIsReproducible(t *testing.T) {
	r := NewRunner(testTactics(t), nil)
	cfg := Config{Runs: 10, SeedBase: 5, Options: simulator.Options{MaxSubstitutions: 3}}

	a, err := r.Run(context.Background(), cfg, factory("HOM", 12), factory("AWY", 12))
	require.NoError(t, err)
	b, err := r.Run(context.Background(), cfg, factory("HOM", 12), factory("AWY", 12))
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, int64(1), a.SeedStep, "zero step defaults to consecutive seeds")
	assert.Equal(t, a.HomeGoals, b.HomeGoals)
	assert.Equal(t, a.AwayGoals, b.AwayGoals)
	assert.Equal(t, a.HomeWins, b.HomeWins)
}

func TestDistribution(t *testing.T) {
	d := distribution([]float64{3, 1, 2, 0, 4})

	assert.InDelta(t, 2.0, d.Mean, 1e-9)
	assert.InDelta(t, 2.5, d.Variance, 1e-9)
	assert.Equal(t, 0.0, d.Min)
	assert.Equal(t, 4.0, d.Max)
	assert.Equal(t, 2.0, d.Percentiles["p50"])
	assert.Len(t, d.Percentiles, len(Percentiles))
}

func TestRunErrors(t *testing.T) {
	r := NewRunner(testTactics(t), nil)

	_, err := r.Run(context.Background(), Config{}, factory("HOM", 10), factory("AWY", 10))
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx, Config{Runs: 3}, factory("HOM", 10), factory("AWY", 10))
	assert.ErrorIs(t, err, context.Canceled)

	broken := errors.New("roster missing")
	_, err = r.Run(context.Background(), Config{Runs: 3}, factory("HOM", 10), func() (*models.Team, error) { return nil, broken })
	assert.ErrorIs(t, err, broken)
	assert.Contains(t, err.Error(), "run 0")
}

func TestWriteTable(t *testing.T) {
	rep := &Report{
		Home: "HOM", Away: "AWY", Runs: 4, SeedBase: 1, SeedStep: 1,
		HomeRate: 0.5, DrawRate: 0.25, AwayRate: 0.25,
		HomeGoals:  distribution([]float64{0, 1, 2, 3}),
		AwayGoals:  distribution([]float64{0, 0, 1, 1}),
		TotalGoals: distribution([]float64{0, 1, 3, 4}),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, rep))

	out := buf.String()
	assert.Contains(t, out, "HOM - AWY")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "p50")
	assert.Contains(t, out, "Total")
}

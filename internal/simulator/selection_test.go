package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/stitts-dev/esms-sim/internal/models"
)

func TestPickWeightedOnlyPicksPositiveWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		want    int
	}{
		{"first of three", []float64{10, 0, 0}, 0},
		{"last of three", []float64{0, 0, 5}, 2},
		{"middle", []float64{0, 0.5, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDice(7)
			for i := 0; i < 1000; i++ {
				got, ok := pickWeighted(d, tt.weights)
				require.True(t, ok)
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestPickWeightedFractionalTotal(t *testing.T) {
	weights := []float64{0.1, 0, 0.3}
	d := NewDice(11)
	counts := make([]float64, len(weights))
	for i := 0; i < 4000; i++ {
		idx, ok := pickWeighted(d, weights)
		require.True(t, ok)
		counts[idx]++
	}
	assert.Zero(t, counts[1])
	assert.InDelta(t, 0.25, counts[0]/4000, 0.04)
	assert.InDelta(t, 0.75, counts[2]/4000, 0.04)
}

func TestPickWeightedWithoutWeight(t *testing.T) {
	idx, ok := pickWeighted(NewDice(1), []float64{0, 0, 0})
	assert.False(t, ok)
	assert.Equal(t, models.NoPlayer, idx)

	_, ok = pickWeighted(NewDice(1), nil)
	assert.False(t, ok)
}

func TestPickWeightedFrequencies(t *testing.T) {
	weights := []float64{500, 300, 150, 0, 50}
	const draws = 20000

	d := NewDice(2024)
	counts := make([]float64, len(weights))
	for i := 0; i < draws; i++ {
		idx, ok := pickWeighted(d, weights)
		require.True(t, ok)
		counts[idx]++
	}
	assert.Zero(t, counts[3])

	// Chi-square goodness of fit over the candidates with positive weight
	var obs, exp []float64
	total := floats.Sum(weights)
	for i, w := range weights {
		if w == 0 {
			continue
		}
		obs = append(obs, counts[i])
		exp = append(exp, draws*w/total)
		assert.InDelta(t, w/total, counts[i]/draws, 0.02)
	}

	chi := stat.ChiSquare(obs, exp)
	dist := distuv.ChiSquared{K: float64(len(obs) - 1)}
	pValue := 1 - dist.CDF(chi)
	assert.Greater(t, pValue, 0.001, "chi-square %.2f", chi)
}

func TestWhoDidItUsesDeedWeights(t *testing.T) {
	m := newTestMatch(t, defaultOptions(), 3)
	m.RecalculateTeams()

	home := m.State.Teams[Home]
	for i := 0; i < 200; i++ {
		idx, ok := m.WhoDidIt(Home, DidShot)
		require.True(t, ok)
		assert.NotEqual(t, home.CurrentGK, idx, "keeper has no shooting contribution")
		assert.True(t, home.Players[idx].IsPlaying())
	}

	// Only players on the pitch are aggressive
	for i := 0; i < 200; i++ {
		idx, ok := m.WhoDidIt(Home, DidFoul)
		require.True(t, ok)
		assert.Less(t, idx, models.StartingPlayers)
	}
}

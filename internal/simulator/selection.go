package simulator

import "github.com/stitts-dev/esms-sim/internal/models"

// Deed is the kind of involvement a weighted pick selects for.
type Deed int

const (
	DidShot Deed = iota
	DidTackle
	DidAssist
	DidFoul
)

func (d Deed) String() string {
	switch d {
	case DidShot:
		return "shot"
	case DidTackle:
		return "tackle"
	case DidAssist:
		return "assist"
	case DidFoul:
		return "foul"
	}
	return "unknown"
}

// weight is a player's share of the team total for d: his contribution
// (scaled by 100) for shots, tackles and assists, his aggression for fouls.
func (d Deed) weight(p *models.Player) float64 {
	switch d {
	case DidShot:
		return p.Contrib.Shooting * 100.0
	case DidTackle:
		return p.Contrib.Tackling * 100.0
	case DidAssist:
		return p.Contrib.Passing * 100.0
	case DidFoul:
		return float64(p.EffectiveAggression())
	}
	panic("simulator: unknown deed")
}

// WhoDidIt picks one player of side for deed, each with probability
// proportional to his weight. ok is false when nobody has any weight.
func (m *Match) WhoDidIt(side int, deed Deed) (int, bool) {
	t := m.State.Teams[side]
	weights := make([]float64, len(t.Players))
	for i, p := range t.Players {
		weights[i] = deed.weight(p)
	}
	return pickWeighted(m.dice, weights)
}

// pickWeighted draws an integer below the weight total and returns the first
// index whose running total exceeds it. If rounding leaves the draw above
// every running total, the last candidate with positive weight is chosen.
// Totals below one are scaled up to probabilityScale first, so fractional
// weights keep their proportions.
func pickWeighted(d *Dice, weights []float64) (int, bool) {
	cumulative := make([]float64, len(weights))
	total := 0.0
	last := models.NoPlayer
	for i, w := range weights {
		if w > 0 {
			total += w
			last = i
		}
		cumulative[i] = total
	}
	if last == models.NoPlayer {
		return models.NoPlayer, false
	}

	scale := 1.0
	if total < 1 {
		scale = probabilityScale / total
	}

	draw := float64(d.Intn(int(total * scale)))
	for i, c := range cumulative {
		if weights[i] > 0 && c*scale > draw {
			return i, true
		}
	}
	return last, true
}

package simulator

import (
	"math"

	"github.com/stitts-dev/esms-sim/internal/models"
	"github.com/stitts-dev/esms-sim/internal/tactics"
)

const (
	// fatigueJitter bounds the random part of the per-minute fatigue loss
	fatigueJitter = 0.003

	offSideFactor = 0.75

	sideImbalanceTax  = 0.25
	crowdedCenterTax  = 0.87
	crowdedCenterSize = 3
)

// RecalculateTeams refreshes aggression, fatigue, contributions and shot
// probability of both teams. It runs at the start of every minute.
func (m *Match) RecalculateTeams() {
	for side := range m.State.Teams {
		m.recalculateTeam(side)
	}
	for side := range m.State.Teams {
		m.calcShotProb(side)
	}
}

func (m *Match) recalculateTeam(side int) {
	t, opp := m.teams(side)

	t.Aggression = 0
	for _, p := range t.Players {
		t.Aggression += p.EffectiveAggression()
	}

	for i, p := range t.Players {
		if !p.IsPlaying() || i == t.CurrentGK {
			continue
		}
		jitter := float64(m.dice.Intn(100)-50) / 50.0 * fatigueJitter
		p.Tire(p.NominalFatiguePerMinute + jitter)
	}

	for i, p := range t.Players {
		m.calcContribution(t, opp, i, p)
	}

	applySideBalance(t, m.tactics.Positions())

	t.Tackling, t.Passing, t.Shooting = 0, 0, 0
	for _, p := range t.Players {
		if p.IsPlaying() {
			t.Tackling += p.Contrib.Tackling
			t.Passing += p.Contrib.Passing
			t.Shooting += p.Contrib.Shooting
		}
	}
}

// calcContribution sets the effective output of player i. Keepers and
// players off the pitch contribute nothing.
func (m *Match) calcContribution(t, opp *models.Team, i int, p *models.Player) {
	if !p.IsPlaying() || i == t.CurrentGK || p.Position.IsGoalkeeper() {
		p.Contrib = models.Contribution{}
		return
	}

	pos := string(p.Position.Position)
	factor := p.SideFactor() * p.Fatigue

	p.Contrib = models.Contribution{
		Tackling: m.tactics.Multiplier(t.Tactic, opp.Tactic, pos, tactics.Tackling) * factor * float64(p.Skills.Tackling),
		Passing:  m.tactics.Multiplier(t.Tactic, opp.Tactic, pos, tactics.Passing) * factor * float64(p.Skills.Passing),
		Shooting: m.tactics.Multiplier(t.Tactic, opp.Tactic, pos, tactics.Shooting) * factor * float64(p.Skills.Shooting),
	}
}

type sideCount struct {
	left, right, center int
}

// applySideBalance taxes every position whose left and right flanks are
// unequally manned, and positions crowded with more than three central
// players and no flanks at all.
func applySideBalance(t *models.Team, positions []string) {
	balance := make(map[models.Position]*sideCount, len(positions))
	for _, pos := range positions {
		balance[models.Position(pos)] = &sideCount{}
	}

	for _, p := range t.Players {
		if !p.IsPlaying() || p.Position.IsGoalkeeper() {
			continue
		}
		c, ok := balance[p.Position.Position]
		if !ok {
			continue
		}
		switch p.Position.Side {
		case models.SideLeft:
			c.left++
		case models.SideRight:
			c.right++
		case models.SideCenter:
			c.center++
		}
	}

	for _, pos := range positions {
		c := balance[models.Position(pos)]
		tax := 1.0
		if c.left != c.right {
			diff := math.Abs(float64(c.right - c.left))
			tax = 1 - sideImbalanceTax*diff/float64(c.right+c.left)
		} else if c.left == 0 && c.center > crowdedCenterSize {
			tax = crowdedCenterTax
		}
		if tax == 1 {
			continue
		}
		for _, p := range t.Players {
			if p.IsPlaying() && p.Position.Position == models.Position(pos) {
				p.Contrib.Scale(tax)
			}
		}
	}
}

// calcShotProb sets the chance (out of 10000) that side creates a scoring
// chance this minute. One is added to the opponent's tackling so that a
// team without tacklers does not divide by zero.
func (m *Match) calcShotProb(side int) {
	t, opp := m.teams(side)

	ratio := (t.Shooting/3.0 + 2.0*t.Passing/3.0) / (opp.Tackling + 1.0)
	t.ShotProb = 1.8 * (float64(t.Aggression)/50.0 + 800.0*ratio*ratio)

	if side == Home {
		t.ShotProb += float64(m.opts.HomeBonus)
	}
}

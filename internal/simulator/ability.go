package simulator

import "github.com/stitts-dev/esms-sim/internal/models"

// cleanSheetMinutes is the playing time a keeper needs for clean-sheet credit.
const cleanSheetMinutes = 46

// awardAbilityPoints turns the match statistics into ability points for
// the roster updater.
func (m *Match) awardAbilityPoints() {
	w := m.opts.Ability
	for side := range m.State.Teams {
		t, opp := m.teams(side)

		for _, p := range t.Players {
			s := p.Stats
			p.Ability.Shooting += w.Goal*s.Goals + w.ShotOn*s.ShotsOn + w.ShotOff*s.ShotsOff
			p.Ability.Passing += w.Assist*s.Assists + w.KeyPass*s.KeyPasses
			p.Ability.Tackling += w.KeyTackle * s.Tackles
			p.Ability.Stopping += w.Save*s.Saves + w.Concede*s.Conceded

			cards := w.Yellow*s.YellowCards + w.Red*s.RedCards
			if p.Position.IsGoalkeeper() {
				p.Ability.Stopping += cards
			} else {
				p.Ability.AddOutfield(cards)
			}
		}

		switch {
		case t.Score > opp.Score:
			m.randomAward(t, w.Victory)
		case t.Score < opp.Score:
			m.randomAward(t, w.Defeat)
		}

		if opp.Score == 0 {
			m.cleanSheetAward(t, w.CleanSheet)
		}
	}
}

// randomAward gives points to two different players who took part.
func (m *Match) randomAward(t *models.Team, points int) {
	candidates := playersWith(t, func(p *models.Player) bool { return p.Stats.Minutes > 0 })
	for k := 0; k < 2 && len(candidates) > 0; k++ {
		i := m.dice.Intn(len(candidates))
		p := t.Players[candidates[i]]
		if p.Position.IsGoalkeeper() {
			p.Ability.Stopping += points
		} else {
			p.Ability.AddOutfield(points)
		}
		candidates = append(candidates[:i], candidates[i+1:]...)
	}
}

// cleanSheetAward credits the first keeper who played at least 46 minutes
// (player 1 if none did) and one random defender who took part.
func (m *Match) cleanSheetAward(t *models.Team, points int) {
	keeper := 0
	for i, p := range t.Players {
		if p.Position.IsGoalkeeper() && p.Stats.Minutes >= cleanSheetMinutes {
			keeper = i
			break
		}
	}
	t.Players[keeper].Ability.Stopping += points

	defenders := playersWith(t, func(p *models.Player) bool {
		return p.Stats.Minutes > 0 && p.Position.Position == models.PositionDF
	})
	if len(defenders) > 0 {
		t.Players[defenders[m.dice.Intn(len(defenders))]].Ability.Tackling += points
	}
}

func playersWith(t *models.Team, keep func(*models.Player) bool) []int {
	var out []int
	for i, p := range t.Players {
		if keep(p) {
			out = append(out, i)
		}
	}
	return out
}

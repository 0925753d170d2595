package simulator

import (
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/esms-sim/internal/models"
)

// Substitute brings player in on for player out, fielding him on newPos.
// It does nothing and returns false unless out is on the pitch, in is on
// the bench and the team has substitutions left. The keeper can only be
// replaced by another keeper; the role moves to the incoming player.
func (m *Match) Substitute(side, out, in int, newPos models.FullPosition) bool {
	t := m.State.Teams[side]
	if out < 0 || out >= len(t.Players) || in < 0 || in >= len(t.Players) {
		return false
	}
	po, pi := t.Players[out], t.Players[in]

	if !po.IsPlaying() || !pi.IsBenched() || t.Substitutions >= m.opts.MaxSubstitutions {
		return false
	}
	if out == t.CurrentGK && !newPos.IsGoalkeeper() {
		return false
	}

	po.Status = models.StatusUnavailable
	pi.Status = models.StatusPlaying
	pi.Position = newPos
	if out == t.CurrentGK {
		t.CurrentGK = in
	}
	t.Substitutions++

	m.record(models.Event{
		Kind:   models.EventSubstitution,
		Side:   side,
		Player: pi.Name,
		Other:  po.Name,
		Detail: newPos.String(),
	})
	m.teamLog(side).WithFields(logrus.Fields{
		"minute": m.State.Minute,
		"in":     pi.Name,
		"out":    po.Name,
		"count":  t.Substitutions,
	}).Debug("Substitution")

	return true
}

// ChangePosition moves an outfield player on the pitch to newPos. The
// keeper, players off the pitch, moves into goal and moves to the current
// position are ignored.
func (m *Match) ChangePosition(side, idx int, newPos models.FullPosition) bool {
	t := m.State.Teams[side]
	if idx < 0 || idx >= len(t.Players) || idx == t.CurrentGK || newPos.IsGoalkeeper() {
		return false
	}
	p := t.Players[idx]
	if !p.IsPlaying() || p.Position == newPos {
		return false
	}

	p.Position = newPos
	m.record(models.Event{Kind: models.EventPositionChange, Side: side, Player: p.Name, Detail: newPos.String()})
	return true
}

// ChangeTactic switches side to tactic. Unknown or unchanged tactics are
// ignored.
func (m *Match) ChangeTactic(side int, tactic string) bool {
	t := m.State.Teams[side]
	if t.Tactic == tactic || !m.tactics.TacticExists(tactic) {
		return false
	}

	t.Tactic = tactic
	m.record(models.Event{Kind: models.EventTacticChange, Side: side, Detail: tactic})
	return true
}

// sendOff removes idx from the match. A sent-off keeper is replaced by a
// bench keeper if a substitution is left, the highest-numbered player on
// the pitch making way; otherwise that player goes in goal.
func (m *Match) sendOff(side, idx int) error {
	t := m.State.Teams[side]
	p := t.Players[idx]

	p.Stats.YellowCards = 0
	p.Stats.RedCards++
	p.Status = models.StatusUnavailable
	m.State.Indicators[side].Red = idx

	m.teamLog(side).WithFields(logrus.Fields{
		"minute": m.State.Minute,
		"player": p.Name,
	}).Debug("Player sent off")

	if idx != t.CurrentGK {
		return nil
	}

	if t.Substitutions < m.opts.MaxSubstitutions {
		for i, bench := range t.Players {
			if !bench.IsBenched() || !bench.Position.IsGoalkeeper() {
				continue
			}
			out := highestActive(t)
			if out == models.NoPlayer {
				break
			}
			if m.Substitute(side, out, i, models.FullPosition{Position: models.PositionGK}) {
				t.CurrentGK = i
				return nil
			}
			break
		}
	}
	return m.keeperFromOutfield(side)
}

// keeperFromOutfield puts the highest-numbered player on the pitch in goal.
func (m *Match) keeperFromOutfield(side int) error {
	t := m.State.Teams[side]
	idx := highestActive(t)
	if idx == models.NoPlayer {
		return m.invariant(t.Name, "no player left to keep goal")
	}
	m.makeKeeper(side, idx)
	return nil
}

// makeKeeper hands the goalkeeper role to idx. Unlike ChangePosition it
// does not refuse a move into goal.
func (m *Match) makeKeeper(side, idx int) {
	t := m.State.Teams[side]
	p := t.Players[idx]
	p.Position = models.FullPosition{Position: models.PositionGK}
	t.CurrentGK = idx
	m.record(models.Event{Kind: models.EventPositionChange, Side: side, Player: p.Name, Detail: p.Position.String()})

	m.teamLog(side).WithFields(logrus.Fields{
		"minute": m.State.Minute,
		"player": p.Name,
	}).Info("Outfield player moved in goal")
}

func highestActive(t *models.Team) int {
	for i := len(t.Players) - 1; i >= 0; i-- {
		if t.Players[i].IsPlaying() {
			return i
		}
	}
	return models.NoPlayer
}

package simulator

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/esms-sim/internal/conds"
	"github.com/stitts-dev/esms-sim/internal/models"
)

// CheckConditionals runs every instruction of side whose conditions all
// hold, in teamsheet order. scoreDiff is side's goal difference.
func (m *Match) CheckConditionals(side, scoreDiff int) {
	t := m.State.Teams[side]
	for _, c := range t.Conds {
		if !m.allTrue(side, scoreDiff, c.Conditions) {
			continue
		}
		if m.execute(side, c.Action) {
			m.teamLog(side).WithFields(logrus.Fields{
				"minute": m.State.Minute,
				"line":   c.Line,
				"action": c.Action.String(),
			}).Debug("Conditional fired")
		}
	}
}

func (m *Match) allTrue(side, scoreDiff int, conditions []conds.Condition) bool {
	for _, c := range conditions {
		if !m.holds(side, scoreDiff, c) {
			return false
		}
	}
	return true
}

func (m *Match) holds(side, scoreDiff int, c conds.Condition) bool {
	ind := m.State.Indicators[side]
	switch c := c.(type) {
	case conds.Minute:
		return c.Cmp.Compare(m.State.Minute, c.Minute)
	case conds.Score:
		return c.Cmp.Compare(scoreDiff, c.Diff)
	case conds.YellowCarded:
		return m.indicatorMatches(side, ind.Yellow, c.Player)
	case conds.RedCarded:
		return m.indicatorMatches(side, ind.Red, c.Player)
	case conds.Injured:
		return m.indicatorMatches(side, ind.Injured, c.Player)
	default:
		panic(fmt.Sprintf("simulator: unhandled condition %T", c))
	}
}

// indicatorMatches compares the player flagged this minute with ref. A
// position reference matches the flagged player's fielded position.
func (m *Match) indicatorMatches(side, flagged int, ref conds.PlayerRef) bool {
	if flagged == models.NoPlayer {
		return false
	}
	if ref.IsPosition() {
		return m.State.Teams[side].Players[flagged].Position.String() == ref.Position
	}
	return flagged == ref.Index
}

// execute performs an action and reports whether it changed anything.
func (m *Match) execute(side int, a conds.Action) bool {
	t := m.State.Teams[side]
	switch a := a.(type) {
	case conds.ChangeTactic:
		return m.ChangeTactic(side, a.Tactic)
	case conds.Substitute:
		out := a.Out.Index
		if a.Out.IsPosition() {
			out = worstOnPosition(t, a.Out.Position)
		}
		in := a.In.Index
		if a.In.IsPosition() {
			in = firstBenchedOn(t, a.In.Position)
		}
		if out == models.NoPlayer || in == models.NoPlayer {
			return false
		}
		return m.Substitute(side, out, in, mustFullPosition(a.NewPosition))
	case conds.ChangePosition:
		idx := a.Player.Index
		if a.Player.IsPosition() {
			idx = worstOnPosition(t, a.Player.Position)
		}
		if idx == models.NoPlayer {
			return false
		}
		return m.ChangePosition(side, idx, mustFullPosition(a.NewPosition))
	default:
		panic(fmt.Sprintf("simulator: unhandled action %T", a))
	}
}

// worstOnPosition is the player on the pitch at fullPos with the lowest
// rating in the skill that defines the position.
func worstOnPosition(t *models.Team, fullPos string) int {
	worst, worstSkill := models.NoPlayer, 0
	for i, p := range t.Players {
		if !p.IsPlaying() || p.Position.String() != fullPos {
			continue
		}
		if s := p.DefiningSkill(); worst == models.NoPlayer || s < worstSkill {
			worst, worstSkill = i, s
		}
	}
	return worst
}

func firstBenchedOn(t *models.Team, fullPos string) int {
	for i, p := range t.Players {
		if p.IsBenched() && p.Position.String() == fullPos {
			return i
		}
	}
	return models.NoPlayer
}

// mustFullPosition converts a position the parser already validated.
func mustFullPosition(s string) models.FullPosition {
	pos, err := models.ParseFullPosition(s, nil)
	if err != nil {
		panic(fmt.Sprintf("simulator: unvalidated position %q", s))
	}
	return pos
}

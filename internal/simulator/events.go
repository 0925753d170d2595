package simulator

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/esms-sim/internal/models"
)

// Event probabilities, out of 10000.
const (
	assistedChance    = 7500
	onTargetBase      = 5800
	goalCancelled     = 500
	yellowCardChance  = 6000
	redCardChance     = 400
	randomPenalty     = 500
	penaltyBase       = 8000
	penaltySavedShare = 7500

	goalChanceMin = 1000
	goalChanceMax = 9000

	injuryBase    = 1500
	injuryDivisor = 50

	// maxShooterRerolls bounds the search for a shooter other than the
	// assister when the assister is the only one able to shoot
	maxShooterRerolls = 100
)

// ResolveShot decides whether side creates a chance this minute and plays
// it out: tackle, shot off target, save or goal.
func (m *Match) ResolveShot(side int) {
	t, opp := m.teams(side)

	if !m.dice.Chance(int(t.ShotProb)) {
		return
	}

	shooter, assister := models.NoPlayer, models.NoPlayer
	if m.dice.Chance(assistedChance) {
		a, ok := m.WhoDidIt(side, DidAssist)
		if !ok {
			return
		}
		s, ok := m.shooterFor(side, a)
		if !ok {
			return
		}
		shooter, assister = s, a
		t.Players[assister].Stats.KeyPasses++
		m.record(models.Event{
			Kind:   models.EventAssistedChance,
			Side:   side,
			Player: t.Players[shooter].Name,
			Other:  t.Players[assister].Name,
		})
	} else {
		s, ok := m.WhoDidIt(side, DidShot)
		if !ok {
			return
		}
		shooter = s
		m.record(models.Event{Kind: models.EventChance, Side: side, Player: t.Players[shooter].Name})
	}

	if m.dice.Chance(tackleChance(t, opp)) {
		if tackler, ok := m.WhoDidIt(1-side, DidTackle); ok {
			opp.Players[tackler].Stats.Tackles++
			m.record(models.Event{Kind: models.EventTackle, Side: 1 - side, Player: opp.Players[tackler].Name})
		}
		return
	}

	p := t.Players[shooter]
	p.Stats.Shots++
	m.record(models.Event{Kind: models.EventShot, Side: side, Player: p.Name})

	if !m.dice.Chance(int(onTargetBase * p.Fatigue)) {
		p.Stats.ShotsOff++
		t.ShotsOff++
		m.record(models.Event{Kind: models.EventOffTarget, Side: side, Player: p.Name})
		return
	}

	t.ShotsOn++
	p.Stats.ShotsOn++
	keeper := opp.Keeper()

	if !m.dice.Chance(goalChance(p, keeper)) {
		keeper.Stats.Saves++
		m.record(models.Event{Kind: models.EventSave, Side: 1 - side, Player: keeper.Name, Other: p.Name})
		return
	}

	if m.dice.Chance(goalCancelled) {
		m.record(models.Event{Kind: models.EventGoalCancelled, Side: side, Player: p.Name})
		return
	}

	t.Score++
	p.Stats.Goals++
	keeper.Stats.Conceded++
	goal := models.Event{Kind: models.EventGoal, Side: side, Player: p.Name}
	if assister != models.NoPlayer {
		t.Players[assister].Stats.Assists++
		goal.Other = t.Players[assister].Name
	}
	m.record(goal)

	m.teamLog(side).WithFields(logrus.Fields{
		"minute": m.State.Minute,
		"scorer": p.Name,
	}).Debug("Goal")
}

// shooterFor picks the player who receives the assister's pass. A shooter on
// a different side from the assister is re-rolled once, which favours
// link-ups down the same flank without forcing them.
func (m *Match) shooterFor(side, assister int) (int, bool) {
	t := m.State.Teams[side]
	for try := 0; try < maxShooterRerolls; try++ {
		shooter, ok := m.WhoDidIt(side, DidShot)
		if !ok {
			return models.NoPlayer, false
		}
		if t.Players[shooter].Position.Side != t.Players[assister].Position.Side {
			if shooter, ok = m.WhoDidIt(side, DidShot); !ok {
				return models.NoPlayer, false
			}
		}
		if shooter != assister {
			return shooter, true
		}
	}
	return models.NoPlayer, false
}

// tackleChance is the chance the defending team stops the move before a shot.
func tackleChance(t, opp *models.Team) int {
	attack := t.Passing*2.0 + t.Shooting
	if attack <= 0 {
		return probabilityScale
	}
	return int(4000.0 * (opp.Tackling * 3.0) / attack)
}

func goalChance(shooter, keeper *models.Player) int {
	v := float64(shooter.Skills.Shooting)*shooter.Fatigue*200 - float64(keeper.Skills.Stopping)*200 + 3500
	return int(math.Max(goalChanceMin, math.Min(goalChanceMax, v)))
}

// ResolveFoul decides whether side commits a foul this minute, books the
// fouler and awards the opponent a penalty when the keeper fouled or the
// referee says so.
func (m *Match) ResolveFoul(side int) error {
	t := m.State.Teams[side]

	if !m.dice.Chance(t.Aggression * 3 / 4) {
		return nil
	}
	fouler, ok := m.WhoDidIt(side, DidFoul)
	if !ok {
		return nil
	}
	p := t.Players[fouler]
	byKeeper := fouler == t.CurrentGK

	t.Fouls++
	p.Stats.Fouls++
	m.record(models.Event{Kind: models.EventFoul, Side: side, Player: p.Name})

	switch {
	case m.dice.Chance(yellowCardChance):
		if err := m.bookYellow(side, fouler); err != nil {
			return err
		}
	case m.dice.Chance(redCardChance):
		m.record(models.Event{Kind: models.EventRedCard, Side: side, Player: p.Name})
		if err := m.sendOff(side, fouler); err != nil {
			return err
		}
	default:
		m.record(models.Event{Kind: models.EventWarned, Side: side, Player: p.Name})
	}

	if byKeeper || m.dice.Chance(randomPenalty) {
		m.takePenalty(1 - side)
	}
	return nil
}

func (m *Match) bookYellow(side, idx int) error {
	p := m.State.Teams[side].Players[idx]
	p.Stats.YellowCards++
	m.record(models.Event{Kind: models.EventYellowCard, Side: side, Player: p.Name})

	if p.Stats.YellowCards < 2 {
		m.State.Indicators[side].Yellow = idx
		return nil
	}

	m.record(models.Event{Kind: models.EventSecondYellow, Side: side, Player: p.Name})
	return m.sendOff(side, idx)
}

// penaltyTaker returns the designated taker when he is still on the pitch,
// otherwise the best shooter on the pitch given his fatigue.
func penaltyTaker(t *models.Team) int {
	if t.PenaltyTaker != models.NoPlayer && t.Players[t.PenaltyTaker].IsPlaying() {
		return t.PenaltyTaker
	}
	best, bestValue := models.NoPlayer, -1.0
	for i, p := range t.Players {
		if !p.IsPlaying() {
			continue
		}
		if v := float64(p.Skills.Shooting) * p.Fatigue; v > bestValue {
			best, bestValue = i, v
		}
	}
	return best
}

// takePenalty plays a penalty kick awarded to side.
func (m *Match) takePenalty(side int) {
	t, opp := m.teams(side)
	idx := penaltyTaker(t)
	if idx == models.NoPlayer {
		return
	}
	taker := t.Players[idx]
	keeper := opp.Keeper()

	m.record(models.Event{Kind: models.EventPenalty, Side: side, Player: taker.Name})

	if m.dice.Chance(penaltyBase + taker.Skills.Shooting*100 - keeper.Skills.Stopping*100) {
		t.Score++
		taker.Stats.Goals++
		keeper.Stats.Conceded++
		m.record(models.Event{Kind: models.EventPenaltyGoal, Side: side, Player: taker.Name})
		return
	}

	if m.dice.Chance(penaltySavedShare) {
		m.record(models.Event{Kind: models.EventPenaltySaved, Side: side, Player: taker.Name, Other: keeper.Name})
	} else {
		m.record(models.Event{Kind: models.EventPenaltyMissed, Side: side, Player: taker.Name})
	}
}

// ResolveInjury decides whether a player of side gets injured this minute
// and replaces him from the bench when substitutions remain.
func (m *Match) ResolveInjury(side int) error {
	t, opp := m.teams(side)

	if !m.dice.Chance((injuryBase + opp.Aggression) / injuryDivisor) {
		return nil
	}
	if t.ActiveCount() == 0 {
		return m.invariant(t.Name, "injury with nobody on the pitch")
	}

	t.Injuries++

	victim := m.dice.Intn(len(t.Players))
	for !t.Players[victim].IsPlaying() {
		victim = m.dice.Intn(len(t.Players))
	}
	p := t.Players[victim]

	m.record(models.Event{Kind: models.EventInjury, Side: side, Player: p.Name})
	m.State.Indicators[side].Injured = victim

	if t.Substitutions >= m.opts.MaxSubstitutions {
		m.record(models.Event{Kind: models.EventNoSubsLeft, Side: side, Player: p.Name})
	} else if in := injuryReplacement(t, p); in != models.NoPlayer {
		m.Substitute(side, victim, in, p.Position)
	}

	p.Stats.Injured = true
	p.Status = models.StatusUnavailable

	if t.CurrentGK == victim {
		return m.keeperFromOutfield(side)
	}
	return nil
}

// injuryReplacement prefers a bench player on the injured player's position,
// then any bench player who is not a keeper.
func injuryReplacement(t *models.Team, injured *models.Player) int {
	for i, p := range t.Players {
		if p.IsBenched() && p.Position.Position == injured.Position.Position {
			return i
		}
	}
	for i, p := range t.Players {
		if p.IsBenched() && !p.Position.IsGoalkeeper() {
			return i
		}
	}
	return models.NoPlayer
}

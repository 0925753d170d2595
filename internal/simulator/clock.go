package simulator

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/esms-sim/internal/models"
)

const (
	halfLength = 45
	fullLength = 2 * halfLength

	// stoppageFactor is the injury time added per substitution, injury
	// and foul
	stoppageFactor = 0.5
)

// Play runs both halves with their injury time and awards ability points.
// An InvariantError aborts the match and no result is produced.
func (m *Match) Play() (*Result, error) {
	if m.result != nil {
		return nil, ErrAlreadyPlayed
	}

	m.log.Info("Kick-off")
	m.State.Minute, m.State.FormalMinute = 1, 1
	m.record(models.Event{Kind: models.EventKickOff, Side: models.NoSide})

	half := 1
	for start := 1; start < fullLength; start += halfLength {
		if err := m.playHalf(half, start); err != nil {
			m.log.WithError(err).Error("Match aborted")
			return nil, err
		}
		half++
	}

	m.awardAbilityPoints()

	home, away := m.State.Teams[Home], m.State.Teams[Away]
	m.result = &Result{
		MatchID:   m.ID.String(),
		Seed:      m.Seed,
		Home:      home,
		Away:      away,
		Events:    m.events,
		Snapshots: m.State.Snapshots,
	}

	m.log.WithFields(logrus.Fields{
		"home_score": home.Score,
		"away_score": away.Score,
		"events":     len(m.events),
	}).Info("Full time")

	return m.result, nil
}

// playHalf plays minutes start..start+44, then the injury time computed when
// the last regular minute ends. The formal minute stops advancing during
// injury time.
func (m *Match) playHalf(half, start int) error {
	s := m.State
	s.Half = half
	s.InjuryTime = false

	last := start + halfLength - 1
	s.FormalMinute = start
	for s.Minute = start; s.Minute <= last; s.Minute++ {
		if err := m.playMinute(); err != nil {
			return err
		}

		if !s.InjuryTime {
			s.FormalMinute++
			m.countMinutes()
		}

		if s.Minute == last && !s.InjuryTime {
			s.InjuryTime = true
			s.FormalMinute--

			added := m.InjuryTime()
			last += added
			m.record(models.Event{Kind: models.EventInjuryTime, Side: models.NoSide, Value: added})
			m.log.WithFields(logrus.Fields{"half": half, "injury_time": added}).Debug("Injury time")
		}
	}
	s.InjuryTime = false

	kind := models.EventHalfTime
	if half == 2 {
		kind = models.EventFullTime
	}
	m.record(models.Event{Kind: kind, Side: models.NoSide})
	return nil
}

// playMinute is one tick: contributions for both teams, then per team a
// chance, a foul, an injury and its conditional instructions.
func (m *Match) playMinute() error {
	s := m.State
	s.clearIndicators()
	m.RecalculateTeams()

	for side := range s.Teams {
		m.ResolveShot(side)
		if err := m.ResolveFoul(side); err != nil {
			return err
		}
		if err := m.ResolveInjury(side); err != nil {
			return err
		}
		m.CheckConditionals(side, s.ScoreDiff(side))
	}

	for _, t := range s.Teams {
		if err := t.ValidateKeeper(); err != nil {
			return m.invariant(t.Name, "%v", err)
		}
		if n := t.ActiveCount(); n > models.StartingPlayers {
			return m.invariant(t.Name, "%d players on the pitch", n)
		}
	}

	if m.opts.RecordSnapshots && (s.Minute == 1 || s.Minute%10 == 0) {
		s.snapshot()
	}
	return nil
}

func (m *Match) countMinutes() {
	for _, t := range m.State.Teams {
		for _, p := range t.Players {
			if p.IsPlaying() {
				p.Stats.Minutes++
			}
		}
	}
}

// InjuryTime returns the minutes to add for the substitutions, injuries and
// fouls of both teams since it was last called.
func (m *Match) InjuryTime() int {
	var now stoppageCounters
	for _, t := range m.State.Teams {
		now.substitutions += t.Substitutions
		now.injuries += t.Injuries
		now.fouls += t.Fouls
	}

	prev := m.State.stoppages
	m.State.stoppages = now

	delta := (now.substitutions - prev.substitutions) +
		(now.injuries - prev.injuries) +
		(now.fouls - prev.fouls)
	return int(math.Ceil(stoppageFactor * float64(delta)))
}

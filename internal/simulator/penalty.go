package simulator

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/esms-sim/internal/models"
)

const (
	shootoutRounds     = 5
	maxShootoutTakers  = 11
	maxSuddenDeathRuns = 1000
)

// KickOutcome is how a shootout kick ended.
type KickOutcome string

const (
	KickScored KickOutcome = "scored"
	KickSaved  KickOutcome = "saved"
	KickMissed KickOutcome = "missed"
)

// ShootoutKick is one kick of a penalty shootout.
type ShootoutKick struct {
	Number  int         `json:"number" yaml:"number"`
	Side    int         `json:"side" yaml:"side"`
	Team    string      `json:"team" yaml:"team"`
	Taker   string      `json:"taker" yaml:"taker"`
	Outcome KickOutcome `json:"outcome" yaml:"outcome"`
}

// ShootoutResult is the outcome of a penalty shootout.
type ShootoutResult struct {
	HomeScore int            `json:"home_score" yaml:"home_score"`
	AwayScore int            `json:"away_score" yaml:"away_score"`
	Winner    int            `json:"winner" yaml:"winner"`
	Kicks     []ShootoutKick `json:"kicks" yaml:"kicks"`
}

// ShootoutPolicy decides whether a finished match goes to penalties.
// Score ("2-2") takes precedence over Diff, which takes precedence over Cup.
type ShootoutPolicy struct {
	Score string
	Diff  *int
	// Cup 2 always runs a shootout, Cup 1 only after a draw
	Cup int
}

// ShouldRun applies the policy to the full-time score.
func (p ShootoutPolicy) ShouldRun(home, away int) bool {
	if p.Score != "" {
		return strings.TrimSpace(p.Score) == fmt.Sprintf("%d-%d", home, away)
	}
	if p.Diff != nil {
		return *p.Diff == home-away
	}
	switch p.Cup {
	case 2:
		return true
	case 1:
		return home == away
	}
	return false
}

// RunPenaltyShootout decides the match from the spot. Both teams get the
// same number of takers, at most eleven, picked by shooting among the
// players still on the pitch. Five kicks each are taken unless one team can
// no longer catch up, then sudden death cycles through the same takers.
// It returns nil if the match has not been played or a team has nobody
// left to kick.
func (m *Match) RunPenaltyShootout() *ShootoutResult {
	if m.result == nil {
		return nil
	}
	if m.result.Shootout != nil {
		return m.result.Shootout
	}

	home, away := m.State.Teams[Home], m.State.Teams[Away]
	n := home.ActiveCount()
	if a := away.ActiveCount(); a < n {
		n = a
	}
	if n > maxShootoutTakers {
		n = maxShootoutTakers
	}
	if n == 0 {
		return nil
	}

	takers := [2][]int{shootoutTakers(home, n), shootoutTakers(away, n)}
	res := &ShootoutResult{}
	score := [2]int{}

	m.record(models.Event{Kind: models.EventShootoutStart, Side: models.NoSide})

	kick := func(side, round int) {
		t, opp := m.teams(side)
		taker := t.Players[takers[side][round%n]]
		keeper := opp.Keeper()

		outcome := KickMissed
		if m.dice.Chance(penaltyBase + taker.Skills.Shooting*100 - keeper.Skills.Stopping*100) {
			outcome = KickScored
			score[side]++
		} else if m.dice.Intn(10) < 5 {
			outcome = KickSaved
		}

		number := len(res.Kicks) + 1
		res.Kicks = append(res.Kicks, ShootoutKick{
			Number:  number,
			Side:    side,
			Team:    t.Name,
			Taker:   taker.Name,
			Outcome: outcome,
		})

		e := models.Event{Side: side, Player: taker.Name, Other: keeper.Name, Value: number}
		switch outcome {
		case KickScored:
			e.Kind = models.EventShootoutGoal
		case KickSaved:
			e.Kind = models.EventShootoutSaved
		default:
			e.Kind = models.EventShootoutMissed
		}
		e.Detail = fmt.Sprintf("%d-%d", score[Home], score[Away])
		m.record(e)
	}

	round := 0
regulation:
	for ; round < shootoutRounds; round++ {
		for side := range m.State.Teams {
			kick(side, round)
			if decidedEarly(side, round, score[Home]-score[Away]) {
				break regulation
			}
		}
	}

	for runs := 0; score[Home] == score[Away]; runs++ {
		if runs == maxSuddenDeathRuns {
			// both sides convert everything; settle it by lot
			m.log.Warn("Shootout could not be decided from the spot")
			score[m.dice.Intn(2)]++
			break
		}
		kick(Home, round)
		kick(Away, round)
		round++
	}

	res.HomeScore, res.AwayScore = score[Home], score[Away]
	res.Winner = Home
	if score[Away] > score[Home] {
		res.Winner = Away
	}
	m.record(models.Event{
		Kind:   models.EventShootoutDecided,
		Side:   res.Winner,
		Detail: fmt.Sprintf("%d-%d", res.HomeScore, res.AwayScore),
	})

	m.log.WithFields(logrus.Fields{
		"home_penalties": res.HomeScore,
		"away_penalties": res.AwayScore,
		"kicks":          len(res.Kicks),
	}).Info("Penalty shootout decided")

	m.result.Shootout = res
	m.result.Events = m.events
	return res
}

// decidedEarly reports whether, after side's kick in round (0-based), the
// trailing team can no longer draw level within the first five rounds.
func decidedEarly(side, round, diff int) bool {
	if side == Home {
		return diff > shootoutRounds-round || -diff > shootoutRounds-1-round
	}
	return diff > shootoutRounds-1-round || -diff > shootoutRounds-1-round
}

// shootoutTakers ranks the players on the pitch by shooting and returns the
// best n. Ties keep squad order.
func shootoutTakers(t *models.Team, n int) []int {
	chosen := make(map[int]bool, n)
	takers := make([]int, 0, n)
	for len(takers) < n {
		best := models.NoPlayer
		for i, p := range t.Players {
			if !p.IsPlaying() || chosen[i] {
				continue
			}
			if best == models.NoPlayer || p.Skills.Shooting > t.Players[best].Skills.Shooting {
				best = i
			}
		}
		if best == models.NoPlayer {
			break
		}
		chosen[best] = true
		takers = append(takers, best)
	}
	return takers
}

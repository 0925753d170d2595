// Package simulator plays one football match minute by minute.
//
// A Match owns the two teams for the duration of the run and threads a
// single seeded random stream through every decision, so the same seed and
// the same inputs replay the same match event for event.
package simulator

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/esms-sim/internal/models"
	"github.com/stitts-dev/esms-sim/internal/tactics"
	"github.com/stitts-dev/esms-sim/pkg/config"
	"github.com/stitts-dev/esms-sim/pkg/logger"
	"github.com/stitts-dev/esms-sim/pkg/utils"
)

const (
	Home = 0
	Away = 1
)

// ErrAlreadyPlayed is returned when Play is called twice on one Match.
var ErrAlreadyPlayed = errors.New("match already played")

// AbilityWeights are the ability points awarded per event after full time.
type AbilityWeights struct {
	Goal       int
	Assist     int
	Victory    int
	Defeat     int
	CleanSheet int
	KeyTackle  int
	KeyPass    int
	ShotOn     int
	ShotOff    int
	Save       int
	Concede    int
	Yellow     int
	Red        int
}

// Options are the league rules a match is played under.
type Options struct {
	MaxSubstitutions int
	HomeBonus        int
	RecordSnapshots  bool
	Ability          AbilityWeights
}

// OptionsFromConfig maps league.dat tunables onto match options.
func OptionsFromConfig(cfg *config.LeagueConfig) Options {
	return Options{
		MaxSubstitutions: cfg.Substitutions,
		HomeBonus:        cfg.HomeBonus,
		RecordSnapshots:  cfg.TeamStatsEnabled(),
		Ability: AbilityWeights{
			Goal:       cfg.AbGoal,
			Assist:     cfg.AbAssist,
			Victory:    cfg.AbVictoryRandom,
			Defeat:     cfg.AbDefeatRandom,
			CleanSheet: cfg.AbCleanSheet,
			KeyTackle:  cfg.AbKeyTackle,
			KeyPass:    cfg.AbKeyPass,
			ShotOn:     cfg.AbShotOn,
			ShotOff:    cfg.AbShotOff,
			Save:       cfg.AbSave,
			Concede:    cfg.AbConcede,
			Yellow:     cfg.AbYellow,
			Red:        cfg.AbRed,
		},
	}
}

// Result is the outcome of a played match.
type Result struct {
	MatchID   string
	Seed      int64
	Home      *models.Team
	Away      *models.Team
	Events    []models.Event
	Snapshots []Snapshot
	Shootout  *ShootoutResult
}

// Score returns the full-time score.
func (r *Result) Score() (home, away int) {
	return r.Home.Score, r.Away.Score
}

// Match is one simulation run.
type Match struct {
	ID    uuid.UUID
	Seed  int64
	State *State

	tactics *tactics.Model
	opts    Options
	dice    *Dice
	log     *logrus.Entry

	events []models.Event
	result *Result
}

// New validates the two teams against the tactics table and prepares a
// match. log may be nil.
func New(home, away *models.Team, tm *tactics.Model, opts Options, seed int64, log logrus.FieldLogger) (*Match, error) {
	if home == nil || away == nil {
		return nil, fmt.Errorf("%w: both teams are required", utils.ErrInvalidInput)
	}
	if tm == nil {
		return nil, fmt.Errorf("%w: tactics table is required", utils.ErrInvalidInput)
	}
	if opts.MaxSubstitutions < 0 {
		return nil, utils.NewSetupError(utils.ErrCodeConfig, "substitution limit must not be negative").
			WithToken(fmt.Sprint(opts.MaxSubstitutions))
	}
	for _, t := range []*models.Team{home, away} {
		if err := validateTeam(t, tm); err != nil {
			return nil, err
		}
	}
	if log == nil {
		log = logger.Discard()
	}

	id := uuid.New()
	m := &Match{
		ID:      id,
		Seed:    seed,
		State:   newState(home, away),
		tactics: tm,
		opts:    opts,
		dice:    NewDice(seed),
		log:     logger.WithMatch(log, id.String(), home.Name, away.Name).WithField("seed", seed),
	}

	m.log.WithFields(logrus.Fields{
		"home_tactic":    home.Tactic,
		"away_tactic":    away.Tactic,
		"home_formation": home.Formation(),
		"away_formation": away.Formation(),
	}).Debug("Match set up")

	return m, nil
}

func validateTeam(t *models.Team, tm *tactics.Model) error {
	if !tm.TacticExists(t.Tactic) {
		return utils.NewSetupError(utils.ErrCodeTactics, "invalid tactic").ForTeam(t.Name).WithToken(t.Tactic)
	}
	if len(t.Players) < models.StartingPlayers {
		return utils.NewSetupError(utils.ErrCodeTeamsheet,
			fmt.Sprintf("a team needs at least %d players, got %d", models.StartingPlayers, len(t.Players))).ForTeam(t.Name)
	}
	for _, p := range t.Players {
		if !p.Position.IsGoalkeeper() && !tm.PositionExists(string(p.Position.Position)) {
			return utils.NewSetupError(utils.ErrCodeTeamsheet, "invalid position").ForTeam(t.Name).WithToken(p.Position.String())
		}
	}
	if n := t.ActiveCount(); n != models.StartingPlayers {
		return utils.NewSetupError(utils.ErrCodeTeamsheet,
			fmt.Sprintf("%d players on the pitch at kick-off", n)).ForTeam(t.Name)
	}
	if err := t.ValidateKeeper(); err != nil {
		return utils.NewSetupError(utils.ErrCodeTeamsheet, err.Error()).ForTeam(t.Name)
	}
	if t.PenaltyTaker != models.NoPlayer && (t.PenaltyTaker < 0 || t.PenaltyTaker >= len(t.Players)) {
		return utils.NewSetupError(utils.ErrCodeTeamsheet, "penalty taker out of range").ForTeam(t.Name)
	}
	return nil
}

// Events returns the event stream recorded so far.
func (m *Match) Events() []models.Event {
	return m.events
}

// Result returns the result of a played match, or nil before Play.
func (m *Match) Result() *Result {
	return m.result
}

// teams returns side's team and its opponent.
func (m *Match) teams(side int) (*models.Team, *models.Team) {
	return m.State.Teams[side], m.State.Teams[1-side]
}

func (m *Match) teamLog(side int) *logrus.Entry {
	return logger.WithTeam(m.log, m.State.Teams[side].Name, side)
}

// record stamps an event with the clock and score and appends it.
func (m *Match) record(e models.Event) {
	e.Minute = m.State.Minute
	e.FormalMinute = m.State.FormalMinute
	if e.Side != models.NoSide && e.Team == "" {
		e.Team = m.State.Teams[e.Side].Name
	}
	e.HomeScore = m.State.Teams[Home].Score
	e.AwayScore = m.State.Teams[Away].Score
	m.events = append(m.events, e)
}

func (m *Match) invariant(team, format string, args ...interface{}) error {
	return utils.NewInvariantError(team, m.State.Minute, format, args...)
}

package simulator

import "github.com/stitts-dev/esms-sim/internal/models"

// Indicators name the players booked, sent off or injured in the current
// minute. They are cleared at the start of every minute and only read by
// the conditional instructions evaluated in that same minute.
type Indicators struct {
	Yellow  int
	Red     int
	Injured int
}

func (i *Indicators) clear() {
	i.Yellow = models.NoPlayer
	i.Red = models.NoPlayer
	i.Injured = models.NoPlayer
}

// Snapshot is a team's aggregate contribution at one minute.
type Snapshot struct {
	Minute   int     `json:"minute" yaml:"minute"`
	Side     int     `json:"side" yaml:"side"`
	Team     string  `json:"team" yaml:"team"`
	Tackling float64 `json:"tackling" yaml:"tackling"`
	Passing  float64 `json:"passing" yaml:"passing"`
	Shooting float64 `json:"shooting" yaml:"shooting"`
}

// stoppageCounters are the match totals seen when injury time was last
// computed.
type stoppageCounters struct {
	substitutions int
	injuries      int
	fouls         int
}

// State is everything that changes while a match is played. It is owned by
// exactly one Match.
type State struct {
	Teams [2]*models.Team

	// Minute is the gross minute, injury time included
	Minute int
	// FormalMinute stops advancing during injury time; it is the minute
	// printed in reports
	FormalMinute int
	Half         int
	InjuryTime   bool

	Indicators [2]Indicators
	Snapshots  []Snapshot

	stoppages stoppageCounters
}

func newState(home, away *models.Team) *State {
	s := &State{Teams: [2]*models.Team{home, away}}
	s.clearIndicators()
	return s
}

func (s *State) clearIndicators() {
	s.Indicators[0].clear()
	s.Indicators[1].clear()
}

func (s *State) snapshot() {
	for side, t := range s.Teams {
		s.Snapshots = append(s.Snapshots, Snapshot{
			Minute:   s.Minute,
			Side:     side,
			Team:     t.Name,
			Tackling: t.Tackling,
			Passing:  t.Passing,
			Shooting: t.Shooting,
		})
	}
}

// ScoreDiff is side's goal difference.
func (s *State) ScoreDiff(side int) int {
	return s.Teams[side].Score - s.Teams[1-side].Score
}

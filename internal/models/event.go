package models

// EventKind names a match event. The commentary layer keys its templates on it.
type EventKind string

const (
	EventKickOff         EventKind = "kick_off"
	EventChance          EventKind = "chance"
	EventAssistedChance  EventKind = "assisted_chance"
	EventTackle          EventKind = "tackle"
	EventShot            EventKind = "shot"
	EventOffTarget       EventKind = "off_target"
	EventSave            EventKind = "save"
	EventGoal            EventKind = "goal"
	EventGoalCancelled   EventKind = "goal_cancelled"
	EventFoul            EventKind = "foul"
	EventWarned          EventKind = "warned"
	EventYellowCard      EventKind = "yellow_card"
	EventSecondYellow    EventKind = "second_yellow"
	EventRedCard         EventKind = "red_card"
	EventPenalty         EventKind = "penalty"
	EventPenaltyGoal     EventKind = "penalty_goal"
	EventPenaltySaved    EventKind = "penalty_saved"
	EventPenaltyMissed   EventKind = "penalty_missed"
	EventInjury          EventKind = "injury"
	EventNoSubsLeft      EventKind = "no_subs_left"
	EventSubstitution    EventKind = "substitution"
	EventTacticChange    EventKind = "tactic_change"
	EventPositionChange  EventKind = "position_change"
	EventInjuryTime      EventKind = "injury_time"
	EventHalfTime        EventKind = "half_time"
	EventFullTime        EventKind = "full_time"
	EventShootoutStart   EventKind = "shootout_start"
	EventShootoutGoal    EventKind = "shootout_goal"
	EventShootoutSaved   EventKind = "shootout_saved"
	EventShootoutMissed  EventKind = "shootout_missed"
	EventShootoutDecided EventKind = "shootout_decided"
)

// NoSide is used for events that belong to neither team.
const NoSide = -1

// Event is one typed record of the play-by-play stream. Which fields are
// set depends on Kind:
//
//	Player   the actor (shooter, fouler, injured, player coming on...)
//	Other    the second player involved (assister, keeper, player going off)
//	Detail   a position or tactic code
//	Value    injury-time length, kick number
type Event struct {
	Kind         EventKind `json:"kind" yaml:"kind"`
	Minute       int       `json:"minute" yaml:"minute"`
	FormalMinute int       `json:"formal_minute" yaml:"formal_minute"`
	Side         int       `json:"side" yaml:"side"`
	Team         string    `json:"team,omitempty" yaml:"team,omitempty"`
	Player       string    `json:"player,omitempty" yaml:"player,omitempty"`
	Other        string    `json:"other,omitempty" yaml:"other,omitempty"`
	Detail       string    `json:"detail,omitempty" yaml:"detail,omitempty"`
	Value        int       `json:"value,omitempty" yaml:"value,omitempty"`
	HomeScore    int       `json:"home_score" yaml:"home_score"`
	AwayScore    int       `json:"away_score" yaml:"away_score"`
}

// Reportable reports whether the event goes into the persistent results log.
func (e Event) Reportable() bool {
	switch e.Kind {
	case EventGoal, EventPenaltyGoal, EventRedCard, EventSecondYellow, EventInjury:
		return true
	}
	return false
}

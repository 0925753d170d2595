package models

import (
	"fmt"
	"strconv"

	"github.com/stitts-dev/esms-sim/internal/conds"
)

// NoPlayer marks an unset player index (no PK taker, no carded player...).
const NoPlayer = -1

// StartingPlayers is the number of players on the pitch at kick-off.
const StartingPlayers = 11

// Team is one side of a fixture. Players are indexed from 0; the teamsheet
// (and the conditional instructions) number them from 1, so player number n
// lives at Players[n-1]. Players[0] is always the starting goalkeeper.
type Team struct {
	Name     string
	FullName string
	Tactic   string

	Players []*Player

	// PenaltyTaker is the designated PK taker index, or NoPlayer
	PenaltyTaker int
	// CurrentGK is the index of the player holding the goalkeeper role
	CurrentGK int

	// Per-minute totals, recomputed by the contribution engine
	Tackling   float64
	Passing    float64
	Shooting   float64
	Aggression int
	ShotProb   float64

	Score         int
	ShotsOn       int
	ShotsOff      int
	Fouls         int
	Substitutions int
	Injuries      int

	Conds []conds.Conditional
}

// NewTeam sets up a team for kick-off: the first eleven play, the rest sit
// on the bench and player 1 keeps goal.
func NewTeam(name, fullName, tactic string, players []*Player) *Team {
	t := &Team{
		Name:         name,
		FullName:     fullName,
		Tactic:       tactic,
		Players:      players,
		PenaltyTaker: NoPlayer,
		CurrentGK:    0,
	}
	for i, p := range players {
		if i < StartingPlayers {
			p.Status = StatusPlaying
		} else {
			p.Status = StatusBenched
		}
	}
	return t
}

func (t *Team) NumPlayers() int {
	return len(t.Players)
}

// Keeper returns the player currently holding the goalkeeper role.
func (t *Team) Keeper() *Player {
	return t.Players[t.CurrentGK]
}

// PlayerIndex resolves a teamsheet reference (a 1-based number or a name)
// to a player index.
func (t *Team) PlayerIndex(ref string) (int, bool) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(t.Players) {
			return NoPlayer, false
		}
		return n - 1, true
	}
	for i, p := range t.Players {
		if p.Name == ref {
			return i, true
		}
	}
	return NoPlayer, false
}

// ActiveCount is the number of players currently on the pitch.
func (t *Team) ActiveCount() int {
	n := 0
	for _, p := range t.Players {
		if p.IsPlaying() {
			n++
		}
	}
	return n
}

// ValidateKeeper checks that exactly one on-pitch player holds the
// goalkeeper role and that he is fielded as a GK.
func (t *Team) ValidateKeeper() error {
	if t.CurrentGK < 0 || t.CurrentGK >= len(t.Players) {
		return fmt.Errorf("goalkeeper index %d out of range", t.CurrentGK)
	}
	gk := t.Players[t.CurrentGK]
	if !gk.IsPlaying() {
		return fmt.Errorf("goalkeeper %s is not on the pitch", gk.Name)
	}
	if !gk.Position.IsGoalkeeper() {
		return fmt.Errorf("goalkeeper %s is fielded as %s", gk.Name, gk.Position)
	}
	return nil
}

// Formation summarises the on-pitch outfield shape, e.g. "4-1-3-2".
// DM and AM lines are only listed when occupied.
func (t *Team) Formation() string {
	counts := map[Position]int{}
	for _, p := range t.Players {
		if p.IsPlaying() {
			counts[p.Position.Position]++
		}
	}
	s := strconv.Itoa(counts[PositionDF]) + "-"
	if counts[PositionDM] > 0 {
		s += strconv.Itoa(counts[PositionDM]) + "-"
	}
	s += strconv.Itoa(counts[PositionMF]) + "-"
	if counts[PositionAM] > 0 {
		s += strconv.Itoa(counts[PositionAM]) + "-"
	}
	return s + strconv.Itoa(counts[PositionFW])
}

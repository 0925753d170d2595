// Package report renders a played match: the commentary file, the final
// statistics tables, the league results log and machine-readable summaries.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/stitts-dev/esms-sim/internal/models"
	"github.com/stitts-dev/esms-sim/internal/simulator"
)

// TacticNamer gives a tactic's display name.
type TacticNamer interface {
	FullName(tactic string) string
}

// errWriter keeps the first write error so the renderers can print freely
// and check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// Commentary writes the play-by-play file of one match.
type Commentary struct {
	ew     *errWriter
	names  [2]string
	tactic TacticNamer
}

func NewCommentary(w io.Writer, tactics TacticNamer) *Commentary {
	return &Commentary{ew: &errWriter{w: w}, tactic: tactics}
}

// Err returns the first write error.
func (c *Commentary) Err() error {
	return c.ew.err
}

// Lineups prints both starting elevens with formation and tactic. It must
// be called before kick-off, while positions are still the teamsheet's.
func (c *Commentary) Lineups(home, away *models.Team) {
	c.names = [2]string{home.Name, away.Name}

	c.ew.printf("Home                           Away\n")
	c.ew.printf("----                           ----\n\n")
	c.ew.printf("%-30s %-30s\n\n", home.FullName, away.FullName)

	for i := 0; i < models.StartingPlayers; i++ {
		h, a := home.Players[i], away.Players[i]
		c.ew.printf("%-3s %-26s %-3s %-26s\n", h.Position, h.Name, a.Position, a.Name)
	}
	c.ew.printf("\n")

	for _, t := range []*models.Team{home, away} {
		c.ew.printf("%-30s ", t.Formation()+" "+c.tactic.FullName(t.Tactic))
	}
	c.ew.printf("\n")
}

// Events prints one commentary line per event.
func (c *Commentary) Events(events []models.Event) {
	for _, e := range events {
		if line := c.Line(e); line != "" {
			c.ew.printf("%s\n", line)
		}
	}
}

// Line renders a single event. Events without a template render empty.
func (c *Commentary) Line(e models.Event) string {
	render, ok := templates[e.Kind]
	if !ok {
		return ""
	}
	return render(c, e)
}

// Seed prints the random seed on the last line so the match can be replayed.
func (c *Commentary) Seed(seed int64) {
	c.ew.printf("\n\n\n%d\n", seed)
}

func (c *Commentary) team(e models.Event) string {
	if e.Team != "" {
		return e.Team
	}
	if e.Side == simulator.Home || e.Side == simulator.Away {
		return c.names[e.Side]
	}
	return ""
}

func (c *Commentary) scoreline(e models.Event) string {
	return fmt.Sprintf("          ...  %s %d-%d %s ...", c.names[simulator.Home], e.HomeScore, e.AwayScore, c.names[simulator.Away])
}

func minute(e models.Event) string {
	return fmt.Sprintf("(%d)", e.Minute)
}

var templates = map[models.EventKind]func(c *Commentary, e models.Event) string{
	models.EventKickOff: func(c *Commentary, e models.Event) string {
		return "\n\nThe referee blows the whistle and the match is under way!\n"
	},
	models.EventAssistedChance: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("\n%s %s, %s passes the ball to %s", minute(e), c.team(e), e.Other, e.Player)
	},
	models.EventChance: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("\n%s %s, %s goes forward with the ball", minute(e), c.team(e), e.Player)
	},
	models.EventTackle: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("          ... but %s wins the ball with a fine tackle", e.Player)
	},
	models.EventShot: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("          ... %s shoots", e.Player)
	},
	models.EventOffTarget: func(c *Commentary, e models.Event) string {
		return "          ... and it goes wide"
	},
	models.EventSave: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("          ... but %s makes the save", e.Player)
	},
	models.EventGoal: func(c *Commentary, e models.Event) string {
		return "          ... GOAL!!!\n" + c.scoreline(e)
	},
	models.EventGoalCancelled: func(c *Commentary, e models.Event) string {
		return "          ... but the goal is disallowed for offside!"
	},
	models.EventFoul: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("\n%s %s, %s commits a foul", minute(e), c.team(e), e.Player)
	},
	models.EventWarned: func(c *Commentary, e models.Event) string {
		return "          ... he gets away with a warning"
	},
	models.EventYellowCard: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("          ... yellow card for %s", e.Player)
	},
	models.EventSecondYellow: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("          ... his second yellow card, %s is sent off!", e.Player)
	},
	models.EventRedCard: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("          ... straight red card, %s is sent off!", e.Player)
	},
	models.EventPenalty: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("\n%s Penalty for %s! %s steps up to take it", minute(e), c.team(e), e.Player)
	},
	models.EventPenaltyGoal: func(c *Commentary, e models.Event) string {
		return "          ... GOAL!!!\n" + c.scoreline(e)
	},
	models.EventPenaltySaved: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("          ... but %s saves the penalty", e.Other)
	},
	models.EventPenaltyMissed: func(c *Commentary, e models.Event) string {
		return "          ... and puts it over the bar"
	},
	models.EventInjury: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("\n%s %s, %s is injured", minute(e), c.team(e), e.Player)
	},
	models.EventNoSubsLeft: func(c *Commentary, e models.Event) string {
		return "          ... no substitutions left, the team plays on a man short"
	},
	models.EventSubstitution: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("\n%s %s, %s replaces %s at %s", minute(e), c.team(e), e.Player, e.Other, e.Detail)
	},
	models.EventPositionChange: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("\n%s %s, %s moves to %s", minute(e), c.team(e), e.Player, e.Detail)
	},
	models.EventTacticChange: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("\n%s %s changes tactic to %s", minute(e), c.team(e), c.tactic.FullName(e.Detail))
	},
	models.EventInjuryTime: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("\nThe fourth official signals %d minute(s) of injury time", e.Value)
	},
	models.EventHalfTime: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("\nHALF TIME: %s %d-%d %s", c.names[simulator.Home], e.HomeScore, e.AwayScore, c.names[simulator.Away])
	},
	models.EventFullTime: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("\nFULL TIME: %s %d-%d %s", c.names[simulator.Home], e.HomeScore, e.AwayScore, c.names[simulator.Away])
	},
	models.EventShootoutStart: func(c *Commentary, e models.Event) string {
		return "\nThe match will be decided by a penalty shootout\n"
	},
	models.EventShootoutGoal: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("%3d. %s (%s) scores          %s", e.Value, e.Player, c.team(e), e.Detail)
	},
	models.EventShootoutSaved: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("%3d. %s (%s) is saved by %s   %s", e.Value, e.Player, c.team(e), e.Other, e.Detail)
	},
	models.EventShootoutMissed: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("%3d. %s (%s) misses          %s", e.Value, e.Player, c.team(e), e.Detail)
	},
	models.EventShootoutDecided: func(c *Commentary, e models.Event) string {
		return fmt.Sprintf("\n%s win the shootout %s", c.team(e), strings.TrimSpace(e.Detail))
	},
}

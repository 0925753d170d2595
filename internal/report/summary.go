package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/stitts-dev/esms-sim/internal/models"
	"github.com/stitts-dev/esms-sim/internal/simulator"
	"github.com/stitts-dev/esms-sim/pkg/utils"
)

// Format selects the encoding of a machine-readable summary.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json" or "yaml".
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: unknown summary format %q", utils.ErrInvalidInput, s)
}

// PlayerSummary is one player's line of the summary.
type PlayerSummary struct {
	Name     string               `json:"name" yaml:"name"`
	Position string               `json:"position" yaml:"position"`
	Status   string               `json:"status" yaml:"status"`
	Fitness  int                  `json:"fitness" yaml:"fitness"`
	Stats    models.PlayerStats   `json:"stats" yaml:"stats"`
	Ability  models.AbilityPoints `json:"ability" yaml:"ability"`
}

// TeamSummary is one side of the summary.
type TeamSummary struct {
	Name          string          `json:"name" yaml:"name"`
	FullName      string          `json:"full_name" yaml:"full_name"`
	Tactic        string          `json:"tactic" yaml:"tactic"`
	Score         int             `json:"score" yaml:"score"`
	ShotsOn       int             `json:"shots_on" yaml:"shots_on"`
	ShotsOff      int             `json:"shots_off" yaml:"shots_off"`
	Fouls         int             `json:"fouls" yaml:"fouls"`
	Substitutions int             `json:"substitutions" yaml:"substitutions"`
	Totals        TeamTotals      `json:"totals" yaml:"totals"`
	Players       []PlayerSummary `json:"players" yaml:"players"`
}

// Summary is the machine-readable outcome of one match.
type Summary struct {
	MatchID   string                    `json:"match_id" yaml:"match_id"`
	Seed      int64                     `json:"seed" yaml:"seed"`
	Home      TeamSummary               `json:"home" yaml:"home"`
	Away      TeamSummary               `json:"away" yaml:"away"`
	Shootout  *simulator.ShootoutResult `json:"shootout,omitempty" yaml:"shootout,omitempty"`
	Events    []models.Event            `json:"events" yaml:"events"`
	Snapshots []simulator.Snapshot      `json:"snapshots,omitempty" yaml:"snapshots,omitempty"`
}

// NewSummary collects the summary of a played match.
func NewSummary(res *simulator.Result) *Summary {
	return &Summary{
		MatchID:   res.MatchID,
		Seed:      res.Seed,
		Home:      teamSummary(res.Home),
		Away:      teamSummary(res.Away),
		Shootout:  res.Shootout,
		Events:    res.Events,
		Snapshots: res.Snapshots,
	}
}

func teamSummary(t *models.Team) TeamSummary {
	ts := TeamSummary{
		Name:          t.Name,
		FullName:      t.FullName,
		Tactic:        t.Tactic,
		Score:         t.Score,
		ShotsOn:       t.ShotsOn,
		ShotsOff:      t.ShotsOff,
		Fouls:         t.Fouls,
		Substitutions: t.Substitutions,
		Totals:        Totals(t),
	}
	for _, p := range t.Players {
		ts.Players = append(ts.Players, PlayerSummary{
			Name:     p.Name,
			Position: p.Position.String(),
			Status:   p.Status.String(),
			Fitness:  p.Fitness(),
			Stats:    p.Stats,
			Ability:  p.Ability,
		})
	}
	return ts
}

// WriteSummary encodes the summary of res to w.
func WriteSummary(w io.Writer, res *simulator.Result, format Format) error {
	s := NewSummary(res)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: unknown summary format %q", utils.ErrInvalidInput, format)
}

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stitts-dev/esms-sim/internal/models"
	"github.com/stitts-dev/esms-sim/internal/simulator"
)

const (
	ResultsFile  = "reports.txt"
	StatsDirFile = "stats.dir"
)

// CommentaryFileName is the commentary file of a fixture, e.g. "ABC_XYZ.txt".
func CommentaryFileName(home, away string) string {
	return home + "_" + away + ".txt"
}

// ResultEntry renders the results-log block of a match: the score line,
// then one line per goal, sending off and injury in match order.
func ResultEntry(res *simulator.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s %d - %d %s\n", res.Home.FullName, res.Home.Score, res.Away.Score, res.Away.FullName)

	for _, e := range res.Events {
		if !e.Reportable() {
			continue
		}
		who := fmt.Sprintf("%s (%s) %d'", e.Player, e.Team, e.FormalMinute)
		switch e.Kind {
		case models.EventGoal:
			b.WriteString(who + "\n")
		case models.EventPenaltyGoal:
			b.WriteString(who + " pen\n")
		case models.EventRedCard, models.EventSecondYellow:
			b.WriteString("Red: " + who + "\n")
		case models.EventInjury:
			b.WriteString("Inj: " + who + "\n")
		}
	}

	b.WriteString("\n")
	return b.String()
}

// AppendResult adds the match to the results log in workDir.
func AppendResult(workDir string, res *simulator.Result) error {
	return appendTo(filepath.Join(workDir, ResultsFile), ResultEntry(res))
}

// AppendStatsDir lists the commentary file of the match in stats.dir.
func AppendStatsDir(workDir string, res *simulator.Result) error {
	return appendTo(filepath.Join(workDir, StatsDirFile), CommentaryFileName(res.Home.Name, res.Away.Name)+"\n")
}

func appendTo(path, text string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("can't open %s: %w", filepath.Base(path), err)
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

package simulator

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/esms-sim/internal/conds"
	"github.com/stitts-dev/esms-sim/internal/models"
	"github.com/stitts-dev/esms-sim/internal/tactics"
	"github.com/stitts-dev/esms-sim/pkg/logger"
)

type playerDef struct {
	pos            string
	pref           string
	st, tk, ps, sh int
}

// A 4-4-2 with a seven-man bench: GK, DFC, MFC, FWC, DFL, MFR, FWC.
var squad = []playerDef{
	{"GK", "C", 15, 1, 1, 1},
	{"DFL", "L", 1, 14, 8, 4},
	{"DFC", "C", 1, 13, 7, 3},
	{"DFC", "C", 1, 12, 7, 3},
	{"DFR", "R", 1, 14, 8, 4},
	{"MFL", "L", 1, 8, 13, 7},
	{"MFC", "C", 1, 9, 14, 8},
	{"MFC", "C", 1, 8, 12, 7},
	{"MFR", "R", 1, 7, 13, 8},
	{"FWC", "C", 1, 4, 8, 14},
	{"FWC", "C", 1, 3, 7, 15},
	{"GK", "C", 12, 1, 1, 1},
	{"DFC", "C", 1, 12, 6, 3},
	{"MFC", "C", 1, 7, 12, 6},
	{"FWC", "C", 1, 3, 6, 13},
	{"DFL", "L", 1, 11, 6, 3},
	{"MFR", "R", 1, 6, 11, 6},
	{"FWC", "C", 1, 4, 7, 12},
}

func testTactics(t *testing.T) *tactics.Model {
	t.Helper()
	var b strings.Builder
	for _, tactic := range []string{"N", "A", "D", "P"} {
		fmt.Fprintf(&b, "TACTIC %s\n", tactic)
	}
	for _, tactic := range []string{"N", "A", "D", "P"} {
		for _, pos := range []string{"DF", "DM", "MF", "AM", "FW"} {
			for _, sk := range []string{"TK", "PS", "SH"} {
				fmt.Fprintf(&b, "MULT %s %s %s 1.0\n", tactic, pos, sk)
			}
		}
	}
	b.WriteString("BONUS A N FW SH 0.3\n")
	m, err := tactics.Load(strings.NewReader(b.String()))
	require.NoError(t, err)
	return m
}

func makeTeam(t *testing.T, name, tactic string, aggression int) *models.Team {
	t.Helper()
	players := make([]*models.Player, len(squad))
	for i, s := range squad {
		pos, err := models.ParseFullPosition(s.pos, nil)
		require.NoError(t, err)
		players[i] = models.NewPlayer(
			fmt.Sprintf("%s_%02d", name, i+1), pos, s.pref,
			models.Skills{Stopping: s.st, Tackling: s.tk, Passing: s.ps, Shooting: s.sh},
			aggression, 60, 100,
		)
	}
	return models.NewTeam(name, name+" FC", tactic, players)
}

func defaultOptions() Options {
	return Options{MaxSubstitutions: 3}
}

func newTestMatch(t *testing.T, opts Options, seed int64) *Match {
	t.Helper()
	m, err := New(makeTeam(t, "HOM", "N", 20), makeTeam(t, "AWY", "N", 20), testTactics(t), opts, seed, logger.Discard())
	require.NoError(t, err)
	return m
}

type parseEnv struct {
	*tactics.Model
	team *models.Team
}

func (e parseEnv) PlayerIndex(ref string) (int, bool) {
	return e.team.PlayerIndex(ref)
}

func mustParse(t *testing.T, m *Match, side int, lines ...string) []conds.Conditional {
	t.Helper()
	src := make([]conds.SourceLine, len(lines))
	for i, l := range lines {
		src[i] = conds.SourceLine{Num: i + 1, Text: l}
	}
	out, err := conds.ParseAll(src, parseEnv{Model: m.tactics, team: m.State.Teams[side]})
	require.NoError(t, err)
	return out
}

func eventsOf(m *Match, kind models.EventKind) []models.Event {
	var out []models.Event
	for _, e := range m.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

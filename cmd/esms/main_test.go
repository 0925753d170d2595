package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/esms-sim/internal/report"
	"github.com/stitts-dev/esms-sim/internal/simulator"
	"github.com/stitts-dev/esms-sim/internal/tactics"
	"github.com/stitts-dev/esms-sim/pkg/config"
	"github.com/stitts-dev/esms-sim/pkg/logger"
	"github.com/stitts-dev/esms-sim/pkg/utils"
)

var squad = []struct{ pos, pref string }{
	{"GK", "C"}, {"DFL", "L"}, {"DFC", "C"}, {"DFC", "C"}, {"DFR", "R"},
	{"MFL", "L"}, {"MFC", "C"}, {"MFC", "C"}, {"MFR", "R"}, {"FWC", "C"}, {"FWC", "C"},
	{"GK", "C"}, {"MFC", "C"},
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func writeTeam(t *testing.T, dir, abbr string) {
	t.Helper()
	var roster, sheet strings.Builder
	roster.WriteString("Name Age Nat Prs St Tk Ps Sh Sm Ag KAb TAb PAb SAb Gam Sav Ktk Kps Sht Gls Ass DP Inj Sus Fit\n---\n")
	fmt.Fprintf(&sheet, "%s\nN\n", abbr)
	for i, p := range squad {
		name := fmt.Sprintf("%s_%d", abbr, i+1)
		fmt.Fprintf(&roster, "%s 24 eng %s 12 11 11 11 50 20 300 300 300 300 0 0 0 0 0 0 0 0 0 0 100\n", name, p.pref)
		fmt.Fprintf(&sheet, "%s %s\n", p.pos, name)
	}
	fmt.Fprintf(&sheet, "PK: %s_10\nTACTIC A IF MIN >= 75, SCORE <= -1\n", abbr)

	writeFile(t, dir, abbr+".txt", roster.String())
	writeFile(t, dir, strings.ToLower(abbr)+"sht.txt", sheet.String())
}

func workDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	var tactics strings.Builder
	tactics.WriteString("TACTIC N Normal\nTACTIC A Attacking\n")
	for _, tactic := range []string{"N", "A"} {
		for _, pos := range []string{"DF", "DM", "MF", "AM", "FW"} {
			for _, sk := range []string{"TK", "PS", "SH"} {
				fmt.Fprintf(&tactics, "MULT %s %s %s 1.0\n", tactic, pos, sk)
			}
		}
	}
	writeFile(t, dir, tacticsFile, tactics.String())
	writeFile(t, dir, config.DefaultFileName, "NUM_SUBS = 2\nHOME_BONUS = 10\nABBR_ABC = Alpha_City\nAB_GOAL = 5\n")
	writeTeam(t, dir, "ABC")
	writeTeam(t, dir, "XYZ")
	return dir
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-work-dir", "/tmp/league", "-seed", "7", "-penalty-diff", "0", "abcsht.txt", "xyzsht.txt"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/league", opts.workDir)
	assert.Equal(t, "7", opts.seed)
	assert.Equal(t, "abcsht.txt", opts.home)
	assert.Equal(t, "xyzsht.txt", opts.away)

	_, err = parseFlags([]string{"abcsht.txt"})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestResolveSeed(t *testing.T) {
	seed, err := resolveSeed("12345")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), seed)

	_, err = resolveSeed("abc")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	seed, err = resolveSeed("")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, seed, int64(0))
}

func TestShootoutPolicyFromFlags(t *testing.T) {
	cfg := config.Defaults()
	cfg.Cup = 1

	policy, err := shootoutPolicy(&options{penaltyDiff: "-1"}, cfg)
	require.NoError(t, err)
	require.NotNil(t, policy.Diff)
	assert.Equal(t, -1, *policy.Diff)
	assert.True(t, policy.ShouldRun(0, 1))
	assert.False(t, policy.ShouldRun(1, 1), "diff takes precedence over the cup flag")

	_, err = shootoutPolicy(&options{penaltyDiff: "x"}, cfg)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestRunPlaysAMatch(t *testing.T) {
	dir := workDir(t)
	opts := &options{
		workDir:       dir,
		seed:          "2024",
		penaltyScore:  "",
		summaryFormat: "json",
		home:          "abcsht.txt",
		away:          "xyzsht.txt",
	}

	require.NoError(t, run(opts, logger.Discard()))

	comm, err := os.ReadFile(filepath.Join(dir, "ABC_XYZ.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(comm), "Alpha City")
	assert.Contains(t, string(comm), "FULL TIME")
	assert.True(t, strings.HasSuffix(string(comm), "\n2024\n"))

	results, err := os.ReadFile(filepath.Join(dir, report.ResultsFile))
	require.NoError(t, err)
	assert.Regexp(t, `^\nAlpha City \d+ - \d+ XYZ\n`, string(results))

	statsDir, err := os.ReadFile(filepath.Join(dir, report.StatsDirFile))
	require.NoError(t, err)
	assert.Equal(t, "ABC_XYZ.txt\n", string(statsDir))

	data, err := os.ReadFile(filepath.Join(dir, "ABC_XYZ.json"))
	require.NoError(t, err)
	var summary report.Summary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, int64(2024), summary.Seed)
	assert.Len(t, summary.Home.Players, len(squad))
	assert.Equal(t, "ABC_10", summary.Home.Players[9].Name, "players follow teamsheet order")
}

func TestRunIsReproducible(t *testing.T) {
	play := func() string {
		dir := workDir(t)
		require.NoError(t, run(&options{workDir: dir, seed: "99", home: "abcsht.txt", away: "xyzsht.txt"}, logger.Discard()))
		data, err := os.ReadFile(filepath.Join(dir, "ABC_XYZ.txt"))
		require.NoError(t, err)
		return string(data)
	}
	assert.Equal(t, play(), play())
}

func TestRunForcedShootout(t *testing.T) {
	dir := workDir(t)
	writeFile(t, dir, config.DefaultFileName, "NUM_SUBS = 2\nCUP = 2\n")

	require.NoError(t, run(&options{workDir: dir, seed: "5", summaryFormat: "yaml", home: "abcsht.txt", away: "xyzsht.txt"}, logger.Discard()))

	comm, err := os.ReadFile(filepath.Join(dir, "ABC_XYZ.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(comm), "penalty shootout")
	assert.Contains(t, string(comm), "win the shootout")

	data, err := os.ReadFile(filepath.Join(dir, "ABC_XYZ.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "shootout:")
}

func TestRunRejectsBadInput(t *testing.T) {
	dir := workDir(t)
	writeFile(t, dir, "badsht.txt", "ABC\nZ\n")

	err := run(&options{workDir: dir, seed: "1", home: "badsht.txt", away: "xyzsht.txt"}, logger.Discard())
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrSetup)

	_, statErr := os.Stat(filepath.Join(dir, report.ResultsFile))
	assert.True(t, os.IsNotExist(statErr), "nothing is reported for a match that never started")
}

type abortedMatch struct{ shootouts int }

func (m *abortedMatch) Play() (*simulator.Result, error) {
	return nil, utils.NewInvariantError("ABC", 63, "no player left to keep goal")
}

func (m *abortedMatch) RunPenaltyShootout() *simulator.ShootoutResult {
	m.shootouts++
	return nil
}

func TestAbortedMatchLeavesNoArtifacts(t *testing.T) {
	dir := workDir(t)
	cfg, err := config.LoadConfig(dir)
	require.NoError(t, err)
	tm, err := tactics.LoadFile(filepath.Join(dir, tacticsFile))
	require.NoError(t, err)
	home, err := loadTeam(dir, "abcsht.txt", cfg, tm)
	require.NoError(t, err)
	away, err := loadTeam(dir, "xyzsht.txt", cfg, tm)
	require.NoError(t, err)

	m := &abortedMatch{}
	err = playAndReport(m, matchRun{
		workDir: dir,
		home:    home,
		away:    away,
		seed:    3,
		policy:  simulator.ShootoutPolicy{Cup: 2},
		format:  report.FormatJSON,
		tactics: tm,
		log:     logger.WithService(logger.Discard(), "esms"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrInvariant)
	assert.Zero(t, m.shootouts)

	for _, name := range []string{"ABC_XYZ.txt", "ABC_XYZ.json", report.ResultsFile, report.StatsDirFile} {
		_, statErr := os.Stat(filepath.Join(dir, name))
		assert.True(t, os.IsNotExist(statErr), "%s should not exist", name)
	}
}

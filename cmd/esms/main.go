// Command esms plays one match between two teamsheets found in the work
// directory and writes the commentary, the results log entry and,
// optionally, a JSON or YAML summary.
//
//	esms [-work-dir dir] [-seed n] [-penalty-score 1-1 | -penalty-diff 0] abcsht.txt xyzsht.txt
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/esms-sim/internal/models"
	"github.com/stitts-dev/esms-sim/internal/random"
	"github.com/stitts-dev/esms-sim/internal/report"
	"github.com/stitts-dev/esms-sim/internal/simulator"
	"github.com/stitts-dev/esms-sim/internal/tactics"
	"github.com/stitts-dev/esms-sim/internal/teamsheet"
	"github.com/stitts-dev/esms-sim/pkg/config"
	"github.com/stitts-dev/esms-sim/pkg/logger"
	"github.com/stitts-dev/esms-sim/pkg/utils"
)

const tacticsFile = "tactics.dat"

type options struct {
	workDir       string
	seed          string
	penaltyScore  string
	penaltyDiff   string
	summaryFormat string
	logLevel      string
	dev           bool
	home, away    string
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("esms", flag.ContinueOnError)
	fs.StringVar(&opts.workDir, "work-dir", ".", "directory holding league.dat, tactics.dat, rosters and teamsheets")
	fs.StringVar(&opts.seed, "seed", "", "random seed (a fresh one is drawn when empty)")
	fs.StringVar(&opts.penaltyScore, "penalty-score", "", "run a shootout when the full-time score is exactly this, e.g. 1-1")
	fs.StringVar(&opts.penaltyDiff, "penalty-diff", "", "run a shootout when home minus away goals equals this")
	fs.StringVar(&opts.summaryFormat, "summary-format", "", "also write a match summary: json or yaml")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (defaults to LOG_LEVEL or info)")
	fs.BoolVar(&opts.dev, "dev", false, "human readable logs")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 2 {
		return nil, fmt.Errorf("%w: expected the home and away teamsheet names", utils.ErrInvalidInput)
	}
	opts.home, opts.away = fs.Arg(0), fs.Arg(1)
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.InitLogger(opts.logLevel, opts.dev)
	if err := run(opts, log); err != nil {
		log.Fatalf("Match failed: %v", err)
	}
	fmt.Println("Game finished successfully")
}

func run(opts *options, log *logrus.Logger) error {
	cfg, err := config.LoadConfig(opts.workDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	tm, err := tactics.LoadFile(filepath.Join(opts.workDir, tacticsFile))
	if err != nil {
		return fmt.Errorf("failed to load tactics: %w", err)
	}

	home, err := loadTeam(opts.workDir, opts.home, cfg, tm)
	if err != nil {
		return err
	}
	away, err := loadTeam(opts.workDir, opts.away, cfg, tm)
	if err != nil {
		return err
	}

	seed, err := resolveSeed(opts.seed)
	if err != nil {
		return err
	}

	policy, err := shootoutPolicy(opts, cfg)
	if err != nil {
		return err
	}

	var format report.Format
	if opts.summaryFormat != "" {
		if format, err = report.ParseFormat(opts.summaryFormat); err != nil {
			return err
		}
	}

	svc := logger.WithService(log, "esms")
	m, err := simulator.New(home, away, tm, simulator.OptionsFromConfig(cfg), seed, svc)
	if err != nil {
		return fmt.Errorf("failed to set up match: %w", err)
	}

	return playAndReport(m, matchRun{
		workDir: opts.workDir,
		home:    home,
		away:    away,
		seed:    seed,
		policy:  policy,
		format:  format,
		tactics: tm,
		log:     logger.WithMatch(svc, m.ID.String(), home.Name, away.Name),
	})
}

// fixture is the part of a match the command drives.
type fixture interface {
	Play() (*simulator.Result, error)
	RunPenaltyShootout() *simulator.ShootoutResult
}

type matchRun struct {
	workDir    string
	home, away *models.Team
	seed       int64
	policy     simulator.ShootoutPolicy
	format     report.Format
	tactics    report.TacticNamer
	log        *logrus.Entry
}

// playAndReport plays m and writes its artifacts. Nothing reaches the work
// directory unless the match completes.
func playAndReport(m fixture, mr matchRun) error {
	home, away := mr.home, mr.away
	mr.log.WithField("seed", mr.seed).Info("Kick-off")

	var commentary bytes.Buffer
	comm := report.NewCommentary(&commentary, mr.tactics)
	// lineups show the kick-off positions
	comm.Lineups(home, away)

	res, err := m.Play()
	if err != nil {
		return fmt.Errorf("match aborted: %w", err)
	}
	if mr.policy.ShouldRun(res.Score()) {
		m.RunPenaltyShootout()
	}

	comm.Events(res.Events)
	comm.Stats(res)
	comm.Snapshots(res.Snapshots)
	comm.Seed(mr.seed)
	if err := comm.Err(); err != nil {
		return fmt.Errorf("failed to render commentary: %w", err)
	}

	commPath := filepath.Join(mr.workDir, report.CommentaryFileName(home.Name, away.Name))
	if err := os.WriteFile(commPath, commentary.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write commentary: %w", err)
	}
	if err := report.AppendStatsDir(mr.workDir, res); err != nil {
		return err
	}
	if err := report.AppendResult(mr.workDir, res); err != nil {
		return err
	}

	if mr.format != "" {
		if err := writeSummary(mr.workDir, res, mr.format); err != nil {
			return err
		}
	}

	h, a := res.Score()
	mr.log.WithFields(logrus.Fields{
		"home_score": h,
		"away_score": a,
		"commentary": commPath,
	}).Info("Match finished")

	return nil
}

func loadTeam(workDir, sheetName string, cfg *config.LeagueConfig, tm *tactics.Model) (*models.Team, error) {
	sheet, err := teamsheet.LoadFile(filepath.Join(workDir, sheetName), cfg.NumPlayers())
	if err != nil {
		return nil, err
	}
	roster, err := teamsheet.LoadRoster(workDir, sheet.Abbr)
	if err != nil {
		return nil, err
	}
	return teamsheet.Build(sheet, roster, tm, cfg.TeamFullName(sheet.Abbr))
}

func resolveSeed(s string) (int64, error) {
	if s == "" {
		return random.NewSeed()
	}
	seed, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid seed %q", utils.ErrInvalidInput, s)
	}
	return seed, nil
}

func shootoutPolicy(opts *options, cfg *config.LeagueConfig) (simulator.ShootoutPolicy, error) {
	policy := simulator.ShootoutPolicy{Score: opts.penaltyScore, Cup: cfg.Cup}
	if opts.penaltyDiff != "" {
		diff, err := strconv.Atoi(opts.penaltyDiff)
		if err != nil {
			return policy, fmt.Errorf("%w: invalid penalty difference %q", utils.ErrInvalidInput, opts.penaltyDiff)
		}
		policy.Diff = &diff
	}
	return policy, nil
}

func writeSummary(workDir string, res *simulator.Result, format report.Format) error {
	path := filepath.Join(workDir, fmt.Sprintf("%s_%s.%s", res.Home.Name, res.Away.Name, format))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary: %w", err)
	}
	if err := report.WriteSummary(f, res, format); err != nil {
		f.Close()
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return f.Close()
}

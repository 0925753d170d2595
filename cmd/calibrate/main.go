// Command calibrate plays one fixture many times with consecutive seeds and
// prints the result and goal distributions. Nothing is written to the work
// directory.
//
//	calibrate [-runs 1000] [-seed-base n] [-format table|json|yaml] abcsht.txt xyzsht.txt
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/stitts-dev/esms-sim/internal/calibration"
	"github.com/stitts-dev/esms-sim/internal/models"
	"github.com/stitts-dev/esms-sim/internal/simulator"
	"github.com/stitts-dev/esms-sim/internal/tactics"
	"github.com/stitts-dev/esms-sim/internal/teamsheet"
	"github.com/stitts-dev/esms-sim/pkg/config"
	"github.com/stitts-dev/esms-sim/pkg/logger"
	"github.com/stitts-dev/esms-sim/pkg/utils"
)

const tacticsFile = "tactics.dat"

type options struct {
	workDir  string
	runs     int
	seedBase int64
	seedStep int64
	format   string
	progress int
	logLevel string
	dev      bool
	home     string
	away     string
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("calibrate", flag.ContinueOnError)
	fs.StringVar(&opts.workDir, "work-dir", ".", "directory holding league.dat, tactics.dat, rosters and teamsheets")
	fs.IntVar(&opts.runs, "runs", 1000, "number of matches to play")
	fs.Int64Var(&opts.seedBase, "seed-base", 1, "seed of the first match")
	fs.Int64Var(&opts.seedStep, "seed-step", 1, "seed increment between matches")
	fs.StringVar(&opts.format, "format", "table", "output format: table, json or yaml")
	fs.IntVar(&opts.progress, "progress", 0, "log progress every n matches")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (defaults to LOG_LEVEL or info)")
	fs.BoolVar(&opts.dev, "dev", false, "human readable logs")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 2 {
		return nil, fmt.Errorf("%w: expected the home and away teamsheet names", utils.ErrInvalidInput)
	}
	switch opts.format {
	case "table", "json", "yaml":
	default:
		return nil, fmt.Errorf("%w: unknown format %q", utils.ErrInvalidInput, opts.format)
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, log, os.Stdout); err != nil {
		log.Fatalf("Calibration failed: %v", err)
	}
}

func run(ctx context.Context, opts *options, log *logrus.Logger, out io.Writer) error {
	cfg, err := config.LoadConfig(opts.workDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	tm, err := tactics.LoadFile(filepath.Join(opts.workDir, tacticsFile))
	if err != nil {
		return fmt.Errorf("failed to load tactics: %w", err)
	}

	home, err := teamFactory(opts.workDir, opts.home, cfg, tm)
	if err != nil {
		return err
	}
	away, err := teamFactory(opts.workDir, opts.away, cfg, tm)
	if err != nil {
		return err
	}

	runner := calibration.NewRunner(tm, logger.WithService(log, "calibrate"))
	rep, err := runner.Run(ctx, calibration.Config{
		Runs:          opts.runs,
		SeedBase:      opts.seedBase,
		SeedStep:      opts.seedStep,
		Options:       simulator.OptionsFromConfig(cfg),
		ProgressEvery: opts.progress,
	}, home, away)
	if err != nil {
		return err
	}

	return writeReport(out, rep, opts.format)
}

// teamFactory reads the teamsheet and roster once and builds a fresh team
// from them for every run.
func teamFactory(workDir, sheetName string, cfg *config.LeagueConfig, tm *tactics.Model) (calibration.TeamFactory, error) {
	sheet, err := teamsheet.LoadFile(filepath.Join(workDir, sheetName), cfg.NumPlayers())
	if err != nil {
		return nil, err
	}
	roster, err := teamsheet.LoadRoster(workDir, sheet.Abbr)
	if err != nil {
		return nil, err
	}

	fullName := cfg.TeamFullName(sheet.Abbr)
	// surface teamsheet errors before the batch starts
	if _, err := teamsheet.Build(sheet, roster, tm, fullName); err != nil {
		return nil, err
	}

	return func() (*models.Team, error) {
		return teamsheet.Build(sheet, roster, tm, fullName)
	}, nil
}

func writeReport(w io.Writer, rep *calibration.Report, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	default:
		return calibration.WriteTable(w, rep)
	}
}

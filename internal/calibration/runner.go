// Package calibration plays one fixture many times with consecutive seeds
// and summarises the goal distribution, for tuning tactics tables and
// league settings.
package calibration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/stitts-dev/esms-sim/internal/models"
	"github.com/stitts-dev/esms-sim/internal/simulator"
	"github.com/stitts-dev/esms-sim/internal/tactics"
	"github.com/stitts-dev/esms-sim/pkg/logger"
	"github.com/stitts-dev/esms-sim/pkg/utils"
)

// TeamFactory builds a fresh team for every run, since a match mutates
// the teams it plays.
type TeamFactory func() (*models.Team, error)

// Config controls a calibration batch.
type Config struct {
	Runs     int
	SeedBase int64
	SeedStep int64
	Options  simulator.Options
	// ProgressEvery logs progress after that many runs; 0 disables it
	ProgressEvery int
}

// Percentiles reported for every distribution.
var Percentiles = []float64{0.10, 0.25, 0.50, 0.75, 0.90}

// Distribution summarises one goal count across the batch.
type Distribution struct {
	Mean        float64            `json:"mean" yaml:"mean"`
	Variance    float64            `json:"variance" yaml:"variance"`
	StdDev      float64            `json:"std_dev" yaml:"std_dev"`
	Min         float64            `json:"min" yaml:"min"`
	Max         float64            `json:"max" yaml:"max"`
	Percentiles map[string]float64 `json:"percentiles" yaml:"percentiles"`
}

// Report is the outcome of a batch.
type Report struct {
	RunID    string        `json:"run_id" yaml:"run_id"`
	Home     string        `json:"home" yaml:"home"`
	Away     string        `json:"away" yaml:"away"`
	Runs     int           `json:"runs" yaml:"runs"`
	SeedBase int64         `json:"seed_base" yaml:"seed_base"`
	SeedStep int64         `json:"seed_step" yaml:"seed_step"`
	Elapsed  time.Duration `json:"elapsed" yaml:"elapsed"`

	HomeWins int     `json:"home_wins" yaml:"home_wins"`
	Draws    int     `json:"draws" yaml:"draws"`
	AwayWins int     `json:"away_wins" yaml:"away_wins"`
	HomeRate float64 `json:"home_rate" yaml:"home_rate"`
	DrawRate float64 `json:"draw_rate" yaml:"draw_rate"`
	AwayRate float64 `json:"away_rate" yaml:"away_rate"`

	HomeGoals  Distribution `json:"home_goals" yaml:"home_goals"`
	AwayGoals  Distribution `json:"away_goals" yaml:"away_goals"`
	TotalGoals Distribution `json:"total_goals" yaml:"total_goals"`
}

// Runner plays calibration batches against one tactics table.
type Runner struct {
	tactics *tactics.Model
	logger  logrus.FieldLogger
}

func NewRunner(tm *tactics.Model, log logrus.FieldLogger) *Runner {
	if log == nil {
		log = logger.Discard()
	}
	return &Runner{tactics: tm, logger: log}
}

// Run plays cfg.Runs matches one after the other, seeding run i with
// SeedBase + i*SeedStep. Any failed match aborts the batch.
func (r *Runner) Run(ctx context.Context, cfg Config, home, away TeamFactory) (*Report, error) {
	if cfg.Runs <= 0 {
		return nil, fmt.Errorf("%w: run count must be positive", utils.ErrInvalidInput)
	}
	if cfg.SeedStep == 0 {
		cfg.SeedStep = 1
	}

	start := time.Now()
	rep := &Report{
		RunID:    uuid.New().String(),
		Runs:     cfg.Runs,
		SeedBase: cfg.SeedBase,
		SeedStep: cfg.SeedStep,
	}
	log := r.logger.WithFields(logrus.Fields{"run_id": rep.RunID, "runs": cfg.Runs})
	log.Info("Starting calibration batch")

	homeGoals := make([]float64, cfg.Runs)
	awayGoals := make([]float64, cfg.Runs)
	totalGoals := make([]float64, cfg.Runs)

	for i := 0; i < cfg.Runs; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		seed := cfg.SeedBase + int64(i)*cfg.SeedStep
		h, a, err := r.playOne(cfg.Options, seed, home, away)
		if err != nil {
			return nil, fmt.Errorf("run %d (seed %d): %w", i, seed, err)
		}
		if i == 0 {
			rep.Home, rep.Away = h.Name, a.Name
		}

		homeGoals[i], awayGoals[i] = float64(h.Score), float64(a.Score)
		totalGoals[i] = homeGoals[i] + awayGoals[i]
		switch {
		case h.Score > a.Score:
			rep.HomeWins++
		case h.Score < a.Score:
			rep.AwayWins++
		default:
			rep.Draws++
		}

		if cfg.ProgressEvery > 0 && (i+1)%cfg.ProgressEvery == 0 {
			log.WithField("completed", i+1).Info("Calibration progress")
		}
	}

	n := float64(cfg.Runs)
	rep.HomeRate = float64(rep.HomeWins) / n
	rep.DrawRate = float64(rep.Draws) / n
	rep.AwayRate = float64(rep.AwayWins) / n
	rep.HomeGoals = distribution(homeGoals)
	rep.AwayGoals = distribution(awayGoals)
	rep.TotalGoals = distribution(totalGoals)
	rep.Elapsed = time.Since(start)

	log.WithFields(logrus.Fields{
		"home_rate":  rep.HomeRate,
		"draw_rate":  rep.DrawRate,
		"away_rate":  rep.AwayRate,
		"mean_goals": rep.TotalGoals.Mean,
		"elapsed":    rep.Elapsed,
	}).Info("Calibration batch completed")

	return rep, nil
}

func (r *Runner) playOne(opts simulator.Options, seed int64, home, away TeamFactory) (*models.Team, *models.Team, error) {
	h, err := home()
	if err != nil {
		return nil, nil, err
	}
	a, err := away()
	if err != nil {
		return nil, nil, err
	}

	m, err := simulator.New(h, a, r.tactics, opts, seed, r.logger)
	if err != nil {
		return nil, nil, err
	}
	res, err := m.Play()
	if err != nil {
		return nil, nil, err
	}
	return res.Home, res.Away, nil
}

func distribution(x []float64) Distribution {
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	d := Distribution{
		Mean:        mean,
		Variance:    stat.Variance(sorted, nil),
		StdDev:      std,
		Min:         sorted[0],
		Max:         sorted[len(sorted)-1],
		Percentiles: make(map[string]float64, len(Percentiles)),
	}
	for _, p := range Percentiles {
		d.Percentiles[percentileKey(p)] = stat.Quantile(p, stat.Empirical, sorted, nil)
	}
	return d
}

func percentileKey(p float64) string {
	return fmt.Sprintf("p%d", int(p*100+0.5))
}

// WriteTable prints the report as aligned text.
func WriteTable(w io.Writer, rep *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "Fixture\t%s - %s\n", rep.Home, rep.Away)
	fmt.Fprintf(tw, "Runs\t%d (seeds %d + i*%d)\n", rep.Runs, rep.SeedBase, rep.SeedStep)
	fmt.Fprintf(tw, "Home / Draw / Away\t%.1f%%\t%.1f%%\t%.1f%%\n", rep.HomeRate*100, rep.DrawRate*100, rep.AwayRate*100)
	fmt.Fprintln(tw)

	fmt.Fprint(tw, "Goals\tMean\tStdDev\tMin")
	for _, p := range Percentiles {
		fmt.Fprintf(tw, "\t%s", percentileKey(p))
	}
	fmt.Fprintln(tw, "\tMax")

	for _, row := range []struct {
		name string
		d    Distribution
	}{
		{"Home", rep.HomeGoals},
		{"Away", rep.AwayGoals},
		{"Total", rep.TotalGoals},
	} {
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%.0f", row.name, row.d.Mean, row.d.StdDev, row.d.Min)
		for _, p := range Percentiles {
			fmt.Fprintf(tw, "\t%.1f", row.d.Percentiles[percentileKey(p)])
		}
		fmt.Fprintf(tw, "\t%.0f\n", row.d.Max)
	}
	return tw.Flush()
}

package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/russross/examtt/internal/config"
	"github.com/russross/examtt/internal/logger"
	"github.com/russross/examtt/internal/timetable"
)

const reportInterval = 10 * time.Second

// setup loads the configuration, starts the logger and regenerates the
// instance. The same settings always give the same instance.
func setup() (*config.Config, *zap.Logger, *timetable.Instance, error) {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logger.New(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("starting logger: %w", err)
	}

	ic := cfg.Instance
	inst, err := timetable.RandomInstance(ic.Exams, ic.Slots, ic.Students, ic.PerStudent, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return nil, nil, nil, err
	}
	log.Info("instance ready",
		zap.Int("exams", inst.Exams),
		zap.Int("slots", inst.Slots),
		zap.Int("students", inst.Students),
		zap.Int64("seed", cfg.Seed))
	return cfg, log, inst, nil
}

func CommandGen(cmd *cobra.Command, args []string) error {
	cfg, log, inst, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ids := &timetable.IDSource{}
	start := time.Now()

	// independent constructions share only the read-only instance
	p := pool.NewWithResults[*timetable.Timetable]().WithErrors().WithMaxGoroutines(cfg.Workers)
	for i := 0; i < cfg.Samples; i++ {
		seed := cfg.Seed + int64(i) + 1
		p.Go(func() (*timetable.Timetable, error) {
			rng := rand.New(rand.NewSource(seed))
			return timetable.New(inst, ids, rng, timetable.WithMaxRestarts(cfg.MaxRestarts))
		})
	}
	results, err := p.Wait()
	if err != nil {
		log.Error("some constructions failed", zap.Error(err))
	}

	var best *timetable.Timetable
	for _, t := range results {
		if t == nil {
			continue
		}
		if best == nil || t.Fitness() > best.Fitness() {
			best = t
		}
	}
	if best == nil {
		return fmt.Errorf("no feasible timetable found in %d attempts", cfg.Samples)
	}
	log.Info("construction finished",
		zap.Int("built", len(results)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int64("best", best.ID()),
		zap.Float64("penalty", best.Penalty()))

	if !best.Feasible(log) {
		return fmt.Errorf("timetable %d is not feasible", best.ID())
	}
	if err := best.Print(os.Stdout); err != nil {
		return err
	}
	return writeSolution(log, cfg.Prefix+".sol", best)
}

func CommandCheck(cmd *cobra.Command, args []string) error {
	cfg, log, inst, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	assignment, err := readSolution(cfg.Prefix + ".sol")
	if err != nil {
		return err
	}

	// report every problem before refusing the file
	if !timetable.CheckFeasibility(log, inst, assignment) {
		log.Warn("timetable is not feasible", zap.Float64("penalty", timetable.ComputePenalty(inst, assignment)))
	}
	t, err := timetable.FromAssignment(inst, &timetable.IDSource{}, assignment)
	if err != nil {
		return err
	}
	log.Info("timetable checked", zap.Float64("penalty", t.Penalty()), zap.Float64("fitness", t.Fitness()))
	return t.Print(os.Stdout)
}

func CommandOps(cmd *cobra.Command, args []string) error {
	cfg, log, inst, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	assignment, err := readSolution(cfg.Prefix + ".sol")
	if err != nil {
		return err
	}
	ids := &timetable.IDSource{}
	current, err := timetable.FromAssignment(inst, ids, assignment)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	log.Info("starting operator rounds",
		zap.String("operator", cfg.Ops.Operator),
		zap.Int("rounds", cfg.Ops.Rounds),
		zap.Float64("penalty", current.Penalty()))
	start := time.Now()
	lastReport := start
	improvements, noops := 0, 0

	for round := 1; round <= cfg.Ops.Rounds; round++ {
		candidate, changed, err := applyOperator(cfg, inst, ids, current, rng)
		if err != nil {
			return err
		}
		if !changed {
			noops++
			continue
		}

		// keep it only if it is an improvement
		if candidate.Fitness() > current.Fitness() {
			improvements++
			log.Debug("improvement found",
				zap.Int("round", round),
				zap.Int64("id", candidate.ID()),
				zap.Float64("penalty", candidate.Penalty()))
			current = candidate
		}

		if time.Since(lastReport) >= reportInterval {
			lastReport = time.Now()
			log.Info("so far",
				zap.Int("round", round),
				zap.Duration("elapsed", time.Since(start)),
				zap.Float64("penalty", current.Penalty()))
		}
	}

	log.Info("operator rounds finished",
		zap.Int("improvements", improvements),
		zap.Int("noops", noops),
		zap.Duration("elapsed", time.Since(start)),
		zap.Float64("penalty", current.Penalty()))

	if !current.Feasible(log) {
		return fmt.Errorf("timetable %d is not feasible", current.ID())
	}
	if err := current.Print(os.Stdout); err != nil {
		return err
	}
	return writeSolution(log, cfg.Prefix+".sol", current)
}

// applyOperator runs one round of the configured operator on a copy of
// current. It reports whether the copy differs from current.
func applyOperator(cfg *config.Config, inst *timetable.Instance, ids *timetable.IDSource, current *timetable.Timetable, rng *rand.Rand) (*timetable.Timetable, bool, error) {
	switch cfg.Ops.Operator {
	case "mutate":
		candidate := current.Clone()
		return candidate, candidate.Mutate(rng), nil

	case "swap":
		candidate := current.Clone()
		return candidate, candidate.SwapSlots(rng), nil

	case "disrupt":
		candidate := current.Clone()
		return candidate, candidate.Disrupt(rng) > 0, nil

	case "crossover":
		partner, err := timetable.New(inst, ids, rng, timetable.WithMaxRestarts(cfg.MaxRestarts))
		if err != nil {
			return nil, false, err
		}
		a, b, ok := current.Crossover(partner, cfg.Ops.Fraction, rng)
		if !ok {
			return current, false, nil
		}
		if b.Fitness() > a.Fitness() {
			return b, true, nil
		}
		return a, true, nil
	}
	return nil, false, fmt.Errorf("unknown operator %q", cfg.Ops.Operator)
}

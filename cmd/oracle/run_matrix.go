package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nvme-lite/oracle/internal/engine"
	"github.com/nvme-lite/oracle/internal/matrix"
	"github.com/nvme-lite/oracle/internal/telemetry"
)

var runMatrixFlags struct {
	config           string
	outDir           string
	scheduleSeeds    string
	submitWindow     string
	dumpSchedules    bool
}

var runMatrixCmd = &cobra.Command{
	Use:   "run-matrix",
	Short: "run the full experiment matrix described by a YAML config",
	RunE:  runMatrixE,
}

func init() {
	f := runMatrixCmd.Flags()
	f.StringVar(&runMatrixFlags.config, "config", "", "path to the experiment-matrix YAML file (required)")
	f.StringVar(&runMatrixFlags.outDir, "out-dir", "", "directory to write {run_id}.log files into (required)")
	f.StringVar(&runMatrixFlags.scheduleSeeds, "schedule-seeds", "", "override the config's schedule_seeds range")
	f.StringVar(&runMatrixFlags.submitWindow, "submit-window", "inf", "max pending-set size, or inf")
	f.BoolVar(&runMatrixFlags.dumpSchedules, "dump-schedules", false, "also write a JSON schedule record per run")
	_ = runMatrixCmd.MarkFlagRequired("config")
	_ = runMatrixCmd.MarkFlagRequired("out-dir")
}

func runMatrixE(cmd *cobra.Command, args []string) error {
	cfg, err := matrix.LoadConfig(runMatrixFlags.config)
	if err != nil {
		return errors.WithMessage(err, "load config")
	}

	if runMatrixFlags.scheduleSeeds != "" {
		start, end, err := matrix.ParseRange(runMatrixFlags.scheduleSeeds)
		if err != nil {
			return errors.WithMessage(err, "parse --schedule-seeds")
		}
		cfg.ScheduleSeedStart, cfg.ScheduleSeedEnd = start, end
	}

	submitWindow, err := engine.ParseSubmitWindow(runMatrixFlags.submitWindow)
	if err != nil {
		return errors.WithMessage(err, "parse --submit-window")
	}

	fmt.Printf("running %d experiments...\n", cfg.TotalRuns())

	driver := matrix.NewDriver(cfg, runMatrixFlags.outDir, submitWindow, runMatrixFlags.dumpSchedules, nil)
	completed, errored, err := driver.RunAll(context.Background())
	if err != nil {
		return errors.WithMessage(err, "run matrix")
	}
	fmt.Printf("completed=%d errored=%d\n", completed, errored)

	registry := telemetry.NewRegistry()
	snap := driver.Metrics.Snapshot()
	for i := uint64(0); i < snap.RunsOK; i++ {
		registry.ObserveRun("ok", 0)
	}
	for i := uint64(0); i < snap.RunsFailed; i++ {
		registry.ObserveRun("failed", 0)
	}
	if err := registry.DumpToFile(runMatrixFlags.outDir + "/metrics.prom"); err != nil {
		return errors.WithMessage(err, "dump metrics")
	}

	// Per-run failures are counted above, not fatal: §6 only reserves a
	// nonzero exit for unrecoverable parse/IO errors, which already
	// returned above. The matrix itself completed.
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	oracle "github.com/nvme-lite/oracle"
	"github.com/nvme-lite/oracle/internal/engine"
	"github.com/nvme-lite/oracle/internal/scheduler"
	"github.com/nvme-lite/oracle/internal/wire"
)

var runOneFlags struct {
	seedFile         string
	scheduleSeed     uint64
	policy           string
	boundK           string
	faultMode        string
	submitWindow     string
	outLog           string
	schedulerVersion string
	gitCommit        string
	dumpSchedule     string
}

var runOneCmd = &cobra.Command{
	Use:   "run-one",
	Short: "run a single experiment and write its event log",
	RunE:  runOneE,
}

func init() {
	f := runOneCmd.Flags()
	f.StringVar(&runOneFlags.seedFile, "seed-file", "", "path to a seed JSON file (required)")
	f.Uint64Var(&runOneFlags.scheduleSeed, "schedule-seed", 0, "64-bit PRNG seed")
	f.StringVar(&runOneFlags.policy, "policy", "FIFO", "FIFO|RANDOM|ADVERSARIAL|BATCHED")
	f.StringVar(&runOneFlags.boundK, "bound-k", "inf", "reorder bound: a non-negative integer or inf")
	f.StringVar(&runOneFlags.faultMode, "fault-mode", "NONE", "NONE|TIMEOUT|RESET")
	f.StringVar(&runOneFlags.submitWindow, "submit-window", "inf", "max pending-set size, or inf")
	f.StringVar(&runOneFlags.outLog, "out-log", "", "path to write the event log (required)")
	f.StringVar(&runOneFlags.schedulerVersion, "scheduler-version", "v1.0", "scheduler_version recorded in RUN_HEADER")
	f.StringVar(&runOneFlags.gitCommit, "git-commit", "", "git_commit recorded in RUN_HEADER")
	f.StringVar(&runOneFlags.dumpSchedule, "dump-schedule", "", "optional path to write a JSON schedule record")
	_ = runOneCmd.MarkFlagRequired("seed-file")
	_ = runOneCmd.MarkFlagRequired("out-log")
}

func runOneE(cmd *cobra.Command, args []string) error {
	seed, err := wire.LoadSeed(runOneFlags.seedFile)
	if err != nil {
		return errors.WithMessage(err, "load seed")
	}

	policy, err := scheduler.ParsePolicy(runOneFlags.policy)
	if err != nil {
		return errors.WithMessage(err, "parse --policy")
	}
	boundK, err := scheduler.ParseBoundK(runOneFlags.boundK)
	if err != nil {
		return errors.WithMessage(err, "parse --bound-k")
	}
	faultMode, err := engine.ParseFaultMode(runOneFlags.faultMode)
	if err != nil {
		return errors.WithMessage(err, "parse --fault-mode")
	}
	submitWindow, err := engine.ParseSubmitWindow(runOneFlags.submitWindow)
	if err != nil {
		return errors.WithMessage(err, "parse --submit-window")
	}

	runCfg := engine.RunConfig{
		Seed:             *seed,
		ScheduleSeed:     runOneFlags.scheduleSeed,
		Policy:           policy,
		BoundK:           boundK,
		FaultMode:        faultMode,
		SubmitWindow:     submitWindow,
		SchedulerVersion: runOneFlags.schedulerVersion,
		GitCommit:        runOneFlags.gitCommit,
		DumpSchedule:     runOneFlags.dumpSchedule != "",
	}

	result, err := engine.New(runCfg).Run(context.Background())
	if err != nil {
		return errors.WithMessage(err, "run")
	}

	logFile, err := os.Create(runOneFlags.outLog)
	if err != nil {
		return oracle.NewIOError("create out-log", runOneFlags.outLog, err)
	}
	defer logFile.Close()
	if err := result.EventLog.Flush(logFile); err != nil {
		return oracle.NewIOError("write out-log", runOneFlags.outLog, err)
	}

	if runOneFlags.dumpSchedule != "" && result.ScheduleRecord != nil {
		schedFile, err := os.Create(runOneFlags.dumpSchedule)
		if err != nil {
			return oracle.NewIOError("create schedule file", runOneFlags.dumpSchedule, err)
		}
		defer schedFile.Close()
		if err := result.ScheduleRecord.Flush(schedFile); err != nil {
			return oracle.NewIOError("write schedule file", runOneFlags.dumpSchedule, err)
		}
	}

	fmt.Printf("run_id=%s pending_left=%d pending_peak=%d", result.RunID, result.PendingLeft, result.PendingPeak)
	if result.HadReset {
		fmt.Printf(" commands_lost=%d", result.CommandsLost)
	}
	fmt.Println()

	return nil
}

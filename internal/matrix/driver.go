package matrix

import (
	"context"
	"os"
	"path/filepath"

	oracle "github.com/nvme-lite/oracle"
	"github.com/nvme-lite/oracle/internal/constants"
	"github.com/nvme-lite/oracle/internal/engine"
	"github.com/nvme-lite/oracle/internal/logging"
	"github.com/nvme-lite/oracle/internal/wire"
)

// Driver runs every combination of an ExperimentConfig's cross-product,
// structured like the teacher's internal/ctrl.Controller — a struct
// holding shared config plus a *logging.Logger, one method per external
// operation — but targeting "run one more experiment" instead of "issue
// one more ioctl".
type Driver struct {
	Config       *ExperimentConfig
	OutDir       string
	SubmitWindow engine.SubmitWindow
	DumpSchedules bool
	Metrics      *oracle.Metrics
	Logger       *logging.Logger
}

// NewDriver builds a Driver. A nil Logger falls back to the package
// default logger; Metrics always starts as a fresh, zeroed instance.
func NewDriver(cfg *ExperimentConfig, outDir string, submitWindow engine.SubmitWindow, dumpSchedules bool, logger *logging.Logger) *Driver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Driver{
		Config:        cfg,
		OutDir:        outDir,
		SubmitWindow:  submitWindow,
		DumpSchedules: dumpSchedules,
		Metrics:       oracle.NewMetrics(),
		Logger:        logger,
	}
}

// RunAll iterates the full seed × policy × bound × fault × schedule_seed
// cross-product sequentially (order across runs is not a semantic
// contract), writing out-dir/{run_id}.log and, if requested,
// out-dir/schedules/{run_id}.json for each. Per-run failures are logged
// and counted, never aborting the matrix.
func (d *Driver) RunAll(ctx context.Context) (completed, errored int, err error) {
	if err := os.MkdirAll(d.OutDir, 0o755); err != nil {
		return 0, 0, oracle.NewIOError("create out-dir", d.OutDir, err)
	}
	if d.DumpSchedules {
		schedDir := filepath.Join(d.OutDir, "schedules")
		if err := os.MkdirAll(schedDir, 0o755); err != nil {
			return 0, 0, oracle.NewIOError("create schedules dir", schedDir, err)
		}
	}

	scheduleSeeds := d.Config.ScheduleSeeds()

	for _, seedPath := range d.Config.Seeds {
		seed, loadErr := wire.LoadSeed(seedPath)
		if loadErr != nil {
			d.Logger.Warnf("skipping seed %s: %v", seedPath, loadErr)
			errored++
			continue
		}

		for _, policy := range d.Config.Policies {
			for _, bound := range d.Config.Bounds {
				for _, fault := range d.Config.Faults {
					for _, scheduleSeed := range scheduleSeeds {
						select {
						case <-ctx.Done():
							return completed, errored, ctx.Err()
						default:
						}

						runCfg := engine.RunConfig{
							Seed:             *seed,
							ScheduleSeed:     scheduleSeed,
							Policy:           policy,
							BoundK:           bound,
							FaultMode:        fault,
							SubmitWindow:     d.SubmitWindow,
							SchedulerVersion: d.Config.SchedulerVersion,
							GitCommit:        d.Config.GitCommit,
							DumpSchedule:     d.DumpSchedules,
						}

						d.Metrics.RecordRunStart()
						if runErr := d.runOne(runCfg); runErr != nil {
							d.Logger.Warnf("run %s failed: %v", runCfg.RunID(), runErr)
							d.Metrics.RecordRunOutcome(false)
							errored++
							continue
						}
						d.Metrics.RecordRunOutcome(true)
						completed++

						if (completed+errored)%constants.MatrixProgressInterval == 0 {
							d.Logger.Infof("completed %d/%d runs", completed+errored, d.Config.TotalRuns())
						}
					}
				}
			}
		}
	}

	return completed, errored, nil
}

func (d *Driver) runOne(cfg engine.RunConfig) error {
	result, err := engine.New(cfg).Run(context.Background())
	if err != nil {
		return err
	}

	d.Metrics.CommandsSubmitted.Add(uint64(result.CommandsSubmitted))
	d.Metrics.CommandsCompleted.Add(uint64(result.CommandsCompleted))
	if result.FaultsInjected > 0 {
		d.Metrics.RecordFault(result.HadReset)
	}

	logPath := filepath.Join(d.OutDir, result.RunID+".log")
	logFile, err := os.Create(logPath)
	if err != nil {
		return oracle.NewIOError("create log file", logPath, err)
	}
	defer logFile.Close()
	if err := result.EventLog.Flush(logFile); err != nil {
		return oracle.NewIOError("write log file", logPath, err)
	}

	if d.DumpSchedules && result.ScheduleRecord != nil {
		schedPath := filepath.Join(d.OutDir, "schedules", result.RunID+".json")
		schedFile, err := os.Create(schedPath)
		if err != nil {
			return oracle.NewIOError("create schedule file", schedPath, err)
		}
		defer schedFile.Close()
		if err := result.ScheduleRecord.Flush(schedFile); err != nil {
			return oracle.NewIOError("write schedule file", schedPath, err)
		}
	}

	return nil
}

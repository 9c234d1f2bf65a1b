// Package engine drives one run: it interleaves submit/complete decisions
// over a Model and Scheduler, injects faults, and emits the canonical
// event log and optional schedule record. Structured the way the
// teacher's internal/queue.Runner is structured — a Config struct fed to
// a constructor, an explicit Run(ctx) entry point, a state machine
// advanced step-by-step rather than event-driven — but the loop body is
// the NVMe-lite interleaver instead of an io_uring completion loop.
package engine

import (
	"context"
	"fmt"

	oracle "github.com/nvme-lite/oracle"
	"github.com/nvme-lite/oracle/internal/constants"
	"github.com/nvme-lite/oracle/internal/logging"
	"github.com/nvme-lite/oracle/internal/scheduler"
)

// FaultMode selects whether and how a run injects a fault partway
// through.
type FaultMode int

const (
	FaultNone FaultMode = iota
	FaultTimeout
	FaultReset
)

func (f FaultMode) String() string {
	switch f {
	case FaultNone:
		return "NONE"
	case FaultTimeout:
		return "TIMEOUT"
	case FaultReset:
		return "RESET"
	default:
		return fmt.Sprintf("FaultMode(%d)", int(f))
	}
}

// ParseFaultMode parses the CLI/config spelling of a fault mode.
func ParseFaultMode(s string) (FaultMode, error) {
	switch s {
	case "NONE":
		return FaultNone, nil
	case "TIMEOUT":
		return FaultTimeout, nil
	case "RESET":
		return FaultReset, nil
	default:
		return 0, fmt.Errorf("unknown fault mode: %q", s)
	}
}

// SubmitWindow is the maximum allowed pending-set size, or unbounded.
type SubmitWindow struct {
	limit    uint64
	infinite bool
}

// FiniteWindow returns a bounded submit window.
func FiniteWindow(limit uint64) SubmitWindow { return SubmitWindow{limit: limit} }

// InfiniteWindow returns an unbounded submit window.
func InfiniteWindow() SubmitWindow { return SubmitWindow{infinite: true} }

// ParseSubmitWindow parses "inf" or a decimal integer.
func ParseSubmitWindow(s string) (SubmitWindow, error) {
	if s == "inf" {
		return InfiniteWindow(), nil
	}
	var v uint64
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return SubmitWindow{}, fmt.Errorf("invalid submit window %q: %w", s, err)
	}
	return FiniteWindow(v), nil
}

func (w SubmitWindow) allows(pending int) bool {
	if w.infinite {
		return true
	}
	return uint64(pending) < w.limit
}

func (w SubmitWindow) String() string {
	if w.infinite {
		return "inf"
	}
	return fmt.Sprintf("%d", w.limit)
}

// RunConfig is every externally-supplied parameter of one run.
type RunConfig struct {
	Seed             oracle.Seed
	ScheduleSeed     uint64
	Policy           scheduler.Policy
	BoundK           scheduler.BoundK
	FaultMode        FaultMode
	SubmitWindow     SubmitWindow
	SchedulerVersion string
	GitCommit        string
	DumpSchedule     bool
}

// RunID returns "{seed_id}_{policy}_{bound_k}_{schedule_seed}_{fault_mode}",
// using the same spellings the event log uses.
func (c RunConfig) RunID() string {
	return fmt.Sprintf("%s_%s_%s_%d_%s", c.Seed.SeedID, c.Policy, c.BoundK, c.ScheduleSeed, c.FaultMode)
}

// RunResult is everything produced by one run.
type RunResult struct {
	RunID          string
	EventLog       *logging.EventLog
	ScheduleRecord *logging.ScheduleRecord // nil unless DumpSchedule
	PendingLeft    uint32
	PendingPeak    uint32
	HadReset       bool
	CommandsLost   uint32
	CommandsSubmitted uint32
	CommandsCompleted uint32
	FaultsInjected    uint32
}

// Engine owns exactly one run's worth of Model, Scheduler, and logs.
type Engine struct {
	cfg RunConfig
}

// New constructs an Engine for one run. A fresh Model and Scheduler are
// created inside Run so nothing — including the PRNG state — leaks
// between runs in a matrix.
func New(cfg RunConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Run executes the normative algorithm of §4.6: submit/complete
// interleaving via a shared PRNG coin flip, submit-window bound, BATCHED
// burst semantics, and TIMEOUT/RESET fault injection at
// fault_step = n_cmds/2. ctx is checked once, before the loop starts: an
// already-cancelled ctx returns its error and no run happens. The loop
// itself never consults ctx — it is bounded by n_cmds plus fault exit,
// per the single-threaded, fully synchronous concurrency model.
func (e *Engine) Run(ctx context.Context) (*RunResult, error) {
	cfg := e.cfg
	nCmds := len(cfg.Seed.Commands)

	model := oracle.NewModel()
	sched := scheduler.New(cfg.Policy, cfg.BoundK, cfg.ScheduleSeed)
	eventLog := logging.NewEventLog()

	var scheduleRecord *logging.ScheduleRecord
	if cfg.DumpSchedule {
		scheduleRecord = logging.NewScheduleRecord(cfg.Seed.SeedID, cfg.ScheduleSeed, cfg.Policy.String(), cfg.BoundK.String(), cfg.FaultMode.String())
	}

	runID := cfg.RunID()
	eventLog.RunHeader(runID, cfg.Seed.SeedID, cfg.ScheduleSeed, cfg.Policy.String(), cfg.BoundK.String(), cfg.FaultMode.String(), nCmds, cfg.SubmitWindow.String(), cfg.SchedulerVersion, cfg.GitCommit)

	nextCmd := 0
	stepCount := 0
	faultInjected := false
	stopSubmits := false
	batchRemaining := 0
	localPeak := uint32(0)
	var commandsSubmitted, commandsCompleted, faultsInjected uint32

	var faultStep int
	hasFaultStep := cfg.FaultMode != FaultNone
	if hasFaultStep {
		faultStep = nCmds / 2
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

loop:
	for {
		pending := model.PendingCount()
		submitOK := cfg.SubmitWindow.allows(pending) && nextCmd < nCmds && !stopSubmits
		completeOK := pending > 0
		if !submitOK && !completeOK {
			break
		}

		doComplete := false
		switch {
		case cfg.Policy == scheduler.BATCHED && batchRemaining > 0:
			doComplete = true
		case submitOK && completeOK:
			doComplete = sched.NextBit() == 1
		case completeOK:
			doComplete = true
		default:
			doComplete = false
		}

		if doComplete {
			if hasFaultStep && stepCount >= faultStep && !faultInjected {
				switch cfg.FaultMode {
				case FaultTimeout:
					canonical := model.PendingCanonical()
					oldest := canonical[0]
					status := oracle.StatusTimeout
					result, _ := model.Complete(oldest, &status)
					eventLog.Complete(result.CmdID, "TIMEOUT", result.Output)
					commandsCompleted++
					if scheduleRecord != nil {
						scheduleRecord.AddFault("TIMEOUT", stepCount)
					}
					faultInjected = true
					faultsInjected++
					stopSubmits = true
					stepCount++
					continue loop
				case FaultReset:
					pendingBefore := model.Reset()
					eventLog.Reset("INJECTED", pendingBefore)
					if scheduleRecord != nil {
						scheduleRecord.AddFault("RESET", stepCount)
					}
					faultInjected = true
					faultsInjected++
					break loop
				}
			}

			canonical := model.PendingCanonical()

			if cfg.Policy == scheduler.BATCHED && batchRemaining == 0 && len(canonical) > 0 {
				batchRemaining = constants.BatchSize
				if len(canonical) < batchRemaining {
					batchRemaining = len(canonical)
				}
			}

			decision, ok := sched.PickNext(canonical)
			if ok {
				result, _ := model.Complete(decision.CmdID, nil)
				eventLog.Complete(result.CmdID, result.Status.String(), result.Output)
				commandsCompleted++
				if scheduleRecord != nil {
					scheduleRecord.AddCompletePick(decision.PickIndex)
				}
				if cfg.Policy == scheduler.BATCHED && batchRemaining > 0 {
					batchRemaining--
				}
			}
			stepCount++
			continue
		}

		command := cfg.Seed.Commands[nextCmd]
		cmdID, isFence, fenceID := model.Submit(command)
		eventLog.Submit(cmdID, command.Kind.String())
		if isFence {
			eventLog.Fence(*fenceID)
		}
		nextCmd++
		commandsSubmitted++
		if current := uint32(model.PendingCount()); current > localPeak {
			localPeak = current
		}
	}

	pendingPeak := localPeak
	if model.PendingPeak() > pendingPeak {
		pendingPeak = model.PendingPeak()
	}

	eventLog.RunEnd(uint32(model.PendingCount()), pendingPeak)

	return &RunResult{
		RunID:             runID,
		EventLog:          eventLog,
		ScheduleRecord:    scheduleRecord,
		PendingLeft:       uint32(model.PendingCount()),
		PendingPeak:       pendingPeak,
		HadReset:          model.HadReset(),
		CommandsLost:      model.CommandsLostToReset(),
		CommandsSubmitted: commandsSubmitted,
		CommandsCompleted: commandsCompleted,
		FaultsInjected:    faultsInjected,
	}, nil
}

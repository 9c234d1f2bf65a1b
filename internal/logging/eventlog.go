package logging

import (
	"fmt"
	"io"
	"strings"
)

// EventLog buffers the strict textual event stream in memory — the same
// "accumulate lines, flush once" discipline as Logger, but targeting a
// fixed wire grammar rather than free-form leveled messages. Line order
// is the decision order of the run that produced it.
type EventLog struct {
	lines []string
}

// NewEventLog returns an empty event log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

func (e *EventLog) append(line string) {
	e.lines = append(e.lines, line)
}

// RunHeader appends a RUN_HEADER line.
func (e *EventLog) RunHeader(runID, seedID string, scheduleSeed uint64, policy, boundK string, faultMode string, nCmds int, submitWindow, schedulerVersion, gitCommit string) {
	e.append(fmt.Sprintf(
		"RUN_HEADER(run_id=%s, seed_id=%s, schedule_seed=%d, policy=%s, bound_k=%s, fault_mode=%s, n_cmds=%d, submit_window=%s, scheduler_version=%s, git_commit=%s)",
		runID, seedID, scheduleSeed, policy, boundK, faultMode, nCmds, submitWindow, schedulerVersion, gitCommit,
	))
}

// Submit appends a SUBMIT line.
func (e *EventLog) Submit(cmdID uint32, cmdType string) {
	e.append(fmt.Sprintf("SUBMIT(cmd_id=%d, cmd_type=%s)", cmdID, cmdType))
}

// Fence appends a FENCE line. Callers must emit this immediately after
// the SUBMIT line for the same command — the ordering guarantee is
// enforced by the caller (internal/engine), not by EventLog itself.
func (e *EventLog) Fence(fenceID uint32) {
	e.append(fmt.Sprintf("FENCE(fence_id=%d)", fenceID))
}

// Complete appends a COMPLETE line.
func (e *EventLog) Complete(cmdID uint32, status string, out uint32) {
	e.append(fmt.Sprintf("COMPLETE(cmd_id=%d, status=%s, out=%d)", cmdID, status, out))
}

// Reset appends a RESET line.
func (e *EventLog) Reset(reason string, pendingBefore uint32) {
	e.append(fmt.Sprintf("RESET(reason=%s, pending_before=%d)", reason, pendingBefore))
}

// RunEnd appends a RUN_END line.
func (e *EventLog) RunEnd(pendingLeft, pendingPeak uint32) {
	e.append(fmt.Sprintf("RUN_END(pending_left=%d, pending_peak=%d)", pendingLeft, pendingPeak))
}

// Lines returns the buffered lines in emission order.
func (e *EventLog) Lines() []string {
	return e.lines
}

// Flush writes every buffered line, `\n`-terminated, to w in one call.
func (e *EventLog) Flush(w io.Writer) error {
	var b strings.Builder
	for _, line := range e.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

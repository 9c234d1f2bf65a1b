package oracle

import (
	"sort"

	"github.com/nvme-lite/oracle/internal/storage"
)

// Status is the terminal status of a completed command.
type Status int

const (
	StatusOK Status = iota
	StatusErr
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusErr:
		return "ERR"
	case StatusTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// PendingCommand is a submitted-but-not-yet-completed command, recorded
// in submission order.
type PendingCommand struct {
	CmdID   uint32
	Command Command
	FenceID *uint32 // set iff Command.Kind == CmdFence
}

// CommandResult is the outcome of completing a command. Output is zero
// except for READ, where it is the running hash over the addressed
// device-storage range.
type CommandResult struct {
	CmdID  uint32
	Status Status
	Output uint32
}

type fenceTracking struct {
	commandsBefore uint32
	completedBefore uint32
}

// Model owns storage, the submitted/pending/completed sets, and fence
// bookkeeping for exactly one run. Nothing about a Model persists
// across runs: the run engine constructs a fresh one per run.
type Model struct {
	hostStorage *storage.Region
	devStorage  *storage.Region

	submitted []PendingCommand
	pending   map[uint32]int // cmd_id -> index in submitted
	completed []CommandResult

	nextCmdID       uint32
	currentFenceID  uint32
	fenceTracking   map[uint32]*fenceTracking
	pendingPeak     uint32
	hadReset        bool
	commandsLostToReset uint32
}

// NewModel returns a fresh model: zeroed storage, empty sets, counters
// at zero.
func NewModel() *Model {
	return &Model{
		hostStorage:   storage.NewRegion(),
		devStorage:    storage.NewRegion(),
		pending:       make(map[uint32]int),
		fenceTracking: make(map[uint32]*fenceTracking),
	}
}

// Submit assigns the next cmd_id to command, records it in submission
// order, and inserts it into the pending set. If command is a FENCE it
// allocates the next fence_id. No command execution occurs here —
// storage is untouched until Complete.
func (m *Model) Submit(command Command) (cmdID uint32, isFence bool, fenceID *uint32) {
	cmdID = m.nextCmdID
	m.nextCmdID++

	isFence = command.Kind == CmdFence
	if isFence {
		fid := m.currentFenceID
		m.currentFenceID++
		m.fenceTracking[fid] = &fenceTracking{commandsBefore: cmdID}
		fenceID = &fid
	}

	idx := len(m.submitted)
	m.submitted = append(m.submitted, PendingCommand{CmdID: cmdID, Command: command, FenceID: fenceID})
	m.pending[cmdID] = idx

	if current := uint32(len(m.pending)); current > m.pendingPeak {
		m.pendingPeak = current
	}

	return cmdID, isFence, fenceID
}

// PendingCanonical returns the pending cmd_ids sorted ascending, which
// equals submission order since cmd_ids are assigned in submission
// order.
func (m *Model) PendingCanonical() []uint32 {
	ids := make([]uint32, 0, len(m.pending))
	for id := range m.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PendingCount returns the current size of the pending set.
func (m *Model) PendingCount() int {
	return len(m.pending)
}

// PendingPeak returns the maximum pending-set size ever observed by
// this model.
func (m *Model) PendingPeak() uint32 {
	return m.pendingPeak
}

// Complete removes cmd_id from the pending set and executes it,
// unless forceStatus is supplied, in which case the result is
// (forceStatus, 0) and no storage effect occurs. Returns false if
// cmd_id is not pending (unknown cmd_ids are silently ignored — callers
// are expected to pass only canonical-pending ids).
func (m *Model) Complete(cmdID uint32, forceStatus *Status) (CommandResult, bool) {
	idx, ok := m.pending[cmdID]
	if !ok {
		return CommandResult{}, false
	}
	delete(m.pending, cmdID)

	command := m.submitted[idx].Command

	var status Status
	var output uint32
	if forceStatus != nil {
		status, output = *forceStatus, 0
	} else {
		status, output = m.execute(command)
	}

	result := CommandResult{CmdID: cmdID, Status: status, Output: output}

	for _, ft := range m.fenceTracking {
		if cmdID < ft.commandsBefore {
			ft.completedBefore++
		}
	}

	m.completed = append(m.completed, result)
	return result, true
}

func (m *Model) execute(command Command) (Status, uint32) {
	switch command.Kind {
	case CmdWrite:
		if !m.hostStorage.InBounds(command.LBA, command.Len) {
			return StatusErr, 0
		}
		m.hostStorage.Fill(command.LBA, command.Len, command.Pattern)
		return StatusOK, 0

	case CmdRead:
		if !m.devStorage.InBounds(command.LBA, command.Len) {
			return StatusErr, 0
		}
		return StatusOK, m.devStorage.Hash(command.LBA, command.Len)

	case CmdFence:
		return StatusOK, 0

	case CmdWriteVisible:
		if !m.devStorage.InBounds(command.LBA, command.Len) {
			return StatusErr, 0
		}
		m.devStorage.CopyFrom(m.hostStorage, command.LBA, command.Len)
		return StatusOK, 0

	default:
		return StatusErr, 0
	}
}

// Reset clears the pending set (submitted, completed, counters and
// storage are preserved), marks the model as having been reset, and
// returns the number of commands that were pending.
func (m *Model) Reset() uint32 {
	pendingBefore := uint32(len(m.pending))
	m.commandsLostToReset = pendingBefore
	m.pending = make(map[uint32]int)
	m.hadReset = true
	return pendingBefore
}

// HadReset reports whether Reset has ever been called on this model.
func (m *Model) HadReset() bool {
	return m.hadReset
}

// CommandsLostToReset returns the pending-set size at the most recent
// Reset (zero if Reset was never called).
func (m *Model) CommandsLostToReset() uint32 {
	return m.commandsLostToReset
}

// SubmitOrder returns the cmd_ids in submission order.
func (m *Model) SubmitOrder() []uint32 {
	ids := make([]uint32, len(m.submitted))
	for i, p := range m.submitted {
		ids[i] = p.CmdID
	}
	return ids
}

// CompleteOrder returns the cmd_ids in completion order.
func (m *Model) CompleteOrder() []uint32 {
	ids := make([]uint32, len(m.completed))
	for i, r := range m.completed {
		ids[i] = r.CmdID
	}
	return ids
}

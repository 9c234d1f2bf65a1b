// Package oracle implements the NVMe-lite schedule-aware differential
// fuzzing oracle: a deterministic reference model over a simplified
// storage command queue (submit/complete with fences and faults).
package oracle

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var wireJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// CommandKind tags the variant carried by a Command.
type CommandKind int

const (
	CmdWrite CommandKind = iota
	CmdRead
	CmdFence
	CmdWriteVisible
)

// String returns the wire type name used by both the seed file format
// and the SUBMIT(cmd_type=...) log line.
func (k CommandKind) String() string {
	switch k {
	case CmdWrite:
		return "WRITE"
	case CmdRead:
		return "READ"
	case CmdFence:
		return "FENCE"
	case CmdWriteVisible:
		return "WRITE_VISIBLE"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

func parseCommandKind(s string) (CommandKind, error) {
	switch s {
	case "WRITE":
		return CmdWrite, nil
	case "READ":
		return CmdRead, nil
	case "FENCE":
		return CmdFence, nil
	case "WRITE_VISIBLE":
		return CmdWriteVisible, nil
	default:
		return 0, fmt.Errorf("unknown command type: %q", s)
	}
}

// Command is one entry in a Seed's workload: a tagged variant read-only
// for the duration of a run. Pattern is only meaningful for WRITE; LBA
// and Len are unused by FENCE.
type Command struct {
	Kind    CommandKind
	LBA     uint64
	Len     uint32
	Pattern uint32
}

// commandWire mirrors the JSON tagged-object shape: {"type": "...", ...
// payload fields}. Hand-rolled rather than relying on struct-tag
// reflection magic for the union discriminant, the way the teacher's
// internal/uapi/marshal.go hand-rolls wire encode/decode next to its
// constants file.
type commandWire struct {
	Type    string `json:"type"`
	LBA     uint64 `json:"lba,omitempty"`
	Len     uint32 `json:"len,omitempty"`
	Pattern uint32 `json:"pattern,omitempty"`
}

// MarshalJSON implements the tagged-union wire format.
func (c Command) MarshalJSON() ([]byte, error) {
	w := commandWire{Type: c.Kind.String()}
	switch c.Kind {
	case CmdWrite:
		w.LBA, w.Len, w.Pattern = c.LBA, c.Len, c.Pattern
	case CmdRead:
		w.LBA, w.Len = c.LBA, c.Len
	case CmdWriteVisible:
		w.LBA, w.Len = c.LBA, c.Len
	case CmdFence:
		// no payload
	}
	return wireJSON.Marshal(w)
}

// UnmarshalJSON implements the tagged-union wire format.
func (c *Command) UnmarshalJSON(data []byte) error {
	var w commandWire
	if err := wireJSON.Unmarshal(data, &w); err != nil {
		return err
	}
	kind, err := parseCommandKind(w.Type)
	if err != nil {
		return err
	}
	*c = Command{Kind: kind, LBA: w.LBA, Len: w.Len, Pattern: w.Pattern}
	return nil
}

// Seed is an ordered command list plus an identifier, immutable for the
// duration of any run that consumes it.
type Seed struct {
	SeedID   string    `json:"seed_id"`
	Commands []Command `json:"commands"`
}

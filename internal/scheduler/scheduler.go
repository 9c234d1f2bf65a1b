// Package scheduler decides which pending command completes next. A
// Scheduler owns its own PRNG stream: the submit/complete coin flip
// drawn by the run engine via NextBit and the RANDOM/BATCHED candidate
// picks drawn by PickNext share that one stream, in draw order, so the
// log a Scheduler produces is bit-reproducible from (policy, bound_k,
// schedule_seed) alone.
package scheduler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nvme-lite/oracle/internal/prng"
)

// Policy selects one candidate from the reorder window.
type Policy int

const (
	FIFO Policy = iota
	RANDOM
	ADVERSARIAL
	BATCHED
)

func (p Policy) String() string {
	switch p {
	case FIFO:
		return "FIFO"
	case RANDOM:
		return "RANDOM"
	case ADVERSARIAL:
		return "ADVERSARIAL"
	case BATCHED:
		return "BATCHED"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses a policy name, case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToUpper(s) {
	case "FIFO":
		return FIFO, nil
	case "RANDOM":
		return RANDOM, nil
	case "ADVERSARIAL":
		return ADVERSARIAL, nil
	case "BATCHED":
		return BATCHED, nil
	default:
		return 0, fmt.Errorf("unknown policy: %s", s)
	}
}

// BoundK is the reorder bound: either a finite non-negative index or
// infinity (no limit).
type BoundK struct {
	k        uint32
	infinite bool
}

// FiniteBound builds a finite reorder bound.
func FiniteBound(k uint32) BoundK {
	return BoundK{k: k}
}

// InfiniteBound is the unconstrained reorder bound.
func InfiniteBound() BoundK {
	return BoundK{infinite: true}
}

// ParseBoundK parses "inf" (case-insensitive) or a decimal non-negative
// integer.
func ParseBoundK(s string) (BoundK, error) {
	if strings.EqualFold(s, "inf") {
		return InfiniteBound(), nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return BoundK{}, fmt.Errorf("invalid bound_k: %s", s)
	}
	return FiniteBound(uint32(v)), nil
}

// IsInfinite reports whether the bound is unconstrained.
func (b BoundK) IsInfinite() bool {
	return b.infinite
}

// Value returns the finite bound, or false if infinite.
func (b BoundK) Value() (uint32, bool) {
	return b.k, !b.infinite
}

func (b BoundK) String() string {
	if b.infinite {
		return "inf"
	}
	return strconv.FormatUint(uint64(b.k), 10)
}

// Decision is one completion pick: the index within the candidate
// window (for schedule serialization) and the actual cmd_id chosen.
type Decision struct {
	PickIndex int
	CmdID     uint32
}

// Scheduler picks which pending command completes next, under a
// reorder bound and a policy, and exposes its PRNG bit to the run
// engine's submit/complete coin flip.
type Scheduler struct {
	policy Policy
	bound  BoundK
	rng    *prng.SplitMix64
}

// New builds a scheduler with its own PRNG seeded from scheduleSeed.
func New(policy Policy, bound BoundK, scheduleSeed uint64) *Scheduler {
	return &Scheduler{
		policy: policy,
		bound:  bound,
		rng:    prng.New(scheduleSeed),
	}
}

// NextBit exposes the scheduler's PRNG bit for the run engine's
// submit/complete coin flip. The coin flip and RANDOM/BATCHED picks
// share this one stream; callers must not draw from it for any other
// purpose.
func (s *Scheduler) NextBit() uint64 {
	return s.rng.NextBit()
}

// Candidates returns the reorder-bound-limited slice of a canonical
// (ascending cmd_id) pending list: P[0:min(k,len-1)+1], or all of P
// when the bound is infinite. An empty pending list yields an empty
// slice.
func (s *Scheduler) Candidates(pending []uint32) []uint32 {
	if len(pending) == 0 {
		return pending
	}
	maxIdx := len(pending) - 1
	if k, finite := s.bound.Value(); finite && int(k) < maxIdx {
		maxIdx = int(k)
	}
	return pending[:maxIdx+1]
}

// PickNext selects one candidate from the reorder window of a
// canonical pending list. Returns false if pending is empty. FIFO and
// ADVERSARIAL are pure index arithmetic and draw no PRNG bits; RANDOM
// and BATCHED each draw exactly one index via GenIndex.
func (s *Scheduler) PickNext(pending []uint32) (Decision, bool) {
	candidates := s.Candidates(pending)
	if len(candidates) == 0 {
		return Decision{}, false
	}

	var pickIndex int
	switch s.policy {
	case FIFO:
		pickIndex = 0
	case ADVERSARIAL:
		pickIndex = len(candidates) - 1
	case RANDOM, BATCHED:
		// BATCHED draws exactly like RANDOM; burst semantics are the
		// run engine's responsibility, not the scheduler's.
		pickIndex = s.rng.GenIndex(len(candidates))
	default:
		pickIndex = 0
	}

	return Decision{PickIndex: pickIndex, CmdID: candidates[pickIndex]}, true
}

// PolicyOf returns the scheduler's configured policy.
func (s *Scheduler) PolicyOf() Policy {
	return s.policy
}

// BoundOf returns the scheduler's configured reorder bound.
func (s *Scheduler) BoundOf() BoundK {
	return s.bound
}

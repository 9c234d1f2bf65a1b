// Package storage provides the fixed-size u32 storage regions backing
// a device model: host-side storage (written by WRITE) and device-side
// storage (written by WRITE_VISIBLE, read by READ). Adapted from the
// teacher's backend/mem.go ReadAt/WriteAt/bounds-check shape, with the
// per-shard sync.RWMutex locking removed — the run engine is
// single-threaded and cooperative, so sharded locking has nothing to
// protect here.
package storage

import "github.com/nvme-lite/oracle/internal/constants"

// Region is a fixed-length array of u32 words, initially zero.
type Region struct {
	words [constants.StorageSize]uint32
}

// NewRegion returns a zeroed storage region.
func NewRegion() *Region {
	return &Region{}
}

// Len reports the region's fixed length in words.
func (r *Region) Len() int {
	return len(r.words)
}

// InBounds reports whether [lba, lba+length) lies within the region,
// computed in uint64 so that a pathological lba+length cannot wrap a
// narrower integer before the comparison runs.
func (r *Region) InBounds(lba uint64, length uint32) bool {
	end := lba + uint64(length)
	if end < lba {
		// lba+length overflowed uint64, which happens only for an lba
		// within 2^32 of the uint64 maximum; treated as out-of-bounds
		// per the spec's "treat as ERR" resolution for pathological seeds.
		return false
	}
	return end <= uint64(r.Len())
}

// Fill sets words[lba:lba+length] to pattern. Caller must have checked
// InBounds.
func (r *Region) Fill(lba uint64, length uint32, pattern uint32) {
	for i := lba; i < lba+uint64(length); i++ {
		r.words[i] = pattern
	}
}

// Hash folds words[lba:lba+length] into the running hash
// hash = hash*31 + word, with uint32 wraparound. Caller must have
// checked InBounds.
func (r *Region) Hash(lba uint64, length uint32) uint32 {
	var hash uint32
	for i := lba; i < lba+uint64(length); i++ {
		hash = hash*31 + r.words[i]
	}
	return hash
}

// CopyFrom copies src.words[lba:lba+length] into r.words[lba:lba+length].
// Caller must have checked InBounds on both regions (they share a
// fixed length, so one check suffices).
func (r *Region) CopyFrom(src *Region, lba uint64, length uint32) {
	for i := lba; i < lba+uint64(length); i++ {
		r.words[i] = src.words[i]
	}
}

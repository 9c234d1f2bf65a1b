// Package wire loads and saves the oracle's on-disk JSON artifacts:
// seed files (the command workload) and, via the caller, whatever other
// structures the logging package serializes. Kept separate from the
// root package's Command/Seed type+marshal definitions the way the
// teacher keeps internal/uapi/marshal.go (wire encode/decode) apart
// from the public types that ride over the wire.
package wire

import (
	"os"

	jsoniter "github.com/json-iterator/go"

	oracle "github.com/nvme-lite/oracle"
)

var seedJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// LoadSeed reads and parses a seed file from path. A missing/unreadable
// file is an I/O error; malformed JSON is an input error. The matrix
// driver skips and counts a seed on either kind alike.
func LoadSeed(path string) (*oracle.Seed, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, oracle.NewIOError("read seed file", path, err)
	}
	var seed oracle.Seed
	if err := seedJSON.Unmarshal(content, &seed); err != nil {
		return nil, oracle.NewInputError("parse seed file", path, err)
	}
	return &seed, nil
}

// SaveSeed writes seed to path as JSON, for tests and tooling that
// generate synthetic workloads.
func SaveSeed(path string, seed *oracle.Seed) error {
	data, err := seedJSON.MarshalIndent(seed, "", "  ")
	if err != nil {
		return oracle.NewInputError("marshal seed", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return oracle.NewIOError("write seed file", path, err)
	}
	return nil
}

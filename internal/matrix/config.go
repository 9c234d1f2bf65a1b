// Package matrix reconstructs the experiment-matrix driver scoped out of
// the core by spec.md §1 but named as an external interface by §6:
// loading a YAML experiment config, expanding it into the full
// seed × policy × bound × fault × schedule_seed cross-product, and
// running each combination through internal/engine, writing one log (and
// optional schedule) file per run.
package matrix

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	oracle "github.com/nvme-lite/oracle"
	"github.com/nvme-lite/oracle/internal/engine"
	"github.com/nvme-lite/oracle/internal/scheduler"
)

// RawConfig is the literal YAML shape.
type RawConfig struct {
	Seeds            []string `yaml:"seeds"`
	Policies         []string `yaml:"policies"`
	Bounds           []string `yaml:"bounds"`
	Faults           []string `yaml:"faults"`
	ScheduleSeeds    string   `yaml:"schedule_seeds"`
	SchedulerVersion string   `yaml:"scheduler_version"`
	GitCommit        string   `yaml:"git_commit"`
}

// ExperimentConfig is a RawConfig after parsing and expansion.
type ExperimentConfig struct {
	Seeds              []string
	Policies           []scheduler.Policy
	Bounds             []scheduler.BoundK
	Faults             []engine.FaultMode
	ScheduleSeedStart  uint64
	ScheduleSeedEnd    uint64
	SchedulerVersion   string
	GitCommit          string
}

// LoadConfig reads and parses path into an ExperimentConfig, resolving
// "auto" git_commit via a one-shot `git rev-parse HEAD` shell-out.
func LoadConfig(path string) (*ExperimentConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, oracle.NewIOError("read config", path, err)
	}

	var raw RawConfig
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, oracle.NewInputError("parse config", path, err)
	}

	policies := make([]scheduler.Policy, len(raw.Policies))
	for i, s := range raw.Policies {
		p, err := scheduler.ParsePolicy(s)
		if err != nil {
			return nil, oracle.NewInputError("invalid policy", path, err)
		}
		policies[i] = p
	}

	bounds := make([]scheduler.BoundK, len(raw.Bounds))
	for i, s := range raw.Bounds {
		b, err := scheduler.ParseBoundK(s)
		if err != nil {
			return nil, oracle.NewInputError("invalid bound", path, err)
		}
		bounds[i] = b
	}

	faults := make([]engine.FaultMode, len(raw.Faults))
	for i, s := range raw.Faults {
		f, err := engine.ParseFaultMode(s)
		if err != nil {
			return nil, oracle.NewInputError("invalid fault mode", path, err)
		}
		faults[i] = f
	}

	start, end, err := ParseRange(raw.ScheduleSeeds)
	if err != nil {
		return nil, oracle.NewInputError("invalid schedule_seeds", path, err)
	}

	gitCommit := raw.GitCommit
	if gitCommit == "auto" {
		gitCommit = discoverGitCommit()
	}

	return &ExperimentConfig{
		Seeds:             raw.Seeds,
		Policies:          policies,
		Bounds:            bounds,
		Faults:            faults,
		ScheduleSeedStart: start,
		ScheduleSeedEnd:   end,
		SchedulerVersion:  raw.SchedulerVersion,
		GitCommit:         gitCommit,
	}, nil
}

// ParseRange parses "A-B" (inclusive) or "N" (a single value repeated).
func ParseRange(s string) (start, end uint64, err error) {
	if before, after, found := strings.Cut(s, "-"); found {
		start, err = strconv.ParseUint(before, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range start %q: %w", before, err)
		}
		end, err = strconv.ParseUint(after, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range end %q: %w", after, err)
		}
		return start, end, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid single value %q: %w", s, err)
	}
	return v, v, nil
}

// discoverGitCommit runs `git rev-parse HEAD`, trimmed; any failure
// yields an empty string rather than aborting config load. This is a
// one-shot shell-out with no parsing complexity, left on os/exec rather
// than a git-plumbing library — nothing else in the dependency surface
// needs one.
func discoverGitCommit() string {
	out, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// ScheduleSeeds returns every schedule seed in [start, end] inclusive.
func (c *ExperimentConfig) ScheduleSeeds() []uint64 {
	seeds := make([]uint64, 0, c.ScheduleSeedEnd-c.ScheduleSeedStart+1)
	for s := c.ScheduleSeedStart; s <= c.ScheduleSeedEnd; s++ {
		seeds = append(seeds, s)
	}
	return seeds
}

// TotalRuns reports the size of the full cross-product.
func (c *ExperimentConfig) TotalRuns() int {
	nSchedules := int(c.ScheduleSeedEnd-c.ScheduleSeedStart) + 1
	return len(c.Seeds) * len(c.Policies) * len(c.Bounds) * len(c.Faults) * nSchedules
}

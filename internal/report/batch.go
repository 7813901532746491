package report

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"city-group-router/internal/judge"
)

// SeedRange is an inclusive range of generator seeds
type SeedRange struct {
	From uint64 `yaml:"from"`
	To   uint64 `yaml:"to"`
}

// Seeds lists the seeds in the range
func (r SeedRange) Seeds() []uint64 {
	if r.To < r.From {
		return nil
	}
	out := make([]uint64, 0, r.To-r.From+1)
	for s := r.From; s <= r.To; s++ {
		out = append(out, s)
	}
	return out
}

// BatchConfig describes a tester batch
type BatchConfig struct {
	Solver      []string        `yaml:"solver"`
	Seeds       SeedRange       `yaml:"seeds"`
	Params      judge.GenParams `yaml:"params"`
	GroundTruth *bool           `yaml:"ground_truth"`
	Record      bool            `yaml:"record"`
	Timeout     time.Duration   `yaml:"timeout"`
	Report      string          `yaml:"report"`
	// CasesDir, when set, receives every generated case as <seed>.txt.
	CasesDir string `yaml:"cases_dir"`
}

// DefaultBatch is a small batch against the default generator settings
func DefaultBatch() *BatchConfig {
	gt := true
	return &BatchConfig{
		Seeds:       SeedRange{From: 0, To: 9},
		GroundTruth: &gt,
		Timeout:     10 * time.Second,
	}
}

// WantGroundTruth reports whether the ground-truth pass should run
func (c *BatchConfig) WantGroundTruth() bool {
	return c.GroundTruth == nil || *c.GroundTruth
}

// LoadBatch reads a batch file over the defaults
func LoadBatch(path string) (*BatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return ParseBatch(data)
}

// ParseBatch decodes a batch document over the defaults
func ParseBatch(data []byte) (*BatchConfig, error) {
	cfg := DefaultBatch()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	if cfg.Seeds.To < cfg.Seeds.From {
		return nil, fmt.Errorf("seed range %d..%d is empty", cfg.Seeds.From, cfg.Seeds.To)
	}
	return cfg, nil
}

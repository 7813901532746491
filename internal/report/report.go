package report

import (
	"io"
	"math"
	"time"

	"golang.org/x/text/language"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

var lang = language.English

// CaseResult is the outcome of one case, with and without rectangle noise
type CaseResult struct {
	Name             string        `yaml:"name" json:"name"`
	Seed             uint64        `yaml:"seed" json:"seed"`
	Cities           int           `yaml:"cities" json:"cities"`
	Groups           int           `yaml:"groups" json:"groups"`
	Score            int64         `yaml:"score" json:"score"`
	Queries          int           `yaml:"queries" json:"queries"`
	Failure          string        `yaml:"failure,omitempty" json:"failure,omitempty"`
	GroundTruth      int64         `yaml:"ground_truth_score" json:"ground_truth_score"`
	GroundTruthError string        `yaml:"ground_truth_failure,omitempty" json:"ground_truth_failure,omitempty"`
	Elapsed          time.Duration `yaml:"elapsed" json:"elapsed"`
}

// Summary aggregates a batch of case results
type Summary struct {
	Cases           int     `yaml:"cases"`
	Failures        int     `yaml:"failures"`
	Total           int64   `yaml:"total"`
	Mean            float64 `yaml:"mean"`
	StdDev          float64 `yaml:"std_dev"`
	Min             float64 `yaml:"min"`
	Max             float64 `yaml:"max"`
	GroundTruthMean float64 `yaml:"ground_truth_mean"`
	// Ratio is the mean score relative to the ground-truth mean.
	Ratio float64 `yaml:"ratio"`
}

// Report is what the tester writes at the end of a batch
type Report struct {
	Solver  []string     `yaml:"solver"`
	Summary Summary      `yaml:"summary"`
	Scores  []int64      `yaml:"scores"`
	Cases   []CaseResult `yaml:"cases"`
}

// Summarize computes batch statistics. Failed cases count as score 0.
func Summarize(results []CaseResult) Summary {
	s := Summary{Cases: len(results)}
	if len(results) == 0 {
		return s
	}

	scores := make([]float64, len(results))
	truth := make([]float64, len(results))
	for i, r := range results {
		if r.Failure != "" {
			s.Failures++
		}
		s.Total += r.Score
		scores[i] = float64(r.Score)
		truth[i] = float64(r.GroundTruth)
	}

	s.Mean = stat.Mean(scores, nil)
	if len(scores) > 1 {
		s.StdDev = stat.StdDev(scores, nil)
	}
	s.Min = floats.Min(scores)
	s.Max = floats.Max(scores)
	s.GroundTruthMean = stat.Mean(truth, nil)
	if s.GroundTruthMean > 0 {
		s.Ratio = s.Mean / s.GroundTruthMean
	}
	if math.IsNaN(s.StdDev) {
		s.StdDev = 0
	}
	return s
}

// New builds a report from the solver command and its case results
func New(solver []string, results []CaseResult) *Report {
	scores := make([]int64, len(results))
	for i, r := range results {
		scores[i] = r.Score
	}
	return &Report{
		Solver:  solver,
		Summary: Summarize(results),
		Scores:  scores,
		Cases:   results,
	}
}

// WriteYAML renders the report with innermost sequences in flow style
func WriteYAML(w io.Writer, rep *Report) error {
	var node yaml.Node
	if err := node.Encode(rep); err != nil {
		return err
	}
	flowLeafSequences(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// flowLeafSequences renders scalar-only sequences as [a, b, c]
func flowLeafSequences(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			flowLeafSequences(c)
		}
	case yaml.SequenceNode:
		leaf := true
		for _, c := range n.Content {
			if c != nil && c.Kind != yaml.ScalarNode {
				leaf = false
			}
			flowLeafSequences(c)
		}
		if leaf {
			n.Style = yaml.FlowStyle
		}
	}
}

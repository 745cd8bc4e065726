// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

// Package phase classifies a project's development maturity as
// prototype, mvp or production.
//
// Unlike framework detection, which accumulates independent evidence
// bins, the three phases are mutually exclusive: each has its own
// weighted signal table, the three scores are computed side by side, and
// the argmax wins. The resulting rigor level is advisory guidance only.
package phase

import (
	"context"
	"fmt"
	"os"
)

const (
	Prototype  = "prototype"
	Mvp        = "mvp"
	Production = "production"
)

// Result is the outcome of a phase classification.
type Result struct {
	Phase       string             `json:"phase"`
	Confidence  float64            `json:"confidence"`
	Rigor       int                `json:"rigor"`
	Signals     map[string]float64 `json:"signals"`
	Description string             `json:"description"`
}

// HistoryCounter reports version-control history facts. Implementations
// degrade to zero values when no history is available; the classifier
// never fails because a project is not a repository.
type HistoryCounter interface {
	CommitCount(ctx context.Context, repoPath string) (int, error)
	ContributorCount(ctx context.Context, repoPath string) (int, error)
}

// Weights holds the three per-phase signal weight tables. Like detection
// rule weights, these are empirically tuned configuration data.
type Weights struct {
	Prototype  map[string]float64
	Mvp        map[string]float64
	Production map[string]float64
}

// DefaultWeights returns the standard signal tables.
func DefaultWeights() Weights {
	return Weights{
		Prototype: map[string]float64{
			"todo_comments":      0.15,
			"placeholder_data":   0.10,
			"console_logging":    0.10,
			"no_tests":           0.20,
			"no_ci":              0.15,
			"no_env_config":      0.10,
			"small_commit_count": 0.10,
			"single_contributor": 0.10,
			"prerelease_version": 0.10,
		},
		Mvp: map[string]float64{
			"basic_tests":           0.15,
			"env_config":            0.15,
			"ci_config":             0.15,
			"readme":                0.10,
			"gitignore":             0.05,
			"moderate_commits":      0.10,
			"multiple_contributors": 0.10,
			"basic_error_handling":  0.10,
			"some_documentation":    0.10,
			"zero_major_version":    0.10,
		},
		Production: map[string]float64{
			"comprehensive_tests": 0.15,
			"monitoring":          0.15,
			"logging":             0.10,
			"security":            0.15,
			"documentation":       0.10,
			"ci_cd":               0.10,
			"many_commits":        0.10,
			"team_contributors":   0.05,
			"code_quality_tools":  0.05,
			"production_deps":     0.05,
			"stable_version":      0.10,
			"test_ratio":          0.05,
		},
	}
}

// Classifier scores a project directory against the three phase tables.
type Classifier struct {
	weights Weights
	history HistoryCounter
}

// NewClassifier builds a classifier over the given weights. history may
// be nil, in which case commit-derived signals stay at zero.
func NewClassifier(weights Weights, history HistoryCounter) *Classifier {
	return &Classifier{weights: weights, history: history}
}

// Classify inspects root and returns the best-matching phase. The only
// fatal failure is an invalid root path.
func (c *Classifier) Classify(ctx context.Context, root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("project path %s: %w", root, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("project path %s: not a directory", root)
	}

	signals := c.gatherSignals(ctx, root)

	scores := map[string]float64{
		Prototype:  weightedScore(signals, c.weights.Prototype),
		Mvp:        weightedScore(signals, c.weights.Mvp),
		Production: weightedScore(signals, c.weights.Production),
	}

	// Deterministic argmax: earlier phases win ties, so a project with no
	// signal at all classifies as prototype.
	phase := Prototype
	for _, candidate := range []string{Mvp, Production} {
		if scores[candidate] > scores[phase] {
			phase = candidate
		}
	}

	rigor, description := phaseGuidance(phase)

	return &Result{
		Phase:       phase,
		Confidence:  scores[phase],
		Rigor:       rigor,
		Signals:     signals,
		Description: description,
	}, nil
}

func weightedScore(signals map[string]float64, weights map[string]float64) float64 {
	total := 0.0
	for name, weight := range weights {
		total += signals[name] * weight
	}

	if total > 1.0 {
		return 1.0
	}

	return total
}

func phaseGuidance(phase string) (int, string) {
	switch phase {
	case Production:
		return 10, `Production phase - Focus on "Is it ready to ship?" with strict review`
	case Mvp:
		return 6, `MVP phase - Focus on "Is it secure?" with moderate review`
	default:
		return 3, `Prototype phase - Focus on "Does it work?" with light review`
	}
}

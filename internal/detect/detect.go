// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package detect

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sort"
)

// frameworkDetector probes one ecosystem's marker files under a project
// root. Probes are read-only; a probe that cannot parse a manifest
// reports fewer indicators rather than failing.
type frameworkDetector interface {
	Name() string
	DetectFrameworks(ctx context.Context, path string, entries []fs.DirEntry, rules Ruleset) ([]Candidate, error)
}

// Scanner runs all ecosystem probes against a project root and ranks the
// resulting candidates by accumulated confidence.
type Scanner struct {
	rules     Ruleset
	detectors []frameworkDetector
}

// NewScanner builds a scanner over the given scoring rules.
func NewScanner(rules Ruleset) *Scanner {
	return &Scanner{
		rules: rules,
		detectors: []frameworkDetector{
			&nodeJsDetector{},
			&pythonDetector{},
			&goDetector{},
			&flutterDetector{},
			&phpDetector{},
			&swiftDetector{},
		},
	}
}

// Detect scans root and returns the highest-confidence framework whose
// score crosses its threshold, or the unknown sentinel when nothing
// does. The only fatal failure is an invalid root path; individual probe
// errors degrade the result instead of aborting the scan.
func (s *Scanner) Detect(ctx context.Context, root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("project path %s: %w", root, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("project path %s: not a directory", root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading project directory: %w", err)
	}

	var candidates []Candidate
	for _, detector := range s.detectors {
		found, err := detector.DetectFrameworks(ctx, root, entries, s.rules)
		if err != nil {
			// Probe errors are quality degradations, not failures.
			log.Printf("detecting %s project: %v", detector.Name(), err)
			continue
		}

		candidates = append(candidates, found...)
	}

	result := s.rank(candidates)

	if mono, err := DetectWorkspaces(root); err != nil {
		log.Printf("detecting workspaces: %v", err)
	} else if mono.IsMonorepo {
		result.Monorepo = mono
	}

	return result, nil
}

// rank orders candidates by confidence, then declared priority, then
// name, and selects the first one at or above its threshold. Ordering
// never depends on probe iteration order.
func (s *Scanner) rank(candidates []Candidate) *Result {
	sort.SliceStable(candidates, func(i, j int) bool {
		ci, cj := candidates[i].Confidence(), candidates[j].Confidence()
		if ci != cj {
			return ci > cj
		}

		pi, pj := s.rules.Priority(candidates[i].Framework), s.rules.Priority(candidates[j].Framework)
		if pi != pj {
			return pi > pj
		}

		return candidates[i].Framework < candidates[j].Framework
	})

	ranked := make([]Ranking, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, Ranking{Framework: string(c.Framework), Confidence: c.Confidence()})
	}

	for _, c := range candidates {
		if c.Confidence() >= s.rules.Threshold(c.Framework) {
			return newResult(c, ranked)
		}
	}

	return &Result{
		Framework:         Unknown,
		Language:          "unknown",
		Confidence:        0,
		MatchedIndicators: []string{},
		Ranked:            ranked,
	}
}

func newResult(winner Candidate, ranked []Ranking) *Result {
	indicators := make([]string, 0, len(winner.Indicators))
	for _, ind := range winner.Indicators {
		indicators = append(indicators, ind.String())
	}

	return &Result{
		Framework:         winner.Framework,
		Version:           winner.Version,
		Language:          winner.Language,
		Confidence:        winner.Confidence(),
		MatchedIndicators: indicators,
		Tools:             winner.Tools,
		RecommendedGuides: guidesFor(winner),
		Structure:         winner.Structure,
		Ranked:            ranked,
	}
}

// guidesFor names the guide templates recommended for a detected
// framework. The list feeds the scaffolding step and is advisory only.
func guidesFor(c Candidate) []string {
	var guides []string

	switch c.Framework.family() {
	case NextJs:
		guides = []string{"nextjs-tester", "component-reviewer"}
		if c.Language == "typescript" {
			guides = append(guides, "type-checker")
		}
		if c.Structure["app_router"] {
			guides = append(guides, "app-router-specialist")
		}
	case React:
		guides = []string{"react-tester", "component-reviewer"}
		if c.Language == "typescript" {
			guides = append(guides, "type-checker")
		}
	case Vue:
		guides = []string{"vue-tester", "component-reviewer"}
	case FastApi:
		guides = []string{"fastapi-tester", "api-reviewer", "async-checker"}
	case Django:
		guides = []string{"django-tester", "model-reviewer"}
	case Flask:
		guides = []string{"flask-tester", "api-reviewer"}
	case PythonML:
		guides = []string{"python-tester", "model-reviewer"}
	case Go:
		guides = []string{"go-tester", "go-reviewer", "concurrency-checker"}
	case Flutter:
		guides = []string{"flutter-tester", "widget-reviewer"}
	case Php:
		guides = []string{"php-tester", "api-reviewer"}
	case IosSwift:
		guides = []string{"swift-tester", "view-reviewer"}
	}

	return guides
}

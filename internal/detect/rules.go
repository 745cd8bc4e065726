// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package detect

// FrameworkRule declares the scoring data for one framework family: the
// weight of each indicator it can match, the minimum confidence it must
// reach to win a detection, and its tie-break priority.
//
// Weights and thresholds are empirically tuned configuration data, not
// derived quantities. Treat them as such when editing: the edge-case
// tests pin several of the resulting scores.
type FrameworkRule struct {
	// Threshold is the minimum confidence for this framework to be
	// selected as the winner. Sparse ecosystems (vanilla PHP, bare Go
	// modules) carry lower thresholds than marker-rich ones.
	Threshold float64

	// Priority breaks ties between candidates with equal confidence.
	// Higher wins; equal priorities fall back to lexicographic framework
	// name, so ranking is deterministic regardless of scan order.
	Priority int

	// Weights maps indicator names to the evidence weight each match
	// contributes. All weights are non-negative.
	Weights map[string]float64
}

// Ruleset is the full, immutable scoring table handed to a Scanner at
// construction time. There is no package-level mutable state; callers
// that want different weights construct their own Ruleset.
type Ruleset struct {
	frameworks map[Framework]FrameworkRule
}

func (r Ruleset) Weight(f Framework, indicator string) float64 {
	rule, ok := r.frameworks[f.family()]
	if !ok {
		return 0
	}

	return rule.Weights[indicator]
}

func (r Ruleset) Threshold(f Framework) float64 {
	rule, ok := r.frameworks[f.family()]
	if !ok {
		return 1.0
	}

	return rule.Threshold
}

func (r Ruleset) Priority(f Framework) int {
	rule, ok := r.frameworks[f.family()]
	if !ok {
		return 0
	}

	return rule.Priority
}

// Indicator names shared between the ruleset and the ecosystem probes.
const (
	indPackageJson    = "package.json"
	indNextDependency = "next dependency"
	indNextConfig     = "next.config"
	indRouterDir      = "router directory"

	indReactDependency = "react dependency"
	indViteBuild       = "vite build tool"
	indReactScripts    = "react-scripts"

	indVueDependency = "vue dependency"

	indRequirementsEntry = "requirements entry"
	indSourceImport      = "source import"
	indManagePy          = "manage.py"
	indRequirementsTxt   = "requirements.txt"
	indMlDependency      = "ml dependency"
	indPythonSources     = "python sources"

	indGoMod        = "go.mod"
	indWebFramework = "web framework"

	indPubspecYaml       = "pubspec.yaml"
	indFlutterDependency = "flutter dependency"
	indLibMainDart       = "lib/main.dart"
	indPlatformDir       = "platform directory"

	indComposerJson   = "composer.json"
	indRequestRouting = "request routing"
	indHtaccess       = ".htaccess"
	indMultiplePhp    = "multiple php files"

	indXcodeproj     = "xcodeproj"
	indPackageSwift  = "Package.swift"
	indSwiftSources  = "swift sources"
	indSwiftUiImport = "swiftui import"
)

// DefaultRuleset returns the standard scoring table.
func DefaultRuleset() Ruleset {
	return Ruleset{frameworks: map[Framework]FrameworkRule{
		NextJs: {
			Threshold: 0.5,
			Priority:  90,
			Weights: map[string]float64{
				indPackageJson:    0.1,
				indNextDependency: 0.5,
				indNextConfig:     0.3,
				indRouterDir:      0.2,
			},
		},
		React: {
			Threshold: 0.5,
			Priority:  80,
			Weights: map[string]float64{
				indReactDependency: 0.6,
				indViteBuild:       0.2,
				indReactScripts:    0.2,
			},
		},
		Vue: {
			Threshold: 0.5,
			Priority:  80,
			Weights: map[string]float64{
				indVueDependency: 0.7,
				indViteBuild:     0.2,
			},
		},
		Django: {
			Threshold: 0.5,
			Priority:  87,
			Weights: map[string]float64{
				indManagePy:          0.8,
				indRequirementsEntry: 0.1,
			},
		},
		FastApi: {
			Threshold: 0.5,
			Priority:  86,
			Weights: map[string]float64{
				indRequirementsEntry: 0.6,
				indSourceImport:      0.3,
			},
		},
		Flask: {
			Threshold: 0.5,
			Priority:  84,
			Weights: map[string]float64{
				indRequirementsEntry: 0.7,
			},
		},
		PythonML: {
			Threshold: 0.5,
			Priority:  70,
			Weights: map[string]float64{
				indRequirementsTxt: 0.1,
				indMlDependency:    0.6,
				indPythonSources:   0.1,
			},
		},
		Go: {
			// A go.mod alone is decisive; the low threshold reflects how
			// few extra markers a Go module carries.
			Threshold: 0.3,
			Priority:  85,
			Weights: map[string]float64{
				indGoMod:        0.8,
				indWebFramework: 0.1,
			},
		},
		Flutter: {
			Threshold: 0.5,
			Priority:  85,
			Weights: map[string]float64{
				indPubspecYaml:       0.3,
				indFlutterDependency: 0.5,
				indLibMainDart:       0.1,
				indPlatformDir:       0.1,
			},
		},
		Php: {
			// Vanilla PHP has the sparsest marker set of all supported
			// ecosystems, hence the lowest threshold.
			Threshold: 0.45,
			Priority:  60,
			Weights: map[string]float64{
				indComposerJson:   0.3,
				indRequestRouting: 0.2,
				indHtaccess:       0.1,
				indMultiplePhp:    0.1,
			},
		},
		IosSwift: {
			Threshold: 0.5,
			Priority:  75,
			Weights: map[string]float64{
				indXcodeproj:     0.5,
				indPackageSwift:  0.3,
				indSwiftSources:  0.2,
				indSwiftUiImport: 0.1,
			},
		},
	}}
}

// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package detect

import (
	"sort"
	"strconv"
)

// Framework is a detectable framework or ecosystem label.
type Framework string

const (
	NextJs         Framework = "nextjs"
	React          Framework = "react"
	ViteReact      Framework = "vite-react"
	CreateReactApp Framework = "create-react-app"
	Vue            Framework = "vue"
	FastApi        Framework = "fastapi"
	Django         Framework = "django"
	Flask          Framework = "flask"
	PythonML       Framework = "python-ml"
	Go             Framework = "go"
	GoGin          Framework = "go-gin"
	GoEcho         Framework = "go-echo"
	GoFiber        Framework = "go-fiber"
	Flutter        Framework = "flutter"
	Php            Framework = "php"
	IosSwift       Framework = "ios-swift"

	// Unknown is the sentinel returned when no candidate crosses its
	// minimum confidence threshold. It is a first-class outcome, not an
	// error.
	Unknown Framework = "unknown"
)

func (f Framework) Display() string {
	switch f {
	case NextJs:
		return "Next.js"
	case React:
		return "React"
	case ViteReact:
		return "React (Vite)"
	case CreateReactApp:
		return "Create React App"
	case Vue:
		return "Vue.js"
	case FastApi:
		return "FastAPI"
	case Django:
		return "Django"
	case Flask:
		return "Flask"
	case PythonML:
		return "Python (ML)"
	case Go:
		return "Go"
	case GoGin:
		return "Go (Gin)"
	case GoEcho:
		return "Go (Echo)"
	case GoFiber:
		return "Go (Fiber)"
	case Flutter:
		return "Flutter"
	case Php:
		return "PHP"
	case IosSwift:
		return "iOS (Swift)"
	}

	return string(f)
}

// family maps variant labels onto the framework whose scoring rule they
// share. Variants accumulate evidence under their family's weights,
// threshold and priority.
func (f Framework) family() Framework {
	switch f {
	case ViteReact, CreateReactApp:
		return React
	case GoGin, GoEcho, GoFiber:
		return Go
	}

	return f
}

// Indicator is a single observed fact contributing evidence toward a
// framework guess. Indicators are ephemeral: created during a scan,
// folded into a confidence score, and rendered once for transparency.
type Indicator struct {
	Name   string
	Weight float64
	Source string
}

func (i Indicator) String() string {
	s := i.Name + ": +" + strconv.FormatFloat(i.Weight, 'g', -1, 64)
	if i.Source != "" {
		s += " (" + i.Source + ")"
	}

	return s
}

// Candidate accumulates weighted indicators for one framework. Multiple
// candidates can hold partial evidence at once; a monorepo with a Node
// and a Python workspace legitimately scores both.
type Candidate struct {
	Framework  Framework
	Language   string
	Version    string
	Indicators []Indicator
	Tools      map[string][]string
	Structure  map[string]bool
}

// matched records the named indicator using the weight declared for it in
// the ruleset. Unknown indicator names carry zero weight and are dropped.
func (c *Candidate) matched(rules Ruleset, name string, source string) {
	weight := rules.Weight(c.Framework, name)
	if weight <= 0 {
		return
	}

	c.Indicators = append(c.Indicators, Indicator{Name: name, Weight: weight, Source: source})
}

// Confidence is the sum of indicator weights, capped at 1.0. Weights are
// never negative, so confidence only grows as indicators match.
func (c *Candidate) Confidence() float64 {
	total := 0.0
	for _, ind := range c.Indicators {
		total += ind.Weight
	}

	if total > 1.0 {
		return 1.0
	}

	return total
}

func (c *Candidate) addTool(category string, name string) {
	if c.Tools == nil {
		c.Tools = map[string][]string{}
	}

	for _, existing := range c.Tools[category] {
		if existing == name {
			return
		}
	}

	c.Tools[category] = append(c.Tools[category], name)
	sort.Strings(c.Tools[category])
}

func (c *Candidate) setStructure(key string, value bool) {
	if c.Structure == nil {
		c.Structure = map[string]bool{}
	}

	c.Structure[key] = value
}

// Ranking is one row of the full ranked candidate list kept on a Result
// for transparency and logging.
type Ranking struct {
	Framework  string  `json:"framework"`
	Confidence float64 `json:"confidence"`
}

// Result is the outcome of a detection run.
type Result struct {
	Framework         Framework           `json:"framework"`
	Version           string              `json:"version,omitempty"`
	Language          string              `json:"language"`
	Confidence        float64             `json:"confidence"`
	MatchedIndicators []string            `json:"matched_indicators"`
	Tools             map[string][]string `json:"tools,omitempty"`
	RecommendedGuides []string            `json:"recommended_guides,omitempty"`
	Structure         map[string]bool     `json:"project_structure,omitempty"`
	Ranked            []Ranking           `json:"ranked"`
	Monorepo          *Monorepo           `json:"monorepo,omitempty"`
}

// IsUnknown reports whether the result is the unknown sentinel.
func (r *Result) IsUnknown() bool {
	return r.Framework == Unknown
}

// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

// Package scaffold writes agent guide files for a detected stack.
//
// Guides are rendered from embedded templates into the project's .agents
// directory. A generic template backs any guide name that has no
// dedicated template, so scaffolding never fails on an uncommon stack.
package scaffold

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/otiai10/copy"

	"github.com/stackscan/stackscan/internal/detect"
	"github.com/stackscan/stackscan/internal/phase"
)

//go:embed templates
var templatesFS embed.FS

const (
	agentsDirName = ".agents"
	guideFileName = "AGENTS_GUIDE.md"
)

// Mode controls how scaffolding treats existing files.
type Mode string

const (
	// ModeGenerate writes all guides, backing up an existing .agents
	// directory first.
	ModeGenerate Mode = "generate"
	// ModeUpdateOnly rewrites guides that already exist and adds nothing,
	// so no backup is taken.
	ModeUpdateOnly Mode = "update-only"
	// ModeMerge adds missing guides and leaves existing ones untouched.
	ModeMerge Mode = "merge"
	// ModeForce overwrites everything, including files the other modes
	// would prompt about.
	ModeForce Mode = "force"
)

// ParseMode validates a mode name from the command line.
func ParseMode(name string) (Mode, error) {
	switch Mode(name) {
	case ModeGenerate, ModeUpdateOnly, ModeMerge, ModeForce:
		return Mode(name), nil
	default:
		return "", fmt.Errorf("unsupported scaffold mode '%s'", name)
	}
}

// Summary reports what a scaffolding run changed.
type Summary struct {
	Written   []string `json:"written"`
	Skipped   []string `json:"skipped"`
	BackupDir string   `json:"backupDir,omitempty"`
	GuidePath string   `json:"guidePath"`
}

// Scaffolder renders guides into project directories.
type Scaffolder struct {
	now func() time.Time
}

func New() *Scaffolder {
	return &Scaffolder{now: time.Now}
}

// Generate writes the recommended guides for result into root/.agents and
// an AGENTS_GUIDE.md index at the project root. phaseResult may be nil
// when only detection ran.
func (s *Scaffolder) Generate(ctx context.Context, root string, result *detect.Result, phaseResult *phase.Result, mode Mode) (*Summary, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("project path %s: %w", root, err)
	}

	summary := &Summary{Written: []string{}, Skipped: []string{}}
	targetDir := filepath.Join(root, agentsDirName)

	guides := result.RecommendedGuides
	if len(guides) == 0 {
		guides = []string{"project-reviewer"}
	}

	// update-only leaves the tree shape untouched, so it skips the
	// backup every other mode takes before modifying existing guides.
	if info, err := os.Stat(targetDir); err == nil && info.IsDir() && mode != ModeUpdateOnly {
		backupDir := fmt.Sprintf("%s.backup.%s", targetDir, s.now().Format("20060102-150405"))
		if err := copy.Copy(targetDir, backupDir); err != nil {
			return nil, fmt.Errorf("backing up %s: %w", targetDir, err)
		}
		summary.BackupDir = backupDir
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", targetDir, err)
	}

	vars := templateVars(result, phaseResult)
	for _, guide := range guides {
		path := filepath.Join(targetDir, guide+".md")
		if !shouldWrite(path, mode) {
			summary.Skipped = append(summary.Skipped, path)
			continue
		}

		contents, err := renderGuide(guide, vars)
		if err != nil {
			return nil, err
		}

		if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
			return nil, fmt.Errorf("writing guide %s: %w", path, err)
		}
		summary.Written = append(summary.Written, path)
	}

	guidePath := filepath.Join(root, guideFileName)
	if shouldWrite(guidePath, mode) {
		contents, err := renderIndex(guides, vars)
		if err != nil {
			return nil, err
		}

		if err := os.WriteFile(guidePath, []byte(contents), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", guidePath, err)
		}
		summary.Written = append(summary.Written, guidePath)
	} else {
		summary.Skipped = append(summary.Skipped, guidePath)
	}
	summary.GuidePath = guidePath

	sort.Strings(summary.Written)
	sort.Strings(summary.Skipped)
	return summary, nil
}

func shouldWrite(path string, mode Mode) bool {
	_, err := os.Stat(path)
	exists := err == nil

	switch mode {
	case ModeUpdateOnly:
		return exists
	case ModeMerge:
		return !exists
	default:
		return true
	}
}

func templateVars(result *detect.Result, phaseResult *phase.Result) *strings.Replacer {
	version := result.Version
	if version == "" {
		version = "unknown"
	}

	language := result.Language
	if language == "" {
		language = "unknown"
	}

	phaseName := "unknown"
	rigor := "-"
	if phaseResult != nil {
		phaseName = phaseResult.Phase
		rigor = strconv.Itoa(phaseResult.Rigor)
	}

	return strings.NewReplacer(
		"{{FRAMEWORK}}", string(result.Framework),
		"{{FRAMEWORK_DISPLAY}}", result.Framework.Display(),
		"{{LANGUAGE}}", language,
		"{{VERSION}}", version,
		"{{CONFIDENCE}}", strconv.FormatFloat(result.Confidence, 'f', 2, 64),
		"{{PHASE}}", phaseName,
		"{{RIGOR}}", rigor,
	)
}

// renderGuide resolves the template for a guide name: an exact match
// first, then the guide's role suffix ("react-tester" -> tester.md),
// then the generic fallback.
func renderGuide(guide string, vars *strings.Replacer) (string, error) {
	candidates := []string{guide}
	if idx := strings.LastIndex(guide, "-"); idx >= 0 {
		candidates = append(candidates, guide[idx+1:])
	}
	candidates = append(candidates, "generic")

	var data []byte
	var err error
	for _, name := range candidates {
		data, err = templatesFS.ReadFile("templates/guides/" + name + ".md")
		if err == nil {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("reading guide template for %s: %w", guide, err)
	}

	return vars.Replace(strings.ReplaceAll(string(data), "{{GUIDE}}", guide)), nil
}

func renderIndex(guides []string, vars *strings.Replacer) (string, error) {
	data, err := templatesFS.ReadFile("templates/AGENTS_GUIDE.md")
	if err != nil {
		return "", fmt.Errorf("reading guide index template: %w", err)
	}

	var list strings.Builder
	for _, guide := range guides {
		fmt.Fprintf(&list, "- [%s](%s)\n", guide, filepath.ToSlash(filepath.Join(agentsDirName, guide+".md")))
	}

	contents := strings.ReplaceAll(string(data), "{{GUIDE_LIST}}", strings.TrimRight(list.String(), "\n"))
	return vars.Replace(contents), nil
}

// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package detect

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Workspace is a single package inside a monorepo.
type Workspace struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Manager string `json:"manager"`
}

// Monorepo describes a workspace-based project layout.
type Monorepo struct {
	IsMonorepo bool        `json:"is_monorepo"`
	Manager    string      `json:"manager,omitempty"`
	Workspaces []Workspace `json:"workspaces,omitempty"`
	RootPath   string      `json:"root_path"`
}

type pnpmWorkspaceFile struct {
	Packages []string `yaml:"packages"`
}

// DetectWorkspaces identifies monorepo configurations under root.
//
// The check order is an explicit priority list, not incidental: a
// dedicated workspace-manager marker (pnpm-workspace.yaml) outranks the
// generic workspaces field of package.json, which outranks Lerna and Nx.
func DetectWorkspaces(root string) (*Monorepo, error) {
	none := &Monorepo{IsMonorepo: false, RootPath: root}

	if fileExists(root, "pnpm-workspace.yaml") {
		contents, err := os.ReadFile(filepath.Join(root, "pnpm-workspace.yaml"))
		if err != nil {
			return nil, fmt.Errorf("reading pnpm-workspace.yaml: %w", err)
		}

		var spec pnpmWorkspaceFile
		if err := yaml.Unmarshal(contents, &spec); err != nil {
			log.Printf("malformed pnpm-workspace.yaml in %s", root)
			return none, nil
		}

		return workspacesFromPatterns(root, "pnpm", spec.Packages), nil
	}

	if fileExists(root, "package.json") {
		contents, err := os.ReadFile(filepath.Join(root, "package.json"))
		if err != nil {
			return nil, fmt.Errorf("reading package.json: %w", err)
		}

		if gjson.ValidBytes(contents) {
			if patterns := npmWorkspacePatterns(contents); patterns != nil {
				return workspacesFromPatterns(root, "npm", patterns), nil
			}
		}
	}

	if fileExists(root, "lerna.json") {
		contents, err := os.ReadFile(filepath.Join(root, "lerna.json"))
		if err != nil {
			return nil, fmt.Errorf("reading lerna.json: %w", err)
		}

		patterns := []string{"packages/*"}
		if gjson.ValidBytes(contents) {
			if declared := gjson.GetBytes(contents, "packages"); declared.IsArray() {
				patterns = patterns[:0]
				for _, p := range declared.Array() {
					patterns = append(patterns, p.String())
				}
			}
		}

		return workspacesFromPatterns(root, "lerna", patterns), nil
	}

	if fileExists(root, "nx.json") {
		// Nx defaults to apps/ and libs/ when no explicit layout is set.
		return workspacesFromPatterns(root, "nx", []string{"apps/*", "libs/*", "packages/*"}), nil
	}

	return none, nil
}

// npmWorkspacePatterns extracts workspace globs from a package.json
// workspaces field, which is either an array or {"packages": [...]}.
func npmWorkspacePatterns(packageJson []byte) []string {
	workspaces := gjson.GetBytes(packageJson, "workspaces")
	if !workspaces.Exists() {
		return nil
	}

	var declared gjson.Result
	switch {
	case workspaces.IsArray():
		declared = workspaces
	case workspaces.IsObject():
		declared = workspaces.Get("packages")
		if !declared.IsArray() {
			return nil
		}
	default:
		return nil
	}

	patterns := []string{}
	for _, p := range declared.Array() {
		patterns = append(patterns, p.String())
	}

	return patterns
}

// workspacesFromPatterns resolves workspace glob patterns against root.
// Only directories carrying a package.json become workspaces; the
// workspace name comes from that manifest, falling back to the directory
// name.
func workspacesFromPatterns(root string, manager string, patterns []string) *Monorepo {
	mono := &Monorepo{IsMonorepo: true, Manager: manager, RootPath: root}
	rootFs := os.DirFS(root)

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(rootFs, filepath.ToSlash(pattern))
		if err != nil {
			log.Printf("workspace pattern %q: %v", pattern, err)
			continue
		}

		for _, match := range matches {
			dir := filepath.Join(root, filepath.FromSlash(match))
			if !fileExists(dir, "package.json") {
				continue
			}

			name := filepath.Base(dir)
			if contents, err := os.ReadFile(filepath.Join(dir, "package.json")); err == nil && gjson.ValidBytes(contents) {
				if declared := gjson.GetBytes(contents, "name"); declared.Exists() {
					name = declared.String()
				}
			}

			mono.Workspaces = append(mono.Workspaces, Workspace{
				Name:    name,
				Path:    dir,
				Manager: manager,
			})
		}
	}

	sort.Slice(mono.Workspaces, func(i, j int) bool {
		return mono.Workspaces[i].Path < mono.Workspaces[j].Path
	})

	return mono
}

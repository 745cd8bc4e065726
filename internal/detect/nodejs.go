// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package detect

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// nodeJsDetector covers the package.json ecosystem: Next.js, React (and
// its Vite / Create React App variants) and Vue.
type nodeJsDetector struct {
}

func (nd *nodeJsDetector) Name() string {
	return "Node.js"
}

func (nd *nodeJsDetector) DetectFrameworks(
	ctx context.Context,
	path string,
	entries []fs.DirEntry,
	rules Ruleset,
) ([]Candidate, error) {
	var packageJson string
	for _, entry := range entries {
		if strings.ToLower(entry.Name()) == "package.json" {
			packageJson = entry.Name()
			break
		}
	}

	if packageJson == "" {
		return nil, nil
	}

	contents, err := os.ReadFile(filepath.Join(path, packageJson))
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(contents) {
		// Corrupt manifest: the indicator is unmatched and scanning
		// continues for other ecosystems.
		log.Printf("malformed %s in %s, skipping content checks", packageJson, path)
		return nil, nil
	}

	deps := map[string]string{}
	for _, section := range []string{"dependencies", "devDependencies"} {
		gjson.GetBytes(contents, section).ForEach(func(key, value gjson.Result) bool {
			deps[key.String()] = value.String()
			return true
		})
	}

	language := "javascript"
	if fileExists(path, "tsconfig.json") || countExtensions(entries, ".ts", ".tsx") > countExtensions(entries, ".js", ".jsx") {
		language = "typescript"
	}

	var candidates []Candidate

	if _, ok := deps["next"]; ok {
		candidates = append(candidates, nd.detectNextJs(path, deps, language, rules))
	} else if _, ok := deps["react"]; ok {
		candidates = append(candidates, nd.detectReact(path, deps, language, rules))
	}

	if _, ok := deps["vue"]; ok {
		candidates = append(candidates, nd.detectVue(deps, rules))
	}

	return candidates, nil
}

func (nd *nodeJsDetector) detectNextJs(path string, deps map[string]string, language string, rules Ruleset) Candidate {
	c := Candidate{Framework: NextJs, Language: language, Version: trimVersionRange(deps["next"])}

	c.matched(rules, indPackageJson, "package.json")
	c.matched(rules, indNextDependency, "package.json")

	for _, config := range []string{"next.config.js", "next.config.ts", "next.config.mjs"} {
		if fileExists(path, config) {
			c.matched(rules, indNextConfig, config)
			break
		}
	}

	hasAppDir := dirExists(path, "app")
	hasPagesDir := dirExists(path, "pages")
	if hasAppDir {
		c.matched(rules, indRouterDir, "app/")
	} else if hasPagesDir {
		c.matched(rules, indRouterDir, "pages/")
	}

	c.setStructure("app_router", hasAppDir)
	c.setStructure("pages_router", hasPagesDir)
	c.setStructure("typescript", language == "typescript")

	nodeTools(&c, deps)
	return c
}

func (nd *nodeJsDetector) detectReact(path string, deps map[string]string, language string, rules Ruleset) Candidate {
	framework := React
	if _, ok := deps["vite"]; ok {
		framework = ViteReact
	} else if _, ok := deps["react-scripts"]; ok {
		framework = CreateReactApp
	}

	c := Candidate{Framework: framework, Language: language, Version: trimVersionRange(deps["react"])}
	c.matched(rules, indReactDependency, "package.json")

	switch framework {
	case ViteReact:
		c.matched(rules, indViteBuild, "package.json")
	case CreateReactApp:
		c.matched(rules, indReactScripts, "package.json")
	}

	c.setStructure("typescript", language == "typescript")
	nodeTools(&c, deps)
	return c
}

func (nd *nodeJsDetector) detectVue(deps map[string]string, rules Ruleset) Candidate {
	c := Candidate{Framework: Vue, Language: "javascript", Version: trimVersionRange(deps["vue"])}
	c.matched(rules, indVueDependency, "package.json")

	if _, ok := deps["vite"]; ok {
		c.matched(rules, indViteBuild, "package.json")
	}

	nodeTools(&c, deps)
	return c
}

// nodeTools records auxiliary tooling visible in the dependency map.
func nodeTools(c *Candidate, deps map[string]string) {
	for dep := range deps {
		switch dep {
		case "vitest":
			c.addTool("testing", "vitest")
		case "jest":
			c.addTool("testing", "jest")
		case "@testing-library/react":
			c.addTool("testing", "testing-library")
		case "tailwindcss":
			c.addTool("styling", "tailwindcss")
		case "styled-components":
			c.addTool("styling", "styled-components")
		case "@emotion/react":
			c.addTool("styling", "emotion")
		case "zustand":
			c.addTool("state", "zustand")
		case "redux", "@reduxjs/toolkit":
			c.addTool("state", "redux")
		case "axios":
			c.addTool("api", "axios")
		case "swr":
			c.addTool("api", "swr")
		case "@tanstack/react-query":
			c.addTool("api", "react-query")
		}
	}
}

// trimVersionRange strips npm range operators from a version constraint,
// leaving the bare version ("^14.0.3" -> "14.0.3").
func trimVersionRange(version string) string {
	return strings.TrimLeft(version, "^~><= ")
}

// countExtensions tallies root-level files with any of the given
// extensions. Used to refine the language guess when no tsconfig pins it.
func countExtensions(entries []fs.DirEntry, extensions ...string) int {
	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		for _, candidate := range extensions {
			if ext == candidate {
				count++
				break
			}
		}
	}

	return count
}

func fileExists(dir string, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}

func dirExists(dir string, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && info.IsDir()
}

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
)

// goDetector covers Go modules, including the Gin / Echo / Fiber web
// framework variants.
type goDetector struct {
}

func (gd *goDetector) Name() string {
	return "Go"
}

func (gd *goDetector) DetectFrameworks(
	ctx context.Context,
	path string,
	entries []fs.DirEntry,
	rules Ruleset,
) ([]Candidate, error) {
	if !fileExists(path, "go.mod") {
		return nil, nil
	}

	framework := Go
	webFramework := ""
	var tools [][2]string

	contents, err := os.ReadFile(filepath.Join(path, "go.mod"))
	if err != nil {
		// Presence of go.mod still counts; content checks are skipped.
		log.Printf("reading go.mod in %s: %v", path, err)
	} else {
		text := string(contents)
		switch {
		case strings.Contains(text, "gin-gonic/gin"):
			framework, webFramework = GoGin, "gin"
		case strings.Contains(text, "labstack/echo"):
			framework, webFramework = GoEcho, "echo"
		case strings.Contains(text, "gofiber/fiber"):
			framework, webFramework = GoFiber, "fiber"
		}

		if strings.Contains(text, "gorm.io/gorm") {
			tools = append(tools, [2]string{"orm", "gorm"})
		}
		if strings.Contains(text, "jmoiron/sqlx") {
			tools = append(tools, [2]string{"orm", "sqlx"})
		}
		if strings.Contains(text, "stretchr/testify") {
			tools = append(tools, [2]string{"testing", "testify"})
		}
	}

	c := Candidate{Framework: framework, Language: "go", Version: goDirective(path)}
	c.matched(rules, indGoMod, "go.mod")
	if webFramework != "" {
		c.matched(rules, indWebFramework, webFramework)
	}
	for _, tool := range tools {
		c.addTool(tool[0], tool[1])
	}

	return []Candidate{c}, nil
}

// goDirective returns the `go` language version declared in go.mod, or
// empty when absent or unreadable.
func goDirective(path string) string {
	contents, err := os.ReadFile(filepath.Join(path, "go.mod"))
	if err != nil {
		return ""
	}

	for _, line := range strings.Split(string(contents), "\n") {
		line = strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(line, "go "); ok {
			return strings.TrimSpace(after)
		}
	}

	return ""
}

// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package detect

import (
	"bufio"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// phpDetector covers vanilla PHP projects: composer.json plus root-level
// .php files. Framework-managed PHP (Laravel, Symfony) carries its own
// marker surface and is intentionally not scored higher than vanilla.
type phpDetector struct {
}

func (pd *phpDetector) Name() string {
	return "PHP"
}

func (pd *phpDetector) DetectFrameworks(
	ctx context.Context,
	path string,
	entries []fs.DirEntry,
	rules Ruleset,
) ([]Candidate, error) {
	hasComposer := fileExists(path, "composer.json")

	var phpFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".php" {
			phpFiles = append(phpFiles, entry.Name())
		}
	}

	if !hasComposer && len(phpFiles) == 0 {
		return nil, nil
	}

	c := Candidate{Framework: Php, Language: "php"}

	if hasComposer {
		c.matched(rules, indComposerJson, "composer.json")

		if contents, err := os.ReadFile(filepath.Join(path, "composer.json")); err == nil && gjson.ValidBytes(contents) {
			if v := gjson.GetBytes(contents, `require.php`); v.Exists() {
				c.setStructure("php_constraint", true)
			}
			if gjson.GetBytes(contents, `require-dev.phpunit/phpunit`).Exists() {
				c.addTool("testing", "phpunit")
			}
		}
	}

	if source := phpRoutingFile(path, phpFiles); source != "" {
		c.matched(rules, indRequestRouting, source)
	}

	if fileExists(path, ".htaccess") {
		c.matched(rules, indHtaccess, ".htaccess")
	}

	if len(phpFiles) >= 2 {
		c.matched(rules, indMultiplePhp, "*.php")
	}

	return []Candidate{c}, nil
}

// phpRoutingFile returns the first root-level .php file that reads the
// request superglobals, the marker of a hand-rolled router or endpoint.
func phpRoutingFile(path string, phpFiles []string) string {
	for _, name := range phpFiles {
		file, err := os.Open(filepath.Join(path, name))
		if err != nil {
			continue
		}

		scanner := bufio.NewScanner(file)
		found := false
		for scanner.Scan() {
			line := scanner.Text()
			if strings.Contains(line, "$_SERVER['REQUEST_URI']") ||
				strings.Contains(line, `$_SERVER["REQUEST_URI"]`) ||
				strings.Contains(line, "$_SERVER['REQUEST_METHOD']") {
				found = true
				break
			}
		}
		_ = file.Close()

		if found {
			return name
		}
	}

	return ""
}

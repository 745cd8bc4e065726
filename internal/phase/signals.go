// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package phase

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// sourceExtensions bounds content scanning to code the pattern signals
// are meaningful for.
var sourceExtensions = map[string]struct{}{
	".py":    {},
	".js":    {},
	".ts":    {},
	".tsx":   {},
	".jsx":   {},
	".php":   {},
	".go":    {},
	".dart":  {},
	".swift": {},
}

var skipDirNames = map[string]struct{}{
	"node_modules": {},
	"vendor":       {},
	"venv":         {},
	".venv":        {},
	"build":        {},
	"dist":         {},
	"target":       {},
	"__pycache__":  {},
}

var testFilePatterns = []string{
	"**/*test*.py",
	"**/*test*.js",
	"**/*test*.ts",
	"**/*test*.tsx",
	"**/*spec*.js",
	"**/*spec*.ts",
	"**/*_test.go",
	"**/*_test.dart",
	"**/*Tests.swift",
}

func (c *Classifier) gatherSignals(ctx context.Context, root string) map[string]float64 {
	signals := map[string]float64{}

	testFiles := countTestFiles(root)
	sourceFiles := countSourceFiles(root)

	todo := countPatterns(root, []string{"todo", "fixme", "hack", "xxx"})
	placeholder := countPatterns(root, []string{"placeholder", "lorem ipsum", "dummy_", "mock_data"})
	consoleLogs := countPatterns(root, []string{"console.log", "print(", "var_dump", "dd("})
	errorHandling := countPatterns(root, []string{"try:", "catch", "except", "rescue"})
	logging := countPatterns(root, []string{"winston", "bunyan", "structlog", "loguru", "logging."})
	monitoring := countPatterns(root, []string{"sentry", "bugsnag", "rollbar", "newrelic", "datadog"})
	security := countPatterns(root, []string{"helmet", "csrf", "bcrypt", "jsonwebtoken", "ratelimit"})
	productionDeps := countPatterns(root, []string{"gunicorn", "uvicorn", "pm2", "supervisor"})

	commits, contributors := c.historyFacts(ctx, root)

	// Prototype signals.
	signals["todo_comments"] = ratio(todo, 20)
	signals["placeholder_data"] = ratio(placeholder, 10)
	signals["console_logging"] = ratio(consoleLogs, 30)
	signals["no_tests"] = boolSignal(testFiles == 0)
	signals["no_ci"] = boolSignal(!hasCiConfig(root))
	signals["no_env_config"] = boolSignal(!hasEnvConfig(root))
	signals["small_commit_count"] = boolSignal(commits < 20)
	signals["single_contributor"] = boolSignal(contributors <= 1)

	// MVP signals.
	signals["basic_tests"] = boolSignal(testFiles > 0)
	signals["env_config"] = boolSignal(hasEnvConfig(root))
	signals["ci_config"] = boolSignal(hasCiConfig(root))
	signals["readme"] = boolSignal(hasReadme(root))
	signals["gitignore"] = boolSignal(pathExists(filepath.Join(root, ".gitignore")))
	signals["moderate_commits"] = boolSignal(commits >= 20 && commits < 100)
	signals["multiple_contributors"] = boolSignal(contributors >= 2 && contributors < 5)
	signals["basic_error_handling"] = ratio(errorHandling, 10)
	signals["some_documentation"] = documentationSignal(root, false)

	// Production signals.
	signals["comprehensive_tests"] = boolSignal(testFiles > 20)
	signals["monitoring"] = boolSignal(monitoring > 0)
	signals["logging"] = ratio(logging, 5)
	signals["security"] = ratio(security, 3)
	signals["documentation"] = documentationSignal(root, true)
	signals["ci_cd"] = boolSignal(deploymentArtifacts(root) >= 2)
	signals["many_commits"] = boolSignal(commits >= 100)
	signals["team_contributors"] = boolSignal(contributors >= 5)
	signals["code_quality_tools"] = boolSignal(hasQualityTooling(root))
	signals["production_deps"] = boolSignal(productionDeps > 0)

	if sourceFiles > 0 {
		signals["test_ratio"] = clamp(2 * float64(testFiles) / float64(sourceFiles))
	} else {
		signals["test_ratio"] = 0
	}

	signals["prerelease_version"] = 0
	signals["zero_major_version"] = 0
	signals["stable_version"] = 0
	if version := manifestVersion(root); version != "" {
		if parsed, err := semver.NewVersion(version); err == nil {
			switch {
			case parsed.Major() >= 1:
				signals["stable_version"] = 1
			case parsed.Prerelease() != "":
				signals["prerelease_version"] = 1
			default:
				signals["zero_major_version"] = 1
			}
		}
	}

	return signals
}

func (c *Classifier) historyFacts(ctx context.Context, root string) (commits int, contributors int) {
	if c.history == nil {
		return 0, 0
	}

	commits, err := c.history.CommitCount(ctx, root)
	if err != nil {
		log.Printf("counting commits in %s: %v", root, err)
		commits = 0
	}

	contributors, err = c.history.ContributorCount(ctx, root)
	if err != nil {
		log.Printf("counting contributors in %s: %v", root, err)
		contributors = 0
	}

	return commits, contributors
}

// countPatterns scans source files under root and counts case-insensitive
// occurrences of any pattern. Scanning is capped per file by reading the
// file whole; projects are expected to be working trees, not archives.
func countPatterns(root string, patterns []string) int {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if _, skip := skipDirNames[d.Name()]; skip && path != root {
				return filepath.SkipDir
			}
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if _, ok := sourceExtensions[filepath.Ext(d.Name())]; !ok {
			return nil
		}

		contents, err := os.ReadFile(path)
		if err != nil {
			return nil
		}

		lowered := strings.ToLower(string(contents))
		for _, pattern := range patterns {
			count += strings.Count(lowered, pattern)
		}

		return nil
	})
	if err != nil {
		log.Printf("scanning %s: %v", root, err)
	}

	return count
}

func countSourceFiles(root string) int {
	count := 0
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if _, skip := skipDirNames[d.Name()]; skip && path != root {
				return filepath.SkipDir
			}
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if _, ok := sourceExtensions[filepath.Ext(d.Name())]; ok {
			count++
		}

		return nil
	})

	return count
}

func countTestFiles(root string) int {
	seen := map[string]struct{}{}
	fsys := os.DirFS(root)
	for _, pattern := range testFilePatterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			continue
		}

		for _, match := range matches {
			if insideSkippedDir(match) {
				continue
			}
			seen[match] = struct{}{}
		}
	}

	return len(seen)
}

func insideSkippedDir(relPath string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(relPath), "/") {
		if _, skip := skipDirNames[segment]; skip {
			return true
		}
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}

	return false
}

func hasCiConfig(root string) bool {
	candidates := []string{
		filepath.Join(root, ".github", "workflows"),
		filepath.Join(root, ".gitlab-ci.yml"),
		filepath.Join(root, ".circleci"),
		filepath.Join(root, "Jenkinsfile"),
		filepath.Join(root, "azure-pipelines.yml"),
	}
	for _, candidate := range candidates {
		if pathExists(candidate) {
			return true
		}
	}

	return false
}

func hasEnvConfig(root string) bool {
	candidates := []string{".env", ".env.example", ".env.sample", "config.py", "config.js", "config.ts"}
	for _, candidate := range candidates {
		if pathExists(filepath.Join(root, candidate)) {
			return true
		}
	}

	return pathExists(filepath.Join(root, "config"))
}

func hasReadme(root string) bool {
	matches, err := doublestar.Glob(os.DirFS(root), "README*")
	return err == nil && len(matches) > 0
}

// documentationSignal is 1 for a docs directory with more than five
// markdown files, 0.5 for any docs directory, 0 otherwise. When
// thorough is false any docs directory scores 1.
func documentationSignal(root string, thorough bool) float64 {
	docsDir := filepath.Join(root, "docs")
	info, err := os.Stat(docsDir)
	if err != nil || !info.IsDir() {
		return 0
	}

	if !thorough {
		return 1
	}

	matches, err := doublestar.Glob(os.DirFS(docsDir), "**/*.md")
	if err == nil && len(matches) > 5 {
		return 1
	}

	return 0.5
}

func deploymentArtifacts(root string) int {
	count := 0
	if pathExists(filepath.Join(root, ".github", "workflows")) {
		count++
	}
	if pathExists(filepath.Join(root, "Dockerfile")) {
		count++
	}
	for _, name := range []string{"deploy.yml", "deploy.yaml", "docker-compose.yml", "docker-compose.yaml"} {
		if pathExists(filepath.Join(root, name)) {
			count++
			break
		}
	}

	return count
}

func hasQualityTooling(root string) bool {
	names := []string{
		".eslintrc", ".eslintrc.js", ".eslintrc.json", "eslint.config.js",
		".prettierrc", ".prettierrc.json",
		".pylintrc", "setup.cfg", "ruff.toml",
		".golangci.yml", ".golangci.yaml",
		"analysis_options.yaml",
	}
	for _, name := range names {
		if pathExists(filepath.Join(root, name)) {
			return true
		}
	}

	if data, err := os.ReadFile(filepath.Join(root, "pyproject.toml")); err == nil {
		lowered := strings.ToLower(string(data))
		if strings.Contains(lowered, "[tool.ruff") || strings.Contains(lowered, "[tool.black") ||
			strings.Contains(lowered, "[tool.mypy") {
			return true
		}
	}

	return false
}

// manifestVersion returns the declared project version from whichever
// manifest is present, preferring package.json.
func manifestVersion(root string) string {
	if data, err := os.ReadFile(filepath.Join(root, "package.json")); err == nil && gjson.ValidBytes(data) {
		if version := gjson.GetBytes(data, "version").String(); version != "" {
			return version
		}
	}

	if data, err := os.ReadFile(filepath.Join(root, "pyproject.toml")); err == nil {
		var manifest struct {
			Project struct {
				Version string `toml:"version"`
			} `toml:"project"`
			Tool struct {
				Poetry struct {
					Version string `toml:"version"`
				} `toml:"poetry"`
			} `toml:"tool"`
		}
		if err := toml.Unmarshal(data, &manifest); err == nil {
			if manifest.Project.Version != "" {
				return manifest.Project.Version
			}
			if manifest.Tool.Poetry.Version != "" {
				return manifest.Tool.Poetry.Version
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join(root, "pubspec.yaml")); err == nil {
		var manifest struct {
			Version string `yaml:"version"`
		}
		if err := yaml.Unmarshal(data, &manifest); err == nil && manifest.Version != "" {
			return strings.SplitN(manifest.Version, "+", 2)[0]
		}
	}

	return ""
}

func ratio(count, full int) float64 {
	return clamp(float64(count) / float64(full))
}

func clamp(value float64) float64 {
	if value > 1 {
		return 1
	}
	if value < 0 {
		return 0
	}

	return value
}

func boolSignal(value bool) float64 {
	if value {
		return 1
	}

	return 0
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

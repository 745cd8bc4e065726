// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package detect

import (
	"bufio"
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// pythonDetector covers requirements.txt / pyproject.toml projects:
// FastAPI, Django, Flask and ML/CV codebases.
type pythonDetector struct {
}

func (pd *pythonDetector) Name() string {
	return "Python"
}

// pyProject is the subset of pyproject.toml the detector reads.
type pyProject struct {
	Project struct {
		Name         string   `toml:"name"`
		Version      string   `toml:"version"`
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
}

func (pd *pythonDetector) DetectFrameworks(
	ctx context.Context,
	path string,
	entries []fs.DirEntry,
	rules Ruleset,
) ([]Candidate, error) {
	hasRequirements := fileExists(path, "requirements.txt")
	hasPyProject := fileExists(path, "pyproject.toml")
	hasSetupPy := fileExists(path, "setup.py")
	hasManagePy := fileExists(path, "manage.py")

	if !hasRequirements && !hasPyProject && !hasSetupPy && !hasManagePy {
		return nil, nil
	}

	modules, version := pd.declaredModules(path, hasRequirements, hasPyProject)

	var candidates []Candidate

	if hasManagePy {
		c := Candidate{Framework: Django, Language: "python", Version: version}
		c.matched(rules, indManagePy, "manage.py")
		if _, ok := modules["django"]; ok {
			c.matched(rules, indRequirementsEntry, "requirements.txt")
		}
		pythonTools(&c, modules)
		candidates = append(candidates, c)
	}

	if _, ok := modules["fastapi"]; ok {
		c := Candidate{Framework: FastApi, Language: "python", Version: version}
		c.matched(rules, indRequirementsEntry, "requirements.txt")
		if source := findPythonImport(path, "fastapi"); source != "" {
			c.matched(rules, indSourceImport, source)
		}
		pythonTools(&c, modules)
		candidates = append(candidates, c)
	}

	if _, ok := modules["flask"]; ok {
		c := Candidate{Framework: Flask, Language: "python", Version: version}
		c.matched(rules, indRequirementsEntry, "requirements.txt")
		pythonTools(&c, modules)
		candidates = append(candidates, c)
	}

	if ml := mlModule(modules); ml != "" {
		c := Candidate{Framework: PythonML, Language: "python", Version: version}
		if hasRequirements {
			c.matched(rules, indRequirementsTxt, "requirements.txt")
		}
		c.matched(rules, indMlDependency, ml)
		if hasPythonSources(entries) {
			c.matched(rules, indPythonSources, "*.py")
		}
		c.addTool("ml", ml)
		pythonTools(&c, modules)
		candidates = append(candidates, c)
	}

	return candidates, nil
}

// declaredModules merges the lowercased module names declared in
// requirements.txt and pyproject.toml. Malformed files contribute
// nothing; the scan continues.
func (pd *pythonDetector) declaredModules(path string, hasRequirements, hasPyProject bool) (map[string]struct{}, string) {
	modules := map[string]struct{}{}
	version := ""

	if hasRequirements {
		file, err := os.Open(filepath.Join(path, "requirements.txt"))
		if err != nil {
			log.Printf("opening requirements.txt in %s: %v", path, err)
		} else {
			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				if module := requirementName(scanner.Text()); module != "" {
					modules[module] = struct{}{}
				}
			}
			if err := file.Close(); err != nil {
				log.Printf("closing requirements.txt: %v", err)
			}
		}
	}

	if hasPyProject {
		var project pyProject
		if _, err := toml.DecodeFile(filepath.Join(path, "pyproject.toml"), &project); err != nil {
			log.Printf("malformed pyproject.toml in %s, skipping content checks", path)
		} else {
			version = project.Project.Version
			for _, dep := range project.Project.Dependencies {
				if module := requirementName(dep); module != "" {
					modules[module] = struct{}{}
				}
			}
		}
	}

	return modules, version
}

// requirementName extracts the lowercased module name from a requirement
// specifier line. pip treats names case-insensitively (PEP 426).
func requirementName(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ""
	}

	for _, sep := range []string{"==", ">=", "<=", "~=", ">", "<", "[", ";", " "} {
		if idx := strings.Index(line, sep); idx >= 0 {
			line = line[:idx]
		}
	}

	return strings.ToLower(strings.TrimSpace(line))
}

func pythonTools(c *Candidate, modules map[string]struct{}) {
	for module := range modules {
		switch module {
		case "pytest":
			c.addTool("testing", "pytest")
		case "sqlalchemy", "flask-sqlalchemy":
			c.addTool("orm", "sqlalchemy")
		case "djangorestframework":
			c.addTool("api", "django-rest-framework")
		case "celery":
			c.addTool("workers", "celery")
		}
	}
}

// mlModule returns the first recognized machine-learning module, if any.
func mlModule(modules map[string]struct{}) string {
	for _, name := range []string{"torch", "tensorflow", "keras", "opencv-python", "scikit-learn"} {
		if _, ok := modules[name]; ok {
			return name
		}
	}

	return ""
}

func hasPythonSources(entries []fs.DirEntry) bool {
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".py" {
			return true
		}
	}

	return false
}

// findPythonImport scans up to maxProbeFiles python files near the root
// for an import of the given module, returning the matching file name.
func findPythonImport(root string, module string) string {
	const maxProbeFiles = 10
	probed := 0
	found := ""

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if shouldSkipDir(d.Name()) && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) != ".py" || probed >= maxProbeFiles {
			return nil
		}
		probed++

		file, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer file.Close()

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.Contains(line, "from "+module+" import") || strings.Contains(line, "import "+module) {
				found = filepath.Base(path)
				return filepath.SkipAll
			}
		}

		return nil
	})
	if err != nil {
		log.Printf("probing python sources in %s: %v", root, err)
	}

	return found
}

// Directories that never hold project sources worth probing.
func shouldSkipDir(name string) bool {
	switch name {
	case "node_modules", "vendor", "venv", ".venv", "build", "dist", "target", "__pycache__":
		return true
	}

	return strings.HasPrefix(name, ".")
}

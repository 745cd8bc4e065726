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

	"gopkg.in/yaml.v3"
)

// flutterDetector covers pubspec.yaml projects. The flutter marker can
// live either under `dependencies:` or as a top-level `flutter:` section;
// both locations are checked.
type flutterDetector struct {
}

func (fd *flutterDetector) Name() string {
	return "Flutter"
}

type pubspec struct {
	Name         string               `yaml:"name"`
	Version      string               `yaml:"version"`
	Dependencies map[string]yaml.Node `yaml:"dependencies"`
	DevDeps      map[string]yaml.Node `yaml:"dev_dependencies"`
	Flutter      *yaml.Node           `yaml:"flutter"`
}

func (fd *flutterDetector) DetectFrameworks(
	ctx context.Context,
	path string,
	entries []fs.DirEntry,
	rules Ruleset,
) ([]Candidate, error) {
	if !fileExists(path, "pubspec.yaml") {
		return nil, nil
	}

	c := Candidate{Framework: Flutter, Language: "dart"}
	c.matched(rules, indPubspecYaml, "pubspec.yaml")

	contents, err := os.ReadFile(filepath.Join(path, "pubspec.yaml"))
	if err != nil {
		return nil, err
	}

	var spec pubspec
	if err := yaml.Unmarshal(contents, &spec); err != nil {
		// Corrupt manifest: the existence indicator stands on its own,
		// all content indicators are unmatched.
		log.Printf("malformed pubspec.yaml in %s, skipping content checks", path)
		return []Candidate{c}, nil
	}

	c.Version = strings.SplitN(spec.Version, "+", 2)[0]

	_, inDeps := spec.Dependencies["flutter"]
	if inDeps || spec.Flutter != nil {
		c.matched(rules, indFlutterDependency, "pubspec.yaml")
	}

	if fileExists(filepath.Join(path, "lib"), "main.dart") {
		c.matched(rules, indLibMainDart, "lib/main.dart")
	}

	hasAndroid := dirExists(path, "android")
	hasIos := dirExists(path, "ios")
	if hasAndroid {
		c.matched(rules, indPlatformDir, "android/")
	} else if hasIos {
		c.matched(rules, indPlatformDir, "ios/")
	}

	c.setStructure("android", hasAndroid)
	c.setStructure("ios", hasIos)

	for dep := range spec.Dependencies {
		switch dep {
		case "flutter_riverpod", "riverpod":
			c.addTool("state", "riverpod")
		case "flutter_bloc", "bloc":
			c.addTool("state", "bloc")
		case "provider":
			c.addTool("state", "provider")
		}
	}
	for dep := range spec.DevDeps {
		if dep == "flutter_test" || dep == "test" {
			c.addTool("testing", "flutter_test")
		}
	}

	return []Candidate{c}, nil
}

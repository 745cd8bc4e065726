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
)

// swiftDetector covers iOS / Swift projects identified by an .xcodeproj
// bundle or a SwiftPM manifest.
type swiftDetector struct {
}

func (sd *swiftDetector) Name() string {
	return "Swift"
}

func (sd *swiftDetector) DetectFrameworks(
	ctx context.Context,
	path string,
	entries []fs.DirEntry,
	rules Ruleset,
) ([]Candidate, error) {
	var xcodeproj string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasSuffix(entry.Name(), ".xcodeproj") {
			xcodeproj = entry.Name()
			break
		}
	}

	hasPackageSwift := fileExists(path, "Package.swift")
	if xcodeproj == "" && !hasPackageSwift {
		return nil, nil
	}

	c := Candidate{Framework: IosSwift, Language: "swift"}

	if xcodeproj != "" {
		c.matched(rules, indXcodeproj, xcodeproj)
	}
	if hasPackageSwift {
		c.matched(rules, indPackageSwift, "Package.swift")
	}

	swiftSource, usesSwiftUi := probeSwiftSources(path)
	if swiftSource != "" {
		c.matched(rules, indSwiftSources, swiftSource)
	}
	if usesSwiftUi {
		c.matched(rules, indSwiftUiImport, swiftSource)
	}
	c.setStructure("swiftui", usesSwiftUi)

	return []Candidate{c}, nil
}

// probeSwiftSources finds the first .swift file near the root and reports
// whether any probed file imports SwiftUI.
func probeSwiftSources(root string) (string, bool) {
	const maxProbeFiles = 10
	probed := 0
	first := ""
	swiftUi := false

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

		if filepath.Ext(path) != ".swift" || probed >= maxProbeFiles {
			return nil
		}
		probed++

		if first == "" {
			first = filepath.Base(path)
		}

		file, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer file.Close()

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			if strings.HasPrefix(strings.TrimSpace(scanner.Text()), "import SwiftUI") {
				swiftUi = true
				return filepath.SkipAll
			}
		}

		return nil
	})
	if err != nil {
		log.Printf("probing swift sources in %s: %v", root, err)
	}

	return first, swiftUi
}

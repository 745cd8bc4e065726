// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package internal

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is the version string printed by `stackscan version`, and is the
// tool-version component of detection cache keys. It is of the form
// `<semver> (commit <hash>)` and is overridden at build time via ldflags.
var Version = "0.8.0-dev.0 (commit 0000000000000000000000000000000000000000)"

// VersionInfo includes the parsed version fields of Version.
type VersionInfo struct {
	Version *semver.Version
	Commit  string
}

// GetVersionNumber returns the semantic version portion of Version, or
// "unknown" when Version does not carry a parseable semver.
func GetVersionNumber() string {
	fields := strings.Fields(Version)
	if len(fields) == 0 {
		return "unknown"
	}

	if _, err := semver.NewVersion(fields[0]); err != nil {
		return "unknown"
	}

	return fields[0]
}

// GetVersionSpec returns the version in a form suitable for JSON output.
type VersionSpec struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func GetVersionSpec() VersionSpec {
	spec := VersionSpec{
		Version: GetVersionNumber(),
		Commit:  "unknown",
	}

	fields := strings.Fields(Version)
	if len(fields) == 3 && fields[1] == "(commit" {
		spec.Commit = strings.TrimSuffix(fields[2], ")")
	}

	return spec
}

// GetVersionInfo parses Version, failing when the embedded version string
// was not stamped correctly at build time.
func GetVersionInfo() (VersionInfo, error) {
	fields := strings.Fields(Version)
	if len(fields) != 3 {
		return VersionInfo{}, fmt.Errorf("unexpected version format: %s", Version)
	}

	ver, err := semver.NewVersion(fields[0])
	if err != nil {
		return VersionInfo{}, fmt.Errorf("parsing version %s: %w", fields[0], err)
	}

	return VersionInfo{
		Version: ver,
		Commit:  strings.TrimSuffix(fields[2], ")"),
	}, nil
}

// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectVanillaPhp(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "composer.json", `{
		"require": {"php": ">=8.1"},
		"require-dev": {"phpunit/phpunit": "^10.0"}
	}`)
	writeFixture(t, dir, "index.php", "<?php\n$uri = $_SERVER['REQUEST_URI'];\n")
	writeFixture(t, dir, "helpers.php", "<?php\nfunction render() {}\n")

	result := scan(t, dir)

	assert.Equal(t, Php, result.Framework)
	assert.Equal(t, "php", result.Language)
	assert.InDelta(t, 0.6, result.Confidence, 0.001)
	assert.True(t, result.Structure["php_constraint"])
	assert.Equal(t, []string{"phpunit"}, result.Tools["testing"])
}

func TestDetectPhpWithHtaccess(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "composer.json", "{}")
	writeFixture(t, dir, "index.php", "<?php\necho $_SERVER[\"REQUEST_URI\"];\n")
	writeFixture(t, dir, ".htaccess", "RewriteEngine On\n")

	result := scan(t, dir)

	assert.Equal(t, Php, result.Framework)
	assert.InDelta(t, 0.6, result.Confidence, 0.001)
}

// Loose root-level scripts without a composer manifest stay below the
// threshold.
func TestDetectPhpScriptsAloneAreNotEnough(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "index.php", "<?php\n$m = $_SERVER['REQUEST_METHOD'];\n")
	writeFixture(t, dir, "util.php", "<?php\n")

	result := scan(t, dir)

	assert.True(t, result.IsUnknown())
	assert.Len(t, result.Ranked, 1)
	assert.InDelta(t, 0.3, result.Ranked[0].Confidence, 0.001)
}

func TestDetectPhpMalformedComposer(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "composer.json", "{broken")
	writeFixture(t, dir, "index.php", "<?php\n$uri = $_SERVER['REQUEST_URI'];\n")
	writeFixture(t, dir, "api.php", "<?php\n")

	result := scan(t, dir)

	// Existence of composer.json still counts even when unparseable.
	assert.Equal(t, Php, result.Framework)
	assert.InDelta(t, 0.6, result.Confidence, 0.001)
}

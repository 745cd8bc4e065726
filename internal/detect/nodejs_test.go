// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectViteReact(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "package.json", `{
		"dependencies": {"react": "^18.2.0"},
		"devDependencies": {"vite": "^5.0.0", "vitest": "^1.0.0"}
	}`)

	result := scan(t, dir)

	assert.Equal(t, ViteReact, result.Framework)
	assert.Equal(t, "18.2.0", result.Version)
	assert.InDelta(t, 0.8, result.Confidence, 0.001)
	assert.Equal(t, []string{"vitest"}, result.Tools["testing"])
}

func TestDetectCreateReactApp(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "package.json", `{
		"dependencies": {"react": "18.2.0", "react-scripts": "5.0.1"}
	}`)

	result := scan(t, dir)

	assert.Equal(t, CreateReactApp, result.Framework)
	assert.InDelta(t, 0.8, result.Confidence, 0.001)
}

func TestDetectPlainReact(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "package.json", `{"dependencies": {"react": "18.2.0"}}`)
	writeFixture(t, dir, "tsconfig.json", "{}")

	result := scan(t, dir)

	assert.Equal(t, React, result.Framework)
	assert.Equal(t, "typescript", result.Language)
	assert.InDelta(t, 0.6, result.Confidence, 0.001)
}

func TestDetectVue(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "package.json", `{
		"dependencies": {"vue": "^3.4.0"},
		"devDependencies": {"vite": "^5.0.0"}
	}`)

	result := scan(t, dir)

	assert.Equal(t, Vue, result.Framework)
	assert.Equal(t, "3.4.0", result.Version)
	assert.InDelta(t, 0.9, result.Confidence, 0.001)
}

// A project can declare both next and vue; next carries more evidence
// and must win.
func TestNextOutranksVueInMixedManifest(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "package.json", `{
		"dependencies": {"next": "14.0.0", "react": "18.0.0", "vue": "3.4.0"}
	}`)
	writeFixture(t, dir, "next.config.js", "module.exports = {}\n")

	result := scan(t, dir)

	assert.Equal(t, NextJs, result.Framework)
	assert.Len(t, result.Ranked, 2)
}

func TestTrimVersionRange(t *testing.T) {
	cases := map[string]string{
		"^14.0.3":  "14.0.3",
		"~3.4.0":   "3.4.0",
		">=18.0.0": "18.0.0",
		"18.2.0":   "18.2.0",
		"":         "",
	}

	for input, expected := range cases {
		assert.Equal(t, expected, trimVersionRange(input), "input %q", input)
	}
}

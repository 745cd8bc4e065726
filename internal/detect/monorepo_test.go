// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package detect

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addWorkspace(t *testing.T, root string, dir string, name string) {
	t.Helper()
	writeFixture(t, root, filepath.Join(dir, "package.json"), `{"name": "`+name+`"}`)
}

func TestDetectPnpmWorkspaces(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "pnpm-workspace.yaml", "packages:\n  - \"apps/*\"\n  - \"packages/*\"\n")
	addWorkspace(t, dir, filepath.Join("apps", "web"), "@shop/web")
	addWorkspace(t, dir, filepath.Join("packages", "ui"), "@shop/ui")
	writeFixture(t, dir, filepath.Join("packages", "docs", "README.md"), "no manifest here")

	mono, err := DetectWorkspaces(dir)
	require.NoError(t, err)

	assert.True(t, mono.IsMonorepo)
	assert.Equal(t, "pnpm", mono.Manager)
	require.Len(t, mono.Workspaces, 2)
	assert.Equal(t, "@shop/web", mono.Workspaces[0].Name)
	assert.Equal(t, "@shop/ui", mono.Workspaces[1].Name)
}

// pnpm-workspace.yaml outranks a workspaces field in package.json.
func TestPnpmOutranksNpmWorkspaces(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "pnpm-workspace.yaml", "packages:\n  - \"libs/*\"\n")
	writeFixture(t, dir, "package.json", `{"workspaces": ["packages/*"]}`)
	addWorkspace(t, dir, filepath.Join("libs", "core"), "core")

	mono, err := DetectWorkspaces(dir)
	require.NoError(t, err)

	assert.Equal(t, "pnpm", mono.Manager)
	require.Len(t, mono.Workspaces, 1)
	assert.Equal(t, "core", mono.Workspaces[0].Name)
}

func TestDetectNpmWorkspacesArrayForm(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "package.json", `{"workspaces": ["packages/*"]}`)
	addWorkspace(t, dir, filepath.Join("packages", "api"), "api")

	mono, err := DetectWorkspaces(dir)
	require.NoError(t, err)

	assert.True(t, mono.IsMonorepo)
	assert.Equal(t, "npm", mono.Manager)
	require.Len(t, mono.Workspaces, 1)
}

func TestDetectNpmWorkspacesObjectForm(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "package.json", `{"workspaces": {"packages": ["packages/*"]}}`)
	addWorkspace(t, dir, filepath.Join("packages", "api"), "api")

	mono, err := DetectWorkspaces(dir)
	require.NoError(t, err)

	assert.True(t, mono.IsMonorepo)
	assert.Equal(t, "npm", mono.Manager)
}

func TestDetectLernaDefaultLayout(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "lerna.json", `{"version": "1.0.0"}`)
	addWorkspace(t, dir, filepath.Join("packages", "cli"), "cli")

	mono, err := DetectWorkspaces(dir)
	require.NoError(t, err)

	assert.Equal(t, "lerna", mono.Manager)
	require.Len(t, mono.Workspaces, 1)
	assert.Equal(t, "cli", mono.Workspaces[0].Name)
}

func TestDetectNxDefaultLayout(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "nx.json", "{}")
	addWorkspace(t, dir, filepath.Join("apps", "site"), "site")
	addWorkspace(t, dir, filepath.Join("libs", "shared"), "shared")

	mono, err := DetectWorkspaces(dir)
	require.NoError(t, err)

	assert.Equal(t, "nx", mono.Manager)
	require.Len(t, mono.Workspaces, 2)
}

func TestDetectNoMonorepo(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "package.json", `{"name": "single"}`)

	mono, err := DetectWorkspaces(dir)
	require.NoError(t, err)
	assert.False(t, mono.IsMonorepo)
	assert.Empty(t, mono.Workspaces)
}

func TestMonorepoAttachedToDetectResult(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "pnpm-workspace.yaml", "packages:\n  - \"apps/*\"\n")
	writeFixture(t, dir, "package.json", `{"dependencies": {"next": "14.0.0"}}`)
	writeFixture(t, dir, "next.config.js", "module.exports = {}\n")
	addWorkspace(t, dir, filepath.Join("apps", "web"), "web")

	result := scan(t, dir)

	require.NotNil(t, result.Monorepo)
	assert.True(t, result.Monorepo.IsMonorepo)
	assert.Equal(t, "pnpm", result.Monorepo.Manager)
}

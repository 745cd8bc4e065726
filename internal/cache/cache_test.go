// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackscan/stackscan/internal/detect"
)

func sampleResult() *detect.Result {
	return &detect.Result{
		Framework:         detect.NextJs,
		Language:          "typescript",
		Confidence:        0.92,
		MatchedIndicators: []string{"package.json: +0.1 (package.json)"},
	}
}

func newProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "package.json"),
		[]byte(`{"dependencies": {"next": "14.0.0"}}`),
		0644,
	))

	return dir
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	project := newProject(t)
	c := NewAt(t.TempDir())

	_, ok := c.Get(ctx, project)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, project, sampleResult()))

	cached, ok := c.Get(ctx, project)
	require.True(t, ok)
	assert.Equal(t, detect.NextJs, cached.Framework)
	assert.Equal(t, 0.92, cached.Confidence)
}

func TestManifestChangeInvalidates(t *testing.T) {
	ctx := context.Background()
	project := newProject(t)
	c := NewAt(t.TempDir())

	require.NoError(t, c.Put(ctx, project, sampleResult()))

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(project, "package.json"), stale, stale))

	_, ok := c.Get(ctx, project)
	assert.False(t, ok)
}

func TestTtlExpiry(t *testing.T) {
	ctx := context.Background()
	project := newProject(t)
	c := NewAt(t.TempDir())
	c.ttl = time.Nanosecond

	require.NoError(t, c.Put(ctx, project, sampleResult()))
	time.Sleep(time.Millisecond)

	_, ok := c.Get(ctx, project)
	assert.False(t, ok)
}

func TestCorruptStoreReadsEmpty(t *testing.T) {
	ctx := context.Background()
	project := newProject(t)
	dir := t.TempDir()
	c := NewAt(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, cacheFileName), []byte("{not json"), 0644))

	_, ok := c.Get(ctx, project)
	assert.False(t, ok)

	// A corrupt store must still accept writes.
	require.NoError(t, c.Put(ctx, project, sampleResult()))
	_, ok = c.Get(ctx, project)
	assert.True(t, ok)
}

func TestStatsAndClear(t *testing.T) {
	ctx := context.Background()
	project := newProject(t)
	c := NewAt(t.TempDir())

	_, _ = c.Get(ctx, project)
	require.NoError(t, c.Put(ctx, project, sampleResult()))
	_, _ = c.Get(ctx, project)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 0.5, stats.HitRate)
	assert.Greater(t, stats.SizeBytes, int64(0))

	require.NoError(t, c.Clear(ctx))

	stats, err = c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
	assert.Equal(t, 0, stats.Hits)
	assert.Equal(t, 0, stats.Misses)
}

func TestKeyTracksVersion(t *testing.T) {
	project := newProject(t)
	c := NewAt(t.TempDir())

	_, before, err := c.key(project)
	require.NoError(t, err)

	c.version = "99.0.0"
	_, after, err := c.key(project)
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

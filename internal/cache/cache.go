// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

// Package cache persists detection results between runs.
//
// Entries are keyed by the project path plus the modification times of
// the manifest files that drive detection, so editing any manifest
// invalidates the entry without an explicit flush. A file lock guards
// the store against concurrent invocations.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/stackscan/stackscan/internal"
	"github.com/stackscan/stackscan/internal/detect"
)

const (
	cacheFileName    = "detection_cache.json"
	metadataFileName = "metadata.json"
	lockFileName     = ".lock"

	defaultTtl = 24 * time.Hour

	lockRetryDelay = 100 * time.Millisecond
)

// monitoredFiles are the manifests whose modification times feed the
// cache key. Touching any of them invalidates the cached result.
var monitoredFiles = []string{
	"package.json",
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"pnpm-workspace.yaml",
	"lerna.json",
	"nx.json",
	"next.config.js",
	"next.config.ts",
	"next.config.mjs",
	"vite.config.js",
	"vite.config.ts",
	"requirements.txt",
	"pyproject.toml",
	"Pipfile",
	"setup.py",
	"manage.py",
	"go.mod",
	"go.sum",
	"pubspec.yaml",
	"pubspec.lock",
	"Podfile",
	"Podfile.lock",
	"composer.json",
	"composer.lock",
	"Package.swift",
}

type entry struct {
	Key      string         `json:"key"`
	StoredAt time.Time      `json:"storedAt"`
	Result   *detect.Result `json:"result"`
}

type store struct {
	Entries map[string]entry `json:"entries"`
}

type metadata struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
}

// Stats summarizes cache state for display.
type Stats struct {
	Path      string  `json:"path"`
	Entries   int     `json:"entries"`
	Hits      int     `json:"hits"`
	Misses    int     `json:"misses"`
	HitRate   float64 `json:"hitRate"`
	SizeBytes int64   `json:"sizeBytes"`
}

// Cache is a file-backed detection result store.
type Cache struct {
	dir     string
	ttl     time.Duration
	version string
}

// New places the cache under the user cache directory.
func New() (*Cache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("resolving user cache dir: %w", err)
	}

	return NewAt(filepath.Join(base, "stackscan")), nil
}

// NewAt builds a cache rooted at dir. Used directly in tests.
func NewAt(dir string) *Cache {
	return &Cache{
		dir:     dir,
		ttl:     defaultTtl,
		version: internal.GetVersionNumber(),
	}
}

// Get returns the cached result for projectPath, if a fresh entry with a
// matching key exists. Corrupt or stale stores read as empty; the cache
// never turns a scan into a failure.
func (c *Cache) Get(ctx context.Context, projectPath string) (*detect.Result, bool) {
	absPath, key, err := c.key(projectPath)
	if err != nil {
		log.Printf("computing cache key for %s: %v", projectPath, err)
		return nil, false
	}

	var result *detect.Result
	err = c.withLock(ctx, func() error {
		contents := c.readStore()
		cached, ok := contents.Entries[digest(absPath)]
		if !ok || cached.Key != key || time.Since(cached.StoredAt) > c.ttl {
			if ok {
				// Stale or superseded entries are pruned on read.
				delete(contents.Entries, digest(absPath))
				if err := c.writeStore(contents); err != nil {
					log.Printf("pruning stale cache entry: %v", err)
				}
			}
			c.recordAccess(false)
			return nil
		}

		c.recordAccess(true)
		result = cached.Result
		return nil
	})
	if err != nil {
		log.Printf("reading cache: %v", err)
		return nil, false
	}

	return result, result != nil
}

// Put stores result for projectPath under the current key.
func (c *Cache) Put(ctx context.Context, projectPath string, result *detect.Result) error {
	absPath, key, err := c.key(projectPath)
	if err != nil {
		return fmt.Errorf("computing cache key for %s: %w", projectPath, err)
	}

	return c.withLock(ctx, func() error {
		contents := c.readStore()
		contents.Entries[digest(absPath)] = entry{
			Key:      key,
			StoredAt: time.Now(),
			Result:   result,
		}

		return c.writeStore(contents)
	})
}

// Clear removes all entries and resets hit counters.
func (c *Cache) Clear(ctx context.Context) error {
	return c.withLock(ctx, func() error {
		for _, name := range []string{cacheFileName, metadataFileName} {
			if err := os.Remove(filepath.Join(c.dir, name)); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("removing %s: %w", name, err)
			}
		}

		return nil
	})
}

// Stats reports entry and hit counts.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: c.dir}
	err := c.withLock(ctx, func() error {
		contents := c.readStore()
		meta := c.readMetadata()

		stats.Entries = len(contents.Entries)
		stats.Hits = meta.Hits
		stats.Misses = meta.Misses
		if total := meta.Hits + meta.Misses; total > 0 {
			stats.HitRate = float64(meta.Hits) / float64(total)
		}
		if info, err := os.Stat(filepath.Join(c.dir, cacheFileName)); err == nil {
			stats.SizeBytes = info.Size()
		}
		return nil
	})

	return stats, err
}

// key derives the cache key from the absolute project path, the sorted
// modification times of monitored manifests, and the tool version.
func (c *Cache) key(projectPath string) (string, string, error) {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return "", "", err
	}

	stamps := make([]string, 0, len(monitoredFiles))
	for _, name := range monitoredFiles {
		info, err := os.Stat(filepath.Join(absPath, name))
		if err != nil {
			continue
		}

		stamps = append(stamps, fmt.Sprintf("%s:%d", name, info.ModTime().UnixNano()))
	}
	sort.Strings(stamps)

	key := fmt.Sprintf(
		"%s:%s:%s",
		digest(absPath),
		digest(strings.Join(stamps, ",")),
		c.version,
	)

	return absPath, key, nil
}

func (c *Cache) withLock(ctx context.Context, fn func() error) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	lock := flock.New(filepath.Join(c.dir, lockFileName))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("locking cache: %w", err)
	}

	if !locked {
		return fmt.Errorf("cache lock at %s is held by another process", lock.Path())
	}

	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Printf("unlocking cache: %v", err)
		}
	}()

	return fn()
}

func (c *Cache) readStore() store {
	contents := store{Entries: map[string]entry{}}

	data, err := os.ReadFile(filepath.Join(c.dir, cacheFileName))
	if err != nil {
		return contents
	}

	if err := json.Unmarshal(data, &contents); err != nil {
		log.Printf("cache store is corrupt, starting fresh: %v", err)
		return store{Entries: map[string]entry{}}
	}

	if contents.Entries == nil {
		contents.Entries = map[string]entry{}
	}

	return contents
}

func (c *Cache) writeStore(contents store) error {
	data, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache store: %w", err)
	}

	if err := os.WriteFile(filepath.Join(c.dir, cacheFileName), data, 0644); err != nil {
		return fmt.Errorf("writing cache store: %w", err)
	}

	return nil
}

func (c *Cache) readMetadata() metadata {
	var meta metadata
	data, err := os.ReadFile(filepath.Join(c.dir, metadataFileName))
	if err != nil {
		return meta
	}

	if err := json.Unmarshal(data, &meta); err != nil {
		return metadata{}
	}

	return meta
}

// recordAccess updates hit counters. Counter write failures are logged
// only; they must not affect the lookup.
func (c *Cache) recordAccess(hit bool) {
	meta := c.readMetadata()
	if hit {
		meta.Hits++
	} else {
		meta.Misses++
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return
	}

	if err := os.WriteFile(filepath.Join(c.dir, metadataFileName), data, 0644); err != nil {
		log.Printf("writing cache metadata: %v", err)
	}
}

func digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])[:16]
}

// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

// Package detect identifies the tech stack of a project directory.
//
// Frameworks are detected based on criteria such as:
// 1. Presence of well-known marker files.
// 2. Dependency entries inside those marker files.
// 3. Source code content patterns.
//
// Each matched criterion contributes a weighted indicator; per-framework
// indicator weights accumulate into a confidence score in [0,1]. The
// highest-scoring framework above its minimum threshold wins, with ties
// broken by an explicit priority table.
//
// - `Scanner.Detect` scans a project root and ranks all candidates.
// - `DetectWorkspaces` identifies monorepo workspace layouts.
package detect

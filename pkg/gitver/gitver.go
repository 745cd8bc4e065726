// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

// Package gitver shells out to git for repository history facts.
package gitver

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Runner abstracts process execution so history queries can be tested
// without a git binary.
type Runner interface {
	Run(ctx context.Context, workingDir string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, workingDir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = workingDir

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("running git %s: %w", strings.Join(args, " "), err)
	}

	return strings.TrimSpace(string(output)), nil
}

// Cli answers history questions for a working tree. Projects that are
// not repositories report zero commits and a single contributor rather
// than failing.
type Cli struct {
	runner Runner
}

func NewCli() *Cli {
	return &Cli{runner: execRunner{}}
}

func NewCliWithRunner(runner Runner) *Cli {
	return &Cli{runner: runner}
}

func (c *Cli) CommitCount(ctx context.Context, repoPath string) (int, error) {
	output, err := c.runner.Run(ctx, repoPath, "rev-list", "--count", "HEAD")
	if err != nil {
		return 0, nil
	}

	count, err := strconv.Atoi(output)
	if err != nil {
		return 0, fmt.Errorf("parsing commit count %q: %w", output, err)
	}

	return count, nil
}

func (c *Cli) ContributorCount(ctx context.Context, repoPath string) (int, error) {
	output, err := c.runner.Run(ctx, repoPath, "shortlog", "-sn", "HEAD")
	if err != nil {
		return 1, nil
	}

	if output == "" {
		return 1, nil
	}

	return len(strings.Split(output, "\n")), nil
}

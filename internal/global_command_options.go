// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package internal

type GlobalCommandOptions struct {
	// Cwd allows the user to override the current working directory, temporarily.
	// The root command takes care of cd'ing into that folder before a command
	// runs and cd'ing back afterwards (to make testing easier).
	Cwd string

	// EnableDebugLogging indicates diagnostic logging should be kept.
	// It's enabled with `--debug`, for any command; without it, log output
	// is discarded.
	EnableDebugLogging bool

	// When true, interactive prompts behave as if the user accepted the
	// default value. Set with `--no-prompt`, and forced on when stdout is
	// not a terminal.
	NoPrompt bool
}

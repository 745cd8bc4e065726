// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package gitver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	outputs map[string]string
	err     error
}

func (f *fakeRunner) Run(ctx context.Context, workingDir string, args ...string) (string, error) {
	if f.err != nil {
		return "", f.err
	}

	return f.outputs[strings.Join(args, " ")], nil
}

func TestCommitCount(t *testing.T) {
	cli := NewCliWithRunner(&fakeRunner{outputs: map[string]string{
		"rev-list --count HEAD": "42",
	}})

	count, err := cli.CommitCount(context.Background(), ".")
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestCommitCountNoRepository(t *testing.T) {
	cli := NewCliWithRunner(&fakeRunner{err: errors.New("not a git repository")})

	count, err := cli.CommitCount(context.Background(), ".")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCommitCountBadOutput(t *testing.T) {
	cli := NewCliWithRunner(&fakeRunner{outputs: map[string]string{
		"rev-list --count HEAD": "not-a-number",
	}})

	_, err := cli.CommitCount(context.Background(), ".")
	require.Error(t, err)
}

func TestContributorCount(t *testing.T) {
	cli := NewCliWithRunner(&fakeRunner{outputs: map[string]string{
		"shortlog -sn HEAD": "   40  Ada\n    2  Grace\n    1  Linus",
	}})

	count, err := cli.ContributorCount(context.Background(), ".")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestContributorCountNoRepository(t *testing.T) {
	cli := NewCliWithRunner(&fakeRunner{err: errors.New("not a git repository")})

	count, err := cli.ContributorCount(context.Background(), ".")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

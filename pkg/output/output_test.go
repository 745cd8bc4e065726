// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tableValue struct{}

func (tableValue) TableHeader() []string {
	return []string{"FRAMEWORK", "CONFIDENCE"}
}

func (tableValue) TableRows() [][]string {
	return [][]string{{"nextjs", "0.90"}}
}

func TestNewFormatter(t *testing.T) {
	for _, format := range []string{"json", "table", "none"} {
		formatter, err := NewFormatter(format)
		require.NoError(t, err)
		assert.Equal(t, Format(format), formatter.Kind())
	}

	_, err := NewFormatter("xml")
	require.Error(t, err)
}

func TestJsonFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := (&JsonFormatter{}).Format(map[string]string{"framework": "nextjs"}, &buf)
	require.NoError(t, err)
	assert.JSONEq(t, `{"framework": "nextjs"}`, buf.String())
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := (&TableFormatter{}).Format(tableValue{}, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "FRAMEWORK")
	assert.Contains(t, buf.String(), "nextjs")
}

func TestTableFormatterRejectsPlainValues(t *testing.T) {
	var buf bytes.Buffer
	err := (&TableFormatter{}).Format(42, &buf)
	require.Error(t, err)
}

func TestNoneFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&NoneFormatter{}).Format(tableValue{}, &buf))
	assert.Empty(t, buf.String())
}

// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

// Package output selects between machine and human result rendering.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// Format names an output format understood by the CLI.
type Format string

const (
	JsonFormat  Format = "json"
	TableFormat Format = "table"
	NoneFormat  Format = "none"
)

// Formatter renders a command result to a writer.
type Formatter interface {
	Kind() Format
	Format(obj any, writer io.Writer) error
}

// NewFormatter resolves a format name to a formatter.
func NewFormatter(format string) (Formatter, error) {
	switch Format(format) {
	case JsonFormat:
		return &JsonFormatter{}, nil
	case TableFormat:
		return &TableFormatter{}, nil
	case NoneFormat:
		return &NoneFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format '%s'", format)
	}
}

// AddOutputFlag registers the --output flag on a flag set, constrained
// to the supported formats.
func AddOutputFlag(flags *pflag.FlagSet, target *string, supported []Format, defaultFormat Format) {
	names := make([]string, len(supported))
	for i, format := range supported {
		names[i] = string(format)
	}

	flags.StringVarP(
		target,
		"output",
		"o",
		string(defaultFormat),
		fmt.Sprintf("The output format (the supported formats are %s).", strings.Join(names, ", ")),
	)
}

// NoneFormatter discards all output.
type NoneFormatter struct{}

func (f *NoneFormatter) Kind() Format {
	return NoneFormat
}

func (f *NoneFormatter) Format(obj any, writer io.Writer) error {
	return nil
}

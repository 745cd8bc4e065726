// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Tabular is implemented by results that can render as a table.
type Tabular interface {
	TableHeader() []string
	TableRows() [][]string
}

// TableFormatter renders Tabular results with aligned columns.
type TableFormatter struct{}

func (f *TableFormatter) Kind() Format {
	return TableFormat
}

func (f *TableFormatter) Format(obj any, writer io.Writer) error {
	tabular, ok := obj.(Tabular)
	if !ok {
		return fmt.Errorf("value of type %T does not support table output", obj)
	}

	tab := tabwriter.NewWriter(writer, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(tab, strings.Join(tabular.TableHeader(), "\t")); err != nil {
		return err
	}

	for _, row := range tabular.TableRows() {
		if _, err := fmt.Fprintln(tab, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	return tab.Flush()
}

// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// JsonFormatter renders the result as indented JSON.
type JsonFormatter struct{}

func (f *JsonFormatter) Kind() Format {
	return JsonFormat
}

func (f *JsonFormatter) Format(obj any, writer io.Writer) error {
	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling to JSON: %w", err)
	}

	data = append(data, '\n')
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("writing JSON output: %w", err)
	}

	return nil
}

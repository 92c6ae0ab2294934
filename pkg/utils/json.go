package utils

import (
	"encoding/json"
	"io"
)

// EncodeJSON writes data as one indented JSON document followed by a
// newline, so a task-runner capturing stdout gets exactly one
// parseable document per invocation.
func EncodeJSON(writer io.Writer, data any) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(data)
}

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"todos/internal/tasklist"
)

// Format is an export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses an export format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format: %s", s)
	}
}

// Export writes tasks in the given format. The document is an array of
// {id, text, completed, createdAt} records, the same shape as the saved slot.
func Export(w io.Writer, format Format, tasks []tasklist.Task) error {
	if tasks == nil {
		tasks = []tasklist.Task{}
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()

	default:
		return fmt.Errorf("unknown export format: %s", format)
	}
}

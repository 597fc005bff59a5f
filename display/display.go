// Package display writes command results in the machine-readable formats
// the CLI offers alongside its tables.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vibelang/vibe/errors"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Write renders v as indented JSON or as YAML. A non-empty title becomes a
// leading YAML comment; JSON has no comments so it is dropped there.
func Write(w io.Writer, format, title string, v interface{}) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal JSON")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "failed to marshal YAML")
		}
		if title != "" {
			if _, err := fmt.Fprintf(w, "# %s\n", title); err != nil {
				return err
			}
		}
		_, err = w.Write(data)
		return err
	}
	return UnsupportedFormat(format, FormatJSON, FormatYAML)
}

// UnsupportedFormat is the error for a --format value a command does not
// know, with the accepted values as a hint.
func UnsupportedFormat(format string, supported ...string) error {
	return errors.WithHintf(
		errors.NewInvalidRequestError("unsupported format: %s", format),
		"supported formats: %s", strings.Join(supported, ", "),
	)
}

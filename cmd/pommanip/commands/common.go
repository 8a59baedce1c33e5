// Package commands provides CLI command handlers for pommanip.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	yaml "go.yaml.in/yaml/v4"

	pomext "github.com/vorburger/pom-manipulation-ext"
	"github.com/vorburger/pom-manipulation-ext/report"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// OutputReport renders a report to stdout in the requested format.
func OutputReport(r *report.Report, format string) error {
	if err := report.ValidateFormat(format); err != nil {
		return err
	}
	return r.Render(os.Stdout, format)
}

// OutputStructured outputs data in the specified format (json or yaml) to stdout.
// Returns an error if marshaling fails.
func OutputStructured(data any, format string) error {
	var out []byte
	var err error

	switch format {
	case report.FormatJSON:
		out, err = json.MarshalIndent(data, "", "  ")
	case report.FormatYAML:
		out, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	fmt.Println(string(out))
	return nil
}

// OutputHeader outputs the common session header to stderr.
func OutputHeader(label string) {
	Writef(os.Stderr, "pommanip version: %s\n", pomext.Version())
	if label != "" {
		Writef(os.Stderr, "%s\n", label)
	}
}

// defineFlag collects repeatable -D key=value overrides.
type defineFlag []string

func (d *defineFlag) String() string { return fmt.Sprint([]string(*d)) }

func (d *defineFlag) Set(value string) error {
	if value == "" {
		return fmt.Errorf("define cannot be empty")
	}
	*d = append(*d, value)
	return nil
}

// Package docio loads and stores the JSON and YAML documents the patcher
// operates on.
//
// The patcher itself never touches the filesystem; callers load a Document
// here, hand its Data tree to the patcher, and save the result back in the
// format it arrived in.
package docio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "go.yaml.in/yaml/v4"
)

// Format represents the serialization format of a source document
type Format string

const (
	// FormatYAML indicates the source was in YAML format
	FormatYAML Format = "yaml"
	// FormatJSON indicates the source was in JSON format
	FormatJSON Format = "json"
	// FormatUnknown indicates the format could not be determined
	FormatUnknown Format = "unknown"
)

// Document is a parsed JSON or YAML file together with enough provenance to
// write it back out the way it came in.
type Document struct {
	// SourcePath is the path the document was loaded from, or the name given
	// to LoadBytes.
	SourcePath string
	// SourceFormat records whether the source was JSON or YAML.
	SourceFormat Format
	// Data is the decoded tree: map[string]any, []any, or a scalar.
	Data any
}

// Load reads and decodes the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("docio: failed to read %s: %w", path, err)
	}
	return LoadBytes(path, data)
}

// LoadBytes decodes an in-memory document. The name is used for format
// detection by extension and carried as the Document's SourcePath.
func LoadBytes(name string, data []byte) (*Document, error) {
	format := detectFormatFromPath(name)
	if format == FormatUnknown {
		format = detectFormatFromContent(data)
	}
	if format == FormatUnknown {
		return nil, fmt.Errorf("docio: cannot determine format of %s", name)
	}

	var tree any
	// YAML is a superset of JSON, so one decoder covers both formats.
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("docio: failed to decode %s: %w", name, err)
	}

	return &Document{
		SourcePath:   name,
		SourceFormat: format,
		Data:         tree,
	}, nil
}

// Marshal serializes the document's tree in its source format. JSON output
// uses two-space indentation; YAML uses the default yaml encoding.
func Marshal(doc *Document) ([]byte, error) {
	switch doc.SourceFormat {
	case FormatJSON:
		out, err := json.MarshalIndent(doc.Data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("docio: failed to encode %s as JSON: %w", doc.SourcePath, err)
		}
		return append(out, '\n'), nil
	case FormatYAML:
		out, err := yaml.Marshal(doc.Data)
		if err != nil {
			return nil, fmt.Errorf("docio: failed to encode %s as YAML: %w", doc.SourcePath, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("docio: unknown format for %s", doc.SourcePath)
	}
}

// Save serializes the document in its source format and writes it to path.
// Pass doc.SourcePath to overwrite the file it was loaded from.
func Save(doc *Document, path string) error {
	out, err := Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("docio: failed to write %s: %w", path, err)
	}
	return nil
}

// detectFormatFromPath detects the source format from a file path
func detectFormatFromPath(path string) Format {
	ext := filepath.Ext(path)
	switch ext {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// detectFormatFromContent attempts to detect the format from the content bytes
// JSON typically starts with '{' or '[', while YAML does not
func detectFormatFromContent(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\n\r")

	if len(trimmed) == 0 {
		return FormatUnknown
	}

	// JSON objects/arrays start with { or [
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}

	// Otherwise assume YAML
	return FormatYAML
}

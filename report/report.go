// Package report renders the outcome of a manipulation session for build
// logs and tooling.
//
// A Report is assembled from the session's accumulated property updates
// plus the per-phase alignment and patch results, then rendered as text,
// JSON, or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	yaml "go.yaml.in/yaml/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vorburger/pom-manipulation-ext/align"
	"github.com/vorburger/pom-manipulation-ext/gav"
	"github.com/vorburger/pom-manipulation-ext/patch"
	"github.com/vorburger/pom-manipulation-ext/state"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidateFormat validates an output format and returns an error if invalid.
func ValidateFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("report: invalid format %q. Valid formats: %s, %s, %s",
			format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// PropertyUpdate is one recorded version-property change.
type PropertyUpdate struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Report is the rendered outcome of one manipulation session.
type Report struct {
	// PropertyUpdates lists the session's version-property changes sorted by
	// key.
	PropertyUpdates []PropertyUpdate `json:"propertyUpdates,omitempty" yaml:"propertyUpdates,omitempty"`

	// AlignChanges lists dependencies aligned to managed versions.
	AlignChanges []align.Change `json:"alignChanges,omitempty" yaml:"alignChanges,omitempty"`

	// UnmatchedManaged lists managed refs pinned for transitives.
	UnmatchedManaged []gav.VersionRef `json:"unmatchedManaged,omitempty" yaml:"unmatchedManaged,omitempty"`

	// PatchChanges lists applied document operations.
	PatchChanges []patch.ChangeRecord `json:"patchChanges,omitempty" yaml:"patchChanges,omitempty"`

	// Warnings carries non-fatal notes from all phases.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Build assembles a report from the session and per-phase results. Either
// result may be nil when its phase did not run.
func Build(session *state.Session, alignResult *align.Result, patchResult *patch.Result) *Report {
	r := &Report{}

	if session != nil {
		updates := session.PropertyUpdates()
		for _, key := range session.SortedPropertyKeys() {
			r.PropertyUpdates = append(r.PropertyUpdates, PropertyUpdate{Key: key, Value: updates[key]})
		}
	}

	if alignResult != nil {
		r.AlignChanges = alignResult.Changes
		r.UnmatchedManaged = alignResult.UnmatchedManaged
		r.Warnings = append(r.Warnings, alignResult.Warnings...)
	}

	if patchResult != nil {
		r.PatchChanges = patchResult.Changes
	}

	return r
}

// Empty reports whether the session changed nothing and raised no warnings.
func (r *Report) Empty() bool {
	return len(r.PropertyUpdates) == 0 &&
		len(r.AlignChanges) == 0 &&
		len(r.UnmatchedManaged) == 0 &&
		len(r.PatchChanges) == 0 &&
		len(r.Warnings) == 0
}

// Render writes the report to w in the given format.
func (r *Report) Render(w io.Writer, format string) error {
	switch format {
	case FormatText:
		return r.renderText(w)
	case FormatJSON:
		out, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("report: marshaling to json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case FormatYAML:
		out, err := yaml.Marshal(r)
		if err != nil {
			return fmt.Errorf("report: marshaling to yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("report: invalid format %q", format)
	}
}

func (r *Report) renderText(w io.Writer) error {
	if r.Empty() {
		_, err := fmt.Fprintln(w, "No changes.")
		return err
	}

	titleCaser := cases.Title(language.English)
	section := func(name string) {
		fmt.Fprintf(w, "%s:\n", titleCaser.String(name))
	}

	if len(r.AlignChanges) > 0 {
		section("aligned dependencies")
		for _, c := range r.AlignChanges {
			fmt.Fprintf(w, "  %s:%s %s -> %s\n", c.Group, c.Artifact, c.OldVersion, c.NewVersion)
		}
	}

	if len(r.UnmatchedManaged) > 0 {
		section("pinned for transitives")
		for _, ref := range r.UnmatchedManaged {
			fmt.Fprintf(w, "  %s\n", ref.String())
		}
	}

	if len(r.PropertyUpdates) > 0 {
		section("property updates")
		for _, u := range r.PropertyUpdates {
			fmt.Fprintf(w, "  %s=%s\n", u.Key, u.Value)
		}
	}

	if len(r.PatchChanges) > 0 {
		section("patched documents")
		for _, c := range r.PatchChanges {
			fmt.Fprintf(w, "  [%d] %s %s %s\n", c.Index, c.Operation, c.Target, c.Path)
		}
	}

	if len(r.Warnings) > 0 {
		section("warnings")
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "  %s\n", warning)
		}
	}

	return nil
}

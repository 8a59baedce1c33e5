// Package align decides whether candidate versions are compatible with a
// managed baseline and applies those decisions across a project's dependency
// list.
//
// Two comparison modes exist. Loose mode requires lexical equality. Strict
// mode additionally accepts a candidate that extends the baseline with a
// qualifier suffix: the candidate must begin with the baseline followed
// immediately by a '-' or '.' separator. "1.1-rebuild-1" therefore matches a
// baseline of "1.1", while "1.2" does not. Without the separator check
// "1.10" would be treated as an extension of "1.1".
//
// Comparison is a string-prefix heuristic, not semantic versioning; it is
// permissive toward rebuild suffixes while remaining a strict superstring
// match.
package align

import (
	"fmt"
	"strings"

	"github.com/vorburger/pom-manipulation-ext/gav"
	"github.com/vorburger/pom-manipulation-ext/pomerrors"
)

// Decision is the outcome of comparing a candidate version against a managed
// baseline.
type Decision int

const (
	// Mismatch means the candidate is not compatible with the baseline.
	Mismatch Decision = iota
	// Match means the candidate equals or (in strict mode) qualifier-extends
	// the baseline.
	Match
)

// String returns the decision name for logs and reports.
func (d Decision) String() string {
	if d == Match {
		return "MATCH"
	}
	return "MISMATCH"
}

// versionSeparators are the characters that may join a baseline version to a
// qualifier suffix in strict mode.
const versionSeparators = "-."

// Decide compares a candidate version against a managed baseline.
//
// Loose mode (strict=false) matches only on lexical equality. Strict mode
// also matches a candidate of the form managed+separator+suffix.
func Decide(candidate, managed string, strict bool) Decision {
	if candidate == managed {
		return Match
	}
	if !strict {
		return Mismatch
	}
	if len(candidate) <= len(managed) || !strings.HasPrefix(candidate, managed) {
		return Mismatch
	}
	if strings.IndexByte(versionSeparators, candidate[len(managed)]) < 0 {
		return Mismatch
	}
	return Match
}

// Policy bundles the configured strictness flags for alignment decisions.
type Policy struct {
	// Strict enables the qualifier-suffix extension rule.
	Strict bool
	// FailOnViolation promotes strict mismatches from warnings to errors.
	FailOnViolation bool
}

// Check evaluates a proposed version against a project dependency's current
// version. On a strict mismatch with FailOnViolation set, the returned error
// is a pomerrors.PolicyViolationError; on any other mismatch the decision is
// Mismatch with a nil error and the caller is expected to proceed without
// aligning that dependency.
func (p Policy) Check(dep gav.VersionRef, proposed string) (Decision, error) {
	d := Decide(proposed, dep.Version, p.Strict)
	if d == Mismatch && p.Strict && p.FailOnViolation {
		return d, &pomerrors.PolicyViolationError{
			Group:     dep.Group,
			Artifact:  dep.Artifact,
			Candidate: proposed,
			Managed:   dep.Version,
		}
	}
	return d, nil
}

// PropertyFormat selects how aligned versions are recorded as version
// properties for the build report.
type PropertyFormat int

const (
	// FormatNone disables derived property recording.
	FormatNone PropertyFormat = iota
	// FormatVG records under "version.<group>".
	FormatVG
	// FormatVGA records under "version.<group>.<artifact>".
	FormatVGA
)

// ParsePropertyFormat maps the versionPropertyFormat property value to a
// PropertyFormat. Matching is case-insensitive; unrecognized values fall back
// to FormatNone.
func ParsePropertyFormat(s string) PropertyFormat {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VG":
		return FormatVG
	case "VGA":
		return FormatVGA
	default:
		return FormatNone
	}
}

// propertyKey derives the report key for an aligned dependency, or "" when
// recording is off and the dependency's version was not property-supplied.
func (f PropertyFormat) propertyKey(dep Dependency) string {
	if dep.VersionProperty != "" {
		return dep.VersionProperty
	}
	switch f {
	case FormatVG:
		return "version." + dep.Group
	case FormatVGA:
		return "version." + dep.Group + "." + dep.Artifact
	default:
		return ""
	}
}

// Dependency is one project dependency presented for alignment.
type Dependency struct {
	gav.VersionRef

	// VersionProperty names the build property that supplied this
	// dependency's version, when the project declared it indirectly.
	VersionProperty string

	// Managed marks dependencies declared in the project's own
	// dependency-management section.
	Managed bool
}

// Change records one dependency that was aligned to a managed version.
type Change struct {
	Group      string
	Artifact   string
	OldVersion string
	NewVersion string
	// Property is the version property the change was recorded under, if any.
	Property string
}

// Result accumulates the outcome of one alignment pass. It is returned by
// the aligner and merged by the caller into the build session; nothing in
// this package mutates shared state.
type Result struct {
	// PropertyUpdates maps version property names to the versions applied.
	PropertyUpdates map[string]string

	// Changes lists the dependencies that were aligned, in input order.
	Changes []Change

	// UnmatchedManaged lists managed refs that matched no project
	// dependency; with override-transitive enabled the caller adds these to
	// the project's dependency management.
	UnmatchedManaged []gav.VersionRef

	// Warnings holds non-fatal mismatch and exclusion notes.
	Warnings []string
}

// HasChanges returns true if any dependency was aligned.
func (r *Result) HasChanges() bool {
	return len(r.Changes) > 0
}

// Aligner applies the managed candidate set to a project dependency list
// under the configured policy.
type Aligner struct {
	// Policy holds the strictness flags.
	Policy Policy

	// Managed is the ordered managed-dependency candidate set. When a
	// versionless key appears more than once the first ref wins.
	Managed []gav.VersionRef

	// Exclusions holds versionless keys exempt from alignment.
	Exclusions map[string]bool

	// PropertyFormat controls derived version-property recording.
	PropertyFormat PropertyFormat

	// OverrideDependencies enables aligning dependencies that the project
	// itself manages. Defaults to true in the configuration state.
	OverrideDependencies bool

	// OverrideTransitive reports managed refs with no matching project
	// dependency so the caller can pin them for transitives. Defaults to
	// true in the configuration state.
	OverrideTransitive bool
}

// Align walks deps in order against the managed candidate set and returns
// the accumulated result. A strict violation with fail-on-violation enabled
// aborts the pass and returns the policy error together with a nil result.
func (a *Aligner) Align(deps []Dependency) (*Result, error) {
	managed := make(map[string]gav.VersionRef, len(a.Managed))
	for _, ref := range a.Managed {
		if _, ok := managed[ref.VersionlessKey()]; !ok {
			managed[ref.VersionlessKey()] = ref
		}
	}

	result := &Result{PropertyUpdates: make(map[string]string)}
	matchedKeys := make(map[string]bool, len(deps))

	for _, dep := range deps {
		key := dep.VersionlessKey()
		ref, ok := managed[key]
		if !ok {
			continue
		}
		matchedKeys[key] = true

		if a.Exclusions[key] {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s excluded from alignment", key))
			continue
		}
		if dep.Managed && !a.OverrideDependencies {
			continue
		}
		if dep.Version == ref.Version {
			continue
		}

		// Loose mode aligns unconditionally; strict mode checks the
		// candidate against the dependency's current version first.
		if a.Policy.Strict {
			decision, err := a.Policy.Check(dep.VersionRef, ref.Version)
			if err != nil {
				return nil, err
			}
			if decision == Mismatch {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("strict alignment: %s version %s does not match managed %s, skipping",
						key, dep.Version, ref.Version))
				continue
			}
		}

		change := Change{
			Group:      dep.Group,
			Artifact:   dep.Artifact,
			OldVersion: dep.Version,
			NewVersion: ref.Version,
			Property:   a.PropertyFormat.propertyKey(dep),
		}
		result.Changes = append(result.Changes, change)
		if change.Property != "" {
			result.PropertyUpdates[change.Property] = ref.Version
		}
	}

	if a.OverrideTransitive {
		seen := make(map[string]bool, len(a.Managed))
		for _, ref := range a.Managed {
			key := ref.VersionlessKey()
			if seen[key] || matchedKeys[key] || a.Exclusions[key] {
				continue
			}
			seen[key] = true
			result.UnmatchedManaged = append(result.UnmatchedManaged, ref)
		}
	}

	return result, nil
}

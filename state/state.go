// Package state builds immutable per-run configuration from user properties.
//
// Each manipulation concern owns a state type constructed once from the
// property map at session start. Construction is fail-fast: a malformed
// property aborts the whole session rather than producing partial state.
// A state is enabled when its driving property supplied at least one
// parsed item; disabled states take no part in the run.
package state

import (
	"strconv"
	"strings"

	"github.com/vorburger/pom-manipulation-ext/align"
	"github.com/vorburger/pom-manipulation-ext/gav"
	"github.com/vorburger/pom-manipulation-ext/opspec"
)

// Property keys recognized by the state constructors.
const (
	// PropDependencyManagement supplies the managed GAV candidate set.
	PropDependencyManagement = "dependencyManagement"
	// PropOverrideTransitive controls pinning of managed refs that match no
	// project dependency.
	PropOverrideTransitive = "overrideTransitive"
	// PropOverrideDependencies controls aligning dependencies the project
	// itself manages.
	PropOverrideDependencies = "overrideDependencies"
	// PropStrictAlignment enables the strict suffix-only alignment policy.
	PropStrictAlignment = "strictAlignment"
	// PropStrictViolationFails turns strict mismatches from warnings into
	// failures.
	PropStrictViolationFails = "strictViolationFails"
	// PropVersionPropertyFormat selects derived version-property recording
	// (VG, VGA, or NONE).
	PropVersionPropertyFormat = "versionPropertyFormat"
	// PropJSONUpdate supplies the document patch operation spec.
	PropJSONUpdate = "jsonUpdate"
	// PropDependencyExclusionPrefix prefixes per-dependency exclusion keys,
	// as in "dependencyExclusion.org.goots:testing".
	PropDependencyExclusionPrefix = "dependencyExclusion."
)

// Properties is the flat string property map a session is configured from.
type Properties map[string]string

// Get returns the value for key, or def when the key is absent.
func (p Properties) Get(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// GetBool returns the boolean value for key, or def when the key is absent
// or does not parse as a boolean.
func (p Properties) GetBool(key string, def bool) bool {
	v, ok := p[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

// State is implemented by every per-concern configuration state.
type State interface {
	// IsEnabled reports whether the concern takes part in this run.
	IsEnabled() bool
}

// DependencyState configures dependency alignment.
type DependencyState struct {
	// DepMgmt is the ordered managed candidate set, duplicates preserved.
	DepMgmt []gav.VersionRef

	// OverrideTransitive pins managed refs with no matching dependency.
	OverrideTransitive bool

	// OverrideDependencies aligns dependencies the project itself manages.
	OverrideDependencies bool

	// Strict restricts alignment to suffix-only version changes.
	Strict bool

	// FailOnStrictViolation aborts the run on a strict mismatch.
	FailOnStrictViolation bool

	// PropertyFormat selects derived version-property recording.
	PropertyFormat align.PropertyFormat

	// Exclusions holds versionless keys exempt from alignment.
	Exclusions map[string]bool
}

// NewDependencyState builds the alignment state from properties. It fails
// when the dependencyManagement list contains a malformed GAV triple.
func NewDependencyState(props Properties) (*DependencyState, error) {
	refs, err := gav.ParseRefs(props.Get(PropDependencyManagement, ""))
	if err != nil {
		return nil, err
	}

	exclusions := make(map[string]bool)
	for key, value := range props {
		if !strings.HasPrefix(key, PropDependencyExclusionPrefix) {
			continue
		}
		ga := strings.TrimPrefix(key, PropDependencyExclusionPrefix)
		if ga == "" {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil || b {
			exclusions[ga] = true
		}
	}

	return &DependencyState{
		DepMgmt:               refs,
		OverrideTransitive:    props.GetBool(PropOverrideTransitive, true),
		OverrideDependencies:  props.GetBool(PropOverrideDependencies, true),
		Strict:                props.GetBool(PropStrictAlignment, false),
		FailOnStrictViolation: props.GetBool(PropStrictViolationFails, false),
		PropertyFormat:        align.ParsePropertyFormat(props.Get(PropVersionPropertyFormat, "NONE")),
		Exclusions:            exclusions,
	}, nil
}

// IsEnabled reports whether a managed candidate set was supplied.
func (s *DependencyState) IsEnabled() bool {
	return len(s.DepMgmt) > 0
}

// NewAligner builds the aligner this state configures.
func (s *DependencyState) NewAligner() *align.Aligner {
	return &align.Aligner{
		Policy: align.Policy{
			Strict:          s.Strict,
			FailOnViolation: s.FailOnStrictViolation,
		},
		Managed:              s.DepMgmt,
		Exclusions:           s.Exclusions,
		PropertyFormat:       s.PropertyFormat,
		OverrideDependencies: s.OverrideDependencies,
		OverrideTransitive:   s.OverrideTransitive,
	}
}

// JSONState configures document patching.
type JSONState struct {
	// Operations is the parsed patch sequence in declaration order.
	Operations []opspec.Operation
}

// NewJSONState builds the patch state from properties. It fails when the
// jsonUpdate spec is malformed; no partial operation list survives.
func NewJSONState(props Properties) (*JSONState, error) {
	ops, err := opspec.Parse(props.Get(PropJSONUpdate, ""))
	if err != nil {
		return nil, err
	}
	return &JSONState{Operations: ops}, nil
}

// IsEnabled reports whether any patch operations were supplied.
func (s *JSONState) IsEnabled() bool {
	return len(s.Operations) > 0
}

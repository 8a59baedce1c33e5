// Package gav parses group:artifact:version coordinate triples, the
// dependency identifiers used throughout build configuration.
//
// A comma-separated list of triples forms the managed-dependency candidate
// set: the ordered sequence of authoritative versions that project
// dependencies are aligned against. Declaration order and duplicates are
// preserved; managed-set lookups take the first ref per versionless key.
package gav

import (
	"strings"

	"github.com/vorburger/pom-manipulation-ext/pomerrors"
)

// VersionRef identifies a dependency at an exact version. Immutable.
type VersionRef struct {
	Group    string
	Artifact string
	Version  string
}

// String returns the canonical group:artifact:version form.
func (r VersionRef) String() string {
	return r.Group + ":" + r.Artifact + ":" + r.Version
}

// VersionlessKey returns the group:artifact pair, the key used for
// managed-set lookups and exclusion matching.
func (r VersionRef) VersionlessKey() string {
	return r.Group + ":" + r.Artifact
}

// ParseRef parses a single group:artifact:version triple. A triple with the
// wrong field count, or with any empty field, fails with a
// pomerrors.MalformedCoordinateError naming the offending triple.
func ParseRef(gav string) (VersionRef, error) {
	parts := strings.Split(gav, ":")
	if len(parts) != 3 {
		return VersionRef{}, &pomerrors.MalformedCoordinateError{
			Coordinate: gav,
			Message:    "expected group:artifact:version",
		}
	}
	for _, p := range parts {
		if p == "" {
			return VersionRef{}, &pomerrors.MalformedCoordinateError{
				Coordinate: gav,
				Message:    "empty coordinate field",
			}
		}
	}
	return VersionRef{Group: parts[0], Artifact: parts[1], Version: parts[2]}, nil
}

// ParseRefs parses a comma-separated list of triples into an ordered
// sequence. Empty or blank input yields a nil sequence and no error; this is
// what makes the dependency state disabled rather than failing. Parsing is
// fail-fast: once a malformed triple is found the remainder of the list is
// not parsed and no partial sequence is returned.
func ParseRefs(list string) ([]VersionRef, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil, nil
	}

	items := strings.Split(list, ",")
	refs := make([]VersionRef, 0, len(items))
	for _, item := range items {
		ref, err := ParseRef(strings.TrimSpace(item))
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// Package pomerrors provides structured error types for pom-manipulation-ext.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - MalformedOperationError: operation micro-language parsing failures
//     (bad field count, dangling escape)
//   - MalformedCoordinateError: group:artifact:version triples with the
//     wrong field count
//   - PathNotFoundError: patch paths that resolve to no node in the target
//     document
//   - PolicyViolationError: strict alignment mismatches when violations are
//     configured to fail the build
//
// # Usage with errors.Is
//
//	ops, err := opspec.Parse(raw)
//	if err != nil {
//	    var opErr *pomerrors.MalformedOperationError
//	    if errors.As(err, &opErr) {
//	        // opErr.Spec names the offending record substring
//	    }
//	}
package pomerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrMalformedOperation indicates an operation spec could not be parsed.
	ErrMalformedOperation = errors.New("malformed operation")

	// ErrMalformedCoordinate indicates a GAV triple could not be parsed.
	ErrMalformedCoordinate = errors.New("malformed coordinate")

	// ErrPathNotFound indicates a patch path resolved to no node.
	ErrPathNotFound = errors.New("path not found")

	// ErrPolicyViolation indicates a fatal strict-alignment mismatch.
	ErrPolicyViolation = errors.New("alignment policy violation")
)

// MalformedOperationError represents a failure to parse an encoded edit
// operation. It carries the offending record substring so callers can produce
// an actionable diagnostic without re-parsing the spec.
type MalformedOperationError struct {
	// Spec is the raw record substring that failed to parse
	Spec string
	// Message describes the parsing failure
	Message string
}

// Error returns a human-readable error message.
func (e *MalformedOperationError) Error() string {
	msg := "malformed operation"
	if e.Spec != "" {
		msg += fmt.Sprintf(" %q", e.Spec)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *MalformedOperationError) Is(target error) bool {
	return target == ErrMalformedOperation
}

// MalformedCoordinateError represents a group:artifact:version triple with
// the wrong field count.
type MalformedCoordinateError struct {
	// Coordinate is the raw triple that failed to parse
	Coordinate string
	// Message describes the parsing failure
	Message string
}

// Error returns a human-readable error message.
func (e *MalformedCoordinateError) Error() string {
	msg := "malformed coordinate"
	if e.Coordinate != "" {
		msg += fmt.Sprintf(" %q", e.Coordinate)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *MalformedCoordinateError) Is(target error) bool {
	return target == ErrMalformedCoordinate
}

// PathNotFoundError represents a patch path that resolved to no existing
// node in the target document. The patcher never creates missing nodes, so
// this is a hard failure for the operation that raised it.
type PathNotFoundError struct {
	// Path is the path expression that failed to resolve
	Path string
	// Target identifies the document the operation was aimed at
	Target string
}

// Error returns a human-readable error message.
func (e *PathNotFoundError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("path %q not found in %s", e.Path, e.Target)
	}
	return fmt.Sprintf("path %q not found", e.Path)
}

// Is reports whether target matches this error type.
func (e *PathNotFoundError) Is(target error) bool {
	return target == ErrPathNotFound
}

// PolicyViolationError represents a strict alignment mismatch that is
// configured to fail the build (strictViolationFails=true).
type PolicyViolationError struct {
	// Group and Artifact identify the dependency being aligned
	Group    string
	Artifact string
	// Candidate is the version proposed for alignment
	Candidate string
	// Managed is the authoritative version from the managed candidate set
	Managed string
}

// Error returns a human-readable error message.
func (e *PolicyViolationError) Error() string {
	if e.Group != "" || e.Artifact != "" {
		return fmt.Sprintf("strict alignment violation for %s:%s: candidate %q does not match managed %q",
			e.Group, e.Artifact, e.Candidate, e.Managed)
	}
	return fmt.Sprintf("strict alignment violation: candidate %q does not match managed %q",
		e.Candidate, e.Managed)
}

// Is reports whether target matches this error type.
func (e *PolicyViolationError) Is(target error) bool {
	return target == ErrPolicyViolation
}

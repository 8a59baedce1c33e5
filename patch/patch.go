// Package patch applies parsed operations to JSON and YAML document trees.
//
// Each operation addresses a single node by JSONPath. A non-nil value
// replaces the node; a nil value removes it. Paths never create nodes:
// an operation whose path resolves to nothing fails with a
// pomerrors.PathNotFoundError, one whose path does not parse fails with a
// pomerrors.MalformedOperationError, and either failure leaves the document
// untouched.
//
// ApplyAll runs a sequence of operations in declaration order and is
// fail-fast but not transactional: operations applied before a failure
// stay applied.
package patch

import (
	"fmt"

	"github.com/vorburger/pom-manipulation-ext/internal/jsonpath"
	"github.com/vorburger/pom-manipulation-ext/opspec"
	"github.com/vorburger/pom-manipulation-ext/pomerrors"
)

// ChangeRecord describes one successfully applied operation.
type ChangeRecord struct {
	// Index is the operation's position in the applied sequence.
	Index int `json:"index" yaml:"index"`
	// Target is the document identifier the operation addressed.
	Target string `json:"target" yaml:"target"`
	// Path is the JSONPath that located the node.
	Path string `json:"path" yaml:"path"`
	// Operation is "replace" or "remove".
	Operation string `json:"operation" yaml:"operation"`
}

// Result collects the outcome of an ApplyAll run.
type Result struct {
	// Changes lists applied operations in order.
	Changes []ChangeRecord `json:"changes" yaml:"changes"`
	// Applied is the number of operations that took effect.
	Applied int `json:"applied" yaml:"applied"`
}

// Apply applies a single operation to the document tree in place.
//
// The tree is the map[string]any / []any structure produced by docio or any
// JSON/YAML unmarshaling. On failure the tree is left unmodified.
func Apply(doc any, op opspec.Operation) error {
	path, err := jsonpath.Parse(op.Path)
	if err != nil {
		return &pomerrors.MalformedOperationError{
			Spec:    op.String(),
			Message: fmt.Sprintf("invalid path %q: %v", op.Path, err),
		}
	}

	if !op.HasValue() {
		if err := path.RemoveFirst(doc); err != nil {
			return &pomerrors.PathNotFoundError{Path: op.Path, Target: op.Target}
		}
		return nil
	}

	if err := path.SetFirst(doc, *op.Value); err != nil {
		return &pomerrors.PathNotFoundError{Path: op.Path, Target: op.Target}
	}
	return nil
}

// ApplyAll applies operations sequentially in declaration order.
//
// It stops at the first failing operation and returns the error together
// with the result accumulated so far; earlier operations are not rolled
// back.
func ApplyAll(doc any, ops []opspec.Operation) (*Result, error) {
	result := &Result{}

	for i, op := range ops {
		if err := Apply(doc, op); err != nil {
			return result, err
		}
		result.Changes = append(result.Changes, ChangeRecord{
			Index:     i,
			Target:    op.Target,
			Path:      op.Path,
			Operation: operationName(op),
		})
		result.Applied++
	}

	return result, nil
}

func operationName(op opspec.Operation) string {
	if op.HasValue() {
		return "replace"
	}
	return "remove"
}

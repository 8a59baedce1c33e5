// Package opspec parses the operation micro-language used to encode file-edit
// operations into a single configuration property value.
//
// A spec string holds zero or more records separated by an unescaped comma.
// Each record is three fields separated by unescaped colons:
//
//	target:path:value
//
// where target names a document, path is a path expression evaluated against
// that document, and value is the replacement value (which may be empty).
// Either delimiter may appear as a literal character inside a field when
// preceded by a backslash; a literal backslash is written as a doubled
// backslash:
//
//	registry.json:$xpath-with\:and\,:replace with \,\:literal_delimiters
//
// Fields are whitespace-significant: leading and trailing spaces are kept
// verbatim because values may contain meaningful spaces.
package opspec

import (
	"strings"

	"github.com/vorburger/pom-manipulation-ext/pomerrors"
)

const (
	recordDelimiter = ','
	fieldDelimiter  = ':'
	escapeChar      = '\\'
)

// fieldsPerRecord is the exact field count a record must produce. A record
// with a missing or extra unescaped delimiter is ambiguous and rejected.
const fieldsPerRecord = 3

// Operation is a single parsed edit instruction: set the node located by
// Path inside the document named Target to Value. Operations are immutable
// once parsed and are applied in declaration order.
type Operation struct {
	// Target is the document identifier the operation applies to.
	Target string

	// Path is the path expression locating the node to modify.
	Path string

	// Value is the replacement value. The parser always produces a non-nil
	// value (possibly empty); a nil value is the programmatic way to request
	// removal of the located node instead of replacement.
	Value *string
}

// HasValue reports whether the operation carries a replacement value.
// Operations without a value request removal of the located node.
func (o Operation) HasValue() bool {
	return o.Value != nil
}

// String re-encodes the operation in spec syntax with all delimiters escaped.
// Parsing the result yields an operation with identical fields.
func (o Operation) String() string {
	var b strings.Builder
	b.WriteString(Escape(o.Target))
	b.WriteByte(fieldDelimiter)
	b.WriteString(Escape(o.Path))
	b.WriteByte(fieldDelimiter)
	if o.Value != nil {
		b.WriteString(Escape(*o.Value))
	}
	return b.String()
}

// Escape quotes every delimiter and escape character in s so that it survives
// a round trip through Parse as a literal field.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case recordDelimiter, fieldDelimiter, escapeChar:
			b.WriteByte(escapeChar)
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Parse tokenizes a spec string into its ordered sequence of operations.
//
// The scan proceeds left to right tracking escape state per character: an
// unescaped record delimiter closes the current operation, an unescaped field
// delimiter advances to the next field, and an escaped character (delimiter
// or not) is copied into the current field literally. An escape character at
// end of input has nothing to quote and fails. A record that does not produce
// exactly three fields fails with a pomerrors.MalformedOperationError naming
// the offending record substring; nothing after the failing record is parsed.
//
// An empty spec yields no operations. A single trailing record delimiter is
// tolerated.
func Parse(spec string) ([]Operation, error) {
	s := &scanner{input: spec}
	var ops []Operation

	for {
		fields, raw, err := s.nextRecord()
		if err != nil {
			return nil, err
		}
		if fields == nil {
			return ops, nil
		}
		if len(fields) == 1 && fields[0] == "" {
			return nil, &pomerrors.MalformedOperationError{
				Spec:    raw,
				Message: "empty operation record",
			}
		}

		op, err := toOperation(fields, raw)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
}

// toOperation converts a record's resolved fields into an Operation,
// enforcing the exact field count.
func toOperation(fields []string, raw string) (Operation, error) {
	if len(fields) != fieldsPerRecord {
		msg := "expected target:path:value"
		if len(fields) < fieldsPerRecord {
			msg += " (missing field)"
		} else {
			msg += " (unescaped delimiter in a field?)"
		}
		return Operation{}, &pomerrors.MalformedOperationError{
			Spec:    raw,
			Message: msg,
		}
	}
	if fields[0] == "" {
		return Operation{}, &pomerrors.MalformedOperationError{
			Spec:    raw,
			Message: "empty target",
		}
	}
	value := fields[2]
	return Operation{
		Target: fields[0],
		Path:   fields[1],
		Value:  &value,
	}, nil
}

// scanner walks the spec string one character at a time, resolving escapes.
type scanner struct {
	input string
	pos   int
}

// nextRecord consumes one record up to an unescaped record delimiter or end
// of input. It returns the record's resolved fields and the raw
// (still-escaped) record substring for diagnostics. A nil fields slice means
// the input is exhausted.
func (s *scanner) nextRecord() ([]string, string, error) {
	if s.pos >= len(s.input) {
		return nil, "", nil
	}

	start := s.pos
	var fields []string
	var field strings.Builder

	for s.pos < len(s.input) {
		ch := s.input[s.pos]

		switch ch {
		case escapeChar:
			if s.pos+1 >= len(s.input) {
				return nil, "", &pomerrors.MalformedOperationError{
					Spec:    s.input[start:],
					Message: "dangling escape character at end of input",
				}
			}
			// The escape is consumed; the next character is copied
			// literally whether or not it is a delimiter.
			field.WriteByte(s.input[s.pos+1])
			s.pos += 2

		case fieldDelimiter:
			fields = append(fields, field.String())
			field.Reset()
			s.pos++

		case recordDelimiter:
			raw := s.input[start:s.pos]
			s.pos++
			fields = append(fields, field.String())
			return fields, raw, nil

		default:
			field.WriteByte(ch)
			s.pos++
		}
	}

	fields = append(fields, field.String())
	return fields, s.input[start:], nil
}

// Package jsonpath provides the minimal JSONPath implementation backing the
// document patcher.
//
// Each patch operation addresses exactly one node, so evaluation uses
// first-match semantics: the first node reached in document order wins.
// The supported syntax is the subset the operation micro-language produces:
//
//   - $ (root)
//   - .field or ['field'] (child access)
//   - .* or [*] (wildcard - all children)
//   - [0] (array index, negative counts from the end)
//   - ..field or ..[0] (recursive descent)
//
// Not supported:
//   - [?expr] filters
//   - [start:end:step] array slicing
//
// Wildcard and recursive traversal over objects visits keys in sorted order
// so that "first match" is deterministic across runs.
package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Path represents a parsed JSONPath expression.
type Path struct {
	raw      string
	segments []Segment
}

// String returns the original JSONPath expression.
func (p *Path) String() string {
	return p.raw
}

// Segment represents a single segment in a JSONPath expression.
type Segment interface {
	// segmentType returns a string identifying the segment type for debugging.
	segmentType() string
}

// RootSegment represents the root selector ($).
type RootSegment struct{}

func (s RootSegment) segmentType() string { return "root" }

// ChildSegment represents a child property selector (.field or ['field']).
type ChildSegment struct {
	Key string
}

func (s ChildSegment) segmentType() string { return "child" }

// WildcardSegment represents a wildcard selector (.* or [*]).
type WildcardSegment struct{}

func (s WildcardSegment) segmentType() string { return "wildcard" }

// IndexSegment represents an array index selector ([n]).
type IndexSegment struct {
	Index int
}

func (s IndexSegment) segmentType() string { return "index" }

// RecursiveSegment represents recursive descent to a child selector (..field).
type RecursiveSegment struct {
	Child Segment
}

func (s RecursiveSegment) segmentType() string { return "recursive" }

// Parse parses a JSONPath expression string into a Path.
//
// Examples:
//
//	Parse("$.repository.url")
//	Parse("$.plugins[0].description")
//	Parse("$..plugins[0].description")
func Parse(expr string) (*Path, error) {
	if expr == "" {
		return nil, fmt.Errorf("jsonpath: empty expression")
	}

	p := &parser{
		input: expr,
		pos:   0,
	}

	segments, err := p.parse()
	if err != nil {
		return nil, err
	}

	return &Path{
		raw:      expr,
		segments: segments,
	}, nil
}

// parser is the internal JSONPath parser.
type parser struct {
	input string
	pos   int
}

func (p *parser) parse() ([]Segment, error) {
	var segments []Segment

	// Must start with $
	if !p.consume('$') {
		return nil, fmt.Errorf("jsonpath: expression must start with '$'")
	}
	segments = append(segments, RootSegment{})

	// Parse remaining segments
	for p.pos < len(p.input) {
		ch := p.peek()

		switch ch {
		case '.':
			p.advance()
			seg, err := p.parseDotSegment()
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)

		case '[':
			p.advance()
			seg, err := p.parseBracketSegment()
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)

		default:
			return nil, fmt.Errorf("jsonpath: unexpected character %q at position %d", ch, p.pos)
		}
	}

	return segments, nil
}

func (p *parser) parseDotSegment() (Segment, error) {
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("jsonpath: unexpected end after '.'")
	}

	// A second dot starts recursive descent; the selector after it is the
	// child applied at every depth.
	if p.peek() == '.' {
		p.advance()
		return p.parseRecursiveSegment()
	}

	// Check for wildcard
	if p.peek() == '*' {
		p.advance()
		return WildcardSegment{}, nil
	}

	// Parse identifier
	key := p.parseIdentifier()
	if key == "" {
		return nil, fmt.Errorf("jsonpath: expected identifier after '.' at position %d", p.pos)
	}

	return ChildSegment{Key: key}, nil
}

func (p *parser) parseRecursiveSegment() (Segment, error) {
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("jsonpath: unexpected end after '..'")
	}

	if p.peek() == '[' {
		p.advance()
		child, err := p.parseBracketSegment()
		if err != nil {
			return nil, err
		}
		return RecursiveSegment{Child: child}, nil
	}

	if p.peek() == '*' {
		p.advance()
		return RecursiveSegment{Child: WildcardSegment{}}, nil
	}

	key := p.parseIdentifier()
	if key == "" {
		return nil, fmt.Errorf("jsonpath: expected identifier after '..' at position %d", p.pos)
	}

	return RecursiveSegment{Child: ChildSegment{Key: key}}, nil
}

func (p *parser) parseBracketSegment() (Segment, error) {
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("jsonpath: unexpected end after '['")
	}

	ch := p.peek()

	// Wildcard: [*]
	if ch == '*' {
		p.advance()
		if !p.consume(']') {
			return nil, fmt.Errorf("jsonpath: expected ']' after '[*'")
		}
		return WildcardSegment{}, nil
	}

	// Quoted string: ['key'] or ["key"]
	if ch == '\'' || ch == '"' {
		quote := ch
		p.advance()
		key, err := p.parseQuotedString(quote)
		if err != nil {
			return nil, err
		}
		if !p.consume(']') {
			return nil, fmt.Errorf("jsonpath: expected ']' after quoted key")
		}
		return ChildSegment{Key: key}, nil
	}

	// Numeric index
	if unicode.IsDigit(rune(ch)) || ch == '-' {
		numStr := p.parseNumber()
		if !p.consume(']') {
			return nil, fmt.Errorf("jsonpath: expected ']' after index")
		}
		idx, err := strconv.Atoi(numStr)
		if err != nil {
			return nil, fmt.Errorf("jsonpath: invalid index %q: %w", numStr, err)
		}
		return IndexSegment{Index: idx}, nil
	}

	return nil, fmt.Errorf("jsonpath: unexpected character %q in bracket at position %d", ch, p.pos)
}

func (p *parser) parseIdentifier() string {
	start := p.pos
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if isIdentChar(ch) {
			p.pos++
		} else {
			break
		}
	}
	return p.input[start:p.pos]
}

func (p *parser) parseQuotedString(quote byte) (string, error) {
	var result strings.Builder
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch == quote {
			p.pos++
			return result.String(), nil
		}
		if ch == '\\' && p.pos+1 < len(p.input) {
			p.pos++
			escaped := p.input[p.pos]
			switch escaped {
			case 'n':
				result.WriteByte('\n')
			case 't':
				result.WriteByte('\t')
			default:
				result.WriteByte(escaped)
			}
			p.pos++
			continue
		}
		result.WriteByte(ch)
		p.pos++
	}
	return "", fmt.Errorf("jsonpath: unterminated string at position %d", p.pos)
}

func (p *parser) parseNumber() string {
	start := p.pos
	if p.pos < len(p.input) && p.input[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.input) && unicode.IsDigit(rune(p.input[p.pos])) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) advance() {
	if p.pos < len(p.input) {
		p.pos++
	}
}

func (p *parser) consume(ch byte) bool {
	if p.peek() == ch {
		p.advance()
		return true
	}
	return false
}

func isIdentChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_' || ch == '-'
}

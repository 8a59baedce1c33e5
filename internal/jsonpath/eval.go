package jsonpath

import (
	"fmt"
	"reflect"
	"sort"
)

// First evaluates the path against the document and returns the first
// matching value in document order.
//
// The document should be a map[string]any or []any structure (typically from
// JSON/YAML unmarshaling). The second return value reports whether a match
// was found.
func (p *Path) First(doc any) (any, bool) {
	matches := p.eval(doc)
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}

// All evaluates the path against the document and returns every matching
// value in document order. Returns nil if nothing matches.
func (p *Path) All(doc any) []any {
	return p.eval(doc)
}

// SetFirst replaces the value at the first matching location. A trailing
// wildcard or recursive segment is expanded to its first concrete match, so
// any path that First resolves can also be set.
//
// The full path must already resolve: replacing a value never creates
// intermediate nodes or new keys. The document is modified in place.
// Returns an error if nothing matches.
func (p *Path) SetFirst(doc any, value any) error {
	if len(p.segments) < 2 {
		return fmt.Errorf("jsonpath: cannot set on root path")
	}

	loc, ok := p.firstLocation(doc)
	if !ok {
		return fmt.Errorf("jsonpath: no matches for %s", p.raw)
	}
	return setIn(loc.parent, loc.seg, value)
}

// RemoveFirst deletes the node at the first matching location.
//
// Map entries are deleted by key. Array elements are spliced out, shifting
// later elements down. The document is modified in place. Returns an error
// if nothing matches.
func (p *Path) RemoveFirst(doc any) error {
	if len(p.segments) < 2 {
		return fmt.Errorf("jsonpath: cannot remove root")
	}

	loc, ok := p.firstLocation(doc)
	if !ok {
		return fmt.Errorf("jsonpath: no matches for %s", p.raw)
	}
	return p.removeIn(doc, loc)
}

func (p *Path) parentPath() *Path {
	return &Path{
		raw:      p.raw,
		segments: p.segments[:len(p.segments)-1],
	}
}

func (p *Path) eval(doc any) []any {
	if len(p.segments) == 0 {
		return nil
	}

	// Start with root
	current := []any{doc}

	// Apply each segment after root
	for i := 1; i < len(p.segments); i++ {
		current = applySegment(current, p.segments[i])
		if len(current) == 0 {
			return nil
		}
	}

	return current
}

// applySegment applies a segment to a list of current nodes and returns the results.
func applySegment(current []any, seg Segment) []any {
	var results []any

	for _, node := range current {
		switch s := seg.(type) {
		case ChildSegment:
			if m, ok := node.(map[string]any); ok {
				if val, exists := m[s.Key]; exists {
					results = append(results, val)
				}
			}

		case WildcardSegment:
			switch v := node.(type) {
			case map[string]any:
				for _, key := range sortedKeys(v) {
					results = append(results, v[key])
				}
			case []any:
				results = append(results, v...)
			}

		case IndexSegment:
			if arr, ok := node.([]any); ok {
				idx := normalizeIndex(s.Index, len(arr))
				if idx >= 0 {
					results = append(results, arr[idx])
				}
			}

		case RecursiveSegment:
			results = append(results, recursiveDescend(node, s.Child)...)
		}
	}

	return results
}

// recursiveDescend applies the child selector at this node and every
// descendant, depth-first with the current node before its children.
func recursiveDescend(node any, child Segment) []any {
	results := applySegment([]any{node}, child)

	switch v := node.(type) {
	case map[string]any:
		for _, key := range sortedKeys(v) {
			results = append(results, recursiveDescend(v[key], child)...)
		}
	case []any:
		for _, elem := range v {
			results = append(results, recursiveDescend(elem, child)...)
		}
	}

	return results
}

// location is a concrete node address: the container holding the node and
// the child or index segment selecting it within that container.
type location struct {
	parent any
	seg    Segment
}

// firstLocation resolves the path to the first concrete location it
// addresses, mirroring the match order of First.
func (p *Path) firstLocation(doc any) (location, bool) {
	parents := p.parentPath().eval(doc)
	last := p.segments[len(p.segments)-1]

	for _, parent := range parents {
		if locs := expandSegment(parent, last); len(locs) > 0 {
			return locs[0], true
		}
	}
	return location{}, false
}

// expandSegment resolves seg against parent into concrete child and index
// locations in document order. Wildcard and recursive segments fan out to
// every existing node they select; indexes are normalized.
func expandSegment(parent any, seg Segment) []location {
	switch s := seg.(type) {
	case ChildSegment:
		if m, ok := parent.(map[string]any); ok {
			if _, exists := m[s.Key]; exists {
				return []location{{parent: parent, seg: s}}
			}
		}

	case IndexSegment:
		if arr, ok := parent.([]any); ok {
			if idx := normalizeIndex(s.Index, len(arr)); idx >= 0 {
				return []location{{parent: parent, seg: IndexSegment{Index: idx}}}
			}
		}

	case WildcardSegment:
		var locs []location
		switch v := parent.(type) {
		case map[string]any:
			for _, key := range sortedKeys(v) {
				locs = append(locs, location{parent: parent, seg: ChildSegment{Key: key}})
			}
		case []any:
			for i := range v {
				locs = append(locs, location{parent: parent, seg: IndexSegment{Index: i}})
			}
		}
		return locs

	case RecursiveSegment:
		return recursiveLocations(parent, s.Child)
	}
	return nil
}

// recursiveLocations expands the child selector at node and at every
// descendant, depth-first with the node before its children. The order
// matches recursiveDescend.
func recursiveLocations(node any, child Segment) []location {
	locs := expandSegment(node, child)

	switch v := node.(type) {
	case map[string]any:
		for _, key := range sortedKeys(v) {
			locs = append(locs, recursiveLocations(v[key], child)...)
		}
	case []any:
		for _, elem := range v {
			locs = append(locs, recursiveLocations(elem, child)...)
		}
	}

	return locs
}

// setIn replaces the value at a concrete location. Expansion has already
// reduced the segment to a child key or normalized index.
func setIn(parent any, seg Segment, value any) error {
	switch s := seg.(type) {
	case ChildSegment:
		m, ok := parent.(map[string]any)
		if !ok {
			return fmt.Errorf("jsonpath: cannot set child on non-object")
		}
		m[s.Key] = value
		return nil

	case IndexSegment:
		arr, ok := parent.([]any)
		if !ok {
			return fmt.Errorf("jsonpath: cannot set index on non-array")
		}
		idx := normalizeIndex(s.Index, len(arr))
		if idx < 0 {
			return fmt.Errorf("jsonpath: index %d out of bounds", s.Index)
		}
		arr[idx] = value
		return nil

	default:
		return fmt.Errorf("jsonpath: unsupported segment type for set")
	}
}

// removeIn deletes the node at a concrete location. Splicing an array
// element changes the slice header, so the shortened slice has to be written
// back through the container holding the array.
func (p *Path) removeIn(doc any, loc location) error {
	switch s := loc.seg.(type) {
	case ChildSegment:
		m, ok := loc.parent.(map[string]any)
		if !ok {
			return fmt.Errorf("jsonpath: cannot remove child from non-object")
		}
		delete(m, s.Key)
		return nil

	case IndexSegment:
		arr, ok := loc.parent.([]any)
		if !ok {
			return fmt.Errorf("jsonpath: cannot remove index from non-array")
		}
		idx := normalizeIndex(s.Index, len(arr))
		if idx < 0 {
			return fmt.Errorf("jsonpath: index %d out of bounds", s.Index)
		}
		spliced := append(arr[:idx:idx], arr[idx+1:]...)
		return p.replaceParent(doc, arr, spliced)

	default:
		return fmt.Errorf("jsonpath: unsupported segment type for remove")
	}
}

// replaceParent writes newParent over the first reference to oldParent.
// Containers are matched by pointer identity, so the scan can start at the
// document root no matter how deep the expanded path landed.
func (p *Path) replaceParent(doc any, oldParent any, newParent any) error {
	if sameNode(doc, oldParent) {
		return fmt.Errorf("jsonpath: cannot splice the document root")
	}
	if spliceAnywhere(doc, oldParent, newParent) {
		return nil
	}
	return fmt.Errorf("jsonpath: could not locate parent container for %s", p.raw)
}

// spliceAnywhere walks node and replaces the first reference to oldParent
// with newParent.
func spliceAnywhere(node any, oldParent any, newParent any) bool {
	switch v := node.(type) {
	case map[string]any:
		for _, key := range sortedKeys(v) {
			if sameNode(v[key], oldParent) {
				v[key] = newParent
				return true
			}
			if spliceAnywhere(v[key], oldParent, newParent) {
				return true
			}
		}
	case []any:
		for i, elem := range v {
			if sameNode(elem, oldParent) {
				v[i] = newParent
				return true
			}
			if spliceAnywhere(elem, oldParent, newParent) {
				return true
			}
		}
	}
	return false
}

// sameNode reports whether two values are the same container instance.
// Only maps and non-empty slices are compared: distinct zero-length slices
// can share the runtime's zero-size allocation and would alias, and scalars
// are never spliced.
func sameNode(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		return ok && reflect.ValueOf(av).Pointer() == reflect.ValueOf(bv).Pointer()
	case []any:
		bv, ok := b.([]any)
		return ok && len(av) > 0 && len(av) == len(bv) &&
			reflect.ValueOf(av).Pointer() == reflect.ValueOf(bv).Pointer()
	}
	return false
}

func normalizeIndex(idx, length int) int {
	if idx < 0 {
		idx = length + idx
	}
	if idx < 0 || idx >= length {
		return -1
	}
	return idx
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

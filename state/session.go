package state

import "sort"

// Session carries the accumulated outcome of one build pass.
//
// The property-update map only grows: alignment phases merge their results
// in, and the reporting phase reads the final map. A session belongs to a
// single goroutine and is discarded when the pass ends.
type Session struct {
	props   Properties
	updates map[string]string
}

// NewSession starts a session over the given user properties.
func NewSession(props Properties) *Session {
	return &Session{
		props:   props,
		updates: make(map[string]string),
	}
}

// Properties returns the user properties the session was started with.
func (s *Session) Properties() Properties {
	return s.props
}

// MergePropertyUpdates folds an alignment result's property updates into
// the session. Later merges win on key collision.
func (s *Session) MergePropertyUpdates(updates map[string]string) {
	for k, v := range updates {
		s.updates[k] = v
	}
}

// PropertyUpdates returns the accumulated updates keyed by property name.
// The returned map is the session's own; callers must not mutate it.
func (s *Session) PropertyUpdates() map[string]string {
	return s.updates
}

// SortedPropertyKeys returns the update keys in ascending order, for
// deterministic reporting.
func (s *Session) SortedPropertyKeys() []string {
	keys := make([]string, 0, len(s.updates))
	for k := range s.updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

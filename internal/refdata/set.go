package refdata

import "strings"

// Set is an immutable snapshot of every lookup category. It is shared
// read-only across the whole form workflow; a refetch replaces the snapshot
// wholesale rather than mutating it.
type Set struct {
	byCategory map[string][]Option
}

// NewSet builds a snapshot from normalized category lists.
func NewSet(categories map[string][]Option) *Set {
	copied := make(map[string][]Option, len(categories))
	for cat, opts := range categories {
		copied[cat] = append([]Option(nil), opts...)
	}
	return &Set{byCategory: copied}
}

// Options returns the options for a category, or nil when absent.
func (s *Set) Options(category string) []Option {
	if s == nil {
		return nil
	}
	return s.byCategory[category]
}

// Loaded reports whether a category has at least one option.
func (s *Set) Loaded(category string) bool {
	return len(s.Options(category)) > 0
}

// ByID finds an option by id within a category.
func (s *Set) ByID(category, id string) (Option, bool) {
	for _, o := range s.Options(category) {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Label resolves an id to its display name, or "" when unresolved.
func (s *Set) Label(category, id string) string {
	if o, ok := s.ByID(category, id); ok {
		return o.Name
	}
	return ""
}

// FindNameContains returns the first option whose name contains the given
// substring, case-insensitive. Used for the "submitted"/"booking"/"override"
// defaulting rules.
func (s *Set) FindNameContains(category, substr string) (Option, bool) {
	needle := strings.ToLower(substr)
	for _, o := range s.Options(category) {
		if strings.Contains(strings.ToLower(o.Name), needle) {
			return o, true
		}
	}
	return Option{}, false
}

// First returns the first option of a category.
func (s *Set) First(category string) (Option, bool) {
	opts := s.Options(category)
	if len(opts) == 0 {
		return Option{}, false
	}
	return opts[0], true
}

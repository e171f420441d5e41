package mimemagic

// ============================================================================
// TypeSelector Interface
// ============================================================================

// TypeSelector decides whether a resolved type is acceptable.
// Selectors compose with And, Or and Not.
//
// Example:
//
//	images := mimemagic.And(
//	    mimemagic.Glob("image/*"),
//	    mimemagic.Not(mimemagic.Glob("image/svg+xml")),
//	)
//	ok := images.Match(t)
type TypeSelector interface {
	Match(t Type) bool
}

// ============================================================================
// Built-in Selectors
// ============================================================================

// AllSelector matches every non-zero type.
type AllSelector struct{}

// Match accepts every non-zero type
func (AllSelector) Match(t Type) bool { return !t.IsZero() }

// All returns a selector that matches everything.
func All() TypeSelector {
	return AllSelector{}
}

type globSelector struct {
	patterns []string
}

// Glob matches the type identifier against any of the patterns,
// e.g. Glob("image/*", "application/pdf").
func Glob(patterns ...string) TypeSelector {
	return &globSelector{patterns: patterns}
}

func (s *globSelector) Match(t Type) bool {
	for _, p := range s.patterns {
		if t.Matches(p) {
			return true
		}
	}
	return false
}

type descendantSelector struct {
	ancestors []string
}

// DescendantOf matches types that are, or derive from, any of the ancestors.
// DescendantOf("text/plain") accepts every text format.
func DescendantOf(ancestors ...string) TypeSelector {
	return &descendantSelector{ancestors: ancestors}
}

func (s *descendantSelector) Match(t Type) bool {
	for _, a := range s.ancestors {
		if t.IsDescendantOf(a) {
			return true
		}
	}
	return false
}

type mediaTypeSelector struct {
	mediaTypes map[string]struct{}
}

// MediaTypes matches on the part before the slash.
func MediaTypes(mediaTypes ...string) TypeSelector {
	s := &mediaTypeSelector{mediaTypes: make(map[string]struct{}, len(mediaTypes))}
	for _, m := range mediaTypes {
		s.mediaTypes[m] = struct{}{}
	}
	return s
}

func (s *mediaTypeSelector) Match(t Type) bool {
	_, ok := s.mediaTypes[t.MediaType()]
	return ok
}

// ============================================================================
// Composite Selectors
// ============================================================================

type andSelector struct {
	selectors []TypeSelector
}

// And matches when every selector matches.
func And(selectors ...TypeSelector) TypeSelector {
	return &andSelector{selectors: selectors}
}

func (s *andSelector) Match(t Type) bool {
	for _, sel := range s.selectors {
		if !sel.Match(t) {
			return false
		}
	}
	return true
}

type orSelector struct {
	selectors []TypeSelector
}

// Or matches when any selector matches.
func Or(selectors ...TypeSelector) TypeSelector {
	return &orSelector{selectors: selectors}
}

func (s *orSelector) Match(t Type) bool {
	for _, sel := range s.selectors {
		if sel.Match(t) {
			return true
		}
	}
	return false
}

type notSelector struct {
	selector TypeSelector
}

// Not inverts a selector.
func Not(selector TypeSelector) TypeSelector {
	return &notSelector{selector: selector}
}

func (s *notSelector) Match(t Type) bool {
	return !s.selector.Match(t)
}

// FuncSelector adapts a function to TypeSelector.
type FuncSelector func(t Type) bool

// Match calls f
func (f FuncSelector) Match(t Type) bool { return f(t) }

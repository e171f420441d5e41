package mimemagic

import (
	"fmt"
	"math"
)

// OffsetKind distinguishes the two ways a rule locates its value
type OffsetKind uint8

const (
	// OffsetFixed requires the value to start exactly at Start
	OffsetFixed OffsetKind = iota
	// OffsetRange allows the value to start anywhere in [Start, End]
	OffsetRange
)

// Offset describes where a magic value is expected in a stream
type Offset struct {
	Kind  OffsetKind
	Start int64
	End   int64
}

// Fixed returns an offset that matches only at pos
func Fixed(pos int64) Offset {
	return Offset{Kind: OffsetFixed, Start: pos, End: pos}
}

// Range returns an offset that matches anywhere between start and end inclusive.
// The scanned window is (end - start) + len(value) bytes.
func Range(start, end int64) Offset {
	return Offset{Kind: OffsetRange, Start: start, End: end}
}

// String renders the offset the same way definition tables spell it
func (o Offset) String() string {
	if o.Kind == OffsetRange {
		return fmt.Sprintf("%d:%d", o.Start, o.End)
	}
	return fmt.Sprintf("%d", o.Start)
}

// MagicRule is one node of a rule-tree. A rule is satisfied when its own
// bytes match and, if it has children, at least one child is satisfied.
type MagicRule struct {
	Offset   Offset
	Value    []byte
	Children []MagicRule
}

// Rule creates a rule with a raw byte value
func Rule(off Offset, value []byte, children ...MagicRule) MagicRule {
	return MagicRule{Offset: off, Value: value, Children: children}
}

// RuleString creates a rule whose value is the bytes of s
func RuleString(off Offset, s string, children ...MagicRule) MagicRule {
	return MagicRule{Offset: off, Value: []byte(s), Children: children}
}

// With returns a copy of the rule with children appended
func (r MagicRule) With(children ...MagicRule) MagicRule {
	out := r
	out.Children = append(append([]MagicRule(nil), r.Children...), children...)
	return out
}

// window is the number of bytes read for this rule's own check. Huge ranges
// saturate at math.MaxInt64; the read is clamped by the stream anyway.
func (r MagicRule) window() int64 {
	if r.Offset.Kind == OffsetRange {
		return addCapped(r.Offset.End-r.Offset.Start, int64(len(r.Value)))
	}
	return int64(len(r.Value))
}

// extent is the largest stream offset this rule or any descendant can read up to
func (r MagicRule) extent() int64 {
	furthest := addCapped(r.Offset.Start, r.window())
	for _, c := range r.Children {
		furthest = max(furthest, c.extent())
	}
	return furthest
}

// addCapped adds two offsets, saturating at math.MaxInt64
func addCapped(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

func (r MagicRule) validate() error {
	if r.Offset.Start < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrInvalidRule, r.Offset.Start)
	}
	switch r.Offset.Kind {
	case OffsetFixed:
	case OffsetRange:
		if r.Offset.End < r.Offset.Start {
			return fmt.Errorf("%w: range %s ends before it starts", ErrInvalidRule, r.Offset)
		}
	default:
		return fmt.Errorf("%w: unknown offset kind %d", ErrInvalidRule, r.Offset.Kind)
	}
	for _, c := range r.Children {
		if err := c.validate(); err != nil {
			return err
		}
	}
	return nil
}

func cloneRules(rules []MagicRule) []MagicRule {
	if rules == nil {
		return nil
	}
	out := make([]MagicRule, len(rules))
	for i, r := range rules {
		out[i] = MagicRule{
			Offset:   r.Offset,
			Value:    append([]byte(nil), r.Value...),
			Children: cloneRules(r.Children),
		}
	}
	return out
}

// Candidate is one registered rule-tree as seen by the matcher
type Candidate struct {
	Type  string
	Rules []MagicRule
}

// ruleStore keeps rule-trees in evaluation order, newest first.
// It is guarded by the owning Registry's lock.
type ruleStore struct {
	candidates []Candidate
	maxExtent  int64
}

func (s *ruleStore) prepend(id string, rules []MagicRule) {
	c := Candidate{Type: id, Rules: rules}
	s.candidates = append([]Candidate{c}, s.candidates...)
	for _, r := range rules {
		if e := r.extent(); e > s.maxExtent {
			s.maxExtent = e
		}
	}
}

func (s *ruleStore) snapshot() []Candidate {
	out := make([]Candidate, len(s.candidates))
	for i, c := range s.candidates {
		out[i] = Candidate{Type: c.Type, Rules: cloneRules(c.Rules)}
	}
	return out
}

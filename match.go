package mimemagic

import (
	"bytes"
	"io"
)

// matchResult is the outcome of checking one rule's own bytes.
// A fault is a seek or read failure; it never escapes the matcher and is
// counted as a miss by the tree evaluation.
type matchResult uint8

const (
	matchMiss matchResult = iota
	matchHit
	matchFault
)

// Match reports whether any top-level rule in rules is satisfied by rs.
// The read position of rs is left at an unspecified offset.
func Match(rs io.ReadSeeker, rules []MagicRule) bool {
	for i := range rules {
		if satisfied(rs, &rules[i]) {
			return true
		}
	}
	return false
}

func satisfied(rs io.ReadSeeker, r *MagicRule) bool {
	// faults count as a miss for this node only
	if probe(rs, r) != matchHit {
		return false
	}
	if len(r.Children) == 0 {
		return true
	}
	return Match(rs, r.Children)
}

// probe checks a single rule's offset/value pair without looking at children
func probe(rs io.ReadSeeker, r *MagicRule) matchResult {
	n := r.window()
	if r.Offset.Start < 0 || n < 0 {
		log().Debug("magic rule outside stream", "offset", r.Offset.String())
		return matchFault
	}
	if _, err := rs.Seek(r.Offset.Start, io.SeekStart); err != nil {
		log().Debug("magic seek failed", "offset", r.Offset.String(), "error", err)
		return matchFault
	}

	// a short stream yields fewer bytes, not an error
	buf, err := io.ReadAll(io.LimitReader(rs, n))
	if err != nil {
		log().Debug("magic read failed", "offset", r.Offset.String(), "error", err)
		return matchFault
	}

	if r.Offset.Kind == OffsetRange {
		if bytes.Contains(buf, r.Value) {
			return matchHit
		}
		return matchMiss
	}
	if len(buf) == len(r.Value) && bytes.Equal(buf, r.Value) {
		return matchHit
	}
	return matchMiss
}

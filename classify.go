package mimemagic

import (
	"bytes"
	"fmt"
	"io"
)

// ByMagic returns the type of the first rule-tree, newest registration
// first, that matches rs. Stream errors while evaluating a rule count as
// a non-match for that rule and never abort the scan. The read position of
// rs is unspecified afterwards.
//
// This is a linear scan over every registered rule-tree.
func (r *Registry) ByMagic(rs io.ReadSeeker) (Type, bool) {
	if rs == nil {
		return Type{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byMagicLocked(rs)
}

func (r *Registry) byMagicLocked(rs io.ReadSeeker) (Type, bool) {
	for _, c := range r.magic.candidates {
		if Match(rs, c.Rules) {
			return r.Type(c.Type), true
		}
	}
	return Type{}, false
}

// scanState returns MaxScanLength and Generation as one consistent pair
func (r *Registry) scanState() (limit int64, generation uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.magic.maxExtent, r.generation
}

// matchHead cuts data to the scan length and matches it, all under one read
// lock. The returned head and generation describe the state that produced
// the result.
func (r *Registry) matchHead(data []byte) (t Type, found bool, head []byte, generation uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	head = truncateHead(data, r.magic.maxExtent)
	t, found = r.byMagicLocked(bytes.NewReader(head))
	return t, found, head, r.generation
}

func truncateHead(data []byte, limit int64) []byte {
	if int64(len(data)) > limit {
		return data[:limit]
	}
	return data
}

// ByMagicBytes wraps data in a seekable reader and runs ByMagic
func (r *Registry) ByMagicBytes(data []byte) (Type, bool) {
	return r.ByMagic(bytes.NewReader(data))
}

// ByMagicReader buffers the leading MaxScanLength bytes of an unseekable
// reader and matches against them. Only an error while buffering is
// returned; the matching itself cannot fail.
func (r *Registry) ByMagicReader(rd io.Reader) (Type, bool, error) {
	if rs, ok := rd.(io.ReadSeeker); ok {
		t, found := r.ByMagic(rs)
		return t, found, nil
	}
	head, err := io.ReadAll(io.LimitReader(rd, r.MaxScanLength()))
	if err != nil {
		return Type{}, false, fmt.Errorf("failed to read content for magic detection: %w", err)
	}
	t, found := r.ByMagicBytes(head)
	return t, found, nil
}

// ByMagic matches rs against the default registry
func ByMagic(rs io.ReadSeeker) (Type, bool) {
	return Default().ByMagic(rs)
}

// ByMagicBytes matches data against the default registry
func ByMagicBytes(data []byte) (Type, bool) {
	return Default().ByMagicBytes(data)
}

// ByMagicReader matches the head of rd against the default registry
func ByMagicReader(rd io.Reader) (Type, bool, error) {
	return Default().ByMagicReader(rd)
}

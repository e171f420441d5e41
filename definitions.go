package mimemagic

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definitions is the document format for type tables:
//
//	version: "1.0"
//	types:
//	  - type: image/gif
//	    extensions: [gif]
//	    magic:
//	      - offset: 0
//	        value: GIF87a
//	  - type: application/pdf
//	    extensions: [pdf]
//	    magic:
//	      - offset: "0:1024"
//	        value: "%PDF-"
//	  - type: audio/x-wav
//	    parents: [audio/x-riff]
//	    magic:
//	      - offset: 0
//	        value: RIFF
//	        children:
//	          - offset: 8
//	            value: WAVE
//
// Binary values are written with hex instead of value. Entries are
// registered in document order, so later entries take precedence when
// sniffing content.
type Definitions struct {
	Version string           `yaml:"version"`
	Types   []TypeDefinition `yaml:"types"`
}

// TypeDefinition is one entry of a definitions document
type TypeDefinition struct {
	Type       string           `yaml:"type"`
	Extensions []string         `yaml:"extensions,omitempty"`
	Parents    []string         `yaml:"parents,omitempty"`
	Magic      []RuleDefinition `yaml:"magic,omitempty"`
}

// RuleDefinition is the document form of a MagicRule
type RuleDefinition struct {
	Offset   Offset           `yaml:"offset"`
	Value    *string          `yaml:"value,omitempty"`
	Hex      *string          `yaml:"hex,omitempty"`
	Children []RuleDefinition `yaml:"children,omitempty"`
}

// UnmarshalYAML accepts an integer position or a "start:end" range
func (o *Offset) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: offset must be a scalar", ErrDefinitions, node.Line)
	}
	parsed, err := ParseOffset(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*o = parsed
	return nil
}

// MarshalYAML writes the offset in the form UnmarshalYAML reads
func (o Offset) MarshalYAML() (interface{}, error) {
	if o.Kind == OffsetFixed {
		return o.Start, nil
	}
	return o.String(), nil
}

// ParseOffset parses "12" as Fixed(12) and "0:256" as Range(0, 256)
func ParseOffset(s string) (Offset, error) {
	s = strings.TrimSpace(s)
	if before, after, ok := strings.Cut(s, ":"); ok {
		start, err1 := strconv.ParseInt(strings.TrimSpace(before), 0, 64)
		end, err2 := strconv.ParseInt(strings.TrimSpace(after), 0, 64)
		if err := errors.Join(err1, err2); err != nil {
			return Offset{}, fmt.Errorf("%w: bad range offset %q", ErrDefinitions, s)
		}
		return Range(start, end), nil
	}
	pos, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return Offset{}, fmt.Errorf("%w: bad offset %q", ErrDefinitions, s)
	}
	return Fixed(pos), nil
}

func (d RuleDefinition) rule() (MagicRule, error) {
	var value []byte
	switch {
	case d.Value != nil && d.Hex != nil:
		return MagicRule{}, fmt.Errorf("%w: rule at %s sets both value and hex", ErrDefinitions, d.Offset)
	case d.Value != nil:
		value = []byte(*d.Value)
	case d.Hex != nil:
		b, err := hex.DecodeString(strings.ReplaceAll(*d.Hex, " ", ""))
		if err != nil {
			return MagicRule{}, fmt.Errorf("%w: rule at %s: %v", ErrDefinitions, d.Offset, err)
		}
		value = b
	default:
		return MagicRule{}, fmt.Errorf("%w: rule at %s has no value", ErrDefinitions, d.Offset)
	}

	rule := MagicRule{Offset: d.Offset, Value: value}
	for _, c := range d.Children {
		child, err := c.rule()
		if err != nil {
			return MagicRule{}, err
		}
		rule.Children = append(rule.Children, child)
	}
	return rule, nil
}

// Rules converts the magic section into rules
func (d TypeDefinition) Rules() ([]MagicRule, error) {
	rules := make([]MagicRule, 0, len(d.Magic))
	for _, m := range d.Magic {
		r, err := m.rule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// ParseDefinitions decodes a definitions document without registering it
func ParseDefinitions(r io.Reader) (*Definitions, error) {
	var defs Definitions
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil {
		if errors.Is(err, io.EOF) {
			return &defs, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrDefinitions, err)
	}
	return &defs, nil
}

// Load parses a definitions document and adds every entry in order.
// Loading stops at the first entry that fails to register; entries before
// it stay registered.
func (r *Registry) Load(rd io.Reader) error {
	defs, err := ParseDefinitions(rd)
	if err != nil {
		return err
	}
	return r.Apply(defs)
}

// Apply registers already parsed definitions
func (r *Registry) Apply(defs *Definitions) error {
	for _, td := range defs.Types {
		rules, err := td.Rules()
		if err != nil {
			return &RegistrationError{Op: "load", Type: td.Type, Err: err}
		}
		if err := r.Add(td.Type, td.Extensions, td.Parents, rules...); err != nil {
			return err
		}
	}
	if defs.Version != "" {
		r.mu.Lock()
		r.version = defs.Version
		r.mu.Unlock()
	}
	log().Debug("loaded definitions", "version", defs.Version, "types", len(defs.Types))
	return nil
}

// LoadDefinitions builds a new registry from a definitions document
func LoadDefinitions(rd io.Reader) (*Registry, error) {
	reg := NewRegistry()
	if err := reg.Load(rd); err != nil {
		return nil, err
	}
	return reg, nil
}

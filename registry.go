package mimemagic

import (
	"bytes"
	_ "embed"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Version identifies this release of the package and its built-in table
const Version = "0.1.2"

// TypeRecord is the registered metadata for one type identifier
type TypeRecord struct {
	ID         string
	Extensions []string
	Parents    []string
}

func (r TypeRecord) clone() TypeRecord {
	return TypeRecord{
		ID:         r.ID,
		Extensions: slices.Clone(r.Extensions),
		Parents:    slices.Clone(r.Parents),
	}
}

// Registry holds type records, the extension index and the magic rule store.
// Reads may run concurrently; registration takes an exclusive lock so no
// reader observes a partially updated registry.
type Registry struct {
	mu         sync.RWMutex
	types      map[string]*TypeRecord
	extensions map[string]string
	magic      ruleStore
	version    string
	generation uint64
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		types:      make(map[string]*TypeRecord),
		extensions: make(map[string]string),
		version:    Version,
	}
}

// Add registers a type together with its extensions, parents and one
// rule-tree in a single step. The rule-tree is placed ahead of every
// previously registered tree, so it wins ties during content sniffing.
func (r *Registry) Add(id string, extensions, parents []string, rules ...MagicRule) error {
	if err := validateID(id); err != nil {
		return &RegistrationError{Op: "add", Type: id, Err: err}
	}
	for _, rule := range rules {
		if err := rule.validate(); err != nil {
			return &RegistrationError{Op: "add", Type: id, Err: err}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkParentsLocked(id, parents); err != nil {
		log().Warn("rejected type registration", "type", id, "error", err)
		return &RegistrationError{Op: "add", Type: id, Err: err}
	}

	r.putLocked(TypeRecord{ID: id, Extensions: extensions, Parents: parents})
	if len(rules) > 0 {
		r.magic.prepend(id, cloneRules(rules))
	}
	r.generation++

	log().Debug("registered type", "type", id, "extensions", len(extensions), "rules", len(rules))
	return nil
}

// Register inserts or replaces a type record. The extension index is
// updated; the magic rule store is untouched.
func (r *Registry) Register(rec TypeRecord) error {
	return r.Add(rec.ID, rec.Extensions, rec.Parents)
}

func (r *Registry) putLocked(rec TypeRecord) {
	rec = rec.clone()
	r.types[rec.ID] = &rec
	for _, ext := range rec.Extensions {
		key := normalizeExtension(ext)
		if key == "" {
			continue
		}
		r.extensions[key] = rec.ID
	}
}

// checkParentsLocked rejects parent edges that would make id its own ancestor
func (r *Registry) checkParentsLocked(id string, parents []string) error {
	for _, p := range parents {
		if p == id || r.isDescendantLocked(p, id) {
			return fmt.Errorf("%w: %s -> %s", ErrCyclicParent, id, p)
		}
	}
	return nil
}

func validateID(id string) error {
	i := strings.IndexByte(id, '/')
	if i <= 0 || i == len(id)-1 || strings.ContainsAny(id, " \t\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidType, id)
	}
	return nil
}

// Lookup returns a copy of the record registered for id
func (r *Registry) Lookup(id string) (TypeRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.types[id]
	if !ok {
		return TypeRecord{}, false
	}
	return rec.clone(), true
}

// Type returns a Type bound to this registry. The identifier does not need
// to be registered.
func (r *Registry) Type(id string) Type {
	return Type{id: id, reg: r}
}

// Types returns all registered identifiers, sorted
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.types))
	for id := range r.types {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered types
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// Candidates returns the magic rule store in evaluation order
func (r *Registry) Candidates() []Candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.magic.snapshot()
}

// MaxScanLength returns the number of leading bytes that determine every
// magic match result for this registry
func (r *Registry) MaxScanLength() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.magic.maxExtent
}

// Version reports the version of the definitions loaded into the registry.
// It is informational only.
func (r *Registry) Version() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Generation changes every time the registry is modified
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

//go:embed definitions.yaml
var builtinDefinitions []byte

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry built from the embedded
// definitions. It is initialized on first use.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		reg := NewRegistry()
		if err := reg.Load(bytes.NewReader(builtinDefinitions)); err != nil {
			// the embedded table is part of the build
			panic(fmt.Sprintf("mimemagic: built-in definitions: %v", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Add registers a type with the default registry
func Add(id string, extensions, parents []string, rules ...MagicRule) error {
	return Default().Add(id, extensions, parents, rules...)
}

package mimemagic

import (
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// Common media types
const (
	MediaText  = "text"
	MediaImage = "image"
	MediaAudio = "audio"
	MediaVideo = "video"

	TypeTextPlain   = "text/plain"
	TypeOctetStream = "application/octet-stream"
)

// Type is a resolved MIME type. It is a small value bound to the registry
// that produced it; the zero value is not a type.
type Type struct {
	id  string
	reg *Registry
}

// NewType returns a Type for id bound to the default registry
func NewType(id string) Type {
	return Type{id: id}
}

func (t Type) registry() *Registry {
	if t.reg != nil {
		return t.reg
	}
	return Default()
}

// String returns the type identifier
func (t Type) String() string {
	return t.id
}

// IsZero reports whether t holds no identifier
func (t Type) IsZero() bool {
	return t.id == ""
}

// Is compares the identifier with a bare string
func (t Type) Is(id string) bool {
	return t.id == id
}

// Equal compares two types by identifier
func (t Type) Equal(other Type) bool {
	return t.id == other.id
}

// MediaType returns the part before the slash, e.g. "image"
func (t Type) MediaType() string {
	return CategoryOf(t.id)
}

// SubType returns the part after the slash, e.g. "png"
func (t Type) SubType() string {
	if i := strings.IndexByte(t.id, '/'); i >= 0 {
		return t.id[i+1:]
	}
	return ""
}

// IsText reports whether the type descends from text/plain
func (t Type) IsText() bool {
	return t.IsDescendantOf(TypeTextPlain)
}

// IsImage reports whether the media type is "image"
func (t Type) IsImage() bool { return t.MediaType() == MediaImage }

// IsAudio reports whether the media type is "audio"
func (t Type) IsAudio() bool { return t.MediaType() == MediaAudio }

// IsVideo reports whether the media type is "video"
func (t Type) IsVideo() bool { return t.MediaType() == MediaVideo }

// IsDescendantOf reports whether t is parent or derives from it
func (t Type) IsDescendantOf(parent string) bool {
	return t.registry().IsDescendant(t.id, parent)
}

// Extensions returns the registered extensions, or an empty slice
func (t Type) Extensions() []string {
	return t.registry().Extensions(t.id)
}

// Parents returns the direct parents declared for t, or an empty slice
// when t is not registered.
func (t Type) Parents() []string {
	rec, ok := t.registry().Lookup(t.id)
	if !ok || rec.Parents == nil {
		return []string{}
	}
	return rec.Parents
}

// Ancestors returns every ancestor of t in discovery order
func (t Type) Ancestors() []string {
	return t.registry().Ancestors(t.id)
}

// Matches reports whether the identifier matches a glob pattern such as
// "image/*" or "application/vnd.*+xml". Invalid patterns match nothing.
func (t Type) Matches(pattern string) bool {
	g, err := compilePattern(pattern)
	if err != nil {
		return false
	}
	return g.Match(t.id)
}

var patternCache sync.Map // map[string]glob.Glob

func compilePattern(pattern string) (glob.Glob, error) {
	if g, ok := patternCache.Load(pattern); ok {
		return g.(glob.Glob), nil
	}
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, err
	}
	patternCache.Store(pattern, g)
	return g, nil
}

// CategoryOf returns the media type of id, the substring before the slash
func CategoryOf(id string) string {
	if i := strings.IndexByte(id, '/'); i >= 0 {
		return id[:i]
	}
	return id
}

package mimemagic

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// normalizeExtension lowercases ext and strips a single leading dot.
// A Caser keeps state, so one is created per call.
func normalizeExtension(ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return cases.Lower(language.Und).String(ext)
}

// ByExtension looks up a type by file extension. Both "html" and ".html"
// are accepted and the comparison ignores case. When the whole string is not
// a registered extension, the part after its last dot is tried, so a file
// name such as "photo.PNG" resolves as well.
func (r *Registry) ByExtension(ext string) (Type, bool) {
	key := normalizeExtension(ext)
	if key == "" {
		return Type{}, false
	}

	if t, ok := r.lookupExtension(key); ok {
		return t, true
	}
	if i := strings.LastIndexByte(key, '.'); i >= 0 && i < len(key)-1 {
		return r.lookupExtension(key[i+1:])
	}
	return Type{}, false
}

func (r *Registry) lookupExtension(key string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.extensions[key]; ok {
		return r.Type(id), true
	}
	return Type{}, false
}

// ByPath looks up a type by the extension of a slash-separated path.
// Compound extensions are tried longest first, so "site.tar.gz" resolves
// to a "tar.gz" registration before falling back to "gz". Leading dots of
// the base name do not start an extension.
func (r *Registry) ByPath(name string) (Type, bool) {
	rest := strings.TrimLeft(path.Base(name), ".")
	for {
		i := strings.IndexByte(rest, '.')
		if i < 0 {
			return Type{}, false
		}
		rest = rest[i+1:]
		if t, ok := r.lookupExtension(normalizeExtension(rest)); ok {
			return t, true
		}
	}
}

// Extensions returns the extensions registered for id
func (r *Registry) Extensions(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.types[id]
	if !ok {
		return []string{}
	}
	return append([]string{}, rec.Extensions...)
}

// ByExtension looks up ext in the default registry
func ByExtension(ext string) (Type, bool) {
	return Default().ByExtension(ext)
}

// ByPath looks up the extension of name in the default registry
func ByPath(name string) (Type, bool) {
	return Default().ByPath(name)
}

package mimemagic

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/gabriel-vasile/mimetype"
)

// Detector combines extension lookup, magic matching, an optional generic
// content sniffer and a result cache on top of a Registry.
//
// Example:
//
//	d := mimemagic.NewDetector(nil)
//	t := d.Detect("upload.bin", data)
//	if t.IsImage() {
//	    // ...
//	}
type Detector struct {
	registry *Registry
	cache    Cache
	cfg      Config
	accept   TypeSelector
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithRegistry uses reg instead of the default registry.
func WithRegistry(reg *Registry) DetectorOption {
	return func(d *Detector) {
		d.registry = reg
	}
}

// WithCache uses a custom cache backend. Passing nil disables caching.
func WithCache(c Cache) DetectorOption {
	return func(d *Detector) {
		d.cache = c
	}
}

// WithSelector overrides the acceptance selector built from the configuration.
func WithSelector(sel TypeSelector) DetectorOption {
	return func(d *Detector) {
		d.accept = sel
	}
}

// NewDetector creates a Detector. A nil cfg uses DefaultConfig.
func NewDetector(cfg *Config, opts ...DetectorOption) *Detector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	d := &Detector{cfg: *cfg}
	if d.cfg.DefaultType == "" {
		d.cfg.DefaultType = TypeOctetStream
	}
	if cfg.CacheEnabled {
		d.cache = NewMemoryCache(cfg.CacheMaxEntries)
	}
	d.accept = selectorFromConfig(cfg)

	for _, opt := range opts {
		opt(d)
	}
	if d.registry == nil {
		d.registry = Default()
	}
	return d
}

func selectorFromConfig(cfg *Config) TypeSelector {
	var parts []TypeSelector
	if accepted := splitList(cfg.AcceptedTypes); len(accepted) > 0 {
		parts = append(parts, Glob(accepted...))
	} else {
		parts = append(parts, All())
	}
	if blocked := splitList(cfg.BlockedTypes); len(blocked) > 0 {
		parts = append(parts, Not(Glob(blocked...)))
	}
	return And(parts...)
}

// Registry returns the registry the detector reads from.
func (d *Detector) Registry() *Registry {
	return d.registry
}

// Cache returns the result cache, or nil when caching is disabled.
func (d *Detector) Cache() Cache {
	return d.cache
}

// ByMagic matches data against the registry, consulting the cache first.
// The cache key covers only the bytes any rule can inspect, so two inputs
// that share those bytes always share a result.
func (d *Detector) ByMagic(data []byte) (Type, bool) {
	if d.cache == nil {
		return d.registry.ByMagicBytes(data)
	}

	limit, gen := d.registry.scanState()
	if v, ok := d.cache.Get(d.cacheKey(gen, truncateHead(data, limit))); ok {
		id := v.(string)
		if id == "" {
			return Type{}, false
		}
		return d.registry.Type(id), true
	}

	// the key must describe the registry state the match ran against
	t, found, head, gen := d.registry.matchHead(data)
	d.cache.Set(d.cacheKey(gen, head), t.String(), d.cfg.CacheTTL())
	return t, found
}

func (d *Detector) cacheKey(generation uint64, head []byte) string {
	var b strings.Builder
	b.WriteString("mimemagic:")
	b.WriteString(strconv.FormatUint(generation, 10))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(len(head)))
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(xxhash.Sum64(head), 16))
	return b.String()
}

// Detect classifies content using its file name and leading bytes.
// The order is extension, registered magic, the generic sniffer (when
// ContentFallback is set) and finally DefaultType. With PreferContent the
// magic step runs before the extension step.
func (d *Detector) Detect(name string, data []byte) Type {
	if d.cfg.PreferContent {
		if t, ok := d.ByMagic(data); ok {
			return t
		}
		if t, ok := d.registry.ByPath(name); ok {
			return t
		}
	} else {
		if t, ok := d.registry.ByPath(name); ok {
			return t
		}
		if t, ok := d.ByMagic(data); ok {
			return t
		}
	}

	return d.fallback(data)
}

// fallback runs the steps after extension and magic lookup failed
func (d *Detector) fallback(data []byte) Type {
	if d.cfg.ContentFallback && len(data) > 0 {
		if t, ok := d.sniff(data); ok {
			return t
		}
	}
	return d.registry.Type(d.cfg.DefaultType)
}

// sniffLimit is how much the generic sniffer reads by default
const sniffLimit = 3072

// sniff asks the generic detector and strips parameters such as charset
func (d *Detector) sniff(data []byte) (Type, bool) {
	m := mimetype.Detect(data)
	if m == nil {
		return Type{}, false
	}
	id := m.String()
	if i := strings.IndexByte(id, ';'); i >= 0 {
		id = strings.TrimSpace(id[:i])
	}
	if id == "" || id == TypeOctetStream {
		return Type{}, false
	}
	log().Debug("content fallback used", "type", id)
	return d.registry.Type(id), true
}

// DetectReader reads the head of r and classifies it like Detect.
func (d *Detector) DetectReader(name string, r io.Reader) (Type, error) {
	limit := d.registry.MaxScanLength()
	if d.cfg.ContentFallback {
		limit = max(limit, sniffLimit)
	}
	head, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return Type{}, fmt.Errorf("failed to read content for detection: %w", err)
	}
	return d.Detect(name, head), nil
}

// DetectSeeker classifies a seekable stream without buffering it for the
// registered rules. Only the generic sniffer reads a buffered head. A nil
// stream is treated as empty content. The read position is unspecified
// afterwards.
func (d *Detector) DetectSeeker(name string, rs io.ReadSeeker) (Type, error) {
	if !d.cfg.PreferContent {
		if t, ok := d.registry.ByPath(name); ok {
			return t, nil
		}
	}
	if rs != nil {
		if t, ok := d.registry.ByMagic(rs); ok {
			return t, nil
		}
	}
	if d.cfg.PreferContent {
		if t, ok := d.registry.ByPath(name); ok {
			return t, nil
		}
	}
	if rs == nil || !d.cfg.ContentFallback {
		return d.fallback(nil), nil
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return Type{}, fmt.Errorf("failed to rewind content: %w", err)
	}
	head, err := io.ReadAll(io.LimitReader(rs, sniffLimit))
	if err != nil {
		return Type{}, fmt.Errorf("failed to read content for detection: %w", err)
	}
	return d.fallback(head), nil
}

// Accept classifies the content and reports whether the configured
// selector accepts the result.
func (d *Detector) Accept(name string, data []byte) (Type, bool) {
	t := d.Detect(name, data)
	return t, d.accept.Match(t)
}

// AcceptReader is Accept for a stream.
func (d *Detector) AcceptReader(name string, r io.Reader) (Type, bool, error) {
	t, err := d.DetectReader(name, r)
	if err != nil {
		return Type{}, false, err
	}
	return t, d.accept.Match(t), nil
}

// Sniff classifies data with the default registry and settings, falling
// back to a generic content sniffer and then application/octet-stream.
func Sniff(data []byte) Type {
	return NewDetector(nil, WithCache(nil)).Detect("", data)
}

// SniffReader is Sniff for a reader.
func SniffReader(r io.Reader) (Type, error) {
	return NewDetector(nil, WithCache(nil)).DetectReader("", r)
}

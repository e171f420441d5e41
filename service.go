package mimemagic

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gobeaver/beaver-kit/config"
)

// Global instance
var (
	defaultDetector *Detector
	defaultOnce     sync.Once
	defaultErr      error
)

// Builder provides a way to create Detector instances with custom prefixes
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// Init initializes the global Detector instance using the builder's prefix
func (b *Builder) Init() error {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return err
	}
	return Init(cfg)
}

// New creates a new Detector instance using the builder's prefix
func (b *Builder) New(opts ...DetectorOption) (*Detector, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Init initializes the global detector instance
func Init(configs ...*Config) error {
	defaultOnce.Do(func() {
		var cfg *Config
		if len(configs) > 0 {
			cfg = configs[0]
		} else {
			cfg, defaultErr = GetConfig()
			if defaultErr != nil {
				return
			}
		}

		defaultDetector, defaultErr = New(cfg)
	})

	return defaultErr
}

// New validates cfg and creates a detector over the default registry
// unless WithRegistry says otherwise
func New(cfg *Config, opts ...DetectorOption) (*Detector, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return NewDetector(cfg, opts...), nil
}

// validateConfig checks configuration validity
func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if cfg.CacheTTLSeconds < 0 {
		return errors.New("cache TTL must not be negative")
	}
	if cfg.CacheMaxEntries < 0 {
		return errors.New("cache size must not be negative")
	}
	if cfg.DefaultType != "" {
		if err := validateID(cfg.DefaultType); err != nil {
			return fmt.Errorf("default type: %w", err)
		}
	}
	for _, list := range []string{cfg.AcceptedTypes, cfg.BlockedTypes} {
		for _, pattern := range splitList(list) {
			if _, err := compilePattern(pattern); err != nil {
				return fmt.Errorf("bad type pattern %q: %w", pattern, err)
			}
		}
	}
	return nil
}

// Instance returns the global detector, initializing it from the
// environment on first use. It returns nil when initialization failed.
func Instance() *Detector {
	if defaultDetector == nil {
		_ = Init()
	}
	return defaultDetector
}

// DefaultDetector returns the global instance, initializing if needed with error handling
func DefaultDetector() (*Detector, error) {
	if defaultDetector == nil {
		if err := Init(); err != nil {
			return nil, err
		}
	}
	return defaultDetector, nil
}

// NewFromEnv creates instance from environment variables (convenience constructor)
func NewFromEnv() (*Detector, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// InitFromEnv initializes the global instance from environment variables (convenience method)
func InitFromEnv() error {
	return Init()
}

// Reset clears the global instance (for testing)
func Reset() {
	defaultDetector = nil
	defaultOnce = sync.Once{}
	defaultErr = nil
}

package mimemagic

import (
	"strings"
	"time"

	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Cache magic detection results keyed by the scanned bytes
	CacheEnabled    bool `env:"MIMEMAGIC_CACHE_ENABLED,default:true"`
	CacheTTLSeconds int  `env:"MIMEMAGIC_CACHE_TTL_SECONDS,default:300"`
	CacheMaxEntries int  `env:"MIMEMAGIC_CACHE_MAX_ENTRIES,default:4096"`

	// Check content before the file name extension
	PreferContent bool `env:"MIMEMAGIC_PREFER_CONTENT,default:false"`

	// Ask the generic content sniffer when no registered rule matches
	ContentFallback bool `env:"MIMEMAGIC_CONTENT_FALLBACK,default:true"`

	// Returned when nothing else identifies the content
	DefaultType string `env:"MIMEMAGIC_DEFAULT_TYPE,default:application/octet-stream"`

	// Type patterns accepted by Detector.Accept, comma-separated (e.g. "image/*,application/pdf")
	AcceptedTypes string `env:"MIMEMAGIC_ACCEPTED_TYPES"`
	// Type patterns rejected by Detector.Accept, comma-separated
	BlockedTypes string `env:"MIMEMAGIC_BLOCKED_TYPES"`
}

// CacheTTL returns the configured TTL as a duration
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DefaultConfig returns the configuration used when none is given
func DefaultConfig() *Config {
	return &Config{
		CacheEnabled:    true,
		CacheTTLSeconds: 300,
		CacheMaxEntries: 4096,
		ContentFallback: true,
		DefaultType:     TypeOctetStream,
	}
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

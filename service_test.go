package mimemagic

import (
	"strings"
	"testing"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
			errMsg:  "config is required",
		},
		{
			name:    "zero config",
			config:  &Config{},
			wantErr: false,
		},
		{
			name:    "defaults",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name:    "negative ttl",
			config:  &Config{CacheTTLSeconds: -1},
			wantErr: true,
			errMsg:  "cache TTL must not be negative",
		},
		{
			name:    "negative cache size",
			config:  &Config{CacheMaxEntries: -5},
			wantErr: true,
			errMsg:  "cache size must not be negative",
		},
		{
			name:    "bad default type",
			config:  &Config{DefaultType: "octet-stream"},
			wantErr: true,
			errMsg:  "default type",
		},
		{
			name:    "bad accepted pattern",
			config:  &Config{AcceptedTypes: "image/*,image/[png"},
			wantErr: true,
			errMsg:  "bad type pattern",
		},
		{
			name:    "good patterns",
			config:  &Config{AcceptedTypes: "image/*,{text,audio}/*", BlockedTypes: "image/svg+xml"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("validateConfig() error = %v, want message containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestNew(t *testing.T) {
	if _, err := New(&Config{CacheMaxEntries: -1}); err == nil {
		t.Error("New() should reject an invalid config")
	}

	reg := NewRegistry()
	mustAdd(t, reg, "application/x-demo", []string{"demo"}, nil)
	d, err := New(DefaultConfig(), WithRegistry(reg))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if d.Registry() != reg {
		t.Error("WithRegistry was not applied")
	}
	if got := d.Detect("a.demo", nil); !got.Is("application/x-demo") {
		t.Errorf("Detect() = %v", got)
	}
}

func TestGlobalInstance(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg := DefaultConfig()
	cfg.PreferContent = true
	if err := Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	d := Instance()
	if d == nil {
		t.Fatal("Instance() returned nil after Init")
	}
	if got := d.Detect("photo.png", gifData); !got.Is("image/gif") {
		t.Errorf("Detect() = %v, global instance should use the Init config", got)
	}

	// later Init calls are no-ops
	if err := Init(&Config{CacheMaxEntries: -1}); err != nil {
		t.Errorf("second Init() error = %v", err)
	}
	again, err := DefaultDetector()
	if err != nil || again != d {
		t.Errorf("DefaultDetector() = %p, %v, want %p", again, err, d)
	}
}

func TestGlobalInstanceInitError(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if err := Init(&Config{CacheTTLSeconds: -1}); err == nil {
		t.Fatal("Init() should fail on invalid config")
	}
	if _, err := DefaultDetector(); err == nil {
		t.Error("DefaultDetector() should report the init error")
	}
	if Instance() != nil {
		t.Error("Instance() should be nil after a failed Init")
	}
}

func TestInitFromEnv(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	t.Setenv("BEAVER_MIMEMAGIC_DEFAULT_TYPE", "application/x-unknown")

	if err := InitFromEnv(); err != nil {
		t.Fatalf("InitFromEnv() error = %v", err)
	}
	if got := Instance().Detect("", nil); !got.Is("application/x-unknown") {
		t.Errorf("Detect() = %v, want the configured default type", got)
	}

	d, err := NewFromEnv()
	if err != nil {
		t.Fatalf("NewFromEnv() error = %v", err)
	}
	if d == Instance() {
		t.Error("NewFromEnv() should build a fresh detector")
	}
}

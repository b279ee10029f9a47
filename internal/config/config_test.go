package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = []string{}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"page size above max", func(c *Config) { c.Index.DefaultPageSize = 60 }, "default_page_size"},
		{"max page above fetch cap", func(c *Config) { c.Index.MaxFetch = 20 }, "max_fetch"},
		{"relative sru path", func(c *Config) { c.HTTP.SRUPath = "sru" }, "sru_path"},
		{"sru path on health", func(c *Config) { c.HTTP.SRUPath = "/health" }, "collides"},
		{"negative word window", func(c *Config) { c.KWIC.WindowWords = -1 }, "window_words"},
		{"char window above limit", func(c *Config) { c.KWIC.WindowChars = 1001 }, "window_chars"},
		{"char window at limit", func(c *Config) { c.KWIC.WindowChars = 1000 }, ""},
		{"zero char window", func(c *Config) { c.KWIC.WindowChars = 0 }, "window_chars"},
		{"unknown operation", func(c *Config) { c.Endpoint.Operations = []string{"explain", "delete"} }, "delete"},
		{"scan is a known operation", func(c *Config) { c.Endpoint.Operations = []string{"scan"} }, ""},
		{"resource without pid", func(c *Config) { c.Endpoint.Resources = []ResourceEntry{{Title: "x"}} }, "pid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 9090}}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.SRUPath != "/sru" {
		t.Errorf("expected SRUPath=/sru, got %q", cfg.HTTP.SRUPath)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Index.DefaultPageSize != 10 {
		t.Errorf("expected DefaultPageSize=10, got %d", cfg.Index.DefaultPageSize)
	}
	if cfg.Index.MaxPageSize != 50 {
		t.Errorf("expected MaxPageSize=50, got %d", cfg.Index.MaxPageSize)
	}
	if cfg.KWIC.WindowChars != 80 {
		t.Errorf("expected WindowChars=80, got %d", cfg.KWIC.WindowChars)
	}
	if cfg.KWIC.MaxSnippets != 3 {
		t.Errorf("expected MaxSnippets=3, got %d", cfg.KWIC.MaxSnippets)
	}
	if cfg.Endpoint.Port != 9090 {
		t.Errorf("expected endpoint port to follow http port, got %d", cfg.Endpoint.Port)
	}
	if len(cfg.Endpoint.Operations) != 2 {
		t.Errorf("expected 2 default operations, got %v", cfg.Endpoint.Operations)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5, SRUPath: "/fcs"},
		Database: DatabaseConfig{ReadinessTimeout: 15},
		Index:    IndexConfig{Name: "custom:idx", DefaultPageSize: 25, MaxPageSize: 200},
		KWIC:     KWICConfig{WindowChars: 40},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.SRUPath != "/fcs" {
		t.Errorf("expected SRUPath=/fcs, got %q", cfg.HTTP.SRUPath)
	}
	if cfg.Index.Name != "custom:idx" {
		t.Errorf("expected Name='custom:idx', got %q", cfg.Index.Name)
	}
	if cfg.Index.MaxPageSize != 200 {
		t.Errorf("expected MaxPageSize=200, got %d", cfg.Index.MaxPageSize)
	}
	if cfg.KWIC.WindowChars != 40 {
		t.Errorf("expected WindowChars=40, got %d", cfg.KWIC.WindowChars)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("FCSGATE_TEST_PASSWORD", "s3cret")

	path := writeConfig(t, `
http:
  port: 8088
database:
  addrs: ["${FCSGATE_TEST_ADDR:-localhost:6379}"]
  password: ${FCSGATE_TEST_PASSWORD}
index:
  max_page_size: 25
endpoint:
  title: ZX Press
  resources:
    - pid: zxpress
      title: ZX Press magazines
      languages: [rus]
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.HTTP.Port != 8088 {
		t.Errorf("expected port 8088, got %d", cfg.HTTP.Port)
	}
	if got := cfg.Database.Addrs; len(got) != 1 || got[0] != "localhost:6379" {
		t.Errorf("expected default addr, got %v", got)
	}
	if cfg.Database.Password != "s3cret" {
		t.Errorf("expected expanded password, got %q", cfg.Database.Password)
	}
	if cfg.Index.MaxPageSize != 25 {
		t.Errorf("expected MaxPageSize=25, got %d", cfg.Index.MaxPageSize)
	}

	caps := cfg.Capabilities(nil)
	if caps.Title != "ZX Press" {
		t.Errorf("expected title, got %q", caps.Title)
	}
	if caps.MaxPageSize != 25 || caps.DefaultPageSize != 10 {
		t.Errorf("unexpected page sizes: default=%d max=%d", caps.DefaultPageSize, caps.MaxPageSize)
	}
	if len(caps.Resources) != 1 || caps.Resources[0].PID != "zxpress" {
		t.Errorf("unexpected resources: %+v", caps.Resources)
	}
	if len(caps.Indexes) == 0 {
		t.Error("expected default indexes")
	}
}

func TestLoadFile_UnknownField(t *testing.T) {
	path := writeConfig(t, `
http:
  port: 8080
  prot: 9090
database:
  addrs: [localhost:6379]
`)

	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "prot") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestLoadFile_Empty(t *testing.T) {
	path := writeConfig(t, "")

	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected validation error for empty config")
	}
	if !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv(EnvVar, "")
	if got := GetEnv(); got != "local" {
		t.Errorf("expected local, got %q", got)
	}

	t.Setenv(EnvVar, "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("expected prod, got %q", got)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FCSGATE_SET", "value")

	tests := []struct {
		in   string
		want string
	}{
		{"${FCSGATE_SET}", "value"},
		{"${FCSGATE_SET:-other}", "value"},
		{"${FCSGATE_UNSET_VAR:-fallback}", "fallback"},
		{"${FCSGATE_UNSET_VAR}", ""},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := string(expandEnvVars([]byte(tt.in))); got != tt.want {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

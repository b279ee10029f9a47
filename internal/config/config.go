package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zxpress/fcsgate/internal/domain/kwic"
	"github.com/zxpress/fcsgate/internal/domain/search/operation"
	"github.com/zxpress/fcsgate/internal/domain/sru"
)

// EnvVar selects the config file: config/<env>.yaml.
const EnvVar = "FCSGATE_ENV"

// Config holds the fcsgate configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Index    IndexConfig    `yaml:"index"`
	KWIC     KWICConfig     `yaml:"kwic"`
	Query    QueryConfig    `yaml:"query"`
	Endpoint EndpointConfig `yaml:"endpoint"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int        `yaml:"port"`
	ReadTimeoutSec  int        `yaml:"read_timeout_sec"`
	WriteTimeoutSec int        `yaml:"write_timeout_sec"`
	ShutdownSec     int        `yaml:"shutdown_timeout_sec"`
	SRUPath         string     `yaml:"sru_path"`
	CORS            CORSConfig `yaml:"cors"`
}

// CORSConfig holds cross-origin settings for browser-based aggregators.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"` // empty disables CORS
	MaxAgeSec      int      `yaml:"max_age_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// IndexConfig holds corpus index and pagination settings.
type IndexConfig struct {
	Name            string `yaml:"name"`
	KeyPrefix       string `yaml:"key_prefix"`
	CreateIfMissing bool   `yaml:"create_if_missing"`
	DefaultPageSize int    `yaml:"default_page_size"`
	MaxPageSize     int    `yaml:"max_page_size"`
	MaxFetch        int    `yaml:"max_fetch"`
}

// KWICConfig holds snippet extraction settings.
type KWICConfig struct {
	WindowChars int `yaml:"window_chars"`
	WindowWords int `yaml:"window_words"` // > 0 switches to a word window
	MaxSnippets int `yaml:"max_snippets"`
}

// QueryConfig holds filter canonicalization tables. Empty tables use the built-in ones.
type QueryConfig struct {
	Forms     map[string]string   `yaml:"forms"`
	Languages map[string][]string `yaml:"languages"`
}

// EndpointConfig holds the metadata served by explain.
type EndpointConfig struct {
	BaseURL        string          `yaml:"base_url"`
	Host           string          `yaml:"host"`
	Port           int             `yaml:"port"`
	Database       string          `yaml:"database"`
	Title          string          `yaml:"title"`
	Description    string          `yaml:"description"`
	Contact        string          `yaml:"contact"`
	Operations     []string        `yaml:"operations"`
	QueryLanguages []string        `yaml:"query_languages"`
	DataViews      []string        `yaml:"data_views"`
	Indexes        []IndexEntry    `yaml:"indexes"`
	Resources      []ResourceEntry `yaml:"resources"`
}

// IndexEntry is an advertised search index.
type IndexEntry struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
}

// ResourceEntry is an advertised collection.
type ResourceEntry struct {
	PID       string   `yaml:"pid"`
	Title     string   `yaml:"title"`
	Languages []string `yaml:"languages"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
// Unknown keys are rejected.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	cfg, err := parse(data)
	if err != nil {
		return Config{}, err
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from FCSGATE_ENV, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv(EnvVar); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.SRUPath == "" {
		c.HTTP.SRUPath = "/sru"
	}
	if c.HTTP.CORS.MaxAgeSec <= 0 {
		c.HTTP.CORS.MaxAgeSec = 300
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Index.Name == "" {
		c.Index.Name = "zxpress:articles:idx"
	}
	if c.Index.KeyPrefix == "" {
		c.Index.KeyPrefix = "zxpress:article:"
	}
	if c.Index.DefaultPageSize <= 0 {
		c.Index.DefaultPageSize = 10
	}
	if c.Index.MaxPageSize <= 0 {
		c.Index.MaxPageSize = 50
	}
	if c.Index.MaxFetch <= 0 {
		c.Index.MaxFetch = 1000
	}
	if c.KWIC.WindowChars <= 0 {
		c.KWIC.WindowChars = 80
	}
	if c.KWIC.MaxSnippets <= 0 {
		c.KWIC.MaxSnippets = 3
	}
	c.Endpoint.applyDefaults(c.HTTP.Port)
}

func (e *EndpointConfig) applyDefaults(httpPort int) {
	if e.Host == "" {
		e.Host = "localhost"
	}
	if e.Port <= 0 {
		e.Port = httpPort
	}
	if e.Database == "" {
		e.Database = "sru"
	}
	if e.Title == "" {
		e.Title = "fcsgate"
	}
	if len(e.Operations) == 0 {
		e.Operations = []string{string(operation.Explain), string(operation.SearchRetrieve)}
	}
	if len(e.QueryLanguages) == 0 {
		e.QueryLanguages = []string{"cqlfcs-2.0", "cql"}
	}
	if len(e.DataViews) == 0 {
		e.DataViews = []string{sru.DataViewKWIC}
	}
	if len(e.Indexes) == 0 {
		e.Indexes = []IndexEntry{
			{Name: "cql.serverChoice", Title: "Default"},
			{Name: "dc.title", Title: "Title"},
			{Name: "text", Title: "Fulltext"},
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if !strings.HasPrefix(c.HTTP.SRUPath, "/") {
		return fmt.Errorf("http.sru_path must start with /, got %q", c.HTTP.SRUPath)
	}
	switch c.HTTP.SRUPath {
	case "/health", "/metrics":
		return fmt.Errorf("http.sru_path %q collides with a built-in route", c.HTTP.SRUPath)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Index.DefaultPageSize > c.Index.MaxPageSize {
		return fmt.Errorf("index.default_page_size (%d) exceeds index.max_page_size (%d)",
			c.Index.DefaultPageSize, c.Index.MaxPageSize)
	}
	if c.Index.MaxPageSize > c.Index.MaxFetch {
		return fmt.Errorf("index.max_page_size (%d) exceeds index.max_fetch (%d)",
			c.Index.MaxPageSize, c.Index.MaxFetch)
	}
	if c.KWIC.WindowChars < 1 || c.KWIC.WindowChars > kwic.MaxWindowChars {
		return fmt.Errorf("kwic.window_chars must be in [1, %d], got %d", kwic.MaxWindowChars, c.KWIC.WindowChars)
	}
	if c.KWIC.WindowWords < 0 {
		return fmt.Errorf("kwic.window_words must not be negative, got %d", c.KWIC.WindowWords)
	}
	for _, op := range c.Endpoint.Operations {
		if _, ok := operation.Parse(op); !ok {
			return fmt.Errorf("endpoint.operations: unknown operation %q", op)
		}
	}
	for i, r := range c.Endpoint.Resources {
		if r.PID == "" {
			return fmt.Errorf("endpoint.resources[%d].pid is required", i)
		}
	}
	return nil
}

// Capabilities maps the endpoint metadata to the explain model.
func (c *Config) Capabilities(fields []sru.Field) sru.Capabilities {
	e := c.Endpoint
	caps := sru.Capabilities{
		BaseURL:         e.BaseURL,
		Host:            e.Host,
		Port:            e.Port,
		Database:        e.Database,
		Title:           e.Title,
		Description:     e.Description,
		Contact:         e.Contact,
		Operations:      e.Operations,
		QueryLanguages:  e.QueryLanguages,
		DataViews:       e.DataViews,
		Fields:          fields,
		DefaultPageSize: c.Index.DefaultPageSize,
		MaxPageSize:     c.Index.MaxPageSize,
	}
	for _, idx := range e.Indexes {
		caps.Indexes = append(caps.Indexes, sru.Index{Name: idx.Name, Title: idx.Title})
	}
	for _, r := range e.Resources {
		caps.Resources = append(caps.Resources, sru.Resource{PID: r.PID, Title: r.Title, Languages: r.Languages})
	}
	return caps
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/docildos/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete docildos configuration.
type Config struct {
	API      APIConfig      `toml:"api" json:"api"`
	Dispatch DispatchConfig `toml:"dispatch" json:"dispatch"`
	UI       UIConfig       `toml:"ui" json:"ui"`
	Server   ServerConfig   `toml:"server" json:"server"`
	Log      LogConfig      `toml:"log" json:"log"`
}

// APIConfig configures the backend client.
type APIConfig struct {
	// BaseURL is the backend root, without the /api prefix.
	BaseURL     string  `toml:"base_url" json:"base_url"`
	TimeoutSecs int     `toml:"timeout_secs" json:"timeout_secs"`
	MaxRetries  int     `toml:"max_retries" json:"max_retries"`
	RatePerSec  float64 `toml:"rate_per_sec" json:"rate_per_sec"` // 0 = unlimited
	// SessionID is sent with /api/chat. Empty means a new id per run.
	SessionID string `toml:"session_id" json:"session_id"`
}

// Timeout returns TimeoutSecs as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// Dispatch modes.
const (
	// ModeLocal answers from the built-in sample data.
	ModeLocal = "local"
	// ModeBackend classifies locally and fetches data from the backend.
	ModeBackend = "backend"
	// ModeRemote sends every message to POST /api/chat.
	ModeRemote = "remote"
)

// Modes lists the valid dispatch modes.
var Modes = []string{ModeLocal, ModeBackend, ModeRemote}

// DefaultLocalThinkDelay is the reply pacing used in local mode when
// think_delay_ms is not set.
const DefaultLocalThinkDelay = time.Second

// DispatchConfig selects how replies are computed.
type DispatchConfig struct {
	Mode string `toml:"mode" json:"mode"`
	// ThinkDelayMs is the minimum reply latency. Unset means 1000 in local
	// mode and 0 otherwise.
	ThinkDelayMs *int `toml:"think_delay_ms,omitempty" json:"think_delay_ms,omitempty"`
}

// ThinkDelay resolves the minimum reply latency for the configured mode.
func (d DispatchConfig) ThinkDelay() time.Duration {
	if d.ThinkDelayMs != nil {
		return time.Duration(*d.ThinkDelayMs) * time.Millisecond
	}
	if d.Mode == ModeLocal {
		return DefaultLocalThinkDelay
	}
	return 0
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	ShowSidebar     bool `toml:"show_sidebar" json:"show_sidebar"`
	ShowStatsHeader bool `toml:"show_stats_header" json:"show_stats_header"`
	// Markdown renders assistant text with glamour.
	Markdown bool `toml:"markdown" json:"markdown"`
}

// ServerConfig configures `docildos serve`.
type ServerConfig struct {
	Addr       string  `toml:"addr" json:"addr"`
	RatePerSec float64 `toml:"rate_per_sec" json:"rate_per_sec"` // per client IP, 0 = unlimited
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `toml:"level" json:"level"`   // debug, info, warn, error
	Format string `toml:"format" json:"format"` // text, json
	// File receives the log output. Empty means ~/.docildos/docildos.log.
	File string `toml:"file" json:"file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a new Config with default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 30,
			MaxRetries:  2,
			RatePerSec:  10,
		},
		Dispatch: DispatchConfig{
			Mode: ModeLocal,
		},
		UI: UIConfig{
			ShowSidebar:     true,
			ShowStatsHeader: true,
			Markdown:        true,
		},
		Server: ServerConfig{
			Addr:       "127.0.0.1:8000",
			RatePerSec: 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the docildos configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".docildos"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns the log file, defaulting to the config directory.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "docildos.log"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// DotEnvFile is read from the working directory before env overrides.
const DotEnvFile = ".env"

// Load loads ~/.docildos/config.toml when present, then .env and DOCILDOS_*
// overrides. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadFrom(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		if err := finish(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return cfg, err
}

// LoadFrom loads configuration from a specific TOML file with full validation.
// Keys missing from the file keep their defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: unknown config keys in %s: %v\n", path, undecoded)
	}
	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func finish(cfg *Config) error {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return err
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// loadDotEnv exports the variables of a .env file without overriding
// variables already set.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to ~/.docildos/config.toml.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the configuration as TOML. The write is atomic.
func SaveTo(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# docildos configuration file\n")
	buf.WriteString("# Environment variables DOCILDOS_* override these values.\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o600, 0o755); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every section and returns ValidationErrors, or nil.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		add("api.base_url", "invalid URL '%s', must be http(s)://host[:port]", c.API.BaseURL)
	}
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 600 {
		add("api.timeout_secs", "must be between 1 and 600, got %d", c.API.TimeoutSecs)
	}
	if c.API.MaxRetries < 0 || c.API.MaxRetries > 10 {
		add("api.max_retries", "must be between 0 and 10, got %d", c.API.MaxRetries)
	}
	if c.API.RatePerSec < 0 {
		add("api.rate_per_sec", "must not be negative")
	}

	if !isOneOf(c.Dispatch.Mode, Modes) {
		add("dispatch.mode", "invalid mode '%s', must be one of: %s", c.Dispatch.Mode, strings.Join(Modes, ", "))
	}
	if d := c.Dispatch.ThinkDelayMs; d != nil && (*d < 0 || *d > 10000) {
		add("dispatch.think_delay_ms", "must be between 0 and 10000, got %d", *d)
	}

	if c.Server.Addr == "" {
		add("server.addr", "must not be empty")
	}
	if c.Server.RatePerSec < 0 {
		add("server.rate_per_sec", "must not be negative")
	}

	if !isOneOf(c.Log.Level, []string{"debug", "info", "warn", "error"}) {
		add("log.level", "invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level)
	}
	if !isOneOf(c.Log.Format, []string{"text", "json"}) {
		add("log.format", "invalid format '%s', must be text or json", c.Log.Format)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func isOneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - DOCILDOS_API_URL: overrides api.base_url
//   - DOCILDOS_TIMEOUT: overrides api.timeout_secs
//   - DOCILDOS_MAX_RETRIES: overrides api.max_retries
//   - DOCILDOS_SESSION_ID: overrides api.session_id
//   - DOCILDOS_MODE: overrides dispatch.mode
//   - DOCILDOS_THINK_DELAY_MS: overrides dispatch.think_delay_ms
//   - DOCILDOS_SERVER_ADDR: overrides server.addr
//   - DOCILDOS_LOG_LEVEL: overrides log.level
//   - DOCILDOS_LOG_FILE: overrides log.file
//
// Malformed numbers are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DOCILDOS_API_URL"); v != "" {
		c.API.BaseURL = strings.TrimRight(v, "/")
	}
	if n, ok := envInt("DOCILDOS_TIMEOUT"); ok {
		c.API.TimeoutSecs = n
	}
	if n, ok := envInt("DOCILDOS_MAX_RETRIES"); ok {
		c.API.MaxRetries = n
	}
	if v := os.Getenv("DOCILDOS_SESSION_ID"); v != "" {
		c.API.SessionID = v
	}
	if v := os.Getenv("DOCILDOS_MODE"); v != "" {
		c.Dispatch.Mode = strings.ToLower(v)
	}
	if n, ok := envInt("DOCILDOS_THINK_DELAY_MS"); ok {
		c.Dispatch.ThinkDelayMs = &n
	}
	if v := os.Getenv("DOCILDOS_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DOCILDOS_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("DOCILDOS_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g. "api.base_url").
func (c *Config) Get(key string) (any, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	if field.Kind() == reflect.Pointer {
		if field.IsNil() {
			return nil, nil
		}
		return field.Elem().Interface(), nil
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field type.
func (c *Config) Set(key string, value any) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if field.Kind() == reflect.Pointer {
		ptr := reflect.New(field.Type().Elem())
		if err := setFieldValue(ptr.Elem(), value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		field.Set(ptr)
		return nil
	}
	if err := setFieldValue(field, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return reflect.Value{}, fmt.Errorf("invalid key %q, want section.name", key)
	}
	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		next, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		v = next
	}
	return v, nil
}

func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if tomlName(t.Field(i)) == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func tomlName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
	return name
}

// setFieldValue sets a reflect.Value from a value with type conversion.
func setFieldValue(field reflect.Value, value any) error {
	if s, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(s)
			return nil
		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %w", err)
			}
			field.SetInt(n)
			return nil
		case reflect.Float64:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %w", err)
			}
			field.SetFloat(f)
			return nil
		case reflect.Bool:
			b, err := strconv.ParseBool(s)
			if err != nil {
				return fmt.Errorf("invalid boolean value: %w", err)
			}
			field.SetBool(b)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// Keys returns all configuration keys in dot notation, in file order.
func Keys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, tomlName(section)+"."+tomlName(section.Type.Field(j)))
		}
	}
	return keys
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Dispatch.ThinkDelayMs != nil {
		d := *c.Dispatch.ThinkDelayMs
		clone.Dispatch.ThinkDelayMs = &d
	}
	return &clone
}

// String renders the config as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}

// Package config handles configuration for gamechat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv, in precedence order.
const (
	EnvAPIURL       = "GAMECHAT_API_URL"
	EnvLegacyAPIURL = "NEXT_PUBLIC_API_URL"
	EnvDebug        = "GAMECHAT_DEBUG"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // glamour style name, "auto" to follow tui_theme, or a JSON path
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// APIURL is the backend origin, e.g. http://localhost:8000.
	APIURL string `json:"api_url"`
	// APIPrefix is joined onto APIURL to form the endpoint base.
	APIPrefix string `json:"api_prefix"`
	// UseTools asks the backend to let the assistant call its tools.
	UseTools        bool           `json:"use_tools"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	LogFile         string         `json:"log_file,omitempty"`
	Debug           bool           `json:"debug"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		APIURL:          "http://localhost:8000",
		APIPrefix:       "/api/v1",
		UseTools:        true,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		Debug:           false,
		Markdown:        DefaultMarkdownConfig(),
	}
}

// BaseURL joins APIURL and APIPrefix without doubling slashes.
func (c Config) BaseURL() string {
	base := strings.TrimRight(c.APIURL, "/")
	prefix := strings.Trim(c.APIPrefix, "/")
	if prefix == "" {
		return base
	}
	return base + "/" + prefix
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".gamechat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file path, falling back to the config dir.
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "gamechat.log"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadDotEnv loads variables from .env files into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	var existing []string
	for _, name := range filenames {
		if _, err := os.Stat(name); err == nil {
			existing = append(existing, name)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overlays environment variables onto cfg.
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	} else if v := os.Getenv(EnvLegacyAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvDebug); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
	return cfg
}

// Load returns the on-disk config with environment overrides applied.
func Load() (Config, error) {
	cfg, err := LoadConfig()
	return ApplyEnv(cfg), err
}

// Keys returns the settable configuration keys.
func Keys() []string {
	return []string{
		"api_url",
		"api_prefix",
		"use_tools",
		"copy_to_clipboard",
		"tui_theme",
		"log_file",
		"debug",
		"markdown.style",
		"markdown.enable_emoji",
	}
}

// Set updates a single key from its string form.
func (c *Config) Set(key, value string) error {
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %q", key, value)
		}
		return b, nil
	}

	switch key {
	case "api_url":
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("api_url must start with http:// or https://")
		}
		c.APIURL = value
	case "api_prefix":
		c.APIPrefix = value
	case "tui_theme":
		c.TUITheme = value
	case "log_file":
		c.LogFile = value
	case "markdown.style":
		c.Markdown.Style = value
	case "use_tools", "copy_to_clipboard", "debug", "markdown.enable_emoji":
		b, err := parseBool()
		if err != nil {
			return err
		}
		switch key {
		case "use_tools":
			c.UseTools = b
		case "copy_to_clipboard":
			c.CopyToClipboard = b
		case "debug":
			c.Debug = b
		case "markdown.enable_emoji":
			c.Markdown.EnableEmoji = b
		}
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. GHTOOL_GITHUB_BASE_URL
	EnvPrefix = "GHTOOL"

	DefaultBaseURL  = "https://api.github.com/"
	DefaultPerPage  = 100
	DefaultMaxPages = 100
	DefaultTimeout  = 30 * time.Second

	SelectionModePrompt = "prompt"
	SelectionModeFzf    = "fzf"
)

// Config represents the ghtool configuration
type Config struct {
	GitHub    GitHubConfig    `yaml:"github" mapstructure:"github"`
	Selection SelectionConfig `yaml:"selection" mapstructure:"selection"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// GitHubConfig represents GitHub API settings
type GitHubConfig struct {
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"`
	PerPage  int           `yaml:"per_page" mapstructure:"per_page"`
	MaxPages int           `yaml:"max_pages" mapstructure:"max_pages"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SelectionConfig controls how repositories and accounts are picked
type SelectionConfig struct {
	// Mode is "prompt" for numbered input or "fzf" for the fuzzy finder
	Mode string `yaml:"mode" mapstructure:"mode"`
}

// LogConfig represents diagnostic logging settings
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			BaseURL:  DefaultBaseURL,
			PerPage:  DefaultPerPage,
			MaxPages: DefaultMaxPages,
			Timeout:  DefaultTimeout,
		},
		Selection: SelectionConfig{Mode: SelectionModePrompt},
		Log:       LogConfig{Level: "error", Format: "console"},
	}
}

func defaultValues() map[string]any {
	defaults := DefaultConfig()
	return map[string]any{
		"github.base_url":  defaults.GitHub.BaseURL,
		"github.per_page":  defaults.GitHub.PerPage,
		"github.max_pages": defaults.GitHub.MaxPages,
		"github.timeout":   defaults.GitHub.Timeout,
		"selection.mode":   defaults.Selection.Mode,
		"log.level":        defaults.Log.Level,
		"log.format":       defaults.Log.Format,
	}
}

// LoadConfig loads configuration from the default location
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadConfigFromPath(configPath)
}

// LoadConfigFromPath loads configuration from a specific path, layering
// defaults, the file if it exists, then GHTOOL_* environment variables.
func LoadConfigFromPath(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaultValues() {
		v.SetDefault(key, value)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfigToPath saves configuration to a specific path
func (c *Config) SaveConfigToPath(path string) error {
	// Create config directory if it doesn't exist
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".ghtool", "config.yaml"), nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	baseURL, err := url.Parse(c.GitHub.BaseURL)
	if err != nil || baseURL.Host == "" || (baseURL.Scheme != "http" && baseURL.Scheme != "https") {
		return fmt.Errorf("github.base_url must be an absolute http(s) URL, got %q", c.GitHub.BaseURL)
	}

	if c.GitHub.PerPage < 1 || c.GitHub.PerPage > DefaultPerPage {
		return fmt.Errorf("github.per_page must be between 1 and %d", DefaultPerPage)
	}

	if c.GitHub.MaxPages < 1 || c.GitHub.MaxPages > DefaultMaxPages {
		return fmt.Errorf("github.max_pages must be between 1 and %d", DefaultMaxPages)
	}

	if c.GitHub.Timeout <= 0 {
		return fmt.Errorf("github.timeout must be positive")
	}

	switch c.Selection.Mode {
	case SelectionModePrompt, SelectionModeFzf:
	default:
		return fmt.Errorf("selection.mode must be %q or %q, got %q", SelectionModePrompt, SelectionModeFzf, c.Selection.Mode)
	}

	return nil
}

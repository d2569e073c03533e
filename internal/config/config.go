// Package config loads and persists docsight configuration. Configuration
// lives at ~/.docsight/config.yaml and every key can be overridden through
// DOCSIGHT_ environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/normanking/docsight/internal/llm"
)

// Config holds all application configuration.
type Config struct {
	LLM      LLMConfig      `mapstructure:"llm" yaml:"llm"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	GitHub   GitHubConfig   `mapstructure:"github" yaml:"github"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// LLMConfig selects the backend provider used for synthesis.
type LLMConfig struct {
	// DefaultProvider is the provider tried first (e.g. "anthropic", "openai")
	DefaultProvider string `mapstructure:"default_provider" yaml:"default_provider"`
	// Providers maps provider names to their specific configuration
	Providers map[string]ProviderConfig `mapstructure:"providers" yaml:"providers"`
}

// ProviderConfig contains configuration for a specific LLM provider.
type ProviderConfig struct {
	// APIKey is the authentication key. Environment variables like
	// ANTHROPIC_API_KEY take precedence when this is empty.
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	// Model overrides the provider's default model
	Model string `mapstructure:"model" yaml:"model,omitempty"`
	// Endpoint overrides the provider's default API endpoint
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
}

// AnalysisConfig tunes synthesis behavior.
type AnalysisConfig struct {
	// SaveHistory persists each produced insight to the local store
	SaveHistory bool `mapstructure:"save_history" yaml:"save_history"`
	// MaxTokens caps backend completion length (0 uses the provider default)
	MaxTokens int `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// GitHubConfig configures repository metadata fetching.
type GitHubConfig struct {
	// Token is an optional personal access token for higher rate limits
	Token string `mapstructure:"token" yaml:"token,omitempty"`
	// BaseURL overrides the GitHub API base, for GitHub Enterprise
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	// Host is the bind address
	Host string `mapstructure:"host" yaml:"host"`
	// Port is the listen port
	Port int `mapstructure:"port" yaml:"port"`
	// AuthTokenHash is a bcrypt hash of the bearer token required for API
	// access. Empty disables authentication.
	AuthTokenHash string `mapstructure:"auth_token_hash" yaml:"auth_token_hash,omitempty"`
}

// StoreConfig configures the analysis history database.
type StoreConfig struct {
	// DataDir is the directory holding the SQLite history database
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
}

// LoggingConfig contains configuration for application logging.
type LoggingConfig struct {
	// Level is the log level ("debug", "info", "warn", "error")
	Level string `mapstructure:"level" yaml:"level"`
	// File is the path to the log file; empty logs to stderr only
	File string `mapstructure:"file" yaml:"file,omitempty"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".docsight")

	return &Config{
		LLM: LLMConfig{
			DefaultProvider: "anthropic",
			Providers: map[string]ProviderConfig{
				"anthropic":  {},
				"openai":     {},
				"gemini":     {},
				"groq":       {},
				"openrouter": {},
			},
		},
		Analysis: AnalysisConfig{
			SaveHistory: true,
			MaxTokens:   0,
		},
		GitHub: GitHubConfig{},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8180,
		},
		Store: StoreConfig{
			DataDir: dataDir,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the default location (~/.docsight/config.yaml)
// and merges with environment variables. If no config file exists, it creates
// one with default values.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}
	return LoadFromPath(filepath.Join(homeDir, ".docsight", "config.yaml"))
}

// LoadFromPath reads configuration from a specific file path and merges with
// environment variables. If the file doesn't exist, it creates one with
// default values.
func LoadFromPath(path string) (*Config, error) {
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := writeConfigFile(path, cfg); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Example: DOCSIGHT_LLM_DEFAULT_PROVIDER, DOCSIGHT_GITHUB_TOKEN
	v.SetEnvPrefix("DOCSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Store.DataDir = expandPath(cfg.Store.DataDir)
	if cfg.Store.DataDir == "" {
		cfg.Store.DataDir = Default().Store.DataDir
	}
	cfg.Logging.File = expandPath(cfg.Logging.File)

	return &cfg, nil
}

// SaveToPath writes the current configuration to a specific file path.
func (c *Config) SaveToPath(path string) error {
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return writeConfigFile(path, c)
}

// Validate checks the configuration for common errors.
func (c *Config) Validate() error {
	if c.LLM.DefaultProvider == "" {
		return fmt.Errorf("llm.default_provider cannot be empty")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level '%s', must be one of: debug, info, warn, error", c.Logging.Level)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535")
	}

	return nil
}

// BackendConfig resolves the full provider configuration for a backend call.
// An empty provider name selects the configured default. File settings
// override the provider's built-in defaults, and the API key falls back to
// the conventional environment variable.
func (c *Config) BackendConfig(provider string) *llm.ProviderConfig {
	if provider == "" {
		provider = c.LLM.DefaultProvider
	}

	cfg := llm.DefaultConfig(provider)
	cfg.APIKey = c.ProviderAPIKey(provider)

	if p, ok := c.LLM.Providers[provider]; ok {
		if p.Model != "" {
			cfg.Model = p.Model
		}
		if p.Endpoint != "" {
			cfg.Endpoint = p.Endpoint
		}
	}
	if c.Analysis.MaxTokens > 0 {
		cfg.MaxTokens = c.Analysis.MaxTokens
	}
	return cfg
}

// ProviderAPIKey returns the configured key for a provider, falling back to
// the provider's conventional environment variable.
func (c *Config) ProviderAPIKey(provider string) string {
	if p, ok := c.LLM.Providers[provider]; ok && p.APIKey != "" {
		return p.APIKey
	}
	return llm.APIKeyFromEnv(provider)
}

// writeConfigFile writes a Config struct to a YAML file.
// Uses gopkg.in/yaml.v3 directly to ensure proper tag-based serialization.
func writeConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// expandPath expands ~ to the user's home directory in a path string.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Package config loads runtime configuration from an optional YAML file with
// environment variable overrides. Environment always wins over the file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Provider names for the LLM backend.
const (
	ProviderGoogleAI = "googleai"
	ProviderOpenAI   = "openai"
)

// Store backend names.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// StoreConfig selects and configures the report history backend.
type StoreConfig struct {
	Backend string `yaml:"backend"` // memory, sqlite, redis or postgres

	// SQLite.
	Path string `yaml:"path"`

	// Redis.
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	// Postgres.
	PostgresURL string `yaml:"postgres_url"`
}

// Config is the full runtime configuration.
type Config struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`

	// Nil means "use the client default"; an explicit 0 is passed through.
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   *int     `yaml:"max_tokens"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	OpenAIAPIKey string `yaml:"openai_api_key"`

	Addr     string `yaml:"addr"`
	LogLevel string `yaml:"log_level"`

	Store StoreConfig `yaml:"store"`
}

// MissingCredentialError reports an unset API key for the selected provider.
type MissingCredentialError struct {
	Provider string
	EnvVar   string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential for provider %q: set %s", e.Provider, e.EnvVar)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider: ProviderGoogleAI,
		Addr:     ":8086",
		LogLevel: "info",
		Store: StoreConfig{
			Backend: StoreMemory,
			Path:    "./personaforge.db",
		},
	}
}

// Load reads the config file at path (skipped when path is empty), then
// applies environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Provider, "PERSONAFORGE_PROVIDER")
	setString(&c.Model, "PERSONAFORGE_MODEL")
	setString(&c.Addr, "PERSONAFORGE_ADDR")
	setString(&c.LogLevel, "PERSONAFORGE_LOG_LEVEL")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.OpenAIAPIKey, "OPENAI_API_KEY")

	if v, ok := os.LookupEnv("PERSONAFORGE_TEMPERATURE"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = &f
		}
	}
	if v, ok := os.LookupEnv("PERSONAFORGE_MAX_TOKENS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = &n
		}
	}

	setString(&c.Store.Backend, "PERSONAFORGE_STORE")
	setString(&c.Store.Path, "PERSONAFORGE_STORE_PATH")
	setString(&c.Store.RedisAddr, "PERSONAFORGE_REDIS_ADDR")
	setString(&c.Store.RedisPassword, "PERSONAFORGE_REDIS_PASSWORD")
	setString(&c.Store.PostgresURL, "PERSONAFORGE_POSTGRES_URL")

	if v, ok := os.LookupEnv("PERSONAFORGE_REDIS_DB"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Store.RedisDB = n
		}
	}
}

func setString(dst *string, env string) {
	if v, ok := os.LookupEnv(env); ok && v != "" {
		*dst = v
	}
}

// Validate checks that the configuration is usable: a known provider with its
// API key present, and a known store backend.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGoogleAI:
		if c.GeminiAPIKey == "" {
			return &MissingCredentialError{Provider: c.Provider, EnvVar: "GEMINI_API_KEY"}
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return &MissingCredentialError{Provider: c.Provider, EnvVar: "OPENAI_API_KEY"}
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	switch c.Store.Backend {
	case StoreMemory, StoreSQLite, StoreRedis, StorePostgres:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

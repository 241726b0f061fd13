// Package config loads the runtime configuration of the parcel binary from the
// environment, optionally seeded from a .env file.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/aretw0/parcel/pkg/guardrail"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Generator backends.
const (
	GeneratorLocal     = "local"
	GeneratorOpenAI    = "openai"
	GeneratorAnthropic = "anthropic"
	GeneratorProcess   = "process"
)

// Flag is a boolean that accepts 1, true, yes and on (any case) as true and
// everything else as false.
type Flag bool

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Flag) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "1", "true", "yes", "on":
		*f = true
	default:
		*f = false
	}
	return nil
}

// Redis holds the Redis store settings.
type Redis struct {
	Addr     string        `env:"ADDR" envDefault:"localhost:6379"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	TTL      time.Duration `env:"TTL" envDefault:"0s"`
}

// Config is the process configuration.
type Config struct {
	LogLevel    string `env:"PARCEL_LOG_LEVEL" envDefault:"info"`
	HTTPAddr    string `env:"PARCEL_HTTP_ADDR" envDefault:":8080"`
	Store       string `env:"PARCEL_STORE" envDefault:"memory"`
	StorePath   string `env:"PARCEL_STORE_PATH"`
	Redis       Redis  `envPrefix:"PARCEL_REDIS_"`
	ListingsDir string `env:"PARCEL_LISTINGS_DIR" envDefault:"listings"`

	// EncryptionKey is a base64 AES-256 key. When set, reports are sealed
	// before they reach the store.
	EncryptionKey          string   `env:"PARCEL_ENCRYPTION_KEY"`
	EncryptionFallbackKeys []string `env:"PARCEL_ENCRYPTION_FALLBACK_KEYS" envSeparator:","`
	PIIPatterns            []string `env:"PARCEL_PII_PATTERNS" envSeparator:","`

	Generator       string `env:"PARCEL_GENERATOR" envDefault:"local"`
	Command         string `env:"PARCEL_GENERATOR_COMMAND"`
	PromptsFile     string `env:"PARCEL_PROMPTS_FILE"`
	Model           string `env:"PARCEL_MODEL"`
	MaxOutputTokens int    `env:"OPENAI_MAX_OUTPUT_TOKENS" envDefault:"600"`
	OpenAIKey       string `env:"OPENAI_API_KEY"`
	AnthropicKey    string `env:"ANTHROPIC_API_KEY"`
	SerperKey       string `env:"SERPER_API_KEY"`
	WebTools        Flag   `env:"CREW_WEB_TOOLS_ENABLED" envDefault:"true"`

	MaxRetries             int    `env:"FINAL_GUARDRAIL_MAX_RETRIES" envDefault:"5"`
	RequireExternalSources Flag   `env:"CREW_REQUIRE_EXTERNAL_SOURCES" envDefault:"true"`
	MinSourceURLs          int    `env:"CREW_MIN_EXTERNAL_SOURCE_URLS" envDefault:"1"`
	PolicyFile             string `env:"PARCEL_POLICY_FILE"`
}

// Load reads an optional .env file and parses the environment.
// Variables already set in the environment take precedence over the file.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return Parse()
}

// Parse parses the environment without reading any file.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis, StoreSQLite:
	default:
		return fmt.Errorf("invalid PARCEL_STORE %q", c.Store)
	}
	switch c.Generator {
	case GeneratorLocal, GeneratorOpenAI, GeneratorAnthropic:
	case GeneratorProcess:
		if strings.TrimSpace(c.Command) == "" {
			return errors.New("PARCEL_GENERATOR_COMMAND is required for the process generator")
		}
	default:
		return fmt.Errorf("invalid PARCEL_GENERATOR %q", c.Generator)
	}
	if c.EncryptionKey != "" {
		if _, _, err := c.EncryptionKeys(); err != nil {
			return err
		}
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("FINAL_GUARDRAIL_MAX_RETRIES must not be negative")
	}
	return nil
}

// SearchConfigured reports whether the selected generator is handed the
// web_search tool. Only the model-backed generators can call it.
func (c Config) SearchConfigured() bool {
	if strings.TrimSpace(c.SerperKey) == "" || !bool(c.WebTools) {
		return false
	}
	return c.Generator == GeneratorOpenAI || c.Generator == GeneratorAnthropic
}

// Guardrail returns the policy configuration.
func (c Config) Guardrail() guardrail.Config {
	return guardrail.Config{
		MaxRetries:             c.MaxRetries,
		RequireExternalSources: bool(c.RequireExternalSources),
		SearchConfigured:       c.SearchConfigured(),
		MinSourceURLs:          c.MinSourceURLs,
	}
}

// EncryptionKeys decodes the active and fallback encryption keys.
func (c Config) EncryptionKeys() ([]byte, [][]byte, error) {
	active, err := decodeKey("PARCEL_ENCRYPTION_KEY", c.EncryptionKey)
	if err != nil {
		return nil, nil, err
	}
	fallback := make([][]byte, 0, len(c.EncryptionFallbackKeys))
	for _, k := range c.EncryptionFallbackKeys {
		key, err := decodeKey("PARCEL_ENCRYPTION_FALLBACK_KEYS", k)
		if err != nil {
			return nil, nil, err
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(name, value string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%s must decode to 32 bytes, got %d", name, len(key))
	}
	return key, nil
}

// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/career-diagnosis/internal/llm"
)

// Store backends
const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"
)

// Log modes
const (
	LogModeDevelopment = "development"
	LogModeProduction  = "production"
)

// Defaults applied by MergeWithDefaults
const (
	DefaultListenAddr      = ":8080"
	DefaultMongoDatabase   = "career_diagnosis"
	DefaultRequestTimeout  = 90 * time.Second
	DefaultLogLevel        = "info"
	defaultRequestTimeoutS = 90
)

// Config represents the configuration that can be loaded from a JSON file and
// overridden from the environment. All fields are optional in the file.
type Config struct {
	// Storage
	Store         string `json:"store,omitempty"`          // postgres, mongo or memory
	DatabaseURL   string `json:"database_url,omitempty"`   // PostgreSQL connection URL
	MongoURI      string `json:"mongo_uri,omitempty"`      // MongoDB connection URI
	MongoDatabase string `json:"mongo_database,omitempty"` // MongoDB database name
	DBMaxConns    int    `json:"db_max_conns,omitempty"`   // PostgreSQL pool size; 0 keeps the pgx default

	// Generation
	Provider    string  `json:"provider,omitempty"`    // anthropic, gemini, openai or mock
	Model       string  `json:"model,omitempty"`       // Overrides the provider's default model
	MaxTokens   int     `json:"max_tokens,omitempty"`  // Output token ceiling
	Temperature float64 `json:"temperature,omitempty"` // Sampling temperature
	BaseURL     string  `json:"base_url,omitempty"`    // Alternate API endpoint
	APIKey      string  `json:"api_key,omitempty"`     // Vendor API key

	// Server
	ListenAddr            string `json:"listen_addr,omitempty"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds,omitempty"` // Bound on one diagnosis request

	// Tokens
	JWTSecret     string `json:"jwt_secret,omitempty"`
	JWTIssuer     string `json:"jwt_issuer,omitempty"`
	JWTExpiration string `json:"jwt_expiration,omitempty"` // hours ("24") or a duration ("36h")

	// Logging
	LogMode  string `json:"log_mode,omitempty"`  // development or production
	LogLevel string `json:"log_level,omitempty"` // debug, info, warn, error
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv returns a Config populated from environment variables. Unset
// variables leave fields empty.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Store:         os.Getenv("STORE"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: os.Getenv("MONGO_DATABASE"),
		Provider:      os.Getenv("LLM_PROVIDER"),
		Model:         os.Getenv("LLM_MODEL"),
		BaseURL:       os.Getenv("LLM_BASE_URL"),
		ListenAddr:    os.Getenv("LISTEN_ADDR"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTIssuer:     os.Getenv("JWT_ISSUER"),
		JWTExpiration: os.Getenv("JWT_EXPIRATION"),
		LogMode:       os.Getenv("LOG_MODE"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
	}

	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LLM_MAX_TOKENS: %v", err)
		}
		cfg.MaxTokens = n
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid LLM_TEMPERATURE: %v", err)
		}
		cfg.Temperature = f
	}
	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_MAX_CONNS: %v", err)
		}
		cfg.DBMaxConns = n
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT_SECONDS: %v", err)
		}
		cfg.RequestTimeoutSeconds = n
	}

	if cfg.JWTExpiration == "" {
		cfg.JWTExpiration = os.Getenv("JWT_EXPIRATION_HOURS")
	}

	// Vendor-specific keys are resolved in Load once the provider is known
	cfg.APIKey = os.Getenv("LLM_API_KEY")

	return cfg, nil
}

// APIKeyFromEnv returns the API key variable for the provider
func APIKeyFromEnv(p llm.Provider) string {
	switch p {
	case llm.ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	case llm.ProviderGemini:
		return os.Getenv("GEMINI_API_KEY")
	case llm.ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	default:
		return ""
	}
}

// Load reads the optional config file and overlays the environment on top
func Load(path string) (*Config, error) {
	base := &Config{}
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		base = fileCfg
	}

	env, err := FromEnv()
	if err != nil {
		return nil, err
	}

	merged := env.MergeWithDefaults(*base)
	merged = merged.MergeWithDefaults(Defaults())
	if merged.APIKey == "" {
		merged.APIKey = APIKeyFromEnv(llm.Provider(strings.ToLower(merged.Provider)))
	}
	return &merged, nil
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Store:                 StoreMemory,
		MongoDatabase:         DefaultMongoDatabase,
		Provider:              string(llm.ProviderAnthropic),
		MaxTokens:             llm.DefaultMaxTokens,
		Temperature:           llm.DefaultConfig().Temperature,
		ListenAddr:            DefaultListenAddr,
		RequestTimeoutSeconds: defaultRequestTimeoutS,
		LogMode:               LogModeProduction,
		LogLevel:              DefaultLogLevel,
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres store")
		}
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("config error: 'mongo_uri' is required for the mongo store")
		}
	case StoreMemory, "":
	default:
		return fmt.Errorf("config error: unknown store %q (want postgres, mongo or memory)", c.Store)
	}

	if c.Provider != "" {
		if _, err := llm.ParseProvider(c.Provider); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	if c.DBMaxConns < 0 {
		return fmt.Errorf("config error: 'db_max_conns' must be non-negative")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("config error: 'max_tokens' must be non-negative")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 2")
	}
	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'request_timeout_seconds' must be non-negative")
	}

	if c.JWTExpiration != "" {
		if _, err := ParseTokenLifetime(c.JWTExpiration); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	switch strings.ToLower(c.LogMode) {
	case "", LogModeDevelopment, LogModeProduction:
	default:
		return fmt.Errorf("config error: unknown log_mode %q", c.LogMode)
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Temperature is merged like the other numbers, so an explicit 0 needs the default to be 0.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Store == "" {
		result.Store = defaults.Store
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.MongoURI == "" {
		result.MongoURI = defaults.MongoURI
	}
	if result.MongoDatabase == "" {
		result.MongoDatabase = defaults.MongoDatabase
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}
	if result.JWTSecret == "" {
		result.JWTSecret = defaults.JWTSecret
	}
	if result.JWTIssuer == "" {
		result.JWTIssuer = defaults.JWTIssuer
	}
	if result.JWTExpiration == "" {
		result.JWTExpiration = defaults.JWTExpiration
	}
	if result.LogMode == "" {
		result.LogMode = defaults.LogMode
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Numeric fields: use default if zero
	if result.DBMaxConns == 0 {
		result.DBMaxConns = defaults.DBMaxConns
	}
	if result.MaxTokens == 0 {
		result.MaxTokens = defaults.MaxTokens
	}
	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}
	if result.RequestTimeoutSeconds == 0 {
		result.RequestTimeoutSeconds = defaults.RequestTimeoutSeconds
	}

	return result
}

// LLMConfig builds the generation client configuration
func (c *Config) LLMConfig() (*llm.Config, error) {
	cfg := llm.DefaultConfig()
	if c.Provider != "" {
		p, err := llm.ParseProvider(c.Provider)
		if err != nil {
			return nil, err
		}
		cfg = cfg.WithProvider(p)
	}
	if c.Model != "" {
		cfg = cfg.WithModel(c.Model)
	}
	if c.MaxTokens > 0 {
		cfg.MaxTokens = c.MaxTokens
	}
	if c.Temperature > 0 {
		cfg.Temperature = c.Temperature
	}
	cfg.BaseURL = c.BaseURL
	return cfg, nil
}

// RequestTimeout returns the per-request bound on a diagnosis
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

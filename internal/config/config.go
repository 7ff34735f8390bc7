package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the askdata API configuration.
type Config struct {
	HTTP     HTTPConfig               `yaml:"http"`
	Auth     AuthConfig               `yaml:"auth"`
	Cache    CacheConfig              `yaml:"cache"`
	LLM      LLMConfig                `yaml:"llm"`
	Datasets map[string]DatasetConfig `yaml:"datasets"`
	Logging  LoggingConfig            `yaml:"logging"`
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
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CacheConfig holds the optional keyword cache settings. An empty addrs list
// disables caching entirely.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLHours         int      `yaml:"ttl_hours"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// LLMConfig holds the generation backend settings.
type LLMConfig struct {
	APIKey         string  `yaml:"api_key"`
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	EmbeddingModel string  `yaml:"embedding_model"`
	Temperature    float32 `yaml:"temperature"`
}

// DatasetConfig holds per-dataset pipeline settings, keyed by dataset kind.
type DatasetConfig struct {
	Path            string `yaml:"path"`
	SearchColumn    string `yaml:"search_column"`
	FilterStrategy  string `yaml:"filter_strategy"`  // none, keybert, llm, both
	TopN            int    `yaml:"top_n"`
	KeywordFallback string `yaml:"keyword_fallback"` // original, empty
	Language        string `yaml:"language"`         // ru, en
	MaxResults      int    `yaml:"max_results"`      // 0 = no cap
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
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

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
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
		// Answer generation waits on the backend, so writes run long.
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Cache.TTLHours <= 0 {
		c.Cache.TTLHours = 24
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.LLM.Temperature <= 0 {
		c.LLM.Temperature = 0.2
	}
	if c.LLM.EmbeddingModel == "" {
		c.LLM.EmbeddingModel = "text-embedding-3-small"
	}
	for name, ds := range c.Datasets {
		if ds.FilterStrategy == "" {
			ds.FilterStrategy = "none"
		}
		if ds.KeywordFallback == "" {
			ds.KeywordFallback = "original"
		}
		if ds.Language == "" {
			ds.Language = "ru"
		}
		if ds.TopN <= 0 {
			ds.TopN = 5
		}
		c.Datasets[name] = ds
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if len(c.Datasets) == 0 {
		return fmt.Errorf("at least one dataset must be configured")
	}
	for name, ds := range c.Datasets {
		if ds.Path == "" {
			return fmt.Errorf("datasets.%s.path is required", name)
		}
		switch ds.FilterStrategy {
		case "none", "keybert", "llm", "both":
		default:
			return fmt.Errorf(
				"datasets.%s.filter_strategy must be one of none, keybert, llm, both, got %q",
				name, ds.FilterStrategy,
			)
		}
		switch ds.KeywordFallback {
		case "original", "empty":
		default:
			return fmt.Errorf(
				"datasets.%s.keyword_fallback must be \"original\" or \"empty\", got %q",
				name, ds.KeywordFallback,
			)
		}
	}
	return nil
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

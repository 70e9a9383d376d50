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

// Supported retrieval engines.
const (
	EngineIndri = "indri"
	EngineWeb   = "web"
)

// Supported query generation modes.
const (
	QueryGenSimple = "simple"
	QueryGenLLM    = "llm"
)

// Config holds the convsearch API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	QueryGen  QueryGenConfig  `yaml:"query_generation"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
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

// DatabaseConfig holds interaction store settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, bolt (default: redis)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	Path             string   `yaml:"path"` // bolt file path
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// RetrievalConfig holds retrieval back end settings.
type RetrievalConfig struct {
	Engine           string      `yaml:"engine"` // indri, web
	ResultsRequested int         `yaml:"results_requested"`
	Indri            IndriConfig `yaml:"indri"`
	Web              WebConfig   `yaml:"web"`
}

// IndriConfig holds settings for the local index engine.
type IndriConfig struct {
	IndriPath  string `yaml:"indri_path"` // path to the installed Indri toolkit
	Index      string `yaml:"index"`      // path to the built index
	TextFormat string `yaml:"text_format"`
}

// WebConfig holds settings for the remote web search API.
type WebConfig struct {
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
}

// QueryGenConfig holds query generation settings.
type QueryGenConfig struct {
	Mode     string `yaml:"mode"` // simple, llm
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	MaxTurns int    `yaml:"max_turns"` // conversation turns fed to the generator
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
		// Web retrieval does one search call plus one page fetch per result.
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.Path == "" {
		c.Database.Path = "convsearch.db"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Retrieval.Engine == "" {
		c.Retrieval.Engine = EngineIndri
	}
	if c.Retrieval.ResultsRequested <= 0 {
		c.Retrieval.ResultsRequested = 1
	}
	if c.Retrieval.Indri.TextFormat == "" {
		c.Retrieval.Indri.TextFormat = "trectext"
	}
	if c.QueryGen.Mode == "" {
		c.QueryGen.Mode = QueryGenSimple
	}
	if c.QueryGen.MaxTurns <= 0 {
		c.QueryGen.MaxTurns = 5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "redis":
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for the redis driver")
		}
	case "bolt":
		// Path has a default.
	default:
		return fmt.Errorf("database.driver must be \"redis\" or \"bolt\", got %q", c.Database.Driver)
	}
	switch c.Retrieval.Engine {
	case EngineIndri:
		if c.Retrieval.Indri.IndriPath == "" {
			return fmt.Errorf("retrieval.indri.indri_path is required for the indri engine")
		}
		if c.Retrieval.Indri.Index == "" {
			return fmt.Errorf("retrieval.indri.index is required for the indri engine")
		}
	case EngineWeb:
		if c.Retrieval.Web.APIKey == "" {
			return fmt.Errorf("retrieval.web.api_key is required for the web engine")
		}
	default:
		return fmt.Errorf("retrieval.engine must be %q or %q, got %q", EngineIndri, EngineWeb, c.Retrieval.Engine)
	}
	switch c.QueryGen.Mode {
	case QueryGenSimple:
	case QueryGenLLM:
		if c.QueryGen.APIKey == "" {
			return fmt.Errorf("query_generation.api_key is required for llm mode")
		}
		if c.QueryGen.Model == "" {
			return fmt.Errorf("query_generation.model is required for llm mode")
		}
	default:
		return fmt.Errorf(
			"query_generation.mode must be %q or %q, got %q",
			QueryGenSimple, QueryGenLLM, c.QueryGen.Mode,
		)
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

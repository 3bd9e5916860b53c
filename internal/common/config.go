package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/sales-tracker/constants"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Schema  SchemaConfig  `yaml:"schema"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr    string `yaml:"grpc_addr"`
	MetricsAddr string `yaml:"metrics_addr"` // empty disables /metrics
}

// SessionConfig holds session lifetime and contact settings
type SessionConfig struct {
	IdleTTL         time.Duration `yaml:"idle_ttl"`
	SweepInterval   time.Duration `yaml:"sweep_interval"`
	MaxSessions     int           `yaml:"max_sessions"`
	ContactSource   string        `yaml:"contact_source"`
	RegisterBackend string        `yaml:"register_backend"`
}

// SchemaConfig holds spreadsheet parsing settings
type SchemaConfig struct {
	AliasFile      string `yaml:"alias_file"`
	SheetName      string `yaml:"sheet_name"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			GRPCAddr:    ":8080",
			MetricsAddr: ":9090",
		},
		Session: SessionConfig{
			IdleTTL:         30 * time.Minute,
			SweepInterval:   time.Minute,
			MaxSessions:     256,
			ContactSource:   string(constants.ContactSourceRegister),
			RegisterBackend: string(constants.RegisterBackendMemory),
		},
		Schema: SchemaConfig{
			MaxUploadBytes: 32 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig starts from defaults, applies the YAML file named by CONFIG_FILE if set,
// then applies environment variables.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewAppError(CodeConfig, "read config file", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return NewAppError(CodeConfig, fmt.Sprintf("parse config file %s", path), err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.GRPCAddr = getEnv("GRPC_ADDR", c.Server.GRPCAddr)
	c.Server.MetricsAddr = getEnv("METRICS_ADDR", c.Server.MetricsAddr)

	c.Session.IdleTTL = getEnvAsDuration("SESSION_IDLE_TTL", c.Session.IdleTTL)
	c.Session.SweepInterval = getEnvAsDuration("SESSION_SWEEP_INTERVAL", c.Session.SweepInterval)
	c.Session.MaxSessions = getEnvAsInt("MAX_SESSIONS", c.Session.MaxSessions)
	c.Session.ContactSource = getEnv("CONTACT_SOURCE", c.Session.ContactSource)
	c.Session.RegisterBackend = getEnv("CONTACT_REGISTER", c.Session.RegisterBackend)

	c.Schema.AliasFile = getEnv("ALIAS_FILE", c.Schema.AliasFile)
	c.Schema.SheetName = getEnv("SHEET_NAME", c.Schema.SheetName)
	c.Schema.MaxUploadBytes = getEnvAsInt64("MAX_UPLOAD_BYTES", c.Schema.MaxUploadBytes)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.GRPCAddr == "" {
		return NewAppError(CodeConfig, "GRPC_ADDR is required", ErrInvalidInput)
	}
	switch constants.ContactSource(c.Session.ContactSource) {
	case constants.ContactSourceRegister, constants.ContactSourceDataset:
	default:
		return NewAppError(CodeConfig, fmt.Sprintf("CONTACT_SOURCE %q must be register or dataset", c.Session.ContactSource), ErrInvalidInput)
	}
	switch constants.RegisterBackend(c.Session.RegisterBackend) {
	case constants.RegisterBackendMemory, constants.RegisterBackendSQLite:
	default:
		return NewAppError(CodeConfig, fmt.Sprintf("CONTACT_REGISTER %q must be memory or sqlite", c.Session.RegisterBackend), ErrInvalidInput)
	}
	if c.Session.IdleTTL < 0 || c.Session.SweepInterval < 0 {
		return NewAppError(CodeConfig, "session durations must not be negative", ErrInvalidInput)
	}
	if c.Session.MaxSessions < 0 || c.Schema.MaxUploadBytes < 0 {
		return NewAppError(CodeConfig, "limits must not be negative", ErrInvalidInput)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return NewAppError(CodeConfig, "LOG_LEVEL", err)
	}
	return nil
}

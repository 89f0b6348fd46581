// Package config has the configuration file for the app
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment is the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "dev"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
)

func (e Environment) String() string {
	return string(e)
}

// ParseEnvironment accepts the short and long spellings of an environment
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev", "development":
		return EnvDevelopment, nil
	case "staging":
		return EnvStaging, nil
	case "prod", "production":
		return EnvProduction, nil
	case "test":
		return EnvTest, nil
	default:
		return EnvDevelopment, fmt.Errorf("ENV must be one of: [dev staging prod test], got: %s", s)
	}
}

// ChatMode selects the chat front-end
type ChatMode string

const (
	// ModeBulario gates on medication keywords and enriches the prompt
	ModeBulario ChatMode = "bulario"
	// ModeSimple forwards messages straight to the model
	ModeSimple ChatMode = "simple"
	// ModeEcho answers with canned replies, no model involved
	ModeEcho ChatMode = "echo"
)

// ParseChatMode validates a CHAT_MODE value
func ParseChatMode(s string) (ChatMode, error) {
	switch mode := ChatMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case ModeBulario, ModeSimple, ModeEcho:
		return mode, nil
	default:
		return ModeBulario, fmt.Errorf("CHAT_MODE must be one of: [bulario simple echo], got: %s", s)
	}
}

// ErrMissingAPIKey is returned when a model-backed mode has no API key
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// APIKeySetupInstructions is printed when the process refuses to start
const APIKeySetupInstructions = `Erro: OPENAI_API_KEY não encontrada no arquivo .env
Configure sua chave da OpenAI no arquivo .env:
OPENAI_API_KEY=sua_chave_aqui`

// Config holds all application configuration
type Config struct {
	Port              string
	Address           string
	Env               Environment
	LogLevel          string
	LogDir            string
	LogRetentionWeeks int   // Number of weeks to keep log files
	MaxLogFileSize    int64 // Maximum log file size in bytes
	MaxRequestBody    int64 // Maximum request body size in bytes
	MaxHeaderSize     int64 // Maximum header size in bytes
	MaxMessageLength  int   // Maximum chat message length in characters

	ChatMode      ChatMode
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	Temperature   float64

	BulaAPIURL     string
	BulaAPITimeout time.Duration
	ProbeInterval  time.Duration
}

// LoadEnvFile reads .env from the working directory, falling back to the
// directory of the executable. A missing file is not an error.
func LoadEnvFile() error {
	if err := godotenv.Load(); err == nil {
		return nil
	}

	ex, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	envPath := filepath.Join(filepath.Dir(ex), ".env")
	if _, err := os.Stat(envPath); err != nil {
		return nil
	}

	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("failed to load %s: %w", envPath, err)
	}
	return nil
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	env, err := ParseEnvironment(getEnvWithDefault("ENV", "dev"))
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: invalid ENV: %w", err)
	}

	mode, err := ParseChatMode(getEnvWithDefault("CHAT_MODE", string(ModeBulario)))
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: invalid CHAT_MODE: %w", err)
	}

	cfg := &Config{
		Port:              getEnvWithDefault("PORT", "8001"),
		Address:           getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:               env,
		LogLevel:          getEnvWithDefault("LOG_LEVEL", "info"),
		LogDir:            getEnvWithDefault("LOG_DIR", "logs"),
		LogRetentionWeeks: getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),         // 4 weeks default
		MaxLogFileSize:    getInt64EnvWithDefault("MAX_LOG_FILE_SIZE", 104857600), // 100MB default
		MaxRequestBody:    getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576),    // 1MB default
		MaxHeaderSize:     getInt64EnvWithDefault("MAX_HEADER_SIZE", 1048576),     // 1MB default
		MaxMessageLength:  getIntEnvWithDefault("MAX_MESSAGE_LENGTH", 4000),

		ChatMode:      mode,
		OpenAIAPIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:   getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		Temperature:   getFloatEnvWithDefault("LLM_TEMPERATURE", 0.7),

		BulaAPIURL:     strings.TrimRight(getEnvWithDefault("BULA_API_URL", "http://localhost:3001"), "/"),
		BulaAPITimeout: getDurationEnvWithDefault("BULA_API_TIMEOUT", 10*time.Second),
		ProbeInterval:  getDurationEnvWithDefault("BULA_PROBE_INTERVAL", time.Minute),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// RequiresAPIKey reports whether the configured mode calls the model
func (c *Config) RequiresAPIKey() bool {
	return c.ChatMode != ModeEcho
}

// ValidateAPIKey fails with ErrMissingAPIKey when the mode needs a key and none is set
func (c *Config) ValidateAPIKey() error {
	if c.RequiresAPIKey() && c.OpenAIAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return fmt.Errorf("invalid MAX_HEADER_SIZE: %w", err)
	}

	if err := validateLogRetentionWeeks(cfg.LogRetentionWeeks); err != nil {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: %w", err)
	}

	if err := validateMaxLogFileSize(cfg.MaxLogFileSize); err != nil {
		return fmt.Errorf("invalid MAX_LOG_FILE_SIZE: %w", err)
	}

	if cfg.MaxMessageLength <= 0 || cfg.MaxMessageLength > 100000 {
		return fmt.Errorf("invalid MAX_MESSAGE_LENGTH: must be between 1 and 100000, got: %d", cfg.MaxMessageLength)
	}

	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return fmt.Errorf("invalid LLM_TEMPERATURE: must be between 0 and 2, got: %g", cfg.Temperature)
	}

	if strings.TrimSpace(cfg.OpenAIModel) == "" {
		return fmt.Errorf("invalid OPENAI_MODEL: cannot be empty")
	}

	if cfg.OpenAIBaseURL != "" {
		if err := validateBaseURL(cfg.OpenAIBaseURL); err != nil {
			return fmt.Errorf("invalid OPENAI_BASE_URL: %w", err)
		}
	}

	if err := validateBaseURL(cfg.BulaAPIURL); err != nil {
		return fmt.Errorf("invalid BULA_API_URL: %w", err)
	}

	if err := validateTimeout(cfg.BulaAPITimeout, 5*time.Minute); err != nil {
		return fmt.Errorf("invalid BULA_API_TIMEOUT: %w", err)
	}

	if err := validateTimeout(cfg.ProbeInterval, 24*time.Hour); err != nil {
		return fmt.Errorf("invalid BULA_PROBE_INTERVAL: %w", err)
	}

	return nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "localhost" {
		return nil
	}

	if ip := net.ParseIP(address); ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	return nil
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// validateSizeLimit validates size limit configuration values
func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 { // 100MB
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

// validateLogRetentionWeeks validates the LOG_RETENTION_WEEKS environment variable
func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be positive, got: %d", weeks)
	}

	if weeks > 52 {
		return fmt.Errorf("LOG_RETENTION_WEEKS is too large (max 52 weeks), got: %d", weeks)
	}

	return nil
}

// validateMaxLogFileSize validates the MAX_LOG_FILE_SIZE environment variable
func validateMaxLogFileSize(size int64) error {
	if size < 1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too small (min 1MB), got: %d bytes", size)
	}

	if size > 1024*1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too large (max 1GB), got: %d bytes", size)
	}

	return nil
}

// validateBaseURL accepts absolute http(s) URLs
func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("must be a valid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got: %q", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}

	return nil
}

func validateTimeout(d, max time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("must be positive, got: %s", d)
	}

	if d > max {
		return fmt.Errorf("is too large (max %s), got: %s", max, d)
	}

	return nil
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getInt64EnvWithDefault gets an environment variable as int64 with a default value
func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getFloatEnvWithDefault gets an environment variable as float64 with a default value
func getFloatEnvWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getDurationEnvWithDefault accepts Go durations ("10s") or plain seconds ("10")
func getDurationEnvWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(value); err == nil {
		return d
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"PORT",
		"ADDRESS",
		"ENV",
		"LOG_LEVEL",
		"LOG_DIR",
		"LOG_RETENTION_WEEKS",
		"MAX_LOG_FILE_SIZE",
		"MAX_REQUEST_BODY",
		"MAX_HEADER_SIZE",
		"MAX_MESSAGE_LENGTH",
		"CHAT_MODE",
		"OPENAI_API_KEY",
		"OPENAI_MODEL",
		"OPENAI_BASE_URL",
		"LLM_TEMPERATURE",
		"BULA_API_URL",
		"BULA_API_TIMEOUT",
		"BULA_PROBE_INTERVAL",
	}
}

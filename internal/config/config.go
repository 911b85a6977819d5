package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all runtime configuration, loaded from embedded defaults
// with environment overrides.
type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	LogDir      string // when set, logs also go to a timestamped file
	Debug       bool
	Answer      AnswerConfig
}

// AnswerConfig configures the external answer provider
type AnswerConfig struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

type defaults struct {
	Answer struct {
		APIURL         string `yaml:"api_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"answer"`
}

// Load builds the configuration from embedded defaults and environment
// variables.
func Load() (*Config, error) {
	var def defaults
	if err := yaml.Unmarshal(defaultsYAML, &def); err != nil {
		return nil, fmt.Errorf("parse embedded defaults: %w", err)
	}

	env := getEnv("ENVIRONMENT", "dev")

	timeoutSeconds, err := getEnvInt("ANSWER_TIMEOUT_SECONDS", def.Answer.TimeoutSeconds)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		LogDir:      getEnv("LOG_DIR", ""),
		Debug:       getEnv("DEBUG", getDefaultDebug(env)) == "true",
		Answer: AnswerConfig{
			APIURL:  getEnv("ANSWER_API_URL", def.Answer.APIURL),
			APIKey:  getEnv("ANSWER_API_KEY", ""),
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}, nil
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}

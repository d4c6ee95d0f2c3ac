package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	AI struct {
		Provider       string `yaml:"provider"` // gemini (default) or openai
		Model          string `yaml:"model"`
		APIKey         string `yaml:"apiKey"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"ai"`

	Analytics struct {
		PropertyID      string `yaml:"propertyId"`
		CredentialsJSON string `yaml:"credentialsJson"`
	} `yaml:"analytics"`

	Limits struct {
		MaxUploadBytes int64 `yaml:"maxUploadBytes"`
		RateCapacity   int   `yaml:"rateCapacity"`
		RateRefill     int   `yaml:"rateRefill"`
	} `yaml:"limits"`
}

// Load reads the yaml config (the file is optional; everything can come
// from the environment), applies env overrides, then defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// env-only deployment
	default:
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("AI_PROVIDER"); v != "" {
		c.AI.Provider = v
	}
	if v := os.Getenv("AI_MODEL"); v != "" {
		c.AI.Model = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.AI.APIKey = v
		if c.AI.Provider == "" {
			c.AI.Provider = "gemini"
		}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.AI.Provider == "openai" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("GA_PROPERTY_ID"); v != "" {
		c.Analytics.PropertyID = v
	}
	if v := os.Getenv("GA_CREDENTIALS_JSON"); v != "" {
		c.Analytics.CredentialsJSON = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "gemini"
	}
	if c.AI.TimeoutSeconds == 0 {
		c.AI.TimeoutSeconds = 60
	}
	if c.Limits.MaxUploadBytes == 0 {
		c.Limits.MaxUploadBytes = 20 << 20
	}
	if c.Limits.RateCapacity == 0 {
		c.Limits.RateCapacity = 10
	}
	if c.Limits.RateRefill == 0 {
		c.Limits.RateRefill = 1
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// placeholders are throwaway values people leave in sample configs. A
// credential matching one counts as absent so the feature degrades instead
// of spending doomed API calls.
var placeholders = []string{
	"your-api-key",
	"your_api_key",
	"your-gemini-api-key",
	"api-key-here",
	"changeme",
	"change-me",
	"xxx",
	"todo",
}

func isPlaceholder(key string) bool {
	if key == "" {
		return true
	}
	lower := strings.ToLower(key)
	for _, p := range placeholders {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// AIConfigured reports whether a usable remote-verifier credential is set.
func (c *Config) AIConfigured() bool {
	return !isPlaceholder(c.AI.APIKey)
}

// AnalyticsConfigured reports whether the analytics proxy has credentials.
func (c *Config) AnalyticsConfigured() bool {
	return c.Analytics.PropertyID != "" && !isPlaceholder(c.Analytics.CredentialsJSON)
}

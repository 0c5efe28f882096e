// Package config loads service configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "data/config.yaml"

type config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	PortValue int `yaml:"port"`
}

func (c *ServerConfig) Port() int {
	if c.PortValue == 0 {
		return 8080
	}
	return c.PortValue
}

// DatabaseConfig holds the SQLite settings.
type DatabaseConfig struct {
	PathValue string `yaml:"path"`
}

func (c *DatabaseConfig) Path() string {
	if c.PathValue == "" {
		return "./data/splitease.db"
	}
	return c.PathValue
}

// AuthConfig holds the JWT settings.
type AuthConfig struct {
	SecretValue     string `yaml:"jwt-secret"`
	TokenHoursValue int64  `yaml:"token-hours"`
}

func (c *AuthConfig) Secret() string {
	if c.SecretValue == "" {
		return os.Getenv("JWT_SECRET")
	}
	return c.SecretValue
}

func (c *AuthConfig) TokenDuration() time.Duration {
	if c.TokenHoursValue == 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.TokenHoursValue) * time.Hour
}

// Service provides typed access to the loaded configuration.
type Service struct {
	config config
}

// New loads configuration from CONFIG_PATH (or the default location).
// A missing file is not an error: every section has working defaults.
func New() (*Service, error) {
	s := &Service{}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigFile
	}

	rawYAML, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(rawYAML, &s.config); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	return s, nil
}

func (s *Service) Server() *ServerConfig {
	return &s.config.Server
}

func (s *Service) Database() *DatabaseConfig {
	return &s.config.Database
}

func (s *Service) Auth() *AuthConfig {
	return &s.config.Auth
}

// Package config provides configuration loading and management for the
// docsense service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/docsense/model"
)

// Config represents the complete docsense configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Models ModelsConfig `yaml:"models"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Addr is the listen address (default :8000).
	Addr string `yaml:"addr"`
	// ReadTimeout bounds request reading, including uploads.
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// WriteTimeout bounds response writing. Completion-backed endpoints
	// can take minutes, so this is generous.
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ModelsConfig configures model selection.
type ModelsConfig struct {
	// Default is the model used when no capability matches.
	Default string `yaml:"default"`

	// Capabilities maps capability names to model preference chains.
	Capabilities map[string]*model.CapabilityConfig `yaml:"capabilities"`

	// Endpoints maps model names to provider endpoints.
	Endpoints map[string]*model.EndpointConfig `yaml:"endpoints"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ReadTimeout:     2 * time.Minute,
			WriteTimeout:    5 * time.Minute,
			ShutdownTimeout: 15 * time.Second,
		},
		Models: ModelsConfig{
			Default: "gemini-flash",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	for name, ep := range c.Models.Endpoints {
		if ep == nil || ep.Provider == "" {
			return fmt.Errorf("models.endpoints.%s: provider is required", name)
		}
		if ep.Model == "" {
			return fmt.Errorf("models.endpoints.%s: model is required", name)
		}
	}
	for name, cap := range c.Models.Capabilities {
		if !model.Capability(name).IsValid() {
			return fmt.Errorf("models.capabilities.%s: unknown capability", name)
		}
		if cap == nil || len(cap.Preferred) == 0 {
			return fmt.Errorf("models.capabilities.%s: at least one preferred model is required", name)
		}
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file layered over defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one; other takes precedence for
// non-zero values.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.ReadTimeout != 0 {
		c.Server.ReadTimeout = other.Server.ReadTimeout
	}
	if other.Server.WriteTimeout != 0 {
		c.Server.WriteTimeout = other.Server.WriteTimeout
	}
	if other.Server.ShutdownTimeout != 0 {
		c.Server.ShutdownTimeout = other.Server.ShutdownTimeout
	}

	if other.Models.Default != "" {
		c.Models.Default = other.Models.Default
	}
	if len(other.Models.Capabilities) > 0 {
		if c.Models.Capabilities == nil {
			c.Models.Capabilities = make(map[string]*model.CapabilityConfig)
		}
		for name, cap := range other.Models.Capabilities {
			c.Models.Capabilities[name] = cap
		}
	}
	if len(other.Models.Endpoints) > 0 {
		if c.Models.Endpoints == nil {
			c.Models.Endpoints = make(map[string]*model.EndpointConfig)
		}
		for name, ep := range other.Models.Endpoints {
			c.Models.Endpoints[name] = ep
		}
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}

// ApplyToRegistry pushes the model configuration into a live registry.
// Used both at startup and by the config watcher on reload.
func (c *Config) ApplyToRegistry(reg *model.Registry) {
	for name, ep := range c.Models.Endpoints {
		reg.SetEndpoint(name, ep)
	}
	for name, cap := range c.Models.Capabilities {
		if capability := model.ParseCapability(name); capability != "" {
			reg.SetCapability(capability, cap)
		}
	}
	if c.Models.Default != "" {
		reg.SetDefault(c.Models.Default)
	}
}

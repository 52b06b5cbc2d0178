// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// AgentConfig identifies this agent to the payment service. Every CardInfo
// and CardPayment request carries these values.
type AgentConfig struct {
	AgentID         string `mapstructure:"agent_id" yaml:"agent_id"`
	SalepointID     string `mapstructure:"salepoint_id" yaml:"salepoint_id"`
	RegionID        int    `mapstructure:"region_id" yaml:"region_id"`
	DeviceID        string `mapstructure:"device_id" yaml:"device_id"`
	ProtocolVersion string `mapstructure:"protocol_version" yaml:"protocol_version"`
}

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Paths struct {
		Log           string `mapstructure:"log" yaml:"log"`
		Registry      string `mapstructure:"registry" yaml:"registry"`
		ErrorRegistry string `mapstructure:"error_registry" yaml:"error_registry"`
	} `mapstructure:"paths" yaml:"paths"`

	Agent AgentConfig `mapstructure:"agent" yaml:"agent"`

	Gateway struct {
		URL            string `mapstructure:"url" yaml:"url"`
		Namespace      string `mapstructure:"namespace" yaml:"namespace"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	} `mapstructure:"gateway" yaml:"gateway"`

	Registry struct {
		Encoding    string `mapstructure:"encoding" yaml:"encoding"`
		Extension   string `mapstructure:"extension" yaml:"extension"`
		ErrorMarker bool   `mapstructure:"error_marker" yaml:"error_marker"`
	} `mapstructure:"registry" yaml:"registry"`

	Report struct {
		Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"report" yaml:"report"`
}

// GatewayTimeout returns the transport timeout of payment service calls.
func (c *Config) GatewayTimeout() time.Duration {
	return time.Duration(c.Gateway.TimeoutSeconds) * time.Second
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
// configFile, when not empty, replaces the search of config.yaml.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.sdp-connect")
		v.AddConfigPath(".sdp-connect")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("SDP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Path defaults
	v.SetDefault("paths.log", "")
	v.SetDefault("paths.registry", "")
	v.SetDefault("paths.error_registry", "")

	// Agent defaults
	v.SetDefault("agent.agent_id", "")
	v.SetDefault("agent.salepoint_id", "")
	v.SetDefault("agent.region_id", 0)
	v.SetDefault("agent.device_id", "")
	v.SetDefault("agent.protocol_version", "0")

	// Gateway defaults
	v.SetDefault("gateway.url", "")
	v.SetDefault("gateway.namespace", "urn:sdp")
	v.SetDefault("gateway.timeout_seconds", 30)

	// Registry defaults
	v.SetDefault("registry.encoding", "windows-1251")
	v.SetDefault("registry.extension", ".txt")
	v.SetDefault("registry.error_marker", true)

	// Report defaults
	v.SetDefault("report.enabled", false)
	v.SetDefault("report.directory", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Gateway.TimeoutSeconds < 1 || config.Gateway.TimeoutSeconds > 300 {
		return fmt.Errorf("gateway.timeout_seconds must be between 1 and 300, got: %d", config.Gateway.TimeoutSeconds)
	}

	if config.Registry.Encoding == "" {
		return fmt.Errorf("registry.encoding must not be empty")
	}

	if config.Registry.Extension != "" && !strings.HasPrefix(config.Registry.Extension, ".") {
		return fmt.Errorf("registry.extension must start with a dot, got: %s", config.Registry.Extension)
	}

	return nil
}

// ValidateForSubmission checks the settings needed to talk to the payment
// service. Commands that only read registries do not need them.
func (c *Config) ValidateForSubmission() error {
	missing := []string{}
	if c.Gateway.URL == "" {
		missing = append(missing, "gateway.url")
	}
	if c.Agent.AgentID == "" {
		missing = append(missing, "agent.agent_id")
	}
	if c.Agent.SalepointID == "" {
		missing = append(missing, "agent.salepoint_id")
	}
	if c.Agent.DeviceID == "" {
		missing = append(missing, "agent.device_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing settings for payment submission: %s", strings.Join(missing, ", "))
	}
	return nil
}

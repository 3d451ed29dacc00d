// Package config loads leetstats settings from defaults, a YAML file and
// LEETSTATS_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"leetstats/pkg/logger"
	"leetstats/pkg/models"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "LEETSTATS"

// DefaultBaseURL is the public statistics API
const DefaultBaseURL = "https://leetcode-stats-api.herokuapp.com"

// Config holds all leetstats configuration
type Config struct {
	API       APIConfig       `yaml:"api" mapstructure:"api"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	GRPC      GRPCConfig      `yaml:"grpc" mapstructure:"grpc"`
	Logging   logger.Config   `yaml:"logging" mapstructure:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
	UI        UIConfig        `yaml:"ui" mapstructure:"ui"`
}

// APIConfig describes the upstream statistics service
type APIConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Shape   string `yaml:"shape" mapstructure:"shape"`     // flat, profile or auto
	Timeout string `yaml:"timeout" mapstructure:"timeout"` // Go duration, e.g. "15s"
}

// ServerConfig for the HTTP widget server
type ServerConfig struct {
	Host           string   `yaml:"host" mapstructure:"host"`
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// GRPCConfig for the gRPC stats service
type GRPCConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Host    string `yaml:"host" mapstructure:"host"`
	Port    int    `yaml:"port" mapstructure:"port"`
}

// TelemetryConfig toggles tracing
type TelemetryConfig struct {
	Tracing     bool   `yaml:"tracing" mapstructure:"tracing"`
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
}

// UIConfig for terminal rendering
type UIConfig struct {
	BarWidth int `yaml:"bar_width" mapstructure:"bar_width"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Shape:   string(models.ShapeFlat),
			Timeout: "15s",
		},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			AllowedOrigins: []string{"*"},
		},
		GRPC: GRPCConfig{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    50051,
		},
		Logging: logger.Config{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
		Telemetry: TelemetryConfig{
			Tracing:     false,
			ServiceName: "leetstats",
		},
		UI: UIConfig{
			BarWidth: 30,
		},
	}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.shape", d.API.Shape)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("grpc.enabled", d.GRPC.Enabled)
	v.SetDefault("grpc.host", d.GRPC.Host)
	v.SetDefault("grpc.port", d.GRPC.Port)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)
	v.SetDefault("telemetry.tracing", d.Telemetry.Tracing)
	v.SetDefault("telemetry.service_name", d.Telemetry.ServiceName)
	v.SetDefault("ui.bar_width", d.UI.BarWidth)
}

// Load loads configuration from file, falling back to defaults.
// An empty path searches the standard locations; a missing file is not an error.
func Load(configPath string) (*Config, error) {
	return LoadInto(viper.New(), configPath)
}

// LoadInto is Load on a caller-supplied viper instance, so commands can
// read keys and bind flags on it afterwards.
func LoadInto(v *viper.Viper, configPath string) (*Config, error) {
	setDefaults(v, Default())
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if _, err := models.ParseShape(c.API.Shape); err != nil {
		return fmt.Errorf("api.shape %q: %w", c.API.Shape, err)
	}
	if c.API.Timeout != "" {
		d, err := time.ParseDuration(c.API.Timeout)
		if err != nil {
			return fmt.Errorf("api.timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("api.timeout must not be negative")
		}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.GRPC.Port < 0 || c.GRPC.Port > 65535 {
		return fmt.Errorf("grpc.port out of range: %d", c.GRPC.Port)
	}
	if c.UI.BarWidth < 0 {
		return fmt.Errorf("ui.bar_width must be >= 0")
	}
	return nil
}

// Save saves configuration to file
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// findConfigFile searches for config in standard locations
func findConfigFile() string {
	locations := []string{
		"./leetstats.yaml",
		"./config/leetstats.yaml",
		DefaultConfigPath(),
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		locations = append(locations, filepath.Join(home, ".leetstats.yaml"))
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// APIShape returns the parsed upstream shape
func (c *Config) APIShape() models.Shape {
	s, err := models.ParseShape(c.API.Shape)
	if err != nil {
		return models.ShapeFlat
	}
	return s
}

// APITimeout returns the upstream timeout; zero means the client default
func (c *Config) APITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// HTTPAddr returns the listen address of the widget server
func (c *Config) HTTPAddr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// GRPCAddr returns the listen address of the gRPC service
func (c *Config) GRPCAddr() string {
	return net.JoinHostPort(c.GRPC.Host, strconv.Itoa(c.GRPC.Port))
}

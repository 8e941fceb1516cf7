// Package config holds the application configuration, loaded through viper
// from defaults, an optional YAML config file, and SUTURE_* environment
// variables, in that order of precedence (lowest to highest).
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the root of the application configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Report   ReportConfig   `mapstructure:"report" yaml:"report"`
	Bridge   BridgeConfig   `mapstructure:"bridge" yaml:"bridge"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names used for each console log level.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// ReportConfig controls where findings documents and the sources they
// reference are looked up.
type ReportConfig struct {
	// ProjectRoot is the directory finding paths are resolved against.
	// It replaces any implicit reliance on the process working directory.
	ProjectRoot string `mapstructure:"project_root" yaml:"project_root"`
	// IssuesFile is the default findings document, used when a command or
	// bridge request does not name one.
	IssuesFile string `mapstructure:"issues_file" yaml:"issues_file"`
}

// BridgeConfig configures the local HTTP command bridge.
type BridgeConfig struct {
	ListenAddr     string `mapstructure:"listen_addr" yaml:"listen_addr"`
	RequestTimeout int    `mapstructure:"request_timeout_seconds" yaml:"request_timeout_seconds"`
}

// DatabaseConfig holds the optional PostgreSQL connection details. An empty
// URL disables persistence entirely.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "suture-cli")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "red")

	// -- Report --
	v.SetDefault("report.project_root", ".")
	v.SetDefault("report.issues_file", "coverity_issues.json")

	// -- Bridge --
	// Localhost by default: the bridge is a local agent integration, not a
	// public API.
	v.SetDefault("bridge.listen_addr", "127.0.0.1:8080")
	v.SetDefault("bridge.request_timeout_seconds", 60)

	// -- Database --
	v.SetDefault("database.url", "")
}

// NewFromViper unmarshals and validates a configuration from a viper
// instance that already has defaults, file, and env sources applied.
func NewFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Report.ProjectRoot == "" {
		return fmt.Errorf("report.project_root must not be empty")
	}
	if c.Report.IssuesFile == "" {
		return fmt.Errorf("report.issues_file must not be empty")
	}
	if c.Bridge.ListenAddr == "" {
		return fmt.Errorf("bridge.listen_addr must not be empty")
	}
	if c.Bridge.RequestTimeout <= 0 {
		return fmt.Errorf("bridge.request_timeout_seconds must be a positive integer")
	}
	return nil
}

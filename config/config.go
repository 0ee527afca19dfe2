// Package config loads the shaderport configuration: external tool
// paths, stage timeouts and server settings. Sources merge in precedence
// order system < user < project < environment, with SHADERPORT_ prefixed
// variables on top.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/spectralabs/shaderport/errors"
	"github.com/spectralabs/shaderport/toolchain"
)

// Config is the process-wide configuration, resolved once at startup.
type Config struct {
	Tools  ToolsConfig  `mapstructure:"tools"`
	Server ServerConfig `mapstructure:"server"`
}

// ToolsConfig locates and bounds the external compiler stages.
type ToolsConfig struct {
	Slangc     string `mapstructure:"slangc"`
	Glslang    string `mapstructure:"glslang"`
	SpirvCross string `mapstructure:"spirv_cross"`

	DirectTimeoutSeconds     int `mapstructure:"direct_timeout_seconds"`
	MultiStageTimeoutSeconds int `mapstructure:"multi_stage_timeout_seconds"`
	OutputLimitBytes         int `mapstructure:"output_limit_bytes"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// RatePerSecond and RateBurst bound compile-request admission, which
	// in turn bounds subprocess spawn rate.
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	RateBurst     int     `mapstructure:"rate_burst"`
}

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the shaderport configuration using Viper.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	globalConfig = &cfg
	return globalConfig, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}

	return &cfg, nil
}

// Reset clears the cached configuration (useful for testing).
func Reset() {
	globalConfig = nil
	viperInstance = nil
}

// Toolchain converts the loaded configuration into the immutable value
// the pipeline receives. Pipeline logic never reads ambient config state.
func (c *Config) Toolchain() toolchain.Config {
	return toolchain.Config{
		SlangcPath:        c.Tools.Slangc,
		GlslangPath:       c.Tools.Glslang,
		SpirvCrossPath:    c.Tools.SpirvCross,
		DirectTimeout:     time.Duration(c.Tools.DirectTimeoutSeconds) * time.Second,
		MultiStageTimeout: time.Duration(c.Tools.MultiStageTimeoutSeconds) * time.Second,
		OutputLimit:       c.Tools.OutputLimitBytes,
	}
}

// initViper initializes Viper with configuration sources and defaults.
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix("SHADERPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	BindSensitiveEnvVars(v)
	SetDefaults(v)
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// findProjectConfig searches for shaderport.toml by walking up the
// directory tree from the working directory.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, "shaderport.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// mergeConfigFiles merges configuration files in precedence order
// (lowest to highest): system < user < project.
func mergeConfigFiles(v *viper.Viper) {
	homeDir, _ := os.UserHomeDir()

	configPaths := []string{
		"/etc/shaderport/config.toml",
		filepath.Join(homeDir, ".shaderport", "config.toml"),
	}
	if projectConfig := findProjectConfig(); projectConfig != "" {
		configPaths = append(configPaths, projectConfig)
	}

	for _, configPath := range configPaths {
		if _, err := os.Stat(configPath); err != nil {
			continue
		}
		tempViper := viper.New()
		tempViper.SetConfigFile(configPath)
		tempViper.SetConfigType("toml")

		if err := tempViper.ReadInConfig(); err == nil {
			for key, value := range tempViper.AllSettings() {
				v.Set(key, value)
			}
		}
	}
}

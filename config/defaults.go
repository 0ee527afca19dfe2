package config

import (
	"github.com/spf13/viper"

	"github.com/spectralabs/shaderport/toolchain"
)

// DefaultPort is the default HTTP listen port.
const DefaultPort = 8787

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	// Tool paths default to PATH lookup
	v.SetDefault("tools.slangc", "slangc")
	v.SetDefault("tools.glslang", "glslangValidator")
	v.SetDefault("tools.spirv_cross", "spirv-cross")

	// Shader compiles are expected to be fast; a timeout means a
	// pathological input that will not succeed on retry
	v.SetDefault("tools.direct_timeout_seconds", 10)
	v.SetDefault("tools.multi_stage_timeout_seconds", 30)
	v.SetDefault("tools.output_limit_bytes", toolchain.DefaultOutputLimit)

	// Server defaults
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
		"tauri://localhost", // Allow desktop editor shell
	})
	v.SetDefault("server.rate_per_second", 20.0)
	v.SetDefault("server.rate_burst", 40)
}

// BindSensitiveEnvVars explicitly binds configuration that operators
// usually set per host to environment variables.
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("tools.slangc", "SHADERPORT_TOOLS_SLANGC")
	v.BindEnv("tools.glslang", "SHADERPORT_TOOLS_GLSLANG")
	v.BindEnv("tools.spirv_cross", "SHADERPORT_TOOLS_SPIRV_CROSS")
}

// GetServerPort returns the configured server port, or DefaultPort when
// configuration is unavailable.
func GetServerPort() int {
	cfg, err := Load()
	if err != nil || cfg.Server.Port == 0 {
		return DefaultPort
	}
	return cfg.Server.Port
}

package commands

import (
	"fmt"
	"strings"

	"github.com/spectralabs/shaderport/config"
	"github.com/spectralabs/shaderport/internal/version"
)

// printStartupBanner prints the user-friendly startup message
func printStartupBanner(verbosity int, port int, cfg *config.Config) {
	cyan := "\033[36m"
	green := "\033[32m"
	blue := "\033[34m"
	bold := "\033[1m"
	reset := "\033[0m"

	versionInfo := version.Get()

	fmt.Printf("\n%s%s", cyan, bold)
	fmt.Printf("   ╔══════════════════════════════════════════╗\n")
	fmt.Printf("   ║                                          ║\n")
	fmt.Printf("   ║   S H A D E R P O R T                    ║\n")
	fmt.Printf("   ║   slang/glsl → glsl hlsl spirv wgsl msl  ║\n")
	fmt.Printf("   ║                                          ║\n")
	fmt.Printf("   ╚══════════════════════════════════════════╝%s\n\n", reset)

	fmt.Printf("%s%s┌─ shaderport ────────────────────────────────┐%s\n", green, bold, reset)
	fmt.Printf("%s│%s Version:  %s (commit %s)\n", green, reset, versionInfo.Version, versionInfo.Short())
	fmt.Printf("%s│%s Built:    %s\n", green, reset, versionInfo.BuildTime)
	fmt.Printf("%s│%s Port:     %d\n", green, reset, port)
	fmt.Printf("%s│%s Tools:    %s\n", green, reset, strings.Join([]string{cfg.Tools.Slangc, cfg.Tools.Glslang, cfg.Tools.SpirvCross}, ", "))
	if verbosity >= 2 {
		fmt.Printf("%s│%s Origins:  %s\n", green, reset, strings.Join(cfg.Server.AllowedOrigins, ", "))
	}
	fmt.Printf("%s└─────────────────────────────────────────────┘%s\n", green, reset)

	fmt.Printf("%s💡 Press Ctrl+C to stop%s\n\n", blue, reset)
}

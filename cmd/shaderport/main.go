package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spectralabs/shaderport/cmd/shaderport/commands"
	"github.com/spectralabs/shaderport/logger"
)

var rootCmd = &cobra.Command{
	Use:   "shaderport",
	Short: "shaderport - Shader cross-compilation service",
	Long: `shaderport wraps shader fragments into complete modules and drives
the external compiler chain (slangc, glslangValidator, spirv-cross) to
produce GLSL, HLSL, SPIR-V, WGSL and Metal output with diagnostics
remapped to the lines the author actually wrote.

Available commands:
  server  - Start the HTTP compilation server
  convert - Compile one shader file to a target format
  targets - List supported target formats
  doctor  - Check that the external compiler tools are installed
  version - Show version information

Examples:
  shaderport server                        # Start the server
  shaderport convert -t hlsl shader.slang  # One-shot compile
  shaderport doctor                        # Verify the toolchain`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit structured JSON logs instead of console output")

	rootCmd.AddCommand(commands.ServerCmd)
	rootCmd.AddCommand(commands.ConvertCmd)
	rootCmd.AddCommand(commands.TargetsCmd)
	rootCmd.AddCommand(commands.DoctorCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

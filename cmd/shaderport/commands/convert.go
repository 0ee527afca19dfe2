package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/spectralabs/shaderport/config"
	"github.com/spectralabs/shaderport/diag"
	"github.com/spectralabs/shaderport/errors"
	"github.com/spectralabs/shaderport/logger"
	"github.com/spectralabs/shaderport/pipeline"
	"github.com/spectralabs/shaderport/wrap"
)

// ConvertCmd compiles one shader file without starting the server
var ConvertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Compile one shader file to a target format",
	Long: `Compile a shader fragment from a file (or stdin when the file is "-")
and print the translated output. Diagnostics go to stderr with line
numbers relative to the input file.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

var (
	convertTarget string
	convertLang   string
	convertMode   string
	convertClean  bool
	convertOut    string
)

func init() {
	ConvertCmd.Flags().StringVarP(&convertTarget, "target", "t", "glsl", "Target format (glsl, hlsl, hlsl-unreal, spirv, wgsl, metal)")
	ConvertCmd.Flags().StringVarP(&convertLang, "lang", "l", "", "Source language (slang, glsl; inferred from file extension when empty)")
	ConvertCmd.Flags().StringVarP(&convertMode, "mode", "m", "material", "Execution mode (material, shadertoy)")
	ConvertCmd.Flags().BoolVar(&convertClean, "clean", false, "Apply clean-export normalization to the output")
	ConvertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "Write the artifact to a file instead of stdout")
}

func runConvert(cmd *cobra.Command, args []string) error {
	source, err := readSource(args[0])
	if err != nil {
		return err
	}

	lang := wrap.Language(convertLang)
	if convertLang == "" {
		lang = inferLanguage(args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	pipe := pipeline.New(cfg.Toolchain(), pipeline.WithLogger(logger.Logger.Named("pipeline")))

	result, err := pipe.Compile(context.Background(), pipeline.Request{
		SourceCode:     source,
		SourceLanguage: lang,
		TargetFormat:   pipeline.Target(convertTarget),
		ExecutionMode:  wrap.Mode(convertMode),
		CleanExport:    convertClean,
	})
	if err != nil {
		return err
	}

	for _, d := range result.Diagnostics {
		printDiagnostic(args[0], d)
	}

	if result.Outcome != pipeline.OutcomeSuccess {
		return errors.Newf("compilation failed in stage %s", result.FailedStage)
	}

	return writeArtifact(result)
}

func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", errors.Wrap(err, "failed to read stdin")
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	return string(data), nil
}

func inferLanguage(path string) wrap.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glsl", ".frag":
		return wrap.LangGlsl
	default:
		return wrap.LangSlang
	}
}

func printDiagnostic(file string, d diag.Diagnostic) {
	loc := file
	if d.Line != diag.LineUnknown {
		loc = fmt.Sprintf("%s:%d", file, d.Line)
	}
	switch d.Severity {
	case diag.SeverityWarning:
		pterm.Warning.Printf("%s: %s\n", loc, d.Message)
	default:
		pterm.Error.Printf("%s: %s\n", loc, d.Message)
	}
}

func writeArtifact(result pipeline.Result) error {
	var data []byte
	if result.ArtifactBinary != "" {
		decoded, err := base64.StdEncoding.DecodeString(result.ArtifactBinary)
		if err != nil {
			return errors.Wrap(err, "failed to decode binary artifact")
		}
		data = decoded
	} else {
		data = []byte(result.Artifact)
	}

	if convertOut == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(convertOut, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", convertOut)
	}
	pterm.Success.Printf("Wrote %s (%d bytes)\n", convertOut, len(data))
	return nil
}

// Package toolchain runs the external compiler stages shaderport drives:
// slangc, glslangValidator and spirv-cross. It owns subprocess invocation,
// timeouts, bounded output capture and tool health probing.
package toolchain

import (
	"time"
)

// Tool identifies one of the external compiler executables.
type Tool string

const (
	// ToolSlangc is the Slang compiler. It accepts both Slang and GLSL
	// input and emits SPIR-V, HLSL, WGSL, Metal and desktop GLSL.
	ToolSlangc Tool = "slangc"
	// ToolGlslang is the OpenGL reference front end, used for the
	// GLSL-to-SPIR-V path.
	ToolGlslang Tool = "glslang"
	// ToolSpirvCross decompiles SPIR-V into readable target dialects.
	ToolSpirvCross Tool = "spirv-cross"
)

// DefaultOutputLimit bounds captured stdout/stderr per stream. A runaway
// preprocessor can emit unbounded diagnostics; anything past the ceiling
// is truncated rather than buffered.
const DefaultOutputLimit = 1 << 20 // 1 MiB

// Config carries the read-only toolchain configuration, resolved once at
// process start and passed explicitly into the pipeline. Pipeline logic
// never reads ambient global state.
type Config struct {
	SlangcPath     string
	GlslangPath    string
	SpirvCrossPath string

	// DirectTimeout bounds single-stage compiles.
	DirectTimeout time.Duration
	// MultiStageTimeout bounds each stage of the two-stage Slang paths,
	// which route through an intermediate representation.
	MultiStageTimeout time.Duration

	// OutputLimit bounds captured bytes per stream; zero means
	// DefaultOutputLimit.
	OutputLimit int
}

// DefaultConfig returns a Config that finds the tools on PATH with the
// recommended stage timeouts.
func DefaultConfig() Config {
	return Config{
		SlangcPath:        "slangc",
		GlslangPath:       "glslangValidator",
		SpirvCrossPath:    "spirv-cross",
		DirectTimeout:     10 * time.Second,
		MultiStageTimeout: 30 * time.Second,
	}
}

// Path returns the configured executable path for a tool.
func (c Config) Path(t Tool) string {
	switch t {
	case ToolSlangc:
		return c.SlangcPath
	case ToolGlslang:
		return c.GlslangPath
	case ToolSpirvCross:
		return c.SpirvCrossPath
	}
	return ""
}

// Tools lists every tool the pipeline can invoke, in probe order.
func Tools() []Tool {
	return []Tool{ToolSlangc, ToolGlslang, ToolSpirvCross}
}

// StageResult is the outcome of one external-tool invocation. A nonzero
// exit is a normal, expected outcome (the user's shader failed to
// compile) and is represented here as data, never as a Go error.
type StageResult struct {
	// ExitedCleanly is true only when the process ran to completion with
	// exit status 0.
	ExitedCleanly bool
	// TimedOut is true when the stage exceeded its bound and the process
	// was killed. Stderr then carries a synthetic "timed out" message.
	TimedOut bool
	Stdout   string
	Stderr   string
	// ArtifactPath is where the stage was asked to write its output.
	// Set by the caller; empty for probe invocations.
	ArtifactPath string
}

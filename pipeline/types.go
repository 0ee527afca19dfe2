package pipeline

import (
	"github.com/spectralabs/shaderport/diag"
	"github.com/spectralabs/shaderport/wrap"
)

// Target is the requested output dialect or intermediate representation.
type Target string

const (
	// TargetGlsl is portable GLSL-ES source.
	TargetGlsl Target = "glsl"
	// TargetHlsl is plain HLSL source.
	TargetHlsl Target = "hlsl"
	// TargetHlslUnreal is HLSL adapted for an engine custom-code node
	// body: expression return, 3-component output, bounded loops.
	TargetHlslUnreal Target = "hlsl-unreal"
	// TargetSpirv is the binary portable intermediate representation,
	// returned base64-encoded since the transport is text-based.
	TargetSpirv Target = "spirv"
	// TargetWgsl is WebGPU shading language source.
	TargetWgsl Target = "wgsl"
	// TargetMetal is Metal shading language source.
	TargetMetal Target = "metal"
)

// Targets lists every supported target format.
func Targets() []Target {
	return []Target{TargetGlsl, TargetHlsl, TargetHlslUnreal, TargetSpirv, TargetWgsl, TargetMetal}
}

// Supported reports whether t is in the supported set.
func (t Target) Supported() bool {
	switch t {
	case TargetGlsl, TargetHlsl, TargetHlslUnreal, TargetSpirv, TargetWgsl, TargetMetal:
		return true
	}
	return false
}

// Binary reports whether the target produces a binary artifact.
func (t Target) Binary() bool {
	return t == TargetSpirv
}

// Request describes one compilation. Immutable once constructed; one
// request is one pipeline run.
type Request struct {
	SourceCode     string        `json:"source_code"`
	SourceLanguage wrap.Language `json:"source_language"`
	TargetFormat   Target        `json:"target_format"`
	ExecutionMode  wrap.Mode     `json:"execution_mode"`
	CleanExport    bool          `json:"clean_export"`
}

// Outcome is the terminal state of a pipeline run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Result is the terminal value returned to the caller; never mutated
// after construction. A Failure always carries at least one diagnostic
// with a human-readable message, even when line remapping failed.
type Result struct {
	Outcome Outcome `json:"outcome"`
	// Artifact holds translated source for text targets.
	Artifact string `json:"artifact,omitempty"`
	// ArtifactBinary holds base64-encoded bytes for binary targets.
	ArtifactBinary string `json:"artifact_binary,omitempty"`
	// Diagnostics are ordered as the failing tool emitted them.
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	// FailedStage names the tool whose stage aborted the chain.
	FailedStage string `json:"failed_stage,omitempty"`
}

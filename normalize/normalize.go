// Package normalize post-processes raw compiler output into clean,
// idiomatic renderings per target dialect. Raw output is always
// semantically valid; these transforms only remove tool bookkeeping and
// adapt surface syntax, preserving behavior.
//
// Every normalizer is a pure text transform and is idempotent: re-export
// of already-exported code is a supported workflow, so running a
// normalizer on its own output is a no-op.
package normalize

// GLSL cleans spirv-cross GLSL-ES output: line markers, platform guards
// and mangled wrapper symbols.
func GLSL(artifact string) string {
	s := stripLineMarkers(artifact)
	s = stripGuardedBlocks(s)
	return renameSymbols(s)
}

// HLSL cleans slangc HLSL output for direct use in DirectX tooling.
func HLSL(artifact string) string {
	s := stripLineMarkers(artifact)
	s = stripPragmas(s)
	s = renameSymbols(s)
	return expandBroadcast(s, hlslConstructors)
}

// Unreal adapts HLSL output into a body acceptable to an engine
// custom-code node, which evaluates an expression rather than writing an
// out parameter. On top of the HLSL cleanup it bounds unbounded loops,
// rewrites the final output assignment as a return, and truncates the
// 4-component color to the 3 components the node accepts.
//
// The pipeline applies this normalizer unconditionally: raw HLSL is not
// syntactically usable in that context.
func Unreal(artifact string) string {
	s := HLSL(artifact)
	s = boundLoops(s)
	return rewriteReturn(s, "float4", "float3")
}

// WGSL cleans slangc WGSL output. WGSL constructors accept scalar
// broadcast natively, so only markers and symbol names need attention.
func WGSL(artifact string) string {
	s := stripLineMarkers(artifact)
	return renameSymbols(s)
}

// Metal cleans slangc Metal output: clang pragmas, version guards and
// mangled wrapper symbols.
func Metal(artifact string) string {
	s := stripLineMarkers(artifact)
	s = stripPragmas(s)
	s = stripGuardedBlocks(s)
	return renameSymbols(s)
}

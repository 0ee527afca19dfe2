package pipeline

import (
	"time"

	"github.com/spectralabs/shaderport/toolchain"
	"github.com/spectralabs/shaderport/wrap"
)

// Workspace-relative file names. Tools run with the workspace as their
// working directory, so bare names keep user-controlled text out of
// paths entirely.
const (
	intermediateFile = "shader.spv"
	outGlsl          = "out.frag"
	outHlsl          = "out.hlsl"
	outSpirv         = "out.spv"
	outWgsl          = "out.wgsl"
	outMetal         = "out.metal"
)

// stage is one external-tool invocation in a target's chain.
type stage struct {
	tool    toolchain.Tool
	args    []string
	output  string
	timeout time.Duration
	// mapsUserLines is true when the stage's input is the wrapped module,
	// so its diagnostic line numbers can be remapped into user source.
	// Later stages consume generated intermediates whose line numbers
	// mean nothing to the user and are reported as unknown.
	mapsUserLines bool
}

// plan builds the stage chain for a request. The target is validated by
// the caller.
func (p *Pipeline) plan(req Request) []stage {
	in := wrap.EntryFileName(req.SourceLanguage)
	direct := p.tools.DirectTimeout
	multi := p.tools.MultiStageTimeout

	switch req.TargetFormat {
	case TargetGlsl:
		if req.SourceLanguage == wrap.LangGlsl {
			return []stage{{
				tool:          toolchain.ToolSlangc,
				args:          slangcArgs(req.SourceLanguage, "glsl", in, outGlsl),
				output:        outGlsl,
				timeout:       direct,
				mapsUserLines: true,
			}}
		}
		// Direct Slang to GLSL-ES is not reliable; routing through the
		// intermediate representation produces more portable output.
		return []stage{
			{
				tool:          toolchain.ToolSlangc,
				args:          slangcArgs(req.SourceLanguage, "spirv", in, intermediateFile),
				output:        intermediateFile,
				timeout:       multi,
				mapsUserLines: true,
			},
			{
				tool:    toolchain.ToolSpirvCross,
				args:    []string{intermediateFile, "--es", "--version", "300", "--output", outGlsl},
				output:  outGlsl,
				timeout: multi,
			},
		}

	case TargetHlsl, TargetHlslUnreal:
		return []stage{{
			tool:          toolchain.ToolSlangc,
			args:          slangcArgs(req.SourceLanguage, "hlsl", in, outHlsl),
			output:        outHlsl,
			timeout:       direct,
			mapsUserLines: true,
		}}

	case TargetSpirv:
		if req.SourceLanguage == wrap.LangGlsl {
			return []stage{{
				tool:          toolchain.ToolGlslang,
				args:          []string{"-V", in, "-o", outSpirv},
				output:        outSpirv,
				timeout:       direct,
				mapsUserLines: true,
			}}
		}
		return []stage{{
			tool:          toolchain.ToolSlangc,
			args:          slangcArgs(req.SourceLanguage, "spirv", in, outSpirv),
			output:        outSpirv,
			timeout:       direct,
			mapsUserLines: true,
		}}

	case TargetWgsl:
		return []stage{{
			tool:          toolchain.ToolSlangc,
			args:          slangcArgs(req.SourceLanguage, "wgsl", in, outWgsl),
			output:        outWgsl,
			timeout:       direct,
			mapsUserLines: true,
		}}

	case TargetMetal:
		return []stage{{
			tool:          toolchain.ToolSlangc,
			args:          slangcArgs(req.SourceLanguage, "metal", in, outMetal),
			output:        outMetal,
			timeout:       direct,
			mapsUserLines: true,
		}}
	}

	return nil
}

// slangcArgs builds the slangc argument vector for one stage, following
// the tool convention: [stage-specific flags] inputFile -o outputFile.
func slangcArgs(lang wrap.Language, target, in, out string) []string {
	var args []string
	if lang == wrap.LangGlsl {
		args = append(args, "-lang", "glsl")
	}
	args = append(args,
		"-target", target,
		"-stage", "fragment",
		"-entry", "main",
		in, "-o", out,
	)
	return args
}

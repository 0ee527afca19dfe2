// Package wrap embeds user-authored shader fragments into complete,
// compilable modules and records the line offset the synthetic header
// introduces. The offset is the single source of truth used later to remap
// compiler diagnostics back to user-source coordinates.
package wrap

import (
	"strings"

	"github.com/spectralabs/shaderport/errors"
)

// Language is the dialect the user fragment is written in.
type Language string

const (
	// LangSlang is the Slang shading language.
	LangSlang Language = "slang"
	// LangGlsl is GLSL (OpenGL ES flavored).
	LangGlsl Language = "glsl"
)

// Mode is the convention by which user code is embedded.
type Mode string

const (
	// ModeMaterial embeds the fragment as a statement block inside a
	// synthesized entry function. Assignments to outColor become the
	// fragment's output.
	ModeMaterial Mode = "material"
	// ModeShaderToy expects the fragment to supply its own
	// mainImage(out vec4, in vec2) entry function, which the trailer
	// calls with coordinate and timing inputs.
	ModeShaderToy Mode = "shadertoy"
)

// Module is a complete, self-contained shader module ready for the first
// compiler stage.
type Module struct {
	// Source is the full module text. The user fragment is inserted
	// verbatim, with no re-indentation that would change its line count.
	Source string
	// UserLineOffset is the number of newline-terminated lines preceding
	// the first line of user code.
	UserLineOffset int
	// UserLineCount is the number of lines the user fragment occupies in
	// the module. Lines past offset+count belong to the synthetic trailer.
	UserLineCount int
}

// Wrap produces a complete module for the given (language, mode) pair.
// It is a pure function of its inputs: no I/O, deterministic output.
//
// An empty fragment still yields a valid module whose output is the
// default color. Callers use this as a "not yet compiled" placeholder.
func Wrap(source string, lang Language, mode Mode) (Module, error) {
	tpl, ok := templates[templateKey{lang, mode}]
	if !ok {
		return Module{}, errors.Wrapf(errors.ErrInvalidRequest,
			"no template for language %q in mode %q", lang, mode)
	}

	var b strings.Builder
	b.WriteString(tpl.header)
	b.WriteString(source)
	lineCount := strings.Count(source, "\n")
	if !strings.HasSuffix(source, "\n") {
		b.WriteByte('\n')
		lineCount++
	}
	b.WriteString(tpl.trailer)

	return Module{
		Source:         b.String(),
		UserLineOffset: strings.Count(tpl.header, "\n"),
		UserLineCount:  lineCount,
	}, nil
}

// Supported reports whether the (language, mode) pair has a template.
func Supported(lang Language, mode Mode) bool {
	_, ok := templates[templateKey{lang, mode}]
	return ok
}

// EntryFileName returns the source file name used inside a workspace for
// the given language. External compilers infer the input dialect and
// pipeline stage from the extension.
func EntryFileName(lang Language) string {
	if lang == LangGlsl {
		return "shader.frag"
	}
	return "shader.slang"
}

// OutputVar is the designated output variable every template writes the
// final fragment color to. Normalizers rewrite its final assignment when a
// target dialect requires an expression return.
const OutputVar = "outColor"

// SymbolRenames maps compiler-mangled identifiers back to the names
// declared by the wrapper headers. The intermediate compiler suffixes
// global symbols with "_0"; this fixed table is the only wrapper knowledge
// the normalizers depend on.
var SymbolRenames = map[string]string{
	"iTime_0":       "iTime",
	"iTimeDelta_0":  "iTimeDelta",
	"iFrame_0":      "iFrame",
	"iMouse_0":      "iMouse",
	"iResolution_0": "iResolution",
	"fragCoord_0":   "fragCoord",
	"outColor_0":    "outColor",
	"mainImage_0":   "mainImage",
	"uv_0":          "uv",
}

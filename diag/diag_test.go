package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectralabs/shaderport/toolchain"
)

func TestTranslateSlangc(t *testing.T) {
	raw := "shader.slang(14): error 30015: undefined identifier 'foo'.\n" +
		"shader.slang(20): warning 30081: implicit conversion from 'float' to 'int'\n"

	diags := Translate(raw, toolchain.ToolSlangc, 12, 10)

	require.Len(t, diags, 2)
	assert.Equal(t, Diagnostic{
		Line:     2,
		Severity: SeverityError,
		Code:     "30015",
		Message:  "undefined identifier 'foo'.",
	}, diags[0])
	assert.Equal(t, 8, diags[1].Line)
	assert.Equal(t, SeverityWarning, diags[1].Severity)
}

func TestTranslateGlslang(t *testing.T) {
	raw := "ERROR: 0:18: 'foo' : undeclared identifier\n" +
		"WARNING: 0:19: 'bar' : unused variable\n" +
		"ERROR: 1 compilation errors.  No code generated.\n"

	diags := Translate(raw, toolchain.ToolGlslang, 16, 5)

	require.Len(t, diags, 3)
	assert.Equal(t, 2, diags[0].Line)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Equal(t, "'foo' : undeclared identifier", diags[0].Message)
	assert.Equal(t, 3, diags[1].Line)
	assert.Equal(t, SeverityWarning, diags[1].Severity)

	// Summary line carries no position but must not be dropped.
	assert.Equal(t, LineUnknown, diags[2].Line)
	assert.Equal(t, "ERROR: 1 compilation errors.  No code generated.", diags[2].Message)
}

func TestTranslateHeaderLinesMapToUnknown(t *testing.T) {
	// A diagnostic inside the synthetic header (or exactly at the
	// boundary) must never be reported as a negative or zero user line.
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"inside header", "shader.slang(3): error 30015: bad uniform\n", LineUnknown},
		{"at boundary", "shader.slang(12): error 30015: bad decl\n", LineUnknown},
		{"first user line", "shader.slang(13): error 30015: bad expr\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := Translate(tt.raw, toolchain.ToolSlangc, 12, 3)
			require.Len(t, diags, 1)
			assert.Equal(t, tt.want, diags[0].Line)
		})
	}
}

func TestTranslateTrailerLinesMapToUnknown(t *testing.T) {
	// A diagnostic past the user fragment sits in the synthetic trailer
	// and must not be reported as a user line the fragment does not have.
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"last user line", "shader.slang(15): error 30015: bad expr\n", 3},
		{"first trailer line", "shader.slang(16): error 30015: bad return\n", LineUnknown},
		{"deep in trailer", "shader.slang(40): error 30015: bad close\n", LineUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := Translate(tt.raw, toolchain.ToolSlangc, 12, 3)
			require.Len(t, diags, 1)
			assert.Equal(t, tt.want, diags[0].Line)
		})
	}
}

func TestTranslateZeroOffset(t *testing.T) {
	raw := "shader.slang(5): error 30015: bad\n"

	diags := Translate(raw, toolchain.ToolSlangc, 0, 0)

	require.Len(t, diags, 1)
	assert.Equal(t, 5, diags[0].Line)
}

func TestTranslateUnknownLineCountIsUnbounded(t *testing.T) {
	raw := "shader.slang(200): error 30015: bad\n"

	diags := Translate(raw, toolchain.ToolSlangc, 12, 0)

	require.Len(t, diags, 1)
	assert.Equal(t, 188, diags[0].Line)
}

func TestTranslateSpirvCrossKeywordFallback(t *testing.T) {
	// spirv-cross consumes binary SPIR-V and has no line syntax; its
	// messages surface verbatim with unknown position.
	raw := "ERROR: SPIR-V parsing failed: invalid opcode\nspirv-cross aborted\n"

	diags := Translate(raw, toolchain.ToolSpirvCross, 12, 3)

	require.Len(t, diags, 1)
	assert.Equal(t, LineUnknown, diags[0].Line)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Equal(t, "ERROR: SPIR-V parsing failed: invalid opcode", diags[0].Message)
}

func TestTranslatePreservesToolOrder(t *testing.T) {
	raw := "shader.slang(20): error 30015: second in file\n" +
		"shader.slang(14): error 30015: first reported\n"

	diags := Translate(raw, toolchain.ToolSlangc, 12, 10)

	require.Len(t, diags, 2)
	assert.Equal(t, "second in file", diags[0].Message)
	assert.Equal(t, "first reported", diags[1].Message)
}

func TestTranslateIgnoresChatter(t *testing.T) {
	raw := "\ncompiling shader.slang\n  done in 12ms\n"

	diags := Translate(raw, toolchain.ToolSlangc, 12, 3)

	assert.Empty(t, diags)
}

func TestTranslateUnparseableErrorLineKept(t *testing.T) {
	raw := "internal error: segmentation fault in lowering pass\n"

	diags := Translate(raw, toolchain.ToolSlangc, 12, 3)

	require.Len(t, diags, 1)
	assert.Equal(t, LineUnknown, diags[0].Line)
	assert.Equal(t, "internal error: segmentation fault in lowering pass", diags[0].Message)
}

// Package diag parses external compiler diagnostics into structured
// records and rewrites line numbers from wrapped-module coordinates into
// user-source coordinates.
package diag

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spectralabs/shaderport/toolchain"
)

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// LineUnknown marks a diagnostic whose position could not be mapped into
// the user's source: either the tool reported no line, or the line falls
// inside the synthetic header or trailer.
const LineUnknown = 0

// Diagnostic is one user-facing compiler message. Line is 1-based and
// relative to the code the user actually wrote, never to the wrapped
// module.
type Diagnostic struct {
	Line     int      `json:"line"`
	Severity Severity `json:"severity"`
	Code     string   `json:"code,omitempty"`
	Message  string   `json:"message"`
}

// Each tool emits diagnostics in its own textual convention.
//
//	slangc:  shader.slang(14): error 30015: undefined identifier 'foo'
//	glslang: ERROR: 0:5: 'foo' : undeclared identifier
//
// spirv-cross operates on binary SPIR-V and reports no source positions,
// so it has no line matcher and falls through to the keyword scan.
var (
	slangcPattern  = regexp.MustCompile(`\((\d+)\): (error|warning)(?: ([A-Za-z0-9-]+))?: (.*)$`)
	glslangPattern = regexp.MustCompile(`^(ERROR|WARNING): [^:]*:(\d+): (.*)$`)
)

// Translate parses raw diagnostic text from one tool and remaps each
// reported line by subtracting offset, the number of synthetic header
// lines the wrapper inserted. lineCount is the number of lines the user
// fragment occupies; zero or negative means the count is unknown and no
// upper bound is applied.
//
// Lines that remap to zero or below refer to synthetic header code, and
// lines past lineCount refer to synthetic trailer code; both are reported
// as LineUnknown rather than a misleading number. Lines that match no
// pattern but look like problems are surfaced verbatim with LineUnknown,
// so no tool-reported message is ever lost. Ordering follows the tool's
// output: first diagnostic, first blocking problem.
func Translate(raw string, tool toolchain.Tool, offset, lineCount int) []Diagnostic {
	var out []Diagnostic

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if d, ok := match(trimmed, tool, offset, lineCount); ok {
			out = append(out, d)
			continue
		}

		if sev, ok := keywordSeverity(trimmed); ok {
			out = append(out, Diagnostic{
				Line:     LineUnknown,
				Severity: sev,
				Message:  trimmed,
			})
		}
	}

	return out
}

func match(line string, tool toolchain.Tool, offset, lineCount int) (Diagnostic, bool) {
	switch tool {
	case toolchain.ToolSlangc:
		m := slangcPattern.FindStringSubmatch(line)
		if m == nil {
			return Diagnostic{}, false
		}
		return Diagnostic{
			Line:     remap(m[1], offset, lineCount),
			Severity: Severity(m[2]),
			Code:     m[3],
			Message:  strings.TrimSpace(m[4]),
		}, true

	case toolchain.ToolGlslang:
		m := glslangPattern.FindStringSubmatch(line)
		if m == nil {
			return Diagnostic{}, false
		}
		sev := SeverityError
		if m[1] == "WARNING" {
			sev = SeverityWarning
		}
		return Diagnostic{
			Line:     remap(m[2], offset, lineCount),
			Severity: sev,
			Message:  strings.TrimSpace(m[3]),
		}, true
	}

	return Diagnostic{}, false
}

// remap converts a wrapped-module line into a user-source line. Header
// and trailer positions both come back as LineUnknown: a number the user
// cannot find in their own code is worse than no number.
func remap(rawLine string, offset, lineCount int) int {
	n, err := strconv.Atoi(rawLine)
	if err != nil {
		return LineUnknown
	}
	user := n - offset
	if user <= 0 {
		return LineUnknown
	}
	if lineCount > 0 && user > lineCount {
		return LineUnknown
	}
	return user
}

func keywordSeverity(line string) (Severity, bool) {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "error"):
		return SeverityError, true
	case strings.Contains(lower, "warning"):
		return SeverityWarning, true
	}
	return "", false
}

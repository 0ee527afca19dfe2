package normalize

import (
	"regexp"
	"strings"
)

var (
	lineMarkerPattern = regexp.MustCompile(`^\s*#line(\s|$)`)
	pragmaPattern     = regexp.MustCompile(`^\s*#pragma\s+(pack_matrix|warning|clang)\b`)
	condOpenPattern   = regexp.MustCompile(`^\s*#\s*(if|ifdef|ifndef)\b(.*)$`)
	condClosePattern  = regexp.MustCompile(`^\s*#\s*endif\b`)
)

// Guard markers that identify conditional blocks protecting
// platform-specific intrinsics. These blocks never affect the portable
// behavior of the code; they only redefine intrinsics per platform.
var platformGuardMarkers = []string{
	"GL_",
	"SPIRV_CROSS_",
	"__METAL",
	"__HLSL",
}

// stripLineMarkers removes preprocessor line-marker directives the
// intermediate compiler uses for its own position bookkeeping.
func stripLineMarkers(s string) string {
	return filterLines(s, func(line string) bool {
		return !lineMarkerPattern.MatchString(line)
	})
}

// stripPragmas removes pack/alignment and compiler-warning pragmas.
func stripPragmas(s string) string {
	return filterLines(s, func(line string) bool {
		return !pragmaPattern.MatchString(line)
	})
}

// stripGuardedBlocks removes conditional blocks whose condition names a
// platform guard marker, including their content, tracking nesting so an
// inner #if does not terminate the block early.
func stripGuardedBlocks(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))

	depth := 0
	for _, line := range lines {
		if depth > 0 {
			if condOpenPattern.MatchString(line) {
				depth++
			} else if condClosePattern.MatchString(line) {
				depth--
			}
			continue
		}

		if m := condOpenPattern.FindStringSubmatch(line); m != nil && mentionsGuardMarker(m[2]) {
			depth = 1
			continue
		}

		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

func mentionsGuardMarker(condition string) bool {
	for _, marker := range platformGuardMarkers {
		if strings.Contains(condition, marker) {
			return true
		}
	}
	return false
}

func filterLines(s string, keep func(string) bool) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if keep(line) {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

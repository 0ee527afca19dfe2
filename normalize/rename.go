package normalize

import (
	"regexp"
	"sort"
	"strings"

	"github.com/spectralabs/shaderport/wrap"
)

// mangledPattern matches every compiler-decorated symbol the wrapper
// header establishes, as whole identifiers. Built once from the fixed
// table in wrap, the normalizer's only dependency on the wrapper.
var mangledPattern = buildMangledPattern()

func buildMangledPattern() *regexp.Regexp {
	names := make([]string, 0, len(wrap.SymbolRenames))
	for mangled := range wrap.SymbolRenames {
		names = append(names, regexp.QuoteMeta(mangled))
	}
	// Longest first so iTime_0 cannot shadow a longer sibling.
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	return regexp.MustCompile(`\b(` + strings.Join(names, "|") + `)\b`)
}

// renameSymbols rewrites compiler-mangled identifiers back to their
// pre-mangling names. Idempotent: mangled names do not survive the first
// pass.
func renameSymbols(s string) string {
	return mangledPattern.ReplaceAllStringFunc(s, func(m string) string {
		return wrap.SymbolRenames[m]
	})
}

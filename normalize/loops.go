package normalize

import (
	"fmt"
	"regexp"
)

var (
	whileTruePattern = regexp.MustCompile(`while\s*\(\s*(?:true|1)\s*\)`)
	forEverPattern   = regexp.MustCompile(`for\s*\(\s*;\s*;\s*\)`)
)

// loopCeiling is the fixed iteration bound substituted for unbounded
// loops. Large enough that any terminating shader finishes well inside
// it; only programs that were already non-terminating, which are out of
// contract, change behavior.
const loopCeiling = 1 << 20

// boundLoops rewrites unbounded loop constructs into bounded loops,
// because some target runtimes statically reject unbounded loops. Each
// rewritten loop gets its own counter name so nested loops stay valid.
func boundLoops(s string) string {
	n := 0
	repl := func(string) string {
		r := fmt.Sprintf("for (int _loop%d = 0; _loop%d < %d; _loop%d++)", n, n, loopCeiling, n)
		n++
		return r
	}
	s = whileTruePattern.ReplaceAllStringFunc(s, repl)
	return forEverPattern.ReplaceAllStringFunc(s, repl)
}

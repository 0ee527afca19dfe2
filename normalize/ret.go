package normalize

import (
	"regexp"
	"strings"

	"github.com/spectralabs/shaderport/wrap"
)

var (
	// The trailing write-out statement the wrapper's entry function ends
	// with. Its presence marks an artifact that has not been rewritten
	// yet; once removed, the whole transform is a no-op.
	returnOutPattern = regexp.MustCompile(`\n?[ \t]*return\s+` + wrap.OutputVar + `\s*;`)

	// An assignment statement to the designated output variable, with an
	// optional type prefix so the declaration itself counts as the final
	// assignment when user code never assigns. Compound operators are
	// captured so an accumulating final write is recognized, not skipped.
	// The trailing [^=] keeps comparisons out.
	assignOutPattern = regexp.MustCompile(`(^|[;{}\n])([ \t]*)(?:[A-Za-z_][A-Za-z0-9_]*[ \t]+)?` + wrap.OutputVar + `[ \t]*([-+*/]?=)[^=]`)
)

// rewriteReturn converts the out-parameter discipline of the wrapped
// entry function into the single-expression-return form expression-only
// custom-code nodes require: the final assignment to the output variable
// becomes a return statement and the trailing "return outColor;" is
// removed. The returned value is truncated from vec4Name to vec3Name,
// since the node accepts a 3-component value.
//
// Idempotent: once the trailing write-out is gone, the artifact is
// returned unchanged.
func rewriteReturn(s, vec4Name, vec3Name string) string {
	retLoc := returnOutPattern.FindStringIndex(s)
	if retLoc == nil {
		return s
	}

	assigns := assignOutPattern.FindAllStringSubmatchIndex(s[:retLoc[0]], -1)
	if assigns == nil {
		return s
	}
	last := assigns[len(assigns)-1]

	// A compound final write accumulates into the output variable; its
	// right-hand side alone is not the output value, so the assignment
	// stays and only the trailing write-out becomes a swizzled return.
	if s[last[6]:last[7]] != "=" {
		matched := s[retLoc[0]:retLoc[1]]
		prefix := matched[:strings.Index(matched, "return")]
		return s[:retLoc[0]] + prefix + "return (" + wrap.OutputVar + ").xyz;" + s[retLoc[1]:]
	}

	// Expression starts at the character the [^=] consumed and runs to
	// the first semicolon at paren depth zero: the assigned expression
	// may itself contain balanced parentheses.
	exprStart := last[1] - 1
	exprEnd := -1
	depth := 0
	for p := exprStart; p < retLoc[0]; p++ {
		switch s[p] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ';':
			if depth == 0 {
				exprEnd = p
			}
		}
		if exprEnd >= 0 {
			break
		}
	}
	if exprEnd < 0 {
		return s
	}

	expr := strings.TrimSpace(s[exprStart:exprEnd])
	indent := s[last[4]:last[5]]

	var b strings.Builder
	b.WriteString(s[:last[3]])
	b.WriteString(indent)
	b.WriteString("return ")
	b.WriteString(truncateVec(expr, vec4Name, vec3Name))
	b.WriteString(";")
	b.WriteString(s[exprEnd+1 : retLoc[0]])
	b.WriteString(s[retLoc[1]:])
	return b.String()
}

// truncateVec drops the last component of a 4-component expression.
// When the expression is an outermost vec4 constructor call, the argument
// after the last top-level comma is dropped and the call renamed to the
// 3-component constructor; otherwise the expression is swizzled. A
// constructor reduced to a single argument is swizzled too, so the result
// never reads as broadcast shorthand.
func truncateVec(expr, vec4Name, vec3Name string) string {
	rest, ok := strings.CutPrefix(expr, vec4Name)
	if ok {
		rest = strings.TrimLeft(rest, " \t")
		open := len(expr) - len(rest)
		if strings.HasPrefix(rest, "(") {
			end, topCommas := scanCall(expr, open)
			// The constructor must span the whole expression.
			if end == len(expr)-1 && topCommas >= 2 {
				lastComma := lastTopLevelComma(expr, open, end)
				return vec3Name + "(" + strings.TrimSpace(expr[open+1:lastComma]) + ")"
			}
		}
	}
	return "(" + expr + ").xyz"
}

// lastTopLevelComma returns the index of the last depth-one comma between
// the call's parens. Arguments may be nested calls, so the first comma is
// not necessarily the right one.
func lastTopLevelComma(s string, open, close int) int {
	depth := 0
	last := -1
	for p := open; p <= close; p++ {
		switch s[p] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 1 {
				last = p
			}
		}
	}
	return last
}

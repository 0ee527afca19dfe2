package normalize

import "strings"

// hlslConstructors maps vector constructor names to their component
// count. HLSL does not accept the single-argument broadcast shorthand
// T(x), so those calls are expanded to one argument per component.
var hlslConstructors = map[string]int{
	"float2": 2, "float3": 3, "float4": 4,
	"half2": 2, "half3": 3, "half4": 4,
	"int2": 2, "int3": 3, "int4": 4,
	"uint2": 2, "uint3": 3, "uint4": 4,
}

// expandBroadcast rewrites single-argument vector constructors into fully
// explicit multi-argument form: float3(x) becomes float3(x, x, x).
// Calls already supplying more than one argument are left untouched, so
// the transform is idempotent and never rewrites full-arity calls.
// Nested constructor calls inside arguments are expanded first.
func expandBroadcast(s string, ctors map[string]int) string {
	var b strings.Builder
	b.Grow(len(s))

	i := 0
	for i < len(s) {
		c := s[i]
		if !isIdentStart(c) || (i > 0 && isIdentChar(s[i-1])) {
			b.WriteByte(c)
			i++
			continue
		}

		j := i + 1
		for j < len(s) && isIdentChar(s[j]) {
			j++
		}
		name := s[i:j]
		arity, ok := ctors[name]
		if !ok {
			b.WriteString(name)
			i = j
			continue
		}

		k := j
		for k < len(s) && (s[k] == ' ' || s[k] == '\t') {
			k++
		}
		if k >= len(s) || s[k] != '(' {
			b.WriteString(s[i:k])
			i = k
			continue
		}

		end, topCommas := scanCall(s, k)
		if end < 0 {
			// Unbalanced parentheses, leave the text alone.
			b.WriteString(name)
			i = j
			continue
		}

		inner := expandBroadcast(s[k+1:end], ctors)
		arg := strings.TrimSpace(inner)

		if topCommas == 0 && arg != "" {
			parts := make([]string, arity)
			for n := range parts {
				parts[n] = arg
			}
			b.WriteString(name)
			b.WriteByte('(')
			b.WriteString(strings.Join(parts, ", "))
			b.WriteByte(')')
		} else {
			b.WriteString(name)
			b.WriteByte('(')
			b.WriteString(inner)
			b.WriteByte(')')
		}
		i = end + 1
	}

	return b.String()
}

// scanCall scans a call starting at the opening paren at index open and
// returns the index of the matching close paren plus the number of
// top-level commas. Returns -1 when unbalanced. Commas inside nested
// calls do not count: arguments may themselves be nested calls.
func scanCall(s string, open int) (close int, topCommas int) {
	depth := 0
	for p := open; p < len(s); p++ {
		switch s[p] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return p, topCommas
			}
		case ',':
			if depth == 1 {
				topCommas++
			}
		}
	}
	return -1, 0
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

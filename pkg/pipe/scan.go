package pipe

type span struct {
	start, end int
}

// scan calls fn for every byte of s outside string literals with the bracket depth at
// that byte. Bracket bytes themselves are reported at the outer depth. Scanning stops
// when fn returns false.
func scan(s string, fn func(i, depth int) bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
			continue
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		}
		if !fn(i, depth) {
			return
		}
		switch c {
		case '(', '[', '{':
			depth++
		}
	}
}

func isPipeAt(s string, i int) bool {
	if s[i] != '|' {
		return false
	}
	if i > 0 && s[i-1] == '|' {
		return false
	}
	return i+1 >= len(s) || s[i+1] != '|'
}

// splitTop splits s on sep at bracket depth zero. A '|' separator never matches "||".
func splitTop(s string, sep byte) []string {
	var parts []string
	last := 0
	scan(s, func(i, depth int) bool {
		if depth != 0 || s[i] != sep {
			return true
		}
		if sep == '|' && !isPipeAt(s, i) {
			return true
		}
		parts = append(parts, s[last:i])
		last = i + 1
		return true
	})
	return append(parts, s[last:])
}

// groups lists the top-level parenthesized spans of s; start and end index the
// parentheses.
func groups(s string) []span {
	var out []span
	open := -1
	scan(s, func(i, depth int) bool {
		if depth != 0 {
			return true
		}
		switch s[i] {
		case '(':
			open = i
		case ')':
			if open >= 0 {
				out = append(out, span{open, i})
				open = -1
			}
		}
		return true
	})
	return out
}

// wholeGroup returns the interior of s when one parenthesized group spans all of it.
func wholeGroup(s string) (string, bool) {
	g := groups(s)
	if len(g) != 1 || g[0].start != 0 || g[0].end != len(s)-1 {
		return "", false
	}
	return s[1 : len(s)-1], true
}

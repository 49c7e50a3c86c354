package flags

// inlineLetters are the letters Python accepts in a global inline flag group.
// 'a' and 'L' have no counterpart here and are dropped like unknown letters.
const inlineLetters = "aiLmsux"

// Hoist removes leading global inline flag groups such as "(?i)" or "(?mx)"
// from pattern and returns the flags they carried. ok is false when the
// pattern does not start with such a group.
func Hoist(pattern string) (rest string, set Set, ok bool) {
	rest = pattern
	for {
		n := inlineGroupLen(rest)
		if n == 0 {
			return rest, set, ok
		}
		set |= Decode(rest[2 : n-1])
		rest = rest[n:]
		ok = true
	}
}

// inlineGroupLen returns the byte length of a "(?letters)" group at the start
// of p, or 0. Scoped groups like "(?i:...)" are not global and are ignored.
func inlineGroupLen(p string) int {
	if len(p) < 4 || p[0] != '(' || p[1] != '?' {
		return 0
	}
	i := 2
	for i < len(p) && isInlineLetter(p[i]) {
		i++
	}
	if i == 2 || i >= len(p) || p[i] != ')' {
		return 0
	}
	return i + 1
}

func isInlineLetter(c byte) bool {
	for i := 0; i < len(inlineLetters); i++ {
		if inlineLetters[i] == c {
			return true
		}
	}
	return false
}

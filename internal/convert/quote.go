package convert

import "strings"

// StripQuotes removes the Python string-literal wrapping that users paste
// along with a pattern: at most one raw/bytes prefix (r, b, rb, br in any
// case) and one matching pair of ', ", ''' or """. The prefix is only
// removed together with a complete quote pair, so "rabbit" stays intact.
// Anything that is not a balanced literal is returned unchanged.
func StripQuotes(p string) string {
	body := p[prefixLen(p):]
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(body) >= 2*len(q) && strings.HasPrefix(body, q) && strings.HasSuffix(body, q) {
			return body[len(q) : len(body)-len(q)]
		}
	}
	return p
}

func prefixLen(p string) int {
	for _, n := range []int{2, 1} {
		if len(p) <= n || !isQuote(p[n]) {
			continue
		}
		switch strings.ToLower(p[:n]) {
		case "rb", "br":
			if n == 2 {
				return 2
			}
		case "r", "b":
			if n == 1 {
				return 1
			}
		}
	}
	return 0
}

func isQuote(c byte) bool {
	return c == '\'' || c == '"'
}

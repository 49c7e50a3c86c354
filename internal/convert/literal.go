package convert

import (
	"strings"

	"rxport/internal/source"
)

// escapeSlashes escapes every "/" that would end the literal early: those
// outside character classes that are not already escaped.
func escapeSlashes(p string) (string, error) {
	if strings.IndexByte(p, '/') < 0 {
		return p, nil
	}
	x, err := source.NewIndex(p)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(p) + 2)
	for i := 0; i < len(p); i++ {
		if p[i] == '/' && x.Structural(i) {
			b.WriteString(`\/`)
			continue
		}
		b.WriteByte(p[i])
	}
	return b.String(), nil
}

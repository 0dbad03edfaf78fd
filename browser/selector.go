package browser

import (
	"strings"
)

// tagSelector matches elements by tag name only
func tagSelector(tag string) string {
	return cssIdent(strings.ToLower(tag))
}

func classSelector(className string) string {
	return "." + cssIdent(className)
}

func attributeSelector(name, value string) string {
	return "[" + cssIdent(name) + "=" + cssString(value) + "]"
}

// cssIdent escapes s for use as a css identifier
func cssIdent(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '-' || r == '_' || r >= 0x80:
			b.WriteRune(r)
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteString(`\3` + string(r) + " ")
				continue
			}
			b.WriteRune(r)
		default:
			b.WriteRune('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}

// cssString quotes s as a css string
func cssString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\a `)
	return `"` + s + `"`
}

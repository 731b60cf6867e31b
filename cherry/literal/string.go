package literal

import "strings"

// Unescape decodes the escape sequences recognised inside a double-quoted
// string literal: \\, \", \', \n, \t, \r. text is the content between the
// quotes, with escapes still in raw form. A backslash followed by any other
// character is kept as written, both characters unchanged.
func Unescape(text string) string {
	return unescape(text, false)
}

// UnescapeTemplateSegment decodes a character run inside a back-tick
// template, which additionally recognises \` (the template grammar has no
// surrounding quote to protect a literal back-tick otherwise).
func UnescapeTemplateSegment(text string) string {
	return unescape(text, true)
}

func unescape(text string, allowBacktickEscape bool) string {
	if !strings.ContainsRune(text, '\\') {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' || i+1 >= len(text) {
			b.WriteByte(c)
			continue
		}
		i++
		switch text[i] {
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '`':
			if allowBacktickEscape {
				b.WriteByte('`')
				continue
			}
			fallthrough
		default:
			// Not a recognised escape: the parser accepts any character
			// after a backslash, and both characters pass through as written.
			b.WriteByte('\\')
			b.WriteByte(text[i])
		}
	}
	return b.String()
}

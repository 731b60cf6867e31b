// Package literal holds the conversions shared by the expression and
// pattern literal grammars: turning the raw digit/escape text the parser
// has already recognised into Go values. The parser is responsible for
// recognising where a literal starts and ends (and for rejecting malformed
// shapes such as a trailing letter after a number); this package only does
// the text-to-value conversion.
package literal

import "strconv"

// ParseNumber converts the raw text of a number literal (as accepted by the
// §4.4 Number grammar: optional leading '-', decimal, 0x/0o/0b integer, or
// decimal float) into a float64.
func ParseNumber(text string) (float64, bool) {
	neg := false
	if len(text) > 0 && text[0] == '-' {
		neg = true
		text = text[1:]
	}
	if text == "" {
		return 0, false
	}

	var v float64
	switch {
	case len(text) > 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X'):
		n, err := strconv.ParseUint(text[2:], 16, 64)
		if err != nil {
			return 0, false
		}
		v = float64(n)
	case len(text) > 2 && text[0] == '0' && (text[1] == 'o' || text[1] == 'O'):
		n, err := strconv.ParseUint(text[2:], 8, 64)
		if err != nil {
			return 0, false
		}
		v = float64(n)
	case len(text) > 2 && text[0] == '0' && (text[1] == 'b' || text[1] == 'B'):
		n, err := strconv.ParseUint(text[2:], 2, 64)
		if err != nil {
			return 0, false
		}
		v = float64(n)
	default:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, false
		}
		v = f
	}
	if neg {
		v = -v
	}
	return v, true
}

package parser

import (
	"strings"

	"github.com/cherry-script/cherry-compiler/cherry/errors"
)

// reservedKeywords is the set §6 forbids as lower-case identifier names.
var reservedKeywords = map[string]bool{
	"import": true, "as": true, "exposing": true, "ext": true, "pkg": true,
	"pub": true, "extern": true, "run": true, "fun": true, "let": true,
	"ret": true, "if": true, "then": true, "else": true, "where": true,
	"is": true, "true": true, "false": true,
}

// reservedTypeNames is the set §6 forbids as user-declared type names.
var reservedTypeNames = map[string]bool{
	"Array": true, "Boolean": true, "Number": true, "String": true,
}

func isLowerStart(r rune) bool { return r == '_' || ('a' <= r && r <= 'z') }
func isUpperStart(r rune) bool { return 'A' <= r && r <= 'Z' }
func isIdentCont(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}
func isDigit(r rune) bool { return '0' <= r && r <= '9' }

// ignorables consumes any mixture of spaces, tabs, newlines, and //
// line comments. It never fails.
func (p *parser) ignorables() {
	for {
		switch p.st.peek() {
		case ' ', '\t', '\n', '\r':
			p.st.advance()
		case '/':
			if p.st.peekAt(1) == '/' {
				for !p.st.atEOF() && p.st.peek() != '\n' {
					p.st.advance()
				}
				continue
			}
			return
		default:
			return
		}
	}
}

// whitespace consumes only inline spaces and tabs. It is used where a
// newline must end a form: between application arguments, lambda
// parameters, variant arguments, type arguments and type variables, so those
// lists stop at the end of a line.
func (p *parser) whitespace() {
	for p.st.peek() == ' ' || p.st.peek() == '\t' {
		p.st.advance()
	}
}

// consumeSymbol matches a fixed, punctuation-only token such as "(" or
// "=>", requiring no identifier-boundary check.
func (p *parser) consumeSymbol(sym string) bool {
	cp := p.st.mark()
	for _, r := range sym {
		if p.st.peek() != r {
			p.st.reset(cp)
			return false
		}
		p.st.advance()
	}
	return true
}

func (p *parser) expectSymbol(sym string) error {
	if p.consumeSymbol(sym) {
		return nil
	}
	return p.fail(errors.ExpectingSymbol, sym)
}

// consumeKeyword matches a reserved word, requiring that it not be
// immediately followed by another identifier character (so "iffy" does not
// match the keyword "if").
func (p *parser) consumeKeyword(kw string) bool {
	cp := p.st.mark()
	for _, r := range kw {
		if p.st.peek() != r {
			p.st.reset(cp)
			return false
		}
		p.st.advance()
	}
	if isIdentCont(p.st.peek()) {
		p.st.reset(cp)
		return false
	}
	return true
}

func (p *parser) expectKeyword(kw string) error {
	if p.consumeKeyword(kw) {
		return nil
	}
	return p.fail(errors.ExpectingKeyword, kw)
}

// lowerName matches a lower-case name and rejects it if it is a reserved
// keyword.
func (p *parser) lowerName() (string, error) {
	if !isLowerStart(p.st.peek()) {
		return "", p.fail(errors.ExpectingCamelCase, "")
	}
	cp := p.st.mark()
	for isIdentCont(p.st.peek()) {
		p.st.advance()
	}
	name := p.st.sliceFrom(cp)
	if reservedKeywords[name] {
		p.st.reset(cp)
		return "", p.fail(errors.ExpectingCamelCase, "")
	}
	return name, nil
}

// upperName matches an upper-case name.
func (p *parser) upperName() (string, error) {
	if !isUpperStart(p.st.peek()) {
		return "", p.fail(errors.ExpectingCapitalCase, "")
	}
	cp := p.st.mark()
	for isIdentCont(p.st.peek()) {
		p.st.advance()
	}
	return p.st.sliceFrom(cp), nil
}

// dottedUpperPath matches one or more upper-case names separated by '.',
// used by both `as` clauses and scoped identifiers.
func (p *parser) dottedUpperPath() ([]string, error) {
	first, err := p.upperName()
	if err != nil {
		return nil, err
	}
	names := []string{first}
	for {
		cp := p.st.mark()
		if !p.consumeSymbol(".") {
			break
		}
		if !isUpperStart(p.st.peek()) {
			// Rewind the consumed '.' so a trailing-dot lower-case
			// identifier (the end of a Scoped form) is left intact.
			p.st.reset(cp)
			break
		}
		name, err := p.upperName()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func unquote(s string) string {
	return strings.TrimPrefix(strings.TrimSuffix(s, `"`), `"`)
}

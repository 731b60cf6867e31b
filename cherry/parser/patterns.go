package parser

import (
	"github.com/cherry-script/cherry-compiler/cherry/ast"
	"github.com/cherry-script/cherry-compiler/cherry/errors"
	"github.com/cherry-script/cherry-compiler/cherry/literal"
	"github.com/cherry-script/cherry-compiler/cherry/token"
)

// parsePattern implements the §4.5 pattern grammar, tried in the fixed
// order: array destructure, literal, wildcard/name, record destructure,
// template destructure, typeof, variant destructure, parenthesised.
func (p *parser) parsePattern() (ast.Pattern, error) {
	return alt(p,
		p.parseArrayDestructure,
		p.parseLiteralPattern,
		p.parseWildcardOrNamePattern,
		p.parseRecordDestructure,
		p.parseTemplateDestructure,
		p.parseTypeofPattern,
		p.parseVariantDestructure,
		p.parseParenPattern,
	)
}

// parseArrayDestructure parses `[ pat, pat, ...name ]`; a spread, if
// present, must be the final element. Trailing commas are forbidden.
func (p *parser) parseArrayDestructure() (ast.Pattern, error) {
	if err := p.expectSymbol("["); err != nil {
		return nil, err
	}
	p.ignorables()

	var elems []ast.Pattern
	var spread *string
	if !p.consumeSymbol("]") {
		for {
			if p.consumeSymbol("...") {
				name, err := p.lowerName()
				if err != nil {
					return nil, p.commit(err)
				}
				spread = &name
				p.ignorables()
				if err := p.expectSymbol("]"); err != nil {
					return nil, p.commit(err)
				}
				break
			}
			pat, err := p.parsePattern()
			if err != nil {
				return nil, p.commit(err)
			}
			elems = append(elems, pat)
			p.ignorables()
			if p.consumeSymbol(",") {
				p.ignorables()
				if p.consumeSymbol("]") {
					return nil, p.commit(p.fail(errors.ExpectingSymbol, "pattern (trailing comma forbidden)"))
				}
				continue
			}
			if err := p.expectSymbol("]"); err != nil {
				return nil, p.commit(err)
			}
			break
		}
	}
	return ast.ArrayDestructurePattern{Elements: elems, Spread: spread}, nil
}

// parseLiteralPattern restricts the shared literal grammar to boolean,
// number, string, and undefined — arrays, records, and templates have their
// own dedicated pattern forms.
func (p *parser) parseLiteralPattern() (ast.Pattern, error) {
	form, err := p.altLitForm(
		p.parseBoolean,
		p.parseNumber,
		p.parseStringLit,
		p.parseUndefined,
	)
	if err != nil {
		return nil, err
	}
	return ast.LiteralPattern{Form: form}, nil
}

func (p *parser) altLitForm(fs ...func() (ast.LitF, token.Span, error)) (ast.LitF, error) {
	var last error
	for _, f := range fs {
		cp := p.st.mark()
		form, _, err := f()
		if err == nil {
			return form, nil
		}
		if _, committed := errors.IsCommitted(err); committed {
			return nil, err
		}
		p.st.reset(cp)
		last = err
	}
	return nil, last
}

// parseWildcardOrNamePattern reads a lower-case name and splits it into
// Wildcard (a leading "_") or Name, the same split parseLowerIdForm makes
// for expression identifiers.
func (p *parser) parseWildcardOrNamePattern() (ast.Pattern, error) {
	name, err := p.lowerName()
	if err != nil {
		return nil, err
	}
	if name == "_" {
		return ast.WildcardPattern{}, nil
	}
	if name[0] == '_' {
		return ast.WildcardPattern{Name: name[1:]}, nil
	}
	return ast.NamePattern{Name: name}, nil
}

// parseRecordDestructure parses `{ name [: pattern], ..., ...name }`.
func (p *parser) parseRecordDestructure() (ast.Pattern, error) {
	if err := p.expectSymbol("{"); err != nil {
		return nil, err
	}
	p.ignorables()

	var fields []ast.RecordDestructureField
	var spread *string
	if !p.consumeSymbol("}") {
		for {
			if p.consumeSymbol("...") {
				name, err := p.lowerName()
				if err != nil {
					return nil, p.commit(err)
				}
				spread = &name
				p.ignorables()
				if err := p.expectSymbol("}"); err != nil {
					return nil, p.commit(err)
				}
				break
			}
			name, err := p.lowerName()
			if err != nil {
				return nil, p.commit(err)
			}
			p.whitespace()
			var fieldPat ast.Pattern
			if p.consumeSymbol(":") {
				p.ignorables()
				fp, err := p.parsePattern()
				if err != nil {
					return nil, p.commit(err)
				}
				fieldPat = fp
			}
			fields = append(fields, ast.RecordDestructureField{Name: name, Pattern: fieldPat})
			p.ignorables()
			if p.consumeSymbol(",") {
				p.ignorables()
				if p.consumeSymbol("}") {
					return nil, p.commit(p.fail(errors.ExpectingSymbol, "field (trailing comma forbidden)"))
				}
				continue
			}
			if err := p.expectSymbol("}"); err != nil {
				return nil, p.commit(err)
			}
			break
		}
	}
	return ast.RecordDestructurePattern{Fields: fields, Spread: spread}, nil
}

// parseTemplateDestructure mirrors the Template literal grammar, but each
// interpolation holds a nested Pattern rather than an Expr.
func (p *parser) parseTemplateDestructure() (ast.Pattern, error) {
	if p.st.peek() != '`' {
		return nil, p.fail(errors.ExpectingChar, "`")
	}
	p.st.advance()

	var segments []any
	var text string
	flush := func() {
		if text != "" {
			segments = append(segments, literal.UnescapeTemplateSegment(text))
			text = ""
		}
	}
	for {
		switch p.st.peek() {
		case -1:
			return nil, p.commit(p.fail(errors.ExpectingChar, "`"))
		case '`':
			p.st.advance()
			flush()
			return ast.TemplateDestructurePattern{Segments: segments}, nil
		case '\\':
			text += string(p.st.advance())
			if !p.st.atEOF() {
				text += string(p.st.advance())
			}
		case '$':
			if p.st.peekAt(1) == '{' {
				flush()
				p.st.advance()
				p.st.advance()
				p.ignorables()
				pat, err := p.parsePattern()
				if err != nil {
					return nil, p.commit(err)
				}
				p.ignorables()
				if err := p.expectSymbol("}"); err != nil {
					return nil, p.commit(err)
				}
				segments = append(segments, pat)
			} else {
				text += string(p.st.advance())
			}
		default:
			text += string(p.st.advance())
		}
	}
}

// parseTypeofPattern parses `@TypeName pattern`.
func (p *parser) parseTypeofPattern() (ast.Pattern, error) {
	if !p.consumeSymbol("@") {
		return nil, p.fail(errors.ExpectingSymbol, "@")
	}
	name, err := p.upperName()
	if err != nil {
		return nil, p.commit(err)
	}
	p.whitespace()
	inner, err := p.parsePattern()
	if err != nil {
		return nil, p.commit(err)
	}
	return ast.TypeofPattern{TypeName: name, Inner: inner}, nil
}

// parseVariantDestructure parses `#tag pattern*`.
func (p *parser) parseVariantDestructure() (ast.Pattern, error) {
	if !p.consumeSymbol("#") {
		return nil, p.fail(errors.ExpectingSymbol, "#")
	}
	tag, err := p.lowerName()
	if err != nil {
		return nil, p.commit(err)
	}
	var args []ast.Pattern
	for {
		cp := p.st.mark()
		p.whitespace()
		pat, err := p.parsePattern()
		if err != nil {
			p.st.reset(cp)
			break
		}
		args = append(args, pat)
	}
	return ast.VariantDestructurePattern{Tag: tag, Args: args}, nil
}

// parseParenPattern parses `( pattern )`; the parens are transparent.
func (p *parser) parseParenPattern() (ast.Pattern, error) {
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	p.ignorables()
	pat, err := p.parsePattern()
	if err != nil {
		return nil, p.commit(err)
	}
	p.ignorables()
	if err := p.expectSymbol(")"); err != nil {
		return nil, p.commit(err)
	}
	return pat, nil
}

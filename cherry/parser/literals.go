package parser

import (
	"github.com/cherry-script/cherry-compiler/cherry/ast"
	"github.com/cherry-script/cherry-compiler/cherry/errors"
	"github.com/cherry-script/cherry-compiler/cherry/literal"
	"github.com/cherry-script/cherry-compiler/cherry/token"
)

// parseLiteral is the §4.4 literal grammar, tried as one of the expression
// prefix alternatives. It additionally accepts Variant, which only makes
// sense as an expression (patterns destructure variants with their own
// VariantDestructurePattern form).
func (p *parser) parseLiteral() (ast.Expr, error) {
	return alt(p,
		p.literalAsExpr(p.parseArrayLit),
		p.literalAsExpr(p.parseBoolean),
		p.literalAsExpr(p.parseNumber),
		p.literalAsExpr(p.parseRecordLit),
		p.literalAsExpr(p.parseStringLit),
		p.literalAsExpr(p.parseTemplate),
		p.literalAsExpr(p.parseUndefined),
		p.literalAsExpr(p.parseVariantLit),
	)
}

// parseNonVariantLiteral is the literal subset accepted by the restricted
// `parenthesised` grammar (§4.3), which excludes Variant.
func (p *parser) parseNonVariantLiteral() (ast.Expr, error) {
	return alt(p,
		p.literalAsExpr(p.parseArrayLit),
		p.literalAsExpr(p.parseBoolean),
		p.literalAsExpr(p.parseNumber),
		p.literalAsExpr(p.parseRecordLit),
		p.literalAsExpr(p.parseStringLit),
		p.literalAsExpr(p.parseTemplate),
		p.literalAsExpr(p.parseUndefined),
	)
}

func (p *parser) literalAsExpr(f func() (ast.LitF, token.Span, error)) func() (ast.Expr, error) {
	return func() (ast.Expr, error) {
		form, span, err := f()
		if err != nil {
			return ast.Expr{}, err
		}
		return ast.Expr{SpanValue: span, Form: ast.LiteralExpr{Form: form}}, nil
	}
}

func (p *parser) parseBoolean() (ast.LitF, token.Span, error) {
	start := p.st.position()
	if p.consumeKeyword("true") {
		return ast.BooleanLit{Value: true}, token.Between(start, p.st.position()), nil
	}
	if p.consumeKeyword("false") {
		return ast.BooleanLit{Value: false}, token.Between(start, p.st.position()), nil
	}
	return nil, token.Span{}, p.fail(errors.ExpectingKeyword, "true/false")
}

func (p *parser) parseUndefined() (ast.LitF, token.Span, error) {
	start := p.st.position()
	if !p.consumeSymbol("()") {
		return nil, token.Span{}, p.fail(errors.ExpectingSymbol, "()")
	}
	return ast.UndefinedLit{}, token.Between(start, p.st.position()), nil
}

// parseNumber implements the §4.4 Number grammar: optional leading '-',
// then an integer, 0x/0o/0b literal, or decimal float, all represented as
// float64. A trailing letter is an error, so "123abc" does not parse as 123
// followed by an identifier.
func (p *parser) parseNumber() (ast.LitF, token.Span, error) {
	start := p.st.position()
	cp := p.st.mark()

	if p.st.peek() == '-' {
		p.st.advance()
	}
	if !isDigit(p.st.peek()) {
		p.st.reset(cp)
		return nil, token.Span{}, p.fail(errors.ExpectingNumber, "")
	}

	if p.st.peek() == '0' && (p.st.peekAt(1) == 'x' || p.st.peekAt(1) == 'o' || p.st.peekAt(1) == 'b') {
		p.st.advance() // '0'
		p.st.advance() // base marker
		digitsStart := p.st.pos
		for isHexLikeDigit(p.st.peek()) {
			p.st.advance()
		}
		if p.st.pos == digitsStart {
			p.st.reset(cp)
			return nil, token.Span{}, p.fail(errors.ExpectingNumber, "")
		}
	} else {
		for isDigit(p.st.peek()) {
			p.st.advance()
		}
		if p.st.peek() == '.' && isDigit(p.st.peekAt(1)) {
			p.st.advance()
			for isDigit(p.st.peek()) {
				p.st.advance()
			}
		}
		if p.st.peek() == 'e' || p.st.peek() == 'E' {
			save := p.st.mark()
			p.st.advance()
			if p.st.peek() == '+' || p.st.peek() == '-' {
				p.st.advance()
			}
			if isDigit(p.st.peek()) {
				for isDigit(p.st.peek()) {
					p.st.advance()
				}
			} else {
				p.st.reset(save)
			}
		}
	}

	if isIdentCont(p.st.peek()) {
		// A number immediately followed by an identifier character, e.g.
		// "123abc", is an error rather than two adjacent tokens.
		return nil, token.Span{}, p.fail(errors.ExpectingNumber, "")
	}

	text := p.st.sliceFrom(cp)
	v, ok := literal.ParseNumber(text)
	if !ok {
		p.st.reset(cp)
		return nil, token.Span{}, p.fail(errors.ExpectingNumber, "")
	}
	return ast.NumberLit{Value: v}, token.Between(start, p.st.position()), nil
}

func isHexLikeDigit(r rune) bool {
	return isDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

// parseStringLit implements the §4.4 String grammar: double-quoted,
// escapes \\ \" \' \n \t \r, a bare back-tick is permitted inside, and an
// unescaped '"' terminates.
func (p *parser) parseStringLit() (ast.LitF, token.Span, error) {
	start := p.st.position()
	if p.st.peek() != '"' {
		return nil, token.Span{}, p.fail(errors.ExpectingChar, `"`)
	}
	p.st.advance()
	contentStart := p.st.mark()
	for {
		switch p.st.peek() {
		case -1, '\n':
			return nil, token.Span{}, p.fail(errors.ExpectingChar, `"`)
		case '"':
			content := p.st.sliceFrom(contentStart)
			p.st.advance()
			return ast.StringLit{Value: literal.Unescape(content)}, token.Between(start, p.st.position()), nil
		case '\\':
			p.st.advance()
			if p.st.atEOF() {
				return nil, token.Span{}, p.fail(errors.ExpectingChar, `"`)
			}
			p.st.advance()
		default:
			p.st.advance()
		}
	}
}

// parseTemplate implements the §4.4 Template grammar: back-tick delimited,
// alternating character runs and ${ expr } interpolations. Adjacent
// character runs are coalesced into a single string segment.
func (p *parser) parseTemplate() (ast.LitF, token.Span, error) {
	start := p.st.position()
	if p.st.peek() != '`' {
		return nil, token.Span{}, p.fail(errors.ExpectingChar, "`")
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
			return nil, token.Span{}, p.fail(errors.ExpectingChar, "`")
		case '`':
			p.st.advance()
			flush()
			return ast.TemplateLit{Segments: segments}, token.Between(start, p.st.position()), nil
		case '\\':
			text += string(p.st.advance())
			if !p.st.atEOF() {
				text += string(p.st.advance())
			}
		case '$':
			if p.st.peekAt(1) == '{' {
				flush()
				p.st.advance() // '$'
				p.st.advance() // '{'
				p.ignorables()
				e, err := p.parseExpr(lowestPrec)
				if err != nil {
					return nil, token.Span{}, p.commit(err)
				}
				p.ignorables()
				if err := p.expectSymbol("}"); err != nil {
					return nil, token.Span{}, p.commit(err)
				}
				segments = append(segments, e)
			} else {
				text += string(p.st.advance())
			}
		default:
			text += string(p.st.advance())
		}
	}
}

// parseArrayLit implements `[ expr (, expr)* ]`, trailing comma forbidden,
// empty array allowed.
func (p *parser) parseArrayLit() (ast.LitF, token.Span, error) {
	start := p.st.position()
	if err := p.expectSymbol("["); err != nil {
		return nil, token.Span{}, err
	}
	p.ignorables()

	var elems []ast.Expr
	if !p.consumeSymbol("]") {
		for {
			e, err := p.parseExpr(lowestPrec)
			if err != nil {
				return nil, token.Span{}, p.commit(err)
			}
			elems = append(elems, e)
			p.ignorables()
			if p.consumeSymbol(",") {
				p.ignorables()
				if p.consumeSymbol("]") {
					return nil, token.Span{}, p.commit(p.fail(errors.ExpectingSymbol, "expr (trailing comma forbidden)"))
				}
				continue
			}
			if err := p.expectSymbol("]"); err != nil {
				return nil, token.Span{}, p.commit(err)
			}
			break
		}
	}
	return ast.ArrayLit{Elements: elems}, token.Between(start, p.st.position()), nil
}

// parseRecordLit implements `{ field: expr, … }` with `{ foo }` shorthand
// for `{ foo: foo }`; trailing comma forbidden. The opening `{` is shared
// with a block expression, which is tried first and must fail before this
// is reached; every error after the `{`, including a failure to read the
// first field, commits, exactly like parseArrayLit.
func (p *parser) parseRecordLit() (ast.LitF, token.Span, error) {
	start := p.st.position()
	if err := p.expectSymbol("{"); err != nil {
		return nil, token.Span{}, err
	}
	p.ignorables()

	var fields []ast.RecordLitField
	if !p.consumeSymbol("}") {
		for {
			f, err := p.parseRecordLitField()
			if err != nil {
				return nil, token.Span{}, p.commit(err)
			}
			fields = append(fields, f)
			p.ignorables()
			if p.consumeSymbol(",") {
				p.ignorables()
				if p.consumeSymbol("}") {
					return nil, token.Span{}, p.commit(p.fail(errors.ExpectingSymbol, "field (trailing comma forbidden)"))
				}
				continue
			}
			if err := p.expectSymbol("}"); err != nil {
				return nil, token.Span{}, p.commit(err)
			}
			break
		}
	}
	return ast.RecordLit{Fields: fields}, token.Between(start, p.st.position()), nil
}

func (p *parser) parseRecordLitField() (ast.RecordLitField, error) {
	nameStart := p.st.position()
	name, err := p.lowerName()
	if err != nil {
		return ast.RecordLitField{}, err
	}
	nameEnd := p.st.position()
	p.whitespace()
	if p.consumeSymbol(":") {
		p.ignorables()
		value, err := p.parseExpr(lowestPrec)
		if err != nil {
			return ast.RecordLitField{}, p.commit(err)
		}
		return ast.RecordLitField{Name: name, Value: value}, nil
	}
	// shorthand: `{ foo }` expands to `{ foo: foo }`.
	shorthand := ast.Expr{
		SpanValue: token.Between(nameStart, nameEnd),
		Form:      ast.IdentifierExpr{Form: ast.LocalID{Name: name}},
	}
	return ast.RecordLitField{Name: name, Value: shorthand}, nil
}

// parseVariantLit implements `#tag (parenthesised)*`.
func (p *parser) parseVariantLit() (ast.LitF, token.Span, error) {
	start := p.st.position()
	if !p.consumeSymbol("#") {
		return nil, token.Span{}, p.fail(errors.ExpectingSymbol, "#")
	}
	tag, err := p.lowerName()
	if err != nil {
		return nil, token.Span{}, p.commit(err)
	}
	var args []ast.Expr
	for {
		cp := p.st.mark()
		p.whitespace()
		arg, err := p.parseParenthesised()
		if err != nil {
			if _, committed := errors.IsCommitted(err); committed {
				return nil, token.Span{}, err
			}
			p.st.reset(cp)
			break
		}
		args = append(args, arg)
	}
	return ast.VariantLit{Tag: tag, Args: args}, token.Between(start, p.st.position()), nil
}

package parser

import (
	"github.com/cherry-script/cherry-compiler/cherry/ast"
	"github.com/cherry-script/cherry-compiler/cherry/errors"
)

// parseType implements the §4.6 type grammar, tried in order: fun, app,
// var, con, any, rec, sum, hole, subtype.
func (p *parser) parseType() (ast.Type, error) {
	return alt(p,
		p.parseFunType,
		p.parseAppType,
		p.parseVarType,
		p.parseConType,
		p.parseAnyType,
		p.parseRecType,
		p.parseSumType,
		p.parseHoleType,
		p.parseSubType,
	)
}

// parseAtomicType is the restricted operand grammar used for App's
// arguments, Fun's left operand, and Sum/enum variant parameters: it never
// recurses into Fun or App itself, so those stay left for the outer
// parseType alternation to assemble.
func (p *parser) parseAtomicType() (ast.Type, error) {
	return alt(p,
		p.parseSubType,
		p.parseVarType,
		p.parseConType,
		p.parseRecType,
		p.parseSumType,
		p.parseAnyType,
		p.parseHoleType,
	)
}

// parseAtomicTypeSeq greedily gathers zero or more atomic types, used for a
// type application's or variant's argument list.
func (p *parser) parseAtomicTypeSeq() ([]ast.Type, error) {
	var ts []ast.Type
	for {
		cp := p.st.mark()
		p.whitespace()
		t, err := p.parseAtomicType()
		if err != nil {
			p.st.reset(cp)
			break
		}
		ts = append(ts, t)
	}
	return ts, nil
}

func (p *parser) parseVarType() (ast.Type, error) {
	name, err := p.lowerName()
	if err != nil {
		return nil, err
	}
	return ast.VarType{Name: name}, nil
}

func (p *parser) parseConType() (ast.Type, error) {
	if p.consumeSymbol("()") {
		return ast.ConType{Name: "()"}, nil
	}
	name, err := p.upperName()
	if err != nil {
		return nil, err
	}
	return ast.ConType{Name: name}, nil
}

func (p *parser) parseAnyType() (ast.Type, error) {
	if !p.consumeSymbol("*") {
		return nil, p.fail(errors.ExpectingSymbol, "*")
	}
	return ast.AnyType{}, nil
}

func (p *parser) parseHoleType() (ast.Type, error) {
	if !p.consumeSymbol("?") {
		return nil, p.fail(errors.ExpectingSymbol, "?")
	}
	return ast.HoleType{}, nil
}

func (p *parser) parseSubType() (ast.Type, error) {
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	p.ignorables()
	t, err := p.parseType()
	if err != nil {
		return nil, p.commit(err)
	}
	p.ignorables()
	if err := p.expectSymbol(")"); err != nil {
		return nil, p.commit(err)
	}
	return t, nil
}

// parseRecType parses `{ name: type, ... }`; trailing comma forbidden.
func (p *parser) parseRecType() (ast.Type, error) {
	if err := p.expectSymbol("{"); err != nil {
		return nil, err
	}
	p.ignorables()

	var fields []ast.RecTypeField
	if !p.consumeSymbol("}") {
		for {
			name, err := p.lowerName()
			if err != nil {
				return nil, p.commit(err)
			}
			p.whitespace()
			if err := p.expectSymbol(":"); err != nil {
				return nil, p.commit(err)
			}
			p.ignorables()
			t, err := p.parseType()
			if err != nil {
				return nil, p.commit(err)
			}
			fields = append(fields, ast.RecTypeField{Name: name, Type: t})
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
	return ast.RecType{Fields: fields}, nil
}

// parseSumType parses `#tag type* (| #tag type*)*`.
func (p *parser) parseSumType() (ast.Type, error) {
	if !p.consumeSymbol("#") {
		return nil, p.fail(errors.ExpectingSymbol, "#")
	}
	tag, err := p.lowerName()
	if err != nil {
		return nil, p.commit(err)
	}
	params, err := p.parseAtomicTypeSeq()
	if err != nil {
		return nil, p.commit(err)
	}
	variants := []ast.SumTypeVariant{{Tag: tag, Params: params}}
	for {
		cp := p.st.mark()
		p.ignorables()
		if !p.consumeSymbol("|") {
			p.st.reset(cp)
			break
		}
		p.ignorables()
		if !p.consumeSymbol("#") {
			return nil, p.commit(p.fail(errors.ExpectingSymbol, "#"))
		}
		vtag, err := p.lowerName()
		if err != nil {
			return nil, p.commit(err)
		}
		vparams, err := p.parseAtomicTypeSeq()
		if err != nil {
			return nil, p.commit(err)
		}
		variants = append(variants, ast.SumTypeVariant{Tag: vtag, Params: vparams})
	}
	return ast.SumType{Variants: variants}, nil
}

// parseAppType parses a head atomic type applied to two or more atomic
// arguments. With fewer than two arguments it fails (uncommitted) and lets
// parseAtomicType's own alternatives claim the head, so a head followed by a
// single argument is not parsed as an application.
func (p *parser) parseAppType() (ast.Type, error) {
	head, err := p.parseAtomicType()
	if err != nil {
		return nil, err
	}
	args, err := p.parseAtomicTypeSeq()
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, p.fail(errors.ExpectingType, "application (2+ arguments)")
	}
	return ast.AppType{Head: head, Args: args}, nil
}

// parseFunType parses `(atomic | app) -> type`, right-associative. Both
// ASCII "->" and the Unicode arrow "→" are accepted.
func (p *parser) parseFunType() (ast.Type, error) {
	left, err := alt(p, p.parseAppType, p.parseAtomicType)
	if err != nil {
		return nil, err
	}
	cp := p.st.mark()
	p.whitespace()
	if !p.consumeSymbol("->") && !p.consumeSymbol("→") {
		p.st.reset(cp)
		return nil, p.fail(errors.ExpectingSymbol, "->")
	}
	p.ignorables()
	right, err := p.parseType()
	if err != nil {
		return nil, p.commit(err)
	}
	return ast.FunType{From: left, To: right}, nil
}

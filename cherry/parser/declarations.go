package parser

import (
	"github.com/cherry-script/cherry-compiler/cherry/ast"
	"github.com/cherry-script/cherry-compiler/cherry/errors"
	"github.com/cherry-script/cherry-compiler/cherry/token"
)

// parseImportSpecifier parses the source of an import: `ext "path"`,
// `pkg "path"`, or a bare `"path"` for a local module.
func (p *parser) parseImportSpecifier() (ast.ImportSpecifier, error) {
	if p.consumeKeyword("ext") {
		p.whitespace()
		path, err := p.parseQuotedPath()
		if err != nil {
			return nil, p.commit(err)
		}
		return ast.ExternalImport{PathValue: path}, nil
	}
	if p.consumeKeyword("pkg") {
		p.whitespace()
		path, err := p.parseQuotedPath()
		if err != nil {
			return nil, p.commit(err)
		}
		return ast.PackageImport{PathValue: path}, nil
	}
	path, err := p.parseQuotedPath()
	if err != nil {
		return nil, err
	}
	return ast.LocalImport{PathValue: path}, nil
}

func (p *parser) parseQuotedPath() (string, error) {
	if p.st.peek() != '"' {
		return "", p.fail(errors.ExpectingChar, `"`)
	}
	p.st.advance()
	cp := p.st.mark()
	for {
		switch p.st.peek() {
		case -1, '\n':
			return "", p.fail(errors.ExpectingChar, `"`)
		case '"':
			path := p.st.sliceFrom(cp)
			p.st.advance()
			return path, nil
		default:
			p.st.advance()
		}
	}
}

// parseImport parses a full `import` clause: the source specifier, an
// optional `as` alias, and an optional `exposing` list.
func (p *parser) parseImport() (ast.Import, error) {
	start := p.st.position()
	if err := p.expectKeyword("import"); err != nil {
		return ast.Import{}, err
	}
	p.whitespace()
	spec, err := p.parseImportSpecifier()
	if err != nil {
		return ast.Import{}, p.commit(err)
	}

	var alias []string
	cpAs := p.st.mark()
	p.whitespace()
	if p.consumeKeyword("as") {
		p.whitespace()
		// The dotted-path attempt (requiring at least one '.') is
		// backtrackable so a bare single name is also accepted.
		dotted, dottedErr := attempt(p, func() ([]string, error) {
			path, err := p.dottedUpperPath()
			if err != nil {
				return nil, err
			}
			if len(path) < 2 {
				return nil, p.fail(errors.ExpectingSymbol, ".")
			}
			return path, nil
		})
		if dottedErr == nil {
			alias = dotted
		} else {
			name, err := p.upperName()
			if err != nil {
				return ast.Import{}, p.commit(err)
			}
			alias = []string{name}
		}
	} else {
		p.st.reset(cpAs)
	}

	var exposing []string
	cpExp := p.st.mark()
	p.whitespace()
	if p.consumeKeyword("exposing") {
		p.ignorables()
		if err := p.expectSymbol("{"); err != nil {
			return ast.Import{}, p.commit(err)
		}
		p.ignorables()
		if !p.consumeSymbol("}") {
			for {
				name, err := p.lowerName()
				if err != nil {
					return ast.Import{}, p.commit(err)
				}
				exposing = append(exposing, name)
				p.ignorables()
				if p.consumeSymbol(",") {
					p.ignorables()
					if p.consumeSymbol("}") {
						return ast.Import{}, p.commit(p.fail(errors.ExpectingSymbol, "name (trailing comma forbidden)"))
					}
					continue
				}
				if err := p.expectSymbol("}"); err != nil {
					return ast.Import{}, p.commit(err)
				}
				break
			}
		}
	} else {
		p.st.reset(cpExp)
	}

	return ast.Import{
		Span:      token.Between(start, p.st.position()),
		Specifier: spec,
		Alias:     alias,
		Exposing:  exposing,
	}, nil
}

// consumePub consumes a leading `pub` marker, if present, returning whether
// it matched. Declarations that may be public re-attempt from scratch on
// failure (via alt's checkpoint/reset), so a failed `pub ext` naturally
// falls through to `pub let` with no special-casing here.
func (p *parser) consumePub() bool {
	cp := p.st.mark()
	if p.consumeKeyword("pub") {
		p.whitespace()
		return true
	}
	p.st.reset(cp)
	return false
}

// parseDeclaration implements the top-level declaration grammar: run, ext,
// let, type.
func (p *parser) parseDeclaration() (ast.Declaration, error) {
	return alt(p,
		p.parseRunDecl,
		p.parseExtDecl,
		p.parseLetDecl,
		p.parseTypeDecl,
	)
}

func (p *parser) parseRunDecl() (ast.Declaration, error) {
	start := p.st.position()
	if err := p.expectKeyword("run"); err != nil {
		return nil, err
	}
	p.ignorables()
	e, err := p.parseExpr(lowestPrec)
	if err != nil {
		return nil, p.commit(err)
	}
	return &ast.RunDecl{SpanValue: token.Between(start, p.st.position()), Expr: e}, nil
}

// parseExtDecl parses `[pub] ext name [: type]`, defaulting to Any when the
// annotation is omitted.
func (p *parser) parseExtDecl() (ast.Declaration, error) {
	start := p.st.position()
	isPub := p.consumePub()
	if err := p.expectKeyword("ext"); err != nil {
		return nil, err
	}
	p.whitespace()
	name, err := p.lowerName()
	if err != nil {
		return nil, p.commit(err)
	}
	typ, err := p.parseOptionalAnnotation()
	if err != nil {
		return nil, p.commit(err)
	}
	return &ast.ExtDecl{SpanValue: token.Between(start, p.st.position()), IsPublic: isPub, Name: name, Type: typ}, nil
}

// parseLetDecl parses `[pub] let name [: type] = body`.
func (p *parser) parseLetDecl() (ast.Declaration, error) {
	start := p.st.position()
	isPub := p.consumePub()
	if err := p.expectKeyword("let"); err != nil {
		return nil, err
	}
	p.whitespace()
	name, err := p.lowerName()
	if err != nil {
		return nil, p.commit(err)
	}
	typ, err := p.parseOptionalAnnotation()
	if err != nil {
		return nil, p.commit(err)
	}
	p.whitespace()
	if err := p.expectSymbol("="); err != nil {
		return nil, p.commit(err)
	}
	p.ignorables()
	body, err := p.parseExpr(lowestPrec)
	if err != nil {
		return nil, p.commit(err)
	}
	return &ast.LetDecl{
		SpanValue: token.Between(start, p.st.position()),
		IsPublic:  isPub, Name: name, Type: typ, Body: body,
	}, nil
}

// parseOptionalAnnotation parses an optional `: type`, defaulting to Any.
func (p *parser) parseOptionalAnnotation() (ast.Type, error) {
	cp := p.st.mark()
	p.whitespace()
	if !p.consumeSymbol(":") {
		p.st.reset(cp)
		return ast.AnyType{}, nil
	}
	p.ignorables()
	return p.parseType()
}

// parseTypeDecl parses `[pub] type Name tvar* [= body]`. The body, when
// present, is tried as an enum before a record, so `= #tag ...` and
// `= { field: type, ... }` are both reachable from the same "=".
func (p *parser) parseTypeDecl() (ast.Declaration, error) {
	start := p.st.position()
	isPub := p.consumePub()
	if err := p.expectKeyword("type"); err != nil {
		return nil, err
	}
	p.whitespace()
	name, err := p.upperName()
	if err != nil {
		return nil, p.commit(err)
	}
	if reservedTypeNames[name] {
		return nil, p.commit(p.fail(errors.ExpectingCapitalCase, name))
	}

	var tvars []string
	for {
		cp := p.st.mark()
		p.whitespace()
		tv, err := p.lowerName()
		if err != nil {
			p.st.reset(cp)
			break
		}
		tvars = append(tvars, tv)
	}

	var body ast.TypeDefBody = ast.AbstractBody{}
	cpEq := p.st.mark()
	p.whitespace()
	if p.consumeSymbol("=") {
		p.ignorables()
		b, err := alt(p, p.parseEnumBody, p.parseRecordTypeBody)
		if err != nil {
			return nil, p.commit(err)
		}
		body = b
	} else {
		p.st.reset(cpEq)
	}

	return &ast.TypeDecl{
		SpanValue: token.Between(start, p.st.position()),
		IsPublic:  isPub, Name: name, TypeVars: tvars, Body: body,
	}, nil
}

func (p *parser) parseEnumBody() (ast.TypeDefBody, error) {
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
	variants := []ast.EnumVariant{{Tag: tag, Params: params}}
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
		variants = append(variants, ast.EnumVariant{Tag: vtag, Params: vparams})
	}
	return ast.EnumBody{Variants: variants}, nil
}

func (p *parser) parseRecordTypeBody() (ast.TypeDefBody, error) {
	if err := p.expectSymbol("{"); err != nil {
		return nil, err
	}
	p.ignorables()
	var fields []ast.RecordBodyField
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
			fields = append(fields, ast.RecordBodyField{Name: name, Type: t})
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
	return ast.RecordBody{Fields: fields}, nil
}

// parseModule assembles a whole source file: leading ignorables, imports,
// declarations, trailing ignorables, then a mandatory EOF.
func (p *parser) parseModule(name string) (ast.Module, error) {
	p.ignorables()

	var imports []ast.Import
	for {
		cp := p.st.mark()
		imp, err := p.parseImport()
		if err != nil {
			if _, committed := errors.IsCommitted(err); committed {
				return ast.Module{}, errors.Push(err, errors.InImport)
			}
			p.st.reset(cp)
			break
		}
		imports = append(imports, imp)
		p.ignorables()
	}

	var decls []ast.Declaration
	for {
		cp := p.st.mark()
		d, err := p.parseDeclaration()
		if err != nil {
			if _, committed := errors.IsCommitted(err); committed {
				return ast.Module{}, errors.Push(err, errors.InDeclaration)
			}
			p.st.reset(cp)
			break
		}
		decls = append(decls, d)
		p.ignorables()
	}

	p.ignorables()
	if !p.st.atEOF() {
		return ast.Module{}, p.fail(errors.ExpectingEOF, "")
	}
	return ast.Module{Name: name, Imports: imports, Declarations: decls}, nil
}

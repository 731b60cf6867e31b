package parser

import (
	"github.com/cherry-script/cherry-compiler/cherry/ast"
	"github.com/cherry-script/cherry-compiler/cherry/errors"
	"github.com/cherry-script/cherry-compiler/cherry/token"
)

// lowestPrec is the minimum precedence accepted by the top-level call into
// the Pratt loop: any infix operator binds at least this loosely.
const lowestPrec = 0

// opSpec describes one infix operator's symbol, AST tag, binding power, and
// associativity, per the §4.3 precedence table.
type opSpec struct {
	symbol     string
	op         ast.Op
	prec       int
	rightAssoc bool
}

// opTable is ordered so that every multi-character operator appears before
// any shorter operator that is a textual prefix of it (">>" and ">=" before
// ">", "<=" before "<", "++" before "+"), so tryOperator never mis-splits a
// multi-character symbol.
var opTable = []opSpec{
	{"|>", ast.Pipe, 1, false},
	{"||", ast.Or, 2, true},
	{"&&", ast.And, 3, true},
	{"==", ast.Eq, 4, false},
	{"!=", ast.NotEq, 4, false},
	{"<=", ast.Lte, 4, false},
	{">>", ast.Compose, 9, true},
	{">=", ast.Gte, 4, false},
	{"<", ast.Lt, 4, false},
	{">", ast.Gt, 4, false},
	{"::", ast.Cons, 5, true},
	{"++", ast.Join, 5, true},
	{"^", ast.Pow, 7, true},
	{"%", ast.Mod, 7, true},
	{"*", ast.Mul, 7, false},
	{"+", ast.Add, 6, false},
	{"-", ast.Sub, 6, false},
}

func (p *parser) tryOperator() (opSpec, bool) {
	for _, spec := range opTable {
		if p.consumeSymbol(spec.symbol) {
			return spec, true
		}
	}
	return opSpec{}, false
}

// parseExpr is the precedence-climbing driver: it parses a prefix form and
// then repeatedly folds in infix operators that bind at least as tightly as
// minPrec, recursing at prec+1 for left-associative operators and at prec
// for right-associative ones. An infix node's span is the merge of its
// operands' spans (§3, §9).
func (p *parser) parseExpr(minPrec int) (ast.Expr, error) {
	lhs, err := p.parsePrefix()
	if err != nil {
		return ast.Expr{}, err
	}
	for {
		cp := p.st.mark()
		p.ignorables()
		spec, ok := p.tryOperator()
		if !ok || spec.prec < minPrec {
			p.st.reset(cp)
			return lhs, nil
		}
		nextMin := spec.prec + 1
		if spec.rightAssoc {
			nextMin = spec.prec
		}
		p.ignorables()
		rhs, err := p.parseExpr(nextMin)
		if err != nil {
			return ast.Expr{}, p.commit(err)
		}
		lhs = ast.Expr{
			SpanValue: token.Merge(lhs.SpanValue, rhs.SpanValue),
			Form:      ast.InfixExpr{Op: spec.op, LHS: lhs, RHS: rhs},
		}
	}
}

// parseGuardExpr parses a match guard: the full Pratt grammar minus
// annotation and minus lambda, so that "=>" unambiguously ends the guard.
// The restriction lifts again once a parenthesised subexpression is entered,
// since the parens already disambiguate.
func (p *parser) parseGuardExpr() (ast.Expr, error) {
	saved := p.guardMode
	p.guardMode = true
	defer func() { p.guardMode = saved }()
	return p.parseExpr(lowestPrec)
}

// parsePrefix tries every atomic/prefix expression form in the order fixed
// by §4.3: conditional, match, annotation, lambda, application, access,
// identifier, subexpression, block, literal.
func (p *parser) parsePrefix() (ast.Expr, error) {
	alts := make([]func() (ast.Expr, error), 0, 10)
	alts = append(alts, p.parseConditional, p.parseMatch)
	if !p.guardMode {
		alts = append(alts, p.parseAnnotation, p.parseLambda)
	}
	alts = append(alts,
		p.parseApplication,
		p.parseAccess,
		p.parseIdentifierExpr,
		p.parseSubexpression,
		p.parseBlockAsExpr,
		p.parseLiteral,
	)
	return alt(p, alts...)
}

// parseParenthesised is the restricted operand grammar §4.3 uses wherever an
// expression would otherwise have to recurse through the full Pratt core:
// application arguments, access and annotation targets, variant arguments.
// It accepts a block, a non-variant literal, a bare identifier, or a fully
// parenthesised subexpression — never a bare infix chain.
func (p *parser) parseParenthesised() (ast.Expr, error) {
	return alt(p,
		p.parseBlockAsExpr,
		p.parseNonVariantLiteral,
		p.parseIdentifierExpr,
		p.parseSubexpression,
	)
}

// parseSubexpression parses `( expr )`. The parens are transparent: the
// returned Expr keeps the inner form but widens its span to cover them.
func (p *parser) parseSubexpression() (ast.Expr, error) {
	start := p.st.position()
	if err := p.expectSymbol("("); err != nil {
		return ast.Expr{}, err
	}
	savedGuard := p.guardMode
	p.guardMode = false
	defer func() { p.guardMode = savedGuard }()

	p.ignorables()
	inner, err := p.parseExpr(lowestPrec)
	if err != nil {
		return ast.Expr{}, p.commit(err)
	}
	p.ignorables()
	if err := p.expectSymbol(")"); err != nil {
		return ast.Expr{}, p.commit(err)
	}
	return ast.Expr{SpanValue: token.Between(start, p.st.position()), Form: inner.Form}, nil
}

// parseConditional parses `if test then consequent else alternative`.
func (p *parser) parseConditional() (ast.Expr, error) {
	start := p.st.position()
	if err := p.expectKeyword("if"); err != nil {
		return ast.Expr{}, err
	}
	p.ignorables()
	test, err := p.parseExpr(lowestPrec)
	if err != nil {
		return ast.Expr{}, p.commit(err)
	}
	p.ignorables()
	if err := p.expectKeyword("then"); err != nil {
		return ast.Expr{}, p.commit(err)
	}
	p.ignorables()
	then, err := p.parseExpr(lowestPrec)
	if err != nil {
		return ast.Expr{}, p.commit(err)
	}
	p.ignorables()
	if err := p.expectKeyword("else"); err != nil {
		return ast.Expr{}, p.commit(err)
	}
	p.ignorables()
	alternative, err := p.parseExpr(lowestPrec)
	if err != nil {
		return ast.Expr{}, p.commit(err)
	}
	return ast.Expr{
		SpanValue: token.Between(start, p.st.position()),
		Form:      ast.ConditionalExpr{Test: test, Then: then, Else: alternative},
	}, nil
}

// parseMatch parses `where scrutinee (is pattern [if guard] => body)*`.
func (p *parser) parseMatch() (ast.Expr, error) {
	start := p.st.position()
	if err := p.expectKeyword("where"); err != nil {
		return ast.Expr{}, err
	}
	p.ignorables()
	scrutinee, err := p.parseExpr(lowestPrec)
	if err != nil {
		return ast.Expr{}, p.commit(err)
	}
	end := p.st.position()

	var cases []ast.MatchCase
	for {
		cp := p.st.mark()
		p.ignorables()
		if !p.consumeKeyword("is") {
			p.st.reset(cp)
			break
		}
		p.ignorables()
		pat, err := p.parsePattern()
		if err != nil {
			return ast.Expr{}, p.commit(err)
		}
		p.ignorables()

		var guard *ast.Expr
		cpGuard := p.st.mark()
		if p.consumeKeyword("if") {
			p.ignorables()
			g, err := p.parseGuardExpr()
			if err != nil {
				return ast.Expr{}, p.commit(err)
			}
			guard = &g
			p.ignorables()
		} else {
			p.st.reset(cpGuard)
		}

		if err := p.expectSymbol("=>"); err != nil {
			return ast.Expr{}, p.commit(err)
		}
		p.ignorables()
		body, err := p.parseExpr(lowestPrec)
		if err != nil {
			return ast.Expr{}, p.commit(err)
		}
		end = p.st.position()
		cases = append(cases, ast.MatchCase{Pattern: pat, Guard: guard, Body: body})
	}

	return ast.Expr{
		SpanValue: token.Between(start, end),
		Form:      ast.MatchExpr{Scrutinee: scrutinee, Cases: cases},
	}, nil
}

// parseAnnotation parses `parenthesised as type`. It is backtrackable on
// failure to find "as", so a bare parenthesised operand falls through to
// whichever alternative actually owns it.
func (p *parser) parseAnnotation() (ast.Expr, error) {
	start := p.st.position()
	operand, err := p.parseParenthesised()
	if err != nil {
		return ast.Expr{}, err
	}
	cp := p.st.mark()
	p.whitespace()
	if !p.consumeKeyword("as") {
		p.st.reset(cp)
		return ast.Expr{}, p.fail(errors.ExpectingKeyword, "as")
	}
	p.ignorables()
	typ, err := p.parseType()
	if err != nil {
		return ast.Expr{}, p.commit(err)
	}
	return ast.Expr{
		SpanValue: token.Between(start, p.st.position()),
		Form:      ast.AnnotationExpr{Expr: operand, Type: typ},
	}, nil
}

// parseLambda parses `pattern (pattern)* => body`. Backtrackable: a bare
// name with no following "=>" is not committed, so application/identifier
// get a turn at the same prefix.
func (p *parser) parseLambda() (ast.Expr, error) {
	start := p.st.position()
	first, err := p.parsePattern()
	if err != nil {
		// A pattern's own commit points do not commit the lambda: until "=>"
		// is seen, the same text may still be another expression form.
		if pe := errors.Underlying(err); pe != nil {
			return ast.Expr{}, pe
		}
		return ast.Expr{}, err
	}
	params := []ast.Pattern{first}
	for {
		cp := p.st.mark()
		p.whitespace()
		pat, err := p.parsePattern()
		if err != nil {
			p.st.reset(cp)
			break
		}
		params = append(params, pat)
	}
	p.ignorables()
	if !p.consumeSymbol("=>") {
		return ast.Expr{}, p.fail(errors.ExpectingSymbol, "=>")
	}
	p.ignorables()
	body, err := p.parseExpr(lowestPrec)
	if err != nil {
		return ast.Expr{}, p.commit(err)
	}
	return ast.Expr{
		SpanValue: token.Between(start, p.st.position()),
		Form:      ast.LambdaExpr{Params: params, Body: body},
	}, nil
}

// parseApplication parses a callee (access, block, subexpression, or bare
// identifier) followed by one or more parenthesised arguments. Zero
// arguments is not an application — it is indistinguishable from the bare
// callee — so this fails (uncommitted) and yields to whichever alternative
// actually matches the callee alone.
func (p *parser) parseApplication() (ast.Expr, error) {
	start := p.st.position()
	callee, err := alt(p,
		p.parseAccess,
		p.parseBlockAsExpr,
		p.parseSubexpression,
		p.parseIdentifierExpr,
	)
	if err != nil {
		return ast.Expr{}, err
	}

	var args []ast.Expr
	for {
		cp := p.st.mark()
		p.whitespace()
		arg, err := p.parseParenthesised()
		if err != nil {
			if _, committed := errors.IsCommitted(err); committed {
				return ast.Expr{}, err
			}
			p.st.reset(cp)
			break
		}
		args = append(args, arg)
	}
	if len(args) == 0 {
		return ast.Expr{}, p.fail(errors.ExpectingSymbol, "application argument")
	}
	return ast.Expr{
		SpanValue: token.Between(start, p.st.position()),
		Form:      ast.ApplicationExpr{Fn: callee, Args: args},
	}, nil
}

// parseAccess parses `parenthesised . name (. name)*`. Backtrackable: if no
// "." follows the operand, this is not an access expression at all.
func (p *parser) parseAccess() (ast.Expr, error) {
	start := p.st.position()
	target, err := p.parseParenthesised()
	if err != nil {
		return ast.Expr{}, err
	}
	if !p.consumeSymbol(".") {
		return ast.Expr{}, p.fail(errors.ExpectingSymbol, ".")
	}
	first, err := p.lowerName()
	if err != nil {
		return ast.Expr{}, p.commit(err)
	}
	fields := []string{first}
	for p.consumeSymbol(".") {
		name, err := p.lowerName()
		if err != nil {
			return ast.Expr{}, p.commit(err)
		}
		fields = append(fields, name)
	}
	return ast.Expr{
		SpanValue: token.Between(start, p.st.position()),
		Form:      ast.AccessExpr{Target: target, Fields: fields},
	}, nil
}

// parseIdentifierExpr wraps parseIdForm as an expression.
func (p *parser) parseIdentifierExpr() (ast.Expr, error) {
	start := p.st.position()
	form, err := p.parseIdForm()
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Expr{
		SpanValue: token.Between(start, p.st.position()),
		Form:      ast.IdentifierExpr{Form: form},
	}, nil
}

// parseIdForm parses a Local, Scoped, or Placeholder identifier form.
// Scoped greedily consumes the longest dotted run of upper-case names via
// dottedUpperPath, then requires one more "." before its inner form — which,
// since no upper-case segment can remain, always resolves to Local or
// Placeholder in practice.
func (p *parser) parseIdForm() (ast.IdForm, error) {
	if isUpperStart(p.st.peek()) {
		path, err := p.dottedUpperPath()
		if err != nil {
			return nil, err
		}
		if !p.consumeSymbol(".") {
			return nil, p.fail(errors.ExpectingSymbol, ".")
		}
		inner, err := p.parseIdForm()
		if err != nil {
			return nil, p.commit(err)
		}
		return ast.ScopedID{Path: path, Inner: inner}, nil
	}
	return p.parseLowerIdForm()
}

// parseLowerIdForm reads a lower-case name and splits it into Placeholder
// (a leading "_", consuming any following name as Placeholder.Name) or
// Local, mirroring the Wildcard/NamePattern split in the pattern grammar.
func (p *parser) parseLowerIdForm() (ast.IdForm, error) {
	name, err := p.lowerName()
	if err != nil {
		return nil, err
	}
	if name == "_" {
		return ast.PlaceholderID{}, nil
	}
	if name[0] == '_' {
		return ast.PlaceholderID{Name: name[1:]}, nil
	}
	return ast.LocalID{Name: name}, nil
}

// parseBlockAsExpr parses `{ (run expr | let name = expr)* ret expr }`. It
// stays backtrackable until the first binding keyword or "ret" is actually
// seen, so a record literal sharing the same "{" prefix can be tried
// instead; once a binding has been consumed the construct is unambiguously
// a block, so a later failure to find "ret" commits.
func (p *parser) parseBlockAsExpr() (ast.Expr, error) {
	start := p.st.position()
	if err := p.expectSymbol("{"); err != nil {
		return ast.Expr{}, err
	}
	p.ignorables()

	var bindings []ast.Binding
	sawBinding := false
	for {
		cp := p.st.mark()
		if p.consumeKeyword("run") {
			sawBinding = true
			p.ignorables()
			e, err := p.parseExpr(lowestPrec)
			if err != nil {
				return ast.Expr{}, p.commit(err)
			}
			bindings = append(bindings, ast.Binding{Name: "_", Value: e})
			p.ignorables()
			continue
		}
		if p.consumeKeyword("let") {
			sawBinding = true
			p.ignorables()
			name, err := p.lowerName()
			if err != nil {
				return ast.Expr{}, p.commit(err)
			}
			p.ignorables()
			if err := p.expectSymbol("="); err != nil {
				return ast.Expr{}, p.commit(err)
			}
			p.ignorables()
			e, err := p.parseExpr(lowestPrec)
			if err != nil {
				return ast.Expr{}, p.commit(err)
			}
			bindings = append(bindings, ast.Binding{Name: name, Value: e})
			p.ignorables()
			continue
		}
		p.st.reset(cp)
		break
	}

	if !p.consumeKeyword("ret") {
		err := p.fail(errors.ExpectingKeyword, "ret")
		if sawBinding {
			return ast.Expr{}, p.commit(err)
		}
		return ast.Expr{}, err
	}
	p.ignorables()
	ret, err := p.parseExpr(lowestPrec)
	if err != nil {
		return ast.Expr{}, p.commit(err)
	}
	p.ignorables()
	if err := p.expectSymbol("}"); err != nil {
		return ast.Expr{}, p.commit(err)
	}
	return ast.Expr{
		SpanValue: token.Between(start, p.st.position()),
		Form:      ast.BlockExpr{Bindings: bindings, Return: ret},
	}, nil
}

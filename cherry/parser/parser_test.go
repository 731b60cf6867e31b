package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cherry-script/cherry-compiler/cherry/ast"
	"github.com/cherry-script/cherry-compiler/cherry/errors"
	"github.com/cherry-script/cherry-compiler/cherry/parser"
)

func mustParse(t *testing.T, src string) ast.Module {
	t.Helper()
	mod, err := parser.Parse("test", src)
	if err != nil {
		t.Fatalf("source: %s: unexpected error: %v", src, err)
	}
	return mod
}

func TestParsePubLet(t *testing.T) {
	mod := mustParse(t, "pub let x = 1")
	if len(mod.Declarations) != 1 {
		t.Fatalf("got %d declarations, want 1", len(mod.Declarations))
	}
	d, ok := mod.Declarations[0].(*ast.LetDecl)
	if !ok {
		t.Fatalf("got %T, want *ast.LetDecl", mod.Declarations[0])
	}
	if !d.IsPublic {
		t.Error("IsPublic = false, want true")
	}
	if d.Name != "x" {
		t.Errorf("Name = %q, want %q", d.Name, "x")
	}
	if diff := cmp.Diff(ast.Type(ast.AnyType{}), d.Type); diff != "" {
		t.Errorf("Type mismatch (-want +got):\n%s", diff)
	}
	lit, ok := d.Body.Form.(ast.LiteralExpr)
	if !ok {
		t.Fatalf("got %T, want ast.LiteralExpr", d.Body.Form)
	}
	num, ok := lit.Form.(ast.NumberLit)
	if !ok {
		t.Fatalf("got %T, want ast.NumberLit", lit.Form)
	}
	if num.Value != 1 {
		t.Errorf("Value = %v, want 1", num.Value)
	}
}

func TestParseImportWithAliasAndExposing(t *testing.T) {
	mod := mustParse(t, `import pkg "std/list" as List.Core exposing { map, filter }`)
	if len(mod.Imports) != 1 {
		t.Fatalf("got %d imports, want 1", len(mod.Imports))
	}
	imp := mod.Imports[0]
	if imp.Specifier.Path() != "std/list" {
		t.Errorf("Path() = %q, want %q", imp.Specifier.Path(), "std/list")
	}
	if _, ok := imp.Specifier.(ast.PackageImport); !ok {
		t.Fatalf("got %T, want ast.PackageImport", imp.Specifier)
	}
	if diff := cmp.Diff([]string{"List", "Core"}, imp.Alias); diff != "" {
		t.Errorf("Alias mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"map", "filter"}, imp.Exposing); diff != "" {
		t.Errorf("Exposing mismatch (-want +got):\n%s", diff)
	}
}

func TestParseImportBareAlias(t *testing.T) {
	mod := mustParse(t, `import "./util" as Util`)
	if diff := cmp.Diff([]string{"Util"}, mod.Imports[0].Alias); diff != "" {
		t.Errorf("Alias mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLambdaAndInfixAdd(t *testing.T) {
	mod := mustParse(t, "run x => x + 1")
	d, ok := mod.Declarations[0].(*ast.RunDecl)
	if !ok {
		t.Fatalf("got %T, want *ast.RunDecl", mod.Declarations[0])
	}
	lam, ok := d.Expr.Form.(ast.LambdaExpr)
	if !ok {
		t.Fatalf("got %T, want ast.LambdaExpr", d.Expr.Form)
	}
	if len(lam.Params) != 1 {
		t.Fatalf("got %d params, want 1", len(lam.Params))
	}
	infix, ok := lam.Body.Form.(ast.InfixExpr)
	if !ok {
		t.Fatalf("got %T, want ast.InfixExpr", lam.Body.Form)
	}
	if infix.Op != ast.Add {
		t.Errorf("Op = %v, want Add", infix.Op)
	}
}

func TestInfixLeftAssociativity(t *testing.T) {
	mod := mustParse(t, "run 1 + 2 + 3")
	d := mod.Declarations[0].(*ast.RunDecl)
	outer, ok := d.Expr.Form.(ast.InfixExpr)
	if !ok {
		t.Fatalf("got %T, want ast.InfixExpr", d.Expr.Form)
	}
	if outer.Op != ast.Add {
		t.Errorf("outer.Op = %v, want Add", outer.Op)
	}
	inner, ok := outer.LHS.Form.(ast.InfixExpr)
	if !ok {
		t.Fatalf("got %T, want ast.InfixExpr", outer.LHS.Form)
	}
	if inner.Op != ast.Add {
		t.Errorf("inner.Op = %v, want Add", inner.Op)
	}
	if _, rhsIsInfix := outer.RHS.Form.(ast.InfixExpr); rhsIsInfix {
		t.Error("RHS is an InfixExpr, want a leaf")
	}
}

func TestInfixPrecedenceMulOverAdd(t *testing.T) {
	mod := mustParse(t, "run 1 + 2 * 3")
	d := mod.Declarations[0].(*ast.RunDecl)
	add, ok := d.Expr.Form.(ast.InfixExpr)
	if !ok {
		t.Fatalf("got %T, want ast.InfixExpr", d.Expr.Form)
	}
	if add.Op != ast.Add {
		t.Errorf("add.Op = %v, want Add", add.Op)
	}
	mul, ok := add.RHS.Form.(ast.InfixExpr)
	if !ok {
		t.Fatalf("got %T, want ast.InfixExpr", add.RHS.Form)
	}
	if mul.Op != ast.Mul {
		t.Errorf("mul.Op = %v, want Mul", mul.Op)
	}
}

func TestInfixSpanIsMergeOfOperands(t *testing.T) {
	mod := mustParse(t, "run 1 + 2")
	d := mod.Declarations[0].(*ast.RunDecl)
	infix := d.Expr.Form.(ast.InfixExpr)
	if d.Expr.Span().Start != infix.LHS.Span().Start {
		t.Errorf("span start = %v, want %v", d.Expr.Span().Start, infix.LHS.Span().Start)
	}
	if d.Expr.Span().End != infix.RHS.Span().End {
		t.Errorf("span end = %v, want %v", d.Expr.Span().End, infix.RHS.Span().End)
	}
}

func TestParseMatchWithArrayDestructureAndGuard(t *testing.T) {
	mod := mustParse(t, `run where xs
  is [h, t] if h > 0 => h
  is [] => 0`)
	d := mod.Declarations[0].(*ast.RunDecl)
	match, ok := d.Expr.Form.(ast.MatchExpr)
	if !ok {
		t.Fatalf("got %T, want ast.MatchExpr", d.Expr.Form)
	}
	if len(match.Cases) != 2 {
		t.Fatalf("got %d cases, want 2", len(match.Cases))
	}
	pat, ok := match.Cases[0].Pattern.(ast.ArrayDestructurePattern)
	if !ok {
		t.Fatalf("got %T, want ast.ArrayDestructurePattern", match.Cases[0].Pattern)
	}
	if len(pat.Elements) != 2 {
		t.Errorf("got %d elements, want 2", len(pat.Elements))
	}
	if match.Cases[0].Guard == nil {
		t.Error("Cases[0].Guard = nil, want non-nil")
	}
	if match.Cases[1].Guard != nil {
		t.Error("Cases[1].Guard != nil, want nil")
	}
}

func TestParseTemplateInterpolation(t *testing.T) {
	mod := mustParse(t, "run `hello ${name}!`")
	d := mod.Declarations[0].(*ast.RunDecl)
	tmpl, ok := d.Expr.Form.(ast.LiteralExpr).Form.(ast.TemplateLit)
	if !ok {
		t.Fatalf("got %T, want ast.TemplateLit", d.Expr.Form.(ast.LiteralExpr).Form)
	}
	if len(tmpl.Segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(tmpl.Segments))
	}
	if tmpl.Segments[0].(string) != "hello " {
		t.Errorf("Segments[0] = %q, want %q", tmpl.Segments[0], "hello ")
	}
	if _, isExpr := tmpl.Segments[1].(ast.Expr); !isExpr {
		t.Errorf("Segments[1] = %T, want ast.Expr", tmpl.Segments[1])
	}
	if tmpl.Segments[2].(string) != "!" {
		t.Errorf("Segments[2] = %q, want %q", tmpl.Segments[2], "!")
	}
}

func TestParseEnumTypeDecl(t *testing.T) {
	mod := mustParse(t, "type Maybe a = #some a | #none")
	d, ok := mod.Declarations[0].(*ast.TypeDecl)
	if !ok {
		t.Fatalf("got %T, want *ast.TypeDecl", mod.Declarations[0])
	}
	if d.Name != "Maybe" {
		t.Errorf("Name = %q, want %q", d.Name, "Maybe")
	}
	if diff := cmp.Diff([]string{"a"}, d.TypeVars); diff != "" {
		t.Errorf("TypeVars mismatch (-want +got):\n%s", diff)
	}
	body, ok := d.Body.(ast.EnumBody)
	if !ok {
		t.Fatalf("got %T, want ast.EnumBody", d.Body)
	}
	if len(body.Variants) != 2 {
		t.Fatalf("got %d variants, want 2", len(body.Variants))
	}
	if body.Variants[0].Tag != "some" {
		t.Errorf("Variants[0].Tag = %q, want %q", body.Variants[0].Tag, "some")
	}
	if len(body.Variants[0].Params) != 1 {
		t.Errorf("got %d params, want 1", len(body.Variants[0].Params))
	}
	if body.Variants[1].Tag != "none" {
		t.Errorf("Variants[1].Tag = %q, want %q", body.Variants[1].Tag, "none")
	}
	if len(body.Variants[1].Params) != 0 {
		t.Errorf("got %d params, want 0", len(body.Variants[1].Params))
	}
}

func TestRecordLiteralShorthandMatchesExplicitField(t *testing.T) {
	short := mustParse(t, "run { foo }")
	explicit := mustParse(t, "run { foo: foo }")
	shortField := short.Declarations[0].(*ast.RunDecl).Expr.Form.(ast.LiteralExpr).Form.(ast.RecordLit).Fields[0]
	explicitField := explicit.Declarations[0].(*ast.RunDecl).Expr.Form.(ast.LiteralExpr).Form.(ast.RecordLit).Fields[0]
	if shortField.Name != explicitField.Name {
		t.Errorf("Name = %q, want %q", shortField.Name, explicitField.Name)
	}
	if diff := cmp.Diff(explicitField.Value.Form, shortField.Value.Form); diff != "" {
		t.Errorf("Value mismatch (-want +got):\n%s", diff)
	}
}

func TestBlockBacktracksToRecordLiteral(t *testing.T) {
	mod := mustParse(t, "run { name: `Ann`, age: 30 }")
	d := mod.Declarations[0].(*ast.RunDecl)
	rec, ok := d.Expr.Form.(ast.LiteralExpr).Form.(ast.RecordLit)
	if !ok {
		t.Fatalf("got %T, want ast.RecordLit", d.Expr.Form.(ast.LiteralExpr).Form)
	}
	if len(rec.Fields) != 2 {
		t.Errorf("got %d fields, want 2", len(rec.Fields))
	}
}

func TestBlockWithBindings(t *testing.T) {
	mod := mustParse(t, "run { let y = 1 run y ret y + 1 }")
	d := mod.Declarations[0].(*ast.RunDecl)
	block, ok := d.Expr.Form.(ast.BlockExpr)
	if !ok {
		t.Fatalf("got %T, want ast.BlockExpr", d.Expr.Form)
	}
	if len(block.Bindings) != 2 {
		t.Fatalf("got %d bindings, want 2", len(block.Bindings))
	}
	if block.Bindings[0].Name != "y" {
		t.Errorf("Bindings[0].Name = %q, want %q", block.Bindings[0].Name, "y")
	}
	if block.Bindings[1].Name != "_" {
		t.Errorf("Bindings[1].Name = %q, want %q", block.Bindings[1].Name, "_")
	}
}

func TestApplicationRequiresAtLeastOneArgument(t *testing.T) {
	mod := mustParse(t, "run f(x)(y)")
	d := mod.Declarations[0].(*ast.RunDecl)
	app, ok := d.Expr.Form.(ast.ApplicationExpr)
	if !ok {
		t.Fatalf("got %T, want ast.ApplicationExpr", d.Expr.Form)
	}
	if len(app.Args) != 2 {
		t.Errorf("got %d args, want 2", len(app.Args))
	}
	bare := mustParse(t, "run f")
	if _, isApp := bare.Declarations[0].(*ast.RunDecl).Expr.Form.(ast.ApplicationExpr); isApp {
		t.Error("bare callee parsed as ast.ApplicationExpr, want an identifier")
	}
}

func TestAnnotationExpr(t *testing.T) {
	mod := mustParse(t, "run (1) as Number")
	d := mod.Declarations[0].(*ast.RunDecl)
	ann, ok := d.Expr.Form.(ast.AnnotationExpr)
	if !ok {
		t.Fatalf("got %T, want ast.AnnotationExpr", d.Expr.Form)
	}
	con, ok := ann.Type.(ast.ConType)
	if !ok {
		t.Fatalf("got %T, want ast.ConType", ann.Type)
	}
	if con.Name != "Number" {
		t.Errorf("Name = %q, want %q", con.Name, "Number")
	}
}

func TestConditionalExpr(t *testing.T) {
	mod := mustParse(t, "run if true then 1 else 2")
	d := mod.Declarations[0].(*ast.RunDecl)
	cond, ok := d.Expr.Form.(ast.ConditionalExpr)
	if !ok {
		t.Fatalf("got %T, want ast.ConditionalExpr", d.Expr.Form)
	}
	if _, ok := cond.Test.Form.(ast.LiteralExpr); !ok {
		t.Errorf("Test.Form = %T, want ast.LiteralExpr", cond.Test.Form)
	}
}

func TestVariantLiteralAndDestructure(t *testing.T) {
	mod := mustParse(t, `run where #some(1)
  is #some(n) => n
  is #none => 0`)
	d := mod.Declarations[0].(*ast.RunDecl)
	match := d.Expr.Form.(ast.MatchExpr)
	variant, ok := match.Scrutinee.Form.(ast.LiteralExpr).Form.(ast.VariantLit)
	if !ok {
		t.Fatalf("got %T, want ast.VariantLit", match.Scrutinee.Form.(ast.LiteralExpr).Form)
	}
	if variant.Tag != "some" {
		t.Errorf("Tag = %q, want %q", variant.Tag, "some")
	}
	pat, ok := match.Cases[0].Pattern.(ast.VariantDestructurePattern)
	if !ok {
		t.Fatalf("got %T, want ast.VariantDestructurePattern", match.Cases[0].Pattern)
	}
	if pat.Tag != "some" {
		t.Errorf("Tag = %q, want %q", pat.Tag, "some")
	}
}

func TestScopedIdentifier(t *testing.T) {
	mod := mustParse(t, "run List.Core.map")
	d := mod.Declarations[0].(*ast.RunDecl)
	id, ok := d.Expr.Form.(ast.IdentifierExpr)
	if !ok {
		t.Fatalf("got %T, want ast.IdentifierExpr", d.Expr.Form)
	}
	scoped, ok := id.Form.(ast.ScopedID)
	if !ok {
		t.Fatalf("got %T, want ast.ScopedID", id.Form)
	}
	if diff := cmp.Diff([]string{"List", "Core"}, scoped.Path); diff != "" {
		t.Errorf("Path mismatch (-want +got):\n%s", diff)
	}
	local, ok := scoped.Inner.(ast.LocalID)
	if !ok {
		t.Fatalf("got %T, want ast.LocalID", scoped.Inner)
	}
	if local.Name != "map" {
		t.Errorf("Name = %q, want %q", local.Name, "map")
	}
}

func TestPlaceholderIdentifier(t *testing.T) {
	mod := mustParse(t, "run _unused")
	d := mod.Declarations[0].(*ast.RunDecl)
	id := d.Expr.Form.(ast.IdentifierExpr)
	ph, ok := id.Form.(ast.PlaceholderID)
	if !ok {
		t.Fatalf("got %T, want ast.PlaceholderID", id.Form)
	}
	if ph.Name != "unused" {
		t.Errorf("Name = %q, want %q", ph.Name, "unused")
	}
}

func TestFunctionTypeAnnotation(t *testing.T) {
	mod := mustParse(t, "ext compose: a -> b -> c")
	d := mod.Declarations[0].(*ast.ExtDecl)
	fn, ok := d.Type.(ast.FunType)
	if !ok {
		t.Fatalf("got %T, want ast.FunType", d.Type)
	}
	if _, fromIsVar := fn.From.(ast.VarType); !fromIsVar {
		t.Errorf("From = %T, want ast.VarType", fn.From)
	}
	inner, ok := fn.To.(ast.FunType)
	if !ok {
		t.Fatalf("got %T, want ast.FunType", fn.To)
	}
	if _, ok := inner.To.(ast.VarType); !ok {
		t.Errorf("inner.To = %T, want ast.VarType", inner.To)
	}
}

func TestNumberLiterals(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"0x1F", 31},
		{"0o17", 15},
		{"0b101", 5},
		{"3.5", 3.5},
		{"-2", -2},
		{"1e3", 1000},
	}
	for _, tc := range cases {
		mod := mustParse(t, "run "+tc.src)
		d := mod.Declarations[0].(*ast.RunDecl)
		num := d.Expr.Form.(ast.LiteralExpr).Form.(ast.NumberLit)
		if num.Value != tc.want {
			t.Errorf("src=%s: Value = %v, want %v", tc.src, num.Value, tc.want)
		}
	}
}

func TestTrailingCommaRejected(t *testing.T) {
	if _, err := parser.Parse("test", "run [1, 2,]"); err == nil {
		t.Fatal("expected an error, got nil")
	}
}

func TestRecordLitTrailingCommaRejected(t *testing.T) {
	if _, err := parser.Parse("test", "run { foo: 1, }"); err == nil {
		t.Fatal("expected an error, got nil")
	}
}

func TestMalformedRecordLitArgumentSurfacesError(t *testing.T) {
	_, err := parser.Parse("test", "run f { foo: 1, bar 2 }")
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	pe := errors.Underlying(err)
	if pe == nil {
		t.Fatal("errors.Underlying returned nil")
	}
	if pe.Kind == errors.ExpectingEOF {
		t.Errorf("Kind = ExpectingEOF, want the real cause of failure inside the record literal")
	}
}

func TestUnterminatedStringFails(t *testing.T) {
	if _, err := parser.Parse("test", `run "abc`); err == nil {
		t.Fatal("expected an error, got nil")
	}
}

func TestParseErrorReportsPosition(t *testing.T) {
	_, err := parser.Parse("test", "run let")
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	pe := errors.Underlying(err)
	if pe == nil {
		t.Fatal("errors.Underlying returned nil")
	}
	if pe.Position.Line != 1 || pe.Position.Column != 5 {
		t.Errorf("Position = %v, want 1:5", pe.Position)
	}
}

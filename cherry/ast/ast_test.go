package ast_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cherry-script/cherry-compiler/cherry/ast"
	"github.com/cherry-script/cherry-compiler/cherry/token"
)

func TestEnumBodyMapping(t *testing.T) {
	body := ast.EnumBody{Variants: []ast.EnumVariant{
		{Tag: "some", Params: []ast.Type{ast.VarType{Name: "a"}}},
		{Tag: "none"},
	}}
	m := body.Mapping()
	if len(m) != 2 {
		t.Fatalf("got %d entries, want 2", len(m))
	}
	if diff := cmp.Diff([]ast.Type{ast.VarType{Name: "a"}}, m["some"]); diff != "" {
		t.Errorf("m[\"some\"] mismatch (-want +got):\n%s", diff)
	}
	if len(m["none"]) != 0 {
		t.Errorf("got %d params for none, want 0", len(m["none"]))
	}
}

func TestRecordBodyMapping(t *testing.T) {
	body := ast.RecordBody{Fields: []ast.RecordBodyField{
		{Name: "x", Type: ast.ConType{Name: "Number"}},
	}}
	want := map[string]ast.Type{"x": ast.ConType{Name: "Number"}}
	if diff := cmp.Diff(want, body.Mapping()); diff != "" {
		t.Errorf("Mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestSumTypeMapping(t *testing.T) {
	sum := ast.SumType{Variants: []ast.SumTypeVariant{
		{Tag: "ok", Params: []ast.Type{ast.VarType{Name: "a"}}},
		{Tag: "err", Params: []ast.Type{ast.ConType{Name: "String"}}},
	}}
	m := sum.Mapping()
	if len(m) != 2 {
		t.Fatalf("got %d entries, want 2", len(m))
	}
	if diff := cmp.Diff([]ast.Type{ast.VarType{Name: "a"}}, m["ok"]); diff != "" {
		t.Errorf("m[\"ok\"] mismatch (-want +got):\n%s", diff)
	}
}

func TestDeclarationSpanAccessors(t *testing.T) {
	sp := token.Span{Start: token.Position{Line: 1, Column: 1}, End: token.Position{Line: 1, Column: 5}}
	decls := []ast.Declaration{
		&ast.RunDecl{SpanValue: sp},
		&ast.ExtDecl{SpanValue: sp},
		&ast.LetDecl{SpanValue: sp},
		&ast.TypeDecl{SpanValue: sp},
	}
	for _, d := range decls {
		if d.Span() != sp {
			t.Errorf("%T.Span() = %v, want %v", d, d.Span(), sp)
		}
	}
}

func TestOpString(t *testing.T) {
	cases := []struct {
		op   ast.Op
		want string
	}{
		{ast.Pipe, "|>"},
		{ast.Gte, ">="},
		{ast.Cons, "::"},
	}
	for _, tc := range cases {
		if got := tc.op.String(); got != tc.want {
			t.Errorf("%v.String() = %q, want %q", tc.op, got, tc.want)
		}
	}
}

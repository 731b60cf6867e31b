package errors_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cherry-script/cherry-compiler/cherry/errors"
	"github.com/cherry-script/cherry-compiler/cherry/token"
)

func TestPushAccumulatesContextStack(t *testing.T) {
	pos := token.Position{Line: 1, Column: 1}
	err := error(errors.New(errors.ExpectingSymbol, pos, "("))
	err = errors.Push(err, errors.InExpr)
	err = errors.Push(err, errors.InDeclaration)

	pe := errors.Underlying(err)
	if pe == nil {
		t.Fatal("errors.Underlying returned nil")
	}
	want := []errors.Context{errors.InExpr, errors.InDeclaration}
	if diff := cmp.Diff(want, pe.Contexts); diff != "" {
		t.Errorf("Contexts mismatch (-want +got):\n%s", diff)
	}
}

func TestCommitSurvivesIsCommitted(t *testing.T) {
	pos := token.Position{Line: 2, Column: 3}
	base := errors.New(errors.ExpectingKeyword, pos, "then")
	committed := errors.Commit(base)

	pe, ok := errors.IsCommitted(committed)
	if !ok {
		t.Fatal("IsCommitted(committed) = false, want true")
	}
	if pe.Kind != errors.ExpectingKeyword {
		t.Errorf("Kind = %v, want ExpectingKeyword", pe.Kind)
	}

	if _, ok := errors.IsCommitted(base); ok {
		t.Error("IsCommitted(base) = true, want false")
	}
}

func TestCommitIsIdempotent(t *testing.T) {
	base := errors.New(errors.Internal, token.Position{}, "boom")
	once := errors.Commit(base)
	twice := errors.Commit(once)
	if twice.Error() != once.Error() {
		t.Errorf("twice.Error() = %q, want %q", twice.Error(), once.Error())
	}
}

func TestUnderlyingUnwrapsCommit(t *testing.T) {
	base := errors.New(errors.ExpectingNumber, token.Position{Line: 4, Column: 2}, "")
	committed := errors.Commit(base)
	if errors.Underlying(committed) != base {
		t.Error("Underlying(committed) != base")
	}
}

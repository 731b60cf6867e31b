// Package parser implements the cherry front end: a recursive-descent,
// Pratt-precedence parser that runs directly over source text with explicit
// backtracking, rather than over a pre-scanned token stream. See state.go
// for the cursor, combinators.go for the backtracking primitives, and
// lexical.go for the character-level grammar shared by every production.
package parser

import (
	"github.com/cherry-script/cherry-compiler/cherry/ast"
	cherryerrors "github.com/cherry-script/cherry-compiler/cherry/errors"
)

// Parse parses source as a single module named moduleName. On success it
// returns the assembled Module; on failure it returns a *cherryerrors.ParseError
// describing the first point past which the parse could not recover.
func Parse(moduleName, source string) (ast.Module, error) {
	p := newParser(source)
	mod, err := p.parseModule(moduleName)
	if err != nil {
		if pe := cherryerrors.Underlying(err); pe != nil {
			return ast.Module{}, pe
		}
		return ast.Module{}, err
	}
	return mod, nil
}

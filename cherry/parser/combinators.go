package parser

import (
	"github.com/cherry-script/cherry-compiler/cherry/errors"
	"github.com/cherry-script/cherry-compiler/cherry/token"
)

// parser carries the cursor through every grammar function, plus the
// guardMode flag below. Backtracking is nothing more than rewinding st to a
// checkpoint taken before the attempt. No grammar function reads or writes
// contexts: enclosing constructs are recorded on the error itself, via
// errors.Push, as it leaves parseModule.
type parser struct {
	st       *state
	contexts []errors.Context

	// guardMode is set while parsing a match guard, which uses the full
	// Pratt grammar minus annotation and minus lambda (§4.3) to avoid
	// ambiguity with "=>". It is cleared while parsing inside an explicit
	// parenthesised subexpression, where the delimiters already disambiguate.
	guardMode bool
}

func newParser(src string) *parser {
	return &parser{st: newState(src)}
}

// inContext runs f and, if f fails, records ctx on the returned error as the
// enclosing construct. No grammar function calls it.
func (p *parser) inContext(ctx errors.Context, f func() error) error {
	err := f()
	if err != nil {
		return errors.Push(err, ctx)
	}
	return nil
}

// attempt runs f from a fresh checkpoint and rewinds on failure, the
// primitive backtracking step used throughout the grammar.
func attempt[T any](p *parser, f func() (T, error)) (T, error) {
	cp := p.st.mark()
	v, err := f()
	if err != nil {
		p.st.reset(cp)
	}
	return v, err
}

// alt tries each alternative in order, rewinding between attempts. The
// first alternative to succeed wins. An alternative that fails with a
// committed error (see errors.Commit) aborts the whole alternation
// immediately rather than yielding to a sibling, per §7's commit-point
// rule; its position is not rewound, since the caller has already decided
// the input can only have meant this alternative.
func alt[T any](p *parser, fs ...func() (T, error)) (T, error) {
	var zero T
	var last error
	for _, f := range fs {
		cp := p.st.mark()
		v, err := f()
		if err == nil {
			return v, nil
		}
		if _, committed := errors.IsCommitted(err); committed {
			return zero, err
		}
		p.st.reset(cp)
		last = err
	}
	return zero, last
}

// commit wraps err (produced after a construct's disambiguating prefix has
// already been consumed) so that alt will propagate it instead of trying a
// sibling alternative.
func (p *parser) commit(err error) error {
	return errors.Commit(err)
}

func (p *parser) failAt(pos token.Position, kind errors.Kind, detail string) error {
	return errors.New(kind, pos, detail)
}

func (p *parser) fail(kind errors.Kind, detail string) error {
	return p.failAt(p.st.position(), kind, detail)
}

func (p *parser) internalf(msg string) error {
	return p.fail(errors.Internal, msg)
}

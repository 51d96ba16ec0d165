package codefmt

import (
	"cmp"
	"fmt"
	"go/token"
)

// CodeError indicates where the error occurred in user's source code.
type CodeError struct {
	err  error
	kind error
	pos  token.Pos
	end  token.Pos
	fset *token.FileSet
}

// Unwrap returns the underlying error.
func (e CodeError) Unwrap() error { return e.err }

// Kind returns the diagnostic kind given to [Formatter.KindErrorf]. It is nil
// for errors created by [Formatter.Errorf].
func (e CodeError) Kind() error { return e.kind }

// Is reports whether target is the kind of the error.
func (e CodeError) Is(target error) bool { return e.kind != nil && e.kind == target }

// Pos returns the position where the error occurred. It may be invalid.
func (e CodeError) Pos() token.Pos { return e.pos }

// End returns the end position of the error. It may be invalid.
func (e CodeError) End() token.Pos { return e.end }

// Position returns the resolved position of the error. It is the zero
// [token.Position] if the position is invalid.
func (e CodeError) Position() token.Position {
	if !e.pos.IsValid() || e.fset == nil {
		return token.Position{}
	}
	return e.fset.Position(e.pos)
}

// Error implements the error interface. If pos is valid, the position is
// prepended to the error message.
func (e CodeError) Error() string {
	if e.err == nil {
		return ""
	}

	if !e.pos.IsValid() || e.fset == nil {
		return e.err.Error()
	}

	return fmt.Sprintf("%s: %s", FormatPosition(e.fset.Position(e.pos)), e.err.Error())
}

// ComparePosition orders two resolved positions by file name, line and
// column. Invalid positions sort first.
func ComparePosition(a, b token.Position) int {
	if c := cmp.Compare(a.Filename, b.Filename); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Line, b.Line); c != 0 {
		return c
	}
	return cmp.Compare(a.Column, b.Column)
}

// Errorf formats an error message. The error will indicate the position in the
// source code if the position is valid.
func (f Formatter) Errorf(poser Poser, format string, args ...any) error {
	return f.KindErrorf(nil, poser, format, args...)
}

// KindErrorf is like [Formatter.Errorf] but the error also matches kind with
// [errors.Is].
func (f Formatter) KindErrorf(kind error, poser Poser, format string, args ...any) error {
	// Prevent wrapping error in args
	for _, arg := range args {
		if _, ok := arg.(error); ok {
			panic("CodeError cannot wrap error")
		}
	}

	var pos, end token.Pos
	if poser != nil {
		pos = poser.Pos()
		if ender, ok := poser.(Ender); ok {
			end = ender.End()
		}
	}

	args = f.wrapPrintfArgs(args)
	err := fmt.Errorf(format, args...)
	return &CodeError{err, kind, pos, end, f.Fset}
}

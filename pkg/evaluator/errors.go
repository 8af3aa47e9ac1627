package evaluator

import (
	"errors"

	"github.com/thomasrohde/letrec/go/pkg/ast"
	"github.com/thomasrohde/letrec/go/pkg/diagnostics"
)

// Sentinel errors matched by RuntimeError.Is.
var (
	ErrNameNotFound  = errors.New("name not found")
	ErrNotANumber    = errors.New("not a number")
	ErrNotABoolean   = errors.New("not a boolean")
	ErrNotAProcedure = errors.New("not a procedure")
	ErrMalformed     = errors.New("malformed expression")
)

var sentinels = map[string]error{
	diagnostics.EUnbound:       ErrNameNotFound,
	diagnostics.ENotANumber:    ErrNotANumber,
	diagnostics.ENotABoolean:   ErrNotABoolean,
	diagnostics.ENotAProcedure: ErrNotAProcedure,
	diagnostics.EAst:           ErrMalformed,
}

// RuntimeError represents a failure during evaluation. Code is one of the
// diagnostics codes; Span, when set, locates the expression that failed.
type RuntimeError struct {
	Code    string
	Message string
	Span    *ast.Span
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// Is reports whether target is the sentinel for e's code, so callers can
// write errors.Is(err, evaluator.ErrNotANumber).
func (e *RuntimeError) Is(target error) bool {
	s, ok := sentinels[e.Code]
	return ok && s == target
}

// Diagnostic converts the error into a diagnostic with the standard hint.
func (e *RuntimeError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(e.Code, e.Message, e.Span, diagnostics.HintFor(e.Code))
}

// locate records where err surfaced. The innermost location wins: an error
// that already carries a span passes through untouched.
func locate(err error, n ast.Node) error {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) && rtErr.Span == nil && n != nil {
		span := n.NodeSpan()
		rtErr.Span = &span
	}
	return err
}

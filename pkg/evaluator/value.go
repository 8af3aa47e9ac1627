// Package evaluator implements the LETREC runtime: values, environments and
// the tree-walking evaluator.
package evaluator

import (
	"fmt"
	"strconv"

	"github.com/thomasrohde/letrec/go/pkg/ast"
	"github.com/thomasrohde/letrec/go/pkg/diagnostics"
)

// Value is the interface for all LETREC runtime values.
// The sealed marker method restricts implementations to Number, Boolean and
// Procedure. Values are immutable and cheap to copy.
type Value interface {
	value() // sealed marker
	String() string
}

// Number is an integer value.
type Number struct {
	Value int
}

func (Number) value() {}

func (n Number) String() string { return strconv.Itoa(n.Value) }

// Boolean is the result of zero?.
type Boolean struct {
	Value bool
}

func (Boolean) value() {}

func (b Boolean) String() string {
	if b.Value {
		return "#t"
	}
	return "#f"
}

// Closure is a procedure paired with the environment in effect where it was
// created. Body is shared with the program tree, never copied.
type Closure struct {
	Param ast.Identifier
	Body  ast.Expr
	Env   *Env
}

// Procedure is a procedure value.
type Procedure struct {
	Closure Closure
}

func (Procedure) value() {}

func (p Procedure) String() string {
	return fmt.Sprintf("#<procedure %s>", p.Closure.Param)
}

// NewNumber creates a number value.
func NewNumber(n int) Value {
	return Number{Value: n}
}

// NewBoolean creates a boolean value.
func NewBoolean(b bool) Value {
	return Boolean{Value: b}
}

// NewProcedure creates a procedure value closing over env.
func NewProcedure(param ast.Identifier, body ast.Expr, env *Env) Value {
	return Procedure{Closure: Closure{Param: param, Body: body, Env: env}}
}

// AsNumber narrows v to its integer, failing with ErrNotANumber.
func AsNumber(v Value) (int, error) {
	switch val := v.(type) {
	case Number:
		return val.Value, nil
	default:
		return 0, typeError(diagnostics.ENotANumber, "number", v)
	}
}

// AsBoolean narrows v to its truth value, failing with ErrNotABoolean.
func AsBoolean(v Value) (bool, error) {
	switch val := v.(type) {
	case Boolean:
		return val.Value, nil
	default:
		return false, typeError(diagnostics.ENotABoolean, "boolean", v)
	}
}

// AsProcedure narrows v to its closure, failing with ErrNotAProcedure.
func AsProcedure(v Value) (Closure, error) {
	switch val := v.(type) {
	case Procedure:
		return val.Closure, nil
	default:
		return Closure{}, typeError(diagnostics.ENotAProcedure, "procedure", v)
	}
}

// TypeName returns the language-level name of v's variant.
func TypeName(v Value) string {
	switch v.(type) {
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case Procedure:
		return "procedure"
	default:
		return "nothing"
	}
}

func typeError(code, want string, got Value) *RuntimeError {
	desc := TypeName(got)
	if got != nil {
		desc += " " + got.String()
	}
	return &RuntimeError{
		Code:    code,
		Message: fmt.Sprintf("expected a %s, got %s", want, desc),
	}
}

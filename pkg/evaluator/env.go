package evaluator

import (
	"fmt"

	"github.com/thomasrohde/letrec/go/pkg/ast"
	"github.com/thomasrohde/letrec/go/pkg/diagnostics"
)

// Env is one frame of a persistent environment chain.
//
// The empty environment is the nil *Env. Frames are never mutated after
// construction, so any number of closures and pending evaluations may share a
// tail. A frame is either an ordinary binding of name to val, or a recursive
// binding (rec) of name to a procedure of param with the given body.
type Env struct {
	name   ast.Identifier
	val    Value
	rec    bool
	param  ast.Identifier
	body   ast.Expr
	parent *Env
}

// EmptyEnv returns the environment with no bindings.
func EmptyEnv() *Env {
	return nil
}

// Extend returns a new frame binding name to val in front of e.
func (e *Env) Extend(name ast.Identifier, val Value) *Env {
	return &Env{name: name, val: val, parent: e}
}

// ExtendRec returns a new frame binding name to a procedure of param whose
// body may refer to name itself.
func (e *Env) ExtendRec(name, param ast.Identifier, body ast.Expr) *Env {
	return &Env{name: name, rec: true, param: param, body: body, parent: e}
}

// Lookup finds the nearest binding of key.
//
// For a recursive frame a fresh closure is built on every lookup, and its
// defining environment is that frame itself rather than its parent. Calling
// the closure therefore sees the same frame again whenever its body names
// the procedure, without any cell being updated or a cycle being stored.
func (e *Env) Lookup(key ast.Identifier) (Value, error) {
	for f := e; f != nil; f = f.parent {
		if f.name != key {
			continue
		}
		if f.rec {
			return NewProcedure(f.param, f.body, f), nil
		}
		return f.val, nil
	}
	return nil, &RuntimeError{
		Code:    diagnostics.EUnbound,
		Message: fmt.Sprintf("unbound variable '%s'", key),
	}
}

// Has checks whether key is bound in this frame or any outer one. Evaluation
// resolves names with Lookup; Has only feeds the letrec_bind trace.
func (e *Env) Has(key ast.Identifier) bool {
	for f := e; f != nil; f = f.parent {
		if f.name == key {
			return true
		}
	}
	return false
}

// Depth returns the number of frames in the chain, for tracing and tests.
func (e *Env) Depth() int {
	n := 0
	for f := e; f != nil; f = f.parent {
		n++
	}
	return n
}

// Names lists bound names from innermost to outermost, shadowed names
// included. Like Depth it is reported in call traces.
func (e *Env) Names() []ast.Identifier {
	var names []ast.Identifier
	for f := e; f != nil; f = f.parent {
		names = append(names, f.name)
	}
	return names
}

// Package validator checks LETREC trees before evaluation.
//
// Validate reports malformed trees: missing sub-expressions and empty
// identifiers, which are programming errors of whoever built the tree.
// CheckScopes reports references to names that no enclosing let, letrec or
// procedure binds. Evaluation only fails on such a name when the reference is
// actually reached, so scope findings are advisory.
package validator

import (
	"fmt"
	"sort"

	"github.com/thomasrohde/letrec/go/pkg/ast"
	"github.com/thomasrohde/letrec/go/pkg/diagnostics"
)

type scope struct {
	bindings map[ast.Identifier]bool
	parent   *scope
}

func newScope(parent *scope, names ...ast.Identifier) *scope {
	s := &scope{bindings: make(map[ast.Identifier]bool, len(names)), parent: parent}
	for _, n := range names {
		s.bindings[n] = true
	}
	return s
}

func (s *scope) has(name ast.Identifier) bool {
	if s.bindings[name] {
		return true
	}
	if s.parent != nil {
		return s.parent.has(name)
	}
	return false
}

type validator struct {
	diags   []diagnostics.Diagnostic
	unbound []*ast.VarExp
}

// Validate checks that every node of the program is present and every
// identifier is non-empty.
func Validate(program *ast.Program) []diagnostics.Diagnostic {
	v := &validator{}
	if program == nil {
		v.addDiag(diagnostics.EAst, "program is missing", nil)
		return v.diags
	}
	v.walk(program.Exp, newScope(nil), program, "expression")
	return v.diags
}

// CheckScopes reports an E_UNBOUND diagnostic for each reference to a name
// that is free in the program.
func CheckScopes(program *ast.Program) []diagnostics.Diagnostic {
	if program == nil {
		return nil
	}
	v := &validator{}
	v.walk(program.Exp, newScope(nil), program, "expression")

	var diags []diagnostics.Diagnostic
	for _, ref := range v.unbound {
		span := ref.Span
		diags = append(diags, diagnostics.MakeDiag(
			diagnostics.EUnbound,
			fmt.Sprintf("unbound variable '%s'", ref.Name),
			&span,
			diagnostics.HintFor(diagnostics.EUnbound),
		))
	}
	return diags
}

// FreeVariables returns the names referenced but not bound in expr, sorted
// and without duplicates.
func FreeVariables(expr ast.Expr) []ast.Identifier {
	v := &validator{}
	v.walk(expr, newScope(nil), nil, "expression")

	seen := make(map[ast.Identifier]bool)
	var names []ast.Identifier
	for _, ref := range v.unbound {
		if !seen[ref.Name] {
			seen[ref.Name] = true
			names = append(names, ref.Name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func (v *validator) addDiag(code, msg string, n ast.Node) {
	var span *ast.Span
	if n != nil {
		s := n.NodeSpan()
		span = &s
	}
	v.diags = append(v.diags, diagnostics.MakeDiag(code, msg, span, diagnostics.HintFor(code)))
}

func (v *validator) checkIdent(name ast.Identifier, n ast.Node, role string) {
	if name == "" {
		v.addDiag(diagnostics.EAst, fmt.Sprintf("%s has an empty %s", n.Kind(), role), n)
	}
}

func (v *validator) walk(expr ast.Expr, sc *scope, parent ast.Node, role string) {
	if ast.IsNil(expr) {
		kind := "program"
		if parent != nil {
			kind = parent.Kind()
		}
		v.addDiag(diagnostics.EAst, fmt.Sprintf("%s is missing its %s", kind, role), parent)
		return
	}

	switch e := expr.(type) {
	case *ast.ConstExp:
		// always well-formed

	case *ast.VarExp:
		v.checkIdent(e.Name, e, "name")
		if e.Name != "" && !sc.has(e.Name) {
			v.unbound = append(v.unbound, e)
		}

	case *ast.DiffExp:
		v.walk(e.Left, sc, e, "left operand")
		v.walk(e.Right, sc, e, "right operand")

	case *ast.ZeroTestExp:
		v.walk(e.Exp, sc, e, "operand")

	case *ast.IfExp:
		v.walk(e.Cond, sc, e, "condition")
		v.walk(e.Then, sc, e, "then branch")
		v.walk(e.Else, sc, e, "else branch")

	case *ast.LetExp:
		v.checkIdent(e.Var, e, "variable")
		v.walk(e.Value, sc, e, "value")
		v.walk(e.Body, newScope(sc, e.Var), e, "body")

	case *ast.ProcExp:
		v.checkIdent(e.Param, e, "parameter")
		v.walk(e.Body, newScope(sc, e.Param), e, "body")

	case *ast.CallExp:
		v.walk(e.Operator, sc, e, "operator")
		v.walk(e.Operand, sc, e, "operand")

	case *ast.LetrecExp:
		v.checkIdent(e.Name, e, "procedure name")
		v.checkIdent(e.Param, e, "parameter")
		v.walk(e.ProcBody, newScope(sc, e.Name, e.Param), e, "procedure body")
		v.walk(e.LetBody, newScope(sc, e.Name), e, "body")
	}
}

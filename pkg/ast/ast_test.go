package ast_test

import (
	"testing"

	"github.com/thomasrohde/letrec/go/pkg/ast"
)

func TestNodeKinds(t *testing.T) {
	nodes := []ast.Node{
		ast.Const(42),
		ast.Var("x"),
		ast.Diff(ast.Const(1), ast.Const(2)),
		ast.ZeroTest(ast.Const(0)),
		ast.If(ast.ZeroTest(ast.Const(0)), ast.Const(1), ast.Const(2)),
		ast.Let("x", ast.Const(1), ast.Var("x")),
		ast.Proc("x", ast.Var("x")),
		ast.Call(ast.Var("f"), ast.Const(1)),
		ast.Letrec("f", "x", ast.Var("x"), ast.Var("f")),
		&ast.Program{Exp: ast.Const(1)},
	}

	expected := []string{
		"ConstExp", "VarExp", "DiffExp", "ZeroTestExp", "IfExp",
		"LetExp", "ProcExp", "CallExp", "LetrecExp", "Program",
	}

	for i, node := range nodes {
		if got := node.Kind(); got != expected[i] {
			t.Errorf("node %d: got Kind() = %q, want %q", i, got, expected[i])
		}
	}
}

func TestConstructorsKeepChildren(t *testing.T) {
	body := ast.Diff(ast.Var("x"), ast.Const(1))
	proc := ast.Proc("x", body)
	if proc.Body != body {
		t.Error("Proc must keep the given body node, not a copy")
	}

	lr := ast.Letrec("f", "n", body, ast.Var("f"))
	if lr.Name != "f" || lr.Param != "n" || lr.ProcBody != body {
		t.Errorf("unexpected letrec fields: %+v", lr)
	}
}

func TestNodeSpan(t *testing.T) {
	span := ast.Span{File: "prog.letrec", StartLine: 2, StartCol: 3, EndLine: 2, EndCol: 9}
	n := &ast.VarExp{Span: span, Name: "x"}
	if got := n.NodeSpan(); got != span {
		t.Errorf("NodeSpan() = %+v, want %+v", got, span)
	}
}

func TestIsNil(t *testing.T) {
	absent := []ast.Expr{
		nil,
		(*ast.ConstExp)(nil),
		(*ast.VarExp)(nil),
		(*ast.DiffExp)(nil),
		(*ast.ZeroTestExp)(nil),
		(*ast.IfExp)(nil),
		(*ast.LetExp)(nil),
		(*ast.ProcExp)(nil),
		(*ast.CallExp)(nil),
		(*ast.LetrecExp)(nil),
	}
	for _, e := range absent {
		if !ast.IsNil(e) {
			t.Errorf("IsNil(%T) = false, want true", e)
		}
	}
	if ast.IsNil(ast.Const(0)) {
		t.Error("IsNil(Const(0)) = true, want false")
	}
}

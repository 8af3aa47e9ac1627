package evaluator_test

import (
	"errors"
	"testing"

	"github.com/thomasrohde/letrec/go/pkg/ast"
	"github.com/thomasrohde/letrec/go/pkg/diagnostics"
	"github.com/thomasrohde/letrec/go/pkg/evaluator"
)

func TestNewValues(t *testing.T) {
	values := []evaluator.Value{
		evaluator.NewNumber(0),
		evaluator.NewNumber(-7),
		evaluator.NewBoolean(true),
		evaluator.NewBoolean(false),
		evaluator.NewProcedure("x", ast.Var("x"), evaluator.EmptyEnv()),
	}

	for i, v := range values {
		if v == nil {
			t.Errorf("value %d: got nil", i)
		}
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		value    evaluator.Value
		expected string
	}{
		{evaluator.NewNumber(42), "42"},
		{evaluator.NewNumber(-3), "-3"},
		{evaluator.NewBoolean(true), "#t"},
		{evaluator.NewBoolean(false), "#f"},
		{evaluator.NewProcedure("n", ast.Var("n"), nil), "#<procedure n>"},
	}

	for i, tt := range tests {
		if got := tt.value.String(); got != tt.expected {
			t.Errorf("test %d: String() = %q, want %q", i, got, tt.expected)
		}
	}
}

func TestAsNumber(t *testing.T) {
	n, err := evaluator.AsNumber(evaluator.NewNumber(9))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 9 {
		t.Errorf("got %d, want 9", n)
	}

	for _, v := range []evaluator.Value{
		evaluator.NewBoolean(true),
		evaluator.NewProcedure("x", ast.Var("x"), nil),
	} {
		_, err := evaluator.AsNumber(v)
		expectRuntimeError(t, err, diagnostics.ENotANumber)
		if !errors.Is(err, evaluator.ErrNotANumber) {
			t.Errorf("AsNumber(%v): errors.Is(ErrNotANumber) = false", v)
		}
	}
}

func TestAsBoolean(t *testing.T) {
	b, err := evaluator.AsBoolean(evaluator.NewBoolean(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b {
		t.Error("got true, want false")
	}

	for _, v := range []evaluator.Value{
		evaluator.NewNumber(0),
		evaluator.NewProcedure("x", ast.Var("x"), nil),
	} {
		_, err := evaluator.AsBoolean(v)
		expectRuntimeError(t, err, diagnostics.ENotABoolean)
		if !errors.Is(err, evaluator.ErrNotABoolean) {
			t.Errorf("AsBoolean(%v): errors.Is(ErrNotABoolean) = false", v)
		}
	}
}

func TestAsProcedure(t *testing.T) {
	body := ast.Diff(ast.Var("x"), ast.Const(1))
	env := evaluator.EmptyEnv().Extend("y", evaluator.NewNumber(3))

	c, err := evaluator.AsProcedure(evaluator.NewProcedure("x", body, env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Param != "x" || c.Body != body || c.Env != env {
		t.Errorf("closure fields not preserved: %+v", c)
	}

	for _, v := range []evaluator.Value{evaluator.NewNumber(1), evaluator.NewBoolean(true)} {
		_, err := evaluator.AsProcedure(v)
		expectRuntimeError(t, err, diagnostics.ENotAProcedure)
		if !errors.Is(err, evaluator.ErrNotAProcedure) {
			t.Errorf("AsProcedure(%v): errors.Is(ErrNotAProcedure) = false", v)
		}
	}
}

func TestCoercionErrorsDoNotCrossMatch(t *testing.T) {
	_, err := evaluator.AsNumber(evaluator.NewBoolean(true))
	if errors.Is(err, evaluator.ErrNotABoolean) || errors.Is(err, evaluator.ErrNameNotFound) {
		t.Errorf("number coercion error matched an unrelated sentinel: %v", err)
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		value    evaluator.Value
		expected string
	}{
		{evaluator.NewNumber(1), "number"},
		{evaluator.NewBoolean(true), "boolean"},
		{evaluator.NewProcedure("x", ast.Var("x"), nil), "procedure"},
		{nil, "nothing"},
	}
	for _, tt := range tests {
		if got := evaluator.TypeName(tt.value); got != tt.expected {
			t.Errorf("TypeName(%v) = %q, want %q", tt.value, got, tt.expected)
		}
	}
}

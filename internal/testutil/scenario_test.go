package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thomasrohde/letrec/go/pkg/ast"
	"github.com/thomasrohde/letrec/go/pkg/formatter"
)

func TestDecodeExprForms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"const", "42", "42"},
		{"negative", "-7", "-7"},
		{"var", "x", "x"},
		{"diff", "diff: [x, 3]", "-(x, 3)"},
		{"zero", "zero: 0", "zero?(0)"},
		{"if", "if: {cond: {zero: 0}, then: 1, else: 2}", "if zero?(0) then 1 else 2"},
		{"let", "let: {var: x, value: 5, body: x}", "let x = 5 in x"},
		{"proc", "proc: {param: x, body: x}", "proc (x) x"},
		{"call", "call: [f, 1]", "(f 1)"},
		{
			"letrec",
			"letrec: {name: f, param: x, procBody: {call: [f, x]}, body: {call: [f, 1]}}",
			"letrec f(x) = (f x) in (f 1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := DecodeExpr([]byte(tt.src), "test.yaml")
			if err != nil {
				t.Fatalf("DecodeExpr(%q) error: %v", tt.src, err)
			}
			if got := formatter.FormatInline(expr); got != tt.want {
				t.Errorf("DecodeExpr(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestDecodeExprSpans(t *testing.T) {
	src := "diff:\n  - 1\n  - y\n"
	expr, err := DecodeExpr([]byte(src), "spans.yaml")
	if err != nil {
		t.Fatal(err)
	}
	d, ok := expr.(*ast.DiffExp)
	if !ok {
		t.Fatalf("expected *ast.DiffExp, got %T", expr)
	}
	want := ast.Span{File: "spans.yaml", StartLine: 3, StartCol: 5, EndLine: 3, EndCol: 5}
	if diff := cmp.Diff(want, d.Right.NodeSpan()); diff != "" {
		t.Errorf("span mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeExprErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown form", "loop: 1", `unknown form "loop"`},
		{"two keys", "{zero: 0, diff: [1, 2]}", "exactly one key"},
		{"short diff", "diff: [1]", "sequence of two"},
		{"missing key", "let: {var: x, value: 1}", `missing key "body"`},
		{"extra key", "proc: {param: x, body: x, name: f}", `unexpected key "name"`},
		{"float", "1.5", "unsupported scalar"},
		{"sequence", "[1, 2]", "unexpected node kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeExpr([]byte(tt.src), "bad.yaml")
			if err == nil {
				t.Fatalf("expected error for %q", tt.src)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.yaml")
	src := `description: sample
program:
  diff: [5, 3]
expect:
  number: 2
  check: []
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if s.Name != "sample" {
		t.Errorf("Name = %q, want %q", s.Name, "sample")
	}
	if s.Expect.Number == nil || *s.Expect.Number != 2 {
		t.Errorf("Expect.Number = %v, want 2", s.Expect.Number)
	}

	prog, err := s.BuildProgram()
	if err != nil {
		t.Fatalf("BuildProgram: %v", err)
	}
	if got := formatter.FormatInline(prog.Exp); got != "-(5, 3)" {
		t.Errorf("program = %q", got)
	}
	if prog.Exp.NodeSpan().File != "sample.yaml" {
		t.Errorf("span file = %q, want sample.yaml", prog.Exp.NodeSpan().File)
	}
}

func TestLoadScenarioRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typo.yaml")
	if err := os.WriteFile(path, []byte("program: 1\nexpect:\n  nubmer: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(path); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestListScenarios(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yaml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("program: 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := ListScenarios(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.yaml")}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("ListScenarios mismatch (-want +got):\n%s", diff)
	}
}

// Package testutil provides shared test helpers for LETREC Go tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thomasrohde/letrec/go/pkg/ast"
)

// ScenariosDir is the relative path from the module root to the shared scenarios.
const ScenariosDir = "testdata/scenarios"

// Scenario is one end-to-end case loaded from a YAML file.
type Scenario struct {
	Name        string         `yaml:"-"`
	File        string         `yaml:"-"`
	Description string         `yaml:"description"`
	Program     yaml.Node      `yaml:"program"`
	Expect      ExpectedResult `yaml:"expect"`
}

// ExpectedResult describes the expected outcome of running a scenario.
// Exactly one of Number, Boolean, Procedure or Error is expected to be set.
type ExpectedResult struct {
	Number    *int     `yaml:"number,omitempty"`
	Boolean   *bool    `yaml:"boolean,omitempty"`
	Procedure string   `yaml:"procedure,omitempty"`
	Error     string   `yaml:"error,omitempty"`
	Check     []string `yaml:"check,omitempty"`
	Format    string   `yaml:"format,omitempty"`
}

// LoadScenario loads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.File = filepath.Base(path)
	s.Name = strings.TrimSuffix(s.File, filepath.Ext(s.File))
	return &s, nil
}

// ListScenarios returns all scenario files under the given root, sorted.
func ListScenarios(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".yaml" {
			files = append(files, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// BuildProgram decodes the scenario's program tree.
func (s *Scenario) BuildProgram() (*ast.Program, error) {
	d := &decoder{file: s.File}
	exp, err := d.expr(&s.Program)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Span: d.span(&s.Program), Exp: exp}, nil
}

// DecodeExpr decodes an expression written in the scenario notation:
//
//	42                              constant
//	x                               variable
//	{diff: [e1, e2]}                -(e1, e2)
//	{zero: e}                       zero?(e)
//	{if: {cond: c, then: t, else: f}}
//	{let: {var: x, value: v, body: b}}
//	{proc: {param: x, body: b}}
//	{call: [rator, rand]}
//	{letrec: {name: f, param: x, procBody: b, body: e}}
func DecodeExpr(src []byte, file string) (ast.Expr, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, err
	}
	d := &decoder{file: file}
	return d.expr(&doc)
}

type decoder struct {
	file string
}

func (d *decoder) span(n *yaml.Node) ast.Span {
	return ast.Span{File: d.file, StartLine: n.Line, StartCol: n.Column, EndLine: n.Line, EndCol: n.Column}
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%s:%d:%d: %s", d.file, n.Line, n.Column, fmt.Sprintf(format, args...))
}

func (d *decoder) expr(n *yaml.Node) (ast.Expr, error) {
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) != 1 {
			return nil, d.errorf(n, "empty document")
		}
		return d.expr(n.Content[0])
	}

	switch n.Kind {
	case yaml.ScalarNode:
		return d.scalar(n)
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, d.errorf(n, "expression mapping must have exactly one key")
		}
		return d.form(n, n.Content[0].Value, n.Content[1])
	default:
		return nil, d.errorf(n, "unexpected node kind %v", n.Kind)
	}
}

func (d *decoder) scalar(n *yaml.Node) (ast.Expr, error) {
	switch n.ShortTag() {
	case "!!int":
		v, err := strconv.Atoi(n.Value)
		if err != nil {
			return nil, d.errorf(n, "bad integer %q", n.Value)
		}
		return &ast.ConstExp{Span: d.span(n), Value: v}, nil
	case "!!str":
		return &ast.VarExp{Span: d.span(n), Name: ast.Identifier(n.Value)}, nil
	default:
		return nil, d.errorf(n, "unsupported scalar %s %q", n.ShortTag(), n.Value)
	}
}

func (d *decoder) form(n *yaml.Node, key string, val *yaml.Node) (ast.Expr, error) {
	span := d.span(n)
	switch key {
	case "diff":
		es, err := d.pair(val)
		if err != nil {
			return nil, err
		}
		return &ast.DiffExp{Span: span, Left: es[0], Right: es[1]}, nil

	case "zero":
		e, err := d.expr(val)
		if err != nil {
			return nil, err
		}
		return &ast.ZeroTestExp{Span: span, Exp: e}, nil

	case "if":
		f, err := d.fields(val, "cond", "then", "else")
		if err != nil {
			return nil, err
		}
		es, err := d.exprs(f["cond"], f["then"], f["else"])
		if err != nil {
			return nil, err
		}
		return &ast.IfExp{Span: span, Cond: es[0], Then: es[1], Else: es[2]}, nil

	case "let":
		f, err := d.fields(val, "var", "value", "body")
		if err != nil {
			return nil, err
		}
		es, err := d.exprs(f["value"], f["body"])
		if err != nil {
			return nil, err
		}
		return &ast.LetExp{Span: span, Var: ast.Identifier(f["var"].Value), Value: es[0], Body: es[1]}, nil

	case "proc":
		f, err := d.fields(val, "param", "body")
		if err != nil {
			return nil, err
		}
		body, err := d.expr(f["body"])
		if err != nil {
			return nil, err
		}
		return &ast.ProcExp{Span: span, Param: ast.Identifier(f["param"].Value), Body: body}, nil

	case "call":
		es, err := d.pair(val)
		if err != nil {
			return nil, err
		}
		return &ast.CallExp{Span: span, Operator: es[0], Operand: es[1]}, nil

	case "letrec":
		f, err := d.fields(val, "name", "param", "procBody", "body")
		if err != nil {
			return nil, err
		}
		es, err := d.exprs(f["procBody"], f["body"])
		if err != nil {
			return nil, err
		}
		return &ast.LetrecExp{
			Span:     span,
			Name:     ast.Identifier(f["name"].Value),
			Param:    ast.Identifier(f["param"].Value),
			ProcBody: es[0],
			LetBody:  es[1],
		}, nil

	default:
		return nil, d.errorf(n, "unknown form %q", key)
	}
}

// pair decodes a two-element sequence.
func (d *decoder) pair(n *yaml.Node) ([]ast.Expr, error) {
	if n.Kind != yaml.SequenceNode || len(n.Content) != 2 {
		return nil, d.errorf(n, "expected a sequence of two expressions")
	}
	return d.exprs(n.Content[0], n.Content[1])
}

func (d *decoder) exprs(nodes ...*yaml.Node) ([]ast.Expr, error) {
	out := make([]ast.Expr, len(nodes))
	for i, n := range nodes {
		e, err := d.expr(n)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// fields collects the values of a mapping, requiring exactly the given keys.
func (d *decoder) fields(n *yaml.Node, names ...string) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "expected a mapping with keys %v", names)
	}
	want := make(map[string]bool, len(names))
	for _, name := range names {
		want[name] = true
	}
	out := make(map[string]*yaml.Node, len(names))
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i].Value
		if !want[k] {
			return nil, d.errorf(n.Content[i], "unexpected key %q", k)
		}
		out[k] = n.Content[i+1]
	}
	for _, name := range names {
		if _, ok := out[name]; !ok {
			return nil, d.errorf(n, "missing key %q", name)
		}
	}
	return out, nil
}

// Package formatter prints LETREC expressions and values in concrete syntax.
package formatter

import (
	"strconv"
	"strings"

	"github.com/thomasrohde/letrec/go/pkg/ast"
	"github.com/thomasrohde/letrec/go/pkg/evaluator"
)

const indent = "  "

type printer struct {
	sb     strings.Builder
	inline bool
}

// Format pretty-prints an expression. The bodies of let, letrec and the
// branches of if start on their own lines, indented by nesting depth.
func Format(expr ast.Expr) string {
	p := &printer{}
	p.expr(expr, 0)
	return p.sb.String()
}

// FormatInline prints an expression on a single line.
func FormatInline(expr ast.Expr) string {
	p := &printer{inline: true}
	p.expr(expr, 0)
	return p.sb.String()
}

// FormatProgram pretty-prints a program followed by a newline.
func FormatProgram(program *ast.Program) string {
	return Format(program.Exp) + "\n"
}

// FormatValue renders a runtime value. Procedures print as their source.
func FormatValue(v evaluator.Value) string {
	switch val := v.(type) {
	case evaluator.Number:
		return strconv.Itoa(val.Value)
	case evaluator.Boolean:
		return val.String()
	case evaluator.Procedure:
		return FormatInline(ast.Proc(val.Closure.Param, val.Closure.Body))
	default:
		return "<nothing>"
	}
}

// newline breaks the line before a continuation keyword such as "in" or
// "then". Inline printing uses a single space instead.
func (p *printer) newline(depth int) {
	if p.inline {
		p.sb.WriteByte(' ')
		return
	}
	p.sb.WriteByte('\n')
	p.sb.WriteString(strings.Repeat(indent, depth))
}

func (p *printer) expr(expr ast.Expr, depth int) {
	switch e := expr.(type) {
	case *ast.ConstExp:
		p.sb.WriteString(strconv.Itoa(e.Value))

	case *ast.VarExp:
		p.sb.WriteString(string(e.Name))

	case *ast.DiffExp:
		p.sb.WriteString("-(")
		p.expr(e.Left, depth+1)
		p.sb.WriteString(", ")
		p.expr(e.Right, depth+1)
		p.sb.WriteByte(')')

	case *ast.ZeroTestExp:
		p.sb.WriteString("zero?(")
		p.expr(e.Exp, depth+1)
		p.sb.WriteByte(')')

	case *ast.IfExp:
		p.sb.WriteString("if ")
		p.expr(e.Cond, depth+1)
		p.newline(depth)
		p.sb.WriteString("then ")
		p.expr(e.Then, depth+1)
		p.newline(depth)
		p.sb.WriteString("else ")
		p.expr(e.Else, depth+1)

	case *ast.LetExp:
		p.sb.WriteString("let ")
		p.sb.WriteString(string(e.Var))
		p.sb.WriteString(" = ")
		p.expr(e.Value, depth+1)
		p.newline(depth)
		p.sb.WriteString("in ")
		p.expr(e.Body, depth+1)

	case *ast.ProcExp:
		p.sb.WriteString("proc (")
		p.sb.WriteString(string(e.Param))
		p.sb.WriteString(") ")
		p.expr(e.Body, depth+1)

	case *ast.CallExp:
		p.sb.WriteByte('(')
		p.expr(e.Operator, depth+1)
		p.sb.WriteByte(' ')
		p.expr(e.Operand, depth+1)
		p.sb.WriteByte(')')

	case *ast.LetrecExp:
		p.sb.WriteString("letrec ")
		p.sb.WriteString(string(e.Name))
		p.sb.WriteByte('(')
		p.sb.WriteString(string(e.Param))
		p.sb.WriteString(") = ")
		p.expr(e.ProcBody, depth+1)
		p.newline(depth)
		p.sb.WriteString("in ")
		p.expr(e.LetBody, depth+1)

	default:
		// Malformed trees still print so they can appear in diagnostics.
		p.sb.WriteString("<?>")
	}
}

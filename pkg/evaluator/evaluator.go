package evaluator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thomasrohde/letrec/go/pkg/ast"
	"github.com/thomasrohde/letrec/go/pkg/diagnostics"
)

// TraceEventType identifies the type of a trace event.
type TraceEventType string

const (
	TraceRunStart    TraceEventType = "run_start"
	TraceRunEnd      TraceEventType = "run_end"
	TraceCallStart   TraceEventType = "call_start"
	TraceCallEnd     TraceEventType = "call_end"
	TraceLetrecBind  TraceEventType = "letrec_bind"
	TraceErrorRaised TraceEventType = "error"
)

// TraceEvent represents a single trace event emitted during execution.
type TraceEvent struct {
	Timestamp string            `json:"ts"`
	RunID     string            `json:"runId"`
	Event     TraceEventType    `json:"event"`
	Span      *ast.Span         `json:"span,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
}

// ExecOptions configures program execution.
type ExecOptions struct {
	Trace func(event TraceEvent)
	RunID string
}

// Stats summarizes one execution.
type Stats struct {
	Calls    int // procedure applications
	MaxDepth int // deepest nesting of procedure applications
}

// ExecResult holds the result of a program execution.
type ExecResult struct {
	Value Value
	Stats Stats
}

type evaluator struct {
	opts  ExecOptions
	depth int
	stats Stats
}

// ValueOf evaluates expr in env. It never modifies env: binding forms build
// new frames on top of it. The first failing sub-evaluation or coercion
// aborts evaluation and its error is returned as is.
func ValueOf(expr ast.Expr, env *Env) (Value, error) {
	ev := &evaluator{}
	return ev.valueOf(expr, env)
}

// ValueOfProgram evaluates a program against the empty environment.
func ValueOfProgram(program *ast.Program) (Value, error) {
	if program == nil {
		return nil, errMissingProgram()
	}
	return ValueOf(program.Exp, EmptyEnv())
}

// ApplyProcedure calls proc with arg bound to its parameter, in the
// environment captured when proc was created.
func ApplyProcedure(proc Closure, arg Value) (Value, error) {
	ev := &evaluator{}
	return ev.apply(proc, arg, nil)
}

// Execute runs a program against the empty environment, emitting trace
// events through opts.Trace when it is set.
func Execute(program *ast.Program, opts ExecOptions) (*ExecResult, error) {
	if program == nil {
		return &ExecResult{}, errMissingProgram()
	}
	ev := &evaluator{opts: opts}

	span := program.Span
	ev.emit(TraceRunStart, &span, nil)

	val, err := ev.valueOf(program.Exp, EmptyEnv())

	if err != nil {
		data := map[string]string{"message": err.Error()}
		var errSpan *ast.Span
		var rtErr *RuntimeError
		if errors.As(err, &rtErr) {
			data["code"] = rtErr.Code
			errSpan = rtErr.Span
		}
		ev.emit(TraceErrorRaised, errSpan, data)
	}
	ev.emit(TraceRunEnd, &span, map[string]string{"calls": strconv.Itoa(ev.stats.Calls)})

	if err != nil {
		return &ExecResult{Stats: ev.stats}, err
	}
	return &ExecResult{Value: val, Stats: ev.stats}, nil
}

func (ev *evaluator) emit(event TraceEventType, span *ast.Span, data map[string]string) {
	if ev.opts.Trace != nil {
		ev.opts.Trace(TraceEvent{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			RunID:     ev.opts.RunID,
			Event:     event,
			Span:      span,
			Data:      data,
		})
	}
}

func (ev *evaluator) valueOf(expr ast.Expr, env *Env) (Value, error) {
	if ast.IsNil(expr) {
		return nil, &RuntimeError{Code: diagnostics.EAst, Message: "missing expression"}
	}

	switch e := expr.(type) {
	case *ast.ConstExp:
		return NewNumber(e.Value), nil

	case *ast.VarExp:
		val, err := env.Lookup(e.Name)
		if err != nil {
			return nil, locate(err, e)
		}
		return val, nil

	case *ast.DiffExp:
		return ev.evalDiff(e, env)

	case *ast.ZeroTestExp:
		n, err := ev.numberOf(e.Exp, env)
		if err != nil {
			return nil, err
		}
		return NewBoolean(n == 0), nil

	case *ast.IfExp:
		return ev.evalIf(e, env)

	case *ast.LetExp:
		val, err := ev.valueOf(e.Value, env)
		if err != nil {
			return nil, err
		}
		return ev.valueOf(e.Body, env.Extend(e.Var, val))

	case *ast.ProcExp:
		return NewProcedure(e.Param, e.Body, env), nil

	case *ast.CallExp:
		return ev.evalCall(e, env)

	case *ast.LetrecExp:
		if ev.opts.Trace != nil {
			ev.emit(TraceLetrecBind, spanOf(e), map[string]string{
				"name":    string(e.Name),
				"param":   string(e.Param),
				"shadows": strconv.FormatBool(env.Has(e.Name)),
			})
		}
		return ev.valueOf(e.LetBody, env.ExtendRec(e.Name, e.Param, e.ProcBody))

	default:
		return nil, &RuntimeError{
			Code:    diagnostics.EAst,
			Message: fmt.Sprintf("unsupported expression type: %T", expr),
		}
	}
}

// numberOf evaluates expr and narrows the result to a number.
func (ev *evaluator) numberOf(expr ast.Expr, env *Env) (int, error) {
	val, err := ev.valueOf(expr, env)
	if err != nil {
		return 0, err
	}
	n, err := AsNumber(val)
	if err != nil {
		return 0, locate(err, expr)
	}
	return n, nil
}

func (ev *evaluator) evalDiff(e *ast.DiffExp, env *Env) (Value, error) {
	left, err := ev.numberOf(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := ev.numberOf(e.Right, env)
	if err != nil {
		return nil, err
	}
	return NewNumber(left - right), nil
}

func (ev *evaluator) evalIf(e *ast.IfExp, env *Env) (Value, error) {
	condVal, err := ev.valueOf(e.Cond, env)
	if err != nil {
		return nil, err
	}
	cond, err := AsBoolean(condVal)
	if err != nil {
		return nil, locate(err, e.Cond)
	}
	if cond {
		return ev.valueOf(e.Then, env)
	}
	return ev.valueOf(e.Else, env)
}

func (ev *evaluator) evalCall(e *ast.CallExp, env *Env) (Value, error) {
	ratorVal, err := ev.valueOf(e.Operator, env)
	if err != nil {
		return nil, err
	}
	proc, err := AsProcedure(ratorVal)
	if err != nil {
		return nil, locate(err, e.Operator)
	}
	arg, err := ev.valueOf(e.Operand, env)
	if err != nil {
		return nil, err
	}
	return ev.apply(proc, arg, e)
}

// apply evaluates the closure body in a frame binding its parameter over the
// captured environment. The caller's environment plays no part.
func (ev *evaluator) apply(proc Closure, arg Value, site *ast.CallExp) (Value, error) {
	ev.stats.Calls++
	ev.depth++
	if ev.depth > ev.stats.MaxDepth {
		ev.stats.MaxDepth = ev.depth
	}

	var siteSpan *ast.Span
	if site != nil {
		siteSpan = spanOf(site)
	}
	callEnv := proc.Env.Extend(proc.Param, arg)
	if ev.opts.Trace != nil {
		ev.emit(TraceCallStart, siteSpan, map[string]string{
			"param":  string(proc.Param),
			"arg":    arg.String(),
			"depth":  strconv.Itoa(ev.depth),
			"frames": strconv.Itoa(callEnv.Depth()),
			"scope":  joinNames(callEnv.Names()),
		})
	}

	val, err := ev.valueOf(proc.Body, callEnv)

	if ev.opts.Trace != nil {
		data := map[string]string{"depth": strconv.Itoa(ev.depth)}
		if err == nil {
			data["result"] = val.String()
		}
		ev.emit(TraceCallEnd, siteSpan, data)
	}
	ev.depth--
	return val, err
}

func joinNames(names []ast.Identifier) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, " ")
}

func errMissingProgram() error {
	return &RuntimeError{Code: diagnostics.EAst, Message: "program is missing"}
}

func spanOf(n ast.Node) *ast.Span {
	if n == nil {
		return nil
	}
	span := n.NodeSpan()
	return &span
}

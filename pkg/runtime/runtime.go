// Package runtime provides the top-level LETREC runtime orchestrator.
package runtime

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/thomasrohde/letrec/go/pkg/ast"
	"github.com/thomasrohde/letrec/go/pkg/config"
	"github.com/thomasrohde/letrec/go/pkg/diagnostics"
	"github.com/thomasrohde/letrec/go/pkg/evaluator"
	"github.com/thomasrohde/letrec/go/pkg/formatter"
	"github.com/thomasrohde/letrec/go/pkg/validator"
)

// Result holds the outcome of a program execution.
type Result struct {
	Value evaluator.Value
	Stats evaluator.Stats
}

// Runtime wires together validation, evaluation, logging and tracing.
type Runtime struct {
	logger *slog.Logger
	runID  string
	trace  func(event evaluator.TraceEvent)
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithLogger sets the logger. The default discards all records.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = l
	}
}

// WithRunID sets the run ID for trace events and log records.
func WithRunID(id string) Option {
	return func(rt *Runtime) {
		rt.runID = id
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event evaluator.TraceEvent)) Option {
	return func(rt *Runtime) {
		rt.trace = fn
	}
}

// WithConfig applies a loaded configuration. When cfg.Trace is set and no
// trace callback was given, trace events are logged at debug level.
// cfg.LogLevel is not applied here: the level belongs to the logger, so build
// it with NewLogger(w, cfg) and pass it through WithLogger.
func WithConfig(cfg *config.Config) Option {
	return func(rt *Runtime) {
		if cfg.RunID != "" {
			rt.runID = cfg.RunID
		}
		if cfg.Trace && rt.trace == nil {
			rt.trace = rt.logTrace
		}
	}
}

// NewLogger builds a text logger writing to w at the configured level.
func NewLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// New creates a new Runtime with the given options.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		runID:  "local",
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Run validates and evaluates a program against the empty environment.
// Malformed trees are rejected with a *DiagnosticError before evaluation;
// evaluation failures are returned as *evaluator.RuntimeError.
func (rt *Runtime) Run(program *ast.Program) (*Result, error) {
	log := rt.logger.With("run_id", rt.runID)

	if diags := validator.Validate(program); len(diags) > 0 {
		log.Warn("program rejected", "diagnostics", len(diags), "first", diags[0].Message)
		return nil, &DiagnosticError{Diagnostics: diags}
	}

	log.Debug("run start", "program", formatter.FormatInline(program.Exp))

	res, err := evaluator.Execute(program, evaluator.ExecOptions{
		Trace: rt.trace,
		RunID: rt.runID,
	})
	if err != nil {
		var rtErr *evaluator.RuntimeError
		if errors.As(err, &rtErr) {
			log.Info("run failed", "code", rtErr.Code, "error", rtErr.Message, "calls", res.Stats.Calls)
		} else {
			log.Error("run failed", "error", err)
		}
		return nil, err
	}

	log.Debug("run end",
		"type", evaluator.TypeName(res.Value),
		"value", res.Value.String(),
		"calls", res.Stats.Calls,
		"max_depth", res.Stats.MaxDepth,
	)
	return &Result{Value: res.Value, Stats: res.Stats}, nil
}

// Check validates a program without evaluating it. Besides structural
// problems it reports names that would be unbound if reached.
func (rt *Runtime) Check(program *ast.Program) []diagnostics.Diagnostic {
	diags := validator.Validate(program)
	if len(diags) > 0 {
		return diags
	}
	return validator.CheckScopes(program)
}

// Format pretty-prints a program.
func (rt *Runtime) Format(program *ast.Program) (string, error) {
	if diags := validator.Validate(program); len(diags) > 0 {
		return "", &DiagnosticError{Diagnostics: diags}
	}
	return formatter.FormatProgram(program), nil
}

func (rt *Runtime) logTrace(ev evaluator.TraceEvent) {
	attrs := []any{"run_id", ev.RunID, "event", string(ev.Event)}
	if ev.Span != nil {
		attrs = append(attrs, "span", fmt.Sprintf("%s:%d:%d", ev.Span.File, ev.Span.StartLine, ev.Span.StartCol))
	}
	for k, v := range ev.Data {
		attrs = append(attrs, k, v)
	}
	rt.logger.Debug("trace", attrs...)
}

// Diagnostics converts a Run error into diagnostics for display.
func Diagnostics(err error) []diagnostics.Diagnostic {
	var diagErr *DiagnosticError
	if errors.As(err, &diagErr) {
		return diagErr.Diagnostics
	}
	var rtErr *evaluator.RuntimeError
	if errors.As(err, &rtErr) {
		return []diagnostics.Diagnostic{rtErr.Diagnostic()}
	}
	if err == nil {
		return nil
	}
	return []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EInternal, err.Error(), nil, "")}
}

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}

// Package diagnostics defines the diagnostic types reported for malformed
// trees, static checks and evaluation failures.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thomasrohde/letrec/go/pkg/ast"
)

// Diagnostic code constants.
const (
	EAst           = "E_AST"
	EUnbound       = "E_UNBOUND"
	ENotANumber    = "E_NOT_A_NUMBER"
	ENotABoolean   = "E_NOT_A_BOOLEAN"
	ENotAProcedure = "E_NOT_A_PROCEDURE"
	EInternal      = "E_INTERNAL"
)

// Diagnostic represents a validation or runtime diagnostic.
type Diagnostic struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Span    *ast.Span `json:"span,omitempty"`
	Hint    string    `json:"hint,omitempty"`
}

var hints = map[string]string{
	EAst:           "the tree was built with a missing sub-expression or an empty identifier",
	EUnbound:       "bind the name with let, letrec, or a procedure parameter before use",
	ENotANumber:    "-( , ) and zero?( ) only accept numbers",
	ENotABoolean:   "the condition of if must produce a boolean, e.g. zero?(...)",
	ENotAProcedure: "only proc values and letrec-bound names can be called",
}

// HintFor returns the standard hint for a diagnostic code, or "" if none.
func HintFor(code string) string {
	return hints[code]
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code, message string, span *ast.Span, hint string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Span:    span,
		Hint:    hint,
	}
}

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	loc := "<unknown>"
	if d.Span != nil && d.Span.File != "" {
		loc = fmt.Sprintf("%s:%d:%d", d.Span.File, d.Span.StartLine, d.Span.StartCol)
	}
	out := fmt.Sprintf("error[%s]: %s\n  --> %s", d.Code, d.Message, loc)
	if d.Hint != "" {
		out += fmt.Sprintf("\n  hint: %s", d.Hint)
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, true)
	}
	return strings.Join(parts, "\n\n")
}

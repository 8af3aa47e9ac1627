// Package ast defines the LETREC expression tree.
//
// Trees are built by an external collaborator (a parser, a test fixture
// decoder) and are never mutated afterwards. Every compound node owns its
// sub-expressions; closures produced during evaluation share the body
// subtrees instead of copying them.
package ast

// Span represents a source location range.
type Span struct {
	File      string `json:"file"`
	StartLine int    `json:"startLine"`
	StartCol  int    `json:"startCol"`
	EndLine   int    `json:"endLine"`
	EndCol    int    `json:"endCol"`
}

// Identifier names a variable, a procedure parameter, or a recursively bound
// procedure. Identifiers compare by exact value.
type Identifier string

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() string
	NodeSpan() Span
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	exprNode() // sealed marker
}

// Program is a complete LETREC program: one expression evaluated against the
// empty environment.
type Program struct {
	Span Span
	Exp  Expr
}

func (n *Program) Kind() string   { return "Program" }
func (n *Program) NodeSpan() Span { return n.Span }

// --- Leaves ---

// ConstExp is a constant number.
type ConstExp struct {
	Span  Span
	Value int
}

func (n *ConstExp) Kind() string   { return "ConstExp" }
func (n *ConstExp) NodeSpan() Span { return n.Span }
func (n *ConstExp) exprNode()      {}

// VarExp is a variable reference.
type VarExp struct {
	Span Span
	Name Identifier
}

func (n *VarExp) Kind() string   { return "VarExp" }
func (n *VarExp) NodeSpan() Span { return n.Span }
func (n *VarExp) exprNode()      {}

// --- Arithmetic and tests ---

// DiffExp is -(Left, Right).
type DiffExp struct {
	Span  Span
	Left  Expr
	Right Expr
}

func (n *DiffExp) Kind() string   { return "DiffExp" }
func (n *DiffExp) NodeSpan() Span { return n.Span }
func (n *DiffExp) exprNode()      {}

// ZeroTestExp is zero?(Exp).
type ZeroTestExp struct {
	Span Span
	Exp  Expr
}

func (n *ZeroTestExp) Kind() string   { return "ZeroTestExp" }
func (n *ZeroTestExp) NodeSpan() Span { return n.Span }
func (n *ZeroTestExp) exprNode()      {}

// IfExp is if Cond then Then else Else.
type IfExp struct {
	Span Span
	Cond Expr
	Then Expr
	Else Expr
}

func (n *IfExp) Kind() string   { return "IfExp" }
func (n *IfExp) NodeSpan() Span { return n.Span }
func (n *IfExp) exprNode()      {}

// --- Binding forms ---

// LetExp binds Var to the value of Value while evaluating Body.
type LetExp struct {
	Span  Span
	Var   Identifier
	Value Expr
	Body  Expr
}

func (n *LetExp) Kind() string   { return "LetExp" }
func (n *LetExp) NodeSpan() Span { return n.Span }
func (n *LetExp) exprNode()      {}

// ProcExp is a single-parameter procedure literal.
type ProcExp struct {
	Span  Span
	Param Identifier
	Body  Expr
}

func (n *ProcExp) Kind() string   { return "ProcExp" }
func (n *ProcExp) NodeSpan() Span { return n.Span }
func (n *ProcExp) exprNode()      {}

// CallExp applies Operator to a single Operand.
type CallExp struct {
	Span     Span
	Operator Expr
	Operand  Expr
}

func (n *CallExp) Kind() string   { return "CallExp" }
func (n *CallExp) NodeSpan() Span { return n.Span }
func (n *CallExp) exprNode()      {}

// LetrecExp binds Name to a procedure of Param whose body, ProcBody, may
// refer to Name. LetBody is evaluated in the scope of that binding.
type LetrecExp struct {
	Span     Span
	Name     Identifier
	Param    Identifier
	ProcBody Expr
	LetBody  Expr
}

func (n *LetrecExp) Kind() string   { return "LetrecExp" }
func (n *LetrecExp) NodeSpan() Span { return n.Span }
func (n *LetrecExp) exprNode()      {}

// --- Constructors ---
//
// The constructors leave Span zeroed. They exist for collaborators that build
// trees by hand, such as tests and fixture decoders.

// Const builds a constant.
func Const(n int) *ConstExp {
	return &ConstExp{Value: n}
}

// Var builds a variable reference.
func Var(name Identifier) *VarExp {
	return &VarExp{Name: name}
}

// Diff builds -(left, right).
func Diff(left, right Expr) *DiffExp {
	return &DiffExp{Left: left, Right: right}
}

// ZeroTest builds zero?(exp).
func ZeroTest(exp Expr) *ZeroTestExp {
	return &ZeroTestExp{Exp: exp}
}

// If builds if cond then then else els.
func If(cond, then, els Expr) *IfExp {
	return &IfExp{Cond: cond, Then: then, Else: els}
}

// Proc builds a procedure literal.
func Proc(param Identifier, body Expr) *ProcExp {
	return &ProcExp{Param: param, Body: body}
}

// Call builds a procedure call.
func Call(operator, operand Expr) *CallExp {
	return &CallExp{Operator: operator, Operand: operand}
}

// Let builds let name = value in body.
func Let(name Identifier, value, body Expr) *LetExp {
	return &LetExp{Var: name, Value: value, Body: body}
}

// Letrec builds letrec name(param) = procBody in letBody.
func Letrec(name, param Identifier, procBody, letBody Expr) *LetrecExp {
	return &LetrecExp{Name: name, Param: param, ProcBody: procBody, LetBody: letBody}
}

// IsNil reports whether expr is absent. A typed nil pointer stored in an
// Expr counts as absent.
func IsNil(expr Expr) bool {
	switch e := expr.(type) {
	case nil:
		return true
	case *ConstExp:
		return e == nil
	case *VarExp:
		return e == nil
	case *DiffExp:
		return e == nil
	case *ZeroTestExp:
		return e == nil
	case *IfExp:
		return e == nil
	case *LetExp:
		return e == nil
	case *ProcExp:
		return e == nil
	case *CallExp:
		return e == nil
	case *LetrecExp:
		return e == nil
	}
	return false
}

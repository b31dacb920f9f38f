package lang

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strconv"
	"strings"
)

// Scope is an ordered block of expressions: a whole program or the body of a
// function. Expressions are evaluated in order.
type Scope []*Expr

// Expr is a single statement in a [Scope]. Exactly one of Func or Chain is
// set, selected by Type.
type Expr struct {
	Type  ExprType
	Func  *Func
	Chain Chain
	Pos   Position
}

// ExprType discriminates the variants of [Expr].
type ExprType int

const (
	// ExprChain is a sequence of calls joined by operators.
	ExprChain ExprType = iota

	// ExprFunc declares a function. It produces no output.
	ExprFunc
)

// String returns a string representation of the expression type.
func (t ExprType) String() string {
	switch t {
	case ExprChain:
		return "Chain"
	case ExprFunc:
		return "FuncDef"
	default:
		return "Unknown"
	}
}

// Func is a named block. Once declared, calling its identifier evaluates Body
// instead of dispatching to the executor.
type Func struct {
	Identifier string
	Body       Scope
	Pos        Position
}

// Chain is an ordered sequence of calls and operators, normally alternating
// as [Call, Op, Call, Op, Call].
type Chain []ChainElem

// ChainElem is either a call or an operator, selected by Type.
type ChainElem struct {
	Type ElemType
	Call Call
	Op   Operator
	Pos  Position
}

// ElemType discriminates the variants of [ChainElem].
type ElemType int

const (
	// ElemCall is a command invocation.
	ElemCall ElemType = iota

	// ElemOp is an operator relating the previous call to the next.
	ElemOp
)

// String returns a string representation of the element type.
func (t ElemType) String() string {
	switch t {
	case ElemCall:
		return "Call"
	case ElemOp:
		return "Op"
	default:
		return "Unknown"
	}
}

// Call is a command name followed by its literal arguments.
// Calls produced by the parser always have at least one token.
type Call []string

// Name returns the command name, or the empty string for an empty call.
func (c Call) Name() string {
	if len(c) == 0 {
		return ""
	}

	return c[0]
}

// Args returns the arguments following the command name.
func (c Call) Args() []string {
	if len(c) < 2 {
		return nil
	}

	return c[1:]
}

// Operator governs how the result of the previous call relates to the next.
type Operator int

const (
	// OpAnd flushes the previous result to the output.
	OpAnd Operator = iota

	// OpPipe appends the previous result to the next call's arguments.
	OpPipe

	// OpRedir discards the previous result.
	OpRedir
)

// String returns the operator's source token.
func (o Operator) String() string {
	switch o {
	case OpAnd:
		return "&&"
	case OpPipe:
		return "|"
	case OpRedir:
		return ">"
	default:
		return "Operator(" + strconv.Itoa(int(o)) + ")"
	}
}

// Name returns the operator's descriptive name.
func (o Operator) Name() string {
	switch o {
	case OpAnd:
		return "And"
	case OpPipe:
		return "Pipe"
	case OpRedir:
		return "Redir"
	default:
		return "Unknown"
	}
}

// ParseOperator returns the operator spelled by s, which may be either its
// source token or its name.
func ParseOperator(s string) (Operator, bool) {
	switch strings.ToLower(s) {
	case "&&", "and":
		return OpAnd, true
	case "|", "pipe":
		return OpPipe, true
	case ">", "redir":
		return OpRedir, true
	default:
		return 0, false
	}
}

// Position identifies a location in source text.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// IsValid reports whether the position was set by the parser.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Functions returns an iterator over the functions declared directly in the
// scope, in declaration order. Nested declarations are not included.
func (s Scope) Functions() iter.Seq[*Func] {
	return func(yield func(*Func) bool) {
		for _, expr := range s {
			if expr == nil || expr.Type != ExprFunc || expr.Func == nil {
				continue
			}

			if !yield(expr.Func) {
				return
			}
		}
	}
}

// Calls returns an iterator over every call in the scope, descending into
// function bodies.
func (s Scope) Calls() iter.Seq[Call] {
	return func(yield func(Call) bool) {
		s.walkCalls(yield)
	}
}

func (s Scope) walkCalls(yield func(Call) bool) bool {
	for _, expr := range s {
		if expr == nil {
			continue
		}

		switch expr.Type {
		case ExprFunc:
			if expr.Func != nil && !expr.Func.Body.walkCalls(yield) {
				return false
			}

		case ExprChain:
			for _, elem := range expr.Chain {
				if elem.Type == ElemCall && !yield(elem.Call) {
					return false
				}
			}
		}
	}

	return true
}

// LogValue implements slog.LogValuer.
func (s Scope) LogValue() slog.Value {
	funcs, chains := 0, 0

	for _, expr := range s {
		if expr == nil {
			continue
		}

		if expr.Type == ExprFunc {
			funcs++
		} else {
			chains++
		}
	}

	return slog.GroupValue(
		slog.Int("exprs", len(s)),
		slog.Int("funcs", funcs),
		slog.Int("chains", chains),
	)
}

// Print writes an indented tree dump of the scope.
func (s Scope) Print(ctx context.Context, w io.Writer) {
	s.PrintIndent(ctx, w, 0)
}

// PrintIndent writes an indented tree dump of the scope starting at the
// given depth.
func (s Scope) PrintIndent(ctx context.Context, w io.Writer, indent int) {
	emit := writer(w)
	emit(strings.Repeat("  ", indent), "Scope")

	for _, expr := range s {
		expr.Print(ctx, w, indent+1)
	}
}

func writer(w io.Writer) func(item ...string) {
	return func(item ...string) {
		for _, s := range item {
			_, _ = io.WriteString(w, s)
		}

		_, _ = io.WriteString(w, "\n")
	}
}

// Print writes an indented tree dump of the expression.
func (e *Expr) Print(ctx context.Context, w io.Writer, indent int) {
	emit := writer(w)
	pad := strings.Repeat("  ", indent)

	if e == nil {
		emit(pad, "<nil>")

		return
	}

	switch e.Type {
	case ExprFunc:
		if e.Func == nil {
			emit(pad, "FuncDef <nil>")

			return
		}

		emit(pad, "FuncDef ", e.Func.Identifier, " @", e.Pos.String())
		e.Func.Body.PrintIndent(ctx, w, indent+1)

	case ExprChain:
		emit(pad, "Chain @", e.Pos.String())

		for _, elem := range e.Chain {
			switch elem.Type {
			case ElemCall:
				emit(pad, "  Call ", fmt.Sprintf("%q", []string(elem.Call)))
			case ElemOp:
				emit(pad, "  Op ", elem.Op.Name())
			}
		}

	default:
		emit(pad, e.Type.String())
	}
}

package lang

// Builder provides a programmatic API for constructing trees without
// parsing source text. This is useful for generating scripts or for testing.
// Built trees carry no positions.
//
// Example:
//
//	b := lang.NewBuilder()
//	scope := b.Scope(
//	    b.Func("greet", b.Chain(b.Call("echo", "hi"))),
//	    b.Chain(b.Call("greet"), b.And(), b.Call("echo", "bye")),
//	)
type Builder struct{}

// NewBuilder creates a new tree builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Scope creates a [Scope] from expressions.
func (b *Builder) Scope(exprs ...*Expr) Scope {
	return Scope(exprs)
}

// Func creates a function declaration whose body holds the given expressions.
func (b *Builder) Func(identifier string, body ...*Expr) *Expr {
	return &Expr{
		Type: ExprFunc,
		Func: &Func{Identifier: identifier, Body: Scope(body)},
	}
}

// Chain creates a chain expression from calls and operators.
func (b *Builder) Chain(elems ...ChainElem) *Expr {
	return &Expr{Type: ExprChain, Chain: Chain(elems)}
}

// Pipeline creates a chain in which consecutive calls are joined by op.
func (b *Builder) Pipeline(op Operator, calls ...Call) *Expr {
	elems := make([]ChainElem, 0, 2*len(calls))

	for i, call := range calls {
		if i > 0 {
			elems = append(elems, b.Op(op))
		}

		elems = append(elems, ChainElem{Type: ElemCall, Call: call})
	}

	return b.Chain(elems...)
}

// Call creates a call element from a command name and its arguments.
func (b *Builder) Call(words ...string) ChainElem {
	return ChainElem{Type: ElemCall, Call: Call(words)}
}

// Op creates an operator element.
func (b *Builder) Op(op Operator) ChainElem {
	return ChainElem{Type: ElemOp, Op: op}
}

// And creates an [OpAnd] element.
func (b *Builder) And() ChainElem { return b.Op(OpAnd) }

// Pipe creates an [OpPipe] element.
func (b *Builder) Pipe() ChainElem { return b.Op(OpPipe) }

// Redir creates an [OpRedir] element.
func (b *Builder) Redir() ChainElem { return b.Op(OpRedir) }

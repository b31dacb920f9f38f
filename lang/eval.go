package lang

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// Executor performs the effect of a command that does not name a declared
// function. It must accept any name and arguments the language can produce.
//
// The piped flag reports whether the trailing arguments are the output of
// the previous call in the chain. An executor signals failure by returning
// empty output; the evaluator has no error channel.
type Executor interface {
	Invoke(name string, args []string, piped bool) []string
}

// ExecutorFunc adapts an ordinary function to the [Executor] interface.
type ExecutorFunc func(name string, args []string, piped bool) []string

// Invoke calls f(name, args, piped).
func (f ExecutorFunc) Invoke(name string, args []string, piped bool) []string {
	return f(name, args, piped)
}

// funcTable maps function identifiers to their declarations.
type funcTable map[string]*Func

// evaluator walks a tree with a fixed executor. The context is used only
// for logging.
type evaluator struct {
	ctx  context.Context
	exec Executor
	opts options
}

// Evaluate runs scope with a fresh function table and returns the
// accumulated output of every chain in order.
//
// Evaluation never fails. Calls that do not name a declared function are
// dispatched to exec; a nil exec yields empty output for such calls.
func Evaluate(ctx context.Context, scope Scope, exec Executor, opts ...Option) []string {
	e := &evaluator{ctx: ctx, exec: exec, opts: makeOptions(opts...)}

	e.opts.logger.TraceContext(ctx, "evaluate", slog.Any("scope", scope))

	return e.evalScope(scope, funcTable{}, 0)
}

// Eval parses source and evaluates the resulting tree with exec.
// Only parsing can fail.
func Eval(ctx context.Context, source string, exec Executor, opts ...Option) ([]string, error) {
	o := makeOptions(opts...)

	scope, err := parseSource(ctx, source, o)
	if err != nil {
		return nil, err
	}

	e := &evaluator{ctx: ctx, exec: exec, opts: o}

	return e.evalScope(scope, funcTable{}, 0), nil
}

// evalScope evaluates each expression in order. Declarations are added to
// funcs, which the caller owns.
func (e *evaluator) evalScope(scope Scope, funcs funcTable, depth int) []string {
	var output []string

	for _, expr := range scope {
		if expr == nil {
			continue
		}

		switch expr.Type {
		case ExprFunc:
			if expr.Func == nil {
				continue
			}

			funcs[expr.Func.Identifier] = expr.Func

			e.opts.logger.TraceContext(e.ctx, "declare function",
				slog.String("name", expr.Func.Identifier),
				slog.Int("depth", depth))

		case ExprChain:
			output = append(output, e.evalChain(expr.Chain, funcs, depth)...)
		}
	}

	return output
}

// evalChain applies each call's pending operator to the previous result
// before resolving the call:
//
//   - [OpRedir] discards the previous result.
//   - [OpPipe] appends the previous result to the call's arguments.
//   - [OpAnd] flushes the previous result to the output.
//
// The operator before the first call is [OpAnd], and it is reset to [OpAnd]
// after each call. Whatever result remains at the end is flushed.
func (e *evaluator) evalChain(chain Chain, funcs funcTable, depth int) []string {
	var (
		output  []string
		last    []string
		hasLast bool
		pending = OpAnd
	)

	for _, elem := range chain {
		if elem.Type == ElemOp {
			pending = elem.Op

			continue
		}

		if elem.Type != ElemCall {
			continue
		}

		op := pending
		pending = OpAnd

		args := slices.Clone(elem.Call.Args())
		piped := false

		switch op {
		case OpRedir:
			if hasLast {
				e.opts.logger.TraceContext(e.ctx, "discard result",
					slog.Int("lines", len(last)))
			}

			last, hasLast = nil, false

		case OpPipe:
			if hasLast {
				args = append(args, last...)
				piped = true
				last, hasLast = nil, false
			}

		default:
			if hasLast {
				output = append(output, last...)
				last, hasLast = nil, false
			}
		}

		if len(elem.Call) == 0 {
			// Only a hand-built tree can contain an empty call. It resolves to
			// an empty result.
			e.opts.logger.DebugContext(e.ctx, "empty call", slog.Int("depth", depth))

			last, hasLast = nil, true

			continue
		}

		last, hasLast = e.call(elem.Call.Name(), args, piped, funcs, depth), true
	}

	if hasLast {
		output = append(output, last...)
	}

	return output
}

// call resolves name against funcs before falling back to the executor.
// A function body runs with a copy of funcs so that its declarations never
// reach the caller.
func (e *evaluator) call(
	name string,
	args []string,
	piped bool,
	funcs funcTable,
	depth int,
) []string {
	if f, ok := funcs[name]; ok {
		if depth >= e.opts.maxCallDepth {
			e.opts.logger.WarnContext(e.ctx, "call depth exceeded",
				slog.String("name", name),
				slog.Int("max_call_depth", e.opts.maxCallDepth))

			return nil
		}

		if len(args) > 0 {
			e.opts.logger.TraceContext(e.ctx, "function arguments ignored",
				slog.String("name", name),
				slog.Int("args", len(args)),
				slog.Bool("piped", piped))
		}

		e.opts.logger.TraceContext(e.ctx, "call function",
			slog.String("name", name),
			slog.Int("depth", depth+1))

		return e.evalScope(f.Body, maps.Clone(funcs), depth+1)
	}

	e.opts.logger.TraceContext(e.ctx, "invoke",
		slog.String("name", name),
		slog.Any("args", args),
		slog.Bool("piped", piped))

	if e.exec == nil {
		return nil
	}

	return e.exec.Invoke(name, args, piped)
}

// Session is a top-level execution context whose function table persists
// between runs, so that functions declared by one run are callable by later
// runs. It is safe for concurrent use; runs are serialized.
type Session struct {
	mu    sync.Mutex
	funcs funcTable
	exec  Executor
	opts  options
}

// NewSession returns a Session that dispatches external commands to exec.
func NewSession(exec Executor, opts ...Option) *Session {
	return &Session{
		funcs: funcTable{},
		exec:  exec,
		opts:  makeOptions(opts...),
	}
}

// Run evaluates scope in the session's context and returns its output.
func (s *Session) Run(ctx context.Context, scope Scope) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &evaluator{ctx: ctx, exec: s.exec, opts: s.opts}

	return e.evalScope(scope, s.funcs, 0)
}

// RunString parses source and evaluates it in the session's context.
// The function table is unchanged if parsing fails.
func (s *Session) RunString(ctx context.Context, source string) ([]string, error) {
	scope, err := parseSource(ctx, source, s.opts)
	if err != nil {
		return nil, err
	}

	return s.Run(ctx, scope), nil
}

// Functions returns the names of the declared functions in sorted order.
func (s *Session) Functions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Sorted(maps.Keys(s.funcs))
}

// Lookup returns the declaration of the named function.
func (s *Session) Lookup(name string) (*Func, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.funcs[name]

	return f, ok
}

// Reset removes all declared functions.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.funcs)
}

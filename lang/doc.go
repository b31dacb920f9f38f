// Package lang parses and evaluates a restricted shell-like command language.
//
// The package owns only syntax and control flow. The effect of every command
// that does not name a declared function is delegated to a host-supplied
// [Executor], which may run a real process, call a builtin, or simulate
// output.
//
// # Grammar
//
// Informal EBNF:
//
//	Program  → Scope EOF
//	Scope    → (Expr (Sep Expr)*)? Sep?
//	Sep      → newline | ';'
//	Expr     → FuncDef | Chain
//	FuncDef  → Ident '(' ')' '{' Scope '}'
//	Chain    → Call (Op newline* Call)*
//	Op       → '>' | '|' | '&&'
//	Call     → Word+
//	Word     → <run of characters other than blanks and ;&|><(){},
//	            with '…', "…" and \ quoting>
//
// A '#' at the start of a word begins a comment that runs to the end of the
// line. A backslash followed by a newline joins two lines.
//
// # Evaluation
//
// A [Scope] is evaluated in order. Function declarations are added to the
// current function table; chains contribute their output. Within a chain,
// each call's result is held until the next operator decides its fate:
//
//	a && b   both results are output, a's first
//	a | b    a's result lines are appended to b's arguments
//	a > b    a's result is discarded
//
// A call naming a declared function evaluates the function body with a copy
// of the caller's function table, so declarations inside the body are not
// visible to the caller. Functions shadow external commands of the same name.
//
// # Example
//
//	greet() { echo hi }
//	greet && echo bye
//
// With an executor that returns its arguments, the output is ["hi", "bye"].
package lang

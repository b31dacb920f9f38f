package sim

import "github.com/ardnew/basher/pkg"

// ErrFilesystem is returned when the shell cannot prepare its filesystem.
var ErrFilesystem = pkg.MakeErrorf("filesystem error")

// ErrMissingOperand is reported by a builtin that requires an operand.
var ErrMissingOperand = pkg.MakeErrorf("missing operand")

// ErrInvalidNumber is reported by a builtin given a malformed number.
var ErrInvalidNumber = pkg.MakeErrorf("invalid number")

// ErrExpr is reported when an expression fails to compile or evaluate.
var ErrExpr = pkg.MakeErrorf("invalid expression")

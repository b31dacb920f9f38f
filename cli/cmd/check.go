package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/basher/lang"
	"github.com/ardnew/basher/log"
)

// Check parses scripts without evaluating them and reports syntax errors.
type Check struct {
	MaxDepth int  `default:"${maxDepth}" help:"Maximum nesting depth of function definitions"`
	List     bool `help:"List the functions each script declares"            short:"l"`

	Command string   `help:"Check the given source text instead of files" placeholder:"SOURCE" short:"c"`
	Files   []string `arg:""                                               help:"Script files or '-' for stdin (default)" name:"file" optional:""`
}

// Run executes the check command. Every source is checked, and each syntax
// error is written to standard error.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := openSources(ctx, c.Command, c.Files)
	if err != nil {
		return err
	}
	defer srcs.Close()

	streams := streamsFrom(ctx)
	failed := 0

	for _, src := range srcs {
		scope, err := lang.ParseReader(ctx, src.r,
			lang.WithLogger(log.Default()),
			lang.WithMaxDepth(c.MaxDepth),
		)
		if err != nil {
			failed++

			fmt.Fprintf(streams.Err, "%s: %s\n", src.name, headline(err))

			continue
		}

		log.DebugContext(ctx, "check passed", slog.String("source", src.name))

		if c.List {
			for fn := range scope.Functions() {
				fmt.Fprintf(streams.Out, "%s:%s: %s\n", src.name, fn.Pos, fn.Identifier)
			}
		}
	}

	if failed > 0 {
		return ErrCheck.With(
			slog.Int("failed", failed),
			slog.Int("sources", len(srcs)),
		)
	}

	return nil
}

// headline returns the single-line form of err, without any source snippet.
func headline(err error) string {
	var se *lang.SyntaxError
	if errors.As(err, &se) {
		return se.Headline()
	}

	return err.Error()
}

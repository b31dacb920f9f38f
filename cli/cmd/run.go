package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ardnew/basher/lang"
	"github.com/ardnew/basher/log"
	"github.com/ardnew/basher/pkg"
	"github.com/ardnew/basher/sim"
)

// Shell holds the flags that configure the interpreter and its simulated
// host. It is embedded by commands that evaluate scripts.
type Shell struct {
	Root         string        `help:"Layer the simulated filesystem over this host directory" type:"existingdir"`
	Dir          string        `default:"/"                                                      help:"Working directory of the simulated shell"`
	Timeout      time.Duration `default:"0s"                                                     help:"Stop running commands after this duration (0 disables)"`
	MaxDepth     int           `default:"${maxDepth}"                                            help:"Maximum nesting depth of function definitions"`
	MaxCallDepth int           `default:"${maxCallDepth}"                                        help:"Maximum depth of nested function calls"`
}

// options returns the language options selected by the flags.
func (s *Shell) options() []lang.Option {
	return []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithMaxDepth(s.MaxDepth),
		lang.WithMaxCallDepth(s.MaxCallDepth),
	}
}

// start returns a simulated shell bound to ctx, which is cancelled after the
// configured timeout. The returned cancel function must be called.
func (s *Shell) start(ctx context.Context) (*sim.Shell, context.CancelFunc, error) {
	cancel := context.CancelFunc(func() {})
	if s.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
	}

	sh, err := sim.New(
		sim.WithContext(ctx),
		sim.WithRoot(s.Root),
		sim.WithDir(s.Dir),
		sim.WithStderr(streamsFrom(ctx).Err),
		sim.WithLogger(log.Default()),
	)
	if err != nil {
		cancel()

		return nil, nil, err
	}

	return sh, cancel, nil
}

// Run parses and evaluates scripts, printing every output line.
type Run struct {
	Shell `embed:""`

	Command string   `help:"Evaluate the given source text instead of files" placeholder:"SOURCE" short:"c"`
	Files   []string `arg:""                                                  help:"Script files or '-' for stdin (default)" name:"file" optional:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := openSources(ctx, r.Command, r.Files)
	if err != nil {
		return err
	}
	defer srcs.Close()

	sh, stop, err := r.start(ctx)
	if err != nil {
		return err
	}
	defer stop()

	session := lang.NewSession(sh, r.options()...)
	out := streamsFrom(ctx).Out

	for _, src := range srcs {
		scope, err := lang.ParseReader(ctx, src.r, r.options()...)
		if err != nil {
			return pkg.ErrParse.Wrapf("%s", src.name).Wrap(err)
		}

		log.DebugContext(ctx, "run",
			slog.String("source", src.name),
			slog.Int("expressions", len(scope)))

		for _, line := range session.Run(ctx, scope) {
			fmt.Fprintln(out, line)
		}
	}

	return nil
}

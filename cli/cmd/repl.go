package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/basher/cli/cmd/repl"
	"github.com/ardnew/basher/lang"
	"github.com/ardnew/basher/log"
	"github.com/ardnew/basher/pkg"
)

// Repl starts an interactive session. Functions declared by the given
// scripts, and by every line entered, stay defined for the whole session.
type Repl struct {
	Shell `embed:""`

	NoHistory bool     `help:"Keep input history in memory only"`
	Files     []string `arg:""                                    help:"Script files to run before the first prompt" name:"file" optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sh, stop, err := r.start(ctx)
	if err != nil {
		return err
	}
	defer stop()

	session := lang.NewSession(sh, r.options()...)

	if len(r.Files) > 0 {
		if err := r.preload(ctx, session); err != nil {
			return err
		}
	}

	var cacheDir string
	if !r.NoHistory {
		cacheDir = kongContextFrom(ctx).Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, session, sh, cacheDir, log.Default())
}

// preload runs each script in session, printing its output.
func (r *Repl) preload(ctx context.Context, session *lang.Session) error {
	srcs, err := openSources(ctx, "", r.Files)
	if err != nil {
		return err
	}
	defer srcs.Close()

	out := streamsFrom(ctx).Out

	for _, src := range srcs {
		scope, err := lang.ParseReader(ctx, src.r, r.options()...)
		if err != nil {
			return pkg.ErrParse.Wrapf("%s", src.name).Wrap(err)
		}

		log.DebugContext(ctx, "preload",
			slog.String("source", src.name),
			slog.Int("expressions", len(scope)))

		for _, line := range session.Run(ctx, scope) {
			fmt.Fprintln(out, line)
		}
	}

	return nil
}

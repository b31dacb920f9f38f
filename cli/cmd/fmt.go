package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/basher/lang"
	"github.com/ardnew/basher/pkg"
)

// Fmt parses a script and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical source (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as abstract syntax tree."`
}

// parseSource parses the script named by path, where "-" is stdin.
func parseSource(ctx context.Context, path, format string) (lang.Scope, error) {
	srcs, err := openSources(ctx, "", []string{path})
	if err != nil {
		return nil, err
	}
	defer srcs.Close()

	scope, err := lang.ParseReader(ctx, srcs[0].r)
	if err != nil {
		return nil, lang.WrapError(err).
			With(slog.String("format", format), slog.String("source", path))
	}

	return scope, nil
}

// Native formats input as canonical source.
type Native struct {
	Indent int `default:"2" help:"Indent width of function bodies (0 writes one line)" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the fmt command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	scope, err := parseSource(ctx, f.Source, "native")
	if err != nil {
		return err
	}

	return scope.Format(ctx, streamsFrom(ctx).Out, f.Indent)
}

// JSON parses input and outputs it as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	scope, err := parseSource(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	if err := scope.FormatJSON(ctx, streamsFrom(ctx).Out, j.Indent); err != nil {
		return pkg.ErrJSONMarshal.Wrap(err)
	}

	return nil
}

// YAML parses input and outputs it as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output (0 writes flow style)" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	scope, err := parseSource(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	if err := scope.FormatYAML(ctx, streamsFrom(ctx).Out, y.Indent); err != nil {
		return pkg.ErrYAMLMarshal.Wrap(err)
	}

	return nil
}

// AST formats input as an abstract syntax tree representation.
type AST struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	scope, err := parseSource(ctx, a.Source, "ast")
	if err != nil {
		return err
	}

	scope.Print(ctx, streamsFrom(ctx).Out)

	return nil
}

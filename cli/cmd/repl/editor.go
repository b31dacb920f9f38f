package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/basher/lang"
	"github.com/ardnew/basher/log"
)

const defaultEditor = "vi"

// editFuncsCommand implements [tea.ExecCommand] for the edit-parse-retry loop
// over the session's functions. It formats every declared function to a temp
// file, opens the user's editor, and re-parses the result. On parse error the
// user is prompted to re-edit; declining exits the program.
//
// A successful edit replaces the session's functions with the edited source,
// which is run in the emptied session. Any calls it contains are evaluated
// and their output kept in output.
type editFuncsCommand struct {
	session *lang.Session
	ctxFunc func() context.Context
	logger  log.Logger
	applied bool
	output  []string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editFuncsCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editFuncsCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editFuncsCommand) SetStderr(w io.Writer) { c.stderr = w }

// sessionScope returns the session's functions as a scope of declarations in
// name order.
func sessionScope(session *lang.Session) lang.Scope {
	var scope lang.Scope

	for _, name := range session.Functions() {
		if fn, ok := session.Lookup(name); ok {
			scope = append(scope, &lang.Expr{Type: lang.ExprFunc, Func: fn, Pos: fn.Pos})
		}
	}

	return scope
}

// Run executes the edit-parse-retry loop. If the user declines to re-edit, it
// returns [ErrEditDeclined].
func (c *editFuncsCommand) Run() error {
	if c.session == nil {
		return ErrNoSession
	}

	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := sessionScope(c.session).Format(ctx, &buf, 2); err != nil {
		return fmt.Errorf("format functions: %w", err)
	}

	content := buf.String()

	// Create a single temp file for the entire loop.
	f, err := os.CreateTemp(os.TempDir(), "basher-repl-*.sh")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		// An emptied file cancels the edit.
		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		scope, parseErr := lang.ParseString(ctx, string(data), lang.WithLogger(c.logger))
		c.logger.TraceContext(
			ctx,
			"editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			c.session.Reset()
			c.output = c.session.Run(ctx, scope)
			c.applied = true

			return nil
		}

		fmt.Fprintf(c.stderr, "\nParse error: %s\n", parseErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = string(data)
	}
}

// runEditor launches the user's editor on the given file path and returns
// the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}

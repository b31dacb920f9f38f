package sim

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/ardnew/basher/lang"
	"github.com/ardnew/basher/log"
)

// Shell runs simulated commands on a virtual filesystem.
// It is safe for concurrent use; invocations are serialized.
type Shell struct {
	mu     sync.Mutex
	ctx    context.Context
	fs     afero.Fs
	dir    string
	path   []string
	cmds   map[string]Command
	stderr io.Writer
	logger log.Logger
}

var _ lang.Executor = (*Shell)(nil)

// New returns a Shell configured by opts. Without options the shell runs on
// an empty in-memory filesystem rooted at "/", with [DefaultPath] as its
// PATH and standard error discarded.
func New(opts ...Option) (*Shell, error) {
	o := makeOptions(opts...)

	s := &Shell{
		ctx:    o.ctx,
		fs:     o.fs,
		dir:    o.dir,
		path:   o.searchPath(),
		cmds:   maps.Clone(builtins),
		stderr: o.stderr,
		logger: o.logger,
	}

	maps.Copy(s.cmds, o.cmds)

	for _, dir := range append(slices.Clone(s.path), s.dir) {
		if ok, _ := afero.DirExists(s.fs, dir); ok {
			continue
		}

		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, ErrFilesystem.Wrap(err).Wrapf("mkdir %s", dir)
		}
	}

	return s, nil
}

// Fs returns the shell's filesystem.
func (s *Shell) Fs() afero.Fs { return s.fs }

// Dir returns the shell's working directory.
func (s *Shell) Dir() string { return s.dir }

// Path returns the directories searched for commands, in order.
func (s *Shell) Path() []string { return slices.Clone(s.path) }

// Names returns the sorted base names of every command reachable through
// the shell's PATH.
func (s *Shell) Names() []string {
	var names []string

	for full := range s.cmds {
		dir, name := path.Split(full)
		if slices.Contains(s.path, path.Clean(dir)) && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	return names
}

// Lookup resolves name to the absolute path of a command. Names containing
// a slash are resolved against the working directory; all other names are
// searched for in PATH order.
func (s *Shell) Lookup(name string) (string, Command, bool) {
	if name == "" {
		return "", nil, false
	}

	if strings.Contains(name, "/") {
		full := s.abs(name)
		cmd, ok := s.cmds[full]

		return full, cmd, ok
	}

	for _, dir := range s.path {
		full := path.Join(dir, name)
		if cmd, ok := s.cmds[full]; ok {
			return full, cmd, true
		}
	}

	return "", nil, false
}

// Invoke runs the named command and returns its standard output as lines.
// It implements [lang.Executor].
func (s *Shell) Invoke(name string, args []string, piped bool) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ctx.Err(); err != nil {
		s.logger.DebugContext(s.ctx, "skip command",
			slog.String("name", name),
			slog.Any("error", err))

		return nil
	}

	full, cmd, ok := s.Lookup(name)
	if !ok {
		fmt.Fprintf(s.stderr, "%s: command not found\n", name)

		s.logger.DebugContext(s.ctx, "command not found", slog.String("name", name))

		return nil
	}

	var stdout bytes.Buffer

	p := &Process{
		ctx:    s.ctx,
		name:   name,
		args:   args,
		piped:  piped,
		fs:     s.fs,
		dir:    s.dir,
		stdout: &stdout,
		stderr: s.stderr,
	}

	code := cmd(p)

	s.logger.TraceContext(s.ctx, "command exited",
		slog.String("path", full),
		slog.Any("args", args),
		slog.Bool("piped", piped),
		slog.Int("status", code))

	if code != 0 || s.ctx.Err() != nil {
		return nil
	}

	return splitLines(stdout.String())
}

// abs resolves p against the working directory.
func (s *Shell) abs(p string) string {
	if path.IsAbs(p) {
		return path.Clean(p)
	}

	return path.Join(s.dir, p)
}

// splitLines splits s on newlines. A trailing newline does not produce an
// empty final line, and empty output produces no lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

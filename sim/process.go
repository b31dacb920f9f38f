package sim

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	getopt "github.com/pborman/getopt/v2"
	"github.com/spf13/afero"
)

// Command is the implementation of a simulated program. It returns the
// program's exit status.
type Command func(p *Process) int

// builtins holds every command installed by this package, keyed by
// absolute path.
var builtins = map[string]Command{}

// addBinCmd installs cmd as name under /bin and /usr/bin.
func addBinCmd(name string, cmd Command) {
	addCmd(builtins, name, cmd)
}

func addCmd(table map[string]Command, name string, cmd Command) {
	if path.IsAbs(name) {
		table[path.Clean(name)] = cmd

		return
	}

	table[path.Join("/bin", name)] = cmd
	table[path.Join("/usr/bin", name)] = cmd
}

// Process is the view of the shell given to a running [Command].
type Process struct {
	ctx    context.Context
	name   string
	args   []string
	piped  bool
	fs     afero.Fs
	dir    string
	stdout io.Writer
	stderr io.Writer
}

// Context returns the context bounding the invocation.
func (p *Process) Context() context.Context { return p.ctx }

// Name returns the name the command was invoked as.
func (p *Process) Name() string { return p.name }

// Args returns the command's arguments, excluding its name.
func (p *Process) Args() []string { return p.args }

// Piped reports whether the trailing arguments came from a pipe.
func (p *Process) Piped() bool { return p.piped }

// Fs returns the filesystem the command operates on.
func (p *Process) Fs() afero.Fs { return p.fs }

// Dir returns the working directory.
func (p *Process) Dir() string { return p.dir }

// Stdout returns the writer whose content becomes the command's output.
func (p *Process) Stdout() io.Writer { return p.stdout }

// Stderr returns the diagnostics writer.
func (p *Process) Stderr() io.Writer { return p.stderr }

// Abs resolves name against the working directory.
func (p *Process) Abs(name string) string {
	if path.IsAbs(name) {
		return path.Clean(name)
	}

	return path.Join(p.dir, name)
}

// Open opens the named file for reading.
func (p *Process) Open(name string) (afero.File, error) {
	return p.fs.Open(p.Abs(name))
}

// Stat returns the file info of the named file.
func (p *Process) Stat(name string) (os.FileInfo, error) {
	return p.fs.Stat(p.Abs(name))
}

// Done reports whether the invocation has been cancelled.
func (p *Process) Done() bool { return p.ctx.Err() != nil }

// SimpleCommand holds the usage and flags of a builtin.
type SimpleCommand struct {
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the command.
	Short string

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run parses the process arguments and, if parsing succeeds, calls the
// callback. Help is written to standard error because standard output
// becomes the command's result.
func (s *SimpleCommand) Run(p *Process, callback func() int) int {
	opts := s.Flags()
	help := opts.BoolLong("help", 'h', "show this help and exit")

	opts.SetProgram(p.name)

	if err := opts.Getopt(append([]string{p.name}, p.args...), nil); err != nil {
		fmt.Fprintf(p.stderr, "%s: %s\n", p.name, err)
		s.PrintHelp(p.stderr)

		return 2
	}

	if *help {
		s.PrintHelp(p.stderr)

		return 0
	}

	return callback()
}

// RunE is like Run, but the callback reports failure with an error that is
// written to standard error.
func (s *SimpleCommand) RunE(p *Process, callback func() error) int {
	return s.Run(p, func() int {
		if err := callback(); err != nil {
			s.LogProgramError(p, err)

			return 1
		}

		return 0
	})
}

// LogProgramError writes err to standard error prefixed by the program name.
func (s *SimpleCommand) LogProgramError(p *Process, err error) {
	fmt.Fprintf(p.stderr, "%s: %s\n", p.name, err)
}

// EachInput calls fn with the input named by operands. A piped process reads
// its operands as lines of text under the name "-". Otherwise each operand
// names a file, and no operands means empty input.
func (s *SimpleCommand) EachInput(
	p *Process,
	operands []string,
	fn func(name string, r io.Reader) error,
) error {
	if p.piped {
		return fn("-", strings.NewReader(joinLines(operands)))
	}

	for _, name := range operands {
		if p.Done() {
			return p.ctx.Err()
		}

		if err := s.eachFile(p, name, fn); err != nil {
			return err
		}
	}

	return nil
}

func (s *SimpleCommand) eachFile(
	p *Process,
	name string,
	fn func(name string, r io.Reader) error,
) error {
	fd, err := p.Open(name)
	if err != nil {
		return err
	}
	defer fd.Close()

	return fn(name, fd)
}

// joinLines joins lines with newlines, terminating the last line.
func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	return strings.Join(lines, "\n") + "\n"
}

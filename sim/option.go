package sim

import (
	"context"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/ardnew/mung"
	"github.com/spf13/afero"

	"github.com/ardnew/basher/log"
)

// DefaultPath is the PATH of a new [Shell]. Every builtin is installed in
// each of its directories.
const DefaultPath = "/usr/bin:/bin"

// pathDelim separates directories in a PATH string.
const pathDelim = ":"

type options struct {
	ctx    context.Context
	fs     afero.Fs
	dir    string
	path   string
	prefix []string
	cmds   map[string]Command
	stderr io.Writer
	logger log.Logger
}

// Option configures a [Shell].
type Option func(*options)

// WithContext sets the context that bounds every invocation. Once ctx is
// done, commands are no longer run and invocations produce no output.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithFs sets the filesystem commands operate on.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithRoot layers an in-memory filesystem over the host directory root.
// Commands can read files below root, and every change they make stays in
// memory.
func WithRoot(root string) Option {
	return func(o *options) {
		if root == "" {
			return
		}

		base := afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), root))
		o.fs = afero.NewCopyOnWriteFs(base, afero.NewMemMapFs())
	}
}

// WithDir sets the working directory. Relative paths are resolved from "/".
func WithDir(dir string) Option {
	return func(o *options) {
		o.dir = path.Join("/", dir)
	}
}

// WithPath replaces the PATH searched for commands. The value is a list of
// directories separated by colons.
func WithPath(value string) Option {
	return func(o *options) {
		o.path = value
	}
}

// WithPathPrefix adds directories to the front of the PATH.
func WithPathPrefix(dir ...string) Option {
	return func(o *options) {
		o.prefix = append(o.prefix, dir...)
	}
}

// WithCommand installs cmd as name in /bin and /usr/bin, replacing any
// builtin of the same name. If name is an absolute path, cmd is installed
// only at that path.
func WithCommand(name string, cmd Command) Option {
	return func(o *options) {
		if o.cmds == nil {
			o.cmds = map[string]Command{}
		}

		addCmd(o.cmds, name, cmd)
	}
}

// WithStderr sets the writer that receives command diagnostics.
func WithStderr(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.stderr = w
		}
	}
}

// WithLogger sets the structured logger.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func makeOptions(opts ...Option) options {
	o := options{
		ctx:    context.Background(),
		dir:    "/",
		path:   DefaultPath,
		stderr: io.Discard,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if o.fs == nil {
		o.fs = afero.NewMemMapFs()
	}

	return o
}

// searchPath composes the configured PATH with its prefix directories and
// returns the cleaned, absolute directories it names.
func (o options) searchPath() []string {
	value := mung.Make(
		mung.WithSubjectItems(o.path),
		mung.WithDelim(pathDelim),
		mung.WithPrefixItems(o.prefix...),
	).String()

	var dirs []string

	for _, dir := range strings.Split(value, pathDelim) {
		if !path.IsAbs(dir) {
			continue
		}

		dir = path.Clean(dir)
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}

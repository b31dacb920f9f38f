package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/basher/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	streamsKey struct{}

	// Streams holds the standard streams used by commands.
	Streams struct {
		In  io.Reader
		Out io.Writer
		Err io.Writer
	}
)

// WithStreams returns a new context.Context whose commands read from and
// write to the given streams. Nil fields fall back to the process streams.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

// streamsFrom returns the streams stored in ctx, defaulting each unset
// stream to its os counterpart.
func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is one script input.
type source struct {
	name string
	r    io.Reader
}

// sources is an ordered list of script inputs.
type sources []source

// Close closes every input that is a file.
func (s sources) Close() error {
	var errs []error

	for _, src := range s {
		if c, ok := src.r.(io.Closer); ok && src.name != stdinSource {
			errs = append(errs, c.Close())
		}
	}

	return errors.Join(errs...)
}

// openSources opens the script inputs named by paths. Inline source text
// takes precedence over paths. With neither, the script is read from stdin.
//
// Paths are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin reader
// placed last, so it reads after all regular files.
func openSources(ctx context.Context, inline string, paths []string) (sources, error) {
	if inline != "" {
		return sources{{name: "-c", r: strings.NewReader(inline)}}, nil
	}

	stdin := streamsFrom(ctx).In

	if len(paths) == 0 {
		return sources{{name: stdinSource, r: stdin}}, nil
	}

	var (
		srcs     sources
		hasStdin bool
	)

	seen := make(map[fileKey]struct{})

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		file, ok, err := openUniqueFile(path, seen)
		if err != nil {
			_ = srcs.Close()

			return nil, pkg.ErrReadInput.Wrap(err)
		}

		if ok {
			srcs = append(srcs, source{name: path, r: file})
		}
	}

	if hasStdin {
		srcs = append(srcs, source{name: stdinSource, r: stdin})
	}

	if len(srcs) == 0 {
		return nil, pkg.ErrNoSource
	}

	return srcs, nil
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// A duplicate returns false with a nil error.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, bool, error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, false, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false, err
	}

	return file, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

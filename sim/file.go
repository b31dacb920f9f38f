package sim

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"slices"
	"time"

	"github.com/spf13/afero"
)

// Cat concatenates files, or piped lines, to standard output.
func Cat(p *Process) int {
	cmd := &SimpleCommand{
		Use:   "cat [-n] [FILE]...",
		Short: "Concatenate files to standard output.",
	}

	number := cmd.Flags().Bool('n', "number all output lines")

	return cmd.RunE(p, func() error {
		line := 0

		return cmd.EachInput(p, cmd.Flags().Args(), func(_ string, r io.Reader) error {
			if !*number {
				_, err := io.Copy(p.Stdout(), r)

				return err
			}

			return scanLines(r, func(text string) {
				line++
				fmt.Fprintf(p.Stdout(), "%6d\t%s\n", line, text)
			})
		})
	})
}

// Ls lists directory contents, one entry per line.
func Ls(p *Process) int {
	cmd := &SimpleCommand{
		Use:   "ls [-al] [FILE]...",
		Short: "List information about the FILEs (the current directory by default).",
	}

	listAll := cmd.Flags().Bool('a', "do not ignore entries starting with .")
	long := cmd.Flags().Bool('l', "use a long listing format")

	return cmd.Run(p, func() int {
		targets := cmd.Flags().Args()
		if len(targets) == 0 {
			targets = []string{"."}
		}

		slices.Sort(targets)

		entry := func(info os.FileInfo, name string) {
			if *long {
				fmt.Fprintf(p.Stdout(), "%s %8d %s %s\n",
					info.Mode(), info.Size(), info.ModTime().Format(time.DateTime), name)

				return
			}

			fmt.Fprintln(p.Stdout(), name)
		}

		status := 0

		for i, target := range targets {
			info, err := p.Stat(target)
			if err != nil {
				fmt.Fprintf(p.Stderr(), "ls: cannot access %q: %s\n", target, err)

				status = 2

				continue
			}

			if !info.IsDir() {
				entry(info, target)

				continue
			}

			infos, err := afero.ReadDir(p.Fs(), p.Abs(target))
			if err != nil {
				fmt.Fprintf(p.Stderr(), "ls: cannot open directory %q: %s\n", target, err)

				status = 2

				continue
			}

			if len(targets) > 1 {
				if i > 0 {
					fmt.Fprintln(p.Stdout())
				}

				fmt.Fprintf(p.Stdout(), "%s:\n", target)
			}

			for _, child := range infos {
				if !*listAll && child.Name()[0] == '.' {
					continue
				}

				entry(child, child.Name())
			}
		}

		return status
	})
}

// Mkdir creates directories.
func Mkdir(p *Process) int {
	cmd := &SimpleCommand{
		Use:   "mkdir [-pv] DIRECTORY...",
		Short: "Create directories if they don't exist.",
	}

	makeParents := cmd.Flags().BoolLong("parents", 'p', "make parents if needed")
	verbose := cmd.Flags().BoolLong("verbose", 'v', "print a line for every created directory")

	return cmd.Run(p, func() int {
		dirs := cmd.Flags().Args()
		if len(dirs) == 0 {
			cmd.LogProgramError(p, ErrMissingOperand)

			return 1
		}

		op := p.Fs().Mkdir
		if *makeParents {
			op = p.Fs().MkdirAll
		}

		status := 0

		for _, dir := range dirs {
			if err := op(p.Abs(dir), 0o755); err != nil {
				fmt.Fprintf(p.Stderr(), "mkdir: cannot create directory %q: %s\n", dir, err)

				status = 1

				continue
			}

			if *verbose {
				fmt.Fprintf(p.Stdout(), "mkdir: created directory %q\n", dir)
			}
		}

		return status
	})
}

// Touch creates files or updates their access and modification times.
func Touch(p *Process) int {
	cmd := &SimpleCommand{
		Use:   "touch [-c] FILE...",
		Short: "Update the access and modification times of files to now.",
	}

	noCreate := cmd.Flags().BoolLong("no-create", 'c', "don't create files")

	return cmd.Run(p, func() int {
		files := cmd.Flags().Args()
		if len(files) == 0 {
			cmd.LogProgramError(p, ErrMissingOperand)

			return 1
		}

		now := time.Now()
		status := 0

		for _, file := range files {
			name := p.Abs(file)

			err := p.Fs().Chtimes(name, now, now)

			switch {
			case errors.Is(err, fs.ErrNotExist) && !*noCreate:
				fd, err := p.Fs().Create(name)
				if err != nil {
					fmt.Fprintf(p.Stderr(), "touch: cannot touch %q: %s\n", file, err)

					status = 1

					continue
				}

				fd.Close()

			case errors.Is(err, fs.ErrNotExist):
				// Not an error with -c.

			case err != nil:
				fmt.Fprintf(p.Stderr(), "touch: setting times of %q: %s\n", file, err)

				status = 1
			}
		}

		return status
	})
}

// Pwd prints the working directory.
func Pwd(p *Process) int {
	cmd := &SimpleCommand{
		Use:   "pwd",
		Short: "Print the name of the current working directory.",
	}

	return cmd.Run(p, func() int {
		fmt.Fprintln(p.Stdout(), path.Clean(p.Dir()))

		return 0
	})
}

func init() {
	addBinCmd("cat", Cat)
	addBinCmd("ls", Ls)
	addBinCmd("mkdir", Mkdir)
	addBinCmd("touch", Touch)
	addBinCmd("pwd", Pwd)
}

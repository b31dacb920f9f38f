// Package sim provides a host executor for the basher language that runs a
// small set of simulated commands over a virtual filesystem.
//
// A [Shell] implements [lang.Executor]. Each invocation resolves the command
// name through the shell's PATH, runs the matching builtin against the
// shell's [afero.Fs], and returns the command's standard output split into
// lines. Diagnostics go to the shell's standard error writer. A command that
// is not found, exits with a non-zero status, or runs after the shell's
// context is done produces no output.
//
// # Builtins
//
// Every builtin is installed under both /bin and /usr/bin:
//
//	cat   [-n] [FILE]...              concatenate files
//	echo  [-e] [ARG]...               join arguments with spaces
//	expr  EXPRESSION...               evaluate an expr-lang expression
//	false                             exit with status 1
//	grep  [-civn] PATTERN [FILE]...   print lines matching a regular expression
//	head  [-n N] [FILE]...            print the first N lines
//	ls    [-al] [FILE]...             list directory contents
//	mkdir [-pv] DIRECTORY...          create directories
//	pwd                               print the working directory
//	seq   [-s SEP] [FIRST [INCR]] LAST print a sequence of integers
//	sort  [-nru] [FILE]...            sort lines
//	tail  [-n N] [FILE]...            print the last N lines
//	touch [-c] FILE...                create files or update their times
//	true                              exit with status 0
//	wc    [-clw] [FILE]...            count lines, words, and bytes
//
// # Piped input
//
// The language passes the output of the previous call in a pipe as extra
// trailing arguments. When a builtin that reads input is invoked with the
// piped flag set, its operands are read as input lines instead of file
// names. For grep the first operand is still the pattern.
//
// Piped lines arrive as ordinary arguments, so flag parsing cannot tell them
// apart from the call's own flags. A piped line that starts with '-' and is
// not preceded by an operand is read as a flag. Write "--" at the end of the
// receiving call to read every piped line as input.
//
//	echo -- -l | wc        # -l is taken as a flag of wc
//	echo -- -l | wc -l --  # 1
//
//	seq 3 | sort -r        # 3, 2, 1
//	seq 3 | tail -n 1      # 3
//	ls / | grep bin        # bin
package sim

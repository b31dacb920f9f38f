package sim

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// scanLines calls fn with each line of r.
func scanLines(r io.Reader, fn func(line string)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fn(scanner.Text())
	}

	return scanner.Err()
}

// readLines returns every line of the command's input.
func readLines(p *Process, cmd *SimpleCommand, operands []string) ([]string, error) {
	var lines []string

	err := cmd.EachInput(p, operands, func(_ string, r io.Reader) error {
		return scanLines(r, func(line string) {
			lines = append(lines, line)
		})
	})

	return lines, err
}

type wcCount struct {
	name    string
	bytes   int
	lines   int
	words   int
	inSpace bool
}

func (w *wcCount) Write(data []byte) (int, error) {
	for _, c := range data {
		first := w.bytes == 0
		w.bytes++

		if c == '\n' {
			w.lines++
		}

		if unicode.IsSpace(rune(c)) {
			w.inSpace = true
		} else {
			if w.inSpace || first {
				w.words++
			}

			w.inSpace = false
		}
	}

	return len(data), nil
}

func (w *wcCount) add(other *wcCount) {
	w.bytes += other.bytes
	w.lines += other.lines
	w.words += other.words
}

// Wc counts newlines, words, and bytes.
func Wc(p *Process) int {
	cmd := &SimpleCommand{
		Use:   "wc [-clw] [FILE]...",
		Short: "Print newline, word, and byte counts for each input.",
	}

	opts := cmd.Flags()
	writeLines := opts.Bool('l', "print the newline counts")
	writeWords := opts.Bool('w', "print the word counts")
	writeBytes := opts.Bool('c', "print the byte counts")

	return cmd.RunE(p, func() error {
		none := !*writeLines && !*writeWords && !*writeBytes

		display := func(count *wcCount, named bool) {
			var cols []string

			if *writeLines || none {
				cols = append(cols, strconv.Itoa(count.lines))
			}

			if *writeWords || none {
				cols = append(cols, strconv.Itoa(count.words))
			}

			if *writeBytes || none {
				cols = append(cols, strconv.Itoa(count.bytes))
			}

			if named {
				cols = append(cols, count.name)
			}

			fmt.Fprintln(p.Stdout(), strings.Join(cols, " "))
		}

		var counts []*wcCount

		err := cmd.EachInput(p, opts.Args(), func(name string, r io.Reader) error {
			count := &wcCount{name: name}
			if _, err := io.Copy(count, r); err != nil {
				return err
			}

			counts = append(counts, count)

			return nil
		})
		if err != nil {
			return err
		}

		if len(counts) == 0 {
			counts = append(counts, &wcCount{})
		}

		named := !p.Piped() && len(opts.Args()) > 0
		total := &wcCount{name: "total"}

		for _, count := range counts {
			total.add(count)
			display(count, named)
		}

		if len(counts) > 1 {
			display(total, named)
		}

		return nil
	})
}

// Sort writes the sorted lines of its input.
func Sort(p *Process) int {
	cmd := &SimpleCommand{
		Use:   "sort [-nru] [FILE]...",
		Short: "Write sorted concatenation of all inputs to standard output.",
	}

	opts := cmd.Flags()
	numeric := opts.Bool('n', "compare according to string numerical value")
	reverse := opts.Bool('r', "reverse the result of comparisons")
	unique := opts.Bool('u', "output only the first of an equal run")

	return cmd.RunE(p, func() error {
		lines, err := readLines(p, cmd, opts.Args())
		if err != nil {
			return err
		}

		compare := strings.Compare
		if *numeric {
			compare = compareNumeric
		}

		slices.SortStableFunc(lines, func(a, b string) int {
			if *reverse {
				return compare(b, a)
			}

			return compare(a, b)
		})

		if *unique {
			lines = slices.CompactFunc(lines, func(a, b string) bool {
				return compare(a, b) == 0
			})
		}

		for _, line := range lines {
			fmt.Fprintln(p.Stdout(), line)
		}

		return nil
	})
}

// compareNumeric orders lines by their leading number. Lines without one
// compare as zero, and equal numbers fall back to byte order.
func compareNumeric(a, b string) int {
	return cmp.Or(cmp.Compare(leadingNumber(a), leadingNumber(b)), strings.Compare(a, b))
}

var numberPrefix = regexp.MustCompile(`^\s*[-+]?(\d+\.?\d*|\.\d+)`)

func leadingNumber(s string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(numberPrefix.FindString(s)), 64)
	if err != nil {
		return 0
	}

	return n
}

// Head writes the first lines of its input.
func Head(p *Process) int {
	cmd := &SimpleCommand{
		Use:   "head [-n N] [FILE]...",
		Short: "Print the first 10 lines of each input to standard output.",
	}

	count := cmd.Flags().IntLong("lines", 'n', 10, "print the first N lines")

	return cmd.RunE(p, func() error {
		if *count < 0 {
			return ErrInvalidNumber.Wrapf("%d", *count)
		}

		lines, err := readLines(p, cmd, cmd.Flags().Args())
		if err != nil {
			return err
		}

		for _, line := range lines[:min(*count, len(lines))] {
			fmt.Fprintln(p.Stdout(), line)
		}

		return nil
	})
}

// Tail writes the last lines of its input.
func Tail(p *Process) int {
	cmd := &SimpleCommand{
		Use:   "tail [-n N] [FILE]...",
		Short: "Print the last 10 lines of each input to standard output.",
	}

	count := cmd.Flags().IntLong("lines", 'n', 10, "print the last N lines")

	return cmd.RunE(p, func() error {
		if *count < 0 {
			return ErrInvalidNumber.Wrapf("%d", *count)
		}

		lines, err := readLines(p, cmd, cmd.Flags().Args())
		if err != nil {
			return err
		}

		for _, line := range lines[max(len(lines)-*count, 0):] {
			fmt.Fprintln(p.Stdout(), line)
		}

		return nil
	})
}

// Grep writes the lines of its input that match a regular expression.
// It exits with status 1 when no line is selected.
func Grep(p *Process) int {
	cmd := &SimpleCommand{
		Use:   "grep [-civn] PATTERN [FILE]...",
		Short: "Search input for lines matching a pattern.",
	}

	opts := cmd.Flags()
	countOnly := opts.Bool('c', "print only a count of selected lines")
	ignoreCase := opts.Bool('i', "ignore case distinctions")
	invert := opts.Bool('v', "select non-matching lines")
	showLineNumbers := opts.Bool('n', "print line numbers")

	return cmd.Run(p, func() int {
		args := opts.Args()
		if len(args) == 0 {
			cmd.LogProgramError(p, ErrMissingOperand.Wrapf("PATTERN"))

			return 2
		}

		pattern := args[0]
		if *ignoreCase {
			pattern = "(?i)" + pattern
		}

		regex, err := regexp.Compile(pattern)
		if err != nil {
			cmd.LogProgramError(p, err)

			return 2
		}

		files := args[1:]
		showFileName := !p.Piped() && len(files) > 1
		selected := 0

		err = cmd.EachInput(p, files, func(name string, r io.Reader) error {
			lineNo, count := 0, 0

			err := scanLines(r, func(line string) {
				lineNo++

				if regex.MatchString(line) == *invert {
					return
				}

				count++

				if *countOnly {
					return
				}

				if showFileName {
					fmt.Fprintf(p.Stdout(), "%s:", name)
				}

				if *showLineNumbers {
					fmt.Fprintf(p.Stdout(), "%d:", lineNo)
				}

				fmt.Fprintln(p.Stdout(), line)
			})

			if *countOnly {
				if showFileName {
					fmt.Fprintf(p.Stdout(), "%s:", name)
				}

				fmt.Fprintln(p.Stdout(), count)
			}

			selected += count

			return err
		})
		if err != nil {
			cmd.LogProgramError(p, err)

			return 2
		}

		if selected == 0 {
			return 1
		}

		return 0
	})
}

func init() {
	addBinCmd("wc", Wc)
	addBinCmd("sort", Sort)
	addBinCmd("head", Head)
	addBinCmd("tail", Tail)
	addBinCmd("grep", Grep)
}

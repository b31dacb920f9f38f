package sim

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	unescapeOctal   = regexp.MustCompile(`\\0[0-7]{1,3}`)
	unescapeHex     = regexp.MustCompile(`\\x[0-9a-fA-F]{1,2}`)
	unescapeReplace = strings.NewReplacer(
		`\n`, "\n",
		`\r`, "\r",
		`\t`, "\t",
		`\\`, `\`,
		`\b`, "\b",
		`\a`, "\a",
		`\f`, "\f",
		`\v`, "\v",
	)
)

func unescape(s string) string {
	s = unescapeReplace.Replace(s)
	s = unescapeOctal.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseUint(arg[2:], 8, 8)
		if err != nil {
			return arg
		}

		return string(rune(out))
	})
	s = unescapeHex.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseUint(arg[2:], 16, 8)
		if err != nil {
			return arg
		}

		return string(rune(out))
	})

	return s
}

// Echo writes its arguments separated by single spaces on one line.
// Piped lines are arguments like any other.
func Echo(p *Process) int {
	cmd := &SimpleCommand{
		Use:   "echo [-e] [ARG]...",
		Short: "Display a line of text.",
	}

	escaped := cmd.Flags().Bool('e', "interpret backslash escapes")

	return cmd.Run(p, func() int {
		args := cmd.Flags().Args()
		if *escaped {
			for i := range args {
				args[i] = unescape(args[i])
			}
		}

		fmt.Fprintln(p.Stdout(), strings.Join(args, " "))

		return 0
	})
}

func init() {
	addBinCmd("echo", Echo)
}

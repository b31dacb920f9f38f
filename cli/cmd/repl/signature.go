package repl

import (
	"strconv"
	"strings"

	"github.com/anmitsu/go-shlex"
	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/basher/lang"
	"github.com/ardnew/basher/sim"
)

// Styles for the command hint.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// commandCall represents the call surrounding the cursor.
type commandCall struct {
	name     string // command word of the call
	argIndex int    // index of the argument under the cursor (0-based)
	inCall   bool   // true if the cursor is past the command word
}

// detectCommandCall analyzes the input to determine whether the cursor is in
// the argument list of a call, and if so which argument.
func detectCommandCall(input string, cursor int) commandCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	start := strings.LastIndexAny(input[:cursor], ";&|>{}\n") + 1
	segment := input[start:cursor]

	words, err := shlex.Split(segment, true)
	if err != nil {
		// Unterminated quote: the cursor is inside a word.
		words = strings.Fields(segment)
	}

	if len(words) == 0 {
		return commandCall{}
	}

	trailing := strings.HasSuffix(segment, " ") || strings.HasSuffix(segment, "\t")
	if len(words) == 1 && !trailing {
		return commandCall{}
	}

	index := len(words) - 2
	if trailing {
		index = len(words) - 1
	}

	return commandCall{name: words[0], argIndex: index, inCall: true}
}

// describeCommand returns how name resolves: to a declared function, which
// shadows everything else, or to an executable found on the shell's PATH.
func describeCommand(
	session *lang.Session,
	shell *sim.Shell,
	name string,
) (kind, detail string) {
	if session != nil {
		if fn, ok := session.Lookup(name); ok {
			return "function", lang.Scope{{Type: lang.ExprFunc, Func: fn}}.String()
		}
	}

	if shell != nil {
		if path, _, ok := shell.Lookup(name); ok {
			return "command", path
		}
	}

	return "", ""
}

// renderCommandHint renders the resolution of the command being called with
// the argument under the cursor highlighted.
func renderCommandHint(call commandCall, kind, detail string) string {
	if !call.inCall {
		return ""
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(call.name))
	b.WriteString(signatureSeparatorStyle.Render(" → "))

	if kind == "" {
		b.WriteString(errorStyle.Render("not found"))

		return b.String()
	}

	b.WriteString(signatureStyle.Render(kind + " " + detail))
	b.WriteString(signatureSeparatorStyle.Render("  "))
	b.WriteString(currentParamStyle.Render("$" + strconv.Itoa(call.argIndex+1)))

	return b.String()
}

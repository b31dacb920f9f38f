package repl

import (
	"path"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/afero"

	"github.com/ardnew/basher/lang"
	"github.com/ardnew/basher/sim"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "reset", "clear", "quit"}

// isWordBoundary returns true if the rune separates words for completion
// purposes: whitespace and the shell metacharacters.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '\n',
		';', '&', '|', '>', '<',
		'(', ')', '{', '}':
		return true
	}

	return false
}

// startsCommand returns true if a word following r is a command name.
func startsCommand(r rune) bool {
	switch r {
	case ';', '&', '|', '>', '{', '}', '\n':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// inCommandPosition reports whether the word starting at wordStart is the
// first word of a call: it is preceded only by blanks since the start of the
// input or since an operator, separator, or brace.
func inCommandPosition(input string, wordStart int) bool {
	prefix := strings.TrimRight(input[:wordStart], " \t")
	if prefix == "" {
		return true
	}

	r, _ := utf8.DecodeLastRuneInString(prefix)

	return startsCommand(r)
}

// commandCandidates returns the declared functions and the commands
// reachable through the shell's PATH.
func commandCandidates(session *lang.Session, shell *sim.Shell) []string {
	var names []string

	if session != nil {
		names = append(names, session.Functions()...)
	}

	if shell != nil {
		for _, name := range shell.Names() {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}

	return names
}

// pathCandidates returns the entries of the simulated directory named by
// the part of word up to its last slash. Each candidate keeps that
// directory prefix, and directories end with a slash.
func pathCandidates(shell *sim.Shell, word string) []string {
	if shell == nil {
		return nil
	}

	dir := ""
	if i := strings.LastIndex(word, "/"); i >= 0 {
		dir = word[:i+1]
	}

	target := dir
	if !path.IsAbs(target) {
		target = path.Join(shell.Dir(), target)
	}

	infos, err := afero.ReadDir(shell.Fs(), target)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(infos))

	for _, info := range infos {
		name := dir + info.Name()
		if info.IsDir() {
			name += "/"
		}

		names = append(names, name)
	}

	return names
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidate list,
// and the word boundaries. An empty word yields no matches, except directly
// after a slash, where every entry of that directory is listed.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, ws, we := wordBounds(input, cursor)
	wordStart, wordEnd = ws, we

	switch {
	case m.mode == modeCtrl:
		candidates = ctrlCommands

	case inCommandPosition(input, wordStart) && !strings.Contains(word, "/"):
		candidates = commandCandidates(m.session, m.shell)

	default:
		candidates = pathCandidates(m.shell, word)

		if strings.HasSuffix(word, "/") && len(candidates) > 0 {
			// Return all candidates as unfiltered matches.
			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	if word == "" || len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected)
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	return b.String()
}

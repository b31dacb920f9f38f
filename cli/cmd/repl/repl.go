package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/basher/lang"
	"github.com/ardnew/basher/log"
	"github.com/ardnew/basher/sim"
)

// Messages delivered when the external editor started by "edit" returns.
type (
	editAppliedMsg   struct{ output []string }
	editCancelledMsg struct{}
	editDeclinedMsg  struct{}
	editErrorMsg     struct{ err error }
)

const (
	evalPrompt = "$ "
	ctrlPrompt = " :"

	defaultWidth = 80
	maxInput     = 1024
)

const helpText = `
Control commands (Esc switches between script and control input):

  help     show this text
  list     print declared functions, or only the named ones
  edit     rewrite every declared function in $EDITOR
  reset    forget every declared function
  clear    clear the screen
  quit     leave the session

Script input runs as soon as Enter is pressed. Functions it declares stay
defined until reset.

  Tab, Shift+Tab     cycle completion candidates (Space accepts)
  Up, Down           walk history, switching input mode to match each entry
  Shift+Up/Down      walk history of the current input mode only
  Alt+Up/Down        walk control history, then return to the original input
  Ctrl+C, Ctrl+D     exit on an empty line
`

// inputMode selects how a submitted line is handled.
type inputMode int

const (
	modeEval inputMode = iota // run as a script
	modeCtrl                  // run as a control command
)

var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
)

// echoLine renders a submitted line the way it appeared at the prompt.
func echoLine(mode inputMode, input string) string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
	}

	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatOutput renders the lines produced by a run.
func formatOutput(lines []string) string {
	return resultStyle.Render(strings.Join(lines, "\n"))
}

// draft is the unsubmitted text and cursor of one input mode.
type draft struct {
	text   string
	cursor int
}

// altNav remembers the input replaced by Alt+Up/Down navigation.
type altNav struct {
	active bool
	mode   inputMode
	draft  draft
}

type model struct {
	ctxFunc func() context.Context
	session *lang.Session
	shell   *sim.Shell
	logger  log.Logger
	history *History

	input      textinput.Model
	mode       inputMode
	drafts     [2]draft // indexed by inputMode
	historyIdx int
	alt        altNav
	width      int
	quitting   bool

	// Completion state. wordStart and wordEnd are byte offsets of the word
	// under the cursor.
	matches    fuzzy.Matches
	candidates []string
	wordStart  int
	wordEnd    int
	suggIdx    int
	tabActive  bool
	preTab     draft
}

// Run starts the REPL over session, whose external commands are expected to
// run in shell. History is persisted in cacheDir, or kept in memory if
// cacheDir is empty.
func Run(
	ctx context.Context,
	session *lang.Session,
	shell *sim.Shell,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if session == nil {
		return ErrNoSession
	}

	var historyPath string
	if cacheDir != "" {
		historyPath = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("history", historyPath),
		slog.Int("history_entries", history.Len()),
		slog.Int("functions", len(session.Functions())))

	_, err = tea.NewProgram(
		newModel(ctx, session, shell, history, logger),
		tea.WithContext(ctx),
	).Run()

	return err
}

func newModel(
	ctx context.Context,
	session *lang.Session,
	shell *sim.Shell,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.CharLimit = maxInput
	ti.Width = defaultWidth
	ti.Focus()

	return model{
		ctxFunc:    func() context.Context { return ctx },
		session:    session,
		shell:      shell,
		logger:     logger,
		history:    history,
		input:      ti,
		mode:       modeEval,
		historyIdx: history.Len(),
		width:      defaultWidth,
		suggIdx:    -1,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editAppliedMsg:
		m.logger.TraceContext(m.ctxFunc(), "repl edit applied",
			slog.Int("functions", len(m.session.Functions())))

		done := tea.Println(resultStyle.Render("✔ functions updated"))
		if len(msg.output) == 0 {
			return m, done
		}

		return m, tea.Sequence(done, tea.Println(formatOutput(msg.output)))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("🗴 error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.statusLine() + "\n"
}

// statusLine is the line under the prompt: the history position while
// browsing, a usage hint on empty input, completion candidates, or what the
// command under the cursor resolves to.
func (m model) statusLine() string {
	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))

	case strings.TrimSpace(input) == "":
		if m.mode == modeCtrl {
			return hintStyle.Render(strings.Join(ctrlCommands, ", ") + " (Esc returns to script input)")
		}

		return hintStyle.Render("Type a script, or Esc for control commands")

	case len(m.matches) > 0:
		return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)

	case m.mode == modeEval:
		call := detectCommandCall(input, m.input.Position())
		if !call.inCall {
			return ""
		}

		kind, detail := describeCommand(m.session, m.shell, call.name)

		return renderCommandHint(call, kind, detail)
	}

	return ""
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl key", slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		if msg.Type == tea.KeyCtrlC {
			m.input.SetValue("")
			m.tabActive = false
			m.alt.active = false
			m.historyIdx = m.history.Len()
			refreshMatches(&m, false)
		}

		return m, nil

	case tea.KeyEnter:
		m.alt.active = false

		if m.tabActive && len(m.matches) > 0 {
			// Keep the selected candidate and wait for another Enter.
			m.tabActive = false
			refreshMatches(&m, true)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycleCandidates(1)

	case tea.KeyShiftTab:
		return m.cycleCandidates(-1)

	case tea.KeyUp, tea.KeyDown:
		step := 1
		if msg.Type == tea.KeyUp {
			step = -1
		}

		if msg.Alt {
			return m.browseCtrlHistory(step)
		}

		return m.browseHistory(step, false)

	case tea.KeyShiftUp:
		return m.browseHistory(-1, true)

	case tea.KeyShiftDown:
		return m.browseHistory(1, true)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.setInput(m.preTab)
			refreshMatches(&m, false)

			return m, nil
		}

		m.alt.active = false

		return m.toggleMode()
	}

	var cmd tea.Cmd

	// Typed characters may auto-confirm a completion. Space accepts the
	// candidate being cycled. Other keys only edit or move.
	typed := msg.Type == tea.KeyRunes
	if !typed || msg.String() == " " {
		m.tabActive = false
	}

	if !typed {
		m.alt.active = false
	}

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, typed)

	return m, cmd
}

// cycleCandidates moves the selected completion by step, wrapping at either
// end. A sole candidate is accepted immediately.
func (m model) cycleCandidates(step int) (model, tea.Cmd) {
	n := len(m.matches)

	switch {
	case n == 0:
		return m, nil

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil

	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n

	default:
		m.tabActive = true
		m.preTab = draft{m.input.Value(), m.input.Position()}

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord substitutes replacement for the word under the cursor
// and leaves the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	end := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(end)
	m.wordEnd = end
}

// refreshMatches recomputes completion candidates for the input. With
// autoConfirm set, a word that already equals its only candidate is
// accepted. Deleting or moving the cursor never accepts.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if only := m.matches[0].Str; m.input.Value()[m.wordStart:m.wordEnd] == only {
		replaceCurrentWord(m, only)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.drafts = [2]draft{}
	m.input.SetValue("")

	if err := m.history.Write(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not write history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := tea.Println(echoLine(modeEval, input))

	lines, err := m.session.RunString(m.ctxFunc(), input)

	m.logger.TraceContext(m.ctxFunc(), "repl run",
		slog.String("input", input),
		slog.Int("lines", len(lines)),
		slog.Any("error", err))

	switch {
	case err != nil:
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))

	case len(lines) == 0:
		return m, echo
	}

	return m, tea.Sequence(echo, tea.Println(formatOutput(lines)))
}

// ctrlCommand runs one control command with its arguments.
type ctrlCommand func(m model, args []string) (model, tea.Cmd)

// ctrlAliases maps abbreviations to the names in ctrlCommands.
var ctrlAliases = map[string]string{
	"h": "help", "l": "list", "e": "edit", "r": "reset",
	"c": "clear", "q": "quit", "exit": "quit",
}

var ctrlTable = map[string]ctrlCommand{
	"help": func(m model, _ []string) (model, tea.Cmd) {
		return m, tea.Println(helpText)
	},
	"list": func(m model, args []string) (model, tea.Cmd) {
		return m, tea.Println(m.listFunctions(args...))
	},
	"edit": func(m model, _ []string) (model, tea.Cmd) {
		return m, m.handleEdit()
	},
	"reset": func(m model, _ []string) (model, tea.Cmd) {
		m.session.Reset()

		return m, tea.Println(hintStyle.Render("all functions forgotten"))
	},
	"clear": func(m model, _ []string) (model, tea.Cmd) {
		return m, tea.ClearScreen
	},
	"quit": func(m model, _ []string) (model, tea.Cmd) {
		m.quitting = true

		return m, tea.Quit
	},
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return m, nil
	}

	name, args := fields[0], fields[1:]
	if full, ok := ctrlAliases[name]; ok {
		name = full
	}

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", name),
		slog.Any("args", args))

	run, ok := ctrlTable[name]
	if !ok {
		return m, tea.Println(errorStyle.Render("unknown command: " + fields[0] + " (try help)"))
	}

	if name == "clear" {
		return run(m, args)
	}

	m, cmd := run(m, args)

	return m, tea.Sequence(tea.Println(echoLine(modeCtrl, input)), cmd)
}

func (m model) handleEdit() tea.Cmd {
	cmd := &editFuncsCommand{
		session: m.session,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case !cmd.applied:
			return editCancelledMsg{}
		}

		return editAppliedMsg{output: cmd.output}
	})
}

// seekHistory returns the index of the nearest entry past from, in the
// direction of step, that keep accepts. It returns -1 if there is none.
func (m model) seekHistory(from, step int, keep func(HistoryEntry) bool) (int, HistoryEntry) {
	for i := from + step; i >= 0 && i < m.history.Len(); i += step {
		if entry, err := m.history.GetEntry(i); err == nil && keep(entry) {
			return i, entry
		}
	}

	return -1, HistoryEntry{}
}

// showHistory places entry i in the input.
func (m *model) showHistory(i int, entry HistoryEntry) {
	m.historyIdx = i
	m.setInput(draft{entry.Line, len(entry.Line)})
	refreshMatches(m, false)
}

// clearHistoryView leaves history browsing with an empty input.
func (m *model) clearHistoryView() {
	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	refreshMatches(m, false)
}

func (m model) historyPrev() (model, tea.Cmd) { return m.browseHistory(-1, false) }

func (m model) historyNext() (model, tea.Cmd) { return m.browseHistory(1, false) }

// browseHistory moves through history by step. Unless sameMode is set, the
// input mode follows each entry. Moving past the newest entry clears the
// input.
func (m model) browseHistory(step int, sameMode bool) (model, tea.Cmd) {
	mode := m.mode

	i, entry := m.seekHistory(m.historyIdx, step, func(e HistoryEntry) bool {
		return !sameMode || e.Mode == mode
	})

	switch {
	case i >= 0:
		if entry.Mode != m.mode {
			m, _ = m.switchToMode(entry.Mode)
		}

		m.showHistory(i, entry)

	case step > 0 && m.historyIdx < m.history.Len():
		m.clearHistoryView()
	}

	return m, nil
}

// browseCtrlHistory moves through control history only. The input it
// replaced comes back once either end is passed.
func (m model) browseCtrlHistory(step int) (model, tea.Cmd) {
	if !m.alt.active {
		m.alt = altNav{
			active: true,
			mode:   m.mode,
			draft:  draft{m.input.Value(), m.input.Position()},
		}

		if m.mode != modeCtrl {
			m, _ = m.switchToMode(modeCtrl)
		}
	}

	i, entry := m.seekHistory(m.historyIdx, step, func(e HistoryEntry) bool {
		return e.Mode == modeCtrl
	})
	if i >= 0 {
		m.showHistory(i, entry)

		return m, nil
	}

	m.alt.active = false
	if m.alt.mode != m.mode {
		m, _ = m.switchToMode(m.alt.mode)
	}

	m.historyIdx = m.history.Len()
	m.setInput(m.alt.draft)
	refreshMatches(&m, false)

	return m, nil
}

// listFunctions lists the declared functions with a one-line preview of each
// body. With names given, only those functions are listed.
func (m model) listFunctions(names ...string) string {
	if len(names) == 0 {
		names = m.session.Functions()
	}

	if len(names) == 0 {
		return hintStyle.Render("  (no functions)")
	}

	var b strings.Builder

	for _, name := range names {
		fn, ok := m.session.Lookup(name)
		if !ok {
			fmt.Fprintf(&b, "  %s %s\n", name, errorStyle.Render("not found"))

			continue
		}

		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render("{ "+fn.Body.String()+" }"))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m *model) setInput(d draft) {
	m.input.SetValue(d.text)
	m.input.SetCursor(d.cursor)
}

func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode saves the draft of the current mode and restores the draft
// of mode.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	m.drafts[m.mode] = draft{m.input.Value(), m.input.Position()}
	m.mode = mode

	if mode == modeCtrl {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	} else {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	}

	m.setInput(m.drafts[mode])
	refreshMatches(&m, false)

	return m, nil
}

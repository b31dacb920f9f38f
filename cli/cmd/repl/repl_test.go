package repl

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/basher/lang"
	"github.com/ardnew/basher/log"
)

func newTestModel(t *testing.T) model {
	t.Helper()

	shell := newTestShell(t)

	return newModel(
		context.Background(),
		lang.NewSession(shell),
		shell,
		NewHistory(""),
		log.Logger{},
	)
}

func typeInput(m model, s string) model {
	m.input.SetValue(s)
	m.input.SetCursor(len(s))

	return m
}

func TestExecuteInputDeclaresFunctions(t *testing.T) {
	m := newTestModel(t)

	m = typeInput(m, "top() { seq 3 | head -n 1 }")
	m, cmd := m.executeInput()
	require.NotNil(t, cmd)

	assert.Equal(t, []string{"top"}, m.session.Functions())
	assert.Empty(t, m.input.Value())
	assert.Equal(t, 1, m.history.Len())

	m = typeInput(m, "top() {")
	m, _ = m.executeInput()

	// A parse error leaves the declared functions unchanged.
	assert.Equal(t, []string{"top"}, m.session.Functions())
	assert.Equal(t, 2, m.history.Len())
}

func TestExecuteCommand(t *testing.T) {
	m := newTestModel(t)

	m = typeInput(m, "f() { true }; g() { false }")
	m, _ = m.executeInput()
	require.Len(t, m.session.Functions(), 2)

	list := m.listFunctions()
	assert.Contains(t, list, "f")
	assert.Contains(t, list, "{ true }")
	assert.Contains(t, m.listFunctions("nope"), "not found")

	m, _ = m.switchToMode(modeCtrl)
	m = typeInput(m, "reset")
	m, _ = m.executeInput()
	assert.Empty(t, m.session.Functions())
	assert.Equal(t, modeCtrl, m.history.Entries()[1].Mode)

	m = typeInput(m, "quit")
	m, _ = m.executeInput()
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestToggleModePreservesInput(t *testing.T) {
	m := newTestModel(t)

	m = typeInput(m, "echo a")
	m, _ = m.toggleMode()
	assert.Equal(t, modeCtrl, m.mode)
	assert.Empty(t, m.input.Value())

	m = typeInput(m, "li")
	m, _ = m.toggleMode()
	assert.Equal(t, modeEval, m.mode)
	assert.Equal(t, "echo a", m.input.Value())

	m, _ = m.toggleMode()
	assert.Equal(t, "li", m.input.Value())
}

func TestHandleTabCompletes(t *testing.T) {
	m := newTestModel(t)

	m = typeInput(m, "seq 3 | so")
	refreshMatches(&m, false)
	require.Len(t, m.matches, 1)

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "seq 3 | sort", m.input.Value())
	assert.False(t, m.tabActive)
}

func TestHistoryNavigation(t *testing.T) {
	m := newTestModel(t)

	m = typeInput(m, "echo a")
	m, _ = m.executeInput()

	m, _ = m.switchToMode(modeCtrl)
	m = typeInput(m, "list")
	m, _ = m.executeInput()

	m, _ = m.historyPrev()
	assert.Equal(t, "list", m.input.Value())
	assert.Equal(t, modeCtrl, m.mode)

	m, _ = m.historyPrev()
	assert.Equal(t, "echo a", m.input.Value())
	assert.Equal(t, modeEval, m.mode)

	m, _ = m.historyNext()
	m, _ = m.historyNext()
	assert.Empty(t, m.input.Value())
}

func TestCycleCandidatesWraps(t *testing.T) {
	m := newTestModel(t)

	m = typeInput(m, "ls /home/user/")
	refreshMatches(&m, false)
	require.Len(t, m.matches, 2)

	first, second := m.matches[0].Str, m.matches[1].Str

	m, _ = m.cycleCandidates(1)
	assert.True(t, m.tabActive)
	assert.Equal(t, "ls "+first, m.input.Value())

	m, _ = m.cycleCandidates(1)
	assert.Equal(t, "ls "+second, m.input.Value())

	m, _ = m.cycleCandidates(1)
	assert.Equal(t, "ls "+first, m.input.Value())

	m, _ = m.cycleCandidates(-1)
	assert.Equal(t, "ls "+second, m.input.Value())

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.tabActive)
	assert.Equal(t, "ls /home/user/", m.input.Value())
	assert.Equal(t, modeEval, m.mode)
}

func TestBrowseCtrlHistoryRestoresInput(t *testing.T) {
	m := newTestModel(t)

	m = typeInput(m, "echo a")
	m, _ = m.executeInput()

	m, _ = m.switchToMode(modeCtrl)
	m = typeInput(m, "list")
	m, _ = m.executeInput()

	m, _ = m.switchToMode(modeEval)
	m = typeInput(m, "draft")

	m, _ = m.browseCtrlHistory(-1)
	assert.Equal(t, modeCtrl, m.mode)
	assert.Equal(t, "list", m.input.Value())

	m, _ = m.browseCtrlHistory(-1)
	assert.Equal(t, modeEval, m.mode)
	assert.Equal(t, "draft", m.input.Value())
	assert.False(t, m.alt.active)
}

func TestExecuteCommandAliases(t *testing.T) {
	m := newTestModel(t)

	m = typeInput(m, "f() { true }")
	m, _ = m.executeInput()
	require.Len(t, m.session.Functions(), 1)

	m, _ = m.switchToMode(modeCtrl)

	m, cmd := m.executeCommand("nope")
	assert.NotNil(t, cmd)
	assert.Len(t, m.session.Functions(), 1)

	m, _ = m.executeCommand("r")
	assert.Empty(t, m.session.Functions())

	m, _ = m.executeCommand("exit")
	assert.True(t, m.quitting)
}

package repl

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/basher/lang"
	"github.com/ardnew/basher/log"
	"github.com/ardnew/basher/sim"
)

func newTestShell(t *testing.T) *sim.Shell {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/home/user/docs", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/home/user/notes.txt", []byte("x\n"), 0o644))

	shell, err := sim.New(sim.WithFs(fs), sim.WithDir("/home/user"))
	require.NoError(t, err)

	return shell
}

func TestWordBounds_ShellOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "echo", 4, "echo", 0, 4},
		{"second_word", "echo hel", 8, "hel", 5, 8},
		{"after_pipe", "seq 3|so", 8, "so", 6, 8},
		{"after_and", "a && ec", 7, "ec", 5, 7},
		{"after_redir", "a > ec", 6, "ec", 4, 6},
		{"after_semicolon", "a;ec", 4, "ec", 2, 4},
		{"after_brace", "f() {ec", 7, "ec", 5, 7},
		{"empty_at_boundary", "echo ", 5, "", 5, 5},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		// Slashes and dots belong to path words.
		{"path", "cat /home/us", 12, "/home/us", 4, 12},
		{"dotted", "cat notes.t", 11, "notes.t", 4, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInCommandPosition(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      bool
	}{
		{"start", "ec", 0, true},
		{"leading_blank", "  ec", 2, true},
		{"argument", "echo a", 5, false},
		{"after_pipe", "seq 3 | so", 8, true},
		{"after_and", "a && b", 5, true},
		{"after_redir", "a > b", 4, true},
		{"after_semicolon", "a; b", 3, true},
		{"in_body", "f() { b", 6, true},
		{"after_body", "f() { a } b", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inCommandPosition(tt.input, tt.wordStart))
		})
	}
}

func TestCommandCandidates(t *testing.T) {
	shell := newTestShell(t)
	session := lang.NewSession(shell)

	_, err := session.RunString(context.Background(), "greet() { echo hi }; echo() { true }")
	require.NoError(t, err)

	names := commandCandidates(session, shell)

	assert.Equal(t, []string{"echo", "greet"}, names[:2])
	assert.Contains(t, names, "sort")
	assert.Equal(t, 1, countOf(names, "echo"))

	assert.Empty(t, commandCandidates(nil, nil))
}

func countOf(s []string, v string) int {
	n := 0

	for _, e := range s {
		if e == v {
			n++
		}
	}

	return n
}

func TestPathCandidates(t *testing.T) {
	shell := newTestShell(t)

	assert.ElementsMatch(t,
		[]string{"docs/", "notes.txt"},
		pathCandidates(shell, "no"))

	assert.ElementsMatch(t,
		[]string{"/home/user/docs/", "/home/user/notes.txt"},
		pathCandidates(shell, "/home/user/"))

	assert.Nil(t, pathCandidates(shell, "/missing/x"))
	assert.Nil(t, pathCandidates(nil, "x"))
}

func TestComputeMatches(t *testing.T) {
	shell := newTestShell(t)
	session := lang.NewSession(shell)
	m := newModel(context.Background(), session, shell, NewHistory(""), log.Logger{})

	m.input.SetValue("seq 3 | so")
	m.input.SetCursor(len("seq 3 | so"))

	matches, _, start, end := m.computeMatches()
	require.NotEmpty(t, matches)
	assert.Equal(t, "sort", matches[0].Str)
	assert.Equal(t, 8, start)
	assert.Equal(t, 10, end)

	// Argument words complete against the simulated filesystem.
	m.input.SetValue("cat not")
	m.input.SetCursor(len("cat not"))

	matches, _, _, _ = m.computeMatches()
	require.NotEmpty(t, matches)
	assert.Equal(t, "notes.txt", matches[0].Str)

	// A trailing slash lists the whole directory.
	m.input.SetValue("ls /home/user/")
	m.input.SetCursor(len("ls /home/user/"))

	matches, _, _, _ = m.computeMatches()
	assert.Len(t, matches, 2)

	m.mode = modeCtrl
	m.input.SetValue("ed")
	m.input.SetCursor(2)

	matches, _, _, _ = m.computeMatches()
	require.NotEmpty(t, matches)
	assert.Equal(t, "edit", matches[0].Str)
}

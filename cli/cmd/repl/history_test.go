package repl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHistoryEntry(t *testing.T) {
	tests := []struct {
		line string
		want HistoryEntry
		ok   bool
	}{
		{"E:echo hi", HistoryEntry{Line: "echo hi", Mode: modeEval}, true},
		{"C:list", HistoryEntry{Line: "list", Mode: modeCtrl}, true},
		{"seq 3", HistoryEntry{Line: "seq 3", Mode: modeEval}, true},
		{"   ", HistoryEntry{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := parseHistoryEntry(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHistoryPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	require.NoError(t, h.Load())
	assert.Equal(t, 0, h.Len())

	require.NoError(t, h.Write("echo a", modeEval))
	require.NoError(t, h.Write("list", modeCtrl))
	require.NoError(t, h.Write("  ", modeEval))
	require.NoError(t, h.Write("echo a", modeEval)) // moved to the end

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "C:list\nE:echo a\n", string(data))

	reloaded := NewHistory(path)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, []HistoryEntry{
		{Line: "list", Mode: modeCtrl},
		{Line: "echo a", Mode: modeEval},
	}, reloaded.Entries())

	entry, err := reloaded.GetEntry(1)
	require.NoError(t, err)
	assert.Equal(t, "echo a", entry.Line)

	_, err = reloaded.GetEntry(2)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestHistoryInMemory(t *testing.T) {
	h := NewHistory("")
	require.NoError(t, h.Load())

	require.NoError(t, h.Write("echo a", modeEval))
	require.NoError(t, h.Write("echo a", modeEval))
	require.NoError(t, h.Write("echo a", modeCtrl))

	assert.Equal(t, 2, h.Len())
}

func TestHistoryTrim(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	var b strings.Builder
	for i := range maxHistory + 5 {
		b.WriteString("E:echo ")
		b.WriteString(strings.Repeat("x", i+1))
		b.WriteString("\n")
	}

	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))

	h := NewHistory(path)
	require.NoError(t, h.Load())
	assert.Equal(t, maxHistory, h.Len())

	first, err := h.GetEntry(0)
	require.NoError(t, err)
	assert.Equal(t, "echo "+strings.Repeat("x", 6), first.Line)
}

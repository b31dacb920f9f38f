package repl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/basher/lang"
)

func TestDetectCommandCall(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cursor int
		want   commandCall
	}{
		{"empty", "", 0, commandCall{}},
		{"typing_name", "ech", 3, commandCall{}},
		{"after_name", "echo ", 5, commandCall{name: "echo", argIndex: 0, inCall: true}},
		{"first_arg", "echo a", 6, commandCall{name: "echo", argIndex: 0, inCall: true}},
		{"second_arg", "echo a b", 8, commandCall{name: "echo", argIndex: 1, inCall: true}},
		{"quoted_arg", `echo "a b" c`, 12, commandCall{name: "echo", argIndex: 1, inCall: true}},
		{"after_pipe", "seq 3 | sort -", 14, commandCall{name: "sort", argIndex: 0, inCall: true}},
		{"new_call", "seq 3 | ", 8, commandCall{}},
		{"in_body", "f() { head -n", 13, commandCall{name: "head", argIndex: 0, inCall: true}},
		{"cursor_mid", "echo a | sort", 6, commandCall{name: "echo", argIndex: 0, inCall: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectCommandCall(tt.input, tt.cursor))
		})
	}
}

func TestDescribeCommand(t *testing.T) {
	shell := newTestShell(t)
	session := lang.NewSession(shell)

	_, err := session.RunString(context.Background(), "top() { seq 3 | head -n 1 }")
	require.NoError(t, err)

	kind, detail := describeCommand(session, shell, "top")
	assert.Equal(t, "function", kind)
	assert.Equal(t, "top() { seq 3 | head -n 1 }", detail)

	kind, detail = describeCommand(session, shell, "sort")
	assert.Equal(t, "command", kind)
	assert.Equal(t, "/usr/bin/sort", detail)

	kind, detail = describeCommand(session, shell, "nope")
	assert.Empty(t, kind)
	assert.Empty(t, detail)
}

func TestRenderCommandHint(t *testing.T) {
	call := commandCall{name: "sort", argIndex: 1, inCall: true}

	assert.Empty(t, renderCommandHint(commandCall{}, "command", "/usr/bin/sort"))
	assert.Contains(t, renderCommandHint(call, "command", "/usr/bin/sort"), "/usr/bin/sort")
	assert.Contains(t, renderCommandHint(call, "command", "/usr/bin/sort"), "$2")
	assert.Contains(t, renderCommandHint(call, "", ""), "not found")
}

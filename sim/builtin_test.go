package sim

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnescape(t *testing.T) {
	cases := []struct {
		escaped  string
		expected string
	}{
		{"not escaped", "not escaped"},
		{`newline\n`, "newline\n"},
		{`double-escape\\n`, `double-escape\n`},
		{`\011`, "\t"},
		{`\0101`, "A"},
		{`\x9`, "\t"},
		{`\x4A`, "J"},
	}

	for _, tc := range cases {
		t.Run(tc.escaped, func(t *testing.T) {
			assert.Equal(t, tc.expected, unescape(tc.escaped))
		})
	}
}

// invokeCase runs one command on a shell whose filesystem holds files.
type invokeCase struct {
	name  string
	cmd   string
	args  []string
	piped bool
	want  []string
}

func runInvokeCases(t *testing.T, files map[string]string, cases []invokeCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			for name, content := range files {
				require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
			}

			sh, _ := newShell(t, WithFs(fs))

			assert.Equal(t, tc.want, sh.Invoke(tc.cmd, tc.args, tc.piped))
		})
	}
}

func TestEcho(t *testing.T) {
	runInvokeCases(t, nil, []invokeCase{
		{name: "empty", cmd: "echo", want: []string{""}},
		{name: "joined", cmd: "echo", args: []string{"a", "b c"}, want: []string{"a b c"}},
		{name: "piped", cmd: "echo", args: []string{"b", "a"}, piped: true, want: []string{"b a"}},
		{name: "escapes", cmd: "echo", args: []string{"-e", `x\ny`}, want: []string{"x", "y"}},
		{name: "literal", cmd: "echo", args: []string{`x\ny`}, want: []string{`x\ny`}},
		{name: "bad flag", cmd: "echo", args: []string{"-z"}, want: nil},
	})
}

func TestCat(t *testing.T) {
	files := map[string]string{
		"/a.txt": "alpha\n",
		"/b.txt": "beta\ngamma\n",
	}

	runInvokeCases(t, files, []invokeCase{
		{name: "one", cmd: "cat", args: []string{"a.txt"}, want: []string{"alpha"}},
		{name: "many", cmd: "cat", args: []string{"a.txt", "/b.txt"}, want: []string{"alpha", "beta", "gamma"}},
		{name: "numbered", cmd: "cat", args: []string{"-n", "b.txt"}, want: []string{"     1\tbeta", "     2\tgamma"}},
		{name: "piped", cmd: "cat", args: []string{"a.txt", "x"}, piped: true, want: []string{"a.txt", "x"}},
		{name: "missing", cmd: "cat", args: []string{"nope"}, want: nil},
		{name: "no input", cmd: "cat", want: nil},
	})
}

func TestLs(t *testing.T) {
	files := map[string]string{
		"/d/one":     "",
		"/d/two":     "",
		"/d/.hidden": "",
		"/e/three":   "",
	}

	runInvokeCases(t, files, []invokeCase{
		{name: "dir", cmd: "ls", args: []string{"/d"}, want: []string{"one", "two"}},
		{name: "all", cmd: "ls", args: []string{"-a", "d"}, want: []string{".hidden", "one", "two"}},
		{name: "file", cmd: "ls", args: []string{"/d/one"}, want: []string{"/d/one"}},
		{name: "many", cmd: "ls", args: []string{"e", "d"}, want: []string{"d:", "one", "two", "", "e:", "three"}},
		{name: "missing", cmd: "ls", args: []string{"nope"}, want: nil},
	})
}

func TestMkdirTouch(t *testing.T) {
	sh, stderr := newShell(t)

	assert.Equal(t, []string{`mkdir: created directory "a/b"`},
		sh.Invoke("mkdir", []string{"-pv", "a/b"}, false))

	ok, err := afero.DirExists(sh.Fs(), "/a/b")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Nil(t, sh.Invoke("mkdir", []string{"a/b"}, false))
	assert.Contains(t, stderr.String(), `mkdir: cannot create directory "a/b"`)

	assert.Nil(t, sh.Invoke("touch", []string{"-c", "a/b/none"}, false))
	ok, err = afero.Exists(sh.Fs(), "/a/b/none")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Nil(t, sh.Invoke("touch", []string{"a/b/f"}, false))
	ok, err = afero.Exists(sh.Fs(), "/a/b/f")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []string{"f"}, sh.Invoke("ls", []string{"a/b"}, false))

	stderr.Reset()
	assert.Nil(t, sh.Invoke("mkdir", nil, false))
	assert.Equal(t, "mkdir: missing operand\n", stderr.String())
}

func TestWc(t *testing.T) {
	files := map[string]string{
		"/a": "one two\nthree\n",
		"/b": "x\n",
	}

	runInvokeCases(t, files, []invokeCase{
		{name: "default", cmd: "wc", args: []string{"a"}, want: []string{"2 3 14 a"}},
		{name: "lines", cmd: "wc", args: []string{"-l", "a", "b"}, want: []string{"2 a", "1 b", "3 total"}},
		{name: "piped", cmd: "wc", args: []string{"-l", "x", "y", "z"}, piped: true, want: []string{"3"}},
		{name: "piped words", cmd: "wc", args: []string{"-w", "a b", "c"}, piped: true, want: []string{"3"}},
		{name: "empty", cmd: "wc", args: []string{"-c"}, want: []string{"0"}},
	})
}

func TestSort(t *testing.T) {
	runInvokeCases(t, nil, []invokeCase{
		{name: "lexical", cmd: "sort", args: []string{"b", "10", "a", "9"}, piped: true, want: []string{"10", "9", "a", "b"}},
		{name: "numeric", cmd: "sort", args: []string{"-n", "10", "9", "-1"}, piped: true, want: []string{"-1", "9", "10"}},
		{name: "reverse", cmd: "sort", args: []string{"-r", "a", "c", "b"}, piped: true, want: []string{"c", "b", "a"}},
		{name: "unique", cmd: "sort", args: []string{"-u", "b", "a", "b"}, piped: true, want: []string{"a", "b"}},
		{name: "dash line", cmd: "sort", args: []string{"-l", "b"}, piped: true, want: nil},
		{name: "dash line after end of flags", cmd: "sort", args: []string{"--", "-l", "b"}, piped: true, want: []string{"-l", "b"}},
	})
}

func TestHeadTail(t *testing.T) {
	lines := []string{"1", "2", "3", "4"}

	runInvokeCases(t, nil, []invokeCase{
		{name: "head", cmd: "head", args: append([]string{"-n", "2"}, lines...), piped: true, want: []string{"1", "2"}},
		{name: "head long", cmd: "head", args: append([]string{"--lines=9"}, lines...), piped: true, want: lines},
		{name: "head zero", cmd: "head", args: append([]string{"-n", "0"}, lines...), piped: true, want: nil},
		{name: "tail", cmd: "tail", args: append([]string{"-n", "3"}, lines...), piped: true, want: []string{"2", "3", "4"}},
		{name: "tail default", cmd: "tail", args: lines, piped: true, want: lines},
		{name: "tail negative", cmd: "tail", args: append([]string{"-n", "-1"}, lines...), piped: true, want: nil},
	})
}

func TestGrep(t *testing.T) {
	files := map[string]string{
		"/a": "apple\nBanana\ncherry\n",
		"/b": "avocado\n",
	}

	runInvokeCases(t, files, []invokeCase{
		{name: "file", cmd: "grep", args: []string{"an", "a"}, want: []string{"Banana"}},
		{name: "ignore case", cmd: "grep", args: []string{"-i", "^b", "a"}, want: []string{"Banana"}},
		{name: "invert", cmd: "grep", args: []string{"-v", "an", "a"}, want: []string{"apple", "cherry"}},
		{name: "numbers", cmd: "grep", args: []string{"-n", "rr", "a"}, want: []string{"3:cherry"}},
		{name: "many files", cmd: "grep", args: []string{"^a", "a", "b"}, want: []string{"a:apple", "b:avocado"}},
		{name: "count", cmd: "grep", args: []string{"-c", "a", "a"}, want: []string{"2"}},
		{name: "piped", cmd: "grep", args: []string{"o", "foo", "bar", "boo"}, piped: true, want: []string{"foo", "boo"}},
		{name: "no match", cmd: "grep", args: []string{"zzz", "a"}, want: nil},
		{name: "bad pattern", cmd: "grep", args: []string{"(", "a"}, want: nil},
		{name: "no pattern", cmd: "grep", want: nil},
	})
}

func TestSeq(t *testing.T) {
	runInvokeCases(t, nil, []invokeCase{
		{name: "last", cmd: "seq", args: []string{"3"}, want: []string{"1", "2", "3"}},
		{name: "first last", cmd: "seq", args: []string{"2", "4"}, want: []string{"2", "3", "4"}},
		{name: "increment", cmd: "seq", args: []string{"10", "-5", "0"}, want: []string{"10", "5", "0"}},
		{name: "separator", cmd: "seq", args: []string{"-s", ",", "3"}, want: []string{"1,2,3"}},
		{name: "empty range", cmd: "seq", args: []string{"0"}, want: nil},
		{name: "zero increment", cmd: "seq", args: []string{"1", "0", "3"}, want: nil},
		{name: "not a number", cmd: "seq", args: []string{"x"}, want: nil},
		{name: "no operand", cmd: "seq", want: nil},
		{
			name: "max int", cmd: "seq",
			args: []string{"9223372036854775806", "9223372036854775807"},
			want: []string{"9223372036854775806", "9223372036854775807"},
		},
		{
			name: "min int", cmd: "seq",
			args: []string{"--", "-9223372036854775807", "-1", "-9223372036854775808"},
			want: []string{"-9223372036854775807", "-9223372036854775808"},
		},
		{
			name: "large step", cmd: "seq",
			args: []string{"9223372036854775800", "5", "9223372036854775807"},
			want: []string{"9223372036854775800", "9223372036854775805"},
		},
	})
}

func TestExpr(t *testing.T) {
	runInvokeCases(t, nil, []invokeCase{
		{name: "arithmetic", cmd: "expr", args: []string{"1", "+", "2"}, want: []string{"3"}},
		{name: "string", cmd: "expr", args: []string{`"a" + "b"`}, want: []string{"ab"}},
		{name: "cwd", cmd: "expr", args: []string{"cwd"}, want: []string{"/"}},
		{name: "piped input", cmd: "expr", args: []string{"len(input)", "x", "y"}, piped: true, want: []string{"2"}},
		{name: "compile error", cmd: "expr", args: []string{"1", "+"}, want: nil},
		{name: "empty", cmd: "expr", want: nil},
	})
}

func TestHelp(t *testing.T) {
	sh, stderr := newShell(t)

	assert.Nil(t, sh.Invoke("grep", []string{"--help"}, false))
	assert.Contains(t, stderr.String(), "usage: grep [-civn] PATTERN [FILE]...")
}

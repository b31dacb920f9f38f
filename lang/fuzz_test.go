package lang

import (
	"bytes"
	"testing"
	"unicode/utf8"
)

// FuzzParseString checks that the parser never panics and that formatting
// any accepted program yields source that parses back to the same tree.
func FuzzParseString(f *testing.F) {
	f.Add("echo hi")
	f.Add("greet(){ echo hi }\ngreet && echo bye")
	f.Add("a | b > c && d")
	f.Add(`echo "a b" 'c;d' e\ f`)
	f.Add("f() { g() { h } }")
	f.Add("echo a &&\n echo b # comment")
	f.Add("echo a || b")
	f.Add("}{)(")
	f.Add("echo 'unterminated")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		scope, err := ParseString(t.Context(), input, WithCache(false))
		if err != nil {
			if scope != nil {
				t.Errorf("partial tree returned with error: %v", err)
			}

			return
		}

		var buf bytes.Buffer
		if err := scope.Format(t.Context(), &buf, 2); err != nil {
			t.Fatalf("format error: %v", err)
		}

		again, err := ParseString(t.Context(), buf.String(), WithCache(false))
		if err != nil {
			t.Fatalf("formatted source does not parse: %v\ninput: %q\nformatted: %q", err, input, buf.String())
		}

		if scope.String() != again.String() {
			t.Errorf("round trip changed tree:\ninput: %q\n got: %q\nwant: %q", input, again.String(), scope.String())
		}
	})
}

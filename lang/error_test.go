package lang

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestError_WrapMatchesSentinel(t *testing.T) {
	cause := errors.New("disk on fire")
	err := ErrReadInput.Wrap(cause).With(slog.String("source", "stdin"))

	if !errors.Is(err, ErrReadInput) {
		t.Error("expected derived error to match its sentinel")
	}

	if !errors.Is(err, cause) {
		t.Error("expected derived error to match its cause")
	}

	if errors.Is(err, ErrInvalidFormat) {
		t.Error("did not expect derived error to match another sentinel")
	}

	if got, want := err.Error(), "failed to read input: disk on fire"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	group := err.LogValue().Group()
	if len(group) != 3 || group[2].Key != "source" {
		t.Errorf("unexpected log value: %v", group)
	}
}

func TestWrapError(t *testing.T) {
	if got := WrapError(ErrSyntax); got != ErrSyntax {
		t.Error("expected WrapError to return an existing *Error unchanged")
	}

	plain := errors.New("plain")
	if got := WrapError(plain); !errors.Is(got, plain) {
		t.Error("expected WrapError to wrap a plain error")
	}
}

func TestSyntaxError_Message(t *testing.T) {
	_, err := ParseString(t.Context(), "echo ok\necho a || b")

	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SyntaxError, got %T: %v", err, err)
	}

	want := strings.Join([]string{
		`syntax error at line 2, column 8: unsupported operator: "||"`,
		"  2 | echo a || b",
		"             ^",
	}, "\n")

	if got := se.Error(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	if se.Headline() != strings.SplitN(want, "\n", 2)[0] {
		t.Errorf("unexpected headline %q", se.Headline())
	}
}

func TestSyntaxError_NoSource(t *testing.T) {
	se := &SyntaxError{Pos: Position{Line: 4, Column: 2}, Err: ErrMissingCall}

	if se.Snippet() != "" {
		t.Errorf("expected empty snippet, got %q", se.Snippet())
	}

	if got := se.Error(); got != "syntax error at line 4, column 2: operator requires a command on both sides" {
		t.Errorf("unexpected message %q", got)
	}
}

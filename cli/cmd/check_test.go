package cmd

import (
	"errors"
	"strings"
	"testing"
)

func TestCheckList(t *testing.T) {
	path := writeScript(t, t.TempDir(), "lib.sh", "a() { true }\n\nb() {\n  c() { false }\n}\n")

	ctx, out, errOut := testStreams("")

	if err := (&Check{List: true, Files: []string{path}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	want := path + ":1:1: a\n" + path + ":3:1: b\n"
	if got := out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if errOut.Len() != 0 {
		t.Errorf("unexpected stderr %q", errOut.String())
	}
}

func TestCheckReportsEverySource(t *testing.T) {
	dir := t.TempDir()
	good := writeScript(t, dir, "good.sh", "echo ok\n")
	bad := writeScript(t, dir, "bad.sh", "echo |\n")
	worse := writeScript(t, dir, "worse.sh", "f() {\n")

	ctx, _, errOut := testStreams("")

	err := (&Check{Files: []string{bad, good, worse}}).Run(ctx)
	if !errors.Is(err, ErrCheck) {
		t.Fatalf("got %v, want %v", err, ErrCheck)
	}

	lines := strings.Split(strings.TrimSpace(errOut.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d error lines:\n%s", len(lines), errOut.String())
	}

	if !strings.HasPrefix(lines[0], bad+": ") || !strings.HasPrefix(lines[1], worse+": ") {
		t.Errorf("unexpected errors:\n%s", errOut.String())
	}

	for _, line := range lines {
		if !strings.Contains(line, "syntax error at line ") {
			t.Errorf("missing headline in %q", line)
		}
	}
}

func TestCheckInline(t *testing.T) {
	ctx, _, _ := testStreams("")

	if err := (&Check{Command: "seq 3 | sort -r"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestVersion(t *testing.T) {
	ctx, out, _ := testStreams("")

	if err := (&Version{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(out.String(), "basher ") {
		t.Errorf("got %q", out.String())
	}

	ctx, out, _ = testStreams("")

	if err := (&Version{Short: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if strings.HasPrefix(out.String(), "basher") || !strings.HasSuffix(out.String(), "\n") {
		t.Errorf("got %q", out.String())
	}
}

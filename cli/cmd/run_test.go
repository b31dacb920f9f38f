package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/ardnew/basher/pkg"
)

func TestRunInline(t *testing.T) {
	ctx, out, _ := testStreams("")

	r := &Run{Shell: Shell{Dir: "/"}, Command: "seq 5 | sort -r | head -n 2"}
	if err := r.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "5\n4\n" {
		t.Errorf("got %q", got)
	}
}

// TestRunSharesFunctions tests that functions declared by one file are
// callable from the next.
func TestRunSharesFunctions(t *testing.T) {
	dir := t.TempDir()
	lib := writeScript(t, dir, "lib.sh", "greet() { echo hello }\n")
	script := writeScript(t, dir, "main.sh", "greet | wc -w\n")

	ctx, out, _ := testStreams("")

	r := &Run{Shell: Shell{Dir: "/"}, Files: []string{lib, script}}
	if err := r.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "1\n" {
		t.Errorf("got %q", got)
	}
}

func TestRunFromStdin(t *testing.T) {
	ctx, out, errOut := testStreams("mkdir -p /tmp/x && ls /tmp\nnope\n")

	r := &Run{Shell: Shell{Dir: "/", Timeout: time.Minute}}
	if err := r.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "x\n" {
		t.Errorf("got %q", got)
	}

	if got := errOut.String(); got != "nope: command not found\n" {
		t.Errorf("stderr %q", got)
	}
}

func TestRunParseError(t *testing.T) {
	ctx, out, _ := testStreams("")

	r := &Run{Shell: Shell{Dir: "/"}, Command: "echo a |"}

	err := r.Run(ctx)
	if !errors.Is(err, pkg.ErrParse) {
		t.Errorf("got %v, want %v", err, pkg.ErrParse)
	}

	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}

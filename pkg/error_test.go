package pkg

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Wrap(t *testing.T) {
	cause := errors.New("disk on fire")
	err := ErrReadInput.Wrap(cause)

	if got, want := err.Error(), "failed to read input: disk on fire"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !errors.Is(err, cause) {
		t.Error("expected wrapped error to match cause")
	}

	if !errors.Is(err, ErrReadInput) {
		t.Error("expected wrapped error to match sentinel")
	}

	if errors.Is(err, ErrParse) {
		t.Error("did not expect wrapped error to match unrelated sentinel")
	}

	if len(ErrReadInput) != 1 {
		t.Errorf("sentinel mutated by Wrap: len = %d", len(ErrReadInput))
	}
}

func TestError_Wrapf(t *testing.T) {
	err := ErrInvalidFormat.Wrapf("format %q", "toml")

	if got, want := err.Error(), `invalid format: format "toml"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestMakeError_SkipsNil(t *testing.T) {
	if err := MakeError(nil, nil); len(err) != 0 {
		t.Errorf("expected empty chain, got %v", err)
	}
}

func TestUnwrapErrors_Order(t *testing.T) {
	inner := errors.New("inner")
	outer := fmt.Errorf("outer: %w", inner)

	chain := UnwrapErrors(outer)
	if len(chain) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(chain))
	}

	if chain[0] != inner || chain[1] != outer {
		t.Errorf("unexpected chain order: %v", chain)
	}
}

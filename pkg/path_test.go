package pkg

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestPrefixOf(t *testing.T) {
	tests := []struct {
		exe  string
		want string
	}{
		{"/usr/local/bin/basher", "basher"},
		{"/opt/bin/bsh.exe", "bsh"},
		{"/tmp/.hidden", "hidden"},
		{"/tmp/__debug_bin123", Name},
		{"/tmp/...", Name},
	}

	for _, tt := range tests {
		t.Run(tt.exe, func(t *testing.T) {
			if got := prefixOf(tt.exe); got != tt.want {
				t.Errorf("prefixOf(%q) = %q, want %q", tt.exe, got, tt.want)
			}
		})
	}
}

func TestUserDir(t *testing.T) {
	base := t.TempDir()

	got := userDir(func() (string, error) { return base, nil }, ".config")
	if want := filepath.Join(base, Prefix()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	t.Setenv("HOME", base)

	got = userDir(func() (string, error) { return "", errors.New("unset") }, ".cache")
	if want := filepath.Join(base, ".cache", Prefix()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

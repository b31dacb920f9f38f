package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	mode, path, quiet := NewConfig()()
	assert.Empty(t, mode)
	assert.Empty(t, path)
	assert.False(t, quiet)

	mode, path, quiet = NewConfig(
		WithMode("cpu"),
		WithPath("/tmp/prof"),
		WithQuiet(true),
	)()
	assert.Equal(t, "cpu", mode)
	assert.Equal(t, "/tmp/prof", path)
	assert.True(t, quiet)

	// Later options override earlier ones.
	mode, _, _ = NewConfig(WithMode("cpu"), WithMode("heap"))()
	assert.Equal(t, "heap", mode)
}

func TestStartDisabled(t *testing.T) {
	p := NewConfig(WithPath(t.TempDir())).Start()
	assert.IsType(t, ignore{}, p)
	p.Stop()
}

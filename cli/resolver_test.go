package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/basher/pkg"
)

func load(t *testing.T, doc string) config {
	t.Helper()

	res, err := resolve(context.Background())(strings.NewReader(doc))
	require.NoError(t, err)

	cfg, ok := res.(config)
	require.True(t, ok)

	return cfg
}

func TestResolveFlat(t *testing.T) {
	cfg := load(t, `
log-level: debug
log_pretty: false
max-depth: 12
timeout: 1.5s
`)

	assert.Equal(t, config{
		"log-level":  "debug",
		"log-pretty": false,
		"max-depth":  "12",
		"timeout":    "1.5s",
	}, cfg)
}

func TestResolveNested(t *testing.T) {
	cfg := load(t, `
log:
  level: trace
  format: json
dir: /tmp
`)

	assert.Equal(t, "trace", cfg["log-level"])
	assert.Equal(t, "json", cfg["log-format"])
	assert.Equal(t, "/tmp", cfg["dir"])
}

func TestResolveEmpty(t *testing.T) {
	assert.Empty(t, load(t, ""))
}

func TestResolveInvalid(t *testing.T) {
	_, err := resolve(context.Background())(strings.NewReader("log-level: [unterminated"))
	require.Error(t, err)
	assert.ErrorIs(t, err, pkg.ErrConfig)
}

func TestResolveFlag(t *testing.T) {
	cfg := config{"log-level": "debug"}

	v, err := cfg.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "log-level"}})
	require.NoError(t, err)
	assert.Equal(t, "debug", v)

	v, err = cfg.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "log-format"}})
	require.NoError(t, err)
	assert.Nil(t, v)
}

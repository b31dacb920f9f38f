// Package cmd implements the basher subcommands: run, check, fmt, repl,
// init, and version.
package cmd

import (
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/basher/lang"
)

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)

// Vars returns the kong variables referenced by command flag defaults.
func Vars() kong.Vars {
	return kong.Vars{
		"maxDepth":     strconv.Itoa(lang.DefaultMaxDepth),
		"maxCallDepth": strconv.Itoa(lang.DefaultMaxCallDepth),
	}
}

// Package cli contains the command line interface for basher.
//
// # Usage
//
// Scripts are run by default; the other commands check, format, and explore
// them interactively:
//
//	basher script.sh
//	basher -c 'seq 5 | sort -r | head -n 2'
//	basher check --list lib.sh
//	basher fmt json script.sh
//	basher repl lib.sh
//
// # Configuration
//
// Flag values are read from config.yaml in the user configuration directory
// (for example ~/.config/basher/config.yaml) before the command line is
// applied. `basher init` writes the current flag values to that file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o basher .
//
//   - --pprof-mode: Enable profiling (see [profile.Modes])
//   - --pprof-dir: Set profile output directory (default ~/.cache/basher/pprof)
package cli

// Package profile provides optional runtime profiling for basher.
//
// Profiling is compiled in only with the "pprof" build tag, which links
// [github.com/pkg/profile] and registers the [net/http/pprof] handlers.
// Without the tag every operation is a no-op.
//
//	go build -tags pprof -o basher .
//	basher --pprof-mode=cpu run script.sh
//	go tool pprof -http=: ~/.cache/basher/pprof/cpu.pprof
//
// [Modes] lists the supported modes (allocs, block, clock, cpu, goroutine,
// heap, mem, mutex, thread, trace). A profiler is described by a [Config]
// built with [WithMode], [WithPath], and [WithQuiet], then started with
// [Config.Start]. Profiles are written to the configured directory with
// names matching the mode, such as cpu.pprof.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

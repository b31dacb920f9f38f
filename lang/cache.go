package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// maxCacheEntries bounds the number of parse results kept in memory. The
// oldest entry is evicted first.
const maxCacheEntries = 256

// parseCache stores parse results keyed by a hash of the source text and
// the options that affect parsing. Trees are immutable, so cached scopes are
// shared between callers.
var parseCache = cache{entries: map[uint64]*cacheEntry{}}

type cache struct {
	mu      sync.Mutex
	entries map[uint64]*cacheEntry
	order   []uint64
}

// loadOrStore returns the entry for key, creating it if absent, and reports
// whether it was already present.
func (c *cache) loadOrStore(key uint64) (*cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		return entry, true
	}

	if len(c.order) >= maxCacheEntries {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}

	entry := new(cacheEntry)
	c.entries[key] = entry
	c.order = append(c.order, key)

	return entry, false
}

func (c *cache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func (c *cache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.order = nil
}

// cacheEntry tracks the parse state of one source.
type cacheEntry struct {
	once  sync.Once
	scope Scope
	err   error
}

// cacheKey hashes the source together with the options that change the
// parse result.
func cacheKey(source string, o options) uint64 {
	return xxh3.HashString(strconv.Itoa(o.maxDepth) + "\x00" + source)
}

// ParseReader parses source text read from r into a [Scope].
// The result is cached, so parsing identical content again is cheap.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (Scope, error) {
	o := makeOptions(opts...)

	// Wrap reader with async read-ahead so that reading overlaps with
	// allocation of the result buffer.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	o.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true))

	return parseSource(ctx, string(data), o)
}

// parseSource parses source, consulting the cache unless disabled.
func parseSource(ctx context.Context, source string, o options) (Scope, error) {
	if o.noCache {
		return parse(ctx, source, o)
	}

	key := cacheKey(source, o)

	entry, hit := parseCache.loadOrStore(key)

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("key", strconv.FormatUint(key, 16)),
		slog.Bool("cache_hit", hit))

	entry.once.Do(func() {
		entry.scope, entry.err = parse(ctx, source, o)
	})

	return entry.scope, entry.err
}

// ClearCache removes all cached parse results.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	parseCache.clear()
}

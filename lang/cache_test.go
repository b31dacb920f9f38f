package lang

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"testing/iotest"
)

func TestParseReader_Cached(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	source := "cached() { echo a }\ncached | cat"

	first, err := ParseReader(t.Context(), strings.NewReader(source))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	second, err := ParseReader(t.Context(), strings.NewReader(source))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if first[0] != second[0] {
		t.Error("expected identical sources to share a cached tree")
	}

	other, err := ParseReader(t.Context(), strings.NewReader(source), WithMaxDepth(5))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if other[0] == first[0] {
		t.Error("expected different parse options to bypass the cached tree")
	}

	ClearCache()

	third, err := ParseReader(t.Context(), strings.NewReader(source))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if third[0] == first[0] {
		t.Error("expected ClearCache to drop cached trees")
	}
}

func TestParseReader_CacheBounded(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	first, err := ParseReader(t.Context(), strings.NewReader("echo 0"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	for i := 1; i <= maxCacheEntries; i++ {
		if _, err := ParseReader(t.Context(), strings.NewReader("echo "+strconv.Itoa(i))); err != nil {
			t.Fatalf("parse error: %v", err)
		}
	}

	if n := parseCache.len(); n != maxCacheEntries {
		t.Errorf("expected %d cached trees, got %d", maxCacheEntries, n)
	}

	again, err := ParseReader(t.Context(), strings.NewReader("echo 0"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if again[0] == first[0] {
		t.Error("expected the oldest tree to be evicted")
	}
}

func TestParseReader_NoCache(t *testing.T) {
	source := "echo uncached"

	a, err := ParseReader(t.Context(), strings.NewReader(source), WithCache(false))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	b, err := ParseReader(t.Context(), strings.NewReader(source), WithCache(false))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if a[0] == b[0] {
		t.Error("expected separate trees with caching disabled")
	}
}

func TestParseReader_CachedError(t *testing.T) {
	t.Cleanup(ClearCache)

	for range 2 {
		_, err := ParseReader(t.Context(), strings.NewReader("echo 'open"))
		if !errors.Is(err, ErrUnterminatedQuote) {
			t.Fatalf("expected ErrUnterminatedQuote, got %v", err)
		}
	}
}

func TestParseReader_ReadError(t *testing.T) {
	boom := errors.New("boom")

	_, err := ParseReader(t.Context(), iotest.ErrReader(boom))
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("expected ErrReadInput, got %v", err)
	}

	if !errors.Is(err, boom) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
}

func BenchmarkParseReader_Cached(b *testing.B) {
	source := strings.Repeat("greet() { echo hi }\ngreet | cat > sink\n", 100)

	for b.Loop() {
		if _, err := ParseReader(b.Context(), strings.NewReader(source)); err != nil {
			b.Fatal(err)
		}
	}
}

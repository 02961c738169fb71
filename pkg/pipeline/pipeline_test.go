package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/anchorlayout/pkg/document"
	errs "github.com/matzehuels/anchorlayout/pkg/errors"
	"github.com/matzehuels/anchorlayout/pkg/layout"
	"github.com/matzehuels/anchorlayout/pkg/observability"
)

const corner = `
id = "root"
width = 200
height = 100

[[widget]]
id = "a"
width = 50
height = 20
connect = [
  { from = "left", to = "parent.left", margin = 10 },
  { from = "top", to = "parent.top", margin = 5 },
]
`

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func parse(t *testing.T, src string) *document.Document {
	t.Helper()
	doc, err := document.Parse([]byte(src), document.FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestSolve(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Solve(context.Background(), parse(t, corner), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("NullCache should never hit")
	}
	if res.Frames.Container != "root" || res.Frames.Stage != layout.StageDirect {
		t.Errorf("frames = %+v", res.Frames)
	}
	want := layout.Frame{ID: "a", Kind: "view", X: 10, Y: 5, Width: 50, Height: 20}
	var got layout.Frame
	for _, f := range res.Frames.Frames {
		if f.ID == "a" {
			got = f
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
}

func TestSolveUsesCache(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	doc := parse(t, corner)

	first, err := r.Solve(ctx, doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Solve(ctx, doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit || !second.CacheHit {
		t.Fatalf("cache hits = %v, %v; want false, true", first.CacheHit, second.CacheHit)
	}
	if diff := cmp.Diff(first.Frames, second.Frames); diff != "" {
		t.Errorf("cached frames differ (-solved +cached):\n%s", diff)
	}
	if first.DocHash != second.DocHash {
		t.Error("document hash should be stable")
	}

	// Different engine options use a different key.
	third, err := r.Solve(ctx, doc, Options{DisableDirect: true})
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("options should be part of the cache key")
	}

	// Refresh skips the lookup but still stores.
	sets := c.sets
	fourth, err := r.Solve(ctx, doc, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheHit || c.sets != sets+1 {
		t.Errorf("refresh: hit=%v sets=%d, want miss and one write", fourth.CacheHit, c.sets-sets)
	}
}

func TestSolveCorruptCacheEntry(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	doc := parse(t, corner)

	res, err := r.Solve(ctx, doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	key := r.Keyer.LayoutKey(res.DocHash, (&Options{}).LayoutKeyOpts())
	c.data[key] = []byte("{not json")

	res, err = r.Solve(ctx, doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("corrupt entry should be recomputed")
	}
}

func TestSolveFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corner.toml")
	if err := os.WriteFile(path, []byte(corner), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRunner(nil, nil, nil)
	if _, err := r.SolveFile(context.Background(), path, Options{}); err != nil {
		t.Fatal(err)
	}

	_, err := r.SolveFile(context.Background(), filepath.Join(dir, "missing.toml"), Options{})
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestSolveBuildError(t *testing.T) {
	doc := parse(t, `
[[widget]]
id = "a"
connect = [{ from = "left", to = "ghost.left" }]
`)
	_, err := NewRunner(nil, nil, nil).Solve(context.Background(), doc, Options{})
	if !errs.Is(err, errs.ErrCodeUnknownWidget) {
		t.Errorf("err = %v, want UNKNOWN_WIDGET", err)
	}
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil, nil, nil).Solve(ctx, parse(t, corner), Options{})
	if !errs.Is(err, errs.ErrCodeTimeout) {
		t.Errorf("err = %v, want TIMEOUT", err)
	}
}

func TestGraph(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	doc := parse(t, corner)

	data, err := r.Graph(ctx, doc, GraphOptions{})
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.HasPrefix(out, "digraph") {
		t.Errorf("DOT output should start with digraph:\n%s", out)
	}
	if !strings.Contains(out, "a horizontal") {
		t.Errorf("DOT output should name the run of a:\n%s", out)
	}
	if c.sets != 1 {
		t.Errorf("graph export should be cached, sets = %d", c.sets)
	}

	again, err := r.Graph(ctx, doc, GraphOptions{Format: FormatDOT})
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != out || c.sets != 1 {
		t.Error("second export should come from the cache")
	}
}

func TestGraphInvalidFormat(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Graph(context.Background(), parse(t, corner), GraphOptions{Format: "png"})
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestValidateGraphFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"DOT", true}, // case-sensitive
		{"png", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateGraphFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateGraphFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	mu           sync.Mutex
	hits, misses int
}

func (h *countingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	h.hits++
	h.mu.Unlock()
}

func (h *countingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	h.misses++
	h.mu.Unlock()
}

func TestSolveReportsCacheEvents(t *testing.T) {
	h := &countingHooks{}
	observability.SetCacheHooks(h)
	defer observability.Reset()

	r := NewRunner(newMemCache(), nil, nil)
	doc := parse(t, corner)
	for range 3 {
		if _, err := r.Solve(context.Background(), doc, Options{}); err != nil {
			t.Fatal(err)
		}
	}
	if h.hits != 2 || h.misses != 1 {
		t.Errorf("hits=%d misses=%d, want 2 and 1", h.hits, h.misses)
	}
}

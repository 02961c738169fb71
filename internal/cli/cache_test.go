package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/anchorlayout/pkg/cache"
)

func TestCountEntries(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := fc.Set(context.Background(), k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	n, err := countEntries(dir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("countEntries = %d, want 3", n)
	}
}

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(envCacheDir, dir)

	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", filepath.Join(dir, "absent.toml"), "cache", "path"})

	// An explicit but missing config file is an error.
	if err := root.Execute(); err == nil {
		t.Fatal("expected an error for a missing --config file")
	}

	root = New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(envCacheDir, dir)
	fc, _ := cache.NewFileCache(dir)
	_ = fc.Set(context.Background(), "k", []byte("v"), time.Hour)

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"cache", "clear"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	n, _ := countEntries(dir)
	if n != 0 {
		t.Errorf("%d entries left after clear", n)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir should still exist: %v", err)
	}
}

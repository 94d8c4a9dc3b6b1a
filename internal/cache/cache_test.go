package cache_test

import (
	"path/filepath"
	"testing"

	"github.com/petasbytes/twig/internal/cache"
)

func TestRoundTrip(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	if _, ok, err := c.Get("k1"); err != nil || ok {
		t.Fatalf("expected miss on empty cache: ok=%t err=%v", ok, err)
	}

	if err := c.Put("k1", "claude", "resp-1"); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := c.Get("k1")
	if err != nil || !ok || got != "resp-1" {
		t.Fatalf("get: got %q ok=%t err=%v", got, ok, err)
	}

	// Same key replaces.
	if err := c.Put("k1", "claude", "resp-2"); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, ok, _ = c.Get("k1")
	if !ok || got != "resp-2" {
		t.Fatalf("after replace: got %q ok=%t", got, ok)
	}
}

func TestPersistsAcrossOpens(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cache.sqlite")

	c, err := cache.Open(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := c.Put("k", "haiku", "v"); err != nil {
		t.Fatalf("put: %v", err)
	}
	c.Close()

	c2, err := cache.Open(p)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c2.Close()
	got, ok, err := c2.Get("k")
	if err != nil || !ok || got != "v" {
		t.Fatalf("get after reopen: got %q ok=%t err=%v", got, ok, err)
	}
}

func TestNilCacheIsNoOp(t *testing.T) {
	var c *cache.Cache
	if _, ok, err := c.Get("k"); ok || err != nil {
		t.Fatalf("nil get: ok=%t err=%v", ok, err)
	}
	if err := c.Put("k", "m", "v"); err != nil {
		t.Fatalf("nil put: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}

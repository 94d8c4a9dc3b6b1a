package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"

	"github.com/petasbytes/twig/internal/paths"
)

func TestOverride_RedirectsAllFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TWIG_DATA_DIR", dir)

	cases := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{"history", paths.HistoryFile, "history.json"},
		{"config", paths.ConfigFile, "config.yaml"},
		{"cache", paths.CacheFile, "cache.sqlite"},
		{"log", paths.LogFile, "twig.log"},
	}
	for _, c := range cases {
		got, err := c.fn()
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if got != filepath.Join(dir, c.want) {
			t.Fatalf("%s: got %q want %q", c.name, got, filepath.Join(dir, c.want))
		}
	}

	st, err := paths.StateDir()
	if err != nil {
		t.Fatalf("state dir: %v", err)
	}
	if st != dir {
		t.Fatalf("state dir: got %q want %q", st, dir)
	}
}

func TestDefault_FilesLandUnderAppDir(t *testing.T) {
	t.Setenv("TWIG_DATA_DIR", "")
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	xdg.Reload() // xdg caches env at init

	p, err := paths.HistoryFile()
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if filepath.Base(filepath.Dir(p)) != "twig" || filepath.Base(p) != "history.json" {
		t.Fatalf("unexpected history path: %q", p)
	}
}

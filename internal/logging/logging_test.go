package logging_test

import (
	"log/slog"
	"testing"

	"github.com/petasbytes/twig/internal/logging"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelWarn},
		{"w", slog.LevelWarn},
		{"i", slog.LevelInfo},
		{"d", slog.LevelDebug},
	}
	for _, c := range cases {
		got, err := logging.ParseLevel(c.in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseLevel(%q): got %v want %v", c.in, got, c.want)
		}
	}
}

func TestParseLevel_Unknown(t *testing.T) {
	if _, err := logging.ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

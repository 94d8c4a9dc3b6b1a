package render_test

import (
	"strings"
	"testing"

	"github.com/petasbytes/twig/internal/render"
)

func TestMarkdown_KeepsText(t *testing.T) {
	out := render.Markdown("# heading\n\nplain body text")
	if !strings.Contains(out, "heading") || !strings.Contains(out, "plain body text") {
		t.Fatalf("rendered output lost content: %q", out)
	}
}

func TestMarkdown_EmptyInput(t *testing.T) {
	// Must not panic or error; empty in, (possibly styled) empty-ish out.
	out := render.Markdown("")
	if strings.TrimSpace(out) != "" {
		t.Fatalf("expected blank output, got %q", out)
	}
}

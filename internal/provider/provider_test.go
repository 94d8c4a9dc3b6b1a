package provider_test

import (
	"strings"
	"testing"

	"github.com/petasbytes/twig/internal/provider"
)

func TestResolve_KnownAliases(t *testing.T) {
	for _, alias := range []string{"claude", "sonnet", "haiku", "opus"} {
		if _, err := provider.Resolve(alias); err != nil {
			t.Fatalf("resolve %q: %v", alias, err)
		}
	}
}

func TestResolve_UnknownAlias_ListsKnown(t *testing.T) {
	_, err := provider.Resolve("gpt")
	if err == nil {
		t.Fatal("expected error for unknown alias")
	}
	if !strings.Contains(err.Error(), "claude") {
		t.Fatalf("error should list known aliases: %v", err)
	}
}

func TestResolve_DefaultAliasIsKnown(t *testing.T) {
	if _, err := provider.Resolve(provider.DefaultAlias); err != nil {
		t.Fatalf("default alias must resolve: %v", err)
	}
}

package telemetry

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Features holds basic size features of an assembled prompt.
type Features struct {
	Bytes int
	Runes int
	Words int
	Lines int
}

// CountFeatures computes byte, rune, word, and line counts for s.
func CountFeatures(s string) Features {
	return Features{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: len(strings.Fields(s)),
		Lines: countLines(s),
	}
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of
// '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}

// EmitPromptFeatures records the size of an assembled prompt so context
// growth across chat turns can be observed without logging the prompt
// text itself.
func EmitPromptFeatures(ctx context.Context, prompt string) {
	if !ObserveEnabled() {
		return
	}
	queryID, _ := QueryIDFromContext(ctx)
	f := CountFeatures(prompt)
	Emit("prompt_features", map[string]any{
		"query_id": queryID,
		"prompt": map[string]any{
			"bytes": f.Bytes,
			"runes": f.Runes,
			"words": f.Words,
			"lines": f.Lines,
		},
	})
}

package query

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/twig/history"
)

// Inputs are the three prompt sources of one invocation: the positional
// query, piped stdin, and the --append text.
type Inputs struct {
	Query   string // positional argument(s)
	Context string // piped stdin, if any
	Append  string // trailing text from --append
}

// Assemble joins the inputs into the final prompt: query first, stdin
// wrapped in a <context> block, append last, blank-line separated. Empty
// parts are skipped.
func Assemble(in Inputs) string {
	parts := make([]string, 0, 3)
	if in.Query != "" {
		parts = append(parts, in.Query)
	}
	if in.Context != "" {
		parts = append(parts, "<context>\n"+in.Context+"\n</context>")
	}
	if in.Append != "" {
		parts = append(parts, in.Append)
	}
	return strings.Join(parts, "\n\n")
}

// CacheKey digests the model, the prior turns, and the prompt. Two
// invocations share a key only when the model would see the identical
// request.
func CacheKey(model anthropic.Model, prior []history.Message, prompt string) string {
	h := sha256.New()
	h.Write([]byte(model))
	for _, m := range prior {
		h.Write([]byte(m.Role))
		h.Write([]byte{0})
		h.Write([]byte(m.Content))
		h.Write([]byte{0})
	}
	h.Write([]byte(prompt))
	return fmt.Sprintf("%x", h.Sum(nil))
}

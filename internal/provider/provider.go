// Package provider wraps the Anthropic SDK behind a small sending surface
// and a closed table of user-facing model aliases.
package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// DefaultAlias is the model alias used when neither flag nor config names one.
const DefaultAlias = "claude"

// aliases maps user-facing names to SDK model IDs. Closed set; unknown
// names are rejected up front rather than surfacing as API errors.
var aliases = map[string]anthropic.Model{
	"claude": anthropic.ModelClaude3_7SonnetLatest,
	"sonnet": anthropic.ModelClaude3_7SonnetLatest,
	"haiku":  anthropic.ModelClaude3_5HaikuLatest,
	"opus":   anthropic.ModelClaude3OpusLatest,
}

// Resolve maps an alias to its SDK model ID. The error lists the known
// aliases so the user doesn't have to guess.
func Resolve(alias string) (anthropic.Model, error) {
	if m, ok := aliases[alias]; ok {
		return m, nil
	}
	known := make([]string, 0, len(aliases))
	for k := range aliases {
		known = append(known, k)
	}
	sort.Strings(known)
	return "", fmt.Errorf("unknown model %q (known: %s)", alias, strings.Join(known, ", "))
}

// Client sends message sequences to the Anthropic Messages API.
type Client struct {
	api *anthropic.Client
}

// NewClient returns a client using the API key from the env.
func NewClient() *Client {
	c := anthropic.NewClient()
	return &Client{api: &c}
}

// Send issues one Messages API call and returns the concatenated text
// blocks of the response.
func (c *Client) Send(ctx context.Context, model anthropic.Model, msgs []anthropic.MessageParam, maxTokens int64) (string, error) {
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  msgs,
	})
	if err != nil {
		return "", fmt.Errorf("messages api: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			if sb.Len() > 0 && tb.Text != "" {
				sb.WriteString("\n")
			}
			sb.WriteString(tb.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response from model %s", model)
	}
	return sb.String(), nil
}

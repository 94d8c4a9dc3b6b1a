// Package query assembles prompts and coordinates one exchange with the
// model: history context, response cache, the Messages API call, and the
// history writes that record the turn.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/twig/history"
	"github.com/petasbytes/twig/internal/cache"
	"github.com/petasbytes/twig/internal/telemetry"
)

// Sender issues one Messages API call. Satisfied by provider.Client;
// tests substitute a stub.
type Sender interface {
	Send(ctx context.Context, model anthropic.Model, msgs []anthropic.MessageParam, maxTokens int64) (string, error)
}

// Options select per-invocation behaviour.
type Options struct {
	Chat      bool // send retained history as prior turns
	NoPersist bool // skip history writes for this exchange
	NoCache   bool // bypass the response cache
}

// Runner executes queries. Store must be non-nil; Cache may be nil (no
// caching); a nil Logger falls back to slog.Default().
type Runner struct {
	Sender    Sender
	Store     *history.Store
	Cache     *cache.Cache
	Logger    *slog.Logger
	MaxTokens int64
}

// Run assembles the prompt from in and returns the model's reply.
//
// Cache failures degrade to a miss. History writes are not optional:
// when persistence is enabled, Run reports success only after both the
// user prompt and the reply are on disk.
func (r *Runner) Run(ctx context.Context, model anthropic.Model, in Inputs, opts Options) (string, error) {
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}

	prompt := Assemble(in)
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("nothing to ask: query, stdin, and append are all empty")
	}

	queryID, ok := telemetry.QueryIDFromContext(ctx)
	if !ok {
		queryID = fmt.Sprintf("query-%d", time.Now().UnixNano())
		ctx = telemetry.WithQueryID(ctx, queryID)
	}

	var prior []history.Message
	if opts.Chat {
		prior = r.Store.History()
	}

	telemetry.Emit("query_start", map[string]any{
		"query_id":    queryID,
		"model":       string(model),
		"chat":        opts.Chat,
		"prior_turns": len(prior),
	})
	telemetry.EmitPromptFeatures(ctx, prompt)
	start := time.Now()

	key := CacheKey(model, prior, prompt)
	if !opts.NoCache {
		resp, hit, err := r.Cache.Get(key)
		if err != nil {
			log.Debug("cache lookup failed, treating as miss", "error", err)
		}
		if hit {
			log.Debug("cache hit", "key", key[:16])
			if err := r.persist(opts, prompt, resp); err != nil {
				return "", err
			}
			telemetry.Emit("query_done", map[string]any{
				"query_id":    queryID,
				"cached":      true,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			return resp, nil
		}
	}

	resp, err := r.Sender.Send(ctx, model, buildMessages(prior, prompt), r.MaxTokens)
	if err != nil {
		return "", fmt.Errorf("query %s: %w", model, err)
	}

	if err := r.persist(opts, prompt, resp); err != nil {
		return "", err
	}

	if !opts.NoCache {
		if err := r.Cache.Put(key, string(model), resp); err != nil {
			log.Warn("cache store failed", "error", err)
		}
	}

	telemetry.Emit("query_done", map[string]any{
		"query_id":    queryID,
		"cached":      false,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return resp, nil
}

// persist records the exchange in history unless disabled. Failures are
// hard: a reply that looks delivered but is missing from the snapshot
// would silently vanish from the next invocation's context.
func (r *Runner) persist(opts Options, prompt, reply string) error {
	if opts.NoPersist {
		return nil
	}
	if err := r.Store.Add("user", prompt); err != nil {
		return fmt.Errorf("record user message: %w", err)
	}
	if err := r.Store.Add("assistant", reply); err != nil {
		return fmt.Errorf("record assistant reply: %w", err)
	}
	return nil
}

// buildMessages converts prior turns plus the new prompt into SDK params,
// oldest first. Roles other than assistant are sent as user turns.
func buildMessages(prior []history.Message, prompt string) []anthropic.MessageParam {
	msgs := make([]anthropic.MessageParam, 0, len(prior)+1)
	for _, m := range prior {
		if m.Role == "assistant" {
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		} else {
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)))
}

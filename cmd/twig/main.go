// Command twig is a lightweight LLM CLI: it forwards a prompt built from
// the positional query, piped stdin, and --append text to the Anthropic
// Messages API, and keeps a bounded on-disk history of the conversation.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/twig/history"
	"github.com/petasbytes/twig/internal/cache"
	"github.com/petasbytes/twig/internal/cliarg"
	"github.com/petasbytes/twig/internal/config"
	"github.com/petasbytes/twig/internal/logging"
	"github.com/petasbytes/twig/internal/paths"
	"github.com/petasbytes/twig/internal/provider"
	"github.com/petasbytes/twig/internal/query"
	"github.com/petasbytes/twig/internal/render"
)

// schema is the full argument surface, declared statically. Commands are
// mutually exclusive; everything else tunes the query path.
func schema() cliarg.Schema {
	return cliarg.Schema{
		Name: "twig",
		Flags: []cliarg.FlagSpec{
			{Name: "model", Abbrev: "m", Kind: cliarg.KindString, Usage: "model alias (claude|sonnet|haiku|opus); empty uses the config default"},
			{Name: "raw", Abbrev: "r", Kind: cliarg.KindBool, Usage: "print the response as plain text, no markdown rendering"},
			{Name: "append", Abbrev: "a", Kind: cliarg.KindString, Usage: "text appended after the query and piped context"},
			{Name: "chat", Abbrev: "c", Kind: cliarg.KindBool, Usage: "chat mode: send retained history as context"},
			{Name: "nopersist", Abbrev: "n", Kind: cliarg.KindBool, Usage: "do not record this exchange in history"},
			{Name: "nocache", Kind: cliarg.KindBool, Usage: "bypass the response cache"},
			{Name: "log", Kind: cliarg.KindString, Usage: "log level: d, i, or w (default w)"},
		},
		Commands: []cliarg.CommandSpec{
			{Name: "history", Abbrev: "H", Kind: cliarg.KindBool, ID: cliarg.CmdHistory, Usage: "view message history"},
			{Name: "wipe", Abbrev: "w", Kind: cliarg.KindBool, ID: cliarg.CmdWipe, Usage: "wipe message history (asks for confirmation)"},
			{Name: "shell", Abbrev: "s", Kind: cliarg.KindBool, ID: cliarg.CmdShell, Usage: "interactive chat shell"},
			{Name: "last", Abbrev: "l", Kind: cliarg.KindBool, ID: cliarg.CmdLast, Usage: "print the last message"},
			{Name: "get", Abbrev: "g", Kind: cliarg.KindInt, ID: cliarg.CmdGet, Usage: "print message at 1-based position N (1 = oldest)"},
		},
	}
}

// registeredCommands is the closed handler set checked against the schema
// at startup.
var registeredCommands = map[cliarg.CommandID]bool{
	cliarg.CmdHistory: true,
	cliarg.CmdWipe:    true,
	cliarg.CmdShell:   true,
	cliarg.CmdLast:    true,
	cliarg.CmdGet:     true,
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "twig: %v\n", err)
		os.Exit(1)
	}
}

// app carries the explicitly constructed dependencies; nothing hangs off
// globals or shared process state.
type app struct {
	cfg    config.Config
	values *cliarg.Values
	store  *history.Store
	cache  *cache.Cache
	logger *slog.Logger
	stdin  string // piped stdin, if any
}

func run(argv []string) error {
	s := schema()
	if err := s.Validate(registeredCommands); err != nil {
		return fmt.Errorf("argument schema: %w", err)
	}

	v, err := cliarg.Parse(s, argv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	var stdin string
	if render.StdinIsPiped() {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		stdin = string(b)
	}

	// Nothing to do: no args, no piped input.
	if len(argv) == 0 && stdin == "" {
		cliarg.Parse(s, []string{"-h"}, os.Stderr)
		return fmt.Errorf("no query or command given")
	}

	cfgPath, err := paths.ConfigFile()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logPath, err := paths.LogFile()
	if err != nil {
		return err
	}
	logger, err := logging.Setup(v.String("log"), logPath)
	if err != nil {
		return err
	}

	histPath, err := paths.HistoryFile()
	if err != nil {
		return err
	}
	store, err := history.Open(histPath, cfg.Capacity)
	if err != nil {
		return err
	}

	a := &app{cfg: cfg, values: v, store: store, logger: logger, stdin: stdin}

	// The cache is best-effort: failure to open logs and degrades to no
	// caching instead of failing the invocation.
	if cfg.Cache && !v.Bool("nocache") {
		cachePath, err := paths.CacheFile()
		if err == nil {
			c, cerr := cache.Open(cachePath)
			if cerr != nil {
				logger.Warn("response cache unavailable", "error", cerr)
			} else {
				a.cache = c
				defer c.Close()
			}
		}
	}

	// Explicit dispatch: one handler per command variant.
	handlers := map[cliarg.CommandID]func() error{
		cliarg.CmdHistory: a.handleHistory,
		cliarg.CmdWipe:    a.handleWipe,
		cliarg.CmdShell:   a.handleShell,
		cliarg.CmdLast:    a.handleLast,
		cliarg.CmdGet:     a.handleGet,
	}
	if v.Command != cliarg.CmdNone {
		return handlers[v.Command]()
	}
	return a.handleQuery()
}

func (a *app) handleHistory() error {
	a.store.Render(os.Stdout)
	return nil
}

func (a *app) handleLast() error {
	m, ok := a.store.Last()
	if !ok {
		fmt.Println("history is empty")
		return nil
	}
	a.printResponse(m.Content)
	return nil
}

func (a *app) handleGet() error {
	n := a.values.CommandInt
	m, ok := a.store.Get(n)
	if !ok {
		if a.store.Len() == 0 {
			return fmt.Errorf("history is empty")
		}
		return fmt.Errorf("no message at position %d (history has %d)", n, a.store.Len())
	}
	a.printResponse(m.Content)
	return nil
}

// handleWipe clears history after an explicit terminal confirmation.
// Confirmation is this layer's job, not the store's.
func (a *app) handleWipe() error {
	if render.StdinIsPiped() {
		return fmt.Errorf("refusing to wipe history: stdin is not a terminal, cannot confirm")
	}
	fmt.Printf("Wipe all %d message(s)? [y/N] ", a.store.Len())
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		fmt.Println("aborted")
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(sc.Text())) {
	case "y", "yes":
		if err := a.store.Clear(); err != nil {
			return err
		}
		fmt.Println("history wiped")
	default:
		fmt.Println("aborted")
	}
	return nil
}

func (a *app) handleQuery() error {
	runner, model, err := a.newRunner()
	if err != nil {
		return err
	}

	in := query.Inputs{
		Query:   a.values.Query,
		Context: a.stdin,
		Append:  a.values.String("append"),
	}
	opts := query.Options{
		Chat:      a.values.Bool("chat"),
		NoPersist: a.values.Bool("nopersist"),
		NoCache:   a.values.Bool("nocache"),
	}

	resp, err := runner.Run(context.Background(), model, in, opts)
	if err != nil {
		return err
	}
	a.printResponse(resp)
	return nil
}

// handleShell is an interactive chat loop: every line is a chat-mode
// query, so context accumulates across turns within the history window.
func (a *app) handleShell() error {
	if render.StdinIsPiped() {
		return fmt.Errorf("shell mode needs a terminal")
	}

	runner, model, err := a.newRunner()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	// stdin reader goroutine -> lines into channel
	inputCh := make(chan string)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			inputCh <- sc.Text()
		}
		close(inputCh)
	}()

	fmt.Println("twig shell (Ctrl-C or Ctrl-D to quit)")
	for {
		fmt.Print("You: ")
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-inputCh:
			if !ok {
				fmt.Println()
				return nil
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		resp, err := runner.Run(ctx, model, query.Inputs{Query: line}, query.Options{Chat: true})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(os.Stderr, "twig: %v\n", err)
			continue
		}
		a.printResponse(resp)
	}
}

// newRunner resolves the model and builds the query runner. The API key
// check runs here so history commands work without credentials.
func (a *app) newRunner() (*query.Runner, anthropic.Model, error) {
	alias := a.values.String("model")
	if alias == "" {
		alias = a.cfg.Model
	}
	model, err := provider.Resolve(alias)
	if err != nil {
		return nil, "", err
	}
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		return nil, "", fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}
	r := &query.Runner{
		Sender:    provider.NewClient(),
		Store:     a.store,
		Cache:     a.cache,
		Logger:    a.logger,
		MaxTokens: a.cfg.MaxTokens,
	}
	return r, model, nil
}

// printResponse writes s to stdout, rendered as Markdown unless raw
// output was requested or stdout is piped.
func (a *app) printResponse(s string) {
	if a.values.Bool("raw") || a.cfg.Raw || !render.StdoutIsTerminal() {
		fmt.Println(s)
		return
	}
	fmt.Print(render.Markdown(s))
}

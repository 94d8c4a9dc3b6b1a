// Package telemetry emits opt-in JSONL events about query handling.
//
// Events go to events.jsonl under the twig state directory when
// TWIG_OBSERVE_JSON=1. Emission failures are reported on stderr and
// otherwise ignored; telemetry never fails a query.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/petasbytes/twig/internal/paths"
)

// ObserveEnabled reports whether JSONL emission is switched on.
func ObserveEnabled() bool {
	return os.Getenv("TWIG_OBSERVE_JSON") == "1"
}

// Emit writes a single JSON line to <state>/events.jsonl when
// TWIG_OBSERVE_JSON=1. It augments fields with RFC3339Nano time and the
// event name.
func Emit(name string, fields map[string]any) {
	if !ObserveEnabled() {
		return
	}

	// Shallow copy so callers' maps aren't mutated.
	m := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		m[k] = v
	}
	m["time"] = time.Now().UTC().Format(time.RFC3339Nano)
	m["event"] = name

	b, err := json.Marshal(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: marshal: %v\n", err)
		return
	}

	dir, err := paths.StateDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: state dir: %v\n", err)
		return
	}

	path := filepath.Join(dir, "events.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: open %s: %v\n", path, err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: write %s: %v\n", path, err)
		return
	}
}

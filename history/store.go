package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultCapacity is the number of messages retained when no explicit
// capacity is given.
const DefaultCapacity = 20

// Message is one turn in a conversation: a participant role and its text.
// Messages are never mutated after creation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Store is a capacity-bounded, ordered message log backed by a JSON
// snapshot on disk. Insertion order is chronological order.
type Store struct {
	path     string
	capacity int
	messages []Message
}

// Open constructs a store against path and loads any existing snapshot.
// A missing snapshot is not an error: the store starts empty and persists
// immediately, so a valid snapshot exists after every successful Open.
// A present but unreadable or undecodable snapshot is an error; the store
// never silently discards history it cannot parse.
func Open(path string, capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Store{path: path, capacity: capacity}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads the snapshot, then prunes. Prune runs after load and after
// every append, never elsewhere; nothing is saved on a successful load.
func (s *Store) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// First run: bootstrap an empty snapshot.
			s.messages = []Message{}
			return s.Save()
		}
		return fmt.Errorf("read history %s: %w", s.path, err)
	}
	var msgs []Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return fmt.Errorf("decode history %s: %w", s.path, err)
	}
	s.messages = msgs
	s.prune()
	return nil
}

// Save serializes the in-memory sequence to the snapshot path. The write
// goes to a temp file in the same directory, then renames over the
// snapshot, so a failure mid-write leaves the old snapshot intact.
func (s *Store) Save() error {
	b, err := json.MarshalIndent(s.messages, "", " ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot %s: %w", s.path, err)
	}
	return nil
}

// Add appends a message, prunes, and persists. It is the sole mutation
// entrypoint besides Clear. The snapshot on disk matches memory before
// Add returns nil.
func (s *Store) Add(role, content string) error {
	s.messages = append(s.messages, Message{Role: role, Content: content})
	s.prune()
	return s.Save()
}

// prune retains only the newest capacity messages, dropping the excess
// from the front. Idempotent.
func (s *Store) prune() {
	if len(s.messages) > s.capacity {
		s.messages = s.messages[len(s.messages)-s.capacity:]
	}
}

// Last returns the most recently appended message; ok is false when the
// store is empty.
func (s *Store) Last() (Message, bool) {
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Get returns the message at 1-based position i, where position 1 is the
// oldest retained message. Out-of-range positions (including 0 and
// Len()+1) return ok=false.
func (s *Store) Get(i int) (Message, bool) {
	if i < 1 || i > len(s.messages) {
		return Message{}, false
	}
	return s.messages[i-1], true
}

// History returns a copy of the retained messages, oldest to newest.
func (s *Store) History() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of retained messages.
func (s *Store) Len() int { return len(s.messages) }

// previewRunes is the single-line preview length used by Render.
const previewRunes = 50

// Render writes a numbered, chronological listing of the retained
// messages to w: position, role, and a truncated one-line content
// preview. Read-only; persisted state is untouched.
func (s *Store) Render(w io.Writer) {
	for i, m := range s.messages {
		fmt.Fprintf(w, "%d. %s: %s\n", i+1, m.Role, preview(m.Content))
	}
}

// preview flattens newlines to spaces and clamps to previewRunes runes.
func preview(content string) string {
	flat := strings.ReplaceAll(content, "\n", " ")
	r := []rune(flat)
	if len(r) > previewRunes {
		return string(r[:previewRunes])
	}
	return flat
}

// Clear discards all messages and persists the empty state immediately.
// Irreversible; callers wanting confirmation prompts must do that before
// calling. Safe to call on an already-empty store.
func (s *Store) Clear() error {
	s.messages = []Message{}
	return s.Save()
}

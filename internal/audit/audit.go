// Package audit appends one JSONL event per import or report run. The
// trail is always on and separate from operational logging.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// defaultMaxLogBytes caps the trail; at open time a full log rotates to
// a single .1 backup.
const defaultMaxLogBytes = 10 << 20

// Event is one audit record. Timestamp is RFC3339; Log fills it when
// empty.
type Event struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`             // "import" or "report"
	Source    string `json:"source,omitempty"`   // shell name or analyzer name
	Commands  int    `json:"commands,omitempty"` // records ingested or analyzed
	Redacted  int    `json:"redacted,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Logger appends events to a single JSONL file.
type Logger struct {
	file *os.File
	mu   sync.Mutex
}

// New opens the trail at path, creating parent directories and rotating
// a full log aside first.
func New(path string) (*Logger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create audit directory: %w", err)
		}
	}

	if info, err := os.Stat(path); err == nil && info.Size() >= defaultMaxLogBytes {
		if err := os.Rename(path, path+".1"); err != nil {
			return nil, fmt.Errorf("rotate audit log: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open audit log %s: %w", path, err)
	}
	return &Logger{file: file}, nil
}

// Log appends one event as a single JSON line.
func (l *Logger) Log(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	data = append(data, '\n')

	if _, err := l.file.Write(data); err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}
	return nil
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

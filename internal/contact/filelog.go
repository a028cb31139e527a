package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultLogPath is used when no lead log file is configured.
func DefaultLogPath() string {
	return filepath.Join(os.TempDir(), "dfw-design-build", "contact-submissions.ndjson")
}

// FileLog appends leads as newline-delimited JSON. It exists for local
// development and previews; production never selects it.
type FileLog struct {
	mu   sync.Mutex
	path string
}

// NewFileLog creates a FileLog writing to path, or DefaultLogPath when empty.
// Nothing touches the disk until the first Deliver.
func NewFileLog(path string) *FileLog {
	if path == "" {
		path = DefaultLogPath()
	}
	return &FileLog{path: path}
}

// Path returns the file leads are appended to.
func (f *FileLog) Path() string { return f.path }

// Deliver implements Deliverer. Each lead is one Write of one complete line
// on an O_APPEND descriptor, so concurrent appenders never interleave lines.
func (f *FileLog) Deliver(ctx context.Context, lead Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	line, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("contact: marshal lead: %w", err)
	}
	line = append(line, '\n')

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("contact: create lead log dir: %w", err)
	}
	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("contact: open lead log: %w", err)
	}
	if _, err := file.Write(line); err != nil {
		_ = file.Close()
		return fmt.Errorf("contact: append lead log: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("contact: close lead log: %w", err)
	}
	return nil
}

var _ Deliverer = (*FileLog)(nil)

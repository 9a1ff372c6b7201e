package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const TimestampLayout = "2006-01-02 15:04:05"

// Log is the append-only transcript file. Every call opens, writes, syncs and
// closes the file; nothing is buffered between calls.
type Log struct {
	path string
	now  func() time.Time
}

type Option func(*Log)

// WithClock replaces time.Now, used by tests to get stable timestamps
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

func New(path string, opts ...Option) *Log {
	l := &Log{path: path, now: time.Now}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Log) Path() string {
	return l.path
}

// Append writes line plus a newline at the end of the file.
func (l *Log) Append(line string) error {
	if dir := filepath.Dir(l.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create transcript directory: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open transcript %s: %w", l.path, err)
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("write transcript %s: %w", l.path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync transcript %s: %w", l.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close transcript %s: %w", l.path, err)
	}
	return nil
}

// Utterance appends "[<timestamp>] [<tag>] <text>".
func (l *Log) Utterance(tag, text string) error {
	return l.Append(fmt.Sprintf("[%s] [%s] %s", l.timestamp(), tag, text))
}

// SessionStarted appends the start marker, preceded by a blank line so
// consecutive sessions stay visually separated.
func (l *Log) SessionStarted() error {
	return l.Append(fmt.Sprintf("\n===== Sessão iniciada %s =====", l.timestamp()))
}

// SessionEnded appends the end marker followed by a blank line.
func (l *Log) SessionEnded() error {
	return l.Append(fmt.Sprintf("===== Sessão encerrada %s =====\n", l.timestamp()))
}

func (l *Log) timestamp() string {
	return l.now().Format(TimestampLayout)
}

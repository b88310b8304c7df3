package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
)

// LogBuffer collects JSON log records in memory. Handlers running on other
// goroutines may write to it while a test reads it.
type LogBuffer struct {
	mu    sync.Mutex
	lines bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lines.Write(p)
}

func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lines.String()
}

// Entries decodes every record written so far.
func (b *LogBuffer) Entries() ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewBufferString(b.String()))
	var records []map[string]any
	for {
		var record map[string]any
		err := dec.Decode(&record)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

// Find returns the latest record logged with the given message, or nil.
func (b *LogBuffer) Find(msg string) map[string]any {
	records, err := b.Entries()
	if err != nil {
		return nil
	}
	for i := len(records) - 1; i >= 0; i-- {
		if records[i]["msg"] == msg {
			return records[i]
		}
	}
	return nil
}

// NewTestLogger returns a debug-level JSON logger backed by a fresh LogBuffer.
func NewTestLogger() (*LogBuffer, *slog.Logger) {
	buf := &LogBuffer{}
	return buf, slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

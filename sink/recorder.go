package sink

import (
	"context"
	"log/slog"
	"sync"
)

// Record is one captured log line, kept for test assertions.
type Record struct {
	Category string
	Device   string
	Message  string
}

// Recorder is a slog.Handler that stores events in memory instead of
// writing them anywhere, so integration tests can assert "router r1 logged
// a BGP rejection" without scraping stderr text.
type Recorder struct {
	mu      sync.Mutex
	records []Record
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *Recorder) Handle(_ context.Context, rec slog.Record) error {
	rendered := Record{Message: rec.Message}
	rec.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "category":
			rendered.Category = a.Value.String()
		case "device":
			rendered.Device = a.Value.String()
		}
		return true
	})
	r.mu.Lock()
	r.records = append(r.records, rendered)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler { return r }
func (r *Recorder) WithGroup(name string) slog.Handler       { return r }

// Records returns a snapshot of everything captured so far.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// HasCategory reports whether any record was captured under cat.
func (r *Recorder) HasCategory(cat Category) bool {
	for _, rec := range r.Records() {
		if rec.Category == string(cat) {
			return true
		}
	}
	return false
}

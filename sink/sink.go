// Package sink is the simulation's single event log: every actor emits
// structured events tagged by category, and the sink is responsible for the
// one piece of genuinely shared, multi-writer state in the whole engine —
// serializing writes so a single actor's events stay in the order it emitted
// them, per spec.md §5.
package sink

import (
	"log/slog"
	"os"
	"path"
	"sync"

	"github.com/encodeous/tint"
	slogmulti "github.com/samber/slog-multi"
)

// Category is one of the log categories a topology's config can select.
type Category string

const (
	ARP   Category = "ARP"
	BGP   Category = "BGP"
	DEBUG Category = "DEBUG"
	IP    Category = "IP"
	OSPF  Category = "OSPF"
	PING  Category = "PING"
	SPT   Category = "SPT"
)

// AllCategories is the full set accepted by a topology's log_categories
// list, in the order spec.md §6 lists them.
var AllCategories = []Category{ARP, BGP, DEBUG, IP, OSPF, PING, SPT}

// Sink receives structured events from every actor and fans them out to
// one or more slog handlers. Writes are serialized with a mutex: actors run
// concurrently, and the sink is the one place that must not interleave two
// actors' bytes on the wire even though it never reorders a single actor's
// own events (each actor only ever calls in from its own dispatch loop).
type Sink struct {
	mu       sync.Mutex
	logger   *slog.Logger
	enabled  map[Category]bool
	fallback bool // true when no categories were configured: log everything
}

// Options configures where the sink writes.
type Options struct {
	Categories []Category
	LogPath    string // optional, mirrors console output to a text log
	Level      slog.Level
	Extra      []slog.Handler // additional fan-out targets, e.g. a test Recorder
}

// New builds a Sink writing a tinted console line per event plus, if
// configured, a plain text file — the same tint+slog-multi fan-out pattern
// used elsewhere in this codebase for console and file logging together.
func New(opts Options) (*Sink, error) {
	handlers := make([]slog.Handler, 0, 2)
	handlers = append(handlers, tint.NewHandler(os.Stderr, &tint.Options{
		Level:      opts.Level,
		TimeFormat: "15:04:05.000",
	}))

	if opts.LogPath != "" {
		if err := os.MkdirAll(path.Dir(opts.LogPath), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(opts.LogPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: opts.Level}))
	}

	handlers = append(handlers, opts.Extra...)

	enabled := make(map[Category]bool, len(opts.Categories))
	for _, c := range opts.Categories {
		enabled[c] = true
	}

	return &Sink{
		logger:   slog.New(slogmulti.Fanout(handlers...)),
		enabled:  enabled,
		fallback: len(opts.Categories) == 0,
	}, nil
}

// NewDiscard builds a sink that records nothing, for tests that only care
// about final device state.
func NewDiscard() *Sink {
	return &Sink{
		logger:   slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 100})),
		fallback: true,
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Log emits one event under category, from device, with the given message
// and structured args (passed straight to slog).
func (s *Sink) Log(cat Category, device string, msg string, args ...any) {
	if !s.enabledFor(cat) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	all := append([]any{"category", string(cat), "device", device}, args...)
	s.logger.Info(msg, all...)
}

func (s *Sink) enabledFor(cat Category) bool {
	if s.fallback {
		return true
	}
	return s.enabled[cat]
}

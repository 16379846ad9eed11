package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Log is an append-only audit sink. How events are stored or indexed is up to
// the implementation; callers only append and never inspect sink internals.
type Log interface {
	Append(ctx context.Context, event Event) error
}

// Stamp fills the identifier and timestamp of a freshly built event.
func Stamp(event Event) Event {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	return event
}

// MemoryLog keeps events in memory. Useful for tests.
type MemoryLog struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryLog constructs an empty in-memory audit log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Append stores the event.
func (l *MemoryLog) Append(_ context.Context, event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, Stamp(event))
	return nil
}

// Events returns a snapshot of everything appended so far.
func (l *MemoryLog) Events() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// LoggerLog writes audit events to the structured logger.
type LoggerLog struct {
	logger *slog.Logger
}

// NewLoggerLog constructs a slog-backed audit sink.
func NewLoggerLog(logger *slog.Logger) *LoggerLog {
	return &LoggerLog{logger: logger}
}

// Append writes the event to the structured logger.
func (l *LoggerLog) Append(_ context.Context, event Event) error {
	if l == nil || l.logger == nil {
		return nil
	}
	event = Stamp(event)
	attrs := []any{
		slog.String("event_id", event.ID),
		slog.String("type", event.Type),
		slog.Time("at", event.At),
	}
	switch event.Type {
	case TypeWhitelistChange:
		attrs = append(attrs, slog.String("action", event.Action), slog.Any("addresses", event.Addresses))
	case TypeDepositRecorded:
		attrs = append(attrs, slog.String("depositor", event.Depositor), slog.Int64("amount", event.Amount))
	}
	l.logger.Info("audit event", attrs...)
	return nil
}

// Tee fans an event out to several sinks, stopping at the first failure.
type Tee []Log

// Append forwards the event to every sink in order.
func (t Tee) Append(ctx context.Context, event Event) error {
	event = Stamp(event)
	for _, sink := range t {
		if err := sink.Append(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

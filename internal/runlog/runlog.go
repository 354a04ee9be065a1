// Package runlog captures the structured event trail of a single run.
//
// Events are mirrored to slog as they happen and retained in memory so
// the report builder can render them. This decouples what the report
// shows from where logs are persisted.
package runlog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Event is one timestamped, leveled record.
type Event struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// Recorder accumulates events for a run. A nil Recorder is valid and
// drops everything, so callers never need to guard their logging.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	now    func() time.Time
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{now: time.Now}
}

// Infof records an informational event.
func (r *Recorder) Infof(format string, args ...any) {
	r.record(slog.LevelInfo, format, args...)
}

// Warnf records a warning event.
func (r *Recorder) Warnf(format string, args ...any) {
	r.record(slog.LevelWarn, format, args...)
}

// Errorf records an error event.
func (r *Recorder) Errorf(format string, args ...any) {
	r.record(slog.LevelError, format, args...)
}

func (r *Recorder) record(level slog.Level, format string, args ...any) {
	if r == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	slog.Log(context.Background(), level, msg)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Time: r.now(), Level: level, Message: msg})
}

// Events returns a copy of everything recorded so far, in order.
func (r *Recorder) Events() []Event {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

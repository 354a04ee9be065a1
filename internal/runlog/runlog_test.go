package runlog

import (
	"log/slog"
	"testing"
	"time"
)

func TestRecorder_CollectsInOrder(t *testing.T) {
	r := New()
	r.now = func() time.Time { return time.Date(2026, 8, 26, 7, 0, 0, 0, time.UTC) }

	r.Infof("starting %s", "run")
	r.Warnf("slow listing")
	r.Errorf("file %d failed", 2)

	events := r.Events()
	if len(events) != 3 {
		t.Fatalf("Events() = %d, want 3", len(events))
	}

	want := []struct {
		level slog.Level
		msg   string
	}{
		{slog.LevelInfo, "starting run"},
		{slog.LevelWarn, "slow listing"},
		{slog.LevelError, "file 2 failed"},
	}
	for i, w := range want {
		if events[i].Level != w.level {
			t.Errorf("events[%d].Level = %v, want %v", i, events[i].Level, w.level)
		}
		if events[i].Message != w.msg {
			t.Errorf("events[%d].Message = %q, want %q", i, events[i].Message, w.msg)
		}
		if events[i].Time.IsZero() {
			t.Errorf("events[%d].Time is zero", i)
		}
	}
}

func TestRecorder_EventsReturnsCopy(t *testing.T) {
	r := New()
	r.Infof("one")

	events := r.Events()
	events[0].Message = "mutated"

	if got := r.Events()[0].Message; got != "one" {
		t.Errorf("Message = %q, recorder state was mutated through the copy", got)
	}
}

func TestRecorder_NilIsSafe(t *testing.T) {
	var r *Recorder

	// Must not panic.
	r.Infof("dropped")
	r.Warnf("dropped")
	r.Errorf("dropped")

	if got := r.Events(); got != nil {
		t.Errorf("Events() on nil = %v, want nil", got)
	}
}

package trace

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

var seq atomic.Uint64

type nop struct{}

func (nop) Emit(*Event)  {}
func (nop) Level() Level { return LevelOff }
func (nop) Close() error { return nil }

// Nop discards everything.
var Nop Tracer = nop{}

// Stream writes every accepted event to w at once.
type Stream struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

// NewStream returns a tracer writing to w.
func NewStream(w io.Writer, level Level, format Format) *Stream {
	return &Stream{w: w, level: level, format: format}
}

func (s *Stream) Emit(ev *Event) {
	if !s.level.Allows(ev.Scope, ev.Kind) {
		return
	}
	if ev.Seq == 0 {
		ev.Seq = seq.Add(1)
	}
	line := FormatEvent(ev, s.format)

	s.mu.Lock()
	defer s.mu.Unlock()
	// ошибки записи трассы не должны ломать сегментацию
	_, _ = s.w.Write(line) //nolint:errcheck
}

func (s *Stream) Level() Level { return s.level }

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return err
		}
	}
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Ring keeps the most recent events in memory.
type Ring struct {
	mu     sync.Mutex
	buf    []Event
	next   int
	filled bool
	level  Level
}

// NewRing returns a ring of the given capacity (default 4096).
func NewRing(capacity int, level Level) *Ring {
	if capacity <= 0 {
		capacity = 4096
	}
	return &Ring{buf: make([]Event, capacity), level: level}
}

func (r *Ring) Emit(ev *Event) {
	if !r.level.Allows(ev.Scope, ev.Kind) {
		return
	}
	stored := *ev
	if stored.Seq == 0 {
		stored.Seq = seq.Add(1)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = stored
	r.next++
	if r.next == len(r.buf) {
		r.next, r.filled = 0, true
	}
}

// Events returns the kept events, oldest first.
func (r *Ring) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.filled {
		return append([]Event(nil), r.buf[:r.next]...)
	}
	out := make([]Event, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}

// Dump writes the kept events to w.
func (r *Ring) Dump(w io.Writer, format Format) error {
	events := r.Events()
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Ring) Level() Level { return r.level }
func (r *Ring) Close() error { return nil }

type tee struct {
	sinks []Tracer
	level Level
}

// Tee sends each event to every sink.
func Tee(level Level, sinks ...Tracer) Tracer {
	return &tee{sinks: sinks, level: level}
}

func (t *tee) Emit(ev *Event) {
	if ev.Seq == 0 {
		ev.Seq = seq.Add(1)
	}
	for _, s := range t.sinks {
		cp := *ev
		s.Emit(&cp)
	}
}

func (t *tee) Level() Level { return t.level }

func (t *tee) Close() error {
	var errs []error
	for _, s := range t.sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

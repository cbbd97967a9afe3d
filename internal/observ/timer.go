// Package observ measures the stages of a CLI run.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one measured stage.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
	done  bool
}

// Timer records phases such as config, segment and write. A nil *Timer is
// a valid no-op, so callers need not check whether --timings is on.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{} }

// Begin opens a phase and returns its handle.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End closes the phase; unknown or closed handles are ignored.
func (t *Timer) End(handle int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if handle < 0 || handle >= len(t.phases) || t.phases[handle].done {
		return
	}
	p := &t.phases[handle]
	p.Dur, p.Note, p.done = time.Since(p.Start), note, true
}

// Track opens a phase and returns its closer.
func (t *Timer) Track(name string) func(note string) {
	h := t.Begin(name)
	return func(note string) { t.End(h, note) }
}

// PhaseReport is the serialisable form of a phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report holds every phase and their sum.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func millis(d time.Duration) float64 { return d.Seconds() * 1e3 }

// Report snapshots the recorded phases.
func (t *Timer) Report() Report {
	var rep Report
	if t == nil {
		return rep
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
		rep.Phases = append(rep.Phases, PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note})
	}
	rep.TotalMS = millis(total)
	return rep
}

// Summary renders the report for stderr.
func (t *Timer) Summary() string {
	rep := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	line := func(name string, ms float64, note string) {
		fmt.Fprintf(&sb, "  %-12s %9.2f ms", name, ms)
		if note != "" {
			fmt.Fprintf(&sb, "  (%s)", note)
		}
		sb.WriteByte('\n')
	}
	for _, p := range rep.Phases {
		line(p.Name, p.DurationMS, p.Note)
	}
	line("total", rep.TotalMS, "")
	return sb.String()
}

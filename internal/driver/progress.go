package driver

import "time"

// Stage is the step of a unit or shard being reported.
type Stage string

const (
	// StageLoad is reading and normalizing an input.
	StageLoad Stage = "load"
	// StageScan is scanning and classifying.
	StageScan Stage = "scan"
)

// Status is the state of a unit or shard.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusCached indicates the result was served from the chunk cache.
	StatusCached Status = "cached"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for a unit, or for one of its shards when Shard >= 0.
type Event struct {
	Unit    string
	Shard   int
	Shards  int
	Stage   Stage
	Status  Status
	Chunks  int
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; shards report from worker goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}

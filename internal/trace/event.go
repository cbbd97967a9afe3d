package trace

import "time"

// Kind is the type of an event.
type Kind uint8

const (
	KindBegin     Kind = iota + 1 // span opened
	KindEnd                       // span closed
	KindPoint                     // instant event
	KindError                     // failure, passes every level but off
	KindHeartbeat                 // liveness tick
)

var kindNames = [...]string{
	KindBegin:     "begin",
	KindEnd:       "end",
	KindPoint:     "point",
	KindError:     "error",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event; smaller is coarser.
type Scope uint8

const (
	ScopeRun   Scope = iota + 1 // one CLI invocation or driver call
	ScopeUnit                   // one input: file, stdin or stream window
	ScopeShard                  // one shard of a parallel scan
	ScopeChunk                  // a single chunk or diagnostic
)

var scopeNames = [...]string{
	ScopeRun:   "run",
	ScopeUnit:  "unit",
	ScopeShard: "shard",
	ScopeChunk: "chunk",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Attr is a key/value pair attached to the end of a span.
type Attr struct {
	Key   string
	Value string
}

// Event is one trace record.
type Event struct {
	Time   time.Time
	Seq    uint64
	Kind   Kind
	Scope  Scope
	SpanID uint64
	Parent uint64 // 0 for root spans
	Name   string // "segment-files", "unit:notes.md", "shard#2", "SCN1002"
	Detail string
	Attrs  []Attr
}

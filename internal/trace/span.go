package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var spanIDs atomic.Uint64

type ctxKey struct{}

// ctxState is what the context carries: the tracer and the open span.
type ctxState struct {
	tracer Tracer
	span   uint64
}

func stateOf(ctx context.Context) ctxState {
	if ctx != nil {
		if st, ok := ctx.Value(ctxKey{}).(ctxState); ok {
			return st
		}
	}
	return ctxState{tracer: Nop}
}

// WithTracer attaches t to ctx. A nil t means Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, ctxState{tracer: t})
}

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return stateOf(ctx).tracer
}

// Span is an open operation. The zero *Span from a disabled tracer is inert.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
}

// Start opens a span under the one carried by ctx. The returned context
// makes the new span the parent of later events.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	st := stateOf(ctx)
	if !enabled(st.tracer) || !st.tracer.Level().Allows(scope, KindBegin) {
		return ctx, &Span{}
	}
	s := &Span{
		tracer:  st.tracer,
		id:      spanIDs.Add(1),
		parent:  st.span,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	s.tracer.Emit(&Event{
		Time:   s.started,
		Kind:   KindBegin,
		Scope:  scope,
		SpanID: s.id,
		Parent: s.parent,
		Name:   name,
	})
	return context.WithValue(ctx, ctxKey{}, ctxState{tracer: st.tracer, span: s.id}), s
}

// Set records an attribute reported when the span ends.
func (s *Span) Set(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	return s
}

// End closes the span and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	now := time.Now()
	s.tracer.Emit(&Event{
		Time:   now,
		Kind:   KindEnd,
		Scope:  s.scope,
		SpanID: s.id,
		Parent: s.parent,
		Name:   s.name,
		Detail: detail,
		Attrs:  s.attrs,
	})
	return now.Sub(s.started)
}

// ID returns the span id, 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event under the span carried by ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	emit(ctx, KindPoint, scope, name, detail)
}

// Error emits an error event.
func Error(ctx context.Context, scope Scope, name, detail string) {
	emit(ctx, KindError, scope, name, detail)
}

func emit(ctx context.Context, kind Kind, scope Scope, name, detail string) {
	st := stateOf(ctx)
	if !enabled(st.tracer) || !st.tracer.Level().Allows(scope, kind) {
		return
	}
	st.tracer.Emit(&Event{
		Time:   time.Now(),
		Kind:   kind,
		Scope:  scope,
		Parent: st.span,
		Name:   name,
		Detail: detail,
	})
}

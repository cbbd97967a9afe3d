// Package trace is the structured event log of textchunk.
//
//	textchunk chunk --trace=- --trace-level=detail notes.md
//
// A Tracer travels in the context. Spans nest through it:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeUnit, "unit:notes.md")
//	defer span.Set("chunks", "12").End("")
//
// Sinks: Nop, Stream (text or NDJSON lines), Ring (last N events in memory,
// dumped when the run ends) and Tee.
//
// LevelPhase keeps run and unit events, LevelDetail adds shards and
// LevelDebug adds per-chunk points. Errors pass every level except off.
package trace

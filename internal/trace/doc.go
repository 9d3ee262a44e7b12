// Package trace is the logging layer of polyres.
//
// Instead of free-form log lines the resolver and the driver emit
// structured span and point events. A Tracer decides, by Level and Scope,
// which of them are kept.
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only failures
//   - LevelPhase: Driver and pass boundaries
//   - LevelDetail: Per-file events
//   - LevelDebug: Everything including per-node resolution
//
// # Usage
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "check", parentID)
//	defer span.End("")
package trace

// Package trace records the phases of a salt build so that slow or stuck
// builds can be diagnosed.
//
// Enable tracing from the command line:
//
//	salt build --trace=- --trace-level=detail
//
// Tracers:
//
//   - Nop: zero cost when tracing is off
//   - StreamTracer: writes each event as it happens (text or ndjson)
//   - RingTracer: keeps the last events in memory for a dump on failure
//   - MultiTracer: fans out to several tracers
//
// Scopes, coarsest first: ScopeDriver (one command), ScopePass (load,
// resolve, assemble, order, link, print), ScopeModule (one output module)
// and ScopeType (one type inside a module).
//
// Tracers travel through the pipeline in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "resolve")
//	defer span.End("")
package trace

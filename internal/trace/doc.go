// Package trace records spans and point events emitted while binding.
//
// Tracers travel through the pipeline in a context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "bind", 0)
//	defer span.End("")
//
// Verbosity is controlled by Level: LevelPhase keeps driver and pass
// boundaries, LevelDebug adds one span per bound scope.
package trace

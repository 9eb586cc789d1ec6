// Package logging provides the structured logger behind call logs.
//
// # Overview
//
// Logger wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Stdout output (JSON or console) and an optional OpenTelemetry bridge
//   - Automatic context fields (trace_id, span_id, session.id, request.id)
//   - Field redaction by key name and value pattern
//   - Optional level-aware sampling (errors never sampled)
//
// # Usage
//
//	cfg := logging.NewDefaultConfig()
//	cfg.Level = zapcore.DebugLevel
//	logger, err := logging.NewLogger(cfg, nil)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithLogger(ctx, logger)
//
// calllog wrappers pick the logger up from a context.Context argument via
// FromContext, or from zap's global logger when there is none.
//
// # Sampling
//
// Disabled by default. When enabled each level below Error uses its own
// rate from Config.Sampling.Levels.
//
// # Testing
//
//	tl := logging.NewTestLogger()
//	fn := calllog.Func(fn, calllog.WithLogger(tl.Underlying()))
//	fn(1)
//	tl.AssertOnly(t, zapcore.DebugLevel, "fn successfully called {...}")
package logging

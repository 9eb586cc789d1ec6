// Package telemetry wires OpenTelemetry tracer and meter providers for
// wrapped calls.
//
// Spans and counters are exported over OTLP (gRPC or HTTP/protobuf) when
// telemetry.enabled is set; otherwise Tracer and Meter return the global
// no-op implementations.
//
//	tel, err := telemetry.New(ctx, cfg.Telemetry)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	charge := calllog.Func(charge,
//	    calllog.WithTracer(tel.Tracer("billing")),
//	    calllog.WithMeter(tel.Meter("billing")))
//
// Tests use NewTestTelemetry, which records spans and metrics in memory.
package telemetry

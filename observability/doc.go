// Package observability wires OpenTelemetry tracing and metrics.
//
// Export is opt-in: Setup installs OTLP/HTTP providers only when the
// config enables it, otherwise spans and instruments go to the no-op
// globals.
//
//	metrics, shutdown, err := observability.Setup(ctx, cfg, observability.Resource{ServiceName: "transcription-server"}, log)
//	defer shutdown(ctx)
//
//	op := observability.NewOperation("transcription-server", "transcribe_audio", requestID, metrics)
//	ctx, span := op.Begin(ctx)
//	defer op.End(ctx, span, "ok", nil)
package observability

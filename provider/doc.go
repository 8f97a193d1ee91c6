// Package provider defines the small generic provider framework the
// transcription backends plug into.
//
// A backend implements RequestResponse[I, O]. Factories are registered by
// name in a Registry and cross-cutting behavior is layered with Middleware:
//
//	reg := provider.NewRegistry[transcription.Provider]()
//	reg.RegisterFactory("assemblyai", assemblyai.NewFactory(fs, log))
//	p, err := reg.Create("assemblyai", map[string]any{"api_key": key})
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithMetrics[In, Out](metrics, "transcribe"),
//	    provider.WithTracing[In, Out]("transcription-server"),
//	)(p)
package provider

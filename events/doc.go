// Package events publishes transcription lifecycle events
// (transcription.started, transcription.completed, transcription.failed)
// to Server-Sent Events subscribers of the HTTP binding.
//
//	comp := events.NewComponent(log)
//	router.GET("/events", events.Handler(comp.Hub(), events.DefaultKeepAlive))
//	comp.Hub().Publish(ctx, events.Event{Type: events.TypeTranscriptionStarted})
package events

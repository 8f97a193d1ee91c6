// Package transcription defines the speech-to-text provider contract, the
// transcript record types and the mapping between them.
//
// An Invoker sends one request to a Provider and maps the provider's job
// document with ToRecord:
//
//	inv := transcription.NewInvoker(p, log)
//	rec, err := inv.Transcribe(ctx, transcription.TranscriptionRequest{FilePath: path})
//	if err == nil && rec.Failed() {
//	    // provider reported status error; rec.Error holds the reason
//	}
package transcription

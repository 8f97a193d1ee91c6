// Package toolserver exposes transcription as protocol tools.
//
// Two tools are registered: transcribe_audio(file_path) and
// list_transcripts(). Results are always plain sentences; failures read
// "Error: ..." and never surface as protocol errors. The same tools can be
// bound to stdio (the server runs as a child process of the client) or to
// the HTTP event-stream transport mounted on the server package.
package toolserver

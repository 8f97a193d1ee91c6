// Package toolclient connects to the transcription tool server, over a
// spawned child process or the HTTP event stream, and calls
// transcribe_audio on behalf of the command line.
//
// Connect is bounded by 10 seconds and a call by 60 seconds. Cleanup closes
// whatever was opened, newest first, exactly once.
package toolclient

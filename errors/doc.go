// Package errors provides the structured error type used across the
// transcription server and client, with codes for transport, input,
// mapping and provider failures.
package errors

// Package pathmap translates host file paths into the paths a
// containerized transcription server sees through its volume mount.
package pathmap

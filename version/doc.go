// Package version reports build information for the transcription binaries.
//
// Version, commit and build time are injected with -ldflags; anything left
// unset falls back to the VCS stamp Go embeds in the binary.
package version

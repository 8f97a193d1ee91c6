package toolserver

import "fmt"

// Tool names.
const (
	ToolTranscribeAudio = "transcribe_audio"
	ToolListTranscripts = "list_transcripts"
)

// MsgNotMP3 is returned for any path without a .mp3 extension.
const MsgNotMP3 = "Error: Only MP3 files are supported."

// MsgNoTranscripts is the list_transcripts answer for an empty store.
const MsgNoTranscripts = "No transcripts yet."

func msgNotFound(p string) string {
	return fmt.Sprintf("Error: File %s does not exist.", p)
}

func msgFailed(detail string) string {
	return fmt.Sprintf("Error: Transcription failed - %s", detail)
}

func msgSaved(out string) string {
	return fmt.Sprintf("Transcript saved to %s!", out)
}

func msgUnexpected(err error) string {
	return fmt.Sprintf("Error: An unexpected error occurred - %v", err)
}

func msgBadArgument(err error) string {
	return fmt.Sprintf("Error: %v", err)
}

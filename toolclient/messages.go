package toolclient

import (
	"fmt"

	apperrors "github.com/kbukum/transcribe-mcp/errors"
)

// User-facing messages.
const (
	MsgConnectTimeoutSSE   = "Error: Connection to server timed out. Ensure the server is running on port 8050 and accessible."
	MsgConnectTimeoutStdio = "Error: Connection to server timed out. Ensure the server command starts and API_KEY is valid."
	MsgCallTimeout         = "Error: Transcription timed out. The audio file may be too large or the server may be unresponsive."
	MsgNotConnected        = "Client is not connected to the server. Call Connect first."
	MsgConnectedHeader     = "\nConnected to Audio Transcription Service with tools:"
)

func msgNotFound(p string) string {
	return fmt.Sprintf("Error: Audio file not found at '%s'. Ensure the path is correct and the file exists.", p)
}

func msgNotMP3(p string) string {
	return fmt.Sprintf("Error: File '%s' is not an MP3 file. Only MP3 files are supported.", p)
}

func msgCallFailed(err error) string {
	return fmt.Sprintf("Error during transcription: %v. Check your internet connection, API key, and server logs for details.", err)
}

func connectTimeoutError(transport, target string) *apperrors.AppError {
	e := apperrors.Timeout("connect").WithDetail("target", target)
	e.Message = MsgConnectTimeoutSSE
	if transport == "stdio" {
		e.Message = MsgConnectTimeoutStdio
	}
	return e
}

func connectFailedError(target string, cause error) *apperrors.AppError {
	e := apperrors.ConnectionFailed(target).WithCause(cause)
	e.Message = fmt.Sprintf("Error connecting to server: %v", cause)
	return e
}

// Command transcription-server transcribes MP3 files through AssemblyAI,
// either as protocol tools (MCP_MODE=true) or from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(defaultCLI()).ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// Package process spawns and tears down the child server process used by
// the pipe transport.
//
//	h, err := process.Spawn(process.Command{Binary: "transcription-server", Args: []string{"serve"}})
//	// speak JSON-RPC over h.Stdout() / h.Stdin()
//	defer h.Close()
package process

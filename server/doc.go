// Package server is the HTTP host for the SSE binding of the tool server.
//
// A gin engine serves /health and /version (and /events when the event feed
// is mounted); the tool server's /sse and /message handlers are mounted on
// the same ServeMux. The whole mux is wrapped with recovery, request ids and
// request logging, and served through h2c.
package server

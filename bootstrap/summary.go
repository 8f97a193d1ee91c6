package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/transcribe-mcp/component"
)

// RouteInfo is an endpoint exposed by the binary.
type RouteInfo struct {
	Method  string
	Path    string
	Handler string
}

// ClientInfo is an outbound dependency, e.g. the transcription provider.
type ClientInfo struct {
	Name   string
	Target string
	Type   string
}

// Summary collects what a binary exposes and prints it once started.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	routes          []RouteInfo
	tools           []string
	clients         []ClientInfo
}

// NewSummary creates an empty summary.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackRoute records an HTTP route.
func (s *Summary) TrackRoute(method, path, handler string) {
	s.routes = append(s.routes, RouteInfo{Method: method, Path: path, Handler: handler})
}

// TrackTool records a tool offered to protocol clients.
func (s *Summary) TrackTool(name string) {
	s.tools = append(s.tools, name)
}

// TrackClient records an outbound connection.
func (s *Summary) TrackClient(name, target, clientType string) {
	s.clients = append(s.clients, ClientInfo{Name: name, Target: target, Type: clientType})
}

// Display writes the summary to w, including live health from registry
// when it is non-nil.
func (s *Summary) Display(ctx context.Context, w io.Writer, registry *component.Registry) {
	fmt.Fprintf(w, "\n🚀 %s %s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	if len(s.tools) > 0 {
		fmt.Fprintf(w, "\n🔧 Tools (%d)\n", len(s.tools))
		for i, name := range s.tools {
			fmt.Fprintf(w, "   %s %s\n", treePrefix(i, len(s.tools)), name)
		}
	}

	if len(s.routes) > 0 {
		fmt.Fprintf(w, "\n🌐 Routes (%d)\n", len(s.routes))
		for i, r := range s.routes {
			fmt.Fprintf(w, "   %s %-7s %s → %s\n", treePrefix(i, len(s.routes)), r.Method, r.Path, r.Handler)
		}
	}

	if len(s.clients) > 0 {
		fmt.Fprintf(w, "\n🔌 Clients\n")
		for i, c := range s.clients {
			fmt.Fprintf(w, "   %s %s → %s [%s]\n", treePrefix(i, len(s.clients)), c.Name, c.Target, c.Type)
		}
	}

	if registry != nil {
		results := registry.HealthAll(ctx)
		if len(results) > 0 {
			fmt.Fprintf(w, "\n🏥 Health Check\n")
			for i, h := range results {
				msg := ""
				if h.Message != "" {
					msg = " (" + h.Message + ")"
				}
				fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(results)),
					healthStatusIcon(h.Status), h.Name, strings.ToLower(string(h.Status)), msg)
			}
		}
	}

	fmt.Fprintln(w)
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}

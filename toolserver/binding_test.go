package toolserver

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func initRequest() mcp.InitializeRequest {
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: "test-client", Version: "0.0.0"}
	return req
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func firstText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestSSEProtocolRoundTrip(t *testing.T) {
	f := newFixture(t)
	ts := server.NewTestServer(f.server.MCPServer())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := client.NewSSEMCPClient(ts.URL + SSEPath)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	defer c.Close()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	res, err := c.Initialize(ctx, initRequest())
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if res.ServerInfo.Name != ServerName {
		t.Errorf("unexpected server name %q", res.ServerInfo.Name)
	}

	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	if !names[ToolTranscribeAudio] || !names[ToolListTranscripts] {
		t.Fatalf("unexpected tools %v", names)
	}

	out, err := c.CallTool(ctx, callRequest(ToolTranscribeAudio, map[string]any{"file_path": "/audio/notes.wav"}))
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got := firstText(t, out); got != MsgNotMP3 {
		t.Errorf("unexpected result %q", got)
	}

	out, err = c.CallTool(ctx, callRequest(ToolListTranscripts, nil))
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got := firstText(t, out); got != MsgNoTranscripts {
		t.Errorf("unexpected result %q", got)
	}
}

type muxHost struct {
	mux *http.ServeMux
	srv *http.Server
}

func (h *muxHost) Handle(pattern string, handler http.Handler) { h.mux.Handle(pattern, handler) }
func (h *muxHost) HTTPServer() *http.Server                    { return h.srv }

func TestSSEBindingMountsEndpoints(t *testing.T) {
	f := newFixture(t)
	host := &muxHost{mux: http.NewServeMux(), srv: &http.Server{}}
	b := f.server.NewSSEBinding(host)
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	ts := httptest.NewServer(host.mux)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c, err := client.NewSSEMCPClient(ts.URL + SSEPath)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	defer c.Close()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := c.Initialize(ctx, initRequest()); err != nil {
		t.Fatalf("initialize over mounted binding: %v", err)
	}
	if h := b.Health(ctx); h.Status != "healthy" {
		t.Errorf("unexpected health %+v", h)
	}
}

func TestServeStdio(t *testing.T) {
	f := newFixture(t)

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- f.server.ServeStdio(context.Background(), inR, outW)
		_ = outW.Close()
	}()

	reader := bufio.NewReader(outR)
	send := func(msg string) map[string]any {
		t.Helper()
		if _, err := io.WriteString(inW, msg+"\n"); err != nil {
			t.Fatalf("write: %v", err)
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var resp map[string]any
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("bad response %q: %v", line, err)
		}
		return resp
	}

	resp := send(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","clientInfo":{"name":"t","version":"0"},"capabilities":{}}}`)
	if resp["error"] != nil {
		t.Fatalf("initialize failed: %v", resp["error"])
	}

	resp = send(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"transcribe_audio","arguments":{"file_path":"/audio/missing.mp3"}}}`)
	raw, _ := json.Marshal(resp["result"])
	if !strings.Contains(string(raw), "Error: File /audio/missing.mp3 does not exist.") {
		t.Errorf("unexpected result %s", raw)
	}

	_ = inW.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean exit on EOF, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ServeStdio did not return after EOF")
	}
}

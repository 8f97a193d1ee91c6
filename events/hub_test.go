package events

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/transcribe-mcp/component"
	"github.com/kbukum/transcribe-mcp/logger"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.Events():
		return msg
	case <-time.After(time.Second):
		t.Fatalf("client %s received nothing", c.ID())
		return nil
	}
}

func TestClient_SendDropsWhenFull(t *testing.T) {
	c := NewClient("events:a", logger.Nop())
	for i := 0; i < clientBuffer; i++ {
		if !c.Send([]byte("m")) {
			t.Fatalf("send %d should succeed", i)
		}
	}
	if c.Send([]byte("overflow")) {
		t.Error("expected send to fail when buffer is full")
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub(logger.Nop())
	go hub.Run()
	defer hub.Stop()

	c := NewClient("events:a", logger.Nop())
	if !hub.Register(c) {
		t.Fatal("register failed")
	}
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Unregister(c)
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
	if _, open := <-c.Events(); open {
		t.Error("unregistered client channel should be closed")
	}
}

func TestHub_BroadcastToPattern(t *testing.T) {
	hub := NewHub(logger.Nop())
	go hub.Run()
	defer hub.Stop()

	a := NewClient("events:a", logger.Nop())
	b := NewClient("events:b", logger.Nop())
	other := NewClient("audit:x", logger.Nop())
	for _, c := range []*Client{a, b, other} {
		hub.Register(c)
	}
	waitFor(t, func() bool { return hub.ClientCount() == 3 })

	hub.BroadcastToPattern("events:*", []byte("hello"))
	if string(receive(t, a)) != "hello" || string(receive(t, b)) != "hello" {
		t.Error("matching clients should receive the message")
	}
	select {
	case <-other.Events():
		t.Error("non-matching client should not receive")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHub_Publish(t *testing.T) {
	hub := NewHub(logger.Nop())
	go hub.Run()
	defer hub.Stop()

	c := NewClient(ClientPrefix+"1", logger.Nop())
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Publish(context.Background(), Event{Type: TypeTranscriptionCompleted, RequestID: "r1", Output: "transcripts/transcript_a.mp3.json"})

	var e Event
	if err := json.Unmarshal(receive(t, c), &e); err != nil {
		t.Fatalf("invalid event json: %v", err)
	}
	if e.Type != TypeTranscriptionCompleted || e.RequestID != "r1" || e.Timestamp.IsZero() {
		t.Errorf("unexpected event %+v", e)
	}
}

func TestHub_StoppedDoesNotBlock(t *testing.T) {
	hub := NewHub(logger.Nop())
	go hub.Run()
	hub.Stop()
	hub.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.BroadcastToPattern("*", []byte("x"))
		hub.Unregister(NewClient("x", logger.Nop()))
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("calls on a stopped hub must not block")
	}
	if hub.Register(NewClient("late", logger.Nop())) {
		t.Error("register after stop should fail")
	}
}

func TestHandler_StreamsEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	comp := NewComponent(logger.Nop())
	if err := comp.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer comp.Stop(context.Background())

	router := gin.New()
	router.GET("/events", Handler(comp.Hub(), time.Minute))
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("unexpected content type %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	readData := func() string {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if strings.HasPrefix(line, "data: ") {
				return strings.TrimSpace(strings.TrimPrefix(line, "data: "))
			}
		}
	}

	if first := readData(); !strings.Contains(first, `"type":"connected"`) {
		t.Fatalf("expected connected event, got %s", first)
	}

	waitFor(t, func() bool { return comp.Hub().ClientCount() == 1 })
	comp.Hub().Publish(context.Background(), Event{Type: TypeTranscriptionStarted, FilePath: "/a.mp3"})
	if got := readData(); !strings.Contains(got, TypeTranscriptionStarted) {
		t.Errorf("expected started event, got %s", got)
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	comp := NewComponent(logger.Nop())
	ctx := context.Background()
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	h := comp.Health(ctx)
	if h.Name != "events" || h.Status != component.StatusHealthy {
		t.Errorf("unexpected health %+v", h)
	}
	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	select {
	case <-comp.Hub().Done():
	default:
		t.Error("hub should be stopped")
	}
}

func TestNopPublisher(t *testing.T) {
	Nop().Publish(context.Background(), Event{Type: TypeTranscriptionFailed})
}

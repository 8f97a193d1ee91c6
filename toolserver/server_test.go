package toolserver

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/transcribe-mcp/events"
	"github.com/kbukum/transcribe-mcp/logger"
	"github.com/kbukum/transcribe-mcp/observability"
	"github.com/kbukum/transcribe-mcp/store"
	"github.com/kbukum/transcribe-mcp/transcription"
)

type fakeTranscriber struct {
	mu    sync.Mutex
	calls []string
	rec   *transcription.TranscriptRecord
	err   error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, req transcription.TranscriptionRequest) (*transcription.TranscriptRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req.FilePath)
	return f.rec, f.err
}

func (f *fakeTranscriber) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func completedRecord() *transcription.TranscriptRecord {
	speaker := "A"
	return &transcription.TranscriptRecord{
		Text: "hello world",
		Words: []transcription.TranscriptWord{
			{Text: "hello", Start: 0, End: 400, Confidence: 0.98, Speaker: &speaker},
			{Text: "world", Start: 450, End: 900, Confidence: 0.95, Speaker: &speaker},
		},
		AudioDuration: 1.2,
		Status:        transcription.StatusCompleted,
	}
}

type fixture struct {
	fs     afero.Fs
	fake   *fakeTranscriber
	pub    *recordingPublisher
	server *Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/audio/meeting.mp3", []byte("ID3"), 0o644)
	_ = afero.WriteFile(fs, "/audio/LOUD.MP3", []byte("ID3"), 0o644)
	_ = afero.WriteFile(fs, "/audio/notes.wav", []byte("RIFF"), 0o644)

	f := &fixture{
		fs:   fs,
		fake: &fakeTranscriber{rec: completedRecord()},
		pub:  &recordingPublisher{},
	}
	f.server = New(f.fake, store.New(fs, "transcripts"), fs, logger.Nop(), WithEvents(f.pub))
	return f
}

func TestTranscribeAudio_Saves(t *testing.T) {
	f := newFixture(t)

	got := f.server.TranscribeAudio(context.Background(), "/audio/meeting.mp3")
	if got != "Transcript saved to transcripts/transcript_meeting.mp3.json!" {
		t.Fatalf("unexpected result %q", got)
	}
	data, err := afero.ReadFile(f.fs, "transcripts/transcript_meeting.mp3.json")
	if err != nil {
		t.Fatalf("transcript not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "{\n  \"text\": \"hello world\",\n  \"words\": [") {
		t.Errorf("unexpected transcript json:\n%s", data)
	}
	if f.fake.callCount() != 1 {
		t.Errorf("expected exactly one provider call, got %d", f.fake.callCount())
	}
	want := []string{events.TypeTranscriptionStarted, events.TypeTranscriptionCompleted}
	if strings.Join(f.pub.types(), ",") != strings.Join(want, ",") {
		t.Errorf("unexpected events %v", f.pub.types())
	}
}

func TestTranscribeAudio_UppercaseExtension(t *testing.T) {
	f := newFixture(t)
	got := f.server.TranscribeAudio(context.Background(), "/audio/LOUD.MP3")
	if got != "Transcript saved to transcripts/transcript_LOUD.MP3.json!" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestTranscribeAudio_NormalizesSeparators(t *testing.T) {
	f := newFixture(t)
	got := f.server.TranscribeAudio(context.Background(), `\audio\meeting.mp3`)
	if !strings.HasPrefix(got, "Transcript saved to ") {
		t.Fatalf("unexpected result %q", got)
	}
	if f.fake.calls[0] != "/audio/meeting.mp3" {
		t.Errorf("provider should see the normalized path, got %q", f.fake.calls[0])
	}
}

func TestTranscribeAudio_ValidationSkipsProvider(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing", "/audio/missing.mp3", "Error: File /audio/missing.mp3 does not exist."},
		{"missing non-mp3", "/audio/missing.wav", "Error: File /audio/missing.wav does not exist."},
		{"wrong extension", "/audio/notes.wav", "Error: Only MP3 files are supported."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			if got := f.server.TranscribeAudio(context.Background(), tc.path); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
			if f.fake.callCount() != 0 {
				t.Error("provider must not be called")
			}
			if len(f.pub.types()) != 0 {
				t.Errorf("no events expected, got %v", f.pub.types())
			}
		})
	}
}

func TestTranscribeAudio_EnsuresDirFirst(t *testing.T) {
	f := newFixture(t)
	_ = f.server.TranscribeAudio(context.Background(), "/audio/missing.mp3")
	if ok, _ := afero.DirExists(f.fs, "transcripts"); !ok {
		t.Error("transcripts dir should exist even when validation fails")
	}
}

func TestTranscribeAudio_ProviderJobFailed(t *testing.T) {
	f := newFixture(t)
	f.fake.rec = &transcription.TranscriptRecord{Status: transcription.StatusError, Error: "audio too short"}

	got := f.server.TranscribeAudio(context.Background(), "/audio/meeting.mp3")
	if got != "Error: Transcription failed - audio too short" {
		t.Fatalf("unexpected result %q", got)
	}
	if ok, _ := afero.Exists(f.fs, "transcripts/transcript_meeting.mp3.json"); ok {
		t.Error("no transcript should be written for a failed job")
	}
	types := f.pub.types()
	if len(types) != 2 || types[1] != events.TypeTranscriptionFailed {
		t.Errorf("unexpected events %v", types)
	}
}

func TestTranscribeAudio_ProviderJobFailedRecordsCode(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	f := newFixture(t)
	f.fake.rec = &transcription.TranscriptRecord{Status: transcription.StatusError, Error: "audio too short"}
	_ = f.server.TranscribeAudio(context.Background(), "/audio/meeting.mp3")

	spans := rec.Ended()
	if len(spans) != 1 || spans[0].Name() != "tool."+ToolTranscribeAudio {
		t.Fatalf("expected one tool span, got %d", len(spans))
	}
	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs[observability.AttrStatus] != "failed" {
		t.Errorf("expected failed status, got %q", attrs[observability.AttrStatus])
	}
	if !strings.HasPrefix(attrs[observability.AttrErrorMessage], "TRANSCRIPTION_FAILED: audio too short") {
		t.Errorf("unexpected error attribute %q", attrs[observability.AttrErrorMessage])
	}
}

func TestHandleTranscribeAudio_MissingArgument(t *testing.T) {
	f := newFixture(t)

	res, err := f.server.handleTranscribeAudio(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected protocol error: %v", err)
	}
	if !res.IsError || len(res.Content) != 1 {
		t.Fatalf("expected one error content, got %+v", res)
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	if text.Text != `Error: required argument "file_path" not found` {
		t.Errorf("unexpected text %q", text.Text)
	}
	if f.fake.callCount() != 0 {
		t.Error("provider should not be called")
	}
}

func TestTranscribeAudio_UnexpectedError(t *testing.T) {
	f := newFixture(t)
	f.fake.rec = nil
	f.fake.err = stderrors.New("connection reset")

	got := f.server.TranscribeAudio(context.Background(), "/audio/meeting.mp3")
	if got != "Error: An unexpected error occurred - connection reset" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestListTranscripts(t *testing.T) {
	f := newFixture(t)
	if got := f.server.ListTranscripts(context.Background()); got != MsgNoTranscripts {
		t.Fatalf("expected %q, got %q", MsgNoTranscripts, got)
	}

	_ = f.server.TranscribeAudio(context.Background(), "/audio/meeting.mp3")
	_ = f.server.TranscribeAudio(context.Background(), "/audio/LOUD.MP3")
	_ = afero.WriteFile(f.fs, "transcripts/readme.txt", []byte("x"), 0o644)

	got := f.server.ListTranscripts(context.Background())
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two names, got %q", got)
	}
	for _, l := range lines {
		if !strings.HasPrefix(l, "transcript_") || !strings.HasSuffix(l, ".json") {
			t.Errorf("unexpected entry %q", l)
		}
	}
}

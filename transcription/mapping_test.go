package transcription

import (
	"encoding/json"
	"testing"

	"github.com/kbukum/transcribe-mcp/errors"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestToRecord_Completed(t *testing.T) {
	pt := &ProviderTranscript{
		ID:     "job-1",
		Status: strPtr("completed"),
		Text:   strPtr("Hi there"),
		Words: []ProviderWord{
			{Text: strPtr("Hi"), Start: 0, End: 200, Confidence: 0.98, Speaker: strPtr("A")},
			{Text: strPtr("there"), Start: 210, End: 500, Confidence: 0.95, Speaker: strPtr("A")},
		},
		AudioDuration: f64Ptr(0.5),
	}

	rec, err := ToRecord(pt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Status != StatusCompleted || rec.Failed() {
		t.Errorf("expected completed, got %s", rec.Status)
	}
	if len(rec.Words) != 2 || rec.Words[1].Text != "there" || *rec.Words[0].Speaker != "A" {
		t.Errorf("unexpected words %+v", rec.Words)
	}
	if rec.Words[0].Channel != nil {
		t.Error("channel must stay nil")
	}
	if rec.AudioDuration != 0.5 {
		t.Errorf("unexpected duration %v", rec.AudioDuration)
	}
}

func TestToRecord_Error(t *testing.T) {
	rec, err := ToRecord(&ProviderTranscript{Status: strPtr("error"), Error: strPtr("Audio file is corrupt")})
	if err != nil {
		t.Fatalf("provider error status must not be a Go error: %v", err)
	}
	if !rec.Failed() || rec.Error != "Audio file is corrupt" {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestToRecord_MappingErrors(t *testing.T) {
	tests := []struct {
		name  string
		pt    *ProviderTranscript
		field string
	}{
		{"nil document", nil, "status"},
		{"missing status", &ProviderTranscript{Text: strPtr("x")}, "status"},
		{"non terminal status", &ProviderTranscript{Status: strPtr("processing")}, "status"},
		{"missing text", &ProviderTranscript{Status: strPtr("completed")}, "text"},
		{"word without text", &ProviderTranscript{
			Status: strPtr("completed"),
			Text:   strPtr("a b"),
			Words:  []ProviderWord{{Text: strPtr("a")}, {Start: 5}},
		}, "words[1].text"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ToRecord(tc.pt)
			appErr, ok := errors.AsAppError(err)
			if !ok || appErr.Code != errors.ErrCodeMapping {
				t.Fatalf("expected MAPPING_ERROR, got %v", err)
			}
			if appErr.Details["field"] != tc.field {
				t.Errorf("expected field %q, got %v", tc.field, appErr.Details["field"])
			}
		})
	}
}

func TestTranscriptRecordJSON(t *testing.T) {
	rec := TranscriptRecord{
		Text:          "Hi",
		Words:         []TranscriptWord{{Text: "Hi", Start: 0, End: 200, Confidence: 0.98, Speaker: strPtr("A")}},
		AudioDuration: 1.2,
		Status:        StatusCompleted,
		Error:         "never serialized",
	}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"text":"Hi","words":[{"text":"Hi","start":0,"end":200,"confidence":0.98,"speaker":"A","channel":null}],"audio_duration":1.2,"status":"completed"}`
	if string(data) != want {
		t.Errorf("unexpected JSON\n got: %s\nwant: %s", data, want)
	}
}

func TestStatusIsTerminal(t *testing.T) {
	if !StatusCompleted.IsTerminal() || !StatusError.IsTerminal() {
		t.Error("completed and error are terminal")
	}
	if StatusQueued.IsTerminal() || StatusProcessing.IsTerminal() {
		t.Error("queued and processing are not terminal")
	}
}

package transcription

import (
	"fmt"

	"github.com/kbukum/transcribe-mcp/errors"
)

// ToRecord maps a provider job document into a TranscriptRecord. A missing
// status, a completed job without text, or a word without text fails with a
// MAPPING_ERROR. A job that finished with status error maps to a record with
// Status error and the provider's reason, not a Go error.
func ToRecord(pt *ProviderTranscript) (*TranscriptRecord, error) {
	if pt == nil || pt.Status == nil {
		return nil, errors.Mapping("status")
	}

	switch Status(*pt.Status) {
	case StatusError:
		rec := &TranscriptRecord{Status: StatusError}
		if pt.Error != nil {
			rec.Error = *pt.Error
		}
		return rec, nil
	case StatusCompleted:
	default:
		return nil, errors.Mapping("status").WithDetail("status", *pt.Status)
	}

	if pt.Text == nil {
		return nil, errors.Mapping("text")
	}

	words := make([]TranscriptWord, 0, len(pt.Words))
	for i, w := range pt.Words {
		if w.Text == nil {
			return nil, errors.Mapping(fmt.Sprintf("words[%d].text", i))
		}
		words = append(words, TranscriptWord{
			Text:       *w.Text,
			Start:      w.Start,
			End:        w.End,
			Confidence: w.Confidence,
			Speaker:    w.Speaker,
		})
	}

	rec := &TranscriptRecord{
		Text:   *pt.Text,
		Words:  words,
		Status: StatusCompleted,
	}
	if pt.AudioDuration != nil {
		rec.AudioDuration = *pt.AudioDuration
	}
	return rec, nil
}

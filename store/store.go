package store

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/kbukum/transcribe-mcp/errors"
	"github.com/kbukum/transcribe-mcp/transcription"
)

const (
	filePrefix = "transcript_"
	fileExt    = ".json"
)

// Store persists transcript records as indented JSON files in one directory.
// It does not coordinate concurrent writers of the same file name.
type Store struct {
	fs  afero.Fs
	dir string
}

// New creates a store rooted at dir on fs.
func New(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// EnsureDir creates the directory when it is missing and leaves an existing
// one untouched. It reports whether the directory was created.
func (s *Store) EnsureDir() (bool, error) {
	exists, err := afero.DirExists(s.fs, s.dir)
	if err != nil {
		return false, errors.Internal(err)
	}
	if exists {
		return false, nil
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return false, errors.Internal(err).WithDetail("dir", s.dir)
	}
	return true, nil
}

// FileName returns the transcript file name for an audio source path.
func FileName(sourcePath string) string {
	base := path.Base(strings.ReplaceAll(sourcePath, `\`, "/"))
	return filePrefix + base + fileExt
}

// Save writes rec as indented JSON to transcript_<basename>.json and returns
// the written path.
func (s *Store) Save(sourcePath string, rec *transcription.TranscriptRecord) (string, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", errors.Internal(err)
	}

	out := filepath.Join(s.dir, FileName(sourcePath))
	if err := afero.WriteFile(s.fs, out, data, 0o644); err != nil {
		return "", errors.Internal(err).WithDetail("path", out)
	}
	return out, nil
}

// Load reads a stored transcript by file name.
func (s *Store) Load(name string) (*transcription.TranscriptRecord, error) {
	p := filepath.Join(s.dir, filepath.Base(name))
	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("transcript", name)
		}
		return nil, errors.Internal(err)
	}

	var rec transcription.TranscriptRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Internal(err).WithDetail("path", p)
	}
	return &rec, nil
}

// List returns the names of the stored .json files. A missing directory
// lists as empty.
func (s *Store) List() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Internal(err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

package validation

import (
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/kbukum/transcribe-mcp/errors"
)

// AudioExtension is the only accepted audio file extension, compared
// case-insensitively.
const AudioExtension = ".mp3"

// NormalizeSeparators rewrites backslashes to forward slashes.
func NormalizeSeparators(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// HasAudioExtension reports whether p ends in .mp3 in any letter case.
func HasAudioExtension(p string) bool {
	return strings.EqualFold(path.Ext(NormalizeSeparators(p)), AudioExtension)
}

// AudioFile checks that p names an existing .mp3 file on fs. Existence is
// checked first. It returns a NOT_FOUND or INVALID_INPUT AppError.
func AudioFile(fs afero.Fs, p string) *errors.AppError {
	exists, err := afero.Exists(fs, p)
	if err != nil || !exists {
		return errors.NotFound("file", p)
	}
	if !HasAudioExtension(p) {
		return errors.InvalidInput("file_path", "only MP3 files are supported").WithDetail("path", p)
	}
	return nil
}

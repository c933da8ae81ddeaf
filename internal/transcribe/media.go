// Package transcribe turns uploaded audio into text through a hosted
// speech-to-text service.
package transcribe

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedMediaType rejects uploads outside the audio allow-list.
	ErrUnsupportedMediaType = errors.New("unsupported audio type")

	// ErrTooLarge is returned when an upload exceeds the configured limit.
	ErrTooLarge = errors.New("audio file too large")

	// ErrEmptyUpload is returned for a zero-byte or missing file part.
	ErrEmptyUpload = errors.New("audio file is empty")

	// ErrTranscription matches every failure of the speech-to-text call.
	ErrTranscription = errors.New("transcription failed")
)

// allowedTypes maps accepted media types to the extension used for the
// temp file when the upload has no usable filename.
var allowedTypes = map[string]string{
	"audio/wav":   ".wav",
	"audio/x-wav": ".wav",
	"audio/wave":  ".wav",
	"audio/mp3":   ".mp3",
	"audio/mpeg":  ".mp3",
	"audio/webm":  ".webm",
}

// MediaType validates a Content-Type header and returns the bare media type.
func MediaType(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(contentType))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, contentType)
	}
	mediaType = strings.ToLower(mediaType)
	if _, ok := allowedTypes[mediaType]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}
	return mediaType, nil
}

// extension picks the temp file suffix, preferring the uploaded filename's.
// A bare "." (no filename) falls back to the media type's suffix.
func extension(filename, mediaType string) string {
	if ext := strings.ToLower(filepath.Ext(filepath.Base(filename))); len(ext) > 1 && len(ext) <= 6 {
		return ext
	}
	return allowedTypes[mediaType]
}

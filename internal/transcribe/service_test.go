package transcribe

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	text     string
	err      error
	path     string
	contents []byte
	existed  bool
}

func (b *stubBackend) TranscribeFile(_ context.Context, path string) (string, error) {
	b.path = path
	data, err := os.ReadFile(path)
	b.existed = err == nil
	b.contents = data
	return b.text, b.err
}

type stubArchive struct {
	calls int
	err   error
}

func (a *stubArchive) Archive(_ context.Context, filePath, _ string) (string, error) {
	a.calls++
	if _, err := os.Stat(filePath); err != nil {
		return "", err
	}
	return "audio/key.wav", a.err
}

type recordingObserver struct {
	statuses []string
	bytes    []int64
}

func (o *recordingObserver) ObserveTranscription(status string, _ float64, n int64) {
	o.statuses = append(o.statuses, status)
	o.bytes = append(o.bytes, n)
}

func TestMediaType(t *testing.T) {
	for _, ct := range []string{"audio/wav", "audio/x-wav", "audio/wave", "audio/mp3", "audio/mpeg", "audio/webm", "Audio/MPEG; charset=binary"} {
		_, err := MediaType(ct)
		assert.NoError(t, err, ct)
	}
	for _, ct := range []string{"", "text/plain", "video/mp4", "audio/ogg", ";;"} {
		_, err := MediaType(ct)
		assert.ErrorIs(t, err, ErrUnsupportedMediaType, ct)
	}
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".mp3", extension("visit.MP3", "audio/mpeg"))
	assert.Equal(t, ".wav", extension("", "audio/x-wav"))
	assert.Equal(t, ".webm", extension("recording", "audio/webm"))
	assert.Equal(t, ".mp3", extension("../../etc/passwd.verylongext", "audio/mpeg"))
	assert.Equal(t, ".webm", extension("take.", "audio/webm"))
}

func TestServiceUsesMediaTypeSuffixWithoutFilename(t *testing.T) {
	backend := &stubBackend{text: "ok"}
	svc := NewService(backend, Options{TempDir: t.TempDir()})

	_, err := svc.Transcribe(context.Background(), Upload{
		Body:        strings.NewReader("RIFFdata"),
		ContentType: "audio/wav",
	})
	require.NoError(t, err)
	assert.Equal(t, ".wav", filepath.Ext(backend.path))
	assert.False(t, strings.HasSuffix(backend.path, "."), "temp file %s has a bare dot", backend.path)
}

func TestServiceTranscribe(t *testing.T) {
	dir := t.TempDir()
	backend := &stubBackend{text: "Patient reports mild headache."}
	archive := &stubArchive{}
	obs := &recordingObserver{}
	svc := NewService(backend, Options{TempDir: dir, Archive: archive, Observer: obs})

	audio := bytes.Repeat([]byte{0x52}, 3*chunkSize+17)
	text, err := svc.Transcribe(context.Background(), Upload{
		Body:        bytes.NewReader(audio),
		Filename:    "visit.wav",
		ContentType: "audio/wav",
	})
	require.NoError(t, err)

	assert.Equal(t, "Patient reports mild headache.", text)
	assert.True(t, backend.existed)
	assert.Equal(t, audio, backend.contents)
	assert.Equal(t, ".wav", filepath.Ext(backend.path))
	assert.Equal(t, 1, archive.calls)
	assert.Equal(t, []string{"ok"}, obs.statuses)
	assert.Equal(t, []int64{int64(len(audio))}, obs.bytes)

	_, statErr := os.Stat(backend.path)
	assert.True(t, os.IsNotExist(statErr), "temp file should be removed")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestServiceCleansUpOnBackendFailure(t *testing.T) {
	dir := t.TempDir()
	backend := &stubBackend{err: errors.New("upstream 503")}
	obs := &recordingObserver{}
	svc := NewService(backend, Options{TempDir: dir, Observer: obs})

	_, err := svc.Transcribe(context.Background(), Upload{
		Body:        strings.NewReader("RIFF...."),
		ContentType: "audio/x-wav",
	})
	assert.ErrorIs(t, err, ErrTranscription)
	assert.ErrorContains(t, err, "upstream 503")
	assert.True(t, backend.existed)
	assert.Equal(t, []string{"error"}, obs.statuses)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestServiceRejectsOversizedUpload(t *testing.T) {
	dir := t.TempDir()
	backend := &stubBackend{}
	svc := NewService(backend, Options{TempDir: dir, MaxBytes: 10})

	_, err := svc.Transcribe(context.Background(), Upload{
		Body:        strings.NewReader(strings.Repeat("a", 11)),
		ContentType: "audio/mpeg",
	})
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Empty(t, backend.path, "backend must not be called")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = svc.Transcribe(context.Background(), Upload{
		Body:        strings.NewReader(strings.Repeat("a", 10)),
		ContentType: "audio/mpeg",
	})
	assert.NoError(t, err)
}

func TestServiceRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	backend := &stubBackend{}
	svc := NewService(backend, Options{TempDir: dir})

	_, err := svc.Transcribe(context.Background(), Upload{Body: strings.NewReader("x"), ContentType: "text/plain"})
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)

	_, err = svc.Transcribe(context.Background(), Upload{Body: strings.NewReader(""), ContentType: "audio/webm"})
	assert.ErrorIs(t, err, ErrEmptyUpload)

	assert.Empty(t, backend.path)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestServiceArchiveFailureIsNotFatal(t *testing.T) {
	backend := &stubBackend{text: "ok"}
	archive := &stubArchive{err: errors.New("access denied")}
	svc := NewService(backend, Options{TempDir: t.TempDir(), Archive: archive})

	text, err := svc.Transcribe(context.Background(), Upload{Body: strings.NewReader("abc"), ContentType: "audio/mp3"})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 1, archive.calls)
}

package transcribe

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

const (
	// DefaultMaxBytes caps a single upload at 25 MiB, the Whisper API limit.
	DefaultMaxBytes int64 = 25 << 20

	chunkSize = 32 << 10
)

// Observer records transcription outcomes.
type Observer interface {
	ObserveTranscription(status string, seconds float64, bytes int64)
}

// Upload is one audio stream with the metadata the client sent.
type Upload struct {
	Body        io.Reader
	Filename    string
	ContentType string
}

type Options struct {
	MaxBytes int64
	TempDir  string
	Archive  Archiver
	Observer Observer
	Logger   *logging.Logger
}

// Service spools an upload to a temp file and hands it to the backend.
type Service struct {
	backend  Backend
	maxBytes int64
	tempDir  string
	archive  Archiver
	observer Observer
	logger   *logging.Logger
}

func NewService(backend Backend, opts Options) *Service {
	if backend == nil {
		panic("transcribe: backend cannot be nil")
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	return &Service{
		backend:  backend,
		maxBytes: opts.MaxBytes,
		tempDir:  opts.TempDir,
		archive:  opts.Archive,
		observer: opts.Observer,
		logger:   opts.Logger,
	}
}

// Transcribe returns the text of the uploaded audio. The temp file is
// removed before returning on every path.
func (s *Service) Transcribe(ctx context.Context, upload Upload) (string, error) {
	start := time.Now()
	mediaType, err := MediaType(upload.ContentType)
	if err != nil {
		s.observe("rejected", start, 0)
		return "", err
	}

	tmp, err := os.CreateTemp(s.tempDir, "audio-*"+extension(upload.Filename, mediaType))
	if err != nil {
		s.observe("error", start, 0)
		return "", fmt.Errorf("%w: create temp file: %w", ErrTranscription, err)
	}
	path := tmp.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			s.logger.Warn("failed to remove temp audio", "path", path, "error", rmErr)
		}
	}()

	written, err := s.spool(tmp, upload.Body)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("%w: close temp file: %w", ErrTranscription, closeErr)
	}
	if err != nil {
		s.observe("rejected", start, written)
		return "", err
	}

	if s.archive != nil {
		if key, archErr := s.archive.Archive(ctx, path, mediaType); archErr != nil {
			s.logger.Warn("audio archive failed", "error", archErr)
		} else {
			s.logger.Debug("audio archived", "key", key)
		}
	}

	text, err := s.backend.TranscribeFile(ctx, path)
	if err != nil {
		s.observe("error", start, written)
		s.logger.Error("transcription failed", "error", err, "bytes", written, "media_type", mediaType)
		return "", fmt.Errorf("%w: %w", ErrTranscription, err)
	}
	s.observe("ok", start, written)
	return text, nil
}

// spool copies the body in fixed chunks and stops one byte past the limit.
func (s *Service) spool(dst io.Writer, src io.Reader) (int64, error) {
	if src == nil {
		return 0, ErrEmptyUpload
	}
	buf := make([]byte, chunkSize)
	n, err := io.CopyBuffer(dst, io.LimitReader(src, s.maxBytes+1), buf)
	if err != nil {
		return n, fmt.Errorf("%w: read upload: %w", ErrTranscription, err)
	}
	if n > s.maxBytes {
		return n, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxBytes)
	}
	if n == 0 {
		return 0, ErrEmptyUpload
	}
	return n, nil
}

func (s *Service) observe(status string, start time.Time, bytes int64) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveTranscription(status, time.Since(start).Seconds(), bytes)
}

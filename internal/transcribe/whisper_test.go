package transcribe

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAudioAPI struct {
	req  openai.AudioRequest
	resp openai.AudioResponse
	err  error
}

func (s *stubAudioAPI) CreateTranscription(_ context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	s.req = req
	return s.resp, s.err
}

func TestWhisperClientTranscribeFile(t *testing.T) {
	api := &stubAudioAPI{resp: openai.AudioResponse{Text: "  Hello doctor.\n"}}
	client := newWhisperClientWithAPI(api, "")

	text, err := client.TranscribeFile(context.Background(), "/tmp/audio-1.wav")
	require.NoError(t, err)
	assert.Equal(t, "Hello doctor.", text)
	assert.Equal(t, DefaultModel, api.req.Model)
	assert.Equal(t, "/tmp/audio-1.wav", api.req.FilePath)
	assert.Equal(t, openai.AudioResponseFormatVerboseJSON, api.req.Format)

	api.err = errors.New("rate limited")
	_, err = client.TranscribeFile(context.Background(), "/tmp/audio-1.wav")
	assert.ErrorContains(t, err, "rate limited")
}

func TestNewWhisperClientRequiresKey(t *testing.T) {
	_, err := NewWhisperClient(WhisperConfig{})
	assert.Error(t, err)

	client, err := NewWhisperClient(WhisperConfig{APIKey: "gsk_test", Model: "whisper-large-v3-turbo"})
	require.NoError(t, err)
	assert.Equal(t, "whisper-large-v3-turbo", client.model)
}

type stubS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (s *stubS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	s.input = in
	s.body, _ = io.ReadAll(in.Body)
	if s.err != nil {
		return nil, s.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Archive(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "audio-*.webm")
	require.NoError(t, err)
	_, err = f.WriteString("webm-bytes")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	api := &stubS3{}
	archive := NewS3Archive(api, "medical-audio")
	archive.now = func() time.Time { return time.Date(2025, 2, 22, 23, 30, 0, 0, time.UTC) }

	key, err := archive.Archive(context.Background(), f.Name(), "audio/webm")
	require.NoError(t, err)
	assert.Regexp(t, `^audio/2025/02/22/[0-9a-f-]{36}\.webm$`, key)
	assert.Equal(t, "medical-audio", *api.input.Bucket)
	assert.Equal(t, key, *api.input.Key)
	assert.Equal(t, "audio/webm", *api.input.ContentType)
	assert.Equal(t, "webm-bytes", string(api.body))

	api.err = errors.New("AccessDenied")
	_, err = archive.Archive(context.Background(), f.Name(), "audio/webm")
	assert.ErrorContains(t, err, "s3://medical-audio")

	_, err = archive.Archive(context.Background(), f.Name()+".missing", "audio/webm")
	assert.Error(t, err)
}

package transcribe

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver keeps a copy of uploaded audio.
type Archiver interface {
	Archive(ctx context.Context, filePath, mediaType string) (string, error)
}

// S3Archive uploads recordings to a bucket under audio/YYYY/MM/DD/.
type S3Archive struct {
	client s3PutAPI
	bucket string
	now    func() time.Time
}

func NewS3Archive(client s3PutAPI, bucket string) *S3Archive {
	if client == nil {
		panic("transcribe: s3 client cannot be nil")
	}
	return &S3Archive{client: client, bucket: bucket, now: time.Now}
}

// Archive uploads the file and returns its object key.
func (a *S3Archive) Archive(ctx context.Context, filePath, mediaType string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("transcribe: open audio for archive: %w", err)
	}
	defer f.Close()

	key := path.Join("audio", a.now().UTC().Format("2006/01/02"), uuid.NewString()+path.Ext(filePath))
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(mediaType),
	})
	if err != nil {
		return "", fmt.Errorf("transcribe: archive to s3://%s: %w", a.bucket, err)
	}
	return key, nil
}

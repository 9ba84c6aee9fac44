// Package objectstore uploads packaged results to S3 and presigns download
// URLs.
package objectstore

import (
	"context"
	"os"
	"time"

	"webgwas/internal/errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Store implements ports.ObjectStore against a single bucket.
type S3Store struct {
	client *s3.S3
	bucket string
}

// New builds an S3Store from a shared AWS session and target bucket.
func New(sess *session.Session, bucket string) *S3Store {
	return &S3Store{client: s3.New(sess), bucket: bucket}
}

// Upload streams a local file to the bucket under key.
func (s *S3Store) Upload(ctx context.Context, key, localPath string) error {
	body, err := os.Open(localPath)
	if err != nil {
		return errors.Wrapf(err, "opening %s for upload", localPath)
	}
	defer body.Close()

	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return errors.UpstreamStorageError("put_object", err)
	}
	return nil
}

// PresignGet returns a GET URL for key valid for the given expiry.
func (s *S3Store) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(expiry)
	if err != nil {
		return "", errors.UpstreamStorageError("presign_get_object", err)
	}
	return url, nil
}

package routestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps each route as a small text object in a bucket.
//
// Example usage:
//
//	client := s3.New(s3.Options{Region: "us-east-1", Credentials: creds})
//	store := routestore.NewS3Store(client, "my-bucket", "routes/")
type S3Store struct {
	client S3API
	bucket string
	prefix string
	closed atomic.Bool
}

// NewS3Store creates a store writing objects under prefix in bucket.
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func (s *S3Store) key(key string) string {
	return s.prefix + key
}

// Load returns the URL stored under key.
func (s *S3Store) Load(ctx context.Context, key string) (string, bool, error) {
	if s.closed.Load() {
		return "", false, ErrStoreClosed{}
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(key)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("s3 get failed: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return "", false, fmt.Errorf("s3 read failed: %w", err)
	}

	return string(body), true, nil
}

// Save stores url under key.
func (s *S3Store) Save(ctx context.Context, key string, url string) error {
	if s.closed.Load() {
		return ErrStoreClosed{}
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(key)),
		Body:        strings.NewReader(url),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("s3 put failed: %w", err)
	}
	return nil
}

// Delete removes key.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrStoreClosed{}
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(key)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}

// Close marks the store as closed. The client is left open.
func (s *S3Store) Close() error {
	s.closed.Store(true)
	return nil
}

// Package blob mirrors binary objects to an S3-compatible bucket (MinIO in development).
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/gabriel-vasile/mimetype"

	"github.com/ghuser/shoppinglist/pkg/config"
)

// ErrEmptyObject is returned by Put for a zero-length body.
var ErrEmptyObject = errors.New("blob: empty object")

// Store writes objects into a single bucket.
type Store struct {
	client s3iface.S3API
	bucket string
}

// NewS3Store builds a path-style client for the MinIO endpoint in cfg.
func NewS3Store(cfg *config.Config) (*Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(cfg.MinioRegion),
		Endpoint:         aws.String(cfg.MinioEndpoint),
		DisableSSL:       aws.Bool(!cfg.MinioUseSSL),
		S3ForcePathStyle: aws.Bool(true),
		Credentials:      credentials.NewStaticCredentials(cfg.MinioRootUser, cfg.MinioRootPassword, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("blob: new session: %w", err)
	}
	return NewStore(s3.New(sess), cfg.MinioBucket), nil
}

// NewStore wraps an existing S3 client.
func NewStore(client s3iface.S3API, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// Bucket returns the target bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// EnsureBucket creates the bucket unless it already exists.
func (s *Store) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	_, err = s.client.CreateBucketWithContext(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	var aerr awserr.Error
	if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeBucketAlreadyOwnedByYou {
		return nil
	}
	if err != nil {
		return fmt.Errorf("blob: create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Put uploads data under key. The content type is sniffed from the bytes.
// It returns the detected content type.
func (s *Store) Put(ctx context.Context, key string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyObject
	}
	contentType := mimetype.Detect(data).String()

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("blob: put %s: %w", key, err)
	}
	return contentType, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("blob: delete %s: %w", key, err)
	}
	return nil
}

// Ping checks that the bucket is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("blob: head bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Package storage keeps uploaded documents in an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore stores and removes document objects. The returned file ID is
// passed back to Delete.
type ObjectStore interface {
	Upload(ctx context.Context, content []byte, key, contentType string) (fileID string, err error)
	Delete(ctx context.Context, fileID, key string) error
}

// Config holds the S3 connection settings
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	Versioned bool
}

// S3Store is an ObjectStore backed by minio-go
type S3Store struct {
	client    *minio.Client
	bucket    string
	versioned bool
}

func NewS3Store(cfg Config) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating s3 client: %w", err)
	}

	return &S3Store{client: client, bucket: cfg.Bucket, versioned: cfg.Versioned}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *S3Store) EnsureBucket(ctx context.Context, region string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("creating bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Upload stores content under key. On a versioned bucket the file ID is the
// object version, otherwise the ETag.
func (s *S3Store) Upload(ctx context.Context, content []byte, key, contentType string) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}

	if s.versioned && info.VersionID != "" {
		return info.VersionID, nil
	}
	return info.ETag, nil
}

func (s *S3Store) Delete(ctx context.Context, fileID, key string) error {
	opts := minio.RemoveObjectOptions{}
	if s.versioned {
		opts.VersionID = fileID
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, opts); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Ping checks that the bucket is reachable.
func (s *S3Store) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}

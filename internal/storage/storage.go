// Package storage reads media objects from an S3-compatible bucket so
// they can be fed into the upload pipeline.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/config"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/metrics"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/upload"
)

// Storage provides read access to a bucket
type Storage struct {
	client     *minio.Client
	bucketName string
}

// New creates a new storage client. The bucket must already exist.
func New(ctx context.Context, cfg config.StorageConfig) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		metrics.RecordStorageOperation("bucket_exists", "error")
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		metrics.RecordStorageOperation("bucket_exists", "missing")
		return nil, fmt.Errorf("bucket %q does not exist", cfg.BucketName)
	}

	return &Storage{
		client:     client,
		bucketName: cfg.BucketName,
	}, nil
}

// Bucket returns the bucket name
func (s *Storage) Bucket() string {
	return s.bucketName
}

// List lists object keys with a prefix, skipping directory markers
func (s *Storage) List(ctx context.Context, prefix string) ([]string, error) {
	var objects []string

	for object := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			metrics.RecordStorageOperation("list", "error")
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		if strings.HasSuffix(object.Key, "/") {
			continue
		}
		objects = append(objects, object.Key)
	}

	metrics.RecordStorageOperation("list", "success")
	return objects, nil
}

// Stat describes an object as an upload candidate
func (s *Storage) Stat(ctx context.Context, key string) (upload.Candidate, error) {
	info, err := s.client.StatObject(ctx, s.bucketName, key, minio.StatObjectOptions{})
	if err != nil {
		metrics.RecordStorageOperation("stat", "error")
		return upload.Candidate{}, fmt.Errorf("failed to stat object: %w", err)
	}
	metrics.RecordStorageOperation("stat", "success")

	contentType := info.ContentType
	if contentType == "" || contentType == "application/octet-stream" || contentType == "binary/octet-stream" {
		contentType = getContentType(key)
	}

	return upload.Candidate{
		Name: path.Base(key),
		Size: info.Size,
		MIME: contentType,
		Open: func(ctx context.Context) (io.ReadCloser, error) {
			return s.Open(ctx, key)
		},
	}, nil
}

// Open streams an object
func (s *Storage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		metrics.RecordStorageOperation("get", "error")
		return nil, fmt.Errorf("failed to download object: %w", err)
	}

	metrics.RecordStorageOperation("get", "success")
	return object, nil
}

// getContentType returns the content type based on file extension
func getContentType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".webm":
		return "video/webm"
	case ".ogg":
		return "video/ogg"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

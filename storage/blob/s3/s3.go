package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/indieinfra/photobin/config"
	"github.com/indieinfra/photobin/storage/blob"
)

// Store keeps variant blobs in S3 or any compatible service (R2, Backblaze, MinIO).
type s3Client interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type minioAdapter struct {
	*minio.Client
}

func (a *minioAdapter) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return a.Client.GetObject(ctx, bucketName, objectName, opts)
}

var newMinioClient = func(endpoint string, opts *minio.Options) (s3Client, error) {
	client, err := minio.New(endpoint, opts)
	if err != nil {
		return nil, err
	}

	return &minioAdapter{client}, nil
}

type Store struct {
	client       s3Client
	bucket       string
	prefix       string
	endpointHost string
	region       string
}

func NewStore(cfg *config.S3BlobStrategy) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("s3 blob config is nil")
	}

	region := strings.TrimSpace(cfg.Region)
	if strings.EqualFold(region, "auto") {
		region = ""
	}

	endpointHost := strings.TrimSpace(cfg.Endpoint)
	if endpointHost == "" {
		if region == "" {
			endpointHost = "s3.amazonaws.com"
		} else {
			endpointHost = fmt.Sprintf("s3.%s.amazonaws.com", region)
		}
	} else {
		if parsed, err := url.Parse(endpointHost); err == nil && parsed.Host != "" {
			endpointHost = parsed.Host
		}
	}

	client, err := newMinioClient(endpointHost, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyId, cfg.SecretKeyId, ""),
		Secure:       true,
		Region:       region,
		BucketLookup: minio.BucketLookupAuto,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to verify s3 bucket %q: %w", cfg.Bucket, err)
	}

	if !exists {
		return nil, fmt.Errorf("s3 bucket %q does not exist or is not accessible", cfg.Bucket)
	}

	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	return &Store{
		client:       client,
		bucket:       cfg.Bucket,
		prefix:       prefix,
		endpointHost: endpointHost,
		region:       cfg.Region,
	}, nil
}

func (s *Store) key(variant, filename string) string {
	return s.prefix + variant + "/" + filename
}

func (s *Store) Put(ctx context.Context, variant, filename, contentType string, data []byte) error {
	opts := minio.PutObjectOptions{ContentType: contentType}

	key := s.key(variant, filename)
	if _, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return fmt.Errorf("upload to s3 failed: %w", err)
	}

	return nil
}

func (s *Store) Open(ctx context.Context, variant, filename string) (io.ReadCloser, error) {
	key := s.key(variant, filename)

	// GetObject is lazy; stat first so missing objects surface as not-found.
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return nil, blob.ErrNotFound
		}
		return nil, fmt.Errorf("stat on s3 failed: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("read from s3 failed: %w", err)
	}

	return obj, nil
}

func (s *Store) Remove(ctx context.Context, variant, filename string) error {
	// S3 delete of a missing key succeeds, matching the tolerant contract.
	if err := s.client.RemoveObject(ctx, s.bucket, s.key(variant, filename), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete from s3 failed: %w", err)
	}

	return nil
}

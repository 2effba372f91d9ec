package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config configures an S3-compatible bucket
type S3Config struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	UseSSL       bool
	PublicPrefix string
}

// S3Storage stores objects in an S3-compatible bucket. Public paths keep the
// same /uploads/<subfolder>/<name> shape as the local backend; the object key
// is <subfolder>/<name>.
type S3Storage struct {
	client *minio.Client
	bucket string
	layout layout
}

// NewS3Storage connects to the bucket, creating it when missing
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &S3Storage{
		client: client,
		bucket: cfg.Bucket,
		layout: newLayout(cfg.PublicPrefix),
	}, nil
}

// Save stores r under subfolder with a random name
func (s *S3Storage) Save(ctx context.Context, subfolder, ext string, r io.Reader, size int64) (string, error) {
	return s.SaveAs(ctx, subfolder, randomName(ext), r, size)
}

// SaveAs uploads r as subfolder/name
func (s *S3Storage) SaveAs(ctx context.Context, subfolder, name string, r io.Reader, size int64) (string, error) {
	key, err := s.layout.key(subfolder, name)
	if err != nil {
		return "", err
	}
	if size <= 0 {
		size = -1
	}

	opts := minio.PutObjectOptions{ContentType: mime.TypeByExtension(path.Ext(name))}
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, opts); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.layout.publicPath(key), nil
}

// Open streams the object behind publicPath
func (s *S3Storage) Open(ctx context.Context, publicPath string) (io.ReadCloser, error) {
	key, err := s.layout.keyFromPublic(publicPath)
	if err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, publicPath)
		}
		return nil, err
	}
	return obj, nil
}

// Delete removes the object behind publicPath
func (s *S3Storage) Delete(ctx context.Context, publicPath string) error {
	key, err := s.layout.keyFromPublic(publicPath)
	if err != nil {
		return err
	}
	// RemoveObject succeeds for absent keys
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// Exists reports whether publicPath resolves to an object
func (s *S3Storage) Exists(ctx context.Context, publicPath string) (bool, error) {
	key, err := s.layout.keyFromPublic(publicPath)
	if err != nil {
		return false, err
	}
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Ping checks that the bucket is reachable
func (s *S3Storage) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

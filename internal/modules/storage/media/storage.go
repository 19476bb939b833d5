package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	appcfg "github.com/Dan-Zin/Taganrog-mobile-app/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Storage persists uploaded bytes under a name and reports the public URL.
type Storage interface {
	Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, name string) error
}

// NewStorage picks the backend configured by media.driver.
func NewStorage(cfg *appcfg.AppConfig) (Storage, error) {
	switch cfg.Media.Driver {
	case appcfg.MediaDriverS3:
		return NewS3Storage(cfg.Media.S3)
	default:
		return NewLocalStorage(cfg.MediaDir(), cfg.Media.BaseURL), nil
	}
}

// LocalStorage writes files into a directory served under baseURL.
type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(dir, baseURL string) *LocalStorage {
	return &LocalStorage{dir: dir, baseURL: baseURL}
}

func (s *LocalStorage) Dir() string { return s.dir }

func (s *LocalStorage) Put(_ context.Context, name string, body io.Reader, _ int64, _ string) (string, error) {
	name = safeName(name)
	if name == "" {
		return "", errors.New("invalid file name")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return joinURL(s.baseURL, name), nil
}

func (s *LocalStorage) Delete(_ context.Context, name string) error {
	name = safeName(name)
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// S3Storage puts objects into an S3-compatible bucket.
type S3Storage struct {
	client       *s3.Client
	bucket       string
	region       string
	prefix       string
	endpoint     string
	customDomain string
}

func NewS3Storage(opts appcfg.S3Config) (*S3Storage, error) {
	bucket := strings.TrimSpace(opts.Bucket)
	region := strings.TrimSpace(opts.Region)
	if bucket == "" || region == "" || opts.AccessKeyID == "" || opts.SecretAccessKey == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket/region/access_key_id/secret_access_key are required")
	}

	endpoint := strings.TrimSuffix(strings.TrimSpace(opts.Endpoint), "/")
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	// Custom endpoints are always addressed path-style.
	pathStyle := opts.PathStyleAccess || endpoint != ""

	s3Opts := s3.Options{
		Region:       region,
		Credentials:  credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		UsePathStyle: pathStyle,
	}
	if endpoint != "" {
		s3Opts.BaseEndpoint = aws.String(endpoint)
	}

	return &S3Storage{
		client:       s3.New(s3Opts),
		bucket:       bucket,
		region:       region,
		prefix:       strings.Trim(opts.Prefix, "/"),
		endpoint:     endpoint,
		customDomain: strings.TrimRight(strings.TrimSpace(opts.CustomDomain), "/"),
	}, nil
}

func (s *S3Storage) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

func (s *S3Storage) Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error) {
	name = safeName(name)
	if name == "" {
		return "", errors.New("invalid file name")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := s.key(name)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}
	return s.publicURL(key), nil
}

func (s *S3Storage) Delete(ctx context.Context, name string) error {
	name = safeName(name)
	if name == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}

func (s *S3Storage) publicURL(key string) string {
	switch {
	case s.customDomain != "":
		return joinURL(s.customDomain, key)
	case s.endpoint != "":
		return joinURL(s.endpoint+"/"+s.bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	}
}

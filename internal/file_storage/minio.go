package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/RotationHub/CECert/internal/config"
	"github.com/RotationHub/CECert/internal/util"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Object describes a stored object.
type Object struct {
	Bucket      string
	Key         string
	Size        int64
	ContentType string
}

// Storage is the subset of object storage the certificate workflow uses.
type Storage interface {
	UploadFileByPath(ctx context.Context, path string, fuo *FileUploadOptions) (Object, error)
	GetObject(ctx context.Context, key string) (io.ReadCloser, Object, error)
	PresignedGetURL(ctx context.Context, key string, downloadName string, expiry time.Duration) (string, error)
	RemoveObject(ctx context.Context, key string) error
}

type FileUploadOptions struct {
	// Add a prefix to the file name
	// For example, if the file name is "CE-XXXX.pdf" and the prefix is "ce-certificates/123",
	// the resulting name will be "ce-certificates/123/CE-XXXX.pdf"
	DirectoryPath string
	UniquePrefix  bool
}

func NewMinioClient(cfg *config.MinioConfig) (*minio.Client, error) {
	return minio.New(cfg.ENDPOINT, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ACCESS_KEY, cfg.SECRET_KEY, ""),
		Secure: cfg.USE_SSL,
		Region: "us-east-1",
	})
}

type MinioStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioStorage(client *minio.Client, bucket string) *MinioStorage {
	return &MinioStorage{client: client, bucket: bucket}
}

func (s *MinioStorage) Bucket() string {
	return s.bucket
}

func (s *MinioStorage) createBucketIfNotExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return err
		}
	}

	return nil
}

// uploads a file from a local path
func (s *MinioStorage) UploadFileByPath(ctx context.Context, path string, fuo *FileUploadOptions) (Object, error) {
	if err := s.createBucketIfNotExists(ctx); err != nil {
		return Object{}, fmt.Errorf("failed to create bucket: %w", err)
	}

	fileName := prepareFileName(filepath.Base(path), fuo)

	contentType, err := detectContentType(path)
	if err != nil {
		return Object{}, err
	}

	info, err := s.client.FPutObject(ctx, s.bucket, fileName, path, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return Object{
		Bucket:      info.Bucket,
		Key:         info.Key,
		Size:        info.Size,
		ContentType: contentType,
	}, nil
}

// GetObject streams an object, the caller must close the reader.
func (s *MinioStorage) GetObject(ctx context.Context, key string) (io.ReadCloser, Object, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, Object{}, fmt.Errorf("failed to get object %s: %w", key, err)
	}

	// GetObject is lazy, Stat surfaces a missing key
	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, Object{}, fmt.Errorf("failed to stat object %s: %w", key, err)
	}

	return obj, Object{
		Bucket:      s.bucket,
		Key:         stat.Key,
		Size:        stat.Size,
		ContentType: stat.ContentType,
	}, nil
}

func (s *MinioStorage) PresignedGetURL(ctx context.Context, key string, downloadName string, expiry time.Duration) (string, error) {
	params := make(url.Values)
	if downloadName != "" {
		params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, params)
	if err != nil {
		return "", err
	}

	return u.String(), nil
}

func (s *MinioStorage) RemoveObject(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// Generates the final file name with uniqueness and prefix
func prepareFileName(originalName string, fuo *FileUploadOptions) string {
	fileName := originalName

	if fuo != nil {
		if fuo.UniquePrefix {
			fileName = util.AddUniquePrefixToFileName(originalName)
		}

		if fuo.DirectoryPath != "" {
			// object keys always use forward slashes
			fileName = filepath.ToSlash(filepath.Join(fuo.DirectoryPath, fileName))
		}
	}

	return fileName
}

// Determines the content type of a file at the given path
func detectContentType(path string) (string, error) {
	// 1) Try extension-based lookup
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType != "" {
		return contentType, nil
	}

	// 2) Fall back to sniffing the first 512 bytes
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for content type detection: %w", err)
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file for content type detection: %w", err)
	}

	return http.DetectContentType(buf[:n]), nil
}

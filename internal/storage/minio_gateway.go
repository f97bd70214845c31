package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fhuszti/media-pipeline-go/internal/port"
	"github.com/fhuszti/media-pipeline-go/internal/usecase/pipeline"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioGateway is the blob store backed by minio, fronted by a local
// working-directory cache so external tools can work on plain files.
type MinioGateway struct {
	client     minioClient
	bucketName string
	cacheDir   string
}

// compile-time check: *MinioGateway must satisfy port.Storage
var _ port.Storage = (*MinioGateway)(nil)

func NewMinioGateway(endpoint, accessKey, secretKey string, useSSL bool, bucket, cacheDir string) (*MinioGateway, error) {
	log.Println("initialising minio client...")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}

	ok, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, mapMinioErr(err)
	}
	if !ok {
		log.Printf("bucket %q does not exist, creating it...", bucket)
		if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, mapMinioErr(err)
		}
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create cache directory %q: %w", cacheDir, err)
	}
	return &MinioGateway{client: client, bucketName: bucket, cacheDir: cacheDir}, nil
}

func (g *MinioGateway) EnsureLocalCopy(ctx context.Context, fileKey string) (string, error) {
	fileKey = g.NormalizeKey(fileKey)
	localPath, err := g.localPath(fileKey)
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(localPath); err == nil && !info.IsDir() {
		return localPath, nil
	}

	log.Printf("downloading file %q from bucket %q into the working cache...", fileKey, g.bucketName)
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return "", fmt.Errorf("could not create cache subdirectory for %q: %w", fileKey, err)
	}
	if err := g.client.FGetObject(ctx, g.bucketName, fileKey, localPath, minio.GetObjectOptions{}); err != nil {
		mapped := mapMinioErr(err)
		if errors.Is(mapped, pipeline.ErrObjectNotFound) {
			return "", fmt.Errorf("file %q exists neither in the cache nor in bucket %q: %w", fileKey, g.bucketName, mapped)
		}
		return "", mapped
	}
	return localPath, nil
}

func (g *MinioGateway) UploadFromFile(ctx context.Context, fileKey, localPath, contentType string) error {
	fileKey = g.NormalizeKey(fileKey)
	log.Printf("uploading file %q into bucket %q as %q...", localPath, g.bucketName, fileKey)

	opts := minio.PutObjectOptions{}
	if contentType != "" {
		opts.ContentType = contentType
	}
	if _, err := g.client.FPutObject(ctx, g.bucketName, fileKey, localPath, opts); err != nil {
		return mapMinioErr(err)
	}
	return nil
}

func (g *MinioGateway) RemoveFile(ctx context.Context, fileKey string) error {
	fileKey = g.NormalizeKey(fileKey)
	log.Printf("removing file %q from bucket %q...", fileKey, g.bucketName)

	if err := g.client.RemoveObject(ctx, g.bucketName, fileKey, minio.RemoveObjectOptions{}); err != nil {
		return mapMinioErr(err)
	}

	// The cached copy is disposable; a failed delete only wastes disk.
	if localPath, err := g.localPath(fileKey); err == nil {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			log.Printf("warning: failed to remove cached copy of %q: %v", fileKey, err)
		}
	}
	return nil
}

// NormalizeKey converts backslashes to forward slashes, collapses duplicate
// separators and strips any leading slash.
func (g *MinioGateway) NormalizeKey(fileKey string) string {
	key := strings.ReplaceAll(fileKey, `\`, "/")
	for strings.Contains(key, "//") {
		key = strings.ReplaceAll(key, "//", "/")
	}
	return strings.TrimPrefix(key, "/")
}

func (g *MinioGateway) localPath(fileKey string) (string, error) {
	rel := filepath.FromSlash(fileKey)
	localPath := filepath.Join(g.cacheDir, rel)
	// Keys must stay inside the cache directory.
	if !strings.HasPrefix(localPath, filepath.Clean(g.cacheDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid object key %q", fileKey)
	}
	return localPath, nil
}

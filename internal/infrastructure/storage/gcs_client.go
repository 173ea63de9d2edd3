package storage

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"helperhive/pkg/errors"
	"helperhive/pkg/logger"
)

// CloudStorageClient stores uploaded documents in a single bucket.
type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, client *storage.Client, bucketName string) *CloudStorageClient {
	c := &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}

	if err := c.setBucketCORS(ctx); err != nil {
		logger.Warn("Failed to set bucket CORS configuration: %v", err)
	}

	return c
}

func (c *CloudStorageClient) setBucketCORS(ctx context.Context) error {
	bucket := c.client.Bucket(c.bucketName)

	bucketAttrs, err := bucket.Attrs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bucket attributes: %w", err)
	}
	if len(bucketAttrs.CORS) > 0 {
		return nil
	}

	_, err = bucket.Update(ctx, storage.BucketAttrsToUpdate{
		CORS: []storage.CORS{{
			MaxAge:          3600,
			Methods:         []string{"GET", "HEAD"},
			Origins:         []string{"*"},
			ResponseHeaders: []string{"Content-Type"},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to update bucket CORS: %w", err)
	}
	return nil
}

// Upload writes r to path and returns the object's public URL.
func (c *CloudStorageClient) Upload(ctx context.Context, path, contentType string, r io.Reader) (string, error) {
	wc := c.client.Bucket(c.bucketName).Object(path).NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "private, max-age=0"

	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", errors.Unavailable("failed to upload document", err)
	}
	if err := wc.Close(); err != nil {
		return "", errors.Unavailable("failed to upload document", err)
	}

	return ObjectURL(c.bucketName, path), nil
}

func ObjectURL(bucket, path string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, path)
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}

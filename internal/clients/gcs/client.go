package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/LegalMindAI/Backend-V2/internal/observability"

	"cloud.google.com/go/storage"
)

var ErrObjectNotFound = errors.New("object not found")

// Client reads and writes objects in a single bucket.
type Client struct {
	client *storage.Client
	bucket string
	logger *observability.Logger
}

// NewClient creates a storage client using Application Default Credentials.
func NewClient(ctx context.Context, bucket string, logger *observability.Logger) (*Client, error) {
	c, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &Client{client: c, bucket: bucket, logger: logger}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Put writes data under key, replacing any existing object.
func (c *Client) Put(ctx context.Context, key string, data []byte, contentType string) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "bucket", Value: c.bucket},
		observability.Field{Key: "object_key", Value: key},
	)

	w := c.client.Bucket(c.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		c.logger.Error(ctx, "failed to write object", err)
		return fmt.Errorf("failed to write storage object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		c.logger.Error(ctx, "failed to finalize object", err)
		return fmt.Errorf("failed to finalize storage object %s: %w", key, err)
	}

	c.logger.Info(ctx, "stored object", observability.Field{Key: "size_bytes", Value: len(data)})
	return nil
}

// Get reads the object stored under key. A missing object yields ErrObjectNotFound.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "bucket", Value: c.bucket},
		observability.Field{Key: "object_key", Value: key},
	)

	r, err := c.client.Bucket(c.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrObjectNotFound
		}
		c.logger.Error(ctx, "failed to open object", err)
		return nil, fmt.Errorf("failed to open storage object %s: %w", key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		c.logger.Error(ctx, "failed to read object", err)
		return nil, fmt.Errorf("failed to read storage object %s: %w", key, err)
	}
	return data, nil
}

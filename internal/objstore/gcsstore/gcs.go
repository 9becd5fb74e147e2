// Package gcsstore implements a Google Cloud Storage object store.
package gcsstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/discochess/picklejar/internal/objstore"
)

// Compile-time check that Store implements objstore.Store.
var _ objstore.Store = (*Store)(nil)

// Store is a Google Cloud Storage backend bound to one bucket.
type Store struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
}

// New creates a new GCS store.
// The bucket must already exist.
func New(ctx context.Context, bucketName string, opts ...Option) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	s := &Store{
		client: client,
		bucket: client.Bucket(bucketName),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets a key prefix for all operations.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
	}
}

// Open returns a reader streaming the object at key.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	reader, err := s.bucket.Object(s.objectKey(key)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", objstore.ErrNotFound, key)
		}
		return nil, fmt.Errorf("creating reader: %w", err)
	}
	return reader, nil
}

// Create returns a writer uploading to the object at key. The upload is
// committed by Close.
func (s *Store) Create(ctx context.Context, key string) (io.WriteCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return s.bucket.Object(s.objectKey(key)).NewWriter(ctx), nil
}

// Close releases resources.
func (s *Store) Close() error {
	return s.client.Close()
}

// objectKey returns the full object key.
func (s *Store) objectKey(key string) string {
	return s.prefix + key
}

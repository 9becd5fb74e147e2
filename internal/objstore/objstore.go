// Package objstore defines remote object storage used by the picklejar CLI
// to read and write gs:// and s3:// objects as streams.
package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotFound is returned when an object does not exist in the store.
var ErrNotFound = errors.New("objstore: object not found")

// Store defines the interface for object storage backends.
type Store interface {
	// Open returns a reader for the object at key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Create returns a writer for the object at key. The object becomes
	// visible once the writer is closed without error.
	Create(ctx context.Context, key string) (io.WriteCloser, error)

	// Close releases any resources held by the store.
	Close() error
}

// URL locates one object.
type URL struct {
	Scheme string
	Bucket string
	Key    string
}

func (u URL) String() string {
	return u.Scheme + "://" + u.Bucket + "/" + u.Key
}

// Supported schemes.
const (
	SchemeGCS = "gs"
	SchemeS3  = "s3"
)

// IsRemote reports whether s looks like a remote object URL.
func IsRemote(s string) bool {
	return strings.HasPrefix(s, SchemeGCS+"://") || strings.HasPrefix(s, SchemeS3+"://")
}

// ParseURL parses "gs://bucket/key" and "s3://bucket/key".
func ParseURL(s string) (URL, error) {
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok {
		return URL{}, fmt.Errorf("objstore: %q is not a URL", s)
	}
	if scheme != SchemeGCS && scheme != SchemeS3 {
		return URL{}, fmt.Errorf("objstore: unsupported scheme %q", scheme)
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return URL{}, fmt.Errorf("objstore: %q must name a bucket and an object key", s)
	}
	return URL{Scheme: scheme, Bucket: bucket, Key: key}, nil
}

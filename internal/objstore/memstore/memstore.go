// Package memstore provides an in-memory object store for testing.
package memstore

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/discochess/picklejar/internal/objstore"
)

// Compile-time check that Store implements objstore.Store.
var _ objstore.Store = (*Store)(nil)

// Store is an in-memory object store.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		objects: make(map[string][]byte),
	}
}

// Put sets the data of an object (for test setup).
// The data is copied to prevent caller mutations from affecting the store.
func (s *Store) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = bytes.Clone(data)
}

// Get returns a copy of an object's data.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return bytes.Clone(data), ok
}

// Open returns a reader over a snapshot of the object.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.Get(key)
	if !ok {
		return nil, objstore.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Create returns a writer that stores the object on Close.
func (s *Store) Create(ctx context.Context, key string) (io.WriteCloser, error) {
	return &objectWriter{store: s, key: key}, nil
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}

type objectWriter struct {
	store *Store
	key   string
	buf   bytes.Buffer
}

func (w *objectWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *objectWriter) Close() error {
	w.store.Put(w.key, w.buf.Bytes())
	return nil
}

package testutil

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/dalemusser/rentalhub/internal/app/system/objectstore"
	"github.com/dalemusser/waffle/pantry/storage"
)

// ObjectBaseURL prefixes every URL the fake object store returns.
const ObjectBaseURL = "https://objects.test/"

// ObjectStore is an objectstore.Bucket over waffle's in-memory backend
// that records calls and can inject failures.
type ObjectStore struct {
	*objectstore.Bucket
	mem *storage.Memory

	mu      sync.Mutex
	Puts    int
	Deletes []string

	// PutErrs are returned by successive Put calls; nil entries succeed.
	PutErrs []error
	// DeleteErr, when set, is returned by every Delete.
	DeleteErr error
}

// NewObjectStore returns an empty fake store.
func NewObjectStore() *ObjectStore {
	mem := storage.NewMemory(storage.MemoryConfig{BaseURL: strings.TrimSuffix(ObjectBaseURL, "/")})
	b, err := objectstore.New(mem)
	if err != nil {
		panic(err)
	}
	return &ObjectStore{Bucket: b, mem: mem}
}

// URL returns the URL the store would hand out for key.
func (s *ObjectStore) URL(key string) string { return s.mem.URL(key) }

func (s *ObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	s.mu.Lock()
	n := s.Puts
	s.Puts++
	var injected error
	if n < len(s.PutErrs) {
		injected = s.PutErrs[n]
	}
	s.mu.Unlock()
	if injected != nil {
		return "", injected
	}
	return s.Bucket.Put(ctx, key, r, size, contentType)
}

func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	s.Deletes = append(s.Deletes, key)
	injected := s.DeleteErr
	s.mu.Unlock()
	if injected != nil {
		return injected
	}
	return s.Bucket.Delete(ctx, key)
}

// Seed stores data under key and returns its URL.
func (s *ObjectStore) Seed(key string, data []byte) string {
	if err := s.mem.PutBytes(context.Background(), key, data, nil); err != nil {
		panic(err)
	}
	return s.URL(key)
}

// Has reports whether key is stored.
func (s *ObjectStore) Has(key string) bool {
	ok, _ := s.mem.Exists(context.Background(), key)
	return ok
}

// Count is the number of stored objects.
func (s *ObjectStore) Count() int { return s.mem.Count() }

// DeletedKeys returns a copy of the keys passed to Delete.
func (s *ObjectStore) DeletedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Deletes...)
}

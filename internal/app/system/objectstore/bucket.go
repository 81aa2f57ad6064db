package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

const cacheControl = "public, max-age=31536000"

// Bucket adapts a waffle storage backend to Store. It owns every URL under
// the backend's public base, plus Firebase download URLs when firebaseBucket
// is set.
type Bucket struct {
	backend        storage.Store
	base           string
	firebaseBucket string
}

// New wraps backend. The backend must be able to produce public URLs.
func New(backend storage.Store) (*Bucket, error) {
	base := strings.TrimSuffix(backend.URL("k"), "k")
	if base == "" {
		return nil, fmt.Errorf("objectstore: %s backend has no public base URL", backend.Backend())
	}
	return &Bucket{backend: backend, base: base}, nil
}

// NewFirebase wraps a GCS backend for a Firebase Storage bucket. Put writes
// a download token and returns a firebasestorage.googleapis.com URL.
func NewFirebase(backend storage.Store, bucket string) (*Bucket, error) {
	b, err := New(backend)
	if err != nil {
		return nil, err
	}
	b.firebaseBucket = bucket
	return b, nil
}

// Backend is the wrapped storage backend.
func (b *Bucket) Backend() storage.Store { return b.backend }

func (b *Bucket) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("objectstore: invalid key %q", key)
	}
	opts := &storage.PutOptions{ContentType: contentType, CacheControl: cacheControl}
	var token string
	if b.firebaseBucket != "" {
		token = uuid.NewString()
		opts.Metadata = map[string]string{"firebaseStorageDownloadTokens": token}
	}
	if err := b.backend.Put(ctx, key, r, opts); err != nil {
		return "", fmt.Errorf("objectstore: put %s: %w", key, err)
	}
	if b.firebaseBucket != "" {
		return firebaseURL(b.firebaseBucket, key, token), nil
	}
	return b.backend.URL(key), nil
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	err := b.backend.Delete(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("objectstore: delete %s: %w", key, err)
	}
	return nil
}

func (b *Bucket) KeyFromURL(rawURL string) (string, bool) {
	if b.firebaseBucket != "" {
		if key, ok := gcsKeyFromURL(b.firebaseBucket, rawURL); ok {
			return key, true
		}
	}
	return prefixKeyFromURL(b.base, rawURL)
}

// Close releases the backend's client when it holds one.
func (b *Bucket) Close() error {
	if c, ok := b.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// prefixKeyFromURL strips base (which ends in "/") from rawURL and
// unescapes the remainder.
func prefixKeyFromURL(base, rawURL string) (string, bool) {
	rest, ok := strings.CutPrefix(rawURL, base)
	if !ok {
		return "", false
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	key, err := url.PathUnescape(rest)
	if err != nil || !validKey(key) {
		return "", false
	}
	return key, true
}

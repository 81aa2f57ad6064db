// Package objectstore stores uploaded images and hands back public URLs.
//
// The bytes live in a waffle storage backend (local disk, Google Cloud
// Storage or S3). Documents only ever hold URLs, so the store can also map
// a URL back to its key; URLs it does not own are left alone by delete
// paths. GCS buckets that back Firebase Storage get Firebase download URLs.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dalemusser/waffle/pantry/storage"
)

// ErrNotFound is returned by Delete when the object does not exist.
var ErrNotFound = storage.ErrNotFound

// Store is an object storage backend.
type Store interface {
	// Put writes r under key and returns the object's public URL.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Delete removes key.
	Delete(ctx context.Context, key string) error
	// KeyFromURL returns the key for a URL this store produced.
	KeyFromURL(rawURL string) (string, bool)
}

// Config selects and configures a backend.
type Config struct {
	Backend string // local | gcs | s3

	// local
	LocalDir     string
	LocalBaseURL string // e.g. /files or https://cdn.example.com/files

	// gcs
	GCSBucket          string
	GCSCredentialsFile string
	GCSFirebaseURLs    bool // emit firebasestorage.googleapis.com download URLs

	// s3
	S3Bucket        string
	S3Region        string
	S3Endpoint      string // S3-compatible endpoint (MinIO, R2); enables path style
	S3PublicBaseURL string
}

// Open builds the configured backend.
func Open(ctx context.Context, cfg Config) (*Bucket, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "local":
		baseURL := cfg.LocalBaseURL
		if baseURL == "" {
			baseURL = "/files"
		}
		local, err := storage.NewLocal(storage.LocalConfig{BasePath: cfg.LocalDir, BaseURL: baseURL})
		if err != nil {
			return nil, fmt.Errorf("objectstore: local: %w", err)
		}
		return New(local)

	case "gcs":
		if cfg.GCSBucket == "" {
			return nil, errors.New("objectstore: gcs bucket is required")
		}
		gcs, err := storage.NewGCS(ctx, storage.GCSConfig{
			Bucket:          cfg.GCSBucket,
			CredentialsFile: cfg.GCSCredentialsFile,
		})
		if err != nil {
			return nil, fmt.Errorf("objectstore: gcs: %w", err)
		}
		if cfg.GCSFirebaseURLs {
			return NewFirebase(gcs, cfg.GCSBucket)
		}
		return New(gcs)

	case "s3":
		if cfg.S3Endpoint != "" && cfg.S3PublicBaseURL == "" {
			return nil, errors.New("objectstore: s3 public base URL is required with a custom endpoint")
		}
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			Endpoint:     cfg.S3Endpoint,
			UsePathStyle: cfg.S3Endpoint != "",
			BaseURL:      cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("objectstore: s3: %w", err)
		}
		return New(s3)

	default:
		return nil, fmt.Errorf("objectstore: unknown backend %q (want local, gcs or s3)", cfg.Backend)
	}
}

// DeleteURL deletes the object behind rawURL when s owns it. It reports
// whether a delete was attempted. Empty and foreign URLs are skipped.
func DeleteURL(ctx context.Context, s Store, rawURL string) (attempted bool, err error) {
	if strings.TrimSpace(rawURL) == "" {
		return false, nil
	}
	key, ok := s.KeyFromURL(rawURL)
	if !ok {
		return false, nil
	}
	return true, s.Delete(ctx, key)
}

// IsLocal reports whether cfg selects the local disk backend.
func IsLocal(cfg Config) bool {
	b := strings.ToLower(strings.TrimSpace(cfg.Backend))
	return b == "" || b == "local"
}

// Package imagepipe compresses uploaded images to a named profile and
// uploads the result to object storage.
//
// The flow for one file is validate → choose output format → resize and
// re-encode → upload with retry. Batches run the same flow one file at a
// time.
package imagepipe

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnsupportedType = errors.New("imagepipe: unsupported file type, use JPEG, PNG or WebP")
	ErrFileTooLarge    = errors.New("imagepipe: file exceeds 50MB")
)

const (
	// MaxInputBytes bounds the source file, before compression.
	MaxInputBytes = 50 << 20

	// transparencyCheckMin is the PNG size below which alpha is not scanned
	// and the image is encoded as JPEG.
	transparencyCheckMin = 100 << 10

	minQuality  = 0.3
	qualityStep = 0.1
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Options are the compression targets for one image.
type Options struct {
	Name             string
	MaxSizeMB        float64
	MaxWidthOrHeight int
	Quality          float64 // 0..1
}

// Named profiles.
var (
	Property  = Options{Name: "property", MaxSizeMB: 1.0, MaxWidthOrHeight: 1920, Quality: 0.85}
	Hero      = Options{Name: "hero", MaxSizeMB: 2.0, MaxWidthOrHeight: 2560, Quality: 0.90}
	Thumbnail = Options{Name: "thumbnail", MaxSizeMB: 0.2, MaxWidthOrHeight: 400, Quality: 0.80}
)

// ProfileByName looks up a named profile.
func ProfileByName(name string) (Options, error) {
	switch name {
	case Property.Name:
		return Property, nil
	case Hero.Name:
		return Hero, nil
	case Thumbnail.Name:
		return Thumbnail, nil
	}
	return Options{}, fmt.Errorf("imagepipe: unknown profile %q", name)
}

func (o Options) maxBytes() int64 { return int64(o.MaxSizeMB * 1024 * 1024) }

func (o Options) validate() error {
	if o.MaxSizeMB <= 0 || o.MaxWidthOrHeight <= 0 || o.Quality <= 0 || o.Quality > 1 {
		return fmt.Errorf("imagepipe: invalid options %+v", o)
	}
	return nil
}

// File is one uploaded image.
type File struct {
	Name    string
	Type    string // MIME type as declared by the client
	Size    int64
	ModTime time.Time
	Data    []byte
}

// Validate checks MIME type and size.
func Validate(f File) error {
	if !allowedTypes[f.Type] {
		return ErrUnsupportedType
	}
	if f.Size > MaxInputBytes || int64(len(f.Data)) > MaxInputBytes {
		return ErrFileTooLarge
	}
	return nil
}

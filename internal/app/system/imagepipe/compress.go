package imagepipe

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // registers the WebP decoder with image.Decode
)

// Result is a compressed image plus its statistics.
type Result struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
	Quality     float64 // final JPEG quality; 0 for PNG

	OriginalSize   int64
	CompressedSize int64
	Ratio          float64 // CompressedSize / OriginalSize
	Elapsed        time.Duration
}

// Compress resizes f to fit opts.MaxWidthOrHeight (never upscaling) and
// encodes it. JPEG quality steps down by 0.1 to a floor of 0.3 while the
// output exceeds opts.MaxSizeMB. progress, if set, receives 0..100.
func (p *Pipeline) Compress(ctx context.Context, f File, opts Options, progress func(int)) (Result, error) {
	start := p.now()
	report := func(pct int) {
		if progress != nil {
			progress(pct)
		}
	}
	if err := Validate(f); err != nil {
		return Result{}, err
	}
	if err := opts.validate(); err != nil {
		return Result{}, err
	}

	asPNG, err := p.keepPNG(f)
	if err != nil {
		return Result{}, err
	}
	report(10)

	img, err := imaging.Decode(bytes.NewReader(f.Data), imaging.AutoOrientation(true))
	if err != nil {
		return Result{}, fmt.Errorf("imagepipe: decode %s: %w", f.Name, err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	report(30)

	b := img.Bounds()
	if b.Dx() > opts.MaxWidthOrHeight || b.Dy() > opts.MaxWidthOrHeight {
		img = imaging.Fit(img, opts.MaxWidthOrHeight, opts.MaxWidthOrHeight, imaging.Lanczos)
	}
	report(50)

	res := Result{OriginalSize: int64(len(f.Data))}
	if asPNG {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
			return Result{}, fmt.Errorf("imagepipe: encode png: %w", err)
		}
		res.Data, res.ContentType, res.Ext = buf.Bytes(), "image/png", "png"
	} else {
		img = flatten(img)
		data, q, err := encodeJPEG(ctx, img, opts, report)
		if err != nil {
			return Result{}, err
		}
		res.Data, res.ContentType, res.Ext, res.Quality = data, "image/jpeg", "jpg", q
	}

	fb := img.Bounds()
	res.Width, res.Height = fb.Dx(), fb.Dy()
	res.CompressedSize = int64(len(res.Data))
	if res.OriginalSize > 0 {
		res.Ratio = float64(res.CompressedSize) / float64(res.OriginalSize)
	}
	res.Elapsed = p.now().Sub(start)
	report(100)
	return res, nil
}

// encodeJPEG encodes at opts.Quality and steps down until the output fits.
func encodeJPEG(ctx context.Context, img image.Image, opts Options, report func(int)) ([]byte, float64, error) {
	q := opts.Quality
	limit := opts.maxBytes()
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(int(math.Round(q*100)))); err != nil {
			return nil, 0, fmt.Errorf("imagepipe: encode jpeg: %w", err)
		}
		report(min(90, 60+attempt*5))
		if int64(buf.Len()) <= limit || q <= minQuality {
			return buf.Bytes(), q, nil
		}
		q = max(math.Round((q-qualityStep)*100)/100, minQuality)
	}
}

// flatten composites images with alpha onto white so transparent regions
// do not turn black in JPEG.
func flatten(img image.Image) image.Image {
	if !hasTransparency(img) {
		return img
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

package imagepipe

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/rentalhub/internal/testutil"
)

// noisePNG returns a w×h PNG of random pixels, which PNG cannot compress
// much. transparentPixels sets that many pixels to alpha 0.
func noisePNG(t *testing.T, w, h, transparentPixels int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(rng.Intn(256))
		img.Pix[i+1] = uint8(rng.Intn(256))
		img.Pix[i+2] = uint8(rng.Intn(256))
		img.Pix[i+3] = 255
	}
	for i := 0; i < transparentPixels; i++ {
		img.Pix[i*4+3] = 0
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func solidJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func fileOf(name, typ string, data []byte) File {
	return File{Name: name, Type: typ, Size: int64(len(data)), ModTime: time.Unix(1700000000, 0), Data: data}
}

func TestValidate(t *testing.T) {
	if err := Validate(File{Type: "image/gif", Size: 10}); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("gif: got %v", err)
	}
	if err := Validate(File{Type: "image/jpeg", Size: MaxInputBytes + 1}); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("oversize: got %v", err)
	}
	if err := Validate(File{Type: "image/webp", Size: 10}); err != nil {
		t.Errorf("webp: got %v", err)
	}
}

func TestProfileByName(t *testing.T) {
	p, err := ProfileByName("hero")
	if err != nil || p.MaxWidthOrHeight != 2560 || p.MaxSizeMB != 2.0 || p.Quality != 0.90 {
		t.Errorf("hero: %+v %v", p, err)
	}
	if _, err := ProfileByName("poster"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestCompress_OutputFormat(t *testing.T) {
	p := New(testutil.NewObjectStore(), nil)
	ctx := context.Background()

	opaque := noisePNG(t, 256, 256, 0)
	transparent := noisePNG(t, 256, 256, 10)
	small := noisePNG(t, 16, 16, 10)
	if len(opaque) < transparencyCheckMin || len(transparent) < transparencyCheckMin {
		t.Fatalf("fixtures too small: %d, %d", len(opaque), len(transparent))
	}
	if len(small) >= transparencyCheckMin {
		t.Fatalf("small fixture too large: %d", len(small))
	}

	tests := []struct {
		name string
		file File
		want string
	}{
		{"large opaque png", fileOf("a.png", "image/png", opaque), "image/jpeg"},
		{"large transparent png", fileOf("b.png", "image/png", transparent), "image/png"},
		{"small transparent png", fileOf("c.png", "image/png", small), "image/jpeg"},
		{"jpeg", fileOf("d.jpg", "image/jpeg", solidJPEG(t, 64, 64)), "image/jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.Compress(ctx, tt.file, Property, nil)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			if res.ContentType != tt.want {
				t.Errorf("content type: got %s, want %s", res.ContentType, tt.want)
			}
		})
	}
}

func TestCompress_FitsWithoutUpscaling(t *testing.T) {
	p := New(testutil.NewObjectStore(), nil)

	res, err := p.Compress(context.Background(), fileOf("wide.jpg", "image/jpeg", solidJPEG(t, 3000, 1000)), Property, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Width != 1920 || res.Height != 640 {
		t.Errorf("size: got %dx%d, want 1920x640", res.Width, res.Height)
	}

	res, err = p.Compress(context.Background(), fileOf("tiny.jpg", "image/jpeg", solidJPEG(t, 100, 50)), Property, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Width != 100 || res.Height != 50 {
		t.Errorf("small image must not be upscaled, got %dx%d", res.Width, res.Height)
	}
}

func TestCompress_QualityStepsDownToFloor(t *testing.T) {
	p := New(testutil.NewObjectStore(), nil)
	opts := Options{MaxSizeMB: 0.001, MaxWidthOrHeight: 400, Quality: 0.9}

	var last int
	res, err := p.Compress(context.Background(), fileOf("n.png", "image/png", noisePNG(t, 256, 256, 0)), opts, func(pct int) { last = pct })
	if err != nil {
		t.Fatal(err)
	}
	if res.Quality != minQuality {
		t.Errorf("quality: got %v, want %v", res.Quality, minQuality)
	}
	if last != 100 {
		t.Errorf("final progress: got %d, want 100", last)
	}
	if res.OriginalSize == 0 || res.CompressedSize == 0 || res.Ratio <= 0 {
		t.Errorf("stats not recorded: %+v", res)
	}
}

func TestTransparencyCache_FIFO(t *testing.T) {
	c := newTransparencyCache(3)
	keys := []cacheKey{{name: "a"}, {name: "b"}, {name: "c"}, {name: "d"}}
	for _, k := range keys {
		c.put(k, true)
	}
	if c.len() != 3 {
		t.Errorf("len: got %d, want 3", c.len())
	}
	if _, ok := c.get(keys[0]); ok {
		t.Error("oldest entry should be evicted")
	}
	for _, k := range keys[1:] {
		if _, ok := c.get(k); !ok {
			t.Errorf("%s should be cached", k.name)
		}
	}
}

func TestKeepPNG_UsesCache(t *testing.T) {
	p := New(testutil.NewObjectStore(), nil)
	f := fileOf("a.png", "image/png", noisePNG(t, 256, 256, 5))

	if v, err := p.keepPNG(f); err != nil || !v {
		t.Fatalf("first scan: %v %v", v, err)
	}
	// Same name/size/mtime with corrupt bytes: the cached answer is used.
	f.Data = []byte("not a png")
	if v, err := p.keepPNG(f); err != nil || !v {
		t.Errorf("cached scan: %v %v", v, err)
	}
}

func TestUpload_RetriesWithBackoff(t *testing.T) {
	store := testutil.NewObjectStore()
	store.PutErrs = []error{errors.New("503"), errors.New("503")}
	var sleeps []time.Duration
	p := New(store, nil, WithSleep(func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}))

	url, key, err := p.Upload(context.Background(), "properties", "hero.png", Result{Data: []byte("x"), ContentType: "image/jpeg", Ext: "jpg"})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if store.Puts != 3 {
		t.Errorf("attempts: got %d, want 3", store.Puts)
	}
	if len(sleeps) != 2 || sleeps[0] != 2*time.Second || sleeps[1] != 4*time.Second {
		t.Errorf("sleeps: got %v, want [2s 4s]", sleeps)
	}
	if !strings.HasPrefix(key, "properties/") || !strings.HasSuffix(key, "-hero.jpg") || url != store.URL(key) {
		t.Errorf("key/url: %q %q", key, url)
	}
}

func TestUpload_GivesUpAfterMaxRetries(t *testing.T) {
	store := testutil.NewObjectStore()
	final := errors.New("final failure")
	store.PutErrs = []error{errors.New("1"), errors.New("2"), final}
	var sleeps int
	p := New(store, nil, WithSleep(func(context.Context, time.Duration) error { sleeps++; return nil }))

	_, _, err := p.Upload(context.Background(), "x", "a.jpg", Result{Data: []byte("x"), Ext: "jpg"})
	if !errors.Is(err, final) {
		t.Errorf("error: got %v, want wrapped final error", err)
	}
	if store.Puts != 3 || sleeps != 2 {
		t.Errorf("puts=%d sleeps=%d, want 3 and 2", store.Puts, sleeps)
	}
}

func TestUpload_CancelledDuringBackoff(t *testing.T) {
	store := testutil.NewObjectStore()
	store.PutErrs = []error{errors.New("down"), errors.New("down"), errors.New("down")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := New(store, nil)

	_, _, err := p.Upload(ctx, "x", "a.jpg", Result{Data: []byte("x"), Ext: "jpg"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if store.Puts != 1 {
		t.Errorf("puts: got %d, want 1", store.Puts)
	}
}

func TestProcessBatch_IndependentOutcomes(t *testing.T) {
	store := testutil.NewObjectStore()
	p := New(store, nil)
	files := []File{
		fileOf("one.jpg", "image/jpeg", solidJPEG(t, 80, 60)),
		fileOf("two.gif", "image/gif", []byte("GIF89a")),
		fileOf("three.jpg", "image/jpeg", solidJPEG(t, 80, 60)),
	}

	var stages []string
	results := p.ProcessBatch(context.Background(), files, Property, "properties", func(ev Progress) {
		if ev.Stage != StageCompressing {
			stages = append(stages, ev.Name+":"+ev.Stage)
		}
	})

	if len(results) != 3 {
		t.Fatalf("results: got %d", len(results))
	}
	if results[0].Err != nil || results[0].URL == "" {
		t.Errorf("file 1: %+v", results[0])
	}
	if !errors.Is(results[1].Err, ErrUnsupportedType) {
		t.Errorf("file 2: got %v", results[1].Err)
	}
	if results[2].Err != nil || results[2].URL == "" {
		t.Errorf("file 3: %+v", results[2])
	}

	want := []string{
		"one.jpg:analyzing", "one.jpg:uploading", "one.jpg:complete",
		"two.gif:analyzing", "two.gif:error",
		"three.jpg:analyzing", "three.jpg:uploading", "three.jpg:complete",
	}
	if strings.Join(stages, ",") != strings.Join(want, ",") {
		t.Errorf("stages:\n got %v\nwant %v", stages, want)
	}
	if store.Count() != 2 {
		t.Errorf("stored objects: got %d, want 2", store.Count())
	}
}

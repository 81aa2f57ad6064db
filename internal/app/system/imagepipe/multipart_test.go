package imagepipe

import (
	"bytes"
	"mime/multipart"
	"testing"
	"time"
)

// uploadForm builds a parsed multipart form holding data as field, plus any
// extra plain values.
func uploadForm(t *testing.T, field, name string, data []byte, values map[string]string) *multipart.Form {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range values {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	part, err := mw.CreateFormFile(field, name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form
}

func TestModTimeFromForm(t *testing.T) {
	form := uploadForm(t, "gallery", "a.png", []byte("x"), map[string]string{"galleryLastModified": "1700000000000"})
	if got, want := ModTimeFromForm(form, "gallery", 0), time.UnixMilli(1700000000000).UTC(); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := ModTimeFromForm(form, "gallery", 1); !got.IsZero() {
		t.Errorf("missing index: got %v, want zero", got)
	}
	if got := ModTimeFromForm(nil, "gallery", 0); !got.IsZero() {
		t.Errorf("nil form: got %v, want zero", got)
	}
	bad := uploadForm(t, "hero", "a.png", []byte("x"), map[string]string{"heroLastModified": "yesterday"})
	if got := ModTimeFromForm(bad, "hero", 0); !got.IsZero() {
		t.Errorf("unparsable value: got %v, want zero", got)
	}
}

func TestFromMultipart_RepeatUploadSharesCacheEntry(t *testing.T) {
	p := New(nil, nil)
	data := noisePNG(t, 256, 256, 5)

	for i := 0; i < 2; i++ {
		form := uploadForm(t, "gallery", "pool.png", data, nil)
		f, err := FromMultipart(form.File["gallery"][0], ModTimeFromForm(form, "gallery", 0))
		if err != nil {
			t.Fatal(err)
		}
		if f.Type != "image/png" {
			t.Fatalf("type: got %q", f.Type)
		}
		if keep, err := p.keepPNG(f); err != nil || !keep {
			t.Fatalf("request %d: keepPNG = %v, %v", i, keep, err)
		}
	}
	if n := p.cache.len(); n != 1 {
		t.Errorf("cache entries: got %d, want 1", n)
	}
}

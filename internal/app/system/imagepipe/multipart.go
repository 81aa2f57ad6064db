package imagepipe

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// FromMultipart reads an uploaded part into a File. Parts over MaxInputBytes
// are not read; Validate rejects them from Size alone. The declared content
// type is trusted only when it names an image type; otherwise the bytes are
// sniffed.
func FromMultipart(fh *multipart.FileHeader, modTime time.Time) (File, error) {
	f := File{
		Name:    fh.Filename,
		Type:    fh.Header.Get("Content-Type"),
		Size:    fh.Size,
		ModTime: modTime,
	}
	if fh.Size > MaxInputBytes {
		return f, nil
	}

	src, err := fh.Open()
	if err != nil {
		return f, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxInputBytes+1))
	if err != nil {
		return f, err
	}
	f.Data = data
	f.Size = int64(len(data))
	if !allowedTypes[f.Type] {
		f.Type = http.DetectContentType(data)
	}
	return f, nil
}

// ModTimeFromForm reads an optional client-supplied lastModified value
// (Unix milliseconds, as File.lastModified in browsers) for the named part.
// Without one it returns the zero time, so repeat uploads of the same file
// share a transparency cache entry.
func ModTimeFromForm(form *multipart.Form, field string, index int) time.Time {
	if form == nil {
		return time.Time{}
	}
	vals := form.Value[field+"LastModified"]
	if index >= len(vals) {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(vals[index], 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// ErrorMessage turns a pipeline error into text safe to show an admin.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedType):
		return "Unsupported file type. Use JPEG, PNG or WebP."
	case errors.Is(err, ErrFileTooLarge):
		return "File is larger than 50MB."
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "Upload timed out. Please try again."
	default:
		return "Upload failed. Please try again."
	}
}

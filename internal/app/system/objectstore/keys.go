package objectstore

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewKey returns "<folder>/<YYYY>/<MM>/<uuid8>-<name>.<ext>" where name is
// the sanitized base of filename without its extension.
func NewKey(folder, filename, ext string, now time.Time) string {
	now = now.UTC()
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	name := fmt.Sprintf("%s-%s", uuid.NewString()[:8], SanitizeName(base))
	if ext != "" {
		name += "." + ext
	}
	return fmt.Sprintf("%s/%04d/%02d/%s", strings.Trim(folder, "/"), now.Year(), int(now.Month()), name)
}

// SanitizeName replaces anything outside [A-Za-z0-9._-] with '_' and caps
// the length at 80 bytes.
func SanitizeName(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isAllowedNameChar(c) {
			out = append(out, c)
		} else {
			out = append(out, '_')
		}
	}
	if len(out) > 80 {
		out = out[:80]
	}
	if len(out) == 0 {
		return "file"
	}
	return string(out)
}

func isAllowedNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}

// validKey rejects keys that could escape a local root.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}

// Package slug turns property titles into URL slugs.
package slug

import (
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
)

// MaxLen caps generated slugs before any collision suffix.
const MaxLen = 80

// Make lowercases s, strips diacritics, and joins runs of letters and
// digits with single hyphens. It returns "" when nothing usable remains.
func Make(s string) string {
	folded := text.Fold(s)
	var b strings.Builder
	b.Grow(len(folded))
	dash := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if len(out) > MaxLen {
		out = strings.TrimRight(out[:MaxLen], "-")
	}
	return out
}

// WithSuffix appends "-<unix millis>" to s, used when s is already taken.
func WithSuffix(s string, now time.Time) string {
	return s + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// Valid reports whether s is already in slug form.
func Valid(s string) bool {
	return s != "" && Make(s) == s
}

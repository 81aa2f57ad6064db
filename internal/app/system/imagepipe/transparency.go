package imagepipe

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"
	"time"
)

const transparencyCacheSize = 100

type cacheKey struct {
	name  string
	size  int64
	mtime time.Time
}

// transparencyCache remembers alpha scans. Oldest entries are evicted first.
type transparencyCache struct {
	mu    sync.Mutex
	max   int
	order []cacheKey
	vals  map[cacheKey]bool
}

func newTransparencyCache(max int) *transparencyCache {
	return &transparencyCache{max: max, vals: make(map[cacheKey]bool, max)}
}

func (c *transparencyCache) get(k cacheKey) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.vals[k]
	return v, ok
}

func (c *transparencyCache) put(k cacheKey, v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.vals[k]; ok {
		c.vals[k] = v
		return
	}
	if len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.vals, oldest)
	}
	c.order = append(c.order, k)
	c.vals[k] = v
}

func (c *transparencyCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.vals)
}

// keepPNG reports whether f must stay PNG: it is a PNG of at least 100KB
// with at least one pixel whose alpha is below 255.
func (p *Pipeline) keepPNG(f File) (bool, error) {
	if f.Type != "image/png" || f.Size < transparencyCheckMin {
		return false, nil
	}
	k := cacheKey{name: f.Name, size: f.Size, mtime: f.ModTime}
	if v, ok := p.cache.get(k); ok {
		return v, nil
	}
	img, err := png.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return false, fmt.Errorf("imagepipe: decode png: %w", err)
	}
	v := hasTransparency(img)
	p.cache.put(k, v)
	return v, nil
}

func hasTransparency(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a < 0xffff {
				return true
			}
		}
	}
	return false
}

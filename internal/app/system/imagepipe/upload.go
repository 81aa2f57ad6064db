package imagepipe

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/rentalhub/internal/app/system/objectstore"
	"go.uber.org/zap"
)

// DefaultMaxRetries is the number of upload attempts, not extra retries.
const DefaultMaxRetries = 3

// Upload stores res under a fresh key in folder and returns its URL and
// key. A failed attempt n (1-based) waits 2^n seconds before the next one;
// the last error is returned after MaxRetries attempts.
func (p *Pipeline) Upload(ctx context.Context, folder, name string, res Result) (url, key string, err error) {
	key = objectstore.NewKey(folder, name, res.Ext, p.now())
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		url, err = p.store.Put(ctx, key, bytes.NewReader(res.Data), int64(len(res.Data)), res.ContentType)
		if err == nil {
			return url, key, nil
		}
		if attempt == p.maxRetries {
			break
		}
		delay := time.Duration(1<<attempt) * time.Second
		p.log.Warn("image upload failed, retrying",
			zap.String("key", key),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
		if serr := p.sleep(ctx, delay); serr != nil {
			return "", "", serr
		}
	}
	return "", "", fmt.Errorf("imagepipe: upload %s failed after %d attempts: %w", key, p.maxRetries, err)
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

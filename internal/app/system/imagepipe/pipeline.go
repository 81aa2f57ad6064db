package imagepipe

import (
	"context"
	"time"

	"github.com/dalemusser/rentalhub/internal/app/system/objectstore"
	"go.uber.org/zap"
)

// Pipeline compresses and uploads images. It is safe for concurrent use.
type Pipeline struct {
	store      objectstore.Store
	log        *zap.Logger
	cache      *transparencyCache
	maxRetries int

	sleep func(context.Context, time.Duration) error
	now   func() time.Time
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithMaxRetries sets the number of upload attempts (minimum 1).
func WithMaxRetries(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxRetries = n
		}
	}
}

// WithSleep replaces the backoff wait. Tests use it to record delays.
func WithSleep(fn func(context.Context, time.Duration) error) Option {
	return func(p *Pipeline) { p.sleep = fn }
}

// WithClock replaces time.Now for keys and elapsed time.
func WithClock(fn func() time.Time) Option {
	return func(p *Pipeline) { p.now = fn }
}

func New(store objectstore.Store, logger *zap.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		store:      store,
		log:        logger,
		cache:      newTransparencyCache(transparencyCacheSize),
		maxRetries: DefaultMaxRetries,
		sleep:      sleepCtx,
		now:        time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Processed is the outcome of one file.
type Processed struct {
	Name  string `json:"name"`
	URL   string `json:"url,omitempty"`
	Key   string `json:"-"`
	Stats Stats  `json:"stats"`
}

// Stats summarizes a compression.
type Stats struct {
	OriginalSize   int64   `json:"originalSize"`
	CompressedSize int64   `json:"compressedSize"`
	Ratio          float64 `json:"ratio"`
	ElapsedMS      int64   `json:"elapsedMs"`
	ContentType    string  `json:"contentType"`
}

func statsOf(r Result) Stats {
	return Stats{
		OriginalSize:   r.OriginalSize,
		CompressedSize: r.CompressedSize,
		Ratio:          r.Ratio,
		ElapsedMS:      r.Elapsed.Milliseconds(),
		ContentType:    r.ContentType,
	}
}

// Process compresses f with opts and uploads it under folder.
func (p *Pipeline) Process(ctx context.Context, f File, opts Options, folder string, progress func(int)) (Processed, error) {
	res, err := p.Compress(ctx, f, opts, progress)
	if err != nil {
		return Processed{Name: f.Name}, err
	}
	url, key, err := p.Upload(ctx, folder, f.Name, res)
	if err != nil {
		return Processed{Name: f.Name, Stats: statsOf(res)}, err
	}
	return Processed{Name: f.Name, URL: url, Key: key, Stats: statsOf(res)}, nil
}

// Stage names reported by ProcessBatch.
const (
	StageAnalyzing   = "analyzing"
	StageCompressing = "compressing"
	StageUploading   = "uploading"
	StageComplete    = "complete"
	StageError       = "error"
)

// Progress is one batch progress event.
type Progress struct {
	Index   int
	Name    string
	Stage   string
	Percent int
	Err     error
}

// BatchResult pairs a file's outcome with its error.
type BatchResult struct {
	Processed
	Err error
}

// ProcessBatch handles files one at a time in order. A failure affects
// only that file; later files still run unless ctx is done.
func (p *Pipeline) ProcessBatch(ctx context.Context, files []File, opts Options, folder string, onProgress func(Progress)) []BatchResult {
	emit := func(ev Progress) {
		if onProgress != nil {
			onProgress(ev)
		}
	}
	out := make([]BatchResult, 0, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			emit(Progress{Index: i, Name: f.Name, Stage: StageError, Err: err})
			out = append(out, BatchResult{Processed: Processed{Name: f.Name}, Err: err})
			continue
		}

		emit(Progress{Index: i, Name: f.Name, Stage: StageAnalyzing})
		res, err := p.Compress(ctx, f, opts, func(pct int) {
			emit(Progress{Index: i, Name: f.Name, Stage: StageCompressing, Percent: pct})
		})
		if err != nil {
			emit(Progress{Index: i, Name: f.Name, Stage: StageError, Err: err})
			out = append(out, BatchResult{Processed: Processed{Name: f.Name}, Err: err})
			continue
		}

		emit(Progress{Index: i, Name: f.Name, Stage: StageUploading, Percent: 100})
		url, key, err := p.Upload(ctx, folder, f.Name, res)
		if err != nil {
			emit(Progress{Index: i, Name: f.Name, Stage: StageError, Err: err})
			out = append(out, BatchResult{Processed: Processed{Name: f.Name, Stats: statsOf(res)}, Err: err})
			continue
		}

		emit(Progress{Index: i, Name: f.Name, Stage: StageComplete, Percent: 100})
		out = append(out, BatchResult{Processed: Processed{Name: f.Name, URL: url, Key: key, Stats: statsOf(res)}})
	}
	return out
}

// internal/app/features/properties/handler.go
package properties

import (
	"context"
	"time"

	propertystore "github.com/dalemusser/rentalhub/internal/app/store/properties"
	"github.com/dalemusser/rentalhub/internal/app/system/auditlog"
	"github.com/dalemusser/rentalhub/internal/app/system/cache"
	"github.com/dalemusser/rentalhub/internal/app/system/imagepipe"
	"github.com/dalemusser/rentalhub/internal/app/system/objectstore"
	"github.com/dalemusser/rentalhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// maxBodyBytes bounds JSON bodies; a listing with many reviews stays well under it.
const maxBodyBytes = 1 << 20

// listCacheKey holds the serialized GET /api/properties response.
const listCacheKey = "properties:list"

const listCacheTTL = 5 * time.Minute

// Store is the property persistence the handlers use. *propertystore.Store satisfies it.
type Store interface {
	List(ctx context.Context) ([]models.Property, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Property, error)
	SlugExists(ctx context.Context, slug string, excludeID primitive.ObjectID) (bool, error)
	Create(ctx context.Context, p models.Property) (models.Property, error)
	Replace(ctx context.Context, p models.Property) (models.Property, error)
	SetImages(ctx context.Context, id primitive.ObjectID, images models.Images, by string) (models.Property, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

var _ Store = (*propertystore.Store)(nil)

// OrphanRecorder remembers storage keys whose deletion failed.
type OrphanRecorder interface {
	Record(ctx context.Context, key, url, reason string, cause error) error
}

// ImageProcessor compresses and uploads a batch of images. *imagepipe.Pipeline satisfies it.
type ImageProcessor interface {
	ProcessBatch(ctx context.Context, files []imagepipe.File, opts imagepipe.Options, folder string, onProgress func(imagepipe.Progress)) []imagepipe.BatchResult
}

// Handler is the feature-level entry point for the properties API.
type Handler struct {
	Props   Store
	Objects objectstore.Store
	Orphans OrphanRecorder
	Images  ImageProcessor
	Cache   cache.Cache
	Audit   *auditlog.Logger
	Log     *zap.Logger

	now func() time.Time
}

// NewHandler constructs a properties handler. A nil cache disables list caching.
func NewHandler(props Store, objects objectstore.Store, orphans OrphanRecorder, images ImageProcessor, c cache.Cache, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	if c == nil {
		c = cache.Noop{}
	}
	return &Handler{
		Props:   props,
		Objects: objects,
		Orphans: orphans,
		Images:  images,
		Cache:   c,
		Audit:   audit,
		Log:     logger,
		now:     time.Now,
	}
}

// invalidateList drops the cached list after any write. Failures only cost freshness.
func (h *Handler) invalidateList(ctx context.Context) {
	if err := h.Cache.Delete(ctx, listCacheKey); err != nil {
		h.Log.Warn("property list cache invalidation failed", zap.Error(err))
	}
}

// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"

	"github.com/dalemusser/rentalhub/internal/app/store/audit"
	"go.uber.org/zap"
)

// EventStore is the slice of the audit store the log viewer reads from.
type EventStore interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	CountByFilter(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

type Handler struct {
	Events EventStore
	Log    *zap.Logger
}

// NewHandler constructs the audit log viewer.
func NewHandler(events EventStore, logger *zap.Logger) *Handler {
	return &Handler{Events: events, Log: logger}
}

// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Ensurer creates the indexes for one collection. Every store owns its
// own index definitions and implements this.
type Ensurer interface {
	EnsureIndexes(ctx context.Context) error
}

// Set names an Ensurer for error reporting.
type Set struct {
	Collection string
	Ensurer    Ensurer
}

/*
EnsureAll is called at startup. Each EnsureIndexes is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, logger *zap.Logger, sets ...Set) error {
	var problems []string
	for _, s := range sets {
		if err := ctx.Err(); err != nil {
			problems = append(problems, s.Collection+": "+err.Error())
			break
		}
		if err := s.Ensurer.EnsureIndexes(ctx); err != nil {
			logger.Error("ensure indexes failed", zap.String("collection", s.Collection), zap.Error(err))
			problems = append(problems, s.Collection+": "+err.Error())
			continue
		}
		logger.Debug("indexes ensured", zap.String("collection", s.Collection))
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/rentalhub/internal/app/system/cache"
	"github.com/dalemusser/rentalhub/internal/app/system/identity"
	"github.com/dalemusser/rentalhub/internal/app/system/objectstore"
	"github.com/dalemusser/rentalhub/internal/app/system/ratelimit"
	"github.com/dalemusser/rentalhub/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis is nil when redis_addr is blank.
	Redis *cache.Redis

	// Services is filled in by Startup and BuildHandler. It is a pointer
	// because WAFFLE passes DBDeps by value to each hook.
	Services *Services
}

// Services are the long-lived objects built on top of the backends.
type Services struct {
	Objects  objectstore.Store
	Identity *identity.Provider
	Sweeper  *workers.OrphanSweeper

	LoginLimiter   *ratelimit.LoginLimiter
	ContactLimiter *ratelimit.Limiter
}

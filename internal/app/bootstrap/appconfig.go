// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/rentalhub/internal/app/system/auditlog"
	"github.com/dalemusser/rentalhub/internal/app/system/mailer"
	"github.com/dalemusser/rentalhub/internal/app/system/objectstore"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (RENTALHUB_*), config files,
// or command-line flags, loaded in LoadConfig. WAFFLE's CoreConfig covers
// the framework-level settings (ports, TLS, log level, env).
type AppConfig struct {
	SiteName string

	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Identity tokens
	TokenSecret string        // HMAC key for admin-token, 32+ bytes
	TokenIssuer string        // iss claim
	TokenTTL    time.Duration // lifetime of a signed-in session

	// Flash cookie signing key for the HTML login form
	SessionKey string

	// First admin, created or re-promoted at startup when both are set.
	AdminEmail    string
	AdminPassword string

	// Object storage for property and profile images
	Storage objectstore.Config

	// Redis property-list cache. Empty address disables it.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// Outgoing mail for the contact form
	Mail mailer.Config

	// Used until an admin saves the email settings.
	ContactRecipients []string

	// Browser origins allowed to call /api with credentials.
	CORSOrigins []string

	// Rate limits
	LoginIPLimit      int
	LoginEmailLimit   int
	ContactLimit      int
	ContactLimitEvery time.Duration

	OrphanSweepInterval time.Duration

	Audit    auditlog.Config
	Timeouts timeouts.Config
}

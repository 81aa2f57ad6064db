// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/rentalhub/internal/app/system/auditlog"
	"github.com/dalemusser/rentalhub/internal/app/system/inputval"
	"github.com/dalemusser/rentalhub/internal/app/system/mailer"
	"github.com/dalemusser/rentalhub/internal/app/system/objectstore"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const devTokenSecret = "dev-only-token-secret-change-me-0123456789"

// appConfigKeys defines the configuration keys for RentalHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, token_secret, etc.
//   - Environment variables: RENTALHUB_MONGO_URI, RENTALHUB_TOKEN_SECRET, etc.
//   - Command-line flags: --mongo_uri, --token_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "site_name", Default: "RentalHub", Desc: "Site name shown in page titles and emails"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "rentalhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},

	// Identity
	{Name: "token_secret", Default: devTokenSecret, Desc: "HMAC secret for admin tokens, 32+ bytes (must be strong in production)"},
	{Name: "token_issuer", Default: "rentalhub", Desc: "Issuer claim of admin tokens"},
	{Name: "token_ttl", Default: "1h", Desc: "Admin token lifetime (e.g., 1h, 30m)"},
	{Name: "session_key", Default: "", Desc: "Flash cookie signing key (required in production)"},
	{Name: "admin_email", Default: "", Desc: "Email of the bootstrap admin (created or promoted on startup)"},
	{Name: "admin_password", Default: "", Desc: "Password used when the bootstrap admin is created"},

	// Object storage
	{Name: "storage_backend", Default: "local", Desc: "Image storage backend: 'local', 'gcs' or 's3'"},
	{Name: "storage_local_dir", Default: "./uploads", Desc: "Local storage directory"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving local files"},
	{Name: "storage_gcs_bucket", Default: "", Desc: "GCS / Firebase Storage bucket"},
	{Name: "storage_gcs_credentials", Default: "", Desc: "Path to a service account JSON file (blank uses ADC)"},
	{Name: "storage_gcs_firebase_urls", Default: true, Desc: "Emit firebasestorage.googleapis.com download URLs"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_endpoint", Default: "", Desc: "S3-compatible endpoint (MinIO, R2)"},
	{Name: "storage_s3_public_url", Default: "", Desc: "Public base URL for S3 objects (e.g., CDN); required with storage_s3_endpoint"},

	// Cache
	{Name: "redis_addr", Default: "", Desc: "Redis address for the property list cache (blank disables)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "redis_prefix", Default: "rentalhub", Desc: "Redis key prefix"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (blank logs mail instead of sending)"},
	{Name: "mail_smtp_port", Default: 587, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@rentalhub.local", Desc: "From email address"},
	{Name: "mail_from_name", Default: "RentalHub", Desc: "From display name"},
	{Name: "contact_recipients", Default: "", Desc: "Comma-separated default contact-form recipients"},

	{Name: "cors_origins", Default: "http://localhost:3000", Desc: "Comma-separated origins allowed to call /api"},

	// Rate limits
	{Name: "login_ip_limit", Default: 10, Desc: "Login attempts per IP per minute"},
	{Name: "login_email_limit", Default: 5, Desc: "Login attempts per email per 15 minutes"},
	{Name: "contact_limit", Default: 5, Desc: "Contact form submissions per IP per window"},
	{Name: "contact_limit_window", Default: "10m", Desc: "Contact form rate limit window"},

	{Name: "orphan_sweep_interval", Default: "10m", Desc: "How often failed image deletions are retried"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list operations"},
	{Name: "timeout_upload", Default: "2m", Desc: "Timeout for an image upload batch"},
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, RENTALHUB_* for app) and flags,
// merged with precedence: flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "RENTALHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		SiteName: appValues.String("site_name"),

		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		TokenSecret:   appValues.String("token_secret"),
		TokenIssuer:   appValues.String("token_issuer"),
		TokenTTL:      appValues.Duration("token_ttl", time.Hour),
		SessionKey:    appValues.String("session_key"),
		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),

		Storage: objectstore.Config{
			Backend:            appValues.String("storage_backend"),
			LocalDir:           appValues.String("storage_local_dir"),
			LocalBaseURL:       appValues.String("storage_local_url"),
			GCSBucket:          appValues.String("storage_gcs_bucket"),
			GCSCredentialsFile: appValues.String("storage_gcs_credentials"),
			GCSFirebaseURLs:    appValues.Bool("storage_gcs_firebase_urls"),
			S3Bucket:           appValues.String("storage_s3_bucket"),
			S3Region:           appValues.String("storage_s3_region"),
			S3Endpoint:         appValues.String("storage_s3_endpoint"),
			S3PublicBaseURL:    appValues.String("storage_s3_public_url"),
		},

		RedisAddr:     appValues.String("redis_addr"),
		RedisPassword: appValues.String("redis_password"),
		RedisDB:       appValues.Int("redis_db"),
		RedisPrefix:   appValues.String("redis_prefix"),

		Mail: mailer.Config{
			Host:     appValues.String("mail_smtp_host"),
			Port:     appValues.Int("mail_smtp_port"),
			Username: appValues.String("mail_smtp_user"),
			Password: appValues.String("mail_smtp_pass"),
			From:     appValues.String("mail_from"),
			FromName: appValues.String("mail_from_name"),
		},
		ContactRecipients: splitList(appValues.String("contact_recipients")),
		CORSOrigins:       splitList(appValues.String("cors_origins")),

		LoginIPLimit:      appValues.Int("login_ip_limit"),
		LoginEmailLimit:   appValues.Int("login_email_limit"),
		ContactLimit:      appValues.Int("contact_limit"),
		ContactLimitEvery: appValues.Duration("contact_limit_window", 10*time.Minute),

		OrphanSweepInterval: appValues.Duration("orphan_sweep_interval", 10*time.Minute),

		Audit: auditlog.Config{
			Auth:  appValues.String("audit_log_auth"),
			Admin: appValues.String("audit_log_admin"),
		},
		Timeouts: timeouts.Config{
			Short:  appValues.Duration("timeout_short", timeouts.DefaultShort),
			Medium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
			Upload: appValues.Duration("timeout_upload", timeouts.DefaultUpload),
		},
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Production refuses the development token secret and an unsigned flash
// cookie so a forgotten setting fails loudly instead of silently.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	var problems []error
	if len(appCfg.TokenSecret) < 32 {
		problems = append(problems, errors.New("token_secret must be at least 32 bytes"))
	}
	if coreCfg.Env == "prod" {
		if appCfg.TokenSecret == devTokenSecret {
			problems = append(problems, errors.New("token_secret must be changed in production"))
		}
		if appCfg.SessionKey == "" {
			problems = append(problems, errors.New("session_key is required in production"))
		}
	}
	if (appCfg.AdminEmail == "") != (appCfg.AdminPassword == "") {
		problems = append(problems, errors.New("admin_email and admin_password must be set together"))
	}
	for _, addr := range appCfg.ContactRecipients {
		if !inputval.IsEmail(addr) {
			problems = append(problems, fmt.Errorf("contact_recipients: %q is not an email address", addr))
		}
	}
	switch strings.ToLower(appCfg.Storage.Backend) {
	case "gcs":
		if appCfg.Storage.GCSBucket == "" {
			problems = append(problems, errors.New("storage_gcs_bucket is required for the gcs backend"))
		}
	case "s3":
		if appCfg.Storage.S3Bucket == "" {
			problems = append(problems, errors.New("storage_s3_bucket is required for the s3 backend"))
		}
		if appCfg.Storage.S3Endpoint != "" && appCfg.Storage.S3PublicBaseURL == "" {
			problems = append(problems, errors.New("storage_s3_public_url is required with storage_s3_endpoint"))
		}
	}
	return errors.Join(problems...)
}

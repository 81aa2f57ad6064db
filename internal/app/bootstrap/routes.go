// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"
	"time"

	adminfeature "github.com/dalemusser/rentalhub/internal/app/features/admin"
	auditlogfeature "github.com/dalemusser/rentalhub/internal/app/features/auditlog"
	authapifeature "github.com/dalemusser/rentalhub/internal/app/features/authapi"
	contactfeature "github.com/dalemusser/rentalhub/internal/app/features/contact"
	emailsettingsfeature "github.com/dalemusser/rentalhub/internal/app/features/emailsettings"
	errorsfeature "github.com/dalemusser/rentalhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/rentalhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/rentalhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/rentalhub/internal/app/features/logout"
	pagesfeature "github.com/dalemusser/rentalhub/internal/app/features/pages"
	propertiesfeature "github.com/dalemusser/rentalhub/internal/app/features/properties"
	usersfeature "github.com/dalemusser/rentalhub/internal/app/features/users"
	auditstore "github.com/dalemusser/rentalhub/internal/app/store/audit"
	orphanstore "github.com/dalemusser/rentalhub/internal/app/store/orphans"
	propertystore "github.com/dalemusser/rentalhub/internal/app/store/properties"
	settingsstore "github.com/dalemusser/rentalhub/internal/app/store/settings"
	userstore "github.com/dalemusser/rentalhub/internal/app/store/users"
	"github.com/dalemusser/rentalhub/internal/app/system/auditlog"
	"github.com/dalemusser/rentalhub/internal/app/system/auth"
	"github.com/dalemusser/rentalhub/internal/app/system/authutil"
	"github.com/dalemusser/rentalhub/internal/app/system/cache"
	"github.com/dalemusser/rentalhub/internal/app/system/imagepipe"
	"github.com/dalemusser/rentalhub/internal/app/system/mailer"
	"github.com/dalemusser/rentalhub/internal/app/system/objectstore"
	"github.com/dalemusser/rentalhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed, so deps.Services is populated.
//
// RentalHub boots the template engine, loads the caller from the
// admin-token cookie on every request, mounts the JSON API under /api
// (with CORS) and the server-rendered pages at the root.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	db := deps.MongoDatabase
	svc := deps.Services

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	flashes, err := auth.NewFlashes(appCfg.SessionKey, secure, logger)
	if err != nil {
		logger.Error("flash store init failed", zap.Error(err))
		return nil, err
	}

	// Stores
	users := userstore.New(db)
	props := propertystore.New(db)
	orphans := orphanstore.New(db)
	settings := settingsstore.New(db, appCfg.ContactRecipients)

	// Shared services
	auditEvents := auditstore.New(db)
	audit := auditlog.New(auditEvents, logger, appCfg.Audit)
	images := imagepipe.New(svc.Objects, logger)
	var listCache cache.Cache
	var cachePing healthfeature.CachePinger
	if deps.Redis != nil {
		listCache, cachePing = deps.Redis, deps.Redis
	}

	svc.LoginLimiter = ratelimit.NewLoginLimiter(appCfg.LoginIPLimit, time.Minute, appCfg.LoginEmailLimit, 15*time.Minute)
	svc.ContactLimiter = ratelimit.New(appCfg.ContactLimit, appCfg.ContactLimitEvery)
	signIn := &authutil.SignIn{Auth: svc.Identity, Limiter: svc.LoginLimiter, Audit: audit, Log: logger}

	r := chi.NewRouter()
	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	// Global auth middleware: verifies the admin-token cookie and puts the
	// caller in context for auth.CurrentUser(r).
	r.Use(auth.NewMiddleware(svc.Identity, logger).LoadUser)

	// Health check endpoint for load balancers and orchestrators
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, cachePing, logger)))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Uploaded images when stored on local disk
	if objectstore.IsLocal(appCfg.Storage) && strings.HasPrefix(appCfg.Storage.LocalBaseURL, "/") {
		prefix := strings.TrimRight(appCfg.Storage.LocalBaseURL, "/")
		r.Handle(prefix+"/*", fileserver.Handler(prefix, appCfg.Storage.LocalDir))
	}

	// JSON API
	contactHandler := contactfeature.NewHandler(settings, mailer.New(appCfg.Mail, logger), svc.ContactLimiter, logger)
	r.Route("/api", func(api chi.Router) {
		api.Use(cors.Handler(cors.Options{
			AllowedOrigins:   appCfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		api.NotFound(errorsfeature.NotFound)

		api.Mount("/auth", authapifeature.Routes(authapifeature.NewHandler(signIn, audit, secure, logger)))

		api.Mount("/properties", propertiesfeature.Routes(
			propertiesfeature.NewHandler(props, svc.Objects, orphans, images, listCache, audit, logger)))

		api.Mount("/users", usersfeature.Routes(
			usersfeature.NewHandler(svc.Identity, users, svc.Objects, orphans, images, audit, logger)))

		api.Mount("/settings/email", emailsettingsfeature.Routes(
			emailsettingsfeature.NewHandler(settings, audit, logger)))

		api.Mount("/contact", contactfeature.APIRoutes(contactHandler))
	})

	// Public pages
	pagesfeature.Register(r, pagesfeature.NewHandler(logger))
	r.Mount("/contact", contactfeature.Routes(contactHandler))

	// Authentication
	r.Mount("/login", loginfeature.Routes(loginfeature.NewHandler(signIn, flashes, secure, logger)))
	r.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(audit, secure, logger)))

	// Admin screens
	adminRouter := adminfeature.Routes(adminfeature.NewHandler(users, props, logger))
	adminRouter.Mount("/audit", auditlogfeature.Routes(auditlogfeature.NewHandler(auditEvents, logger)))
	r.Mount("/admin", adminRouter)

	return r, nil
}

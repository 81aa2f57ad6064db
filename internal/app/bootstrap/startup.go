// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/rentalhub/internal/app/resources"
	accountstore "github.com/dalemusser/rentalhub/internal/app/store/accounts"
	orphanstore "github.com/dalemusser/rentalhub/internal/app/store/orphans"
	userstore "github.com/dalemusser/rentalhub/internal/app/store/users"
	"github.com/dalemusser/rentalhub/internal/app/system/identity"
	"github.com/dalemusser/rentalhub/internal/app/system/normalize"
	"github.com/dalemusser/rentalhub/internal/app/system/objectstore"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"github.com/dalemusser/rentalhub/internal/app/system/viewdata"
	"github.com/dalemusser/rentalhub/internal/app/system/workers"
	"github.com/dalemusser/rentalhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It loads
// the shared templates, opens object storage, builds the identity provider,
// makes sure the bootstrap admin exists and starts the orphan sweeper.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(appCfg.Timeouts)
	viewdata.Init(appCfg.SiteName)
	resources.LoadSharedTemplates()

	db := deps.MongoDatabase
	svc := deps.Services

	objects, err := objectstore.Open(ctx, appCfg.Storage)
	if err != nil {
		return fmt.Errorf("open object storage: %w", err)
	}
	svc.Objects = objects
	logger.Info("object storage ready", zap.String("backend", appCfg.Storage.Backend))

	provider, err := identity.New(accountstore.New(db), identity.Config{
		Secret:   appCfg.TokenSecret,
		Issuer:   appCfg.TokenIssuer,
		TokenTTL: appCfg.TokenTTL,
	}, logger)
	if err != nil {
		return err
	}
	svc.Identity = provider

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, provider, userstore.New(db), appCfg.AdminEmail, appCfg.AdminPassword, logger); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	svc.Sweeper = workers.NewOrphanSweeper(orphanstore.New(db), objects, logger, appCfg.OrphanSweepInterval)
	svc.Sweeper.Start()

	return nil
}

type adminAccounts interface {
	GetUserByEmail(ctx context.Context, email string) (identity.AccountInfo, error)
	CreateUser(ctx context.Context, in identity.NewAccount) (identity.AccountInfo, error)
	SetCustomClaims(ctx context.Context, uid string, claims map[string]any) error
}

type adminUsers interface {
	GetByUID(ctx context.Context, uid string) (models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	SetAdmin(ctx context.Context, uid string, admin bool, by string) (models.User, error)
}

// ensureAdmin creates the bootstrap admin's account and user document, or
// re-grants the admin claim and role if either was removed. The password
// is only used on creation.
func ensureAdmin(ctx context.Context, accounts adminAccounts, users adminUsers, email, password string, logger *zap.Logger) error {
	email = normalize.Email(email)

	acct, err := accounts.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, identity.ErrAccountNotFound):
		acct, err = accounts.CreateUser(ctx, identity.NewAccount{
			Email:       email,
			Password:    password,
			DisplayName: "Administrator",
		})
		if err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		logger.Info("bootstrap admin account created", zap.String("email", email), zap.String("uid", acct.UID))
	case err != nil:
		return fmt.Errorf("look up account: %w", err)
	}

	if !acct.Admin {
		if err := accounts.SetCustomClaims(ctx, acct.UID, map[string]any{"admin": true}); err != nil {
			return fmt.Errorf("set admin claim: %w", err)
		}
		logger.Info("bootstrap admin claim granted", zap.String("uid", acct.UID))
	}

	u, err := users.GetByUID(ctx, acct.UID)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		name := acct.DisplayName
		if name == "" {
			name = "Administrator"
		}
		_, err = users.Create(ctx, models.User{
			UID:      acct.UID,
			Email:    email,
			Name:     name,
			Role:     models.RoleAdmin,
			Status:   models.StatusActive,
			Metadata: &models.UserMetadata{CreatedBy: "system"},
		})
		if err != nil {
			return fmt.Errorf("create user document: %w", err)
		}
	case err != nil:
		return fmt.Errorf("look up user document: %w", err)
	case !u.IsAdmin:
		if _, err := users.SetAdmin(ctx, acct.UID, true, "system"); err != nil {
			return fmt.Errorf("promote user document: %w", err)
		}
		logger.Info("bootstrap admin role restored", zap.String("uid", acct.UID))
	}
	return nil
}

// Package identity is the application's identity provider: password
// accounts, custom claims, and signed ID tokens.
//
// Accounts live in their own collection (see store/accounts) and are
// addressed by uid. ID tokens are HS256 JWTs whose subject is the uid.
// A token is only accepted while the account exists, is enabled, and was
// issued after the account's TokensValidAfter instant.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/rentalhub/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAccountNotFound    = errors.New("identity: account not found")
	ErrEmailExists        = errors.New("identity: email already exists")
	ErrInvalidCredentials = errors.New("identity: invalid email or password")
	ErrInvalidToken       = errors.New("identity: invalid token")
	ErrTokenRevoked       = errors.New("identity: token revoked")
	ErrAccountDisabled    = errors.New("identity: account disabled")
	ErrWeakPassword       = errors.New("identity: password must be at least 6 characters")
)

// MinPasswordLength is the shortest password CreateUser accepts.
const MinPasswordLength = 6

// AccountStore persists accounts. Implementations return ErrAccountNotFound
// and ErrEmailExists for the corresponding conditions.
type AccountStore interface {
	Insert(ctx context.Context, a models.Account) error
	Get(ctx context.Context, uid string) (models.Account, error)
	GetByEmail(ctx context.Context, email string) (models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	Delete(ctx context.Context, uid string) error
	SetClaims(ctx context.Context, uid string, claims map[string]any) error
	SetDisabled(ctx context.Context, uid string, disabled bool) error
	TouchSignIn(ctx context.Context, uid string, at time.Time) error
	RevokeTokens(ctx context.Context, uid string, validAfter time.Time) error
}

// Config controls token issuance.
type Config struct {
	Secret   string        // HMAC key, 32+ bytes
	Issuer   string        // iss claim, e.g. "rentalhub"
	TokenTTL time.Duration // ID token lifetime

	// Now overrides the clock; nil uses time.Now.
	Now func() time.Time
}

// Provider issues and verifies ID tokens against an AccountStore.
type Provider struct {
	accounts AccountStore
	secret   []byte
	issuer   string
	ttl      time.Duration
	log      *zap.Logger

	now func() time.Time
}

// New validates cfg and returns a Provider.
func New(accounts AccountStore, cfg Config, logger *zap.Logger) (*Provider, error) {
	if len(cfg.Secret) < 32 {
		return nil, fmt.Errorf("identity: token secret must be at least 32 bytes (got %d)", len(cfg.Secret))
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "rentalhub"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Provider{
		accounts: accounts,
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		ttl:      cfg.TokenTTL,
		log:      logger,
		now:      cfg.Now,
	}, nil
}

// TokenTTL is the lifetime of tokens returned by SignIn.
func (p *Provider) TokenTTL() time.Duration { return p.ttl }

// AccountInfo is the public view of an account.
type AccountInfo struct {
	UID          string     `json:"uid"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"displayName,omitempty"`
	Disabled     bool       `json:"disabled"`
	Admin        bool       `json:"admin"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastSignInAt *time.Time `json:"lastSignInAt,omitempty"`
}

func infoOf(a models.Account) AccountInfo {
	return AccountInfo{
		UID:          a.UID,
		Email:        a.Email,
		DisplayName:  a.DisplayName,
		Disabled:     a.Disabled,
		Admin:        a.IsAdmin(),
		CreatedAt:    a.CreatedAt,
		LastSignInAt: a.LastSignInAt,
	}
}

// NewAccount describes an account to create.
type NewAccount struct {
	Email       string
	Password    string
	DisplayName string
	Disabled    bool
}

// CreateUser hashes the password and stores a new account.
func (p *Provider) CreateUser(ctx context.Context, in NewAccount) (AccountInfo, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return AccountInfo{}, fmt.Errorf("identity: email is required")
	}
	if len(in.Password) < MinPasswordLength {
		return AccountInfo{}, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AccountInfo{}, fmt.Errorf("identity: hash password: %w", err)
	}
	now := p.now().UTC()
	a := models.Account{
		UID:              newUID(),
		Email:            email,
		PasswordHash:     hash,
		DisplayName:      strings.TrimSpace(in.DisplayName),
		Disabled:         in.Disabled,
		TokensValidAfter: now.Truncate(time.Second),
		CreatedAt:        now,
	}
	if err := p.accounts.Insert(ctx, a); err != nil {
		return AccountInfo{}, err
	}
	return infoOf(a), nil
}

// GetUser returns the account for uid.
func (p *Provider) GetUser(ctx context.Context, uid string) (AccountInfo, error) {
	a, err := p.accounts.Get(ctx, uid)
	if err != nil {
		return AccountInfo{}, err
	}
	return infoOf(a), nil
}

// GetUserByEmail returns the account registered under email.
func (p *Provider) GetUserByEmail(ctx context.Context, email string) (AccountInfo, error) {
	a, err := p.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return AccountInfo{}, err
	}
	return infoOf(a), nil
}

// ListUsers returns every account.
func (p *Provider) ListUsers(ctx context.Context) ([]AccountInfo, error) {
	list, err := p.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AccountInfo, 0, len(list))
	for _, a := range list {
		out = append(out, infoOf(a))
	}
	return out, nil
}

// DeleteUser removes the account. Outstanding tokens stop verifying
// because the account no longer exists.
func (p *Provider) DeleteUser(ctx context.Context, uid string) error {
	return p.accounts.Delete(ctx, uid)
}

// SetCustomClaims replaces the account's custom claims. A nil map clears them.
func (p *Provider) SetCustomClaims(ctx context.Context, uid string, claims map[string]any) error {
	return p.accounts.SetClaims(ctx, uid, claims)
}

// SetDisabled enables or disables sign-in for the account.
func (p *Provider) SetDisabled(ctx context.Context, uid string, disabled bool) error {
	return p.accounts.SetDisabled(ctx, uid, disabled)
}

// RevokeTokens invalidates every token issued to uid before now.
func (p *Provider) RevokeTokens(ctx context.Context, uid string) error {
	// Tokens carry second-resolution iat; round up so a token minted in the
	// current second is revoked too.
	at := p.now().UTC().Truncate(time.Second).Add(time.Second)
	return p.accounts.RevokeTokens(ctx, uid, at)
}

// SignIn checks the password and returns a fresh ID token.
func (p *Provider) SignIn(ctx context.Context, email, password string) (string, AccountInfo, error) {
	a, err := p.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrAccountNotFound) {
		return "", AccountInfo{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", AccountInfo{}, err
	}
	if bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)) != nil {
		return "", AccountInfo{}, ErrInvalidCredentials
	}
	if a.Disabled {
		return "", AccountInfo{}, ErrAccountDisabled
	}

	tok, err := p.issue(a)
	if err != nil {
		return "", AccountInfo{}, err
	}

	now := p.now().UTC()
	if err := p.accounts.TouchSignIn(ctx, a.UID, now); err != nil {
		p.log.Warn("record sign-in time failed", zap.String("uid", a.UID), zap.Error(err))
	} else {
		a.LastSignInAt = &now
	}
	return tok, infoOf(a), nil
}

// Token is a verified ID token.
type Token struct {
	UID      string
	Email    string
	Name     string
	Claims   map[string]any
	IssuedAt time.Time
	Expires  time.Time
}

// IsAdmin reports whether the admin claim is true.
func (t *Token) IsAdmin() bool {
	v, ok := t.Claims["admin"].(bool)
	return ok && v
}

type idClaims struct {
	Email  string         `json:"email"`
	Name   string         `json:"name,omitempty"`
	Claims map[string]any `json:"claims,omitempty"`
	jwt.RegisteredClaims
}

func (p *Provider) issue(a models.Account) (string, error) {
	now := p.now()
	iat := now
	if iat.Before(a.TokensValidAfter) {
		// Revocation rounds up to the next second; a sign-in inside that
		// window must still produce a usable token.
		iat = a.TokensValidAfter
	}
	claims := idClaims{
		Email:  a.Email,
		Name:   a.DisplayName,
		Claims: a.CustomClaims,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			Subject:   a.UID,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
			ID:        uuid.NewString(),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("identity: sign token: %w", err)
	}
	return s, nil
}

// VerifyIDToken checks the signature, expiry and issuer of raw, then
// confirms the account still exists, is enabled, and has not revoked the
// token. Claims in the returned Token are the account's current claims, so
// a demotion takes effect on the next request.
func (p *Provider) VerifyIDToken(ctx context.Context, raw string) (*Token, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}
	var c idClaims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(2*time.Second),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" || c.IssuedAt == nil {
		return nil, ErrInvalidToken
	}

	a, err := p.accounts.Get(ctx, c.Subject)
	if errors.Is(err, ErrAccountNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if a.Disabled {
		return nil, ErrAccountDisabled
	}
	if c.IssuedAt.Time.Before(a.TokensValidAfter) {
		return nil, ErrTokenRevoked
	}

	return &Token{
		UID:      a.UID,
		Email:    a.Email,
		Name:     a.DisplayName,
		Claims:   a.CustomClaims,
		IssuedAt: c.IssuedAt.Time,
		Expires:  c.ExpiresAt.Time,
	}, nil
}

// newUID returns a 28-character opaque account id.
func newUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:28]
}

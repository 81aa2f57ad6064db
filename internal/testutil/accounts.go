package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/rentalhub/internal/app/system/identity"
	"github.com/dalemusser/rentalhub/internal/domain/models"
)

// AccountStore is an in-memory identity.AccountStore for tests that need a
// real identity.Provider without MongoDB.
type AccountStore struct {
	mu   sync.Mutex
	byID map[string]models.Account

	// Fail, when set, is returned by every method.
	Fail error
}

// NewAccountStore returns an empty in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{byID: make(map[string]models.Account)}
}

// NewProvider builds an identity.Provider over s with a fixed test secret.
func NewProvider(s *AccountStore) *identity.Provider {
	p, err := identity.New(s, identity.Config{
		Secret:   "test-identity-secret-0123456789abcdef",
		Issuer:   "rentalhub-test",
		TokenTTL: time.Hour,
	}, nil)
	if err != nil {
		panic(err)
	}
	return p
}

func (s *AccountStore) Insert(_ context.Context, a models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	for _, x := range s.byID {
		if x.Email == a.Email {
			return identity.ErrEmailExists
		}
	}
	s.byID[a.UID] = a
	return nil
}

func (s *AccountStore) Get(_ context.Context, uid string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return models.Account{}, s.Fail
	}
	a, ok := s.byID[uid]
	if !ok {
		return models.Account{}, identity.ErrAccountNotFound
	}
	return a, nil
}

func (s *AccountStore) GetByEmail(_ context.Context, email string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return models.Account{}, s.Fail
	}
	for _, a := range s.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return models.Account{}, identity.ErrAccountNotFound
}

func (s *AccountStore) List(_ context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	out := make([]models.Account, 0, len(s.byID))
	for _, a := range s.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *AccountStore) Delete(_ context.Context, uid string) error {
	return s.update(uid, func(*models.Account) bool { return false })
}

func (s *AccountStore) SetClaims(_ context.Context, uid string, claims map[string]any) error {
	return s.update(uid, func(a *models.Account) bool { a.CustomClaims = claims; return true })
}

func (s *AccountStore) SetDisabled(_ context.Context, uid string, disabled bool) error {
	return s.update(uid, func(a *models.Account) bool { a.Disabled = disabled; return true })
}

func (s *AccountStore) TouchSignIn(_ context.Context, uid string, at time.Time) error {
	return s.update(uid, func(a *models.Account) bool { a.LastSignInAt = &at; return true })
}

func (s *AccountStore) RevokeTokens(_ context.Context, uid string, validAfter time.Time) error {
	return s.update(uid, func(a *models.Account) bool { a.TokensValidAfter = validAfter; return true })
}

// update applies fn to the account; fn returning false deletes it.
func (s *AccountStore) update(uid string, fn func(*models.Account) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	a, ok := s.byID[uid]
	if !ok {
		return identity.ErrAccountNotFound
	}
	if !fn(&a) {
		delete(s.byID, uid)
		return nil
	}
	s.byID[uid] = a
	return nil
}

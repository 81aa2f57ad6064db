package accountstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	accountstore "github.com/dalemusser/rentalhub/internal/app/store/accounts"
	"github.com/dalemusser/rentalhub/internal/app/system/identity"
	"github.com/dalemusser/rentalhub/internal/domain/models"
	"github.com/dalemusser/rentalhub/internal/testutil"
)

func TestStore_InsertGetDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := accountstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	a := models.Account{UID: "uid-1", Email: "a@example.com", PasswordHash: []byte("x"), CreatedAt: time.Now().UTC()}
	if err := store.Insert(ctx, a); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := store.GetByEmail(ctx, "a@example.com")
	if err != nil || got.UID != "uid-1" {
		t.Errorf("GetByEmail: %+v %v", got, err)
	}

	a.UID = "uid-2"
	if err := store.Insert(ctx, a); !errors.Is(err, identity.ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, identity.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestStore_Mutations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := accountstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Insert(ctx, models.Account{UID: "u1", Email: "u1@example.com"}); err != nil {
		t.Fatal(err)
	}

	if err := store.SetClaims(ctx, "u1", map[string]any{"admin": true}); err != nil {
		t.Fatal(err)
	}
	if err := store.SetDisabled(ctx, "u1", true); err != nil {
		t.Fatal(err)
	}
	at := time.Now().UTC().Truncate(time.Millisecond)
	if err := store.TouchSignIn(ctx, "u1", at); err != nil {
		t.Fatal(err)
	}
	if err := store.RevokeTokens(ctx, "u1", at); err != nil {
		t.Fatal(err)
	}

	got, _ := store.Get(ctx, "u1")
	if !got.IsAdmin() || !got.Disabled {
		t.Errorf("claims/disabled not stored: %+v", got)
	}
	if got.LastSignInAt == nil || !got.LastSignInAt.Equal(at) || !got.TokensValidAfter.Equal(at) {
		t.Errorf("times: %v %v", got.LastSignInAt, got.TokensValidAfter)
	}

	if err := store.SetClaims(ctx, "u1", nil); err != nil {
		t.Fatal(err)
	}
	got, _ = store.Get(ctx, "u1")
	if got.IsAdmin() {
		t.Error("claims should be cleared")
	}

	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "u1"); !errors.Is(err, identity.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound on second delete, got %v", err)
	}
	if err := store.SetDisabled(ctx, "u1", false); !errors.Is(err, identity.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

// The Mongo store drives a real provider end to end.
func TestStore_WithProvider(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := accountstore.New(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p, err := identity.New(store, identity.Config{Secret: "0123456789abcdef0123456789abcdef"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	info, err := p.CreateUser(ctx, identity.NewAccount{Email: "Owner@Example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	token, _, err := p.SignIn(ctx, "owner@example.com", "secret123")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	tok, err := p.VerifyIDToken(ctx, token)
	if err != nil || tok.UID != info.UID {
		t.Errorf("VerifyIDToken: %+v %v", tok, err)
	}
}

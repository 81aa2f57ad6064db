package settingsstore_test

import (
	"testing"

	settingsstore "github.com/dalemusser/rentalhub/internal/app/store/settings"
	"github.com/dalemusser/rentalhub/internal/testutil"
)

func TestStore_Get_ReturnsDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db, []string{"owner@example.com"})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.IsDefault {
		t.Error("expected IsDefault when nothing is saved")
	}
	if len(got.Recipients) != 1 || got.Recipients[0] != "owner@example.com" {
		t.Errorf("recipients: got %v", got.Recipients)
	}

	exists, err := store.Exists(ctx)
	if err != nil || exists {
		t.Errorf("Exists: %v %v", exists, err)
	}
}

func TestStore_Save_Upserts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db, []string{"owner@example.com"})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Save(ctx, []string{"a@example.com", "b@example.com"}, "admin@test.com"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Save(ctx, []string{"c@example.com"}, "admin@test.com"); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.IsDefault {
		t.Error("saved settings should not be marked default")
	}
	if len(got.Recipients) != 1 || got.Recipients[0] != "c@example.com" {
		t.Errorf("recipients: got %v", got.Recipients)
	}
	if got.UpdatedBy != "admin@test.com" || got.UpdatedAt == nil {
		t.Errorf("audit fields: %q %v", got.UpdatedBy, got.UpdatedAt)
	}
}

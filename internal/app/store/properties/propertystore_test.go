package propertystore_test

import (
	"errors"
	"testing"

	propertystore "github.com/dalemusser/rentalhub/internal/app/store/properties"
	"github.com/dalemusser/rentalhub/internal/domain/models"
	"github.com/dalemusser/rentalhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := propertystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, testutil.NewProperty("Casa Azul", "casa-azul"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID.IsZero() {
		t.Fatal("expected ID")
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Casa Azul" || got.Pricing.BasePrice != 250 {
		t.Errorf("unexpected property: %+v", got)
	}

	bySlug, err := store.GetBySlug(ctx, "casa-azul")
	if err != nil || bySlug.ID != created.ID {
		t.Errorf("GetBySlug: %v %v", bySlug.ID, err)
	}

	if _, err := store.Get(ctx, primitive.NewObjectID()); !errors.Is(err, propertystore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_SlugUniqueness(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := propertystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	first, err := store.Create(ctx, testutil.NewProperty("One", "same"))
	if err != nil {
		t.Fatal(err)
	}

	exists, err := store.SlugExists(ctx, "same", primitive.NilObjectID)
	if err != nil || !exists {
		t.Errorf("SlugExists: %v %v", exists, err)
	}
	exists, _ = store.SlugExists(ctx, "same", first.ID)
	if exists {
		t.Error("slug should not count against its own property")
	}

	if _, err := store.Create(ctx, testutil.NewProperty("Two", "same")); !errors.Is(err, propertystore.ErrDuplicateSlug) {
		t.Errorf("expected ErrDuplicateSlug, got %v", err)
	}
}

func TestStore_Replace_KeepsCreatedFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := propertystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := testutil.NewProperty("Loft", "loft")
	p.CreatedBy = "creator@example.com"
	created, err := store.Create(ctx, p)
	if err != nil {
		t.Fatal(err)
	}

	created.Title = "Sunny Loft"
	created.Bedrooms = 5
	created.CreatedBy = "someone-else"
	created.UpdatedBy = "editor@example.com"
	updated, err := store.Replace(ctx, created)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if updated.Title != "Sunny Loft" || updated.Bedrooms != 5 {
		t.Errorf("fields not updated: %+v", updated)
	}
	if updated.CreatedBy != "creator@example.com" {
		t.Errorf("CreatedBy changed to %q", updated.CreatedBy)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) && !updated.UpdatedAt.Equal(updated.CreatedAt) {
		t.Error("UpdatedAt should not precede CreatedAt")
	}

	missing := testutil.NewProperty("x", "x")
	missing.ID = primitive.NewObjectID()
	if _, err := store.Replace(ctx, missing); !errors.Is(err, propertystore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_SetImages_ListCountDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := propertystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, _ := store.Create(ctx, testutil.NewProperty("A", "a"))
	draft := testutil.NewProperty("B", "b")
	draft.Status = models.ListingDraft
	_, _ = store.Create(ctx, draft)

	out, err := store.SetImages(ctx, a.ID, models.Images{Hero: "https://objects.test/h.jpg"}, "admin@test.com")
	if err != nil {
		t.Fatal(err)
	}
	if out.Images.Hero == "" || out.Images.Gallery == nil {
		t.Errorf("images: %+v", out.Images)
	}

	list, err := store.List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("List: %d %v", len(list), err)
	}
	if list[0].Slug != "b" {
		t.Errorf("expected newest first, got %q", list[0].Slug)
	}
	if n, _ := store.Count(ctx, models.ListingActive); n != 1 {
		t.Errorf("active count: %d", n)
	}

	if n, err := store.Delete(ctx, a.ID); err != nil || n != 1 {
		t.Errorf("Delete: %d %v", n, err)
	}
}

package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/rentalhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// NewUser returns an unsaved user document.
func NewUser(uid, name, email, role string) models.User {
	now := time.Now().UTC()
	return models.User{
		UID:       uid,
		Email:     email,
		Name:      name,
		NameCI:    text.Fold(name),
		Role:      role,
		IsAdmin:   role == models.RoleAdmin,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateUser inserts a user document directly into the users collection.
func (f *Fixtures) CreateUser(ctx context.Context, uid, name, email, role string) models.User {
	f.t.Helper()
	u := NewUser(uid, name, email, role)
	u.ID = primitive.NewObjectID()
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return u
}

// NewProperty returns an unsaved, valid property.
func NewProperty(title, slug string) models.Property {
	now := time.Now().UTC()
	return models.Property{
		Title:     title,
		Slug:      slug,
		Type:      models.PropertyVilla,
		Status:    models.ListingActive,
		Address:   models.Address{Street: "1 Beach Rd", City: "Tulum", Country: "MX"},
		Bedrooms:  3,
		Bathrooms: 2,
		MaxGuests: 6,
		Rating:    4.8,
		Pricing:   models.Pricing{BasePrice: 250, CleaningFee: 80, Currency: "USD", MinimumStay: 2},
		Amenities: []string{},
		Features:  []string{},
		Rules:     []string{},
		Images:    models.Images{Gallery: []string{}},
		Reviews:   []models.Review{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateProperty inserts a property directly into the properties collection.
func (f *Fixtures) CreateProperty(ctx context.Context, title, slug string) models.Property {
	f.t.Helper()
	p := NewProperty(title, slug)
	p.ID = primitive.NewObjectID()
	if _, err := f.db.Collection("properties").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("CreateProperty(%s): %v", slug, err)
	}
	return p
}

// internal/app/store/properties/propertystore.go
package propertystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/rentalhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no property has the requested id or slug.
	ErrNotFound = errors.New("property not found")
	// ErrDuplicateSlug is returned when the unique slug index rejects a write.
	ErrDuplicateSlug = errors.New("a property with this slug already exists")
)

// Store provides access to the properties collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new property store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("properties")}
}

// EnsureIndexes creates the unique slug index and the listing sort index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_slug")},
		{Keys: bson.D{{Key: "created_at", Value: -1}}, Options: options.Index().SetName("idx_created")},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("idx_status_created")},
	})
	return err
}

// List returns every property, newest first.
func (s *Store) List(ctx context.Context) ([]models.Property, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Property{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of properties, optionally restricted to a status.
func (s *Store) Count(ctx context.Context, status string) (int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.c.CountDocuments(ctx, filter)
}

// Get loads a property by id.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Property, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetBySlug loads a property by slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (models.Property, error) {
	return s.findOne(ctx, bson.M{"slug": slug})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Property, error) {
	var p models.Property
	err := s.c.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Property{}, ErrNotFound
	}
	return p, err
}

// SlugExists reports whether slug is taken by a property other than excludeID.
// Pass primitive.NilObjectID to check against every property.
func (s *Store) SlugExists(ctx context.Context, slug string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"slug": slug}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	err := s.c.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// Create inserts p with a new id and timestamps.
func (s *Store) Create(ctx context.Context, p models.Property) (models.Property, error) {
	p.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Property{}, ErrDuplicateSlug
		}
		return models.Property{}, err
	}
	return p, nil
}

// Replace overwrites the stored property with p (last write wins).
// CreatedAt and CreatedBy are kept from the stored document.
func (s *Store) Replace(ctx context.Context, p models.Property) (models.Property, error) {
	p.UpdatedAt = time.Now().UTC()
	set, err := toSet(p)
	if err != nil {
		return models.Property{}, err
	}
	delete(set, "_id")
	delete(set, "created_at")
	delete(set, "created_by")

	var out models.Property
	err = s.c.FindOneAndUpdate(ctx, bson.M{"_id": p.ID}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.Property{}, ErrNotFound
	case wafflemongo.IsDup(err):
		return models.Property{}, ErrDuplicateSlug
	}
	return out, err
}

// SetImages replaces the images object of a property.
func (s *Store) SetImages(ctx context.Context, id primitive.ObjectID, images models.Images, by string) (models.Property, error) {
	if images.Gallery == nil {
		images.Gallery = []string{}
	}
	var out models.Property
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"images":     images,
		"updated_by": by,
		"updated_at": time.Now().UTC(),
	}}, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Property{}, ErrNotFound
	}
	return out, err
}

// Delete removes a property. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func toSet(p models.Property) (bson.M, error) {
	raw, err := bson.Marshal(p)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/rentalhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the email_settings collection.
// It holds a single document whose _id is models.EmailSettingsID.
type Store struct {
	c        *mongo.Collection
	defaults []string
}

// New creates a new settings store. defaults is returned as the recipient
// list until an admin saves one.
func New(db *mongo.Database, defaults []string) *Store {
	return &Store{c: db.Collection("email_settings"), defaults: defaults}
}

// Get returns the email settings. If none were saved, returns the defaults
// with IsDefault set.
func (s *Store) Get(ctx context.Context) (models.EmailSettings, error) {
	var settings models.EmailSettings
	err := s.c.FindOne(ctx, bson.M{"_id": models.EmailSettingsID}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.EmailSettings{
			ID:         models.EmailSettingsID,
			Recipients: append([]string{}, s.defaults...),
			IsDefault:  true,
		}, nil
	}
	if err != nil {
		return models.EmailSettings{}, err
	}
	if settings.Recipients == nil {
		settings.Recipients = []string{}
	}
	return settings, nil
}

// Save upserts the recipient list.
func (s *Store) Save(ctx context.Context, recipients []string, by string) (models.EmailSettings, error) {
	now := time.Now().UTC()
	settings := models.EmailSettings{
		ID:         models.EmailSettingsID,
		Recipients: recipients,
		UpdatedAt:  &now,
		UpdatedBy:  by,
	}

	update := bson.M{
		"$set": bson.M{
			"recipients": settings.Recipients,
			"updated_at": settings.UpdatedAt,
			"updated_by": settings.UpdatedBy,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": models.EmailSettingsID}, update, opts); err != nil {
		return models.EmailSettings{}, err
	}
	return settings, nil
}

// Exists checks if settings have been saved.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"_id": models.EmailSettingsID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

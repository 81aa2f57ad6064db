// internal/app/store/orphans/orphanstore.go
package orphanstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Orphan is an object-storage key whose deletion failed and is waiting to be retried.
type Orphan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Key           string             `bson:"key"`
	URL           string             `bson:"url,omitempty"`
	Reason        string             `bson:"reason,omitempty"` // e.g. "property_delete", "profile_image_replace"
	Attempts      int                `bson:"attempts"`
	LastError     string             `bson:"last_error,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
	NextAttemptAt time.Time          `bson:"next_attempt_at"`
}

// Store provides access to the storage_orphans collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("storage_orphans")}
}

// EnsureIndexes creates the unique key index and the due-time index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_key")},
		{Keys: bson.D{{Key: "next_attempt_at", Value: 1}}, Options: options.Index().SetName("idx_next_attempt")},
	})
	return err
}

// Record upserts an orphan for key. Recording the same key twice keeps one entry.
func (s *Store) Record(ctx context.Context, key, url, reason string, cause error) error {
	now := time.Now().UTC()
	set := bson.M{"url": url, "reason": reason}
	if cause != nil {
		set["last_error"] = cause.Error()
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"key": key}, bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"_id":             primitive.NewObjectID(),
			"attempts":        0,
			"created_at":      now,
			"next_attempt_at": now,
		},
	}, options.Update().SetUpsert(true))
	return err
}

// Due returns up to limit orphans whose next attempt is at or before now,
// oldest first.
func (s *Store) Due(ctx context.Context, now time.Time, limit int64) ([]Orphan, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "next_attempt_at", Value: 1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"next_attempt_at": bson.M{"$lte": now}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Orphan
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkFailed increments the attempt count and schedules the next attempt.
func (s *Store) MarkFailed(ctx context.Context, id primitive.ObjectID, cause error, next time.Time) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"attempts": 1},
		"$set": bson.M{"last_error": msg, "next_attempt_at": next},
	})
	return err
}

// Remove deletes an orphan after its object was deleted (or found already gone).
func (s *Store) Remove(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Count returns the number of pending orphans.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// Package accountstore persists identity accounts in the auth_accounts
// collection. It implements identity.AccountStore.
package accountstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/rentalhub/internal/app/system/identity"
	"github.com/dalemusser/rentalhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var _ identity.AccountStore = (*Store)(nil)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("auth_accounts")}
}

// EnsureIndexes creates the unique email index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	return err
}

func (s *Store) Insert(ctx context.Context, a models.Account) error {
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return identity.ErrEmailExists
		}
		return err
	}
	return nil
}

func (s *Store) Get(ctx context.Context, uid string) (models.Account, error) {
	return s.findOne(ctx, bson.M{"_id": uid})
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Account, error) {
	var a models.Account
	err := s.c.FindOne(ctx, filter).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Account{}, identity.ErrAccountNotFound
	}
	return a, err
}

// List returns all accounts ordered by email.
func (s *Store) List(ctx context.Context) ([]models.Account, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "email", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Account{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, uid string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": uid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return identity.ErrAccountNotFound
	}
	return nil
}

func (s *Store) SetClaims(ctx context.Context, uid string, claims map[string]any) error {
	if len(claims) == 0 {
		return s.update(ctx, uid, bson.M{"$unset": bson.M{"custom_claims": ""}})
	}
	return s.update(ctx, uid, bson.M{"$set": bson.M{"custom_claims": claims}})
}

func (s *Store) SetDisabled(ctx context.Context, uid string, disabled bool) error {
	return s.update(ctx, uid, bson.M{"$set": bson.M{"disabled": disabled}})
}

func (s *Store) TouchSignIn(ctx context.Context, uid string, at time.Time) error {
	return s.update(ctx, uid, bson.M{"$set": bson.M{"last_sign_in_at": at}})
}

func (s *Store) RevokeTokens(ctx context.Context, uid string, validAfter time.Time) error {
	return s.update(ctx, uid, bson.M{"$set": bson.M{"tokens_valid_after": validAfter}})
}

func (s *Store) update(ctx context.Context, uid string, update bson.M) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": uid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return identity.ErrAccountNotFound
	}
	return nil
}

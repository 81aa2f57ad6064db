package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/rentalhub/internal/app/system/normalize"
	"github.com/dalemusser/rentalhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrNotFound is returned when no user document has the requested uid.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "user"|"admin"`)
	errBadStatus      = errors.New(`status must be "active"|"inactive"|"pending"`)
	errNoUID          = errors.New("uid is required")
)

// EnsureIndexes creates the unique uid and email indexes plus the list/search indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "uid", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_uid")},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_email")},
		{Keys: bson.D{{Key: "created_at", Value: -1}}, Options: options.Index().SetName("idx_created")},
		{Keys: bson.D{{Key: "name_ci", Value: 1}}, Options: options.Index().SetName("idx_name_ci")},
	})
	return err
}

// GetByUID loads the user document linked to an identity account.
func (s *Store) GetByUID(ctx context.Context, uid string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"uid": uid}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

// List returns every user document, newest first. The admin table filters
// and pages in memory, so no limit is applied.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the number of user documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// CountAdmins returns the number of users with the admin role.
func (s *Store) CountAdmins(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"is_admin": true})
}

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.UID == "" {
		return models.User{}, errNoUID
	}
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.Status = normalize.Status(u.Status)
	if u.Status == "" {
		u.Status = models.StatusActive
	}
	if !models.ValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if !models.ValidStatus(u.Status) {
		return models.User{}, errBadStatus
	}
	u.IsAdmin = u.Role == models.RoleAdmin

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Update holds the editable fields of a user. Nil fields are left unchanged.
// Promotion, when set, is appended to metadata.promotions.
type Update struct {
	Name      *string
	Role      *string
	Status    *string
	Promotion *models.Promotion
}

// Update applies upd to the user with the given uid and returns the updated document.
func (s *Store) Update(ctx context.Context, uid string, upd Update) (models.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		name := normalize.Name(*upd.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if upd.Role != nil {
		role := normalize.Role(*upd.Role)
		if !models.ValidRole(role) {
			return models.User{}, errBadRole
		}
		set["role"] = role
		set["is_admin"] = role == models.RoleAdmin
	}
	if upd.Status != nil {
		st := normalize.Status(*upd.Status)
		if !models.ValidStatus(st) {
			return models.User{}, errBadStatus
		}
		set["status"] = st
	}

	update := bson.M{"$set": set}
	if upd.Promotion != nil {
		update["$push"] = bson.M{"metadata.promotions": upd.Promotion}
	}

	var out models.User
	err := s.c.FindOneAndUpdate(ctx, bson.M{"uid": uid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	return out, err
}

// SetAdmin mirrors the admin claim onto the user document. The returned
// user is the document before the change so callers can see the old role.
func (s *Store) SetAdmin(ctx context.Context, uid string, admin bool, by string) (models.User, error) {
	role := models.RoleUser
	if admin {
		role = models.RoleAdmin
	}
	now := time.Now().UTC()

	var before models.User
	err := s.c.FindOneAndUpdate(ctx, bson.M{"uid": uid}, bson.M{
		"$set": bson.M{"role": role, "is_admin": admin, "updated_at": now},
	}).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	if before.Role != role {
		promo := models.Promotion{From: before.Role, To: role, By: by, At: now}
		if _, err := s.c.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{
			"$push": bson.M{"metadata.promotions": promo},
		}); err != nil {
			return before, err
		}
	}
	return before, nil
}

// SetPhotoURL sets or clears (url == "") the profile image URL.
func (s *Store) SetPhotoURL(ctx context.Context, uid, url string) error {
	update := bson.M{"$set": bson.M{"photo_url": url, "updated_at": time.Now().UTC()}}
	if url == "" {
		update = bson.M{
			"$unset": bson.M{"photo_url": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		}
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"uid": uid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the user with the given uid.
// Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, uid string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"uid": uid})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPending  = "pending"
)

// User is the profile document kept alongside an identity account.
// UID links the document to the auth_accounts record of the same person.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID      string             `bson:"uid" json:"uid"`
	Email    string             `bson:"email" json:"email"`
	Name     string             `bson:"name" json:"name"`
	NameCI   string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Role     string             `bson:"role" json:"role"` // user | admin
	IsAdmin  bool               `bson:"is_admin" json:"isAdmin"`
	Status   string             `bson:"status" json:"status"` // active | inactive | pending
	PhotoURL string             `bson:"photo_url,omitempty" json:"photoURL,omitempty"`

	Metadata *UserMetadata `bson:"metadata,omitempty" json:"metadata,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// UserMetadata records who created the user and how its role changed over time.
type UserMetadata struct {
	CreatedBy  string      `bson:"created_by,omitempty" json:"createdBy,omitempty"`
	Promotions []Promotion `bson:"promotions,omitempty" json:"promotions,omitempty"`
}

// Promotion is one role change applied by an admin.
type Promotion struct {
	From string    `bson:"from" json:"from"`
	To   string    `bson:"to" json:"to"`
	By   string    `bson:"by" json:"by"`
	At   time.Time `bson:"at" json:"at"`
}

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}

// ValidStatus reports whether s is a known user status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	}
	return false
}

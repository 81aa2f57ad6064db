// internal/domain/models/emailsettings.go
package models

import "time"

// EmailSettingsID is the fixed _id of the singleton email settings document.
const EmailSettingsID = "contact"

// EmailSettings holds the recipients of contact-form notifications.
type EmailSettings struct {
	ID         string     `bson:"_id" json:"-"`
	Recipients []string   `bson:"recipients" json:"recipients"`
	UpdatedAt  *time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
	UpdatedBy  string     `bson:"updated_by,omitempty" json:"updatedBy,omitempty"`

	// IsDefault is true when no document exists and the configured fallback is returned.
	IsDefault bool `bson:"-" json:"isDefault"`
}

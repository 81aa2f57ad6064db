// internal/domain/models/property.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Property types.
const (
	PropertyVilla     = "villa"
	PropertyApartment = "apartment"
	PropertyHouse     = "house"
	PropertyResort    = "resort"
)

// AllPropertyTypes lists the accepted values for Property.Type.
var AllPropertyTypes = []string{PropertyVilla, PropertyApartment, PropertyHouse, PropertyResort}

// Property listing statuses.
const (
	ListingActive   = "active"
	ListingDraft    = "draft"
	ListingArchived = "archived"
)

// Review platforms accepted in the unified reviews array.
var AllReviewPlatforms = []string{"airbnb", "vrbo", "booking", "google", "direct"}

// Property is a rental listing managed from the admin dashboard.
type Property struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Address     Address            `bson:"address" json:"address"`
	Type        string             `bson:"type" json:"type"` // villa | apartment | house | resort
	Status      string             `bson:"status" json:"status"`

	Bedrooms    int     `bson:"bedrooms" json:"bedrooms"`
	Bathrooms   int     `bson:"bathrooms" json:"bathrooms"`
	MaxGuests   int     `bson:"max_guests" json:"maxGuests"`
	Rating      float64 `bson:"rating" json:"rating"`
	ReviewCount int     `bson:"review_count" json:"reviewCount"`

	Amenities []string `bson:"amenities" json:"amenities"`
	Features  []string `bson:"features" json:"features"`
	Rules     []string `bson:"rules" json:"rules"`

	Pricing  Pricing  `bson:"pricing" json:"pricing"`
	Images   Images   `bson:"images" json:"images"`
	Policies Policies `bson:"policies" json:"policies"`
	Reviews  []Review `bson:"reviews" json:"reviews"`

	CreatedBy string    `bson:"created_by,omitempty" json:"createdBy,omitempty"`
	UpdatedBy string    `bson:"updated_by,omitempty" json:"updatedBy,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Address is the street location of a property.
type Address struct {
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state,omitempty" json:"state,omitempty"`
	Country    string `bson:"country,omitempty" json:"country,omitempty"`
	PostalCode string `bson:"postal_code,omitempty" json:"postalCode,omitempty"`
}

// Pricing holds nightly price and fees in a single currency.
type Pricing struct {
	BasePrice   float64 `bson:"base_price" json:"basePrice"`
	CleaningFee float64 `bson:"cleaning_fee" json:"cleaningFee"`
	ServiceFee  float64 `bson:"service_fee" json:"serviceFee"`
	Currency    string  `bson:"currency" json:"currency"`
	MinimumStay int     `bson:"minimum_stay,omitempty" json:"minimumStay,omitempty"`
}

// Images holds the hero image and gallery URLs of a property.
type Images struct {
	Hero    string   `bson:"hero,omitempty" json:"hero,omitempty"`
	Gallery []string `bson:"gallery" json:"gallery"`
}

// All returns the hero URL (when set) followed by the gallery URLs.
func (im Images) All() []string {
	out := make([]string, 0, len(im.Gallery)+1)
	if im.Hero != "" {
		out = append(out, im.Hero)
	}
	return append(out, im.Gallery...)
}

// Policies are the house policies shown on a listing.
type Policies struct {
	CheckIn        string `bson:"check_in,omitempty" json:"checkIn,omitempty"`
	CheckOut       string `bson:"check_out,omitempty" json:"checkOut,omitempty"`
	Cancellation   string `bson:"cancellation,omitempty" json:"cancellation,omitempty"`
	PetsAllowed    bool   `bson:"pets_allowed" json:"petsAllowed"`
	SmokingAllowed bool   `bson:"smoking_allowed" json:"smokingAllowed"`
}

// Review is a guest review imported from any booking platform.
type Review struct {
	Platform string    `bson:"platform" json:"platform"`
	Author   string    `bson:"author" json:"author"`
	Rating   float64   `bson:"rating" json:"rating"`
	Comment  string    `bson:"comment,omitempty" json:"comment,omitempty"`
	Date     time.Time `bson:"date" json:"date"`
}

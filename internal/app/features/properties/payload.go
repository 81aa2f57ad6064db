// internal/app/features/properties/payload.go
package properties

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/dalemusser/rentalhub/internal/app/system/inputval"
	"github.com/dalemusser/rentalhub/internal/app/system/sanitize"
	"github.com/dalemusser/rentalhub/internal/app/system/slug"
	"github.com/dalemusser/rentalhub/internal/domain/models"
)

var listingStatuses = []string{models.ListingActive, models.ListingDraft, models.ListingArchived}

// propertyInput is the JSON body of POST and PUT. Nil fields were not
// supplied: POST fills defaults, PUT leaves the stored value alone.
type propertyInput struct {
	Title       *string          `json:"title"`
	Slug        *string          `json:"slug"`
	Description *string          `json:"description"`
	Address     *models.Address  `json:"address"`
	Type        *string          `json:"type"`
	Status      *string          `json:"status"`
	Bedrooms    *int             `json:"bedrooms"`
	Bathrooms   *int             `json:"bathrooms"`
	MaxGuests   *int             `json:"maxGuests"`
	Rating      *float64         `json:"rating"`
	ReviewCount *int             `json:"reviewCount"`
	Amenities   []string         `json:"amenities"`
	Features    []string         `json:"features"`
	Rules       []string         `json:"rules"`
	Pricing     *models.Pricing  `json:"pricing"`
	Images      *imagesInput     `json:"images"`
	Policies    *models.Policies `json:"policies"`
	Reviews     []models.Review  `json:"reviews"`

	// Server-managed fields the dashboard echoes back on edit; ignored.
	ID        json.RawMessage `json:"id,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
	UpdatedAt json.RawMessage `json:"updatedAt,omitempty"`
	CreatedBy json.RawMessage `json:"createdBy,omitempty"`
	UpdatedBy json.RawMessage `json:"updatedBy,omitempty"`
}

type imagesInput struct {
	Hero    *string  `json:"hero"`
	Gallery []string `json:"gallery"`
}

// validate checks every supplied field. creating adds the required-field checks.
func (in propertyInput) validate(creating bool) error {
	errs := inputval.New()

	if creating {
		if in.Title == nil {
			errs.Add("title", "is required")
		}
		if in.Address == nil {
			errs.Add("address.street", "is required")
			errs.Add("address.city", "is required")
		}
		if in.Type == nil {
			errs.Add("type", "is required")
		}
	}

	if in.Title != nil {
		errs.Required("title", *in.Title)
		errs.MaxLen("title", *in.Title, 200)
	}
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" && slug.Make(*in.Slug) == "" {
		errs.Add("slug", "must contain letters or digits")
	}
	if in.Description != nil {
		errs.MaxLen("description", *in.Description, 10000)
	}
	if a := in.Address; a != nil {
		errs.Required("address.street", a.Street)
		errs.Required("address.city", a.City)
		errs.MaxLen("address.street", a.Street, 200)
		errs.MaxLen("address.city", a.City, 100)
		errs.MaxLen("address.state", a.State, 100)
		errs.MaxLen("address.country", a.Country, 100)
		errs.MaxLen("address.postalCode", a.PostalCode, 20)
	}
	if in.Type != nil {
		errs.OneOf("type", *in.Type, models.AllPropertyTypes...)
	}
	if in.Status != nil {
		errs.OneOf("status", *in.Status, listingStatuses...)
	}
	if in.Bedrooms != nil {
		errs.IntRange("bedrooms", *in.Bedrooms, 0, 50)
	}
	if in.Bathrooms != nil {
		errs.IntRange("bathrooms", *in.Bathrooms, 0, 50)
	}
	if in.MaxGuests != nil {
		errs.IntRange("maxGuests", *in.MaxGuests, 1, 100)
	}
	if in.Rating != nil {
		errs.FloatRange("rating", *in.Rating, 0, 5)
	}
	if in.ReviewCount != nil && *in.ReviewCount < 0 {
		errs.Add("reviewCount", "must not be negative")
	}
	if p := in.Pricing; p != nil {
		errs.NonNegative("pricing.basePrice", p.BasePrice)
		errs.NonNegative("pricing.cleaningFee", p.CleaningFee)
		errs.NonNegative("pricing.serviceFee", p.ServiceFee)
		if p.Currency != "" && len(strings.TrimSpace(p.Currency)) != 3 {
			errs.Add("pricing.currency", "must be a 3-letter currency code")
		}
		if p.MinimumStay < 0 {
			errs.Add("pricing.minimumStay", "must be at least 1")
		}
	}
	for _, list := range []struct {
		field string
		items []string
	}{{"amenities", in.Amenities}, {"features", in.Features}, {"rules", in.Rules}} {
		if len(list.items) > 100 {
			errs.Add(list.field, "must have at most 100 entries")
		}
	}
	for i, rv := range in.Reviews {
		field := "reviews[" + strconv.Itoa(i) + "]"
		errs.OneOf(field+".platform", rv.Platform, models.AllReviewPlatforms...)
		errs.Required(field+".author", rv.Author)
		errs.FloatRange(field+".rating", rv.Rating, 0, 5)
		errs.MaxLen(field+".comment", rv.Comment, 5000)
	}
	if in.Images != nil && len(in.Images.Gallery) > 50 {
		errs.Add("images.gallery", "must have at most 50 images")
	}

	return errs.Err()
}

// newProperty builds a property from a validated create payload.
func (in propertyInput) newProperty() models.Property {
	p := models.Property{
		Status:    models.ListingActive,
		MaxGuests: 1,
		Amenities: []string{},
		Features:  []string{},
		Rules:     []string{},
		Images:    models.Images{Gallery: []string{}},
		Reviews:   []models.Review{},
		Pricing:   models.Pricing{Currency: "USD"},
	}
	in.apply(&p)
	return p
}

// apply copies supplied fields onto p, sanitizing text on the way.
// Images and Slug are handled by the caller.
func (in propertyInput) apply(p *models.Property) {
	if in.Title != nil {
		p.Title = sanitize.Text(*in.Title)
	}
	if in.Description != nil {
		p.Description = sanitize.HTML(*in.Description)
	}
	if a := in.Address; a != nil {
		p.Address = models.Address{
			Street:     sanitize.Text(a.Street),
			City:       sanitize.Text(a.City),
			State:      sanitize.Text(a.State),
			Country:    sanitize.Text(a.Country),
			PostalCode: sanitize.Text(a.PostalCode),
		}
	}
	if in.Type != nil {
		p.Type = *in.Type
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Bedrooms != nil {
		p.Bedrooms = *in.Bedrooms
	}
	if in.Bathrooms != nil {
		p.Bathrooms = *in.Bathrooms
	}
	if in.MaxGuests != nil {
		p.MaxGuests = *in.MaxGuests
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
	if in.ReviewCount != nil {
		p.ReviewCount = *in.ReviewCount
	}
	if in.Amenities != nil {
		p.Amenities = sanitize.List(in.Amenities)
	}
	if in.Features != nil {
		p.Features = sanitize.List(in.Features)
	}
	if in.Rules != nil {
		p.Rules = sanitize.List(in.Rules)
	}
	if pr := in.Pricing; pr != nil {
		p.Pricing = *pr
		p.Pricing.Currency = strings.ToUpper(strings.TrimSpace(pr.Currency))
		if p.Pricing.Currency == "" {
			p.Pricing.Currency = "USD"
		}
	}
	if po := in.Policies; po != nil {
		p.Policies = models.Policies{
			CheckIn:        sanitize.Text(po.CheckIn),
			CheckOut:       sanitize.Text(po.CheckOut),
			Cancellation:   sanitize.Text(po.Cancellation),
			PetsAllowed:    po.PetsAllowed,
			SmokingAllowed: po.SmokingAllowed,
		}
	}
	if in.Reviews != nil {
		reviews := make([]models.Review, 0, len(in.Reviews))
		for _, rv := range in.Reviews {
			rv.Author = sanitize.Text(rv.Author)
			rv.Comment = sanitize.Text(rv.Comment)
			reviews = append(reviews, rv)
		}
		p.Reviews = reviews
	}
}

// mergedImages returns the images object after applying in.Images to cur.
func (in propertyInput) mergedImages(cur models.Images) models.Images {
	out := cur
	if in.Images == nil {
		return out
	}
	if in.Images.Hero != nil {
		out.Hero = strings.TrimSpace(*in.Images.Hero)
	}
	if in.Images.Gallery != nil {
		out.Gallery = cleanURLs(in.Images.Gallery)
	}
	if out.Gallery == nil {
		out.Gallery = []string{}
	}
	return out
}

func cleanURLs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, u := range in {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// replacedURLs lists URLs present in before but absent from after.
func replacedURLs(before, after models.Images) []string {
	keep := make(map[string]bool)
	for _, u := range after.All() {
		keep[u] = true
	}
	var out []string
	for _, u := range before.All() {
		if !keep[u] {
			out = append(out, u)
		}
	}
	return out
}

// suppliedFields names the top-level fields present in the payload, for audit details.
func (in propertyInput) suppliedFields() []string {
	var out []string
	add := func(name string, present bool) {
		if present {
			out = append(out, name)
		}
	}
	add("title", in.Title != nil)
	add("slug", in.Slug != nil)
	add("description", in.Description != nil)
	add("address", in.Address != nil)
	add("type", in.Type != nil)
	add("status", in.Status != nil)
	add("bedrooms", in.Bedrooms != nil)
	add("bathrooms", in.Bathrooms != nil)
	add("maxGuests", in.MaxGuests != nil)
	add("rating", in.Rating != nil)
	add("reviewCount", in.ReviewCount != nil)
	add("amenities", in.Amenities != nil)
	add("features", in.Features != nil)
	add("rules", in.Rules != nil)
	add("pricing", in.Pricing != nil)
	add("images", in.Images != nil)
	add("policies", in.Policies != nil)
	add("reviews", in.Reviews != nil)
	return out
}

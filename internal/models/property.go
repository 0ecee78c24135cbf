package models

import "time"

// Category is the kind of real-estate asset being listed.
type Category string

const (
	CategoryApartment Category = "Apartment"
	CategoryVilla     Category = "Villa"
	CategoryPlot      Category = "Plot"
	CategoryLand      Category = "Land"
	CategoryWarehouse Category = "Warehouse"
)

// Furnishing describes how a listing is furnished.
type Furnishing string

const (
	FurnishingUnfurnished Furnishing = "Unfurnished"
	FurnishingSemi        Furnishing = "Semi-Furnished"
	FurnishingFully       Furnishing = "Fully Furnished"
)

// Valid reports whether f is empty (unspecified) or a known status.
func (f Furnishing) Valid() bool {
	switch f {
	case "", FurnishingUnfurnished, FurnishingSemi, FurnishingFully:
		return true
	}
	return false
}

// ListingState is the lifecycle state derived from a stored property.
// Draft and Deleted never appear on a stored entity.
type ListingState string

const (
	StateDraft         ListingState = "draft"
	StatePendingReview ListingState = "pending_review"
	StateVerified      ListingState = "verified"
	StateDeleted       ListingState = "deleted"
)

// Review is a free-text rating attached to a property.
// AuthorName is a snapshot, not a user reference.
type Review struct {
	CreatedAt  time.Time `json:"createdAt"`
	ID         string    `json:"id"`
	AuthorName string    `json:"authorName" validate:"required"`
	Comment    string    `json:"comment" validate:"max=2000"`
	Rating     int       `json:"rating" validate:"gte=1,lte=5"`
}

// LegalDocs holds references to documents uploaded with a submission.
type LegalDocs struct {
	SaleDeedURL       string `json:"saleDeedUrl,omitempty"`
	NOCURL            string `json:"nocUrl,omitempty"`
	VerificationNotes string `json:"verificationNotes,omitempty"`
}

// Property is a listable real-estate asset. Price is in whole rupees.
// Reported is derived from pending reports and is only written by the
// moderation flow.
type Property struct {
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	OriginalPrice *int64      `json:"originalPrice,omitempty"`
	Beds          *int        `json:"beds,omitempty" validate:"omitempty,gte=0"`
	Baths         *int        `json:"baths,omitempty" validate:"omitempty,gte=0"`
	BuiltUpArea   *int        `json:"builtUpArea,omitempty" validate:"omitempty,gt=0"`
	LegalDocs     *LegalDocs  `json:"legalDocs,omitempty"`
	ID            string      `json:"id" validate:"required"`
	OwnerID       string      `json:"ownerId" validate:"required"`
	Title         string      `json:"title" validate:"required,max=200"`
	Description   string      `json:"description,omitempty" validate:"max=5000"`
	Location      string      `json:"location" validate:"required,max=300"`
	Dimensions    string      `json:"dimensions,omitempty" validate:"max=100"`
	Category      Category    `json:"type" validate:"required,oneof=Apartment Villa Plot Land Warehouse"`
	Furnishing    Furnishing  `json:"furnishingStatus,omitempty"`
	Images        []string    `json:"images" validate:"dive,required"`
	Reviews       []Review    `json:"reviews" validate:"dive"`
	Coordinates   Coordinates `json:"coordinates"`
	Price         int64       `json:"price" validate:"gt=0"`
	Sqft          int         `json:"sqft" validate:"gt=0"`
	Verified      bool        `json:"verified"`
	Featured      bool        `json:"featured"`
	Reported      bool        `json:"reported"`
}

// State returns the lifecycle state of a stored property.
func (p *Property) State() ListingState {
	if p.Verified {
		return StateVerified
	}
	return StatePendingReview
}

// CoverImage returns the first image reference, or "" for a listing without media.
func (p *Property) CoverImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// DiscountPercent returns the whole-percent discount below the original
// price, or 0 when no baseline is recorded.
func (p *Property) DiscountPercent() int {
	if p.OriginalPrice == nil || *p.OriginalPrice <= 0 || *p.OriginalPrice <= p.Price {
		return 0
	}
	off := float64(*p.OriginalPrice-p.Price) / float64(*p.OriginalPrice) * 100
	return int(off + 0.5)
}

// Clone returns a deep copy so callers never alias stored state.
func (p *Property) Clone() *Property {
	if p == nil {
		return nil
	}
	c := *p
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		c.OriginalPrice = &v
	}
	c.Beds = cloneInt(p.Beds)
	c.Baths = cloneInt(p.Baths)
	c.BuiltUpArea = cloneInt(p.BuiltUpArea)
	if p.LegalDocs != nil {
		docs := *p.LegalDocs
		c.LegalDocs = &docs
	}
	c.Images = append([]string{}, p.Images...)
	c.Reviews = append([]Review{}, p.Reviews...)
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

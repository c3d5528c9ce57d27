package domain

import "time"

type ListingKind string

const (
	ListingKindRent ListingKind = "RENT"
	ListingKindSell ListingKind = "SELL"
)

type AvailabilityStatus string

const (
	AvailabilityAvailable AvailabilityStatus = "AVAILABLE"
	AvailabilityRented    AvailabilityStatus = "RENTED"
	AvailabilityArchived  AvailabilityStatus = "ARCHIVED"
)

type Property struct {
	ID           int64              `json:"id"`
	Slug         string             `json:"slug"`
	OwnerID      int64              `json:"owner_id"`
	Owner        *User              `json:"owner,omitempty"` // Populated when fetching details
	Kind         ListingKind        `json:"kind"`
	Price        float64            `json:"price"`
	City         string             `json:"city"`
	Country      string             `json:"country"`
	Lat          *float64           `json:"lat,omitempty"`
	Lng          *float64           `json:"lng,omitempty"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	PhotoURLs    []string           `json:"photo_urls"` // Ordered, first entry is the cover photo
	Features     FeatureBag         `json:"features"`
	Availability AvailabilityStatus `json:"availability"`
	IsActive     bool               `json:"is_active"`
	Popularity   int64              `json:"popularity"`
	CreatedOn    time.Time          `json:"created_on"`
	UpdatedOn    time.Time          `json:"updated_on"`
	DeletedOn    *time.Time         `json:"deleted_on,omitempty"`
}

// PriceChange is one entry of a property's append-only price history.
type PriceChange struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"property_id"`
	Price      float64   `json:"price"`
	Reason     string    `json:"reason"`
	ChangedOn  time.Time `json:"changed_on"`
}

const (
	PriceChangeReasonInitial = "initial listing"
	PriceChangeReasonUpdate  = "price update"
)

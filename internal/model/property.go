package model

import "time"

// Property represents a bookable listing row
type Property struct {
	ID            string    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Description   *string   `json:"description" db:"description"`
	Location      *string   `json:"location" db:"location"`
	CategoryID    *string   `json:"category_id" db:"category_id"`
	PricePerNight *float64  `json:"price_per_night" db:"price_per_night"`
	MainImageURL  *string   `json:"main_image_url" db:"main_image_url"`
	OwnerID       *string   `json:"owner_id" db:"owner_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Category groups properties (Apartment, Villa, ...)
type Category struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Facility is an amenity linked to properties through property_facilities
type Facility struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Review is a guest rating of a property
type Review struct {
	PropertyID string    `json:"property_id" db:"property_id"`
	Rating     float64   `json:"rating" db:"rating"`
	Text       *string   `json:"text" db:"review_text"`
	UserEmail  *string   `json:"user_email" db:"user_email"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// EnrichedListing is the denormalized listing returned by list and AI search
type EnrichedListing struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Location      *string  `json:"location"`
	Category      *string  `json:"category"`
	PricePerNight *float64 `json:"price_per_night"`
	Thumbnail     *string  `json:"thumbnail"`
	AverageRating *float64 `json:"average_rating"`
}

// ReviewSummary is a review as shown on the property page
type ReviewSummary struct {
	Rating    float64   `json:"rating"`
	Text      *string   `json:"text"`
	Date      time.Time `json:"date"`
	UserEmail *string   `json:"user_email"`
}

// PropertyDetail is the response of GET /properties/{id}
type PropertyDetail struct {
	Property   Property        `json:"property"`
	Images     []string        `json:"images"`
	Facilities []string        `json:"facilities"`
	Reviews    []ReviewSummary `json:"reviews"`
}

// Hotel represents a row of the hotels table
type Hotel struct {
	ID            string   `json:"id" db:"id"`
	Name          string   `json:"name" db:"name"`
	Location      *string  `json:"location" db:"location"`
	Description   *string  `json:"description" db:"description"`
	PricePerNight *float64 `json:"price_per_night" db:"price_per_night"`
	ImageURL      *string  `json:"image_url" db:"image_url"`
}

// PropertyImage is a gallery image row
type PropertyImage struct {
	ID         string `json:"id" db:"id"`
	PropertyID string `json:"property_id" db:"property_id"`
	ImageURL   string `json:"image_url" db:"image_url"`
}

// PropertyFacility links a property to a facility
type PropertyFacility struct {
	ID         string `json:"id" db:"id"`
	PropertyID string `json:"property_id" db:"property_id"`
	FacilityID string `json:"facility_id" db:"facility_id"`
}

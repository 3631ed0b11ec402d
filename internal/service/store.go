package service

import (
	"context"

	"staybook/internal/model"
	"staybook/internal/repository"
)

// CategoryResolver maps a category name to its id
type CategoryResolver interface {
	FindCategoryIDByName(ctx context.Context, name string) (string, bool, error)
}

// PropertyFinder executes composed property queries
type PropertyFinder interface {
	FindProperties(ctx context.Context, q *repository.PropertyQuery) ([]model.Property, error)
}

// EnrichmentStore serves the per-listing lookups done after a search
type EnrichmentStore interface {
	FirstImageURL(ctx context.Context, propertyID string) (*string, error)
	ReviewRatings(ctx context.Context, propertyID string) ([]float64, error)
	CategoryName(ctx context.Context, categoryID string) (*string, error)
	FacilityNames(ctx context.Context, propertyID string) ([]string, error)
}

// ListingStore is everything the search and listing pipelines read
type ListingStore interface {
	CategoryResolver
	PropertyFinder
	EnrichmentStore
}

// PropertyStore adds property detail, catalog and write access
type PropertyStore interface {
	ListingStore
	GetProperty(ctx context.Context, id string) (*model.Property, error)
	ImageURLs(ctx context.Context, propertyID string) ([]string, error)
	LatestReviews(ctx context.Context, propertyID string, limit int) ([]model.Review, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	CountFacilities(ctx context.Context, ids []string) (int, error)
	CreateProperty(ctx context.Context, p model.Property, images []model.PropertyImage, facilities []model.PropertyFacility) error
}

// BookingStore persists bookings and payments
type BookingStore interface {
	CreateBooking(ctx context.Context, b model.Booking) (*model.Booking, error)
	ListBookingsByUser(ctx context.Context, userID string) ([]model.BookingSummary, error)
	ProcessPayment(ctx context.Context, bookingID, method string, amount float64) (*model.Payment, error)
}

// HotelStore lists hotels
type HotelStore interface {
	ListHotels(ctx context.Context) ([]model.Hotel, error)
}

var (
	_ PropertyStore = (*repository.PostgresRepository)(nil)
	_ BookingStore  = (*repository.PostgresRepository)(nil)
	_ HotelStore    = (*repository.PostgresRepository)(nil)
)

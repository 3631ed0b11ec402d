package service

import (
	"time"

	"staybook/internal/config"
	"staybook/internal/model"
	"staybook/internal/testutil"
)

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64 { return &f }

var testOpenAIConfig = config.OpenAIConfig{ChatModel: "gpt-4-turbo", Timeout: 30}

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func property(id, title, location, categoryID string, price float64, age time.Duration) model.Property {
	p := model.Property{
		ID:            id,
		Title:         title,
		Location:      strPtr(location),
		PricePerNight: floatPtr(price),
		CreatedAt:     baseTime.Add(-age),
	}
	if categoryID != "" {
		p.CategoryID = strPtr(categoryID)
	}
	return p
}

// seededStore holds a few Lagos and Accra listings with facilities, images and reviews
func seededStore() *testutil.MemoryStore {
	s := testutil.NewMemoryStore()

	s.Categories = []model.Category{
		{ID: "cat-apt", Name: "Apartment"},
		{ID: "cat-villa", Name: "Villa"},
		{ID: "cat-house", Name: "House"},
	}
	s.Facilities = []model.Facility{
		{ID: "f-pool", Name: "Pool"},
		{ID: "f-wifi", Name: "WiFi"},
		{ID: "f-parking", Name: "Parking"},
	}
	s.Properties = []model.Property{
		property("p1", "Lekki Sky Apartment", "Lagos, Lekki", "cat-apt", 4500, 1*time.Hour),
		property("p2", "Ikoyi Penthouse", "Lagos, Ikoyi", "cat-apt", 9000, 2*time.Hour),
		property("p3", "VI Studio", "Lagos, Victoria Island", "cat-apt", 3000, 3*time.Hour),
		property("p4", "Lagos Beach Villa", "Lagos", "cat-villa", 4000, 4*time.Hour),
		property("p5", "Osu Apartment", "Accra", "cat-apt", 2000, 5*time.Hour),
	}
	s.PropertyFacilities = map[string][]string{
		"p1": {"f-pool", "f-wifi"},
		"p2": {"f-pool"},
		"p3": {"f-wifi"},
		"p4": {"f-pool"},
		"p5": {"f-pool"},
	}
	s.Images = map[string][]testutil.Image{
		"p1": {
			{URL: "https://img/p1-b.jpg", CreatedAt: baseTime},
			{URL: "https://img/p1-a.jpg", CreatedAt: baseTime},
			{URL: "https://img/p1-old.jpg", CreatedAt: baseTime.Add(time.Hour)},
		},
	}
	s.Reviews = map[string][]model.Review{
		"p1": {
			{PropertyID: "p1", Rating: 3, CreatedAt: baseTime.Add(-3 * time.Hour)},
			{PropertyID: "p1", Rating: 4, CreatedAt: baseTime.Add(-2 * time.Hour)},
			{PropertyID: "p1", Rating: 5, CreatedAt: baseTime.Add(-1 * time.Hour), UserEmail: strPtr("ada@example.com")},
			{PropertyID: "p1", Rating: 4, CreatedAt: baseTime.Add(-4 * time.Hour)},
		},
	}
	return s
}

func ids(listings []model.EnrichedListing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.ID)
	}
	return out
}

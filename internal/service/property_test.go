package service

import (
	"context"
	"testing"

	"staybook/internal/apperror"
	"staybook/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyList(t *testing.T) {
	tests := []struct {
		name   string
		filter model.ListingFilter
		want   []string
	}{
		{name: "newest first", filter: model.ListingFilter{}, want: []string{"p1", "p2", "p3", "p4", "p5"}},
		{name: "by category", filter: model.ListingFilter{CategoryID: "cat-villa"}, want: []string{"p4"}},
		{name: "search matches title", filter: model.ListingFilter{Search: "penthouse"}, want: []string{"p2"}},
		{name: "search matches location", filter: model.ListingFilter{Search: "accra"}, want: []string{"p5"}},
		{name: "category and search", filter: model.ListingFilter{CategoryID: "cat-apt", Search: "lagos"}, want: []string{"p1", "p2", "p3"}},
		{name: "no match", filter: model.ListingFilter{Search: "Nairobi"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seededStore()
			// reverse insertion order so the sort is observable
			store.Properties[0], store.Properties[4] = store.Properties[4], store.Properties[0]
			svc := NewPropertyService(store, NewEnricher(store, 4))

			got, err := svc.List(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestPropertyGet(t *testing.T) {
	store := seededStore()
	svc := NewPropertyService(store, NewEnricher(store, 4))

	detail, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, "Lekki Sky Apartment", detail.Property.Title)
	assert.Equal(t, []string{"https://img/p1-a.jpg", "https://img/p1-b.jpg", "https://img/p1-old.jpg"}, detail.Images)
	assert.ElementsMatch(t, []string{"Pool", "WiFi"}, detail.Facilities)

	require.Len(t, detail.Reviews, 3)
	assert.Equal(t, 5.0, detail.Reviews[0].Rating)
	assert.Equal(t, "ada@example.com", *detail.Reviews[0].UserEmail)
	assert.True(t, detail.Reviews[0].Date.After(detail.Reviews[1].Date))
}

func TestPropertyGet_EmptyCollections(t *testing.T) {
	store := seededStore()
	svc := NewPropertyService(store, NewEnricher(store, 4))

	detail, err := svc.Get(context.Background(), "p5")
	require.NoError(t, err)
	assert.NotNil(t, detail.Images)
	assert.Empty(t, detail.Images)
	assert.Empty(t, detail.Reviews)
	assert.Equal(t, []string{"Pool"}, detail.Facilities)
}

func TestPropertyGet_NotFound(t *testing.T) {
	store := seededStore()
	svc := NewPropertyService(store, NewEnricher(store, 4))

	_, err := svc.Get(context.Background(), "nope")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestPropertyGet_StoreFailure(t *testing.T) {
	store := seededStore()
	store.FailOn["LatestReviews"] = true
	svc := NewPropertyService(store, NewEnricher(store, 4))

	_, err := svc.Get(context.Background(), "p1")
	assert.True(t, apperror.Is(err, apperror.KindUpstream))
}

func TestPropertyCategories(t *testing.T) {
	store := seededStore()
	svc := NewPropertyService(store, NewEnricher(store, 4))

	cats, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 3)
}

func TestPropertyCreate(t *testing.T) {
	store := seededStore()
	svc := NewPropertyService(store, NewEnricher(store, 4))

	id, err := svc.Create(context.Background(), "owner-1", model.CreatePropertyRequest{
		Title:         "  Garden Cottage ",
		Location:      strPtr("Ibadan"),
		PricePerNight: floatPtr(1200),
		GalleryImages: []string{"https://img/c1.jpg", "https://img/c2.jpg"},
		FacilityIDs:   []string{"f-wifi", "f-parking", "f-wifi"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	created, err := store.GetProperty(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Garden Cottage", created.Title)
	assert.Equal(t, "owner-1", *created.OwnerID)
	assert.Len(t, store.Images[id], 2)
	assert.Equal(t, []string{"f-wifi", "f-parking"}, store.PropertyFacilities[id])
}

func TestPropertyCreate_Invalid(t *testing.T) {
	tests := []struct {
		name string
		req  model.CreatePropertyRequest
	}{
		{name: "blank title", req: model.CreatePropertyRequest{Title: "   "}},
		{name: "negative price", req: model.CreatePropertyRequest{Title: "Cabin", PricePerNight: floatPtr(-5)}},
		{name: "bad image url", req: model.CreatePropertyRequest{Title: "Cabin", GalleryImages: []string{"not a url"}}},
		{name: "unknown facility", req: model.CreatePropertyRequest{Title: "Cabin", FacilityIDs: []string{"f-sauna"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seededStore()
			svc := NewPropertyService(store, NewEnricher(store, 4))
			before := len(store.Properties)

			_, err := svc.Create(context.Background(), "owner-1", tt.req)
			assert.True(t, apperror.Is(err, apperror.KindInvalidInput), "got %v", err)
			assert.Len(t, store.Properties, before)
		})
	}
}

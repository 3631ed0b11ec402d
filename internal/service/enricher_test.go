package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"staybook/internal/apperror"
	"staybook/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrich_EmptyMustHaveKeepsEveryCandidate(t *testing.T) {
	store := seededStore()
	e := NewEnricher(store, 4)

	got, err := e.Enrich(context.Background(), store.Properties, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, ids(got))
	assert.Zero(t, store.Calls("FacilityNames"))

	got, err = e.Enrich(context.Background(), store.Properties, []string{" ", ""})
	require.NoError(t, err)
	assert.Len(t, got, len(store.Properties))
}

func TestEnrich_AverageRating(t *testing.T) {
	store := seededStore()
	store.Reviews["p2"] = []model.Review{{Rating: 3}, {Rating: 4}, {Rating: 5}}
	store.Reviews["p3"] = []model.Review{{Rating: 4}, {Rating: 4}, {Rating: 5}}
	e := NewEnricher(store, 4)

	got, err := e.Enrich(context.Background(), store.Properties[1:4], nil)
	require.NoError(t, err)
	require.Len(t, got, 3)

	require.NotNil(t, got[0].AverageRating)
	assert.Equal(t, 4.0, *got[0].AverageRating)
	require.NotNil(t, got[1].AverageRating)
	assert.Equal(t, 4.3, *got[1].AverageRating)
	assert.Nil(t, got[2].AverageRating, "no reviews means no rating")

	// 4.25 rounds to even
	store.Reviews["p5"] = []model.Review{{Rating: 4}, {Rating: 4}, {Rating: 4}, {Rating: 5}}
	got, err = e.Enrich(context.Background(), store.Properties[4:5], nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].AverageRating)
	assert.Equal(t, 4.2, *got[0].AverageRating)
}

func TestAverageRating_HalvesRoundToEven(t *testing.T) {
	tests := []struct {
		ratings []float64
		want    float64
	}{
		{ratings: []float64{4, 4, 4, 5}, want: 4.2},
		{ratings: []float64{4, 4, 5, 5, 5, 5, 5, 5}, want: 4.8},
		{ratings: []float64{3, 4, 5}, want: 4.0},
		{ratings: []float64{4, 4, 5}, want: 4.3},
	}

	for _, tt := range tests {
		got := averageRating(tt.ratings)
		require.NotNil(t, got)
		assert.Equal(t, tt.want, *got, "ratings %v", tt.ratings)
	}
	assert.Nil(t, averageRating(nil))
}

func TestEnrich_PreservesCandidateOrder(t *testing.T) {
	store := seededStore()
	candidates := store.Properties[:3]
	// p1 resolves last, p2 first
	store.Delays["p1"] = 60 * time.Millisecond
	store.Delays["p3"] = 30 * time.Millisecond

	e := NewEnricher(store, 3)
	got, err := e.Enrich(context.Background(), candidates, []string{"wifi"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, ids(got))

	got, err = e.Enrich(context.Background(), candidates, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(got))
}

func TestEnrich_MustHaveIsCaseInsensitive(t *testing.T) {
	store := seededStore()
	e := NewEnricher(store, 4)

	got, err := e.Enrich(context.Background(), store.Properties, []string{"wifi", "POOL"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids(got))

	got, err = e.Enrich(context.Background(), store.Properties, []string{"Pool"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p4", "p5"}, ids(got))

	got, err = e.Enrich(context.Background(), store.Properties, []string{"sauna"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEnrich_Fields(t *testing.T) {
	store := seededStore()
	store.Properties[1].MainImageURL = strPtr("https://img/p2-main.jpg")
	store.Properties[2].CategoryID = strPtr("cat-deleted")
	store.Properties[3].CategoryID = nil
	e := NewEnricher(store, 2)

	got, err := e.Enrich(context.Background(), store.Properties[:4], nil)
	require.NoError(t, err)
	require.Len(t, got, 4)

	// earliest image wins, ties broken by url
	require.NotNil(t, got[0].Thumbnail)
	assert.Equal(t, "https://img/p1-a.jpg", *got[0].Thumbnail)
	require.NotNil(t, got[0].Category)
	assert.Equal(t, "Apartment", *got[0].Category)
	assert.Equal(t, "Lagos, Lekki", *got[0].Location)
	assert.Equal(t, 4500.0, *got[0].PricePerNight)

	require.NotNil(t, got[1].Thumbnail)
	assert.Equal(t, "https://img/p2-main.jpg", *got[1].Thumbnail)

	assert.Nil(t, got[2].Thumbnail)
	assert.Nil(t, got[2].Category, "unresolvable category")
	assert.Nil(t, got[3].Category, "no category")
}

func TestEnrich_FailureFailsWholeRequest(t *testing.T) {
	for _, method := range []string{"FacilityNames", "FirstImageURL", "ReviewRatings", "CategoryName"} {
		t.Run(method, func(t *testing.T) {
			store := seededStore()
			store.FailOn[method] = true
			store.Err = errors.New("timeout expired")
			e := NewEnricher(store, 4)

			got, err := e.Enrich(context.Background(), store.Properties, []string{"pool"})
			assert.Nil(t, got)
			assert.True(t, apperror.Is(err, apperror.KindUpstream))
			assert.Equal(t, "timeout expired", err.Error())
		})
	}
}

func TestEnrich_BoundedConcurrency(t *testing.T) {
	store := seededStore()
	for _, p := range store.Properties {
		store.Delays[p.ID] = 10 * time.Millisecond
	}
	e := NewEnricher(store, 2)

	_, err := e.Enrich(context.Background(), store.Properties, []string{"pool"})
	require.NoError(t, err)
	assert.LessOrEqual(t, store.PeakConcurrency(), 2)
}

func TestEnrich_NoCandidates(t *testing.T) {
	e := NewEnricher(seededStore(), 0)

	got, err := e.Enrich(context.Background(), nil, []string{"pool"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

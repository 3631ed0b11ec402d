package service

import (
	"context"
	"math"
	"strings"

	"staybook/internal/apperror"
	"staybook/internal/model"

	"golang.org/x/sync/errgroup"
)

const defaultEnrichConcurrency = 8

// Enricher filters candidates by required facilities and attaches
// thumbnail, rating and category name to each survivor.
type Enricher struct {
	store       EnrichmentStore
	concurrency int
}

// NewEnricher creates an enricher running at most concurrency lookups at once
func NewEnricher(store EnrichmentStore, concurrency int) *Enricher {
	if concurrency <= 0 {
		concurrency = defaultEnrichConcurrency
	}
	return &Enricher{store: store, concurrency: concurrency}
}

// Enrich returns one EnrichedListing per candidate that has every facility in
// mustHave, in candidate order. Any failed lookup fails the whole call.
func (e *Enricher) Enrich(ctx context.Context, candidates []model.Property, mustHave []string) ([]model.EnrichedListing, error) {
	survivors, err := e.filterByFacilities(ctx, candidates, normalizeNames(mustHave))
	if err != nil {
		return nil, err
	}

	listings := make([]model.EnrichedListing, len(survivors))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i := range survivors {
		g.Go(func() error {
			listing, err := e.enrichOne(gctx, survivors[i])
			if err != nil {
				return err
			}
			listings[i] = listing
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, apperror.Upstream(err)
	}
	return listings, nil
}

func (e *Enricher) filterByFacilities(ctx context.Context, candidates []model.Property, required []string) ([]model.Property, error) {
	if len(required) == 0 {
		return candidates, nil
	}

	keep := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i := range candidates {
		g.Go(func() error {
			names, err := e.store.FacilityNames(gctx, candidates[i].ID)
			if err != nil {
				return err
			}
			keep[i] = hasAll(names, required)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, apperror.Upstream(err)
	}

	out := make([]model.Property, 0, len(candidates))
	for i, p := range candidates {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (e *Enricher) enrichOne(ctx context.Context, p model.Property) (model.EnrichedListing, error) {
	listing := model.EnrichedListing{
		ID:            p.ID,
		Title:         p.Title,
		Location:      p.Location,
		PricePerNight: p.PricePerNight,
	}

	thumb, err := e.store.FirstImageURL(ctx, p.ID)
	if err != nil {
		return listing, err
	}
	if thumb == nil {
		thumb = p.MainImageURL
	}
	listing.Thumbnail = thumb

	ratings, err := e.store.ReviewRatings(ctx, p.ID)
	if err != nil {
		return listing, err
	}
	listing.AverageRating = averageRating(ratings)

	if p.CategoryID != nil {
		name, err := e.store.CategoryName(ctx, *p.CategoryID)
		if err != nil {
			return listing, err
		}
		listing.Category = name
	}

	return listing, nil
}

// averageRating is the mean rounded half-to-even to one decimal, nil for
// no reviews
func averageRating(ratings []float64) *float64 {
	if len(ratings) == 0 {
		return nil
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	avg := math.RoundToEven(sum/float64(len(ratings))*10) / 10
	return &avg
}

func hasAll(names, required []string) bool {
	have := make(map[string]struct{}, len(names))
	for _, n := range names {
		have[strings.ToLower(strings.TrimSpace(n))] = struct{}{}
	}
	for _, r := range required {
		if _, ok := have[r]; !ok {
			return false
		}
	}
	return true
}

func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			out = append(out, n)
		}
	}
	return out
}

package service

import (
	"context"
	"time"

	"staybook/internal/apperror"
	"staybook/internal/model"
	"staybook/internal/utils"

	"github.com/sirupsen/logrus"
)

// SearchService runs the natural-language search pipeline:
// interpret, build query, fetch, post-filter and enrich.
type SearchService struct {
	interpreter *QueryInterpreter
	store       ListingStore
	enricher    *Enricher
	timeout     time.Duration
}

// NewSearchService creates a new search service. A zero timeout leaves the
// caller's deadline in charge.
func NewSearchService(interpreter *QueryInterpreter, store ListingStore, enricher *Enricher, timeout time.Duration) *SearchService {
	return &SearchService{
		interpreter: interpreter,
		store:       store,
		enricher:    enricher,
		timeout:     timeout,
	}
}

// Recommend returns the enriched listings matching a free-text query
func (s *SearchService) Recommend(ctx context.Context, query string) ([]model.EnrichedListing, error) {
	startTime := time.Now()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	interp, err := s.interpreter.Interpret(ctx, query)
	if err != nil {
		return nil, err
	}

	q, err := BuildPropertyQuery(ctx, interp.Filter, s.store)
	if err != nil {
		return nil, err
	}

	candidates, err := s.store.FindProperties(ctx, q)
	if err != nil {
		return nil, apperror.Upstream(err)
	}

	listings, err := s.enricher.Enrich(ctx, candidates, interp.Filter.MustHave)
	if err != nil {
		return nil, err
	}

	utils.Logger.WithFields(logrus.Fields{
		"candidates": len(candidates),
		"results":    len(listings),
		"took_ms":    time.Since(startTime).Milliseconds(),
	}).Info("AI search completed")

	return listings, nil
}

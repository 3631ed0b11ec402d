package service

import (
	"context"
	"errors"
	"strings"

	"staybook/internal/apperror"
	"staybook/internal/model"
	"staybook/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const detailReviewLimit = 3

// PropertyService serves the plain listing, detail, catalog and creation routes
type PropertyService struct {
	store    PropertyStore
	enricher *Enricher
	validate *validator.Validate
}

// NewPropertyService creates a new property service
func NewPropertyService(store PropertyStore, enricher *Enricher) *PropertyService {
	return &PropertyService{
		store:    store,
		enricher: enricher,
		validate: validator.New(),
	}
}

// List returns properties newest first, optionally narrowed by exact
// category id and a title-or-location substring.
func (s *PropertyService) List(ctx context.Context, f model.ListingFilter) ([]model.EnrichedListing, error) {
	q := repository.NewPropertyQuery()
	if id := strings.TrimSpace(f.CategoryID); id != "" {
		q.Eq(repository.ColCategoryID, id)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		q.AnyILike([]string{repository.ColTitle, repository.ColLocation}, term)
	}
	q.OrderBy(repository.ColCreatedAt, true)

	candidates, err := s.store.FindProperties(ctx, q)
	if err != nil {
		return nil, apperror.Upstream(err)
	}
	return s.enricher.Enrich(ctx, candidates, nil)
}

// Get returns a property with its gallery, facilities and latest reviews
func (s *PropertyService) Get(ctx context.Context, id string) (*model.PropertyDetail, error) {
	property, err := s.store.GetProperty(ctx, id)
	if err != nil {
		return nil, apperror.Upstream(err)
	}
	if property == nil {
		return nil, apperror.NotFound("Property not found")
	}

	detail := &model.PropertyDetail{Property: *property}
	var reviews []model.Review

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		images, err := s.store.ImageURLs(gctx, id)
		detail.Images = images
		return err
	})
	g.Go(func() error {
		facilities, err := s.store.FacilityNames(gctx, id)
		detail.Facilities = facilities
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = s.store.LatestReviews(gctx, id, detailReviewLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.Upstream(err)
	}

	detail.Reviews = make([]model.ReviewSummary, 0, len(reviews))
	for _, r := range reviews {
		detail.Reviews = append(detail.Reviews, model.ReviewSummary{
			Rating:    r.Rating,
			Text:      r.Text,
			Date:      r.CreatedAt,
			UserEmail: r.UserEmail,
		})
	}
	if detail.Images == nil {
		detail.Images = []string{}
	}
	if detail.Facilities == nil {
		detail.Facilities = []string{}
	}

	return detail, nil
}

// Categories lists all categories
func (s *PropertyService) Categories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, apperror.Upstream(err)
	}
	return categories, nil
}

// Create stores a new property owned by ownerID and returns its id
func (s *PropertyService) Create(ctx context.Context, ownerID string, req model.CreatePropertyRequest) (string, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return "", apperror.InvalidInput("Title is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return "", apperror.InvalidInput("Invalid property: %s", err.Error())
	}

	facilityIDs := dedupe(req.FacilityIDs)
	if len(facilityIDs) > 0 {
		n, err := s.store.CountFacilities(ctx, facilityIDs)
		if err != nil {
			return "", apperror.Upstream(err)
		}
		if n != len(facilityIDs) {
			return "", apperror.InvalidInput("Unknown facility id")
		}
	}

	propertyID := uuid.NewString()
	property := model.Property{
		ID:            propertyID,
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		CategoryID:    req.CategoryID,
		PricePerNight: req.PricePerNight,
		MainImageURL:  req.MainImageURL,
		OwnerID:       &ownerID,
	}

	images := make([]model.PropertyImage, 0, len(req.GalleryImages))
	for _, url := range req.GalleryImages {
		images = append(images, model.PropertyImage{ID: uuid.NewString(), PropertyID: propertyID, ImageURL: url})
	}

	links := make([]model.PropertyFacility, 0, len(facilityIDs))
	for _, fid := range facilityIDs {
		links = append(links, model.PropertyFacility{ID: uuid.NewString(), PropertyID: propertyID, FacilityID: fid})
	}

	if err := s.store.CreateProperty(ctx, property, images, links); err != nil {
		if errors.Is(err, repository.ErrReferenceNotFound) {
			return "", apperror.InvalidInput("%s", err.Error())
		}
		return "", apperror.Upstream(err)
	}

	return propertyID, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

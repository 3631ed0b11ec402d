// Package testutil holds in-memory stand-ins for the data store, language
// model and identity provider.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"staybook/internal/model"
	"staybook/internal/repository"

	"github.com/google/uuid"
)

// Image is a gallery row with its upload time
type Image struct {
	URL       string
	CreatedAt time.Time
}

// MemoryStore implements the service store interfaces over maps.
// Fields are safe to set up before use; methods are safe for concurrent use.
type MemoryStore struct {
	mu sync.Mutex

	Properties []model.Property
	Categories []model.Category
	Facilities []model.Facility
	// PropertyFacilities maps property id to facility ids
	PropertyFacilities map[string][]string
	Images             map[string][]Image
	Reviews            map[string][]model.Review
	Hotels             []model.Hotel
	Bookings           []model.Booking
	Payments           []model.Payment

	// Delays slows every lookup for a property id
	Delays map[string]time.Duration
	// FailOn makes the named method return Err
	FailOn map[string]bool
	Err    error

	calls    map[string]int
	inFlight int
	peak     int
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		PropertyFacilities: map[string][]string{},
		Images:             map[string][]Image{},
		Reviews:            map[string][]model.Review{},
		Delays:             map[string]time.Duration{},
		FailOn:             map[string]bool{},
		calls:              map[string]int{},
	}
}

// Calls returns how often method was invoked
func (s *MemoryStore) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// PeakConcurrency is the highest number of per-property lookups seen running at once
func (s *MemoryStore) PeakConcurrency() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peak
}

func (s *MemoryStore) enter(ctx context.Context, method, propertyID string) error {
	s.mu.Lock()
	s.calls[method]++
	fail := s.FailOn[method]
	delay := s.Delays[propertyID]
	s.inFlight++
	if s.inFlight > s.peak {
		s.peak = s.inFlight
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if fail {
		if s.Err != nil {
			return s.Err
		}
		return fmt.Errorf("%s failed", method)
	}
	return nil
}

// FindProperties evaluates q against Properties
func (s *MemoryStore) FindProperties(ctx context.Context, q *repository.PropertyQuery) ([]model.Property, error) {
	if err := s.enter(ctx, "FindProperties", ""); err != nil {
		return nil, err
	}
	if _, _, err := q.Build(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Property{}
	for _, p := range s.Properties {
		if matchesAll(p, q.Predicates()) {
			out = append(out, p)
		}
	}

	if col, desc := q.Ordering(); col == repository.ColCreatedAt {
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	}
	if n := q.MaxRows(); n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func matchesAll(p model.Property, preds []repository.Predicate) bool {
	for _, pred := range preds {
		matched := false
		for _, col := range pred.Columns {
			if matches(p, col, pred.Op, pred.Value) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func matches(p model.Property, col string, op repository.Op, value any) bool {
	switch col {
	case repository.ColTitle:
		return compareString(&p.Title, op, value)
	case repository.ColLocation:
		return compareString(p.Location, op, value)
	case repository.ColCategoryID:
		return compareString(p.CategoryID, op, value)
	case repository.ColID:
		return compareString(&p.ID, op, value)
	case repository.ColPricePerNight:
		v, ok := value.(float64)
		if p.PricePerNight == nil || !ok {
			return false
		}
		switch op {
		case repository.OpGte:
			return *p.PricePerNight >= v
		case repository.OpLte:
			return *p.PricePerNight <= v
		case repository.OpEq:
			return *p.PricePerNight == v
		}
	}
	return false
}

func compareString(field *string, op repository.Op, value any) bool {
	v, ok := value.(string)
	if field == nil || !ok {
		return false
	}
	switch op {
	case repository.OpEq:
		return *field == v
	case repository.OpILike:
		return strings.Contains(strings.ToLower(*field), strings.ToLower(v))
	}
	return false
}

// FindCategoryIDByName returns the first category, by id, whose name contains name
func (s *MemoryStore) FindCategoryIDByName(ctx context.Context, name string) (string, bool, error) {
	if err := s.enter(ctx, "FindCategoryIDByName", ""); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cats := append([]model.Category(nil), s.Categories...)
	sort.Slice(cats, func(i, j int) bool { return cats[i].ID < cats[j].ID })
	for _, c := range cats {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			return c.ID, true, nil
		}
	}
	return "", false, nil
}

// CategoryName returns the category's name or nil
func (s *MemoryStore) CategoryName(ctx context.Context, categoryID string) (*string, error) {
	if err := s.enter(ctx, "CategoryName", ""); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.Categories {
		if c.ID == categoryID {
			name := c.Name
			return &name, nil
		}
	}
	return nil, nil
}

// ListCategories returns all categories
func (s *MemoryStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := s.enter(ctx, "ListCategories", ""); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Category{}, s.Categories...), nil
}

func (s *MemoryStore) sortedImages(propertyID string) []Image {
	imgs := append([]Image(nil), s.Images[propertyID]...)
	sort.SliceStable(imgs, func(i, j int) bool {
		if !imgs[i].CreatedAt.Equal(imgs[j].CreatedAt) {
			return imgs[i].CreatedAt.Before(imgs[j].CreatedAt)
		}
		return imgs[i].URL < imgs[j].URL
	})
	return imgs
}

// FirstImageURL returns the earliest gallery image or nil
func (s *MemoryStore) FirstImageURL(ctx context.Context, propertyID string) (*string, error) {
	if err := s.enter(ctx, "FirstImageURL", propertyID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	imgs := s.sortedImages(propertyID)
	if len(imgs) == 0 {
		return nil, nil
	}
	url := imgs[0].URL
	return &url, nil
}

// ImageURLs returns all gallery images in upload order
func (s *MemoryStore) ImageURLs(ctx context.Context, propertyID string) ([]string, error) {
	if err := s.enter(ctx, "ImageURLs", propertyID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	urls := []string{}
	for _, img := range s.sortedImages(propertyID) {
		urls = append(urls, img.URL)
	}
	return urls, nil
}

// ReviewRatings returns every rating of a property
func (s *MemoryStore) ReviewRatings(ctx context.Context, propertyID string) ([]float64, error) {
	if err := s.enter(ctx, "ReviewRatings", propertyID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ratings := []float64{}
	for _, r := range s.Reviews[propertyID] {
		ratings = append(ratings, r.Rating)
	}
	return ratings, nil
}

// LatestReviews returns up to limit reviews, newest first
func (s *MemoryStore) LatestReviews(ctx context.Context, propertyID string, limit int) ([]model.Review, error) {
	if err := s.enter(ctx, "LatestReviews", propertyID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	reviews := append([]model.Review{}, s.Reviews[propertyID]...)
	sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].CreatedAt.After(reviews[j].CreatedAt) })
	if len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

// FacilityNames returns the names of a property's facilities
func (s *MemoryStore) FacilityNames(ctx context.Context, propertyID string) ([]string, error) {
	if err := s.enter(ctx, "FacilityNames", propertyID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	names := []string{}
	for _, fid := range s.PropertyFacilities[propertyID] {
		for _, f := range s.Facilities {
			if f.ID == fid {
				names = append(names, f.Name)
			}
		}
	}
	return names, nil
}

// CountFacilities counts how many ids are known facilities
func (s *MemoryStore) CountFacilities(ctx context.Context, ids []string) (int, error) {
	if err := s.enter(ctx, "CountFacilities", ""); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, id := range ids {
		for _, f := range s.Facilities {
			if f.ID == id {
				n++
				break
			}
		}
	}
	return n, nil
}

// GetProperty returns the property or nil
func (s *MemoryStore) GetProperty(ctx context.Context, id string) (*model.Property, error) {
	if err := s.enter(ctx, "GetProperty", id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.Properties {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

// CreateProperty appends the property and its links. A failure leaves the store unchanged.
func (s *MemoryStore) CreateProperty(ctx context.Context, p model.Property, images []model.PropertyImage, facilities []model.PropertyFacility) error {
	if err := s.enter(ctx, "CreateProperty", p.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p.CreatedAt = time.Now()
	s.Properties = append(s.Properties, p)
	for _, img := range images {
		s.Images[p.ID] = append(s.Images[p.ID], Image{URL: img.ImageURL, CreatedAt: p.CreatedAt})
	}
	for _, link := range facilities {
		s.PropertyFacilities[p.ID] = append(s.PropertyFacilities[p.ID], link.FacilityID)
	}
	return nil
}

// ListHotels returns all hotels
func (s *MemoryStore) ListHotels(ctx context.Context) ([]model.Hotel, error) {
	if err := s.enter(ctx, "ListHotels", ""); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Hotel{}, s.Hotels...), nil
}

// CreateBooking stores b under a fresh id
func (s *MemoryStore) CreateBooking(ctx context.Context, b model.Booking) (*model.Booking, error) {
	if err := s.enter(ctx, "CreateBooking", b.PropertyID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasProperty(b.PropertyID) {
		return nil, fmt.Errorf("%w: property %s", repository.ErrReferenceNotFound, b.PropertyID)
	}
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now()
	s.Bookings = append(s.Bookings, b)
	return &b, nil
}

func (s *MemoryStore) hasProperty(id string) bool {
	for _, p := range s.Properties {
		if p.ID == id {
			return true
		}
	}
	return false
}

// ListBookingsByUser summarizes a user's bookings
func (s *MemoryStore) ListBookingsByUser(ctx context.Context, userID string) ([]model.BookingSummary, error) {
	if err := s.enter(ctx, "ListBookingsByUser", ""); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.BookingSummary{}
	for _, b := range s.Bookings {
		if b.UserID != userID {
			continue
		}
		summary := model.BookingSummary{ID: b.ID, PaymentStatus: b.PaymentStatus, Price: b.AmountPaid}
		for _, p := range s.Properties {
			if p.ID == b.PropertyID {
				title := p.Title
				summary.BnbName = &title
			}
		}
		if imgs := s.sortedImages(b.PropertyID); len(imgs) > 0 {
			url := imgs[0].URL
			summary.ImageURL = &url
		}
		out = append(out, summary)
	}
	return out, nil
}

// ProcessPayment confirms the booking and records the payment, or neither
func (s *MemoryStore) ProcessPayment(ctx context.Context, bookingID, method string, amount float64) (*model.Payment, error) {
	if err := s.enter(ctx, "ProcessPayment", ""); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.Bookings {
		if s.Bookings[i].ID != bookingID {
			continue
		}
		now := time.Now()
		status := model.BookingStatusConfirmed
		s.Bookings[i].Status = &status
		s.Bookings[i].PaymentStatus = model.PaymentStatusPaid
		s.Bookings[i].PaymentDate = &now

		payment := model.Payment{
			ID:        uuid.NewString(),
			BookingID: bookingID,
			Amount:    amount,
			Method:    method,
			Status:    model.PaymentRecordCompleted,
			CreatedAt: now,
		}
		s.Payments = append(s.Payments, payment)
		return &payment, nil
	}
	return nil, repository.ErrNotFound
}

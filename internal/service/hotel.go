package service

import (
	"context"

	"staybook/internal/apperror"
	"staybook/internal/model"
)

// HotelService lists hotels
type HotelService struct {
	store HotelStore
}

// NewHotelService creates a new hotel service
func NewHotelService(store HotelStore) *HotelService {
	return &HotelService{store: store}
}

// List returns all hotels
func (s *HotelService) List(ctx context.Context) ([]model.Hotel, error) {
	hotels, err := s.store.ListHotels(ctx)
	if err != nil {
		return nil, apperror.Upstream(err)
	}
	return hotels, nil
}

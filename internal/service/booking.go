package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"staybook/internal/apperror"
	"staybook/internal/model"
	"staybook/internal/repository"
	"staybook/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// BookingService creates bookings and settles their payments
type BookingService struct {
	store    BookingStore
	validate *validator.Validate
}

// NewBookingService creates a new booking service
func NewBookingService(store BookingStore) *BookingService {
	return &BookingService{store: store, validate: validator.New()}
}

// Create books a property for userID. The booking is stored as paid.
func (s *BookingService) Create(ctx context.Context, userID string, req model.CreateBookingRequest) ([]model.Booking, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperror.InvalidInput("Invalid booking: %s", err.Error())
	}

	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		return nil, apperror.InvalidInput("Invalid check_in date")
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		return nil, apperror.InvalidInput("Invalid check_out date")
	}
	if !checkOut.After(checkIn) {
		return nil, apperror.InvalidInput("check_out must be after check_in")
	}

	booking, err := s.store.CreateBooking(ctx, model.Booking{
		UserID:        userID,
		PropertyID:    strings.TrimSpace(req.PropertyID),
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Guests:        req.Guests,
		PaymentStatus: model.PaymentStatusPaid,
		AmountPaid:    *req.AmountPaid,
	})
	if err != nil {
		if errors.Is(err, repository.ErrReferenceNotFound) {
			return nil, apperror.InvalidInput("Property not found")
		}
		return nil, apperror.Upstream(err)
	}

	utils.Logger.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"property_id": booking.PropertyID,
		"user_id":     userID,
	}).Info("Booking created")

	return []model.Booking{*booking}, nil
}

// ListForUser returns userID's bookings. Callers may only list their own.
func (s *BookingService) ListForUser(ctx context.Context, callerID, userID string) ([]model.BookingSummary, error) {
	if callerID != userID {
		return nil, apperror.Unauthorized("Unauthorized")
	}
	bookings, err := s.store.ListBookingsByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Upstream(err)
	}
	return bookings, nil
}

// ProcessPayment confirms a booking and records a completed payment.
// Both writes happen atomically in the store.
func (s *BookingService) ProcessPayment(ctx context.Context, req model.ProcessPaymentRequest) (*model.PaymentResult, error) {
	if strings.TrimSpace(req.BookingID) == "" || strings.TrimSpace(req.PaymentMethod) == "" {
		return nil, apperror.InvalidInput("booking_id and payment_method are required")
	}
	if req.Amount == nil {
		return nil, apperror.InvalidInput("amount is required")
	}
	if *req.Amount < 0 {
		return nil, apperror.InvalidInput("amount must not be negative")
	}

	payment, err := s.store.ProcessPayment(ctx, req.BookingID, req.PaymentMethod, *req.Amount)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Booking not found")
		}
		return nil, apperror.Upstream(err)
	}

	utils.Logger.WithFields(logrus.Fields{
		"booking_id": req.BookingID,
		"payment_id": payment.ID,
		"method":     req.PaymentMethod,
	}).Info("Payment processed")

	return &model.PaymentResult{
		Success:       true,
		PaymentID:     payment.ID,
		BookingStatus: model.BookingStatusConfirmed,
	}, nil
}

package model

import "time"

// Payment statuses
const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPending = "pending"

	BookingStatusConfirmed = "confirmed"
	PaymentRecordCompleted = "completed"
)

// Booking represents a stay reserved by a user
type Booking struct {
	ID            string     `json:"id" db:"id"`
	UserID        string     `json:"user_id" db:"user_id"`
	PropertyID    string     `json:"property_id" db:"property_id"`
	CheckIn       time.Time  `json:"check_in" db:"check_in"`
	CheckOut      time.Time  `json:"check_out" db:"check_out"`
	Guests        int        `json:"guests" db:"guests"`
	PaymentStatus string     `json:"payment_status" db:"payment_status"`
	AmountPaid    float64    `json:"amount_paid" db:"amount_paid"`
	Status        *string    `json:"status" db:"status"`
	PaymentDate   *time.Time `json:"payment_date" db:"payment_date"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// BookingSummary is a booking as listed on the user's trips page
type BookingSummary struct {
	ID            string  `json:"id" db:"id"`
	PaymentStatus string  `json:"payment_status" db:"payment_status"`
	Price         float64 `json:"price" db:"amount_paid"`
	BnbName       *string `json:"bnbName" db:"title"`
	ImageURL      *string `json:"imageUrl" db:"image_url"`
}

// Payment is the record written when a booking is paid
type Payment struct {
	ID        string    `json:"id" db:"id"`
	BookingID string    `json:"booking_id" db:"booking_id"`
	Amount    float64   `json:"amount" db:"amount"`
	Method    string    `json:"method" db:"method"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PaymentResult is the response of the payment endpoint
type PaymentResult struct {
	Success       bool   `json:"success"`
	PaymentID     string `json:"payment_id"`
	BookingStatus string `json:"booking_status"`
}

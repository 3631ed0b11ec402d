package model

// AIRecommendationRequest represents POST /ai-recommendations
type AIRecommendationRequest struct {
	Query string `json:"query"`
}

// CreatePropertyRequest represents POST /properties
type CreatePropertyRequest struct {
	Title         string   `json:"title" binding:"required"`
	Description   *string  `json:"description"`
	Location      *string  `json:"location"`
	CategoryID    *string  `json:"category_id"`
	PricePerNight *float64 `json:"price_per_night" validate:"omitempty,gte=0"`
	MainImageURL  *string  `json:"main_image_url" validate:"omitempty,url"`
	GalleryImages []string `json:"gallery_images" validate:"dive,url"`
	FacilityIDs   []string `json:"facility_ids" validate:"dive,required"`
}

// CreatePropertyResponse is returned after a property is stored
type CreatePropertyResponse struct {
	Message    string `json:"message"`
	PropertyID string `json:"property_id"`
}

// CreateBookingRequest represents POST /book
type CreateBookingRequest struct {
	PropertyID string   `json:"property_id" binding:"required" validate:"required"`
	CheckIn    string   `json:"check_in" binding:"required" validate:"required,datetime=2006-01-02"`
	CheckOut   string   `json:"check_out" binding:"required" validate:"required,datetime=2006-01-02"`
	Guests     int      `json:"guests" binding:"required" validate:"gte=1"`
	AmountPaid *float64 `json:"amount_paid" binding:"required" validate:"required,gte=0"`
}

// ProcessPaymentRequest represents POST /payments/process
type ProcessPaymentRequest struct {
	BookingID     string   `json:"booking_id" binding:"required"`
	PaymentMethod string   `json:"payment_method" binding:"required"`
	Amount        *float64 `json:"amount" binding:"required,gte=0"`
}

// SignupRequest represents POST /auth/signup
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

// LoginRequest represents POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// KYCRequest represents PUT /auth/submit-kyc
type KYCRequest struct {
	IDType   string `json:"idType" binding:"required"`
	IDNumber string `json:"idNumber" binding:"required"`
	Address  string `json:"address" binding:"required"`
}

// UpdateUserRequest represents PUT /auth/update-user
type UpdateUserRequest struct {
	Email        *string        `json:"email" binding:"omitempty,email"`
	Password     *string        `json:"password" binding:"omitempty,min=6"`
	UserMetadata map[string]any `json:"user_metadata"`
}

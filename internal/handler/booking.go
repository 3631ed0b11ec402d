package handler

import (
	"net/http"

	"staybook/internal/model"
	"staybook/internal/service"

	"github.com/gin-gonic/gin"
)

// BookingHandler handles bookings and payments
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Book handles POST /api/book
func (h *BookingHandler) Book(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	bookings, err := h.bookingService.Create(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ListForUser handles GET /api/bookings/:user_id
func (h *BookingHandler) ListForUser(c *gin.Context) {
	bookings, err := h.bookingService.ListForUser(c.Request.Context(), currentUser(c).ID, c.Param("user_id"))
	if err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ProcessPayment handles POST /api/payments/process
func (h *BookingHandler) ProcessPayment(c *gin.Context) {
	var req model.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.bookingService.ProcessPayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, result)
}

package handler

import (
	"net/http"

	"staybook/internal/service"

	"github.com/gin-gonic/gin"
)

// HotelHandler handles hotel listing
type HotelHandler struct {
	hotelService *service.HotelService
}

// NewHotelHandler creates a new hotel handler
func NewHotelHandler(hotelService *service.HotelService) *HotelHandler {
	return &HotelHandler{hotelService: hotelService}
}

// List handles GET /api/hotels
func (h *HotelHandler) List(c *gin.Context) {
	hotels, err := h.hotelService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, hotels)
}

package handler

import (
	"net/http"

	"staybook/internal/model"
	"staybook/internal/service"

	"github.com/gin-gonic/gin"
)

// PropertyHandler handles property listing, detail and creation
type PropertyHandler struct {
	propertyService *service.PropertyService
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(propertyService *service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// List handles GET /api/properties
func (h *PropertyHandler) List(c *gin.Context) {
	var filter model.ListingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	listings, err := h.propertyService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, listings)
}

// Get handles GET /api/properties/:id
func (h *PropertyHandler) Get(c *gin.Context) {
	detail, err := h.propertyService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Categories handles GET /api/categories
func (h *PropertyHandler) Categories(c *gin.Context) {
	categories, err := h.propertyService.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// Create handles POST /api/properties
func (h *PropertyHandler) Create(c *gin.Context) {
	var req model.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	id, err := h.propertyService.Create(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, model.CreatePropertyResponse{
		Message:    "Property created",
		PropertyID: id,
	})
}

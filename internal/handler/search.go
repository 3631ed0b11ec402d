package handler

import (
	"net/http"

	"staybook/internal/model"
	"staybook/internal/service"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles the natural-language search route
type SearchHandler struct {
	searchService *service.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Recommend handles POST /api/ai-recommendations
func (h *SearchHandler) Recommend(c *gin.Context) {
	var req model.AIRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	listings, err := h.searchService.Recommend(c.Request.Context(), req.Query)
	if err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, listings)
}

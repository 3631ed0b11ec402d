package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every route handler plus the auth middleware
type Handlers struct {
	Search   *SearchHandler
	Property *PropertyHandler
	Booking  *BookingHandler
	Hotel    *HotelHandler
	Auth     *AuthHandler
	Require  gin.HandlerFunc
}

// RegisterRoutes mounts the API under /api
func RegisterRoutes(router *gin.Engine, h Handlers) {
	api := router.Group("/api")
	{
		api.POST("/ai-recommendations", h.Search.Recommend)

		api.GET("/properties", h.Property.List)
		api.GET("/properties/:id", h.Property.Get)
		api.POST("/properties", h.Require, h.Property.Create)
		api.GET("/categories", h.Property.Categories)

		api.GET("/hotels", h.Hotel.List)

		api.POST("/book", h.Require, h.Booking.Book)
		api.GET("/bookings/:user_id", h.Require, h.Booking.ListForUser)
		api.POST("/payments/process", h.Require, h.Booking.ProcessPayment)
	}

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.PUT("/submit-kyc", h.Require, h.Auth.SubmitKYC)
		auth.PUT("/update-user", h.Require, h.Auth.UpdateUser)
	}
}

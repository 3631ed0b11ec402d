package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"staybook/internal/config"
	"staybook/internal/handler"
	"staybook/internal/repository"
	"staybook/internal/service"
	"staybook/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	utils.InitLogger("staybook", cfg.Logging.Level, cfg.Logging.Format)
	log := utils.Logger

	log.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}).Info("Staybook API starting")

	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer repo.Close()

	log.Info("Connected to PostgreSQL database")

	// Language model
	openaiClient := service.NewOpenAIClient(&cfg.OpenAI)
	if openaiClient.IsEnabled() {
		log.WithFields(logrus.Fields{
			"api_base":    cfg.OpenAI.APIBase,
			"chat_model":  cfg.OpenAI.ChatModel,
			"temperature": cfg.OpenAI.ChatTemperature,
			"max_tokens":  cfg.OpenAI.ChatMaxTokens,
		}).Info("OpenAI client initialized")
	} else {
		log.Warn("OpenAI is disabled, AI recommendations will fail. Set OPENAI_API_KEY to enable them")
	}

	// Identity provider
	if cfg.Supabase.URL == "" {
		log.Warn("SUPABASE_URL is not set, auth routes will fail")
	}
	if cfg.Supabase.JWTSecret == "" {
		log.Info("SUPABASE_JWT_SECRET not set, tokens are verified against the auth server")
	}
	authService := service.NewAuthService(service.NewGoTrueClient(&cfg.Supabase), cfg.Supabase.JWTSecret)

	// Initialize services
	enricher := service.NewEnricher(repo, cfg.Search.EnrichConcurrency)
	searchService := service.NewSearchService(
		service.NewQueryInterpreter(openaiClient),
		repo,
		enricher,
		cfg.RequestTimeout(),
	)
	propertyService := service.NewPropertyService(repo, enricher)
	bookingService := service.NewBookingService(repo)
	hotelService := service.NewHotelService(repo)

	log.Info("Services initialized")

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogger())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.AllowedOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := repo.Ping(c.Request.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":     status,
			"service":    "staybook-api",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	handler.RegisterRoutes(router, handler.Handlers{
		Search:   handler.NewSearchHandler(searchService),
		Property: handler.NewPropertyHandler(propertyService),
		Booking:  handler.NewBookingHandler(bookingService),
		Hotel:    handler.NewHotelHandler(hotelService),
		Auth:     handler.NewAuthHandler(authService),
		Require:  handler.AuthRequired(authService),
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shut down")
	}

	log.Info("Server stopped")
}

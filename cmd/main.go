package main

import (
	"time"

	"hotel-booking-service/internal/handler"
	"hotel-booking-service/internal/middleware"
	"hotel-booking-service/internal/repository"
	"hotel-booking-service/pkg/config"
	"hotel-booking-service/pkg/database"
	"hotel-booking-service/pkg/jwtutil"
	"hotel-booking-service/pkg/logger"
	"hotel-booking-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting hotel booking service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Token issuer built from config; the signing key is never global
	issuer := jwtutil.New(&cfg.JWT)
	log.Info("Token issuer initialized")

	// Repositories
	db := database.GetDB()
	users := repository.NewUserRepository(db)
	hotels := repository.NewHotelRepository(db)
	bookings := repository.NewBookingRepository(db)
	reviews := repository.NewReviewRepository(db)

	// Handlers
	authHandler := handler.NewAuthHandler(users, issuer, cfg.Admin.RegistrationCode)
	userHandler := handler.NewUserHandler(users)
	hotelHandler := handler.NewHotelHandler(hotels, reviews)
	bookingHandler := handler.NewBookingHandler(bookings, hotels)
	reviewHandler := handler.NewReviewHandler(reviews, hotels)
	favoriteHandler := handler.NewFavoriteHandler(users, hotels)

	// Initialize Echo framework
	e := echo.New()
	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 30 * time.Second

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover()) // Add recovery middleware
	e.Use(echomiddleware.CORS())    // Add CORS middleware
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Public hotel and review reads
	e.GET("/hotels", hotelHandler.ListHotels)
	e.GET("/hotels/popular", hotelHandler.GetPopularHotels)
	e.GET("/hotels/:id", hotelHandler.GetHotel)
	e.GET("/reviews/hotel/:hotelId", reviewHandler.GetReviewsByHotel)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.Auth(issuer))

	// Profile
	apiUsers := api.Group("/users")
	apiUsers.GET("/me", userHandler.GetProfile)
	apiUsers.PUT("/me", userHandler.UpdateProfile)

	// Hotel management - admin only
	apiHotels := api.Group("/hotels")
	apiHotels.Use(middleware.RequireAdmin)
	apiHotels.POST("", hotelHandler.CreateHotel)
	apiHotels.PUT("/:id", hotelHandler.UpdateHotel)
	apiHotels.DELETE("/:id", hotelHandler.DeleteHotel)

	// Bookings
	apiBookings := api.Group("/bookings")
	apiBookings.POST("", bookingHandler.CreateBooking)
	apiBookings.GET("/me", bookingHandler.GetMyBookings)
	apiBookings.GET("/hotel/:hotelId", bookingHandler.GetBookingsByHotel)
	apiBookings.DELETE("/:id", bookingHandler.DeleteBooking)

	// Reviews
	apiReviews := api.Group("/reviews")
	apiReviews.POST("", reviewHandler.SubmitReview)
	apiReviews.GET("/me", reviewHandler.GetMyReviews)
	apiReviews.PUT("/:id", reviewHandler.UpdateReview)
	apiReviews.DELETE("/:id", reviewHandler.DeleteReview)

	// Favorites
	apiFavorites := api.Group("/favorites")
	apiFavorites.POST("/:hotelId", favoriteHandler.ToggleFavorite)
	apiFavorites.GET("", favoriteHandler.GetFavorites)
	apiFavorites.GET("/:hotelId/check", favoriteHandler.CheckFavorite)

	// Admin panel - requires the admin role
	admin := e.Group("/admin")
	admin.Use(middleware.Auth(issuer))
	admin.Use(middleware.RequireAdmin)
	admin.GET("/users", userHandler.ListUsers)
	admin.PUT("/users/:id", userHandler.AdminUpdateUser)
	admin.DELETE("/users/:id", userHandler.AdminDeleteUser)
	admin.GET("/hotels", hotelHandler.ListAllHotels)
	admin.GET("/hotels/:hotelId/bookings", bookingHandler.GetBookingsByHotel)
	admin.DELETE("/hotels/:id", hotelHandler.DeleteHotel)
	admin.GET("/bookings", bookingHandler.ListAllBookings)
	admin.PUT("/bookings/:id", bookingHandler.AdminUpdateBooking)
	admin.DELETE("/bookings/:id", bookingHandler.AdminDeleteBooking)
	admin.GET("/reviews", reviewHandler.ListAllReviews)
	admin.GET("/reviews/stats", reviewHandler.GetReviewStats)

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}

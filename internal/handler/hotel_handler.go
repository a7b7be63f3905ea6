package handler

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"hotel-booking-service/internal/model"
	"hotel-booking-service/internal/repository"
	"hotel-booking-service/pkg/logger"
	"hotel-booking-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HotelRequest defines the structure for hotel creation/update requests
type HotelRequest struct {
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	PricePerNight float64  `json:"price_per_night"`
	Amenities     []string `json:"amenities"`
	Type          string   `json:"type"`
	StarRating    int      `json:"star_rating"`
	ImageURL      string   `json:"image_url"`
}

type HotelHandler struct {
	hotels  repository.HotelRepository
	reviews repository.ReviewRepository
}

func NewHotelHandler(hotels repository.HotelRepository, reviews repository.ReviewRepository) *HotelHandler {
	return &HotelHandler{hotels: hotels, reviews: reviews}
}

// ListHotels handles the public hotel listing with search filters.
// minStars filters by threshold, not exact equality.
func (h *HotelHandler) ListHotels(c echo.Context) error {
	log := logger.FromContext(c)

	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}

	params := repository.HotelSearchParams{
		Page:   page,
		Limit:  limit,
		Search: c.QueryParam("search"),
		Type:   c.QueryParam("type"),
	}
	if minStars, err := strconv.Atoi(c.QueryParam("minStars")); err == nil {
		params.MinStars = minStars
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	hotels, total, err := h.hotels.Search(c.Request().Context(), params)
	if err != nil {
		log.Error("Failed to list hotels", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve hotels"})
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	log.Info("Hotels retrieved", zap.Int("count", len(hotels)), zap.Int64("total", total))
	return c.JSON(http.StatusOK, echo.Map{
		"currentPage": page,
		"totalPages":  totalPages,
		"totalItems":  total,
		"hotels":      hotels,
	})
}

// GetPopularHotels ranks hotels by average review rating, review count
// breaking ties.
func (h *HotelHandler) GetPopularHotels(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	hotels, err := h.reviews.Popular(c.Request().Context())
	if err != nil {
		log.Error("Failed to rank popular hotels", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve popular hotels"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total":  len(hotels),
		"hotels": hotels,
	})
}

// GetHotel handles retrieving a single hotel by ID
func (h *HotelHandler) GetHotel(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	hotel, err := h.hotels.ByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Hotel not found", zap.Uint("hotel_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
	}

	return c.JSON(http.StatusOK, hotel)
}

// CreateHotel handles creating a new hotel. Admin only, enforced by
// route middleware.
func (h *HotelHandler) CreateHotel(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("hotel", "create")

	var req HotelRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid hotel request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	if req.Name == "" || req.Location == "" || req.PricePerNight <= 0 {
		log.Error("Incomplete hotel data",
			zap.String("name", req.Name),
			zap.String("location", req.Location))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, location and price_per_night are required"})
	}

	hotel := model.Hotel{
		Name:          req.Name,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
		Amenities:     req.Amenities,
		Type:          req.Type,
		StarRating:    req.StarRating,
		ImageURL:      req.ImageURL,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.hotels.Create(c.Request().Context(), &hotel); err != nil {
		log.Error("Failed to create hotel", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create hotel"})
	}

	log.Info("Hotel created",
		zap.Uint("hotel_id", hotel.ID),
		zap.String("name", hotel.Name))
	return c.JSON(http.StatusCreated, echo.Map{"message": "hotel created", "hotel": hotel})
}

// UpdateHotel handles updating an existing hotel. Admin only.
func (h *HotelHandler) UpdateHotel(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("hotel", "update")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel ID"})
	}

	hotel, err := h.hotels.ByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Hotel not found", zap.Uint("hotel_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
	}

	var req HotelRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid hotel request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	if req.Name != "" {
		hotel.Name = req.Name
	}
	if req.Location != "" {
		hotel.Location = req.Location
	}
	if req.PricePerNight > 0 {
		hotel.PricePerNight = req.PricePerNight
	}
	if req.Amenities != nil {
		hotel.Amenities = req.Amenities
	}
	if req.Type != "" {
		hotel.Type = req.Type
	}
	if req.StarRating > 0 {
		hotel.StarRating = req.StarRating
	}
	if req.ImageURL != "" {
		hotel.ImageURL = req.ImageURL
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.hotels.Update(c.Request().Context(), hotel); err != nil {
		log.Error("Failed to update hotel", zap.Uint("hotel_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update hotel"})
	}

	log.Info("Hotel updated", zap.Uint("hotel_id", hotel.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "hotel updated", "hotel": hotel})
}

// DeleteHotel removes a hotel and cascades to its bookings. Admin only.
func (h *HotelHandler) DeleteHotel(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("hotel", "delete")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel ID"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.hotels.DeleteCascade(c.Request().Context(), id); err != nil {
		if isNotFound(err) {
			log.Error("Hotel not found", zap.Uint("hotel_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		log.Error("Failed to delete hotel", zap.Uint("hotel_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete hotel"})
	}

	log.Info("Hotel and related bookings deleted", zap.Uint("hotel_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "hotel and related bookings deleted"})
}

// ListAllHotels returns every hotel without paging. Admin only.
func (h *HotelHandler) ListAllHotels(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	hotels, err := h.hotels.All(c.Request().Context())
	if err != nil {
		log.Error("Failed to list hotels", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve hotels"})
	}

	return c.JSON(http.StatusOK, echo.Map{"hotels": hotels})
}

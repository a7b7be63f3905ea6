package handler

import (
	"net/http"
	"strconv"
	"time"

	"hotel-booking-service/internal/middleware"
	"hotel-booking-service/internal/model"
	"hotel-booking-service/internal/repository"
	"hotel-booking-service/pkg/logger"
	"hotel-booking-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ReviewRequest defines the structure for review submission/update
// requests. Rating/comment are pointers so partial updates can tell
// "absent" from zero values.
type ReviewRequest struct {
	HotelID uint    `json:"hotel_id"`
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type ReviewHandler struct {
	reviews repository.ReviewRepository
	hotels  repository.HotelRepository
}

func NewReviewHandler(reviews repository.ReviewRepository, hotels repository.HotelRepository) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, hotels: hotels}
}

// recomputeAverage persists the hotel's average rating as the mean of
// its remaining reviews, 0 when none remain. Not transactional with the
// review write; concurrent writers on the same hotel can lose updates.
func (h *ReviewHandler) recomputeAverage(c echo.Context, hotelID uint) {
	log := logger.FromContext(c)

	avg, count, err := h.reviews.Average(c.Request().Context(), hotelID)
	if err != nil {
		log.Error("Failed to compute average rating", zap.Uint("hotel_id", hotelID), zap.Error(err))
		return
	}
	if err := h.hotels.SetRatingStats(c.Request().Context(), hotelID, avg, count); err != nil {
		log.Error("Failed to persist average rating", zap.Uint("hotel_id", hotelID), zap.Error(err))
	}
}

// SubmitReview creates a review. Admins may not review; one review per
// (user, hotel) pair.
func (h *ReviewHandler) SubmitReview(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("review", "create")

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	if identity.IsAdmin() {
		log.Warn("Admin attempted to submit review", zap.Uint("user_id", identity.ID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "admins are not allowed to submit reviews"})
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid review request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	if req.HotelID == 0 || req.Rating == nil || req.Comment == nil || *req.Comment == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing required fields"})
	}
	if *req.Rating < model.MinRating || *req.Rating > model.MaxRating {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	if _, err := h.hotels.ByID(c.Request().Context(), req.HotelID); err != nil {
		log.Error("Hotel not found for review", zap.Uint("hotel_id", req.HotelID), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
	}

	if _, err := h.reviews.ByUserAndHotel(c.Request().Context(), identity.ID, req.HotelID); err == nil {
		log.Warn("Duplicate review rejected",
			zap.Uint("user_id", identity.ID),
			zap.Uint("hotel_id", req.HotelID))
		return c.JSON(http.StatusConflict, echo.Map{"error": "you have already reviewed this hotel"})
	}

	review := model.Review{
		UserID:  identity.ID,
		HotelID: req.HotelID,
		Rating:  *req.Rating,
		Comment: *req.Comment,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.reviews.Create(c.Request().Context(), &review); err != nil {
		log.Error("Failed to create review", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit review"})
	}

	h.recomputeAverage(c, req.HotelID)

	log.Info("Review submitted",
		zap.Uint("review_id", review.ID),
		zap.Uint("user_id", identity.ID),
		zap.Uint("hotel_id", req.HotelID),
		zap.Int("rating", review.Rating))
	return c.JSON(http.StatusCreated, echo.Map{"message": "review submitted", "review": review})
}

// GetReviewsByHotel lists a hotel's reviews newest first. Public. The
// author falls back to "anonymous" when the user no longer resolves.
func (h *ReviewHandler) GetReviewsByHotel(c echo.Context) error {
	log := logger.FromContext(c)

	hotelID, err := parseID(c.Param("hotelId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	reviews, err := h.reviews.ByHotel(c.Request().Context(), hotelID)
	if err != nil {
		log.Error("Failed to list reviews", zap.Uint("hotel_id", hotelID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve reviews"})
	}

	formatted := make([]echo.Map, 0, len(reviews))
	for _, r := range reviews {
		username := "anonymous"
		if r.User != nil && r.User.Username != "" {
			username = r.User.Username
		}
		formatted = append(formatted, echo.Map{
			"id":       r.ID,
			"user_id":  r.UserID,
			"username": username,
			"comment":  r.Comment,
			"rating":   r.Rating,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"reviews": formatted})
}

// GetMyReviews lists the authenticated user's reviews with hotel names.
func (h *ReviewHandler) GetMyReviews(c echo.Context) error {
	log := logger.FromContext(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	reviews, err := h.reviews.ByUser(c.Request().Context(), identity.ID)
	if err != nil {
		log.Error("Failed to list reviews", zap.Uint("user_id", identity.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve reviews"})
	}

	formatted := make([]echo.Map, 0, len(reviews))
	for _, r := range reviews {
		hotelName := "unknown"
		if r.Hotel != nil {
			hotelName = r.Hotel.Name
		}
		formatted = append(formatted, echo.Map{
			"id":         r.ID,
			"hotel_id":   r.HotelID,
			"hotel_name": hotelName,
			"comment":    r.Comment,
			"rating":     r.Rating,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"reviews": formatted})
}

// UpdateReview changes rating and/or comment of the requester's own
// review and recomputes the hotel's average rating.
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("review", "update")

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	review, err := h.reviews.ByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Review not found", zap.Uint("review_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
	}

	if review.UserID != identity.ID {
		log.Warn("Review update denied",
			zap.Uint("review_id", id),
			zap.Uint("owner_id", review.UserID),
			zap.Uint("requester_id", identity.ID))
		prometheus.RecordOwnershipDenial("review")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden: not your review"})
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid review request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	if req.Rating != nil {
		if *req.Rating < model.MinRating || *req.Rating > model.MaxRating {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
		}
		review.Rating = *req.Rating
	}
	if req.Comment != nil && *req.Comment != "" {
		review.Comment = *req.Comment
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.reviews.Update(c.Request().Context(), review); err != nil {
		log.Error("Failed to update review", zap.Uint("review_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update review"})
	}

	h.recomputeAverage(c, review.HotelID)

	log.Info("Review updated", zap.Uint("review_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "review updated", "review": review})
}

// DeleteReview removes the requester's own review and recomputes the
// hotel's average rating.
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("review", "delete")

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	review, err := h.reviews.ByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Review not found", zap.Uint("review_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
	}

	if review.UserID != identity.ID {
		log.Warn("Review delete denied",
			zap.Uint("review_id", id),
			zap.Uint("owner_id", review.UserID),
			zap.Uint("requester_id", identity.ID))
		prometheus.RecordOwnershipDenial("review")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden: not your review"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.reviews.Delete(c.Request().Context(), id); err != nil {
		log.Error("Failed to delete review", zap.Uint("review_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete review"})
	}

	h.recomputeAverage(c, review.HotelID)

	log.Info("Review deleted", zap.Uint("review_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "review deleted"})
}

// ListAllReviews is the admin review listing with optional filters.
func (h *ReviewHandler) ListAllReviews(c echo.Context) error {
	log := logger.FromContext(c)

	var filter repository.ReviewFilter
	if hotelID, err := strconv.ParseUint(c.QueryParam("hotelId"), 10, 32); err == nil {
		filter.HotelID = uint(hotelID)
	}
	if userID, err := strconv.ParseUint(c.QueryParam("userId"), 10, 32); err == nil {
		filter.UserID = uint(userID)
	}
	if minRating, err := strconv.Atoi(c.QueryParam("minRating")); err == nil {
		filter.MinRating = minRating
	}
	if maxRating, err := strconv.Atoi(c.QueryParam("maxRating")); err == nil {
		filter.MaxRating = maxRating
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	reviews, err := h.reviews.Filter(c.Request().Context(), filter)
	if err != nil {
		log.Error("Failed to filter reviews", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve reviews"})
	}

	return c.JSON(http.StatusOK, echo.Map{"total": len(reviews), "reviews": reviews})
}

// GetReviewStats returns the per-hotel review aggregate. Admin only.
func (h *ReviewHandler) GetReviewStats(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	stats, err := h.reviews.Stats(c.Request().Context())
	if err != nil {
		log.Error("Failed to compute review stats", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve review stats"})
	}

	return c.JSON(http.StatusOK, echo.Map{"stats": stats})
}

package handler

import (
	"net/http"
	"time"

	"hotel-booking-service/internal/middleware"
	"hotel-booking-service/internal/repository"
	"hotel-booking-service/pkg/logger"
	"hotel-booking-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type FavoriteHandler struct {
	users  repository.UserRepository
	hotels repository.HotelRepository
}

func NewFavoriteHandler(users repository.UserRepository, hotels repository.HotelRepository) *FavoriteHandler {
	return &FavoriteHandler{users: users, hotels: hotels}
}

// ToggleFavorite flips the hotel's membership in the user's favorites:
// present is removed, absent is added. Toggling twice restores the
// original state.
func (h *FavoriteHandler) ToggleFavorite(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("favorite", "toggle")

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	hotelID, err := parseID(c.Param("hotelId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel ID"})
	}

	// The token may outlive the account; a deleted user is a 404, not a
	// silent write against a dangling ID.
	defer prometheus.TrackDBOperation("query")(time.Now())
	if _, err := h.users.ByID(c.Request().Context(), identity.ID); err != nil {
		log.Error("User not found for favorite", zap.Uint("user_id", identity.ID), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	if _, err := h.hotels.ByID(c.Request().Context(), hotelID); err != nil {
		log.Error("Hotel not found for favorite", zap.Uint("hotel_id", hotelID), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
	}

	isFavorite, err := h.users.IsFavorite(c.Request().Context(), identity.ID, hotelID)
	if err != nil {
		log.Error("Failed to check favorite", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to toggle favorite"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if isFavorite {
		if err := h.users.RemoveFavorite(c.Request().Context(), identity.ID, hotelID); err != nil {
			log.Error("Failed to remove favorite", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to toggle favorite"})
		}
		log.Info("Removed from favorites",
			zap.Uint("user_id", identity.ID),
			zap.Uint("hotel_id", hotelID))
		return c.JSON(http.StatusOK, echo.Map{"message": "removed from favorites", "added": false})
	}

	if err := h.users.AddFavorite(c.Request().Context(), identity.ID, hotelID); err != nil {
		log.Error("Failed to add favorite", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to toggle favorite"})
	}
	log.Info("Added to favorites",
		zap.Uint("user_id", identity.ID),
		zap.Uint("hotel_id", hotelID))
	return c.JSON(http.StatusOK, echo.Map{"message": "added to favorites", "added": true})
}

// GetFavorites lists the user's favorited hotels, resolved.
func (h *FavoriteHandler) GetFavorites(c echo.Context) error {
	log := logger.FromContext(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	if _, err := h.users.ByID(c.Request().Context(), identity.ID); err != nil {
		log.Error("User not found for favorites", zap.Uint("user_id", identity.ID), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	hotels, err := h.users.Favorites(c.Request().Context(), identity.ID)
	if err != nil {
		log.Error("Failed to list favorites", zap.Uint("user_id", identity.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve favorites"})
	}

	return c.JSON(http.StatusOK, echo.Map{"favorites": hotels})
}

// CheckFavorite reports whether the hotel is in the user's favorites.
func (h *FavoriteHandler) CheckFavorite(c echo.Context) error {
	log := logger.FromContext(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	hotelID, err := parseID(c.Param("hotelId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	if _, err := h.users.ByID(c.Request().Context(), identity.ID); err != nil {
		log.Error("User not found for favorite check", zap.Uint("user_id", identity.ID), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	isFavorite, err := h.users.IsFavorite(c.Request().Context(), identity.ID, hotelID)
	if err != nil {
		log.Error("Failed to check favorite", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check favorite"})
	}

	return c.JSON(http.StatusOK, echo.Map{"is_favorite": isFavorite})
}

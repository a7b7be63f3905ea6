package handler

import (
	"net/http"
	"time"

	"hotel-booking-service/internal/middleware"
	"hotel-booking-service/internal/model"
	"hotel-booking-service/internal/repository"
	"hotel-booking-service/pkg/logger"
	"hotel-booking-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// BookingRequest defines the structure for booking creation/update
// requests. Dates accept RFC3339 or plain YYYY-MM-DD.
type BookingRequest struct {
	HotelID  uint   `json:"hotel_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int    `json:"guests"`
}

type BookingHandler struct {
	bookings repository.BookingRepository
	hotels   repository.HotelRepository
}

func NewBookingHandler(bookings repository.BookingRepository, hotels repository.HotelRepository) *BookingHandler {
	return &BookingHandler{bookings: bookings, hotels: hotels}
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// CreateBooking creates a booking owned by the authenticated user. The
// hotel must exist and check-out must follow check-in.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("booking", "create")

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid booking request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	if req.HotelID == 0 || req.CheckIn == "" || req.CheckOut == "" || req.Guests <= 0 {
		log.Error("Incomplete booking data", zap.Uint("hotel_id", req.HotelID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing required fields"})
	}

	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in date"})
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out date"})
	}
	if !checkOut.After(checkIn) {
		log.Error("Check-out not after check-in",
			zap.Time("check_in", checkIn),
			zap.Time("check_out", checkOut))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be after check_in"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	if _, err := h.hotels.ByID(c.Request().Context(), req.HotelID); err != nil {
		log.Error("Hotel not found for booking", zap.Uint("hotel_id", req.HotelID), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
	}

	// The owner is always the requester, never client-supplied.
	booking := model.Booking{
		UserID:   identity.ID,
		HotelID:  req.HotelID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   req.Guests,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.bookings.Create(c.Request().Context(), &booking); err != nil {
		log.Error("Failed to create booking", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}

	log.Info("Booking created",
		zap.Uint("booking_id", booking.ID),
		zap.Uint("user_id", identity.ID),
		zap.Uint("hotel_id", booking.HotelID))
	return c.JSON(http.StatusCreated, echo.Map{"message": "booking created", "booking": booking})
}

// GetMyBookings lists the authenticated user's bookings with hotel
// details resolved.
func (h *BookingHandler) GetMyBookings(c echo.Context) error {
	log := logger.FromContext(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	bookings, err := h.bookings.ByUser(c.Request().Context(), identity.ID)
	if err != nil {
		log.Error("Failed to list bookings", zap.Uint("user_id", identity.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve bookings"})
	}

	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// GetBookingsByHotel lists a hotel's bookings. Any authenticated user
// may view; password hashes are never serialized.
func (h *BookingHandler) GetBookingsByHotel(c echo.Context) error {
	log := logger.FromContext(c)

	hotelID, err := parseID(c.Param("hotelId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	bookings, err := h.bookings.ByHotel(c.Request().Context(), hotelID)
	if err != nil {
		log.Error("Failed to list hotel bookings", zap.Uint("hotel_id", hotelID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve bookings"})
	}

	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// DeleteBooking removes a booking. Only the owner may delete it; admins
// bypass ownership. A missing booking yields 404 before any ownership
// check.
func (h *BookingHandler) DeleteBooking(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("booking", "delete")

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	booking, err := h.bookings.ByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Booking not found", zap.Uint("booking_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}

	if booking.UserID != identity.ID && !identity.IsAdmin() {
		log.Warn("Booking delete denied",
			zap.Uint("booking_id", id),
			zap.Uint("owner_id", booking.UserID),
			zap.Uint("requester_id", identity.ID))
		prometheus.RecordOwnershipDenial("booking")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden: not your booking"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.bookings.Delete(c.Request().Context(), id); err != nil {
		log.Error("Failed to delete booking", zap.Uint("booking_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete booking"})
	}

	log.Info("Booking deleted", zap.Uint("booking_id", id), zap.Uint("requester_id", identity.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "booking deleted successfully"})
}

// ListAllBookings returns every booking with user and hotel resolved.
// Admin only.
func (h *BookingHandler) ListAllBookings(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	bookings, err := h.bookings.All(c.Request().Context())
	if err != nil {
		log.Error("Failed to list bookings", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve bookings"})
	}

	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// AdminUpdateBooking updates booking dates/guests without an ownership
// check. Admin only.
func (h *BookingHandler) AdminUpdateBooking(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("booking", "admin_update")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking ID"})
	}

	booking, err := h.bookings.ByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Booking not found", zap.Uint("booking_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}

	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid booking request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	if req.CheckIn != "" {
		checkIn, err := parseDate(req.CheckIn)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in date"})
		}
		booking.CheckIn = checkIn
	}
	if req.CheckOut != "" {
		checkOut, err := parseDate(req.CheckOut)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out date"})
		}
		booking.CheckOut = checkOut
	}
	if !booking.CheckOut.After(booking.CheckIn) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be after check_in"})
	}
	if req.Guests > 0 {
		booking.Guests = req.Guests
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.bookings.Update(c.Request().Context(), booking); err != nil {
		log.Error("Failed to update booking", zap.Uint("booking_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}

	log.Info("Booking updated by admin", zap.Uint("booking_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "booking updated", "booking": booking})
}

// AdminDeleteBooking removes any booking regardless of ownership.
// Admin only.
func (h *BookingHandler) AdminDeleteBooking(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("booking", "admin_delete")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking ID"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.bookings.Delete(c.Request().Context(), id); err != nil {
		if isNotFound(err) {
			log.Error("Booking not found", zap.Uint("booking_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		log.Error("Failed to delete booking", zap.Uint("booking_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete booking"})
	}

	log.Info("Booking deleted by admin", zap.Uint("booking_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "booking deleted successfully"})
}

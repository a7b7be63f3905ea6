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

type UserHandler struct {
	users repository.UserRepository
}

func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile returns the authenticated user's own record.
func (h *UserHandler) GetProfile(c echo.Context) error {
	log := logger.FromContext(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.users.ByID(c.Request().Context(), identity.ID)
	if err != nil {
		log.Error("User not found", zap.Uint("user_id", identity.ID), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// UpdateProfile updates the authenticated user's own profile fields.
// Role and ban flag are admin-only and cannot be set here.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("user", "update")

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	var req struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid profile request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.users.ByID(c.Request().Context(), identity.ID)
	if err != nil {
		log.Error("User not found", zap.Uint("user_id", identity.ID), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	if req.Username != "" && req.Username != user.Username {
		if _, err := h.users.ByUsername(c.Request().Context(), req.Username); err == nil {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already registered"})
		}
		user.Username = req.Username
	}
	if req.Email != "" && req.Email != user.Email {
		if _, err := h.users.ByEmail(c.Request().Context(), req.Email); err == nil {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		user.Email = req.Email
	}
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.users.Update(c.Request().Context(), user); err != nil {
		if isDuplicate(err) {
			log.Error("Concurrent duplicate profile update", zap.Uint("user_id", identity.ID))
			return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already registered"})
		}
		log.Error("Failed to update user", zap.Uint("user_id", identity.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
	}

	log.Info("Profile updated", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "user updated", "user": user})
}

// ListUsers returns every user. Admin only.
func (h *UserHandler) ListUsers(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list users", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve users"})
	}

	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// AdminUpdateUser changes another user's role or ban flag. Admin only.
func (h *UserHandler) AdminUpdateUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("user", "admin_update")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	var req struct {
		Role     *string `json:"role"`
		IsBanned *bool   `json:"is_banned"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid user request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.users.ByID(c.Request().Context(), id)
	if err != nil {
		log.Error("User not found", zap.Uint("user_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	if req.Role != nil {
		if *req.Role != model.RoleUser && *req.Role != model.RoleAdmin {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
		}
		user.Role = *req.Role
	}
	if req.IsBanned != nil {
		user.IsBanned = *req.IsBanned
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.users.Update(c.Request().Context(), user); err != nil {
		log.Error("Failed to update user", zap.Uint("user_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update user"})
	}

	log.Info("User updated by admin",
		zap.Uint("user_id", user.ID),
		zap.String("role", user.Role),
		zap.Bool("is_banned", user.IsBanned))
	return c.JSON(http.StatusOK, echo.Map{"message": "user updated", "user": user})
}

// AdminDeleteUser removes a user. Terminal. Admin only.
func (h *UserHandler) AdminDeleteUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordResourceOperation("user", "admin_delete")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		if isNotFound(err) {
			log.Error("User not found", zap.Uint("user_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		log.Error("Failed to delete user", zap.Uint("user_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete user"})
	}

	log.Info("User deleted by admin", zap.Uint("user_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

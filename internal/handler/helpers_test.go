package handler

import (
	"net/http/httptest"
	"strings"

	"hotel-booking-service/internal/middleware"
	"hotel-booking-service/internal/model"

	"github.com/labstack/echo/v4"
)

// newTestContext builds an echo context for a JSON request.
func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asUser(c echo.Context, id uint, username string) {
	middleware.SetIdentity(c, middleware.Identity{ID: id, Username: username, Role: model.RoleUser})
}

func asAdmin(c echo.Context, id uint, username string) {
	middleware.SetIdentity(c, middleware.Identity{ID: id, Username: username, Role: model.RoleAdmin})
}

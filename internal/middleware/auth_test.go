package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel-booking-service/internal/model"
	"hotel-booking-service/pkg/config"
	"hotel-booking-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *jwtutil.Issuer {
	return jwtutil.New(&config.JWTConfig{SigningKey: "test-secret", ExpirationHours: 1})
}

func invoke(mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, bool, Identity) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var reached bool
	var identity Identity
	handler := mw(func(c echo.Context) error {
		reached = true
		identity, _ = IdentityFrom(c)
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec, reached, identity
}

func TestAuthMissingHeader(t *testing.T) {
	rec, reached, _ := invoke(Auth(newTestIssuer()), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestAuthMalformedHeader(t *testing.T) {
	rec, reached, _ := invoke(Auth(newTestIssuer()), "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestAuthInvalidToken(t *testing.T) {
	rec, reached, _ := invoke(Auth(newTestIssuer()), "Bearer not-a-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestAuthWrongKeyToken(t *testing.T) {
	other := jwtutil.New(&config.JWTConfig{SigningKey: "other-secret", ExpirationHours: 1})
	token, err := other.Generate(1, "alice", model.RoleUser)
	require.NoError(t, err)

	rec, reached, _ := invoke(Auth(newTestIssuer()), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestAuthValidTokenStoresIdentity(t *testing.T) {
	issuer := newTestIssuer()
	token, err := issuer.Generate(7, "alice", model.RoleAdmin)
	require.NoError(t, err)

	rec, reached, identity := invoke(Auth(issuer), "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
	assert.Equal(t, uint(7), identity.ID)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, model.RoleAdmin, identity.Role)
	assert.True(t, identity.IsAdmin())
}

func TestRequireAdminRejectsUserRole(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	SetIdentity(c, Identity{ID: 1, Username: "bob", Role: model.RoleUser})

	var reached bool
	_ = RequireAdmin(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	SetIdentity(c, Identity{ID: 1, Username: "root", Role: model.RoleAdmin})

	var reached bool
	_ = RequireAdmin(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestRequireAdminWithoutIdentity(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var reached bool
	_ = RequireAdmin(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"hotel-booking-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserHandler() (*UserHandler, *fakeUserRepo) {
	users := newFakeUserRepo()
	return NewUserHandler(users), users
}

func TestGetProfileNeverLeaksPassword(t *testing.T) {
	h, users := newUserHandler()
	user := seedUser(t, users, "alice", "alice@example.com", "secret", model.RoleUser, false)

	c, rec := newTestContext(http.MethodGet, "/api/users/me", "")
	asUser(c, user.ID, "alice")
	require.NoError(t, h.GetProfile(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alice"`)
	assert.False(t, strings.Contains(rec.Body.String(), "password"),
		"serialized user must not carry the hash")
}

func TestUpdateProfile(t *testing.T) {
	h, users := newUserHandler()
	user := seedUser(t, users, "alice", "alice@example.com", "secret", model.RoleUser, false)

	c, rec := newTestContext(http.MethodPut, "/api/users/me",
		`{"email":"new@example.com","avatar_url":"https://img.example.com/a.png"}`)
	asUser(c, user.ID, "alice")
	require.NoError(t, h.UpdateProfile(c))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := users.ByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", stored.Email)
	assert.Equal(t, "https://img.example.com/a.png", stored.AvatarURL)
	assert.Equal(t, "alice", stored.Username)
}

func TestUpdateProfileTakenUsername(t *testing.T) {
	h, users := newUserHandler()
	seedUser(t, users, "alice", "alice@example.com", "secret", model.RoleUser, false)
	bob := seedUser(t, users, "bob", "bob@example.com", "secret", model.RoleUser, false)

	c, rec := newTestContext(http.MethodPut, "/api/users/me", `{"username":"alice"}`)
	asUser(c, bob.ID, "bob")
	require.NoError(t, h.UpdateProfile(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateProfileConcurrentDuplicate(t *testing.T) {
	h, users := newUserHandler()
	user := seedUser(t, users, "alice", "alice@example.com", "secret", model.RoleUser, false)

	// The username passes the read-side check but a concurrent writer
	// takes it first; the unique index fires and the client sees 409.
	users.updateErr = gorm.ErrDuplicatedKey
	c, rec := newTestContext(http.MethodPut, "/api/users/me", `{"username":"taken"}`)
	asUser(c, user.ID, "alice")
	require.NoError(t, h.UpdateProfile(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateProfileCannotEscalate(t *testing.T) {
	h, users := newUserHandler()
	user := seedUser(t, users, "alice", "alice@example.com", "secret", model.RoleUser, false)

	c, rec := newTestContext(http.MethodPut, "/api/users/me",
		`{"role":"admin","is_banned":false}`)
	asUser(c, user.ID, "alice")
	require.NoError(t, h.UpdateProfile(c))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := users.ByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, stored.Role, "role is admin-managed only")
}

func TestAdminUpdateUserRoleAndBan(t *testing.T) {
	h, users := newUserHandler()
	user := seedUser(t, users, "alice", "alice@example.com", "secret", model.RoleUser, false)

	c, rec := newTestContext(http.MethodPut, "/admin/users/1",
		`{"role":"admin","is_banned":true}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asAdmin(c, 9, "root")
	require.NoError(t, h.AdminUpdateUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := users.ByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, stored.Role)
	assert.True(t, stored.IsBanned)
}

func TestAdminUpdateUserInvalidRole(t *testing.T) {
	h, users := newUserHandler()
	seedUser(t, users, "alice", "alice@example.com", "secret", model.RoleUser, false)

	c, rec := newTestContext(http.MethodPut, "/admin/users/1", `{"role":"superuser"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asAdmin(c, 9, "root")
	require.NoError(t, h.AdminUpdateUser(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminDeleteUser(t *testing.T) {
	h, users := newUserHandler()
	user := seedUser(t, users, "alice", "alice@example.com", "secret", model.RoleUser, false)

	c, rec := newTestContext(http.MethodDelete, "/admin/users/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	asAdmin(c, 9, "root")
	require.NoError(t, h.AdminDeleteUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := users.ByID(context.Background(), user.ID)
	assert.Error(t, err)
}

func TestAdminDeleteUserNotFound(t *testing.T) {
	h, _ := newUserHandler()

	c, rec := newTestContext(http.MethodDelete, "/admin/users/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	asAdmin(c, 9, "root")
	require.NoError(t, h.AdminDeleteUser(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

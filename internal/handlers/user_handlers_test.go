package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobdeck/jobboard/internal/apperrors"
	"github.com/jobdeck/jobboard/internal/models"
	"github.com/jobdeck/jobboard/internal/repo"
)

func newUserFixture(t *testing.T) *UserHandler {
	t.Helper()
	return &UserHandler{Users: repo.NewUserRepo(InitTestDB(t))}
}

func TestGetUserSelfAndAdmin(t *testing.T) {
	h := newUserFixture(t)
	e := newEcho()

	alice := createTestUser(t, h.Users.DB, "alice@x.com", "pw123456", models.RoleUser, true)
	bob := createTestUser(t, h.Users.DB, "bob@x.com", "pw123456", models.RoleUser, true)
	admin := createTestUser(t, h.Users.DB, "admin@x.com", "pw123456", models.RoleAdmin, true)

	fetch := func(target *models.User, as *models.User) (int, error) {
		req := httptest.NewRequest(http.MethodGet, "/users/"+target.UID.String(), nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("uid")
		c.SetParamValues(target.UID.String())
		setCurrentUser(c, as)
		err := h.GetUser(c)
		return rec.Code, err
	}

	code, err := fetch(alice, alice)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)

	_, err = fetch(alice, bob)
	require.ErrorIs(t, err, apperrors.ErrNotAuthorized)

	code, err = fetch(alice, admin)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)
}

func TestGetUserBadUID(t *testing.T) {
	h := newUserFixture(t)
	e := newEcho()

	req := httptest.NewRequest(http.MethodGet, "/users/nope", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("uid")
	c.SetParamValues("nope")

	require.ErrorIs(t, h.GetUser(c), apperrors.ErrInvalidID)
}

func TestUpdateUserPartial(t *testing.T) {
	h := newUserFixture(t)
	e := newEcho()

	alice := createTestUser(t, h.Users.DB, "alice@x.com", "pw123456", models.RoleUser, true)

	c, rec := jsonRequest(t, e, http.MethodPut, "/users/"+alice.UID.String(), map[string]any{
		"first_name": "Alice",
		"username":   "alice_w",
	})
	c.SetParamNames("uid")
	c.SetParamValues(alice.UID.String())
	setCurrentUser(c, alice)

	require.NoError(t, h.UpdateUser(c))
	require.Equal(t, http.StatusAccepted, rec.Code)

	saved, err := h.Users.GetByUID(context.Background(), alice.UID)
	require.NoError(t, err)
	require.Equal(t, "Alice", saved.FirstName)
	require.Equal(t, "alice_w", saved.Username)
	require.Equal(t, "alice@x.com", saved.Email)
}

func TestListUsersRoleFilter(t *testing.T) {
	h := newUserFixture(t)
	e := newEcho()

	createTestUser(t, h.Users.DB, "a@x.com", "pw123456", models.RoleUser, true)
	createTestUser(t, h.Users.DB, "b@x.com", "pw123456", models.RoleEmployer, true)
	createTestUser(t, h.Users.DB, "c@x.com", "pw123456", models.RoleEmployer, true)

	req := httptest.NewRequest(http.MethodGet, "/users?role=EMPLOYER", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.ListUsers(c))

	var resp struct {
		Data []models.User `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	require.Equal(t, 2, resp.Meta.Total)

	req = httptest.NewRequest(http.MethodGet, "/users?role=WIZARD", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	require.ErrorIs(t, h.ListUsers(c), apperrors.ErrInvalidRole)
}

func TestDeleteUser(t *testing.T) {
	h := newUserFixture(t)
	e := newEcho()

	alice := createTestUser(t, h.Users.DB, "alice@x.com", "pw123456", models.RoleUser, true)

	req := httptest.NewRequest(http.MethodDelete, "/users/"+alice.UID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("uid")
	c.SetParamValues(alice.UID.String())

	require.NoError(t, h.DeleteUser(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	gone, err := h.Users.GetByUID(context.Background(), alice.UID)
	require.NoError(t, err)
	require.Nil(t, gone)

	require.ErrorIs(t, h.DeleteUser(c), apperrors.ErrUserNotFound)
}

package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, err error) (int, errorBody) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler()(err, c)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestErrorHandlerKnownErrors(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
		code   string
	}{
		{ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
		{ErrTokenExpired, http.StatusBadRequest, "token_expired"},
		{ErrAccessTokenRequired, http.StatusUnauthorized, "access_token_required"},
		{ErrRefreshTokenRequired, http.StatusUnauthorized, "refresh_token_required"},
		{ErrUserExists, http.StatusBadRequest, "user_exists"},
		{ErrUserNotFound, http.StatusNotFound, "user_not_found"},
		{ErrInvalidLogin, http.StatusBadRequest, "invalid_login_details"},
		{ErrInvalidID, http.StatusBadRequest, "invalid_uid"},
		{ErrNotAuthorized, http.StatusUnauthorized, "unauthorized_user"},
		{ErrInvalidRole, http.StatusForbidden, "invalid_role"},
	}

	for _, tc := range cases {
		status, body := render(t, tc.err)
		require.Equal(t, tc.status, status, tc.code)
		require.Equal(t, tc.code, body.ErrorCode)
		require.Equal(t, tc.err.Message, body.Message)
	}
}

func TestErrorHandlerNotVerified(t *testing.T) {
	status, body := render(t, &NotVerified{})
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "account_not_verified", body.ErrorCode)
	require.Equal(t, "Account not verified.", body.Message)

	status, body = render(t, &NotVerified{Resent: true})
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "account_not_verified", body.ErrorCode)
	require.Equal(t, "Account not verified. A new verification link has been sent.", body.Message)
	require.Contains(t, body.Resolution, "new verification link")
}

func TestErrorHandlerEchoHTTPError(t *testing.T) {
	status, body := render(t, echo.NewHTTPError(http.StatusConflict, "already applied"))
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "request_error", body.ErrorCode)
	require.Equal(t, "already applied", body.Message)
}

func TestErrorHandlerUnknownError(t *testing.T) {
	status, body := render(t, errors.New("db connection reset"))
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "server_error", body.ErrorCode)
	require.Equal(t, "Ooops!............something went wrong", body.Message)
}

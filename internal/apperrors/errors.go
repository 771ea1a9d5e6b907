package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobboard/internal/logging"
	"github.com/jobdeck/jobboard/internal/models"
)

// Error is a fixed client-facing failure: one value per condition, each with
// its status code and machine-readable error_code.
type Error struct {
	Code       string
	Status     int
	Message    string
	Resolution string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrInvalidToken = &Error{
		Code:       "invalid_token",
		Status:     http.StatusUnauthorized,
		Message:    "Invalid or expired token",
		Resolution: "Please generate a new token or login again",
	}
	ErrTokenExpired = &Error{
		Code:       "token_expired",
		Status:     http.StatusBadRequest,
		Message:    "Token has expired or you've been logged out",
		Resolution: "Please generate a new token or login again",
	}
	ErrAccessTokenRequired = &Error{
		Code:       "access_token_required",
		Status:     http.StatusUnauthorized,
		Message:    "Please provide a valid access token",
		Resolution: "Please generate an access token",
	}
	ErrRefreshTokenRequired = &Error{
		Code:       "refresh_token_required",
		Status:     http.StatusUnauthorized,
		Message:    "Please provide a valid refresh token",
		Resolution: "Please get a new refresh token",
	}
	ErrUnauthorizedRole = &Error{
		Code:       "unauthorized_user_role",
		Status:     http.StatusUnauthorized,
		Message:    "Sorry, you can not proceed!",
		Resolution: "Login as the authorized user to perform this action",
	}
	ErrUserExists = &Error{
		Code:       "user_exists",
		Status:     http.StatusBadRequest,
		Message:    "User already exists!",
		Resolution: "Signup with a different email or proceed to login",
	}
	ErrUserNotFound = &Error{
		Code:       "user_not_found",
		Status:     http.StatusNotFound,
		Message:    "User not found",
		Resolution: "The user does not exist or has been removed",
	}
	ErrInvalidLogin = &Error{
		Code:       "invalid_login_details",
		Status:     http.StatusBadRequest,
		Message:    "Invalid login credentials",
		Resolution: "Please provide a valid email or password",
	}
	ErrInvalidID = &Error{
		Code:       "invalid_uid",
		Status:     http.StatusBadRequest,
		Message:    "This is not a valid UUID number!",
		Resolution: "Please provide a valid id",
	}
	ErrNotAuthorized = &Error{
		Code:    "unauthorized_user",
		Status:  http.StatusUnauthorized,
		Message: "You do not have the permission to continue!",
	}
	ErrJobNotFound = &Error{
		Code:    "job_not_found",
		Status:  http.StatusNotFound,
		Message: "Job not found",
	}
	ErrApplicationNotFound = &Error{
		Code:    "application_not_found",
		Status:  http.StatusNotFound,
		Message: "Application not found",
	}
	ErrInvalidRole = &Error{
		Code:       "invalid_role",
		Status:     http.StatusForbidden,
		Message:    "Invalid role, please input the correct role",
		Resolution: "role must be 'EMPLOYER', 'USER' or 'ADMIN'",
	}
	ErrServer = &Error{
		Code:    "server_error",
		Status:  http.StatusInternalServerError,
		Message: "Ooops!............something went wrong",
	}
)

// NotVerified carries the unverified user so the boundary can report whether
// a fresh verification email went out.
type NotVerified struct {
	User   *models.User
	Resent bool
}

func (e *NotVerified) Error() string { return "account has not been verified" }

type errorBody struct {
	Message    string `json:"message"`
	Resolution string `json:"resolution,omitempty"`
	ErrorCode  string `json:"error_code"`
}

// ErrorHandler converts any error escaping a handler into the fixed JSON
// error body. Unknown errors become a generic 500.
func ErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *Error
		if errors.As(err, &apiErr) {
			_ = c.JSON(apiErr.Status, errorBody{
				Message:    apiErr.Message,
				Resolution: apiErr.Resolution,
				ErrorCode:  apiErr.Code,
			})
			return
		}

		var nv *NotVerified
		if errors.As(err, &nv) {
			body := errorBody{
				Message:    "Account not verified.",
				Resolution: "Check your email for the verification link.",
				ErrorCode:  "account_not_verified",
			}
			if nv.Resent {
				body.Message = "Account not verified. A new verification link has been sent."
				body.Resolution = "Check your email for the new verification link."
			}
			_ = c.JSON(http.StatusForbidden, body)
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, errorBody{
				Message:   fmt.Sprint(he.Message),
				ErrorCode: "request_error",
			})
			return
		}

		logging.FromContext(c.Request().Context()).Error("unhandled_error", "error", err)
		_ = c.JSON(ErrServer.Status, errorBody{
			Message:   ErrServer.Message,
			ErrorCode: ErrServer.Code,
		})
	}
}

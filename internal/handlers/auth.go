package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobboard/internal/apperrors"
	"github.com/jobdeck/jobboard/internal/hash"
	"github.com/jobdeck/jobboard/internal/logging"
	authmw "github.com/jobdeck/jobboard/internal/middleware/auth"
	"github.com/jobdeck/jobboard/internal/models"
	"github.com/jobdeck/jobboard/internal/repo"
	"github.com/jobdeck/jobboard/internal/token"
)

type AuthHandler struct {
	Users         *repo.UserRepo
	Tokens        *token.Service
	Verifications authmw.VerificationStore
}

type signupRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email_address" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	PhoneNumber string `json:"phone_number"`
	Gender      string `json:"gender"`
	Role        string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email_address" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_signup")

	var req signupRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("signup_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		l.Warn("signup_failed", "status", 403, "reason", "invalid_role")
		return apperrors.ErrInvalidRole
	}

	existing, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		l.Error("signup_failed", "status", 500, "reason", "db_error", "error", err)
		return err
	}
	if existing != nil {
		l.Warn("signup_failed", "status", 400, "reason", "user_exists")
		return apperrors.ErrUserExists
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("signup_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return err
	}

	user := models.User{
		Username:       req.Username,
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		HashedPassword: pwHash,
		PhoneNumber:    req.PhoneNumber,
		Gender:         req.Gender,
		IsVerified:     false,
		Role:           role,
	}
	if err := h.Users.Create(ctx, &user); err != nil {
		l.Error("signup_failed", "status", 500, "reason", "db_error", "error", err)
		return err
	}

	l.Info("signup_success", "status", 201, "uid", user.UID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Account has been created successfuly! Check your email to verify the account",
		"user":    user,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "db_error", "error", err)
		return err
	}
	// unknown email and wrong password collapse into one error so the
	// response never reveals whether the email exists
	if user == nil || !hash.CheckPassword(user.HashedPassword, req.Password) {
		l.Warn("login_failed", "status", 400, "reason", "invalid email or password")
		return apperrors.ErrInvalidLogin
	}

	claims := token.UserClaims{
		UserUID: user.UID.String(),
		Email:   user.Email,
		Role:    user.Role,
	}

	accessToken, err := h.Tokens.Issue(claims, token.AccessTTL, false)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot create token", "error", err)
		return err
	}
	refreshToken, err := h.Tokens.Issue(claims, token.RefreshTTL, true)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot create token", "error", err)
		return err
	}

	l.Info("login_successful", "uid", user.UID)
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "User logged in successfully",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          user,
	})
}

// Refresh runs behind RequireRefresh; the guard already rejected expired,
// revoked and non-refresh tokens.
func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	claims := authmw.CurrentClaims(c)
	if claims == nil {
		return apperrors.ErrRefreshTokenRequired
	}

	accessToken, err := h.Tokens.Issue(claims.User, token.AccessTTL, false)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "reason", "cannot create token", "error", err)
		return err
	}

	l.Info("refresh_successful")
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": accessToken,
	})
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the presented access token and, when supplied, the paired
// refresh token. Each jti stays blocklisted until the token would have
// expired on its own.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	claims := authmw.CurrentClaims(c)
	if claims == nil {
		return apperrors.ErrAccessTokenRequired
	}

	if err := h.Tokens.Revoke(ctx, claims); err != nil {
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke access token", "error", err)
		return err
	}

	var req logoutRequest
	if err := c.Bind(&req); err == nil && req.RefreshToken != "" {
		refreshClaims, err := h.Tokens.Decode(req.RefreshToken)
		if err != nil || !refreshClaims.Refresh {
			l.Warn("logout_partial", "reason", "invalid refresh token supplied")
		} else if err := h.Tokens.Revoke(ctx, refreshClaims); err != nil {
			l.Error("logout_failed", "status", 500, "reason", "cannot revoke refresh token", "error", err)
			return err
		}
	}

	l.Info("successful_logout")
	return c.JSON(http.StatusOK, echo.Map{
		"message": "logged out",
	})
}

// VerifyEmail consumes the opaque link token. Idempotent: a valid token for
// an already-verified user still reports success.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_verify_email")

	email, err := h.Tokens.DecodeVerification(c.Param("token"))
	if err != nil {
		// no user enumeration in the failure message
		l.Warn("verify_failed", "status", 401, "reason", "invalid verification token")
		return apperrors.ErrInvalidToken
	}

	user, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		l.Error("verify_failed", "status", 500, "reason", "db_error", "error", err)
		return err
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}

	if !user.IsVerified {
		if err := h.Users.MarkVerified(ctx, user.UID); err != nil {
			l.Error("verify_failed", "status", 500, "reason", "db_error", "error", err)
			return err
		}
	}
	if err := h.Verifications.Delete(ctx, email); err != nil {
		l.Error("verify_cleanup_failed", "error", err)
	}

	l.Info("verify_success", "uid", user.UID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Account verified successfully",
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	user := authmw.CurrentUser(c)
	if user == nil {
		return apperrors.ErrAccessTokenRequired
	}
	return c.JSON(http.StatusOK, user)
}

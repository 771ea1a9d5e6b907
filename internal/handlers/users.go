package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobboard/internal/apperrors"
	"github.com/jobdeck/jobboard/internal/logging"
	authmw "github.com/jobdeck/jobboard/internal/middleware/auth"
	"github.com/jobdeck/jobboard/internal/models"
	"github.com/jobdeck/jobboard/internal/repo"
	"github.com/jobdeck/jobboard/internal/util"
)

type UserHandler struct {
	Users *repo.UserRepo
}

func parseUID(c echo.Context) (uuid.UUID, error) {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidID
	}
	return uid, nil
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	role := c.QueryParam("role")
	if role != "" && !models.ValidRole(role) {
		return apperrors.ErrInvalidRole
	}

	users, total, err := h.Users.List(ctx, role, offset, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": users,
		"meta": echo.Map{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

func (h *UserHandler) GetUser(c echo.Context) error {
	ctx := c.Request().Context()

	uid, err := parseUID(c)
	if err != nil {
		return err
	}

	current := authmw.CurrentUser(c)
	if current == nil {
		return apperrors.ErrAccessTokenRequired
	}
	if current.UID != uid && current.Role != models.RoleAdmin {
		return apperrors.ErrNotAuthorized
	}

	user, err := h.Users.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}
	return c.JSON(http.StatusOK, user)
}

type updateUserRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number"`
	Gender      string `json:"gender"`
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_update")

	uid, err := parseUID(c)
	if err != nil {
		return err
	}

	current := authmw.CurrentUser(c)
	if current == nil {
		return apperrors.ErrAccessTokenRequired
	}
	if current.UID != uid && current.Role != models.RoleAdmin {
		return apperrors.ErrNotAuthorized
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Users.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Username != "" {
		user.Username = req.Username
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Gender != "" {
		user.Gender = req.Gender
	}

	if err := h.Users.Save(ctx, user); err != nil {
		l.Error("user_update_failed", "status", 500, "error", err)
		return err
	}

	l.Info("user_updated", "uid", user.UID)
	return c.JSON(http.StatusAccepted, user)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_delete")

	uid, err := parseUID(c)
	if err != nil {
		return err
	}

	user, err := h.Users.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}

	if err := h.Users.Delete(ctx, uid); err != nil {
		l.Error("user_delete_failed", "status", 500, "error", err)
		return err
	}

	l.Info("user_deleted", "uid", uid)
	return c.NoContent(http.StatusNoContent)
}

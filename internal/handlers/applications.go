package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobboard/internal/apperrors"
	"github.com/jobdeck/jobboard/internal/logging"
	authmw "github.com/jobdeck/jobboard/internal/middleware/auth"
	"github.com/jobdeck/jobboard/internal/models"
	"github.com/jobdeck/jobboard/internal/repo"
	"github.com/jobdeck/jobboard/internal/util"
)

type ApplicationHandler struct {
	Applications *repo.ApplicationRepo
	Jobs         *repo.JobRepo
}

type applicationRequest struct {
	CoverLetter string `json:"cover_letter" validate:"required"`
}

func (h *ApplicationHandler) CreateApplication(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "application_create")

	current := authmw.CurrentUser(c)
	if current == nil {
		return apperrors.ErrAccessTokenRequired
	}

	jobUID, err := parseUID(c)
	if err != nil {
		return err
	}

	var req applicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	job, err := h.Jobs.GetByUID(ctx, jobUID)
	if err != nil {
		return err
	}
	if job == nil {
		return apperrors.ErrJobNotFound
	}

	taken, err := h.Applications.Exists(ctx, jobUID, current.UID)
	if err != nil {
		return err
	}
	if taken {
		return echo.NewHTTPError(http.StatusConflict, "you already applied to this job")
	}

	app := models.Application{
		JobUID:      jobUID,
		UserUID:     current.UID,
		CoverLetter: req.CoverLetter,
	}
	if err := h.Applications.Create(ctx, &app); err != nil {
		l.Error("application_create_failed", "status", 500, "error", err)
		return err
	}

	l.Info("application_created", "uid", app.UID, "job", jobUID, "user", current.UID)
	return c.JSON(http.StatusCreated, app)
}

// ListApplications is the admin view over every application.
func (h *ApplicationHandler) ListApplications(c echo.Context) error {
	ctx := c.Request().Context()

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	apps, total, err := h.Applications.List(ctx, offset, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": apps,
		"meta": echo.Map{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

func (h *ApplicationHandler) ListMyApplications(c echo.Context) error {
	ctx := c.Request().Context()

	current := authmw.CurrentUser(c)
	if current == nil {
		return apperrors.ErrAccessTokenRequired
	}

	apps, err := h.Applications.ListByUser(ctx, current.UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apps)
}

// ListJobApplications shows a job's applications to its owner (or an admin).
func (h *ApplicationHandler) ListJobApplications(c echo.Context) error {
	ctx := c.Request().Context()

	current := authmw.CurrentUser(c)
	if current == nil {
		return apperrors.ErrAccessTokenRequired
	}

	jobUID, err := parseUID(c)
	if err != nil {
		return err
	}

	job, err := h.Jobs.GetByUID(ctx, jobUID)
	if err != nil {
		return err
	}
	if job == nil {
		return apperrors.ErrJobNotFound
	}
	if job.EmployerUID != current.UID && current.Role != models.RoleAdmin {
		return apperrors.ErrNotAuthorized
	}

	apps, err := h.Applications.ListByJob(ctx, jobUID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) GetApplication(c echo.Context) error {
	ctx := c.Request().Context()

	current := authmw.CurrentUser(c)
	if current == nil {
		return apperrors.ErrAccessTokenRequired
	}

	uid, err := parseUID(c)
	if err != nil {
		return err
	}

	app, err := h.Applications.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	if app == nil {
		return apperrors.ErrApplicationNotFound
	}
	if app.UserUID != current.UID && current.Role != models.RoleAdmin {
		return apperrors.ErrNotAuthorized
	}
	return c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) UpdateApplication(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "application_update")

	current := authmw.CurrentUser(c)
	if current == nil {
		return apperrors.ErrAccessTokenRequired
	}

	uid, err := parseUID(c)
	if err != nil {
		return err
	}

	app, err := h.Applications.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	if app == nil {
		return apperrors.ErrApplicationNotFound
	}
	if app.UserUID != current.UID {
		return apperrors.ErrNotAuthorized
	}

	var req applicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	app.CoverLetter = req.CoverLetter
	if err := h.Applications.Save(ctx, app); err != nil {
		l.Error("application_update_failed", "status", 500, "error", err)
		return err
	}

	l.Info("application_updated", "uid", app.UID)
	return c.JSON(http.StatusAccepted, app)
}

func (h *ApplicationHandler) DeleteApplication(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "application_delete")

	current := authmw.CurrentUser(c)
	if current == nil {
		return apperrors.ErrAccessTokenRequired
	}

	uid, err := parseUID(c)
	if err != nil {
		return err
	}

	app, err := h.Applications.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	if app == nil {
		return apperrors.ErrApplicationNotFound
	}
	if app.UserUID != current.UID {
		return apperrors.ErrNotAuthorized
	}

	if err := h.Applications.Delete(ctx, uid); err != nil {
		l.Error("application_delete_failed", "status", 500, "error", err)
		return err
	}

	l.Info("application_deleted", "uid", uid)
	return c.NoContent(http.StatusNoContent)
}

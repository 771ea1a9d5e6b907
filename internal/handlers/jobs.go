package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobboard/internal/apperrors"
	"github.com/jobdeck/jobboard/internal/logging"
	authmw "github.com/jobdeck/jobboard/internal/middleware/auth"
	"github.com/jobdeck/jobboard/internal/models"
	"github.com/jobdeck/jobboard/internal/repo"
	"github.com/jobdeck/jobboard/internal/util"
)

// JobIndex mirrors job writes into the search backend. Failures are logged,
// never surfaced: the database row is the source of truth.
type JobIndex interface {
	IndexJob(ctx context.Context, job *models.Job) error
	DeleteJob(ctx context.Context, uid string) error
	SearchJobs(ctx context.Context, query string, from, size int) (int64, []models.Job, error)
}

type JobHandler struct {
	Jobs  *repo.JobRepo
	Index JobIndex
}

type jobRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	JobType     string `json:"job_type"`
	WorkMode    string `json:"work_mode"`
	IsActive    bool   `json:"is_active"`
}

func (h *JobHandler) indexJob(c echo.Context, job *models.Job) {
	if h.Index == nil {
		return
	}
	ctx := c.Request().Context()
	if err := h.Index.IndexJob(ctx, job); err != nil {
		logging.FromContext(ctx).Error("job_index_failed", "uid", job.UID, "error", err)
	}
}

func (h *JobHandler) CreateJob(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job_create")

	employer := authmw.CurrentUser(c)
	if employer == nil {
		return apperrors.ErrAccessTokenRequired
	}

	var req jobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	job := models.Job{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Salary:      req.Salary,
		JobType:     req.JobType,
		WorkMode:    req.WorkMode,
		IsActive:    req.IsActive,
		EmployerUID: employer.UID,
	}
	if job.JobType == "" {
		job.JobType = models.JobTypeFullTime
	}
	if job.WorkMode == "" {
		job.WorkMode = models.WorkModeOnSite
	}

	if err := h.Jobs.Create(ctx, &job); err != nil {
		l.Error("job_create_failed", "status", 500, "error", err)
		return err
	}

	h.indexJob(c, &job)

	l.Info("job_created", "uid", job.UID, "employer", employer.UID)
	return c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) GetJob(c echo.Context) error {
	ctx := c.Request().Context()

	uid, err := parseUID(c)
	if err != nil {
		return err
	}

	job, err := h.Jobs.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	if job == nil {
		return apperrors.ErrJobNotFound
	}
	return c.JSON(http.StatusOK, job)
}

func (h *JobHandler) ListJobs(c echo.Context) error {
	ctx := c.Request().Context()

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	jobs, total, err := h.Jobs.List(ctx, offset, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": jobs,
		"meta": echo.Map{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

func (h *JobHandler) UpdateJob(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job_update")

	uid, err := parseUID(c)
	if err != nil {
		return err
	}

	current := authmw.CurrentUser(c)
	if current == nil {
		return apperrors.ErrAccessTokenRequired
	}

	job, err := h.Jobs.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	if job == nil {
		return apperrors.ErrJobNotFound
	}
	if job.EmployerUID != current.UID && current.Role != models.RoleAdmin {
		return apperrors.ErrNotAuthorized
	}

	var req jobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	job.Title = req.Title
	job.Description = req.Description
	job.Location = req.Location
	job.Salary = req.Salary
	if req.JobType != "" {
		job.JobType = req.JobType
	}
	if req.WorkMode != "" {
		job.WorkMode = req.WorkMode
	}
	job.IsActive = req.IsActive

	if err := h.Jobs.Save(ctx, job); err != nil {
		l.Error("job_update_failed", "status", 500, "error", err)
		return err
	}

	h.indexJob(c, job)

	l.Info("job_updated", "uid", job.UID)
	return c.JSON(http.StatusAccepted, job)
}

func (h *JobHandler) DeleteJob(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job_delete")

	uid, err := parseUID(c)
	if err != nil {
		return err
	}

	current := authmw.CurrentUser(c)
	if current == nil {
		return apperrors.ErrAccessTokenRequired
	}

	job, err := h.Jobs.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	if job == nil {
		return apperrors.ErrJobNotFound
	}
	if job.EmployerUID != current.UID && current.Role != models.RoleAdmin {
		return apperrors.ErrNotAuthorized
	}

	if err := h.Jobs.Delete(ctx, uid); err != nil {
		l.Error("job_delete_failed", "status", 500, "error", err)
		return err
	}

	if h.Index != nil {
		if err := h.Index.DeleteJob(ctx, uid.String()); err != nil {
			l.Error("job_index_delete_failed", "uid", uid, "error", err)
		}
	}

	l.Info("job_deleted", "uid", uid)
	return c.NoContent(http.StatusNoContent)
}

func (h *JobHandler) SearchJobs(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query error")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	ctx := c.Request().Context()
	total, jobs, err := h.Index.SearchJobs(ctx, q, from, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "jobs": jobs})
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/jobdeck/jobboard/internal/apperrors"
	"github.com/jobdeck/jobboard/internal/models"
	"github.com/jobdeck/jobboard/internal/repo"
)

func newApplicationFixture(t *testing.T) *ApplicationHandler {
	t.Helper()

	db := InitTestDB(t)
	return &ApplicationHandler{
		Applications: repo.NewApplicationRepo(db),
		Jobs:         repo.NewJobRepo(db),
	}
}

func seedJob(t *testing.T, jobs *repo.JobRepo, employer *models.User) *models.Job {
	t.Helper()

	job := &models.Job{Title: "t", Description: "d", EmployerUID: employer.UID}
	require.NoError(t, jobs.Create(context.Background(), job))
	return job
}

func TestCreateApplication(t *testing.T) {
	h := newApplicationFixture(t)
	e := newEcho()

	employer := createTestUser(t, h.Jobs.DB, "boss@x.com", "pw123456", models.RoleEmployer, true)
	seeker := createTestUser(t, h.Jobs.DB, "seeker@x.com", "pw123456", models.RoleUser, true)
	job := seedJob(t, h.Jobs, employer)

	c, rec := jsonRequest(t, e, http.MethodPost, "/jobs/"+job.UID.String()+"/applications", map[string]any{
		"cover_letter": "please hire me",
	})
	c.SetParamNames("uid")
	c.SetParamValues(job.UID.String())
	setCurrentUser(c, seeker)

	require.NoError(t, h.CreateApplication(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var app models.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &app))
	require.Equal(t, job.UID, app.JobUID)
	require.Equal(t, seeker.UID, app.UserUID)
}

func TestCreateApplicationJobMissing(t *testing.T) {
	h := newApplicationFixture(t)
	e := newEcho()

	seeker := createTestUser(t, h.Jobs.DB, "seeker@x.com", "pw123456", models.RoleUser, true)

	missing := uuid.NewString()
	c, _ := jsonRequest(t, e, http.MethodPost, "/jobs/"+missing+"/applications", map[string]any{
		"cover_letter": "please hire me",
	})
	c.SetParamNames("uid")
	c.SetParamValues(missing)
	setCurrentUser(c, seeker)

	require.ErrorIs(t, h.CreateApplication(c), apperrors.ErrJobNotFound)
}

func TestCreateApplicationTwiceConflicts(t *testing.T) {
	h := newApplicationFixture(t)
	e := newEcho()

	employer := createTestUser(t, h.Jobs.DB, "boss@x.com", "pw123456", models.RoleEmployer, true)
	seeker := createTestUser(t, h.Jobs.DB, "seeker@x.com", "pw123456", models.RoleUser, true)
	job := seedJob(t, h.Jobs, employer)

	apply := func() error {
		c, _ := jsonRequest(t, e, http.MethodPost, "/jobs/"+job.UID.String()+"/applications", map[string]any{
			"cover_letter": "please hire me",
		})
		c.SetParamNames("uid")
		c.SetParamValues(job.UID.String())
		setCurrentUser(c, seeker)
		return h.CreateApplication(c)
	}

	require.NoError(t, apply())

	err := apply()
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestApplicationOwnership(t *testing.T) {
	h := newApplicationFixture(t)
	e := newEcho()

	employer := createTestUser(t, h.Jobs.DB, "boss@x.com", "pw123456", models.RoleEmployer, true)
	seeker := createTestUser(t, h.Jobs.DB, "seeker@x.com", "pw123456", models.RoleUser, true)
	stranger := createTestUser(t, h.Jobs.DB, "stranger@x.com", "pw123456", models.RoleUser, true)
	job := seedJob(t, h.Jobs, employer)

	app := &models.Application{JobUID: job.UID, UserUID: seeker.UID, CoverLetter: "v1"}
	require.NoError(t, h.Applications.Create(context.Background(), app))

	// another seeker cannot read, edit or delete it
	req := httptest.NewRequest(http.MethodGet, "/applications/"+app.UID.String(), nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("uid")
	c.SetParamValues(app.UID.String())
	setCurrentUser(c, stranger)
	require.ErrorIs(t, h.GetApplication(c), apperrors.ErrNotAuthorized)

	c, _ = jsonRequest(t, e, http.MethodPut, "/applications/"+app.UID.String(), map[string]any{"cover_letter": "v2"})
	c.SetParamNames("uid")
	c.SetParamValues(app.UID.String())
	setCurrentUser(c, stranger)
	require.ErrorIs(t, h.UpdateApplication(c), apperrors.ErrNotAuthorized)

	// the applicant can update their own cover letter
	c, rec := jsonRequest(t, e, http.MethodPut, "/applications/"+app.UID.String(), map[string]any{"cover_letter": "v2"})
	c.SetParamNames("uid")
	c.SetParamValues(app.UID.String())
	setCurrentUser(c, seeker)
	require.NoError(t, h.UpdateApplication(c))
	require.Equal(t, http.StatusAccepted, rec.Code)

	updated, err := h.Applications.GetByUID(context.Background(), app.UID)
	require.NoError(t, err)
	require.Equal(t, "v2", updated.CoverLetter)

	// an admin can read any application
	admin := createTestUser(t, h.Jobs.DB, "admin@x.com", "pw123456", models.RoleAdmin, true)
	req = httptest.NewRequest(http.MethodGet, "/applications/"+app.UID.String(), nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("uid")
	c.SetParamValues(app.UID.String())
	setCurrentUser(c, admin)
	require.NoError(t, h.GetApplication(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestListJobApplicationsOwnerOnly(t *testing.T) {
	h := newApplicationFixture(t)
	e := newEcho()

	employer := createTestUser(t, h.Jobs.DB, "boss@x.com", "pw123456", models.RoleEmployer, true)
	seeker := createTestUser(t, h.Jobs.DB, "seeker@x.com", "pw123456", models.RoleUser, true)
	job := seedJob(t, h.Jobs, employer)

	app := &models.Application{JobUID: job.UID, UserUID: seeker.UID, CoverLetter: "v1"}
	require.NoError(t, h.Applications.Create(context.Background(), app))

	req := httptest.NewRequest(http.MethodGet, "/jobs/"+job.UID.String()+"/applications", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("uid")
	c.SetParamValues(job.UID.String())
	setCurrentUser(c, seeker)
	require.ErrorIs(t, h.ListJobApplications(c), apperrors.ErrNotAuthorized)

	req = httptest.NewRequest(http.MethodGet, "/jobs/"+job.UID.String()+"/applications", nil)
	rec := httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("uid")
	c.SetParamValues(job.UID.String())
	setCurrentUser(c, employer)
	require.NoError(t, h.ListJobApplications(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var apps []models.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apps))
	require.Len(t, apps, 1)
}

func TestDeleteApplication(t *testing.T) {
	h := newApplicationFixture(t)
	e := newEcho()

	employer := createTestUser(t, h.Jobs.DB, "boss@x.com", "pw123456", models.RoleEmployer, true)
	seeker := createTestUser(t, h.Jobs.DB, "seeker@x.com", "pw123456", models.RoleUser, true)
	job := seedJob(t, h.Jobs, employer)

	app := &models.Application{JobUID: job.UID, UserUID: seeker.UID, CoverLetter: "v1"}
	require.NoError(t, h.Applications.Create(context.Background(), app))

	req := httptest.NewRequest(http.MethodDelete, "/applications/"+app.UID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("uid")
	c.SetParamValues(app.UID.String())
	setCurrentUser(c, seeker)
	require.NoError(t, h.DeleteApplication(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	gone, err := h.Applications.GetByUID(context.Background(), app.UID)
	require.NoError(t, err)
	require.Nil(t, gone)
}

package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobboard/internal/handlers"
	authmw "github.com/jobdeck/jobboard/internal/middleware/auth"
	"github.com/jobdeck/jobboard/internal/models"
)

type Deps struct {
	Guard              *authmw.Guard
	AuthHandler        *handlers.AuthHandler
	UserHandler        *handlers.UserHandler
	JobHandler         *handlers.JobHandler
	ApplicationHandler *handlers.ApplicationHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1.0")

	v1.POST("/signup", d.AuthHandler.Signup)
	v1.POST("/login", d.AuthHandler.Login)
	v1.GET("/refresh_token", d.AuthHandler.Refresh, d.Guard.RequireRefresh)
	v1.GET("/logout", d.AuthHandler.Logout, d.Guard.RequireAccess)
	v1.GET("/me", d.AuthHandler.Me, d.Guard.RequireAccess)
	v1.GET("/auth/verify_email/:token", d.AuthHandler.VerifyEmail)

	users := v1.Group("/users", d.Guard.RequireAccess)
	users.GET("", d.UserHandler.ListUsers, d.Guard.RequireRoles(models.RoleAdmin))
	users.GET("/:uid", d.UserHandler.GetUser)
	users.PUT("/:uid", d.UserHandler.UpdateUser)
	users.DELETE("/:uid", d.UserHandler.DeleteUser, d.Guard.RequireRoles(models.RoleAdmin))

	v1.GET("/jobs", d.JobHandler.ListJobs)
	v1.GET("/jobs/search", d.JobHandler.SearchJobs)
	v1.GET("/jobs/:uid", d.JobHandler.GetJob)
	v1.POST("/jobs", d.JobHandler.CreateJob,
		d.Guard.RequireAccess,
		d.Guard.RequireRoles(models.RoleEmployer, models.RoleAdmin),
		d.Guard.RequireVerified)
	v1.PUT("/jobs/:uid", d.JobHandler.UpdateJob, d.Guard.RequireAccess)
	v1.DELETE("/jobs/:uid", d.JobHandler.DeleteJob, d.Guard.RequireAccess)

	v1.POST("/jobs/:uid/applications", d.ApplicationHandler.CreateApplication,
		d.Guard.RequireAccess,
		d.Guard.RequireRoles(models.RoleUser),
		d.Guard.RequireVerified)
	v1.GET("/jobs/:uid/applications", d.ApplicationHandler.ListJobApplications, d.Guard.RequireAccess)

	apps := v1.Group("/applications", d.Guard.RequireAccess)
	apps.GET("", d.ApplicationHandler.ListApplications, d.Guard.RequireRoles(models.RoleAdmin))
	apps.GET("/list", d.ApplicationHandler.ListMyApplications)
	apps.GET("/:uid", d.ApplicationHandler.GetApplication)
	apps.PUT("/:uid", d.ApplicationHandler.UpdateApplication)
	apps.DELETE("/:uid", d.ApplicationHandler.DeleteApplication)
}

package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/focusflow/api/handler"
)

type Handlers struct {
	Task     *apiHandler.TaskHandler
	Profile  *apiHandler.ProfileHandler
	Progress *apiHandler.ProgressHandler
	Backup   *apiHandler.BackupHandler
	Health   *apiHandler.HealthHandler
	// Metrics is optional; /metrics is only routed when set.
	Metrics fasthttp.RequestHandler
	// Debug exposes the force-unlock and forced-rollover routes.
	Debug bool
}

func New(handlers Handlers) *router.Router {
	r := router.New()
	r.SaveMatchedRoutePath = true

	r.GET("/health", handlers.Health.Check)
	if handlers.Metrics != nil {
		r.GET("/metrics", handlers.Metrics)
	}

	r.GET("/api/v1/tasks", handlers.Task.ListTasks)
	r.POST("/api/v1/tasks", handlers.Task.CreateTask)
	r.POST("/api/v1/tasks/{id}/check", handlers.Task.ToggleCheck)
	r.POST("/api/v1/tasks/{id}/timer", handlers.Task.ToggleTimer)
	r.DELETE("/api/v1/tasks/{id}", handlers.Task.DeleteTask)

	r.GET("/api/v1/profile", handlers.Profile.GetProfile)
	r.PUT("/api/v1/profile", handlers.Profile.UpdateProfile)

	r.POST("/api/v1/heartbeat", handlers.Progress.Heartbeat)
	r.GET("/api/v1/stats", handlers.Progress.Stats)
	r.GET("/api/v1/achievements", handlers.Progress.Achievements)
	r.POST("/api/v1/achievements/next", handlers.Progress.NextUnlock)

	r.GET("/api/v1/backup", handlers.Backup.Export)
	r.POST("/api/v1/backup", handlers.Backup.Import)

	if handlers.Debug {
		r.POST("/api/v1/debug/unlock-next", handlers.Progress.UnlockNext)
		r.POST("/api/v1/debug/new-day", handlers.Progress.NewDay)
	}

	return r
}

package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jakechorley/weekend-shifts/internal/config"
	"github.com/jakechorley/weekend-shifts/pkg/db"
	"github.com/jakechorley/weekend-shifts/pkg/utils/logging"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	Store  db.Database
	Cfg    *config.Config
	Logger *zap.Logger

	// Now returns the current time (defaults to time.Now)
	Now func() time.Time

	// allocateMu serializes allocation runs
	allocateMu sync.Mutex
}

// NewHandler creates a handler over the given store
func NewHandler(store db.Database, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  store,
		Cfg:    cfg,
		Logger: logger,
		Now:    time.Now,
	}
}

// NewRouter builds the gin engine with every API route registered
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinMiddleware(h.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/shifts", h.ListShifts)

		api.GET("/employees", h.ListEmployees)
		api.POST("/employees", h.AddEmployee)
		api.DELETE("/employees/:id", h.RemoveEmployee)

		api.GET("/preferences", h.ListPreferences)
		api.PUT("/preferences/:id", h.SubmitPreferences)

		api.GET("/settings", h.GetSettings)
		api.POST("/settings/deadline", h.SetDeadline)
		api.POST("/settings/lock", h.LockPreferences)
		api.POST("/settings/unlock", h.UnlockPreferences)

		api.POST("/allocate", h.Allocate)
		api.GET("/assignments", h.ViewAssignments)
	}

	return r
}

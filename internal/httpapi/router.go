package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/timetable/engine/internal/config"
	"github.com/timetable/engine/internal/logging"
	"github.com/timetable/engine/internal/solve"
)

// NewRouter builds the gin engine: recovery, request logging, then the
// three routes the external interface names.
func NewRouter(cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.GinMiddleware(logger))

	metrics := NewMetrics()
	defaults := solve.Options{
		TimeLimit: cfg.Solver.DefaultTimeLimit,
		Workers:   cfg.Solver.DefaultWorkers,
	}
	handler := NewSolveHandler(metrics, logger, defaults, 10*time.Minute)

	r.GET("/health", handler.Health)
	r.GET("/metrics", handler.Metrics)

	api := r.Group("/api")
	api.POST("/solve", handler.Solve)

	return r
}

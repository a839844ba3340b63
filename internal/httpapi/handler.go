// Package httpapi is the optional HTTP front end over internal/solve: a
// health check, a synchronous solve endpoint, and a Prometheus metrics
// endpoint, wired up with the gin/zap middleware pattern this corpus's
// services use.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/timetable/engine/internal/domain"
	"github.com/timetable/engine/internal/solve"
)

// SolveHandler fields POST /api/solve requests.
type SolveHandler struct {
	metrics    *Metrics
	logger     *zap.Logger
	defaults   solve.Options
	maxTimeout time.Duration
}

// NewSolveHandler constructs a solve handler. defaults supplies the solver
// options used when a request omits them; maxTimeout caps whatever a
// request asks for so one slow request can't starve the server.
func NewSolveHandler(metrics *Metrics, logger *zap.Logger, defaults solve.Options, maxTimeout time.Duration) *SolveHandler {
	return &SolveHandler{metrics: metrics, logger: logger, defaults: defaults, maxTimeout: maxTimeout}
}

// solveRequest is the request body for POST /api/solve: the problem data
// plus optional solver overrides.
type solveRequest struct {
	Problem      domain.ProblemData `json:"problem"`
	TimeLimitMS  int64              `json:"time_limit_ms,omitempty"`
	OptimizeGaps bool               `json:"optimize_gaps,omitempty"`
	Workers      int                `json:"workers,omitempty"`
	Seed         int64              `json:"seed,omitempty"`
}

// solveResponse wraps the outcome: on a feasibility failure, Report carries
// the errors/warnings and Result is omitted.
type solveResponse struct {
	Report *feasibilityPayload `json:"feasibility,omitempty"`
	Result *domain.SolveResult `json:"result,omitempty"`
}

type feasibilityPayload struct {
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Health responds 200 for liveness/readiness probes.
func (h *SolveHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Solve runs a full solve synchronously and returns the decoded schedule,
// or a 422 carrying the feasibility report when the problem is rejected
// before the model is ever built.
func (h *SolveHandler) Solve(c *gin.Context) {
	start := time.Now()

	var req solveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.ObserveSolve("bad_request", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := h.defaults
	if req.TimeLimitMS > 0 {
		opts.TimeLimit = time.Duration(req.TimeLimitMS) * time.Millisecond
	}
	if opts.TimeLimit <= 0 || opts.TimeLimit > h.maxTimeout {
		opts.TimeLimit = h.maxTimeout
	}
	opts.OptimizeGaps = req.OptimizeGaps
	if req.Workers > 0 {
		opts.Workers = req.Workers
	}
	if req.Seed != 0 {
		opts.Seed = req.Seed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), opts.TimeLimit+time.Second)
	defer cancel()

	result := solve.Run(ctx, &req.Problem, opts)
	duration := time.Since(start)

	if !result.Report.OK() {
		h.metrics.ObserveSolve("input_rejected", duration)
		h.logger.Warn("solve rejected at feasibility pre-check",
			zap.Strings("errors", result.Report.Errors),
			zap.Duration("duration", duration))
		c.JSON(http.StatusUnprocessableEntity, solveResponse{
			Report: &feasibilityPayload{Errors: result.Report.Errors, Warnings: result.Report.Warnings},
		})
		return
	}

	h.metrics.ObserveSolve(statusLabel(result.Solve), duration)
	h.logger.Info("solve completed",
		zap.String("status", string(result.Solve.Status)),
		zap.Duration("duration", duration))

	status := http.StatusOK
	if result.Solve.Status == domain.StatusInfeasible {
		status = http.StatusConflict
	}
	c.JSON(status, solveResponse{
		Report: &feasibilityPayload{Warnings: result.Report.Warnings},
		Result: result.Solve,
	})
}

// Metrics serves the Prometheus text-format endpoint.
func (h *SolveHandler) Metrics(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

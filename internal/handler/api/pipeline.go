package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
	"github.com/vaquev01/gmpm-sub001/internal/service/ratelimit"
	"github.com/vaquev01/gmpm-sub001/internal/trust"
	"github.com/vaquev01/gmpm-sub001/internal/usecase"
	"github.com/vaquev01/gmpm-sub001/pkg/cache"
	xhttp "github.com/vaquev01/gmpm-sub001/pkg/http"
	"github.com/vaquev01/gmpm-sub001/pkg/logger"
)

const scoresCacheTTL = 15 * time.Second

// PipelineHandler serves the latest analysis cycle over HTTP. All reads
// hit in-memory state; nothing here blocks on upstream feeds.
type PipelineHandler struct {
	pipeline  *usecase.Pipeline
	respCache cache.Service
	limiter   *ratelimit.Limiter
	log       *logger.Logger
}

func NewPipelineHandler(pipeline *usecase.Pipeline, respCache cache.Service, log *logger.Logger) *PipelineHandler {
	return &PipelineHandler{
		pipeline:  pipeline,
		respCache: respCache,
		limiter:   ratelimit.New(),
		log:       log,
	}
}

// RegisterRoutes implements pkg/http.Handler.
func (h *PipelineHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api", h.rateLimit)
	g.GET("/meso", h.GetMeso)
	g.GET("/micro", h.GetMicro)
	g.GET("/scores", h.GetScores)
	e.GET("/healthz", h.Healthz)
}

// rateLimit throttles per client IP: burst 20, refill 10/s.
func (h *PipelineHandler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !h.limiter.Allow(c.RealIP(), 20, 10) {
			return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
		}
		return next(c)
	}
}

// GetMeso returns the latest meso analysis document.
func (h *PipelineHandler) GetMeso(c echo.Context) error {
	doc := h.pipeline.Meso()
	if doc == nil {
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, "first analysis cycle not finished")
	}
	c.Response().Header().Set("Cache-Control", "max-age=30")
	return xhttp.SuccessResponse(c, doc)
}

type microRequest struct {
	Symbol string `query:"symbol"`
}

// GetMicro returns the latest micro analysis for one symbol, or the full
// set when no symbol is given.
func (h *PipelineHandler) GetMicro(c echo.Context) error {
	var req microRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	if req.Symbol == "" {
		c.Response().Header().Set("Cache-Control", "max-age=30")
		return xhttp.SuccessResponse(c, h.pipeline.Micros())
	}

	doc, ok := h.pipeline.Micro(req.Symbol)
	if !ok {
		return xhttp.NotFoundResponse(c, "symbol not in the current universe: "+req.Symbol)
	}
	c.Response().Header().Set("Cache-Control", "max-age=30")
	return xhttp.SuccessResponse(c, doc)
}

type scoresRequest struct {
	Mode string `query:"mode" default:"balanced" validate:"oneof=conservative balanced aggressive"`
}

// GetScores returns the ranked universe for the requested risk mode.
func (h *PipelineHandler) GetScores(c echo.Context) error {
	var req scoresRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	mode := models.Mode(req.Mode)
	if !trust.ValidMode(mode) {
		return xhttp.BadRequestResponse(c, "unknown mode: "+req.Mode)
	}
	c.Response().Header().Set("Cache-Control", "max-age=15")

	ctx := c.Request().Context()
	key := "scores:" + req.Mode
	var cached string
	if err := h.respCache.Get(ctx, key, &cached); err == nil {
		return xhttp.SuccessResponse(c, json.RawMessage(cached))
	}

	u := h.pipeline.Scores(mode)
	if b, err := json.Marshal(u); err == nil {
		if err := h.respCache.Set(ctx, key, string(b), scoresCacheTTL); err != nil && h.log != nil {
			h.log.Debug("scores cache write failed", logger.Error(err))
		}
	}
	return xhttp.SuccessResponse(c, u)
}

// Healthz reports liveness plus whether a first cycle has completed.
func (h *PipelineHandler) Healthz(c echo.Context) error {
	status := map[string]interface{}{
		"status": "ok",
		"ready":  h.pipeline.Ready(),
	}
	return c.JSON(http.StatusOK, status)
}

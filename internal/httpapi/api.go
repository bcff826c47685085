// Package httpapi exposes the curator over HTTP.
package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"agri-curator/internal/curator"
)

// CuratorRequest is the body accepted by every agent endpoint. image_url and
// policy_details are only read by their dedicated endpoints.
type CuratorRequest struct {
	Query          string         `json:"query"`
	ConversationID string         `json:"conversation_id"`
	Inputs         map[string]any `json:"inputs"`
	ImageURL       string         `json:"image_url"`
	PolicyDetails  map[string]any `json:"policy_details"`
}

// Handler binds the agent endpoints onto an echo instance.
type Handler struct {
	svc    *curator.Service
	logger *zap.Logger
}

func NewHandler(svc *curator.Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Register(e *echo.Echo) {
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(h.requestLogger())

	g := e.Group("/api/agent")
	g.POST("/curator", h.curate)
	g.POST("/pest-detection", h.detectPest)
	g.POST("/policy-detection", h.analyzePolicy)
	g.GET("/health", h.health)
}

func (h *Handler) curate(c echo.Context) error {
	req, err := h.bind(c)
	if err != nil {
		return err
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	result := h.svc.Curate(c.Request().Context(), req)
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) detectPest(c echo.Context) error {
	req, err := h.bind(c)
	if err != nil {
		return err
	}
	if req.ImageURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "image_url is required")
	}
	result := h.svc.DetectPest(c.Request().Context(), req)
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) analyzePolicy(c echo.Context) error {
	req, err := h.bind(c)
	if err != nil {
		return err
	}
	if len(req.PolicyDetails) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "policy_details is required")
	}
	result := h.svc.AnalyzePolicy(c.Request().Context(), req)
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *Handler) bind(c echo.Context) (curator.Request, error) {
	var body CuratorRequest
	if err := c.Bind(&body); err != nil {
		return curator.Request{}, echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	if body.ConversationID == "" {
		return curator.Request{}, echo.NewHTTPError(http.StatusBadRequest, "conversation_id is required")
	}
	return curator.Request{
		Query:          body.Query,
		ConversationID: body.ConversationID,
		Inputs:         body.Inputs,
		ImageURL:       body.ImageURL,
		PolicyDetails:  body.PolicyDetails,
	}, nil
}

func (h *Handler) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			h.logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
			)
			return err
		}
	}
}

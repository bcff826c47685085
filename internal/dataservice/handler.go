package dataservice

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Handler struct {
	store  *Store
	logger *zap.Logger
}

func NewHandler(store *Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (h *Handler) Register(e *echo.Echo) {
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	e.GET("/api/data", h.get)
	e.POST("/api/data", h.post)
	e.PUT("/api/data", h.put)
	e.GET("/health", h.health)
}

func (h *Handler) get(c echo.Context) error {
	collection, id, err := h.keyParams(c)
	if err != nil {
		return err
	}
	body, err := h.store.Get(collection, id)
	if err != nil {
		return h.storeError(err)
	}
	// conversation_history documents hold one key per agent; clients can
	// narrow the response to the history they log against
	if histType := c.QueryParam("message_history_type"); histType != "" {
		if sub, ok := body[histType]; ok {
			body = map[string]any{histType: sub}
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "success",
		"data":      body,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) post(c echo.Context) error {
	collection, id, err := h.keyParams(c)
	if err != nil {
		return err
	}
	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json body")
	}
	if err := h.store.Put(collection, id, body); err != nil {
		return h.storeError(err)
	}
	h.logger.Info("document stored",
		zap.String("collection", collection), zap.String("id", id))
	return c.JSON(http.StatusOK, echo.Map{"status": "success"})
}

func (h *Handler) put(c echo.Context) error {
	collection, id, err := h.keyParams(c)
	if err != nil {
		return err
	}
	key := c.QueryParam("key")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "key is required")
	}
	var value any
	if err := c.Bind(&value); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json body")
	}
	if err := h.store.UpdateKey(collection, id, key, value); err != nil {
		return h.storeError(err)
	}
	h.logger.Info("document key updated",
		zap.String("collection", collection), zap.String("id", id), zap.String("key", key))
	return c.JSON(http.StatusOK, echo.Map{"status": "success"})
}

func (h *Handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *Handler) keyParams(c echo.Context) (string, string, error) {
	collection := c.QueryParam("collection_name")
	id := c.QueryParam("_id")
	if collection == "" || id == "" {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, "collection_name and _id are required")
	}
	return collection, id, nil
}

func (h *Handler) storeError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "document not found")
	case errors.Is(err, ErrUnknownCollection):
		return echo.NewHTTPError(http.StatusBadRequest, "unknown collection")
	case errors.Is(err, ErrInvalidKey):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid key for collection")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

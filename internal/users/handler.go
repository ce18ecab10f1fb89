package users

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Aleph-Alpha/schema-management/v1/logger"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "user-api"

// Handler holds dependencies for the user HTTP handlers.
type Handler struct {
	store     Store
	validator Validator
	notifier  *Notifier
	log       logger.Logger
	schema    json.RawMessage
}

// NewHandler creates a Handler. validator and notifier may be nil.
func NewHandler(store Store, validator Validator, notifier *Notifier, log logger.Logger) (*Handler, error) {
	schema, err := RequestSchema()
	if err != nil {
		return nil, err
	}
	return &Handler{
		store:     store,
		validator: validator,
		notifier:  notifier,
		log:       log,
		schema:    json.RawMessage(schema),
	}, nil
}

// RegisterRoutes wires the user and health endpoints onto e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.HandleHealth)

	users := e.Group("/users")
	users.GET("", h.HandleList)
	users.POST("", h.HandleCreate)
	users.GET("/schema", h.HandleSchema)
	users.GET("/:id", h.HandleGet)
	users.PUT("/:id", h.HandleUpdate)
	users.DELETE("/:id", h.HandleDelete)
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
	})
}

// HandleSchema returns the JSON Schema of the request body.
func (h *Handler) HandleSchema(c echo.Context) error {
	return c.JSONBlob(http.StatusOK, h.schema)
}

// HandleList returns all users.
func (h *Handler) HandleList(c echo.Context) error {
	items, err := h.store.List(c.Request().Context())
	if err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// HandleGet returns a single user.
func (h *Handler) HandleGet(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return writeBadRequest(c, "invalid user id")
	}

	u, err := h.store.Get(c.Request().Context(), id)
	if err != nil {
		return h.storeError(c, err)
	}
	setETag(c, u.Version)
	return c.JSON(http.StatusOK, u)
}

// HandleCreate creates a user and answers 201 with its Location.
func (h *Handler) HandleCreate(c echo.Context) error {
	req, errResp := h.readRequest(c)
	if errResp != nil {
		return c.JSON(errResp.Code, errResp)
	}

	ctx := c.Request().Context()
	u, err := h.store.Create(ctx, req.toUser(0))
	if err != nil {
		return h.storeError(c, err)
	}
	h.notifier.Notify(ctx, EventCreated, u)

	c.Response().Header().Set(echo.HeaderLocation, "/users/"+strconv.FormatInt(u.ID, 10))
	setETag(c, u.Version)
	return c.JSON(http.StatusCreated, u)
}

// HandleUpdate replaces a user. An If-Match header holding the current
// version turns the update into a compare-and-swap.
func (h *Handler) HandleUpdate(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return writeBadRequest(c, "invalid user id")
	}
	expected, ok := parseIfMatch(c)
	if !ok {
		return writeBadRequest(c, "invalid If-Match header")
	}
	req, errResp := h.readRequest(c)
	if errResp != nil {
		return c.JSON(errResp.Code, errResp)
	}

	ctx := c.Request().Context()
	u, err := h.store.Update(ctx, req.toUser(id), expected)
	if err != nil {
		return h.storeError(c, err)
	}
	h.notifier.Notify(ctx, EventUpdated, u)

	setETag(c, u.Version)
	return c.JSON(http.StatusOK, u)
}

// HandleDelete removes a user.
func (h *Handler) HandleDelete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return writeBadRequest(c, "invalid user id")
	}

	ctx := c.Request().Context()
	if err := h.store.Delete(ctx, id); err != nil {
		return h.storeError(c, err)
	}
	h.notifier.Notify(ctx, EventDeleted, User{ID: id})

	return c.NoContent(http.StatusNoContent)
}

// readRequest reads, schema-validates and decodes the request body.
func (h *Handler) readRequest(c echo.Context) (UserRequest, *ErrorResponse) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil || !json.Valid(body) {
		return UserRequest{}, &ErrorResponse{Code: http.StatusBadRequest, Message: "invalid request body"}
	}

	if h.validator != nil {
		ctx := c.Request().Context()
		result, err := h.validator.Validate(ctx, body)
		if err != nil {
			h.log.ErrorWithContext(ctx, "Request schema unavailable", err, nil)
			return UserRequest{}, &ErrorResponse{Code: http.StatusServiceUnavailable, Message: "request schema unavailable"}
		}
		if !result.IsValid {
			return UserRequest{}, &ErrorResponse{
				Code:    http.StatusBadRequest,
				Message: "request does not match schema",
				Errors:  result.Errors,
			}
		}
	}

	var req UserRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return UserRequest{}, &ErrorResponse{Code: http.StatusBadRequest, Message: "invalid request body"}
	}
	if err := req.Validate(); err != nil {
		return UserRequest{}, &ErrorResponse{Code: http.StatusBadRequest, Message: err.Error()}
	}
	return req, nil
}

func (h *Handler) storeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return writeNotFound(c)
	case errors.Is(err, ErrVersionConflict):
		return writeError(c, http.StatusConflict, err.Error())
	default:
		h.log.ErrorWithContext(c.Request().Context(), "User store failure", err, map[string]interface{}{
			"path": c.Path(),
		})
		return writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseIfMatch accepts `3`, `"3"` and `W/"3"`. A missing header yields nil.
func parseIfMatch(c echo.Context) (*int64, bool) {
	raw := strings.TrimSpace(c.Request().Header.Get("If-Match"))
	if raw == "" {
		return nil, true
	}
	raw = strings.Trim(strings.TrimPrefix(raw, "W/"), `"`)
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &version, true
}

func setETag(c echo.Context, version int64) {
	c.Response().Header().Set("ETag", strconv.Quote(strconv.FormatInt(version, 10)))
}

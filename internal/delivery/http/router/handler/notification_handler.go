package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"farmradar/internal/delivery/http/middleware"
	"farmradar/internal/delivery/http/response"
	"farmradar/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// NotificationHandlerParams holds dependencies for NotificationHandler, injected by Fx.
type NotificationHandlerParams struct {
	fx.In

	NotifierUC  usecase.NotifierUsecase
	ProximityUC usecase.ProximityUsecase
	Logger      *slog.Logger
}

// NotificationHandler holds dependencies for notification-related handlers
type NotificationHandler struct {
	notifierUC  usecase.NotifierUsecase
	proximityUC usecase.ProximityUsecase
	logger      *slog.Logger
}

// NewNotificationHandler is the constructor for NotificationHandler
func NewNotificationHandler(params NotificationHandlerParams) *NotificationHandler {
	return &NotificationHandler{
		notifierUC:  params.NotifierUC,
		proximityUC: params.ProximityUC,
		logger:      params.Logger,
	}
}

// GetHistory handles retrieving the consumer's notification history, newest first
func (h *NotificationHandler) GetHistory(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return response.BadRequest(c, "INVALID_QUERY", "limit must be a positive integer")
		}
		limit = min(parsed, maxHistoryLimit)
	}

	offset := 0
	if raw := c.QueryParam("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return response.BadRequest(c, "INVALID_QUERY", "offset must be a non-negative integer")
		}
		offset = parsed
	}

	notifications, err := h.notifierUC.NotificationHistory(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, notifications)
}

// Acknowledge handles a consumer dismissing an active notification. The pair
// enters cooldown so the consumer is not re-notified immediately.
func (h *NotificationHandler) Acknowledge(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid notification ID")
	}

	if err := h.notifierUC.Acknowledge(c.Request().Context(), userID, notificationID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Notification acknowledged"})
}

// GetNearbyVendors handles a consumer's pull query for active vendors around them
func (h *NotificationHandler) GetNearbyVendors(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	// radius=0 falls back to the consumer's preferred radius
	var radius float64
	if raw := c.QueryParam("radius"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			return response.BadRequest(c, "INVALID_QUERY", "radius must be a non-negative number of meters")
		}
		radius = parsed
	}

	vendors, err := h.proximityUC.NearbyVendors(c.Request().Context(), userID, radius)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, vendors)
}

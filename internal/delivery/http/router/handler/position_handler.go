package handler

import (
	"log/slog"
	"net/http"
	"time"

	"farmradar/internal/delivery/http/middleware"
	"farmradar/internal/delivery/http/response"
	"farmradar/internal/domain/entity"
	"farmradar/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PositionHandlerParams holds dependencies for PositionHandler, injected by Fx.
type PositionHandlerParams struct {
	fx.In

	IngestUC usecase.IngestUsecase
	VendorUC usecase.VendorUsecase
	Logger   *slog.Logger
}

// PositionHandler holds dependencies for position ingest handlers
type PositionHandler struct {
	ingestUC usecase.IngestUsecase
	vendorUC usecase.VendorUsecase
	logger   *slog.Logger
}

// NewPositionHandler is the constructor for PositionHandler
func NewPositionHandler(params PositionHandlerParams) *PositionHandler {
	return &PositionHandler{
		ingestUC: params.IngestUC,
		vendorUC: params.VendorUC,
		logger:   params.Logger,
	}
}

// ReportPositionRequest represents one reported position sample. The
// coordinate fields must not carry `required`: validator treats a float
// zero value as absent, which would reject legitimate positions on the
// equator or prime meridian.
type ReportPositionRequest struct {
	Latitude       float64    `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude      float64    `json:"longitude" validate:"gte=-180,lte=180"`
	AccuracyMeters *float64   `json:"accuracy_meters,omitempty" validate:"omitempty,gte=0"`
	CapturedAt     *time.Time `json:"captured_at,omitempty"`
}

// ReportVendorPosition handles a vendor position sample
func (h *PositionHandler) ReportVendorPosition(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req ReportPositionRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid position input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	// Positions are keyed by vendor profile ID, not account ID.
	vendor, err := h.vendorUC.GetVendorByUser(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	result, err := h.ingestUC.ReportVendorPosition(c.Request().Context(), vendor.ID, &usecase.ReportPositionInput{
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		AccuracyMeters: req.AccuracyMeters,
		CapturedAt:     req.CapturedAt,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result)
}

// ReportConsumerPosition handles a consumer position sample
func (h *PositionHandler) ReportConsumerPosition(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req ReportPositionRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid position input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	result, err := h.ingestUC.ReportConsumerPosition(c.Request().Context(), userID, &usecase.ReportPositionInput{
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		AccuracyMeters: req.AccuracyMeters,
		CapturedAt:     req.CapturedAt,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result)
}

// RemovePosition drops the caller from the live position store, e.g. when a
// vendor closes for the day.
func (h *PositionHandler) RemovePosition(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	role, ok := middleware.GetRole(c)
	if !ok || !role.Valid() {
		return response.Forbidden(c, "ROLE_MISSING", "Role information missing from token")
	}

	entityID := userID
	if role == entity.RoleVendor {
		vendor, err := h.vendorUC.GetVendorByUser(c.Request().Context(), userID)
		if err != nil {
			return response.HandleAppError(c, err)
		}
		entityID = vendor.ID
	}

	if err := h.ingestUC.RemovePosition(c.Request().Context(), entityID, role); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Position removed"})
}

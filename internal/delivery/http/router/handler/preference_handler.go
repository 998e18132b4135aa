package handler

import (
	"log/slog"
	"net/http"

	"farmradar/internal/delivery/http/middleware"
	"farmradar/internal/delivery/http/response"
	"farmradar/internal/domain/entity"
	"farmradar/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PreferenceHandlerParams holds dependencies for PreferenceHandler, injected by Fx.
type PreferenceHandlerParams struct {
	fx.In

	PreferenceUC usecase.PreferenceUsecase
	Logger       *slog.Logger
}

// PreferenceHandler holds dependencies for preference and device handlers
type PreferenceHandler struct {
	preferenceUC usecase.PreferenceUsecase
	logger       *slog.Logger
}

// NewPreferenceHandler is the constructor for PreferenceHandler
func NewPreferenceHandler(params PreferenceHandlerParams) *PreferenceHandler {
	return &PreferenceHandler{
		preferenceUC: params.PreferenceUC,
		logger:       params.Logger,
	}
}

// QuietHoursRequest mirrors the quiet-hours window of the stored preferences
type QuietHoursRequest struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start" validate:"required_if=Enabled true,omitempty,len=5"`
	End     string `json:"end" validate:"required_if=Enabled true,omitempty,len=5"`
}

// UpdatePreferencesRequest represents a partial preferences update. Omitted
// fields keep their stored value.
type UpdatePreferencesRequest struct {
	Enabled       *bool              `json:"enabled,omitempty"`
	RadiusMeters  *float64           `json:"radius_meters,omitempty" validate:"omitempty,gt=0"`
	QuietHours    *QuietHoursRequest `json:"quiet_hours,omitempty"`
	MinimumRating *float64           `json:"minimum_rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	DoNotDisturb  *bool              `json:"do_not_disturb,omitempty"`
}

// RegisterDeviceRequest represents the request body for registering a device
type RegisterDeviceRequest struct {
	FCMToken string `json:"fcm_token" validate:"required"`
	DeviceID string `json:"device_id" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}

// GetPreferences handles retrieving the consumer's notification preferences
func (h *PreferenceHandler) GetPreferences(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	prefs, err := h.preferenceUC.GetPreferences(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, prefs)
}

// UpdatePreferences handles a partial preferences update
func (h *PreferenceHandler) UpdatePreferences(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid preferences input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	input := &usecase.UpdatePreferencesInput{
		Enabled:       req.Enabled,
		RadiusMeters:  req.RadiusMeters,
		MinimumRating: req.MinimumRating,
		DoNotDisturb:  req.DoNotDisturb,
	}
	if req.QuietHours != nil {
		input.QuietHours = &entity.QuietHours{
			Enabled: req.QuietHours.Enabled,
			Start:   req.QuietHours.Start,
			End:     req.QuietHours.End,
		}
	}

	prefs, err := h.preferenceUC.UpdatePreferences(c.Request().Context(), userID, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, prefs)
}

// RegisterDevice handles device registration for push delivery
func (h *PreferenceHandler) RegisterDevice(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req RegisterDeviceRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid device input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	device, err := h.preferenceUC.RegisterDevice(c.Request().Context(), userID, req.FCMToken, req.DeviceID, req.Platform)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, device)
}

// UnregisterDevice handles removing a device registration
func (h *PreferenceHandler) UnregisterDevice(c echo.Context) error {
	if _, ok := middleware.GetUserID(c); !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid device ID")
	}

	if err := h.preferenceUC.UnregisterDevice(c.Request().Context(), deviceID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Device unregistered"})
}

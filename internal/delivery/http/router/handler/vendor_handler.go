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

// VendorHandlerParams holds dependencies for VendorHandler, injected by Fx.
type VendorHandlerParams struct {
	fx.In

	VendorUC usecase.VendorUsecase
	Logger   *slog.Logger
}

// VendorHandler holds dependencies for vendor profile handlers
type VendorHandler struct {
	vendorUC usecase.VendorUsecase
	logger   *slog.Logger
}

// NewVendorHandler is the constructor for VendorHandler
func NewVendorHandler(params VendorHandlerParams) *VendorHandler {
	return &VendorHandler{
		vendorUC: params.VendorUC,
		logger:   params.Logger,
	}
}

// CreateVendorRequest represents the request body for registering a vendor profile
type CreateVendorRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

// ResolveFollowQRRequest represents the request body for resolving scanned QR data
type ResolveFollowQRRequest struct {
	QRData string `json:"qr_data" validate:"required"`
}

// VendorResponse is the vendor profile payload with its active products
type VendorResponse struct {
	Vendor   *entity.VendorProfile   `json:"vendor"`
	Products []*entity.VendorProduct `json:"products"`
}

// GetVendor handles retrieving a vendor profile with its active products
func (h *VendorHandler) GetVendor(c echo.Context) error {
	vendorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid vendor ID")
	}

	vendor, products, err := h.vendorUC.GetVendor(c.Request().Context(), vendorID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, VendorResponse{
		Vendor:   vendor,
		Products: products,
	})
}

// CreateVendor handles registering a vendor profile for the authenticated user
func (h *VendorHandler) CreateVendor(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req CreateVendorRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid vendor input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	vendor, err := h.vendorUC.CreateVendor(c.Request().Context(), userID, &usecase.CreateVendorInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, vendor)
}

// GetFollowQR renders the PNG QR code consumers scan to follow the vendor
func (h *VendorHandler) GetFollowQR(c echo.Context) error {
	vendorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid vendor ID")
	}

	png, err := h.vendorUC.GenerateFollowQR(c.Request().Context(), vendorID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// ResolveFollowQR handles a consumer resolving scanned QR data to a vendor
func (h *VendorHandler) ResolveFollowQR(c echo.Context) error {
	var req ResolveFollowQRRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid QR input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	vendor, err := h.vendorUC.ResolveFollowQR(c.Request().Context(), req.QRData)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, vendor)
}

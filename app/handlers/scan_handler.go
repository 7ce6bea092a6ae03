package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/klb1963/yachtpricer/app/dto"
	"github.com/klb1963/yachtpricer/app/services"
	businessflow "github.com/klb1963/yachtpricer/business_flow"
	"github.com/klb1963/yachtpricer/models"
	"github.com/klb1963/yachtpricer/utils"
)

type ScanHandlerInterface interface {
	RunScan(c fiber.Ctx) error
	GetFilterConfig(c fiber.Ctx) error
	UpdateFilterConfig(c fiber.Ctx) error
}

// ScanHandler exposes the competitor scan pipeline and its tolerance
// profiles over HTTP.
type ScanHandler struct {
	scanFlow         businessflow.ScanFlow
	filterConfigFlow businessflow.FilterConfigFlow
	validator        *validator.Validate
}

func NewScanHandler(scanFlow businessflow.ScanFlow, filterConfigFlow businessflow.FilterConfigFlow) ScanHandlerInterface {
	return &ScanHandler{
		scanFlow:         scanFlow,
		filterConfigFlow: filterConfigFlow,
		validator:        validator.New(),
	}
}

func (h *ScanHandler) ErrorResponse(c fiber.Ctx, status int, message, code string, details any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: false, Message: message, Error: dto.ErrorDetail{Code: code, Details: details}})
}

func (h *ScanHandler) SuccessResponse(c fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: true, Message: message, Data: data})
}

// RunScan collects competitor offers for one yacht and charter week,
// filters them and replaces the stored snapshot.
func (h *ScanHandler) RunScan(c fiber.Ctx) error {
	var req dto.RunScanRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	weekStart, err := time.Parse("2006-01-02", req.WeekStart)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid week start date", "INVALID_WEEK_START", err.Error())
	}

	actor, ok := actorFromLocals(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER", nil)
	}

	scanReq := businessflow.ScanRequest{
		YachtID:       req.YachtID,
		WeekStart:     weekStart,
		Source:        req.Source,
		Credentials:   services.ProviderCredentials{Username: req.Username, Password: req.Password},
		LocationHints: req.LocationHints,
		Actor:         &actor,
	}

	result, err := h.scanFlow.RunScan(h.createRequestContext(c, "/api/v1/scan"), scanReq)
	if err != nil {
		log.Println("Competitor scan failed:", err)
		if businessflow.IsYachtNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Yacht not found", "YACHT_NOT_FOUND", nil)
		}
		if businessflow.IsProviderUnavailable(err) {
			return h.ErrorResponse(c, fiber.StatusBadGateway, "Inventory provider unavailable", "PROVIDER_UNAVAILABLE", nil)
		}
		if businessflow.IsProviderNoOperators(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "No charter operators matched the scan", "NO_OPERATORS", nil)
		}
		if businessflow.IsProviderNoVessels(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Charter operators returned no vessels", "NO_VESSELS", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Competitor scan failed", "SCAN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Competitor scan completed", scanResultToResponse(result))
}

// GetFilterConfig returns the tolerance profile the caller's scans will use.
func (h *ScanHandler) GetFilterConfig(c fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER", nil)
	}

	cfg, err := h.filterConfigFlow.GetFilterConfig(h.createRequestContext(c, "/api/v1/filter-config"), actor)
	if err != nil {
		log.Println("Get filter config failed:", err)
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "User not found", "USER_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Get filter config failed", "FILTER_CONFIG_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Filter config retrieved", filterConfigToResponse(cfg))
}

// UpdateFilterConfig saves a tolerance profile at user or org scope.
func (h *ScanHandler) UpdateFilterConfig(c fiber.Ctx) error {
	var req dto.UpdateFilterConfigRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	actor, ok := actorFromLocals(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER", nil)
	}

	cfg := models.FilterConfig{
		LenFtMinus:  req.LenFtMinus,
		LenFtPlus:   req.LenFtPlus,
		YearMinus:   req.YearMinus,
		YearPlus:    req.YearPlus,
		CabinsMinus: req.CabinsMinus,
		CabinsPlus:  req.CabinsPlus,
		HeadsMin:    req.HeadsMin,
	}

	saved, err := h.filterConfigFlow.UpdateFilterConfig(h.createRequestContext(c, "/api/v1/filter-config"), actor, businessflow.FilterConfigScope(req.Scope), cfg)
	if err != nil {
		log.Println("Update filter config failed:", err)
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "User not found", "USER_NOT_FOUND", nil)
		}
		if businessflow.IsNotAuthorized(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Only admins and fleet managers may edit the org profile", "ORG_CONFIG_NOT_ALLOWED", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Update filter config failed", "FILTER_CONFIG_SAVE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Filter config saved", filterConfigToResponse(saved))
}

func scanResultToResponse(result *businessflow.ScanResult) dto.RunScanResponse {
	reasons := make([]dto.ReasonCountItem, 0, len(result.TopReasons))
	for _, r := range result.TopReasons {
		reasons = append(reasons, dto.ReasonCountItem{Reason: r.Reason, Count: r.Count})
	}
	return dto.RunScanResponse{
		Message:    "Scan completed",
		YachtID:    result.YachtID,
		WeekStart:  result.WeekStart.Format("2006-01-02"),
		Source:     result.Source,
		Accepted:   result.Accepted,
		Rejected:   result.Rejected,
		Skipped:    result.Skipped,
		TopReasons: reasons,
		Operators:  result.Stats.Operators,
		Failed:     result.Stats.FailedOperators,
		Vessels:    result.Stats.Vessels,
		Offers:     result.Stats.Offers,
		Malformed:  result.Stats.Malformed,
	}
}

func filterConfigToResponse(cfg *models.FilterConfig) dto.FilterConfigResponse {
	scope := "defaults"
	switch {
	case cfg.UserID != nil:
		scope = "user"
	case cfg.ID != 0:
		scope = "org"
	}
	return dto.FilterConfigResponse{
		Scope:       scope,
		LenFtMinus:  cfg.LenFtMinus,
		LenFtPlus:   cfg.LenFtPlus,
		YearMinus:   cfg.YearMinus,
		YearPlus:    cfg.YearPlus,
		CabinsMinus: cfg.CabinsMinus,
		CabinsPlus:  cfg.CabinsPlus,
		HeadsMin:    cfg.HeadsMin,
	}
}

func (h *ScanHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx := context.WithValue(context.Background(), utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	return context.WithValue(ctx, utils.EndpointKey, endpoint)
}

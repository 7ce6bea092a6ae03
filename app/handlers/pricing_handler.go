package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/klb1963/yachtpricer/app/dto"
	businessflow "github.com/klb1963/yachtpricer/business_flow"
	"github.com/klb1963/yachtpricer/models"
	"github.com/klb1963/yachtpricer/utils"
)

type PricingHandlerInterface interface {
	ListRows(c fiber.Ctx) error
	UpsertDraft(c fiber.Ctx) error
	ChangeStatus(c fiber.Ctx) error
	GetAuditTrail(c fiber.Ctx) error
}

// PricingHandler exposes the weekly pricing board and the decision
// workflow over HTTP.
type PricingHandler struct {
	pricingFlow  businessflow.PricingFlow
	decisionFlow businessflow.DecisionFlow
	validator    *validator.Validate
}

func NewPricingHandler(pricingFlow businessflow.PricingFlow, decisionFlow businessflow.DecisionFlow) PricingHandlerInterface {
	return &PricingHandler{
		pricingFlow:  pricingFlow,
		decisionFlow: decisionFlow,
		validator:    validator.New(),
	}
}

func (h *PricingHandler) ErrorResponse(c fiber.Ctx, status int, message, code string, details any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: false, Message: message, Error: dto.ErrorDetail{Code: code, Details: details}})
}

func (h *PricingHandler) SuccessResponse(c fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: true, Message: message, Data: data})
}

// ListRows returns the pricing board for one charter week, one row per
// yacht the caller may view.
func (h *PricingHandler) ListRows(c fiber.Ctx) error {
	weekStr := c.Query("week_start")
	if weekStr == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "week_start query parameter is required", "MISSING_WEEK_START", nil)
	}
	weekStart, err := time.Parse("2006-01-02", weekStr)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid week start date", "INVALID_WEEK_START", err.Error())
	}

	actor, ok := actorFromLocals(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER", nil)
	}

	rows, err := h.pricingFlow.GetRows(h.createRequestContext(c, "/api/v1/pricing/rows"), weekStart, actor)
	if err != nil {
		log.Println("List pricing rows failed:", err)
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "User not found", "USER_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List pricing rows failed", "PRICING_ROWS_FAILED", nil)
	}

	items := make([]dto.PricingRowItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, pricingRowToItem(row))
	}
	res := dto.ListPricingRowsResponse{
		Message:   "Pricing rows retrieved",
		WeekStart: utils.CharterWeekStart(weekStart).Format("2006-01-02"),
		Rows:      items,
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Pricing rows retrieved", res)
}

// UpsertDraft creates or edits the draft pricing decision for one yacht
// and week.
func (h *PricingHandler) UpsertDraft(c fiber.Ctx) error {
	var req dto.UpsertDraftRequest
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

	input := priceInputFromRequest(req.Kind, req.DiscountPct, req.FinalPrice)
	decision, err := h.decisionFlow.UpsertDraft(h.createRequestContext(c, "/api/v1/pricing/draft"), req.YachtID, weekStart, input, actor)
	if err != nil {
		log.Println("Upsert draft failed:", err)
		if status, code, message, ok := mapDecisionError(err); ok {
			return h.ErrorResponse(c, status, message, code, nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Upsert draft failed", "DRAFT_SAVE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Draft saved", decisionToResponse(decision, "Draft saved"))
}

// ChangeStatus moves a pricing decision through its workflow and appends
// an audit row.
func (h *PricingHandler) ChangeStatus(c fiber.Ctx) error {
	var req dto.ChangeStatusRequest
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

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	input := priceInputFromRequest(req.Kind, req.DiscountPct, req.FinalPrice)
	target := models.DecisionStatus(req.Target)
	decision, err := h.decisionFlow.ChangeStatus(h.createRequestContext(c, "/api/v1/pricing/status"), req.YachtID, weekStart, target, input, actor, req.Comment, metadata)
	if err != nil {
		log.Println("Change decision status failed:", err)
		if status, code, message, ok := mapDecisionError(err); ok {
			return h.ErrorResponse(c, status, message, code, nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Change decision status failed", "STATUS_CHANGE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Decision status changed", decisionToResponse(decision, "Decision status changed"))
}

// GetAuditTrail lists the transition history of one pricing decision,
// newest first.
func (h *PricingHandler) GetAuditTrail(c fiber.Ctx) error {
	yachtID, err := strconv.ParseUint(c.Query("yacht_id"), 10, 64)
	if err != nil || yachtID == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "yacht_id query parameter is required", "MISSING_YACHT_ID", nil)
	}
	weekStart, err := time.Parse("2006-01-02", c.Query("week_start"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid week start date", "INVALID_WEEK_START", err.Error())
	}
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	offset := 0
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	actor, ok := actorFromLocals(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER", nil)
	}

	entries, err := h.decisionFlow.GetAuditTrail(h.createRequestContext(c, "/api/v1/pricing/audit"), uint(yachtID), weekStart, actor, limit, offset)
	if err != nil {
		log.Println("Get audit trail failed:", err)
		if status, code, message, ok := mapDecisionError(err); ok {
			return h.ErrorResponse(c, status, message, code, nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Get audit trail failed", "AUDIT_TRAIL_FAILED", nil)
	}

	items := make([]dto.AuditEntryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.AuditEntryItem{
			ID:         e.ID,
			Action:     e.Action,
			FromStatus: string(e.FromStatus),
			ToStatus:   string(e.ToStatus),
			ActorID:    e.ActorID,
			Comment:    e.Comment,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		})
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Audit trail retrieved", dto.AuditTrailResponse{Message: "Audit trail retrieved", Items: items})
}

// mapDecisionError translates workflow errors shared by the decision
// endpoints into HTTP responses.
func mapDecisionError(err error) (status int, code, message string, ok bool) {
	switch {
	case businessflow.IsYachtNotFound(err):
		return fiber.StatusNotFound, "YACHT_NOT_FOUND", "Yacht not found", true
	case businessflow.IsDecisionNotFound(err):
		return fiber.StatusNotFound, "DECISION_NOT_FOUND", "Pricing decision not found", true
	case businessflow.IsUserNotFound(err):
		return fiber.StatusUnauthorized, "USER_NOT_FOUND", "User not found", true
	case businessflow.IsNotAuthorized(err):
		return fiber.StatusForbidden, "NOT_AUTHORIZED", "Not authorized for this action", true
	case businessflow.IsInvalidTransition(err):
		return fiber.StatusConflict, "INVALID_TRANSITION", "Invalid decision status transition", true
	case businessflow.IsDecisionNotEditable(err):
		return fiber.StatusConflict, "DECISION_NOT_EDITABLE", "Decision is not editable in its current status", true
	case businessflow.IsRejectionCommentRequired(err):
		return fiber.StatusBadRequest, "REJECTION_COMMENT_REQUIRED", "Rejection requires a comment", true
	case businessflow.IsPriceInputRequired(err):
		return fiber.StatusBadRequest, "PRICE_INPUT_REQUIRED", "Either discount percent or final price must be provided", true
	case businessflow.IsPriceInputOutOfRange(err):
		return fiber.StatusBadRequest, "PRICE_INPUT_OUT_OF_RANGE", "Price input is out of range", true
	}
	return 0, "", "", false
}

func priceInputFromRequest(kind string, discountPct, finalPrice *float64) businessflow.PriceInput {
	input := businessflow.PriceInput{Kind: businessflow.PriceInputUnset}
	if kind != "" {
		input.Kind = businessflow.PriceInputKind(kind)
	}
	if discountPct != nil {
		input.DiscountPct = *discountPct
	}
	if finalPrice != nil {
		input.FinalPrice = *finalPrice
	}
	return input
}

func pricingRowToItem(row businessflow.PricingRow) dto.PricingRowItem {
	item := dto.PricingRowItem{
		YachtID:      row.Yacht.ID,
		YachtName:    row.Yacht.Name,
		WeekStart:    row.WeekStart.Format("2006-01-02"),
		BasePrice:    row.BasePrice,
		CanEditDraft: row.Permissions.CanEditDraft,
		CanSubmit:    row.Permissions.CanSubmit,
		CanApprove:   row.Permissions.CanApproveOrReject,
	}
	if row.Snapshot != nil {
		item.Top1Price = utils.ToPtr(row.Snapshot.Top1Price)
		item.Top3Avg = utils.ToPtr(row.Snapshot.Top3Avg)
		item.SampleSize = utils.ToPtr(row.Snapshot.SampleSize)
	}
	if row.Decision != nil {
		item.DecisionStatus = utils.ToPtr(string(row.Decision.Status))
		item.DiscountPct = row.Decision.DiscountPct
		item.FinalPrice = row.Decision.FinalPrice
	}
	return item
}

func decisionToResponse(decision *models.PricingDecision, message string) dto.DecisionResponse {
	res := dto.DecisionResponse{
		Message:     message,
		YachtID:     decision.YachtID,
		WeekStart:   decision.WeekStart.Format("2006-01-02"),
		Status:      string(decision.Status),
		BasePrice:   decision.BasePrice,
		DiscountPct: decision.DiscountPct,
		FinalPrice:  decision.FinalPrice,
		ApprovedBy:  decision.ApprovedBy,
	}
	if decision.ApprovedAt != nil {
		res.ApprovedAt = utils.ToPtr(decision.ApprovedAt.Format(time.RFC3339))
	}
	return res
}

func (h *PricingHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx := context.WithValue(context.Background(), utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	return context.WithValue(ctx, utils.EndpointKey, endpoint)
}

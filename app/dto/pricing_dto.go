package dto

// PricingRowItem is one yacht/week row on the pricing board.
type PricingRowItem struct {
	YachtID        uint     `json:"yacht_id"`
	YachtName      string   `json:"yacht_name"`
	WeekStart      string   `json:"week_start"`
	BasePrice      float64  `json:"base_price"`
	Top1Price      *float64 `json:"top1_price,omitempty"`
	Top3Avg        *float64 `json:"top3_avg,omitempty"`
	SampleSize     *int     `json:"sample_size,omitempty"`
	DecisionStatus *string  `json:"decision_status,omitempty"`
	DiscountPct    *float64 `json:"discount_pct,omitempty"`
	FinalPrice     *float64 `json:"final_price,omitempty"`
	CanEditDraft   bool     `json:"can_edit_draft"`
	CanSubmit      bool     `json:"can_submit"`
	CanApprove     bool     `json:"can_approve"`
}

// ListPricingRowsResponse is the pricing board for one charter week.
type ListPricingRowsResponse struct {
	Message   string           `json:"message"`
	WeekStart string           `json:"week_start"`
	Rows      []PricingRowItem `json:"rows"`
}

// UpsertDraftRequest represents the payload to create or edit a draft
// pricing decision. Exactly one of discount_pct and final_price is set
// according to kind.
type UpsertDraftRequest struct {
	YachtID     uint     `json:"yacht_id" validate:"required"`
	WeekStart   string   `json:"week_start" validate:"required,datetime=2006-01-02"`
	Kind        string   `json:"kind" validate:"required,oneof=discount final"`
	DiscountPct *float64 `json:"discount_pct" validate:"omitempty,gte=0,lte=100"`
	FinalPrice  *float64 `json:"final_price" validate:"omitempty,gte=0"`
}

// ChangeStatusRequest represents the payload to move a pricing decision
// through its workflow. Comment is required when target is rejected.
type ChangeStatusRequest struct {
	YachtID     uint     `json:"yacht_id" validate:"required"`
	WeekStart   string   `json:"week_start" validate:"required,datetime=2006-01-02"`
	Target      string   `json:"target" validate:"required,oneof=submitted approved rejected"`
	Kind        string   `json:"kind" validate:"omitempty,oneof=discount final"`
	DiscountPct *float64 `json:"discount_pct" validate:"omitempty,gte=0,lte=100"`
	FinalPrice  *float64 `json:"final_price" validate:"omitempty,gte=0"`
	Comment     *string  `json:"comment" validate:"omitempty,max=1000"`
}

// DecisionResponse is a pricing decision as returned to clients.
type DecisionResponse struct {
	Message     string   `json:"message"`
	YachtID     uint     `json:"yacht_id"`
	WeekStart   string   `json:"week_start"`
	Status      string   `json:"status"`
	BasePrice   float64  `json:"base_price"`
	DiscountPct *float64 `json:"discount_pct,omitempty"`
	FinalPrice  *float64 `json:"final_price,omitempty"`
	ApprovedBy  *uint    `json:"approved_by,omitempty"`
	ApprovedAt  *string  `json:"approved_at,omitempty"`
}

// AuditEntryItem is one row of a decision's audit trail.
type AuditEntryItem struct {
	ID         uint    `json:"id"`
	Action     string  `json:"action"`
	FromStatus string  `json:"from_status"`
	ToStatus   string  `json:"to_status"`
	ActorID    uint    `json:"actor_id"`
	Comment    *string `json:"comment,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// AuditTrailResponse lists the audit trail of one pricing decision,
// newest first.
type AuditTrailResponse struct {
	Message string           `json:"message"`
	Items   []AuditEntryItem `json:"items"`
}

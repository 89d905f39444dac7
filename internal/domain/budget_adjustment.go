package domain

import (
	"fmt"
	"time"
)

type BudgetType string

const (
	BudgetTypeDaily    BudgetType = "daily"
	BudgetTypeLifetime BudgetType = "lifetime"
)

func (t BudgetType) IsValid() bool {
	return t == BudgetTypeDaily || t == BudgetTypeLifetime
}

type AdjustmentStatus string

const (
	AdjustmentStatusApplied  AdjustmentStatus = "applied"
	AdjustmentStatusRejected AdjustmentStatus = "rejected"
	AdjustmentStatusFailed   AdjustmentStatus = "failed"
)

// Motivos de bloqueio legíveis por máquina
const (
	RejectionInvalidRequest     = "invalid_request"
	RejectionCooldown           = "cooldown_active"
	RejectionCapExceeded        = "cap_exceeded"
	RejectionBudgetTypeMismatch = "budget_type_mismatch"
	RejectionCancelled          = "cancelled"
)

// BudgetAdjustmentRequest é o pedido de alteração de orçamento de um adset.
// NewBudget é ponteiro para que um campo ausente seja rejeitado e não vire zero.
type BudgetAdjustmentRequest struct {
	AdsetID        string     `json:"adset_id"`
	NewBudget      *float64   `json:"new_budget"`
	BudgetType     BudgetType `json:"budget_type"`
	Reason         string     `json:"reason"`
	RequestingUser string     `json:"-"`
	BatchID        string     `json:"-"`
}

type ValidationResult struct {
	CanAdjust            bool       `json:"can_adjust"`
	Reason               string     `json:"reason,omitempty"`
	RejectionCode        string     `json:"rejection_code,omitempty"`
	CurrentBudget        *float64   `json:"current_budget,omitempty"`
	RequestedBudget      *float64   `json:"requested_budget,omitempty"`
	AdjustmentPercentage *float64   `json:"adjustment_percentage,omitempty"`
	CappedBudget         *float64   `json:"capped_budget,omitempty"`
	NextAllowedAt        *time.Time `json:"next_allowed_at,omitempty"`
}

// BudgetAdjustmentLog é o registro imutável de uma tentativa de ajuste
type BudgetAdjustmentLog struct {
	ID                   string           `json:"id"`
	EntityID             string           `json:"entity_id"`
	CampaignID           string           `json:"campaign_id,omitempty"`
	BudgetType           BudgetType       `json:"budget_type"`
	CurrentBudget        *float64         `json:"current_budget"`
	RequestedBudget      float64          `json:"requested_budget"`
	Status               AdjustmentStatus `json:"status"`
	AdjustmentPercentage *float64         `json:"adjustment_percentage"`
	AdjustmentAmount     *float64         `json:"adjustment_amount"`
	Reason               string           `json:"reason"`
	RequestingUser       string           `json:"requesting_user"`
	RejectionReason      string           `json:"rejection_reason,omitempty"`
	ErrorMessage         string           `json:"error_message,omitempty"`
	BatchID              string           `json:"batch_id,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
}

// PlatformError é o erro devolvido pela plataforma de anúncios, sem tradução
type PlatformError struct {
	StatusCode   int    `json:"status_code,omitempty"`
	Message      string `json:"message"`
	Type         string `json:"type,omitempty"`
	Code         int    `json:"code,omitempty"`
	ErrorSubcode int    `json:"error_subcode,omitempty"`
	FBTraceID    string `json:"fbtrace_id,omitempty"`
	Timeout      bool   `json:"timeout,omitempty"`
}

func (e *PlatformError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("platform error (code %d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("platform error: %s", e.Message)
}

type AdjustmentErrorPayload struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Platform *PlatformError `json:"platform,omitempty"`
}

type BudgetAdjustmentResult struct {
	Success          bool                    `json:"success"`
	ValidationResult *ValidationResult       `json:"validation_result,omitempty"`
	Log              *BudgetAdjustmentLog    `json:"log,omitempty"`
	Error            *AdjustmentErrorPayload `json:"error,omitempty"`
}

type BatchAdjustmentRequest struct {
	Adjustments   []BudgetAdjustmentRequest `json:"adjustments"`
	MaxConcurrent *int                      `json:"max_concurrent"`
}

type BatchItemStatus string

const (
	BatchItemApplied BatchItemStatus = "applied"
	BatchItemFailed  BatchItemStatus = "failed"
	BatchItemSkipped BatchItemStatus = "skipped"
)

type BatchItemResult struct {
	Index   int                     `json:"index"`
	AdsetID string                  `json:"adset_id"`
	Status  BatchItemStatus         `json:"status"`
	Reason  string                  `json:"reason,omitempty"`
	Result  *BudgetAdjustmentResult `json:"result,omitempty"`
}

type BatchAdjustmentResult struct {
	Success        bool              `json:"success"`
	BatchID        string            `json:"batch_id"`
	TotalRequested int               `json:"total_requested"`
	Successful     int               `json:"successful"`
	Failed         int               `json:"failed"`
	Skipped        int               `json:"skipped"`
	Results        []BatchItemResult `json:"results"`
}

// AdsetBudget é o orçamento vigente do adset na plataforma, em unidades monetárias
type AdsetBudget struct {
	AdsetID        string   `json:"adset_id"`
	CampaignID     string   `json:"campaign_id"`
	DailyBudget    *float64 `json:"daily_budget,omitempty"`
	LifetimeBudget *float64 `json:"lifetime_budget,omitempty"`
}

// Amount retorna o orçamento do tipo pedido, se o adset usar esse tipo
func (b *AdsetBudget) Amount(budgetType BudgetType) (float64, bool) {
	var v *float64
	switch budgetType {
	case BudgetTypeDaily:
		v = b.DailyBudget
	case BudgetTypeLifetime:
		v = b.LifetimeBudget
	}
	if v == nil || *v <= 0 {
		return 0, false
	}
	return *v, true
}

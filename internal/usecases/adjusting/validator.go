package adjusting

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/goal-pacing-api/internal/config"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
	"github.com/vfg2006/goal-pacing-api/pkg/apiErrors"
)

// Limits são os limites do guardrail
type Limits struct {
	MaxAdjustmentPercentage float64
	BatchMaxItems           int
	BatchMaxConcurrent      int
	BatchDefaultConcurrent  int
}

func DefaultLimits() Limits {
	return Limits{
		MaxAdjustmentPercentage: 20,
		BatchMaxItems:           50,
		BatchMaxConcurrent:      10,
		BatchDefaultConcurrent:  3,
	}
}

func LimitsFromConfig(cfg config.Guardrail) Limits {
	return Limits{
		MaxAdjustmentPercentage: cfg.MaxAdjustmentPercentage,
		BatchMaxItems:           cfg.BatchMaxItems,
		BatchMaxConcurrent:      cfg.BatchMaxConcurrent,
		BatchDefaultConcurrent:  cfg.BatchDefaultConcurrent,
	}
}

var hundred = decimal.NewFromInt(100)

type Validator struct {
	limits Limits
	maxPct decimal.Decimal
}

func NewValidator(limits Limits) *Validator {
	return &Validator{
		limits: limits,
		maxPct: decimal.NewFromFloat(limits.MaxAdjustmentPercentage),
	}
}

// ValidateShape rejeita pedidos malformados. Nada é coagido: campo ausente é erro.
func (v *Validator) ValidateShape(request *domain.BudgetAdjustmentRequest) error {
	if request == nil {
		return NewAdjustmentError(ErrInvalidAdjustment, apiErrors.ErrInvalidRequest, "", "corpo da requisição ausente")
	}

	if strings.TrimSpace(request.AdsetID) == "" {
		return NewAdjustmentError(ErrInvalidAdjustment, apiErrors.ErrMissingRequiredData, "", "adset_id é obrigatório")
	}

	if request.NewBudget == nil {
		return NewAdjustmentError(ErrInvalidAdjustment, apiErrors.ErrMissingRequiredData, request.AdsetID, "new_budget é obrigatório")
	}

	if math.IsNaN(*request.NewBudget) || math.IsInf(*request.NewBudget, 0) || *request.NewBudget <= 0 {
		return NewAdjustmentError(ErrInvalidAdjustment, apiErrors.ErrInvalidRequest, request.AdsetID, "new_budget deve ser maior que zero")
	}

	if !request.BudgetType.IsValid() {
		return NewAdjustmentError(ErrInvalidAdjustment, apiErrors.ErrInvalidRequest, request.AdsetID, "budget_type deve ser daily ou lifetime")
	}

	if strings.TrimSpace(request.Reason) == "" {
		return NewAdjustmentError(ErrInvalidAdjustment, apiErrors.ErrMissingRequiredData, request.AdsetID, "reason é obrigatório")
	}

	return nil
}

// CheckCap compara a variação pedida com o limite percentual.
// Acima do limite, sugere capped_budget na direção pedida sem substituí-lo.
func (v *Validator) CheckCap(current, requested float64) *domain.ValidationResult {
	currentDec := decimal.NewFromFloat(current)
	requestedDec := decimal.NewFromFloat(requested)

	result := &domain.ValidationResult{
		CurrentBudget:   floatPtr(current),
		RequestedBudget: floatPtr(requested),
	}

	pct := requestedDec.Sub(currentDec).Div(currentDec).Mul(hundred)
	result.AdjustmentPercentage = decimalPtr(pct.Round(2))

	if pct.Abs().LessThanOrEqual(v.maxPct) {
		result.CanAdjust = true
		return result
	}

	factor := v.maxPct.Div(hundred)
	var capped decimal.Decimal
	if pct.IsPositive() {
		capped = currentDec.Mul(decimal.NewFromInt(1).Add(factor)).RoundFloor(2)
	} else {
		capped = currentDec.Mul(decimal.NewFromInt(1).Sub(factor)).RoundCeil(2)
	}

	result.CanAdjust = false
	result.RejectionCode = domain.RejectionCapExceeded
	result.CappedBudget = decimalPtr(capped)
	result.Reason = fmt.Sprintf("variação de %s%% excede o limite de %s%%; orçamento máximo permitido: %s",
		pct.Round(2).String(), v.maxPct.String(), capped.StringFixed(2))

	return result
}

// ValidateBatch valida o lote e retorna a concorrência efetiva
func (v *Validator) ValidateBatch(request *domain.BatchAdjustmentRequest) (int, error) {
	if request == nil || len(request.Adjustments) == 0 {
		return 0, NewAdjustmentError(ErrInvalidBatch, apiErrors.ErrBatchMalformed, "", "o lote deve conter ao menos um ajuste")
	}

	if len(request.Adjustments) > v.limits.BatchMaxItems {
		return 0, NewAdjustmentError(ErrInvalidBatch, apiErrors.ErrBatchMalformed, "",
			fmt.Sprintf("o lote aceita no máximo %d ajustes", v.limits.BatchMaxItems))
	}

	if request.MaxConcurrent == nil {
		return v.limits.BatchDefaultConcurrent, nil
	}

	if *request.MaxConcurrent < 1 || *request.MaxConcurrent > v.limits.BatchMaxConcurrent {
		return 0, NewAdjustmentError(ErrInvalidBatch, apiErrors.ErrBatchMalformed, "",
			fmt.Sprintf("max_concurrent deve estar entre 1 e %d", v.limits.BatchMaxConcurrent))
	}

	return *request.MaxConcurrent, nil
}

func floatPtr(f float64) *float64 {
	return &f
}

func decimalPtr(d decimal.Decimal) *float64 {
	f, _ := d.Float64()
	return &f
}

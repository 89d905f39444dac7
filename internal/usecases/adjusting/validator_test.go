package adjusting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
	"github.com/vfg2006/goal-pacing-api/pkg/apiErrors"
)

func validRequest(adsetID string, newBudget float64) *domain.BudgetAdjustmentRequest {
	return &domain.BudgetAdjustmentRequest{
		AdsetID:    adsetID,
		NewBudget:  floatPtr(newBudget),
		BudgetType: domain.BudgetTypeDaily,
		Reason:     "ritmo atrasado",
	}
}

func TestValidator_ValidateShape(t *testing.T) {
	validator := NewValidator(DefaultLimits())

	tests := []struct {
		name    string
		request func() *domain.BudgetAdjustmentRequest
		code    string
	}{
		{
			name:    "Pedido nulo",
			request: func() *domain.BudgetAdjustmentRequest { return nil },
			code:    apiErrors.ErrInvalidRequest,
		},
		{
			name: "Sem adset_id",
			request: func() *domain.BudgetAdjustmentRequest {
				r := validRequest(" ", 100)
				return r
			},
			code: apiErrors.ErrMissingRequiredData,
		},
		{
			name: "new_budget ausente não vira zero",
			request: func() *domain.BudgetAdjustmentRequest {
				r := validRequest("adset-1", 100)
				r.NewBudget = nil
				return r
			},
			code: apiErrors.ErrMissingRequiredData,
		},
		{
			name:    "new_budget zero",
			request: func() *domain.BudgetAdjustmentRequest { return validRequest("adset-1", 0) },
			code:    apiErrors.ErrInvalidRequest,
		},
		{
			name:    "new_budget negativo",
			request: func() *domain.BudgetAdjustmentRequest { return validRequest("adset-1", -10) },
			code:    apiErrors.ErrInvalidRequest,
		},
		{
			name:    "new_budget NaN",
			request: func() *domain.BudgetAdjustmentRequest { return validRequest("adset-1", math.NaN()) },
			code:    apiErrors.ErrInvalidRequest,
		},
		{
			name: "budget_type desconhecido",
			request: func() *domain.BudgetAdjustmentRequest {
				r := validRequest("adset-1", 100)
				r.BudgetType = "weekly"
				return r
			},
			code: apiErrors.ErrInvalidRequest,
		},
		{
			name: "reason vazio",
			request: func() *domain.BudgetAdjustmentRequest {
				r := validRequest("adset-1", 100)
				r.Reason = "   "
				return r
			},
			code: apiErrors.ErrMissingRequiredData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateShape(tt.request())

			var adjErr *AdjustmentError
			require.ErrorAs(t, err, &adjErr)
			assert.Equal(t, tt.code, adjErr.Code)
			assert.ErrorIs(t, err, ErrInvalidAdjustment)
			assert.False(t, IsGuardrailBlocked(err))
		})
	}

	assert.NoError(t, validator.ValidateShape(validRequest("adset-1", 100)))
}

func TestValidator_CheckCap(t *testing.T) {
	validator := NewValidator(DefaultLimits())

	tests := []struct {
		name      string
		current   float64
		requested float64
		canAdjust bool
		pct       float64
		capped    *float64
	}{
		{name: "Aumento de 30% bloqueado com sugestão de 120", current: 100, requested: 130, canAdjust: false, pct: 30, capped: floatPtr(120)},
		{name: "Aumento de exatamente 20% aceito", current: 100, requested: 120, canAdjust: true, pct: 20},
		{name: "Redução de exatamente 20% aceita", current: 100, requested: 80, canAdjust: true, pct: -20},
		{name: "Redução de 50% bloqueada com sugestão de 80", current: 100, requested: 50, canAdjust: false, pct: -50, capped: floatPtr(80)},
		{name: "Sem variação", current: 55.5, requested: 55.5, canAdjust: true, pct: 0},
		{name: "Sugestão arredondada para baixo no aumento", current: 33.33, requested: 50, canAdjust: false, pct: 50.02, capped: floatPtr(39.99)},
		{name: "Sugestão arredondada para cima na redução", current: 33.33, requested: 10, canAdjust: false, pct: -70, capped: floatPtr(26.67)},
		{name: "Pouco acima do limite não é arredondado para dentro", current: 100, requested: 120.001, canAdjust: false, pct: 20, capped: floatPtr(120)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.CheckCap(tt.current, tt.requested)

			assert.Equal(t, tt.canAdjust, result.CanAdjust)
			require.NotNil(t, result.AdjustmentPercentage)
			assert.InDelta(t, tt.pct, *result.AdjustmentPercentage, 0.001)

			if tt.capped == nil {
				assert.Nil(t, result.CappedBudget)
				assert.Empty(t, result.RejectionCode)
				return
			}

			require.NotNil(t, result.CappedBudget)
			assert.Equal(t, *tt.capped, *result.CappedBudget)
			assert.Equal(t, domain.RejectionCapExceeded, result.RejectionCode)
			assert.NotEmpty(t, result.Reason)
		})
	}
}

func TestValidator_CheckCap_AceitosNuncaPassamDoLimite(t *testing.T) {
	validator := NewValidator(DefaultLimits())

	for current := 10.0; current <= 500; current += 37.5 {
		for requested := 1.0; requested <= 800; requested += 13.7 {
			result := validator.CheckCap(current, requested)
			if result.CanAdjust {
				assert.LessOrEqual(t, math.Abs(*result.AdjustmentPercentage), 20.0)
				continue
			}

			// A sugestão sempre respeita o limite
			capped := validator.CheckCap(current, *result.CappedBudget)
			assert.True(t, capped.CanAdjust, "capped %v from %v", *result.CappedBudget, current)
		}
	}
}

func TestValidator_ValidateBatch(t *testing.T) {
	validator := NewValidator(DefaultLimits())

	items := func(n int) []domain.BudgetAdjustmentRequest {
		out := make([]domain.BudgetAdjustmentRequest, n)
		for i := range out {
			out[i] = *validRequest("adset-1", 100)
		}
		return out
	}
	intPtr := func(v int) *int { return &v }

	tests := []struct {
		name        string
		request     *domain.BatchAdjustmentRequest
		concurrency int
		wantErr     bool
	}{
		{name: "Lote nulo", request: nil, wantErr: true},
		{name: "Lote vazio", request: &domain.BatchAdjustmentRequest{}, wantErr: true},
		{name: "Lote com 51 itens", request: &domain.BatchAdjustmentRequest{Adjustments: items(51)}, wantErr: true},
		{name: "Concorrência zero", request: &domain.BatchAdjustmentRequest{Adjustments: items(1), MaxConcurrent: intPtr(0)}, wantErr: true},
		{name: "Concorrência 11", request: &domain.BatchAdjustmentRequest{Adjustments: items(1), MaxConcurrent: intPtr(11)}, wantErr: true},
		{name: "Concorrência padrão", request: &domain.BatchAdjustmentRequest{Adjustments: items(50)}, concurrency: 3},
		{name: "Concorrência informada", request: &domain.BatchAdjustmentRequest{Adjustments: items(2), MaxConcurrent: intPtr(10)}, concurrency: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			concurrency, err := validator.ValidateBatch(tt.request)

			if tt.wantErr {
				var adjErr *AdjustmentError
				require.ErrorAs(t, err, &adjErr)
				assert.Equal(t, apiErrors.ErrBatchMalformed, adjErr.Code)
				assert.ErrorIs(t, err, ErrInvalidBatch)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.concurrency, concurrency)
		})
	}
}

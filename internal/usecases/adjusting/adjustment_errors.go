package adjusting

import (
	"errors"
	"fmt"
)

var (
	// Erros de validação, nunca registrados no log de ajustes
	ErrInvalidAdjustment = errors.New("invalid adjustment request")
	ErrInvalidBatch      = errors.New("invalid batch request")

	// Bloqueios de guardrail, registrados como rejected
	ErrCooldownActive     = errors.New("adjustment cooldown active")
	ErrCapExceeded        = errors.New("adjustment exceeds maximum percentage")
	ErrBudgetTypeMismatch = errors.New("adset does not use the requested budget type")

	// Erro da plataforma de anúncios, registrado como failed
	ErrPlatform = errors.New("advertising platform error")

	ErrDatabaseOperation = errors.New("database operation error")
	ErrInternal          = errors.New("internal error")
)

// AdjustmentError é um erro com contexto adicional para ajustes de orçamento
type AdjustmentError struct {
	Err      error
	Code     string
	EntityID string
	Details  string
}

func (e *AdjustmentError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *AdjustmentError) Unwrap() error {
	return e.Err
}

func NewAdjustmentError(err error, code string, entityID string, details string) *AdjustmentError {
	return &AdjustmentError{
		Err:      err,
		Code:     code,
		EntityID: entityID,
		Details:  details,
	}
}

// IsGuardrailBlocked indica bloqueio por cooldown, limite percentual ou tipo de orçamento
func IsGuardrailBlocked(err error) bool {
	return errors.Is(err, ErrCooldownActive) || errors.Is(err, ErrCapExceeded) || errors.Is(err, ErrBudgetTypeMismatch)
}

package pacing

import (
	"errors"
	"fmt"
)

var (
	// Erros de validação
	ErrEntityIDRequired = errors.New("entity ID is required")
	ErrInvalidGoal      = errors.New("invalid goal")

	ErrGoalNotFound = errors.New("goal not found")

	// Erros de serviços externos
	ErrLeadMetrics = errors.New("error fetching lead metrics from Meta")

	// Erros de banco de dados
	ErrDatabaseOperation = errors.New("database operation error")
)

// GoalError é um erro com contexto adicional para metas
type GoalError struct {
	Err      error
	Code     string
	EntityID string
	Details  string
}

func (e *GoalError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *GoalError) Unwrap() error {
	return e.Err
}

func NewGoalError(err error, code string, entityID string, details string) *GoalError {
	return &GoalError{
		Err:      err,
		Code:     code,
		EntityID: entityID,
		Details:  details,
	}
}

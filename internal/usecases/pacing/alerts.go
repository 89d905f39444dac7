package pacing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
)

const goalMissingMessage = "Meta não cadastrada ou com campos obrigatórios ausentes; cálculo de ritmo não realizado"

// MissingGoalAlert é o alerta crítico emitido quando não há meta válida
func MissingGoalAlert(entityID string, now time.Time) *domain.Alert {
	return newAlert(entityID, domain.AlertTypeGoalMissing, domain.AlertSeverityCritical, goalMissingMessage, now)
}

// DeviationAlerts gera um alerta por condição de desvio encontrada nesta avaliação.
// Não há deduplicação: a mesma condição gera um novo alerta a cada avaliação.
func DeviationAlerts(goal domain.Goal, m domain.PaceMetrics, status domain.PaceStatus, now time.Time) []*domain.Alert {
	alerts := make([]*domain.Alert, 0)

	switch status {
	case domain.PaceStatusBehind:
		alerts = append(alerts, newAlert(goal.EntityID, domain.AlertTypePaceBehind, domain.AlertSeverityWarning,
			fmt.Sprintf("Ritmo atrasado: %d leads ontem para %.2f necessários por dia", m.LeadsYesterday, m.LeadsNeededDaily), now))
	case domain.PaceStatusAttention:
		alerts = append(alerts, newAlert(goal.EntityID, domain.AlertTypePaceAttention, domain.AlertSeverityInfo,
			fmt.Sprintf("Ritmo em atenção: %d leads ontem para %.2f necessários por dia", m.LeadsYesterday, m.LeadsNeededDaily), now))
	}

	if m.ProjectedFinalCPL != nil && *m.ProjectedFinalCPL > goal.CPLTarget {
		alerts = append(alerts, newAlert(goal.EntityID, domain.AlertTypeCPLAboveTarget, domain.AlertSeverityWarning,
			fmt.Sprintf("CPL projetado de %.2f acima da meta de %.2f", *m.ProjectedFinalCPL, goal.CPLTarget), now))
	}

	if m.BudgetUtilizationPercentage != nil && *m.BudgetUtilizationPercentage > 100 {
		alerts = append(alerts, newAlert(goal.EntityID, domain.AlertTypeBudgetOverspend, domain.AlertSeverityWarning,
			fmt.Sprintf("Investimento de %.2f%% do orçamento total do contrato", *m.BudgetUtilizationPercentage), now))
	}

	return alerts
}

func newAlert(entityID string, alertType domain.AlertType, severity domain.AlertSeverity, message string, now time.Time) *domain.Alert {
	return &domain.Alert{
		ID:        uuid.NewString(),
		EntityID:  entityID,
		Type:      alertType,
		Severity:  severity,
		Message:   message,
		CreatedAt: now,
	}
}

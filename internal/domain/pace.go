package domain

import "time"

type PaceStatus string

const (
	PaceStatusOnTrack   PaceStatus = "no_prazo"
	PaceStatusAttention PaceStatus = "atencao"
	PaceStatusBehind    PaceStatus = "atrasado"
	PaceStatusCritical  PaceStatus = "critico"
)

// PaceMetrics é o resultado do cálculo de ritmo. Campos ponteiro são null
// quando o divisor correspondente é zero.
type PaceMetrics struct {
	DaysTotal                   int      `json:"days_total"`
	DaysElapsed                 int      `json:"days_elapsed"`
	DaysRemaining               int      `json:"days_remaining"`
	LeadsInPeriod               int      `json:"leads_in_period"`
	LeadsYesterday              int      `json:"leads_yesterday"`
	LeadsNeededTotal            int      `json:"leads_needed_total"`
	LeadsNeededDaily            float64  `json:"leads_needed_daily"`
	DailyAverageLeads           float64  `json:"daily_average_leads"`
	BudgetDaily                 float64  `json:"budget_daily"`
	BudgetSpentEstimated        float64  `json:"budget_spent_estimated"`
	BudgetRemaining             float64  `json:"budget_remaining"`
	SpendToDate                 float64  `json:"spend_to_date"`
	BudgetUtilizationPercentage *float64 `json:"budget_utilization_percentage"`
	ProgressPercentage          *float64 `json:"progress_percentage"`
	ProjectedFinalLeads         float64  `json:"projected_final_leads"`
	ProjectedFinalCPL           *float64 `json:"projected_final_cpl"`
}

// PaceEvaluation é uma avaliação pontual: métricas, status e alertas gerados
type PaceEvaluation struct {
	EntityID    string       `json:"entity_id"`
	EvaluatedAt time.Time    `json:"evaluated_at"`
	Status      PaceStatus   `json:"status"`
	Metrics     *PaceMetrics `json:"metrics,omitempty"`
	Alerts      []*Alert     `json:"alerts"`
}

// ProgressSnapshot é imutável: um por entidade por dia
type ProgressSnapshot struct {
	ID           int64       `json:"id"`
	EntityID     string      `json:"entity_id"`
	SnapshotDate time.Time   `json:"snapshot_date"`
	Status       PaceStatus  `json:"status"`
	Metrics      PaceMetrics `json:"metrics"`
	CreatedAt    time.Time   `json:"created_at"`
}

type GoalProgress struct {
	EntityID string              `json:"entity_id"`
	Goal     *Goal               `json:"goal,omitempty"`
	Current  *PaceEvaluation     `json:"current"`
	History  []*ProgressSnapshot `json:"history"`
}

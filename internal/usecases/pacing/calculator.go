package pacing

import (
	"time"

	"github.com/vfg2006/goal-pacing-api/internal/domain"
	"github.com/vfg2006/goal-pacing-api/pkg/utils"
)

// ComputePace calcula as métricas de ritmo de uma meta numa data.
// Não tem efeitos colaterais: mesmas entradas, mesma saída.
// today deve ser uma data do calendário canônico (ver Calendar.DateOf).
func ComputePace(goal domain.Goal, leads domain.LeadMetrics, today time.Time) domain.PaceMetrics {
	start := DateOnly(goal.ContractStartDate)
	end := DateOnly(goal.ContractEndDate)
	today = DateOnly(today)

	daysTotal := max(0, DaysBetween(start, end))
	daysElapsed := max(0, DaysBetween(start, today))
	daysRemaining := max(0, DaysBetween(today, end))

	m := domain.PaceMetrics{
		DaysTotal:        daysTotal,
		DaysElapsed:      daysElapsed,
		DaysRemaining:    daysRemaining,
		LeadsInPeriod:    leads.LeadsInPeriod,
		LeadsYesterday:   leads.LeadsYesterday,
		LeadsNeededTotal: goal.VolumeContracted - goal.VolumeCaptured,
		SpendToDate:      utils.RoundTwoPlaces(leads.SpendToDate),
	}

	if m.LeadsNeededTotal > 0 && daysRemaining > 0 {
		m.LeadsNeededDaily = float64(m.LeadsNeededTotal) / float64(daysRemaining)
	}

	if daysTotal > 0 {
		budgetDaily := goal.BudgetTotal / float64(daysTotal)
		m.BudgetDaily = utils.RoundTwoPlaces(budgetDaily)
		m.BudgetSpentEstimated = utils.RoundTwoPlaces(budgetDaily * float64(daysElapsed))
	}
	m.BudgetRemaining = utils.RoundTwoPlaces(goal.BudgetTotal - m.BudgetSpentEstimated)

	if goal.VolumeContracted > 0 {
		progress := 100 * float64(goal.VolumeCaptured) / float64(goal.VolumeContracted)
		progress = utils.RoundTwoPlaces(min(100, max(0, progress)))
		m.ProgressPercentage = &progress
	}

	if daysElapsed > 0 {
		m.DailyAverageLeads = float64(leads.LeadsInPeriod) / float64(daysElapsed)
	}

	m.ProjectedFinalLeads = float64(goal.VolumeCaptured)
	if daysRemaining > 0 {
		m.ProjectedFinalLeads += m.DailyAverageLeads * float64(daysRemaining)
	}

	if m.ProjectedFinalLeads > 0 {
		cpl := utils.RoundTwoPlaces(leads.SpendToDate / m.ProjectedFinalLeads)
		m.ProjectedFinalCPL = &cpl
	}

	if goal.BudgetTotal > 0 {
		utilization := utils.RoundTwoPlaces(100 * leads.SpendToDate / goal.BudgetTotal)
		m.BudgetUtilizationPercentage = &utilization
	}

	return m
}

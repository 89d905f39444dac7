package domain

import (
	"math"
	"time"
)

// Goal é a meta contratual de um conjunto de anúncios (adset)
type Goal struct {
	ID                string    `json:"id"`
	EntityID          string    `json:"entity_id"`
	BudgetTotal       float64   `json:"budget_total"`
	CPLTarget         float64   `json:"cpl_target"`
	VolumeContracted  int       `json:"volume_contracted"`
	VolumeCaptured    int       `json:"volume_captured"`
	ContractStartDate time.Time `json:"contract_start_date"`
	ContractEndDate   time.Time `json:"contract_end_date"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// MissingFields lista os campos obrigatórios ausentes ou não numéricos.
// Uma meta com campos ausentes não pode ter o ritmo calculado.
func (g *Goal) MissingFields() []string {
	if g == nil {
		return []string{"goal"}
	}

	missing := make([]string, 0)
	if g.EntityID == "" {
		missing = append(missing, "entity_id")
	}
	if !isPositiveNumber(g.BudgetTotal) {
		missing = append(missing, "budget_total")
	}
	if !isPositiveNumber(g.CPLTarget) {
		missing = append(missing, "cpl_target")
	}
	if g.ContractStartDate.IsZero() {
		missing = append(missing, "contract_start_date")
	}
	if g.ContractEndDate.IsZero() {
		missing = append(missing, "contract_end_date")
	}
	return missing
}

func isPositiveNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// UpsertGoalRequest usa ponteiros para diferenciar campo ausente de zero
type UpsertGoalRequest struct {
	EntityID          string   `json:"-"`
	BudgetTotal       *float64 `json:"budget_total"`
	CPLTarget         *float64 `json:"cpl_target"`
	VolumeContracted  *int     `json:"volume_contracted"`
	VolumeCaptured    *int     `json:"volume_captured"`
	ContractStartDate *string  `json:"contract_start_date"`
	ContractEndDate   *string  `json:"contract_end_date"`
}

// LeadMetrics são os números lidos da plataforma de anúncios para o período do contrato
type LeadMetrics struct {
	LeadsInPeriod  int     `json:"leads_in_period"`
	LeadsYesterday int     `json:"leads_yesterday"`
	SpendToDate    float64 `json:"spend_to_date"`
}

// LeadPeriod delimita a consulta de leads, em datas do calendário canônico
type LeadPeriod struct {
	Since     time.Time
	Until     time.Time
	Yesterday time.Time
}

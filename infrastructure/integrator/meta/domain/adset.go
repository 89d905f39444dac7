package metadomain

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Adset é a representação do conjunto de anúncios na Graph API.
// Orçamentos vêm em centavos, como string.
type Adset struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CampaignID     string `json:"campaign_id"`
	DailyBudget    string `json:"daily_budget"`
	LifetimeBudget string `json:"lifetime_budget"`
	Status         string `json:"status"`
}

type Action struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next,omitempty"`
}

// AdsetInsight é uma linha diária de insights (time_increment=1)
type AdsetInsight struct {
	AdsetID   string   `json:"adset_id"`
	DateStart string   `json:"date_start"`
	DateStop  string   `json:"date_stop"`
	Spend     string   `json:"spend"`
	Actions   []Action `json:"actions"`
}

type AdsetInsightsResponse struct {
	Data   []AdsetInsight `json:"data"`
	Paging Paging         `json:"paging"`
}

type UpdateResponse struct {
	Success bool `json:"success"`
}

// Tipos de ação que contam como lead, em ordem de preferência.
// "lead" já agrega os demais quando presente.
var LeadActionTypes = []string{
	"lead",
	"onsite_conversion.lead_grouped",
	"offsite_conversion.fb_pixel_lead",
}

// Leads retorna o número de leads do dia, sem somar tipos sobrepostos
func (i *AdsetInsight) Leads() int {
	for _, leadType := range LeadActionTypes {
		for _, action := range i.Actions {
			if action.ActionType != leadType {
				continue
			}
			value, err := strconv.Atoi(action.Value)
			if err != nil {
				logrus.WithError(err).WithField("action_type", action.ActionType).Warn("meta: invalid lead action value")
				return 0
			}
			return value
		}
	}
	return 0
}

func (i *AdsetInsight) SpendAmount() decimal.Decimal {
	if i.Spend == "" {
		return decimal.Zero
	}
	spend, err := decimal.NewFromString(i.Spend)
	if err != nil {
		logrus.WithError(err).WithField("spend", i.Spend).Warn("meta: invalid spend value")
		return decimal.Zero
	}
	return spend
}

var centsPerUnit = decimal.NewFromInt(100)

// CentsToAmount converte o orçamento em centavos para unidades monetárias
func CentsToAmount(cents string) (*float64, error) {
	if cents == "" || cents == "0" {
		return nil, nil
	}
	d, err := decimal.NewFromString(cents)
	if err != nil {
		return nil, err
	}
	amount, _ := d.Div(centsPerUnit).Round(2).Float64()
	return &amount, nil
}

// AmountToCents converte unidades monetárias para o valor em centavos da API
func AmountToCents(amount float64) string {
	return decimal.NewFromFloat(amount).Mul(centsPerUnit).Round(0).String()
}

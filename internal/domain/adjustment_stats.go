package domain

import "time"

type TimelineGroup string

const (
	TimelineGroupHour  TimelineGroup = "hour"
	TimelineGroupDay   TimelineGroup = "day"
	TimelineGroupWeek  TimelineGroup = "week"
	TimelineGroupMonth TimelineGroup = "month"
)

func (g TimelineGroup) IsValid() bool {
	switch g {
	case TimelineGroupHour, TimelineGroupDay, TimelineGroupWeek, TimelineGroupMonth:
		return true
	}
	return false
}

type AdjustmentStatsFilter struct {
	EntityID    string
	CampaignID  string
	PeriodHours int
	GroupBy     TimelineGroup
}

// AdjustmentLogFilter é o filtro de leitura do log de ajustes
type AdjustmentLogFilter struct {
	EntityID   string
	CampaignID string
	Since      time.Time
}

type AdjustmentStats struct {
	EntityID                string     `json:"entity_id,omitempty"`
	CampaignID              string     `json:"campaign_id,omitempty"`
	PeriodHours             int        `json:"period_hours"`
	TotalAdjustments        int        `json:"total_adjustments"`
	SuccessfulAdjustments   int        `json:"successful_adjustments"`
	FailedAdjustments       int        `json:"failed_adjustments"`
	RejectedAdjustments     int        `json:"rejected_adjustments"`
	AvgAdjustmentPercentage float64    `json:"avg_adjustment_percentage"`
	TotalBudgetChange       float64    `json:"total_budget_change"`
	CanAdjustNow            *bool      `json:"can_adjust_now,omitempty"`
	LastAppliedAt           *time.Time `json:"last_applied_at,omitempty"`
	NextAllowedAt           *time.Time `json:"next_allowed_at,omitempty"`
}

type TimelineBucket struct {
	BucketStart       time.Time `json:"bucket_start"`
	Total             int       `json:"total"`
	Successful        int       `json:"successful"`
	Failed            int       `json:"failed"`
	Rejected          int       `json:"rejected"`
	TotalBudgetChange float64   `json:"total_budget_change"`
}

type AdjustmentStatsReport struct {
	Success  bool              `json:"success"`
	Stats    *AdjustmentStats  `json:"stats"`
	Timeline []*TimelineBucket `json:"timeline,omitempty"`
}

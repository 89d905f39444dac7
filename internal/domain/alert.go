package domain

import "time"

type AlertSeverity string

const (
	AlertSeverityCritical AlertSeverity = "critical"
	AlertSeverityWarning  AlertSeverity = "warning"
	AlertSeverityInfo     AlertSeverity = "info"
)

type AlertType string

const (
	AlertTypeGoalMissing     AlertType = "goal_missing"
	AlertTypePaceBehind      AlertType = "pace_behind"
	AlertTypePaceAttention   AlertType = "pace_attention"
	AlertTypeCPLAboveTarget  AlertType = "cpl_above_target"
	AlertTypeBudgetOverspend AlertType = "budget_overspend"
)

type Alert struct {
	ID        string        `json:"id"`
	EntityID  string        `json:"entity_id"`
	Type      AlertType     `json:"type"`
	Severity  AlertSeverity `json:"severity"`
	Message   string        `json:"message"`
	Resolved  bool          `json:"resolved"`
	CreatedAt time.Time     `json:"created_at"`
}

package pacing

import (
	"time"

	"github.com/vfg2006/goal-pacing-api/internal/domain"
)

// Engine combina cálculo, classificação e geração de alertas
type Engine struct {
	calendar   Calendar
	classifier Classifier
}

func NewEngine(calendar Calendar, classifier Classifier) *Engine {
	return &Engine{
		calendar:   calendar,
		classifier: classifier,
	}
}

func (e *Engine) Calendar() Calendar {
	return e.calendar
}

// Evaluate avalia uma meta no instante now. Meta ausente ou incompleta
// resulta em status critico sem nenhum cálculo de ritmo.
func (e *Engine) Evaluate(entityID string, goal *domain.Goal, leads domain.LeadMetrics, now time.Time) *domain.PaceEvaluation {
	eval := &domain.PaceEvaluation{
		EntityID:    entityID,
		EvaluatedAt: now,
	}

	if goal == nil || len(goal.MissingFields()) > 0 {
		eval.Status = domain.PaceStatusCritical
		eval.Alerts = []*domain.Alert{MissingGoalAlert(entityID, now)}
		return eval
	}

	metrics := ComputePace(*goal, leads, e.calendar.DateOf(now))
	eval.Metrics = &metrics
	eval.Status = e.classifier.Classify(metrics)

	if eval.Status == domain.PaceStatusCritical {
		eval.Alerts = []*domain.Alert{MissingGoalAlert(entityID, now)}
		return eval
	}

	eval.Alerts = DeviationAlerts(*goal, metrics, eval.Status, now)
	return eval
}

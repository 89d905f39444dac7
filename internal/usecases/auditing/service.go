package auditing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/goal-pacing-api/infrastructure/repository"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/adjusting"
	"github.com/vfg2006/goal-pacing-api/pkg/apiErrors"
)

const (
	DefaultPeriodHours = 24
	MaxPeriodHours     = 24 * 365
)

var (
	ErrInvalidFilter     = errors.New("invalid stats filter")
	ErrDatabaseOperation = errors.New("database operation error")
)

// StatsError segue o mesmo formato dos demais erros de caso de uso
type StatsError struct {
	Err     error
	Code    string
	Details string
}

func (e *StatsError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *StatsError) Unwrap() error {
	return e.Err
}

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks
type StatsService interface {
	GetStats(ctx context.Context, filter domain.AdjustmentStatsFilter) (*domain.AdjustmentStatsReport, error)
}

type Service struct {
	repository repository.BudgetAdjustmentRepository
	limiter    *adjusting.CooldownLimiter
	location   *time.Location
}

func NewService(repository repository.BudgetAdjustmentRepository, limiter *adjusting.CooldownLimiter, location *time.Location) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		repository: repository,
		limiter:    limiter,
		location:   location,
	}
}

// GetStats agrega o log de ajustes do período. can_adjust_now usa a mesma regra
// de cooldown do executor, lida do log completo e não só do período.
func (s *Service) GetStats(ctx context.Context, filter domain.AdjustmentStatsFilter) (*domain.AdjustmentStatsReport, error) {
	if filter.EntityID == "" && filter.CampaignID == "" {
		return nil, &StatsError{Err: ErrInvalidFilter, Code: apiErrors.ErrMissingRequiredData, Details: "adset_id ou campaign_id é obrigatório"}
	}

	if filter.PeriodHours == 0 {
		filter.PeriodHours = DefaultPeriodHours
	}
	if filter.PeriodHours < 1 || filter.PeriodHours > MaxPeriodHours {
		return nil, &StatsError{Err: ErrInvalidFilter, Code: apiErrors.ErrInvalidRequest, Details: fmt.Sprintf("period_hours deve estar entre 1 e %d", MaxPeriodHours)}
	}

	if filter.GroupBy != "" && !filter.GroupBy.IsValid() {
		return nil, &StatsError{Err: ErrInvalidFilter, Code: apiErrors.ErrInvalidRequest, Details: "group_by deve ser hour, day, week ou month"}
	}

	now := s.limiter.Now()
	logs, err := s.repository.List(ctx, domain.AdjustmentLogFilter{
		EntityID:   filter.EntityID,
		CampaignID: filter.CampaignID,
		Since:      now.Add(-time.Duration(filter.PeriodHours) * time.Hour),
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"entity_id":   filter.EntityID,
			"campaign_id": filter.CampaignID,
			"error":       err.Error(),
		}).Error("stats: failed to list adjustment logs")
		return nil, &StatsError{Err: ErrDatabaseOperation, Code: apiErrors.ErrDatabaseOperation, Details: "Falha ao consultar log de ajustes"}
	}

	stats := Aggregate(logs)
	stats.EntityID = filter.EntityID
	stats.CampaignID = filter.CampaignID
	stats.PeriodHours = filter.PeriodHours

	// Cooldown é por entidade; para campanha o campo fica ausente
	if filter.EntityID != "" {
		cooldown, err := s.limiter.Check(ctx, s.repository, filter.EntityID)
		if err != nil {
			logrus.WithField("entity_id", filter.EntityID).WithError(err).Error("stats: failed to check cooldown")
			return nil, &StatsError{Err: ErrDatabaseOperation, Code: apiErrors.ErrDatabaseOperation, Details: "Falha ao consultar cooldown"}
		}
		stats.CanAdjustNow = &cooldown.Allowed
		stats.LastAppliedAt = cooldown.LastAppliedAt
		stats.NextAllowedAt = cooldown.NextAllowedAt
	}

	report := &domain.AdjustmentStatsReport{
		Success: true,
		Stats:   stats,
	}

	if filter.GroupBy != "" {
		report.Timeline = BuildTimeline(logs, filter.GroupBy, s.location)
	}

	return report, nil
}

// Aggregate calcula os totais. Percentual médio e variação total consideram só ajustes aplicados.
func Aggregate(logs []*domain.BudgetAdjustmentLog) *domain.AdjustmentStats {
	stats := &domain.AdjustmentStats{}

	pctSum := decimal.Zero
	pctCount := 0
	change := decimal.Zero

	for _, log := range logs {
		stats.TotalAdjustments++

		switch log.Status {
		case domain.AdjustmentStatusApplied:
			stats.SuccessfulAdjustments++
			if log.AdjustmentPercentage != nil {
				pctSum = pctSum.Add(decimal.NewFromFloat(*log.AdjustmentPercentage))
				pctCount++
			}
			if log.AdjustmentAmount != nil {
				change = change.Add(decimal.NewFromFloat(*log.AdjustmentAmount))
			}
		case domain.AdjustmentStatusFailed:
			stats.FailedAdjustments++
		case domain.AdjustmentStatusRejected:
			stats.RejectedAdjustments++
		}
	}

	if pctCount > 0 {
		stats.AvgAdjustmentPercentage, _ = pctSum.Div(decimal.NewFromInt(int64(pctCount))).Round(2).Float64()
	}
	stats.TotalBudgetChange, _ = change.Round(2).Float64()

	return stats
}

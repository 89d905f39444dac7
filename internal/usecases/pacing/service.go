package pacing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/goal-pacing-api/infrastructure/integrator/meta"
	"github.com/vfg2006/goal-pacing-api/infrastructure/repository"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
	"github.com/vfg2006/goal-pacing-api/pkg/apiErrors"
	"github.com/vfg2006/goal-pacing-api/pkg/utils"
)

const (
	DefaultHistoryDays = 30
	MaxHistoryDays     = 365
	DefaultAlertsLimit = 50
	MaxAlertsLimit     = 500
)

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks
type GoalTracker interface {
	UpsertGoal(ctx context.Context, request *domain.UpsertGoalRequest) (*domain.Goal, error)
	GetGoal(ctx context.Context, entityID string) (*domain.Goal, error)
	DeleteGoal(ctx context.Context, entityID string) error
	GetProgress(ctx context.Context, entityID string, historyDays int) (*domain.GoalProgress, error)
	GetAlerts(ctx context.Context, entityID string, limit int) ([]*domain.Alert, error)
	Evaluate(ctx context.Context, entityID string) (*domain.PaceEvaluation, error)
	ListTrackedEntities(ctx context.Context) ([]string, error)
}

type Service struct {
	goalRepository     repository.GoalRepository
	snapshotRepository repository.ProgressSnapshotRepository
	alertRepository    repository.AlertRepository
	metaService        meta.AdsetIntegrator
	engine             *Engine
	now                func() time.Time
}

func NewService(
	goalRepository repository.GoalRepository,
	snapshotRepository repository.ProgressSnapshotRepository,
	alertRepository repository.AlertRepository,
	metaService meta.AdsetIntegrator,
	engine *Engine,
) *Service {
	return &Service{
		goalRepository:     goalRepository,
		snapshotRepository: snapshotRepository,
		alertRepository:    alertRepository,
		metaService:        metaService,
		engine:             engine,
		now:                time.Now,
	}
}

// WithClock substitui o relógio usado nas avaliações
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) UpsertGoal(ctx context.Context, request *domain.UpsertGoalRequest) (*domain.Goal, error) {
	goal, err := goalFromRequest(request)
	if err != nil {
		return nil, err
	}

	saved, err := s.goalRepository.Upsert(ctx, goal)
	if errors.Is(err, repository.ErrGoalConstraint) {
		logrus.WithFields(logrus.Fields{
			"entity_id": goal.EntityID,
			"error":     err.Error(),
		}).Warn("goals: goal rejected by table constraints")
		return nil, NewGoalError(ErrInvalidGoal, apiErrors.ErrInvalidGoal, goal.EntityID, "meta viola as restrições do cadastro")
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"entity_id": goal.EntityID,
			"error":     err.Error(),
		}).Error("goals: failed to upsert goal")
		return nil, NewGoalError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, goal.EntityID, "Falha ao salvar meta")
	}

	logrus.WithField("entity_id", saved.EntityID).Info("goals: goal upserted")
	return saved, nil
}

func (s *Service) GetGoal(ctx context.Context, entityID string) (*domain.Goal, error) {
	if entityID == "" {
		return nil, NewGoalError(ErrEntityIDRequired, apiErrors.ErrMissingRequiredData, entityID, "entity_id é obrigatório")
	}

	goal, err := s.goalRepository.GetByEntityID(ctx, entityID)
	if err != nil {
		logrus.WithField("entity_id", entityID).WithError(err).Error("goals: failed to get goal")
		return nil, NewGoalError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, entityID, "Falha ao consultar meta")
	}

	if goal == nil {
		return nil, NewGoalError(ErrGoalNotFound, apiErrors.ErrGoalNotFound, entityID, "Meta não encontrada")
	}

	return goal, nil
}

func (s *Service) DeleteGoal(ctx context.Context, entityID string) error {
	if entityID == "" {
		return NewGoalError(ErrEntityIDRequired, apiErrors.ErrMissingRequiredData, entityID, "entity_id é obrigatório")
	}

	deleted, err := s.goalRepository.Delete(ctx, entityID)
	if err != nil {
		logrus.WithField("entity_id", entityID).WithError(err).Error("goals: failed to delete goal")
		return NewGoalError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, entityID, "Falha ao remover meta")
	}

	if !deleted {
		return NewGoalError(ErrGoalNotFound, apiErrors.ErrGoalNotFound, entityID, "Meta não encontrada")
	}

	logrus.WithField("entity_id", entityID).Info("goals: goal deleted")
	return nil
}

// GetProgress avalia o ritmo atual sem persistir nada e anexa o histórico de snapshots
func (s *Service) GetProgress(ctx context.Context, entityID string, historyDays int) (*domain.GoalProgress, error) {
	if entityID == "" {
		return nil, NewGoalError(ErrEntityIDRequired, apiErrors.ErrMissingRequiredData, entityID, "entity_id é obrigatório")
	}

	historyDays = clamp(historyDays, DefaultHistoryDays, MaxHistoryDays)

	goal, eval, err := s.evaluate(ctx, entityID)
	if err != nil {
		return nil, err
	}

	since := s.engine.Calendar().DateOf(s.now()).AddDate(0, 0, -historyDays)
	history, err := s.snapshotRepository.ListByEntity(ctx, entityID, since)
	if err != nil {
		logrus.WithField("entity_id", entityID).WithError(err).Error("goals: failed to list progress history")
		return nil, NewGoalError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, entityID, "Falha ao consultar histórico de progresso")
	}

	return &domain.GoalProgress{
		EntityID: entityID,
		Goal:     goal,
		Current:  eval,
		History:  history,
	}, nil
}

func (s *Service) GetAlerts(ctx context.Context, entityID string, limit int) ([]*domain.Alert, error) {
	if entityID == "" {
		return nil, NewGoalError(ErrEntityIDRequired, apiErrors.ErrMissingRequiredData, entityID, "entity_id é obrigatório")
	}

	alerts, err := s.alertRepository.ListByEntity(ctx, entityID, clamp(limit, DefaultAlertsLimit, MaxAlertsLimit))
	if err != nil {
		logrus.WithField("entity_id", entityID).WithError(err).Error("goals: failed to list alerts")
		return nil, NewGoalError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, entityID, "Falha ao consultar alertas")
	}

	return alerts, nil
}

// Evaluate calcula o ritmo, grava o snapshot do dia (se ainda não existir) e os alertas gerados
func (s *Service) Evaluate(ctx context.Context, entityID string) (*domain.PaceEvaluation, error) {
	_, eval, err := s.evaluate(ctx, entityID)
	if err != nil {
		return nil, err
	}

	if eval.Metrics != nil {
		snapshot := &domain.ProgressSnapshot{
			EntityID:     entityID,
			SnapshotDate: s.engine.Calendar().DateOf(eval.EvaluatedAt),
			Status:       eval.Status,
			Metrics:      *eval.Metrics,
			CreatedAt:    eval.EvaluatedAt,
		}

		inserted, err := s.snapshotRepository.InsertIfAbsent(ctx, snapshot)
		if err != nil {
			logrus.WithField("entity_id", entityID).WithError(err).Error("goals: failed to save progress snapshot")
			return nil, NewGoalError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, entityID, "Falha ao salvar snapshot de progresso")
		}

		if !inserted {
			logrus.WithFields(logrus.Fields{
				"entity_id":     entityID,
				"snapshot_date": utils.FormatDate(snapshot.SnapshotDate),
			}).Debug("goals: snapshot already exists for the day")
		}
	}

	if len(eval.Alerts) > 0 {
		if err := s.alertRepository.SaveAll(ctx, eval.Alerts); err != nil {
			logrus.WithField("entity_id", entityID).WithError(err).Error("goals: failed to save alerts")
			return nil, NewGoalError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, entityID, "Falha ao salvar alertas")
		}
	}

	logrus.WithFields(logrus.Fields{
		"entity_id": entityID,
		"status":    eval.Status,
		"alerts":    len(eval.Alerts),
	}).Info("goals: entity evaluated")

	return eval, nil
}

func (s *Service) ListTrackedEntities(ctx context.Context) ([]string, error) {
	entityIDs, err := s.goalRepository.ListActiveEntityIDs(ctx, s.engine.Calendar().DateOf(s.now()))
	if err != nil {
		logrus.WithError(err).Error("goals: failed to list tracked entities")
		return nil, NewGoalError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "", "Falha ao listar metas ativas")
	}
	return entityIDs, nil
}

func (s *Service) evaluate(ctx context.Context, entityID string) (*domain.Goal, *domain.PaceEvaluation, error) {
	if entityID == "" {
		return nil, nil, NewGoalError(ErrEntityIDRequired, apiErrors.ErrMissingRequiredData, entityID, "entity_id é obrigatório")
	}

	now := s.now()

	goal, err := s.goalRepository.GetByEntityID(ctx, entityID)
	if err != nil {
		logrus.WithField("entity_id", entityID).WithError(err).Error("goals: failed to get goal")
		return nil, nil, NewGoalError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, entityID, "Falha ao consultar meta")
	}

	// Meta ausente ou incompleta: status critico sem consultar a plataforma
	if goal == nil || len(goal.MissingFields()) > 0 {
		return goal, s.engine.Evaluate(entityID, goal, domain.LeadMetrics{}, now), nil
	}

	leads, err := s.fetchLeadMetrics(ctx, goal, now)
	if err != nil {
		return nil, nil, err
	}

	return goal, s.engine.Evaluate(entityID, goal, leads, now), nil
}

// fetchLeadMetrics lê os leads do início do contrato até hoje (ou até o fim do contrato)
func (s *Service) fetchLeadMetrics(ctx context.Context, goal *domain.Goal, now time.Time) (domain.LeadMetrics, error) {
	today := s.engine.Calendar().DateOf(now)
	period := domain.LeadPeriod{
		Since:     DateOnly(goal.ContractStartDate),
		Until:     today,
		Yesterday: today.AddDate(0, 0, -1),
	}

	if end := DateOnly(goal.ContractEndDate); period.Until.After(end) {
		period.Until = end
	}

	// Contrato ainda não começou
	if period.Until.Before(period.Since) {
		return domain.LeadMetrics{}, nil
	}

	leads, err := s.metaService.GetAdsetLeadMetrics(ctx, goal.EntityID, period)
	if err != nil {
		var platformErr *domain.PlatformError
		if errors.As(err, &platformErr) {
			return domain.LeadMetrics{}, NewGoalError(ErrLeadMetrics, apiErrors.ErrExternalService, goal.EntityID, platformErr.Message)
		}
		return domain.LeadMetrics{}, NewGoalError(ErrLeadMetrics, apiErrors.ErrExternalService, goal.EntityID, err.Error())
	}

	return *leads, nil
}

func goalFromRequest(request *domain.UpsertGoalRequest) (*domain.Goal, error) {
	if request == nil || request.EntityID == "" {
		return nil, NewGoalError(ErrEntityIDRequired, apiErrors.ErrMissingRequiredData, "", "entity_id é obrigatório")
	}

	entityID := request.EntityID
	missing := make([]string, 0)
	if request.BudgetTotal == nil {
		missing = append(missing, "budget_total")
	}
	if request.CPLTarget == nil {
		missing = append(missing, "cpl_target")
	}
	if request.VolumeContracted == nil {
		missing = append(missing, "volume_contracted")
	}
	if request.ContractStartDate == nil {
		missing = append(missing, "contract_start_date")
	}
	if request.ContractEndDate == nil {
		missing = append(missing, "contract_end_date")
	}
	if len(missing) > 0 {
		return nil, NewGoalError(ErrInvalidGoal, apiErrors.ErrMissingRequiredData, entityID, fmt.Sprintf("campos obrigatórios ausentes: %v", missing))
	}

	start, err := utils.ParseDate(*request.ContractStartDate, time.UTC)
	if err != nil {
		return nil, NewGoalError(ErrInvalidGoal, apiErrors.ErrInvalidFormat, entityID, "contract_start_date deve estar no formato YYYY-MM-DD")
	}

	end, err := utils.ParseDate(*request.ContractEndDate, time.UTC)
	if err != nil {
		return nil, NewGoalError(ErrInvalidGoal, apiErrors.ErrInvalidFormat, entityID, "contract_end_date deve estar no formato YYYY-MM-DD")
	}

	captured := 0
	if request.VolumeCaptured != nil {
		captured = *request.VolumeCaptured
	}

	goal := &domain.Goal{
		EntityID:          entityID,
		BudgetTotal:       *request.BudgetTotal,
		CPLTarget:         *request.CPLTarget,
		VolumeContracted:  *request.VolumeContracted,
		VolumeCaptured:    captured,
		ContractStartDate: start,
		ContractEndDate:   end,
	}

	if err := ValidateGoal(goal); err != nil {
		return nil, err
	}

	return goal, nil
}

// ValidateGoal verifica os invariantes da meta
func ValidateGoal(goal *domain.Goal) error {
	if missing := goal.MissingFields(); len(missing) > 0 {
		return NewGoalError(ErrInvalidGoal, apiErrors.ErrInvalidGoal, goal.EntityID, fmt.Sprintf("campos inválidos: %v", missing))
	}

	if !goal.ContractStartDate.Before(goal.ContractEndDate) {
		return NewGoalError(ErrInvalidGoal, apiErrors.ErrInvalidGoal, goal.EntityID, "contract_start_date deve ser anterior a contract_end_date")
	}

	if goal.VolumeContracted < 0 || goal.VolumeCaptured < 0 || goal.VolumeCaptured > goal.VolumeContracted {
		return NewGoalError(ErrInvalidGoal, apiErrors.ErrInvalidGoal, goal.EntityID, "volume_captured deve estar entre 0 e volume_contracted")
	}

	return nil
}

func clamp(value, fallback, max int) int {
	if value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

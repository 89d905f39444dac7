package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/vfg2006/goal-pacing-api/infrastructure/database/postgres"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
)

const (
	budgetAdjustmentLogsTable   = "budget_adjustment_logs bal"
	budgetAdjustmentLogsColumns = "bal.id, bal.entity_id, bal.campaign_id, bal.budget_type, bal.current_budget, bal.requested_budget, bal.status, bal.adjustment_percentage, bal.adjustment_amount, bal.reason, bal.requesting_user, bal.rejection_reason, bal.error_message, bal.batch_id, bal.created_at"
)

// AdjustmentLedger é a visão append-only do log de ajustes.
// Não existe operação de update ou delete.
type AdjustmentLedger interface {
	LastAppliedAt(ctx context.Context, entityID string) (*time.Time, error)
	// LastCampaignID devolve a última campanha registrada para a entidade, ou "" se nenhuma
	LastCampaignID(ctx context.Context, entityID string) (string, error)
	Append(ctx context.Context, log *domain.BudgetAdjustmentLog) error
}

//go:generate mockgen -source=budget_adjustment.go -destination=mocks/budget_adjustment.go -package=mocks
type BudgetAdjustmentRepository interface {
	AdjustmentLedger
	// WithEntityLock executa fn numa transação que detém o lock da entidade.
	// A leitura do cooldown e a escrita do log acontecem sob o mesmo lock.
	WithEntityLock(ctx context.Context, entityID string, fn func(ledger AdjustmentLedger) error) error
	List(ctx context.Context, filter domain.AdjustmentLogFilter) ([]*domain.BudgetAdjustmentLog, error)
}

type budgetAdjustmentRepository struct {
	conn *postgres.Connection
	adjustmentLedger
}

func NewBudgetAdjustmentRepository(conn *postgres.Connection) BudgetAdjustmentRepository {
	return &budgetAdjustmentRepository{
		conn:             conn,
		adjustmentLedger: adjustmentLedger{q: conn},
	}
}

func (r *budgetAdjustmentRepository) WithEntityLock(ctx context.Context, entityID string, fn func(ledger AdjustmentLedger) error) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", entityID); err != nil {
			return fmt.Errorf("erro ao obter lock da entidade: %w", err)
		}
		return fn(adjustmentLedger{q: tx})
	})
}

func (r *budgetAdjustmentRepository) List(ctx context.Context, filter domain.AdjustmentLogFilter) ([]*domain.BudgetAdjustmentLog, error) {
	builder := squirrel.
		Select(budgetAdjustmentLogsColumns).
		From(budgetAdjustmentLogsTable).
		Where(squirrel.GtOrEq{"bal.created_at": filter.Since}).
		OrderBy("bal.created_at ASC")

	if filter.EntityID != "" {
		builder = builder.Where(squirrel.Eq{"bal.entity_id": filter.EntityID})
	}
	if filter.CampaignID != "" {
		builder = builder.Where(squirrel.Eq{"bal.campaign_id": filter.CampaignID})
	}

	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	logs := make([]*domain.BudgetAdjustmentLog, 0)
	for rows.Next() {
		log, err := scanAdjustmentLog(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear log de ajuste: %w", err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return logs, nil
}

// adjustmentLedger opera sobre a conexão ou sobre a transação do lock
type adjustmentLedger struct {
	q postgres.Queryer
}

func (l adjustmentLedger) LastAppliedAt(ctx context.Context, entityID string) (*time.Time, error) {
	query, args, err := squirrel.
		Select("MAX(bal.created_at)").
		From(budgetAdjustmentLogsTable).
		Where(squirrel.Eq{"bal.entity_id": entityID, "bal.status": string(domain.AdjustmentStatusApplied)}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var lastApplied sql.NullTime
	if err := l.q.QueryRowContext(ctx, query, args...).Scan(&lastApplied); err != nil {
		return nil, fmt.Errorf("erro ao consultar último ajuste aplicado: %w", err)
	}

	if !lastApplied.Valid {
		return nil, nil
	}

	t := lastApplied.Time.UTC()
	return &t, nil
}

func (l adjustmentLedger) LastCampaignID(ctx context.Context, entityID string) (string, error) {
	query, args, err := squirrel.
		Select("bal.campaign_id").
		From(budgetAdjustmentLogsTable).
		Where(squirrel.Eq{"bal.entity_id": entityID}).
		Where(squirrel.NotEq{"bal.campaign_id": ""}).
		OrderBy("bal.created_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("erro ao construir a query: %w", err)
	}

	var campaignID string
	err = l.q.QueryRowContext(ctx, query, args...).Scan(&campaignID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("erro ao consultar campanha da entidade: %w", err)
	}

	return campaignID, nil
}

func (l adjustmentLedger) Append(ctx context.Context, log *domain.BudgetAdjustmentLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	query, args, err := squirrel.StatementBuilder.
		Insert("budget_adjustment_logs").
		Columns("id", "entity_id", "campaign_id", "budget_type", "current_budget", "requested_budget", "status",
			"adjustment_percentage", "adjustment_amount", "reason", "requesting_user", "rejection_reason",
			"error_message", "batch_id", "created_at").
		Values(
			log.ID,
			log.EntityID,
			log.CampaignID,
			string(log.BudgetType),
			nullFloat(log.CurrentBudget),
			log.RequestedBudget,
			string(log.Status),
			nullFloat(log.AdjustmentPercentage),
			nullFloat(log.AdjustmentAmount),
			log.Reason,
			log.RequestingUser,
			log.RejectionReason,
			log.ErrorMessage,
			log.BatchID,
			log.CreatedAt,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := l.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("erro ao gravar log de ajuste: %w", err)
	}

	return nil
}

func scanAdjustmentLog(rows *sql.Rows) (*domain.BudgetAdjustmentLog, error) {
	var (
		log                  domain.BudgetAdjustmentLog
		budgetType           string
		status               string
		currentBudget        sql.NullFloat64
		adjustmentPercentage sql.NullFloat64
		adjustmentAmount     sql.NullFloat64
	)

	err := rows.Scan(
		&log.ID,
		&log.EntityID,
		&log.CampaignID,
		&budgetType,
		&currentBudget,
		&log.RequestedBudget,
		&status,
		&adjustmentPercentage,
		&adjustmentAmount,
		&log.Reason,
		&log.RequestingUser,
		&log.RejectionReason,
		&log.ErrorMessage,
		&log.BatchID,
		&log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	log.BudgetType = domain.BudgetType(budgetType)
	log.Status = domain.AdjustmentStatus(status)
	log.CurrentBudget = floatPtr(currentBudget)
	log.AdjustmentPercentage = floatPtr(adjustmentPercentage)
	log.AdjustmentAmount = floatPtr(adjustmentAmount)

	return &log, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

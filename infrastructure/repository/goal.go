package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/goal-pacing-api/infrastructure/database/postgres"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
)

const (
	goalsTable   = "goals g"
	goalsColumns = "g.id, g.entity_id, g.budget_total, g.cpl_target, g.volume_contracted, g.volume_captured, g.contract_start_date, g.contract_end_date, g.created_at, g.updated_at"
)

// ErrGoalConstraint indica que a meta violou uma restrição da tabela
var ErrGoalConstraint = errors.New("goal violates table constraints")

//go:generate mockgen -source=goal.go -destination=mocks/goal.go -package=mocks
type GoalRepository interface {
	GetByEntityID(ctx context.Context, entityID string) (*domain.Goal, error)
	Upsert(ctx context.Context, goal *domain.Goal) (*domain.Goal, error)
	Delete(ctx context.Context, entityID string) (bool, error)
	ListActiveEntityIDs(ctx context.Context, day time.Time) ([]string, error)
}

type goalRepository struct {
	conn *postgres.Connection
}

func NewGoalRepository(conn *postgres.Connection) GoalRepository {
	return &goalRepository{
		conn: conn,
	}
}

func (r *goalRepository) GetByEntityID(ctx context.Context, entityID string) (*domain.Goal, error) {
	query, args, err := squirrel.
		Select(goalsColumns).
		From(goalsTable).
		Where(squirrel.Eq{"g.entity_id": entityID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	goal, err := scanGoal(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear meta: %w", err)
	}

	return goal, nil
}

func (r *goalRepository) Upsert(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	query, args, err := squirrel.StatementBuilder.
		Insert("goals").
		Columns("id", "entity_id", "budget_total", "cpl_target", "volume_contracted", "volume_captured",
			"contract_start_date", "contract_end_date").
		Values(
			goal.ID,
			goal.EntityID,
			goal.BudgetTotal,
			goal.CPLTarget,
			goal.VolumeContracted,
			goal.VolumeCaptured,
			goal.ContractStartDate.Format(time.DateOnly),
			goal.ContractEndDate.Format(time.DateOnly),
		).
		Suffix(`
			ON CONFLICT (entity_id) DO UPDATE SET
				budget_total = EXCLUDED.budget_total,
				cpl_target = EXCLUDED.cpl_target,
				volume_contracted = EXCLUDED.volume_contracted,
				volume_captured = EXCLUDED.volume_captured,
				contract_start_date = EXCLUDED.contract_start_date,
				contract_end_date = EXCLUDED.contract_end_date,
				updated_at = NOW()
			RETURNING id, entity_id, budget_total, cpl_target, volume_contracted, volume_captured,
				contract_start_date, contract_end_date, created_at, updated_at
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	saved, err := scanGoal(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if postgres.IsCheckViolation(err) || postgres.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrGoalConstraint, err)
		}
		return nil, fmt.Errorf("erro ao salvar meta: %w", err)
	}

	return saved, nil
}

func (r *goalRepository) Delete(ctx context.Context, entityID string) (bool, error) {
	query, args, err := squirrel.
		Delete("goals").
		Where(squirrel.Eq{"entity_id": entityID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("erro ao remover meta: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("erro ao obter linhas afetadas: %w", err)
	}

	return affected > 0, nil
}

// ListActiveEntityIDs retorna as entidades com contrato vigente no dia
func (r *goalRepository) ListActiveEntityIDs(ctx context.Context, day time.Time) ([]string, error) {
	date := day.Format(time.DateOnly)

	query, args, err := squirrel.
		Select("g.entity_id").
		From(goalsTable).
		Where(squirrel.LtOrEq{"g.contract_start_date": date}).
		Where(squirrel.GtOrEq{"g.contract_end_date": date}).
		OrderBy("g.entity_id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	entityIDs := make([]string, 0)
	for rows.Next() {
		var entityID string
		if err := rows.Scan(&entityID); err != nil {
			return nil, fmt.Errorf("erro ao escanear entidade: %w", err)
		}
		entityIDs = append(entityIDs, entityID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return entityIDs, nil
}

func scanGoal(row *sql.Row) (*domain.Goal, error) {
	var goal domain.Goal
	err := row.Scan(
		&goal.ID,
		&goal.EntityID,
		&goal.BudgetTotal,
		&goal.CPLTarget,
		&goal.VolumeContracted,
		&goal.VolumeCaptured,
		&goal.ContractStartDate,
		&goal.ContractEndDate,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &goal, nil
}

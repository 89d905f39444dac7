package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/goal-pacing-api/infrastructure/database/postgres"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
)

const (
	alertsTable = "goal_alerts ga"
)

//go:generate mockgen -source=alert.go -destination=mocks/alert.go -package=mocks
type AlertRepository interface {
	SaveAll(ctx context.Context, alerts []*domain.Alert) error
	ListByEntity(ctx context.Context, entityID string, limit int) ([]*domain.Alert, error)
}

type alertRepository struct {
	conn *postgres.Connection
}

func NewAlertRepository(conn *postgres.Connection) AlertRepository {
	return &alertRepository{
		conn: conn,
	}
}

func (r *alertRepository) SaveAll(ctx context.Context, alerts []*domain.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	builder := squirrel.StatementBuilder.
		Insert("goal_alerts").
		Columns("id", "entity_id", "type", "severity", "message", "resolved", "created_at")

	for _, alert := range alerts {
		builder = builder.Values(
			alert.ID,
			alert.EntityID,
			string(alert.Type),
			string(alert.Severity),
			alert.Message,
			alert.Resolved,
			alert.CreatedAt,
		)
	}

	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("erro ao salvar alertas: %w", err)
	}

	return nil
}

func (r *alertRepository) ListByEntity(ctx context.Context, entityID string, limit int) ([]*domain.Alert, error) {
	query, args, err := squirrel.
		Select("ga.id, ga.entity_id, ga.type, ga.severity, ga.message, ga.resolved, ga.created_at").
		From(alertsTable).
		Where(squirrel.Eq{"ga.entity_id": entityID}).
		OrderBy("ga.created_at DESC").
		Limit(uint64(limit)).
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

	alerts := make([]*domain.Alert, 0)
	for rows.Next() {
		var (
			alert     domain.Alert
			alertType string
			severity  string
		)
		if err := rows.Scan(
			&alert.ID,
			&alert.EntityID,
			&alertType,
			&severity,
			&alert.Message,
			&alert.Resolved,
			&alert.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear alerta: %w", err)
		}
		alert.Type = domain.AlertType(alertType)
		alert.Severity = domain.AlertSeverity(severity)
		alerts = append(alerts, &alert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return alerts, nil
}

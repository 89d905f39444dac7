package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/goal-pacing-api/infrastructure/database/postgres"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	progressSnapshotsTable = "progress_snapshots ps"
)

//go:generate mockgen -source=progress_snapshot.go -destination=mocks/progress_snapshot.go -package=mocks
type ProgressSnapshotRepository interface {
	InsertIfAbsent(ctx context.Context, snapshot *domain.ProgressSnapshot) (bool, error)
	ListByEntity(ctx context.Context, entityID string, since time.Time) ([]*domain.ProgressSnapshot, error)
}

type progressSnapshotRepository struct {
	conn *postgres.Connection
}

func NewProgressSnapshotRepository(conn *postgres.Connection) ProgressSnapshotRepository {
	return &progressSnapshotRepository{
		conn: conn,
	}
}

// InsertIfAbsent grava o snapshot do dia; um snapshot existente nunca é alterado
func (r *progressSnapshotRepository) InsertIfAbsent(ctx context.Context, snapshot *domain.ProgressSnapshot) (bool, error) {
	metricsJSON, err := json.Marshal(snapshot.Metrics)
	if err != nil {
		return false, fmt.Errorf("erro ao serializar métricas para JSON: %w", err)
	}

	query, args, err := squirrel.StatementBuilder.
		Insert("progress_snapshots").
		Columns("entity_id", "snapshot_date", "status", "metrics").
		Values(
			snapshot.EntityID,
			snapshot.SnapshotDate.Format(time.DateOnly),
			string(snapshot.Status),
			metricsJSON,
		).
		Suffix("ON CONFLICT (entity_id, snapshot_date) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("erro ao salvar snapshot de progresso: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("erro ao obter linhas afetadas: %w", err)
	}

	return affected > 0, nil
}

func (r *progressSnapshotRepository) ListByEntity(ctx context.Context, entityID string, since time.Time) ([]*domain.ProgressSnapshot, error) {
	query, args, err := squirrel.
		Select("ps.id, ps.entity_id, ps.snapshot_date, ps.status, ps.metrics, ps.created_at").
		From(progressSnapshotsTable).
		Where(squirrel.Eq{"ps.entity_id": entityID}).
		Where(squirrel.GtOrEq{"ps.snapshot_date": since.Format(time.DateOnly)}).
		OrderBy("ps.snapshot_date DESC").
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

	snapshots := make([]*domain.ProgressSnapshot, 0)
	for rows.Next() {
		var (
			snapshot    domain.ProgressSnapshot
			status      string
			metricsJSON []byte
		)
		if err := rows.Scan(
			&snapshot.ID,
			&snapshot.EntityID,
			&snapshot.SnapshotDate,
			&status,
			&metricsJSON,
			&snapshot.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear snapshot de progresso: %w", err)
		}

		snapshot.Status = domain.PaceStatus(status)
		if len(metricsJSON) > 0 {
			if err := json.Unmarshal(metricsJSON, &snapshot.Metrics); err != nil {
				return nil, fmt.Errorf("erro ao deserializar métricas: %w", err)
			}
		}

		snapshots = append(snapshots, &snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return snapshots, nil
}

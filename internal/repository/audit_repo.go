package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"backoffice/internal/model"
)

type AuditRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAuditRepository(db *pgxpool.Pool, logger *zap.Logger) *AuditRepository {
	return &AuditRepository{db: db, logger: logger}
}

func (r *AuditRepository) Insert(ctx context.Context, a *model.AuditLog) error {
	query := `
        INSERT INTO audit_logs (event_id, actor, action, entity, detail)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		a.EventID,
		a.Actor,
		a.Action,
		a.Entity,
		a.Detail,
	).Scan(&a.ID)
	if err != nil {
		r.logger.Error("Failed to insert audit log",
			zap.Error(err),
			zap.String("event_id", a.EventID),
			zap.String("action", a.Action),
		)
	}
	return err
}

func (r *AuditRepository) List(ctx context.Context, limit int) ([]model.AuditLog, error) {
	query := `
        SELECT id, event_id, actor, action, entity, detail, created_at
        FROM audit_logs
        ORDER BY created_at DESC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to query audit logs", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	logs := []model.AuditLog{}
	for rows.Next() {
		var a model.AuditLog
		if err := rows.Scan(
			&a.ID, &a.EventID, &a.Actor, &a.Action, &a.Entity, &a.Detail, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, a)
	}
	return logs, rows.Err()
}

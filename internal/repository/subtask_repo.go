package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"backoffice/internal/model"
)

type SubtaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSubtaskRepository(db *pgxpool.Pool, logger *zap.Logger) *SubtaskRepository {
	return &SubtaskRepository{db: db, logger: logger}
}

func (r *SubtaskRepository) Insert(ctx context.Context, s *model.Subtask) (int, error) {
	r.logger.Debug("Inserting subtask",
		zap.Int("issue_id", s.IssueID),
		zap.String("title", s.Title),
	)
	query := `
        INSERT INTO subtasks (issue_id, title, remark, status, start_date, due_date, complete_date, on_late_time)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		s.IssueID,
		s.Title,
		s.Remark,
		s.Status,
		s.StartDate,
		s.DueDate,
		s.CompleteDate,
		s.OnLateTime,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert subtask",
			zap.Error(err),
			zap.Int("issue_id", s.IssueID),
		)
		return 0, err
	}
	return id, nil
}

func (r *SubtaskRepository) FindByID(ctx context.Context, id int) (*model.Subtask, error) {
	query := `
        SELECT id, issue_id, title, remark, status, start_date, due_date, complete_date, on_late_time, created_at, updated_at
        FROM subtasks
        WHERE id = $1
    `
	var s model.Subtask
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.IssueID,
		&s.Title,
		&s.Remark,
		&s.Status,
		&s.StartDate,
		&s.DueDate,
		&s.CompleteDate,
		&s.OnLateTime,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubtaskRepository) ListByIssue(ctx context.Context, issueID int) ([]model.Subtask, error) {
	query := `
        SELECT id, issue_id, title, remark, status, start_date, due_date, complete_date, on_late_time, created_at, updated_at
        FROM subtasks
        WHERE issue_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, issueID)
	if err != nil {
		r.logger.Error("Failed to query subtasks",
			zap.Error(err),
			zap.Int("issue_id", issueID),
		)
		return nil, err
	}
	defer rows.Close()

	subtasks := []model.Subtask{}
	for rows.Next() {
		var s model.Subtask
		if err := rows.Scan(
			&s.ID,
			&s.IssueID,
			&s.Title,
			&s.Remark,
			&s.Status,
			&s.StartDate,
			&s.DueDate,
			&s.CompleteDate,
			&s.OnLateTime,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan subtask row", zap.Error(err))
			return nil, err
		}
		subtasks = append(subtasks, s)
	}
	return subtasks, rows.Err()
}

func (r *SubtaskRepository) Update(ctx context.Context, s *model.Subtask) error {
	query := `
        UPDATE subtasks
        SET title = $1, remark = $2, status = $3, start_date = $4, due_date = $5,
            complete_date = $6, on_late_time = $7, updated_at = NOW()
        WHERE id = $8
    `
	_, err := r.db.Exec(ctx, query,
		s.Title,
		s.Remark,
		s.Status,
		s.StartDate,
		s.DueDate,
		s.CompleteDate,
		s.OnLateTime,
		s.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update subtask",
			zap.Error(err),
			zap.Int("id", s.ID),
		)
	}
	return err
}

func (r *SubtaskRepository) Delete(ctx context.Context, id int) error {
	query := `
        DELETE FROM subtasks WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete subtask",
			zap.Error(err),
			zap.Int("id", id),
		)
	}
	return err
}

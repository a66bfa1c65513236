package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"backoffice/internal/model"
	"backoffice/pkg/metrics"
)

type IssueRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewIssueRepository(db *pgxpool.Pool, logger *zap.Logger) *IssueRepository {
	return &IssueRepository{db: db, logger: logger}
}

// Insert persists a new issue. The issues.code column carries a unique index,
// so a concurrent allocation of the same code fails here with a unique
// violation and the service re-runs allocation.
func (r *IssueRepository) Insert(ctx context.Context, i *model.Issue) (int, error) {
	r.logger.Debug("Inserting issue",
		zap.Int("project_id", i.ProjectID),
		zap.String("code", i.Code),
		zap.String("title", i.Title),
	)

	start := time.Now()
	query := `
        INSERT INTO issues (project_id, code, title, description, remark, type, priority, status,
                            start_date, due_date, complete_date, on_late_time)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		i.ProjectID,
		i.Code,
		i.Title,
		i.Description,
		i.Remark,
		i.Type,
		i.Priority,
		i.Status,
		i.StartDate,
		i.DueDate,
		i.CompleteDate,
		i.OnLateTime,
	).Scan(&id)
	metrics.RecordDBQueryDuration("insert", "issues", time.Since(start))

	if err != nil {
		r.logger.Error("Failed to insert issue",
			zap.Error(err),
			zap.String("code", i.Code),
		)
		return 0, err
	}

	r.logger.Info("Issue inserted successfully",
		zap.Int("id", id),
		zap.String("code", i.Code),
	)
	return id, nil
}

// ListCodesByProject returns just the issue codes for a project, newest first.
// A query failure returns (nil, err); a project with no issues returns an
// empty slice. Callers must not allocate a code from a failed read.
func (r *IssueRepository) ListCodesByProject(ctx context.Context, projectID int) ([]string, error) {
	start := time.Now()
	query := `
        SELECT code
        FROM issues
        WHERE project_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	metrics.RecordDBQueryDuration("select", "issues", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to query issue codes",
			zap.Error(err),
			zap.Int("project_id", projectID),
		)
		return nil, err
	}
	defer rows.Close()

	codes := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			r.logger.Error("Failed to scan issue code", zap.Error(err))
			return nil, err
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *IssueRepository) FindByID(ctx context.Context, id int) (*model.Issue, error) {
	query := `
        SELECT id, project_id, code, title, description, remark, type, priority, status,
               start_date, due_date, complete_date, on_late_time, created_at, updated_at
        FROM issues
        WHERE id = $1
    `
	var i model.Issue
	err := r.db.QueryRow(ctx, query, id).Scan(
		&i.ID,
		&i.ProjectID,
		&i.Code,
		&i.Title,
		&i.Description,
		&i.Remark,
		&i.Type,
		&i.Priority,
		&i.Status,
		&i.StartDate,
		&i.DueDate,
		&i.CompleteDate,
		&i.OnLateTime,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *IssueRepository) ListByProject(ctx context.Context, projectID int) ([]model.Issue, error) {
	r.logger.Debug("Listing issues for project", zap.Int("project_id", projectID))
	query := `
        SELECT id, project_id, code, title, description, remark, type, priority, status,
               start_date, due_date, complete_date, on_late_time, created_at, updated_at
        FROM issues
        WHERE project_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query issues",
			zap.Error(err),
			zap.Int("project_id", projectID),
		)
		return nil, err
	}
	defer rows.Close()

	issues := []model.Issue{}
	for rows.Next() {
		var i model.Issue
		if err := rows.Scan(
			&i.ID,
			&i.ProjectID,
			&i.Code,
			&i.Title,
			&i.Description,
			&i.Remark,
			&i.Type,
			&i.Priority,
			&i.Status,
			&i.StartDate,
			&i.DueDate,
			&i.CompleteDate,
			&i.OnLateTime,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan issue row", zap.Error(err))
			return nil, err
		}
		issues = append(issues, i)
	}
	return issues, rows.Err()
}

// Update rewrites every mutable field, on_late_time included. Only the service
// write path may call this; it recomputes the label from the dates first.
func (r *IssueRepository) Update(ctx context.Context, i *model.Issue) error {
	query := `
        UPDATE issues
        SET title = $1, description = $2, remark = $3, type = $4, priority = $5, status = $6,
            start_date = $7, due_date = $8, complete_date = $9, on_late_time = $10, updated_at = NOW()
        WHERE id = $11
    `
	_, err := r.db.Exec(ctx, query,
		i.Title,
		i.Description,
		i.Remark,
		i.Type,
		i.Priority,
		i.Status,
		i.StartDate,
		i.DueDate,
		i.CompleteDate,
		i.OnLateTime,
		i.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update issue",
			zap.Error(err),
			zap.Int("id", i.ID),
		)
	}
	return err
}

func (r *IssueRepository) Delete(ctx context.Context, id int) error {
	query := `
        DELETE FROM issues WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete issue",
			zap.Error(err),
			zap.Int("id", id),
		)
	}
	return err
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"backoffice/internal/model"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ProjectRepository) Insert(ctx context.Context, p *model.Project) (int, error) {
	r.logger.Debug("Inserting project",
		zap.String("code", p.Code),
		zap.String("name", p.Name),
	)

	query := `
        INSERT INTO projects (code, name, client, description, status, start_date, end_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		p.Code,
		p.Name,
		p.Client,
		p.Description,
		p.Status,
		p.StartDate,
		p.EndDate,
	).Scan(&id)

	if err != nil {
		r.logger.Error("Failed to insert project", zap.Error(err))
		return 0, err
	}

	r.logger.Info("Project inserted successfully",
		zap.Int("id", id),
		zap.String("code", p.Code),
	)
	return id, nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id int) (*model.Project, error) {
	query := `
        SELECT id, code, name, client, description, status, start_date, end_date, created_at, updated_at
        FROM projects
        WHERE id = $1
    `
	var p model.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Code,
		&p.Name,
		&p.Client,
		&p.Description,
		&p.Status,
		&p.StartDate,
		&p.EndDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	query := `
        SELECT id, code, name, client, description, status, start_date, end_date, created_at, updated_at
        FROM projects
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query projects", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(
			&p.ID,
			&p.Code,
			&p.Name,
			&p.Client,
			&p.Description,
			&p.Status,
			&p.StartDate,
			&p.EndDate,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan project row", zap.Error(err))
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, p *model.Project) error {
	query := `
        UPDATE projects
        SET name = $1, client = $2, description = $3, status = $4,
            start_date = $5, end_date = $6, updated_at = NOW()
        WHERE id = $7
    `
	_, err := r.db.Exec(ctx, query,
		p.Name,
		p.Client,
		p.Description,
		p.Status,
		p.StartDate,
		p.EndDate,
		p.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update project",
			zap.Error(err),
			zap.Int("id", p.ID),
		)
	}
	return err
}

func (r *ProjectRepository) Delete(ctx context.Context, id int) error {
	query := `
        DELETE FROM projects WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete project",
			zap.Error(err),
			zap.Int("id", id),
		)
	}
	return err
}

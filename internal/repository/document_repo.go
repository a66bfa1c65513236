package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"backoffice/internal/model"
)

type DocumentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewDocumentRepository(db *pgxpool.Pool, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{db: db, logger: logger}
}

func (r *DocumentRepository) Insert(ctx context.Context, d *model.Document) (int, error) {
	query := `
        INSERT INTO documents (project_id, filename, object_key, content_type, size_bytes, uploaded_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		d.ProjectID,
		d.Filename,
		d.ObjectKey,
		d.ContentType,
		d.SizeBytes,
		d.UploadedBy,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert document",
			zap.Error(err),
			zap.Int("project_id", d.ProjectID),
			zap.String("filename", d.Filename),
		)
		return 0, err
	}
	return id, nil
}

func (r *DocumentRepository) ListByProject(ctx context.Context, projectID int) ([]model.Document, error) {
	query := `
        SELECT id, project_id, filename, object_key, content_type, size_bytes, uploaded_by, created_at
        FROM documents
        WHERE project_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query documents", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	docs := []model.Document{}
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(
			&d.ID, &d.ProjectID, &d.Filename, &d.ObjectKey, &d.ContentType, &d.SizeBytes, &d.UploadedBy, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *DocumentRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete document",
			zap.Error(err),
			zap.Int("id", id),
		)
	}
	return err
}

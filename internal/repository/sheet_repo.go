package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"backoffice/internal/model"
)

type SheetRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSheetRepository(db *pgxpool.Pool, logger *zap.Logger) *SheetRepository {
	return &SheetRepository{db: db, logger: logger}
}

func (r *SheetRepository) InsertServiceSheet(ctx context.Context, s *model.ServiceSheet) (int, error) {
	query := `
        INSERT INTO service_sheets (project_id, service_date, engineer, work_summary, client_name)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		s.ProjectID,
		s.ServiceDate,
		s.Engineer,
		s.WorkSummary,
		s.ClientName,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert service sheet",
			zap.Error(err),
			zap.Int("project_id", s.ProjectID),
		)
		return 0, err
	}
	return id, nil
}

func (r *SheetRepository) ListServiceSheets(ctx context.Context, projectID int) ([]model.ServiceSheet, error) {
	query := `
        SELECT id, project_id, service_date, engineer, work_summary, client_name, created_at
        FROM service_sheets
        WHERE project_id = $1
        ORDER BY service_date DESC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query service sheets", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	sheets := []model.ServiceSheet{}
	for rows.Next() {
		var s model.ServiceSheet
		if err := rows.Scan(
			&s.ID, &s.ProjectID, &s.ServiceDate, &s.Engineer, &s.WorkSummary, &s.ClientName, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	return sheets, rows.Err()
}

func (r *SheetRepository) DeleteServiceSheet(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM service_sheets WHERE id = $1`, id)
	return err
}

func (r *SheetRepository) InsertChangeRequest(ctx context.Context, c *model.ChangeRequest) (int, error) {
	query := `
        INSERT INTO change_requests (project_id, requested_by, request_date, detail, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		c.ProjectID,
		c.RequestedBy,
		c.RequestDate,
		c.Detail,
		c.Status,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert change request",
			zap.Error(err),
			zap.Int("project_id", c.ProjectID),
		)
		return 0, err
	}
	return id, nil
}

func (r *SheetRepository) ListChangeRequests(ctx context.Context, projectID int) ([]model.ChangeRequest, error) {
	query := `
        SELECT id, project_id, requested_by, request_date, detail, status, created_at
        FROM change_requests
        WHERE project_id = $1
        ORDER BY request_date DESC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query change requests", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	requests := []model.ChangeRequest{}
	for rows.Next() {
		var c model.ChangeRequest
		if err := rows.Scan(
			&c.ID, &c.ProjectID, &c.RequestedBy, &c.RequestDate, &c.Detail, &c.Status, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, c)
	}
	return requests, rows.Err()
}

// UpdateChangeRequestStatus moves a change request through its approval flow.
func (r *SheetRepository) UpdateChangeRequestStatus(ctx context.Context, id int, status string) error {
	_, err := r.db.Exec(ctx, `UPDATE change_requests SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		r.logger.Error("Failed to update change request status",
			zap.Error(err),
			zap.Int("id", id),
		)
	}
	return err
}

func (r *SheetRepository) InsertMeetingNote(ctx context.Context, m *model.MeetingNote) (int, error) {
	query := `
        INSERT INTO meeting_notes (project_id, meeting_date, attendees, notes)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		m.ProjectID,
		m.MeetingDate,
		m.Attendees,
		m.Notes,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert meeting note",
			zap.Error(err),
			zap.Int("project_id", m.ProjectID),
		)
		return 0, err
	}
	return id, nil
}

func (r *SheetRepository) ListMeetingNotes(ctx context.Context, projectID int) ([]model.MeetingNote, error) {
	query := `
        SELECT id, project_id, meeting_date, attendees, notes, created_at
        FROM meeting_notes
        WHERE project_id = $1
        ORDER BY meeting_date DESC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query meeting notes", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	notes := []model.MeetingNote{}
	for rows.Next() {
		var m model.MeetingNote
		if err := rows.Scan(
			&m.ID, &m.ProjectID, &m.MeetingDate, &m.Attendees, &m.Notes, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		notes = append(notes, m)
	}
	return notes, rows.Err()
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"backoffice/internal/lateness"
	"backoffice/internal/model"
)

var ErrSubtaskNotFound = errors.New("subtask not found")

type SubtaskStore interface {
	Insert(ctx context.Context, s *model.Subtask) (int, error)
	FindByID(ctx context.Context, id int) (*model.Subtask, error)
	ListByIssue(ctx context.Context, issueID int) ([]model.Subtask, error)
	Update(ctx context.Context, s *model.Subtask) error
	Delete(ctx context.Context, id int) error
}

type SubtaskService struct {
	subtasks SubtaskStore
	issues   IssueStore
	logger   *zap.Logger
}

func NewSubtaskService(subtasks SubtaskStore, issues IssueStore, logger *zap.Logger) *SubtaskService {
	return &SubtaskService{
		subtasks: subtasks,
		issues:   issues,
		logger:   logger,
	}
}

type SubtaskInput struct {
	Title        string
	Remark       string
	Status       string
	StartDate    *time.Time
	DueDate      *time.Time
	CompleteDate *time.Time
}

// Create adds a subtask under an existing issue. As with issues, the lateness
// label is derived from the dates here and nowhere else.
func (s *SubtaskService) Create(ctx context.Context, issueID int, in SubtaskInput) (*model.Subtask, error) {
	if _, err := s.issues.FindByID(ctx, issueID); err != nil {
		return nil, fmt.Errorf("%w: %d", ErrIssueNotFound, issueID)
	}

	subtask := &model.Subtask{
		IssueID:      issueID,
		Title:        in.Title,
		Remark:       in.Remark,
		Status:       in.Status,
		StartDate:    in.StartDate,
		DueDate:      in.DueDate,
		CompleteDate: in.CompleteDate,
		OnLateTime:   lateness.Classify(in.CompleteDate, in.DueDate),
	}

	id, err := s.subtasks.Insert(ctx, subtask)
	if err != nil {
		return nil, err
	}
	subtask.ID = id
	return subtask, nil
}

func (s *SubtaskService) Update(ctx context.Context, subtaskID int, in SubtaskInput) (*model.Subtask, error) {
	subtask, err := s.subtasks.FindByID(ctx, subtaskID)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrSubtaskNotFound, subtaskID)
	}

	subtask.Title = in.Title
	subtask.Remark = in.Remark
	subtask.Status = in.Status
	subtask.StartDate = in.StartDate
	subtask.DueDate = in.DueDate
	subtask.CompleteDate = in.CompleteDate
	subtask.OnLateTime = lateness.Classify(in.CompleteDate, in.DueDate)

	if err := s.subtasks.Update(ctx, subtask); err != nil {
		return nil, err
	}
	return subtask, nil
}

func (s *SubtaskService) ListByIssue(ctx context.Context, issueID int) ([]model.Subtask, error) {
	return s.subtasks.ListByIssue(ctx, issueID)
}

func (s *SubtaskService) Delete(ctx context.Context, subtaskID int) error {
	if _, err := s.subtasks.FindByID(ctx, subtaskID); err != nil {
		return fmt.Errorf("%w: %d", ErrSubtaskNotFound, subtaskID)
	}
	return s.subtasks.Delete(ctx, subtaskID)
}

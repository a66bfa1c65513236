package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"backoffice/internal/events"
	"backoffice/internal/issuecode"
	"backoffice/internal/lateness"
	"backoffice/internal/model"
	"backoffice/pkg/metrics"
	"backoffice/pkg/util"
)

// allocateAttempts bounds the re-allocation loop when a concurrent create
// grabs the same code and the unique index rejects the insert.
const allocateAttempts = 3

var ErrProjectNotFound = errors.New("project not found")
var ErrIssueNotFound = errors.New("issue not found")

// IssueStore is the slice of the issue repository the service needs.
type IssueStore interface {
	Insert(ctx context.Context, i *model.Issue) (int, error)
	ListCodesByProject(ctx context.Context, projectID int) ([]string, error)
	FindByID(ctx context.Context, id int) (*model.Issue, error)
	ListByProject(ctx context.Context, projectID int) ([]model.Issue, error)
	Update(ctx context.Context, i *model.Issue) error
	Delete(ctx context.Context, id int) error
}

// ProjectStore resolves the project whose short code prefixes issue codes.
type ProjectStore interface {
	FindByID(ctx context.Context, id int) (*model.Project, error)
}

// Publisher sends domain events; failures are logged, never fatal to the write.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

type IssueService struct {
	issues   IssueStore
	projects ProjectStore
	pub      Publisher
	cache    StatsInvalidator
	logger   *zap.Logger
	now      func() time.Time
}

// StatsInvalidator drops cached per-project stats after a mutation.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, projectID int)
}

func NewIssueService(issues IssueStore, projects ProjectStore, pub Publisher, cache StatsInvalidator, logger *zap.Logger) *IssueService {
	return &IssueService{
		issues:   issues,
		projects: projects,
		pub:      pub,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

type IssueInput struct {
	Title        string
	Description  string
	Remark       string
	Type         string
	Priority     string
	Status       string
	StartDate    *time.Time
	DueDate      *time.Time
	CompleteDate *time.Time
}

// Create allocates the next issue code for the project and persists the issue.
// Allocation is list -> max+1 -> insert; the unique index on the code column
// catches the race between two concurrent creates in the same project-month,
// in which case allocation is re-run from a fresh snapshot.
func (s *IssueService) Create(ctx context.Context, projectID, actor int, in IssueInput) (*model.Issue, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrProjectNotFound, projectID)
	}
	if project.Code == "" {
		return nil, issuecode.ErrEmptyProjectCode
	}

	var issue *model.Issue
	for attempt := 1; attempt <= allocateAttempts; attempt++ {
		codes, err := s.listCodes(ctx, projectID)
		if err != nil {
			// Never allocate from a failed read: run 001 on a partial
			// snapshot would collide with a real issue.
			return nil, fmt.Errorf("failed to list issue codes: %w", err)
		}

		code, err := issuecode.Next(project.Code, codes, s.now())
		if err != nil {
			return nil, err
		}
		s.logMalformed(codes, project.Code)

		issue = &model.Issue{
			ProjectID:    projectID,
			Code:         code,
			Title:        in.Title,
			Description:  in.Description,
			Remark:       in.Remark,
			Type:         in.Type,
			Priority:     in.Priority,
			Status:       in.Status,
			StartDate:    in.StartDate,
			DueDate:      in.DueDate,
			CompleteDate: in.CompleteDate,
			OnLateTime:   lateness.Classify(in.CompleteDate, in.DueDate),
		}

		id, err := s.issues.Insert(ctx, issue)
		if err != nil {
			if util.IsUniqueViolation(err) && attempt < allocateAttempts {
				metrics.IncrementAllocationConflict()
				s.logger.Warn("Issue code already taken, re-allocating",
					zap.String("code", code),
					zap.Int("attempt", attempt),
				)
				continue
			}
			return nil, err
		}
		issue.ID = id
		break
	}

	metrics.IncrementIssueCreated(project.Code)
	s.invalidate(ctx, projectID)
	s.publish(events.IssueCreated, events.NewEnvelope(actor, issue.Code, issue.Title))

	return issue, nil
}

// Update rewrites an issue. OnLateTime is always recomputed from the incoming
// dates here; no other path writes it, so the stored label cannot go stale.
func (s *IssueService) Update(ctx context.Context, issueID, actor int, in IssueInput) (*model.Issue, error) {
	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrIssueNotFound, issueID)
	}

	wasDone := issue.Status == model.StatusDone

	issue.Title = in.Title
	issue.Description = in.Description
	issue.Remark = in.Remark
	issue.Type = in.Type
	issue.Priority = in.Priority
	issue.Status = in.Status
	issue.StartDate = in.StartDate
	issue.DueDate = in.DueDate
	issue.CompleteDate = in.CompleteDate
	issue.OnLateTime = lateness.Classify(in.CompleteDate, in.DueDate)

	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, err
	}

	s.invalidate(ctx, issue.ProjectID)
	if !wasDone && issue.Status == model.StatusDone {
		s.publish(events.IssueCompleted, events.NewEnvelope(actor, issue.Code, issue.OnLateTime))
	}

	return issue, nil
}

// Duplicate copies an issue under a freshly allocated code. The lateness label
// is recomputed rather than copied.
func (s *IssueService) Duplicate(ctx context.Context, issueID, actor int) (*model.Issue, error) {
	src, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrIssueNotFound, issueID)
	}

	return s.Create(ctx, src.ProjectID, actor, IssueInput{
		Title:        src.Title,
		Description:  src.Description,
		Remark:       src.Remark,
		Type:         src.Type,
		Priority:     src.Priority,
		Status:       model.StatusOpen,
		StartDate:    src.StartDate,
		DueDate:      src.DueDate,
		CompleteDate: nil,
	})
}

func (s *IssueService) Get(ctx context.Context, issueID int) (*model.Issue, error) {
	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrIssueNotFound, issueID)
	}
	return issue, nil
}

func (s *IssueService) ListByProject(ctx context.Context, projectID int) ([]model.Issue, error) {
	return s.issues.ListByProject(ctx, projectID)
}

func (s *IssueService) Delete(ctx context.Context, issueID, actor int) error {
	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return fmt.Errorf("%w: %d", ErrIssueNotFound, issueID)
	}
	if err := s.issues.Delete(ctx, issueID); err != nil {
		return err
	}
	s.invalidate(ctx, issue.ProjectID)
	s.publish(events.IssueDeleted, events.NewEnvelope(actor, issue.Code, issue.Title))
	return nil
}

// listCodes wraps the aggregator read with a single retry for transient
// failures. Permanent errors (permissions, bad SQL) surface immediately.
func (s *IssueService) listCodes(ctx context.Context, projectID int) ([]string, error) {
	codes, err := s.issues.ListCodesByProject(ctx, projectID)
	if err == nil {
		return codes, nil
	}

	retryable, kind := util.IsRetryable(err)
	if !retryable {
		return nil, err
	}

	s.logger.Warn("Transient failure listing issue codes, retrying",
		zap.Int("project_id", projectID),
		zap.String("error_type", kind),
		zap.Error(err),
	)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(200 * time.Millisecond):
	}

	return s.issues.ListCodesByProject(ctx, projectID)
}

// logMalformed reports stored codes whose run suffix does not parse. They are
// excluded from allocation, not fatal.
func (s *IssueService) logMalformed(codes []string, projectCode string) {
	for _, code := range codes {
		if _, ok := issuecode.Run(code); !ok {
			s.logger.Warn("Skipping malformed issue code",
				zap.String("code", code),
				zap.String("project_code", projectCode),
			)
		}
	}
}

func (s *IssueService) invalidate(ctx context.Context, projectID int) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, projectID)
	}
}

func (s *IssueService) publish(routingKey string, env events.Envelope) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(routingKey, env); err != nil {
		metrics.IncrementEventPublished(routingKey, "failed")
		s.logger.Error("Failed to publish event",
			zap.String("routing_key", routingKey),
			zap.String("event_id", env.EventID),
			zap.Error(err),
		)
		return
	}
	metrics.IncrementEventPublished(routingKey, "success")
}

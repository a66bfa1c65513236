package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backoffice/internal/model"
)

type fakeSubtaskStore struct {
	subtasks map[int]*model.Subtask
	nextID   int
}

func newFakeSubtaskStore() *fakeSubtaskStore {
	return &fakeSubtaskStore{subtasks: map[int]*model.Subtask{}, nextID: 1}
}

func (f *fakeSubtaskStore) Insert(_ context.Context, s *model.Subtask) (int, error) {
	id := f.nextID
	f.nextID++
	copied := *s
	copied.ID = id
	f.subtasks[id] = &copied
	return id, nil
}

func (f *fakeSubtaskStore) FindByID(_ context.Context, id int) (*model.Subtask, error) {
	s, ok := f.subtasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSubtaskStore) ListByIssue(_ context.Context, issueID int) ([]model.Subtask, error) {
	out := []model.Subtask{}
	for _, s := range f.subtasks {
		if s.IssueID == issueID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubtaskStore) Update(_ context.Context, s *model.Subtask) error {
	if _, ok := f.subtasks[s.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *s
	f.subtasks[s.ID] = &copied
	return nil
}

func (f *fakeSubtaskStore) Delete(_ context.Context, id int) error {
	delete(f.subtasks, id)
	return nil
}

func TestSubtaskService_CreateUnderMissingIssue(t *testing.T) {
	svc := NewSubtaskService(newFakeSubtaskStore(), newFakeIssueStore(), zap.NewNop())

	_, err := svc.Create(context.Background(), 5, SubtaskInput{Title: "x", Status: model.StatusOpen})
	assert.ErrorIs(t, err, ErrIssueNotFound)
}

func TestSubtaskService_LatenessFollowsDates(t *testing.T) {
	issues := newFakeIssueStore()
	issueSvc := newTestIssueService(issues, &fakePublisher{})
	parent, err := issueSvc.Create(context.Background(), 7, 1, IssueInput{
		Title:    "parent",
		Type:     model.IssueTypeBug,
		Priority: model.PriorityLow,
		Status:   model.StatusOpen,
	})
	require.NoError(t, err)

	svc := NewSubtaskService(newFakeSubtaskStore(), issues, zap.NewNop())

	due := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)
	complete := time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC)

	sub, err := svc.Create(context.Background(), parent.ID, SubtaskInput{
		Title:        "child",
		Status:       model.StatusDone,
		DueDate:      &due,
		CompleteDate: &complete,
	})
	require.NoError(t, err)
	assert.Equal(t, "On Time (2 Day)", sub.OnLateTime)

	late := due.AddDate(0, 0, 4)
	updated, err := svc.Update(context.Background(), sub.ID, SubtaskInput{
		Title:        "child",
		Status:       model.StatusDone,
		DueDate:      &due,
		CompleteDate: &late,
	})
	require.NoError(t, err)
	assert.Equal(t, "Late Time (4 Day)", updated.OnLateTime)
}

func TestSubtaskService_Delete(t *testing.T) {
	issues := newFakeIssueStore()
	issueSvc := newTestIssueService(issues, &fakePublisher{})
	parent, err := issueSvc.Create(context.Background(), 7, 1, IssueInput{
		Title:    "parent",
		Type:     model.IssueTypeBug,
		Priority: model.PriorityLow,
		Status:   model.StatusOpen,
	})
	require.NoError(t, err)

	store := newFakeSubtaskStore()
	svc := NewSubtaskService(store, issues, zap.NewNop())

	sub, err := svc.Create(context.Background(), parent.ID, SubtaskInput{Title: "child", Status: model.StatusOpen})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), sub.ID))
	assert.Empty(t, store.subtasks)

	err = svc.Delete(context.Background(), sub.ID)
	assert.ErrorIs(t, err, ErrSubtaskNotFound)
}

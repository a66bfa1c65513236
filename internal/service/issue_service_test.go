package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backoffice/internal/events"
	"backoffice/internal/model"
)

type fakeIssueStore struct {
	issues          map[int]*model.Issue
	nextID          int
	codes           []string
	listErrs        []error // popped per ListCodesByProject call
	insertConflicts int     // number of inserts to reject with a unique violation
	listCalls       int
}

func newFakeIssueStore(codes ...string) *fakeIssueStore {
	return &fakeIssueStore{
		issues: map[int]*model.Issue{},
		nextID: 1,
		codes:  codes,
	}
}

func (f *fakeIssueStore) Insert(_ context.Context, i *model.Issue) (int, error) {
	if f.insertConflicts > 0 {
		f.insertConflicts--
		// simulate the concurrent winner persisting the same code
		f.codes = append(f.codes, i.Code)
		return 0, &pgconn.PgError{Code: "23505"}
	}
	id := f.nextID
	f.nextID++
	copied := *i
	copied.ID = id
	f.issues[id] = &copied
	f.codes = append(f.codes, i.Code)
	return id, nil
}

func (f *fakeIssueStore) ListCodesByProject(_ context.Context, _ int) ([]string, error) {
	f.listCalls++
	if len(f.listErrs) > 0 {
		err := f.listErrs[0]
		f.listErrs = f.listErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	out := make([]string, len(f.codes))
	copy(out, f.codes)
	return out, nil
}

func (f *fakeIssueStore) FindByID(_ context.Context, id int) (*model.Issue, error) {
	i, ok := f.issues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *i
	return &copied, nil
}

func (f *fakeIssueStore) ListByProject(_ context.Context, projectID int) ([]model.Issue, error) {
	out := []model.Issue{}
	for _, i := range f.issues {
		if i.ProjectID == projectID {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (f *fakeIssueStore) Update(_ context.Context, i *model.Issue) error {
	if _, ok := f.issues[i.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *i
	f.issues[i.ID] = &copied
	return nil
}

func (f *fakeIssueStore) Delete(_ context.Context, id int) error {
	delete(f.issues, id)
	return nil
}

type fakeProjectStore struct {
	projects map[int]*model.Project
}

func (f *fakeProjectStore) FindByID(_ context.Context, id int) (*model.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

type fakePublisher struct {
	published []string
}

func (f *fakePublisher) Publish(routingKey string, _ any) error {
	f.published = append(f.published, routingKey)
	return nil
}

func newTestIssueService(store *fakeIssueStore, pub *fakePublisher) *IssueService {
	projects := &fakeProjectStore{projects: map[int]*model.Project{
		7: {ID: 7, Code: "PRJ", Name: "Project"},
	}}
	svc := NewIssueService(store, projects, pub, nil, zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2025, time.June, 12, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestIssueService_Create_FirstIssueOfMonth(t *testing.T) {
	store := newFakeIssueStore()
	pub := &fakePublisher{}
	svc := newTestIssueService(store, pub)

	issue, err := svc.Create(context.Background(), 7, 1, IssueInput{
		Title:    "Broken export",
		Type:     model.IssueTypeBug,
		Priority: model.PriorityHigh,
		Status:   model.StatusOpen,
	})
	require.NoError(t, err)

	assert.Equal(t, "PRJ-062025-001", issue.Code)
	assert.Equal(t, "", issue.OnLateTime)
	assert.Equal(t, []string{events.IssueCreated}, pub.published)
}

func TestIssueService_Create_MaxPlusOneIgnoringGapsAndOtherMonths(t *testing.T) {
	store := newFakeIssueStore("PRJ-062025-001", "PRJ-062025-003", "PRJ-052025-999")
	svc := newTestIssueService(store, &fakePublisher{})

	issue, err := svc.Create(context.Background(), 7, 1, IssueInput{
		Title:    "Follow-up",
		Type:     model.IssueTypeSupport,
		Priority: model.PriorityLow,
		Status:   model.StatusOpen,
	})
	require.NoError(t, err)
	assert.Equal(t, "PRJ-062025-004", issue.Code)
}

func TestIssueService_Create_MalformedCodesSkipped(t *testing.T) {
	store := newFakeIssueStore("PRJ-062025-abc", "PRJ-062025-002")
	svc := newTestIssueService(store, &fakePublisher{})

	issue, err := svc.Create(context.Background(), 7, 1, IssueInput{
		Title:    "x",
		Type:     model.IssueTypeBug,
		Priority: model.PriorityLow,
		Status:   model.StatusOpen,
	})
	require.NoError(t, err)
	assert.Equal(t, "PRJ-062025-003", issue.Code)
}

func TestIssueService_Create_ComputesLatenessLabel(t *testing.T) {
	store := newFakeIssueStore()
	svc := newTestIssueService(store, &fakePublisher{})

	due := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	complete := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	issue, err := svc.Create(context.Background(), 7, 1, IssueInput{
		Title:        "late one",
		Type:         model.IssueTypeBug,
		Priority:     model.PriorityLow,
		Status:       model.StatusDone,
		DueDate:      &due,
		CompleteDate: &complete,
	})
	require.NoError(t, err)
	assert.Equal(t, "Late Time (5 Day)", issue.OnLateTime)
}

func TestIssueService_Create_RetriesOnCodeConflict(t *testing.T) {
	store := newFakeIssueStore("PRJ-062025-001")
	store.insertConflicts = 1
	svc := newTestIssueService(store, &fakePublisher{})

	issue, err := svc.Create(context.Background(), 7, 1, IssueInput{
		Title:    "raced",
		Type:     model.IssueTypeBug,
		Priority: model.PriorityLow,
		Status:   model.StatusOpen,
	})
	require.NoError(t, err)

	// first attempt lost 002 to the concurrent writer, second takes 003
	assert.Equal(t, "PRJ-062025-003", issue.Code)
}

func TestIssueService_Create_FailedReadNeverAllocates(t *testing.T) {
	store := newFakeIssueStore()
	store.listErrs = []error{errors.New("permission denied")}
	svc := newTestIssueService(store, &fakePublisher{})

	_, err := svc.Create(context.Background(), 7, 1, IssueInput{
		Title:    "x",
		Type:     model.IssueTypeBug,
		Priority: model.PriorityLow,
		Status:   model.StatusOpen,
	})
	require.Error(t, err)
	assert.Empty(t, store.issues, "no issue may be written after a failed code read")
}

func TestIssueService_Create_RetriesTransientReadOnce(t *testing.T) {
	store := newFakeIssueStore("PRJ-062025-001")
	store.listErrs = []error{fmt.Errorf("read tcp: connection reset")}
	svc := newTestIssueService(store, &fakePublisher{})

	issue, err := svc.Create(context.Background(), 7, 1, IssueInput{
		Title:    "x",
		Type:     model.IssueTypeBug,
		Priority: model.PriorityLow,
		Status:   model.StatusOpen,
	})
	require.NoError(t, err)
	assert.Equal(t, "PRJ-062025-002", issue.Code)
	assert.Equal(t, 2, store.listCalls)
}

func TestIssueService_Create_UnknownProject(t *testing.T) {
	svc := newTestIssueService(newFakeIssueStore(), &fakePublisher{})

	_, err := svc.Create(context.Background(), 99, 1, IssueInput{Title: "x"})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestIssueService_Update_RecomputesLateness(t *testing.T) {
	store := newFakeIssueStore()
	pub := &fakePublisher{}
	svc := newTestIssueService(store, pub)

	due := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	issue, err := svc.Create(context.Background(), 7, 1, IssueInput{
		Title:    "t",
		Type:     model.IssueTypeBug,
		Priority: model.PriorityLow,
		Status:   model.StatusOpen,
		DueDate:  &due,
	})
	require.NoError(t, err)
	require.Equal(t, "", issue.OnLateTime)

	complete := due.AddDate(0, 0, -2)
	updated, err := svc.Update(context.Background(), issue.ID, 1, IssueInput{
		Title:        "t",
		Type:         model.IssueTypeBug,
		Priority:     model.PriorityLow,
		Status:       model.StatusDone,
		DueDate:      &due,
		CompleteDate: &complete,
	})
	require.NoError(t, err)
	assert.Equal(t, "On Time (2 Day)", updated.OnLateTime)
	assert.Contains(t, pub.published, events.IssueCompleted)

	// clearing the complete date clears the stored label too
	cleared, err := svc.Update(context.Background(), issue.ID, 1, IssueInput{
		Title:    "t",
		Type:     model.IssueTypeBug,
		Priority: model.PriorityLow,
		Status:   model.StatusInProgress,
		DueDate:  &due,
	})
	require.NoError(t, err)
	assert.Equal(t, "", cleared.OnLateTime)
}

func TestIssueService_Duplicate(t *testing.T) {
	store := newFakeIssueStore()
	svc := newTestIssueService(store, &fakePublisher{})

	due := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)
	complete := time.Date(2025, time.June, 25, 0, 0, 0, 0, time.UTC)
	src, err := svc.Create(context.Background(), 7, 1, IssueInput{
		Title:        "original",
		Type:         model.IssueTypeFeature,
		Priority:     model.PriorityMedium,
		Status:       model.StatusDone,
		DueDate:      &due,
		CompleteDate: &complete,
	})
	require.NoError(t, err)
	require.Equal(t, "PRJ-062025-001", src.Code)

	dup, err := svc.Duplicate(context.Background(), src.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, "PRJ-062025-002", dup.Code)
	assert.Equal(t, "original", dup.Title)
	assert.Equal(t, model.StatusOpen, dup.Status)
	assert.Nil(t, dup.CompleteDate)
	assert.Equal(t, "", dup.OnLateTime, "label is recomputed, not copied")
}

func TestIssueService_Delete_PublishesEvent(t *testing.T) {
	store := newFakeIssueStore()
	pub := &fakePublisher{}
	svc := newTestIssueService(store, pub)

	issue, err := svc.Create(context.Background(), 7, 1, IssueInput{
		Title:    "t",
		Type:     model.IssueTypeBug,
		Priority: model.PriorityLow,
		Status:   model.StatusOpen,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), issue.ID, 1))
	assert.Contains(t, pub.published, events.IssueDeleted)
	assert.Empty(t, store.issues)
}

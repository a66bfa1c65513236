package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backoffice/internal/model"
)

func TestStatsService_GetProjectStats(t *testing.T) {
	issues := newFakeIssueStore()
	issueSvc := newTestIssueService(issues, &fakePublisher{})

	due := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	lateComplete := time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC)

	_, err := issueSvc.Create(context.Background(), 7, 1, IssueInput{
		Title: "a", Type: model.IssueTypeBug, Priority: model.PriorityLow, Status: model.StatusOpen,
	})
	require.NoError(t, err)
	_, err = issueSvc.Create(context.Background(), 7, 1, IssueInput{
		Title: "b", Type: model.IssueTypeBug, Priority: model.PriorityLow, Status: model.StatusDone,
		DueDate: &due, CompleteDate: &lateComplete,
	})
	require.NoError(t, err)
	_, err = issueSvc.Create(context.Background(), 7, 1, IssueInput{
		Title: "c", Type: model.IssueTypeBug, Priority: model.PriorityLow, Status: model.StatusDone,
		DueDate: &due, CompleteDate: &due,
	})
	require.NoError(t, err)

	// nil redis client: cache disabled, stats computed from the store
	svc := NewStatsService(issues, nil, zap.NewNop())

	stats, err := svc.GetProjectStats(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[model.StatusOpen])
	assert.Equal(t, 2, stats.ByStatus[model.StatusDone])
	assert.Equal(t, 1, stats.LateCompleted)
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const statsCacheTTL = time.Minute

// ProjectStats is the dashboard payload for one project.
type ProjectStats struct {
	ProjectID     int            `json:"project_id"`
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"by_status"`
	LateCompleted int            `json:"late_completed"`
}

// StatsService computes per-project issue counts with a Redis read-through
// cache. Issue mutations invalidate the cached entry.
type StatsService struct {
	issues IssueStore
	rdb    *redis.Client
	logger *zap.Logger
}

func NewStatsService(issues IssueStore, rdb *redis.Client, logger *zap.Logger) *StatsService {
	return &StatsService{
		issues: issues,
		rdb:    rdb,
		logger: logger,
	}
}

func statsKey(projectID int) string {
	return fmt.Sprintf("stats:project:%d", projectID)
}

func (s *StatsService) GetProjectStats(ctx context.Context, projectID int) (*ProjectStats, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, statsKey(projectID)).Result()
		if err == nil {
			var stats ProjectStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("Stats cache read failed",
				zap.Int("project_id", projectID),
				zap.Error(err),
			)
		}
	}

	issues, err := s.issues.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	stats := &ProjectStats{
		ProjectID: projectID,
		Total:     len(issues),
		ByStatus:  map[string]int{},
	}
	for _, i := range issues {
		stats.ByStatus[i.Status]++
		if strings.HasPrefix(i.OnLateTime, "Late Time") {
			stats.LateCompleted++
		}
	}

	if s.rdb != nil {
		if body, err := json.Marshal(stats); err == nil {
			if err := s.rdb.Set(ctx, statsKey(projectID), body, statsCacheTTL).Err(); err != nil {
				s.logger.Warn("Stats cache write failed",
					zap.Int("project_id", projectID),
					zap.Error(err),
				)
			}
		}
	}

	return stats, nil
}

// Invalidate satisfies StatsInvalidator for the issue write path.
func (s *StatsService) Invalidate(ctx context.Context, projectID int) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, statsKey(projectID)).Err(); err != nil {
		s.logger.Warn("Stats cache invalidation failed",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
	}
}

package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/avdeyev/go-taskboard/internal/models"
	"github.com/avdeyev/go-taskboard/internal/storage"
)

const recentTaskLimit = 10

type dashboardServiceImpl struct {
	logger zerolog.Logger
	tasks  storage.TaskStore
	users  storage.UserStore
}

func NewDashboardService(
	logger zerolog.Logger,
	tasks storage.TaskStore,
	users storage.UserStore,
) DashboardService {
	return &dashboardServiceImpl{
		logger: logger,
		tasks:  tasks,
		users:  users,
	}
}

func (s *dashboardServiceImpl) Overview(ctx context.Context) (*DashboardData, error) {
	var data *DashboardData
	err := s.tasks.WithSnapshot(ctx, func(tasks storage.TaskStore) error {
		agg, err := s.aggregate(ctx, tasks, storage.ScopeGlobal())
		if err != nil {
			return err
		}

		recent, err := s.recentTasks(ctx, tasks, storage.ScopeGlobal(), false)
		if err != nil {
			return err
		}

		data = &DashboardData{
			Statistics:  agg.statistics,
			Charts:      agg.charts,
			RecentTasks: recent,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Msg("built dashboard overview")
	return data, nil
}

func (s *dashboardServiceImpl) UserOverview(ctx context.Context, userID string) (*UserDashboardData, error) {
	scope := storage.ScopeOwnedBy(userID)

	var data *UserDashboardData
	err := s.tasks.WithSnapshot(ctx, func(tasks storage.TaskStore) error {
		agg, err := s.aggregate(ctx, tasks, scope)
		if err != nil {
			return err
		}

		now := time.Now()
		weekEnd := now.Add(7 * 24 * time.Hour)
		dueThisWeek, err := tasks.Count(ctx, storage.TaskFilter{
			Scope:     scope,
			NotStatus: models.StatusCompleted,
			DueAfter:  &now,
			DueBefore: &weekEnd,
		})
		if err != nil {
			return err
		}

		recent, err := s.recentTasks(ctx, tasks, scope, true)
		if err != nil {
			return err
		}

		data = &UserDashboardData{
			ProductivityScore: productivityScore(agg.statistics.CompletedTasks, agg.statistics.TotalTasks),
			Statistics:        agg.statistics,
			Charts:            agg.charts,
			QuickStats: QuickStats{
				Overdue:     agg.statistics.OverdueTasks,
				DueThisWeek: dueThisWeek,
			},
			RecentTasks: recent,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	teamMembers, err := s.users.CountOthers(ctx, userID)
	if err != nil {
		return nil, err
	}
	data.QuickStats.TeamMembers = teamMembers

	s.logger.Debug().
		Str("user_id", userID).
		Msg("built user dashboard overview")
	return data, nil
}

type aggregation struct {
	statistics TaskStatistics
	charts     DashboardCharts
}

func (s *dashboardServiceImpl) aggregate(ctx context.Context, tasks storage.TaskStore, scope storage.VisibilityScope) (*aggregation, error) {
	total, err := tasks.Count(ctx, storage.TaskFilter{Scope: scope})
	if err != nil {
		return nil, err
	}

	byStatus, err := tasks.CountByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}

	byPriority, err := tasks.CountByPriority(ctx, scope)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	overdue, err := tasks.Count(ctx, storage.TaskFilter{
		Scope:     scope,
		NotStatus: models.StatusCompleted,
		DueBefore: &now,
	})
	if err != nil {
		return nil, err
	}

	return &aggregation{
		statistics: TaskStatistics{
			TotalTasks:     total,
			PendingTasks:   byStatus[models.StatusPending],
			CompletedTasks: byStatus[models.StatusCompleted],
			OverdueTasks:   overdue,
		},
		charts: DashboardCharts{
			TaskDistribution:   distributionChart(byStatus, total),
			TaskPriorityLevels: priorityChart(byPriority),
		},
	}, nil
}

func (s *dashboardServiceImpl) recentTasks(ctx context.Context, tasks storage.TaskStore, scope storage.VisibilityScope, withAssignees bool) ([]RecentTask, error) {
	listed, err := tasks.ListRecent(ctx, scope, recentTaskLimit)
	if err != nil {
		return nil, err
	}

	summaries := map[string]models.UserSummary{}
	if withAssignees {
		var assigneeIDs []string
		for _, task := range listed {
			assigneeIDs = append(assigneeIDs, task.AssignedTo...)
		}
		summaries, err = s.users.SummariesByID(ctx, uniqueStrings(assigneeIDs))
		if err != nil {
			return nil, err
		}
	}

	recent := make([]RecentTask, len(listed))
	for i, task := range listed {
		recent[i] = RecentTask{
			ID:        task.ID,
			Title:     task.Title,
			Status:    task.Status,
			Priority:  task.Priority,
			DueDate:   task.DueDate,
			CreatedAt: task.CreatedAt,
		}
		if withAssignees {
			recent[i].AssignedTo = resolveSummaries(task.AssignedTo, summaries)
		}
	}
	return recent, nil
}

// distributionChart zero-fills every status bucket and adds the "All"
// total. Keys are the status names with spaces stripped, matching what
// chart rendering indexes by.
func distributionChart(byStatus map[string]int64, total int64) map[string]int64 {
	statuses := []string{
		models.StatusPending,
		models.StatusInProgress,
		models.StatusCompleted,
	}

	chart := make(map[string]int64, len(statuses)+1)
	for _, status := range statuses {
		key := strings.ReplaceAll(status, " ", "")
		chart[key] = byStatus[status]
	}
	chart["All"] = total
	return chart
}

func priorityChart(byPriority map[string]int64) map[string]int64 {
	priorities := []string{
		models.PriorityLow,
		models.PriorityMedium,
		models.PriorityHigh,
	}

	chart := make(map[string]int64, len(priorities))
	for _, priority := range priorities {
		chart[priority] = byPriority[priority]
	}
	return chart
}

func productivityScore(completed, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

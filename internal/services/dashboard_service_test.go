package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeyev/go-taskboard/internal/models"
)

type dashboardFixture struct {
	service   DashboardService
	taskStore *memTaskStore
	userStore *memUserStore
	admin     Principal
	member    Principal
	outsider  Principal
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()

	taskStore := &memTaskStore{}
	userStore := &memUserStore{}

	admin := seedUser(t, userStore, "Boss", models.RoleAdmin)
	member := seedUser(t, userStore, "Worker", models.RoleMember)
	outsider := seedUser(t, userStore, "Bystander", models.RoleMember)

	return &dashboardFixture{
		service:   NewDashboardService(zerolog.Nop(), taskStore, userStore),
		taskStore: taskStore,
		userStore: userStore,
		admin:     admin,
		member:    member,
		outsider:  outsider,
	}
}

func (f *dashboardFixture) seedTask(t *testing.T, title, status, priority string, due time.Time, assignees ...string) *models.Task {
	t.Helper()

	now := time.Now()
	task := &models.Task{
		ID:         uuid.NewString(),
		Title:      title,
		Priority:   priority,
		Status:     status,
		DueDate:    due,
		AssignedTo: assignees,
		CreatedBy:  f.admin.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, f.taskStore.Create(context.Background(), task))
	return task
}

func TestOverviewChartsAreZeroFilled(t *testing.T) {
	f := newDashboardFixture(t)

	data, err := f.service.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{
		"Pending":    0,
		"InProgress": 0,
		"Completed":  0,
		"All":        0,
	}, data.Charts.TaskDistribution)
	assert.Equal(t, map[string]int64{
		"Low":    0,
		"Medium": 0,
		"High":   0,
	}, data.Charts.TaskPriorityLevels)
}

func TestOverviewAggregatesAllTasks(t *testing.T) {
	f := newDashboardFixture(t)

	yesterday := time.Now().Add(-24 * time.Hour)
	tomorrow := time.Now().Add(24 * time.Hour)

	f.seedTask(t, "late", models.StatusPending, models.PriorityHigh, yesterday, f.member.ID)
	f.seedTask(t, "late but done", models.StatusCompleted, models.PriorityLow, yesterday)
	f.seedTask(t, "on track", models.StatusInProgress, models.PriorityMedium, tomorrow, f.outsider.ID)
	f.seedTask(t, "queued", models.StatusPending, models.PriorityLow, tomorrow)

	data, err := f.service.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), data.Statistics.TotalTasks)
	assert.Equal(t, int64(2), data.Statistics.PendingTasks)
	assert.Equal(t, int64(1), data.Statistics.CompletedTasks)
	assert.Equal(t, int64(1), data.Statistics.OverdueTasks,
		"completed tasks are never overdue")

	assert.Equal(t, int64(2), data.Charts.TaskDistribution["Pending"])
	assert.Equal(t, int64(1), data.Charts.TaskDistribution["InProgress"])
	assert.Equal(t, int64(1), data.Charts.TaskDistribution["Completed"])
	assert.Equal(t, int64(4), data.Charts.TaskDistribution["All"])
	assert.Equal(t, int64(2), data.Charts.TaskPriorityLevels["Low"])
	assert.Equal(t, int64(1), data.Charts.TaskPriorityLevels["Medium"])
	assert.Equal(t, int64(1), data.Charts.TaskPriorityLevels["High"])
}

func TestOverviewRecentTasksNewestFirstCappedAtTen(t *testing.T) {
	f := newDashboardFixture(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		require.NoError(t, f.taskStore.Create(context.Background(), &models.Task{
			ID:        uuid.NewString(),
			Title:     fmt.Sprintf("task-%02d", i),
			Status:    models.StatusPending,
			Priority:  models.PriorityLow,
			DueDate:   time.Now().Add(24 * time.Hour),
			CreatedBy: f.admin.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	data, err := f.service.Overview(context.Background())
	require.NoError(t, err)

	require.Len(t, data.RecentTasks, 10)
	assert.Equal(t, "task-11", data.RecentTasks[0].Title)
	assert.Equal(t, "task-02", data.RecentTasks[9].Title)
	assert.Empty(t, data.RecentTasks[0].AssignedTo,
		"global overview does not resolve assignees")
}

func TestUserOverviewScopedToUser(t *testing.T) {
	f := newDashboardFixture(t)

	yesterday := time.Now().Add(-24 * time.Hour)
	inThreeDays := time.Now().Add(3 * 24 * time.Hour)
	inTwoWeeks := time.Now().Add(14 * 24 * time.Hour)

	f.seedTask(t, "overdue mine", models.StatusPending, models.PriorityHigh, yesterday, f.member.ID)
	f.seedTask(t, "due soon mine", models.StatusInProgress, models.PriorityMedium, inThreeDays, f.member.ID)
	f.seedTask(t, "far out mine", models.StatusPending, models.PriorityLow, inTwoWeeks, f.member.ID)
	f.seedTask(t, "done mine", models.StatusCompleted, models.PriorityLow, inThreeDays, f.member.ID)
	f.seedTask(t, "not mine", models.StatusPending, models.PriorityHigh, yesterday, f.outsider.ID)

	data, err := f.service.UserOverview(context.Background(), f.member.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(4), data.Statistics.TotalTasks)
	assert.Equal(t, int64(1), data.Statistics.CompletedTasks)
	assert.Equal(t, 25, data.ProductivityScore)

	assert.Equal(t, int64(1), data.QuickStats.Overdue)
	assert.Equal(t, int64(1), data.QuickStats.DueThisWeek,
		"only incomplete tasks due within seven days count")
	assert.Equal(t, int64(2), data.QuickStats.TeamMembers,
		"everyone but the requesting user")

	assert.Equal(t, int64(4), data.Charts.TaskDistribution["All"])
	require.Len(t, data.RecentTasks, 4)
	for _, recent := range data.RecentTasks {
		assert.NotEqual(t, "not mine", recent.Title)
	}
}

func TestUserOverviewResolvesRecentAssignees(t *testing.T) {
	f := newDashboardFixture(t)

	f.seedTask(t, "shared", models.StatusPending, models.PriorityLow,
		time.Now().Add(24*time.Hour), f.member.ID, f.outsider.ID)

	data, err := f.service.UserOverview(context.Background(), f.member.ID)
	require.NoError(t, err)

	require.Len(t, data.RecentTasks, 1)
	require.Len(t, data.RecentTasks[0].AssignedTo, 2)
	assert.Equal(t, "Worker", data.RecentTasks[0].AssignedTo[0].Name)
}

func TestUserOverviewWithNoTasks(t *testing.T) {
	f := newDashboardFixture(t)

	data, err := f.service.UserOverview(context.Background(), f.member.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, data.ProductivityScore, "no division by zero")
	assert.Equal(t, int64(0), data.Statistics.TotalTasks)
	assert.Len(t, data.Charts.TaskDistribution, 4)
	assert.Len(t, data.Charts.TaskPriorityLevels, 3)
	assert.Empty(t, data.RecentTasks)
}

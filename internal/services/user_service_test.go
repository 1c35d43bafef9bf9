package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeyev/go-taskboard/internal/models"
)

func TestListUsersIncludesTaskCounts(t *testing.T) {
	taskStore := &memTaskStore{}
	userStore := &memUserStore{}

	worker := seedUser(t, userStore, "Worker", models.RoleMember)
	idle := seedUser(t, userStore, "Idle", models.RoleMember)

	due := time.Now().Add(24 * time.Hour)
	statuses := []string{
		models.StatusPending,
		models.StatusPending,
		models.StatusInProgress,
		models.StatusCompleted,
	}
	for _, status := range statuses {
		require.NoError(t, taskStore.Create(context.Background(), &models.Task{
			ID:         uuid.NewString(),
			Title:      "work",
			Status:     status,
			Priority:   models.PriorityLow,
			DueDate:    due,
			AssignedTo: []string{worker.ID},
			CreatedAt:  time.Now(),
		}))
	}

	service := NewUserService(zerolog.Nop(), userStore, taskStore)
	users, err := service.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	byID := make(map[string]*UserWithTaskCounts, len(users))
	for _, entry := range users {
		byID[entry.User.ID] = entry
	}

	assert.Equal(t, int64(2), byID[worker.ID].PendingTasks)
	assert.Equal(t, int64(1), byID[worker.ID].InProgressTasks)
	assert.Equal(t, int64(1), byID[worker.ID].CompletedTasks)

	assert.Zero(t, byID[idle.ID].PendingTasks)
	assert.Zero(t, byID[idle.ID].InProgressTasks)
	assert.Zero(t, byID[idle.ID].CompletedTasks)
}

package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/avdeyev/go-taskboard/internal/models"
	"github.com/avdeyev/go-taskboard/internal/storage"
)

type userServiceImpl struct {
	logger zerolog.Logger
	users  storage.UserStore
	tasks  storage.TaskStore
}

func NewUserService(
	logger zerolog.Logger,
	users storage.UserStore,
	tasks storage.TaskStore,
) UserService {
	return &userServiceImpl{
		logger: logger,
		users:  users,
		tasks:  tasks,
	}
}

func (s *userServiceImpl) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userServiceImpl) ListUsers(ctx context.Context) ([]*UserWithTaskCounts, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*UserWithTaskCounts, len(users))
	for i, user := range users {
		byStatus, err := s.tasks.CountByStatus(ctx, storage.ScopeOwnedBy(user.ID))
		if err != nil {
			return nil, err
		}

		result[i] = &UserWithTaskCounts{
			User:            user,
			PendingTasks:    byStatus[models.StatusPending],
			InProgressTasks: byStatus[models.StatusInProgress],
			CompletedTasks:  byStatus[models.StatusCompleted],
		}
	}

	s.logger.Debug().
		Int("count", len(result)).
		Msg("listed users")
	return result, nil
}

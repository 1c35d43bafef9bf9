package services

import (
	"context"
	"sort"

	"github.com/avdeyev/go-taskboard/internal/models"
	"github.com/avdeyev/go-taskboard/internal/storage"
)

// memTaskStore and memUserStore implement the storage interfaces in
// memory so service behavior can be exercised without a database.

type memTaskStore struct {
	tasks []*models.Task
}

func (s *memTaskStore) Create(_ context.Context, task *models.Task) error {
	s.tasks = append(s.tasks, cloneTask(task))
	return nil
}

func (s *memTaskStore) GetByID(_ context.Context, id string) (*models.Task, error) {
	for _, task := range s.tasks {
		if task.ID == id {
			return cloneTask(task), nil
		}
	}
	return nil, storage.ErrTaskNotFound
}

func (s *memTaskStore) Save(_ context.Context, task *models.Task) error {
	for i, stored := range s.tasks {
		if stored.ID == task.ID {
			s.tasks[i] = cloneTask(task)
			return nil
		}
	}
	return storage.ErrTaskNotFound
}

func (s *memTaskStore) Delete(_ context.Context, id string) error {
	for i, stored := range s.tasks {
		if stored.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return storage.ErrTaskNotFound
}

func (s *memTaskStore) List(_ context.Context, filter storage.TaskFilter) ([]*models.Task, error) {
	var matched []*models.Task
	for _, task := range s.tasks {
		if matchesFilter(task, filter) {
			matched = append(matched, cloneTask(task))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func (s *memTaskStore) Count(_ context.Context, filter storage.TaskFilter) (int64, error) {
	var count int64
	for _, task := range s.tasks {
		if matchesFilter(task, filter) {
			count++
		}
	}
	return count, nil
}

func (s *memTaskStore) CountByStatus(_ context.Context, scope storage.VisibilityScope) (map[string]int64, error) {
	return s.countGrouped(scope, func(t *models.Task) string { return t.Status }), nil
}

func (s *memTaskStore) CountByPriority(_ context.Context, scope storage.VisibilityScope) (map[string]int64, error) {
	return s.countGrouped(scope, func(t *models.Task) string { return t.Priority }), nil
}

func (s *memTaskStore) countGrouped(scope storage.VisibilityScope, key func(*models.Task) string) map[string]int64 {
	counts := make(map[string]int64)
	for _, task := range s.tasks {
		if matchesFilter(task, storage.TaskFilter{Scope: scope}) {
			counts[key(task)]++
		}
	}
	return counts
}

func (s *memTaskStore) ListRecent(ctx context.Context, scope storage.VisibilityScope, limit int) ([]*models.Task, error) {
	tasks, err := s.List(ctx, storage.TaskFilter{Scope: scope})
	if err != nil {
		return nil, err
	}
	if len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

func (s *memTaskStore) WithSnapshot(_ context.Context, fn func(storage.TaskStore) error) error {
	return fn(s)
}

func matchesFilter(task *models.Task, filter storage.TaskFilter) bool {
	if userID, ok := filter.Scope.OwnedBy(); ok && !task.AssignedToUser(userID) {
		return false
	}
	if filter.Status != "" && task.Status != filter.Status {
		return false
	}
	if filter.NotStatus != "" && task.Status == filter.NotStatus {
		return false
	}
	if filter.DueBefore != nil && !task.DueDate.Before(*filter.DueBefore) {
		return false
	}
	if filter.DueAfter != nil && task.DueDate.Before(*filter.DueAfter) {
		return false
	}
	return true
}

func cloneTask(task *models.Task) *models.Task {
	clone := *task
	clone.AssignedTo = append([]string(nil), task.AssignedTo...)
	clone.TodoChecklist = append([]models.TodoItem(nil), task.TodoChecklist...)
	clone.Attachments = append([]string(nil), task.Attachments...)
	return &clone
}

type memUserStore struct {
	users []*models.User
}

func (s *memUserStore) Create(_ context.Context, user *models.User) error {
	for _, stored := range s.users {
		if stored.Email == user.Email {
			return storage.ErrEmailTaken
		}
	}
	clone := *user
	s.users = append(s.users, &clone)
	return nil
}

func (s *memUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (s *memUserStore) List(_ context.Context) ([]*models.User, error) {
	users := make([]*models.User, len(s.users))
	for i, user := range s.users {
		clone := *user
		users[i] = &clone
	}
	return users, nil
}

func (s *memUserStore) CountExisting(_ context.Context, ids []string) (int64, error) {
	var count int64
	for _, id := range ids {
		for _, user := range s.users {
			if user.ID == id {
				count++
				break
			}
		}
	}
	return count, nil
}

func (s *memUserStore) CountOthers(_ context.Context, excludeID string) (int64, error) {
	var count int64
	for _, user := range s.users {
		if user.ID != excludeID {
			count++
		}
	}
	return count, nil
}

func (s *memUserStore) SummariesByID(_ context.Context, ids []string) (map[string]models.UserSummary, error) {
	summaries := make(map[string]models.UserSummary)
	for _, id := range ids {
		for _, user := range s.users {
			if user.ID == id {
				summaries[id] = user.Summary()
				break
			}
		}
	}
	return summaries, nil
}

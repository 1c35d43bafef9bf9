package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/avdeyev/go-taskboard/internal/models"
	"github.com/avdeyev/go-taskboard/internal/storage"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	tasks  storage.TaskStore
	users  storage.UserStore
}

func NewTaskService(
	logger zerolog.Logger,
	tasks storage.TaskStore,
	users storage.UserStore,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		tasks:  tasks,
		users:  users,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, principal Principal, params CreateTaskParams) (*TaskView, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, validationErrorf("title is required")
	}
	if params.DueDate.IsZero() {
		return nil, validationErrorf("due date is required")
	}
	if params.AssignedTo == nil {
		return nil, validationErrorf("assignedTo must be an array of user IDs")
	}

	err := s.validateAssignees(ctx, params.AssignedTo)
	if err != nil {
		return nil, err
	}

	priority := params.Priority
	if priority == "" {
		priority = models.PriorityLow
	} else if !models.ValidPriority(priority) {
		return nil, validationErrorf("invalid priority: %s", priority)
	}

	now := time.Now()
	task := &models.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(params.Description),
		Priority:    priority,
		// A provided checklist does not influence the created status;
		// the first checklist replacement derives real values.
		Status:        models.StatusPending,
		Progress:      0,
		DueDate:       params.DueDate,
		AssignedTo:    params.AssignedTo,
		CreatedBy:     principal.ID,
		TodoChecklist: params.TodoChecklist,
		Attachments:   params.Attachments,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if task.TodoChecklist == nil {
		task.TodoChecklist = []models.TodoItem{}
	}
	if task.Attachments == nil {
		task.Attachments = []string{}
	}

	err = s.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("created_by", principal.ID).
		Msg("created task")
	return s.taskView(ctx, task)
}

func (s *taskServiceImpl) GetTasks(ctx context.Context, principal Principal, statusFilter string) (*TaskListResult, error) {
	if statusFilter == "All" {
		statusFilter = ""
	}

	scope := storage.ScopeFor(principal.ID, principal.Role)
	tasks, err := s.tasks.List(ctx, storage.TaskFilter{
		Scope:  scope,
		Status: statusFilter,
	})
	if err != nil {
		return nil, err
	}

	views, err := s.taskViews(ctx, tasks)
	if err != nil {
		return nil, err
	}

	summary, err := s.statusSummary(ctx, scope)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(views)).
		Str("user_id", principal.ID).
		Msg("listed tasks")
	return &TaskListResult{
		Tasks:         views,
		StatusSummary: *summary,
	}, nil
}

// statusSummary runs one count per bucket, all under the same scope as the
// listing itself.
func (s *taskServiceImpl) statusSummary(ctx context.Context, scope storage.VisibilityScope) (*StatusSummary, error) {
	var summary StatusSummary

	counts := []struct {
		status string
		dest   *int64
	}{
		{"", &summary.All},
		{models.StatusPending, &summary.PendingTasks},
		{models.StatusInProgress, &summary.InProgressTasks},
		{models.StatusCompleted, &summary.CompletedTasks},
	}
	for _, c := range counts {
		count, err := s.tasks.Count(ctx, storage.TaskFilter{
			Scope:  scope,
			Status: c.status,
		})
		if err != nil {
			return nil, err
		}
		*c.dest = count
	}
	return &summary, nil
}

func (s *taskServiceImpl) GetTaskByID(ctx context.Context, id string) (*TaskView, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.taskView(ctx, task)
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, id string, patch TaskPatch) (*TaskView, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, validationErrorf("title cannot be empty")
		}
		task.Title = title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		if !models.ValidPriority(*patch.Priority) {
			return nil, validationErrorf("invalid priority: %s", *patch.Priority)
		}
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		if patch.DueDate.IsZero() {
			return nil, validationErrorf("due date cannot be empty")
		}
		task.DueDate = *patch.DueDate
	}
	if patch.AssignedTo != nil {
		err = s.validateAssignees(ctx, *patch.AssignedTo)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = *patch.AssignedTo
	}
	if patch.TodoChecklist != nil {
		// Replacing the checklist here does not derive progress or
		// status; that is the checklist endpoint's job.
		task.TodoChecklist = *patch.TodoChecklist
	}
	if patch.Attachments != nil {
		task.Attachments = *patch.Attachments
	}

	task.UpdatedAt = time.Now()
	err = s.tasks.Save(ctx, task)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("updated task")
	return s.taskView(ctx, task)
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	err := s.tasks.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) ForceStatus(ctx context.Context, id, status string) (*TaskView, error) {
	if !models.ValidStatus(status) {
		return nil, validationErrorf("invalid status: %s", status)
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Status = status
	task.UpdatedAt = time.Now()
	err = s.tasks.Save(ctx, task)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("status", status).
		Msg("forced task status")
	return s.taskView(ctx, task)
}

func (s *taskServiceImpl) ReplaceChecklist(ctx context.Context, principal Principal, id string, items []models.TodoItem) (*TaskView, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !principal.IsAdmin() && !task.AssignedToUser(principal.ID) {
		s.logger.Warn().
			Str("task_id", id).
			Str("user_id", principal.ID).
			Msg("checklist update rejected")
		return nil, ErrNotAssignee
	}

	if items == nil {
		items = []models.TodoItem{}
	}
	task.TodoChecklist = items

	_, _, progress, status := models.ChecklistProgress(items)
	task.Progress = progress
	task.Status = status
	task.UpdatedAt = time.Now()

	err = s.tasks.Save(ctx, task)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Int("progress", progress).
		Str("status", status).
		Msg("replaced task checklist")
	return s.taskView(ctx, task)
}

// validateAssignees checks id shape and existence. It is the single
// validation path for both create and update.
func (s *taskServiceImpl) validateAssignees(ctx context.Context, ids []string) error {
	for _, id := range ids {
		_, err := uuid.Parse(id)
		if err != nil {
			return validationErrorf("invalid user ID: %s", id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	unique := uniqueStrings(ids)
	count, err := s.users.CountExisting(ctx, unique)
	if err != nil {
		return err
	}
	if count != int64(len(unique)) {
		return validationErrorf("assignedTo contains unknown user IDs")
	}
	return nil
}

func (s *taskServiceImpl) taskView(ctx context.Context, task *models.Task) (*TaskView, error) {
	views, err := s.taskViews(ctx, []*models.Task{task})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// taskViews resolves assignee summaries for a batch of tasks with a single
// user lookup and annotates each with its completed-item count.
func (s *taskServiceImpl) taskViews(ctx context.Context, tasks []*models.Task) ([]*TaskView, error) {
	var assigneeIDs []string
	for _, task := range tasks {
		assigneeIDs = append(assigneeIDs, task.AssignedTo...)
	}

	summaries, err := s.users.SummariesByID(ctx, uniqueStrings(assigneeIDs))
	if err != nil {
		return nil, err
	}

	views := make([]*TaskView, len(tasks))
	for i, task := range tasks {
		completed, _, _, _ := models.ChecklistProgress(task.TodoChecklist)
		views[i] = &TaskView{
			Task:               task,
			AssignedTo:         resolveSummaries(task.AssignedTo, summaries),
			CompletedTodoCount: completed,
		}
	}
	return views, nil
}

func resolveSummaries(ids []string, summaries map[string]models.UserSummary) []models.UserSummary {
	resolved := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if summary, ok := summaries[id]; ok {
			resolved = append(resolved, summary)
		}
	}
	return resolved
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}
	return unique
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avdeyev/go-taskboard/internal/models"
	"github.com/avdeyev/go-taskboard/internal/storage"
)

var (
	ErrTaskNotFound     = storage.ErrTaskNotFound
	ErrUserNotFound     = storage.ErrUserNotFound
	ErrEmailTaken       = storage.ErrEmailTaken
	ErrPasswordMismatch = errors.New("password mismatch")
	ErrNotAssignee      = errors.New("not assigned to this task")
)

// ValidationError marks malformed or missing input. Handlers map it to a
// 400 response carrying the message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Principal is the authenticated caller, as established by the auth
// middleware. It decides visibility scope and admin-only access.
type Principal struct {
	ID   string
	Role string
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

type TaskService interface {
	// CreateTask validates input and persists a new task. The created
	// task is always Pending with zero progress, even when a checklist
	// is supplied; derivation happens only on checklist replacement.
	CreateTask(ctx context.Context, principal Principal, params CreateTaskParams) (*TaskView, error)

	// GetTasks lists tasks visible to the principal, optionally filtered
	// by status, together with a status summary over the same scope.
	// The filter value "All" means no filter.
	GetTasks(ctx context.Context, principal Principal, statusFilter string) (*TaskListResult, error)

	GetTaskByID(ctx context.Context, id string) (*TaskView, error)

	// UpdateTask applies a partial update. Only fields present in the
	// patch are written, so a present-but-empty value clears a field
	// instead of being silently dropped.
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (*TaskView, error)

	DeleteTask(ctx context.Context, id string) error

	// ForceStatus overrides the stored status without recomputing
	// progress. It is the explicit manual-override path; ReplaceChecklist
	// is the only operation that derives status.
	ForceStatus(ctx context.Context, id, status string) (*TaskView, error)

	// ReplaceChecklist swaps the checklist and derives progress and
	// status from it. Only an assignee or an admin may call it.
	ReplaceChecklist(ctx context.Context, principal Principal, id string, items []models.TodoItem) (*TaskView, error)
}

type CreateTaskParams struct {
	Title         string
	Description   string
	Priority      string
	DueDate       time.Time
	AssignedTo    []string
	TodoChecklist []models.TodoItem
	Attachments   []string
}

// TaskPatch distinguishes absent fields (nil) from present-but-zero ones.
type TaskPatch struct {
	Title         *string
	Description   *string
	Priority      *string
	DueDate       *time.Time
	AssignedTo    *[]string
	TodoChecklist *[]models.TodoItem
	Attachments   *[]string
}

// TaskView is a task with its assignees resolved to summaries and the
// completed-item count annotated. CompletedTodoCount is derived per
// response and never persisted.
type TaskView struct {
	Task               *models.Task
	AssignedTo         []models.UserSummary
	CompletedTodoCount int
}

type StatusSummary struct {
	All             int64
	PendingTasks    int64
	InProgressTasks int64
	CompletedTasks  int64
}

type TaskListResult struct {
	Tasks         []*TaskView
	StatusSummary StatusSummary
}

type DashboardService interface {
	// Overview aggregates statistics over all tasks, for admins.
	Overview(ctx context.Context) (*DashboardData, error)

	// UserOverview aggregates the same statistics scoped to the tasks
	// assigned to the given user, plus productivity and quick stats.
	UserOverview(ctx context.Context, userID string) (*UserDashboardData, error)
}

type TaskStatistics struct {
	TotalTasks     int64
	PendingTasks   int64
	CompletedTasks int64
	OverdueTasks   int64
}

// DashboardCharts holds zero-filled distributions: TaskDistribution always
// carries the keys Pending, InProgress, Completed and All;
// TaskPriorityLevels always carries Low, Medium and High. Chart rendering
// downstream indexes by fixed keys, so empty buckets must be present.
type DashboardCharts struct {
	TaskDistribution   map[string]int64
	TaskPriorityLevels map[string]int64
}

type RecentTask struct {
	ID         string
	Title      string
	Status     string
	Priority   string
	DueDate    time.Time
	CreatedAt  time.Time
	AssignedTo []models.UserSummary
}

type DashboardData struct {
	Statistics  TaskStatistics
	Charts      DashboardCharts
	RecentTasks []RecentTask
}

type QuickStats struct {
	Overdue     int64
	DueThisWeek int64
	TeamMembers int64
}

type UserDashboardData struct {
	ProductivityScore int
	Statistics        TaskStatistics
	Charts            DashboardCharts
	QuickStats        QuickStats
	RecentTasks       []RecentTask
}

type AuthService interface {
	// Register creates a user and issues a token. The account becomes an
	// admin when the invite token matches the configured one.
	//
	// It returns ErrEmailTaken if the email is already registered.
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)

	// Login authenticates by email and password.
	//
	// It returns ErrUserNotFound if no account matches the email or
	// ErrPasswordMismatch if the password is wrong.
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)

	// ParseToken validates a JWT and returns its registered claims; the
	// subject is the user id.
	ParseToken(token string) (*jwt.RegisteredClaims, error)
}

type RegisterParams struct {
	Name             string
	Email            string
	Password         string
	ProfileImageURL  string
	AdminInviteToken string
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

type UserService interface {
	// GetUser returns a single user by id.
	GetUser(ctx context.Context, id string) (*models.User, error)

	// ListUsers returns all users together with how many of their
	// assigned tasks sit in each status bucket.
	ListUsers(ctx context.Context) ([]*UserWithTaskCounts, error)
}

type UserWithTaskCounts struct {
	User            *models.User
	PendingTasks    int64
	InProgressTasks int64
	CompletedTasks  int64
}

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/avdeyev/go-taskboard/internal/models"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
)

// VisibilityScope limits queries and aggregations to the tasks a principal
// may see: admins get the global scope, everyone else only the tasks they
// are assigned to. It is computed once per request and threaded into every
// store call so the role branching lives in exactly one place.
type VisibilityScope struct {
	userID string
}

func ScopeGlobal() VisibilityScope {
	return VisibilityScope{}
}

func ScopeOwnedBy(userID string) VisibilityScope {
	return VisibilityScope{userID: userID}
}

func ScopeFor(userID, role string) VisibilityScope {
	if role == models.RoleAdmin {
		return ScopeGlobal()
	}
	return ScopeOwnedBy(userID)
}

// OwnedBy returns the owning user id and true when the scope is
// restricted, or false for the global scope.
func (s VisibilityScope) OwnedBy() (string, bool) {
	return s.userID, s.userID != ""
}

// TaskFilter narrows task queries. Zero-valued fields are ignored.
type TaskFilter struct {
	Scope     VisibilityScope
	Status    string
	NotStatus string
	DueBefore *time.Time
	DueAfter  *time.Time
}

type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	// Save overwrites the stored record with the given one. Writes are
	// last-write-wins; there is no version check.
	Save(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error

	// List returns matching tasks ordered by creation time, newest first.
	List(ctx context.Context, filter TaskFilter) ([]*models.Task, error)
	Count(ctx context.Context, filter TaskFilter) (int64, error)
	CountByStatus(ctx context.Context, scope VisibilityScope) (map[string]int64, error)
	CountByPriority(ctx context.Context, scope VisibilityScope) (map[string]int64, error)
	ListRecent(ctx context.Context, scope VisibilityScope, limit int) ([]*models.Task, error)

	// WithSnapshot runs fn against a consistent read-only view of the
	// task collection, so a multi-query aggregation does not observe
	// writes that land between its queries.
	WithSnapshot(ctx context.Context, fn func(TaskStore) error) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)

	// CountExisting reports how many of the given ids exist, for
	// validating assignee references without fetching full records.
	CountExisting(ctx context.Context, ids []string) (int64, error)
	CountOthers(ctx context.Context, excludeID string) (int64, error)
	SummariesByID(ctx context.Context, ids []string) (map[string]models.UserSummary, error)
}

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/avdeyev/go-taskboard/internal/models"
	"github.com/avdeyev/go-taskboard/internal/storage"
)

type userStoreImpl struct {
	logger zerolog.Logger
	db     querier
}

func NewUserStore(logger zerolog.Logger, pgPool *pgxpool.Pool) storage.UserStore {
	return &userStoreImpl{
		logger: logger,
		db:     pgPool,
	}
}

func (s *userStoreImpl) Create(ctx context.Context, user *models.User) error {
	const insertUserQuery = `
INSERT INTO users (id,
                   name,
                   email,
                   password,
                   profile_image_url,
                   role,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err := s.db.Exec(
		ctx,
		insertUserQuery,
		user.ID,
		user.Name,
		user.Email,
		user.Password,
		user.ProfileImageURL,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.logger.Warn().
				Str("email", user.Email).
				Msg("email already taken")
			return storage.ErrEmailTaken
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Msg("inserted user")
	return nil
}

const userColumns = `id,
       name,
       email,
       password,
       profile_image_url,
       role,
       created_at,
       updated_at`

func (s *userStoreImpl) GetByID(ctx context.Context, id string) (*models.User, error) {
	selectUserQuery := `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
`
	return s.getUser(ctx, selectUserQuery, id)
}

func (s *userStoreImpl) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	selectUserQuery := `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
`
	return s.getUser(ctx, selectUserQuery, email)
}

func (s *userStoreImpl) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.ProfileImageURL,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().Msg("user not found")
			return nil, storage.ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select user")
		return nil, err
	}
	return &user, nil
}

func (s *userStoreImpl) List(ctx context.Context) ([]*models.User, error) {
	selectUsersQuery := `
SELECT ` + userColumns + `
FROM users
ORDER BY created_at
`
	rows, err := s.db.Query(ctx, selectUsersQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select users")
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err = rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.Password,
			&user.ProfileImageURL,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan user")
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

func (s *userStoreImpl) CountExisting(ctx context.Context, ids []string) (int64, error) {
	const countExistingQuery = `
SELECT COUNT(*)
FROM users
WHERE id = ANY ($1)
`
	var count int64
	err := s.db.QueryRow(ctx, countExistingQuery, ids).Scan(&count)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count existing users")
		return 0, err
	}
	return count, nil
}

func (s *userStoreImpl) CountOthers(ctx context.Context, excludeID string) (int64, error) {
	const countOthersQuery = `
SELECT COUNT(*)
FROM users
WHERE id <> $1
`
	var count int64
	err := s.db.QueryRow(ctx, countOthersQuery, excludeID).Scan(&count)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count other users")
		return 0, err
	}
	return count, nil
}

func (s *userStoreImpl) SummariesByID(ctx context.Context, ids []string) (map[string]models.UserSummary, error) {
	if len(ids) == 0 {
		return map[string]models.UserSummary{}, nil
	}

	const selectSummariesQuery = `
SELECT id,
       name,
       email,
       profile_image_url
FROM users
WHERE id = ANY ($1)
`
	rows, err := s.db.Query(ctx, selectSummariesQuery, ids)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select user summaries")
		return nil, err
	}
	defer rows.Close()

	summaries := make(map[string]models.UserSummary, len(ids))
	for rows.Next() {
		var summary models.UserSummary
		err = rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Email,
			&summary.ProfileImageURL,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan user summary")
			return nil, err
		}
		summaries[summary.ID] = summary
	}
	return summaries, rows.Err()
}

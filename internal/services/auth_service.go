package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/avdeyev/go-taskboard/internal/models"
	"github.com/avdeyev/go-taskboard/internal/storage"
)

const minPasswordLength = 8

type authServiceImpl struct {
	logger           zerolog.Logger
	users            storage.UserStore
	jwtIssuer        string
	jwtSigningKey    []byte
	jwtTokenTTL      time.Duration
	adminInviteToken string
}

func NewAuthService(
	logger zerolog.Logger,
	users storage.UserStore,
	jwtIssuer string,
	jwtSigningKey []byte,
	jwtTokenTTL time.Duration,
	adminInviteToken string,
) AuthService {
	return &authServiceImpl{
		logger:           logger,
		users:            users,
		jwtIssuer:        jwtIssuer,
		jwtSigningKey:    jwtSigningKey,
		jwtTokenTTL:      jwtTokenTTL,
		adminInviteToken: adminInviteToken,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, validationErrorf("name is required")
	}
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" {
		return nil, validationErrorf("email is required")
	}
	if len(params.Password) < minPasswordLength {
		return nil, validationErrorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := argon2id.CreateHash(params.Password, argon2id.DefaultParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}

	role := models.RoleMember
	if s.adminInviteToken != "" && params.AdminInviteToken == s.adminInviteToken {
		role = models.RoleAdmin
	}

	now := time.Now()
	user := &models.User{
		ID:              uuid.NewString(),
		Name:            name,
		Email:           email,
		Password:        hash,
		ProfileImageURL: params.ProfileImageURL,
		Role:            role,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("user_id", user.ID).
		Str("role", role).
		Msg("registered user")

	return s.authResult(user)
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	match, err := argon2id.ComparePasswordAndHash(params.Password, user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Warn().
			Str("user_id", user.ID).
			Msg("passwords do not match")
		return nil, ErrPasswordMismatch
	}
	s.logger.Info().
		Str("user_id", user.ID).
		Msg("logged in user")

	return s.authResult(user)
}

func (s *authServiceImpl) authResult(user *models.User) (*AuthResult, error) {
	expiresAt := time.Now().Add(s.jwtTokenTTL)
	claims := jwt.RegisteredClaims{
		Issuer:    s.jwtIssuer,
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(s.jwtSigningKey)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to sign token")
		return nil, err
	}

	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *authServiceImpl) ParseToken(tokenString string) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		return s.jwtSigningKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, fmt.Errorf("failed to parse token claims")
	}
	return claims, nil
}

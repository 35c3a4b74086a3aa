package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"leadcrm/internal/cache"
	"leadcrm/internal/config"
	apperrors "leadcrm/internal/errors"
	"leadcrm/internal/mail"
	"leadcrm/internal/model"
	"leadcrm/internal/repository"
)

const userCacheTTL = time.Minute

// UpdateUserInput holds the admin-editable user fields. Nil fields are left unchanged.
type UpdateUserInput struct {
	Name   *string
	Phone  *string
	Role   *model.Role
	Status *model.UserStatus
}

// UserService exposes user management operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ResendSetup(ctx context.Context, id uuid.UUID) (*model.User, error)
	// Lookup resolves a user for request authentication, served from cache when possible.
	Lookup(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type userService struct {
	repo   repository.UserRepository
	cache  *cache.Client
	setup  *setupIssuer
	logger *slog.Logger
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(cfg *config.Config, repo repository.UserRepository, cache *cache.Client, mailer mail.Sender, logger *slog.Logger) UserService {
	return &userService{
		repo:   repo,
		cache:  cache,
		logger: logger,
		setup: &setupIssuer{
			users:     repo,
			cache:     cache,
			mailer:    mailer,
			clientURL: cfg.ClientURL,
			ttl:       cfg.SetupTokenTTL,
			now:       time.Now,
			logger:    logger,
		},
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error) {
	if in.Role != nil && !in.Role.Valid() {
		return nil, apperrors.Validation("Invalid role")
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, apperrors.Validation("Invalid status")
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len(name) < 3 {
			return nil, apperrors.Validation("Name must be at least 3 characters")
		}
		user.Name = name
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Status != nil {
		user.Status = *in.Status
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	invalidateUser(ctx, s.cache, s.logger, id)
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	invalidateUser(ctx, s.cache, s.logger, id)
	return nil
}

// ResendSetup issues a fresh setup token, invalidating any earlier one, and mails it.
func (s *userService) ResendSetup(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.setup.issue(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Lookup(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, userCacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJSON(ctx, userCacheKey(id), user, userCacheTTL)
	return user, nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"leadcrm/internal/auth"
	"leadcrm/internal/cache"
	"leadcrm/internal/config"
	apperrors "leadcrm/internal/errors"
	"leadcrm/internal/mail"
	"leadcrm/internal/metrics"
	"leadcrm/internal/model"
	"leadcrm/internal/policy"
	"leadcrm/internal/repository"
)

// CreateUserInput is the admin-supplied data of a new user.
type CreateUserInput struct {
	Name   string
	Email  string
	Phone  string
	Role   model.Role
	Status model.UserStatus
}

// SetPasswordInput redeems a setup token. Email is optional and must match the token holder when given.
type SetPasswordInput struct {
	Token    string
	Email    string
	Password string
}

// AuthService handles authentication operations.
type AuthService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error)
	SetPassword(ctx context.Context, in SetPasswordInput) error
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	Logout(ctx context.Context, claims *auth.SessionClaims) error
}

type authService struct {
	users       repository.UserRepository
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
	cache       *cache.Client
	setup       *setupIssuer
	minPassword int
	now         func() time.Time
	logger      *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	cfg *config.Config,
	users repository.UserRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	cache *cache.Client,
	mailer mail.Sender,
	logger *slog.Logger,
) AuthService {
	return &authService{
		users:       users,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
		cache:       cache,
		minPassword: cfg.MinPasswordLength,
		now:         time.Now,
		logger:      logger,
		setup: &setupIssuer{
			users:     users,
			cache:     cache,
			mailer:    mailer,
			clientURL: cfg.ClientURL,
			ttl:       cfg.SetupTokenTTL,
			now:       time.Now,
			logger:    logger,
		},
	}
}

// CreateUser creates a user without a password and mails them a setup link.
func (s *authService) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	if len(name) < 3 {
		return nil, apperrors.Validation("Name must be at least 3 characters")
	}
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, apperrors.Validation("Email is required")
	}
	role := in.Role
	if role == "" {
		role = model.RoleSales
	}
	if !role.Valid() {
		return nil, apperrors.Validation("Invalid role")
	}
	status := in.Status
	if status == "" {
		status = model.UserStatusActive
	}
	if !status.Valid() {
		return nil, apperrors.Validation("Invalid status")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	user := &model.User{
		Name:   name,
		Email:  email,
		Phone:  strings.TrimSpace(in.Phone),
		Role:   role,
		Status: status,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.setup.issue(ctx, user); err != nil {
		return user, err
	}
	return user, nil
}

// SetPassword consumes a setup token and activates the password.
func (s *authService) SetPassword(ctx context.Context, in SetPasswordInput) error {
	if in.Token == "" || in.Password == "" {
		return apperrors.Validation("Token and password are required")
	}

	tokenHash := auth.HashSetupToken(in.Token)
	user, err := s.users.FindBySetupToken(ctx, tokenHash, s.now())
	if err != nil {
		if isNotFound(err) {
			return apperrors.ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("find setup token: %w", err)
	}
	if in.Email != "" && normalizeEmail(in.Email) != user.Email {
		return apperrors.ErrInvalidOrExpiredToken
	}

	if len(in.Password) < s.minPassword {
		return apperrors.Validation(fmt.Sprintf("Password must be at least %d characters", s.minPassword))
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return err
	}
	ok, err := s.users.ConsumeSetupToken(ctx, user.ID, tokenHash, hash)
	if err != nil {
		return fmt.Errorf("save password: %w", err)
	}
	if !ok {
		return apperrors.ErrInvalidOrExpiredToken
	}
	invalidateUser(ctx, s.cache, s.logger, user.ID)
	return nil
}

// Login authenticates a user by email and password and issues a session token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			metrics.RecordLogin("invalid_credentials")
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !user.IsActive() {
		metrics.RecordLogin("inactive")
		return "", nil, apperrors.ErrAccountInactive
	}
	if !policy.CanLogin(user.Role) {
		metrics.RecordLogin("role_not_allowed")
		return "", nil, apperrors.ErrLoginRoleNotAllowed
	}
	if !user.HasPassword() {
		metrics.RecordLogin("invalid_credentials")
		return "", nil, apperrors.ErrInvalidCredentials
	}
	if err := auth.ComparePassword(*user.PasswordHash, password); err != nil {
		metrics.RecordLogin("invalid_credentials")
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateSessionToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}
	metrics.RecordLogin("success")
	return token, user, nil
}

// Logout revokes the session token for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, claims *auth.SessionClaims) error {
	if claims == nil {
		return apperrors.ErrTokenInvalid
	}
	return s.tokenStore.RevokeSession(ctx, claims.ID, claims.Remaining(s.now()))
}

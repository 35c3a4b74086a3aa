package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"leadcrm/internal/auth"
	"leadcrm/internal/cache"
	apperrors "leadcrm/internal/errors"
	"leadcrm/internal/mail"
	"leadcrm/internal/model"
	"leadcrm/internal/repository"
)

// setupIssuer issues password setup tokens and mails the link to the user.
type setupIssuer struct {
	users     repository.UserRepository
	cache     *cache.Client
	mailer    mail.Sender
	clientURL string
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// invalidateUser drops the cached copy of a user. Failures are logged and the
// stale entry expires after userCacheTTL.
func invalidateUser(ctx context.Context, c *cache.Client, logger *slog.Logger, id uuid.UUID) {
	if err := c.Delete(ctx, userCacheKey(id)); err != nil {
		logger.Warn("user cache invalidation failed",
			slog.String("user_id", id.String()),
			slog.String("error", err.Error()))
	}
}

// issue stores a fresh token hash on the user, overwriting any earlier one, then sends the setup email.
// A failed delivery leaves the user and the stored token in place.
func (s *setupIssuer) issue(ctx context.Context, user *model.User) error {
	token, err := auth.NewSetupToken(s.now(), s.ttl)
	if err != nil {
		return err
	}

	user.PasswordResetToken = &token.Hash
	user.PasswordResetExpires = &token.ExpiresAt
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("store setup token: %w", err)
	}
	invalidateUser(ctx, s.cache, s.logger, user.ID)

	link := mail.SetupLink(s.clientURL, token.Raw, user.Email)
	if err := s.mailer.Send(ctx, mail.SetupPasswordMessage(user.Email, user.Name, link)); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDeliveryFailure, err)
	}
	return nil
}

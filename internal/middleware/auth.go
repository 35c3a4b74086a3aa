package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"leadcrm/internal/auth"
	apperrors "leadcrm/internal/errors"
	"leadcrm/internal/model"
	"leadcrm/internal/policy"
)

const (
	claimsContextKey   = "session_claims"
	identityContextKey = "identity"
)

// UserLookup resolves the live user behind a session token.
type UserLookup interface {
	Lookup(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// Guard authenticates requests with session tokens and authorizes them against the policy table.
type Guard struct {
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	users      UserLookup
}

// NewGuard creates a new access guard.
func NewGuard(jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, users UserLookup) *Guard {
	return &Guard{
		jwtService: jwtService,
		tokenStore: tokenStore,
		users:      users,
	}
}

// Authenticate verifies the bearer session token, then loads the caller from live data.
// Status is checked against the stored user, never the token snapshot.
func (g *Guard) Authenticate() echo.MiddlewareFunc {
	parse := echojwt.WithConfig(echojwt.Config{
		ContextKey: claimsContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return g.jwtService.ValidateToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") || strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")) == "" {
				return apperrors.ErrTokenMissing
			}
			return apperrors.ErrTokenInvalid
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return parse(g.identify(next))
	}
}

func (g *Guard) identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(claimsContextKey).(*auth.SessionClaims)
		if !ok {
			return apperrors.ErrTokenInvalid
		}
		ctx := c.Request().Context()

		revoked, err := g.tokenStore.IsSessionRevoked(ctx, claims.ID)
		if err != nil {
			return err
		}
		if revoked {
			return apperrors.ErrTokenInvalid
		}

		id, err := uuid.Parse(claims.UserID)
		if err != nil {
			return apperrors.ErrTokenInvalid
		}
		user, err := g.users.Lookup(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				return apperrors.ErrIdentityNotFound
			}
			return err
		}
		if !user.IsActive() {
			return apperrors.ErrAccountInactive
		}

		identity := auth.NewIdentity(user)
		identity.TokenID = claims.ID
		c.Set(identityContextKey, identity)
		return next(c)
	}
}

// Require admits the request only when the caller's role may reach action on resource.
// Ownership conditions are left to the service.
func Require(resource policy.Resource, action policy.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return apperrors.ErrTokenMissing
			}
			if !policy.Allowed(resource, action, identity.Role) {
				return apperrors.ErrInsufficientRole
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the authenticated caller attached by Authenticate.
func IdentityFrom(c echo.Context) (auth.Identity, bool) {
	identity, ok := c.Get(identityContextKey).(auth.Identity)
	return identity, ok
}

// ClaimsFrom returns the verified session claims attached by Authenticate.
func ClaimsFrom(c echo.Context) (*auth.SessionClaims, bool) {
	claims, ok := c.Get(claimsContextKey).(*auth.SessionClaims)
	return claims, ok
}

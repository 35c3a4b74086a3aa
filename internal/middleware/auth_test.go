package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadcrm/internal/auth"
	"leadcrm/internal/cache"
	apperrors "leadcrm/internal/errors"
	"leadcrm/internal/model"
	"leadcrm/internal/policy"
)

type fakeLookup struct {
	users map[uuid.UUID]*model.User
}

func (f *fakeLookup) Lookup(_ context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

type guardFixture struct {
	guard  *Guard
	jwt    *auth.JWTService
	store  *auth.TokenStore
	lookup *fakeLookup
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	store := auth.NewTokenStore(cache.New(mr.Addr(), "", 0))
	lookup := &fakeLookup{users: map[uuid.UUID]*model.User{}}
	return &guardFixture{
		guard:  NewGuard(jwtService, store, lookup),
		jwt:    jwtService,
		store:  store,
		lookup: lookup,
	}
}

func (f *guardFixture) addUser(role model.Role, status model.UserStatus) *model.User {
	u := &model.User{ID: uuid.New(), Name: "User " + string(role), Email: string(role) + "@example.com", Role: role, Status: status}
	f.lookup.users[u.ID] = u
	return u
}

func (f *guardFixture) token(t *testing.T, u *model.User) string {
	t.Helper()
	token, err := f.jwt.GenerateSessionToken(u)
	require.NoError(t, err)
	return token
}

// run executes the guard, then the optional requirement, and reports the identity reaching the handler.
func (f *guardFixture) run(authorization string, reqs ...echo.MiddlewareFunc) (*auth.Identity, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var reached *auth.Identity
	h := func(c echo.Context) error {
		identity, _ := IdentityFrom(c)
		reached = &identity
		return c.NoContent(http.StatusOK)
	}
	for i := len(reqs) - 1; i >= 0; i-- {
		h = reqs[i](h)
	}
	err := f.guard.Authenticate()(h)(c)
	return reached, err
}

func TestGuard_Authenticate(t *testing.T) {
	f := newGuardFixture(t)
	active := f.addUser(model.RoleSales, model.UserStatusActive)

	t.Run("valid token", func(t *testing.T) {
		identity, err := f.run("Bearer " + f.token(t, active))
		require.NoError(t, err)
		require.NotNil(t, identity)
		assert.Equal(t, active.ID, identity.ID)
		assert.Equal(t, model.RoleSales, identity.Role)
		assert.NotEmpty(t, identity.TokenID)
	})

	t.Run("missing header", func(t *testing.T) {
		identity, err := f.run("")
		assert.ErrorIs(t, err, apperrors.ErrTokenMissing)
		assert.Nil(t, identity)
	})

	t.Run("not a bearer header", func(t *testing.T) {
		_, err := f.run("Basic abc")
		assert.ErrorIs(t, err, apperrors.ErrTokenMissing)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := f.run("Bearer not-a-jwt")
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := auth.NewJWTService("other-secret", time.Hour)
		token, err := other.GenerateSessionToken(active)
		require.NoError(t, err)
		_, err = f.run("Bearer " + token)
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})
}

func TestGuard_RevokedToken(t *testing.T) {
	f := newGuardFixture(t)
	user := f.addUser(model.RoleManager, model.UserStatusActive)
	token := f.token(t, user)

	claims, err := f.jwt.ValidateToken(token)
	require.NoError(t, err)
	require.NoError(t, f.store.RevokeSession(context.Background(), claims.ID, time.Hour))

	_, err = f.run("Bearer " + token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestGuard_LiveUserData(t *testing.T) {
	f := newGuardFixture(t)
	user := f.addUser(model.RoleManager, model.UserStatusActive)
	token := f.token(t, user)

	t.Run("deactivated after issuance", func(t *testing.T) {
		user.Status = model.UserStatusInactive
		defer func() { user.Status = model.UserStatusActive }()

		identity, err := f.run("Bearer " + token)
		assert.ErrorIs(t, err, apperrors.ErrAccountInactive)
		assert.Nil(t, identity)
	})

	t.Run("role change applies immediately", func(t *testing.T) {
		user.Role = model.RoleSales
		defer func() { user.Role = model.RoleManager }()

		_, err := f.run("Bearer "+token, Require(policy.Assignments, policy.Create))
		assert.ErrorIs(t, err, apperrors.ErrInsufficientRole)
	})

	t.Run("deleted user", func(t *testing.T) {
		delete(f.lookup.users, user.ID)
		_, err := f.run("Bearer " + token)
		assert.ErrorIs(t, err, apperrors.ErrIdentityNotFound)
	})
}

func TestRequire(t *testing.T) {
	f := newGuardFixture(t)

	tests := []struct {
		role     model.Role
		resource policy.Resource
		action   policy.Action
		allowed  bool
	}{
		{model.RoleAdmin, policy.Users, policy.Create, true},
		{model.RoleManager, policy.Users, policy.Create, false},
		{model.RoleManager, policy.Users, policy.List, true},
		{model.RoleSales, policy.Users, policy.List, false},
		{model.RoleSales, policy.Leads, policy.Update, true},
		{model.RoleSales, policy.Leads, policy.Delete, false},
		{model.RoleManager, policy.Leads, policy.Delete, false},
		{model.RoleSales, policy.Assignments, policy.List, true},
		{model.RoleSales, policy.Assignments, policy.Deactivate, false},
		{model.RoleManager, policy.Assignments, policy.Deactivate, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.resource)+"/"+string(tt.action), func(t *testing.T) {
			user := f.addUser(tt.role, model.UserStatusActive)
			identity, err := f.run("Bearer "+f.token(t, user), Require(tt.resource, tt.action))
			if tt.allowed {
				require.NoError(t, err)
				assert.NotNil(t, identity)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrInsufficientRole)
				assert.Nil(t, identity)
			}
		})
	}
}

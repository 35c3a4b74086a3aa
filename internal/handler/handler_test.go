package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"leadcrm/internal/errors"
	"leadcrm/internal/model"
	"leadcrm/internal/service"
)

type testValidator struct {
	v *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.v.Struct(i)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	e.HTTPErrorHandler = ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return e
}

func serve(e *echo.Echo, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(MockAuthService)
	h := NewAuthHandler(svc)
	e := newEcho()
	e.POST("/api/auth/login", h.Login)

	user := &model.User{ID: uuid.New(), Name: "Asha Rao", Email: "asha@example.com", Role: model.RoleSales}
	svc.On("Login", mock.Anything, "asha@example.com", "secret1").Return("signed.jwt.token", user, nil)
	svc.On("Login", mock.Anything, "asha@example.com", "wrong").Return("", nil, errors.ErrInvalidCredentials)
	svc.On("Login", mock.Anything, "off@example.com", "secret1").Return("", nil, errors.ErrAccountInactive)

	t.Run("success", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/api/auth/login", `{"email":"asha@example.com","password":"secret1"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Login successful", body["message"])
		assert.Equal(t, "signed.jwt.token", body["token"])
		data := body["data"].(map[string]interface{})
		assert.Equal(t, user.ID.String(), data["id"])
		assert.Equal(t, "sales", data["role"])
		assert.NotContains(t, data, "status")
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/api/auth/login", `{"email":"asha@example.com","password":"wrong"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "INVALID_CREDENTIALS", body["code"])
	})

	t.Run("inactive", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/api/auth/login", `{"email":"off@example.com","password":"secret1"}`, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/api/auth/login", `{"email":"asha@example.com"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", decode(t, rec)["code"])
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/api/auth/login", `{"email":`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_SetPasswordTokenSources(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header http.Header
		token  string
		email  string
	}{
		{name: "bearer header", target: "/api/auth/set-password", header: http.Header{"Authorization": {"Bearer tok-header"}}, token: "tok-header"},
		{name: "query", target: "/api/auth/set-password?token=tok-query&email=a@example.com", token: "tok-query", email: "a@example.com"},
		{name: "path", target: "/api/auth/set-password/tok-path", token: "tok-path"},
		{name: "header wins over query", target: "/api/auth/set-password?token=tok-query", header: http.Header{"Authorization": {"Bearer tok-header"}}, token: "tok-header"},
		{name: "none", target: "/api/auth/set-password", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			h := NewAuthHandler(svc)
			e := newEcho()
			e.POST("/api/auth/set-password", h.SetPassword)
			e.POST("/api/auth/set-password/:token", h.SetPassword)

			svc.On("SetPassword", mock.Anything, service.SetPasswordInput{
				Token:    tt.token,
				Email:    tt.email,
				Password: "secret1",
			}).Return(nil).Once()

			rec := serve(e, http.MethodPost, tt.target, `{"password":"secret1"}`, tt.header)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "Password set successfully", decode(t, rec)["message"])
			svc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_SetPasswordRejected(t *testing.T) {
	svc := new(MockAuthService)
	h := NewAuthHandler(svc)
	e := newEcho()
	e.POST("/api/auth/set-password", h.SetPassword)

	svc.On("SetPassword", mock.Anything, mock.Anything).Return(errors.ErrInvalidOrExpiredToken)

	rec := serve(e, http.MethodPost, "/api/auth/set-password?token=used", `{"password":"secret1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_OR_EXPIRED_TOKEN", decode(t, rec)["code"])
}

func TestLeadHandler_CreatePublicLead(t *testing.T) {
	svc := new(MockLeadService)
	h := NewLeadHandler(svc)
	e := newEcho()
	e.POST("/api/leads/public", h.CreatePublicLead)

	t.Run("created", func(t *testing.T) {
		lead := &model.Lead{ID: uuid.New(), FirstName: "Ravi", Source: model.LeadSourceWebsite, Status: model.LeadStatusNew}
		svc.On("CreatePublicLead", mock.Anything, mock.MatchedBy(func(in service.LeadInput) bool {
			return in.FirstName == "Ravi" && in.Phone == "9876543210"
		})).Return(lead, nil).Once()

		rec := serve(e, http.MethodPost, "/api/leads/public", `{"firstName":"Ravi","phone":"9876543210"}`, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "Lead created successfully", body["message"])
		assert.Equal(t, "Website", body["data"].(map[string]interface{})["source"])
	})

	t.Run("duplicate", func(t *testing.T) {
		svc.On("CreatePublicLead", mock.Anything, mock.Anything).Return(nil, errors.ErrLeadAlreadyExists).Once()
		rec := serve(e, http.MethodPost, "/api/leads/public", `{"firstName":"Ravi","phone":"9876543210"}`, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("system account missing is a generic server error", func(t *testing.T) {
		svc.On("CreatePublicLead", mock.Anything, mock.Anything).Return(nil, errors.ErrSystemAccountMissing).Once()
		rec := serve(e, http.MethodPost, "/api/leads/public", `{"firstName":"Ravi","phone":"9876543210"}`, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal server error", decode(t, rec)["message"])
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/api/leads/public", `{"firstName":"Ravi","email":"nope"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestErrorHandler(t *testing.T) {
	e := newEcho()
	e.GET("/boom", func(c echo.Context) error {
		return fmt.Errorf("select leads: %w", stdError("Error 1045: access denied for user 'crm'"))
	})
	e.GET("/teapot", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	t.Run("storage text never leaks", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/boom", "", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "access denied")
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "INTERNAL_ERROR", body["code"])
	})

	t.Run("plain echo error", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/teapot", "", nil)
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "short and stout", decode(t, rec)["message"])
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/nowhere", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, false, decode(t, rec)["success"])
	})
}

type stdError string

func (e stdError) Error() string { return string(e) }

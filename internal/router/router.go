package router

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"leadcrm/internal/config"
	"leadcrm/internal/handler"
	"leadcrm/internal/middleware"
	"leadcrm/internal/policy"
)

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	Leads       *handler.LeadHandler
	Activities  *handler.ActivityHandler
	Assignments *handler.AssignmentHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, logger *slog.Logger, guard *middleware.Guard, h Handlers) {
	e.HTTPErrorHandler = handler.ErrorHandler(logger)
	e.Validator = NewValidator()

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(middleware.Metrics())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/set-password", h.Auth.SetPassword)
	api.POST("/auth/set-password/:token", h.Auth.SetPassword)
	api.POST("/leads/public", h.Leads.CreatePublicLead)

	secured := api.Group("", guard.Authenticate())

	secured.POST("/auth/create", h.Auth.CreateUser, middleware.Require(policy.Users, policy.Create))
	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/auth/me", h.Auth.Me)

	secured.GET("/users", h.Users.ListUsers, middleware.Require(policy.Users, policy.List))
	secured.GET("/users/:id", h.Users.GetUser, middleware.Require(policy.Users, policy.Read))
	secured.PUT("/users/:id", h.Users.UpdateUser, middleware.Require(policy.Users, policy.Update))
	secured.DELETE("/users/:id", h.Users.DeleteUser, middleware.Require(policy.Users, policy.Delete))
	secured.POST("/users/:id/send-password", h.Users.SendPassword, middleware.Require(policy.Users, policy.SendPassword))

	secured.POST("/leads", h.Leads.CreateLead, middleware.Require(policy.Leads, policy.Create))
	secured.GET("/leads", h.Leads.ListLeads, middleware.Require(policy.Leads, policy.List))
	secured.GET("/leads/:id", h.Leads.GetLead, middleware.Require(policy.Leads, policy.Read))
	secured.PUT("/leads/:id", h.Leads.UpdateLead, middleware.Require(policy.Leads, policy.Update))
	secured.DELETE("/leads/:id", h.Leads.DeleteLead, middleware.Require(policy.Leads, policy.Delete))

	secured.POST("/activities", h.Activities.CreateActivity, middleware.Require(policy.Activities, policy.Create))
	secured.GET("/activities/:leadId", h.Activities.ListActivities, middleware.Require(policy.Activities, policy.List))

	secured.POST("/assignments", h.Assignments.AssignLead, middleware.Require(policy.Assignments, policy.Create))
	secured.GET("/assignments", h.Assignments.ListAssignments, middleware.Require(policy.Assignments, policy.List))
	secured.PUT("/assignments/:id/deactivate", h.Assignments.DeactivateAssignment, middleware.Require(policy.Assignments, policy.Deactivate))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the request validator installed on the echo instance.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

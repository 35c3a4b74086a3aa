package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"leadcrm/internal/model"
	"leadcrm/internal/service"
)

// ActivityHandler serves the activity log endpoints.
type ActivityHandler struct {
	svc service.ActivityService
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(svc service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

// CreateActivityRequest is the body of a new activity.
type CreateActivityRequest struct {
	Lead           uuid.UUID  `json:"lead" validate:"required"`
	ActivityType   string     `json:"activityType" validate:"required"`
	Description    string     `json:"description"`
	NewStatus      *string    `json:"newStatus"`
	NextFollowUpAt *time.Time `json:"nextFollowUpAt"`
}

// CreateActivity godoc
// @Summary Record an activity on a lead
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateActivityRequest true "Activity data"
// @Success 201 {object} Response{data=model.LeadActivity}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /activities [post]
func (h *ActivityHandler) CreateActivity(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req CreateActivityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := service.ActivityInput{
		LeadID:         req.Lead,
		ActivityType:   model.ActivityType(req.ActivityType),
		Description:    req.Description,
		NextFollowUpAt: req.NextFollowUpAt,
	}
	if req.NewStatus != nil {
		status := model.LeadStatus(*req.NewStatus)
		in.NewStatus = &status
	}

	activity, err := h.svc.RecordActivity(c.Request().Context(), identity, in)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusCreated, "Activity recorded", activity)
}

// ListActivities godoc
// @Summary List the activities of a lead, newest first
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param leadId path string true "Lead ID"
// @Param type query string false "Comma-separated activity types"
// @Param upcomingFollowUps query bool false "Only activities with a follow-up not in the past"
// @Success 200 {object} Response{data=[]model.LeadActivity}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /activities/{leadId} [get]
func (h *ActivityHandler) ListActivities(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	leadID, err := parseID(c, "leadId")
	if err != nil {
		return err
	}

	activities, err := h.svc.ListActivities(c.Request().Context(), identity, leadID, service.ActivityQuery{
		Types:             c.QueryParam("type"),
		UpcomingFollowUps: c.QueryParam("upcomingFollowUps") == "true",
	})
	if err != nil {
		return fail(err)
	}
	return respondList(c, activities, len(activities))
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"leadcrm/internal/errors"
	"leadcrm/internal/service"
)

// AssignmentHandler serves the assignment ledger endpoints.
type AssignmentHandler struct {
	svc service.AssignmentService
}

// NewAssignmentHandler creates a new assignment handler.
func NewAssignmentHandler(svc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{svc: svc}
}

// AssignLeadRequest is the body of a new assignment.
type AssignLeadRequest struct {
	LeadID     uuid.UUID `json:"leadId" validate:"required"`
	AssignedTo uuid.UUID `json:"assignedTo" validate:"required"`
	Note       string    `json:"note"`
}

// AssignLead godoc
// @Summary Assign a lead to a user
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AssignLeadRequest true "Assignment data"
// @Success 201 {object} Response{data=model.LeadAssignment}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /assignments [post]
func (h *AssignmentHandler) AssignLead(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req AssignLeadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	assignment, err := h.svc.AssignLead(c.Request().Context(), identity, service.AssignmentInput{
		LeadID:     req.LeadID,
		AssignedTo: req.AssignedTo,
		Note:       req.Note,
	})
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusCreated, "Lead assigned successfully", assignment)
}

// ListAssignments godoc
// @Summary List assignments visible to the caller
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param assignedTo query string false "Assignee ID"
// @Param leadId query string false "Lead ID"
// @Param isActive query bool false "Active flag"
// @Success 200 {object} Response{data=[]model.LeadAssignment}
// @Failure 400 {object} errors.ErrorResponse
// @Router /assignments [get]
func (h *AssignmentHandler) ListAssignments(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	q, err := assignmentQuery(c)
	if err != nil {
		return err
	}

	assignments, err := h.svc.ListAssignments(c.Request().Context(), identity, q)
	if err != nil {
		return fail(err)
	}
	return respondList(c, assignments, len(assignments))
}

func assignmentQuery(c echo.Context) (service.AssignmentQuery, error) {
	var q service.AssignmentQuery
	if raw := c.QueryParam("assignedTo"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return q, fail(errors.Validation("invalid assignedTo"))
		}
		q.AssignedTo = &id
	}
	if raw := c.QueryParam("leadId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return q, fail(errors.Validation("invalid leadId"))
		}
		q.LeadID = &id
	}
	if raw := c.QueryParam("isActive"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return q, fail(errors.Validation("invalid isActive"))
		}
		q.IsActive = &active
	}
	return q, nil
}

// DeactivateAssignment godoc
// @Summary Deactivate an assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 200 {object} Response{data=model.LeadAssignment}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /assignments/{id}/deactivate [put]
func (h *AssignmentHandler) DeactivateAssignment(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	assignment, err := h.svc.DeactivateAssignment(c.Request().Context(), identity, id)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Assignment deactivated", assignment)
}

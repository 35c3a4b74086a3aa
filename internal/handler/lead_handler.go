package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"leadcrm/internal/model"
	"leadcrm/internal/service"
)

// LeadHandler serves the lead store endpoints.
type LeadHandler struct {
	svc service.LeadService
}

// NewLeadHandler creates a new lead handler.
func NewLeadHandler(svc service.LeadService) *LeadHandler {
	return &LeadHandler{svc: svc}
}

// CreateLeadRequest is the body of an internal or public lead submission.
// Public submissions ignore source and priority.
type CreateLeadRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	JobTitle  string `json:"jobTitle"`
	Message   string `json:"message"`
	Source    string `json:"source"`
	Priority  string `json:"priority"`
}

func (r CreateLeadRequest) input() service.LeadInput {
	return service.LeadInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Company:   r.Company,
		JobTitle:  r.JobTitle,
		Message:   r.Message,
		Source:    model.LeadSource(r.Source),
		Priority:  model.LeadPriority(r.Priority),
	}
}

// UpdateLeadRequest carries the fields to change. createdBy and assignedTo are not accepted.
type UpdateLeadRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone"`
	Company     *string `json:"company"`
	JobTitle    *string `json:"jobTitle"`
	Message     *string `json:"message"`
	Source      *string `json:"source"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	IsConverted *bool   `json:"isConverted"`
}

func (r UpdateLeadRequest) patch() service.LeadPatch {
	p := service.LeadPatch{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phone:       r.Phone,
		Company:     r.Company,
		JobTitle:    r.JobTitle,
		Message:     r.Message,
		IsConverted: r.IsConverted,
	}
	if r.Source != nil {
		v := model.LeadSource(*r.Source)
		p.Source = &v
	}
	if r.Status != nil {
		v := model.LeadStatus(*r.Status)
		p.Status = &v
	}
	if r.Priority != nil {
		v := model.LeadPriority(*r.Priority)
		p.Priority = &v
	}
	return p
}

// CreateLead godoc
// @Summary Create a lead
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateLeadRequest true "Lead data"
// @Success 201 {object} Response{data=model.Lead}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /leads [post]
func (h *LeadHandler) CreateLead(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req CreateLeadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	lead, err := h.svc.CreateLead(c.Request().Context(), identity, req.input())
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusCreated, "Lead created successfully", lead)
}

// CreatePublicLead godoc
// @Summary Submit a lead from the website form
// @Tags leads
// @Accept json
// @Produce json
// @Param request body CreateLeadRequest true "Lead data"
// @Success 201 {object} Response{data=model.Lead}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /leads/public [post]
func (h *LeadHandler) CreatePublicLead(c echo.Context) error {
	var req CreateLeadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	lead, err := h.svc.CreatePublicLead(c.Request().Context(), req.input())
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusCreated, "Lead created successfully", lead)
}

// ListLeads godoc
// @Summary List leads visible to the caller
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param status query string false "Lead status"
// @Param source query string false "Lead source"
// @Success 200 {object} Response{data=[]model.Lead}
// @Failure 400 {object} errors.ErrorResponse
// @Router /leads [get]
func (h *LeadHandler) ListLeads(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	leads, err := h.svc.ListLeads(c.Request().Context(), identity, service.LeadQuery{
		Status: c.QueryParam("status"),
		Source: c.QueryParam("source"),
	})
	if err != nil {
		return fail(err)
	}
	return respondList(c, leads, len(leads))
}

// GetLead godoc
// @Summary Get lead by id
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} Response{data=model.Lead}
// @Failure 404 {object} errors.ErrorResponse
// @Router /leads/{id} [get]
func (h *LeadHandler) GetLead(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	lead, err := h.svc.GetLead(c.Request().Context(), identity, id)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "", lead)
}

// UpdateLead godoc
// @Summary Update a lead
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param request body UpdateLeadRequest true "Fields to change"
// @Success 200 {object} Response{data=model.Lead}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /leads/{id} [put]
func (h *LeadHandler) UpdateLead(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateLeadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	lead, err := h.svc.UpdateLead(c.Request().Context(), identity, id, req.patch())
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Lead updated successfully", lead)
}

// DeleteLead godoc
// @Summary Delete a lead
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} Response
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /leads/{id} [delete]
func (h *LeadHandler) DeleteLead(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteLead(c.Request().Context(), identity, id); err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Lead deleted successfully", nil)
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"leadcrm/internal/auth"
	apperrors "leadcrm/internal/errors"
	"leadcrm/internal/metrics"
	"leadcrm/internal/model"
	"leadcrm/internal/policy"
	"leadcrm/internal/repository"
)

// AssignmentInput is the data of a new assignment.
type AssignmentInput struct {
	LeadID     uuid.UUID
	AssignedTo uuid.UUID
	Note       string
}

// AssignmentQuery holds the optional listing filters. They narrow the caller's visible set.
type AssignmentQuery struct {
	AssignedTo *uuid.UUID
	LeadID     *uuid.UUID
	IsActive   *bool
}

// AssignmentService exposes assignment ledger operations.
type AssignmentService interface {
	AssignLead(ctx context.Context, actor auth.Identity, in AssignmentInput) (*model.LeadAssignment, error)
	ListAssignments(ctx context.Context, actor auth.Identity, q AssignmentQuery) ([]model.LeadAssignment, error)
	DeactivateAssignment(ctx context.Context, actor auth.Identity, id uuid.UUID) (*model.LeadAssignment, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	leads       repository.LeadRepository
	users       repository.UserRepository
}

// NewAssignmentService creates a new assignment service.
func NewAssignmentService(assignments repository.AssignmentRepository, leads repository.LeadRepository, users repository.UserRepository) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		leads:       leads,
		users:       users,
	}
}

// AssignLead hands a lead to a user. It is the only operation that changes Lead.assignedTo.
func (s *assignmentService) AssignLead(ctx context.Context, actor auth.Identity, in AssignmentInput) (*model.LeadAssignment, error) {
	if !policy.Allowed(policy.Assignments, policy.Create, actor.Role) {
		return nil, apperrors.ErrInsufficientRole
	}

	lead, err := s.leads.FindByID(ctx, in.LeadID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrLeadNotFound
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}

	assignee, err := s.users.FindByID(ctx, in.AssignedTo)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if ok, msg := policy.CanAssign(actor.Role, assignee.Role); !ok {
		return nil, apperrors.Forbidden(msg)
	}

	assignment := &model.LeadAssignment{
		LeadID:       lead.ID,
		AssignedToID: assignee.ID,
		AssignedByID: actor.ID,
		Note:         strings.TrimSpace(in.Note),
		IsActive:     true,
	}
	if err := s.assignments.CreateAndAssign(ctx, assignment); err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	assignment.Lead = &model.LeadRef{
		ID:        lead.ID,
		FirstName: lead.FirstName,
		LastName:  lead.LastName,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Status:    lead.Status,
	}
	assignment.AssignedTo = &model.UserRef{ID: assignee.ID, Name: assignee.Name, Email: assignee.Email, Role: assignee.Role}
	assignment.AssignedBy = actor.Ref()

	metrics.RecordAssignment()
	return assignment, nil
}

// ListAssignments lists the assignments visible to the caller, narrowed by the query.
func (s *assignmentService) ListAssignments(ctx context.Context, actor auth.Identity, q AssignmentQuery) ([]model.LeadAssignment, error) {
	filter := repository.AssignmentFilter{
		AssignedTo: q.AssignedTo,
		LeadID:     q.LeadID,
		IsActive:   q.IsActive,
	}

	switch policy.Decide(policy.Assignments, policy.List, actor.Role) {
	case policy.Allow:
	case policy.OwnInvolved:
		id := actor.ID
		filter.Involving = &id
	case policy.OwnAssigned:
		if q.AssignedTo != nil && *q.AssignedTo != actor.ID {
			return []model.LeadAssignment{}, nil
		}
		id := actor.ID
		filter.AssignedTo = &id
	default:
		return nil, apperrors.ErrInsufficientRole
	}

	assignments, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// DeactivateAssignment switches an active assignment off. Deactivating twice is an error.
func (s *assignmentService) DeactivateAssignment(ctx context.Context, actor auth.Identity, id uuid.UUID) (*model.LeadAssignment, error) {
	decision := policy.Decide(policy.Assignments, policy.Deactivate, actor.Role)
	if decision == policy.Deny {
		return nil, apperrors.ErrInsufficientRole
	}

	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}

	if decision == policy.OwnCreated && assignment.AssignedByID != actor.ID {
		return nil, apperrors.Forbidden(fmt.Sprintf("%s cannot deactivate assignments created by others", actor.Role))
	}
	if !assignment.IsActive {
		return nil, apperrors.ErrAssignmentInactive
	}

	ok, err := s.assignments.Deactivate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("deactivate assignment: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrAssignmentInactive
	}
	assignment.IsActive = false
	return assignment, nil
}

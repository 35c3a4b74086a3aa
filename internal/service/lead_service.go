package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"leadcrm/internal/auth"
	"leadcrm/internal/config"
	apperrors "leadcrm/internal/errors"
	"leadcrm/internal/metrics"
	"leadcrm/internal/model"
	"leadcrm/internal/policy"
	"leadcrm/internal/repository"
)

// LeadInput is the data of a new lead.
type LeadInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string
	JobTitle  string
	Message   string
	Source    model.LeadSource
	Priority  model.LeadPriority
}

// LeadPatch holds the updatable lead fields. Nil fields are left unchanged.
// Ownership (createdBy, assignedTo) is not patchable.
type LeadPatch struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Phone       *string
	Company     *string
	JobTitle    *string
	Message     *string
	Source      *model.LeadSource
	Status      *model.LeadStatus
	Priority    *model.LeadPriority
	IsConverted *bool
}

// LeadQuery holds the optional list filters.
type LeadQuery struct {
	Status string
	Source string
}

// LeadService exposes lead store operations.
type LeadService interface {
	CreateLead(ctx context.Context, actor auth.Identity, in LeadInput) (*model.Lead, error)
	CreatePublicLead(ctx context.Context, in LeadInput) (*model.Lead, error)
	GetLead(ctx context.Context, actor auth.Identity, id uuid.UUID) (*model.Lead, error)
	ListLeads(ctx context.Context, actor auth.Identity, q LeadQuery) ([]model.Lead, error)
	UpdateLead(ctx context.Context, actor auth.Identity, id uuid.UUID, patch LeadPatch) (*model.Lead, error)
	DeleteLead(ctx context.Context, actor auth.Identity, id uuid.UUID) error
}

type leadService struct {
	leads         repository.LeadRepository
	users         repository.UserRepository
	systemAccount string
	phoneRegion   string
	logger        *slog.Logger
}

// NewLeadService creates a new lead service.
func NewLeadService(cfg *config.Config, leads repository.LeadRepository, users repository.UserRepository, logger *slog.Logger) LeadService {
	return &leadService{
		leads:         leads,
		users:         users,
		systemAccount: normalizeEmail(cfg.SystemAccountEmail),
		phoneRegion:   cfg.LeadPhoneRegion,
		logger:        logger,
	}
}

func (s *leadService) CreateLead(ctx context.Context, actor auth.Identity, in LeadInput) (*model.Lead, error) {
	if !policy.Allowed(policy.Leads, policy.Create, actor.Role) {
		return nil, apperrors.ErrInsufficientRole
	}

	lead, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkDuplicate(ctx, lead.Email, lead.Phone, nil); err != nil {
		return nil, err
	}

	lead.CreatedByID = actor.ID
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	metrics.RecordLeadCreated("internal")
	return lead, nil
}

// CreatePublicLead captures a website lead on behalf of the system account.
func (s *leadService) CreatePublicLead(ctx context.Context, in LeadInput) (*model.Lead, error) {
	in.Source = model.LeadSourceWebsite
	lead, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkDuplicate(ctx, lead.Email, lead.Phone, nil); err != nil {
		return nil, err
	}

	system, err := s.users.FindByEmail(ctx, s.systemAccount)
	if err != nil {
		if isNotFound(err) {
			s.logger.Error("system account missing, public lead rejected",
				slog.String("system_account", s.systemAccount))
			return nil, apperrors.ErrSystemAccountMissing
		}
		return nil, fmt.Errorf("find system account: %w", err)
	}

	lead.CreatedByID = system.ID
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	metrics.RecordLeadCreated("public")
	return lead, nil
}

func (s *leadService) GetLead(ctx context.Context, actor auth.Identity, id uuid.UUID) (*model.Lead, error) {
	if !policy.Allowed(policy.Leads, policy.Read, actor.Role) {
		return nil, apperrors.ErrInsufficientRole
	}
	return s.find(ctx, id)
}

// ListLeads lists leads newest first. Sales callers only ever see leads they created.
func (s *leadService) ListLeads(ctx context.Context, actor auth.Identity, q LeadQuery) ([]model.Lead, error) {
	var filter repository.LeadFilter
	if q.Status != "" {
		status := model.LeadStatus(q.Status)
		if !status.Valid() {
			return nil, apperrors.Validation("Invalid status")
		}
		filter.Status = &status
	}
	if q.Source != "" {
		source := model.LeadSource(q.Source)
		if !source.Valid() {
			return nil, apperrors.Validation("Invalid source")
		}
		filter.Source = &source
	}

	switch policy.Decide(policy.Leads, policy.List, actor.Role) {
	case policy.Allow:
	case policy.OwnCreated:
		id := actor.ID
		filter.CreatedBy = &id
	default:
		return nil, apperrors.ErrInsufficientRole
	}

	leads, err := s.leads.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}

// UpdateLead applies a patch under a row lock so ownership and duplicate checks see the stored row.
func (s *leadService) UpdateLead(ctx context.Context, actor auth.Identity, id uuid.UUID, patch LeadPatch) (*model.Lead, error) {
	decision := policy.Decide(policy.Leads, policy.Update, actor.Role)
	if decision == policy.Deny {
		return nil, apperrors.ErrInsufficientRole
	}

	var updated *model.Lead
	err := s.leads.WithTransaction(ctx, func(ctx context.Context, repo repository.LeadRepository) error {
		lead, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return apperrors.ErrLeadNotFound
			}
			return fmt.Errorf("find lead: %w", err)
		}

		if decision == policy.OwnCreated && lead.CreatedByID != actor.ID {
			return apperrors.Forbidden(fmt.Sprintf("%s cannot update leads they did not create", actor.Role))
		}

		if err := s.applyPatch(lead, patch); err != nil {
			return err
		}
		if patch.Email != nil || patch.Phone != nil {
			if err := s.checkDuplicateIn(ctx, repo, lead.Email, lead.Phone, &lead.ID); err != nil {
				return err
			}
		}

		if err := repo.Update(ctx, lead); err != nil {
			return fmt.Errorf("update lead: %w", err)
		}
		updated = lead
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *leadService) DeleteLead(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	if policy.Decide(policy.Leads, policy.Delete, actor.Role) != policy.Allow {
		return apperrors.ErrInsufficientRole
	}
	if err := s.leads.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return apperrors.ErrLeadNotFound
		}
		return fmt.Errorf("delete lead: %w", err)
	}
	return nil
}

func (s *leadService) find(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	lead, err := s.leads.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrLeadNotFound
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return lead, nil
}

// prepare validates a new lead and returns it normalized. Status always starts at New.
func (s *leadService) prepare(in LeadInput) (*model.Lead, error) {
	lead := &model.Lead{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     normalizeEmail(in.Email),
		Phone:     normalizePhone(in.Phone, s.phoneRegion),
		Company:   strings.TrimSpace(in.Company),
		JobTitle:  strings.TrimSpace(in.JobTitle),
		Message:   strings.TrimSpace(in.Message),
		Source:    in.Source,
		Status:    model.LeadStatusNew,
		Priority:  in.Priority,
	}
	if lead.Priority == "" {
		lead.Priority = model.LeadPriorityMedium
	}
	if err := validateLead(lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *leadService) applyPatch(lead *model.Lead, p LeadPatch) error {
	if p.FirstName != nil {
		lead.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		lead.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.Email != nil {
		lead.Email = normalizeEmail(*p.Email)
	}
	if p.Phone != nil {
		lead.Phone = normalizePhone(*p.Phone, s.phoneRegion)
	}
	if p.Company != nil {
		lead.Company = strings.TrimSpace(*p.Company)
	}
	if p.JobTitle != nil {
		lead.JobTitle = strings.TrimSpace(*p.JobTitle)
	}
	if p.Message != nil {
		lead.Message = strings.TrimSpace(*p.Message)
	}
	if p.Source != nil {
		lead.Source = *p.Source
	}
	if p.Status != nil {
		lead.Status = *p.Status
	}
	if p.Priority != nil {
		lead.Priority = *p.Priority
	}
	if p.IsConverted != nil {
		lead.IsConverted = *p.IsConverted
	}
	return validateLead(lead)
}

func validateLead(lead *model.Lead) error {
	switch {
	case lead.FirstName == "":
		return apperrors.Validation("First name is required")
	case lead.Email == "" && lead.Phone == "":
		return apperrors.Validation("Email or phone is required")
	case !lead.Source.Valid():
		return apperrors.Validation("Invalid source")
	case !lead.Status.Valid():
		return apperrors.Validation("Invalid status")
	case !lead.Priority.Valid():
		return apperrors.Validation("Invalid priority")
	}
	return nil
}

func (s *leadService) checkDuplicate(ctx context.Context, email, phone string, exclude *uuid.UUID) error {
	return s.checkDuplicateIn(ctx, s.leads, email, phone, exclude)
}

func (s *leadService) checkDuplicateIn(ctx context.Context, repo repository.LeadRepository, email, phone string, exclude *uuid.UUID) error {
	_, err := repo.FindDuplicate(ctx, email, phone, exclude)
	if err == nil {
		return apperrors.ErrLeadAlreadyExists
	}
	if !isNotFound(err) {
		return fmt.Errorf("check duplicate lead: %w", err)
	}
	return nil
}

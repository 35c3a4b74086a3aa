package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"leadcrm/internal/auth"
	apperrors "leadcrm/internal/errors"
	"leadcrm/internal/metrics"
	"leadcrm/internal/model"
	"leadcrm/internal/policy"
	"leadcrm/internal/repository"
)

// ActivityInput is the data of a new activity.
type ActivityInput struct {
	LeadID         uuid.UUID
	ActivityType   model.ActivityType
	Description    string
	NewStatus      *model.LeadStatus
	NextFollowUpAt *time.Time
}

// ActivityQuery holds the optional listing filters.
type ActivityQuery struct {
	// Types is a comma-separated set of activity types; any of them matches.
	Types             string
	UpcomingFollowUps bool
}

// ActivityService exposes activity log operations.
type ActivityService interface {
	RecordActivity(ctx context.Context, actor auth.Identity, in ActivityInput) (*model.LeadActivity, error)
	ListActivities(ctx context.Context, actor auth.Identity, leadID uuid.UUID, q ActivityQuery) ([]model.LeadActivity, error)
}

type activityService struct {
	activities repository.ActivityRepository
	leads      repository.LeadRepository
	now        func() time.Time
}

// NewActivityService creates a new activity service.
func NewActivityService(activities repository.ActivityRepository, leads repository.LeadRepository) ActivityService {
	return &activityService{
		activities: activities,
		leads:      leads,
		now:        time.Now,
	}
}

// RecordActivity appends an activity. A status_change also moves the lead to the new status
// and records the status it left, in one store operation.
func (s *activityService) RecordActivity(ctx context.Context, actor auth.Identity, in ActivityInput) (*model.LeadActivity, error) {
	if !policy.Allowed(policy.Activities, policy.Create, actor.Role) {
		return nil, apperrors.ErrInsufficientRole
	}
	if !in.ActivityType.Valid() {
		return nil, apperrors.Validation("Invalid activity type")
	}

	lead, err := s.leads.FindByID(ctx, in.LeadID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrLeadNotFound
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}

	activity := &model.LeadActivity{
		LeadID:         lead.ID,
		ActivityType:   in.ActivityType,
		Description:    strings.TrimSpace(in.Description),
		PerformedByID:  actor.ID,
		NextFollowUpAt: in.NextFollowUpAt,
	}

	if in.ActivityType != model.ActivityStatusChange {
		if err := s.activities.Create(ctx, activity); err != nil {
			return nil, fmt.Errorf("create activity: %w", err)
		}
	} else {
		if in.NewStatus == nil || !in.NewStatus.Valid() {
			return nil, apperrors.Validation("A valid newStatus is required for status_change")
		}
		newStatus := *in.NewStatus
		previous := lead.Status
		activity.NewStatus = &newStatus
		activity.PreviousStatus = &previous

		if err := s.activities.RecordStatusChange(ctx, activity); err != nil {
			if isNotFound(err) {
				return nil, apperrors.ErrLeadNotFound
			}
			return nil, fmt.Errorf("record status change: %w", err)
		}
	}

	activity.PerformedBy = actor.Ref()
	metrics.RecordActivity(string(activity.ActivityType))
	return activity, nil
}

func (s *activityService) ListActivities(ctx context.Context, actor auth.Identity, leadID uuid.UUID, q ActivityQuery) ([]model.LeadActivity, error) {
	if !policy.Allowed(policy.Activities, policy.List, actor.Role) {
		return nil, apperrors.ErrInsufficientRole
	}

	filter := repository.ActivityFilter{LeadID: leadID}
	types, err := parseActivityTypes(q.Types)
	if err != nil {
		return nil, err
	}
	filter.Types = types
	if q.UpcomingFollowUps {
		now := s.now()
		filter.FollowUpsFrom = &now
	}

	if _, err := s.leads.FindByID(ctx, leadID); err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrLeadNotFound
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}

	activities, err := s.activities.ListByLead(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

func parseActivityTypes(raw string) ([]model.ActivityType, error) {
	var types []model.ActivityType
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t := model.ActivityType(part)
		if !t.Valid() {
			return nil, apperrors.Validation(fmt.Sprintf("Invalid activity type: %s", part))
		}
		types = append(types, t)
	}
	return types, nil
}

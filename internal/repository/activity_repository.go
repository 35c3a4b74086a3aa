package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leadcrm/internal/model"
)

// ActivityFilter narrows an activity listing of one lead.
type ActivityFilter struct {
	LeadID uuid.UUID
	// Types matches any of the given activity types when non-empty.
	Types []model.ActivityType
	// FollowUpsFrom keeps activities whose next follow-up is at or after the instant.
	FollowUpsFrom *time.Time
}

// ActivityRepository defines activity log persistence operations.
type ActivityRepository interface {
	Create(ctx context.Context, activity *model.LeadActivity) error
	RecordStatusChange(ctx context.Context, activity *model.LeadActivity) error
	ListByLead(ctx context.Context, filter ActivityFilter) ([]model.LeadActivity, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Create appends an activity that does not touch the lead.
func (r *activityRepository) Create(ctx context.Context, activity *model.LeadActivity) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(activity).Error
}

// RecordStatusChange locks the lead, copies its status into activity.PreviousStatus,
// moves the lead to activity.NewStatus and appends the activity, all in one transaction.
func (r *activityRepository) RecordStatusChange(ctx context.Context, activity *model.LeadActivity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leads := &leadRepository{db: tx}
		lead, err := leads.FindByIDForUpdate(ctx, activity.LeadID)
		if err != nil {
			return err
		}

		previous := lead.Status
		activity.PreviousStatus = &previous

		if err := leads.UpdateStatus(ctx, lead.ID, *activity.NewStatus); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(activity).Error
	})
}

// ListByLead lists a lead's activities newest first with the performing user populated.
func (r *activityRepository) ListByLead(ctx context.Context, filter ActivityFilter) ([]model.LeadActivity, error) {
	q := r.db.WithContext(ctx).
		Preload("PerformedBy").
		Where("lead_id = ?", filter.LeadID)
	if len(filter.Types) > 0 {
		q = q.Where("activity_type IN ?", filter.Types)
	}
	if filter.FollowUpsFrom != nil {
		q = q.Where("next_follow_up_at >= ?", *filter.FollowUpsFrom)
	}

	var activities []model.LeadActivity
	if err := q.Order("created_at DESC").Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leadcrm/internal/model"
)

// AssignmentFilter narrows an assignment listing. All set fields are ANDed.
type AssignmentFilter struct {
	AssignedTo *uuid.UUID
	AssignedBy *uuid.UUID
	LeadID     *uuid.UUID
	IsActive   *bool
	// Involving matches assignments where the user is either the assigner or the assignee.
	Involving *uuid.UUID
}

// AssignmentRepository defines assignment ledger persistence operations.
type AssignmentRepository interface {
	CreateAndAssign(ctx context.Context, assignment *model.LeadAssignment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LeadAssignment, error)
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filter AssignmentFilter) ([]model.LeadAssignment, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

// CreateAndAssign inserts the assignment and points the lead at the assignee in one transaction.
func (r *assignmentRepository) CreateAndAssign(ctx context.Context, assignment *model.LeadAssignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(assignment).Error; err != nil {
			return err
		}
		leads := &leadRepository{db: tx}
		return leads.UpdateAssignee(ctx, assignment.LeadID, assignment.AssignedToID)
	})
}

// FindByID finds an assignment by ID without relations.
func (r *assignmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.LeadAssignment, error) {
	var assignment model.LeadAssignment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Deactivate clears the active flag of an assignment that is still active.
// It reports false when the row was already inactive or does not exist.
func (r *assignmentRepository) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.LeadAssignment{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// List lists assignments newest first with lead and both users populated.
func (r *assignmentRepository) List(ctx context.Context, filter AssignmentFilter) ([]model.LeadAssignment, error) {
	q := r.db.WithContext(ctx).
		Preload("Lead").
		Preload("AssignedTo").
		Preload("AssignedBy")
	if filter.AssignedTo != nil {
		q = q.Where("assigned_to_id = ?", *filter.AssignedTo)
	}
	if filter.AssignedBy != nil {
		q = q.Where("assigned_by_id = ?", *filter.AssignedBy)
	}
	if filter.LeadID != nil {
		q = q.Where("lead_id = ?", *filter.LeadID)
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Involving != nil {
		q = q.Where("(assigned_by_id = ? OR assigned_to_id = ?)", *filter.Involving, *filter.Involving)
	}

	var assignments []model.LeadAssignment
	if err := q.Order("created_at DESC").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

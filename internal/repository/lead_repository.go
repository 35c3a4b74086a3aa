package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leadcrm/internal/model"
)

// LeadFilter narrows a lead listing. Nil fields are ignored.
type LeadFilter struct {
	Status    *model.LeadStatus
	Source    *model.LeadSource
	CreatedBy *uuid.UUID
}

// LeadRepository defines lead persistence operations.
type LeadRepository interface {
	Create(ctx context.Context, lead *model.Lead) error
	Update(ctx context.Context, lead *model.Lead) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lead, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Lead, error)
	FindDuplicate(ctx context.Context, email, phone string, exclude *uuid.UUID) (*model.Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]model.Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.LeadStatus) error
	UpdateAssignee(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo LeadRepository) error) error
}

type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new lead repository.
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

// Create creates a new lead.
func (r *leadRepository) Create(ctx context.Context, lead *model.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

// Update saves the patchable columns of a lead. Ownership columns are never written here.
func (r *leadRepository) Update(ctx context.Context, lead *model.Lead) error {
	return r.db.WithContext(ctx).Model(lead).
		Select("first_name", "last_name", "email", "phone", "company", "job_title",
			"message", "source", "status", "priority", "is_converted").
		Updates(lead).Error
}

// Delete removes a lead. Activities and assignments pointing at it are left in place.
func (r *leadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Lead{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID finds a lead by ID.
func (r *leadRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	var lead model.Lead
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// FindByIDForUpdate finds a lead by ID with a row-level lock. Only meaningful inside WithTransaction.
func (r *leadRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	var lead model.Lead
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// FindDuplicate returns a lead sharing the email or the phone. Empty values never match.
func (r *leadRepository) FindDuplicate(ctx context.Context, email, phone string, exclude *uuid.UUID) (*model.Lead, error) {
	if email == "" && phone == "" {
		return nil, gorm.ErrRecordNotFound
	}

	match := r.db.WithContext(ctx)
	switch {
	case email != "" && phone != "":
		match = match.Where("email = ?", email).Or("phone = ?", phone)
	case email != "":
		match = match.Where("email = ?", email)
	default:
		match = match.Where("phone = ?", phone)
	}

	q := r.db.WithContext(ctx).Where(match)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}

	var lead model.Lead
	if err := q.First(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// List lists leads newest first.
func (r *leadRepository) List(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	q := r.db.WithContext(ctx).Model(&model.Lead{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Source != nil {
		q = q.Where("source = ?", *filter.Source)
	}
	if filter.CreatedBy != nil {
		q = q.Where("created_by_id = ?", *filter.CreatedBy)
	}

	var leads []model.Lead
	if err := q.Order("created_at DESC").Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// UpdateStatus sets the lead status.
func (r *leadRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.LeadStatus) error {
	return r.db.WithContext(ctx).Model(&model.Lead{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// UpdateAssignee sets the user a lead is assigned to.
func (r *leadRepository) UpdateAssignee(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Lead{}).
		Where("id = ?", id).
		Update("assigned_to_id", userID).Error
}

// WithTransaction executes a function within a database transaction.
func (r *leadRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo LeadRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &leadRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeadAssignment records a lead being handed to a user. Assignments are never
// deleted; IsActive only ever moves from true to false.
type LeadAssignment struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	LeadID       uuid.UUID `json:"-" gorm:"type:char(36);not null;index"`
	AssignedToID uuid.UUID `json:"-" gorm:"type:char(36);not null;index"`
	AssignedByID uuid.UUID `json:"-" gorm:"type:char(36);not null;index"`
	Note         string    `json:"note,omitempty" gorm:"type:text"`
	IsActive     bool      `json:"isActive" gorm:"not null;default:true;index"`
	AssignedAt   time.Time `json:"assignedAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Relations
	Lead       *LeadRef `json:"lead,omitempty" gorm:"foreignKey:LeadID;-:migration"`
	AssignedTo *UserRef `json:"assignedTo,omitempty" gorm:"foreignKey:AssignedToID;-:migration"`
	AssignedBy *UserRef `json:"assignedBy,omitempty" gorm:"foreignKey:AssignedByID;-:migration"`
}

// BeforeCreate sets UUID and assignment time before creating the record.
func (a *LeadAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now()
	}
	return nil
}

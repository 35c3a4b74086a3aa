package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityType classifies an action taken on a lead.
type ActivityType string

const (
	ActivityCall         ActivityType = "call"
	ActivityEmail        ActivityType = "email"
	ActivityWhatsApp     ActivityType = "whatsapp"
	ActivityMeeting      ActivityType = "meeting"
	ActivityNote         ActivityType = "note"
	ActivityStatusChange ActivityType = "status_change"
	ActivityFollowUp     ActivityType = "follow_up"
)

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityCall, ActivityEmail, ActivityWhatsApp, ActivityMeeting,
		ActivityNote, ActivityStatusChange, ActivityFollowUp:
		return true
	default:
		return false
	}
}

// LeadActivity is an append-only record of an action on a lead.
// PreviousStatus and NewStatus are set only for status_change activities.
type LeadActivity struct {
	ID             uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	LeadID         uuid.UUID    `json:"lead" gorm:"type:char(36);not null;index"`
	ActivityType   ActivityType `json:"activityType" gorm:"type:varchar(20);not null;index"`
	Description    string       `json:"description,omitempty" gorm:"type:text"`
	PerformedByID  uuid.UUID    `json:"-" gorm:"type:char(36);not null;index"`
	PreviousStatus *LeadStatus  `json:"previousStatus,omitempty" gorm:"type:varchar(30)"`
	NewStatus      *LeadStatus  `json:"newStatus,omitempty" gorm:"type:varchar(30)"`
	NextFollowUpAt *time.Time   `json:"nextFollowUpAt,omitempty" gorm:"index"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`

	// Relations
	PerformedBy *UserRef `json:"performedBy,omitempty" gorm:"foreignKey:PerformedByID;-:migration"`
}

// BeforeCreate sets UUID before creating the record.
func (a *LeadActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

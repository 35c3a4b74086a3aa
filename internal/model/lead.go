package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeadSource is the channel a lead arrived through.
type LeadSource string

const (
	LeadSourceWebsite   LeadSource = "Website"
	LeadSourcePhoneCall LeadSource = "Phone Call"
	LeadSourceEmail     LeadSource = "Email"
	LeadSourceWhatsApp  LeadSource = "WhatsApp"
	LeadSourceFacebook  LeadSource = "Facebook"
	LeadSourceInstagram LeadSource = "Instagram"
	LeadSourceReferral  LeadSource = "Referral"
	LeadSourceManual    LeadSource = "Manual"
)

// Valid reports whether s is a known source.
func (s LeadSource) Valid() bool {
	switch s {
	case LeadSourceWebsite, LeadSourcePhoneCall, LeadSourceEmail, LeadSourceWhatsApp,
		LeadSourceFacebook, LeadSourceInstagram, LeadSourceReferral, LeadSourceManual:
		return true
	default:
		return false
	}
}

// LeadStatus is a step of the lead lifecycle.
type LeadStatus string

const (
	LeadStatusNew           LeadStatus = "New"
	LeadStatusContacted     LeadStatus = "Contacted"
	LeadStatusQualified     LeadStatus = "Qualified"
	LeadStatusInterested    LeadStatus = "Interested"
	LeadStatusNotInterested LeadStatus = "Not Interested"
	LeadStatusConverted     LeadStatus = "Converted"
	LeadStatusLost          LeadStatus = "Lost"
)

// Valid reports whether s is a known status.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusInterested,
		LeadStatusNotInterested, LeadStatusConverted, LeadStatusLost:
		return true
	default:
		return false
	}
}

// LeadPriority ranks leads for follow-up.
type LeadPriority string

const (
	LeadPriorityLow    LeadPriority = "Low"
	LeadPriorityMedium LeadPriority = "Medium"
	LeadPriorityHigh   LeadPriority = "High"
)

// Valid reports whether p is a known priority.
func (p LeadPriority) Valid() bool {
	return p == LeadPriorityLow || p == LeadPriorityMedium || p == LeadPriorityHigh
}

// Lead is a sales prospect. AssignedToID changes only through lead assignments.
type Lead struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	FirstName string    `json:"firstName" gorm:"size:255;not null"`
	LastName  string    `json:"lastName,omitempty" gorm:"size:255"`
	Email     string    `json:"email,omitempty" gorm:"size:255;index"`
	Phone     string    `json:"phone,omitempty" gorm:"size:50;index"`
	Company   string    `json:"company,omitempty" gorm:"size:255"`
	JobTitle  string    `json:"jobTitle,omitempty" gorm:"size:255"`
	Message   string    `json:"message,omitempty" gorm:"type:text"`

	Source   LeadSource   `json:"source" gorm:"type:varchar(30);not null;index"`
	Status   LeadStatus   `json:"status" gorm:"type:varchar(30);not null;default:'New';index"`
	Priority LeadPriority `json:"priority" gorm:"type:varchar(10);not null;default:'Medium'"`

	AssignedToID *uuid.UUID `json:"assignedTo,omitempty" gorm:"type:char(36);index"`
	CreatedByID  uuid.UUID  `json:"createdBy" gorm:"type:char(36);not null;index"`
	IsConverted  bool       `json:"isConverted" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID and lifecycle defaults before creating the record.
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Status == "" {
		l.Status = LeadStatusNew
	}
	if l.Priority == "" {
		l.Priority = LeadPriorityMedium
	}
	return nil
}

// LeadRef is the subset of a lead embedded in assignment listings.
type LeadRef struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName,omitempty"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Status    LeadStatus `json:"status"`
}

// TableName maps LeadRef onto the leads table for preloading.
func (LeadRef) TableName() string { return "leads" }

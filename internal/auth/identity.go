package auth

import (
	"github.com/google/uuid"

	"leadcrm/internal/model"
)

// Identity is the authenticated caller as resolved from live user data.
type Identity struct {
	ID      uuid.UUID        `json:"id"`
	Name    string           `json:"name"`
	Email   string           `json:"email"`
	Role    model.Role       `json:"role"`
	Status  model.UserStatus `json:"status"`
	TokenID string           `json:"-"`
}

// NewIdentity builds an Identity from a user record.
func NewIdentity(user *model.User) Identity {
	return Identity{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		Status: user.Status,
	}
}

// Ref returns the identity as an embeddable user reference.
func (i Identity) Ref() *model.UserRef {
	return &model.UserRef{ID: i.ID, Name: i.Name, Email: i.Email, Role: i.Role}
}

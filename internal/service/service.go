package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func userCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// normalizeEmail lower-cases and trims an address; emails are stored and matched in this form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"leadcrm/internal/db"
	"leadcrm/internal/model"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// every pooled connection would otherwise get its own empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, name string, role model.Role) *model.User {
	t.Helper()
	user := &model.User{
		Name:   name,
		Email:  name + "@example.com",
		Role:   role,
		Status: model.UserStatusActive,
	}
	require.NoError(t, NewUserRepository(gdb).Create(context.Background(), user))
	return user
}

func seedLead(t *testing.T, gdb *gorm.DB, createdBy uuid.UUID, email, phone string) *model.Lead {
	t.Helper()
	lead := &model.Lead{
		FirstName:   "Ravi",
		Email:       email,
		Phone:       phone,
		Source:      model.LeadSourceWebsite,
		CreatedByID: createdBy,
	}
	require.NoError(t, NewLeadRepository(gdb).Create(context.Background(), lead))
	return lead
}

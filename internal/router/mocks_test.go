package router

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"leadcrm/internal/auth"
	"leadcrm/internal/model"
	"leadcrm/internal/service"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) CreateUser(ctx context.Context, in service.CreateUserInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) SetPassword(ctx context.Context, in service.SetPasswordInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.User), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *auth.SessionClaims) error {
	return m.Called(ctx, claims).Error(0)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id uuid.UUID, in service.UpdateUserInput) (*model.User, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserService) ResendSetup(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Lookup(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockLeadService struct{ mock.Mock }

func (m *MockLeadService) CreateLead(ctx context.Context, actor auth.Identity, in service.LeadInput) (*model.Lead, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadService) CreatePublicLead(ctx context.Context, in service.LeadInput) (*model.Lead, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadService) GetLead(ctx context.Context, actor auth.Identity, id uuid.UUID) (*model.Lead, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadService) ListLeads(ctx context.Context, actor auth.Identity, q service.LeadQuery) ([]model.Lead, error) {
	args := m.Called(ctx, actor, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

func (m *MockLeadService) UpdateLead(ctx context.Context, actor auth.Identity, id uuid.UUID, patch service.LeadPatch) (*model.Lead, error) {
	args := m.Called(ctx, actor, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadService) DeleteLead(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockActivityService struct{ mock.Mock }

func (m *MockActivityService) RecordActivity(ctx context.Context, actor auth.Identity, in service.ActivityInput) (*model.LeadActivity, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LeadActivity), args.Error(1)
}

func (m *MockActivityService) ListActivities(ctx context.Context, actor auth.Identity, leadID uuid.UUID, q service.ActivityQuery) ([]model.LeadActivity, error) {
	args := m.Called(ctx, actor, leadID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LeadActivity), args.Error(1)
}

type MockAssignmentService struct{ mock.Mock }

func (m *MockAssignmentService) AssignLead(ctx context.Context, actor auth.Identity, in service.AssignmentInput) (*model.LeadAssignment, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LeadAssignment), args.Error(1)
}

func (m *MockAssignmentService) ListAssignments(ctx context.Context, actor auth.Identity, q service.AssignmentQuery) ([]model.LeadAssignment, error) {
	args := m.Called(ctx, actor, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LeadAssignment), args.Error(1)
}

func (m *MockAssignmentService) DeactivateAssignment(ctx context.Context, actor auth.Identity, id uuid.UUID) (*model.LeadAssignment, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LeadAssignment), args.Error(1)
}

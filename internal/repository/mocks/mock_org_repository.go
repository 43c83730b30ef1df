package mocks

import (
	"context"

	"catalogapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockOrgRepository struct {
	mock.Mock
}

func (m *MockOrgRepository) ListActiveDepartments(ctx context.Context) ([]model.Department, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Department), args.Error(1)
}

func (m *MockOrgRepository) FindDepartment(ctx context.Context, id string) (*model.Department, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Department), args.Error(1)
}

func (m *MockOrgRepository) FindAcademicUnit(ctx context.Context, id string) (*model.AcademicUnit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AcademicUnit), args.Error(1)
}

func (m *MockOrgRepository) ListUnitsByDepartment(ctx context.Context, departmentID string) ([]model.AcademicUnit, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AcademicUnit), args.Error(1)
}

package mocks

import (
	"context"

	"catalogapi/internal/report"
	"catalogapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Export(ctx context.Context, name string, format report.Format) (*service.Export, error) {
	args := m.Called(ctx, name, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Export), args.Error(1)
}

func (m *MockReportService) Names() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

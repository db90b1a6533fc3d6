// test/mock/directory.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dev-rajatverma/doorward/model"
)

// MockDirectory is a mock implementation of engine.Directory
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) Terminal(ctx context.Context, id int64) (model.Device, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Device), args.Error(1)
}

func (m *MockDirectory) Devices(ctx context.Context) ([]model.Device, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Device), args.Error(1)
}

func (m *MockDirectory) ZoneTerminals(ctx context.Context, zoneID int64) ([]int64, error) {
	args := m.Called(ctx, zoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockCommandSender is a mock implementation of engine.CommandSender
type MockCommandSender struct {
	mock.Mock
}

func (m *MockCommandSender) Send(ctx context.Context, address, command string) error {
	args := m.Called(ctx, address, command)
	return args.Error(0)
}

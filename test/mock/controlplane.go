// test/mock/controlplane.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dev-rajatverma/doorward/model"
)

// MockAPI is a mock implementation of controlplane.API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Call(ctx context.Context, method, endpoint string, params map[string]string, body any) (model.RawOutcome, error) {
	args := m.Called(ctx, method, endpoint, params, body)
	return args.Get(0), args.Error(1)
}

// test/mock/stores.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dev-rajatverma/doorward/model"
)

// MockSubjectStore is a mock implementation of engine.SubjectStore
type MockSubjectStore struct {
	mock.Mock
}

func (m *MockSubjectStore) KeyByExternalID(ctx context.Context, externalID string) (int64, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubjectStore) KeyByNumericID(ctx context.Context, numericID int64) (int64, error) {
	args := m.Called(ctx, numericID)
	return args.Get(0).(int64), args.Error(1)
}

// MockRelationStore is a mock implementation of engine.RelationStore
type MockRelationStore struct {
	mock.Mock
}

func (m *MockRelationStore) FindRelation(ctx context.Context, subjectKey, terminal int64, method model.AuthMethod) (bool, error) {
	args := m.Called(ctx, subjectKey, terminal, method)
	return args.Bool(0), args.Error(1)
}

func (m *MockRelationStore) UpsertRelation(ctx context.Context, rel model.Relation) error {
	args := m.Called(ctx, rel)
	return args.Error(0)
}

func (m *MockRelationStore) DeleteRelation(ctx context.Context, subjectKey, terminal int64, method model.AuthMethod) error {
	args := m.Called(ctx, subjectKey, terminal, method)
	return args.Error(0)
}

// MockStateReader is a mock implementation of engine.StateReader
type MockStateReader struct {
	mock.Mock
}

func (m *MockStateReader) TerminalAuthList(ctx context.Context, subjectKey int64) ([]int64, error) {
	args := m.Called(ctx, subjectKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockStateReader) TemplateList(ctx context.Context, subjectKey int64) ([]string, error) {
	args := m.Called(ctx, subjectKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// audit/service.go
package audit

import (
	"context"
	"time"
)

type Service interface {
	LogChange(ctx context.Context, entry AccessChangeLog) error
	QueryChanges(ctx context.Context, from, to time.Time, subjectID string) ([]AccessChangeLog, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LogChange(ctx context.Context, entry AccessChangeLog) error {
	return s.repo.LogChange(ctx, entry)
}

func (s *service) QueryChanges(ctx context.Context, from, to time.Time, subjectID string) ([]AccessChangeLog, error) {
	return s.repo.QueryChanges(ctx, from, to, subjectID)
}

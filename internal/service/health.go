package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type HealthRepository interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	log  *zap.Logger
	repo HealthRepository
}

func NewHealthService(log *zap.Logger, repo HealthRepository) *HealthService {
	return &HealthService{
		log:  log,
		repo: repo,
	}
}

func (s *HealthService) Check(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("database is unreachable: %w", err)
	}

	return nil
}

package service

import (
	"gradebot/internal/repository"

	"go.uber.org/zap"
)

// StatsService handles statistics and cleanup
type StatsService struct {
	fetchLog      repository.FetchLogRepository
	retentionDays int
	logger        *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(fetchLog repository.FetchLogRepository, retentionDays int, logger *zap.Logger) *StatsService {
	return &StatsService{
		fetchLog:      fetchLog,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// CleanupOldData removes fetch records past the retention period
func (s *StatsService) CleanupOldData() error {
	s.logger.Info("Starting cleanup of old fetch records", zap.Int("retention_days", s.retentionDays))

	err := s.fetchLog.CleanOldFetches(s.retentionDays)
	if err != nil {
		s.logger.Error("Failed to cleanup old fetch records", zap.Error(err))
		return err
	}

	s.logger.Info("Cleanup completed successfully")
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"gradebot/internal/domain"
	"gradebot/internal/repository"

	"go.uber.org/zap"
)

// ErrMissingCredentials is returned when a fetch is asked for before both
// credentials were captured
var ErrMissingCredentials = errors.New("portal credentials are incomplete")

// GradeFetcher logs into the portal and returns the grades report
type GradeFetcher interface {
	FetchGrades(ctx context.Context, username, password string) (domain.GradeReport, error)
}

// GradeService handles grade fetching for known users
type GradeService struct {
	users    repository.UserRepository
	fetcher  GradeFetcher
	fetchLog repository.FetchLogRepository
	logger   *zap.Logger
}

// NewGradeService creates a new grade service
func NewGradeService(
	users repository.UserRepository,
	fetcher GradeFetcher,
	fetchLog repository.FetchLogRepository,
	logger *zap.Logger,
) *GradeService {
	return &GradeService{
		users:    users,
		fetcher:  fetcher,
		fetchLog: fetchLog,
		logger:   logger,
	}
}

// Fetch runs one portal login and scrape with user's stored credentials
func (s *GradeService) Fetch(ctx context.Context, userID int64) (domain.GradeReport, error) {
	user, found, err := s.users.Get(userID)
	if err != nil {
		return domain.GradeReport{}, err
	}
	if !found || !user.HasCredentials() {
		return domain.GradeReport{}, ErrMissingCredentials
	}

	report, err := s.fetcher.FetchGrades(ctx, user.PortalUsername, user.PortalPassword)
	outcome := domain.FetchOutcome(report, err)

	if saveErr := s.fetchLog.SaveFetch(domain.FetchLog{
		UserID:  userID,
		Outcome: outcome,
		Records: len(report.Records),
	}); saveErr != nil {
		s.logger.Warn("Failed to record fetch", zap.Int64("user_id", userID), zap.Error(saveErr))
	}

	if err != nil {
		fields := []zap.Field{zap.Int64("user_id", userID), zap.String("outcome", outcome)}
		if errors.Is(err, domain.ErrAuthentication) {
			s.logger.Info("Portal rejected credentials", fields...)
		} else {
			s.logger.Error("Failed to fetch grades", append(fields, zap.Error(err))...)
		}
		return domain.GradeReport{}, fmt.Errorf("fetch grades: %w", err)
	}

	s.logger.Info("Grades fetched",
		zap.Int64("user_id", userID),
		zap.String("outcome", outcome),
		zap.Int("records", len(report.Records)),
	)
	return report, nil
}

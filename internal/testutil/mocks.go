package testutil

import (
	"context"

	"gradebot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Ensure(userID int64, firstName string) (domain.UserProfile, error) {
	args := m.Called(userID, firstName)
	return args.Get(0).(domain.UserProfile), args.Error(1)
}

func (m *MockUserRepository) Get(userID int64) (domain.UserProfile, bool, error) {
	args := m.Called(userID)
	return args.Get(0).(domain.UserProfile), args.Bool(1), args.Error(2)
}

func (m *MockUserRepository) SetUsername(userID int64, username string) error {
	args := m.Called(userID, username)
	return args.Error(0)
}

func (m *MockUserRepository) SetPassword(userID int64, password string) error {
	args := m.Called(userID, password)
	return args.Error(0)
}

func (m *MockUserRepository) ClearCredentials(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) Count() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

// MockFetchLogRepository is a mock for FetchLogRepository
type MockFetchLogRepository struct {
	mock.Mock
}

func (m *MockFetchLogRepository) SaveFetch(entry domain.FetchLog) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockFetchLogRepository) CleanOldFetches(days int) error {
	args := m.Called(days)
	return args.Error(0)
}

// MockGradeFetcher is a mock for the portal client
type MockGradeFetcher struct {
	mock.Mock
}

func (m *MockGradeFetcher) FetchGrades(ctx context.Context, username, password string) (domain.GradeReport, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(domain.GradeReport), args.Error(1)
}

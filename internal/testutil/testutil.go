package testutil

import (
	"gradebot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestProfile creates a test profile
func NewTestProfile(userID int64, username, password string) domain.UserProfile {
	return domain.UserProfile{
		UserID:         userID,
		FirstName:      "Test",
		PortalUsername: username,
		PortalPassword: password,
	}
}

// NewTestReport creates a report holding the given records
func NewTestReport(records ...domain.GradeRecord) domain.GradeReport {
	return domain.NewGradeReport(true, records)
}

package repository

import (
	"gradebot/internal/domain"
)

// UserRepository defines user profile operations
type UserRepository interface {
	// Ensure returns the existing profile or creates one without credentials
	Ensure(userID int64, firstName string) (domain.UserProfile, error)
	Get(userID int64) (domain.UserProfile, bool, error)
	SetUsername(userID int64, username string) error
	SetPassword(userID int64, password string) error
	ClearCredentials(userID int64) error
	Count() (int, error)
}

// StageRepository defines conversation stage operations
type StageRepository interface {
	GetStage(userID int64) (domain.Stage, error)
	SetStage(userID int64, stage domain.Stage) error
}

// FetchLogRepository defines fetch audit operations
type FetchLogRepository interface {
	SaveFetch(entry domain.FetchLog) error
	CleanOldFetches(days int) error
}

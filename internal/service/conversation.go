package service

import (
	"fmt"
	"strings"

	"gradebot/internal/domain"
	"gradebot/internal/repository"

	"go.uber.org/zap"
)

// ConversationService drives the credential dialogue of each user.
//
// Stages only move forward: none, awaiting username, awaiting password, none.
// Reset is the only way back. Captured credentials are not checked here; the
// portal decides whether they are valid, and a failed fetch leaves both the
// credentials and the stage untouched.
type ConversationService struct {
	users  repository.UserRepository
	stages repository.StageRepository
	logger *zap.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(
	users repository.UserRepository,
	stages repository.StageRepository,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		users:  users,
		stages: stages,
		logger: logger,
	}
}

// Stage returns user's current stage
func (s *ConversationService) Stage(userID int64) (domain.Stage, error) {
	return s.stages.GetStage(userID)
}

// RequestGrades decides what a grade request needs: a prompt or a fetch
func (s *ConversationService) RequestGrades(userID int64) (domain.Action, error) {
	user, found, err := s.users.Get(userID)
	if err != nil {
		return domain.ActionPassThrough, err
	}
	if !found {
		return domain.ActionPassThrough, fmt.Errorf("user %d not found", userID)
	}

	switch {
	case !user.HasUsername():
		return s.moveTo(userID, domain.StageAwaitingUsername, domain.ActionPromptUsername)
	case !user.HasPassword():
		return s.moveTo(userID, domain.StageAwaitingPassword, domain.ActionPromptPassword)
	default:
		return domain.ActionFetchGrades, nil
	}
}

// Advance consumes text as the awaited credential.
// Users without an open stage get ActionPassThrough and nothing changes.
func (s *ConversationService) Advance(userID int64, text string) (domain.Action, error) {
	stage, err := s.stages.GetStage(userID)
	if err != nil {
		return domain.ActionPassThrough, err
	}

	value := strings.TrimSpace(text)

	switch stage {
	case domain.StageAwaitingUsername:
		if value == "" {
			return domain.ActionPromptUsername, nil
		}
		if err := s.users.SetUsername(userID, value); err != nil {
			return domain.ActionPassThrough, fmt.Errorf("failed to store username: %w", err)
		}
		s.logger.Info("Portal username captured", zap.Int64("user_id", userID))
		return s.moveTo(userID, domain.StageAwaitingPassword, domain.ActionPromptPassword)

	case domain.StageAwaitingPassword:
		if value == "" {
			return domain.ActionPromptPassword, nil
		}
		if err := s.users.SetPassword(userID, value); err != nil {
			return domain.ActionPassThrough, fmt.Errorf("failed to store password: %w", err)
		}
		s.logger.Info("Portal password captured", zap.Int64("user_id", userID))
		return s.moveTo(userID, domain.StageNone, domain.ActionFetchGrades)

	default:
		return domain.ActionPassThrough, nil
	}
}

// Reset returns user to the none stage, keeping captured credentials
func (s *ConversationService) Reset(userID int64) error {
	return s.stages.SetStage(userID, domain.StageNone)
}

// Forget drops stored credentials so the next grade request prompts again
func (s *ConversationService) Forget(userID int64) error {
	if err := s.users.ClearCredentials(userID); err != nil {
		return err
	}
	return s.Reset(userID)
}

func (s *ConversationService) moveTo(userID int64, stage domain.Stage, action domain.Action) (domain.Action, error) {
	if err := s.stages.SetStage(userID, stage); err != nil {
		return domain.ActionPassThrough, fmt.Errorf("failed to set stage %s: %w", stage, err)
	}
	return action, nil
}

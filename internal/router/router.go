package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gradebot/internal/domain"
	"gradebot/internal/repository"
	"gradebot/internal/service"

	"go.uber.org/zap"
)

// Button labels of the main menu
const (
	LabelGrades = "📊 Show grades"
	LabelHelp   = "❓ Help"
)

// Commands
const (
	CommandStart  = "/start"
	CommandHelp   = "/help"
	CommandGrades = "/grades"
	CommandLogout = "/logout"
)

// Router turns inbound chat messages into replies.
//
// Events of one user are handled one at a time. While a credential is
// awaited every text, commands included, is consumed as that credential.
type Router struct {
	users  repository.UserRepository
	conv   *service.ConversationService
	grades *service.GradeService
	logger *zap.Logger

	// Per-user locks
	userLocks map[int64]*sync.Mutex
	locksMux  sync.Mutex
}

// NewRouter creates a new router
func NewRouter(
	users repository.UserRepository,
	conv *service.ConversationService,
	grades *service.GradeService,
	logger *zap.Logger,
) *Router {
	return &Router{
		users:     users,
		conv:      conv,
		grades:    grades,
		logger:    logger,
		userLocks: make(map[int64]*sync.Mutex),
	}
}

// Route handles one inbound text message
func (r *Router) Route(ctx context.Context, in domain.Inbound) ([]domain.Reply, error) {
	unlock := r.lock(in.SenderID)
	defer unlock()

	user, err := r.users.Ensure(in.SenderID, in.SenderName)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}

	stage, err := r.conv.Stage(in.SenderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stage: %w", err)
	}

	if stage.IsOpen() {
		action, err := r.conv.Advance(in.SenderID, in.Text)
		if err != nil {
			return nil, err
		}
		return r.perform(ctx, in.SenderID, action), nil
	}

	switch command(in.Text) {
	case CommandStart:
		r.logger.Info("User started bot", zap.Int64("user_id", in.SenderID))
		return []domain.Reply{welcomeReply(user.FirstName)}, nil

	case CommandHelp, LabelHelp:
		return []domain.Reply{{Text: helpText, Menu: true}}, nil

	case CommandGrades, LabelGrades:
		action, err := r.conv.RequestGrades(in.SenderID)
		if err != nil {
			return nil, err
		}
		return r.perform(ctx, in.SenderID, action), nil

	case CommandLogout:
		if err := r.conv.Forget(in.SenderID); err != nil {
			return nil, fmt.Errorf("failed to forget credentials: %w", err)
		}
		r.logger.Info("Portal credentials forgotten", zap.Int64("user_id", in.SenderID))
		return []domain.Reply{{Text: logoutText, Menu: true}}, nil
	}

	return []domain.Reply{mainMenuReply()}, nil
}

// Cancel abandons the credential dialogue. Captured values are kept.
func (r *Router) Cancel(ctx context.Context, userID int64) ([]domain.Reply, error) {
	unlock := r.lock(userID)
	defer unlock()

	if err := r.conv.Reset(userID); err != nil {
		return nil, fmt.Errorf("failed to reset stage: %w", err)
	}
	return []domain.Reply{{Text: cancelText, Menu: true}}, nil
}

// UserCount returns the number of known users
func (r *Router) UserCount() (int, error) {
	return r.users.Count()
}

func (r *Router) lock(userID int64) func() {
	r.locksMux.Lock()
	lock, exists := r.userLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		r.userLocks[userID] = lock
	}
	r.locksMux.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (r *Router) perform(ctx context.Context, userID int64, action domain.Action) []domain.Reply {
	switch action {
	case domain.ActionPromptUsername:
		return []domain.Reply{{Text: usernamePrompt, Cancelable: true}}
	case domain.ActionPromptPassword:
		return []domain.Reply{{Text: passwordPrompt, Cancelable: true}}
	case domain.ActionFetchGrades:
		report, err := r.grades.Fetch(ctx, userID)
		if err != nil {
			return []domain.Reply{fetchErrorReply(err)}
		}
		return []domain.Reply{reportReply(report)}
	default:
		return []domain.Reply{mainMenuReply()}
	}
}

// command normalizes text for vocabulary matching.
// "/start@gradebot payload" becomes "/start".
func command(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	fields := strings.Fields(text)
	name, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(name)
}

func fetchErrorReply(err error) domain.Reply {
	var parseErr *domain.ParseError

	switch {
	case errors.Is(err, domain.ErrAuthentication):
		return domain.Reply{Text: authFailedText, Menu: true}
	case errors.As(err, &parseErr):
		return domain.Reply{Text: portalPageErrorText, Menu: true}
	case errors.Is(err, service.ErrMissingCredentials):
		return domain.Reply{Text: missingCredentialsText, Menu: true}
	default:
		return domain.Reply{Text: portalErrorText, Menu: true}
	}
}

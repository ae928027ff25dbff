package memory

import (
	"fmt"
	"sync"

	"gradebot/internal/domain"
)

// UserRepo implements repository.UserRepository in process memory.
// Entries live for the lifetime of the process.
type UserRepo struct {
	mu    sync.RWMutex
	users map[int64]*domain.UserProfile
}

// NewUserRepo creates a new user repository
func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[int64]*domain.UserProfile)}
}

// Ensure creates user if not exists
func (r *UserRepo) Ensure(userID int64, firstName string) (domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[userID]; ok {
		return *user, nil
	}

	user := &domain.UserProfile{UserID: userID, FirstName: firstName}
	r.users[userID] = user
	return *user, nil
}

// Get returns a copy of the stored profile
func (r *UserRepo) Get(userID int64) (domain.UserProfile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return domain.UserProfile{}, false, nil
	}
	return *user, true, nil
}

// SetUsername stores the portal username
func (r *UserRepo) SetUsername(userID int64, username string) error {
	return r.update(userID, func(u *domain.UserProfile) {
		u.PortalUsername = username
	})
}

// SetPassword stores the portal password
func (r *UserRepo) SetPassword(userID int64, password string) error {
	return r.update(userID, func(u *domain.UserProfile) {
		u.PortalPassword = password
	})
}

// ClearCredentials forgets both portal credentials
func (r *UserRepo) ClearCredentials(userID int64) error {
	return r.update(userID, func(u *domain.UserProfile) {
		u.PortalUsername = ""
		u.PortalPassword = ""
	})
}

// Count returns number of known users
func (r *UserRepo) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

func (r *UserRepo) update(userID int64, fn func(u *domain.UserProfile)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user %d not found", userID)
	}
	fn(user)
	return nil
}

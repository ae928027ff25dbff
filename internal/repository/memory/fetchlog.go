package memory

import (
	"sync"
	"time"

	"gradebot/internal/domain"
)

// FetchLogRepo keeps fetch outcomes in memory when no database is configured
type FetchLogRepo struct {
	mu      sync.Mutex
	entries []domain.FetchLog
	nextID  int
	now     func() time.Time
}

// NewFetchLogRepo creates a new in-memory fetch log
func NewFetchLogRepo() *FetchLogRepo {
	return &FetchLogRepo{now: time.Now}
}

// SaveFetch appends an entry
func (r *FetchLogRepo) SaveFetch(entry domain.FetchLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	entry.ID = r.nextID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now()
	}
	r.entries = append(r.entries, entry)
	return nil
}

// CleanOldFetches deletes entries older than specified days
func (r *FetchLogRepo) CleanOldFetches(days int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().AddDate(0, 0, -days)
	kept := r.entries[:0]
	for _, e := range r.entries {
		if !e.CreatedAt.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

// Entries returns a copy of stored entries
func (r *FetchLogRepo) Entries() []domain.FetchLog {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.FetchLog, len(r.entries))
	copy(out, r.entries)
	return out
}

package memory

import (
	"sync"

	"gradebot/internal/domain"
)

// StageRepo implements repository.StageRepository in process memory
type StageRepo struct {
	mu     sync.RWMutex
	stages map[int64]domain.Stage
}

// NewStageRepo creates a new stage repository
func NewStageRepo() *StageRepo {
	return &StageRepo{stages: make(map[int64]domain.Stage)}
}

// GetStage returns user's stage, StageNone if there is no open dialogue
func (r *StageRepo) GetStage(userID int64) (domain.Stage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stage, ok := r.stages[userID]
	if !ok {
		return domain.StageNone, nil
	}
	return stage, nil
}

// SetStage stores user's stage; StageNone drops the entry
func (r *StageRepo) SetStage(userID int64, stage domain.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stage == domain.StageNone {
		delete(r.stages, userID)
		return nil
	}
	r.stages[userID] = stage
	return nil
}

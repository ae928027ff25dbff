package postgres

import (
	"database/sql"

	"gradebot/internal/domain"
)

// FetchLogRepo implements repository.FetchLogRepository
type FetchLogRepo struct {
	db *sql.DB
}

// NewFetchLogRepo creates a new fetch log repository
func NewFetchLogRepo(db *sql.DB) *FetchLogRepo {
	return &FetchLogRepo{db: db}
}

// SaveFetch stores the outcome of a grades fetch
func (r *FetchLogRepo) SaveFetch(entry domain.FetchLog) error {
	query := `
		INSERT INTO fetch_log (user_id, outcome, records)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(query, entry.UserID, entry.Outcome, entry.Records)
	return err
}

// CleanOldFetches deletes fetches older than specified days
func (r *FetchLogRepo) CleanOldFetches(days int) error {
	query := `
		DELETE FROM fetch_log
		WHERE created_at < NOW() - INTERVAL '1 day' * $1
	`
	_, err := r.db.Exec(query, days)
	return err
}

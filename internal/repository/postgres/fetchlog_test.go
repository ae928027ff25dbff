package postgres

import (
	"fmt"
	"testing"

	"gradebot/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestFetchLogRepo_SaveFetch(t *testing.T) {
	tests := []struct {
		name          string
		entry         domain.FetchLog
		mockError     error
		expectedError bool
	}{
		{
			name:          "successful fetch",
			entry:         domain.FetchLog{UserID: 123, Outcome: "ok", Records: 4},
			mockError:     nil,
			expectedError: false,
		},
		{
			name:          "auth failure",
			entry:         domain.FetchLog{UserID: 456, Outcome: "auth_failed"},
			mockError:     nil,
			expectedError: false,
		},
		{
			name:          "database error",
			entry:         domain.FetchLog{UserID: 789, Outcome: "ok", Records: 1},
			mockError:     fmt.Errorf("connection lost"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewFetchLogRepo(db)

			exec := mock.ExpectExec("INSERT INTO fetch_log").
				WithArgs(tt.entry.UserID, tt.entry.Outcome, tt.entry.Records)
			if tt.mockError != nil {
				exec.WillReturnError(tt.mockError)
			} else {
				exec.WillReturnResult(sqlmock.NewResult(1, 1))
			}

			err = repo.SaveFetch(tt.entry)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFetchLogRepo_CleanOldFetches(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewFetchLogRepo(db)

	days := 30

	mock.ExpectExec("DELETE FROM fetch_log WHERE created_at").
		WithArgs(days).
		WillReturnResult(sqlmock.NewResult(0, 10))

	err = repo.CleanOldFetches(days)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchLogRepo_CleanOldFetches_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewFetchLogRepo(db)

	mock.ExpectExec("DELETE FROM fetch_log WHERE created_at").
		WithArgs(7).
		WillReturnError(fmt.Errorf("db error"))

	err = repo.CleanOldFetches(7)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

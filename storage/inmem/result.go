package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/result"
)

type resultRepository struct {
	db *resultTable
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(db *DB) result.Repository {
	return &resultRepository{db: db.results}
}

func (repo *resultRepository) CreateResults(ctx context.Context, results []result.TestResult) ([]result.TestResult, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	created := make([]result.TestResult, 0, len(results))
	for _, row := range results {
		row.ID = uuid.New().String()
		repo.db.rows = append(repo.db.rows, row)
		created = append(created, row)
	}
	return created, nil
}

func (repo *resultRepository) QueryAllResults(ctx context.Context) ([]result.TestResult, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]result.TestResult(nil), repo.db.rows...), nil
}

func (repo *resultRepository) QueryResultsByStudent(ctx context.Context, studentID string) ([]result.TestResult, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	results := make([]result.TestResult, 0, len(repo.db.rows))
	for _, row := range repo.db.rows {
		if row.StudentID == studentID {
			results = append(results, row)
		}
	}
	return results, nil
}

func (repo *resultRepository) DeleteResultsByKey(ctx context.Context, name string, date core.Date) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	kept := repo.db.rows[:0]
	for _, row := range repo.db.rows {
		if row.Name == name && row.Date == date {
			continue
		}
		kept = append(kept, row)
	}
	repo.db.rows = kept
	return nil
}

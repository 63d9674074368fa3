package restrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/result"
	"github.com/trezcool/alama/storage/store"
)

const testsCollection = "tests"

// resultRow is the wire shape of one tests row.
type resultRow struct {
	ID           string        `json:"id"`
	StudentID    string        `json:"student_id"`
	Name         string        `json:"name"`
	Date         core.Date     `json:"date"`
	Score        null.Float64  `json:"score"`
	Total        float64       `json:"total"`
	RetestDate   core.NullDate `json:"retest_date"`
	RetestReason null.String   `json:"retest_reason"`
	CreatedAt    time.Time     `json:"created_at"`
}

type resultRepository struct {
	client *store.Client
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(client *store.Client) *resultRepository {
	return &resultRepository{client: client}
}

func (repo resultRepository) pack(res result.TestResult) resultRow {
	return resultRow{
		ID:           res.ID,
		StudentID:    res.StudentID,
		Name:         res.Name,
		Date:         res.Date,
		Score:        res.Score,
		Total:        res.Total,
		RetestDate:   res.RetestDate,
		RetestReason: null.NewString(res.RetestReason, res.RetestReason != ""),
		CreatedAt:    res.CreatedAt.UTC(),
	}
}

func (repo resultRepository) unpack(row resultRow) result.TestResult {
	return result.TestResult{
		ID:           row.ID,
		StudentID:    row.StudentID,
		Name:         row.Name,
		Date:         row.Date,
		Score:        row.Score,
		Total:        row.Total,
		RetestDate:   row.RetestDate,
		RetestReason: row.RetestReason.String,
		CreatedAt:    row.CreatedAt,
	}
}

func (repo resultRepository) unpackSlice(rows []resultRow) []result.TestResult {
	results := make([]result.TestResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, repo.unpack(row))
	}
	return results
}

func (repo resultRepository) CreateResults(ctx context.Context, results []result.TestResult) ([]result.TestResult, error) {
	rows := make([]resultRow, 0, len(results))
	for _, res := range results {
		res.ID = uuid.New().String()
		rows = append(rows, repo.pack(res))
	}

	var created []resultRow
	if err := repo.client.Insert(ctx, testsCollection, rows, &created); err != nil {
		return nil, errors.Wrap(err, "inserting results")
	}
	if len(created) == 0 {
		return repo.unpackSlice(rows), nil
	}
	return repo.unpackSlice(created), nil
}

func (repo resultRepository) QueryAllResults(ctx context.Context) ([]result.TestResult, error) {
	var rows []resultRow
	if err := repo.client.Select(ctx, testsCollection, "", &rows); err != nil {
		return nil, errors.Wrap(err, "querying results")
	}
	return repo.unpackSlice(rows), nil
}

func (repo resultRepository) QueryResultsByStudent(ctx context.Context, studentID string) ([]result.TestResult, error) {
	var rows []resultRow
	if err := repo.client.Select(ctx, testsCollection, "", &rows, store.Eq("student_id", studentID)); err != nil {
		return nil, errors.Wrap(err, "querying results by student")
	}
	return repo.unpackSlice(rows), nil
}

func (repo resultRepository) DeleteResultsByKey(ctx context.Context, name string, date core.Date) error {
	err := repo.client.Delete(ctx, testsCollection, store.Eq("name", name), store.Eq("date", date.String()))
	return errors.Wrap(err, "deleting results by key")
}

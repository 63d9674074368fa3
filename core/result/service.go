package result

import (
	"context"
	"time"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/student"
)

type (
	Repository interface {
		CreateResults(ctx context.Context, results []TestResult) ([]TestResult, error)
		QueryAllResults(ctx context.Context) ([]TestResult, error)
		QueryResultsByStudent(ctx context.Context, studentID string) ([]TestResult, error)
		// DeleteResultsByKey deletes every row of the (name, date) test instance.
		DeleteResultsByKey(ctx context.Context, name string, date core.Date) error
	}

	Service interface {
		QueryAll(ctx context.Context) ([]TestResult, error)
		QueryByStudent(ctx context.Context, studentID string) ([]TestResult, error)
		SaveInstance(ctx context.Context, nt NewTestInstance) ([]TestResult, error)
		ReplaceInstance(ctx context.Context, key InstanceKey, nt NewTestInstance) ([]TestResult, error)
		DeleteInstance(ctx context.Context, key InstanceKey) error
		Overview(ctx context.Context, studentID string) ([]InstanceView, error)
		CalendarFor(ctx context.Context, studentID string, year int, month time.Month) (CalendarMonth, error)
		UpcomingFor(ctx context.Context, studentID string, today core.Date) ([]TestResult, error)
	}

	service struct {
		repo   Repository
		stdSvc student.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, stdSvc student.Service) Service {
	return &service{
		repo:   repo,
		stdSvc: stdSvc,
	}
}

func (svc *service) QueryAll(ctx context.Context) ([]TestResult, error) {
	return svc.repo.QueryAllResults(ctx)
}

func (svc *service) QueryByStudent(ctx context.Context, studentID string) ([]TestResult, error) {
	return svc.repo.QueryResultsByStudent(ctx, studentID)
}

func (svc *service) SaveInstance(ctx context.Context, nt NewTestInstance) ([]TestResult, error) {
	now := time.Now().UTC()
	total := nt.Total
	if total == 0 {
		total = DefaultTotal
	}

	rows := make([]TestResult, 0, len(nt.Entries))
	for _, entry := range nt.Entries {
		rows = append(rows, TestResult{
			StudentID:    entry.StudentID,
			Name:         nt.Name,
			Date:         nt.Date,
			Score:        entry.Score,
			Total:        total,
			RetestDate:   entry.RetestDate,
			RetestReason: entry.RetestReason,
			CreatedAt:    now,
		})
	}
	return svc.repo.CreateResults(ctx, rows)
}

// ReplaceInstance deletes every row of the keyed instance and saves nt anew.
// Edited rows get fresh ids; entries left out of nt are gone.
func (svc *service) ReplaceInstance(ctx context.Context, key InstanceKey, nt NewTestInstance) ([]TestResult, error) {
	if err := svc.repo.DeleteResultsByKey(ctx, key.Name, key.Date); err != nil {
		return nil, err
	}
	return svc.SaveInstance(ctx, nt)
}

func (svc *service) DeleteInstance(ctx context.Context, key InstanceKey) error {
	return svc.repo.DeleteResultsByKey(ctx, key.Name, key.Date)
}

// Overview returns the grouped results view, most recent test first,
// optionally restricted to one student. Rows are filtered before grouping:
// a group left empty by the filter does not appear at all.
func (svc *service) Overview(ctx context.Context, studentID string) ([]InstanceView, error) {
	results, err := svc.repo.QueryAllResults(ctx)
	if err != nil {
		return nil, err
	}
	instances := Group(FilterByStudent(results, studentID))

	students, err := svc.stdSvc.Query(ctx, nil)
	if err != nil {
		return nil, err
	}
	namesByID := make(map[string]string, len(students))
	for _, std := range students {
		namesByID[std.ID] = std.Name
	}
	return BuildOverview(instances, namesByID), nil
}

func (svc *service) CalendarFor(ctx context.Context, studentID string, year int, month time.Month) (CalendarMonth, error) {
	results, err := svc.repo.QueryResultsByStudent(ctx, studentID)
	if err != nil {
		return CalendarMonth{}, err
	}
	return Calendar(year, month, results), nil
}

func (svc *service) UpcomingFor(ctx context.Context, studentID string, today core.Date) ([]TestResult, error) {
	results, err := svc.repo.QueryResultsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return UpcomingRetests(results, today), nil
}

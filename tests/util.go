package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/result"
	"github.com/trezcool/alama/core/student"
	inmemdb "github.com/trezcool/alama/storage/inmem"
)

func ResetDB(t *testing.T, db *inmemdb.DB) {
	t.Helper()
	db.Reset()
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	name, uname, email, grade, pwd string,
	isAdmin bool,
	createdAt ...time.Time,
) student.Student {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	role := student.RoleStudent
	if isAdmin {
		role = student.RoleAdmin
	}
	std := student.Student{
		Name:      name,
		Username:  uname,
		Email:     email,
		Grade:     grade,
		Role:      role,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := std.SetPassword(pwd); err != nil {
			t.Fatalf("CreateStudent() failed: %v", err)
		}
	}
	std, err := repo.CreateStudent(context.Background(), std)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func CreateResult(
	t *testing.T,
	repo result.Repository,
	studentID, name string,
	date core.Date,
	score null.Float64,
	total float64,
	retestDate core.NullDate,
	retestReason string,
) result.TestResult {
	rows, err := repo.CreateResults(context.Background(), []result.TestResult{{
		StudentID:    studentID,
		Name:         name,
		Date:         date,
		Score:        score,
		Total:        total,
		RetestDate:   retestDate,
		RetestReason: retestReason,
		CreatedAt:    time.Now().UTC(),
	}})
	if err != nil {
		t.Fatalf("CreateResult() failed: %v", err)
	}
	return rows[0]
}

package inmemdb

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/alama/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.students}
}

func (repo *studentRepository) CheckUsernameUniqueness(ctx context.Context, username string, excludedStudents ...student.Student) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.rows {
		if std.Username != username {
			continue
		}
		if !isExcluded(std, excludedStudents) {
			return student.ErrUsernameExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	std.ID = uuid.New().String()
	repo.db.rows = append(repo.db.rows, std)
	return std, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]student.Student(nil), repo.db.rows...), nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.rows {
		if std.ID == id {
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByUsername(ctx context.Context, username string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.rows {
		if std.Username == username {
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	search := strings.ToLower(filter.Search)
	students := make([]student.Student, 0, len(repo.db.rows))
	for _, std := range repo.db.rows {
		if filter.Grade != "" && std.Grade != filter.Grade {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(std.Name), search) &&
			!strings.Contains(strings.ToLower(std.Username), search) {
			continue
		}
		students = append(students, std)
	}
	return students, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, row := range repo.db.rows {
		if row.ID != std.ID {
			continue
		}
		if std.Name != "" {
			row.Name = std.Name
		}
		if std.Username != "" {
			row.Username = std.Username
		}
		if std.Email != "" {
			row.Email = std.Email
		}
		if std.Grade != "" {
			row.Grade = std.Grade
		}
		if std.Role != "" {
			row.Role = std.Role
		}
		if len(std.PasswordHash) > 0 {
			row.PasswordHash = std.PasswordHash
		}
		row.UpdatedAt = std.UpdatedAt
		repo.db.rows[i] = row
		return row, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) SetStudentLastLogin(ctx context.Context, id string, t time.Time) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, row := range repo.db.rows {
		if row.ID == id {
			row.LastLogin = t
			repo.db.rows[i] = row
			return row, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	kept := repo.db.rows[:0]
	for _, row := range repo.db.rows {
		remove := false
		for _, id := range ids {
			if row.ID == id {
				remove = true
				break
			}
		}
		if !remove {
			kept = append(kept, row)
		}
	}
	repo.db.rows = kept
	return nil
}

func isExcluded(std student.Student, excluded []student.Student) bool {
	for _, excl := range excluded {
		if excl.ID == std.ID {
			return true
		}
	}
	return false
}

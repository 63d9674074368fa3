package restrepos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/alama/core/student"
	"github.com/trezcool/alama/storage/store"
)

const studentsCollection = "students"

// studentRow is the wire shape of one students row.
type studentRow struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Username     string      `json:"username"`
	Email        null.String `json:"email"`
	Grade        null.String `json:"grade"`
	Role         string      `json:"role"`
	PasswordHash string      `json:"password_hash"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	LastLogin    null.Time   `json:"last_login"`
}

// studentPatch is a sparse update; empty fields stay untouched.
type studentPatch struct {
	Name         string    `json:"name,omitempty"`
	Username     string    `json:"username,omitempty"`
	Email        string    `json:"email,omitempty"`
	Grade        string    `json:"grade,omitempty"`
	Role         string    `json:"role,omitempty"`
	PasswordHash string    `json:"password_hash,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type studentRepository struct {
	client *store.Client
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(client *store.Client) *studentRepository {
	return &studentRepository{client: client}
}

func (repo studentRepository) pack(std student.Student) studentRow {
	return studentRow{
		ID:           std.ID,
		Name:         std.Name,
		Username:     std.Username,
		Email:        null.NewString(std.Email, std.Email != ""),
		Grade:        null.NewString(std.Grade, std.Grade != ""),
		Role:         std.Role,
		PasswordHash: string(std.PasswordHash),
		CreatedAt:    std.CreatedAt.UTC(),
		UpdatedAt:    std.UpdatedAt.UTC(),
		LastLogin:    null.NewTime(std.LastLogin.UTC(), !std.LastLogin.IsZero()),
	}
}

func (repo studentRepository) unpack(row studentRow) student.Student {
	return student.Student{
		ID:           row.ID,
		Name:         row.Name,
		Username:     row.Username,
		Email:        row.Email.String,
		Grade:        row.Grade.String,
		Role:         row.Role,
		PasswordHash: []byte(row.PasswordHash),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		LastLogin:    row.LastLogin.Time,
	}
}

func (repo studentRepository) unpackSlice(rows []studentRow) []student.Student {
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, repo.unpack(row))
	}
	return students
}

func (repo studentRepository) CheckUsernameUniqueness(ctx context.Context, username string, excludedStudents ...student.Student) error {
	var rows []studentRow
	if err := repo.client.Select(ctx, studentsCollection, "id,username", &rows, store.Eq("username", username)); err != nil {
		return errors.Wrap(err, "checking username uniqueness")
	}

	for _, row := range rows {
		excluded := false
		for _, excl := range excludedStudents {
			if excl.ID == row.ID {
				excluded = true
				break
			}
		}
		if !excluded {
			return student.ErrUsernameExists
		}
	}
	return nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = uuid.New().String()

	var rows []studentRow
	if err := repo.client.Insert(ctx, studentsCollection, repo.pack(std), &rows); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	if len(rows) == 0 {
		return std, nil
	}
	return repo.unpack(rows[0]), nil
}

func (repo studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var rows []studentRow
	if err := repo.client.Select(ctx, studentsCollection, "", &rows); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return repo.unpackSlice(rows), nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var rows []studentRow
	if err := repo.client.Select(ctx, studentsCollection, "", &rows, store.Eq("id", id)); err != nil {
		return student.Student{}, errors.Wrap(err, "finding student by id")
	}
	if len(rows) == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.unpack(rows[0]), nil
}

func (repo studentRepository) GetStudentByUsername(ctx context.Context, username string) (student.Student, error) {
	var rows []studentRow
	if err := repo.client.Select(ctx, studentsCollection, "", &rows, store.Eq("username", username)); err != nil {
		return student.Student{}, errors.Wrap(err, "finding student by username")
	}
	if len(rows) == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.unpack(rows[0]), nil
}

// FilterStudents pushes the grade filter down to the store; the search match
// runs here since the store only takes equality predicates.
func (repo studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	filters := make([]store.Filter, 0, 1)
	if filter.Grade != "" {
		filters = append(filters, store.Eq("grade", filter.Grade))
	}

	var rows []studentRow
	if err := repo.client.Select(ctx, studentsCollection, "", &rows, filters...); err != nil {
		return nil, errors.Wrap(err, "filtering students")
	}

	students := repo.unpackSlice(rows)
	if filter.Search == "" {
		return students, nil
	}

	search := strings.ToLower(filter.Search)
	filtered := make([]student.Student, 0, len(students))
	for _, std := range students {
		if strings.Contains(strings.ToLower(std.Name), search) ||
			strings.Contains(strings.ToLower(std.Username), search) {
			filtered = append(filtered, std)
		}
	}
	return filtered, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	patch := studentPatch{
		Name:         std.Name,
		Username:     std.Username,
		Email:        std.Email,
		Grade:        std.Grade,
		Role:         std.Role,
		PasswordHash: string(std.PasswordHash),
		UpdatedAt:    std.UpdatedAt.UTC(),
	}

	var rows []studentRow
	if err := repo.client.Update(ctx, studentsCollection, patch, &rows, store.Eq("id", std.ID)); err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if len(rows) == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.unpack(rows[0]), nil
}

func (repo studentRepository) SetStudentLastLogin(ctx context.Context, id string, t time.Time) (student.Student, error) {
	patch := struct {
		LastLogin time.Time `json:"last_login"`
	}{LastLogin: t.UTC()}

	var rows []studentRow
	if err := repo.client.Update(ctx, studentsCollection, patch, &rows, store.Eq("id", id)); err != nil {
		return student.Student{}, errors.Wrap(err, "setting last login")
	}
	if len(rows) == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.unpack(rows[0]), nil
}

func (repo studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if err := repo.client.Delete(ctx, studentsCollection, store.Eq("id", id)); err != nil {
			return errors.Wrapf(err, "deleting student %s", id)
		}
	}
	return nil
}

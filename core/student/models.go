package student

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/alama/core"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// Grades is the closed set of class labels, primary through secondary.
var Grades = []Grade{
	{Name: "Primary 1", Value: "P1"},
	{Name: "Primary 2", Value: "P2"},
	{Name: "Primary 3", Value: "P3"},
	{Name: "Primary 4", Value: "P4"},
	{Name: "Primary 5", Value: "P5"},
	{Name: "Primary 6", Value: "P6"},
	{Name: "Secondary 1", Value: "S1"},
	{Name: "Secondary 2", Value: "S2"},
	{Name: "Secondary 3", Value: "S3"},
}

type Grade struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// GradeValues returns the Value of every entry in Grades.
func GradeValues() []string {
	vals := make([]string, 0, len(Grades))
	for _, g := range Grades {
		vals = append(vals, g.Value)
	}
	return vals
}

type Student struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Grade        string    `json:"grade"`
	Role         string    `json:"role"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

func (s *Student) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	Name            string `json:"name" validate:"required"`
	Username        string `json:"username" validate:"required,min=3,alphanum_"`
	Email           string `json:"email" validate:"omitempty,email"`
	Grade           string `json:"grade" validate:"required,gradelabel"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (ns *NewStudent) Validate(ctx context.Context, validate *validator.Validate, svc Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Username = core.CleanString(ns.Username, true /* lower */)
	ns.Email = core.CleanString(ns.Email, true /* lower */)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, ns.Username)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	Name            string `json:"name"`
	Username        string `json:"username" validate:"omitempty,min=3,alphanum_"`
	Email           string `json:"email" validate:"omitempty,email"`
	Grade           string `json:"grade" validate:"omitempty,gradelabel"`
	Password        string `json:"password" validate:"omitempty"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (us *UpdateStudent) Validate(ctx context.Context, validate *validator.Validate, origStd Student, svc Service) error {
	if name := core.CleanString(us.Name); name != "" {
		us.Name = name
	} else {
		us.Name = origStd.Name
	}

	if uname := core.CleanString(us.Username, true /* lower */); uname != "" {
		us.Username = uname
	} else {
		us.Username = origStd.Username
	}

	if email := core.CleanString(us.Email, true /* lower */); email != "" {
		us.Email = email
	} else {
		us.Email = origStd.Email
	}

	if us.Grade == "" {
		us.Grade = origStd.Grade
	}

	if err := validate.Struct(us); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, us.Username, origStd)
}

type QueryFilter struct {
	Search string `query:"search"`
	Grade  string `query:"grade"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Grade == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Grade = core.CleanString(qf.Grade)
}

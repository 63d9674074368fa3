package student

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/alama/core"
)

var (
	// errors
	ErrNotFound       = errors.New("student not found")
	ErrUsernameExists = errors.New("a student with this username already exists")
)

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username string, excludedStudents ...Student) error
		CreateStudent(ctx context.Context, std Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByUsername(ctx context.Context, username string) (Student, error)
		// FilterStudents applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Student.Name or Student.Username.
		FilterStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		SetStudentLastLogin(ctx context.Context, id string, t time.Time) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		CheckUniqueness(ctx context.Context, uname string, exclStudents ...Student) error
		Register(ctx context.Context, ns NewStudent) (Student, error)
		Query(ctx context.Context, filter *QueryFilter) ([]Student, error)
		GetByID(ctx context.Context, id string) (Student, error)
		GetByUsername(ctx context.Context, uname string) (Student, error)
		SetLastLogin(ctx context.Context, std Student) (Student, error)
		Update(ctx context.Context, id string, us UpdateStudent) (Student, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *service) CheckUniqueness(ctx context.Context, uname string, exclStudents ...Student) error {
	if err := svc.repo.CheckUsernameUniqueness(ctx, uname, exclStudents...); err != nil {
		if errors.Cause(err) == ErrUsernameExists {
			return core.NewValidationError(err, core.FieldError{Field: "username", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Register(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		Name:      ns.Name,
		Username:  ns.Username,
		Email:     ns.Email,
		Grade:     ns.Grade,
		Role:      RoleStudent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := std.SetPassword(ns.Password); err != nil {
		return Student{}, errors.Wrap(err, "setting password")
	}

	std, err := svc.repo.CreateStudent(ctx, std)
	if err != nil {
		return Student{}, err
	}
	svc.sendWelcomeEmail(std)
	return std, nil
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter) ([]Student, error) {
	if filter == nil || filter.IsEmpty() {
		return svc.repo.QueryAllStudents(ctx)
	}
	return svc.repo.FilterStudents(ctx, *filter)
}

func (svc *service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *service) GetByUsername(ctx context.Context, uname string) (Student, error) {
	return svc.repo.GetStudentByUsername(ctx, core.CleanString(uname, true /* lower */))
}

func (svc *service) SetLastLogin(ctx context.Context, std Student) (Student, error) {
	return svc.repo.SetStudentLastLogin(ctx, std.ID, time.Now().UTC())
}

func (svc *service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	std := Student{
		ID:        id,
		Name:      us.Name,
		Username:  us.Username,
		Email:     us.Email,
		Grade:     us.Grade,
		UpdatedAt: time.Now().UTC(),
	}
	if us.Password != "" {
		if err := std.SetPassword(us.Password); err != nil {
			return Student{}, errors.Wrap(err, "setting password")
		}
	}
	std, err := svc.repo.UpdateStudent(ctx, std)
	if err != nil {
		return Student{}, err
	}
	if us.Password != "" {
		svc.sendPasswordChangedEmail(std)
	}
	return std, nil
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}

func (svc *service) sendWelcomeEmail(std Student) {
	if std.Email == "" {
		return
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nYour account has been created. You can now sign in at %s with the username %q.\n",
		std.Name, svc.conf.FrontendBaseURL, std.Username,
	)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: std.Name, Address: std.Email}},
		Subject: "Welcome!",
		BodyStr: body,
	})
}

func (svc *service) sendPasswordChangedEmail(std Student) {
	if std.Email == "" {
		return
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nYour %s password was just changed. If this wasn't you, contact your administrator.\n",
		std.Name, svc.conf.AppName,
	)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: std.Name, Address: std.Email}},
		Subject: "Your password was changed",
		BodyStr: body,
	})
}

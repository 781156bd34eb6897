package student

import (
	"context"

	"github.com/pkg/errors"

	"github.com/gympoint/backend/core"
)

var (
	// errors
	ErrNotFound    = core.NewValidationError(errors.New("Student does not exist."))
	ErrEmailExists = core.NewValidationError(errors.New("Email already exists."))
	// ErrHasHistory guards deletion: registrations and check-ins back billing
	// history and must not be cascade-dropped.
	ErrHasHistory = core.NewValidationError(errors.New("Student has registrations or checkins and cannot be deleted."))
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedStudents []Student, exec ...core.DBExecutor) error
		CreateStudent(ctx context.Context, std Student, exec ...core.DBExecutor) (Student, error)
		// FilterStudents joins the avatar file reference and returns the page
		// of matches plus the total match count.
		FilterStudents(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Student, int, error)
		GetStudentByID(ctx context.Context, id int, exec ...core.DBExecutor) (Student, error)
		UpdateStudent(ctx context.Context, std Student, exec ...core.DBExecutor) (Student, error)
		// DeleteStudentByID fails with ErrHasHistory while registration or
		// check-in rows reference the student.
		DeleteStudentByID(ctx context.Context, id int, exec ...core.DBExecutor) error
	}

	ServiceInterface interface {
		CheckEmailUniqueness(email string, exclStudents ...Student) error
		Create(ctx context.Context, ns NewStudent) (Student, error)
		Filter(ctx context.Context, filter QueryFilter) ([]Student, int, error)
		GetByID(ctx context.Context, id int) (Student, error)
		Update(ctx context.Context, id int, us UpdateStudent) (Student, error)
		Delete(ctx context.Context, id int) error
	}

	Service struct {
		repo  Repository
		clock core.Clock
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(repo Repository, clock core.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

func (svc *Service) CheckEmailUniqueness(email string, exclStudents ...Student) error {
	return svc.repo.CheckEmailUniqueness(context.Background(), email, exclStudents)
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := svc.clock.Now()
	std := Student{
		Name:      ns.Name,
		Email:     ns.Email,
		Age:       ns.Age,
		Weight:    ns.Weight,
		Height:    ns.Height,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Student, int, error) {
	return svc.repo.FilterStudents(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id int, us UpdateStudent) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	std.Name = us.Name
	std.Email = us.Email
	std.Age = us.Age
	std.Weight = us.Weight
	std.Height = us.Height
	std.UpdatedAt = svc.clock.Now()
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetStudentByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteStudentByID(ctx, id)
}

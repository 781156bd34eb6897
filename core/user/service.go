package user

import (
	"context"

	"github.com/pkg/errors"

	"github.com/gympoint/backend/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = core.NewValidationError(errors.New("User already exists."))
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedUsers []User, exec ...core.DBExecutor) error
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		GetUserByID(ctx context.Context, id int, exec ...core.DBExecutor) (User, error)
		GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (User, error)
		UpdateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
	}

	ServiceInterface interface {
		CheckEmailUniqueness(email string, exclUsers ...User) error
		Create(ctx context.Context, nu NewUser) (User, error)
		GetByID(ctx context.Context, id int) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		Update(ctx context.Context, id int, uu UpdateUser) (User, error)
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

func (svc *Service) CheckEmailUniqueness(email string, exclUsers ...User) error {
	return svc.repo.CheckEmailUniqueness(context.Background(), email, exclUsers)
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := svc.clock.Now()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Admin:     nu.Admin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) Update(ctx context.Context, id int, uu UpdateUser) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if uu.Password != "" {
		if err = usr.CheckPassword(uu.OldPassword); err != nil {
			return User{}, core.NewValidationError(errors.New("Password does not match."))
		}
		if err = usr.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
	}
	usr.Name = uu.Name
	usr.Email = uu.Email
	usr.UpdatedAt = svc.clock.Now()
	return svc.repo.UpdateUser(ctx, usr)
}

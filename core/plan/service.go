package plan

import (
	"context"

	"github.com/pkg/errors"

	"github.com/gympoint/backend/core"
)

var (
	// errors
	ErrNotFound    = core.NewValidationError(errors.New("Plan does not exist."))
	ErrTitleExists = core.NewValidationError(errors.New("Plan title already exists."))
)

type (
	Repository interface {
		// CheckTitleUniqueness only considers non-deleted plans.
		CheckTitleUniqueness(ctx context.Context, title string, excludedPlans []Plan, exec ...core.DBExecutor) error
		CreatePlan(ctx context.Context, pl Plan, exec ...core.DBExecutor) (Plan, error)
		// FilterPlans excludes soft-deleted plans and returns the page of
		// matches plus the total match count. QueryFilter.Search does a
		// case-insensitive substring match on Plan.Title.
		FilterPlans(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Plan, int, error)
		GetPlanByID(ctx context.Context, id int, exec ...core.DBExecutor) (Plan, error)
		UpdatePlan(ctx context.Context, pl Plan, exec ...core.DBExecutor) (Plan, error)
		SoftDeletePlan(ctx context.Context, pl Plan, exec ...core.DBExecutor) error
	}

	ServiceInterface interface {
		CheckTitleUniqueness(title string, exclPlans ...Plan) error
		Create(ctx context.Context, np NewPlan) (Plan, error)
		Filter(ctx context.Context, filter QueryFilter) ([]Plan, int, error)
		GetByID(ctx context.Context, id int) (Plan, error)
		Update(ctx context.Context, id int, up UpdatePlan) (Plan, error)
		SoftDelete(ctx context.Context, id int) error
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

func (svc *Service) CheckTitleUniqueness(title string, exclPlans ...Plan) error {
	if err := svc.repo.CheckTitleUniqueness(context.Background(), title, exclPlans); err != nil {
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, np NewPlan) (Plan, error) {
	now := svc.clock.Now()
	pl := Plan{
		Title:     np.Title,
		Duration:  np.Duration,
		Price:     np.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreatePlan(ctx, pl)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Plan, int, error) {
	return svc.repo.FilterPlans(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Plan, error) {
	return svc.repo.GetPlanByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id int, up UpdatePlan) (Plan, error) {
	pl, err := svc.repo.GetPlanByID(ctx, id)
	if err != nil {
		return Plan{}, err
	}
	pl.Title = up.Title
	pl.Duration = up.Duration
	pl.Price = up.Price
	pl.UpdatedAt = svc.clock.Now()
	return svc.repo.UpdatePlan(ctx, pl)
}

// SoftDelete marks the plan deleted; the row is kept so historical
// registrations keep resolving to it.
func (svc *Service) SoftDelete(ctx context.Context, id int) error {
	pl, err := svc.repo.GetPlanByID(ctx, id)
	if err != nil {
		return err
	}
	pl.DeletedAt.SetValid(svc.clock.Now())
	pl.UpdatedAt = svc.clock.Now()
	return svc.repo.SoftDeletePlan(ctx, pl)
}

package registration

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/plan"
	"github.com/gympoint/backend/core/student"
)

var (
	// errors
	ErrNotFound = core.NewValidationError(errors.New("Registration does not exist."))
	ErrPastDate = core.NewValidationError(errors.New("Past dates are not permitted."))
)

const mailDateFormat = "January 2, 2006"

type (
	Repository interface {
		CreateRegistration(ctx context.Context, reg Registration, exec ...core.DBExecutor) (Registration, error)
		// FilterRegistrations returns entries joined with student name and
		// plan title, ordered by id, plus the total match count.
		FilterRegistrations(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Entry, int, error)
		GetRegistrationByID(ctx context.Context, id int, exec ...core.DBExecutor) (Registration, error)
		UpdateRegistration(ctx context.Context, reg Registration, exec ...core.DBExecutor) (Registration, error)
		DeleteRegistrationByID(ctx context.Context, id int, exec ...core.DBExecutor) error
	}

	// PlanResolver and StudentResolver are the slices of the plan and student
	// repositories this service needs.
	PlanResolver interface {
		GetPlanByID(ctx context.Context, id int, exec ...core.DBExecutor) (plan.Plan, error)
	}

	StudentResolver interface {
		GetStudentByID(ctx context.Context, id int, exec ...core.DBExecutor) (student.Student, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, nr NewRegistration) (Registration, error)
		Filter(ctx context.Context, filter QueryFilter) ([]Entry, int, error)
		GetByID(ctx context.Context, id int) (Registration, error)
		Update(ctx context.Context, id int, nr NewRegistration) (Registration, error)
		Delete(ctx context.Context, id int) error
		QuotePrice(ctx context.Context, nr NewRegistration) (float64, error)
	}

	Service struct {
		repo     Repository
		plans    PlanResolver
		students StudentResolver
		mailSvc  core.EmailService
		clock    core.Clock
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(
	repo Repository,
	plans PlanResolver,
	students StudentResolver,
	mailSvc core.EmailService,
	clock core.Clock,
) *Service {
	return &Service{
		repo:     repo,
		plans:    plans,
		students: students,
		mailSvc:  mailSvc,
		clock:    clock,
	}
}

// resolve loads and validates the plan, student and start date of a payload.
// StartDate strictly before "now" is rejected.
func (svc *Service) resolve(ctx context.Context, nr NewRegistration) (plan.Plan, student.Student, error) {
	pl, err := svc.plans.GetPlanByID(ctx, nr.PlanID)
	if err != nil {
		return plan.Plan{}, student.Student{}, err
	}
	std, err := svc.students.GetStudentByID(ctx, nr.StudentID)
	if err != nil {
		return plan.Plan{}, student.Student{}, err
	}
	if nr.StartDate.Before(svc.clock.Now()) {
		return plan.Plan{}, student.Student{}, ErrPastDate
	}
	return pl, std, nil
}

// derive fills in the computed fields: EndDate and Price.
func derive(reg *Registration, pl plan.Plan) {
	reg.EndDate = reg.StartDate.AddDate(0, pl.Duration, 0)
	reg.Price = float64(pl.Duration) * pl.Price
}

func (svc *Service) Create(ctx context.Context, nr NewRegistration) (Registration, error) {
	pl, std, err := svc.resolve(ctx, nr)
	if err != nil {
		return Registration{}, err
	}

	now := svc.clock.Now()
	reg := Registration{
		StudentID: nr.StudentID,
		PlanID:    nr.PlanID,
		StartDate: nr.StartDate.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	derive(&reg, pl)

	reg, err = svc.repo.CreateRegistration(ctx, reg)
	if err != nil {
		return Registration{}, err
	}

	// mail dispatch is fire-and-forget; it never fails the create
	svc.sendRegistrationMail(std, pl, reg)
	return reg, nil
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Entry, int, error) {
	return svc.repo.FilterRegistrations(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Registration, error) {
	return svc.repo.GetRegistrationByID(ctx, id)
}

// Update replaces the registration's student, plan and start date, and
// re-derives EndDate and Price. It does not re-send the registration mail.
func (svc *Service) Update(ctx context.Context, id int, nr NewRegistration) (Registration, error) {
	reg, err := svc.repo.GetRegistrationByID(ctx, id)
	if err != nil {
		return Registration{}, err
	}
	pl, _, err := svc.resolve(ctx, nr)
	if err != nil {
		return Registration{}, err
	}

	reg.StudentID = nr.StudentID
	reg.PlanID = nr.PlanID
	reg.StartDate = nr.StartDate.UTC()
	reg.UpdatedAt = svc.clock.Now()
	derive(&reg, pl)

	return svc.repo.UpdateRegistration(ctx, reg)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetRegistrationByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteRegistrationByID(ctx, id)
}

// QuotePrice computes the total price a registration would cost without
// persisting anything. Kept for the legacy /enrollments endpoint.
func (svc *Service) QuotePrice(ctx context.Context, nr NewRegistration) (float64, error) {
	pl, err := svc.plans.GetPlanByID(ctx, nr.PlanID)
	if err != nil {
		return 0, err
	}
	if _, err = svc.students.GetStudentByID(ctx, nr.StudentID); err != nil {
		return 0, err
	}
	return float64(pl.Duration) * pl.Price, nil
}

func (svc *Service) sendRegistrationMail(std student.Student, pl plan.Plan, reg Registration) {
	unit := "months"
	if pl.Duration == 1 {
		unit = "month"
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: std.Name, Address: std.Email}},
		Subject:      "Enrollment confirmed",
		TemplateName: "registration",
		TemplateData: registrationMailData{
			StudentName: std.Name,
			PlanTitle:   fmt.Sprintf("%s (%d %s)", pl.Title, pl.Duration, unit),
			Price:       fmt.Sprintf("%.2f", reg.Price),
			StartDate:   reg.StartDate.Format(mailDateFormat),
			EndDate:     reg.EndDate.Format(mailDateFormat),
		},
	})
}

type registrationMailData struct {
	StudentName string
	PlanTitle   string
	Price       string
	StartDate   string
	EndDate     string
}

package checkin

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/gympoint/backend/core"
)

// Quota policy: at most QuotaLimit check-ins in any trailing QuotaWindowDays-day
// window. The count is checked with >= before inserting.
const (
	QuotaLimit      = 5
	QuotaWindowDays = 7
)

var (
	// errors
	ErrStudentNotFound   = core.NewValidationError(errors.New("Student does not exist."))
	ErrNoValidEnrollment = core.NewValidationError(errors.New("No valid enrollment found."))
	ErrQuotaExceeded     = core.NewValidationError(errors.New("You can have only 5 checkins in the past 7 days."))
)

type (
	Repository interface {
		// LockStudent takes a row-level lock on the student for the duration
		// of the surrounding transaction, serializing concurrent check-in
		// attempts for the same student. Fails with ErrStudentNotFound when
		// the student does not resolve.
		LockStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) error
		CountCheckinsSince(ctx context.Context, studentID int, since time.Time, exec ...core.DBExecutor) (int, error)
		CreateCheckin(ctx context.Context, c Checkin, exec ...core.DBExecutor) (Checkin, error)
		// FilterCheckins returns the student's check-ins ordered by id
		// ascending, plus the total count. Fails with ErrStudentNotFound when
		// the student does not resolve.
		FilterCheckins(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Checkin, int, error)
	}

	// EnrollmentChecker is the slice of the registration repository this
	// service needs: "does any registration interval cover `at`?".
	EnrollmentChecker interface {
		HasActiveRegistration(ctx context.Context, studentID int, at time.Time, exec ...core.DBExecutor) (bool, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, studentID int) (Checkin, error)
		Filter(ctx context.Context, filter QueryFilter) ([]Checkin, int, error)
	}

	Service struct {
		tx    core.Transactor
		repo  Repository
		regs  EnrollmentChecker
		clock core.Clock
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(tx core.Transactor, repo Repository, regs EnrollmentChecker, clock core.Clock) *Service {
	return &Service{tx: tx, repo: repo, regs: regs, clock: clock}
}

// Create records a check-in for the student, provided an active registration
// covers "now" and fewer than QuotaLimit check-ins exist in the trailing
// window. The read-then-write runs inside one transaction holding the
// student's row lock: two concurrent attempts can never both observe a count
// below the limit and both insert.
func (svc *Service) Create(ctx context.Context, studentID int) (Checkin, error) {
	now := svc.clock.Now()

	var c Checkin
	err := svc.tx.RunInTx(ctx, func(exec core.DBExecutor) error {
		if err := svc.repo.LockStudent(ctx, studentID, exec); err != nil {
			return err
		}

		active, err := svc.regs.HasActiveRegistration(ctx, studentID, now, exec)
		if err != nil {
			return errors.Wrap(err, "checking active registration")
		}
		if !active {
			return ErrNoValidEnrollment
		}

		since := now.AddDate(0, 0, -QuotaWindowDays)
		count, err := svc.repo.CountCheckinsSince(ctx, studentID, since, exec)
		if err != nil {
			return errors.Wrap(err, "counting recent checkins")
		}
		if count >= QuotaLimit {
			return ErrQuotaExceeded
		}

		c, err = svc.repo.CreateCheckin(ctx, Checkin{StudentID: studentID, CreatedAt: now}, exec)
		return err
	})
	if err != nil {
		return Checkin{}, err
	}
	return c, nil
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Checkin, int, error) {
	return svc.repo.FilterCheckins(ctx, filter)
}

package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/registration"
)

type registrationRepository struct {
	exec core.DBExecutor
}

var _ registration.Repository = (*registrationRepository)(nil) // interface compliance check

func NewRegistrationRepository(db *sqlx.DB) *registrationRepository {
	return &registrationRepository{exec: db}
}

type registrationRow struct {
	ID        int       `db:"id"`
	StudentID int       `db:"student_id"`
	PlanID    int       `db:"plan_id"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Price     float64   `db:"price"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r registrationRow) toRegistration() registration.Registration {
	return registration.Registration{
		ID:        r.ID,
		StudentID: r.StudentID,
		PlanID:    r.PlanID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Price:     r.Price,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type registrationEntryRow struct {
	ID          int       `db:"id"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date"`
	Price       float64   `db:"price"`
	StudentID   int       `db:"student_id"`
	StudentName string    `db:"student_name"`
	PlanID      int       `db:"plan_id"`
	PlanTitle   string    `db:"plan_title"`
}

func (r registrationEntryRow) toEntry() registration.Entry {
	return registration.Entry{
		ID:        r.ID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Price:     r.Price,
		Student:   registration.StudentRef{ID: r.StudentID, Name: r.StudentName},
		Plan:      registration.PlanRef{ID: r.PlanID, Title: r.PlanTitle},
	}
}

func (repo registrationRepository) CreateRegistration(ctx context.Context, reg registration.Registration, exec ...core.DBExecutor) (registration.Registration, error) {
	exe := getExec(repo.exec, exec)

	const query = `
		INSERT INTO registrations (student_id, plan_id, start_date, end_date, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := exe.QueryRowxContext(ctx, query,
		reg.StudentID, reg.PlanID, reg.StartDate, reg.EndDate, reg.Price, reg.CreatedAt, reg.UpdatedAt,
	).Scan(&reg.ID)
	if err != nil {
		return registration.Registration{}, errors.Wrap(err, "inserting registration")
	}
	return reg, nil
}

func (repo registrationRepository) FilterRegistrations(ctx context.Context, filter registration.QueryFilter, exec ...core.DBExecutor) ([]registration.Entry, int, error) {
	exe := getExec(repo.exec, exec)

	where := ``
	args := []interface{}{}
	if filter.Search != "" {
		where = ` WHERE s.name ILIKE $1`
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	countQuery := `SELECT count(*) FROM registrations r JOIN students s ON s.id = r.student_id` + where
	if err := sqlx.GetContext(ctx, exe, &total, countQuery, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting registrations")
	}

	query := `
		SELECT r.id, r.start_date, r.end_date, r.price,
		       s.id AS student_id, s.name AS student_name,
		       p.id AS plan_id, p.title AS plan_title
		FROM registrations r
		JOIN students s ON s.id = r.student_id
		JOIN plans p ON p.id = r.plan_id` + where +
		` ORDER BY r.id LIMIT ` + itoa(filter.Limit) + ` OFFSET ` + itoa((filter.Page-1)*filter.Limit)
	var rows []registrationEntryRow
	if err := sqlx.SelectContext(ctx, exe, &rows, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying registrations")
	}

	entries := make([]registration.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.toEntry())
	}
	return entries, total, nil
}

func (repo registrationRepository) GetRegistrationByID(ctx context.Context, id int, exec ...core.DBExecutor) (registration.Registration, error) {
	exe := getExec(repo.exec, exec)

	var r registrationRow
	const query = `
		SELECT id, student_id, plan_id, start_date, end_date, price, created_at, updated_at
		FROM registrations WHERE id = $1`
	if err := sqlx.GetContext(ctx, exe, &r, query, id); err != nil {
		if err == sql.ErrNoRows {
			return registration.Registration{}, registration.ErrNotFound
		}
		return registration.Registration{}, errors.Wrap(err, "finding registration by ID")
	}
	return r.toRegistration(), nil
}

func (repo registrationRepository) UpdateRegistration(ctx context.Context, reg registration.Registration, exec ...core.DBExecutor) (registration.Registration, error) {
	exe := getExec(repo.exec, exec)

	const query = `
		UPDATE registrations SET student_id = $1, plan_id = $2, start_date = $3, end_date = $4, price = $5, updated_at = $6
		WHERE id = $7`
	if _, err := exe.ExecContext(ctx, query,
		reg.StudentID, reg.PlanID, reg.StartDate, reg.EndDate, reg.Price, reg.UpdatedAt, reg.ID,
	); err != nil {
		return registration.Registration{}, errors.Wrap(err, "updating registration")
	}
	return reg, nil
}

func (repo registrationRepository) DeleteRegistrationByID(ctx context.Context, id int, exec ...core.DBExecutor) error {
	exe := getExec(repo.exec, exec)

	res, err := exe.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting registration")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return registration.ErrNotFound
	}
	return nil
}

// HasActiveRegistration reports whether any of the student's registration
// intervals covers `at`. Satisfies checkin.EnrollmentChecker.
func (repo registrationRepository) HasActiveRegistration(ctx context.Context, studentID int, at time.Time, exec ...core.DBExecutor) (bool, error) {
	exe := getExec(repo.exec, exec)

	const query = `
		SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE student_id = $1 AND start_date <= $2 AND end_date >= $2
		)`
	var active bool
	if err := sqlx.GetContext(ctx, exe, &active, query, studentID, at); err != nil {
		return false, errors.Wrap(err, "checking active registration")
	}
	return active, nil
}

package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/plan"
)

type planRepository struct {
	exec core.DBExecutor
}

var _ plan.Repository = (*planRepository)(nil) // interface compliance check

func NewPlanRepository(db *sqlx.DB) *planRepository {
	return &planRepository{exec: db}
}

type planRow struct {
	ID        int       `db:"id"`
	Title     string    `db:"title"`
	Duration  int       `db:"duration"`
	Price     float64   `db:"price"`
	DeletedAt null.Time `db:"deleted_at"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r planRow) toPlan() plan.Plan {
	return plan.Plan{
		ID:        r.ID,
		Title:     r.Title,
		Duration:  r.Duration,
		Price:     r.Price,
		DeletedAt: r.DeletedAt,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (repo planRepository) CheckTitleUniqueness(ctx context.Context, title string, excludedPlans []plan.Plan, exec ...core.DBExecutor) error {
	exe := getExec(repo.exec, exec)

	query := `SELECT EXISTS (SELECT 1 FROM plans WHERE title = ? AND deleted_at IS NULL`
	args := []interface{}{title}
	if len(excludedPlans) > 0 {
		ids := make([]int, 0, len(excludedPlans))
		for _, pl := range excludedPlans {
			ids = append(ids, pl.ID)
		}
		inQuery, inArgs, err := sqlx.In(` AND id NOT IN (?)`, ids)
		if err != nil {
			return errors.Wrap(err, "building plan uniqueness query")
		}
		query += inQuery
		args = append(args, inArgs...)
	}
	query += `)`

	var exists bool
	if err := sqlx.GetContext(ctx, exe, &exists, exe.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking plan title uniqueness")
	}
	if exists {
		return plan.ErrTitleExists
	}
	return nil
}

func (repo planRepository) CreatePlan(ctx context.Context, pl plan.Plan, exec ...core.DBExecutor) (plan.Plan, error) {
	exe := getExec(repo.exec, exec)

	const query = `
		INSERT INTO plans (title, duration, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := exe.QueryRowxContext(ctx, query, pl.Title, pl.Duration, pl.Price, pl.CreatedAt, pl.UpdatedAt).Scan(&pl.ID); err != nil {
		return plan.Plan{}, errors.Wrap(err, "inserting plan")
	}
	return pl, nil
}

func (repo planRepository) FilterPlans(ctx context.Context, filter plan.QueryFilter, exec ...core.DBExecutor) ([]plan.Plan, int, error) {
	exe := getExec(repo.exec, exec)

	where := `WHERE deleted_at IS NULL`
	args := []interface{}{}
	if filter.Search != "" {
		where += ` AND title ILIKE $1`
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	if err := sqlx.GetContext(ctx, exe, &total, `SELECT count(*) FROM plans `+where, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting plans")
	}

	query := `SELECT id, title, duration, price, deleted_at, created_at, updated_at FROM plans ` + where +
		` ORDER BY id LIMIT ` + itoa(filter.Limit) + ` OFFSET ` + itoa((filter.Page-1)*filter.Limit)
	var rows []planRow
	if err := sqlx.SelectContext(ctx, exe, &rows, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying plans")
	}

	plans := make([]plan.Plan, 0, len(rows))
	for _, r := range rows {
		plans = append(plans, r.toPlan())
	}
	return plans, total, nil
}

func (repo planRepository) GetPlanByID(ctx context.Context, id int, exec ...core.DBExecutor) (plan.Plan, error) {
	exe := getExec(repo.exec, exec)

	var r planRow
	const query = `SELECT id, title, duration, price, deleted_at, created_at, updated_at FROM plans WHERE id = $1`
	if err := sqlx.GetContext(ctx, exe, &r, query, id); err != nil {
		if err == sql.ErrNoRows {
			return plan.Plan{}, plan.ErrNotFound
		}
		return plan.Plan{}, errors.Wrap(err, "finding plan by ID")
	}
	return r.toPlan(), nil
}

func (repo planRepository) UpdatePlan(ctx context.Context, pl plan.Plan, exec ...core.DBExecutor) (plan.Plan, error) {
	exe := getExec(repo.exec, exec)

	const query = `
		UPDATE plans SET title = $1, duration = $2, price = $3, updated_at = $4
		WHERE id = $5`
	if _, err := exe.ExecContext(ctx, query, pl.Title, pl.Duration, pl.Price, pl.UpdatedAt, pl.ID); err != nil {
		return plan.Plan{}, errors.Wrap(err, "updating plan")
	}
	return pl, nil
}

func (repo planRepository) SoftDeletePlan(ctx context.Context, pl plan.Plan, exec ...core.DBExecutor) error {
	exe := getExec(repo.exec, exec)

	const query = `UPDATE plans SET deleted_at = $1, updated_at = $2 WHERE id = $3`
	res, err := exe.ExecContext(ctx, query, pl.DeletedAt, pl.UpdatedAt, pl.ID)
	if err != nil {
		return errors.Wrap(err, "soft-deleting plan")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return plan.ErrNotFound
	}
	return nil
}

package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/checkin"
)

type checkinRepository struct {
	exec core.DBExecutor
}

var _ checkin.Repository = (*checkinRepository)(nil) // interface compliance check

func NewCheckinRepository(db *sqlx.DB) *checkinRepository {
	return &checkinRepository{exec: db}
}

type checkinRow struct {
	ID        int       `db:"id"`
	StudentID int       `db:"student_id"`
	CreatedAt time.Time `db:"created_at"`
}

func (r checkinRow) toCheckin() checkin.Checkin {
	return checkin.Checkin{ID: r.ID, StudentID: r.StudentID, CreatedAt: r.CreatedAt}
}

// LockStudent holds the student's row lock until the surrounding transaction
// ends, so concurrent check-in attempts for one student run one at a time.
func (repo checkinRepository) LockStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) error {
	exe := getExec(repo.exec, exec)

	var id int
	if err := sqlx.GetContext(ctx, exe, &id, `SELECT id FROM students WHERE id = $1 FOR UPDATE`, studentID); err != nil {
		if err == sql.ErrNoRows {
			return checkin.ErrStudentNotFound
		}
		return errors.Wrap(err, "locking student row")
	}
	return nil
}

func (repo checkinRepository) CountCheckinsSince(ctx context.Context, studentID int, since time.Time, exec ...core.DBExecutor) (int, error) {
	exe := getExec(repo.exec, exec)

	var count int
	const query = `SELECT count(*) FROM checkins WHERE student_id = $1 AND created_at >= $2`
	if err := sqlx.GetContext(ctx, exe, &count, query, studentID, since); err != nil {
		return 0, errors.Wrap(err, "counting checkins")
	}
	return count, nil
}

func (repo checkinRepository) CreateCheckin(ctx context.Context, c checkin.Checkin, exec ...core.DBExecutor) (checkin.Checkin, error) {
	exe := getExec(repo.exec, exec)

	const query = `INSERT INTO checkins (student_id, created_at) VALUES ($1, $2) RETURNING id`
	if err := exe.QueryRowxContext(ctx, query, c.StudentID, c.CreatedAt).Scan(&c.ID); err != nil {
		return checkin.Checkin{}, errors.Wrap(err, "inserting checkin")
	}
	return c, nil
}

func (repo checkinRepository) FilterCheckins(ctx context.Context, filter checkin.QueryFilter, exec ...core.DBExecutor) ([]checkin.Checkin, int, error) {
	exe := getExec(repo.exec, exec)

	var exists bool
	if err := sqlx.GetContext(ctx, exe, &exists, `SELECT EXISTS (SELECT 1 FROM students WHERE id = $1)`, filter.StudentID); err != nil {
		return nil, 0, errors.Wrap(err, "checking student")
	}
	if !exists {
		return nil, 0, checkin.ErrStudentNotFound
	}

	var total int
	if err := sqlx.GetContext(ctx, exe, &total, `SELECT count(*) FROM checkins WHERE student_id = $1`, filter.StudentID); err != nil {
		return nil, 0, errors.Wrap(err, "counting checkins")
	}

	query := `SELECT id, student_id, created_at FROM checkins WHERE student_id = $1
		ORDER BY id LIMIT ` + itoa(filter.Limit) + ` OFFSET ` + itoa((filter.Page-1)*filter.Limit)
	var rows []checkinRow
	if err := sqlx.SelectContext(ctx, exe, &rows, query, filter.StudentID); err != nil {
		return nil, 0, errors.Wrap(err, "querying checkins")
	}

	checkins := make([]checkin.Checkin, 0, len(rows))
	for _, r := range rows {
		checkins = append(checkins, r.toCheckin())
	}
	return checkins, total, nil
}

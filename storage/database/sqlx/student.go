package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/student"
)

type studentRepository struct {
	exec core.DBExecutor
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{exec: db}
}

type studentRow struct {
	ID         int         `db:"id"`
	Name       string      `db:"name"`
	Email      string      `db:"email"`
	Age        int         `db:"age"`
	Weight     float64     `db:"weight"`
	Height     float64     `db:"height"`
	AvatarID   null.Int    `db:"avatar_id"`
	AvatarName null.String `db:"avatar_name"`
	AvatarPath null.String `db:"avatar_path"`
	CreatedAt  time.Time   `db:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at"`
}

func (r studentRow) toStudent() student.Student {
	std := student.Student{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Age:       r.Age,
		Weight:    r.Weight,
		Height:    r.Height,
		AvatarID:  r.AvatarID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.AvatarID.Valid {
		std.Avatar = &student.File{
			ID:   int(r.AvatarID.Int),
			Name: r.AvatarName.String,
			Path: r.AvatarPath.String,
		}
	}
	return std
}

const studentSelect = `
	SELECT s.id, s.name, s.email, s.age, s.weight, s.height, s.avatar_id,
	       f.name AS avatar_name, f.path AS avatar_path,
	       s.created_at, s.updated_at
	FROM students s
	LEFT JOIN files f ON f.id = s.avatar_id`

func (repo studentRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedStudents []student.Student, exec ...core.DBExecutor) error {
	exe := getExec(repo.exec, exec)

	query := `SELECT EXISTS (SELECT 1 FROM students WHERE email = ?`
	args := []interface{}{email}
	if len(excludedStudents) > 0 {
		ids := make([]int, 0, len(excludedStudents))
		for _, std := range excludedStudents {
			ids = append(ids, std.ID)
		}
		inQuery, inArgs, err := sqlx.In(` AND id NOT IN (?)`, ids)
		if err != nil {
			return errors.Wrap(err, "building student uniqueness query")
		}
		query += inQuery
		args = append(args, inArgs...)
	}
	query += `)`

	var exists bool
	if err := sqlx.GetContext(ctx, exe, &exists, exe.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking student email uniqueness")
	}
	if exists {
		return student.ErrEmailExists
	}
	return nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, std student.Student, exec ...core.DBExecutor) (student.Student, error) {
	exe := getExec(repo.exec, exec)

	const query = `
		INSERT INTO students (name, email, age, weight, height, avatar_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := exe.QueryRowxContext(ctx, query,
		std.Name, std.Email, std.Age, std.Weight, std.Height, std.AvatarID, std.CreatedAt, std.UpdatedAt,
	).Scan(&std.ID)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter, exec ...core.DBExecutor) ([]student.Student, int, error) {
	exe := getExec(repo.exec, exec)

	where := ``
	args := []interface{}{}
	if filter.Search != "" {
		where = ` WHERE s.name ILIKE $1 OR s.email ILIKE $1`
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	countQuery := `SELECT count(*) FROM students s` + where
	if err := sqlx.GetContext(ctx, exe, &total, countQuery, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting students")
	}

	query := studentSelect + where +
		` ORDER BY s.id LIMIT ` + itoa(filter.Limit) + ` OFFSET ` + itoa((filter.Page-1)*filter.Limit)
	var rows []studentRow
	if err := sqlx.SelectContext(ctx, exe, &rows, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying students")
	}

	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.toStudent())
	}
	return students, total, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id int, exec ...core.DBExecutor) (student.Student, error) {
	exe := getExec(repo.exec, exec)

	var r studentRow
	if err := sqlx.GetContext(ctx, exe, &r, studentSelect+` WHERE s.id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "finding student by ID")
	}
	return r.toStudent(), nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, std student.Student, exec ...core.DBExecutor) (student.Student, error) {
	exe := getExec(repo.exec, exec)

	const query = `
		UPDATE students SET name = $1, email = $2, age = $3, weight = $4, height = $5, avatar_id = $6, updated_at = $7
		WHERE id = $8`
	if _, err := exe.ExecContext(ctx, query,
		std.Name, std.Email, std.Age, std.Weight, std.Height, std.AvatarID, std.UpdatedAt, std.ID,
	); err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return std, nil
}

func (repo studentRepository) DeleteStudentByID(ctx context.Context, id int, exec ...core.DBExecutor) error {
	exe := getExec(repo.exec, exec)

	res, err := exe.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		// 23503 foreign_key_violation: registrations/checkins still reference the student
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return student.ErrHasHistory
		}
		return errors.Wrap(err, "deleting student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.ErrNotFound
	}
	return nil
}

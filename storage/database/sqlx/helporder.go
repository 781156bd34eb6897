package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/helporder"
)

type helpOrderRepository struct {
	exec core.DBExecutor
}

var _ helporder.Repository = (*helpOrderRepository)(nil) // interface compliance check

func NewHelpOrderRepository(db *sqlx.DB) *helpOrderRepository {
	return &helpOrderRepository{exec: db}
}

type helpOrderRow struct {
	ID        int         `db:"id"`
	StudentID int         `db:"student_id"`
	Question  string      `db:"question"`
	Answer    null.String `db:"answer"`
	AnswerAt  null.Time   `db:"answer_at"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (r helpOrderRow) toHelpOrder() helporder.HelpOrder {
	return helporder.HelpOrder{
		ID:        r.ID,
		StudentID: r.StudentID,
		Question:  r.Question,
		Answer:    r.Answer,
		AnswerAt:  r.AnswerAt,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type helpOrderEntryRow struct {
	ID          int         `db:"id"`
	Question    string      `db:"question"`
	Answer      null.String `db:"answer"`
	AnswerAt    null.Time   `db:"answer_at"`
	CreatedAt   time.Time   `db:"created_at"`
	StudentID   int         `db:"student_id"`
	StudentName string      `db:"student_name"`
}

func (r helpOrderEntryRow) toEntry() helporder.Entry {
	return helporder.Entry{
		ID:        r.ID,
		Question:  r.Question,
		Answer:    r.Answer,
		AnswerAt:  r.AnswerAt,
		CreatedAt: r.CreatedAt,
		Student:   helporder.StudentRef{ID: r.StudentID, Name: r.StudentName},
	}
}

func (repo helpOrderRepository) CreateHelpOrder(ctx context.Context, ho helporder.HelpOrder, exec ...core.DBExecutor) (helporder.HelpOrder, error) {
	exe := getExec(repo.exec, exec)

	const query = `
		INSERT INTO help_orders (student_id, question, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := exe.QueryRowxContext(ctx, query, ho.StudentID, ho.Question, ho.CreatedAt, ho.UpdatedAt).Scan(&ho.ID); err != nil {
		return helporder.HelpOrder{}, errors.Wrap(err, "inserting help order")
	}
	return ho, nil
}

func (repo helpOrderRepository) GetHelpOrderByID(ctx context.Context, id int, exec ...core.DBExecutor) (helporder.HelpOrder, error) {
	exe := getExec(repo.exec, exec)

	var r helpOrderRow
	const query = `
		SELECT id, student_id, question, answer, answer_at, created_at, updated_at
		FROM help_orders WHERE id = $1`
	if err := sqlx.GetContext(ctx, exe, &r, query, id); err != nil {
		if err == sql.ErrNoRows {
			return helporder.HelpOrder{}, helporder.ErrNotFound
		}
		return helporder.HelpOrder{}, errors.Wrap(err, "finding help order by ID")
	}
	return r.toHelpOrder(), nil
}

func (repo helpOrderRepository) FilterHelpOrders(ctx context.Context, filter helporder.QueryFilter, exec ...core.DBExecutor) ([]helporder.Entry, int, error) {
	exe := getExec(repo.exec, exec)

	where := ` WHERE true`
	args := []interface{}{}
	if filter.StudentID != 0 {
		args = append(args, filter.StudentID)
		where += ` AND h.student_id = $` + itoa(len(args))
	}
	if filter.Unanswered {
		where += ` AND h.answer IS NULL`
	}

	var total int
	countQuery := `SELECT count(*) FROM help_orders h` + where
	if err := sqlx.GetContext(ctx, exe, &total, countQuery, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting help orders")
	}

	query := `
		SELECT h.id, h.question, h.answer, h.answer_at, h.created_at,
		       s.id AS student_id, s.name AS student_name
		FROM help_orders h
		JOIN students s ON s.id = h.student_id` + where +
		` ORDER BY h.id LIMIT ` + itoa(filter.Limit) + ` OFFSET ` + itoa((filter.Page-1)*filter.Limit)
	var rows []helpOrderEntryRow
	if err := sqlx.SelectContext(ctx, exe, &rows, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying help orders")
	}

	entries := make([]helporder.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.toEntry())
	}
	return entries, total, nil
}

func (repo helpOrderRepository) UpdateHelpOrder(ctx context.Context, ho helporder.HelpOrder, exec ...core.DBExecutor) (helporder.HelpOrder, error) {
	exe := getExec(repo.exec, exec)

	const query = `
		UPDATE help_orders SET answer = $1, answer_at = $2, updated_at = $3
		WHERE id = $4`
	if _, err := exe.ExecContext(ctx, query, ho.Answer, ho.AnswerAt, ho.UpdatedAt, ho.ID); err != nil {
		return helporder.HelpOrder{}, errors.Wrap(err, "updating help order")
	}
	return ho, nil
}

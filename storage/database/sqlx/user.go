package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/user"
)

type userRepository struct {
	exec core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{exec: db}
}

type userRow struct {
	ID           int       `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Admin        bool      `db:"admin"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r userRow) toUser() user.User {
	return user.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Admin:        r.Admin,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

const userSelect = `SELECT id, name, email, admin, password_hash, created_at, updated_at FROM users`

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers []user.User, exec ...core.DBExecutor) error {
	exe := getExec(repo.exec, exec)

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = ?`
	args := []interface{}{email}
	if len(excludedUsers) > 0 {
		ids := make([]int, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		inQuery, inArgs, err := sqlx.In(` AND id NOT IN (?)`, ids)
		if err != nil {
			return errors.Wrap(err, "building user uniqueness query")
		}
		query += inQuery
		args = append(args, inArgs...)
	}
	query += `)`

	var exists bool
	if err := sqlx.GetContext(ctx, exe, &exists, exe.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking user email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	exe := getExec(repo.exec, exec)

	const query = `
		INSERT INTO users (name, email, admin, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := exe.QueryRowxContext(ctx, query,
		usr.Name, usr.Email, usr.Admin, usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt,
	).Scan(&usr.ID)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id int, exec ...core.DBExecutor) (user.User, error) {
	exe := getExec(repo.exec, exec)

	var r userRow
	if err := sqlx.GetContext(ctx, exe, &r, userSelect+` WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	return r.toUser(), nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (user.User, error) {
	exe := getExec(repo.exec, exec)

	var r userRow
	if err := sqlx.GetContext(ctx, exe, &r, userSelect+` WHERE email = $1`, email); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding user by email")
	}
	return r.toUser(), nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	exe := getExec(repo.exec, exec)

	const query = `
		UPDATE users SET name = $1, email = $2, admin = $3, password_hash = $4, updated_at = $5
		WHERE id = $6`
	if _, err := exe.ExecContext(ctx, query,
		usr.Name, usr.Email, usr.Admin, usr.PasswordHash, usr.UpdatedAt, usr.ID,
	); err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return usr, nil
}

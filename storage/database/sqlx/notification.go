package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/notification"
)

type notificationRepository struct {
	exec core.DBExecutor
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *sqlx.DB) *notificationRepository {
	return &notificationRepository{exec: db}
}

type notificationRow struct {
	ID          int       `db:"id"`
	Content     string    `db:"content"`
	HelpOrderID int       `db:"help_order_id"`
	StudentID   int       `db:"student_id"`
	Read        bool      `db:"read"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r notificationRow) toNotification() notification.Notification {
	return notification.Notification{
		ID:          r.ID,
		Content:     r.Content,
		HelpOrderID: r.HelpOrderID,
		StudentID:   r.StudentID,
		Read:        r.Read,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (repo notificationRepository) CreateNotification(ctx context.Context, n notification.Notification, exec ...core.DBExecutor) (notification.Notification, error) {
	exe := getExec(repo.exec, exec)

	const query = `
		INSERT INTO notifications (content, help_order_id, student_id, read, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := exe.QueryRowxContext(ctx, query,
		n.Content, n.HelpOrderID, n.StudentID, n.Read, n.CreatedAt, n.UpdatedAt,
	).Scan(&n.ID)
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return n, nil
}

func (repo notificationRepository) QueryLatestNotifications(ctx context.Context, limit int, exec ...core.DBExecutor) ([]notification.Notification, error) {
	exe := getExec(repo.exec, exec)

	query := `
		SELECT id, content, help_order_id, student_id, read, created_at, updated_at
		FROM notifications
		ORDER BY created_at DESC, id DESC
		LIMIT ` + itoa(limit)
	var rows []notificationRow
	if err := sqlx.SelectContext(ctx, exe, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}

	notifs := make([]notification.Notification, 0, len(rows))
	for _, r := range rows {
		notifs = append(notifs, r.toNotification())
	}
	return notifs, nil
}

func (repo notificationRepository) MarkNotificationRead(ctx context.Context, id int, readAt time.Time, exec ...core.DBExecutor) (notification.Notification, error) {
	exe := getExec(repo.exec, exec)

	var r notificationRow
	const query = `
		UPDATE notifications SET read = true, updated_at = $1
		WHERE id = $2
		RETURNING id, content, help_order_id, student_id, read, created_at, updated_at`
	if err := exe.QueryRowxContext(ctx, query, readAt, id).StructScan(&r); err != nil {
		if err == sql.ErrNoRows {
			return notification.Notification{}, notification.ErrNotFound
		}
		return notification.Notification{}, errors.Wrap(err, "marking notification read")
	}
	return r.toNotification(), nil
}

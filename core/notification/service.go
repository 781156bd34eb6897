package notification

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/gympoint/backend/core"
)

var ErrNotFound = core.NewValidationError(errors.New("Notification does not exist."))

// latestLimit caps the admin notification feed.
const latestLimit = 20

type (
	Repository interface {
		CreateNotification(ctx context.Context, n Notification, exec ...core.DBExecutor) (Notification, error)
		// QueryLatestNotifications returns the newest notifications first.
		QueryLatestNotifications(ctx context.Context, limit int, exec ...core.DBExecutor) ([]Notification, error)
		MarkNotificationRead(ctx context.Context, id int, readAt time.Time, exec ...core.DBExecutor) (Notification, error)
	}

	ServiceInterface interface {
		NotifyHelpOrder(ctx context.Context, content string, helpOrderID, studentID int) error
		QueryLatest(ctx context.Context) ([]Notification, error)
		MarkRead(ctx context.Context, id int) (Notification, error)
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

func (svc *Service) NotifyHelpOrder(ctx context.Context, content string, helpOrderID, studentID int) error {
	now := svc.clock.Now()
	_, err := svc.repo.CreateNotification(ctx, Notification{
		Content:     content,
		HelpOrderID: helpOrderID,
		StudentID:   studentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	return err
}

func (svc *Service) QueryLatest(ctx context.Context) ([]Notification, error) {
	return svc.repo.QueryLatestNotifications(ctx, latestLimit)
}

func (svc *Service) MarkRead(ctx context.Context, id int) (Notification, error) {
	return svc.repo.MarkNotificationRead(ctx, id, svc.clock.Now())
}

package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/notification"
)

type notificationRepository struct {
	db *DB
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (repo notificationRepository) CreateNotification(_ context.Context, n notification.Notification, _ ...core.DBExecutor) (notification.Notification, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.notificationSeq++
	n.ID = repo.db.notificationSeq
	repo.db.notifications[n.ID] = n
	return n, nil
}

func (repo notificationRepository) QueryLatestNotifications(_ context.Context, limit int, _ ...core.DBExecutor) ([]notification.Notification, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	notifs := make([]notification.Notification, 0, len(repo.db.notifications))
	for _, n := range repo.db.notifications {
		notifs = append(notifs, n)
	}
	sort.Slice(notifs, func(i, j int) bool {
		if !notifs[i].CreatedAt.Equal(notifs[j].CreatedAt) {
			return notifs[i].CreatedAt.After(notifs[j].CreatedAt)
		}
		return notifs[i].ID > notifs[j].ID
	})
	if len(notifs) > limit {
		notifs = notifs[:limit]
	}
	return notifs, nil
}

func (repo notificationRepository) MarkNotificationRead(_ context.Context, id int, readAt time.Time, _ ...core.DBExecutor) (notification.Notification, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	n, ok := repo.db.notifications[id]
	if !ok {
		return notification.Notification{}, notification.ErrNotFound
	}
	n.Read = true
	n.UpdatedAt = readAt
	repo.db.notifications[id] = n
	return n, nil
}

package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/checkin"
)

type checkinRepository struct {
	db *DB
}

var _ checkin.Repository = (*checkinRepository)(nil) // interface compliance check

func NewCheckinRepository(db *DB) *checkinRepository {
	return &checkinRepository{db: db}
}

func (repo checkinRepository) LockStudent(_ context.Context, studentID int, _ ...core.DBExecutor) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	// the Transactor's mutex already serializes callers; resolving the
	// student is all that remains of the row lock
	if _, ok := repo.db.students[studentID]; !ok {
		return checkin.ErrStudentNotFound
	}
	return nil
}

func (repo checkinRepository) CountCheckinsSince(_ context.Context, studentID int, since time.Time, _ ...core.DBExecutor) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	count := 0
	for _, c := range repo.db.checkins {
		if c.StudentID == studentID && !c.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (repo checkinRepository) CreateCheckin(_ context.Context, c checkin.Checkin, _ ...core.DBExecutor) (checkin.Checkin, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.checkinSeq++
	c.ID = repo.db.checkinSeq
	repo.db.checkins[c.ID] = c
	return c, nil
}

func (repo checkinRepository) FilterCheckins(_ context.Context, filter checkin.QueryFilter, _ ...core.DBExecutor) ([]checkin.Checkin, int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if _, ok := repo.db.students[filter.StudentID]; !ok {
		return nil, 0, checkin.ErrStudentNotFound
	}

	matches := make([]checkin.Checkin, 0, len(repo.db.checkins))
	for _, c := range repo.db.checkins {
		if c.StudentID == filter.StudentID {
			matches = append(matches, c)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	total := len(matches)
	lo, hi := pageBounds(total, filter.Page, filter.Limit)
	return matches[lo:hi], total, nil
}

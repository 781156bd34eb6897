package inmem

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/registration"
)

type registrationRepository struct {
	db *DB
}

var _ registration.Repository = (*registrationRepository)(nil) // interface compliance check

func NewRegistrationRepository(db *DB) *registrationRepository {
	return &registrationRepository{db: db}
}

func (repo registrationRepository) CreateRegistration(_ context.Context, reg registration.Registration, _ ...core.DBExecutor) (registration.Registration, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.registrationSeq++
	reg.ID = repo.db.registrationSeq
	repo.db.registrations[reg.ID] = reg
	return reg, nil
}

func (repo registrationRepository) FilterRegistrations(_ context.Context, filter registration.QueryFilter, _ ...core.DBExecutor) ([]registration.Entry, int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matches := make([]registration.Entry, 0, len(repo.db.registrations))
	for _, reg := range repo.db.registrations {
		std := repo.db.students[reg.StudentID]
		if search != "" && !strings.Contains(strings.ToLower(std.Name), search) {
			continue
		}
		pl := repo.db.plans[reg.PlanID]
		matches = append(matches, registration.Entry{
			ID:        reg.ID,
			StartDate: reg.StartDate,
			EndDate:   reg.EndDate,
			Price:     reg.Price,
			Student:   registration.StudentRef{ID: std.ID, Name: std.Name},
			Plan:      registration.PlanRef{ID: pl.ID, Title: pl.Title},
		})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	total := len(matches)
	lo, hi := pageBounds(total, filter.Page, filter.Limit)
	return matches[lo:hi], total, nil
}

func (repo registrationRepository) GetRegistrationByID(_ context.Context, id int, _ ...core.DBExecutor) (registration.Registration, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	reg, ok := repo.db.registrations[id]
	if !ok {
		return registration.Registration{}, registration.ErrNotFound
	}
	return reg, nil
}

func (repo registrationRepository) UpdateRegistration(_ context.Context, reg registration.Registration, _ ...core.DBExecutor) (registration.Registration, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.registrations[reg.ID]; !ok {
		return registration.Registration{}, registration.ErrNotFound
	}
	repo.db.registrations[reg.ID] = reg
	return reg, nil
}

func (repo registrationRepository) DeleteRegistrationByID(_ context.Context, id int, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.registrations[id]; !ok {
		return registration.ErrNotFound
	}
	delete(repo.db.registrations, id)
	return nil
}

func (repo registrationRepository) HasActiveRegistration(_ context.Context, studentID int, at time.Time, _ ...core.DBExecutor) (bool, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, reg := range repo.db.registrations {
		if reg.StudentID == studentID && reg.IsActiveAt(at) {
			return true, nil
		}
	}
	return false, nil
}
